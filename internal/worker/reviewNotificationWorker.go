// Review decisions are committed synchronously by the admin endpoint and published to
// notification.TopicVerificationReviewed. This worker turns each event into an email
// to the seller.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/notification"
	"github.com/cradoe/sellerverify/internal/stream"
)

func (wk *Worker) ReviewNotificationWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: reviewNotificationGroupID,
		Topic:   notification.TopicVerificationReviewed,
	})
	if err != nil {
		wk.Logger.Error("review notification consumer not started", "error", err)
		return
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			wk.Logger.Info("review notification worker stopping")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				if err := wk.handleReviewed(wk.Ctx, e.Value); err != nil {
					wk.Logger.Error("review notification failed", "error", err, "offset", e.TopicPartition.Offset.String())
				}
			case kafka.Error:
				wk.Logger.Error("review notification consumer error", "error", e.Error())
			case kafka.AssignedPartitions:
				consumer.Assign(e.Partitions)
			case kafka.RevokedPartitions:
				consumer.Unassign()
			}
		}
	}
}

// handleReviewed emails the seller about one decision. A seller who no longer exists is skipped.
func (wk *Worker) handleReviewed(ctx context.Context, value []byte) error {
	var outcome models.ReviewOutcome
	if err := json.Unmarshal(value, &outcome); err != nil {
		return fmt.Errorf("decode review outcome: %w", err)
	}

	seller, found, err := wk.Users.GetOne(ctx, outcome.SellerID)
	if err != nil {
		return fmt.Errorf("find seller %s: %w", outcome.SellerID, err)
	}
	if !found {
		wk.Logger.Warn("review outcome for unknown seller", "seller_id", outcome.SellerID, "event_id", outcome.EventID)
		return nil
	}

	emailData := wk.Helper.NewEmailData()
	emailData["Name"] = seller.FirstName
	emailData["Level"] = outcome.Level
	emailData["Approved"] = outcome.Decision == models.DecisionApprove
	emailData["ReviewedAt"] = outcome.ReviewedAt
	if outcome.Reason != nil {
		emailData["Reason"] = *outcome.Reason
	}

	if err := wk.Mailer.Send(seller.Email, emailData, "verification-reviewed.tmpl"); err != nil {
		return fmt.Errorf("email seller %s: %w", outcome.SellerID, err)
	}

	wk.Logger.Info("review notification sent", "seller_id", outcome.SellerID, "event_id", outcome.EventID)
	return nil
}
