package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
)

const (
	// TopicVerificationReviewed carries a models.ReviewOutcome for every committed review decision
	TopicVerificationReviewed = "verification.reviewed"

	publishTimeout = 10 * time.Second
)

type Producer interface {
	ProduceMessage(ctx context.Context, topic, key string, value []byte) error
}

// KafkaNotifier hands review outcomes to the event stream; delivery to the seller happens
// in the consumer
type KafkaNotifier struct {
	producer Producer
}

func NewKafkaNotifier(producer Producer) *KafkaNotifier {
	return &KafkaNotifier{producer: producer}
}

func (n *KafkaNotifier) NotifyReviewed(ctx context.Context, outcome models.ReviewOutcome) error {
	value, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encode review outcome: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// keyed by seller so one seller's outcomes stay in order
	return n.producer.ProduceMessage(ctx, TopicVerificationReviewed, outcome.SellerID, value)
}
