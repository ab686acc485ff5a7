package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cradoe/sellerverify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	topic string
	key   string
	value []byte
	err   error
}

func (p *recordingProducer) ProduceMessage(ctx context.Context, topic, key string, value []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	p.topic, p.key, p.value = topic, key, value
	return p.err
}

func TestKafkaNotifier_NotifyReviewed(t *testing.T) {
	producer := &recordingProducer{}
	notifier := NewKafkaNotifier(producer)

	reason := "blurry ID"
	outcome := models.ReviewOutcome{
		EventID:        "evt-1",
		SellerID:       "seller-1",
		VerificationID: "rec-1",
		Decision:       models.DecisionReject,
		Level:          models.LevelStandard,
		Reason:         &reason,
		ReviewedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, notifier.NotifyReviewed(context.Background(), outcome))
	assert.Equal(t, TopicVerificationReviewed, producer.topic)
	assert.Equal(t, "seller-1", producer.key)

	var decoded models.ReviewOutcome
	require.NoError(t, json.Unmarshal(producer.value, &decoded))
	assert.Equal(t, outcome, decoded)
}

func TestKafkaNotifier_PropagatesProducerError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker unavailable")}

	err := NewKafkaNotifier(producer).NotifyReviewed(context.Background(), models.ReviewOutcome{SellerID: "seller-1"})
	require.EqualError(t, err, "broker unavailable")
}
