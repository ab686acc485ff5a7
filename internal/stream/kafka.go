package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

type KafkaStream struct {
	kafkaServers string
	logger       *slog.Logger

	mu       sync.Mutex
	producer *kafka.Producer
}

func New(kafkaServers string, logger *slog.Logger) *KafkaStream {
	return &KafkaStream{
		kafkaServers: kafkaServers,
		logger:       logger,
	}
}

// getProducer creates the shared producer on first use
func (st *KafkaStream) getProducer() (*kafka.Producer, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.producer != nil {
		return st.producer, nil
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  st.kafkaServers,
		"enable.idempotence": true,
	})
	if err != nil {
		return nil, err
	}

	// delivery reports go to per-message channels, anything left here is a client level error
	go func() {
		for e := range producer.Events() {
			if kerr, ok := e.(kafka.Error); ok {
				st.logger.Error("kafka producer error", "error", kerr.Error())
			}
		}
	}()

	st.producer = producer
	return producer, nil
}

// ProduceMessage publishes value under key and waits for the broker to acknowledge it
func (st *KafkaStream) ProduceMessage(ctx context.Context, topic, key string, value []byte) error {
	producer, err := st.getProducer()
	if err != nil {
		return err
	}

	delivery := make(chan kafka.Event, 1)

	err = producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          value,
	}, delivery)
	if err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}

	select {
	case e := <-delivery:
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("produce to %s: unexpected delivery event %v", topic, e)
		}
		if msg.TopicPartition.Error != nil {
			return fmt.Errorf("deliver to %s: %w", topic, msg.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	st.logger.Debug("message delivered", "topic", topic, "key", key)
	return nil
}

type StreamConsumer struct {
	GroupId string
	Topic   string
}

func (st *KafkaStream) CreateConsumer(consumerStruct *StreamConsumer) (*kafka.Consumer, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": st.kafkaServers,
		"group.id":          consumerStruct.GroupId,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(consumerStruct.Topic, nil); err != nil {
		consumer.Close()
		return nil, err
	}

	return consumer, nil
}

// Close flushes pending messages for up to five seconds and releases the producer
func (st *KafkaStream) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.producer == nil {
		return
	}

	if remaining := st.producer.Flush(5000); remaining > 0 {
		st.logger.Warn("kafka producer closed with undelivered messages", "count", remaining)
	}
	st.producer.Close()
	st.producer = nil
}
