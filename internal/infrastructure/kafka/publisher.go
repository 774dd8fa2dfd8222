package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type PaymentEventPublisher interface {
	Publish(ctx context.Context, event PaymentEvent) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event PaymentEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.CollectRequestID),
		Value: msg,
		Time:  time.Now(),
	})
}

// NoopPublisher is used when kafka is disabled in config.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event PaymentEvent) error { return nil }
