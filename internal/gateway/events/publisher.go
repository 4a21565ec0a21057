package events

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"storefront/internal/entities"
)

// Publisher writes status changes to Kafka keyed by order id, so the changes of one order
// stay ordered within a partition.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewPublisher(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, event entities.OrderStatusChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := Encode(event)
	if err != nil {
		return fmt.Errorf("encode status change: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("send status change for order %s: %w", event.OrderID, err)
	}
	return nil
}

// Discard drops every event. It stands in for the publisher when Kafka is disabled.
type Discard struct{}

func (Discard) PublishStatusChanged(context.Context, entities.OrderStatusChanged) error {
	return nil
}
