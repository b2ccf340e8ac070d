package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler processes one decoded slot event.
type Handler func(ctx context.Context, event SlotEvent) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads slot events from the topic until the context is canceled or
// the handler fails. Messages that do not decode as a SlotEvent are logged
// and skipped rather than wedging the consumer group on a poison message.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := dispatch(ctx, msg, handler); err != nil {
			return err
		}
	}
}

func dispatch(ctx context.Context, msg kafka.Message, handler Handler) error {
	var event SlotEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("skip undecodable message at offset %d: %v", msg.Offset, err)
		return nil
	}
	return handler(ctx, event)
}
