// internal/infrastructure/events/producer.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/your-org/boutique-backend/internal/config"
)

// OrderEvent is the payload published for order lifecycle changes
type OrderEvent struct {
	Type    string    `json:"type"` // "order.created" or "order.status_changed"
	OrderID uint      `json:"order_id"`
	Store   string    `json:"store"`
	Status  string    `json:"status"`
	IsBulk  bool      `json:"is_bulk"`
	At      time.Time `json:"at"`
}

// Producer publishes order events to Kafka
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Kafka producer, or nil when event streaming is disabled
func NewProducer(cfg *config.Config) *Producer {
	if !cfg.Kafka.Enabled {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &Producer{writer: writer}
}

// Publish sends an event keyed by the order ID
func (p *Producer) Publish(ctx context.Context, event OrderEvent) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%d", event.OrderID)),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: failed to publish %s: %w", event.Type, err)
	}

	return nil
}

// Close flushes and closes the underlying writer
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
