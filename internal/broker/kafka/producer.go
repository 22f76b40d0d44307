// Package kafka publishes domain events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/pkordes/serra-caronas/internal/domain"
)

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Producer writes domain events as JSON messages keyed by the event key, so
// every event about one listing lands on the same partition in order.
type Producer struct {
	w     writer
	topic string
}

// NewProducer returns a Producer writing to topic on brokers.
func NewProducer(brokers []string, topic string) *Producer {
	return newProducerWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}, topic)
}

func newProducerWithWriter(w writer, topic string) *Producer {
	return &Producer{w: w, topic: topic}
}

// message is the wire form of a domain.Event.
type message struct {
	Event      string    `json:"event"`
	Key        string    `json:"key"`
	Kind       string    `json:"kind,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Score      int       `json:"score,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publish encodes e and writes it to the configured topic.
func (p *Producer) Publish(ctx context.Context, e domain.Event) error {
	value, err := json.Marshal(message{
		Event:      e.Name,
		Key:        e.Key,
		Kind:       string(e.Kind),
		UserID:     e.UserID,
		From:       string(e.From),
		To:         string(e.To),
		Score:      e.Score,
		OccurredAt: e.OccurredAt.UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "kafka encode")
	}

	if err := p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(e.Key),
		Value: value,
	}); err != nil {
		return errors.Wrap(err, "kafka publish")
	}
	return nil
}

// Close flushes pending messages.
func (p *Producer) Close() error {
	if c, ok := p.w.(interface{ Close() error }); ok {
		return errors.Wrap(c.Close(), "kafka close")
	}
	return nil
}
