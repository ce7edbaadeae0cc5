// Package events publishes session lifecycle events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeSessionStarted = "session.started"
	TypeSessionEnded   = "session.ended"
)

// SessionEvent is the JSON payload written for every lifecycle transition.
type SessionEvent struct {
	Type        string     `json:"type"`
	SessionID   string     `json:"sessionId"`
	UserID      string     `json:"userId"`
	CardID      string     `json:"cardId"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	TickCount   *int64     `json:"tickCount,omitempty"`
	Distance    *float64   `json:"distance,omitempty"`
	Calories    *float64   `json:"calories,omitempty"`
	AvgSpeedKmh *float64   `json:"avgSpeed,omitempty"`
	OccurredAt  time.Time  `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event SessionEvent) error
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, SessionEvent) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic, keyed by user id so one user's
// events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event SessionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
