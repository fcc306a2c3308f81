// Package events is the pub/sub edge of the booking core: a Kafka writer
// that broadcasts booking events to live-client gateways, and a reader that
// reacts to directory events from the vehicle and party subsystems.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"rentaride-backend/internal/domain"
)

type EventType string

const (
	EventBookingRequested EventType = "booking.requested"
	EventBookingAccepted  EventType = "booking.accepted"
	EventBookingRevision  EventType = "booking.revision_required"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
	EventNotification     EventType = "notification.created"
)

// BookingEvent is the wire shape broadcast on the event topic. Delivery is
// best-effort; no consumer acknowledgement is awaited.
type BookingEvent struct {
	EventID   string           `json:"event_id"`
	Type      EventType        `json:"type"`
	BookingID int32            `json:"booking_id,omitempty"`
	Recipient domain.Recipient `json:"recipient"`
	Title     string           `json:"title,omitempty"`
	Message   string           `json:"message,omitempty"`
	EmittedOn time.Time        `json:"emitted_on"`
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers, topic string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.EmittedOn.IsZero() {
		event.EmittedOn = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EventID),
		Value: payload,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
