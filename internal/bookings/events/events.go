package events

import (
	"context"
	"time"

	"slotsmith/pkg/kafka"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

const (
	EventBookingCreated     = "booking.created"
	EventBookingConfirmed   = "booking.confirmed"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingRescheduled = "booking.rescheduled"

	eventSource = "slotsmith-server"
)

// BookingEvent is the payload published on every lifecycle change.
type BookingEvent struct {
	BookingID    string     `json:"booking_id"`
	SlotTime     time.Time  `json:"slot_time"`
	PrevSlotTime *time.Time `json:"prev_slot_time,omitempty"`
	Status       string     `json:"status"`
	ClientName   string     `json:"client_name"`
	ClientEmail  string     `json:"client_email"`
	ClientPhone  string     `json:"client_phone,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// EventPublisher decouples the booking service from the broker. Publishing is
// best effort: a broker outage never fails the booking write.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, event BookingEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	logger   *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) EventPublisher {
	return &kafkaPublisher{
		producer: producer,
		logger:   log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, event BookingEvent) error {
	event.OccurredAt = time.Now().UTC()

	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.logger.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", event.BookingID,
			"error", err)
		return err
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher drops events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, BookingEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

// FromBooking builds the event payload for a booking snapshot.
func FromBooking(b *model.Booking) BookingEvent {
	return BookingEvent{
		BookingID:   b.ID,
		SlotTime:    b.SlotTime,
		Status:      b.Status,
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		ClientPhone: b.ClientPhone,
	}
}
