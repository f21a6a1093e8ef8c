package notifier

import (
	"context"
	"fmt"
	"time"

	"slotsmith/internal/bookings/events"
	"slotsmith/pkg/kafka"
	"slotsmith/pkg/logger"
)

// Notifier turns booking lifecycle events into client notifications. The
// delivery channel is pluggable; the default sink writes structured log
// entries, which is enough for operators tailing the notifier in dev.
type Notifier struct {
	sink Sink
	log  *logger.Logger
}

// Sink delivers one rendered notification.
type Sink interface {
	Deliver(ctx context.Context, recipient, subject, body string) error
}

func New(sink Sink, log *logger.Logger) *Notifier {
	return &Notifier{
		sink: sink,
		log:  log,
	}
}

// HandleMessage is the kafka.MessageHandler for the booking events topic.
func (n *Notifier) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode booking event: %w", err)
	}

	eventType := msg.GetEventType()
	subject, body, ok := render(eventType, event)
	if !ok {
		n.log.Warn("Ignoring unknown event type", "event_type", eventType, "event_id", msg.GetEventID())
		return nil
	}

	if err := n.sink.Deliver(ctx, event.ClientEmail, subject, body); err != nil {
		return fmt.Errorf("failed to deliver %s notification: %w", eventType, err)
	}

	n.log.Info("Notification delivered",
		"event_type", eventType,
		"booking_id", event.BookingID,
		"recipient", event.ClientEmail)
	return nil
}

func render(eventType string, event events.BookingEvent) (subject, body string, ok bool) {
	slot := event.SlotTime.Format(time.RFC1123)

	switch eventType {
	case events.EventBookingCreated:
		return "Booking request received",
			fmt.Sprintf("Hi %s, we received your booking request for %s. You will get a confirmation shortly.", event.ClientName, slot),
			true
	case events.EventBookingConfirmed:
		return "Booking confirmed",
			fmt.Sprintf("Hi %s, your booking for %s is confirmed.", event.ClientName, slot),
			true
	case events.EventBookingCancelled:
		return "Booking cancelled",
			fmt.Sprintf("Hi %s, your booking for %s has been cancelled.", event.ClientName, slot),
			true
	case events.EventBookingRescheduled:
		prev := ""
		if event.PrevSlotTime != nil {
			prev = fmt.Sprintf(" (previously %s)", event.PrevSlotTime.Format(time.RFC1123))
		}
		return "Booking rescheduled",
			fmt.Sprintf("Hi %s, your booking has been moved to %s%s.", event.ClientName, slot, prev),
			true
	}
	return "", "", false
}

// LogSink is the default delivery channel.
type LogSink struct {
	Log *logger.Logger
}

func (s LogSink) Deliver(_ context.Context, recipient, subject, body string) error {
	s.Log.Info("Outbound notification",
		"recipient", recipient,
		"subject", subject,
		"body", body)
	return nil
}
