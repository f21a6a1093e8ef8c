package notifier

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"slotsmith/internal/bookings/events"
	"slotsmith/pkg/kafka"
	"slotsmith/pkg/logger"
)

type captureSink struct {
	recipient string
	subject   string
	body      string
	calls     int
}

func (s *captureSink) Deliver(_ context.Context, recipient, subject, body string) error {
	s.recipient = recipient
	s.subject = subject
	s.body = body
	s.calls++
	return nil
}

func eventMessage(t *testing.T, eventType string, event events.BookingEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return kafka.Message{
		Key:   event.BookingID,
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventType: eventType,
		},
	}
}

func testNotifier(sink Sink) *Notifier {
	return New(sink, logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}))
}

func TestHandleMessageConfirmed(t *testing.T) {
	sink := &captureSink{}
	n := testNotifier(sink)

	event := events.BookingEvent{
		BookingID:   "65a000000000000000000001",
		SlotTime:    time.Date(2026, 9, 15, 13, 0, 0, 0, time.UTC),
		Status:      "confirmed",
		ClientName:  "Dana Whitfield",
		ClientEmail: "dana@example.com",
	}

	if err := n.HandleMessage(context.Background(), eventMessage(t, events.EventBookingConfirmed, event)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("Deliver called %d times, want 1", sink.calls)
	}
	if sink.recipient != "dana@example.com" {
		t.Errorf("recipient = %q", sink.recipient)
	}
	if sink.subject != "Booking confirmed" {
		t.Errorf("subject = %q", sink.subject)
	}
	if !strings.Contains(sink.body, "Dana Whitfield") {
		t.Errorf("body %q does not mention the client name", sink.body)
	}
}

func TestHandleMessageRescheduledMentionsPreviousSlot(t *testing.T) {
	sink := &captureSink{}
	n := testNotifier(sink)

	prev := time.Date(2026, 9, 15, 13, 0, 0, 0, time.UTC)
	event := events.BookingEvent{
		BookingID:    "65a000000000000000000001",
		SlotTime:     time.Date(2026, 9, 16, 14, 0, 0, 0, time.UTC),
		PrevSlotTime: &prev,
		ClientName:   "Dana Whitfield",
		ClientEmail:  "dana@example.com",
	}

	if err := n.HandleMessage(context.Background(), eventMessage(t, events.EventBookingRescheduled, event)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(sink.body, "previously") {
		t.Errorf("body %q does not mention the previous slot", sink.body)
	}
}

func TestHandleMessageUnknownEventTypeIgnored(t *testing.T) {
	sink := &captureSink{}
	n := testNotifier(sink)

	event := events.BookingEvent{BookingID: "65a000000000000000000001", ClientEmail: "dana@example.com"}

	if err := n.HandleMessage(context.Background(), eventMessage(t, "booking.archived", event)); err != nil {
		t.Fatalf("HandleMessage() error = %v, want nil for unknown event type", err)
	}
	if sink.calls != 0 {
		t.Errorf("Deliver called %d times, want 0", sink.calls)
	}
}

func TestHandleMessageBadPayloadErrors(t *testing.T) {
	sink := &captureSink{}
	n := testNotifier(sink)

	msg := kafka.Message{
		Value:   []byte("{not json"),
		Headers: map[string]string{kafka.HeaderEventType: events.EventBookingCreated},
	}

	if err := n.HandleMessage(context.Background(), msg); err == nil {
		t.Error("HandleMessage() error = nil, want decode error")
	}
}
