package service

import (
	"context"
	"io"
	"testing"
	"time"

	bookingerrors "slotsmith/internal/bookings/errors"
	"slotsmith/internal/bookings/events"
	"slotsmith/internal/bookings/repository"
	"slotsmith/internal/bookings/validator"
	"slotsmith/pkg/config"
	mongotx "slotsmith/pkg/db/mongo"
	apperrors "slotsmith/pkg/errors"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

type mockBookingRepository struct {
	createFunc             func(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	findByIDFunc           func(ctx context.Context, id string) (*model.Booking, error)
	findActiveInWindowFunc func(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	findAllFunc            func(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	updateStatusFunc       func(ctx context.Context, id, status string) (*model.Booking, error)
	updateSlotFunc         func(ctx context.Context, id string, slotTime time.Time) (*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	return m.createFunc(ctx, b)
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockBookingRepository) FindActiveInWindow(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	return m.findActiveInWindowFunc(ctx, from, to)
}

func (m *mockBookingRepository) FindAll(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.findAllFunc(ctx, filter, limit, offset)
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	return m.updateStatusFunc(ctx, id, status)
}

func (m *mockBookingRepository) UpdateSlot(ctx context.Context, id string, slotTime time.Time) (*model.Booking, error) {
	return m.updateSlotFunc(ctx, id, slotTime)
}

func (m *mockBookingRepository) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockChecker struct {
	available bool
	err       error
	calls     int
}

func (m *mockChecker) IsSlotAvailable(_ context.Context, _ time.Time) (bool, error) {
	m.calls++
	return m.available, m.err
}

type capturingPublisher struct {
	eventTypes []string
	events     []events.BookingEvent
}

func (p *capturingPublisher) Publish(_ context.Context, eventType string, event events.BookingEvent) error {
	p.eventTypes = append(p.eventTypes, eventType)
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func newTestService(repo *mockBookingRepository, checker SlotChecker, publisher events.EventPublisher) *BookingService {
	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	cfg := &config.Config{Log: log}
	return NewBookingService(repo, validator.NewBookingValidator(log), checker, publisher, cfg)
}

func validBooking() *model.Booking {
	return &model.Booking{
		SlotTime:    time.Date(2026, 9, 14, 14, 0, 0, 0, time.UTC),
		ClientName:  "Dana Whitfield",
		ClientEmail: "Dana.Whitfield@Example.com",
		ClientPhone: "+12125550123",
	}
}

func TestCreatePendingBooking(t *testing.T) {
	publisher := &capturingPublisher{}
	repo := &mockBookingRepository{
		createFunc: func(_ context.Context, b *model.Booking) (*model.Booking, error) {
			b.ID = "65a000000000000000000001"
			return b, nil
		},
	}

	svc := newTestService(repo, &mockChecker{available: true}, publisher)

	created, err := svc.Create(context.Background(), validBooking(), config.Pending)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Status != config.Pending {
		t.Errorf("Status = %q, want %q", created.Status, config.Pending)
	}
	if created.ClientEmail != "dana.whitfield@example.com" {
		t.Errorf("ClientEmail = %q, want lowercased", created.ClientEmail)
	}
	if len(publisher.eventTypes) != 1 || publisher.eventTypes[0] != events.EventBookingCreated {
		t.Errorf("published events = %v, want [%s]", publisher.eventTypes, events.EventBookingCreated)
	}
}

func TestCreateWalkInStartsConfirmed(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(_ context.Context, b *model.Booking) (*model.Booking, error) {
			return b, nil
		},
	}
	svc := newTestService(repo, &mockChecker{available: true}, events.NoopPublisher{})

	created, err := svc.Create(context.Background(), validBooking(), config.Confirmed)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Status != config.Confirmed {
		t.Errorf("Status = %q, want %q", created.Status, config.Confirmed)
	}
}

func TestCreateUnavailableSlotConflicts(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(_ context.Context, _ *model.Booking) (*model.Booking, error) {
			t.Fatal("repository Create should not be called")
			return nil, nil
		},
	}
	svc := newTestService(repo, &mockChecker{available: false}, events.NoopPublisher{})

	_, err := svc.Create(context.Background(), validBooking(), config.Pending)
	if err == nil {
		t.Fatal("Create() error = nil, want AppError")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 409 {
		t.Errorf("StatusCode() = %d, want 409", appErr.StatusCode())
	}
}

// Two clients race for the same instant. The loser passes the availability
// pre-check but hits the unique index on insert and must get a conflict, not
// an internal error.
func TestCreateConcurrentDuplicateConflicts(t *testing.T) {
	publisher := &capturingPublisher{}
	repo := &mockBookingRepository{
		createFunc: func(_ context.Context, _ *model.Booking) (*model.Booking, error) {
			return nil, bookingerrors.ErrSlotTaken
		},
	}
	svc := newTestService(repo, &mockChecker{available: true}, publisher)

	_, err := svc.Create(context.Background(), validBooking(), config.Pending)
	if err == nil {
		t.Fatal("Create() error = nil, want AppError")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 409 {
		t.Errorf("StatusCode() = %d, want 409", appErr.StatusCode())
	}
	if len(publisher.eventTypes) != 0 {
		t.Errorf("published events = %v, want none", publisher.eventTypes)
	}
}

func TestCreateInvalidBookingRejected(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockChecker{available: true}, events.NoopPublisher{})

	tests := []struct {
		name   string
		mutate func(*model.Booking)
	}{
		{"missing name", func(b *model.Booking) { b.ClientName = "" }},
		{"bad email", func(b *model.Booking) { b.ClientEmail = "not-an-email" }},
		{"bad phone", func(b *model.Booking) { b.ClientPhone = "12345" }},
		{"zero slot time", func(b *model.Booking) { b.SlotTime = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)

			_, err := svc.Create(context.Background(), booking, config.Pending)
			if err == nil {
				t.Fatal("Create() error = nil, want AppError")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.StatusCode() != 422 {
				t.Errorf("StatusCode() = %d, want 422", appErr.StatusCode())
			}
		})
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name       string
		from       string
		to         string
		wantStatus int
	}{
		{"pending to confirmed", config.Pending, config.Confirmed, 0},
		{"pending to cancelled", config.Pending, config.Cancelled, 0},
		{"confirmed to cancelled", config.Confirmed, config.Cancelled, 0},
		{"confirmed to confirmed", config.Confirmed, config.Confirmed, 409},
		{"cancelled to confirmed", config.Cancelled, config.Confirmed, 409},
		{"cancelled to cancelled", config.Cancelled, config.Cancelled, 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepository{
				findByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
					b := validBooking()
					b.ID = id
					b.Status = tt.from
					return b, nil
				},
				updateStatusFunc: func(_ context.Context, id, status string) (*model.Booking, error) {
					b := validBooking()
					b.ID = id
					b.Status = status
					return b, nil
				},
			}
			svc := newTestService(repo, &mockChecker{available: true}, events.NoopPublisher{})

			updated, err := svc.UpdateStatus(context.Background(),
				"65a000000000000000000001",
				&model.BookingStatusUpdate{Status: tt.to})

			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("UpdateStatus() error = %v", err)
				}
				if updated.Status != tt.to {
					t.Errorf("Status = %q, want %q", updated.Status, tt.to)
				}
				return
			}

			if err == nil {
				t.Fatal("UpdateStatus() error = nil, want AppError")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", appErr.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestRescheduleHappyPath(t *testing.T) {
	publisher := &capturingPublisher{}
	oldSlot := time.Date(2026, 9, 14, 14, 0, 0, 0, time.UTC)
	newSlot := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

	repo := &mockBookingRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
			b := validBooking()
			b.ID = id
			b.Status = config.Confirmed
			b.SlotTime = oldSlot
			return b, nil
		},
		updateSlotFunc: func(_ context.Context, id string, slotTime time.Time) (*model.Booking, error) {
			b := validBooking()
			b.ID = id
			b.Status = config.Confirmed
			b.SlotTime = slotTime
			return b, nil
		},
	}
	svc := newTestService(repo, &mockChecker{available: true}, publisher)

	updated, err := svc.Reschedule(context.Background(),
		"65a000000000000000000001",
		&model.BookingReschedule{SlotTime: newSlot})
	if err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}
	if !updated.SlotTime.Equal(newSlot) {
		t.Errorf("SlotTime = %v, want %v", updated.SlotTime, newSlot)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.events))
	}
	if publisher.eventTypes[0] != events.EventBookingRescheduled {
		t.Errorf("event type = %q, want %q", publisher.eventTypes[0], events.EventBookingRescheduled)
	}
	if publisher.events[0].PrevSlotTime == nil || !publisher.events[0].PrevSlotTime.Equal(oldSlot) {
		t.Errorf("PrevSlotTime = %v, want %v", publisher.events[0].PrevSlotTime, oldSlot)
	}
}

func TestRescheduleCancelledBookingConflicts(t *testing.T) {
	checker := &mockChecker{available: true}
	repo := &mockBookingRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
			b := validBooking()
			b.ID = id
			b.Status = config.Cancelled
			return b, nil
		},
	}
	svc := newTestService(repo, checker, events.NoopPublisher{})

	_, err := svc.Reschedule(context.Background(),
		"65a000000000000000000001",
		&model.BookingReschedule{SlotTime: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)})

	if err == nil {
		t.Fatal("Reschedule() error = nil, want AppError")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 409 {
		t.Errorf("StatusCode() = %d, want 409", appErr.StatusCode())
	}
	if checker.calls != 0 {
		t.Error("availability was checked for a cancelled booking")
	}
}

func TestRescheduleSameSlotIsNoop(t *testing.T) {
	slot := time.Date(2026, 9, 14, 14, 0, 0, 0, time.UTC)
	updateCalled := false

	repo := &mockBookingRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
			b := validBooking()
			b.ID = id
			b.Status = config.Confirmed
			b.SlotTime = slot
			return b, nil
		},
		updateSlotFunc: func(_ context.Context, _ string, _ time.Time) (*model.Booking, error) {
			updateCalled = true
			return nil, nil
		},
	}
	svc := newTestService(repo, &mockChecker{available: true}, events.NoopPublisher{})

	booking, err := svc.Reschedule(context.Background(),
		"65a000000000000000000001",
		&model.BookingReschedule{SlotTime: slot})
	if err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}
	if !booking.SlotTime.Equal(slot) {
		t.Errorf("SlotTime = %v, want %v", booking.SlotTime, slot)
	}
	if updateCalled {
		t.Error("UpdateSlot was called for a same-slot reschedule")
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockChecker{}, events.NoopPublisher{})

	_, _, err := svc.List(context.Background(), repository.ListFilter{Status: "archived"}, 10, 0)
	if err == nil {
		t.Fatal("List() error = nil, want AppError")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 400 {
		t.Errorf("StatusCode() = %d, want 400", appErr.StatusCode())
	}
}

func TestListInvertedWindowRejected(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockChecker{}, events.NoopPublisher{})

	filter := repository.ListFilter{
		From: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	}
	_, _, err := svc.List(context.Background(), filter, 10, 0)
	if err == nil {
		t.Fatal("List() error = nil, want AppError")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != 400 {
		t.Errorf("StatusCode() = %d, want 400", appErr.StatusCode())
	}
}
