package service

import (
	"context"
	"errors"
	"time"

	bookingerrors "slotsmith/internal/bookings/errors"
	"slotsmith/internal/bookings/events"
	"slotsmith/internal/bookings/repository"
	"slotsmith/internal/bookings/validator"
	"slotsmith/pkg/config"
	apperrors "slotsmith/pkg/errors"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
	"slotsmith/pkg/sanitizer"
)

// SlotChecker re-derives availability for a single instant. Implemented by
// the availability resolver; a booking commits only if the instant still
// resolves as bookable at commit time.
type SlotChecker interface {
	IsSlotAvailable(ctx context.Context, slotTime time.Time) (bool, error)
}

// allowedTransitions is the full status machine. Cancelled is terminal.
var allowedTransitions = map[string]map[string]bool{
	config.Pending: {
		config.Confirmed: true,
		config.Cancelled: true,
	},
	config.Confirmed: {
		config.Cancelled: true,
	},
	config.Cancelled: {},
}

type BookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	checker   SlotChecker
	publisher events.EventPublisher
	logger    *logger.Logger
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	v *validator.BookingValidator,
	checker SlotChecker,
	publisher events.EventPublisher,
	cfg *config.Config,
) *BookingService {
	return &BookingService{
		repo:      repo,
		validator: v,
		checker:   checker,
		publisher: publisher,
		logger:    cfg.Log,
		cfg:       cfg,
	}
}

// Create books a slot with the given initial status. Public requests start
// pending; admin walk-ins start confirmed. Availability is checked before the
// insert and the partial unique index settles any race that slips through.
func (s *BookingService) Create(ctx context.Context, booking *model.Booking, status string) (*model.Booking, error) {
	s.sanitizeBooking(booking)
	booking.Status = status
	booking.SlotTime = booking.SlotTime.UTC()

	if err := s.validator.Validate(booking); err != nil {
		return nil, validationError(err)
	}

	available, err := s.checker.IsSlotAvailable(ctx, booking.SlotTime)
	if err != nil {
		s.logger.Error("Failed to check slot availability", "slot_time", booking.SlotTime, "error", err)
		return nil, apperrors.Internal("failed to check slot availability", err)
	}
	if !available {
		return nil, apperrors.Conflict("slot is not available")
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrSlotTaken) {
			return nil, apperrors.Conflict("slot was booked by another client")
		}
		s.logger.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("failed to create booking", err)
	}

	s.logger.Info("Booking created",
		"booking_id", created.ID,
		"slot_time", created.SlotTime,
		"status", created.Status)
	s.publish(ctx, events.EventBookingCreated, events.FromBooking(created))

	return created, nil
}

func (s *BookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err, "fetch")
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if st := filter.Status; st != "" && st != config.Pending && st != config.Confirmed && st != config.Cancelled {
		return nil, 0, apperrors.InvalidInput("status must be one of: pending, confirmed, cancelled")
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, 0, apperrors.InvalidInput("to must not be before from")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, totalCount, err := s.repo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list bookings", "error", err)
		return nil, 0, apperrors.Internal("failed to list bookings", err)
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, totalCount, nil
}

// UpdateStatus applies a confirm or cancel transition. Cancelled bookings
// never leave cancelled; freeing the slot is a side effect of the partial
// index no longer covering them.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return nil, validationError(err)
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err, "fetch")
	}

	if !allowedTransitions[booking.Status][update.Status] {
		return nil, apperrors.Conflict(
			"cannot transition booking from " + booking.Status + " to " + update.Status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, update.Status)
	if err != nil {
		return nil, s.mapRepoError(id, err, "update")
	}

	s.logger.Info("Booking status updated",
		"booking_id", id,
		"from", booking.Status,
		"to", updated.Status)

	eventType := events.EventBookingConfirmed
	if updated.Status == config.Cancelled {
		eventType = events.EventBookingCancelled
	}
	s.publish(ctx, eventType, events.FromBooking(updated))

	return updated, nil
}

// Reschedule moves an active booking to a new instant. The target is
// re-resolved exactly like a fresh booking.
func (s *BookingService) Reschedule(ctx context.Context, id string, reschedule *model.BookingReschedule) (*model.Booking, error) {
	if err := s.validator.ValidateReschedule(reschedule); err != nil {
		return nil, validationError(err)
	}
	newSlot := reschedule.SlotTime.UTC()

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err, "fetch")
	}

	if booking.Status == config.Cancelled {
		return nil, apperrors.Conflict("cannot reschedule a cancelled booking")
	}
	if booking.SlotTime.Equal(newSlot) {
		return booking, nil
	}

	available, err := s.checker.IsSlotAvailable(ctx, newSlot)
	if err != nil {
		s.logger.Error("Failed to check slot availability", "slot_time", newSlot, "error", err)
		return nil, apperrors.Internal("failed to check slot availability", err)
	}
	if !available {
		return nil, apperrors.Conflict("target slot is not available")
	}

	prevSlot := booking.SlotTime
	updated, err := s.repo.UpdateSlot(ctx, id, newSlot)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrSlotTaken) {
			return nil, apperrors.Conflict("target slot was booked by another client")
		}
		return nil, s.mapRepoError(id, err, "update")
	}

	s.logger.Info("Booking rescheduled",
		"booking_id", id,
		"from", prevSlot,
		"to", updated.SlotTime)

	event := events.FromBooking(updated)
	event.PrevSlotTime = &prevSlot
	s.publish(ctx, events.EventBookingRescheduled, event)

	return updated, nil
}

// FindActiveInWindow exposes active bookings to the availability resolver.
func (s *BookingService) FindActiveInWindow(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	bookings, err := s.repo.FindActiveInWindow(ctx, from.UTC(), to.UTC())
	if err != nil {
		s.logger.Error("Failed to fetch bookings for window", "error", err)
		return nil, apperrors.Internal("failed to fetch bookings", err)
	}
	return bookings, nil
}

func (s *BookingService) sanitizeBooking(booking *model.Booking) {
	booking.ClientName = sanitizer.NormalizeName(booking.ClientName)
	booking.ClientEmail = sanitizer.NormalizeEmail(booking.ClientEmail)
	// Keep the raw value when normalization fails so validation reports it.
	if normalized := sanitizer.NormalizePhone(booking.ClientPhone); normalized != "" {
		booking.ClientPhone = normalized
	} else {
		booking.ClientPhone = sanitizer.TrimAndNormalize(booking.ClientPhone)
	}
	booking.Note = sanitizer.TrimAndNormalize(booking.Note)
}

func (s *BookingService) publish(ctx context.Context, eventType string, event events.BookingEvent) {
	if s.publisher == nil {
		return
	}
	// Best effort. The event stream drives notifications, not correctness.
	_ = s.publisher.Publish(ctx, eventType, event)
}

func (s *BookingService) mapRepoError(id string, err error, op string) error {
	switch {
	case errors.Is(err, bookingerrors.ErrNotFound):
		return apperrors.NotFoundWithID("booking", id)
	case errors.Is(err, bookingerrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid booking ID format")
	default:
		s.logger.Error("Failed to "+op+" booking", "booking_id", id, "error", err)
		return apperrors.Internal("failed to "+op+" booking", err)
	}
}

func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return apperrors.Validation("invalid booking request",
			map[string]any{"validation_errors": validationErrs})
	}
	return apperrors.Validation("invalid booking request", nil)
}
