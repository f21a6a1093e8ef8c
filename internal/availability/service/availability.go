package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"slotsmith/pkg/config"
	apperrors "slotsmith/pkg/errors"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

// RuleSource supplies the weekly template.
type RuleSource interface {
	GetAll(ctx context.Context) ([]*model.RecurringRule, error)
}

// OverrideSource supplies blocked intervals overlapping a UTC window.
type OverrideSource interface {
	FindIntersecting(ctx context.Context, from, to time.Time) ([]*model.Override, error)
}

// BookingSource supplies pending and confirmed bookings in a UTC window.
type BookingSource interface {
	FindActiveInWindow(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
}

// AvailabilityService derives bookable UTC instants on demand. Nothing is
// materialized: every query replays rules, overrides and bookings against the
// requested day, so the same inputs always resolve to the same slots.
type AvailabilityService struct {
	rules     RuleSource
	overrides OverrideSource
	bookings  BookingSource
	logger    *logger.Logger

	location *time.Location
	leadTime time.Duration
	maxRange int

	now func() time.Time
}

func NewAvailabilityService(rules RuleSource, overrides OverrideSource, bookings BookingSource, cfg *config.Config) *AvailabilityService {
	return &AvailabilityService{
		rules:     rules,
		overrides: overrides,
		bookings:  bookings,
		logger:    cfg.Log,
		location:  cfg.Location(),
		leadTime:  cfg.LeadTime(),
		maxRange:  cfg.BookingWindowDays,
		now:       time.Now,
	}
}

// ResolveSlots returns the bookable UTC instants of one calendar day in
// ascending order. The result is never nil; a fully unavailable day is an
// empty slice.
func (s *AvailabilityService) ResolveSlots(ctx context.Context, date model.CivilDate) ([]time.Time, error) {
	if err := date.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	rulesByWeekday, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}

	rule := rulesByWeekday[config.Weekdays[date.Weekday()]]
	if rule == nil || len(rule.Slots) == 0 {
		return []time.Time{}, nil
	}

	from, to := date.DayWindow(s.location)
	overrides, bookings, err := s.loadDayData(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return s.resolveDay(date, rule, overrides, bookings, s.now()), nil
}

// IsSlotAvailable re-derives availability for a single instant. A booking
// must pass this check at commit time, not just when the client last saw the
// slot list.
func (s *AvailabilityService) IsSlotAvailable(ctx context.Context, slotTime time.Time) (bool, error) {
	slotTime = slotTime.UTC()

	// The instant's calendar day as the business observes it.
	date := model.CivilDateOf(slotTime, s.location)

	slots, err := s.ResolveSlots(ctx, date)
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		if slot.Equal(slotTime) {
			return true, nil
		}
	}
	return false, nil
}

// ResolveUnavailableDays returns, as YYYY-MM-DD strings, every day in
// [from, to] that resolves to zero bookable slots. Rules, overrides and
// bookings are fetched once for the whole range.
func (s *AvailabilityService) ResolveUnavailableDays(ctx context.Context, from, to model.CivilDate) ([]string, error) {
	if err := from.Validate(); err != nil {
		return nil, apperrors.InvalidInput("from: " + err.Error())
	}
	if err := to.Validate(); err != nil {
		return nil, apperrors.InvalidInput("to: " + err.Error())
	}
	if to.Before(from) {
		return nil, apperrors.InvalidInput("to must not be before from")
	}
	if days := spanDays(from, to); days > s.maxRange {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("range spans %d days, maximum is %d", days, s.maxRange))
	}

	rulesByWeekday, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}

	windowStart, _ := from.DayWindow(s.location)
	_, windowEnd := to.DayWindow(s.location)
	overrides, bookings, err := s.loadDayData(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	now := s.now()
	unavailable := []string{}
	for date := from; !to.Before(date); date = date.AddDays(1) {
		rule := rulesByWeekday[config.Weekdays[date.Weekday()]]
		if rule == nil || len(rule.Slots) == 0 {
			unavailable = append(unavailable, date.String())
			continue
		}
		if len(s.resolveDay(date, rule, overrides, bookings, now)) == 0 {
			unavailable = append(unavailable, date.String())
		}
	}

	return unavailable, nil
}

// resolveDay is the pure core: candidates from the rule, minus lead-time
// violations, override hits and booked instants.
func (s *AvailabilityService) resolveDay(
	date model.CivilDate,
	rule *model.RecurringRule,
	overrides []*model.Override,
	bookings []*model.Booking,
	now time.Time,
) []time.Time {
	cutoff := now.Add(s.leadTime)

	booked := make(map[int64]bool, len(bookings))
	for _, booking := range bookings {
		booked[booking.SlotTime.Unix()] = true
	}

	slots := make([]time.Time, 0, len(rule.Slots))
	for _, label := range rule.Slots {
		hour, minute, second, err := parseSlotLabel(label)
		if err != nil {
			// Stored labels are validated on write; skip rather than fail
			// the whole day if one slips through.
			s.logger.Warn("Skipping malformed slot label", "label", label, "weekday", rule.Weekday)
			continue
		}

		candidate := date.At(hour, minute, second, s.location)

		if !candidate.After(cutoff) {
			continue
		}
		if booked[candidate.Unix()] {
			continue
		}
		if blocked(overrides, candidate) {
			continue
		}

		slots = append(slots, candidate)
	}

	// Label order is local wall-clock order; around DST transitions the UTC
	// instants can come out unordered or duplicated.
	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return dedupeInstants(slots)
}

func (s *AvailabilityService) loadRules(ctx context.Context) (map[config.Weekday]*model.RecurringRule, error) {
	rules, err := s.rules.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byWeekday := make(map[config.Weekday]*model.RecurringRule, len(rules))
	for _, rule := range rules {
		byWeekday[rule.Weekday] = rule
	}
	return byWeekday, nil
}

func (s *AvailabilityService) loadDayData(ctx context.Context, from, to time.Time) ([]*model.Override, []*model.Booking, error) {
	overrides, err := s.overrides.FindIntersecting(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}

	bookings, err := s.bookings.FindActiveInWindow(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}

	return overrides, bookings, nil
}

func blocked(overrides []*model.Override, t time.Time) bool {
	for _, override := range overrides {
		if override.Contains(t) {
			return true
		}
	}
	return false
}

func parseSlotLabel(label string) (hour, minute, second int, err error) {
	t, err := time.Parse("15:04:05", label)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid slot label %q: %w", label, err)
	}
	return t.Hour(), t.Minute(), t.Second(), nil
}

func dedupeInstants(slots []time.Time) []time.Time {
	out := slots[:0]
	for i, slot := range slots {
		if i > 0 && slot.Equal(slots[i-1]) {
			continue
		}
		out = append(out, slot)
	}
	return out
}

func spanDays(from, to model.CivilDate) int {
	start := time.Date(from.Year, from.Month, from.Day, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year, to.Month, to.Day, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}
