package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"slotsmith/internal/availability/service"
	"slotsmith/pkg/config"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

type stubSources struct {
	rules []*model.RecurringRule
}

func (s *stubSources) GetAll(_ context.Context) ([]*model.RecurringRule, error) {
	return s.rules, nil
}

func (s *stubSources) FindIntersecting(_ context.Context, _, _ time.Time) ([]*model.Override, error) {
	return nil, nil
}

func (s *stubSources) FindActiveInWindow(_ context.Context, _, _ time.Time) ([]*model.Booking, error) {
	return nil, nil
}

func newTestRouter(rules []*model.RecurringRule) *httprouter.Router {
	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	cfg := &config.Config{
		Log:               log,
		OperatingTimezone: "America/New_York",
		LeadTimeHours:     2,
		BookingWindowDays: 90,
	}

	sources := &stubSources{rules: rules}
	svc := service.NewAvailabilityService(sources, sources, sources, cfg)

	router := httprouter.New()
	NewAvailabilityHandler(svc, log).RegisterRoutes(router)
	return router
}

// Dates are far enough out that wall-clock "now" plus lead time never
// reaches them.
func TestGetSlots(t *testing.T) {
	router := newTestRouter([]*model.RecurringRule{
		{Weekday: config.Tuesday, Slots: []string{"09:00:00", "10:30:00"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2030-09-10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var envelope struct {
		Data slotsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	resp := envelope.Data
	if resp.Date != "2030-09-10" {
		t.Errorf("date = %q, want 2030-09-10", resp.Date)
	}
	// EDT in September, so 09:00 local is 13:00Z.
	want := []string{"2030-09-10T13:00:00Z", "2030-09-10T14:30:00Z"}
	if len(resp.Slots) != len(want) {
		t.Fatalf("slots = %v, want %v", resp.Slots, want)
	}
	for i := range want {
		if resp.Slots[i] != want[i] {
			t.Errorf("slots[%d] = %q, want %q", i, resp.Slots[i], want[i])
		}
	}
}

func TestGetSlotsEmptyDayStillOK(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2030-09-10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var envelope struct {
		Data slotsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	resp := envelope.Data
	if resp.Slots == nil || len(resp.Slots) != 0 {
		t.Errorf("slots = %v, want empty array", resp.Slots)
	}
}

func TestGetSlotsBadDate(t *testing.T) {
	router := newTestRouter(nil)

	tests := []struct {
		name string
		url  string
	}{
		{"missing date", "/api/v1/availability"},
		{"malformed date", "/api/v1/availability?date=next-tuesday"},
		{"impossible date", "/api/v1/availability?date=2030-02-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestGetUnavailableDays(t *testing.T) {
	router := newTestRouter([]*model.RecurringRule{
		{Weekday: config.Tuesday, Slots: []string{"09:00:00"}},
	})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/availability/unavailable-days?from=2030-09-09&to=2030-09-11", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var envelope struct {
		Data unavailableDaysResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	resp := envelope.Data
	// Monday the 9th and Wednesday the 11th have no rule; Tuesday does.
	want := []string{"2030-09-09", "2030-09-11"}
	if len(resp.UnavailableDays) != len(want) {
		t.Fatalf("unavailable_days = %v, want %v", resp.UnavailableDays, want)
	}
	for i := range want {
		if resp.UnavailableDays[i] != want[i] {
			t.Errorf("unavailable_days[%d] = %q, want %q", i, resp.UnavailableDays[i], want[i])
		}
	}
}

func TestGetUnavailableDaysInvertedRange(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/availability/unavailable-days?from=2030-09-11&to=2030-09-09", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
