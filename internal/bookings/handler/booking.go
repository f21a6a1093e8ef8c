package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"slotsmith/internal/bookings/repository"
	"slotsmith/internal/bookings/service"
	"slotsmith/pkg/config"
	apperrors "slotsmith/pkg/errors"
	httputil "slotsmith/pkg/http"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

type BookingHandler struct {
	service *service.BookingService
	logger  *logger.Logger
}

func NewBookingHandler(svc *service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: svc,
		logger:  log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	// Public booking surface.
	router.POST("/api/v1/bookings", h.CreateBooking)
	router.GET("/api/v1/bookings/:id", h.GetBooking)

	// Admin surface.
	router.GET("/api/v1/admin/bookings", h.ListBookings)
	router.POST("/api/v1/admin/bookings", h.CreateWalkIn)
	router.PATCH("/api/v1/admin/bookings/:id/status", h.UpdateStatus)
	router.PATCH("/api/v1/admin/bookings/:id/slot", h.Reschedule)
}

// CreateBooking is the public entry point. New bookings start pending until
// an admin confirms them.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.create(w, r, config.Pending)
}

// CreateWalkIn books on behalf of a client and skips the pending stage.
func (h *BookingHandler) CreateWalkIn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.create(w, r, config.Confirmed)
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request, status string) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &booking, status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, created)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	filter, err := extractListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, totalCount, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, totalCount, limit, offset)
}

// extractListFilter reads the optional status and RFC3339 from/to query
// parameters for admin listing.
func extractListFilter(r *http.Request) (repository.ListFilter, error) {
	query := r.URL.Query()
	filter := repository.ListFilter{Status: query.Get("status")}

	if s := query.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return repository.ListFilter{}, apperrors.InvalidInput("from must be an RFC3339 timestamp")
		}
		filter.From = t.UTC()
	}
	if s := query.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return repository.ListFilter{}, apperrors.InvalidInput("to must be an RFC3339 timestamp")
		}
		filter.To = t.UTC()
	}
	return filter, nil
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var reschedule model.BookingReschedule
	if err := json.NewDecoder(r.Body).Decode(&reschedule); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.Reschedule(r.Context(), ps.ByName("id"), &reschedule)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}
