package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"slotsmith/internal/availability/service"
	apperrors "slotsmith/pkg/errors"
	httputil "slotsmith/pkg/http"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

type AvailabilityHandler struct {
	service *service.AvailabilityService
	logger  *logger.Logger
}

func NewAvailabilityHandler(svc *service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: svc,
		logger:  log,
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.GetSlots)
	router.GET("/api/v1/availability/unavailable-days", h.GetUnavailableDays)
}

type slotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type unavailableDaysResponse struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	UnavailableDays []string `json:"unavailable_days"`
}

func (h *AvailabilityHandler) GetSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := model.ParseCivilDate(r.URL.Query().Get("date"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	slots, err := h.service.ResolveSlots(r.Context(), date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slot.Format(time.RFC3339))
	}

	httputil.WriteSuccess(w, slotsResponse{Date: date.String(), Slots: out})
}

func (h *AvailabilityHandler) GetUnavailableDays(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from, err := model.ParseCivilDate(r.URL.Query().Get("from"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("from: "+err.Error()))
		return
	}
	to, err := model.ParseCivilDate(r.URL.Query().Get("to"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("to: "+err.Error()))
		return
	}

	days, err := h.service.ResolveUnavailableDays(r.Context(), from, to)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, unavailableDaysResponse{
		From:            from.String(),
		To:              to.String(),
		UnavailableDays: days,
	})
}
