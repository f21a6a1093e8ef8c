package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotsmith/internal/overrides/service"
	apperrors "slotsmith/pkg/errors"
	httputil "slotsmith/pkg/http"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

type OverrideHandler struct {
	service *service.OverrideService
	logger  *logger.Logger
}

func NewOverrideHandler(svc *service.OverrideService, log *logger.Logger) *OverrideHandler {
	return &OverrideHandler{
		service: svc,
		logger:  log,
	}
}

func (h *OverrideHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/overrides", h.ListOverrides)
	router.POST("/api/v1/admin/overrides", h.CreateOverride)
	router.PUT("/api/v1/admin/overrides", h.ReplaceOverrides)
	router.GET("/api/v1/admin/overrides/:id", h.GetOverride)
	router.DELETE("/api/v1/admin/overrides/:id", h.DeleteOverride)
}

func (h *OverrideHandler) ListOverrides(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	overrides, totalCount, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, overrides, totalCount, limit, offset)
}

func (h *OverrideHandler) CreateOverride(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var override model.Override
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &override)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, created)
}

func (h *OverrideHandler) ReplaceOverrides(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var replace model.OverrideReplace
	if err := json.NewDecoder(r.Body).Decode(&replace); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	created, err := h.service.Replace(r.Context(), &replace)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, created)
}

func (h *OverrideHandler) GetOverride(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	override, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, override)
}

func (h *OverrideHandler) DeleteOverride(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}
