package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"slotsmith/internal/rules/service"
	"slotsmith/pkg/config"
	apperrors "slotsmith/pkg/errors"
	httputil "slotsmith/pkg/http"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

type RuleHandler struct {
	service *service.RuleService
	logger  *logger.Logger
}

func NewRuleHandler(svc *service.RuleService, log *logger.Logger) *RuleHandler {
	return &RuleHandler{
		service: svc,
		logger:  log,
	}
}

func (h *RuleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/rules", h.GetRules)
	router.PUT("/api/v1/admin/rules", h.ReplaceRules)
	router.GET("/api/v1/admin/rules/:weekday", h.GetRuleByWeekday)
}

func (h *RuleHandler) GetRules(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rules, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, model.RuleSet{Rules: derefRules(rules)})
}

func (h *RuleHandler) GetRuleByWeekday(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	weekday, ok := canonicalWeekday(params.ByName("weekday"))
	if !ok {
		httputil.WriteError(w, apperrors.InvalidInput("weekday must be a day name, e.g. Monday"))
		return
	}

	rule, err := h.service.GetByWeekday(r.Context(), weekday)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, rule)
}

func canonicalWeekday(raw string) (config.Weekday, bool) {
	for _, day := range config.Weekdays {
		if strings.EqualFold(raw, day) {
			return day, true
		}
	}
	return "", false
}

func (h *RuleHandler) ReplaceRules(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload model.RuleSet
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	rules := make([]*model.RecurringRule, 0, len(payload.Rules))
	for i := range payload.Rules {
		rules = append(rules, &payload.Rules[i])
	}

	saved, err := h.service.ReplaceAll(r.Context(), rules)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, model.RuleSet{Rules: derefRules(saved)})
}

func derefRules(rules []*model.RecurringRule) []model.RecurringRule {
	out := make([]model.RecurringRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, *rule)
	}
	return out
}
