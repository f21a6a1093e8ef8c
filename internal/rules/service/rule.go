package service

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/mongo"

	ruleerrors "slotsmith/internal/rules/errors"
	"slotsmith/internal/rules/repository"
	"slotsmith/internal/rules/validator"
	"slotsmith/pkg/config"
	apperrors "slotsmith/pkg/errors"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
	"slotsmith/pkg/sanitizer"
)

type RuleService struct {
	repo      repository.RuleRepository
	validator *validator.RuleValidator
	logger    *logger.Logger
	cfg       *config.Config
}

func NewRuleService(repo repository.RuleRepository, v *validator.RuleValidator, cfg *config.Config) *RuleService {
	return &RuleService{
		repo:      repo,
		validator: v,
		logger:    cfg.Log,
		cfg:       cfg,
	}
}

func (s *RuleService) GetAll(ctx context.Context) ([]*model.RecurringRule, error) {
	rules, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch recurring rules", "error", err)
		return nil, apperrors.Internal("failed to fetch recurring rules", err)
	}
	if rules == nil {
		rules = []*model.RecurringRule{}
	}
	return rules, nil
}

func (s *RuleService) GetByWeekday(ctx context.Context, weekday config.Weekday) (*model.RecurringRule, error) {
	rule, err := s.repo.FindByWeekday(ctx, weekday)
	if err != nil {
		if errors.Is(err, ruleerrors.ErrNotFound) {
			return nil, apperrors.NotFound("recurring rule for " + weekday)
		}
		s.logger.Error("Failed to fetch recurring rule", "weekday", weekday, "error", err)
		return nil, apperrors.Internal("failed to fetch recurring rule", err)
	}
	return rule, nil
}

// ReplaceAll swaps the whole weekly template in one transaction. Slot labels
// are trimmed, deduplicated and sorted before validation so the stored
// template is always canonical.
func (s *RuleService) ReplaceAll(ctx context.Context, rules []*model.RecurringRule) ([]*model.RecurringRule, error) {
	for _, rule := range rules {
		rule.Weekday = sanitizer.TrimAndNormalize(rule.Weekday)
		rule.Slots = canonicalizeSlots(rule.Slots)
	}

	if err := s.validator.ValidateSet(rules); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("invalid recurring rules",
				map[string]any{"validation_errors": validationErrs})
		}
		return nil, apperrors.Validation("invalid recurring rules", nil)
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return s.repo.ReplaceAll(sessCtx, rules)
	})
	if err != nil {
		s.logger.Error("Failed to replace recurring rules", "error", err)
		return nil, apperrors.Internal("failed to replace recurring rules", err)
	}

	s.logger.Info("Recurring rules replaced", "rule_count", len(rules))
	return rules, nil
}

func canonicalizeSlots(slots []string) []string {
	out := sanitizer.SanitizeSlice(slots, sanitizer.NormalizeSlotLabel)
	sort.Strings(out)
	return out
}
