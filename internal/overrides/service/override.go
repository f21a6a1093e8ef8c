package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	overrideerrors "slotsmith/internal/overrides/errors"
	"slotsmith/internal/overrides/repository"
	"slotsmith/internal/overrides/validator"
	"slotsmith/pkg/config"
	apperrors "slotsmith/pkg/errors"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
	"slotsmith/pkg/sanitizer"
)

type OverrideService struct {
	repo      repository.OverrideRepository
	validator *validator.OverrideValidator
	logger    *logger.Logger
	cfg       *config.Config
}

func NewOverrideService(repo repository.OverrideRepository, v *validator.OverrideValidator, cfg *config.Config) *OverrideService {
	return &OverrideService{
		repo:      repo,
		validator: v,
		logger:    cfg.Log,
		cfg:       cfg,
	}
}

func (s *OverrideService) Create(ctx context.Context, override *model.Override) (*model.Override, error) {
	normalizeOverride(override)

	if err := s.validator.Validate(override); err != nil {
		return nil, validationError(err)
	}

	created, err := s.repo.Create(ctx, override)
	if err != nil {
		s.logger.Error("Failed to create override", "error", err)
		return nil, apperrors.Internal("failed to create override", err)
	}

	s.logger.Info("Override created",
		"override_id", created.ID,
		"start_time", created.StartTime,
		"end_time", created.EndTime)
	return created, nil
}

func (s *OverrideService) GetByID(ctx context.Context, id string) (*model.Override, error) {
	override, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err, "fetch")
	}
	return override, nil
}

func (s *OverrideService) List(ctx context.Context, limit int, offset int64) ([]*model.Override, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	overrides, totalCount, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list overrides", "error", err)
		return nil, 0, apperrors.Internal("failed to list overrides", err)
	}
	if overrides == nil {
		overrides = []*model.Override{}
	}
	return overrides, totalCount, nil
}

// FindIntersecting exposes interval lookups to the availability resolver.
func (s *OverrideService) FindIntersecting(ctx context.Context, from, to time.Time) ([]*model.Override, error) {
	overrides, err := s.repo.FindIntersecting(ctx, from.UTC(), to.UTC())
	if err != nil {
		s.logger.Error("Failed to fetch overrides for window", "error", err)
		return nil, apperrors.Internal("failed to fetch overrides", err)
	}
	return overrides, nil
}

func (s *OverrideService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(id, err, "delete")
	}

	s.logger.Info("Override deleted", "override_id", id)
	return nil
}

// Replace applies a delete-then-insert batch in one transaction so a
// rescheduled closure never leaves a gap where both versions are absent.
func (s *OverrideService) Replace(ctx context.Context, replace *model.OverrideReplace) ([]*model.Override, error) {
	for i := range replace.Create {
		normalizeOverride(&replace.Create[i])
	}

	if err := s.validator.ValidateReplace(replace); err != nil {
		return nil, validationError(err)
	}

	created := make([]*model.Override, 0, len(replace.Create))
	for i := range replace.Create {
		created = append(created, &replace.Create[i])
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if len(replace.DeleteIDs) > 0 {
			deleted, err := s.repo.DeleteMany(sessCtx, replace.DeleteIDs)
			if err != nil {
				if errors.Is(err, overrideerrors.ErrInvalidID) {
					return apperrors.InvalidInput("invalid override ID in delete_ids")
				}
				return err
			}
			if deleted != int64(len(replace.DeleteIDs)) {
				return apperrors.NotFound("one or more overrides in delete_ids")
			}
		}
		if len(created) > 0 {
			return s.repo.InsertMany(sessCtx, created)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.logger.Error("Failed to replace overrides", "error", err)
		return nil, apperrors.Internal("failed to replace overrides", err)
	}

	s.logger.Info("Overrides replaced",
		"deleted_count", len(replace.DeleteIDs),
		"created_count", len(created))
	return created, nil
}

func (s *OverrideService) mapRepoError(id string, err error, op string) error {
	switch {
	case errors.Is(err, overrideerrors.ErrNotFound):
		return apperrors.NotFoundWithID("override", id)
	case errors.Is(err, overrideerrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid override ID format")
	default:
		s.logger.Error("Failed to "+op+" override", "override_id", id, "error", err)
		return apperrors.Internal("failed to "+op+" override", err)
	}
}

func normalizeOverride(override *model.Override) {
	override.Type = sanitizer.TrimAndNormalize(override.Type)
	if override.Type == "" {
		override.Type = config.OverrideTypeBlocked
	}
	override.Reason = sanitizer.TrimAndNormalize(override.Reason)
	if !override.StartTime.IsZero() {
		override.StartTime = override.StartTime.UTC()
	}
	if !override.EndTime.IsZero() {
		override.EndTime = override.EndTime.UTC()
	}
}

func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return apperrors.Validation("invalid override",
			map[string]any{"validation_errors": validationErrs})
	}
	return apperrors.Validation("invalid override", nil)
}
