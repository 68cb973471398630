package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
)

var (
	ErrInvalidWeekday  = errors.New("invalid weekday")
	ErrMissingMealName = errors.New("meal name is required")
)

// MealSetupInput is the write shape of a setup: the day, the meal slot and
// the full replacement item list.
type MealSetupInput struct {
	Day        domain.Weekday `json:"day"`
	MealNameID uint           `json:"meal_name_id"`
	ItemIDs    []uint         `json:"item_ids"`
}

func (in *MealSetupInput) validate() error {
	if !in.Day.Valid() {
		return ErrInvalidWeekday
	}
	if in.MealNameID == 0 {
		return ErrMissingMealName
	}
	return nil
}

// MealSetupService handles the one aggregate in the catalogue: a setup plus
// its wholesale-replaced item list. It shares the generic stack's cache and
// intent semantics without the generic repository.
type MealSetupService struct {
	repo  repository.MealSetupRepository
	cache ListCacheStore
	ttl   time.Duration
}

func NewMealSetupService(repo repository.MealSetupRepository, cache ListCacheStore, ttl time.Duration) *MealSetupService {
	if cache == nil {
		cache = NewNoopListCacheStore()
	}
	return &MealSetupService{repo: repo, cache: cache, ttl: ttl}
}

func (s *MealSetupService) Tag() string { return TagMealSetup }

func (s *MealSetupService) List(ctx context.Context) ([]domain.MealSetup, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, TagMealSetup, "list", outcome, time.Since(start)) }()

	if cached, ok, err := s.cache.Get(ctx, TagMealSetup, listCacheKeyAll); err == nil && ok {
		var setups []domain.MealSetup
		if err := json.Unmarshal(cached, &setups); err == nil {
			observability.RecordListCacheEvent(ctx, TagMealSetup, "hit")
			return setups, nil
		}
	}
	observability.RecordListCacheEvent(ctx, TagMealSetup, "miss")

	setups, err := s.repo.ListAll()
	if err != nil {
		outcome = "error"
		return nil, err
	}
	if payload, err := json.Marshal(setups); err == nil {
		_ = s.cache.Set(ctx, TagMealSetup, listCacheKeyAll, payload, s.ttl)
	}
	return setups, nil
}

func (s *MealSetupService) Get(ctx context.Context, id uint) (*domain.MealSetup, error) {
	return s.repo.FindByID(id)
}

func (s *MealSetupService) Create(ctx context.Context, in MealSetupInput) (*domain.MealSetup, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, TagMealSetup, "create", outcome, time.Since(start)) }()

	if err := in.validate(); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	setup := &domain.MealSetup{Day: in.Day, MealNameID: in.MealNameID}
	if err := s.repo.Create(setup, in.ItemIDs); err != nil {
		outcome = "error"
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.FindByID(setup.ID)
}

func (s *MealSetupService) Update(ctx context.Context, id uint, in MealSetupInput) (*domain.MealSetup, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, TagMealSetup, "update", outcome, time.Since(start)) }()

	if err := in.validate(); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	setup, err := s.repo.Update(id, in.Day, in.MealNameID, in.ItemIDs)
	if err != nil {
		if errors.Is(err, repository.ErrMealSetupNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	s.invalidate(ctx)
	return setup, nil
}

func (s *MealSetupService) Delete(ctx context.Context, id uint) error {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, TagMealSetup, "delete", outcome, time.Since(start)) }()

	if err := s.repo.DeleteByID(id); err != nil {
		if errors.Is(err, repository.ErrMealSetupNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ExecuteIntent adapts confirmed intents to the aggregate's operations.
// Deleting a meal item elsewhere never rewrites existing setups; a stale
// item simply drops out on the setup's next update.
func (s *MealSetupService) ExecuteIntent(ctx context.Context, intent *domain.Intent) (any, error) {
	switch intent.Action {
	case domain.IntentCreate:
		var in MealSetupInput
		if err := json.Unmarshal(intent.Payload, &in); err != nil {
			return nil, ErrBadPayload
		}
		return s.Create(ctx, in)
	case domain.IntentUpdate:
		var in MealSetupInput
		if err := json.Unmarshal(intent.Payload, &in); err != nil {
			return nil, ErrBadPayload
		}
		return s.Update(ctx, intent.TargetID, in)
	case domain.IntentDelete:
		return nil, s.Delete(ctx, intent.TargetID)
	default:
		return nil, ErrBadPayload
	}
}

func (s *MealSetupService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateNamespace(ctx, TagMealSetup); err != nil {
		slog.WarnContext(ctx, "list cache invalidation failed", "tag", TagMealSetup, "error", err)
		return
	}
	observability.RecordListCacheEvent(ctx, TagMealSetup, "invalidate")
}
