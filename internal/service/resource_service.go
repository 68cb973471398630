package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
)

var (
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = errors.New("name must be at most 150 characters")
	ErrDuplicateName     = errors.New("a record with this name already exists")
	ErrInvalidAmount     = errors.New("amount must be greater than 0")
	ErrMissingParent     = errors.New("referenced parent record is required")
	ErrInvalidDates      = errors.New("end date must not precede start date")
	ErrNoUpdates         = errors.New("no updates provided")
	ErrNotToggleable     = errors.New("resource has no active flag")
	ErrFieldNotPatchable = errors.New("field cannot be patched")
	ErrBadPayload        = errors.New("invalid payload")
)

const listCacheKeyAll = "all"

// ResourceDescriptor parameterizes the generic CRUD stack for one entity
// type: its cache/permission tag, the column guarded against duplicate
// names, and its validation rules.
type ResourceDescriptor[T any] struct {
	// Tag is the cache namespace, the intent resource key and the
	// permission resource key ("feehead", "mealitem", ...).
	Tag string
	// NameColumn is the duplicate-guarded column; empty disables the guard.
	NameColumn string
	NameOf     func(*T) string
	// ActiveOf reports the active flag; nil means the entity has none and
	// toggle requests are rejected.
	ActiveOf func(*T) bool
	Validate func(*T) error
	// Patchable lists the JSON fields PATCH may modify. Any other field in
	// a patch body is rejected; an empty list disables PATCH entirely.
	Patchable []string
}

// ResourceService is one CRUD surface instantiated per entity type. Every
// mutation invalidates the entity's own list-cache namespace and nothing
// else.
type ResourceService[T any] struct {
	repo  repository.ResourceRepository[T]
	desc  ResourceDescriptor[T]
	cache ListCacheStore
	ttl   time.Duration
}

func NewResourceService[T any](repo repository.ResourceRepository[T], desc ResourceDescriptor[T], cache ListCacheStore, ttl time.Duration) *ResourceService[T] {
	if cache == nil {
		cache = NewNoopListCacheStore()
	}
	return &ResourceService[T]{repo: repo, desc: desc, cache: cache, ttl: ttl}
}

func (s *ResourceService[T]) Tag() string { return s.desc.Tag }

func (s *ResourceService[T]) List(ctx context.Context) ([]T, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, s.desc.Tag, "list", outcome, time.Since(start)) }()

	if cached, ok, err := s.cache.Get(ctx, s.desc.Tag, listCacheKeyAll); err == nil && ok {
		var items []T
		if err := json.Unmarshal(cached, &items); err == nil {
			observability.RecordListCacheEvent(ctx, s.desc.Tag, "hit")
			return items, nil
		}
	}
	observability.RecordListCacheEvent(ctx, s.desc.Tag, "miss")

	items, err := s.repo.ListAll()
	if err != nil {
		outcome = "error"
		return nil, err
	}
	if payload, err := json.Marshal(items); err == nil {
		_ = s.cache.Set(ctx, s.desc.Tag, listCacheKeyAll, payload, s.ttl)
	}
	return items, nil
}

func (s *ResourceService[T]) Get(ctx context.Context, id uint) (*T, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, s.desc.Tag, "get", outcome, time.Since(start)) }()

	entity, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	return entity, nil
}

func (s *ResourceService[T]) Create(ctx context.Context, entity *T) (*T, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, s.desc.Tag, "create", outcome, time.Since(start)) }()

	if err := s.validate(entity, 0); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	if err := s.repo.Create(entity); err != nil {
		outcome = "error"
		return nil, err
	}
	s.invalidate(ctx)
	return entity, nil
}

func (s *ResourceService[T]) Update(ctx context.Context, id uint, entity *T) (*T, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, s.desc.Tag, "update", outcome, time.Since(start)) }()

	if err := s.validate(entity, id); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	if err := s.repo.Replace(id, entity); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	s.invalidate(ctx)
	updated, err := s.repo.FindByID(id)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	return updated, nil
}

// Patch merges the given JSON fields into the stored entity and re-runs the
// full validation before writing. Fields outside the descriptor's Patchable
// list are rejected, so a patch can never touch the id, timestamps, or any
// column the entity does not expose for partial update.
func (s *ResourceService[T]) Patch(ctx context.Context, id uint, updates map[string]json.RawMessage) (*T, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, s.desc.Tag, "patch", outcome, time.Since(start)) }()

	if len(updates) == 0 {
		outcome = "bad_request"
		return nil, ErrNoUpdates
	}
	for field := range updates {
		if !s.patchable(field) {
			outcome = "bad_request"
			return nil, fmt.Errorf("%w: %q", ErrFieldNotPatchable, field)
		}
	}

	entity, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}

	merged, err := json.Marshal(updates)
	if err != nil {
		outcome = "bad_request"
		return nil, ErrBadPayload
	}
	if err := json.Unmarshal(merged, entity); err != nil {
		outcome = "bad_request"
		return nil, ErrBadPayload
	}
	if err := s.validate(entity, id); err != nil {
		outcome = "bad_request"
		return nil, err
	}

	if err := s.repo.Replace(id, entity); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	s.invalidate(ctx)
	updated, err := s.repo.FindByID(id)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	return updated, nil
}

func (s *ResourceService[T]) patchable(field string) bool {
	for _, allowed := range s.desc.Patchable {
		if field == allowed {
			return true
		}
	}
	return false
}

// Delete propagates not-found unchanged: deleting an id twice must surface
// the second failure, never mask it as success.
func (s *ResourceService[T]) Delete(ctx context.Context, id uint) error {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, s.desc.Tag, "delete", outcome, time.Since(start)) }()

	if err := s.repo.DeleteByID(id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ResourceService[T]) Toggle(ctx context.Context, id uint) (*T, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, s.desc.Tag, "toggle", outcome, time.Since(start)) }()

	if s.desc.ActiveOf == nil {
		outcome = "bad_request"
		return nil, ErrNotToggleable
	}
	// The flip happens in one statement so concurrent toggles cannot read
	// the same prior value and collapse into a single transition.
	if err := s.repo.ToggleActive(id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	s.invalidate(ctx)
	updated, err := s.repo.FindByID(id)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	return updated, nil
}

// ExecuteIntent dispatches a confirmed intent to the matching operation.
// This is the only path by which the intent workflow reaches the data layer.
func (s *ResourceService[T]) ExecuteIntent(ctx context.Context, intent *domain.Intent) (any, error) {
	switch intent.Action {
	case domain.IntentCreate:
		var entity T
		if err := json.Unmarshal(intent.Payload, &entity); err != nil {
			return nil, ErrBadPayload
		}
		return s.Create(ctx, &entity)
	case domain.IntentUpdate:
		var entity T
		if err := json.Unmarshal(intent.Payload, &entity); err != nil {
			return nil, ErrBadPayload
		}
		return s.Update(ctx, intent.TargetID, &entity)
	case domain.IntentDelete:
		return nil, s.Delete(ctx, intent.TargetID)
	case domain.IntentToggle:
		return s.Toggle(ctx, intent.TargetID)
	default:
		return nil, ErrBadPayload
	}
}

func (s *ResourceService[T]) validate(entity *T, excludeID uint) error {
	if s.desc.Validate != nil {
		if err := s.desc.Validate(entity); err != nil {
			return err
		}
	}
	if s.desc.NameColumn != "" && s.desc.NameOf != nil {
		exists, err := s.repo.NameExists(s.desc.NameColumn, s.desc.NameOf(entity), excludeID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateName
		}
	}
	return nil
}

func (s *ResourceService[T]) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateNamespace(ctx, s.desc.Tag); err != nil {
		// Stale lists are now served until the TTL runs out.
		slog.WarnContext(ctx, "list cache invalidation failed", "tag", s.desc.Tag, "error", err)
		return
	}
	observability.RecordListCacheEvent(ctx, s.desc.Tag, "invalidate")
}
