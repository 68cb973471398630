package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/schoolsuite/institute-admin-api/internal/observability"
)

// ErrRecordNotFound is the shared not-found sentinel of the generic resource
// layer. Handlers map it to 404 regardless of entity type.
var ErrRecordNotFound = errors.New("record not found")

// ResourceRepository is the uniform data-access contract shared by every
// catalog entity (fee heads, meal items, events, funds, ...). One generic
// implementation replaces the per-entity modules that were structurally
// identical.
type ResourceRepository[T any] interface {
	Create(entity *T) error
	FindByID(id uint) (*T, error)
	ListAll() ([]T, error)
	Replace(id uint, entity *T) error
	ToggleActive(id uint) error
	DeleteByID(id uint) error
	NameExists(column, name string, excludeID uint) (bool, error)
}

type GormResourceRepository[T any] struct {
	db       *gorm.DB
	entity   string
	preloads []string
}

func NewResourceRepository[T any](db *gorm.DB, entity string, preloads ...string) *GormResourceRepository[T] {
	return &GormResourceRepository[T]{db: db, entity: entity, preloads: preloads}
}

func (r *GormResourceRepository[T]) read() *gorm.DB {
	q := r.db
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *GormResourceRepository[T]) Create(entity *T) error {
	if err := r.db.Create(entity).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), r.entity, "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), r.entity, "create", "success")
	return nil
}

func (r *GormResourceRepository[T]) FindByID(id uint) (*T, error) {
	var entity T
	if err := r.read().First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), r.entity, "find_by_id", "not_found")
			return nil, ErrRecordNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), r.entity, "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), r.entity, "find_by_id", "success")
	return &entity, nil
}

func (r *GormResourceRepository[T]) ListAll() ([]T, error) {
	var items []T
	if err := r.read().Order("id asc").Find(&items).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), r.entity, "list", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), r.entity, "list", "success")
	return items, nil
}

// Replace persists a full update (PUT semantics): every column except id and
// created_at is written, including zero values.
func (r *GormResourceRepository[T]) Replace(id uint, entity *T) error {
	res := r.db.Model(new(T)).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(entity)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), r.entity, "replace", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), r.entity, "replace", "not_found")
		return ErrRecordNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), r.entity, "replace", "success")
	return nil
}

// ToggleActive flips is_active in a single statement. A read-then-write
// toggle would let two concurrent requests observe the same prior value and
// collapse into one transition.
func (r *GormResourceRepository[T]) ToggleActive(id uint) error {
	res := r.db.Model(new(T)).Where("id = ?", id).Update("is_active", gorm.Expr("NOT is_active"))
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), r.entity, "toggle_active", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), r.entity, "toggle_active", "not_found")
		return ErrRecordNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), r.entity, "toggle_active", "success")
	return nil
}

func (r *GormResourceRepository[T]) DeleteByID(id uint) error {
	res := r.db.Delete(new(T), id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), r.entity, "delete_by_id", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), r.entity, "delete_by_id", "not_found")
		return ErrRecordNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), r.entity, "delete_by_id", "success")
	return nil
}

// NameExists reports whether another row already uses the given name,
// case-insensitively. The database is the arbiter of duplicates; this check
// exists so the API can answer with a dedicated conflict error before the
// unique index fires.
func (r *GormResourceRepository[T]) NameExists(column, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(new(T)).Where("LOWER("+column+") = LOWER(?)", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), r.entity, "name_exists", "error")
		return false, err
	}
	observability.RecordRepositoryOperation(context.Background(), r.entity, "name_exists", "success")
	return count > 0, nil
}
