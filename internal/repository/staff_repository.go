package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
)

// StaffFilter mirrors the server-side query parameters of the staff
// directory. Empty fields are ignored.
type StaffFilter struct {
	Name        string
	UserID      string
	PhoneNumber string
	Email       string
	Designation string
}

// StaffRepository extends the generic resource contract with server-side
// pagination and filtering; the staff directory is the one collection too
// large to ship as a bare array.
type StaffRepository interface {
	ResourceRepository[domain.Staff]
	ListPaged(filter StaffFilter, req PageRequest) (PageResult[domain.Staff], error)
}

type GormStaffRepository struct {
	*GormResourceRepository[domain.Staff]
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &GormStaffRepository{
		GormResourceRepository: NewResourceRepository[domain.Staff](db, "staff"),
		db:                     db,
	}
}

func (r *GormStaffRepository) ListPaged(filter StaffFilter, req PageRequest) (PageResult[domain.Staff], error) {
	normalized := normalizePageRequest(req)
	result := PageResult[domain.Staff]{
		Page:     normalized.Page,
		PageSize: normalized.PageSize,
	}

	base := r.db.Model(&domain.Staff{})
	base = applyStaffFilter(base, filter)
	if err := base.Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "staff", "list_paged", "error")
		return PageResult[domain.Staff]{}, err
	}
	if err := base.Order("id asc").Offset(normalized.offset()).Limit(normalized.PageSize).Find(&result.Items).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "staff", "list_paged", "error")
		return PageResult[domain.Staff]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, normalized.PageSize)
	observability.RecordRepositoryOperation(context.Background(), "staff", "list_paged", "success")
	return result, nil
}

func applyStaffFilter(q *gorm.DB, filter StaffFilter) *gorm.DB {
	if v := strings.TrimSpace(filter.Name); v != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+v+"%")
	}
	if v := strings.TrimSpace(filter.UserID); v != "" {
		q = q.Where("user_id = ?", v)
	}
	if v := strings.TrimSpace(filter.PhoneNumber); v != "" {
		q = q.Where("phone_number LIKE ?", "%"+v+"%")
	}
	if v := strings.TrimSpace(filter.Email); v != "" {
		q = q.Where("LOWER(email) LIKE LOWER(?)", "%"+v+"%")
	}
	if v := strings.TrimSpace(filter.Designation); v != "" {
		q = q.Where("LOWER(designation) = LOWER(?)", v)
	}
	return q
}
