package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
)

func StaffDescriptor() ResourceDescriptor[domain.Staff] {
	return ResourceDescriptor[domain.Staff]{
		Tag:      TagStaff,
		ActiveOf: func(s *domain.Staff) bool { return s.IsActive },
		Validate: func(s *domain.Staff) error {
			s.Name = strings.TrimSpace(s.Name)
			s.UserID = strings.TrimSpace(s.UserID)
			s.Email = strings.TrimSpace(s.Email)
			s.PhoneNumber = strings.TrimSpace(s.PhoneNumber)
			s.Designation = strings.TrimSpace(s.Designation)
			return checkName(s.Name)
		},
		Patchable: []string{"photo_key"},
	}
}

// StaffService layers filtered server-side pagination over the generic CRUD
// stack. Staff names may legitimately repeat, so the duplicate guard is off
// (the descriptor has no NameColumn).
type StaffService struct {
	*ResourceService[domain.Staff]
	staff repository.StaffRepository
}

func NewStaffService(staff repository.StaffRepository, cache ListCacheStore, ttl time.Duration) *StaffService {
	return &StaffService{
		ResourceService: NewResourceService[domain.Staff](staff, StaffDescriptor(), cache, ttl),
		staff:           staff,
	}
}

// ListPaged bypasses the list cache: the filter/page cardinality makes cached
// staff pages churn too fast to be worth holding.
func (s *StaffService) ListPaged(ctx context.Context, filter repository.StaffFilter, req repository.PageRequest) (repository.PageResult[domain.Staff], error) {
	start := time.Now()
	status := "success"
	defer func() { observability.RecordStaffListRequestDuration(ctx, status, time.Since(start)) }()

	result, err := s.staff.ListPaged(filter, req)
	if err != nil {
		status = "error"
		return repository.PageResult[domain.Staff]{}, err
	}
	observability.RecordStaffListPageSize(ctx, result.PageSize)
	return result, nil
}

// SetPhotoKey records the object-storage key of a staff photo, or clears it
// when key is empty.
func (s *StaffService) SetPhotoKey(ctx context.Context, id uint, key string) (*domain.Staff, error) {
	encoded, err := json.Marshal(key)
	if err != nil {
		return nil, ErrBadPayload
	}
	return s.Patch(ctx, id, map[string]json.RawMessage{"photo_key": encoded})
}
