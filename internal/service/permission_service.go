package service

import (
	"context"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
)

// PermissionService exposes the read-only permission catalogue that group
// editors choose from.
type PermissionService struct {
	perms repository.PermissionRepository
}

func NewPermissionService(perms repository.PermissionRepository) *PermissionService {
	return &PermissionService{perms: perms}
}

func (s *PermissionService) List(_ context.Context) ([]domain.Permission, error) {
	return s.perms.List()
}
