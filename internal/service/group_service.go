package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
)

var ErrGroupNameTaken = errors.New("a group with this name already exists")

// GroupService manages permission groups. Every change to a group's
// permission set invalidates that group's resolver cache entry so active
// sessions pick up the new capabilities on their next request.
type GroupService struct {
	groups   repository.GroupRepository
	resolver PermissionResolver
	cache    ListCacheStore
}

func NewGroupService(groups repository.GroupRepository, resolver PermissionResolver, cache ListCacheStore) *GroupService {
	if cache == nil {
		cache = NewNoopListCacheStore()
	}
	return &GroupService{groups: groups, resolver: resolver, cache: cache}
}

func (s *GroupService) List(ctx context.Context) ([]domain.Group, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, TagGroup, "list", outcome, time.Since(start)) }()

	groups, err := s.groups.List()
	if err != nil {
		outcome = "error"
		return nil, err
	}
	return groups, nil
}

func (s *GroupService) Get(ctx context.Context, id uint) (*domain.Group, error) {
	return s.groups.FindByID(id)
}

func (s *GroupService) Create(ctx context.Context, name string) (*domain.Group, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, TagGroup, "create", outcome, time.Since(start)) }()

	name = strings.TrimSpace(name)
	if err := checkName(name); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	if _, err := s.groups.FindByName(name); err == nil {
		outcome = "bad_request"
		return nil, ErrGroupNameTaken
	} else if !errors.Is(err, repository.ErrGroupNotFound) {
		outcome = "error"
		return nil, err
	}

	group := &domain.Group{Name: name}
	if err := s.groups.Create(group); err != nil {
		outcome = "error"
		return nil, err
	}
	s.invalidateList(ctx)
	return group, nil
}

func (s *GroupService) Rename(ctx context.Context, id uint, name string) (*domain.Group, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, TagGroup, "update", outcome, time.Since(start)) }()

	name = strings.TrimSpace(name)
	if err := checkName(name); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	if existing, err := s.groups.FindByName(name); err == nil && existing.ID != id {
		outcome = "bad_request"
		return nil, ErrGroupNameTaken
	}
	if err := s.groups.Rename(id, name); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	s.invalidateList(ctx)
	return s.groups.FindByID(id)
}

func (s *GroupService) Delete(ctx context.Context, id uint) error {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, TagGroup, "delete", outcome, time.Since(start)) }()

	if err := s.groups.DeleteByID(id); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return err
	}
	// Sessions still carrying this group id must resolve to the empty set
	// from now on, not to the cached codenames.
	_ = s.resolver.InvalidateGroup(ctx, id)
	s.invalidateList(ctx)
	return nil
}

func (s *GroupService) Permissions(ctx context.Context, id uint) ([]domain.Permission, error) {
	group, err := s.groups.FindByID(id)
	if err != nil {
		return nil, err
	}
	return group.Permissions, nil
}

// ReplacePermissions overwrites the group's permission set and drops the
// group's cached codenames in the same call.
func (s *GroupService) ReplacePermissions(ctx context.Context, id uint, permissionIDs []uint) ([]domain.Permission, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordResourceOperation(ctx, TagGroup, "replace_permissions", outcome, time.Since(start)) }()

	if err := s.groups.ReplacePermissions(id, permissionIDs); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
		return nil, err
	}
	if err := s.resolver.InvalidateGroup(ctx, id); err != nil {
		outcome = "invalidate_error"
	}
	return s.Permissions(ctx, id)
}

func (s *GroupService) invalidateList(ctx context.Context) {
	if err := s.cache.InvalidateNamespace(ctx, TagGroup); err != nil {
		slog.WarnContext(ctx, "list cache invalidation failed", "tag", TagGroup, "error", err)
		return
	}
	observability.RecordListCacheEvent(ctx, TagGroup, "invalidate")
}
