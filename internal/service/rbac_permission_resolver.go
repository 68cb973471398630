package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
	"github.com/schoolsuite/institute-admin-api/internal/security"
)

// PermissionCacheStore caches resolved codename sets per group.
type PermissionCacheStore interface {
	Get(ctx context.Context, groupID uint) ([]string, bool, error)
	Set(ctx context.Context, groupID uint, codenames []string, ttl time.Duration) error
	InvalidateGroup(ctx context.Context, groupID uint) error
}

// CachedPermissionResolver resolves a group's codenames through a cache with
// singleflight collapsing. A session without a group resolves to the empty
// set: capability checks fail closed instead of erroring.
type CachedPermissionResolver struct {
	cacheStore PermissionCacheStore
	groups     repository.GroupRepository
	ttl        time.Duration
	sf         singleflight.Group
}

func NewCachedPermissionResolver(cacheStore PermissionCacheStore, groups repository.GroupRepository, ttl time.Duration) *CachedPermissionResolver {
	return &CachedPermissionResolver{
		cacheStore: cacheStore,
		groups:     groups,
		ttl:        ttl,
	}
}

func (r *CachedPermissionResolver) ResolvePermissions(ctx context.Context, claims *security.Claims) ([]string, error) {
	if claims == nil {
		return nil, fmt.Errorf("missing claims")
	}
	if claims.GroupID == 0 {
		return []string{}, nil
	}
	groupID := claims.GroupID

	if r.cacheStore != nil && r.ttl > 0 {
		cached, ok, err := r.cacheStore.Get(ctx, groupID)
		if err == nil && ok {
			observability.RecordPermissionCacheEvent(ctx, "hit")
			return cached, nil
		}
	}
	observability.RecordPermissionCacheEvent(ctx, "miss")

	sfKey := fmt.Sprintf("rbacperm:group:%d", groupID)
	result, err, shared := r.sf.Do(sfKey, func() (interface{}, error) {
		if r.cacheStore != nil && r.ttl > 0 {
			cached, ok, err := r.cacheStore.Get(ctx, groupID)
			if err == nil && ok {
				return cached, nil
			}
		}
		codenames, err := r.groups.CodenamesByGroupID(groupID)
		if err != nil {
			if err == repository.ErrGroupNotFound {
				// A deleted group means no capabilities, not an outage.
				return []string{}, nil
			}
			return nil, err
		}
		if r.cacheStore != nil && r.ttl > 0 {
			_ = r.cacheStore.Set(ctx, groupID, codenames, r.ttl)
		}
		return codenames, nil
	})
	if shared {
		observability.RecordPermissionCacheEvent(ctx, "singleflight_shared")
	} else {
		observability.RecordPermissionCacheEvent(ctx, "singleflight_leader")
	}
	if err != nil {
		return nil, err
	}
	codenames, ok := result.([]string)
	if !ok {
		return nil, fmt.Errorf("invalid permission result type")
	}
	return codenames, nil
}

func (r *CachedPermissionResolver) InvalidateGroup(ctx context.Context, groupID uint) error {
	if r.cacheStore == nil {
		return nil
	}
	return r.cacheStore.InvalidateGroup(ctx, groupID)
}

type InMemoryPermissionCacheStore struct {
	mu    sync.RWMutex
	store map[uint]permCacheEntry
}

type permCacheEntry struct {
	codenames []string
	expiresAt time.Time
}

func NewInMemoryPermissionCacheStore() *InMemoryPermissionCacheStore {
	return &InMemoryPermissionCacheStore{store: make(map[uint]permCacheEntry)}
}

func (s *InMemoryPermissionCacheStore) Get(_ context.Context, groupID uint) ([]string, bool, error) {
	s.mu.RLock()
	entry, ok := s.store[groupID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.store, groupID)
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]string(nil), entry.codenames...), true, nil
}

func (s *InMemoryPermissionCacheStore) Set(_ context.Context, groupID uint, codenames []string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[groupID] = permCacheEntry{
		codenames: append([]string(nil), codenames...),
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *InMemoryPermissionCacheStore) InvalidateGroup(_ context.Context, groupID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, groupID)
	return nil
}
