package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
)

var ErrIntentNotFound = errors.New("intent not found")

// IntentStore holds transient intents until they are confirmed, cancelled or
// expire. Intents never reach the database.
type IntentStore interface {
	Save(ctx context.Context, intent *domain.Intent, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Intent, error)
	Delete(ctx context.Context, id string) error
}

type InMemoryIntentStore struct {
	mu    sync.RWMutex
	store map[string]intentEntry
}

type intentEntry struct {
	intent    domain.Intent
	expiresAt time.Time
}

func NewInMemoryIntentStore() *InMemoryIntentStore {
	return &InMemoryIntentStore{store: make(map[string]intentEntry)}
}

func (s *InMemoryIntentStore) Save(_ context.Context, intent *domain.Intent, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[intent.ID] = intentEntry{
		intent:    *intent,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *InMemoryIntentStore) Get(_ context.Context, id string) (*domain.Intent, error) {
	s.mu.RLock()
	entry, ok := s.store[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrIntentNotFound
	}
	if time.Now().UTC().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.store, id)
		s.mu.Unlock()
		return nil, ErrIntentNotFound
	}
	copied := entry.intent
	return &copied, nil
}

func (s *InMemoryIntentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, id)
	return nil
}
