package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/security"
)

var (
	ErrIntentNotPending   = errors.New("intent is no longer pending")
	ErrIntentExpired      = errors.New("intent has expired")
	ErrNotIntentOwner     = errors.New("intent belongs to another user")
	ErrUnknownResource    = errors.New("unknown intent resource")
	ErrInvalidAction      = errors.New("invalid intent action")
	ErrCapabilityDenied   = errors.New("capability denied")
	ErrPermissionResolver = errors.New("permission resolution unavailable")
)

// How long a resolved intent remains readable after confirm or cancel.
const resolvedIntentRetention = 5 * time.Minute

// RaiseIntentRequest describes a mutation the caller wants staged for
// explicit confirmation.
type RaiseIntentRequest struct {
	Resource string              `json:"resource"`
	Action   domain.IntentAction `json:"action"`
	TargetID uint                `json:"target_id,omitempty"`
	Payload  []byte              `json:"payload,omitempty"`
}

// IntentResult carries the executed operation's outcome back to the caller
// alongside the resolved intent.
type IntentResult struct {
	Intent *domain.Intent `json:"intent"`
	Result any            `json:"result,omitempty"`
}

// IntentService stages mutations as pending intents and executes them only on
// confirmation. The capability needed for the action is checked when the
// intent is raised and again when it is confirmed, so a permission revoked in
// between still blocks the mutation.
type IntentService struct {
	store     IntentStore
	rbac      RBACAuthorizer
	resolver  PermissionResolver
	executors map[string]IntentExecutor
	ttl       time.Duration
	confirmMu keyedMutex
}

func NewIntentService(store IntentStore, rbac RBACAuthorizer, resolver PermissionResolver, ttl time.Duration) *IntentService {
	if store == nil {
		store = NewInMemoryIntentStore()
	}
	return &IntentService{
		store:     store,
		rbac:      rbac,
		resolver:  resolver,
		executors: make(map[string]IntentExecutor),
		ttl:       ttl,
	}
}

// RegisterExecutor binds a resource tag to the executor that carries out its
// confirmed intents. Raising an intent for an unregistered tag fails.
func (s *IntentService) RegisterExecutor(resource string, executor IntentExecutor) {
	s.executors[resource] = executor
}

func (s *IntentService) Raise(ctx context.Context, claims *security.Claims, req RaiseIntentRequest) (*domain.Intent, error) {
	if !req.Action.Valid() {
		observability.RecordIntentEvent(ctx, req.Resource, string(req.Action), "bad_request")
		return nil, ErrInvalidAction
	}
	if _, ok := s.executors[req.Resource]; !ok {
		observability.RecordIntentEvent(ctx, req.Resource, string(req.Action), "bad_request")
		return nil, ErrUnknownResource
	}
	if err := s.authorize(ctx, claims, req.Resource, req.Action); err != nil {
		observability.RecordIntentEvent(ctx, req.Resource, string(req.Action), "denied")
		return nil, err
	}

	actorID, err := claims.UserID()
	if err != nil {
		observability.RecordIntentEvent(ctx, req.Resource, string(req.Action), "denied")
		return nil, ErrCapabilityDenied
	}

	now := time.Now().UTC()
	intent := &domain.Intent{
		ID:        uuid.NewString(),
		Resource:  req.Resource,
		Action:    req.Action,
		TargetID:  req.TargetID,
		Payload:   req.Payload,
		ActorID:   actorID,
		GroupID:   claims.GroupID,
		Status:    domain.IntentPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	// Stored past the expiry so a late confirm reads as expired, not missing.
	if err := s.store.Save(ctx, intent, s.ttl+resolvedIntentRetention); err != nil {
		observability.RecordIntentEvent(ctx, req.Resource, string(req.Action), "error")
		return nil, err
	}
	observability.RecordIntentEvent(ctx, req.Resource, string(req.Action), "raised")
	return intent, nil
}

// Confirm executes a pending intent exactly once. Concurrent confirms of the
// same id serialize on a per-id mutex; the loser observes the terminal state.
func (s *IntentService) Confirm(ctx context.Context, claims *security.Claims, id string) (*IntentResult, error) {
	unlock := s.confirmMu.lock(id)
	defer unlock()

	intent, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if intent.Status != domain.IntentPending {
		observability.RecordIntentEvent(ctx, intent.Resource, string(intent.Action), "not_pending")
		return nil, ErrIntentNotPending
	}
	if intent.Expired(time.Now().UTC()) {
		_ = s.store.Delete(ctx, id)
		observability.RecordIntentEvent(ctx, intent.Resource, string(intent.Action), "expired")
		return nil, ErrIntentExpired
	}
	if err := s.authorize(ctx, claims, intent.Resource, intent.Action); err != nil {
		observability.RecordIntentEvent(ctx, intent.Resource, string(intent.Action), "denied")
		return nil, err
	}

	executor, ok := s.executors[intent.Resource]
	if !ok {
		observability.RecordIntentEvent(ctx, intent.Resource, string(intent.Action), "error")
		return nil, ErrUnknownResource
	}
	result, err := executor.ExecuteIntent(ctx, intent)
	if err != nil {
		observability.RecordIntentEvent(ctx, intent.Resource, string(intent.Action), "failed")
		return nil, err
	}

	intent.Status = domain.IntentConfirmed
	_ = s.store.Save(ctx, intent, resolvedIntentRetention)
	observability.RecordIntentEvent(ctx, intent.Resource, string(intent.Action), "confirmed")
	return &IntentResult{Intent: intent, Result: result}, nil
}

func (s *IntentService) Cancel(ctx context.Context, claims *security.Claims, id string) (*domain.Intent, error) {
	unlock := s.confirmMu.lock(id)
	defer unlock()

	intent, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if intent.Status != domain.IntentPending {
		return nil, ErrIntentNotPending
	}
	intent.Status = domain.IntentCancelled
	_ = s.store.Save(ctx, intent, resolvedIntentRetention)
	observability.RecordIntentEvent(ctx, intent.Resource, string(intent.Action), "cancelled")
	return intent, nil
}

func (s *IntentService) Get(ctx context.Context, claims *security.Claims, id string) (*domain.Intent, error) {
	return s.loadOwned(ctx, claims, id)
}

func (s *IntentService) loadOwned(ctx context.Context, claims *security.Claims, id string) (*domain.Intent, error) {
	intent, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, ErrIntentNotFound
	}
	actorID, err := claims.UserID()
	if err != nil {
		return nil, ErrIntentNotFound
	}
	if intent.ActorID != actorID && !claims.IsSuperAdmin {
		// Hide other users' intents entirely.
		return nil, ErrIntentNotFound
	}
	return intent, nil
}

func (s *IntentService) authorize(ctx context.Context, claims *security.Claims, resource string, action domain.IntentAction) error {
	if claims == nil {
		return ErrCapabilityDenied
	}
	if claims.IsSuperAdmin {
		return nil
	}
	codenames, err := s.resolver.ResolvePermissions(ctx, claims)
	if err != nil {
		return ErrPermissionResolver
	}
	if !s.rbac.Can(codenames, action.Capability(), resource) {
		return ErrCapabilityDenied
	}
	return nil
}

// keyedMutex serializes operations per intent id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*lockEntry)
	}
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
