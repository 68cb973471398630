package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
)

type stubFeeHeadRepo struct {
	items     map[uint]domain.FeeHead
	nextID    uint
	listCalls int
}

func (s *stubFeeHeadRepo) Create(entity *domain.FeeHead) error {
	if s.items == nil {
		s.items = map[uint]domain.FeeHead{}
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	entity.ID = s.nextID
	s.nextID++
	s.items[entity.ID] = *entity
	return nil
}

func (s *stubFeeHeadRepo) FindByID(id uint) (*domain.FeeHead, error) {
	entity, ok := s.items[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := entity
	return &cp, nil
}

func (s *stubFeeHeadRepo) ListAll() ([]domain.FeeHead, error) {
	s.listCalls++
	out := make([]domain.FeeHead, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubFeeHeadRepo) Replace(id uint, entity *domain.FeeHead) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrRecordNotFound
	}
	cp := *entity
	cp.ID = id
	s.items[id] = cp
	return nil
}

func (s *stubFeeHeadRepo) ToggleActive(id uint) error {
	entity, ok := s.items[id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	entity.IsActive = !entity.IsActive
	s.items[id] = entity
	return nil
}

func (s *stubFeeHeadRepo) DeleteByID(id uint) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *stubFeeHeadRepo) NameExists(column, name string, excludeID uint) (bool, error) {
	for id, e := range s.items {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(e.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func newFeeHeadService(repo *stubFeeHeadRepo, cache ListCacheStore) *ResourceService[domain.FeeHead] {
	return NewResourceService[domain.FeeHead](repo, FeeHeadDescriptor(), cache, time.Minute)
}

func TestResourceServiceValidation(t *testing.T) {
	svc := newFeeHeadService(&stubFeeHeadRepo{}, nil)

	_, err := svc.Create(context.Background(), &domain.FeeHead{Name: "   "})
	if !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}

	_, err = svc.Create(context.Background(), &domain.FeeHead{Name: strings.Repeat("x", 151)})
	if !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestResourceServiceDuplicateName(t *testing.T) {
	repo := &stubFeeHeadRepo{}
	svc := newFeeHeadService(repo, nil)

	if _, err := svc.Create(context.Background(), &domain.FeeHead{Name: "Tuition", IsActive: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(context.Background(), &domain.FeeHead{Name: "tuition", IsActive: true})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName for case-insensitive match, got %v", err)
	}

	// Updating a record keeping its own name must not collide with itself.
	if _, err := svc.Update(context.Background(), 1, &domain.FeeHead{Name: "Tuition", IsActive: false}); err != nil {
		t.Fatalf("update keeping own name: %v", err)
	}
}

func TestResourceServiceCRUDFlow(t *testing.T) {
	repo := &stubFeeHeadRepo{}
	svc := newFeeHeadService(repo, nil)

	created, err := svc.Create(context.Background(), &domain.FeeHead{Name: "Admission", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Name != "Admission" {
		t.Fatalf("unexpected loaded record: %+v", loaded)
	}

	updated, err := svc.Update(context.Background(), created.ID, &domain.FeeHead{Name: "Admission Fee", IsActive: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Admission Fee" {
		t.Fatalf("unexpected updated record: %+v", updated)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, repository.ErrRecordNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestResourceServiceToggle(t *testing.T) {
	repo := &stubFeeHeadRepo{}
	svc := newFeeHeadService(repo, nil)

	created, err := svc.Create(context.Background(), &domain.FeeHead{Name: "Library", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	toggled, err := svc.Toggle(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.IsActive {
		t.Fatalf("expected toggle to deactivate, got %+v", toggled)
	}

	back, err := svc.Toggle(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if !back.IsActive {
		t.Fatalf("expected toggle to reactivate, got %+v", back)
	}
}

func TestResourceServiceToggleRejectedWithoutActiveFlag(t *testing.T) {
	repo := &stubMealNameRepo{}
	svc := NewResourceService[domain.MealName](repo, MealNameDescriptor(), nil, time.Minute)

	created, err := svc.Create(context.Background(), &domain.MealName{Name: "Breakfast"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Toggle(context.Background(), created.ID); !errors.Is(err, ErrNotToggleable) {
		t.Fatalf("expected ErrNotToggleable, got %v", err)
	}
}

func TestResourceServiceListCachesUntilInvalidated(t *testing.T) {
	repo := &stubFeeHeadRepo{}
	cache := NewInMemoryListCacheStore()
	svc := newFeeHeadService(repo, cache)

	if _, err := svc.Create(context.Background(), &domain.FeeHead{Name: "Sports", IsActive: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected second list to hit the cache, repo list calls=%d", repo.listCalls)
	}

	// A mutation invalidates the namespace, so the next list reloads.
	if _, err := svc.Create(context.Background(), &domain.FeeHead{Name: "Hostel", IsActive: true}); err != nil {
		t.Fatalf("create after cached list: %v", err)
	}
	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list after invalidate: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected reload after invalidation, repo list calls=%d", repo.listCalls)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestResourceServiceInvalidationIsScopedToOwnNamespace(t *testing.T) {
	cache := NewInMemoryListCacheStore()
	feeHeads := newFeeHeadService(&stubFeeHeadRepo{}, cache)

	foreign, _ := json.Marshal([]domain.Fund{{ID: 1, Name: "General"}})
	if err := cache.Set(context.Background(), TagFund, "all", foreign, time.Minute); err != nil {
		t.Fatalf("seed foreign namespace: %v", err)
	}

	if _, err := feeHeads.Create(context.Background(), &domain.FeeHead{Name: "Exam", IsActive: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, ok, err := cache.Get(context.Background(), TagFund, "all"); err != nil || !ok {
		t.Fatalf("expected fund namespace untouched by feehead mutation, ok=%v err=%v", ok, err)
	}
}

func TestResourceServiceExecuteIntent(t *testing.T) {
	repo := &stubFeeHeadRepo{}
	svc := newFeeHeadService(repo, nil)

	payload, _ := json.Marshal(domain.FeeHead{Name: "Transport", IsActive: true})
	result, err := svc.ExecuteIntent(context.Background(), &domain.Intent{
		Action:  domain.IntentCreate,
		Payload: payload,
	})
	if err != nil {
		t.Fatalf("execute create intent: %v", err)
	}
	created, ok := result.(*domain.FeeHead)
	if !ok || created.ID == 0 {
		t.Fatalf("unexpected create result: %#v", result)
	}

	if _, err := svc.ExecuteIntent(context.Background(), &domain.Intent{
		Action:  domain.IntentCreate,
		Payload: []byte("{not json"),
	}); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload, got %v", err)
	}

	if _, err := svc.ExecuteIntent(context.Background(), &domain.Intent{
		Action:   domain.IntentDelete,
		TargetID: created.ID,
	}); err != nil {
		t.Fatalf("execute delete intent: %v", err)
	}
	if _, err := repo.FindByID(created.ID); !errors.Is(err, repository.ErrRecordNotFound) {
		t.Fatalf("expected record deleted, got %v", err)
	}
}

type stubInstituteRepo struct {
	items  map[uint]domain.Institute
	nextID uint
}

func (s *stubInstituteRepo) Create(entity *domain.Institute) error {
	if s.items == nil {
		s.items = map[uint]domain.Institute{}
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	entity.ID = s.nextID
	s.nextID++
	s.items[entity.ID] = *entity
	return nil
}

func (s *stubInstituteRepo) FindByID(id uint) (*domain.Institute, error) {
	entity, ok := s.items[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := entity
	return &cp, nil
}

func (s *stubInstituteRepo) ListAll() ([]domain.Institute, error) {
	out := make([]domain.Institute, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubInstituteRepo) Replace(id uint, entity *domain.Institute) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrRecordNotFound
	}
	cp := *entity
	cp.ID = id
	s.items[id] = cp
	return nil
}

func (s *stubInstituteRepo) ToggleActive(id uint) error {
	entity, ok := s.items[id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	entity.IsActive = !entity.IsActive
	s.items[id] = entity
	return nil
}

func (s *stubInstituteRepo) DeleteByID(id uint) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *stubInstituteRepo) NameExists(column, name string, excludeID uint) (bool, error) {
	for id, e := range s.items {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(e.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func newInstituteService(repo *stubInstituteRepo) *ResourceService[domain.Institute] {
	return NewResourceService[domain.Institute](repo, InstituteDescriptor(), nil, time.Minute)
}

func TestResourceServicePatchMergesAndRevalidates(t *testing.T) {
	repo := &stubInstituteRepo{}
	svc := newInstituteService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Institute{Name: "Alpha School", Address: "Old Road", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	patched, err := svc.Patch(ctx, created.ID, map[string]json.RawMessage{
		"address": json.RawMessage(`"New Road 12"`),
	})
	if err != nil {
		t.Fatalf("patch address: %v", err)
	}
	if patched.Address != "New Road 12" || patched.Name != "Alpha School" || !patched.IsActive {
		t.Fatalf("patch touched unrelated fields: %+v", patched)
	}
}

func TestResourceServicePatchRejectsEmptyName(t *testing.T) {
	repo := &stubInstituteRepo{}
	svc := newInstituteService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Institute{Name: "Alpha School", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Patch(ctx, created.ID, map[string]json.RawMessage{
		"name": json.RawMessage(`""`),
	}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	stored, err := repo.FindByID(created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Name != "Alpha School" {
		t.Fatalf("rejected patch must leave the row unchanged, got %q", stored.Name)
	}
}

func TestResourceServicePatchRejectsUnknownFields(t *testing.T) {
	repo := &stubInstituteRepo{}
	svc := newInstituteService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Institute{Name: "Alpha School", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, field := range []string{"id", "created_at", "bogus_column"} {
		if _, err := svc.Patch(ctx, created.ID, map[string]json.RawMessage{
			field: json.RawMessage(`999`),
		}); !errors.Is(err, ErrFieldNotPatchable) {
			t.Fatalf("expected ErrFieldNotPatchable for %q, got %v", field, err)
		}
	}
	stored, err := repo.FindByID(created.ID)
	if err != nil {
		t.Fatalf("row must stay at its id after rejected patches: %v", err)
	}
	if stored.ID != created.ID || stored.Name != "Alpha School" {
		t.Fatalf("unexpected row after rejected patches: %+v", stored)
	}
}

func TestResourceServicePatchDuplicateNameConflicts(t *testing.T) {
	repo := &stubInstituteRepo{}
	svc := newInstituteService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.Institute{Name: "Alpha School", IsActive: true}); err != nil {
		t.Fatalf("create alpha: %v", err)
	}
	beta, err := svc.Create(ctx, &domain.Institute{Name: "Beta School", IsActive: true})
	if err != nil {
		t.Fatalf("create beta: %v", err)
	}

	if _, err := svc.Patch(ctx, beta.ID, map[string]json.RawMessage{
		"name": json.RawMessage(`"alpha school"`),
	}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

type failingInvalidateStore struct {
	*InMemoryListCacheStore
}

func (s failingInvalidateStore) InvalidateNamespace(context.Context, string) error {
	return errors.New("redis unavailable")
}

func TestResourceServiceLogsFailedInvalidation(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	repo := &stubFeeHeadRepo{}
	svc := NewResourceService[domain.FeeHead](repo, FeeHeadDescriptor(), failingInvalidateStore{NewInMemoryListCacheStore()}, time.Minute)

	if _, err := svc.Create(context.Background(), &domain.FeeHead{Name: "Exam", IsActive: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a log line for the failed invalidation, got %q: %v", buf.String(), err)
	}
	if line["level"] != "WARN" || line["tag"] != TagFeeHead {
		t.Fatalf("unexpected log line: %v", line)
	}
}

type stubMealNameRepo struct {
	items  map[uint]domain.MealName
	nextID uint
}

func (s *stubMealNameRepo) Create(entity *domain.MealName) error {
	if s.items == nil {
		s.items = map[uint]domain.MealName{}
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	entity.ID = s.nextID
	s.nextID++
	s.items[entity.ID] = *entity
	return nil
}

func (s *stubMealNameRepo) FindByID(id uint) (*domain.MealName, error) {
	entity, ok := s.items[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := entity
	return &cp, nil
}

func (s *stubMealNameRepo) ListAll() ([]domain.MealName, error) {
	out := make([]domain.MealName, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubMealNameRepo) Replace(id uint, entity *domain.MealName) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrRecordNotFound
	}
	cp := *entity
	cp.ID = id
	s.items[id] = cp
	return nil
}

func (s *stubMealNameRepo) ToggleActive(id uint) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (s *stubMealNameRepo) DeleteByID(id uint) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *stubMealNameRepo) NameExists(column, name string, excludeID uint) (bool, error) {
	for id, e := range s.items {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(e.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
