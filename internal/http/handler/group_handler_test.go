package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

type stubGroupStore struct {
	groups map[uint]*domain.Group
	perms  map[uint]domain.Permission
	nextID uint
}

func newStubGroupStore() *stubGroupStore {
	return &stubGroupStore{
		groups: map[uint]*domain.Group{},
		perms: map[uint]domain.Permission{
			1: {ID: 1, Codename: "add_feehead", Name: "Can add fee head"},
			2: {ID: 2, Codename: "view_feehead", Name: "Can view fee head"},
		},
		nextID: 1,
	}
}

func (s *stubGroupStore) List() ([]domain.Group, error) {
	out := make([]domain.Group, 0, len(s.groups))
	for id := uint(1); id < s.nextID; id++ {
		if g, ok := s.groups[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *stubGroupStore) FindByID(id uint) (*domain.Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *stubGroupStore) FindByName(name string) (*domain.Group, error) {
	for _, g := range s.groups {
		if strings.EqualFold(g.Name, name) {
			cp := *g
			return &cp, nil
		}
	}
	return nil, repository.ErrGroupNotFound
}

func (s *stubGroupStore) Create(group *domain.Group) error {
	group.ID = s.nextID
	s.nextID++
	cp := *group
	s.groups[group.ID] = &cp
	return nil
}

func (s *stubGroupStore) Rename(id uint, name string) error {
	g, ok := s.groups[id]
	if !ok {
		return repository.ErrGroupNotFound
	}
	g.Name = name
	return nil
}

func (s *stubGroupStore) DeleteByID(id uint) error {
	if _, ok := s.groups[id]; !ok {
		return repository.ErrGroupNotFound
	}
	delete(s.groups, id)
	return nil
}

func (s *stubGroupStore) CodenamesByGroupID(id uint) ([]string, error) {
	g, ok := s.groups[id]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}
	out := make([]string, 0, len(g.Permissions))
	for _, p := range g.Permissions {
		out = append(out, p.Codename)
	}
	return out, nil
}

func (s *stubGroupStore) ReplacePermissions(id uint, permissionIDs []uint) error {
	g, ok := s.groups[id]
	if !ok {
		return repository.ErrGroupNotFound
	}
	g.Permissions = nil
	for _, pid := range permissionIDs {
		if p, ok := s.perms[pid]; ok {
			g.Permissions = append(g.Permissions, p)
		}
	}
	return nil
}

type stubPermissionStore struct {
	store *stubGroupStore
}

func (s stubPermissionStore) List() ([]domain.Permission, error) {
	out := make([]domain.Permission, 0, len(s.store.perms))
	for id := uint(1); id <= uint(len(s.store.perms)); id++ {
		if p, ok := s.store.perms[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s stubPermissionStore) FindByCodenames(codenames []string) ([]domain.Permission, error) {
	var out []domain.Permission
	for _, p := range s.store.perms {
		for _, c := range codenames {
			if p.Codename == c {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func newGroupRouter(store *stubGroupStore) http.Handler {
	groups := service.NewGroupService(store, allowAllResolver{}, nil)
	perms := service.NewPermissionService(stubPermissionStore{store: store})
	h := NewGroupHandler(groups, perms)
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Rename)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/permissions", h.Permissions)
	r.Put("/{id}/permissions", h.ReplacePermissions)
	return r
}

func TestGroupHandlerCreateAndConflict(t *testing.T) {
	router := newGroupRouter(newStubGroupStore())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Accounts"}`)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"accounts"}`)))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate name, got %d", rr.Code)
	}
}

func TestGroupHandlerListReturnsBareArray(t *testing.T) {
	router := newGroupRouter(newStubGroupStore())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected bare empty array, got %s", rr.Body.String())
	}
}

func TestGroupHandlerReplacePermissions(t *testing.T) {
	store := newStubGroupStore()
	router := newGroupRouter(store)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Accounts"}`)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/1/permissions", strings.NewReader(`{"permission_ids":[1,2]}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var perms []domain.Permission
	if err := json.Unmarshal(rr.Body.Bytes(), &perms); err != nil {
		t.Fatalf("decode permissions: %v", err)
	}
	if len(perms) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(perms))
	}

	// Clearing yields an empty array, not null.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/1/permissions", strings.NewReader(`{"permission_ids":[]}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on clear, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rr.Body.String())
	}
}

func TestGroupHandlerNotFound(t *testing.T) {
	router := newGroupRouter(newStubGroupStore())

	for _, tc := range []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/99", ""},
		{http.MethodPut, "/99", `{"name":"Ghost"}`},
		{http.MethodDelete, "/99", ""},
		{http.MethodPut, "/99/permissions", `{"permission_ids":[1]}`},
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body)))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s %s, got %d", tc.method, tc.target, rr.Code)
		}
	}
}
