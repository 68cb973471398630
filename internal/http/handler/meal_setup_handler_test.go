package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

type stubMealSetupStore struct {
	setups map[uint]*domain.MealSetup
	nextID uint
}

func newStubMealSetupStore() *stubMealSetupStore {
	return &stubMealSetupStore{setups: map[uint]*domain.MealSetup{}, nextID: 1}
}

func (s *stubMealSetupStore) ListAll() ([]domain.MealSetup, error) {
	out := make([]domain.MealSetup, 0, len(s.setups))
	for id := uint(1); id < s.nextID; id++ {
		if setup, ok := s.setups[id]; ok {
			out = append(out, *setup)
		}
	}
	return out, nil
}

func (s *stubMealSetupStore) FindByID(id uint) (*domain.MealSetup, error) {
	setup, ok := s.setups[id]
	if !ok {
		return nil, repository.ErrMealSetupNotFound
	}
	cp := *setup
	return &cp, nil
}

func (s *stubMealSetupStore) Create(setup *domain.MealSetup, itemIDs []uint) error {
	setup.ID = s.nextID
	s.nextID++
	for _, id := range itemIDs {
		setup.Items = append(setup.Items, domain.MealItem{ID: id})
	}
	cp := *setup
	s.setups[setup.ID] = &cp
	return nil
}

func (s *stubMealSetupStore) Update(id uint, day domain.Weekday, mealNameID uint, itemIDs []uint) (*domain.MealSetup, error) {
	setup, ok := s.setups[id]
	if !ok {
		return nil, repository.ErrMealSetupNotFound
	}
	setup.Day = day
	setup.MealNameID = mealNameID
	setup.Items = nil
	for _, itemID := range itemIDs {
		setup.Items = append(setup.Items, domain.MealItem{ID: itemID})
	}
	cp := *setup
	return &cp, nil
}

func (s *stubMealSetupStore) DeleteByID(id uint) error {
	if _, ok := s.setups[id]; !ok {
		return repository.ErrMealSetupNotFound
	}
	delete(s.setups, id)
	return nil
}

func newMealSetupRouter(store *stubMealSetupStore) http.Handler {
	h := NewMealSetupHandler(service.NewMealSetupService(store, nil, time.Minute))
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func TestMealSetupHandlerCreateAndUpdate(t *testing.T) {
	router := newMealSetupRouter(newStubMealSetupStore())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"day":"SUN","meal_name_id":1,"item_ids":[1,2]}`)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created domain.MealSetup
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created setup: %v", err)
	}
	if created.Day != domain.Sunday || len(created.Items) != 2 {
		t.Fatalf("unexpected created setup: %+v", created)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/1",
		strings.NewReader(`{"day":"FRI","meal_name_id":1,"item_ids":[3]}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var updated domain.MealSetup
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated setup: %v", err)
	}
	if updated.Day != domain.Friday || len(updated.Items) != 1 {
		t.Fatalf("expected wholesale item replacement, got %+v", updated)
	}
}

func TestMealSetupHandlerValidation(t *testing.T) {
	router := newMealSetupRouter(newStubMealSetupStore())

	for _, body := range []string{
		`{"day":"SOMEDAY","meal_name_id":1}`,
		`{"day":"SUN"}`,
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, rr.Code)
		}
	}
}

func TestMealSetupHandlerNotFound(t *testing.T) {
	router := newMealSetupRouter(newStubMealSetupStore())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/99", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/99", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on delete, got %d", rr.Code)
	}
}
