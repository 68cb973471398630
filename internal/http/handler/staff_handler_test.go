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

type stubStaffRepo struct {
	items  map[uint]domain.Staff
	nextID uint
}

func (s *stubStaffRepo) Create(entity *domain.Staff) error {
	if s.items == nil {
		s.items = map[uint]domain.Staff{}
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	entity.ID = s.nextID
	s.nextID++
	s.items[entity.ID] = *entity
	return nil
}

func (s *stubStaffRepo) FindByID(id uint) (*domain.Staff, error) {
	entity, ok := s.items[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := entity
	return &cp, nil
}

func (s *stubStaffRepo) ListAll() ([]domain.Staff, error) {
	out := make([]domain.Staff, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubStaffRepo) Replace(id uint, entity *domain.Staff) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrRecordNotFound
	}
	cp := *entity
	cp.ID = id
	s.items[id] = cp
	return nil
}

func (s *stubStaffRepo) ToggleActive(id uint) error {
	entity, ok := s.items[id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	entity.IsActive = !entity.IsActive
	s.items[id] = entity
	return nil
}

func (s *stubStaffRepo) DeleteByID(id uint) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *stubStaffRepo) NameExists(string, string, uint) (bool, error) { return false, nil }

func (s *stubStaffRepo) ListPaged(filter repository.StaffFilter, req repository.PageRequest) (repository.PageResult[domain.Staff], error) {
	page := req.Page
	if page < 1 {
		page = repository.DefaultPage
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = repository.DefaultPageSize
	}

	matched := make([]domain.Staff, 0, len(s.items))
	for id := uint(1); id < s.nextID; id++ {
		e, ok := s.items[id]
		if !ok {
			continue
		}
		if filter.Designation != "" && !strings.EqualFold(e.Designation, filter.Designation) {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Name)) {
			continue
		}
		matched = append(matched, e)
	}

	total := int64(len(matched))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return repository.PageResult[domain.Staff]{
		Items:      matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

type staffPageResponse struct {
	Results  []domain.Staff `json:"results"`
	Count    int64          `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
}

func newStaffRouter(repo *stubStaffRepo) http.Handler {
	svc := service.NewStaffService(repo, nil, time.Minute)
	h := NewStaffHandler(svc, nil)
	sub := chi.NewRouter()
	sub.Get("/", h.List)
	sub.Get("/{id}", h.GetByID)
	sub.Post("/", h.Create)
	sub.Delete("/{id}", h.Delete)
	r := chi.NewRouter()
	r.Mount("/staff-list", sub)
	r.Mount("/", sub)
	return r
}

func seedStaff(t *testing.T, repo *stubStaffRepo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := repo.Create(&domain.Staff{
			Name:        "Teacher " + string(rune('A'+i)),
			Designation: "Teacher",
			IsActive:    true,
		})
		if err != nil {
			t.Fatalf("seed staff: %v", err)
		}
	}
}

func TestStaffListPaginationEnvelope(t *testing.T) {
	repo := &stubStaffRepo{}
	seedStaff(t, repo, 3)
	router := newStaffRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "http://api.school.test/staff-list/?page_size=2", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var page staffPageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Count != 3 || len(page.Results) != 2 {
		t.Fatalf("unexpected first page: count=%d results=%d", page.Count, len(page.Results))
	}
	if page.Previous != nil {
		t.Fatalf("expected null previous on first page, got %v", *page.Previous)
	}
	if page.Next == nil {
		t.Fatal("expected next URL on first page")
	}
	if !strings.HasPrefix(*page.Next, "http://api.school.test/") {
		t.Fatalf("expected absolute next URL, got %s", *page.Next)
	}
	if !strings.Contains(*page.Next, "page=2") || !strings.Contains(*page.Next, "page_size=2") {
		t.Fatalf("unexpected next URL: %s", *page.Next)
	}
}

func TestStaffListLastPage(t *testing.T) {
	repo := &stubStaffRepo{}
	seedStaff(t, repo, 3)
	router := newStaffRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "http://api.school.test/staff-list/?page=2&page_size=2", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var page staffPageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("expected 1 result on last page, got %d", len(page.Results))
	}
	if page.Next != nil {
		t.Fatalf("expected null next on last page, got %v", *page.Next)
	}
	if page.Previous == nil || !strings.Contains(*page.Previous, "page=1") {
		t.Fatalf("expected previous URL pointing at page 1, got %v", page.Previous)
	}
}

func TestStaffListPreservesFiltersInPageURLs(t *testing.T) {
	repo := &stubStaffRepo{}
	seedStaff(t, repo, 3)
	router := newStaffRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "http://api.school.test/staff-list/?designation=Teacher&page_size=2", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var page staffPageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Next == nil || !strings.Contains(*page.Next, "designation=Teacher") {
		t.Fatalf("expected filter preserved in next URL, got %v", page.Next)
	}
}

func TestStaffListRejectsBadPaging(t *testing.T) {
	router := newStaffRouter(&stubStaffRepo{})

	for _, q := range []string{"page=0", "page=x", "page_size=0", "page_size=101"} {
		req := httptest.NewRequest(http.MethodGet, "/?"+q, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", q, rr.Code)
		}
	}
}

func TestStaffListEmptyResultsIsArray(t *testing.T) {
	router := newStaffRouter(&stubStaffRepo{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	var page staffPageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Results == nil {
		t.Fatal("expected results to be an empty array, not null")
	}
	if !strings.Contains(rr.Body.String(), `"results":[]`) {
		t.Fatalf("expected literal empty array in body: %s", rr.Body.String())
	}
}

func TestStaffCreateValidation(t *testing.T) {
	router := newStaffRouter(&stubStaffRepo{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":" "}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestStaffDuplicateNamesAllowed(t *testing.T) {
	router := newStaffRouter(&stubStaffRepo{})

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Rahim Uddin","designation":"Clerk"}`)))
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected duplicate staff name to be accepted, got %d on attempt %d", rr.Code, i)
		}
	}
}
