package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
)

func TestResourceRepositoryCRUD(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.FeeHead{}); err != nil {
		t.Fatalf("migrate fee head: %v", err)
	}
	repo := NewResourceRepository[domain.FeeHead](db, "feehead")

	created := make([]*domain.FeeHead, 0, 3)
	for i := 0; i < 3; i++ {
		h := &domain.FeeHead{Name: fmt.Sprintf("Fee Head %c", 'A'+i), IsActive: true}
		if err := repo.Create(h); err != nil {
			t.Fatalf("create fee head %d: %v", i, err)
		}
		created = append(created, h)
	}

	all, err := repo.ListAll()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 || all[0].ID != created[0].ID {
		t.Fatalf("unexpected list: %+v", all)
	}

	loaded, err := repo.FindByID(created[0].ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if loaded.Name != created[0].Name {
		t.Fatalf("name mismatch: got %q want %q", loaded.Name, created[0].Name)
	}

	// PUT semantics: zero values are written too.
	if err := repo.Replace(created[0].ID, &domain.FeeHead{Name: "Tuition", IsActive: false}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	replaced, err := repo.FindByID(created[0].ID)
	if err != nil {
		t.Fatalf("find replaced: %v", err)
	}
	if replaced.Name != "Tuition" || replaced.IsActive {
		t.Fatalf("unexpected replaced row: %+v", replaced)
	}

	// The flip is a single SQL expression; no other column moves.
	if err := repo.ToggleActive(created[1].ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	toggled, err := repo.FindByID(created[1].ID)
	if err != nil {
		t.Fatalf("find toggled: %v", err)
	}
	if toggled.IsActive || toggled.Name != created[1].Name {
		t.Fatalf("toggle touched other columns: %+v", toggled)
	}
	if err := repo.ToggleActive(created[1].ID); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	toggled, err = repo.FindByID(created[1].ID)
	if err != nil {
		t.Fatalf("find re-toggled: %v", err)
	}
	if !toggled.IsActive {
		t.Fatalf("expected second toggle to reactivate: %+v", toggled)
	}

	if err := repo.DeleteByID(created[2].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(created[2].ID); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestResourceRepositoryNotFoundCases(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.FeeHead{}); err != nil {
		t.Fatalf("migrate fee head: %v", err)
	}
	repo := NewResourceRepository[domain.FeeHead](db, "feehead")

	if _, err := repo.FindByID(999); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if err := repo.Replace(999, &domain.FeeHead{Name: "x"}); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on replace, got %v", err)
	}
	if err := repo.ToggleActive(999); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on toggle, got %v", err)
	}
	if err := repo.DeleteByID(999); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on delete, got %v", err)
	}
}

func TestResourceRepositoryNameExists(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.Fund{}); err != nil {
		t.Fatalf("migrate fund: %v", err)
	}
	repo := NewResourceRepository[domain.Fund](db, "fund")

	fund := &domain.Fund{Name: "General Fund", IsActive: true}
	if err := repo.Create(fund); err != nil {
		t.Fatalf("create fund: %v", err)
	}

	exists, err := repo.NameExists("name", "general FUND", 0)
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if !exists {
		t.Fatal("expected case-insensitive match")
	}

	// The row itself is excluded when checking an update.
	exists, err = repo.NameExists("name", "General Fund", fund.ID)
	if err != nil {
		t.Fatalf("name exists with exclusion: %v", err)
	}
	if exists {
		t.Fatal("expected own row to be excluded")
	}

	exists, err = repo.NameExists("name", "Other Fund", 0)
	if err != nil {
		t.Fatalf("name exists miss: %v", err)
	}
	if exists {
		t.Fatal("expected no match for different name")
	}
}

func TestResourceRepositoryPreloadsParent(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.AutoMigrate(&domain.FeeHead{}, &domain.FeeSubHead{}); err != nil {
		t.Fatalf("migrate fee tables: %v", err)
	}
	heads := NewResourceRepository[domain.FeeHead](db, "feehead")
	subs := NewResourceRepository[domain.FeeSubHead](db, "feesubhead", "FeeHead")

	head := &domain.FeeHead{Name: "Tuition", IsActive: true}
	if err := heads.Create(head); err != nil {
		t.Fatalf("create head: %v", err)
	}
	sub := &domain.FeeSubHead{Name: "Monthly", FeeHeadID: head.ID, IsActive: true}
	if err := subs.Create(sub); err != nil {
		t.Fatalf("create sub head: %v", err)
	}

	loaded, err := subs.FindByID(sub.ID)
	if err != nil {
		t.Fatalf("find sub head: %v", err)
	}
	if loaded.FeeHead == nil || loaded.FeeHead.Name != "Tuition" {
		t.Fatalf("expected fee head preloaded, got %+v", loaded.FeeHead)
	}
}
