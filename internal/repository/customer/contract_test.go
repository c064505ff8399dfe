package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"customer-manager/internal/domain"
)

// exerciseRepository runs the behaviour every backend must share against an
// empty store.
func exerciseRepository(ctx context.Context, t *testing.T, repo Repository, missingID, malformedID string) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)

	created, err := repo.Create(ctx, domain.Customer{
		Name:        "Ada",
		Surname:     "Lovelace",
		Email:       "ada@example.com",
		Initials:    "AL",
		Mobile:      "0123456789",
		LastUpdated: now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || !created.LastUpdated.Equal(now) {
		t.Fatalf("unexpected created customer %+v", created)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !sameCustomer(*got, *created) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, created)
	}

	_, err = repo.Create(ctx, domain.Customer{Name: "Dup", Surname: "Dup", Email: "ada@example.com", LastUpdated: now})
	if domain.KindOf(err) != domain.KindValidation || !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected duplicate email conflict, got %v", err)
	}

	later := now.Add(time.Minute)
	updated, err := repo.Update(ctx, created.ID, domain.Customer{
		Name:        "Augusta",
		Surname:     "King",
		Email:       "augusta@example.com",
		LastUpdated: later,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Augusta" || updated.Initials != "" || updated.Mobile != "" || !updated.LastUpdated.Equal(later) {
		t.Fatalf("update must overwrite every field, got %+v", updated)
	}

	if _, err := repo.Create(ctx, domain.Customer{Name: "Bob", Surname: "Byte", Email: "bob@example.com", LastUpdated: now}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	page, err := repo.List(ctx, domain.ListQuery{SortField: domain.SortByName, SortDirection: domain.Ascending, Offset: 0, Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalDocs != 2 || len(page.Docs) != 1 || page.Docs[0].Name != "Augusta" || !page.HasNextPage {
		t.Fatalf("unexpected page %+v", page)
	}

	page, err = repo.List(ctx, domain.ListQuery{SortField: domain.SortByLastUpdated, SortDirection: domain.Descending, Offset: 0, Limit: 25})
	if err != nil {
		t.Fatalf("list by lastupdated: %v", err)
	}
	if len(page.Docs) != 2 || page.Docs[0].ID != created.ID {
		t.Fatalf("expected most recently updated first, got %+v", page.Docs)
	}

	removed, err := repo.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != created.ID {
		t.Fatalf("delete should return removed customer, got %+v", removed)
	}
	if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := repo.Delete(ctx, missingID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for missing id, got %v", err)
	}
	if _, err := repo.Update(ctx, missingID, domain.Customer{Name: "x", Surname: "y", Email: "z@example.com", LastUpdated: now}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found updating missing id, got %v", err)
	}
	if _, err := repo.GetByID(ctx, malformedID); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

func sameCustomer(a, b domain.Customer) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Surname == b.Surname &&
		a.Email == b.Email &&
		a.Initials == b.Initials &&
		a.Mobile == b.Mobile &&
		a.LastUpdated.Equal(b.LastUpdated)
}
