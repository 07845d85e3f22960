package badge_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baloria-app/baloria-backend/internal/adapter/postgres/badge"
	"github.com/baloria-app/baloria-backend/internal/adapter/postgres/testhelper"
	"github.com/baloria-app/baloria-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*badge.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return badge.New(pool), pool
}

func TestRepo_Upsert_InsertThenUpdate(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	b := domain.Badge{
		ID:          uuid.New(),
		Name:        "Upsert Badge " + uuid.New().String()[:8],
		Description: "first",
		Icon:        "star",
		Category:    domain.ActionAskQuestion,
		Threshold:   1,
	}

	if err := repo.Upsert(ctx, b); err != nil {
		t.Fatalf("Upsert insert: unexpected error: %v", err)
	}

	// Same name, changed threshold: must update, not duplicate.
	b.Threshold = 5
	b.Description = "second"
	if err := repo.Upsert(ctx, b); err != nil {
		t.Fatalf("Upsert update: unexpected error: %v", err)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: unexpected error: %v", err)
	}

	var found *domain.Badge
	for i := range all {
		if all[i].Name == b.Name {
			if found != nil {
				t.Fatal("badge duplicated by upsert")
			}
			found = &all[i]
		}
	}
	if found == nil {
		t.Fatal("badge not found after upsert")
	}
	if found.Threshold != 5 || found.Description != "second" {
		t.Errorf("upsert did not update fields: threshold=%d description=%q",
			found.Threshold, found.Description)
	}
}

func TestRepo_ListByCategory_OrderedByThreshold(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	testhelper.SeedBadge(t, pool, domain.ActionGiveHeart, 50)
	testhelper.SeedBadge(t, pool, domain.ActionGiveHeart, 1)
	testhelper.SeedBadge(t, pool, domain.ActionGiveHeart, 10)

	badges, err := repo.ListByCategory(ctx, domain.ActionGiveHeart)
	if err != nil {
		t.Fatalf("ListByCategory: unexpected error: %v", err)
	}
	if len(badges) < 3 {
		t.Fatalf("expected at least 3 badges, got %d", len(badges))
	}

	last := 0
	for _, b := range badges {
		if b.Category != domain.ActionGiveHeart {
			t.Errorf("wrong category in result: %q", b.Category)
		}
		if b.Threshold < last {
			t.Error("badges not ordered by ascending threshold")
		}
		last = b.Threshold
	}
}

func TestRepo_Award_Idempotent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	b := testhelper.SeedBadge(t, pool, domain.ActionAskQuestion, 1)
	now := time.Now().UTC().Truncate(time.Microsecond)

	awarded, err := repo.Award(ctx, user.ID, b.ID, now)
	if err != nil {
		t.Fatalf("Award: unexpected error: %v", err)
	}
	if !awarded {
		t.Error("first award should report awarded=true")
	}

	awarded, err = repo.Award(ctx, user.ID, b.ID, now)
	if err != nil {
		t.Fatalf("Award repeat: unexpected error: %v", err)
	}
	if awarded {
		t.Error("repeat award should report awarded=false")
	}

	earned, err := repo.ListEarned(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListEarned: unexpected error: %v", err)
	}
	if len(earned) != 1 {
		t.Errorf("expected exactly 1 earned badge, got %d", len(earned))
	}
}

func TestRepo_ListEarnedBadges_Details(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	user := testhelper.SeedUser(t, pool)
	b1 := testhelper.SeedBadge(t, pool, domain.ActionAskQuestion, 1)
	b2 := testhelper.SeedBadge(t, pool, domain.ActionAnswerQuestion, 10)
	now := time.Now().UTC()

	if _, err := repo.Award(ctx, user.ID, b1.ID, now.Add(-time.Hour)); err != nil {
		t.Fatalf("Award b1: unexpected error: %v", err)
	}
	if _, err := repo.Award(ctx, user.ID, b2.ID, now); err != nil {
		t.Fatalf("Award b2: unexpected error: %v", err)
	}

	badges, err := repo.ListEarnedBadges(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListEarnedBadges: unexpected error: %v", err)
	}
	if len(badges) != 2 {
		t.Fatalf("expected 2 badges, got %d", len(badges))
	}
	// Newest award first.
	if badges[0].ID != b2.ID {
		t.Errorf("expected newest award first, got %s", badges[0].ID)
	}
}

func TestRepo_ListEarned_Empty(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	user := testhelper.SeedUser(t, pool)

	earned, err := repo.ListEarned(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListEarned: unexpected error: %v", err)
	}
	if len(earned) != 0 {
		t.Errorf("expected no earned badges, got %d", len(earned))
	}
}
