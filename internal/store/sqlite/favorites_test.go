package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/imyp/QuoteWeave/internal/domain"
)

func mustCreateUser(t *testing.T, s *Store, name, email string) *domain.User {
	t.Helper()
	ctx := context.Background()

	author, err := s.GetOrCreateAuthor(ctx, name)
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	now := time.Now().UTC()
	u := &domain.User{
		AuthorID:     author.ID,
		Email:        email,
		PasswordHash: "$argon2id$fake",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestAddFavorite_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "Reader", "reader@example.com")
	q := mustCreateQuote(t, s, "Ada", "favorite me", true, nil)

	if err := s.AddFavorite(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("add favorite: %v", err)
	}

	var first string
	if err := s.db.QueryRow(
		`SELECT favorited_at FROM favorites WHERE user_id = ? AND quote_id = ?`,
		u.ID, q.ID).Scan(&first); err != nil {
		t.Fatalf("read favorited_at: %v", err)
	}

	// Repeat add succeeds and leaves the original timestamp intact.
	if err := s.AddFavorite(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("repeat add favorite: %v", err)
	}
	var second string
	if err := s.db.QueryRow(
		`SELECT favorited_at FROM favorites WHERE user_id = ? AND quote_id = ?`,
		u.ID, q.ID).Scan(&second); err != nil {
		t.Fatalf("re-read favorited_at: %v", err)
	}
	if first != second {
		t.Errorf("favorited_at changed on repeat add: %s -> %s", first, second)
	}

	counts, err := s.FavoriteCounts(ctx, []int64{q.ID})
	if err != nil {
		t.Fatalf("favorite counts: %v", err)
	}
	if counts[q.ID] != 1 {
		t.Errorf("expected count 1, got %d", counts[q.ID])
	}
}

func TestRemoveFavorite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "Reader", "reader@example.com")
	q := mustCreateQuote(t, s, "Ada", "fickle favorite", true, nil)

	if err := s.AddFavorite(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.RemoveFavorite(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	counts, _ := s.FavoriteCounts(ctx, []int64{q.ID})
	if counts[q.ID] != 0 {
		t.Errorf("expected count 0, got %d", counts[q.ID])
	}

	// Removing again is not an error.
	if err := s.RemoveFavorite(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("repeat remove: %v", err)
	}
}

func TestFavoriteCounts_Batch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := mustCreateUser(t, s, "Reader One", "one@example.com")
	u2 := mustCreateUser(t, s, "Reader Two", "two@example.com")
	popular := mustCreateQuote(t, s, "Ada", "popular", true, nil)
	unloved := mustCreateQuote(t, s, "Ada", "unloved", true, nil)

	s.AddFavorite(ctx, u1.ID, popular.ID)
	s.AddFavorite(ctx, u2.ID, popular.ID)

	counts, err := s.FavoriteCounts(ctx, []int64{popular.ID, unloved.ID})
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[popular.ID] != 2 {
		t.Errorf("expected 2, got %d", counts[popular.ID])
	}
	if _, ok := counts[unloved.ID]; ok {
		t.Error("quote with no favorites should be absent")
	}
}

func TestFavoritedSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "Reader", "reader@example.com")
	liked := mustCreateQuote(t, s, "Ada", "liked", true, nil)
	other := mustCreateQuote(t, s, "Ada", "not liked", true, nil)

	s.AddFavorite(ctx, u.ID, liked.ID)

	set, err := s.FavoritedSet(ctx, u.ID, []int64{liked.ID, other.ID})
	if err != nil {
		t.Fatalf("favorited set: %v", err)
	}
	if !set[liked.ID] {
		t.Error("expected liked quote in set")
	}
	if set[other.ID] {
		t.Error("unexpected quote in set")
	}
}
