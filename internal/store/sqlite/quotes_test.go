package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/store"
)

// mustCreateQuote inserts a quote for an author created on the fly.
func mustCreateQuote(t *testing.T, s *Store, authorName, text string, isPublic bool, embedding []float32) *domain.Quote {
	t.Helper()
	ctx := context.Background()

	author, err := s.GetOrCreateAuthor(ctx, authorName)
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	now := time.Now().UTC()
	q := &domain.Quote{
		AuthorID:  author.ID,
		Text:      text,
		IsPublic:  isPublic,
		Embedding: embedding,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateQuote(ctx, q); err != nil {
		t.Fatalf("create quote: %v", err)
	}
	return q
}

func TestCreateQuote_Roundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	vec := []float32{0.1, 0.2, 0.3, 0.4}
	created := mustCreateQuote(t, s, "Ada", "The engine weaves algebraic patterns.", true, vec)

	got, err := s.GetQuoteByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get quote: %v", err)
	}
	if got.Text != created.Text {
		t.Errorf("expected text %q, got %q", created.Text, got.Text)
	}
	if !got.IsPublic {
		t.Error("expected public quote")
	}
	if len(got.Embedding) != testDimension {
		t.Fatalf("expected %d-dim embedding, got %d", testDimension, len(got.Embedding))
	}
	for i := range vec {
		if got.Embedding[i] != vec[i] {
			t.Errorf("embedding[%d]: expected %f, got %f", i, vec[i], got.Embedding[i])
		}
	}
}

func TestCreateQuote_NilEmbedding(t *testing.T) {
	s := newTestStore(t)

	created := mustCreateQuote(t, s, "Ada", "not embedded yet", true, nil)

	got, err := s.GetQuoteByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get quote: %v", err)
	}
	if got.HasEmbedding() {
		t.Error("expected no embedding")
	}
}

func TestCreateQuote_WrongDimension(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author, _ := s.GetOrCreateAuthor(ctx, "Ada")
	now := time.Now().UTC()
	q := &domain.Quote{
		AuthorID:  author.ID,
		Text:      "bad vector",
		IsPublic:  true,
		Embedding: []float32{1, 2}, // wrong length
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateQuote(ctx, q); err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestGetQuoteByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetQuoteByID(context.Background(), 12345)
	if err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateQuote_Patch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	vec := []float32{1, 0, 0, 0}
	q := mustCreateQuote(t, s, "Ada", "original", true, vec)

	// Text-only patch keeps embedding and visibility.
	patch := domain.QuotePatch{Text: domain.Set("revised")}
	if err := s.UpdateQuote(ctx, q.ID, patch); err != nil {
		t.Fatalf("update quote: %v", err)
	}

	got, err := s.GetQuoteByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("get quote: %v", err)
	}
	if got.Text != "revised" {
		t.Errorf("expected revised text, got %q", got.Text)
	}
	if !got.IsPublic {
		t.Error("visibility should be untouched")
	}
	if !got.HasEmbedding() {
		t.Error("embedding should be untouched")
	}

	// Explicit null clears the embedding.
	patch = domain.QuotePatch{Embedding: domain.SetNull[[]float32]()}
	if err := s.UpdateQuote(ctx, q.ID, patch); err != nil {
		t.Fatalf("clear embedding: %v", err)
	}
	got, _ = s.GetQuoteByID(ctx, q.ID)
	if got.HasEmbedding() {
		t.Error("embedding should be cleared")
	}

	// Visibility patch.
	patch = domain.QuotePatch{IsPublic: domain.Set(false)}
	if err := s.UpdateQuote(ctx, q.ID, patch); err != nil {
		t.Fatalf("update visibility: %v", err)
	}
	got, _ = s.GetQuoteByID(ctx, q.ID)
	if got.IsPublic {
		t.Error("expected private quote")
	}
}

func TestUpdateQuote_EmptyPatch(t *testing.T) {
	s := newTestStore(t)

	q := mustCreateQuote(t, s, "Ada", "text", true, nil)

	// Empty patch is a no-op, even for missing quotes.
	if err := s.UpdateQuote(context.Background(), q.ID, domain.QuotePatch{}); err != nil {
		t.Fatalf("empty patch: %v", err)
	}
}

func TestUpdateQuote_NotFound(t *testing.T) {
	s := newTestStore(t)

	patch := domain.QuotePatch{Text: domain.Set("x")}
	err := s.UpdateQuote(context.Background(), 9999, patch)
	if err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPublicQuotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateQuote(t, s, "Ada", "public one", true, nil)
	mustCreateQuote(t, s, "Ada", "private", false, nil)
	mustCreateQuote(t, s, "Ada", "public two", true, nil)

	quotes, total, err := s.ListPublicQuotes(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list public quotes: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	for _, q := range quotes {
		if !q.IsPublic {
			t.Errorf("quote %d should be public", q.ID)
		}
	}

	// Pagination: window of one.
	page, total, err := s.ListPublicQuotes(ctx, 1, 1)
	if err != nil {
		t.Fatalf("paginated list: %v", err)
	}
	if total != 2 || len(page) != 1 {
		t.Errorf("expected total 2 / page 1, got %d / %d", total, len(page))
	}
}

func TestListQuotesMissingEmbedding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q1 := mustCreateQuote(t, s, "Ada", "no vector", true, nil)
	mustCreateQuote(t, s, "Ada", "has vector", true, []float32{1, 0, 0, 0})
	q3 := mustCreateQuote(t, s, "Ada", "also no vector", false, nil)

	ids, err := s.ListQuotesMissingEmbedding(ctx)
	if err != nil {
		t.Fatalf("list missing embedding: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if ids[0] != q1.ID || ids[1] != q3.ID {
		t.Errorf("expected [%d %d], got %v", q1.ID, q3.ID, ids)
	}
}

func TestCountQuotes(t *testing.T) {
	s := newTestStore(t)

	mustCreateQuote(t, s, "Ada", "one", true, nil)
	mustCreateQuote(t, s, "Ada", "two", false, nil)

	n, err := s.CountQuotes(context.Background())
	if err != nil {
		t.Fatalf("count quotes: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestListQuotesMissingTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tagged := mustCreateQuote(t, s, "Ada", "Tagged quote", true, nil)
	bare1 := mustCreateQuote(t, s, "Ada", "Bare quote one", true, nil)
	bare2 := mustCreateQuote(t, s, "Ada", "Bare quote two", false, nil)

	tag, err := s.GetOrCreateTag(ctx, "science")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if err := s.LinkQuoteTag(ctx, tagged.ID, tag.ID); err != nil {
		t.Fatalf("link tag: %v", err)
	}

	ids, err := s.ListQuotesMissingTags(ctx)
	if err != nil {
		t.Fatalf("list quotes missing tags: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	if ids[0] != bare1.ID || ids[1] != bare2.ID {
		t.Errorf("got ids %v, want [%d %d]", ids, bare1.ID, bare2.ID)
	}
}
