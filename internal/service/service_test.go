package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/dto"
	"github.com/imyp/QuoteWeave/internal/store"
	"github.com/imyp/QuoteWeave/internal/store/sqlite"
	"github.com/imyp/QuoteWeave/internal/validation"
)

// testDimension keeps test vectors small; production uses 384.
const testDimension = 4

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testDimension, testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// stubEmbedder maps exact texts to fixed vectors and records how often it
// was called. Unmapped texts get defaultVec.
type stubEmbedder struct {
	vectors    map[string][]float32
	defaultVec []float32
	calls      int
	err        error
}

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{
		vectors:    make(map[string][]float32),
		defaultVec: []float32{0, 0, 0, 1},
	}
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if vec, ok := e.vectors[text]; ok {
		return vec, nil
	}
	return e.defaultVec, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *stubEmbedder) Dimension() int { return testDimension }

// stubTagger returns a fixed tag list, or an error.
type stubTagger struct {
	tags  []string
	err   error
	calls int
}

func (p *stubTagger) PredictTags(_ context.Context, _, _ string) ([]string, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.tags, nil
}

// testEnv bundles the services under test around one store.
type testEnv struct {
	store    *sqlite.Store
	embedder *stubEmbedder
	tagger   *stubTagger
	enricher *dto.Enricher

	quotes      *QuoteService
	search      *SearchService
	favorites   *FavoriteService
	collections *CollectionService
	tags        *TagService
	backfill    *BackfillService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := newTestStore(t)
	embedder := newStubEmbedder()
	tagger := &stubTagger{}
	enricher := dto.NewEnricher(st)
	validator := validation.New()
	logger := testLogger()

	return &testEnv{
		store:       st,
		embedder:    embedder,
		tagger:      tagger,
		enricher:    enricher,
		quotes:      NewQuoteService(st, embedder, tagger, enricher, validator, logger),
		search:      NewSearchService(st, embedder, enricher, logger),
		favorites:   NewFavoriteService(st, logger),
		collections: NewCollectionService(st, validator, logger),
		tags:        NewTagService(st),
		backfill:    NewBackfillService(st, embedder, tagger, logger),
	}
}

// mustAuthor resolves a name to an author via the store's upsert.
func mustAuthor(t *testing.T, st store.Store, name string) *domain.Author {
	t.Helper()
	author, err := st.GetOrCreateAuthor(context.Background(), name)
	if err != nil {
		t.Fatalf("get or create author %s: %v", name, err)
	}
	return author
}

// mustUser creates a user account attached to a fresh author.
func mustUser(t *testing.T, st store.Store, name, email string) (*domain.User, *domain.Author) {
	t.Helper()
	author := mustAuthor(t, st, name)
	user := &domain.User{
		AuthorID:     author.ID,
		Email:        email,
		PasswordHash: "x",
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user, author
}

// mustQuote inserts a quote directly, bypassing the embedding pipeline.
func mustQuote(t *testing.T, st store.Store, authorID int64, text string, isPublic bool, vec []float32) *domain.Quote {
	t.Helper()
	q := &domain.Quote{
		AuthorID:  authorID,
		Text:      text,
		IsPublic:  isPublic,
		Embedding: vec,
	}
	if err := st.CreateQuote(context.Background(), q); err != nil {
		t.Fatalf("create quote %q: %v", text, err)
	}
	return q
}

// viewerFor builds a Viewer from a user and its author.
func viewerFor(user *domain.User) *Viewer {
	return &Viewer{UserID: user.ID, AuthorID: user.AuthorID}
}

// uniqueEmail generates test emails that won't collide inside one store.
func uniqueEmail(n int) string {
	return fmt.Sprintf("user%d@example.com", n)
}

var errStub = errors.New("stub failure")
