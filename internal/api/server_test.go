package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/imyp/QuoteWeave/internal/auth"
	"github.com/imyp/QuoteWeave/internal/config"
	"github.com/imyp/QuoteWeave/internal/dto"
	"github.com/imyp/QuoteWeave/internal/service"
	"github.com/imyp/QuoteWeave/internal/store/sqlite"
	"github.com/imyp/QuoteWeave/internal/validation"
)

// testDimension keeps test vectors small; production uses 384.
const testDimension = 4

// testEnvelope mirrors the response Envelope with a typed data field.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// stubEmbedder maps exact texts to fixed vectors. Unmapped texts get
// defaultVec so every quote is searchable.
type stubEmbedder struct {
	vectors    map[string][]float32
	defaultVec []float32
	err        error
}

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{
		vectors:    make(map[string][]float32),
		defaultVec: []float32{0, 0, 0, 1},
	}
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
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
	tags []string
	err  error
}

func (p *stubTagger) PredictTags(_ context.Context, _, _ string) ([]string, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.tags, nil
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api      humatest.TestAPI
	embedder *stubEmbedder
	tagger   *stubTagger
}

// setupTestServer creates a fully wired server over a throwaway database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testDimension, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokenService, err := auth.NewTokenService(
		strings.Repeat("ab", 32),
		15*time.Minute,
		24*time.Hour,
	)
	require.NoError(t, err)

	embedder := newStubEmbedder()
	tagger := &stubTagger{}
	enricher := dto.NewEnricher(st)
	validator := validation.New()

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, validator, logger)
	services := &Services{
		Auth:       authService,
		Quote:      service.NewQuoteService(st, embedder, tagger, enricher, validator, logger),
		Search:     service.NewSearchService(st, embedder, enricher, logger),
		Collection: service.NewCollectionService(st, validator, logger),
		Favorite:   service.NewFavoriteService(st, logger),
		Tag:        service.NewTagService(st),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "QuoteWeave Test"},
	}

	s := NewServer(cfg, st, services, logger)

	return &testServer{
		Server:   s,
		api:      humatest.Wrap(t, s.api),
		embedder: embedder,
		tagger:   tagger,
	}
}

// registerUser creates an account through the API and returns its auth data.
func (ts *testServer) registerUser(t *testing.T, username, email string) AuthResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": username,
		"email":    email,
		"password": "CorrectHorse9!",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return envelope.Data
}

// createQuote creates a quote through the API and returns its entry.
func (ts *testServer) createQuote(t *testing.T, token, text string, public bool, tags ...string) dto.QuoteEntry {
	t.Helper()

	body := map[string]any{
		"text":      text,
		"is_public": public,
	}
	if len(tags) > 0 {
		body["tags"] = tags
	}

	resp := ts.api.Post("/api/v1/quotes", body, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "create quote failed: %s", resp.Body.String())

	var envelope testEnvelope[dto.QuoteEntry]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data
}
