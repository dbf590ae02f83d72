package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	domainerrors "github.com/imyp/QuoteWeave/internal/errors"
)

// Client talks to an OpenAI-compatible embeddings endpoint, typically an
// Ollama instance running a sentence-transformer model.
type Client struct {
	baseURL       string
	model         string
	fallbackModel string
	apiKey        string
	dimension     int
	httpClient    *http.Client
	logger        *slog.Logger

	mu          sync.Mutex
	activeModel string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithFallbackModel sets a model to try when the primary model is not
// available on the backend.
func WithFallbackModel(model string) ClientOption {
	return func(c *Client) { c.fallbackModel = model }
}

// WithTimeout overrides the per-request HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithAPIKey sets a bearer token for hosted backends. Local backends
// usually need none.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithDimension overrides the expected vector length. Used by tests that
// run small fake backends.
func WithDimension(d int) ClientOption {
	return func(c *Client) { c.dimension = d }
}

// NewClient creates an embeddings client for the given base URL and model.
// The backend is not contacted until the first Embed call.
func NewClient(baseURL, model string, logger *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		dimension: Dimension,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dimension returns the vector length this client produces.
func (c *Client) Dimension() int {
	return c.dimension
}

// Embed returns the vector for a single text. Blank input yields the zero
// sentinel without touching the backend.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return ZeroVector(c.dimension), nil
	}
	model, err := c.ensureModel(ctx)
	if err != nil {
		return nil, err
	}
	vecs, err := c.request(ctx, model, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, domainerrors.Unavailablef("embedding backend returned %d vectors for 1 input", len(vecs))
	}
	return vecs[0], nil
}

// EmbedBatch returns one vector per input, preserving input order. Blank
// inputs get the zero sentinel at their position; the remaining texts are
// sent in a single request, and any failure fails the whole batch.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var pending []string
	var positions []int
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			out[i] = ZeroVector(c.dimension)
			continue
		}
		pending = append(pending, text)
		positions = append(positions, i)
	}
	if len(pending) == 0 {
		return out, nil
	}
	model, err := c.ensureModel(ctx)
	if err != nil {
		return nil, err
	}
	vecs, err := c.request(ctx, model, pending)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(pending) {
		return nil, domainerrors.Unavailablef("embedding backend returned %d vectors for %d inputs", len(vecs), len(pending))
	}
	for i, vec := range vecs {
		out[positions[i]] = vec
	}
	return out, nil
}

// ensureModel resolves which model the backend can serve. The primary model
// is probed first; if the backend rejects it and a fallback is configured,
// the fallback is probed instead. Only a successful probe latches: a failed
// probe (backend down, transient error) is retried on the next call so one
// hiccup never disables the client for its lifetime.
func (c *Client) ensureModel(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeModel != "" {
		return c.activeModel, nil
	}

	// The probe outcome is shared by every caller, so the first request's
	// cancellation must not decide it. The HTTP client timeout still bounds
	// the probe.
	probeCtx := context.WithoutCancel(ctx)

	_, err := c.request(probeCtx, c.model, []string{"probe"})
	if err == nil {
		c.activeModel = c.model
		return c.activeModel, nil
	}
	if c.fallbackModel == "" {
		return "", err
	}
	c.logger.Warn("primary embedding model unavailable, trying fallback",
		slog.String("model", c.model),
		slog.String("fallback", c.fallbackModel),
		slog.String("error", err.Error()))

	if _, err := c.request(probeCtx, c.fallbackModel, []string{"probe"}); err != nil {
		return "", err
	}
	c.activeModel = c.fallbackModel
	return c.activeModel, nil
}

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// embedResponse covers both the OpenAI response shape and the single-vector
// shape some Ollama builds return.
type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Embedding []float32 `json:"embedding"`
}

func (c *Client) request(ctx context.Context, model string, inputs []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Input: inputs, Model: model})
	if err != nil {
		return nil, fmt.Errorf("marshaling embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.Unavailable("embedding backend unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, domainerrors.Unavailable("reading embedding response").WithCause(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.Unavailablef("embedding backend returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed embedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, domainerrors.Unavailable("decoding embedding response").WithCause(err)
	}

	var vecs [][]float32
	switch {
	case len(parsed.Data) > 0:
		vecs = make([][]float32, len(parsed.Data))
		for _, item := range parsed.Data {
			if item.Index < 0 || item.Index >= len(vecs) {
				return nil, domainerrors.Unavailablef("embedding response index %d out of range", item.Index)
			}
			vecs[item.Index] = item.Embedding
		}
	case len(parsed.Embedding) > 0:
		vecs = [][]float32{parsed.Embedding}
	default:
		return nil, domainerrors.Unavailable("embedding response contained no vectors")
	}

	for i, vec := range vecs {
		if len(vec) != c.dimension {
			return nil, domainerrors.Unavailablef("embedding %d has dimension %d, want %d", i, len(vec), c.dimension)
		}
	}
	return vecs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
