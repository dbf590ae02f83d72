package tagging

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

// Client predicts tags by prompting a generation model through an
// Ollama-style /api/generate endpoint.
type Client struct {
	baseURL       string
	model         string
	fallbackModel string
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

// NewClient creates a tag prediction client. The backend is not contacted
// until the first PredictTags call.
func NewClient(baseURL, model string, logger *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PredictTags prompts the model for comma-separated tags describing the
// quote and cleans up the output.
func (c *Client) PredictTags(ctx context.Context, quoteText, authorName string) ([]string, error) {
	if strings.TrimSpace(quoteText) == "" {
		return nil, nil
	}
	model, err := c.ensureModel(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.generate(ctx, model, buildPrompt(quoteText, authorName))
	if err != nil {
		return nil, err
	}
	return splitTags(raw), nil
}

// buildPrompt phrases the request so the model answers with a comma
// separated tag list.
func buildPrompt(quoteText, authorName string) string {
	if strings.TrimSpace(authorName) == "" {
		authorName = "Unknown"
	}
	return fmt.Sprintf("What tags or categories would best describe this quote: %q by %s? Provide comma-separated tags.", quoteText, authorName)
}

// splitTags turns raw model output into trimmed, deduplicated tag names,
// preserving order of first appearance.
func splitTags(raw string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// ensureModel probes the primary model and falls back to the secondary if
// the backend rejects it. Only a successful probe latches; a failed probe is
// retried on the next call so a transient outage never disables prediction
// for the client lifetime.
func (c *Client) ensureModel(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeModel != "" {
		return c.activeModel, nil
	}

	// Shared outcome, so the first caller's cancellation must not decide it.
	probeCtx := context.WithoutCancel(ctx)

	_, err := c.generate(probeCtx, c.model, "ping")
	if err == nil {
		c.activeModel = c.model
		return c.activeModel, nil
	}
	if c.fallbackModel == "" {
		return "", err
	}
	c.logger.Warn("primary tagging model unavailable, trying fallback",
		slog.String("model", c.model),
		slog.String("fallback", c.fallbackModel),
		slog.String("error", err.Error()))

	if _, err := c.generate(probeCtx, c.fallbackModel, "ping"); err != nil {
		return "", err
	}
	c.activeModel = c.fallbackModel
	return c.activeModel, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("marshaling generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domainerrors.Unavailable("tagging backend unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", domainerrors.Unavailable("reading tagging response").WithCause(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", domainerrors.Unavailablef("tagging backend returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", domainerrors.Unavailable("decoding tagging response").WithCause(err)
	}
	return parsed.Response, nil
}
