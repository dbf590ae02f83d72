package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/dto"
	"github.com/imyp/QuoteWeave/internal/embedding"
	domainerrors "github.com/imyp/QuoteWeave/internal/errors"
	"github.com/imyp/QuoteWeave/internal/store"
	"github.com/imyp/QuoteWeave/internal/tagging"
	"github.com/imyp/QuoteWeave/internal/util"
	"github.com/imyp/QuoteWeave/internal/validation"
)

// QuoteService handles quote creation, retrieval, and updates. Embedding is
// synchronous: a quote is searchable the moment its creation returns.
type QuoteService struct {
	store     store.Store
	embedder  embedding.Provider
	tagger    tagging.Predictor
	enricher  *dto.Enricher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewQuoteService creates a new quote service. tagger may be nil when tag
// prediction is disabled.
func NewQuoteService(
	st store.Store,
	embedder embedding.Provider,
	tagger tagging.Predictor,
	enricher *dto.Enricher,
	validator *validation.Validator,
	logger *slog.Logger,
) *QuoteService {
	return &QuoteService{
		store:     st,
		embedder:  embedder,
		tagger:    tagger,
		enricher:  enricher,
		validator: validator,
		logger:    logger,
	}
}

// CreateQuoteRequest contains new quote data. Tags are optional; when
// omitted the tag predictor fills them in.
type CreateQuoteRequest struct {
	Text     string   `json:"text" validate:"required,min=1,max=4000"`
	IsPublic bool     `json:"is_public"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=64"`
}

// UpdateQuoteRequest describes a partial quote update. Nil fields are left
// untouched.
type UpdateQuoteRequest struct {
	Text     *string `json:"text,omitempty" validate:"omitempty,min=1,max=4000"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// CreateQuote embeds the text, stores the quote, and links its tags.
//
// Tag handling is deliberately lenient: each tag is linked independently
// and a failed link is logged and skipped, so one bad tag never loses the
// quote. Prediction failures likewise yield a quote with no tags.
func (s *QuoteService) CreateQuote(ctx context.Context, authorID int64, req CreateQuoteRequest) (*dto.QuoteEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, domainerrors.Validation("text is required")
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		AuthorID: authorID,
		Text:     text,
		IsPublic: req.IsPublic,
	}
	if !embedding.IsZero(vec) {
		quote.Embedding = vec
	}

	if err := s.store.CreateQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}

	tags := req.Tags
	if len(tags) == 0 && s.tagger != nil {
		author, err := s.store.GetAuthorByID(ctx, authorID)
		authorName := ""
		if err == nil {
			authorName = author.Name
		}
		tags, err = s.tagger.PredictTags(ctx, text, authorName)
		if err != nil {
			s.logger.Warn("tag prediction failed",
				slog.Int64("quote_id", quote.ID),
				slog.String("error", err.Error()))
			tags = nil
		}
	}
	s.linkTags(ctx, quote.ID, tags)

	return s.entryForQuote(ctx, quote.ID)
}

// linkTags attaches tags to a quote, one link at a time. Failures are
// logged and skipped so a partial tag set never fails the quote.
func (s *QuoteService) linkTags(ctx context.Context, quoteID int64, tags []string) {
	for _, raw := range tags {
		name := util.NormalizeTagName(raw)
		if name == "" {
			continue
		}
		tag, err := s.store.GetOrCreateTag(ctx, name)
		if err != nil {
			s.logger.Warn("failed to resolve tag, skipping",
				slog.Int64("quote_id", quoteID),
				slog.String("tag", name),
				slog.String("error", err.Error()))
			continue
		}
		if err := s.store.LinkQuoteTag(ctx, quoteID, tag.ID); err != nil {
			s.logger.Warn("failed to link tag, skipping",
				slog.Int64("quote_id", quoteID),
				slog.String("tag", name),
				slog.String("error", err.Error()))
		}
	}
}

// GetQuote returns a quote entry. Private quotes are visible to their
// author only; everyone else gets NotFound rather than Forbidden so the
// quote's existence is not leaked.
func (s *QuoteService) GetQuote(ctx context.Context, quoteID int64, viewer *Viewer) (*dto.QuoteEntry, error) {
	quote, err := s.store.GetQuoteByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("quote not found")
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	if !quote.IsPublic && (viewer == nil || viewer.AuthorID != quote.AuthorID) {
		return nil, domainerrors.NotFound("quote not found")
	}
	return s.enrichedQuote(ctx, quoteID, viewer)
}

// UpdateQuote applies a partial update. Owner only. A text change re-embeds
// the quote synchronously.
func (s *QuoteService) UpdateQuote(ctx context.Context, quoteID int64, viewer *Viewer, req UpdateQuoteRequest) (*dto.QuoteEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quote, err := s.store.GetQuoteByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("quote not found")
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	if viewer == nil || viewer.AuthorID != quote.AuthorID {
		return nil, domainerrors.Forbidden("only the quote's author can update it")
	}

	var patch domain.QuotePatch
	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, domainerrors.Validation("text must not be blank")
		}
		patch.Text = domain.Set(text)

		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if embedding.IsZero(vec) {
			patch.Embedding = domain.SetNull[[]float32]()
		} else {
			patch.Embedding = domain.Set(vec)
		}
	}
	if req.IsPublic != nil {
		patch.IsPublic = domain.Set(*req.IsPublic)
	}

	if !patch.IsEmpty() {
		if err := s.store.UpdateQuote(ctx, quoteID, patch); err != nil {
			return nil, fmt.Errorf("update quote: %w", err)
		}
	}

	return s.enrichedQuote(ctx, quoteID, viewer)
}

// ListPublicQuotes returns a page of public quotes, newest first.
func (s *QuoteService) ListPublicQuotes(ctx context.Context, page, pageSize int, viewer *Viewer) ([]dto.QuoteEntry, int, int, error) {
	page, pageSize = normalizePage(page, pageSize)

	quotes, total, err := s.store.ListPublicQuotes(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("list quotes: %w", err)
	}

	ids := make([]int64, len(quotes))
	for i, q := range quotes {
		ids[i] = q.ID
	}
	entries, err := s.enricher.EnrichQuotes(ctx, ids, viewerUserID(viewer))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("enrich quotes: %w", err)
	}
	return entries, totalPages(total, pageSize), total, nil
}

// AuthorPage bundles an author with their quotes and collections.
type AuthorPage struct {
	Author      *domain.Author       `json:"author"`
	Quotes      []dto.QuoteEntry     `json:"quotes"`
	Collections []*domain.Collection `json:"collections"`
}

// GetAuthorPage returns an author with their quotes and collections. The
// author sees their private quotes too; everyone else sees public only.
func (s *QuoteService) GetAuthorPage(ctx context.Context, authorID int64, viewer *Viewer) (*AuthorPage, error) {
	author, err := s.store.GetAuthorByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("author not found")
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	publicOnly := viewer == nil || viewer.AuthorID != authorID
	quotes, err := s.store.ListQuotesByAuthor(ctx, authorID, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("list author quotes: %w", err)
	}
	ids := make([]int64, len(quotes))
	for i, q := range quotes {
		ids[i] = q.ID
	}
	entries, err := s.enricher.EnrichQuotes(ctx, ids, viewerUserID(viewer))
	if err != nil {
		return nil, fmt.Errorf("enrich quotes: %w", err)
	}

	collections, err := s.store.ListCollectionsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list author collections: %w", err)
	}
	if publicOnly {
		visible := collections[:0]
		for _, c := range collections {
			if c.IsPublic {
				visible = append(visible, c)
			}
		}
		collections = visible
	}

	return &AuthorPage{Author: author, Quotes: entries, Collections: collections}, nil
}

func (s *QuoteService) entryForQuote(ctx context.Context, quoteID int64) (*dto.QuoteEntry, error) {
	entry, err := s.enricher.EnrichQuote(ctx, quoteID, nil)
	if err != nil {
		return nil, fmt.Errorf("enrich quote: %w", err)
	}
	if entry == nil {
		return nil, domainerrors.NotFound("quote not found")
	}
	return entry, nil
}

func (s *QuoteService) enrichedQuote(ctx context.Context, quoteID int64, viewer *Viewer) (*dto.QuoteEntry, error) {
	entry, err := s.enricher.EnrichQuote(ctx, quoteID, viewerUserID(viewer))
	if err != nil {
		return nil, fmt.Errorf("enrich quote: %w", err)
	}
	if entry == nil {
		return nil, domainerrors.NotFound("quote not found")
	}
	return entry, nil
}

// Viewer identifies the authenticated account making a request. Nil means
// anonymous.
type Viewer struct {
	UserID   int64
	AuthorID int64
}

func viewerUserID(v *Viewer) *int64 {
	if v == nil {
		return nil
	}
	return &v.UserID
}

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func totalPages(totalItems, pageSize int) int {
	if totalItems == 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}
