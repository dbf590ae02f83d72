package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imyp/QuoteWeave/internal/dto"
	"github.com/imyp/QuoteWeave/internal/embedding"
	domainerrors "github.com/imyp/QuoteWeave/internal/errors"
	"github.com/imyp/QuoteWeave/internal/store"
	"github.com/imyp/QuoteWeave/internal/util"
)

// SearchService orchestrates semantic search and the other quote discovery
// paths (tag pages, collection pages, collection search).
type SearchService struct {
	store    store.Store
	embedder embedding.Provider
	enricher *dto.Enricher
	logger   *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(st store.Store, embedder embedding.Provider, enricher *dto.Enricher, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:    st,
		embedder: embedder,
		enricher: enricher,
		logger:   logger,
	}
}

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// SemanticSearch embeds the query and returns the nearest public quotes,
// closest first. A blank query fails validation before any embedding or
// storage work happens.
func (s *SearchService) SemanticSearch(ctx context.Context, query string, limit, skip int, viewer *Viewer) ([]dto.QuoteEntry, error) {
	log := s.logger.With(slog.String("query", query))
	log.Info("search received")

	if strings.TrimSpace(query) == "" {
		return nil, domainerrors.Validation("query must not be blank")
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if skip < 0 {
		skip = 0
	}

	log.Info("search embedding query")
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if embedding.IsZero(vec) {
		return nil, domainerrors.Validation("query produced no embedding")
	}

	log.Info("search retrieving nearest quotes")
	near, err := s.store.NearestQuotes(ctx, vec, limit, skip, true)
	if err != nil {
		return nil, fmt.Errorf("nearest quotes: %w", err)
	}

	log.Info("search enriching results", slog.Int("count", len(near)))
	ids := make([]int64, len(near))
	for i, n := range near {
		ids[i] = n.QuoteID
	}
	entries, err := s.enricher.EnrichQuotes(ctx, ids, viewerUserID(viewer))
	if err != nil {
		return nil, fmt.Errorf("enrich results: %w", err)
	}

	log.Info("search responding", slog.Int("results", len(entries)))
	return entries, nil
}

// SearchByTag returns a page of public quotes carrying the tag. An unknown
// tag is NotFound; a known tag with an empty page returns an empty slice.
func (s *SearchService) SearchByTag(ctx context.Context, name string, page, pageSize int, viewer *Viewer) ([]dto.QuoteEntry, int, int, error) {
	canonical := util.NormalizeTagName(name)
	if canonical == "" {
		return nil, 0, 0, domainerrors.Validation("tag name must not be blank")
	}

	tag, err := s.store.GetTagByName(ctx, canonical)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, 0, domainerrors.NotFoundf("tag %q not found", canonical)
		}
		return nil, 0, 0, fmt.Errorf("lookup tag: %w", err)
	}

	page, pageSize = normalizePage(page, pageSize)
	ids, total, err := s.store.QuoteIDsByTag(ctx, tag.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("quotes by tag: %w", err)
	}

	entries, err := s.enricher.EnrichQuotes(ctx, ids, viewerUserID(viewer))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("enrich results: %w", err)
	}
	return entries, totalPages(total, pageSize), total, nil
}

// QuotesByCollection returns a collection's quotes, most recently added
// first. Private collections resolve for their owner only; everyone else
// gets NotFound.
func (s *SearchService) QuotesByCollection(ctx context.Context, collectionID int64, viewer *Viewer) ([]dto.QuoteEntry, error) {
	collection, err := s.store.GetCollectionByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("collection not found")
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	if !collection.IsPublic && (viewer == nil || viewer.AuthorID != collection.AuthorID) {
		return nil, domainerrors.NotFound("collection not found")
	}

	ids, err := s.store.QuoteIDsByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("collection quotes: %w", err)
	}
	entries, err := s.enricher.EnrichQuotes(ctx, ids, viewerUserID(viewer))
	if err != nil {
		return nil, fmt.Errorf("enrich results: %w", err)
	}
	return entries, nil
}

// SearchCollections matches a term against collection names and
// descriptions. Public collections always; the viewer's private ones too.
// Results carry the owner's author name.
func (s *SearchService) SearchCollections(ctx context.Context, term string, limit, skip int, viewer *Viewer) ([]dto.CollectionEntry, error) {
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if skip < 0 {
		skip = 0
	}

	var viewerAuthorID *int64
	if viewer != nil {
		viewerAuthorID = &viewer.AuthorID
	}
	collections, err := s.store.SearchCollections(ctx, strings.TrimSpace(term), limit, skip, viewerAuthorID)
	if err != nil {
		return nil, fmt.Errorf("search collections: %w", err)
	}

	entries, err := s.enricher.EnrichCollections(ctx, collections)
	if err != nil {
		return nil, fmt.Errorf("enrich collections: %w", err)
	}
	return entries, nil
}
