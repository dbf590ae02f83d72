package dto

import (
	"context"
	"fmt"
	"sort"

	"github.com/imyp/QuoteWeave/internal/domain"
)

// Store defines the interface for fetching related entities during enrichment.
// This allows Enricher to remain testable and independent of the concrete
// store implementation.
type Store interface {
	GetQuotesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Quote, error)
	GetAuthorsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Author, error)
	TagsForQuotes(ctx context.Context, quoteIDs []int64) (map[int64][]string, error)
	FavoriteCounts(ctx context.Context, quoteIDs []int64) (map[int64]int, error)
	FavoritedSet(ctx context.Context, userID int64, quoteIDs []int64) (map[int64]bool, error)
}

// Enricher denormalizes quote ids into self-contained entries.
//
// Design philosophy:
//   - Batch fetching: one query per entity type, not per quote
//   - Graceful degradation: missing tags or favorite data yield empty
//     values, not errors
//   - Order preserving: output follows the input id order
type Enricher struct {
	store Store
}

// NewEnricher creates a new enricher.
func NewEnricher(store Store) *Enricher {
	return &Enricher{store: store}
}

// EnrichQuotes resolves quote ids into fully populated entries.
//
// The output preserves the order of quoteIDs; ids that no longer resolve to
// a quote are skipped rather than producing a hole. When currentUserID is
// nil the entries carry a nil IsFavorited.
func (e *Enricher) EnrichQuotes(ctx context.Context, quoteIDs []int64, currentUserID *int64) ([]QuoteEntry, error) {
	if len(quoteIDs) == 0 {
		return []QuoteEntry{}, nil
	}

	quotes, err := e.store.GetQuotesByIDs(ctx, quoteIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}

	// Collect unique author ids across the resolved quotes.
	authorIDsMap := make(map[int64]bool)
	for _, quote := range quotes {
		authorIDsMap[quote.AuthorID] = true
	}
	authorIDs := make([]int64, 0, len(authorIDsMap))
	for id := range authorIDsMap {
		authorIDs = append(authorIDs, id)
	}

	var authors map[int64]*domain.Author
	if len(authorIDs) > 0 {
		authors, err = e.store.GetAuthorsByIDs(ctx, authorIDs)
		if err != nil {
			return nil, fmt.Errorf("fetch authors: %w", err)
		}
	}

	// Tag and favorite lookups are non-fatal. A failed lookup degrades the
	// entries instead of failing the whole response.
	tagsMap, err := e.store.TagsForQuotes(ctx, quoteIDs)
	if err != nil {
		tagsMap = nil
	}
	counts, err := e.store.FavoriteCounts(ctx, quoteIDs)
	if err != nil {
		counts = nil
	}
	var favorited map[int64]bool
	if currentUserID != nil {
		favorited, err = e.store.FavoritedSet(ctx, *currentUserID, quoteIDs)
		if err != nil {
			favorited = nil
		}
	}

	entries := make([]QuoteEntry, 0, len(quoteIDs))
	for _, id := range quoteIDs {
		quote, ok := quotes[id]
		if !ok {
			continue
		}

		entry := QuoteEntry{
			ID:            quote.ID,
			Text:          quote.Text,
			AuthorID:      quote.AuthorID,
			IsPublic:      quote.IsPublic,
			Tags:          []string{},
			FavoriteCount: counts[quote.ID],
			CreatedAt:     quote.CreatedAt,
		}
		if author, ok := authors[quote.AuthorID]; ok {
			entry.AuthorName = author.Name
		}
		if tags, ok := tagsMap[quote.ID]; ok && len(tags) > 0 {
			entry.Tags = append(entry.Tags, tags...)
			sort.Strings(entry.Tags)
		}
		if currentUserID != nil && favorited != nil {
			isFav := favorited[quote.ID]
			entry.IsFavorited = &isFav
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// EnrichCollections denormalizes collections into client-facing entries
// carrying the owner's author name. Input order is preserved.
func (e *Enricher) EnrichCollections(ctx context.Context, collections []*domain.Collection) ([]CollectionEntry, error) {
	if len(collections) == 0 {
		return []CollectionEntry{}, nil
	}

	authorIDsMap := make(map[int64]bool)
	for _, c := range collections {
		authorIDsMap[c.AuthorID] = true
	}
	authorIDs := make([]int64, 0, len(authorIDsMap))
	for id := range authorIDsMap {
		authorIDs = append(authorIDs, id)
	}

	authors, err := e.store.GetAuthorsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch authors: %w", err)
	}

	entries := make([]CollectionEntry, 0, len(collections))
	for _, c := range collections {
		entry := CollectionEntry{
			ID:          c.ID,
			AuthorID:    c.AuthorID,
			Name:        c.Name,
			Description: c.Description,
			IsPublic:    c.IsPublic,
			CreatedAt:   c.CreatedAt,
		}
		if author, ok := authors[c.AuthorID]; ok {
			entry.AuthorName = author.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// EnrichQuote resolves a single quote id. Returns nil when the quote does
// not exist.
func (e *Enricher) EnrichQuote(ctx context.Context, quoteID int64, currentUserID *int64) (*QuoteEntry, error) {
	entries, err := e.EnrichQuotes(ctx, []int64{quoteID}, currentUserID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}
