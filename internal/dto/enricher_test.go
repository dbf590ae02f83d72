package dto

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imyp/QuoteWeave/internal/domain"
)

// fakeStore serves canned entities for enrichment tests.
type fakeStore struct {
	quotes    map[int64]*domain.Quote
	authors   map[int64]*domain.Author
	tags      map[int64][]string
	counts    map[int64]int
	favorites map[int64]bool

	tagsErr   error
	countsErr error

	favoritedUserID int64
}

func (f *fakeStore) GetQuotesByIDs(_ context.Context, ids []int64) (map[int64]*domain.Quote, error) {
	out := make(map[int64]*domain.Quote)
	for _, id := range ids {
		if q, ok := f.quotes[id]; ok {
			out[id] = q
		}
	}
	return out, nil
}

func (f *fakeStore) GetAuthorsByIDs(_ context.Context, ids []int64) (map[int64]*domain.Author, error) {
	out := make(map[int64]*domain.Author)
	for _, id := range ids {
		if a, ok := f.authors[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (f *fakeStore) TagsForQuotes(_ context.Context, _ []int64) (map[int64][]string, error) {
	if f.tagsErr != nil {
		return nil, f.tagsErr
	}
	return f.tags, nil
}

func (f *fakeStore) FavoriteCounts(_ context.Context, _ []int64) (map[int64]int, error) {
	if f.countsErr != nil {
		return nil, f.countsErr
	}
	return f.counts, nil
}

func (f *fakeStore) FavoritedSet(_ context.Context, userID int64, _ []int64) (map[int64]bool, error) {
	f.favoritedUserID = userID
	return f.favorites, nil
}

func newFakeStore() *fakeStore {
	now := time.Now().UTC()
	return &fakeStore{
		quotes: map[int64]*domain.Quote{
			3: {ID: 3, AuthorID: 1, Text: "Quote three", IsPublic: true, CreatedAt: now},
			7: {ID: 7, AuthorID: 1, Text: "Quote seven", IsPublic: true, CreatedAt: now},
			9: {ID: 9, AuthorID: 2, Text: "Quote nine", IsPublic: false, CreatedAt: now},
		},
		authors: map[int64]*domain.Author{
			1: {ID: 1, Name: "Ada Lovelace"},
			2: {ID: 2, Name: "Alan Turing"},
		},
		tags: map[int64][]string{
			7: {"science", "machines"},
		},
		counts: map[int64]int{
			7: 4,
		},
		favorites: map[int64]bool{
			7: true,
			3: false,
		},
	}
}

func TestEnrichQuotesPreservesOrder(t *testing.T) {
	e := NewEnricher(newFakeStore())

	entries, err := e.EnrichQuotes(context.Background(), []int64{7, 3, 9}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(7), entries[0].ID)
	assert.Equal(t, int64(3), entries[1].ID)
	assert.Equal(t, int64(9), entries[2].ID)
}

func TestEnrichQuotesSkipsMissing(t *testing.T) {
	e := NewEnricher(newFakeStore())

	entries, err := e.EnrichQuotes(context.Background(), []int64{7, 42, 3}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(7), entries[0].ID)
	assert.Equal(t, int64(3), entries[1].ID)
}

func TestEnrichQuotesAuthorAndTags(t *testing.T) {
	e := NewEnricher(newFakeStore())

	entries, err := e.EnrichQuotes(context.Background(), []int64{7, 9}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Ada Lovelace", entries[0].AuthorName)
	assert.Equal(t, []string{"machines", "science"}, entries[0].Tags, "tags should be sorted")
	assert.Equal(t, 4, entries[0].FavoriteCount)

	assert.Equal(t, "Alan Turing", entries[1].AuthorName)
	assert.Equal(t, []string{}, entries[1].Tags)
	assert.Equal(t, 0, entries[1].FavoriteCount)
}

func TestEnrichQuotesAnonymousViewer(t *testing.T) {
	e := NewEnricher(newFakeStore())

	entries, err := e.EnrichQuotes(context.Background(), []int64{7}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].IsFavorited)
}

func TestEnrichQuotesAuthenticatedViewer(t *testing.T) {
	fs := newFakeStore()
	e := NewEnricher(fs)

	userID := int64(11)
	entries, err := e.EnrichQuotes(context.Background(), []int64{7, 3}, &userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, int64(11), fs.favoritedUserID)
	require.NotNil(t, entries[0].IsFavorited)
	assert.True(t, *entries[0].IsFavorited)
	require.NotNil(t, entries[1].IsFavorited)
	assert.False(t, *entries[1].IsFavorited)
}

func TestEnrichQuotesLookupFailuresDegrade(t *testing.T) {
	fs := newFakeStore()
	fs.tagsErr = errors.New("tags query failed")
	fs.countsErr = errors.New("counts query failed")
	e := NewEnricher(fs)

	entries, err := e.EnrichQuotes(context.Background(), []int64{7}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{}, entries[0].Tags)
	assert.Equal(t, 0, entries[0].FavoriteCount)
}

func TestEnrichQuotesEmptyInput(t *testing.T) {
	e := NewEnricher(newFakeStore())

	entries, err := e.EnrichQuotes(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnrichCollections(t *testing.T) {
	e := NewEnricher(newFakeStore())

	entries, err := e.EnrichCollections(context.Background(), []*domain.Collection{
		{ID: 11, AuthorID: 2, Name: "Computing", IsPublic: true},
		{ID: 12, AuthorID: 1, Name: "Notes", IsPublic: false},
		{ID: 13, AuthorID: 99, Name: "Orphaned", IsPublic: true},
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Alan Turing", entries[0].AuthorName)
	assert.Equal(t, "Ada Lovelace", entries[1].AuthorName)
	assert.Empty(t, entries[2].AuthorName, "unknown owner leaves the name blank")
	assert.Equal(t, int64(11), entries[0].ID)
	assert.Equal(t, "Notes", entries[1].Name)
}

func TestEnrichCollectionsEmptyInput(t *testing.T) {
	e := NewEnricher(newFakeStore())

	entries, err := e.EnrichCollections(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnrichQuoteSingle(t *testing.T) {
	e := NewEnricher(newFakeStore())

	entry, err := e.EnrichQuote(context.Background(), 7, nil)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Quote seven", entry.Text)

	missing, err := e.EnrichQuote(context.Background(), 404, nil)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
