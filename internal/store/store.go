// Package store defines the persistence interface for the QuoteWeave server.
package store

import (
	"context"
	"time"

	"github.com/imyp/QuoteWeave/internal/domain"
)

// QuoteDistance pairs a quote id with its cosine distance from a query vector.
// Returned ordered by distance ascending, quote id ascending on ties.
type QuoteDistance struct {
	QuoteID  int64
	Distance float64
}

// Store is the full persistence surface used by the services.
type Store interface {
	AuthorStore
	UserStore
	SessionStore
	QuoteStore
	TagStore
	CollectionStore
	FavoriteStore
	VectorStore

	Close() error
}

// AuthorStore manages authors. Every quote belongs to an author; users are
// authors with credentials.
type AuthorStore interface {
	// GetOrCreateAuthor resolves a name to an author, creating the record
	// if needed. The operation is a single atomic upsert.
	GetOrCreateAuthor(ctx context.Context, name string) (*domain.Author, error)
	GetAuthorByID(ctx context.Context, authorID int64) (*domain.Author, error)
	GetAuthorByName(ctx context.Context, name string) (*domain.Author, error)
	// GetAuthorsByIDs returns the authors for the given ids. Missing ids are
	// simply absent from the result.
	GetAuthorsByIDs(ctx context.Context, authorIDs []int64) (map[int64]*domain.Author, error)
}

// UserStore manages user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByAuthorID(ctx context.Context, authorID int64) (*domain.User, error)
}

// SessionStore manages refresh-token sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSessionByID(ctx context.Context, sessionID string) (*domain.Session, error)
	GetSessionByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	// UpdateSessionRefreshToken replaces the session's refresh token hash and
	// expiry. Used for token rotation.
	UpdateSessionRefreshToken(ctx context.Context, sessionID, tokenHash string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// QuoteStore manages quotes and their embeddings.
type QuoteStore interface {
	// CreateQuote inserts the quote and assigns its id.
	CreateQuote(ctx context.Context, q *domain.Quote) error
	GetQuoteByID(ctx context.Context, quoteID int64) (*domain.Quote, error)
	// GetQuotesByIDs returns quotes for the given ids; missing ids are absent.
	GetQuotesByIDs(ctx context.Context, quoteIDs []int64) (map[int64]*domain.Quote, error)
	// UpdateQuote applies a patch to the quote. Returns ErrNotFound if the
	// quote does not exist.
	UpdateQuote(ctx context.Context, quoteID int64, patch domain.QuotePatch) error
	// ListPublicQuotes returns a page of public quotes, newest first, along
	// with the total public quote count.
	ListPublicQuotes(ctx context.Context, limit, offset int) ([]*domain.Quote, int, error)
	ListQuotesByAuthor(ctx context.Context, authorID int64, publicOnly bool) ([]*domain.Quote, error)
	// ListQuotesMissingEmbedding returns ids of quotes with a NULL embedding.
	ListQuotesMissingEmbedding(ctx context.Context) ([]int64, error)
	// ListQuotesMissingTags returns ids of quotes with no tag links.
	ListQuotesMissingTags(ctx context.Context) ([]int64, error)
	// CountQuotes returns the total number of quotes, public and private.
	CountQuotes(ctx context.Context) (int, error)
}

// TagStore manages tags and quote-tag links. Tag names are expected to be
// canonical (normalized) before they reach the store.
type TagStore interface {
	// GetOrCreateTag resolves a canonical name to a tag, creating the record
	// if needed. The operation is a single atomic upsert.
	GetOrCreateTag(ctx context.Context, name string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	// LinkQuoteTag attaches a tag to a quote. Duplicate links are a no-op.
	LinkQuoteTag(ctx context.Context, quoteID, tagID int64) error
	// TagsForQuotes returns the sorted tag names per quote id.
	TagsForQuotes(ctx context.Context, quoteIDs []int64) (map[int64][]string, error)
	// QuoteIDsByTag returns ids of public quotes carrying the tag, newest
	// quote first, along with the total count.
	QuoteIDsByTag(ctx context.Context, tagID int64, limit, offset int) ([]int64, int, error)
}

// CollectionStore manages collections and their membership.
type CollectionStore interface {
	CreateCollection(ctx context.Context, c *domain.Collection) error
	GetCollectionByID(ctx context.Context, collectionID int64) (*domain.Collection, error)
	ListCollectionsByAuthor(ctx context.Context, authorID int64) ([]*domain.Collection, error)
	// AddQuoteToCollection links a quote into a collection. Duplicate links
	// are a no-op.
	AddQuoteToCollection(ctx context.Context, collectionID, quoteID int64) error
	// QuoteIDsByCollection returns the quote ids of a collection ordered by
	// when they were added, newest first; ties fall back to quote creation
	// time, newest first.
	QuoteIDsByCollection(ctx context.Context, collectionID int64) ([]int64, error)
	// SearchCollections matches term case-insensitively against collection
	// name and description. Public collections always match; private ones
	// only when owned by viewerAuthorID (nil for anonymous).
	SearchCollections(ctx context.Context, term string, limit, offset int, viewerAuthorID *int64) ([]*domain.Collection, error)
}

// FavoriteStore manages user favorites.
type FavoriteStore interface {
	// AddFavorite marks the quote as favorited. Idempotent; the original
	// timestamp is preserved on repeat calls.
	AddFavorite(ctx context.Context, userID, quoteID int64) error
	RemoveFavorite(ctx context.Context, userID, quoteID int64) error
	// FavoriteCounts returns the favorite count per quote id. Quotes with no
	// favorites are absent from the map.
	FavoriteCounts(ctx context.Context, quoteIDs []int64) (map[int64]int, error)
	// FavoritedSet reports which of the given quotes the user has favorited.
	FavoritedSet(ctx context.Context, userID int64, quoteIDs []int64) (map[int64]bool, error)
}

// VectorStore exposes nearest-neighbour retrieval over stored quote embeddings.
type VectorStore interface {
	// NearestQuotes returns the k quotes nearest to queryVec by cosine
	// distance, skipping offset rows. Rows with NULL embeddings are excluded;
	// when publicOnly is set, private quotes are filtered before truncation.
	NearestQuotes(ctx context.Context, queryVec []float32, k, offset int, publicOnly bool) ([]QuoteDistance, error)
}
