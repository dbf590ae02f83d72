package domain

import "time"

// Collection is a named, ordered set of quotes owned by an author.
// Names are unique per owner. Private collections are visible only to
// their owner.
type Collection struct {
	ID          int64     `json:"id"`
	AuthorID    int64     `json:"author_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CollectionQuote records a quote's membership in a collection.
// AddedAt drives the collection's display order, newest first.
type CollectionQuote struct {
	CollectionID int64     `json:"collection_id"`
	QuoteID      int64     `json:"quote_id"`
	AddedAt      time.Time `json:"added_at"`
}
