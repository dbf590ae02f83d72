// Package dto provides Data Transfer Objects for API responses.
//
// DTOs carry denormalized fields for immediate client rendering: a quote
// entry includes its author name, tag names, and favorite data so clients
// never need follow-up lookups to display a search result.
package dto

import "time"

// QuoteEntry is the client-facing representation of a quote.
//
// IsFavorited is nil for anonymous requests and points to the viewer's
// favorite state when a user is authenticated, so clients can distinguish
// "not favorited" from "unknown".
type QuoteEntry struct {
	ID            int64     `json:"id"`
	Text          string    `json:"text"`
	AuthorID      int64     `json:"author_id"`
	AuthorName    string    `json:"author_name"` // Denormalized from Author entity
	IsPublic      bool      `json:"is_public"`
	Tags          []string  `json:"tags"` // Sorted tag names
	IsFavorited   *bool     `json:"is_favorited,omitempty"`
	FavoriteCount int       `json:"favorite_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// CollectionEntry is the client-facing representation of a collection.
type CollectionEntry struct {
	ID          int64     `json:"id"`
	AuthorID    int64     `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}
