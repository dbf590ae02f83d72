package domain

import "time"

// Tag is a global label applied to quotes. Name is the canonical form
// (case-folded, trimmed) and is the source of truth for tag identity.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// QuoteTag is the quote-to-tag link. The pair is unique; inserting a
// duplicate is a no-op at the storage layer.
type QuoteTag struct {
	QuoteID   int64     `json:"quote_id"`
	TagID     int64     `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
