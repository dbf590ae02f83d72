package domain

import "time"

// Quote is the central entity: a piece of text attributed to an author.
// Embedding holds the quote's vector representation (little-endian float32
// when stored) and is nil until computed. Public quotes with a non-nil
// embedding are the unit of semantic search; quotes with a nil embedding
// are excluded from search rather than scored as infinitely distant.
type Quote struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Text      string    `json:"text"`
	IsPublic  bool      `json:"is_public"`
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasEmbedding reports whether the quote is eligible for semantic search.
func (q *Quote) HasEmbedding() bool {
	return len(q.Embedding) > 0
}
