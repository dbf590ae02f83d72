package domain

import "time"

// Author represents a quote author. Every user is backed by an author row,
// but most authors (historical figures, imported demo data) have no user
// account attached. Authors are created lazily on first reference and are
// never deleted in the hot path.
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
