package domain

import "time"

// Favorite marks a quote as favorited by a user. Favoriting is
// idempotent: repeating it leaves the original timestamp untouched.
type Favorite struct {
	UserID      int64     `json:"user_id"`
	QuoteID     int64     `json:"quote_id"`
	FavoritedAt time.Time `json:"favorited_at"`
}
