package domain

import "time"

// User represents an author with login credentials attached.
// The 1:1 link to Author carries the display name; User itself only
// holds the account-specific fields.
type User struct {
	ID           int64     `json:"id"`
	AuthorID     int64     `json:"author_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Stored hashed, never serialized
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session represents a refresh-token session for a logged-in user.
// The refresh token itself is opaque and stored hashed; the session id
// doubles as the token identifier embedded in access-token claims.
type Session struct {
	ID               string    `json:"id"`
	UserID           int64     `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsExpired reports whether the session's refresh token can no longer be used.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
