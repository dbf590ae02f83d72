package sqlite

import (
	"context"
	"fmt"
	"time"
)

// AddFavorite marks the quote as favorited by the user. Idempotent: repeat
// calls are a no-op and the original favorited_at is preserved.
func (s *Store) AddFavorite(ctx context.Context, userID, quoteID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO favorites (user_id, quote_id, favorited_at)
		VALUES (?, ?, ?)`,
		userID,
		quoteID,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes a favorite. Removing a missing favorite is not an
// error.
func (s *Store) RemoveFavorite(ctx context.Context, userID, quoteID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND quote_id = ?`,
		userID, quoteID)
	return err
}

// FavoriteCounts returns the favorite count per quote id in one query.
// Quotes with no favorites are absent from the map.
func (s *Store) FavoriteCounts(ctx context.Context, quoteIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT quote_id, COUNT(*)
		FROM favorites
		WHERE quote_id IN (` + placeholders(len(quoteIDs)) + `)
		GROUP BY quote_id`
	rows, err := s.db.QueryContext(ctx, query, int64Args(quoteIDs)...)
	if err != nil {
		return nil, fmt.Errorf("query favorite counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var quoteID int64
		var count int
		if err := rows.Scan(&quoteID, &count); err != nil {
			return nil, err
		}
		result[quoteID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// FavoritedSet reports which of the given quotes the user has favorited.
// Quotes the user has not favorited are absent from the map.
func (s *Store) FavoritedSet(ctx context.Context, userID int64, quoteIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return result, nil
	}

	args := append([]any{userID}, int64Args(quoteIDs)...)
	query := `
		SELECT quote_id
		FROM favorites
		WHERE user_id = ? AND quote_id IN (` + placeholders(len(quoteIDs)) + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query favorited set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var quoteID int64
		if err := rows.Scan(&quoteID); err != nil {
			return nil, err
		}
		result[quoteID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
