package sqlite

import (
	"context"
	"fmt"

	"github.com/imyp/QuoteWeave/internal/store"
)

// NearestQuotes returns the k quotes nearest to queryVec by cosine distance,
// skipping offset rows. Distance is computed in SQL by the registered
// vector_distance_cos function over the stored embedding blobs. Rows with
// NULL embeddings are excluded, and the visibility filter is applied in
// WHERE, before LIMIT/OFFSET, so truncation never hides eligible rows.
// Ties break by quote id ascending to keep the ordering deterministic.
func (s *Store) NearestQuotes(ctx context.Context, queryVec []float32, k, offset int, publicOnly bool) ([]store.QuoteDistance, error) {
	if err := s.checkDimension(queryVec); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []store.QuoteDistance{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, vector_distance_cos(embedding, ?) AS dist
		FROM quotes
		WHERE embedding IS NOT NULL`
	if publicOnly {
		query += ` AND is_public = 1`
	}
	query += `
		ORDER BY dist ASC, id ASC
		LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, encodeVector(queryVec), k, offset)
	if err != nil {
		return nil, fmt.Errorf("query nearest quotes: %w", err)
	}
	defer rows.Close()

	var results []store.QuoteDistance
	for rows.Next() {
		var qd store.QuoteDistance
		if err := rows.Scan(&qd.QuoteID, &qd.Distance); err != nil {
			return nil, err
		}
		results = append(results, qd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if results == nil {
		results = []store.QuoteDistance{}
	}

	return results, nil
}
