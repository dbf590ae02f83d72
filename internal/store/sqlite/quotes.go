package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/store"
)

// quoteColumns is the ordered list of columns selected in quote queries.
// Must match the scan order in scanQuote.
const quoteColumns = `id, author_id, text, is_public, embedding, created_at, updated_at`

// scanQuote scans a sql.Row (or sql.Rows via its Scan method) into a domain.Quote.
func scanQuote(scanner interface{ Scan(dest ...any) error }) (*domain.Quote, error) {
	var q domain.Quote

	var (
		embedding []byte
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&q.ID,
		&q.AuthorID,
		&q.Text,
		&q.IsPublic,
		&embedding,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if embedding != nil {
		q.Embedding, err = decodeVector(embedding)
		if err != nil {
			return nil, fmt.Errorf("quote %d: %w", q.ID, err)
		}
	}

	q.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	q.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &q, nil
}

// embeddingBlob validates and serializes a quote embedding for storage.
// A nil vector stores as NULL.
func (s *Store) embeddingBlob(vec []float32) (any, error) {
	if vec == nil {
		return nil, nil
	}
	if err := s.checkDimension(vec); err != nil {
		return nil, err
	}
	return encodeVector(vec), nil
}

// CreateQuote inserts the quote and assigns its ID.
func (s *Store) CreateQuote(ctx context.Context, q *domain.Quote) error {
	blob, err := s.embeddingBlob(q.Embedding)
	if err != nil {
		return err
	}

	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = q.CreatedAt
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO quotes (author_id, text, is_public, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		q.AuthorID,
		q.Text,
		q.IsPublic,
		blob,
		formatTime(q.CreatedAt),
		formatTime(q.UpdatedAt),
	)

	return row.Scan(&q.ID)
}

// GetQuoteByID retrieves a quote by its ID.
// Returns store.ErrNotFound if the quote does not exist.
func (s *Store) GetQuoteByID(ctx context.Context, quoteID int64) (*domain.Quote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, quoteID)

	q, err := scanQuote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuotesByIDs returns quotes for the given ids in one query.
// Missing ids are simply absent from the result map.
func (s *Store) GetQuotesByIDs(ctx context.Context, quoteIDs []int64) (map[int64]*domain.Quote, error) {
	result := make(map[int64]*domain.Quote, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id IN (` + placeholders(len(quoteIDs)) + `)`
	rows, err := s.db.QueryContext(ctx, query, int64Args(quoteIDs)...)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		result[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateQuote applies a patch to the quote. The patch distinguishes unset
// fields from explicit nulls; unset fields keep their stored value. The row
// is read and rewritten inside one transaction with a fixed UPDATE statement.
// Returns store.ErrNotFound if the quote does not exist.
func (s *Store) UpdateQuote(ctx context.Context, quoteID int64, patch domain.QuotePatch) error {
	if patch.IsEmpty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, quoteID)
	q, err := scanQuote(row)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}

	if v, ok := patch.Text.Value(); ok {
		q.Text = v
	}
	if v, ok := patch.IsPublic.Value(); ok {
		q.IsPublic = v
	}
	if patch.Embedding.IsSet() {
		if patch.Embedding.IsNull() {
			q.Embedding = nil
		} else if v, ok := patch.Embedding.Value(); ok {
			q.Embedding = v
		}
	}

	blob, err := s.embeddingBlob(q.Embedding)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE quotes
		SET text = ?, is_public = ?, embedding = ?, updated_at = ?
		WHERE id = ?`,
		q.Text,
		q.IsPublic,
		blob,
		formatTime(time.Now().UTC()),
		quoteID,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}

	return tx.Commit()
}

// ListPublicQuotes returns a page of public quotes, newest first, along with
// the total public quote count.
func (s *Store) ListPublicQuotes(ctx context.Context, limit, offset int) ([]*domain.Quote, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quotes WHERE is_public = 1`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count public quotes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+quoteColumns+` FROM quotes
		WHERE is_public = 1
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query public quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if quotes == nil {
		quotes = []*domain.Quote{}
	}

	return quotes, total, nil
}

// ListQuotesByAuthor returns all quotes by an author, newest first.
// When publicOnly is set, private quotes are excluded.
func (s *Store) ListQuotesByAuthor(ctx context.Context, authorID int64, publicOnly bool) ([]*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE author_id = ?`
	if publicOnly {
		query += ` AND is_public = 1`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("query author quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if quotes == nil {
		quotes = []*domain.Quote{}
	}

	return quotes, nil
}

// ListQuotesMissingEmbedding returns ids of quotes with a NULL embedding,
// oldest first so backfill works through the backlog in insertion order.
func (s *Store) ListQuotesMissingEmbedding(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM quotes WHERE embedding IS NULL ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query quotes missing embedding: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListQuotesMissingTags returns ids of quotes with no tag links, oldest
// first.
func (s *Store) ListQuotesMissingTags(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id FROM quotes q
		LEFT JOIN quote_tags qt ON qt.quote_id = q.id
		WHERE qt.quote_id IS NULL
		ORDER BY q.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query quotes missing tags: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountQuotes returns the total number of quotes, public and private.
func (s *Store) CountQuotes(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&n)
	return n, err
}
