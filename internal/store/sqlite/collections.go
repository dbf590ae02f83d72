package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/store"
)

// collectionColumns is the ordered list of columns selected in collection queries.
// Must match the scan order in scanCollection.
const collectionColumns = `id, author_id, name, description, is_public, created_at, updated_at`

// scanCollection scans a sql.Row (or sql.Rows via its Scan method) into a domain.Collection.
func scanCollection(scanner interface{ Scan(dest ...any) error }) (*domain.Collection, error) {
	var c domain.Collection

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.ID,
		&c.AuthorID,
		&c.Name,
		&c.Description,
		&c.IsPublic,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCollection inserts a new collection and assigns its ID.
// Returns store.ErrAlreadyExists when the owner already has a collection
// with that name.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO collections (author_id, name, description, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		c.AuthorID,
		c.Name,
		c.Description,
		c.IsPublic,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)

	if err := row.Scan(&c.ID); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetCollectionByID retrieves a collection by its ID.
// Returns store.ErrNotFound if the collection does not exist.
func (s *Store) GetCollectionByID(ctx context.Context, collectionID int64) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = ?`, collectionID)

	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCollectionsByAuthor returns all collections owned by an author,
// newest first.
func (s *Store) ListCollectionsByAuthor(ctx context.Context, authorID int64) ([]*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+collectionColumns+` FROM collections
		WHERE author_id = ?
		ORDER BY created_at DESC, id DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("query author collections: %w", err)
	}
	defer rows.Close()

	var collections []*domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if collections == nil {
		collections = []*domain.Collection{}
	}

	return collections, nil
}

// AddQuoteToCollection links a quote into a collection.
// Duplicate links are a no-op; the original added_at is preserved.
func (s *Store) AddQuoteToCollection(ctx context.Context, collectionID, quoteID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO collection_quotes (collection_id, quote_id, added_at)
		VALUES (?, ?, ?)`,
		collectionID,
		quoteID,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("insert collection_quote: %w", err)
	}
	return nil
}

// QuoteIDsByCollection returns the quote ids of a collection ordered by when
// they were added, newest first. Ties fall back to quote creation time,
// newest first, so the ordering is total.
func (s *Store) QuoteIDsByCollection(ctx context.Context, collectionID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cq.quote_id
		FROM collection_quotes cq
		JOIN quotes q ON q.id = cq.quote_id
		WHERE cq.collection_id = ?
		ORDER BY cq.added_at DESC, q.created_at DESC, q.id DESC`,
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query collection quotes: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if ids == nil {
		ids = []int64{}
	}

	return ids, nil
}

// SearchCollections matches term case-insensitively against collection name
// and description. Public collections always match; private ones only when
// owned by viewerAuthorID (nil for anonymous viewers). Ordered newest first.
func (s *Store) SearchCollections(ctx context.Context, term string, limit, offset int, viewerAuthorID *int64) ([]*domain.Collection, error) {
	// LIKE is case-insensitive for ASCII by default; escape user wildcards.
	pattern := "%" + escapeLike(term) + "%"

	query := `
		SELECT ` + collectionColumns + ` FROM collections
		WHERE (name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`
	args := []any{pattern, pattern}

	if viewerAuthorID != nil {
		query += ` AND (is_public = 1 OR author_id = ?)`
		args = append(args, *viewerAuthorID)
	} else {
		query += ` AND is_public = 1`
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search collections: %w", err)
	}
	defer rows.Close()

	var collections []*domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if collections == nil {
		collections = []*domain.Collection{}
	}

	return collections, nil
}

// escapeLike escapes LIKE wildcards in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
