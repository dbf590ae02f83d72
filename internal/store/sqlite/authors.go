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

// authorColumns is the ordered list of columns selected in author queries.
// Must match the scan order in scanAuthor.
const authorColumns = `id, name, created_at, updated_at`

// scanAuthor scans a sql.Row (or sql.Rows via its Scan method) into a domain.Author.
func scanAuthor(scanner interface{ Scan(dest ...any) error }) (*domain.Author, error) {
	var a domain.Author

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&a.ID,
		&a.Name,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// GetOrCreateAuthor resolves a name to an author, creating it if needed.
// A single upsert keeps concurrent callers from racing; the no-op
// DO UPDATE makes RETURNING yield the row in both branches.
func (s *Store) GetOrCreateAuthor(ctx context.Context, name string) (*domain.Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, store.ErrInvalidInput.WithMessage("author name cannot be empty")
	}

	now := formatTime(time.Now().UTC())
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO authors (name, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name
		RETURNING `+authorColumns,
		name, now, now,
	)

	a, err := scanAuthor(row)
	if err != nil {
		return nil, fmt.Errorf("upsert author: %w", err)
	}
	return a, nil
}

// GetAuthorByID retrieves an author by its ID.
// Returns store.ErrNotFound if the author does not exist.
func (s *Store) GetAuthorByID(ctx context.Context, authorID int64) (*domain.Author, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE id = ?`, authorID)

	a, err := scanAuthor(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAuthorByName retrieves an author by its exact name.
// Returns store.ErrNotFound if the author does not exist.
func (s *Store) GetAuthorByName(ctx context.Context, name string) (*domain.Author, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE name = ?`, name)

	a, err := scanAuthor(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAuthorsByIDs returns the authors for the given ids in one query.
// Missing ids are simply absent from the result map.
func (s *Store) GetAuthorsByIDs(ctx context.Context, authorIDs []int64) (map[int64]*domain.Author, error) {
	result := make(map[int64]*domain.Author, len(authorIDs))
	if len(authorIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + authorColumns + ` FROM authors WHERE id IN (` + placeholders(len(authorIDs)) + `)`
	rows, err := s.db.QueryContext(ctx, query, int64Args(authorIDs)...)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		result[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// placeholders returns n comma-separated SQL placeholders ("?, ?, ?").
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// int64Args converts an id slice to query arguments.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
