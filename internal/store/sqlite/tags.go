package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, created_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var createdAt string

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// GetOrCreateTag resolves a canonical name to a tag, creating it if needed.
// Callers normalize the name first; the store treats it as opaque. A single
// upsert keeps concurrent callers from racing; the no-op DO UPDATE makes
// RETURNING yield the row in both branches.
func (s *Store) GetOrCreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	if name == "" {
		return nil, store.ErrInvalidInput.WithMessage("tag name cannot be empty")
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name, created_at)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name
		RETURNING `+tagColumns,
		name, formatTime(time.Now().UTC()),
	)

	t, err := scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("upsert tag: %w", err)
	}
	return t, nil
}

// GetTagByName retrieves a tag by its canonical name.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = ?`, name)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// LinkQuoteTag attaches a tag to a quote. Duplicate links are a no-op.
func (s *Store) LinkQuoteTag(ctx context.Context, quoteID, tagID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO quote_tags (quote_id, tag_id, created_at)
		VALUES (?, ?, ?)`,
		quoteID,
		tagID,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("insert quote_tag: %w", err)
	}
	return nil
}

// TagsForQuotes returns the tag names per quote id in one query, each list
// sorted alphabetically. Quotes with no tags are absent from the map.
func (s *Store) TagsForQuotes(ctx context.Context, quoteIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT qt.quote_id, t.name
		FROM quote_tags qt
		JOIN tags t ON t.id = qt.tag_id
		WHERE qt.quote_id IN (` + placeholders(len(quoteIDs)) + `)
		ORDER BY qt.quote_id, t.name ASC`
	rows, err := s.db.QueryContext(ctx, query, int64Args(quoteIDs)...)
	if err != nil {
		return nil, fmt.Errorf("query quote_tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var quoteID int64
		var name string
		if err := rows.Scan(&quoteID, &name); err != nil {
			return nil, err
		}
		result[quoteID] = append(result[quoteID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// QuoteIDsByTag returns ids of public quotes carrying the tag, newest quote
// first, along with the total count of matching quotes.
func (s *Store) QuoteIDsByTag(ctx context.Context, tagID int64, limit, offset int) ([]int64, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM quote_tags qt
		JOIN quotes q ON q.id = qt.quote_id
		WHERE qt.tag_id = ? AND q.is_public = 1`,
		tagID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count tagged quotes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id
		FROM quote_tags qt
		JOIN quotes q ON q.id = qt.quote_id
		WHERE qt.tag_id = ? AND q.is_public = 1
		ORDER BY q.created_at DESC, q.id DESC
		LIMIT ? OFFSET ?`,
		tagID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query tagged quotes: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if ids == nil {
		ids = []int64{}
	}

	return ids, total, nil
}
