package service

import (
	"context"
	"fmt"

	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/store"
)

// TagService exposes the tag catalog.
type TagService struct {
	store store.Store
}

// NewTagService creates a new tag service.
func NewTagService(st store.Store) *TagService {
	return &TagService{store: st}
}

// ListTags returns all tags ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
