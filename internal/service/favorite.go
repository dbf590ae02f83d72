package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainerrors "github.com/imyp/QuoteWeave/internal/errors"
	"github.com/imyp/QuoteWeave/internal/store"
)

// FavoriteService manages user favorites.
type FavoriteService struct {
	store  store.Store
	logger *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(st store.Store, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{store: st, logger: logger}
}

// Favorite marks a quote as favorited by the viewer. Idempotent; repeated
// calls keep the original timestamp. The quote must be visible to the
// viewer.
func (s *FavoriteService) Favorite(ctx context.Context, quoteID int64, viewer *Viewer) error {
	if viewer == nil {
		return domainerrors.Unauthorized("authentication required")
	}

	quote, err := s.store.GetQuoteByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("quote not found")
		}
		return fmt.Errorf("get quote: %w", err)
	}
	if !quote.IsPublic && quote.AuthorID != viewer.AuthorID {
		return domainerrors.NotFound("quote not found")
	}

	if err := s.store.AddFavorite(ctx, viewer.UserID, quoteID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// Unfavorite removes the viewer's favorite. Removing a favorite that does
// not exist is a no-op.
func (s *FavoriteService) Unfavorite(ctx context.Context, quoteID int64, viewer *Viewer) error {
	if viewer == nil {
		return domainerrors.Unauthorized("authentication required")
	}
	if err := s.store.RemoveFavorite(ctx, viewer.UserID, quoteID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
