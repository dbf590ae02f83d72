package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "favoriteQuote",
		Method:      http.MethodPut,
		Path:        "/api/v1/quotes/{id}/favorite",
		Summary:     "Favorite quote",
		Description: "Marks a quote as a favorite of the caller. Favoriting twice is a no-op.",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFavoriteQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfavoriteQuote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/quotes/{id}/favorite",
		Summary:     "Unfavorite quote",
		Description: "Removes the caller's favorite mark from a quote. Removing an absent mark is a no-op.",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfavoriteQuote)
}

func (s *Server) handleFavoriteQuote(ctx context.Context, input *QuoteIDInput) (*MessageOutput, error) {
	viewer, err := RequireViewer(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Favorite.Favorite(ctx, input.ID, viewer); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Quote favorited"}}, nil
}

func (s *Server) handleUnfavoriteQuote(ctx context.Context, input *QuoteIDInput) (*MessageOutput, error) {
	viewer, err := RequireViewer(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Favorite.Unfavorite(ctx, input.ID, viewer); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Quote unfavorited"}}, nil
}
