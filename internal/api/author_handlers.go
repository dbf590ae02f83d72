package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/imyp/QuoteWeave/internal/service"
)

func (s *Server) registerAuthorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getAuthorPage",
		Method:      http.MethodGet,
		Path:        "/api/v1/authors/{id}",
		Summary:     "Get author page",
		Description: "Returns an author with their quotes and collections. Authors see their private entries too.",
		Tags:        []string{"Authors"},
	}, s.handleGetAuthorPage)
}

// AuthorIDInput identifies an author by path parameter.
type AuthorIDInput struct {
	ID int64 `path:"id" doc:"Author ID"`
}

// AuthorPageOutput wraps the author page for Huma.
type AuthorPageOutput struct {
	Body service.AuthorPage
}

func (s *Server) handleGetAuthorPage(ctx context.Context, input *AuthorIDInput) (*AuthorPageOutput, error) {
	page, err := s.services.Quote.GetAuthorPage(ctx, input.ID, OptionalViewer(ctx))
	if err != nil {
		return nil, err
	}

	return &AuthorPageOutput{Body: *page}, nil
}
