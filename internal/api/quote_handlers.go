package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/imyp/QuoteWeave/internal/dto"
	"github.com/imyp/QuoteWeave/internal/service"
)

func (s *Server) registerQuoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createQuote",
		Method:      http.MethodPost,
		Path:        "/api/v1/quotes",
		Summary:     "Create quote",
		Description: "Creates a quote under the caller's pen name. The text is embedded for semantic search; tags are predicted when none are supplied.",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getQuote",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Get quote",
		Description: "Returns a single quote. Private quotes are visible to their author only.",
		Tags:        []string{"Quotes"},
	}, s.handleGetQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateQuote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Update quote",
		Description: "Partially updates a quote owned by the caller. Text changes re-embed the quote.",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "listQuotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes",
		Summary:     "List public quotes",
		Description: "Returns a page of public quotes, newest first",
		Tags:        []string{"Quotes"},
	}, s.handleListQuotes)
}

// === DTOs ===

// CreateQuoteRequest is the request body for quote creation.
type CreateQuoteRequest struct {
	Text     string   `json:"text" validate:"required,min=1,max=4000" doc:"Quote text"`
	IsPublic bool     `json:"is_public,omitempty" doc:"Whether the quote is publicly visible"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=64" doc:"Explicit tags; omit to predict them"`
}

// CreateQuoteInput wraps the create request for Huma.
type CreateQuoteInput struct {
	Body CreateQuoteRequest
}

// UpdateQuoteRequest is the request body for a partial quote update.
type UpdateQuoteRequest struct {
	Text     *string `json:"text,omitempty" validate:"omitempty,min=1,max=4000" doc:"New quote text"`
	IsPublic *bool   `json:"is_public,omitempty" doc:"New visibility"`
}

// UpdateQuoteInput wraps the update request for Huma.
type UpdateQuoteInput struct {
	ID   int64 `path:"id" doc:"Quote ID"`
	Body UpdateQuoteRequest
}

// QuoteIDInput identifies a quote by path parameter.
type QuoteIDInput struct {
	ID int64 `path:"id" doc:"Quote ID"`
}

// QuoteOutput wraps a single quote entry for Huma.
type QuoteOutput struct {
	Body dto.QuoteEntry
}

// PageInput carries offset pagination query parameters.
type PageInput struct {
	Page     int `query:"page" minimum:"1" doc:"Page number, starting at 1"`
	PageSize int `query:"page_size" minimum:"1" maximum:"100" doc:"Quotes per page (default 25)"`
}

// QuotePageResponse is one page of quotes with pagination metadata.
type QuotePageResponse struct {
	Quotes     []dto.QuoteEntry `json:"quotes" doc:"Quotes on this page"`
	TotalPages int              `json:"total_pages" doc:"Number of pages available"`
	Total      int              `json:"total" doc:"Total matching quotes"`
}

// QuotePageOutput wraps a quote page for Huma.
type QuotePageOutput struct {
	Body QuotePageResponse
}

// === Handlers ===

func (s *Server) handleCreateQuote(ctx context.Context, input *CreateQuoteInput) (*QuoteOutput, error) {
	viewer, err := RequireViewer(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Quote.CreateQuote(ctx, viewer.AuthorID, service.CreateQuoteRequest{
		Text:     input.Body.Text,
		IsPublic: input.Body.IsPublic,
		Tags:     input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &QuoteOutput{Body: *entry}, nil
}

func (s *Server) handleGetQuote(ctx context.Context, input *QuoteIDInput) (*QuoteOutput, error) {
	entry, err := s.services.Quote.GetQuote(ctx, input.ID, OptionalViewer(ctx))
	if err != nil {
		return nil, err
	}

	return &QuoteOutput{Body: *entry}, nil
}

func (s *Server) handleUpdateQuote(ctx context.Context, input *UpdateQuoteInput) (*QuoteOutput, error) {
	viewer, err := RequireViewer(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Quote.UpdateQuote(ctx, input.ID, viewer, service.UpdateQuoteRequest{
		Text:     input.Body.Text,
		IsPublic: input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	return &QuoteOutput{Body: *entry}, nil
}

func (s *Server) handleListQuotes(ctx context.Context, input *PageInput) (*QuotePageOutput, error) {
	entries, pages, total, err := s.services.Quote.ListPublicQuotes(ctx, input.Page, input.PageSize, OptionalViewer(ctx))
	if err != nil {
		return nil, err
	}

	return &QuotePageOutput{
		Body: QuotePageResponse{
			Quotes:     entries,
			TotalPages: pages,
			Total:      total,
		},
	}, nil
}
