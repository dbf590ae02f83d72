package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/imyp/QuoteWeave/internal/domain"
	"github.com/imyp/QuoteWeave/internal/dto"
	"github.com/imyp/QuoteWeave/internal/service"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createCollection",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections",
		Summary:     "Create collection",
		Description: "Creates a collection owned by the caller. Names are unique per author.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}",
		Summary:     "Get collection",
		Description: "Returns a single collection. Private collections are visible to their owner only.",
		Tags:        []string{"Collections"},
	}, s.handleGetCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollectionQuotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}/quotes",
		Summary:     "List collection quotes",
		Description: "Returns the quotes in a collection, most recently added first",
		Tags:        []string{"Collections"},
	}, s.handleGetCollectionQuotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "addQuoteToCollection",
		Method:      http.MethodPost,
		Path:        "/api/v1/collections/{id}/quotes/{quoteID}",
		Summary:     "Add quote to collection",
		Description: "Adds a quote to a collection owned by the caller. Adding an already present quote is a no-op.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddQuoteToCollection)
}

// === DTOs ===

// CreateCollectionRequest is the request body for collection creation.
type CreateCollectionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=128" doc:"Collection name, unique per author"`
	Description string `json:"description,omitempty" validate:"max=1024" doc:"Optional description"`
	IsPublic    bool   `json:"is_public,omitempty" doc:"Whether the collection is publicly visible"`
}

// CreateCollectionInput wraps the create request for Huma.
type CreateCollectionInput struct {
	Body CreateCollectionRequest
}

// CollectionIDInput identifies a collection by path parameter.
type CollectionIDInput struct {
	ID int64 `path:"id" doc:"Collection ID"`
}

// CollectionQuoteInput identifies a collection/quote pair.
type CollectionQuoteInput struct {
	ID      int64 `path:"id" doc:"Collection ID"`
	QuoteID int64 `path:"quoteID" doc:"Quote ID to add"`
}

// CollectionOutput wraps a single collection for Huma.
type CollectionOutput struct {
	Body domain.Collection
}

// CollectionQuotesResponse holds the quotes in one collection.
type CollectionQuotesResponse struct {
	Quotes []dto.QuoteEntry `json:"quotes" doc:"Quotes in the collection, most recently added first"`
}

// CollectionQuotesOutput wraps the collection quote list for Huma.
type CollectionQuotesOutput struct {
	Body CollectionQuotesResponse
}

// === Handlers ===

func (s *Server) handleCreateCollection(ctx context.Context, input *CreateCollectionInput) (*CollectionOutput, error) {
	viewer, err := RequireViewer(ctx)
	if err != nil {
		return nil, err
	}

	collection, err := s.services.Collection.CreateCollection(ctx, viewer, service.CreateCollectionRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		IsPublic:    input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	return &CollectionOutput{Body: *collection}, nil
}

func (s *Server) handleGetCollection(ctx context.Context, input *CollectionIDInput) (*CollectionOutput, error) {
	collection, err := s.services.Collection.GetCollection(ctx, input.ID, OptionalViewer(ctx))
	if err != nil {
		return nil, err
	}

	return &CollectionOutput{Body: *collection}, nil
}

func (s *Server) handleGetCollectionQuotes(ctx context.Context, input *CollectionIDInput) (*CollectionQuotesOutput, error) {
	entries, err := s.services.Search.QuotesByCollection(ctx, input.ID, OptionalViewer(ctx))
	if err != nil {
		return nil, err
	}

	return &CollectionQuotesOutput{Body: CollectionQuotesResponse{Quotes: entries}}, nil
}

func (s *Server) handleAddQuoteToCollection(ctx context.Context, input *CollectionQuoteInput) (*MessageOutput, error) {
	viewer, err := RequireViewer(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Collection.AddQuote(ctx, input.ID, input.QuoteID, viewer); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Quote added to collection"}}, nil
}
