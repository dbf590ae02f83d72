package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/imyp/QuoteWeave/internal/dto"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchQuotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes/search",
		Summary:     "Semantic quote search",
		Description: "Embeds the query and returns the nearest public quotes by cosine distance",
		Tags:        []string{"Search"},
	}, s.handleSearchQuotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchQuotesByTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes/search/tag/{name}",
		Summary:     "Quotes by tag",
		Description: "Returns a page of public quotes carrying the given tag. Tag names are case-folded.",
		Tags:        []string{"Search"},
	}, s.handleSearchQuotesByTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCollections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/search",
		Summary:     "Search collections",
		Description: "Returns collections whose name or description matches the term. Private collections are visible to their owner only.",
		Tags:        []string{"Search"},
	}, s.handleSearchCollections)
}

// === DTOs ===

// SearchInput carries semantic search query parameters.
type SearchInput struct {
	Query string `query:"query" required:"true" maxLength:"4000" doc:"Free-text search query"`
	Limit int    `query:"limit" minimum:"1" maximum:"100" doc:"Maximum results (default 10)"`
	Skip  int    `query:"skip" minimum:"0" doc:"Results to skip, for paging"`
}

// SearchQuotesResponse holds semantic search results, nearest first.
type SearchQuotesResponse struct {
	Quotes []dto.QuoteEntry `json:"quotes" doc:"Matching quotes, nearest first"`
}

// SearchQuotesOutput wraps the search response for Huma.
type SearchQuotesOutput struct {
	Body SearchQuotesResponse
}

// TagSearchInput identifies a tag page request.
type TagSearchInput struct {
	Name     string `path:"name" maxLength:"64" doc:"Tag name, matched case-insensitively"`
	Page     int    `query:"page" minimum:"1" doc:"Page number, starting at 1"`
	PageSize int    `query:"page_size" minimum:"1" maximum:"100" doc:"Quotes per page (default 25)"`
}

// SearchCollectionsResponse holds collection search results.
type SearchCollectionsResponse struct {
	Collections []dto.CollectionEntry `json:"collections" doc:"Matching collections with owner names"`
}

// SearchCollectionsOutput wraps the collection search response for Huma.
type SearchCollectionsOutput struct {
	Body SearchCollectionsResponse
}

// === Handlers ===

func (s *Server) handleSearchQuotes(ctx context.Context, input *SearchInput) (*SearchQuotesOutput, error) {
	entries, err := s.services.Search.SemanticSearch(ctx, input.Query, input.Limit, input.Skip, OptionalViewer(ctx))
	if err != nil {
		return nil, err
	}

	return &SearchQuotesOutput{Body: SearchQuotesResponse{Quotes: entries}}, nil
}

func (s *Server) handleSearchQuotesByTag(ctx context.Context, input *TagSearchInput) (*QuotePageOutput, error) {
	entries, pages, total, err := s.services.Search.SearchByTag(ctx, input.Name, input.Page, input.PageSize, OptionalViewer(ctx))
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

func (s *Server) handleSearchCollections(ctx context.Context, input *SearchInput) (*SearchCollectionsOutput, error) {
	collections, err := s.services.Search.SearchCollections(ctx, input.Query, input.Limit, input.Skip, OptionalViewer(ctx))
	if err != nil {
		return nil, err
	}

	return &SearchCollectionsOutput{Body: SearchCollectionsResponse{Collections: collections}}, nil
}
