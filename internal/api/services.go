package api

import (
	"github.com/imyp/QuoteWeave/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	Quote      *service.QuoteService
	Search     *service.SearchService
	Collection *service.CollectionService
	Favorite   *service.FavoriteService
	Tag        *service.TagService
}
