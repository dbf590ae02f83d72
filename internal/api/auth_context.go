package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/imyp/QuoteWeave/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// viewerKey is the context key for the authenticated viewer.
const viewerKey ctxKey = "viewer"

// RequireViewer returns the authenticated viewer from context.
// Returns 401 error if the request carried no valid token.
func RequireViewer(ctx context.Context) (*service.Viewer, error) {
	viewer, ok := ctx.Value(viewerKey).(*service.Viewer)
	if !ok || viewer == nil {
		return nil, huma.Error401Unauthorized("Authentication required")
	}
	return viewer, nil
}

// OptionalViewer returns the authenticated viewer, or nil for anonymous
// requests. Use for endpoints that personalize but do not require auth.
func OptionalViewer(ctx context.Context) *service.Viewer {
	viewer, ok := ctx.Value(viewerKey).(*service.Viewer)
	if !ok {
		return nil
	}
	return viewer
}

// setViewer stores the viewer in context.
func setViewer(ctx context.Context, viewer *service.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, viewer)
}

// authMiddleware returns a middleware that validates Bearer tokens and stores
// the viewer in context. If no token is present or invalid, continues without
// a viewer. Handlers use RequireViewer to reject unauthenticated requests.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			token := authHeader[7:]
			user, claims, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				// Invalid token - continue anonymous (handler rejects if auth required)
				next.ServeHTTP(w, r)
				return
			}

			ctx := setViewer(r.Context(), &service.Viewer{
				UserID:   user.ID,
				AuthorID: claims.AuthorID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
