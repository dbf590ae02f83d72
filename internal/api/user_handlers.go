package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's account and pen name",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkUsername",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/check-username",
		Summary:     "Check username availability",
		Description: "Reports whether a pen name can still be registered. Author entries without an account are claimable.",
		Tags:        []string{"Users"},
	}, s.handleCheckUsername)
}

// CurrentUserOutput wraps the current user response for Huma.
type CurrentUserOutput struct {
	Body UserResponse
}

// CheckUsernameInput carries the username to probe.
type CheckUsernameInput struct {
	Username string `query:"username" required:"true" minLength:"2" maxLength:"64" doc:"Pen name to check"`
}

// CheckUsernameResponse reports pen name availability.
type CheckUsernameResponse struct {
	Username  string `json:"username" doc:"The pen name that was checked"`
	Available bool   `json:"available" doc:"Whether the pen name can be registered"`
}

// CheckUsernameOutput wraps the availability response for Huma.
type CheckUsernameOutput struct {
	Body CheckUsernameResponse
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*CurrentUserOutput, error) {
	viewer, err := RequireViewer(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, viewer.UserID)
	if err != nil {
		return nil, huma.Error401Unauthorized("User not found")
	}

	author, err := s.store.GetAuthorByID(ctx, user.AuthorID)
	if err != nil {
		return nil, err
	}

	return &CurrentUserOutput{
		Body: UserResponse{
			ID:        user.ID,
			AuthorID:  user.AuthorID,
			Username:  author.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *Server) handleCheckUsername(ctx context.Context, input *CheckUsernameInput) (*CheckUsernameOutput, error) {
	available, err := s.services.Auth.IsUsernameAvailable(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	return &CheckUsernameOutput{
		Body: CheckUsernameResponse{
			Username:  input.Username,
			Available: available,
		},
	}, nil
}
