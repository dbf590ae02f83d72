package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imyp/QuoteWeave/internal/domain"
	domainerrors "github.com/imyp/QuoteWeave/internal/errors"
	"github.com/imyp/QuoteWeave/internal/store"
	"github.com/imyp/QuoteWeave/internal/validation"
)

// CollectionService manages collections and their membership.
type CollectionService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(st store.Store, validator *validation.Validator, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// CreateCollectionRequest contains new collection data.
type CreateCollectionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=128"`
	Description string `json:"description,omitempty" validate:"max=1024"`
	IsPublic    bool   `json:"is_public"`
}

// CreateCollection creates a collection owned by the viewer's author.
// Collection names are unique per author.
func (s *CollectionService) CreateCollection(ctx context.Context, viewer *Viewer, req CreateCollectionRequest) (*domain.Collection, error) {
	if viewer == nil {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domainerrors.Validation("name is required")
	}

	collection := &domain.Collection{
		AuthorID:    viewer.AuthorID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsPublic:    req.IsPublic,
	}
	if err := s.store.CreateCollection(ctx, collection); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExistsf("collection %q already exists", name)
		}
		return nil, fmt.Errorf("create collection: %w", err)
	}

	s.logger.Info("collection created",
		slog.Int64("collection_id", collection.ID),
		slog.Int64("author_id", viewer.AuthorID))
	return collection, nil
}

// GetCollection returns a collection. Private collections resolve for their
// owner only; everyone else gets NotFound.
func (s *CollectionService) GetCollection(ctx context.Context, collectionID int64, viewer *Viewer) (*domain.Collection, error) {
	collection, err := s.store.GetCollectionByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("collection not found")
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	if !collection.IsPublic && (viewer == nil || viewer.AuthorID != collection.AuthorID) {
		return nil, domainerrors.NotFound("collection not found")
	}
	return collection, nil
}

// AddQuote links a quote into a collection. Owner only; adding the same
// quote twice is a no-op. The quote must be visible to the owner.
func (s *CollectionService) AddQuote(ctx context.Context, collectionID, quoteID int64, viewer *Viewer) error {
	if viewer == nil {
		return domainerrors.Unauthorized("authentication required")
	}

	collection, err := s.store.GetCollectionByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("collection not found")
		}
		return fmt.Errorf("get collection: %w", err)
	}
	if collection.AuthorID != viewer.AuthorID {
		// Hide private collections entirely; reject additions to foreign
		// public ones.
		if !collection.IsPublic {
			return domainerrors.NotFound("collection not found")
		}
		return domainerrors.Forbidden("only the collection's owner can add quotes")
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

	if err := s.store.AddQuoteToCollection(ctx, collectionID, quoteID); err != nil {
		return fmt.Errorf("add quote to collection: %w", err)
	}
	return nil
}

// ListByAuthor returns an author's collections. The owner sees private
// ones too.
func (s *CollectionService) ListByAuthor(ctx context.Context, authorID int64, viewer *Viewer) ([]*domain.Collection, error) {
	collections, err := s.store.ListCollectionsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	if viewer == nil || viewer.AuthorID != authorID {
		visible := collections[:0]
		for _, c := range collections {
			if c.IsPublic {
				visible = append(visible, c)
			}
		}
		collections = visible
	}
	return collections, nil
}
