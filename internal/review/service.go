package review

import (
	"context"
	"fmt"

	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

// ProductLookup resolves the product a review points at.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
}

type Service interface {
	Create(ctx context.Context, userID uint, input CreateInput) (*Review, error)
	ListPublic(ctx context.Context, productID string, featuredOnly bool, limit int) ([]Review, error)
	ListAll(ctx context.Context, limit int) ([]Review, error)
	Moderate(ctx context.Context, id int64, input ModerateInput) (*Review, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo     Repository
	products ProductLookup
}

func NewService(repo Repository, products ProductLookup) Service {
	return &service{repo: repo, products: products}
}

// Create stores the review unapproved; it becomes public after moderation.
func (s *service) Create(ctx context.Context, userID uint, input CreateInput) (*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateReview"),
		zap.Uint("user_id", userID),
	)

	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	if input.ProductID != "" {
		p, err := s.products.GetByID(ctx, input.ProductID)
		if err != nil {
			return nil, fmt.Errorf("lookup product: %w", err)
		}
		if p == nil {
			return nil, ErrProductNotFound
		}
	}

	r := &Review{
		ProductID:  input.ProductID,
		UserID:     userID,
		AuthorName: input.AuthorName,
		Rating:     input.Rating,
		Text:       input.Text,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		log.Error("create review failed", zap.Error(err))
		return nil, err
	}

	log.Info("review submitted", zap.Int64("review_id", r.ID), zap.String("product_id", r.ProductID))
	return r, nil
}

func (s *service) ListPublic(ctx context.Context, productID string, featuredOnly bool, limit int) ([]Review, error) {
	return s.repo.List(ctx, ListFilter{ProductID: productID, FeaturedOnly: featuredOnly, Limit: limit})
}

func (s *service) ListAll(ctx context.Context, limit int) ([]Review, error) {
	return s.repo.List(ctx, ListFilter{IncludeUnapproved: true, Limit: limit})
}

func (s *service) Moderate(ctx context.Context, id int64, input ModerateInput) (*Review, error) {
	if input.Approved == nil && input.Featured == nil {
		return nil, ErrNothingToChange
	}
	r, err := s.repo.Moderate(ctx, id, input)
	if err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("review moderated",
		zap.Int64("review_id", id),
		zap.Bool("approved", r.Approved),
		zap.Bool("featured", r.Featured),
	)
	return r, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
