package graph

import (
	"context"

	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/review"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

func (r *queryResolver) Reviews(ctx context.Context, productID *string, featured *bool, limit *int) ([]model.Review, error) {
	reviews, err := r.ReviewSvc.ListPublic(ctx, value(productID), value(featured), value(limit))
	if err != nil {
		return nil, err
	}
	return mapList(reviews, MapReviewToGraphQL), nil
}

func (r *queryResolver) AdminReviews(ctx context.Context, limit *int) ([]model.Review, error) {
	reviews, err := r.ReviewSvc.ListAll(ctx, value(limit))
	if err != nil {
		return nil, err
	}
	return mapList(reviews, MapReviewToGraphQL), nil
}

// CreateReview stores the review unapproved; it shows up once moderated.
func (r *mutationResolver) CreateReview(ctx context.Context, input model.NewReview) (*model.Review, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	log := logger.FromCtx(ctx).With(zap.Uint("user_id", userID))

	rev, err := r.ReviewSvc.Create(ctx, userID, review.CreateInput{
		ProductID:  value(input.ProductID),
		AuthorName: input.AuthorName,
		Rating:     input.Rating,
		Text:       input.Text,
	})
	if err != nil {
		log.Warn("create review failed", zap.Error(err))
		return nil, err
	}

	log.Info("review submitted", zap.Int64("review_id", rev.ID))
	out := MapReviewToGraphQL(*rev)
	return &out, nil
}

func (r *mutationResolver) ModerateReview(ctx context.Context, id string, input model.ModerateReviewInput) (*model.Review, error) {
	reviewID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rev, err := r.ReviewSvc.Moderate(ctx, reviewID, review.ModerateInput{
		Approved: input.Approved,
		Featured: input.Featured,
	})
	if err != nil {
		return nil, err
	}
	out := MapReviewToGraphQL(*rev)
	return &out, nil
}

func (r *mutationResolver) DeleteReview(ctx context.Context, id string) (bool, error) {
	return r.deleteByID(ctx, id, r.ReviewSvc.Delete)
}
