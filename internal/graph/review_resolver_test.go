package graph

import (
	"context"
	"testing"

	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/review"
	"paulapastas-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMutationResolver_CreateReview(t *testing.T) {
	productID := "sorrentinos-de-jamon"
	input := model.NewReview{ProductID: &productID, AuthorName: "Ana", Rating: 5, Text: "Riquísimos"}

	t.Run("Uses the caller's id", func(t *testing.T) {
		svc := new(MockReviewService)
		mr := &mutationResolver{&Resolver{ReviewSvc: svc}}
		ctx := utils.SetUserContext(context.Background(), 12, "ana@example.com", "USER")

		svc.On("Create", ctx, uint(12), review.CreateInput{
			ProductID:  productID,
			AuthorName: "Ana",
			Rating:     5,
			Text:       "Riquísimos",
		}).Return(&review.Review{ID: 30, ProductID: productID, UserID: 12, AuthorName: "Ana", Rating: 5, Text: "Riquísimos"}, nil)

		res, err := mr.CreateReview(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "30", res.ID)
		assert.Equal(t, productID, *res.ProductID)
		assert.False(t, res.Approved)
		svc.AssertExpectations(t)
	})

	t.Run("Anonymous", func(t *testing.T) {
		svc := new(MockReviewService)
		mr := &mutationResolver{&Resolver{ReviewSvc: svc}}

		_, err := mr.CreateReview(context.Background(), input)

		assert.ErrorIs(t, err, ErrUnauthenticated)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestQueryResolver_Reviews(t *testing.T) {
	ctx := context.Background()
	svc := new(MockReviewService)
	qr := &queryResolver{&Resolver{ReviewSvc: svc}}
	featured := true
	svc.On("ListPublic", ctx, "", true, 0).Return([]review.Review{{ID: 1, AuthorName: "Ana", Rating: 5, Approved: true, Featured: true}}, nil)

	res, err := qr.Reviews(ctx, nil, &featured, nil)

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Nil(t, res[0].ProductID)
	assert.True(t, res[0].Featured)
}

func TestMutationResolver_ModerateReview(t *testing.T) {
	ctx := context.Background()
	svc := new(MockReviewService)
	mr := &mutationResolver{&Resolver{ReviewSvc: svc}}
	approved := true
	svc.On("Moderate", ctx, int64(30), review.ModerateInput{Approved: &approved}).
		Return(&review.Review{ID: 30, Approved: true}, nil)

	res, err := mr.ModerateReview(ctx, "30", model.ModerateReviewInput{Approved: &approved})

	require.NoError(t, err)
	assert.True(t, res.Approved)

	svc.On("Moderate", ctx, int64(31), review.ModerateInput{}).Return(nil, review.ErrNothingToChange)
	_, err = mr.ModerateReview(ctx, "31", model.ModerateReviewInput{})
	assert.Equal(t, CodeBadInput, PresentError(ctx, err).Extensions["code"])
}
