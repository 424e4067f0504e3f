package graph

import (
	"context"
	"testing"

	"paulapastas-be/internal/content"
	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/newsletter"
	"paulapastas-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueryResolver_Post(t *testing.T) {
	ctx := context.Background()

	t.Run("Published post", func(t *testing.T) {
		svc := new(MockContentService)
		qr := &queryResolver{&Resolver{ContentSvc: svc}}
		svc.On("GetPost", ctx, "como-hacer-noquis", true).
			Return(&content.Post{ID: 4, Slug: "como-hacer-noquis", Title: "Cómo hacer ñoquis", Body: "Papa y harina", Published: true}, nil)

		res, err := qr.Post(ctx, "como-hacer-noquis")

		require.NoError(t, err)
		assert.Equal(t, "4", res.ID)
		assert.Equal(t, "Papa y harina", *res.Body)
		assert.Nil(t, res.Excerpt)
	})

	t.Run("Unknown slug is null", func(t *testing.T) {
		svc := new(MockContentService)
		qr := &queryResolver{&Resolver{ContentSvc: svc}}
		svc.On("GetPost", ctx, "borrador", true).Return(nil, nil)

		res, err := qr.Post(ctx, "borrador")

		require.NoError(t, err)
		assert.Nil(t, res)
	})
}

func TestQueryResolver_Banners(t *testing.T) {
	ctx := context.Background()
	svc := new(MockContentService)
	qr := &queryResolver{&Resolver{ContentSvc: svc}}
	svc.On("ListBanners", ctx, "home", false).Return([]content.Banner{{ID: 1, Title: "Promo", Page: "home", Active: true}}, nil)
	svc.On("ListBanners", ctx, "home", true).Return([]content.Banner{
		{ID: 1, Title: "Promo", Page: "home", Active: true},
		{ID: 2, Title: "Vieja", Page: "home"},
	}, nil)

	public, err := qr.Banners(ctx, "home")
	require.NoError(t, err)
	assert.Len(t, public, 1)

	admin, err := qr.AdminBanners(ctx, "home")
	require.NoError(t, err)
	assert.Len(t, admin, 2)
	assert.Nil(t, admin[1].Subtitle)
}

func TestMutationResolver_UpdateBanner(t *testing.T) {
	ctx := context.Background()
	input := model.BannerInput{Title: "Promo", ImageURL: "https://cdn.example.com/b.jpg", Page: "home"}

	t.Run("Bad id", func(t *testing.T) {
		svc := new(MockContentService)
		mr := &mutationResolver{&Resolver{ContentSvc: svc}}

		res, err := mr.UpdateBanner(ctx, "abc", input)

		assert.Nil(t, res)
		_, ok := utils.IsValidationError(err)
		assert.True(t, ok)
		assert.Equal(t, CodeBadInput, PresentError(ctx, err).Extensions["code"])
		svc.AssertNotCalled(t, "UpdateBanner", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing banner", func(t *testing.T) {
		svc := new(MockContentService)
		mr := &mutationResolver{&Resolver{ContentSvc: svc}}
		svc.On("UpdateBanner", ctx, int64(9), mock.AnythingOfType("content.BannerInput")).Return(nil, content.ErrBannerNotFound)

		_, err := mr.UpdateBanner(ctx, "9", input)

		assert.ErrorIs(t, err, content.ErrBannerNotFound)
		assert.Equal(t, CodeNotFound, PresentError(ctx, err).Extensions["code"])
	})
}

func TestMutationResolver_DeletePost(t *testing.T) {
	ctx := context.Background()
	svc := new(MockContentService)
	mr := &mutationResolver{&Resolver{ContentSvc: svc}}
	svc.On("DeletePost", ctx, int64(3)).Return(nil)

	ok, err := mr.DeletePost(ctx, "3")

	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mr.DeletePost(ctx, "0")
	assert.Error(t, err)
	assert.False(t, ok)
	svc.AssertNumberOfCalls(t, "DeletePost", 1)
}

func TestMutationResolver_Subscribe(t *testing.T) {
	ctx := context.Background()
	svc := new(MockNewsletterService)
	mr := &mutationResolver{&Resolver{NewsletterSvc: svc}}
	svc.On("Subscribe", ctx, newsletter.SubscribeInput{Email: "ana@example.com"}).Return(nil)

	ok, err := mr.Subscribe(ctx, "ana@example.com")

	require.NoError(t, err)
	assert.True(t, ok)
	svc.AssertExpectations(t)
}
