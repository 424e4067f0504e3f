package graph

import (
	"context"
	"testing"
	"time"

	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/graph/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ravioles() catalog.Product {
	return catalog.Product{
		ID:          "ravioles-de-carne",
		Name:        "Ravioles de carne",
		Slug:        "ravioles-de-carne",
		Price:       decimal.RequireFromString("2500.50"),
		Category:    catalog.CategoryPastasRellenas,
		Subcategory: catalog.SubRavioles,
		Available:   true,
		Ingredients: pq.StringArray{"harina", "huevo", "carne"},
		Nutrition:   &catalog.NutritionalInfo{Calories: "250 kcal"},
		CreatedAt:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestQueryResolver_Products(t *testing.T) {
	ctx := context.Background()
	sub := "ravioles"
	cat := "pastas-rellenas"

	t.Run("Subcategory wins over category", func(t *testing.T) {
		svc := new(MockCatalogService)
		qr := &queryResolver{&Resolver{CatalogSvc: svc}}
		svc.On("ListBySubcategory", ctx, catalog.SubRavioles).Return([]catalog.Product{ravioles()}, nil)

		res, err := qr.Products(ctx, &cat, &sub)

		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "2500.5", res[0].Price.Decimal().String())
		assert.Equal(t, "ravioles", *res[0].Subcategory)
		assert.Equal(t, "250 kcal", *res[0].NutritionalInfo.Calories)
		assert.Nil(t, res[0].NutritionalInfo.Fats)
		svc.AssertNotCalled(t, "ListByCategory", mock.Anything, mock.Anything)
	})

	t.Run("Category", func(t *testing.T) {
		svc := new(MockCatalogService)
		qr := &queryResolver{&Resolver{CatalogSvc: svc}}
		svc.On("ListByCategory", ctx, catalog.CategoryPastasRellenas).Return([]catalog.Product{}, nil)

		res, err := qr.Products(ctx, &cat, nil)

		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	t.Run("Whole catalog", func(t *testing.T) {
		svc := new(MockCatalogService)
		qr := &queryResolver{&Resolver{CatalogSvc: svc}}
		svc.On("ListAll", ctx).Return([]catalog.Product{ravioles(), ravioles()}, nil)

		res, err := qr.Products(ctx, nil, nil)

		require.NoError(t, err)
		assert.Len(t, res, 2)
	})
}

func TestQueryResolver_FeaturedProducts(t *testing.T) {
	ctx := context.Background()
	svc := new(MockCatalogService)
	qr := &queryResolver{&Resolver{CatalogSvc: svc}}
	svc.On("ListFeatured", ctx, 0).Return([]catalog.Product{ravioles()}, nil)

	res, err := qr.FeaturedProducts(ctx, nil)

	require.NoError(t, err)
	assert.Len(t, res, 1)
	svc.AssertExpectations(t)
}

func TestQueryResolver_Product(t *testing.T) {
	ctx := context.Background()
	svc := new(MockCatalogService)
	qr := &queryResolver{&Resolver{CatalogSvc: svc}}
	p := ravioles()
	svc.On("GetBySlug", ctx, "ravioles-de-carne").Return(&p, nil)
	svc.On("GetBySlug", ctx, "no-existe").Return(nil, nil)

	found, err := qr.Product(ctx, "ravioles-de-carne")
	require.NoError(t, err)
	assert.Equal(t, "Ravioles de carne", found.Name)

	missing, err := qr.Product(ctx, "no-existe")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQueryResolver_Categories(t *testing.T) {
	qr := &queryResolver{&Resolver{}}

	res, err := qr.Categories(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, "pastas-rellenas", res[0].Slug)
	assert.NotEmpty(t, res[0].Subcategories)
}

func TestMutationResolver_CreateProduct(t *testing.T) {
	ctx := context.Background()
	svc := new(MockCatalogService)
	mr := &mutationResolver{&Resolver{CatalogSvc: svc}}

	featured := true
	calories := "250 kcal"
	input := model.ProductInput{
		Name:            "Ravioles de carne",
		Price:           model.NewMoney(decimal.NewFromInt(2500)),
		Category:        "pastas-rellenas",
		Featured:        &featured,
		Ingredients:     []string{"harina"},
		NutritionalInfo: &model.NutritionalInfoInput{Calories: &calories},
	}
	created := ravioles()
	svc.On("Create", ctx, mock.MatchedBy(func(in catalog.ProductInput) bool {
		return in.Name == "Ravioles de carne" &&
			in.Price.Equal(decimal.NewFromInt(2500)) &&
			in.Category == catalog.CategoryPastasRellenas &&
			in.Featured &&
			in.Available == nil &&
			in.Nutrition.Calories == "250 kcal"
	})).Return(&created, nil)

	res, err := mr.CreateProduct(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "ravioles-de-carne", res.ID)
	svc.AssertExpectations(t)
}

func TestMutationResolver_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc := new(MockCatalogService)
	mr := &mutationResolver{&Resolver{CatalogSvc: svc}}
	svc.On("Delete", ctx, "ravioles-de-carne").Return(nil)
	svc.On("Delete", ctx, "no-existe").Return(catalog.ErrProductNotFound)

	ok, err := mr.DeleteProduct(ctx, "ravioles-de-carne")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = mr.DeleteProduct(ctx, "no-existe")
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.False(t, ok)
}
