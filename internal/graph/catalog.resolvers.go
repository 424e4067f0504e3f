package graph

import (
	"context"

	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/logger"

	"go.uber.org/zap"
)

// Products is the resolver for the products field. A subcategory wins over a
// category, the same precedence as GET /api/products.
func (r *queryResolver) Products(ctx context.Context, category *string, subcategory *string) ([]model.Product, error) {
	var (
		products []catalog.Product
		err      error
	)
	switch {
	case value(subcategory) != "":
		products, err = r.CatalogSvc.ListBySubcategory(ctx, catalog.Subcategory(*subcategory))
	case value(category) != "":
		products, err = r.CatalogSvc.ListByCategory(ctx, catalog.Category(*category))
	default:
		products, err = r.CatalogSvc.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return MapProductsToGraphQL(products), nil
}

func (r *queryResolver) FeaturedProducts(ctx context.Context, limit *int) ([]model.Product, error) {
	products, err := r.CatalogSvc.ListFeatured(ctx, value(limit))
	if err != nil {
		return nil, err
	}
	return MapProductsToGraphQL(products), nil
}

// Product resolves to null for an unknown slug.
func (r *queryResolver) Product(ctx context.Context, slug string) (*model.Product, error) {
	p, err := r.CatalogSvc.GetBySlug(ctx, slug)
	if err != nil || p == nil {
		return nil, err
	}
	out := MapProductToGraphQL(*p)
	return &out, nil
}

func (r *queryResolver) Categories(ctx context.Context) ([]model.Category, error) {
	return MapCategoryTree(catalog.Tree()), nil
}

func (r *queryResolver) AdminProducts(ctx context.Context) ([]model.Product, error) {
	products, err := r.CatalogSvc.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return MapProductsToGraphQL(products), nil
}

func (r *mutationResolver) CreateProduct(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	log := logger.FromCtx(ctx).With(zap.String("name", input.Name))

	p, err := r.CatalogSvc.Create(ctx, MapProductInput(input))
	if err != nil {
		log.Warn("create product failed", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID))
	out := MapProductToGraphQL(*p)
	return &out, nil
}

func (r *mutationResolver) UpdateProduct(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	p, err := r.CatalogSvc.Update(ctx, id, MapProductInput(input))
	if err != nil {
		logger.FromCtx(ctx).Warn("update product failed", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	out := MapProductToGraphQL(*p)
	return &out, nil
}

func (r *mutationResolver) DeleteProduct(ctx context.Context, id string) (bool, error) {
	if err := r.CatalogSvc.Delete(ctx, id); err != nil {
		logger.FromCtx(ctx).Warn("delete product failed", zap.String("product_id", id), zap.Error(err))
		return false, err
	}
	return true, nil
}
