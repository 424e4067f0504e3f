package catalog

import (
	"context"
	"fmt"

	"paulapastas-be/internal/cache"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

const defaultFeaturedLimit = 8

type Service interface {
	ListAll(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, c Category) ([]Product, error)
	ListBySubcategory(ctx context.Context, s Subcategory) ([]Product, error)
	ListFeatured(ctx context.Context, limit int) ([]Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]Product, error)

	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	cache cache.Invalidator
}

// NewService wires the read path and admin writes. inv may be nil.
func NewService(repo Repository, inv cache.Invalidator) Service {
	return &service{repo: repo, cache: inv}
}

func (s *service) ListAll(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx, ListFilter{})
}

func (s *service) ListByCategory(ctx context.Context, c Category) ([]Product, error) {
	if !c.Valid() {
		return []Product{}, nil
	}
	return s.repo.List(ctx, ListFilter{Category: c})
}

func (s *service) ListBySubcategory(ctx context.Context, sub Subcategory) ([]Product, error) {
	if !sub.Valid() {
		return []Product{}, nil
	}
	return s.repo.List(ctx, ListFilter{Category: sub.Category(), Subcategory: sub})
}

func (s *service) ListFeatured(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	return s.repo.List(ctx, ListFilter{FeaturedOnly: true, Limit: limit})
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByIDs returns the found products keyed by id. Missing ids are absent.
func (s *service) GetByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	products, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func validateInput(input ProductInput) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}

	var details []string
	if !input.Category.Valid() {
		details = append(details, fmt.Sprintf("category %q is not a known category", input.Category))
	}
	if input.Subcategory != "" && input.Subcategory.Category() != input.Category {
		details = append(details, fmt.Sprintf("subcategory %q does not belong to %q", input.Subcategory, input.Category))
	}
	if !input.Price.IsPositive() {
		details = append(details, "price must be greater than 0")
	}
	if len(details) > 0 {
		return utils.NewValidationError(details...)
	}
	return nil
}

func applyInput(p *Product, input ProductInput) {
	p.Name = input.Name
	p.Slug = input.Slug
	if p.Slug == "" {
		p.Slug = utils.Slugify(input.Name)
	}
	p.Description = input.Description
	p.Price = input.Price
	p.Category = input.Category
	p.Subcategory = input.Subcategory
	p.ImageURL = input.ImageURL
	p.Available = true
	if input.Available != nil {
		p.Available = *input.Available
	}
	p.Featured = input.Featured
	p.Ingredients = append([]string{}, input.Ingredients...)
	p.Nutrition = input.Nutrition
	p.DisplayOrder = input.DisplayOrder
}

func (s *service) Create(ctx context.Context, input ProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	if err := validateInput(input); err != nil {
		log.Info("product rejected", zap.Error(err))
		return nil, err
	}

	p := &Product{}
	applyInput(p, input)
	p.ID = input.ID
	if p.ID == "" {
		p.ID = p.Slug
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("create product failed", zap.String("product_id", p.ID), zap.Error(err))
		return nil, err
	}

	s.invalidate()
	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.String("product_id", id),
	)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	p := &Product{ID: id}
	applyInput(p, input)
	if err := s.repo.Update(ctx, p); err != nil {
		log.Warn("update product failed", zap.Error(err))
		return nil, err
	}

	s.invalidate()
	log.Info("product updated")
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	logger.FromCtx(ctx).Info("product deleted", zap.String("product_id", id))
	return nil
}

func (s *service) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
