package cart

import (
	"context"
	"time"

	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultTTL = 30 * 24 * time.Hour

// ProductLookup is the slice of the catalog the cart needs.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
}

// Service defines the business logic for session carts.
type Service interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, sessionID uuid.UUID, productID string, quantity int) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, sessionID uuid.UUID, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID uuid.UUID, productID string) (*Cart, error)
	Clear(ctx context.Context, sessionID uuid.UUID) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	products ProductLookup
	ttl      time.Duration
	now      func() time.Time
}

func NewService(repo Repository, products ProductLookup, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &service{repo: repo, products: products, ttl: ttl, now: time.Now}
}

func (s *service) Get(ctx context.Context, sessionID uuid.UUID) (*Cart, error) {
	c, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &Cart{}, nil
	}
	return c, nil
}

func (s *service) save(ctx context.Context, sessionID uuid.UUID, c *Cart) error {
	return s.repo.Save(ctx, sessionID, c, s.now().Add(s.ttl))
}

func (s *service) AddItem(ctx context.Context, sessionID uuid.UUID, productID string, quantity int) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("product_id", productID),
	)

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		log.Error("product lookup failed", zap.Error(err))
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if !p.Available {
		return nil, ErrProductUnavailable
	}

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.AddItem(ProductRef{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL}, quantity)
	if err := s.save(ctx, sessionID, c); err != nil {
		log.Error("save cart failed", zap.Error(err))
		return nil, err
	}

	log.Debug("item added", zap.Int("quantity", quantity), zap.Int("total_items", c.TotalItems()))
	return c, nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, sessionID uuid.UUID, productID string, quantity int) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.UpdateItemQuantity(productID, quantity)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID uuid.UUID, productID string) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Clear(ctx context.Context, sessionID uuid.UUID) error {
	return s.repo.Delete(ctx, sessionID)
}

func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.FromCtx(ctx).Info("expired carts purged", zap.Int64("count", n))
	}
	return n, nil
}
