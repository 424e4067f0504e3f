package graph

import (
	"context"

	"paulapastas-be/internal/cart"
	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/transport"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cartSession reads the session cookie. Mutations pass issue=true, which
// creates a session when there is none and refreshes the cookie either way.
func (r *Resolver) cartSession(ctx context.Context, issue bool) (uuid.UUID, bool) {
	id, ok := cart.SessionFromRequest(transport.GetRequest(ctx))
	if !issue {
		return id, ok
	}
	if !ok {
		id = uuid.New()
	}
	transport.SetCookie(ctx, cart.NewSessionCookie(id, r.CartTTL, r.SecureCookies))
	return id, true
}

// Cart is the resolver for the cart field. A visitor without a session gets
// an empty cart and no cookie.
func (r *queryResolver) Cart(ctx context.Context) (*model.Cart, error) {
	id, ok := r.cartSession(ctx, false)
	if !ok {
		return MapCartToGraphQL(nil), nil
	}

	c, err := r.CartSvc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return MapCartToGraphQL(c), nil
}

func (r *mutationResolver) AddToCart(ctx context.Context, productID string, quantity int) (*model.Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)

	id, _ := r.cartSession(ctx, true)
	c, err := r.CartSvc.AddItem(ctx, id, productID, quantity)
	if err != nil {
		log.Warn("failed to add item to cart", zap.Error(err))
		return nil, err
	}

	log.Debug("cart item added", zap.Int("total_items", c.TotalItems()))
	return MapCartToGraphQL(c), nil
}

func (r *mutationResolver) UpdateCartItem(ctx context.Context, productID string, quantity int) (*model.Cart, error) {
	id, _ := r.cartSession(ctx, true)
	c, err := r.CartSvc.UpdateItemQuantity(ctx, id, productID, quantity)
	if err != nil {
		return nil, err
	}
	return MapCartToGraphQL(c), nil
}

func (r *mutationResolver) RemoveFromCart(ctx context.Context, productID string) (*model.Cart, error) {
	id, _ := r.cartSession(ctx, true)
	c, err := r.CartSvc.RemoveItem(ctx, id, productID)
	if err != nil {
		return nil, err
	}
	return MapCartToGraphQL(c), nil
}

func (r *mutationResolver) ClearCart(ctx context.Context) (*model.Cart, error) {
	if id, ok := r.cartSession(ctx, false); ok {
		if err := r.CartSvc.Clear(ctx, id); err != nil {
			return nil, err
		}
	}
	return MapCartToGraphQL(nil), nil
}
