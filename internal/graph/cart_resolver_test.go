package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paulapastas-be/internal/cart"
	"paulapastas-be/internal/transport"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func httpContext(cookies ...*http.Cookie) (context.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, Endpoint, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	return transport.WithHTTP(req.Context(), req, w), w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cart.SessionCookie {
			return c
		}
	}
	return nil
}

func cartWithRavioles() *cart.Cart {
	return &cart.Cart{Items: []cart.Item{{
		ProductID: "ravioles-de-carne",
		Name:      "Ravioles de carne",
		Price:     decimal.NewFromInt(2500),
		Quantity:  2,
	}}}
}

func TestQueryResolver_Cart(t *testing.T) {
	t.Run("No session yields an empty cart without a cookie", func(t *testing.T) {
		svc := new(MockCartService)
		qr := &queryResolver{&Resolver{CartSvc: svc}}
		ctx, w := httpContext()

		res, err := qr.Cart(ctx)

		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.Equal(t, 0, res.TotalItems)
		assert.True(t, res.TotalPrice.Decimal().IsZero())
		assert.Nil(t, sessionCookie(t, w))
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Existing session", func(t *testing.T) {
		svc := new(MockCartService)
		qr := &queryResolver{&Resolver{CartSvc: svc}}
		id := uuid.New()
		ctx, _ := httpContext(&http.Cookie{Name: cart.SessionCookie, Value: id.String()})
		svc.On("Get", ctx, id).Return(cartWithRavioles(), nil)

		res, err := qr.Cart(ctx)

		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, 2, res.TotalItems)
		assert.Equal(t, "5000", res.TotalPrice.Decimal().String())
		assert.Equal(t, "5000", res.Items[0].Subtotal.Decimal().String())
	})
}

func TestMutationResolver_AddToCart(t *testing.T) {
	t.Run("Issues a session for a new visitor", func(t *testing.T) {
		svc := new(MockCartService)
		mr := &mutationResolver{&Resolver{CartSvc: svc, CartTTL: 24 * time.Hour}}
		ctx, w := httpContext()

		var used uuid.UUID
		svc.On("AddItem", ctx, mock.Anything, "ravioles-de-carne", 2).
			Run(func(args mock.Arguments) { used = args.Get(1).(uuid.UUID) }).
			Return(cartWithRavioles(), nil)

		res, err := mr.AddToCart(ctx, "ravioles-de-carne", 2)

		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalItems)
		c := sessionCookie(t, w)
		require.NotNil(t, c)
		assert.Equal(t, used.String(), c.Value)
		assert.Equal(t, int((24 * time.Hour).Seconds()), c.MaxAge)
		assert.True(t, c.HttpOnly)
	})

	t.Run("Reuses and refreshes an existing session", func(t *testing.T) {
		svc := new(MockCartService)
		mr := &mutationResolver{&Resolver{CartSvc: svc}}
		id := uuid.New()
		ctx, w := httpContext(&http.Cookie{Name: cart.SessionCookie, Value: id.String()})
		svc.On("AddItem", ctx, id, "ravioles-de-carne", 1).Return(cartWithRavioles(), nil)

		_, err := mr.AddToCart(ctx, "ravioles-de-carne", 1)

		require.NoError(t, err)
		c := sessionCookie(t, w)
		require.NotNil(t, c)
		assert.Equal(t, id.String(), c.Value)
		assert.Equal(t, int(cart.DefaultTTL.Seconds()), c.MaxAge)
	})

	t.Run("Unavailable product", func(t *testing.T) {
		svc := new(MockCartService)
		mr := &mutationResolver{&Resolver{CartSvc: svc}}
		ctx, _ := httpContext()
		svc.On("AddItem", ctx, mock.Anything, "agotado", 1).Return(nil, cart.ErrProductUnavailable)

		res, err := mr.AddToCart(ctx, "agotado", 1)

		assert.ErrorIs(t, err, cart.ErrProductUnavailable)
		assert.Nil(t, res)
		assert.Equal(t, CodeConflict, PresentError(ctx, err).Extensions["code"])
	})
}

func TestMutationResolver_UpdateAndRemove(t *testing.T) {
	svc := new(MockCartService)
	mr := &mutationResolver{&Resolver{CartSvc: svc}}
	id := uuid.New()
	ctx, _ := httpContext(&http.Cookie{Name: cart.SessionCookie, Value: id.String()})

	svc.On("UpdateItemQuantity", ctx, id, "ravioles-de-carne", 0).Return(&cart.Cart{}, nil)
	svc.On("RemoveItem", ctx, id, "ravioles-de-carne").Return(&cart.Cart{}, nil)

	updated, err := mr.UpdateCartItem(ctx, "ravioles-de-carne", 0)
	require.NoError(t, err)
	assert.Empty(t, updated.Items)

	removed, err := mr.RemoveFromCart(ctx, "ravioles-de-carne")
	require.NoError(t, err)
	assert.Empty(t, removed.Items)
	svc.AssertExpectations(t)
}

func TestMutationResolver_ClearCart(t *testing.T) {
	t.Run("Without a session nothing is cleared", func(t *testing.T) {
		svc := new(MockCartService)
		mr := &mutationResolver{&Resolver{CartSvc: svc}}
		ctx, _ := httpContext()

		res, err := mr.ClearCart(ctx)

		require.NoError(t, err)
		assert.Empty(t, res.Items)
		svc.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	})

	t.Run("With a session", func(t *testing.T) {
		svc := new(MockCartService)
		mr := &mutationResolver{&Resolver{CartSvc: svc}}
		id := uuid.New()
		ctx, _ := httpContext(&http.Cookie{Name: cart.SessionCookie, Value: id.String()})
		svc.On("Clear", ctx, id).Return(nil)

		_, err := mr.ClearCart(ctx)

		require.NoError(t, err)
		svc.AssertExpectations(t)
	})
}
