package graph

import (
	"context"
	"net/http"
	"testing"
	"time"

	"paulapastas-be/internal/auth"
	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/user"
	"paulapastas-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accessCookie(cookies []*http.Cookie) *http.Cookie {
	for _, c := range cookies {
		if c.Name == auth.AccessTokenCookie {
			return c
		}
	}
	return nil
}

func TestMutationResolver_Login(t *testing.T) {
	t.Run("Success sets the access cookie", func(t *testing.T) {
		svc := new(MockUserService)
		mr := &mutationResolver{&Resolver{UserSvc: svc, SessionTTL: time.Hour}}
		ctx, w := httpContext()

		svc.On("Login", ctx, user.LoginInput{Email: "ana@example.com", Password: "secret123"}).
			Return(&user.Session{Token: "jwt-token", User: user.User{ID: 7, Email: "ana@example.com", Role: user.RoleUser}}, nil)

		res, err := mr.Login(ctx, model.LoginInput{Email: "ana@example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, "jwt-token", res.Token)
		assert.Equal(t, "7", res.User.ID)
		assert.Equal(t, model.RoleUser, res.User.Role)

		c := accessCookie(w.Result().Cookies())
		require.NotNil(t, c)
		assert.Equal(t, "jwt-token", c.Value)
		assert.Equal(t, 3600, c.MaxAge)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		svc := new(MockUserService)
		mr := &mutationResolver{&Resolver{UserSvc: svc}}
		ctx, w := httpContext()
		svc.On("Login", ctx, user.LoginInput{Email: "ana@example.com", Password: "nope"}).
			Return(nil, user.ErrInvalidCredentials)

		res, err := mr.Login(ctx, model.LoginInput{Email: "ana@example.com", Password: "nope"})

		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
		assert.Nil(t, res)
		assert.Nil(t, accessCookie(w.Result().Cookies()))
	})
}

func TestMutationResolver_Register(t *testing.T) {
	svc := new(MockUserService)
	mr := &mutationResolver{&Resolver{UserSvc: svc, SessionTTL: time.Hour}}
	ctx, w := httpContext()
	input := user.RegisterInput{Email: "ana@example.com", Password: "secret123", Name: "Ana"}
	svc.On("Register", ctx, input).
		Return(&user.Session{Token: "jwt-token", User: user.User{ID: 8, Email: input.Email, Name: "Ana", Role: user.RoleUser}}, nil)

	res, err := mr.Register(ctx, model.RegisterInput{Email: input.Email, Password: input.Password, Name: input.Name})

	require.NoError(t, err)
	assert.Equal(t, "Ana", res.User.Name)
	assert.NotNil(t, accessCookie(w.Result().Cookies()))
}

func TestMutationResolver_Logout(t *testing.T) {
	mr := &mutationResolver{&Resolver{}}
	ctx, w := httpContext(&http.Cookie{Name: auth.AccessTokenCookie, Value: "stale"})

	ok, err := mr.Logout(ctx)

	require.NoError(t, err)
	assert.True(t, ok)
	c := accessCookie(w.Result().Cookies())
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestQueryResolver_Me(t *testing.T) {
	t.Run("Anonymous", func(t *testing.T) {
		qr := &queryResolver{&Resolver{UserSvc: new(MockUserService)}}

		_, err := qr.Me(context.Background())

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("Authenticated", func(t *testing.T) {
		svc := new(MockUserService)
		qr := &queryResolver{&Resolver{UserSvc: svc}}
		ctx := utils.SetUserContext(context.Background(), 7, "ana@example.com", "USER")
		svc.On("Me", ctx, uint(7)).Return(&user.User{ID: 7, Email: "ana@example.com", Name: "Ana", Role: user.RoleUser}, nil)

		res, err := qr.Me(ctx)

		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", res.Email)
	})
}
