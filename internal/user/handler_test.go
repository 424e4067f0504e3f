package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paulapastas-be/internal/auth"
	"paulapastas-be/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestMux(repo *MockRepository) *http.ServeMux {
	mux := http.NewServeMux()
	h := NewHandler(NewService(repo, testTokens), time.Hour, false)
	h.Register(mux, func(next http.Handler) http.Handler {
		return middleware.AuthMiddleware(testTokens)(middleware.RequireAuth(next))
	})
	return mux
}

func accessCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.AccessTokenCookie {
			return c
		}
	}
	return nil
}

func TestHandler_SignUpAndMe(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*User).ID = 5 }).
		Return(nil)
	repo.On("FindByID", mock.Anything, uint(5)).
		Return(&User{ID: 5, Email: "paula@example.com", Name: "Paula", Role: RoleUser}, nil)
	mux := newTestMux(repo)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"paula@example.com","password":"fideos123","name":"Paula"}`)))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	cookie := accessCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"paula@example.com"`)
}

func TestHandler_Me_Anonymous(t *testing.T) {
	w := httptest.NewRecorder()
	newTestMux(new(MockRepository)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Login(t *testing.T) {
	hash, err := HashPassword("fideos123")
	require.NoError(t, err)
	repo := new(MockRepository)
	repo.On("FindByEmail", mock.Anything, "paula@example.com").
		Return(&User{ID: 5, Email: "paula@example.com", Password: hash, Role: RoleUser}, nil)
	mux := newTestMux(repo)

	t.Run("Cookie carries a valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"paula@example.com","password":"fideos123"}`)))
		require.Equal(t, http.StatusOK, w.Code)

		sess := accessCookie(w)
		require.NotNil(t, sess)
		claims, err := testTokens.Parse(sess.Value)
		require.NoError(t, err)
		assert.Equal(t, uint(5), claims.UserID)
	})

	t.Run("Bad credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"paula@example.com","password":"wrong"}`)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid email or password"}`, w.Body.String())
	})
}

func TestHandler_SignUp_Conflict(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(ErrEmailExists)

	w := httptest.NewRecorder()
	newTestMux(repo).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"paula@example.com","password":"fideos123","name":"Paula"}`)))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_Logout(t *testing.T) {
	w := httptest.NewRecorder()
	newTestMux(new(MockRepository)).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	c := accessCookie(w)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)
}
