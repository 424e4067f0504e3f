package review

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/middleware"
	"paulapastas-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func passthrough(h http.Handler) http.Handler { return h }

func newTestMux(repo *MockRepository, products *MockProducts) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(NewService(repo, products)).Register(mux, middleware.RequireAuth, passthrough)
	return mux
}

func TestHandler_List(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything, ListFilter{ProductID: "sorrentinos", FeaturedOnly: true}).
		Return([]Review{{ID: 1, AuthorName: "Marta", Rating: 5, Approved: true}}, nil)

	w := httptest.NewRecorder()
	newTestMux(repo, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reviews?productId=sorrentinos&featured=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authorName":"Marta"`)
	assert.NotContains(t, w.Body.String(), "userId")
}

func TestHandler_Create(t *testing.T) {
	body := `{"productId":"sorrentinos","authorName":"Marta","rating":4,"text":"Muy buenos"}`

	t.Run("Anonymous is rejected", func(t *testing.T) {
		repo := new(MockRepository)
		w := httptest.NewRecorder()
		newTestMux(repo, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Authenticated", func(t *testing.T) {
		repo, products := new(MockRepository), new(MockProducts)
		products.On("GetByID", mock.Anything, "sorrentinos").Return(&catalog.Product{ID: "sorrentinos"}, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*review.Review")).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
		req = req.WithContext(utils.SetUserContext(req.Context(), 7, "marta@example.com", "USER"))
		w := httptest.NewRecorder()
		newTestMux(repo, products).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"approved":false`)
	})

	t.Run("Invalid rating", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{"authorName":"Marta","rating":0,"text":"x"}`))
		req = req.WithContext(utils.SetUserContext(req.Context(), 7, "marta@example.com", "USER"))
		w := httptest.NewRecorder()
		newTestMux(new(MockRepository), nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "rating is required")
	})
}

func TestHandler_Moderate(t *testing.T) {
	repo := new(MockRepository)
	approved := true
	repo.On("Moderate", mock.Anything, int64(3), ModerateInput{Approved: &approved}).
		Return(&Review{ID: 3, Approved: true}, nil)
	repo.On("Moderate", mock.Anything, int64(4), mock.Anything).Return(nil, ErrReviewNotFound)
	mux := newTestMux(repo, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/admin/reviews/3", strings.NewReader(`{"approved":true}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/admin/reviews/4", strings.NewReader(`{"featured":true}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/admin/reviews/3", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Delete(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Delete", mock.Anything, int64(3)).Return(nil)

	w := httptest.NewRecorder()
	newTestMux(repo, nil).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/reviews/3", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
