package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func passthrough(h http.Handler) http.Handler { return h }

func newTestMux(repo *MockRepository) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(NewService(repo, nil)).Register(mux, passthrough)
	return mux
}

func TestHandler_ListProducts(t *testing.T) {
	t.Run("By category", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("List", mock.Anything, ListFilter{Category: CategorySalsas}).
			Return([]Product{{ID: "salsa-bolognesa", Price: decimal.NewFromInt(1800)}}, nil)

		w := httptest.NewRecorder()
		newTestMux(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products?category=salsas", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "salsa-bolognesa", body[0]["id"])
	})

	t.Run("Unknown category renders empty list", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestMux(new(MockRepository)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products?category=pizzas", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Repo failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("List", mock.Anything, ListFilter{}).Return(nil, errors.New("db down"))

		w := httptest.NewRecorder()
		newTestMux(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandler_GetProduct(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetBySlug", mock.Anything, "ravioles-de-carne").Return(&Product{ID: "ravioles-de-carne", Name: "Ravioles de carne"}, nil)
	repo.On("GetBySlug", mock.Anything, "ghost").Return(nil, nil)
	mux := newTestMux(repo)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/ravioles-de-carne", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ravioles de carne")

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"product not found"}`, w.Body.String())
}

func TestHandler_ListCategories(t *testing.T) {
	w := httptest.NewRecorder()
	newTestMux(new(MockRepository)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body []CategoryInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, len(categories))
}

func TestHandler_AdminWrites(t *testing.T) {
	t.Run("Create validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(`{"name":"","category":"salsas","price":"10"}`))
		newTestMux(new(MockRepository)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "name is required")
	})

	t.Run("Create malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(`{`))
		newTestMux(new(MockRepository)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create conflict", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(ErrSlugTaken)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/products",
			strings.NewReader(`{"name":"Salsa Pomodoro","category":"salsas","subcategory":"salsas-rojas","price":"1500"}`))
		newTestMux(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Delete missing", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Delete", mock.Anything, "ghost").Return(ErrProductNotFound)

		w := httptest.NewRecorder()
		newTestMux(repo).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/products/ghost", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete ok", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Delete", mock.Anything, "salsa-pomodoro").Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/salsa-pomodoro", nil).WithContext(context.Background())
		newTestMux(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
