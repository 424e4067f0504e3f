package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func passthrough(h http.Handler) http.Handler { return h }

func newTestMux(repo *MockRepository) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(NewService(repo, nil, nil)).Register(mux, passthrough)
	return mux
}

func TestHandler_ListOrders(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything, ListFilter{Status: StatusPending, Limit: 10, Offset: 0}).
		Return([]Order{{ID: testOrderID, Status: StatusPending}}, nil)

	w := httptest.NewRecorder()
	newTestMux(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=pending&limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, testOrderID.String(), body[0]["id"])
	_, leaked := body[0]["IdempotencyKey"]
	assert.False(t, leaked)
}

func TestHandler_GetOrder(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, testOrderID).Return(&Order{ID: testOrderID, Status: StatusApproved}, nil)

		w := httptest.NewRecorder()
		newTestMux(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders/"+testOrderID.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"approved"`)
	})

	t.Run("Bad id", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestMux(new(MockRepository)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders/123", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, testOrderID).Return(nil, ErrOrderNotFound)

		w := httptest.NewRecorder()
		newTestMux(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders/"+testOrderID.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"order not found"}`, w.Body.String())
	})

	t.Run("Store error", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, testOrderID).Return(nil, errors.New("db down"))

		w := httptest.NewRecorder()
		newTestMux(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders/"+testOrderID.String(), nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
