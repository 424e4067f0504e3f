package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestMux(repo *MockRepository, products *MockProducts) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(NewService(repo, products, time.Hour), HandlerConfig{TTL: time.Hour}).Register(mux)
	return mux
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandler_GetCart_NoSession(t *testing.T) {
	w := httptest.NewRecorder()
	newTestMux(new(MockRepository), new(MockProducts)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeView(t, w)
	assert.Equal(t, float64(0), body["totalItems"])
	assert.Empty(t, w.Result().Cookies())
}

func TestHandler_AddItem_IssuesSession(t *testing.T) {
	repo, products := new(MockRepository), new(MockProducts)
	products.On("GetByID", mock.Anything, "ravioles-de-carne").Return(raviolesProduct(), nil)
	repo.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":"ravioles-de-carne","quantity":2}`))
	newTestMux(repo, products).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeView(t, w)
	assert.Equal(t, float64(2), body["totalItems"])
	assert.Equal(t, "5000", body["totalPrice"])

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	_, err := uuid.Parse(cookies[0].Value)
	assert.NoError(t, err)
	assert.True(t, cookies[0].HttpOnly)
}

func TestHandler_AddItem_Errors(t *testing.T) {
	t.Run("Missing product id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"quantity":2}`))
		newTestMux(new(MockRepository), new(MockProducts)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown product", func(t *testing.T) {
		products := new(MockProducts)
		products.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":"ghost"}`))
		newTestMux(new(MockRepository), products).ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_UpdateItem_ReusesSession(t *testing.T) {
	repo := new(MockRepository)
	sessionID := uuid.New()
	existing := &Cart{}
	existing.AddItem(ProductRef{ID: "ravioles-de-carne"}, 2)
	repo.On("Get", mock.Anything, sessionID).Return(existing, nil)
	repo.On("Save", mock.Anything, sessionID, mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/cart/items/ravioles-de-carne", strings.NewReader(`{"quantity":0}`))
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sessionID.String()})
	newTestMux(repo, new(MockProducts)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeView(t, w)["totalItems"])
	assert.Equal(t, sessionID.String(), w.Result().Cookies()[0].Value)
}

func TestHandler_UpdateItem_MissingQuantity(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/cart/items/x", strings.NewReader(`{}`))
	newTestMux(new(MockRepository), new(MockProducts)).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ClearCart(t *testing.T) {
	repo := new(MockRepository)
	sessionID := uuid.New()
	repo.On("Delete", mock.Anything, sessionID).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sessionID.String()})
	newTestMux(repo, new(MockProducts)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}
