package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paulapastas-be/internal/payment"
	"paulapastas-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreatePreference(ctx context.Context, req Request, idemKey string) (*payment.Preference, error) {
	args := m.Called(ctx, req, idemKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Preference), args.Error(1)
}

func serve(svc Service, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	NewHandler(svc).Register(mux)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

const checkoutBody = `{
	"items": [{"productId": "ravioles-de-carne", "quantity": 2, "price": 1}],
	"buyer": {"name": "Paula", "email": "paula@example.com", "phone": "1155550000"},
	"deliveryOption": "pickup"
}`

func TestHandler_CreatePreference(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreatePreference", mock.Anything, mock.MatchedBy(func(r Request) bool {
			return len(r.Items) == 1 && r.Items[0].Quantity == 2
		}), "key-1").Return(testPreference("7b0c"), nil)

		req := httptest.NewRequest(http.MethodPost, "/api/checkout/create-preference", strings.NewReader(checkoutBody))
		req.Header.Set(IdempotencyHeader, " key-1 ")
		w := serve(svc, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "pref-123", body["id"])
		assert.Equal(t, "7b0c", body["externalReference"])
		assert.NotEmpty(t, body["initPoint"])
		assert.NotEmpty(t, body["sandboxInitPoint"])
	})

	t.Run("Validation error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreatePreference", mock.Anything, mock.Anything, "").
			Return(nil, utils.NewValidationError("items is required"))

		req := httptest.NewRequest(http.MethodPost, "/api/checkout/create-preference", strings.NewReader(`{"items":[]}`))
		w := serve(svc, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid checkout request","details":["items is required"]}`, w.Body.String())
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		svc := new(MockService)
		req := httptest.NewRequest(http.MethodPost, "/api/checkout/create-preference", strings.NewReader(`{"items":`))
		w := serve(svc, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreatePreference", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Provider failure carries details", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreatePreference", mock.Anything, mock.Anything, "").
			Return(nil, fmt.Errorf("%w: mercadopago: status 400: invalid payer", ErrPreferenceFailed))

		req := httptest.NewRequest(http.MethodPost, "/api/checkout/create-preference", strings.NewReader(checkoutBody))
		w := serve(svc, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var body utils.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, ErrPreferenceFailed.Error(), body.Error)
		assert.Contains(t, body.Details, "invalid payer")
	})

	t.Run("Oversized idempotency key", func(t *testing.T) {
		svc := new(MockService)
		req := httptest.NewRequest(http.MethodPost, "/api/checkout/create-preference", strings.NewReader(checkoutBody))
		req.Header.Set(IdempotencyHeader, strings.Repeat("k", 200))
		w := serve(svc, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Result(t *testing.T) {
	svc := new(MockService)
	req := httptest.NewRequest(http.MethodGet,
		"/api/checkout/result?collection_status=approved&payment_id=991&preference_id=pref-123&external_reference=7b0c", nil)
	w := serve(svc, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"outcome": "success",
		"status": "approved",
		"paymentId": "991",
		"preferenceId": "pref-123",
		"externalReference": "7b0c"
	}`, w.Body.String())
	svc.AssertNotCalled(t, "CreatePreference", mock.Anything, mock.Anything, mock.Anything)
}
