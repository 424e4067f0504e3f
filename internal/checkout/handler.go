package checkout

import (
	"errors"
	"net/http"
	"strings"

	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

const IdempotencyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/checkout/create-preference", h.CreatePreference)
	mux.HandleFunc("GET /api/checkout/result", h.Result)
}

func (h *Handler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrInvalidBody.Error(), []string{err.Error()})
		return
	}

	idemKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	if len(idemKey) > maxIdempotencyKeyLen {
		utils.WriteError(w, http.StatusBadRequest, "invalid checkout request",
			[]string{"Idempotency-Key must be at most 128 characters"})
		return
	}

	pref, err := h.svc.CreatePreference(r.Context(), req, idemKey)
	if err != nil {
		if ve, ok := utils.IsValidationError(err); ok {
			utils.WriteError(w, http.StatusBadRequest, "invalid checkout request", ve.Details)
			return
		}

		logger.FromCtx(r.Context()).Error("checkout failed", zap.Error(err))
		msg := ErrOrderFailed.Error()
		if errors.Is(err, ErrPreferenceFailed) {
			msg = ErrPreferenceFailed.Error()
		}
		utils.WriteError(w, http.StatusInternalServerError, msg, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, pref)
}

// Result echoes the redirect parameters as display hints. It never reads or
// changes orders; only the webhook and reconciliation do.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("collection_status")
	if status == "" {
		status = q.Get("status")
	}
	paymentID := q.Get("payment_id")
	if paymentID == "" {
		paymentID = q.Get("collection_id")
	}

	utils.WriteJSON(w, http.StatusOK, Result{
		Outcome:           OutcomeFor(status),
		Status:            status,
		PaymentID:         paymentID,
		PreferenceID:      q.Get("preference_id"),
		ExternalReference: q.Get("external_reference"),
	})
}
