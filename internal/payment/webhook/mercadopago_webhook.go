package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/metrics"
	"paulapastas-be/internal/order"
	"paulapastas-be/internal/payment"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

const (
	topicPayment    = "payment"
	maxPayloadBytes = 1 << 20
)

// PaymentApplier is the slice of the order service the webhook needs.
type PaymentApplier interface {
	ApplyPayment(ctx context.Context, externalRef string, p payment.Payment) (order.Change, error)
}

type Handler struct {
	orders  PaymentApplier
	gateway payment.Gateway
	payRepo payment.Repository
	metrics *metrics.Registry
}

func NewWebhookHandler(
	orders PaymentApplier,
	gateway payment.Gateway,
	payRepo payment.Repository,
	reg *metrics.Registry,
) *Handler {
	return &Handler{
		orders:  orders,
		gateway: gateway,
		payRepo: payRepo,
		metrics: reg,
	}
}

func (h *Handler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/webhooks/mercadopago", h.MercadoPagoWebhookHandler)
	mux.Handle("GET /api/admin/webhooks/failed", admin(http.HandlerFunc(h.ListFailed)))
}

type response struct {
	Status  string `json:"status"`
	Applied bool   `json:"applied,omitempty"`
}

// MercadoPagoWebhookHandler receives provider notifications. Only the
// payment id is trusted from the notification; status, amount and reference
// are fetched from the provider before the order is touched.
func (h *Handler) MercadoPagoWebhookHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "webhook"),
		zap.String("provider", payment.ProviderMercadoPago),
	)
	h.metrics.Inc("webhooks_received")

	if err := h.gateway.VerifySignature(r); err != nil {
		h.metrics.Inc("webhooks_invalid_signature")
		log.Warn("webhook signature rejected", zap.Error(err))
		utils.WriteJSONError(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	defer r.Body.Close()
	if err != nil {
		utils.WriteJSONError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	n, payload, err := parseNotification(r, body)
	if errors.Is(err, errIDMismatch) {
		h.metrics.Inc("webhooks_invalid_signature")
		log.Warn("webhook body names a different payment than the signed query", zap.Error(err))
		utils.WriteJSONError(w, "notification id mismatch", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Warn("malformed webhook payload", zap.Error(err))
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	eventID := n.EventID()
	if eventID == "" || (n.Topic == topicPayment && n.DataID == "") {
		utils.WriteJSONError(w, "missing notification id", http.StatusBadRequest)
		return
	}

	delivered := []zap.Field{
		zap.String("event_id", eventID),
		zap.String("topic", n.Topic),
		zap.String("data_id", n.DataID),
	}
	ctx = logger.WithFields(ctx, delivered...)
	log = log.With(delivered...)

	delivery := &payment.Webhook{
		Provider:       payment.ProviderMercadoPago,
		EventID:        eventID,
		EventType:      n.Topic,
		ExternalID:     n.DataID,
		SignatureValid: true,
		Payload:        payload,
	}
	dup, err := h.payRepo.Record(ctx, delivery)
	if err != nil {
		log.Error("failed to record webhook", zap.Bool("retryable", true), zap.Error(err))
		utils.WriteJSONError(w, "failed to record webhook", http.StatusInternalServerError)
		return
	}
	if dup {
		h.metrics.Inc("webhooks_duplicate")
		log.Info("duplicate webhook acknowledged")
		utils.WriteJSON(w, http.StatusOK, response{Status: "duplicate"})
		return
	}

	if n.Topic != topicPayment {
		h.metrics.Inc("webhooks_ignored")
		h.markProcessed(ctx, log, delivery.ID)
		utils.WriteJSON(w, http.StatusOK, response{Status: "ignored"})
		return
	}

	change, err := h.applyPayment(ctx, n.DataID)
	switch {
	case err == nil:
		h.metrics.Inc("webhooks_processed")
		h.markProcessed(ctx, log, delivery.ID)
		log.Info("webhook processed",
			zap.Bool("applied", change.Applied),
			zap.String("status", string(change.To)),
		)
		utils.WriteJSON(w, http.StatusOK, response{Status: "processed", Applied: change.Applied})

	case isRetryable(err):
		h.metrics.Inc("webhooks_retryable")
		log.Warn("webhook processing failed", zap.Bool("retryable", true), zap.Error(err))
		if relErr := h.payRepo.Release(ctx, delivery.ID); relErr != nil {
			log.Error("failed to release webhook", zap.Error(relErr))
		}
		utils.WriteJSONError(w, "temporary failure, retry later", http.StatusInternalServerError)

	default:
		h.metrics.Inc("webhooks_failed")
		log.Error("webhook processing failed", zap.Bool("retryable", false), zap.Error(err))
		if markErr := h.payRepo.MarkFailed(ctx, delivery.ID, err.Error()); markErr != nil {
			log.Error("failed to mark webhook failed", zap.Error(markErr))
		}
		utils.WriteJSON(w, http.StatusOK, response{Status: "failed"})
	}
}

func (h *Handler) applyPayment(ctx context.Context, paymentID string) (order.Change, error) {
	p, err := h.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return order.Change{}, err
	}
	return h.orders.ApplyPayment(ctx, p.ExternalReference, *p)
}

func (h *Handler) markProcessed(ctx context.Context, log *zap.Logger, webhookID int64) {
	if err := h.payRepo.MarkProcessed(ctx, webhookID); err != nil {
		log.Error("failed to mark webhook processed", zap.Error(err))
	}
}

// isRetryable separates failures a provider redelivery can fix from those it
// cannot. Unknown errors (database, network) count as retryable.
func isRetryable(err error) bool {
	if payment.IsRetryable(err) {
		return true
	}
	if order.IsTerminalFailure(err) ||
		errors.Is(err, payment.ErrPaymentNotFound) ||
		errors.Is(err, payment.ErrProviderRejected) {
		return false
	}
	return true
}

func (h *Handler) ListFailed(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.payRepo.ListFailed(r.Context(), utils.QueryInt(r, "limit", 50))
	if err != nil {
		logger.FromCtx(r.Context()).Error("list failed webhooks", zap.Error(err))
		utils.WriteJSONError(w, "failed to load webhooks", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, hooks)
}

var errIDMismatch = errors.New("body data.id does not match query data.id")

// parseNotification accepts both the JSON webhook body and the legacy
// query-only form (?topic=payment&id=...). The returned payload is what gets
// stored. The query id is the one the signature covers, so a body naming a
// different payment is refused.
func parseNotification(r *http.Request, body []byte) (Notification, json.RawMessage, error) {
	var n Notification
	payload := json.RawMessage(`{}`)

	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return n, nil, err
		}
		payload = json.RawMessage(trimmed)
	}

	q := r.URL.Query()
	n.Topic = n.Type
	if n.Topic == "" {
		n.Topic = firstNonEmpty(q.Get("type"), q.Get("topic"))
	}
	bodyID := string(n.Data.ID)
	n.DataID = firstNonEmpty(q.Get("data.id"), q.Get("id"))
	switch {
	case n.DataID == "":
		n.DataID = bodyID
	case bodyID != "" && !strings.EqualFold(bodyID, n.DataID):
		return n, nil, fmt.Errorf("%w: query %q, body %q", errIDMismatch, n.DataID, bodyID)
	}
	return n, payload, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
