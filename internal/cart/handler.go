package cart

import (
	"errors"
	"net/http"
	"time"

	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SessionCookie = "cart_session"

type HandlerConfig struct {
	TTL          time.Duration
	SecureCookie bool
}

type Handler struct {
	svc          Service
	ttl          time.Duration
	secureCookie bool
}

func NewHandler(svc Service, cfg HandlerConfig) *Handler {
	return &Handler{svc: svc, ttl: cfg.TTL, secureCookie: cfg.SecureCookie}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)
	mux.HandleFunc("POST /api/cart/items", h.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveItem)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

// SessionFromRequest reads the cart session cookie.
func SessionFromRequest(r *http.Request) (uuid.UUID, bool) {
	if r == nil {
		return uuid.Nil, false
	}
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// NewSessionCookie refreshes the session cookie for another ttl.
func NewSessionCookie(id uuid.UUID, ttl time.Duration, secure bool) *http.Cookie {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ensureSession returns the caller's session, issuing a new cookie if needed.
func (h *Handler) ensureSession(w http.ResponseWriter, r *http.Request) uuid.UUID {
	id, ok := SessionFromRequest(r)
	if !ok {
		id = uuid.New()
	}
	http.SetCookie(w, NewSessionCookie(id, h.ttl, h.secureCookie))
	return id
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := SessionFromRequest(r)
	if !ok {
		utils.WriteJSON(w, http.StatusOK, ToView(nil))
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToView(c))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		utils.WriteError(w, http.StatusBadRequest, "invalid cart item", []string{"productId is required"})
		return
	}

	id := h.ensureSession(w, r)
	c, err := h.svc.AddItem(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToView(c))
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity == nil {
		utils.WriteError(w, http.StatusBadRequest, ErrInvalidQuantity.Error(), []string{"quantity is required"})
		return
	}

	id := h.ensureSession(w, r)
	c, err := h.svc.UpdateItemQuantity(r.Context(), id, r.PathValue("id"), *req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToView(c))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := h.ensureSession(w, r)
	c, err := h.svc.RemoveItem(r.Context(), id, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ToView(c))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if id, ok := SessionFromRequest(r); ok {
		if err := h.svc.Clear(r.Context(), id); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, ToView(nil))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrProductUnavailable):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	default:
		logger.FromCtx(r.Context()).Error("cart operation failed", zap.Error(err))
		utils.WriteJSONError(w, "cart operation failed", http.StatusInternalServerError)
	}
}
