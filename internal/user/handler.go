package user

import (
	"errors"
	"net/http"
	"time"

	"paulapastas-be/internal/auth"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

type Handler struct {
	svc          Service
	cookieTTL    time.Duration
	secureCookie bool
}

func NewHandler(svc Service, cookieTTL time.Duration, secureCookie bool) *Handler {
	return &Handler{svc: svc, cookieTTL: cookieTTL, secureCookie: secureCookie}
}

func (h *Handler) Register(mux *http.ServeMux, authed func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/auth/register", h.SignUp)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.Handle("GET /api/me", authed(http.HandlerFunc(h.Me)))
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := h.svc.Register(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setCookie(w, sess.Token, h.cookieTTL)
	utils.WriteJSON(w, http.StatusCreated, sess)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := h.svc.Login(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setCookie(w, sess.Token, h.cookieTTL)
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setCookie(w, "", -time.Second)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	u, err := h.svc.Me(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) setCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, auth.AccessCookie(token, ttl, h.secureCookie))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := utils.IsValidationError(err); ok {
		utils.WriteError(w, http.StatusBadRequest, "invalid request", ve.Details)
		return
	}
	switch {
	case errors.Is(err, ErrEmailExists):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidCredentials):
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrUserNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	default:
		logger.FromCtx(r.Context()).Error("user request failed", zap.Error(err))
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
