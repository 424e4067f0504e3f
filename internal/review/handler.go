package review

import (
	"errors"
	"net/http"
	"strconv"

	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the review routes. authed guards customer writes and
// admin guards moderation.
func (h *Handler) Register(mux *http.ServeMux, authed, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/reviews", h.List)
	mux.Handle("POST /api/reviews", authed(http.HandlerFunc(h.Create)))

	mux.Handle("GET /api/admin/reviews", admin(http.HandlerFunc(h.AdminList)))
	mux.Handle("PATCH /api/admin/reviews/{id}", admin(http.HandlerFunc(h.Moderate)))
	mux.Handle("DELETE /api/admin/reviews/{id}", admin(http.HandlerFunc(h.Delete)))
}

// List serves GET /api/reviews?productId=&featured=true&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reviews, err := h.svc.ListPublic(r.Context(), q.Get("productId"), q.Get("featured") == "true",
		utils.QueryInt(r, "limit", 0))
	if err != nil {
		logger.FromCtx(r.Context()).Error("list reviews failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to load reviews", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reviews)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var input CreateInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rev, err := h.svc.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, rev)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListAll(r.Context(), utils.QueryInt(r, "limit", 0))
	if err != nil {
		utils.WriteJSONError(w, "failed to load reviews", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reviews)
}

func (h *Handler) Moderate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.WriteJSONError(w, "invalid id", http.StatusBadRequest)
		return
	}

	var input ModerateInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rev, err := h.svc.Moderate(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rev)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.WriteJSONError(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	if ve, ok := utils.IsValidationError(err); ok {
		utils.WriteError(w, http.StatusBadRequest, "invalid review", ve.Details)
		return
	}
	switch {
	case errors.Is(err, ErrNothingToChange):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrReviewNotFound), errors.Is(err, ErrProductNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	default:
		utils.WriteJSONError(w, "failed to save review", http.StatusInternalServerError)
	}
}
