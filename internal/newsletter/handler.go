package newsletter

import (
	"net/http"

	"paulapastas-be/internal/utils"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/newsletter", h.Subscribe)
	mux.Handle("GET /api/admin/newsletter", admin(http.HandlerFunc(h.List)))
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var input SubscribeInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Subscribe(r.Context(), input); err != nil {
		if ve, ok := utils.IsValidationError(err); ok {
			utils.WriteError(w, http.StatusBadRequest, "invalid subscription", ve.Details)
			return
		}
		utils.WriteJSONError(w, "failed to subscribe", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "subscribed"})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context(), utils.QueryInt(r, "limit", 0), utils.QueryInt(r, "offset", 0))
	if err != nil {
		utils.WriteJSONError(w, "failed to load subscriptions", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, subs)
}
