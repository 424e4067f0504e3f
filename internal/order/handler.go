package order

import (
	"errors"
	"net/http"

	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.Handle("GET /api/admin/orders", admin(http.HandlerFunc(h.ListOrders)))
	mux.Handle("GET /api/admin/orders/{id}", admin(http.HandlerFunc(h.GetOrder)))
}

// ListOrders serves GET /api/admin/orders?status=&limit=&offset=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	f := ListFilter{
		Status: Status(r.URL.Query().Get("status")),
		Limit:  utils.QueryInt(r, "limit", defaultListLimit),
		Offset: utils.QueryInt(r, "offset", 0),
	}

	orders, err := h.svc.List(r.Context(), f)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list orders failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to load orders", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, ErrOrderNotFound.Error(), http.StatusNotFound)
		return
	}

	o, err := h.svc.GetByID(r.Context(), id)
	if errors.Is(err, ErrOrderNotFound) {
		utils.WriteJSONError(w, ErrOrderNotFound.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("get order failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to load order", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}
