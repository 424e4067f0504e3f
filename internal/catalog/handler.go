package catalog

import (
	"errors"
	"net/http"

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

func (h *Handler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{slug}", h.GetProduct)
	mux.HandleFunc("GET /api/categories", h.ListCategories)

	mux.Handle("GET /api/admin/products", admin(http.HandlerFunc(h.AdminListProducts)))
	mux.Handle("POST /api/admin/products", admin(http.HandlerFunc(h.CreateProduct)))
	mux.Handle("PUT /api/admin/products/{id}", admin(http.HandlerFunc(h.UpdateProduct)))
	mux.Handle("DELETE /api/admin/products/{id}", admin(http.HandlerFunc(h.DeleteProduct)))
}

// ListProducts serves GET /api/products?category=&subcategory=. Unknown
// categories yield an empty list.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		products []Product
		err      error
	)
	switch {
	case q.Get("subcategory") != "":
		products, err = h.svc.ListBySubcategory(ctx, Subcategory(q.Get("subcategory")))
	case q.Get("category") != "":
		products, err = h.svc.ListByCategory(ctx, Category(q.Get("category")))
	case q.Get("featured") == "true":
		products, err = h.svc.ListFeatured(ctx, utils.QueryInt(r, "limit", 0))
	default:
		products, err = h.svc.ListAll(ctx)
	}
	if err != nil {
		logger.FromCtx(ctx).Error("list products failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to load products", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		logger.FromCtx(r.Context()).Error("get product failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}
	if p == nil {
		utils.WriteJSONError(w, ErrProductNotFound.Error(), http.StatusNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, Tree())
}

func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListAll(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "failed to load products", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), input)
	if err != nil {
		writeWriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		writeWriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeWriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeWriteError(w http.ResponseWriter, err error) {
	if ve, ok := utils.IsValidationError(err); ok {
		utils.WriteError(w, http.StatusBadRequest, "invalid product", ve.Details)
		return
	}
	switch {
	case errors.Is(err, ErrProductNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrSlugTaken):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	default:
		utils.WriteJSONError(w, "failed to save product", http.StatusInternalServerError)
	}
}
