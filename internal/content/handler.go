package content

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

func (h *Handler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/home", h.Home)
	mux.HandleFunc("GET /api/banners", h.ListBanners)
	mux.HandleFunc("GET /api/blog", h.ListPosts)
	mux.HandleFunc("GET /api/blog/{slug}", h.GetPost)

	mux.Handle("GET /api/admin/banners", admin(http.HandlerFunc(h.AdminListBanners)))
	mux.Handle("POST /api/admin/banners", admin(http.HandlerFunc(h.CreateBanner)))
	mux.Handle("PUT /api/admin/banners/{id}", admin(http.HandlerFunc(h.UpdateBanner)))
	mux.Handle("DELETE /api/admin/banners/{id}", admin(http.HandlerFunc(h.DeleteBanner)))

	mux.Handle("GET /api/admin/sections", admin(http.HandlerFunc(h.AdminListSections)))
	mux.Handle("POST /api/admin/sections", admin(http.HandlerFunc(h.CreateSection)))
	mux.Handle("PUT /api/admin/sections/{id}", admin(http.HandlerFunc(h.UpdateSection)))
	mux.Handle("DELETE /api/admin/sections/{id}", admin(http.HandlerFunc(h.DeleteSection)))

	mux.Handle("GET /api/admin/blog", admin(http.HandlerFunc(h.AdminListPosts)))
	mux.Handle("POST /api/admin/blog", admin(http.HandlerFunc(h.CreatePost)))
	mux.Handle("PUT /api/admin/blog/{id}", admin(http.HandlerFunc(h.UpdatePost)))
	mux.Handle("DELETE /api/admin/blog/{id}", admin(http.HandlerFunc(h.DeletePost)))
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.svc.Home(r.Context())
	if err != nil {
		logger.FromCtx(r.Context()).Error("load home failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to load home", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, home)
}

// ListBanners serves GET /api/banners?page=. Without page, every active
// banner is returned.
func (h *Handler) ListBanners(w http.ResponseWriter, r *http.Request) {
	h.listBanners(w, r, false)
}

func (h *Handler) AdminListBanners(w http.ResponseWriter, r *http.Request) {
	h.listBanners(w, r, true)
}

func (h *Handler) listBanners(w http.ResponseWriter, r *http.Request, includeInactive bool) {
	banners, err := h.svc.ListBanners(r.Context(), r.URL.Query().Get("page"), includeInactive)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list banners failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to load banners", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, banners)
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, true)
}

func (h *Handler) AdminListPosts(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, false)
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	posts, err := h.svc.ListPosts(r.Context(), publishedOnly, utils.QueryInt(r, "limit", 0))
	if err != nil {
		logger.FromCtx(r.Context()).Error("list posts failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to load posts", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, posts)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPost(r.Context(), r.PathValue("slug"), true)
	if err != nil {
		logger.FromCtx(r.Context()).Error("get post failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to load post", http.StatusInternalServerError)
		return
	}
	if p == nil {
		utils.WriteJSONError(w, ErrPostNotFound.Error(), http.StatusNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) AdminListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.svc.ListSections(r.Context(), true)
	if err != nil {
		utils.WriteJSONError(w, "failed to load sections", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sections)
}

func (h *Handler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var input BannerInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.svc.CreateBanner(r.Context(), input)
	if err != nil {
		writeWriteError(w, "invalid banner", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input BannerInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.svc.UpdateBanner(r.Context(), id, input)
	if err != nil {
		writeWriteError(w, "invalid banner", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteBanner(r.Context(), id); err != nil {
		writeWriteError(w, "invalid banner", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var input SectionInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := h.svc.CreateSection(r.Context(), input)
	if err != nil {
		writeWriteError(w, "invalid section", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, s)
}

func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input SectionInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := h.svc.UpdateSection(r.Context(), id, input)
	if err != nil {
		writeWriteError(w, "invalid section", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteSection(r.Context(), id); err != nil {
		writeWriteError(w, "invalid section", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input PostInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.svc.CreatePost(r.Context(), input)
	if err != nil {
		writeWriteError(w, "invalid post", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input PostInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.svc.UpdatePost(r.Context(), id, input)
	if err != nil {
		writeWriteError(w, "invalid post", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePost(r.Context(), id); err != nil {
		writeWriteError(w, "invalid post", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.WriteJSONError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeWriteError(w http.ResponseWriter, invalidMsg string, err error) {
	if ve, ok := utils.IsValidationError(err); ok {
		utils.WriteError(w, http.StatusBadRequest, invalidMsg, ve.Details)
		return
	}
	switch {
	case errors.Is(err, ErrBannerNotFound), errors.Is(err, ErrSectionNotFound), errors.Is(err, ErrPostNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrSlugTaken):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	default:
		utils.WriteJSONError(w, "failed to save content", http.StatusInternalServerError)
	}
}
