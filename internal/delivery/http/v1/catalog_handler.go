package v1

import (
	"net/http"
	"strings"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/utils"
)

type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

func productFilter(r *http.Request) domain.ProductFilter {
	query := r.URL.Query()
	page, limit := pageParams(r)
	return domain.ProductFilter{
		Search:    strings.TrimSpace(query.Get("q")),
		AnimeName: strings.TrimSpace(query.Get("anime")),
		Sort:      query.Get("sort"),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}
}

// GET /api/v1/products?q=&anime=&sort=&page=&limit=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogUC.ListProducts(r.Context(), productFilter(r))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

// GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUC.GetProduct(r.Context(), r.PathValue("id"), false)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// GET /api/v1/products/top-selling
func (h *CatalogHandler) TopSelling(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogUC.TopSelling(r.Context())
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=60")
	utils.WriteJSON(w, http.StatusOK, products)
}

// GET /api/v1/anime
func (h *CatalogHandler) AnimeNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.catalogUC.AnimeNames(r.Context())
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	utils.WriteJSON(w, http.StatusOK, names)
}

// GET /api/v1/products/{id}/reviews
func (h *CatalogHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.catalogUC.GetProductReviews(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reviews)
}

// POST /api/v1/products/{id}/reviews
func (h *CatalogHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req usecase.ReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	review, err := h.catalogUC.AddReview(r.Context(), user, r.PathValue("id"), req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, review)
}
