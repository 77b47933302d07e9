package v1

import (
	"net/http"

	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/utils"
)

type AdminCatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
}

func NewAdminCatalogHandler(uc *usecase.CatalogUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: uc}
}

// ListProducts includes inactive products.
// GET /api/v1/admin/products
func (h *AdminCatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := productFilter(r)
	filter.IncludeInactive = true
	if boolParam(r, "active_only") {
		filter.IncludeInactive = false
	}
	products, err := h.catalogUC.ListProducts(r.Context(), filter)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

// GET /api/v1/admin/products/{id}
func (h *AdminCatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUC.GetProduct(r.Context(), r.PathValue("id"), true)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// POST /api/v1/admin/products
func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req usecase.ProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	product, err := h.catalogUC.CreateProduct(r.Context(), req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, product)
}

// PUT /api/v1/admin/products/{id}
func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req usecase.ProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	product, err := h.catalogUC.UpdateProduct(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// PATCH /api/v1/admin/products/{id}/toggle
func (h *AdminCatalogHandler) ToggleProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUC.ToggleProductActive(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// DELETE /api/v1/admin/products/{id}
func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
