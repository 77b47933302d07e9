package v1

import (
	"net/http"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/utils"
)

type AdminOrderHandler struct {
	orderUC       *usecase.OrderUsecase
	customOrderUC *usecase.CustomOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.OrderUsecase, customUC *usecase.CustomOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orderUC: uc, customOrderUC: customUC}
}

// GET /api/v1/admin/orders?status=&page=&limit=
func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	filter := domain.OrderFilter{
		Status: domain.OrderStatus(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	orders, total, err := h.orderUC.GetAllOrders(r.Context(), filter)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    orders,
		Meta:    domain.NewPagination(page, limit, total),
	})
}

// GET /api/v1/admin/orders/{id}
func (h *AdminOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUC.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// PATCH /api/v1/admin/orders/{id}/status
func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.orderUC.UpdateOrderStatus(r.Context(), r.PathValue("id"), req.Status, req.Notes)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// --- Custom frame orders ---

// GET /api/v1/admin/custom-orders
func (h *AdminOrderHandler) ListCustomOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.customOrderUC.GetAllCustomOrders(r.Context())
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

// PATCH /api/v1/admin/custom-orders/{id}/status
func (h *AdminOrderHandler) UpdateCustomOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.customOrderUC.UpdateStatus(r.Context(), r.PathValue("id"), req.Status, req.Notes)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}
