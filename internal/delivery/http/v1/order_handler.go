package v1

import (
	"net/http"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/utils"
)

type OrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUC: uc}
}

// PlaceOrder creates a pending order and returns it with the handoff links.
// Guests may order; a token, when present, links the order to the user.
// POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req usecase.PlaceOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var userID *string
	if user := domain.UserFromContext(r.Context()); user != nil {
		userID = &user.ID
	}

	res, err := h.orderUC.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, res)
}

// GET /api/v1/orders
func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	orders, err := h.orderUC.GetMyOrders(r.Context(), user.ID)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{id}/handoff
func (h *OrderHandler) GetHandoff(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	handoff, err := h.orderUC.Handoff(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, handoff)
}
