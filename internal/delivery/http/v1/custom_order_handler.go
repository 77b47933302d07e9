package v1

import (
	"net/http"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/utils"
)

type CustomOrderHandler struct {
	customOrderUC *usecase.CustomOrderUsecase
}

func NewCustomOrderHandler(uc *usecase.CustomOrderUsecase) *CustomOrderHandler {
	return &CustomOrderHandler{customOrderUC: uc}
}

// POST /api/v1/custom-orders
func (h *CustomOrderHandler) CreateCustomOrder(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateCustomOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var userID *string
	if user := domain.UserFromContext(r.Context()); user != nil {
		userID = &user.ID
	}

	res, err := h.customOrderUC.CreateCustomOrder(r.Context(), userID, req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, res)
}

// GET /api/v1/custom-orders
func (h *CustomOrderHandler) GetMyCustomOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	orders, err := h.customOrderUC.GetMyCustomOrders(r.Context(), user.ID)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}
