package v1

import (
	"net/http"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/utils"
)

type ProfileHandler struct {
	profileUC *usecase.ProfileUsecase
	orderUC   *usecase.OrderUsecase
}

func NewProfileHandler(profileUC *usecase.ProfileUsecase, orderUC *usecase.OrderUsecase) *ProfileHandler {
	return &ProfileHandler{profileUC: profileUC, orderUC: orderUC}
}

// GET /api/v1/me
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	me, err := h.profileUC.GetMe(r.Context(), user)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, me)
}

// GET /api/v1/me/admin
func (h *ProfileHandler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"isAdmin": user.IsAdmin()})
}

// GET /api/v1/me/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	profile, err := h.profileUC.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// PUT /api/v1/me/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req usecase.UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	profile, err := h.profileUC.UpdateProfile(r.Context(), user.ID, req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// PUT /api/v1/me/address
func (h *ProfileHandler) UpdateDefaultAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req domain.DefaultAddress
	if !decodeBody(w, r, &req) {
		return
	}
	profile, err := h.profileUC.UpdateDefaultAddress(r.Context(), user.ID, req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// GET /api/v1/me/orders
func (h *ProfileHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	orders, err := h.orderUC.GetMyOrderSummary(r.Context(), user.ID)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

// GET /api/v1/me/can-delete
func (h *ProfileHandler) CanDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	can, err := h.profileUC.CanDeleteAccount(r.Context(), user.ID)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"canDelete": can})
}

// DELETE /api/v1/me
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.profileUC.DeleteAccount(r.Context(), user.ID); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
