package v1

import (
	"net/http"

	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// CouponHandler serves the public coupon check.
type CouponHandler struct {
	couponUC *usecase.CouponUsecase
}

func NewCouponHandler(uc *usecase.CouponUsecase) *CouponHandler {
	return &CouponHandler{couponUC: uc}
}

type validateCouponReq struct {
	Code        string          `json:"code"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
}

// ValidateCoupon checks a code against an order amount. An unusable code is
// still a 200 with valid=false and the reason.
// POST /api/v1/coupons/validate
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponReq
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.couponUC.ValidateCoupon(r.Context(), req.Code, req.OrderAmount)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, usecase.NewValidateCouponResponse(res))
}

// AdminCouponHandler handles admin coupon management endpoints.
type AdminCouponHandler struct {
	couponUC *usecase.CouponUsecase
}

// NewAdminCouponHandler creates a new AdminCouponHandler.
func NewAdminCouponHandler(uc *usecase.CouponUsecase) *AdminCouponHandler {
	return &AdminCouponHandler{couponUC: uc}
}

// ListCoupons returns all coupons, newest first.
// GET /api/v1/admin/coupons
func (h *AdminCouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.couponUC.ListCoupons(r.Context())
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, coupons)
}

// CreateCoupon creates a new coupon.
// POST /api/v1/admin/coupons
func (h *AdminCouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateCouponRequest
	if !decodeBody(w, r, &req) {
		return
	}
	coupon, err := h.couponUC.CreateCoupon(r.Context(), req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, coupon)
}

// GetCoupon returns a single coupon by ID.
// GET /api/v1/admin/coupons/{id}
func (h *AdminCouponHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.couponUC.GetCoupon(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, coupon)
}

// ToggleCoupon flips isActive.
// PATCH /api/v1/admin/coupons/{id}/toggle
func (h *AdminCouponHandler) ToggleCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.couponUC.ToggleCouponActive(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, coupon)
}
