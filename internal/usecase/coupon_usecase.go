package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/metrics"

	"github.com/shopspring/decimal"
)

// CouponUsecase validates coupon codes and manages the coupon lifecycle.
type CouponUsecase struct {
	couponRepo domain.CouponRepository
	now        func() time.Time
}

func NewCouponUsecase(couponRepo domain.CouponRepository) *CouponUsecase {
	return &CouponUsecase{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// CreateCouponRequest represents the input for creating a coupon.
type CreateCouponRequest struct {
	Code          string          `json:"code"`
	DiscountType  string          `json:"discountType"` // "percentage" or "fixed"
	DiscountValue decimal.Decimal `json:"discountValue"`
	ValidFrom     string          `json:"validFrom"`  // ISO8601
	ValidUntil    string          `json:"validUntil"` // ISO8601
	UsageLimit    *int            `json:"usageLimit,omitempty"`
	Description   string          `json:"description,omitempty"`
}

// ValidateCouponResponse is the public shape of a validation.
type ValidateCouponResponse struct {
	Valid          bool             `json:"valid"`
	Code           string           `json:"code,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discountAmount,omitempty"`
	FinalAmount    *decimal.Decimal `json:"finalAmount,omitempty"`
}

func NewValidateCouponResponse(v domain.CouponValidation) ValidateCouponResponse {
	resp := ValidateCouponResponse{Valid: v.Valid, Code: v.Code, Reason: v.Reason}
	if v.Valid {
		resp.DiscountAmount = &v.DiscountAmount
		resp.FinalAmount = &v.FinalAmount
	}
	return resp
}

// ValidateCoupon checks code against amount. It never changes usedCount.
// An unusable code is a normal result, not an error.
func (uc *CouponUsecase) ValidateCoupon(ctx context.Context, code string, amount decimal.Decimal) (domain.CouponValidation, error) {
	if amount.IsNegative() {
		return domain.CouponValidation{}, domain.InvalidInput("order amount must not be negative")
	}
	res, err := evaluateCode(ctx, uc.couponRepo.GetByCode, code, domain.RoundMoney(amount), uc.now())
	if err != nil {
		return domain.CouponValidation{}, err
	}
	recordCouponCheck(ctx, domain.NormalizeCouponCode(code), res)
	return res, nil
}

// evaluateCode looks a code up with get and applies the redemption rules.
func evaluateCode(ctx context.Context, get func(context.Context, string) (*domain.Coupon, error), code string, amount decimal.Decimal, now time.Time) (domain.CouponValidation, error) {
	code = domain.NormalizeCouponCode(code)
	if code == "" {
		return domain.EvaluateCoupon(nil, amount, now), nil
	}
	coupon, err := get(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.CouponValidation{}, fmt.Errorf("lookup coupon: %w", err)
	}
	res := domain.EvaluateCoupon(coupon, amount, now)
	if res.Code == "" {
		res.Code = code
	}
	return res, nil
}

func recordCouponCheck(ctx context.Context, code string, res domain.CouponValidation) {
	result := "valid"
	if !res.Valid {
		result = res.Reason
	}
	metrics.RecordCouponValidation(result)
	logger.CouponChecked(ctx, code, res.Valid, res.Reason)
}

// CreateCoupon creates an active coupon with usedCount 0.
func (uc *CouponUsecase) CreateCoupon(ctx context.Context, req CreateCouponRequest) (*domain.Coupon, error) {
	code := domain.NormalizeCouponCode(req.Code)
	if code == "" {
		return nil, domain.InvalidInput("coupon code is required")
	}
	if strings.ContainsAny(code, " \t\n") {
		return nil, domain.InvalidInput("coupon code must not contain spaces")
	}

	discountType := domain.DiscountType(strings.ToLower(strings.TrimSpace(req.DiscountType)))
	if !discountType.Valid() {
		return nil, domain.InvalidInput("coupon type must be 'percentage' or 'fixed'")
	}
	if !req.DiscountValue.IsPositive() {
		return nil, domain.InvalidInput("coupon value must be greater than 0")
	}
	// Percentages above 100 are rejected outright.
	if discountType == domain.DiscountPercentage && req.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.InvalidInput("percentage discount cannot exceed 100%%")
	}

	validFrom, err := parseISO8601(req.ValidFrom)
	if err != nil {
		return nil, domain.InvalidInput("validFrom: %v", err)
	}
	validUntil, err := parseISO8601(req.ValidUntil)
	if err != nil {
		return nil, domain.InvalidInput("validUntil: %v", err)
	}
	if !validUntil.After(validFrom) {
		return nil, domain.InvalidInput("validUntil must be after validFrom")
	}

	var usageLimit *int
	if req.UsageLimit != nil {
		switch {
		case *req.UsageLimit < 0:
			return nil, domain.InvalidInput("usage limit must not be negative")
		case *req.UsageLimit > 0:
			limit := *req.UsageLimit
			usageLimit = &limit
		}
	}

	if existing, err := uc.couponRepo.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: coupon code '%s'", domain.ErrConflict, code)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup coupon: %w", err)
	}

	coupon := &domain.Coupon{
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: domain.RoundMoney(req.DiscountValue),
		IsActive:      true,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
		UsageLimit:    usageLimit,
		UsedCount:     0,
		Description:   strings.TrimSpace(req.Description),
	}

	if err := uc.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	logger.WithContext(ctx).Info().Str("coupon", coupon.Code).Str("coupon_id", coupon.ID).Msg("Coupon created")
	return coupon, nil
}

// ToggleCouponActive flips isActive and returns the updated coupon.
func (uc *CouponUsecase) ToggleCouponActive(ctx context.Context, id string) (*domain.Coupon, error) {
	coupon, err := uc.couponRepo.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info().Str("coupon", coupon.Code).Bool("active", coupon.IsActive).Msg("Coupon toggled")
	return coupon, nil
}

// ListCoupons returns every coupon, newest first.
func (uc *CouponUsecase) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	coupons, err := uc.couponRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

func (uc *CouponUsecase) GetCoupon(ctx context.Context, id string) (*domain.Coupon, error) {
	return uc.couponRepo.GetByID(ctx, id)
}

// parseISO8601 parses an ISO8601 date string.
func parseISO8601(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format %q", s)
}
