package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Coupon rejection reasons, in the order they are checked.
const (
	CouponReasonInvalidCode  = "invalid code"
	CouponReasonNotActive    = "not active"
	CouponReasonNotYetValid  = "not yet valid"
	CouponReasonExpired      = "expired"
	CouponReasonUsageReached = "usage limit reached"
)

type Coupon struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	IsActive      bool            `json:"isActive"`
	ValidFrom     time.Time       `json:"validFrom"`
	ValidUntil    time.Time       `json:"validUntil"`
	UsageLimit    *int            `json:"usageLimit,omitempty"` // nil = unlimited
	UsedCount     int             `json:"usedCount"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NormalizeCouponCode is the canonical (stored) form of a code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Exhausted reports whether the coupon has no redemptions left.
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}

// Discount computes the discount for amount. Percentage discounts are rounded
// to MoneyPlaces; fixed discounts never exceed amount.
func (c *Coupon) Discount(amount decimal.Decimal) decimal.Decimal {
	switch c.DiscountType {
	case DiscountPercentage:
		return RoundMoney(amount.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)))
	case DiscountFixed:
		return decimal.Min(c.DiscountValue, amount)
	}
	return decimal.Zero
}

// CouponValidation is the outcome of checking a code against an order amount.
type CouponValidation struct {
	Valid          bool
	Reason         string
	Code           string
	CouponID       string
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}

// EvaluateCoupon applies the redemption rules to c at instant now. A nil
// coupon means the lookup failed. It never mutates c.
func EvaluateCoupon(c *Coupon, amount decimal.Decimal, now time.Time) CouponValidation {
	if c == nil {
		return CouponValidation{Reason: CouponReasonInvalidCode}
	}
	res := CouponValidation{Code: c.Code, CouponID: c.ID}
	switch {
	case !c.IsActive:
		res.Reason = CouponReasonNotActive
	case now.Before(c.ValidFrom):
		res.Reason = CouponReasonNotYetValid
	case now.After(c.ValidUntil):
		res.Reason = CouponReasonExpired
	case c.Exhausted():
		res.Reason = CouponReasonUsageReached
	default:
		res.Valid = true
		res.DiscountAmount = c.Discount(amount)
		res.FinalAmount = ApplyDiscount(amount, res.DiscountAmount)
	}
	return res
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *Coupon) error
	GetByID(ctx context.Context, id string) (*Coupon, error)
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	// GetByCodeForUpdate locks the coupon row for the rest of the transaction.
	GetByCodeForUpdate(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	ToggleActive(ctx context.Context, id string) (*Coupon, error)
	// IncrementUsage fails with an *InvalidCouponError when the limit is already reached.
	IncrementUsage(ctx context.Context, id string) error
}
