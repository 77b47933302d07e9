package memory

import (
	"context"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
)

type couponRepo struct{ s *Store }

func cloneCoupon(c domain.Coupon) *domain.Coupon {
	if c.UsageLimit != nil {
		limit := *c.UsageLimit
		c.UsageLimit = &limit
	}
	return &c
}

func (r *couponRepo) Create(ctx context.Context, c *domain.Coupon) error {
	defer r.s.acquire(ctx)()
	for _, e := range r.s.st.coupons {
		if e.val.Code == c.Code {
			return domain.ErrConflict
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = r.s.now()
	r.s.st.coupons[c.ID] = entry[domain.Coupon]{seq: r.s.st.next(), val: *cloneCoupon(*c)}
	return nil
}

func (r *couponRepo) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.coupons[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCoupon(e.val), nil
}

func (r *couponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	defer r.s.acquire(ctx)()
	for _, e := range r.s.st.coupons {
		if e.val.Code == code {
			return cloneCoupon(e.val), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *couponRepo) GetByCodeForUpdate(ctx context.Context, code string) (*domain.Coupon, error) {
	return r.GetByCode(ctx, code)
}

func (r *couponRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	defer r.s.acquire(ctx)()
	coupons := newestFirst(r.s.st.coupons, nil)
	for i := range coupons {
		coupons[i] = *cloneCoupon(coupons[i])
	}
	return coupons, nil
}

func (r *couponRepo) ToggleActive(ctx context.Context, id string) (*domain.Coupon, error) {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.coupons[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.val.IsActive = !e.val.IsActive
	r.s.st.coupons[id] = e
	return cloneCoupon(e.val), nil
}

func (r *couponRepo) IncrementUsage(ctx context.Context, id string) error {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.coupons[id]
	if !ok {
		return domain.ErrNotFound
	}
	if e.val.Exhausted() {
		return &domain.InvalidCouponError{Code: e.val.Code, Reason: domain.CouponReasonUsageReached}
	}
	e.val.UsedCount++
	r.s.st.coupons[id] = e
	return nil
}
