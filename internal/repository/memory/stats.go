package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"glowify-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type statsRepo struct{ s *Store }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *statsRepo) SalesSummary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error) {
	defer r.s.acquire(ctx)()
	sum := &domain.SalesSummary{
		From:      from,
		To:        to,
		Revenue:   decimal.Zero,
		Discounts: decimal.Zero,
		ByStatus:  map[domain.OrderStatus]int64{},
	}
	for _, e := range r.s.st.orders {
		o := e.val
		if !inRange(o.CreatedAt, from, to) {
			continue
		}
		sum.Orders++
		sum.Units += int64(o.Quantity)
		sum.Revenue = sum.Revenue.Add(o.TotalAmount)
		sum.Discounts = sum.Discounts.Add(o.DiscountAmount)
		if o.CouponCode != nil {
			sum.CouponOrders++
		}
		sum.ByStatus[o.Status]++
	}
	return sum, nil
}

func (r *statsRepo) DailySales(ctx context.Context, from, to time.Time) ([]domain.DailySales, error) {
	defer r.s.acquire(ctx)()
	byDay := map[time.Time]*domain.DailySales{}
	for _, e := range r.s.st.orders {
		o := e.val
		if !inRange(o.CreatedAt, from, to) {
			continue
		}
		day := o.CreatedAt.UTC().Truncate(24 * time.Hour)
		d, ok := byDay[day]
		if !ok {
			d = &domain.DailySales{Day: day, Revenue: decimal.Zero}
			byDay[day] = d
		}
		d.Orders++
		d.Units += int64(o.Quantity)
		d.Revenue = d.Revenue.Add(o.TotalAmount)
	}

	out := make([]domain.DailySales, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b domain.DailySales) int { return a.Day.Compare(b.Day) })
	return out, nil
}

func (r *statsRepo) LowStock(ctx context.Context, threshold, limit int) ([]domain.Product, error) {
	defer r.s.acquire(ctx)()
	var out []domain.Product
	for _, e := range r.s.st.products {
		if e.val.IsActive && e.val.Stock <= threshold {
			out = append(out, cloneProduct(e.val))
		}
	}
	slices.SortFunc(out, func(a, b domain.Product) int {
		if c := cmp.Compare(a.Stock, b.Stock); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	if out == nil {
		out = []domain.Product{}
	}
	return page(out, limit, 0), nil
}
