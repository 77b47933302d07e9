package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary aggregates the orders created in [From, To).
type SalesSummary struct {
	From              time.Time             `json:"from"`
	To                time.Time             `json:"to"`
	Orders            int64                 `json:"orders"`
	Units             int64                 `json:"units"`
	Revenue           decimal.Decimal       `json:"revenue"`
	Discounts         decimal.Decimal       `json:"discounts"`
	CouponOrders      int64                 `json:"couponOrders"`
	AverageOrderValue decimal.Decimal       `json:"averageOrderValue"`
	ByStatus          map[OrderStatus]int64 `json:"byStatus"`
}

// DailySales is one day of the revenue series, days in UTC.
type DailySales struct {
	Day     time.Time       `json:"day"`
	Orders  int64           `json:"orders"`
	Units   int64           `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StatsRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
	LowStock(ctx context.Context, threshold, limit int) ([]Product, error)
}
