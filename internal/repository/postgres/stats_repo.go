package postgres

import (
	"context"
	"fmt"
	"time"

	"glowify-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type statsRepository struct {
	db DBTX
}

func NewStatsRepository(db DBTX) domain.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) SalesSummary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error) {
	db := conn(ctx, r.db)
	s := &domain.SalesSummary{From: from, To: to, ByStatus: map[domain.OrderStatus]int64{}}

	err := db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(discount_amount), 0),
		       COUNT(coupon_code)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2`, from, to,
	).Scan(&s.Orders, &s.Units, &s.Revenue, &s.Discounts, &s.CouponOrders)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	rows, err := db.Query(ctx, `
		SELECT status, COUNT(*) FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status`, from, to)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		s.ByStatus[domain.OrderStatus(status)] = n
	}
	return s, rows.Err()
}

func (r *statsRepository) DailySales(ctx context.Context, from, to time.Time) ([]domain.DailySales, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT (created_at AT TIME ZONE 'UTC')::date AS day,
		       COUNT(*),
		       COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY day
		ORDER BY day`, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailySales, error) {
		var d domain.DailySales
		err := row.Scan(&d.Day, &d.Orders, &d.Units, &d.Revenue)
		return d, err
	})
}

// LowStock lists active products at or below threshold, emptiest first.
func (r *statsRepository) LowStock(ctx context.Context, threshold, limit int) ([]domain.Product, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE is_active AND stock <= $1
		ORDER BY stock ASC, name ASC
		LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}
