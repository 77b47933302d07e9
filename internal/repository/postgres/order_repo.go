package postgres

import (
	"context"
	"fmt"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type orderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, user_id, customer_name, customer_email, customer_phone, customer_address,
	product_id, product_name, quantity, unit_price, original_amount, discount_amount, total_amount,
	coupon_code, status, order_method, admin_notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
		&o.ProductID, &o.ProductName, &o.Quantity, &o.UnitPrice, &o.OriginalAmount, &o.DiscountAmount, &o.TotalAmount,
		&o.CouponCode, &o.Status, &o.OrderMethod, &o.AdminNotes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO orders (id, user_id, customer_name, customer_email, customer_phone, customer_address,
		                    product_id, product_name, quantity, unit_price, original_amount, discount_amount,
		                    total_amount, coupon_code, status, order_method, admin_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address,
		o.ProductID, o.ProductName, o.Quantity, money(o.UnitPrice), money(o.OriginalAmount), money(o.DiscountAmount),
		money(o.TotalAmount), o.CouponCode, string(o.Status), string(o.OrderMethod), o.AdminNotes,
	)
	return mapErr(row.Scan(&o.CreatedAt, &o.UpdatedAt))
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return scanOrder(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *orderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// --- Admin Methods ---

func (r *orderRepository) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var status *string
	if filter.Status != "" {
		s := string(filter.Status)
		status = &s
	}

	db := conn(ctx, r.db)

	var total int64
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE ($1::text IS NULL OR status = $1)`, status,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, status, limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, notes *string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE orders
		SET status = $2, admin_notes = COALESCE($3, admin_notes), updated_at = now()
		WHERE id = $1`, id, string(status), notes)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepository) CountLiveByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT count(*) FROM orders
		WHERE user_id = $1 AND status IN ($2, $3)`,
		userID, string(domain.OrderStatusPending), string(domain.OrderStatusConfirmed),
	).Scan(&n)
	return n, mapErr(err)
}

func (r *orderRepository) DetachUser(ctx context.Context, userID string) error {
	_, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE orders SET user_id = NULL, updated_at = now() WHERE user_id = $1`, userID)
	return mapErr(err)
}
