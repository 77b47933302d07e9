package postgres

import (
	"context"
	"time"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type customOrderRepository struct {
	db DBTX
}

func NewCustomOrderRepository(db DBTX) domain.CustomOrderRepository {
	return &customOrderRepository{db: db}
}

const customOrderColumns = `id, user_id, customer_name, customer_email, customer_phone, customer_address,
	frame_size, frame_type, quantity, custom_instructions, image_urls, status, order_method, admin_notes,
	created_at, updated_at`

func scanCustomOrder(row pgx.Row) (*domain.CustomOrder, error) {
	var o domain.CustomOrder
	err := row.Scan(
		&o.ID, &o.UserID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
		&o.FrameSize, &o.FrameType, &o.Quantity, &o.Instructions, &o.ImageURLs, &o.Status, &o.OrderMethod, &o.AdminNotes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (r *customOrderRepository) collect(rows pgx.Rows) ([]domain.CustomOrder, error) {
	defer rows.Close()
	orders := []domain.CustomOrder{}
	for rows.Next() {
		o, err := scanCustomOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *customOrderRepository) Create(ctx context.Context, o *domain.CustomOrder) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.ImageURLs == nil {
		o.ImageURLs = []string{}
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO custom_orders (id, user_id, customer_name, customer_email, customer_phone, customer_address,
		                           frame_size, frame_type, quantity, custom_instructions, image_urls, status,
		                           order_method, admin_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address,
		o.FrameSize, o.FrameType, o.Quantity, o.Instructions, o.ImageURLs, string(o.Status),
		string(o.OrderMethod), o.AdminNotes,
	)
	return mapErr(row.Scan(&o.CreatedAt, &o.UpdatedAt))
}

func (r *customOrderRepository) GetByID(ctx context.Context, id string) (*domain.CustomOrder, error) {
	return scanCustomOrder(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+customOrderColumns+` FROM custom_orders WHERE id = $1`, id))
}

func (r *customOrderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.CustomOrder, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT `+customOrderColumns+` FROM custom_orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *customOrderRepository) GetAll(ctx context.Context) ([]domain.CustomOrder, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT `+customOrderColumns+` FROM custom_orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *customOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, notes *string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE custom_orders
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

// --- Image retention ---

func (r *customOrderRepository) ScheduleImageDeletion(ctx context.Context, urls []string, at time.Time) error {
	if len(urls) == 0 {
		return nil
	}
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO image_deletions (url, delete_at)
		SELECT u, $2 FROM unnest($1::text[]) AS u
		ON CONFLICT (url) DO UPDATE SET delete_at = EXCLUDED.delete_at`, urls, at)
	return mapErr(err)
}

func (r *customOrderRepository) PendingImages(ctx context.Context, urls []string, now time.Time) ([]string, error) {
	if len(urls) == 0 {
		return []string{}, nil
	}
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT url FROM image_deletions
		WHERE url = ANY($1) AND delete_at > $2
		FOR UPDATE`, urls, now)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *customOrderRepository) DueImageDeletions(ctx context.Context, now time.Time, limit int) ([]string, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT url FROM image_deletions
		WHERE delete_at <= $1
		ORDER BY delete_at
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *customOrderRepository) RemoveImageDeletions(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	_, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM image_deletions WHERE url = ANY($1)`, urls)
	return mapErr(err)
}
