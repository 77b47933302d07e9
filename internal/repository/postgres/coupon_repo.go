package postgres

import (
	"context"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type couponRepository struct {
	db DBTX
}

func NewCouponRepository(db DBTX) domain.CouponRepository {
	return &couponRepository{db: db}
}

const couponColumns = `id, code, discount_type, discount_value, is_active, valid_from, valid_until,
	usage_limit, used_count, description, created_at`

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.IsActive, &c.ValidFrom, &c.ValidUntil,
		&c.UsageLimit, &c.UsedCount, &c.Description, &c.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO coupons (id, code, discount_type, discount_value, is_active, valid_from, valid_until,
		                     usage_limit, used_count, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		c.ID, c.Code, string(c.DiscountType), money(c.DiscountValue), c.IsActive, c.ValidFrom, c.ValidUntil,
		c.UsageLimit, c.UsedCount, c.Description,
	)
	return mapErr(row.Scan(&c.CreatedAt))
}

func (r *couponRepository) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	return scanCoupon(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return scanCoupon(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
}

func (r *couponRepository) GetByCodeForUpdate(ctx context.Context, code string) (*domain.Coupon, error) {
	return scanCoupon(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1 FOR UPDATE`, code))
}

func (r *couponRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coupons := []domain.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

func (r *couponRepository) ToggleActive(ctx context.Context, id string) (*domain.Coupon, error) {
	return scanCoupon(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE coupons SET is_active = NOT is_active
		WHERE id = $1
		RETURNING `+couponColumns, id))
}

func (r *couponRepository) IncrementUsage(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE coupons SET used_count = used_count + 1
		WHERE id = $1 AND (usage_limit IS NULL OR used_count < usage_limit)`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		c, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return &domain.InvalidCouponError{Code: c.Code, Reason: domain.CouponReasonUsageReached}
	}
	return nil
}
