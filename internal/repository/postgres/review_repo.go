package postgres

import (
	"context"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type reviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		rv.ID, rv.ProductID, rv.UserID, rv.UserName, rv.Rating, rv.Comment,
	)
	return mapErr(row.Scan(&rv.CreatedAt))
}

func (r *reviewRepository) GetByProductID(ctx context.Context, productID string) ([]domain.Review, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at
		FROM reviews WHERE product_id = $1
		ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) Summary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	var s domain.RatingSummary
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews WHERE product_id = $1`, productID,
	).Scan(&s.Average, &s.Count)
	return s, mapErr(err)
}

func (r *reviewRepository) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		WITH deleted AS (DELETE FROM reviews WHERE user_id = $1 RETURNING product_id)
		SELECT DISTINCT product_id FROM deleted ORDER BY product_id`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
