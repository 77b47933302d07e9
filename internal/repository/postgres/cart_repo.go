package postgres

import (
	"context"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
)

type cartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.added_at,
		       p.name, p.anime_name, p.price, p.stock, p.image_urls, p.is_active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.added_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		p := &item.Product
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt,
			&p.Name, &p.AnimeName, &p.Price, &p.Stock, &p.ImageURLs, &p.IsActive,
		); err != nil {
			return nil, err
		}
		p.ID = item.ProductID
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *cartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		uuid.NewString(), userID, productID, quantity,
	)
	return mapErr(err)
}

func (r *cartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE cart_items SET quantity = $3
		WHERE user_id = $1 AND product_id = $2`, userID, productID, quantity)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	_, err := conn(ctx, r.db).Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	return mapErr(err)
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	_, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return mapErr(err)
}
