package postgres

import (
	"context"
	"fmt"
	"strings"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type productRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) domain.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, anime_name, price, stock, total_sales,
	average_rating, review_count, image_urls, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.AnimeName, &p.Price, &p.Stock, &p.TotalSales,
		&p.AverageRating, &p.ReviewCount, &p.ImageURLs, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()
	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO products (id, name, description, anime_name, price, stock, image_urls, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.AnimeName, money(p.Price), p.Stock, p.ImageURLs, p.IsActive,
	)
	return mapErr(row.Scan(&p.CreatedAt, &p.UpdatedAt))
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, anime_name = $4, price = $5, stock = $6,
		    image_urls = $7, is_active = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.Description, p.AnimeName, money(p.Price), p.Stock, p.ImageURLs, p.IsActive,
	)
	return mapErr(row.Scan(&p.UpdatedAt))
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return scanProduct(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *productRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	return scanProduct(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
}

var productOrderBy = map[string]string{
	domain.SortNewest:     "created_at DESC",
	domain.SortPriceAsc:   "price ASC, created_at DESC",
	domain.SortPriceDesc:  "price DESC, created_at DESC",
	domain.SortPopularity: "total_sales DESC, created_at DESC",
	domain.SortRating:     "average_rating DESC, review_count DESC",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in the
// column. Backslash is the default LIKE escape character in Postgres.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.IncludeInactive {
		where = append(where, "is_active")
	}
	if filter.Search != "" {
		p := arg(containsPattern(filter.Search))
		where = append(where, fmt.Sprintf("(name ILIKE %s OR anime_name ILIKE %s OR description ILIKE %s)", p, p, p))
	}
	if filter.AnimeName != "" {
		where = append(where, "anime_name = "+arg(filter.AnimeName))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	orderBy, ok := productOrderBy[filter.Sort]
	if !ok {
		orderBy = productOrderBy[domain.SortNewest]
	}
	query += " ORDER BY " + orderBy
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productRepository) TopSelling(ctx context.Context, limit int) ([]domain.Product, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE is_active
		ORDER BY total_sales DESC, created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productRepository) AnimeNames(ctx context.Context) ([]string, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT DISTINCT anime_name FROM products
		WHERE is_active AND anime_name <> ''
		ORDER BY anime_name`)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (r *productRepository) ToggleActive(ctx context.Context, id string) (*domain.Product, error) {
	return scanProduct(conn(ctx, r.db).QueryRow(ctx, `
		UPDATE products SET is_active = NOT is_active, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns, id))
}

func (r *productRepository) UpdateStockAndSales(ctx context.Context, id string, stockDelta, salesDelta int) error {
	db := conn(ctx, r.db)
	tag, err := db.Exec(ctx, `
		UPDATE products
		SET stock = stock + $2, total_sales = total_sales + $3, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0`,
		id, stockDelta, salesDelta,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *productRepository) UpdateRating(ctx context.Context, id string, average float64, count int) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE products SET average_rating = $2, review_count = $3, updated_at = now()
		WHERE id = $1`, id, average, count)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
