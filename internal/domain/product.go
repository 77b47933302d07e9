package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// --- Interfaces ---

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	AnimeName     string          `json:"animeName"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	TotalSales    int             `json:"totalSales"`
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int             `json:"reviewCount"`
	ImageURLs     []string        `json:"imageUrls"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type ProductFilter struct {
	Search          string
	AnimeName       string
	Sort            string // newest, price_asc, price_desc, popularity, rating
	IncludeInactive bool
	Limit           int
	Offset          int
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	// GetByIDForUpdate locks the product row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	TopSelling(ctx context.Context, limit int) ([]Product, error)
	AnimeNames(ctx context.Context) ([]string, error)
	ToggleActive(ctx context.Context, id string) (*Product, error)
	// UpdateStockAndSales fails with ErrInsufficientStock if stock would go negative.
	UpdateStockAndSales(ctx context.Context, id string, stockDelta, salesDelta int) error
	UpdateRating(ctx context.Context, id string, average float64, count int) error
}
