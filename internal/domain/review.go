package domain

import (
	"context"
	"time"
)

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingSummary is the aggregate stored on the product.
type RatingSummary struct {
	Average float64
	Count   int
}

type ReviewRepository interface {
	// Create fails with ErrConflict if the user already reviewed the product.
	Create(ctx context.Context, review *Review) error
	GetByProductID(ctx context.Context, productID string) ([]Review, error)
	Summary(ctx context.Context, productID string) (RatingSummary, error)
	// DeleteByUser removes the user's reviews and returns the affected product ids.
	DeleteByUser(ctx context.Context, userID string) ([]string, error)
}
