package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// --- Cart Entities ---

type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Product   Product   `json:"product"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

type Cart struct {
	Items    []CartItem      `json:"items"`
	Count    int             `json:"count"`    // sum of quantities
	Subtotal decimal.Decimal `json:"subtotal"` // price x quantity over all items
}

// NewCart summarises items into a Cart.
func NewCart(items []CartItem) *Cart {
	cart := &Cart{Items: items, Subtotal: decimal.Zero}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	for _, item := range items {
		cart.Count += item.Quantity
		cart.Subtotal = cart.Subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return cart
}

type CartRepository interface {
	GetItems(ctx context.Context, userID string) ([]CartItem, error)
	// AddItem inserts the product or adds quantity to an existing line.
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
