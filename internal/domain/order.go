package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

type OrderMethod string

func (m OrderMethod) Valid() bool {
	return m == OrderMethodWhatsApp || m == OrderMethodEmail
}

// statusWeight orders statuses so transitions only move forward.
var statusWeight = map[OrderStatus]int{
	OrderStatusPending:   10,
	OrderStatusConfirmed: 20,
	OrderStatusCompleted: 30,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusWeight[s]
	return ok
}

// Live reports whether the order still needs work from the shop.
func (s OrderStatus) Live() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// CanTransitionTo allows forward moves only; completed is terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	cur, okCur := statusWeight[s]
	nxt, okNext := statusWeight[next]
	if !okCur || !okNext {
		return false
	}
	return nxt > cur
}

type OrderFilter struct {
	Status OrderStatus
	Limit  int
	Offset int
}

// Customer is the contact and shipping information captured at checkout.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return InvalidInput("customer name is required")
	}
	if !strings.Contains(c.Email, "@") {
		return InvalidInput("customer email is invalid")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return InvalidInput("customer phone is required")
	}
	if strings.TrimSpace(c.Address) == "" {
		return InvalidInput("customer address is required")
	}
	return nil
}

type Order struct {
	ID             string          `json:"id"`
	UserID         *string         `json:"userId,omitempty"` // nil for guest checkout
	Customer       Customer        `json:"customer"`
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	CouponCode     *string         `json:"couponCode,omitempty"`
	Status         OrderStatus     `json:"status"`
	OrderMethod    OrderMethod     `json:"orderMethod"`
	AdminNotes     string          `json:"adminNotes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByUserID(ctx context.Context, userID string) ([]Order, error)
	GetAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus, notes *string) error
	// CountLiveByUser counts the user's pending and confirmed orders.
	CountLiveByUser(ctx context.Context, userID string) (int64, error)
	// DetachUser unlinks every order from the user. The orders stay for sales history.
	DetachUser(ctx context.Context, userID string) error
}
