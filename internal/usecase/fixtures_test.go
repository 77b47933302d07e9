package usecase

import (
	"context"
	"testing"
	"time"

	"glowify-backend/config"
	"glowify-backend/internal/domain"
	"glowify-backend/internal/infrastructure/cache"
	"glowify-backend/internal/repository/memory"

	"github.com/shopspring/decimal"
)

var testHandoff = HandoffConfig{
	Emails:         []string{"orders@glowify.in"},
	WhatsAppNumber: "+91 98765-43210",
	CurrencySymbol: "₹",
}

var testCustomer = domain.Customer{
	Name:    "Asuna Yuuki",
	Email:   "asuna@example.com",
	Phone:   "9876543210",
	Address: "12 Aincrad Road, Pune",
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func testConfig() *config.Config {
	return &config.Config{
		CacheProductTTL:    time.Minute,
		CacheTopSellingTTL: time.Minute,
		MaxOrderQuantity:   100,
	}
}

func newOrderUsecase(store *memory.Store) *OrderUsecase {
	return NewOrderUsecase(store.Orders(), store.Products(), store.Coupons(), store, cache.NewMemoryCache(time.Minute, time.Minute), testHandoff, 100)
}

func seedProduct(t *testing.T, store *memory.Store, price string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:      "Gojo Satoru Poster",
		AnimeName: "Jujutsu Kaisen",
		Price:     dec(price),
		Stock:     stock,
		IsActive:  true,
	}
	if err := store.Products().Create(context.Background(), p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func seedCoupon(t *testing.T, store *memory.Store, c domain.Coupon) *domain.Coupon {
	t.Helper()
	now := time.Now()
	if c.ValidFrom.IsZero() {
		c.ValidFrom = now.Add(-24 * time.Hour)
	}
	if c.ValidUntil.IsZero() {
		c.ValidUntil = now.Add(24 * time.Hour)
	}
	if err := store.Coupons().Create(context.Background(), &c); err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
	return &c
}

func mustProduct(t *testing.T, store *memory.Store, id string) *domain.Product {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	return p
}

func orderCount(t *testing.T, store *memory.Store) int64 {
	t.Helper()
	_, total, err := store.Orders().GetAll(context.Background(), domain.OrderFilter{})
	if err != nil {
		t.Fatalf("count orders: %v", err)
	}
	return total
}
