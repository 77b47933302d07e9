package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculatePriceWithoutDiscount(t *testing.T) {
	p := CalculatePrice(dec("500"), 2, decimal.Zero)
	if !p.OriginalAmount.Equal(dec("1000")) {
		t.Fatalf("original mismatch: got %s", p.OriginalAmount)
	}
	if !p.TotalAmount.Equal(p.OriginalAmount) {
		t.Fatalf("total should equal original without discount, got %s", p.TotalAmount)
	}
	if !p.DiscountAmount.IsZero() {
		t.Fatalf("discount should be zero, got %s", p.DiscountAmount)
	}
}

func TestCalculatePriceFloorsAtZero(t *testing.T) {
	p := CalculatePrice(dec("10"), 3, dec("45"))
	if !p.TotalAmount.IsZero() {
		t.Fatalf("total should be floored at zero, got %s", p.TotalAmount)
	}
}

func TestCalculatePriceIsExactForFractions(t *testing.T) {
	// 0.1 * 3 is not 0.3 in binary floating point.
	p := CalculatePrice(dec("0.10"), 3, decimal.Zero)
	if !p.OriginalAmount.Equal(dec("0.30")) {
		t.Fatalf("original mismatch: got %s want 0.30", p.OriginalAmount)
	}
}

func TestMoneyMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(PriceBreakdown{
		OriginalAmount: dec("1000"),
		DiscountAmount: dec("200"),
		TotalAmount:    dec("800"),
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"originalAmount":1000,"discountAmount":200,"totalAmount":800}`
	if string(b) != want {
		t.Fatalf("json mismatch:\n got %s\nwant %s", b, want)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusPending, OrderStatus("cancelled"), false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.ok {
			t.Fatalf("%s -> %s: got %v want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestNewCartTotals(t *testing.T) {
	cart := NewCart([]CartItem{
		{Quantity: 2, Product: Product{Price: dec("250")}},
		{Quantity: 1, Product: Product{Price: dec("99.50")}},
	})
	if cart.Count != 3 {
		t.Fatalf("count mismatch: got %d", cart.Count)
	}
	if !cart.Subtotal.Equal(dec("599.50")) {
		t.Fatalf("subtotal mismatch: got %s", cart.Subtotal)
	}
	if empty := NewCart(nil); empty.Items == nil || empty.Count != 0 {
		t.Fatalf("empty cart should have non-nil items and zero count")
	}
}
