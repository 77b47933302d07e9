package usecase

import (
	"strings"
	"testing"

	"glowify-backend/internal/domain"
)

func TestHandoffForOrder(t *testing.T) {
	code := "SAVE20"
	o := &domain.Order{
		ID:             "ord-1",
		Customer:       testCustomer,
		ProductName:    "Gojo & Geto",
		Quantity:       2,
		UnitPrice:      dec("500"),
		OriginalAmount: dec("1000"),
		DiscountAmount: dec("200"),
		TotalAmount:    dec("800"),
		CouponCode:     &code,
		OrderMethod:    domain.OrderMethodEmail,
	}
	cfg := HandoffConfig{Emails: []string{"a@glowify.in", "b@glowify.in"}, CurrencySymbol: "₹"}

	h := cfg.ForOrder(o)
	if h.Subject != "New Order Request - Gojo & Geto" {
		t.Fatalf("unexpected subject: %q", h.Subject)
	}
	for _, want := range []string{"Total: ₹800.00", "Coupon: SAVE20 (-₹200.00)", "Name: Asuna Yuuki"} {
		if !strings.Contains(h.Message, want) {
			t.Fatalf("message missing %q:\n%s", want, h.Message)
		}
	}
	if !strings.HasPrefix(h.URL(), "mailto:a@glowify.in,b@glowify.in?subject=New%20Order%20Request%20-%20Gojo%20%26%20Geto&body=") {
		t.Fatalf("unexpected email url: %s", h.URL())
	}
	if strings.Contains(h.EmailURL, "+") || !strings.Contains(h.EmailURL, "%0A") {
		t.Fatalf("body not percent-encoded: %s", h.EmailURL)
	}
	if h.WhatsAppURL != "" {
		t.Fatalf("no WhatsApp number configured, got %s", h.WhatsAppURL)
	}
}

func TestHandoffWithoutCoupon(t *testing.T) {
	o := &domain.Order{
		ID:             "ord-2",
		ProductName:    "Levi",
		Quantity:       1,
		UnitPrice:      dec("99.5"),
		OriginalAmount: dec("99.5"),
		DiscountAmount: dec("0"),
		TotalAmount:    dec("99.5"),
		OrderMethod:    domain.OrderMethodWhatsApp,
	}
	h := testHandoff.ForOrder(o)
	if strings.Contains(h.Message, "Coupon:") {
		t.Fatal("message should not mention a coupon")
	}
	if !strings.Contains(h.Message, "Total: ₹99.50") {
		t.Fatalf("unexpected message:\n%s", h.Message)
	}
	if h.URL() != h.WhatsAppURL {
		t.Fatal("whatsapp order should use the WhatsApp link")
	}
}
