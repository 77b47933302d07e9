package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// HandoffConfig holds the shop's contact points for order handoff.
type HandoffConfig struct {
	Emails         []string
	WhatsAppNumber string
	CurrencySymbol string
}

// Handoff carries the deep links the customer follows to send the order to the shop.
type Handoff struct {
	Method      domain.OrderMethod `json:"method"`
	Subject     string             `json:"subject"`
	Message     string             `json:"message"`
	EmailURL    string             `json:"emailUrl,omitempty"`
	WhatsAppURL string             `json:"whatsappUrl,omitempty"`
}

// URL is the link for the order's chosen method.
func (h Handoff) URL() string {
	if h.Method == domain.OrderMethodEmail {
		return h.EmailURL
	}
	return h.WhatsAppURL
}

func (c HandoffConfig) money(d decimal.Decimal) string {
	return c.CurrencySymbol + d.StringFixed(domain.MoneyPlaces)
}

// ForOrder builds the handoff for a placed catalog order.
func (c HandoffConfig) ForOrder(o *domain.Order) Handoff {
	var b strings.Builder
	b.WriteString("New Order Request\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", o.ID)
	fmt.Fprintf(&b, "Product: %s\n", o.ProductName)
	fmt.Fprintf(&b, "Quantity: %d\n", o.Quantity)
	fmt.Fprintf(&b, "Unit Price: %s\n", c.money(o.UnitPrice))
	fmt.Fprintf(&b, "Subtotal: %s\n", c.money(o.OriginalAmount))
	if o.CouponCode != nil {
		fmt.Fprintf(&b, "Coupon: %s (-%s)\n", *o.CouponCode, c.money(o.DiscountAmount))
	}
	fmt.Fprintf(&b, "Total: %s\n", c.money(o.TotalAmount))
	writeCustomer(&b, o.Customer)

	return c.build(o.OrderMethod, "New Order Request - "+o.ProductName, b.String())
}

// ForCustomOrder builds the handoff for a custom frame order.
func (c HandoffConfig) ForCustomOrder(o *domain.CustomOrder) Handoff {
	var b strings.Builder
	b.WriteString("New Custom Frame Request\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", o.ID)
	fmt.Fprintf(&b, "Frame Size: %s\n", o.FrameSize)
	if o.FrameType != "" {
		fmt.Fprintf(&b, "Frame Type: %s\n", o.FrameType)
	}
	fmt.Fprintf(&b, "Quantity: %d\n", o.Quantity)
	if o.Instructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", o.Instructions)
	}
	fmt.Fprintf(&b, "\nImages (%d):\n", len(o.ImageURLs))
	for _, u := range o.ImageURLs {
		b.WriteString(u + "\n")
	}
	writeCustomer(&b, o.Customer)

	return c.build(o.OrderMethod, "New Custom Frame Request - "+o.FrameSize, b.String())
}

func writeCustomer(b *strings.Builder, cu domain.Customer) {
	b.WriteString("\nCustomer Details\n")
	fmt.Fprintf(b, "Name: %s\n", cu.Name)
	fmt.Fprintf(b, "Email: %s\n", cu.Email)
	fmt.Fprintf(b, "Phone: %s\n", cu.Phone)
	fmt.Fprintf(b, "Address: %s\n", cu.Address)
}

func (c HandoffConfig) build(method domain.OrderMethod, subject, message string) Handoff {
	h := Handoff{Method: method, Subject: subject, Message: message}
	if len(c.Emails) > 0 {
		h.EmailURL = fmt.Sprintf("mailto:%s?subject=%s&body=%s",
			strings.Join(c.Emails, ","), escape(subject), escape(message))
	}
	if digits := utils.DigitsOnly(c.WhatsAppNumber); digits != "" {
		h.WhatsAppURL = fmt.Sprintf("https://wa.me/%s?text=%s", digits, escape(message))
	}
	return h
}

// escape percent-encodes s for a URL query, with spaces as %20 rather than "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
