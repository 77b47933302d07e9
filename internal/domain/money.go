package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of fractional digits kept for every amount (paise).
const MoneyPlaces = 2

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundMoney rounds half away from zero to MoneyPlaces.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// PriceBreakdown is the result of pricing a single order line.
type PriceBreakdown struct {
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// CalculatePrice prices quantity units at unitPrice and applies discount.
// The total is floored at zero.
func CalculatePrice(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) PriceBreakdown {
	original := RoundMoney(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	return PriceBreakdown{
		OriginalAmount: original,
		DiscountAmount: discount,
		TotalAmount:    ApplyDiscount(original, discount),
	}
}

// ApplyDiscount returns max(0, amount - discount).
func ApplyDiscount(amount, discount decimal.Decimal) decimal.Decimal {
	final := amount.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}
