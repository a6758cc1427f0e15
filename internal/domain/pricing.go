package domain

import (
	"fmt"
	"math"
	"time"
)

// VATRate is the flat Belgian VAT applied to every order subtotal.
const VATRate = 0.21

// Round2 rounds a monetary amount to two decimals, half away from zero.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Totals is the derived monetary summary of an order.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// ComputeTotals derives subtotal, VAT and total from priced line items.
// Subtotal is the raw sum of line totals; tax and total are rounded to
// two decimals.
func ComputeTotals(items []OrderItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Total
	}
	tax := Round2(subtotal * VATRate)
	return Totals{
		Subtotal: Round2(subtotal),
		Tax:      tax,
		Total:    Round2(subtotal + subtotal*VATRate),
	}
}

// FormatOrderNumber builds the human-readable order number for a given
// creation instant and random suffix, e.g. ORD-20250114-3F9A21BC. The
// number is informational; uniqueness is enforced at persistence time.
func FormatOrderNumber(createdAt time.Time, suffix string) string {
	return fmt.Sprintf("ORD-%s-%s", createdAt.UTC().Format("20060102"), suffix)
}
