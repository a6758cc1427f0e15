package domain

import (
	"testing"
	"time"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.004, 1.00},
		{1.005, 1.01},
		{24.99 * 3, 74.97},
		{-2.675, -2.68},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p1", Quantity: 3, Price: 24.99, Total: 74.97},
		{ProductID: "p2", Quantity: 1, Price: 129.99, Total: 129.99},
	}

	totals := ComputeTotals(items)
	if totals.Subtotal != 204.96 {
		t.Fatalf("subtotal = %v, want 204.96", totals.Subtotal)
	}
	if totals.Tax != Round2(204.96*VATRate) {
		t.Fatalf("tax = %v, want %v", totals.Tax, Round2(204.96*VATRate))
	}
	if totals.Total != Round2(204.96+204.96*VATRate) {
		t.Fatalf("total = %v, want %v", totals.Total, Round2(204.96+204.96*VATRate))
	}
	if totals.Total != Round2(totals.Subtotal+totals.Tax) {
		t.Fatalf("total %v does not equal subtotal+tax %v", totals.Total, Round2(totals.Subtotal+totals.Tax))
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	if totals.Subtotal != 0 || totals.Tax != 0 || totals.Total != 0 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestFormatOrderNumber(t *testing.T) {
	createdAt := time.Date(2025, time.January, 14, 23, 59, 0, 0, time.UTC)
	got := FormatOrderNumber(createdAt, "3F9A21BC")
	if got != "ORD-20250114-3F9A21BC" {
		t.Fatalf("unexpected order number %q", got)
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "processing", "shipped", "delivered", "cancelled"} {
		status, err := ParseOrderStatus(raw)
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q): %v", raw, err)
		}
		if string(status) != raw {
			t.Fatalf("ParseOrderStatus(%q) = %q", raw, status)
		}
	}
	if _, err := ParseOrderStatus("returned"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if status, err := ParseOrderStatus(" Shipped "); err != nil || status != OrderStatusShipped {
		t.Fatalf("expected normalised shipped, got %q err %v", status, err)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, raw := range []string{"pending", "paid", "failed", "refunded"} {
		if _, err := ParsePaymentStatus(raw); err != nil {
			t.Fatalf("ParsePaymentStatus(%q): %v", raw, err)
		}
	}
	if _, err := ParsePaymentStatus("chargeback"); err == nil {
		t.Fatal("expected error for unknown payment status")
	}
}

func TestParseDiscountType(t *testing.T) {
	if _, err := ParseDiscountType("percentage"); err != nil {
		t.Fatalf("ParseDiscountType: %v", err)
	}
	if _, err := ParseDiscountType("fixed"); err != nil {
		t.Fatalf("ParseDiscountType: %v", err)
	}
	if _, err := ParseDiscountType("bogof"); err == nil {
		t.Fatal("expected error for unknown discount type")
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode(" welcome10 "); got != "WELCOME10" {
		t.Fatalf("NormalizeCode = %q", got)
	}
}
