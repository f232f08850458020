package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		price, discount string
		qty             int
		sub, grand      string
	}{
		{"50", "5", 3, "150", "145"},
		{"12.50", "0", 4, "50", "50"},
		{"19.99", "0.99", 1, "19.99", "19"},
	}
	for _, tc := range tests {
		sub, grand := computeTotals(decimal.RequireFromString(tc.price), tc.qty, decimal.RequireFromString(tc.discount))
		if !sub.Equal(decimal.RequireFromString(tc.sub)) || !grand.Equal(decimal.RequireFromString(tc.grand)) {
			t.Errorf("%s x %d - %s: want %s/%s, got %s/%s", tc.price, tc.qty, tc.discount, tc.sub, tc.grand, sub, grand)
		}
	}
}

func TestOrderValidation(t *testing.T) {
	if err := validateQuantity(0); !IsKind(err, KindInvalidArgument) {
		t.Errorf("quantity 0: expected InvalidArgument, got %v", err)
	}
	if err := validateQuantity(1); err != nil {
		t.Errorf("quantity 1: %v", err)
	}
	if err := validateDiscount(decimal.NewFromInt(-1)); !IsKind(err, KindInvalidArgument) {
		t.Errorf("negative discount: expected InvalidArgument, got %v", err)
	}
	if !(OrderUpdate{}).empty() {
		t.Error("zero OrderUpdate must be empty")
	}
	notes := "x"
	if (OrderUpdate{Notes: &notes}).empty() {
		t.Error("OrderUpdate with notes must not be empty")
	}
}

func TestDeliveryValidation(t *testing.T) {
	valid := CreateDeliveryInput{
		OrderID: 1, DeliveryBoyID: 2, DeliveryDate: "2026-03-15",
		QtyOrdered: 1, TotalAmount: decimal.Zero, ActingUserID: 1,
	}
	if err := valid.validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*CreateDeliveryInput)
	}{
		{"zero qty", func(in *CreateDeliveryInput) { in.QtyOrdered = 0 }},
		{"negative amount", func(in *CreateDeliveryInput) { in.TotalAmount = decimal.NewFromInt(-1) }},
		{"bad date", func(in *CreateDeliveryInput) { in.DeliveryDate = "15/03/2026" }},
		{"no acting user", func(in *CreateDeliveryInput) { in.ActingUserID = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			if err := in.validate(); !IsKind(err, KindInvalidArgument) {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}

	neg := -1
	if err := (DeliveryUpdate{QtyReturn: &neg}).validate(); !IsKind(err, KindInvalidArgument) {
		t.Errorf("negative qty_return: expected InvalidArgument, got %v", err)
	}
	if !(DeliveryUpdate{}).empty() {
		t.Error("zero DeliveryUpdate must be empty")
	}
}

func TestParsePaymentMode(t *testing.T) {
	for _, m := range []string{"cash", "cheque", "paytm", "gpay", "phonepe", "netbanking"} {
		got, err := ParsePaymentMode(m)
		if err != nil || string(got) != m {
			t.Errorf("%s: got %q, %v", m, got, err)
		}
	}
	for _, m := range []string{"", "Cash", "upi", "card"} {
		if _, err := ParsePaymentMode(m); !IsKind(err, KindInvalidArgument) {
			t.Errorf("%q: expected InvalidArgument, got %v", m, err)
		}
	}
}

func TestExpenseValidation(t *testing.T) {
	valid := ExpenseInput{ExpenseType: "Fuel", ExpenseDate: "2026-03-01", Amount: decimal.NewFromInt(10), Source: ExpenseSourceCash}
	if _, err := valid.validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	bad := []ExpenseInput{
		{ExpenseType: "", ExpenseDate: "2026-03-01", Source: ExpenseSourceCash},
		{ExpenseType: "Fuel", ExpenseDate: "nope", Source: ExpenseSourceCash},
		{ExpenseType: "Fuel", ExpenseDate: "2026-03-01", Amount: decimal.NewFromInt(-1), Source: ExpenseSourceBank},
		{ExpenseType: "Fuel", ExpenseDate: "2026-03-01", Source: "Card"},
	}
	for i, in := range bad {
		if _, err := in.validate(); !IsKind(err, KindInvalidArgument) {
			t.Errorf("case %d: expected InvalidArgument, got %v", i, err)
		}
	}
}

func TestInvoiceBalances(t *testing.T) {
	tests := []struct {
		name                    string
		cached, due, paid       int64
		wantPrevious, wantTotal int64
	}{
		{"carried balance", 500, 145, 150, 505, 500},
		{"floored previous", 0, 200, 0, 0, 0},
		{"overpaid customer", -50, 0, 50, 0, -50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv := &Invoice{
				CurrentPeriodDue:  decimal.NewFromInt(tc.due),
				CurrentPeriodPaid: decimal.NewFromInt(tc.paid),
			}
			inv.fillBalances(decimal.NewFromInt(tc.cached), decimal.Zero)
			if !inv.PreviousDue.Equal(decimal.NewFromInt(tc.wantPrevious)) {
				t.Errorf("previousDue: want %d, got %s", tc.wantPrevious, inv.PreviousDue)
			}
			if !inv.TotalDue.Equal(decimal.NewFromInt(tc.wantTotal)) {
				t.Errorf("totalDue: want %d, got %s", tc.wantTotal, inv.TotalDue)
			}
		})
	}
}
