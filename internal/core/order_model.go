package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer order. Price is the service price captured when the
// order was created; SubTotal and GrandTotal are always derived from
// Quantity, Price and Discount.
type Order struct {
	ID           int             `json:"id"`
	UserID       int             `json:"user_id"`
	ServiceID    int             `json:"service_id"`
	ServiceTitle string          `json:"service_title"` // joined from services
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	SubTotal     decimal.Decimal `json:"sub_total"`
	Discount     decimal.Decimal `json:"discount"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateOrderInput is the input to OrderService.Create.
type CreateOrderInput struct {
	UserID    int
	ServiceID int
	Quantity  int
	Discount  decimal.Decimal // zero when absent
	Notes     string
}

// OrderUpdate lists the fields an order accepts after creation. A nil field
// is left unchanged.
type OrderUpdate struct {
	Quantity *int
	Discount *decimal.Decimal
	Notes    *string
}

func (u OrderUpdate) empty() bool {
	return u.Quantity == nil && u.Discount == nil && u.Notes == nil
}

// OrderFilter narrows OrderService.List. Zero values mean no filter.
type OrderFilter struct {
	UserID int
	Range  DateRange
}

// computeTotals returns sub_total = price × quantity and
// grand_total = sub_total − discount.
func computeTotals(price decimal.Decimal, quantity int, discount decimal.Decimal) (subTotal, grandTotal decimal.Decimal) {
	subTotal = price.Mul(decimal.NewFromInt(int64(quantity)))
	grandTotal = subTotal.Sub(discount)
	return subTotal, grandTotal
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return InvalidArgumentf("quantity must be a positive integer, got %d", quantity)
	}
	return nil
}

func validateDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return InvalidArgumentf("discount must not be negative, got %s", discount)
	}
	return nil
}
