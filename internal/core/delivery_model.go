package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery is one physical fulfillment against an order.
type Delivery struct {
	ID            int             `json:"id"`
	OrderID       int             `json:"order_id"`
	DeliveryBoyID int             `json:"delivery_boy_id"`
	DeliveryDate  string          `json:"delivery_date"` // YYYY-MM-DD
	QtyOrdered    int             `json:"qty_ordered"`
	QtyReturn     int             `json:"qty_return"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateDeliveryInput is the input to DeliveryService.Create. QtyReturn is
// not an input; every delivery starts with zero returns.
type CreateDeliveryInput struct {
	OrderID       int
	DeliveryBoyID int
	DeliveryDate  string
	QtyOrdered    int
	TotalAmount   decimal.Decimal
	Notes         string
	ActingUserID  int
}

// DeliveryUpdate lists the mutable delivery fields. OrderID and QtyOrdered
// are fixed at creation.
type DeliveryUpdate struct {
	DeliveryBoyID *int
	DeliveryDate  *string
	QtyReturn     *int
	TotalAmount   *decimal.Decimal
	Notes         *string
}

func (u DeliveryUpdate) empty() bool {
	return u.DeliveryBoyID == nil && u.DeliveryDate == nil && u.QtyReturn == nil &&
		u.TotalAmount == nil && u.Notes == nil
}

// DeliveryFilter narrows DeliveryService.List. Zero values mean no filter.
type DeliveryFilter struct {
	OrderID       int
	DeliveryBoyID int
	Range         DateRange
}

func (in CreateDeliveryInput) validate() error {
	if in.QtyOrdered <= 0 {
		return InvalidArgumentf("qty_ordered must be a positive integer, got %d", in.QtyOrdered)
	}
	if in.TotalAmount.IsNegative() {
		return InvalidArgumentf("total_amount must not be negative, got %s", in.TotalAmount)
	}
	if _, err := ParseDate("delivery_date", in.DeliveryDate); err != nil {
		return err
	}
	if in.ActingUserID <= 0 {
		return InvalidArgumentf("acting user is required")
	}
	return nil
}

func (u DeliveryUpdate) validate() error {
	if u.QtyReturn != nil && *u.QtyReturn < 0 {
		return InvalidArgumentf("qty_return must not be negative, got %d", *u.QtyReturn)
	}
	if u.TotalAmount != nil && u.TotalAmount.IsNegative() {
		return InvalidArgumentf("total_amount must not be negative, got %s", *u.TotalAmount)
	}
	if u.DeliveryDate != nil {
		if _, err := ParseDate("delivery_date", *u.DeliveryDate); err != nil {
			return err
		}
	}
	return nil
}

// StatusHistoryEntry is one append-only status transition of a delivery.
type StatusHistoryEntry struct {
	ID          int       `json:"id"`
	DeliveryID  int       `json:"order_delivery_id"`
	StatusID    int       `json:"status_id"`
	StatusTitle string    `json:"status_title"` // joined from order_statuses
	UpdatedBy   int       `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
}
