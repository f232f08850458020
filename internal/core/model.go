package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a sellable water SKU. Price is the current unit price; orders
// copy it at creation time.
type Service struct {
	ID         int             `json:"id"`
	Title      string          `json:"title"`
	Qty        int             `json:"qty"`
	MeasureID  *int            `json:"measure_id,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Notes      string          `json:"notes"`
	ServiceImg string          `json:"service_img"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderStatus is an admin-managed delivery status such as Pending or Completed.
type OrderStatus struct {
	ID        int       `json:"id"`
	Title     string    `json:"status_title"`
	Priority  int       `json:"status_priority"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Zone struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	FromArea  string    `json:"from_area"`
	ToArea    string    `json:"to_area"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Society struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	ZoneID    int       `json:"zone_id"`
	ZoneTitle string    `json:"zone_title"` // joined from zones
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Measure struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Role struct {
	ID        int       `json:"id"`
	Name      string    `json:"rolename"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
