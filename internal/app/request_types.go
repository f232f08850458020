package app

// OrderQuery filters ListOrders. Zero values mean no filter.
type OrderQuery struct {
	UserID    int
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive through end of day
}

// DeliveryQuery filters ListDeliveries on delivery_date.
type DeliveryQuery struct {
	OrderID       int
	DeliveryBoyID int
	StartDate     string
	EndDate       string
}

// PaymentQuery filters ListPayments on the payment timestamp.
type PaymentQuery struct {
	BuyerID   int
	StartDate string
	EndDate   string
}

// CreateZoneRequest is the input for creating a delivery zone.
type CreateZoneRequest struct {
	Title    string
	FromArea string
	ToArea   string
}

// AdminBootstrap names the administrator ensured at startup.
type AdminBootstrap struct {
	RoleName  string
	FirstName string
	Phone     string
	Password  string
}
