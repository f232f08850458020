package app

import (
	"context"

	"water-admin/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no HTTP types, and no display logic of any kind.
//
// Date arguments are YYYY-MM-DD strings; malformed dates fail here with
// core.KindInvalidArgument before any engine is called.
type ApplicationService interface {
	// Login verifies phone and password and returns the session identity the
	// adapter signs into a token.
	Login(ctx context.Context, phone, password string) (*UserSession, error)

	// EnsureAdminUser creates the administrator role and user when missing.
	EnsureAdminUser(ctx context.Context, req AdminBootstrap) (*AdminBootstrapResult, error)

	// HasRole reports whether roleID is the id of the named role. A role name
	// missing from the database is a configuration error.
	HasRole(ctx context.Context, roleID int, roleName string) (bool, error)

	// RefreshRoleCache drops every cached role-name lookup.
	RefreshRoleCache(ctx context.Context) error

	// Orders
	CreateOrder(ctx context.Context, in core.CreateOrderInput) (int, error)
	UpdateOrder(ctx context.Context, orderID int, u core.OrderUpdate) (bool, error)
	GetOrder(ctx context.Context, orderID int) (*core.Order, error)
	ListOrders(ctx context.Context, q OrderQuery) ([]core.Order, error)
	ListCustomerOrders(ctx context.Context, userID int) ([]core.Order, error)
	DeleteOrder(ctx context.Context, orderID int) error

	// Deliveries and status history
	CreateDelivery(ctx context.Context, in core.CreateDeliveryInput) (int, error)
	UpdateDelivery(ctx context.Context, deliveryID int, u core.DeliveryUpdate) (bool, error)
	GetDelivery(ctx context.Context, deliveryID int) (*core.Delivery, error)
	ListDeliveries(ctx context.Context, q DeliveryQuery) ([]core.Delivery, error)
	ListOrderDeliveries(ctx context.Context, orderID int) ([]core.Delivery, error)
	ListDeliveryBoyDeliveries(ctx context.Context, deliveryBoyID int) ([]core.Delivery, error)
	DeliveryHistory(ctx context.Context, deliveryID int) ([]core.StatusHistoryEntry, error)
	AppendDeliveryStatus(ctx context.Context, deliveryID, statusID, actingUserID int) (int, error)

	// Payments
	RecordPayment(ctx context.Context, in core.RecordPaymentInput) (int, error)
	GetPayment(ctx context.Context, paymentID int) (*core.Payment, error)
	ListPayments(ctx context.Context, q PaymentQuery) ([]core.Payment, error)
	ListBuyerPayments(ctx context.Context, buyerID int) ([]core.Payment, error)

	// Reports
	DashboardSummary(ctx context.Context) (*core.DashboardSummary, error)
	SalesReport(ctx context.Context, startDate, endDate string) (*SalesReportResult, error)
	ExpenseReport(ctx context.Context, startDate, endDate string) (*ExpenseReportResult, error)
	Invoice(ctx context.Context, userID int, startDate, endDate string) (*core.Invoice, error)

	// Catalog
	ListServices(ctx context.Context, activeOnly bool) ([]core.Service, error)
	GetService(ctx context.Context, serviceID int) (*core.Service, error)
	CreateService(ctx context.Context, in core.ServiceInput) (int, error)
	UpdateService(ctx context.Context, serviceID int, u core.ServiceUpdate) (bool, error)
	DeleteService(ctx context.Context, serviceID int) error
	ListOrderStatuses(ctx context.Context) ([]core.OrderStatus, error)
	CreateOrderStatus(ctx context.Context, title string, priority int) (int, error)

	// Reference data
	ListZones(ctx context.Context) ([]core.Zone, error)
	GetZone(ctx context.Context, zoneID int) (*core.Zone, error)
	CreateZone(ctx context.Context, req CreateZoneRequest) (int, error)
	UpdateZone(ctx context.Context, zoneID int, u core.ZoneUpdate) (bool, error)
	DeleteZone(ctx context.Context, zoneID int) error
	ListSocieties(ctx context.Context, zoneID int) ([]core.Society, error)
	GetSociety(ctx context.Context, societyID int) (*core.Society, error)
	CreateSociety(ctx context.Context, name string, zoneID int) (int, error)
	UpdateSociety(ctx context.Context, societyID int, u core.SocietyUpdate) (bool, error)
	DeleteSociety(ctx context.Context, societyID int) error
	ListMeasures(ctx context.Context) ([]core.Measure, error)
	GetMeasure(ctx context.Context, measureID int) (*core.Measure, error)
	CreateMeasure(ctx context.Context, title, notes string) (int, error)
	UpdateMeasure(ctx context.Context, measureID int, u core.MeasureUpdate) (bool, error)
	DeleteMeasure(ctx context.Context, measureID int) error
	ListRoles(ctx context.Context) ([]core.Role, error)
	GetRole(ctx context.Context, roleID int) (*core.Role, error)
	CreateRole(ctx context.Context, name string) (int, error)
	UpdateRole(ctx context.Context, roleID int, u core.RoleUpdate) (bool, error)
	DeleteRole(ctx context.Context, roleID int) error

	// Users
	CreateUser(ctx context.Context, in core.CreateUserInput) (int, error)
	GetUser(ctx context.Context, userID int) (*core.User, error)
	ListUsers(ctx context.Context, f core.UserFilter) ([]core.User, error)
	UpdateUser(ctx context.Context, userID int, u core.UserUpdate) (bool, error)
	// UpdateProfile and ChangePassword act on the caller's own record.
	UpdateProfile(ctx context.Context, userID int, p core.ProfileUpdate) (bool, error)
	ChangePassword(ctx context.Context, userID int, current, next string) error
	DeleteUser(ctx context.Context, userID int) error

	// Expenses
	CreateExpense(ctx context.Context, in core.ExpenseInput) (int, error)
	GetExpense(ctx context.Context, expenseID int) (*core.Expense, error)
	ListExpenses(ctx context.Context, startDate, endDate string) ([]core.Expense, error)
	UpdateExpense(ctx context.Context, expenseID int, u core.ExpenseUpdate) (bool, error)
	DeleteExpense(ctx context.Context, expenseID int) error
}
