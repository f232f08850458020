package app

import (
	"context"
	"fmt"

	"water-admin/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	orders     core.OrderService
	deliveries core.DeliveryService
	history    core.StatusHistory
	payments   core.PaymentLedger
	reporting  core.ReportingService
	catalog    core.CatalogService
	reference  core.ReferenceService
	users      core.UserService
	expenses   core.ExpenseService
	roles      core.RoleCache
}

// NewAppService constructs an appService that satisfies ApplicationService.
// roles resolves role names for authorization; initial names the status
// every new delivery starts in.
func NewAppService(pool *pgxpool.Pool, roles core.RoleCache, initial core.InitialStatus) ApplicationService {
	return &appService{
		orders:     core.NewOrderService(pool),
		deliveries: core.NewDeliveryService(pool, initial),
		history:    core.NewStatusHistory(pool),
		payments:   core.NewPaymentLedger(pool),
		reporting:  core.NewReportingService(pool),
		catalog:    core.NewCatalogService(pool),
		reference:  core.NewReferenceService(pool),
		users:      core.NewUserService(pool),
		expenses:   core.NewExpenseService(pool),
		roles:      roles,
	}
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func (s *appService) Login(ctx context.Context, phone, password string) (*UserSession, error) {
	u, err := s.users.Authenticate(ctx, phone, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{
		UserID:    u.ID,
		RoleID:    u.RoleID,
		RoleName:  u.RoleName,
		Phone:     u.Phone,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}, nil
}

func (s *appService) EnsureAdminUser(ctx context.Context, req AdminBootstrap) (*AdminBootstrapResult, error) {
	if req.Phone == "" || req.Password == "" {
		return nil, core.Configurationf("default admin phone and password are required")
	}
	res := &AdminBootstrapResult{}

	roleID, err := s.reference.RoleIDByName(ctx, req.RoleName)
	switch {
	case core.IsKind(err, core.KindNotFound):
		if roleID, err = s.reference.CreateRole(ctx, req.RoleName); err != nil {
			return nil, fmt.Errorf("failed to create %s role: %w", req.RoleName, err)
		}
		res.RoleCreated = true
	case err != nil:
		return nil, err
	}
	res.RoleID = roleID

	existing, err := s.users.GetByPhone(ctx, req.Phone)
	switch {
	case err == nil:
		res.UserID = existing.ID
		return res, nil
	case !core.IsKind(err, core.KindNotFound):
		return nil, err
	}

	name := req.FirstName
	if name == "" {
		name = "Admin"
	}
	res.UserID, err = s.users.Create(ctx, core.CreateUserInput{
		FirstName: name,
		Phone:     req.Phone,
		Password:  req.Password,
		RoleID:    roleID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	res.UserCreated = true
	return res, nil
}

func (s *appService) HasRole(ctx context.Context, roleID int, roleName string) (bool, error) {
	id, err := s.roles.RoleID(ctx, roleName)
	if err != nil {
		if core.IsKind(err, core.KindNotFound) {
			return false, core.Configurationf("role %q is not configured", roleName)
		}
		return false, err
	}
	return id == roleID, nil
}

func (s *appService) RefreshRoleCache(ctx context.Context) error {
	return s.roles.Refresh(ctx)
}

// ── Orders ───────────────────────────────────────────────────────────────────

func (s *appService) CreateOrder(ctx context.Context, in core.CreateOrderInput) (int, error) {
	return s.orders.Create(ctx, in)
}

func (s *appService) UpdateOrder(ctx context.Context, orderID int, u core.OrderUpdate) (bool, error) {
	return s.orders.Update(ctx, orderID, u)
}

func (s *appService) GetOrder(ctx context.Context, orderID int) (*core.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

func (s *appService) ListOrders(ctx context.Context, q OrderQuery) ([]core.Order, error) {
	r, err := core.NewDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	return s.orders.List(ctx, core.OrderFilter{UserID: q.UserID, Range: r})
}

func (s *appService) ListCustomerOrders(ctx context.Context, userID int) ([]core.Order, error) {
	return s.orders.ListByCustomer(ctx, userID)
}

func (s *appService) DeleteOrder(ctx context.Context, orderID int) error {
	return s.orders.SoftDelete(ctx, orderID)
}

// ── Deliveries ───────────────────────────────────────────────────────────────

func (s *appService) CreateDelivery(ctx context.Context, in core.CreateDeliveryInput) (int, error) {
	return s.deliveries.Create(ctx, in)
}

func (s *appService) UpdateDelivery(ctx context.Context, deliveryID int, u core.DeliveryUpdate) (bool, error) {
	return s.deliveries.Update(ctx, deliveryID, u)
}

func (s *appService) GetDelivery(ctx context.Context, deliveryID int) (*core.Delivery, error) {
	return s.deliveries.GetByID(ctx, deliveryID)
}

func (s *appService) ListDeliveries(ctx context.Context, q DeliveryQuery) ([]core.Delivery, error) {
	r, err := core.NewDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	return s.deliveries.List(ctx, core.DeliveryFilter{
		OrderID:       q.OrderID,
		DeliveryBoyID: q.DeliveryBoyID,
		Range:         r,
	})
}

func (s *appService) ListOrderDeliveries(ctx context.Context, orderID int) ([]core.Delivery, error) {
	return s.deliveries.ListByOrder(ctx, orderID)
}

func (s *appService) ListDeliveryBoyDeliveries(ctx context.Context, deliveryBoyID int) ([]core.Delivery, error) {
	return s.deliveries.ListByDeliveryBoy(ctx, deliveryBoyID)
}

func (s *appService) DeliveryHistory(ctx context.Context, deliveryID int) ([]core.StatusHistoryEntry, error) {
	return s.history.ListByDelivery(ctx, deliveryID)
}

// AppendDeliveryStatus checks the delivery exists so an unknown id reads as
// NotFound rather than a foreign-key failure.
func (s *appService) AppendDeliveryStatus(ctx context.Context, deliveryID, statusID, actingUserID int) (int, error) {
	if _, err := s.deliveries.GetByID(ctx, deliveryID); err != nil {
		return 0, err
	}
	return s.history.Append(ctx, deliveryID, statusID, actingUserID)
}

// ── Payments ─────────────────────────────────────────────────────────────────

func (s *appService) RecordPayment(ctx context.Context, in core.RecordPaymentInput) (int, error) {
	return s.payments.Record(ctx, in)
}

func (s *appService) GetPayment(ctx context.Context, paymentID int) (*core.Payment, error) {
	return s.payments.GetByID(ctx, paymentID)
}

func (s *appService) ListPayments(ctx context.Context, q PaymentQuery) ([]core.Payment, error) {
	r, err := core.NewDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	return s.payments.List(ctx, core.PaymentFilter{BuyerID: q.BuyerID, Range: r})
}

func (s *appService) ListBuyerPayments(ctx context.Context, buyerID int) ([]core.Payment, error) {
	return s.payments.ListByBuyer(ctx, buyerID)
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (s *appService) DashboardSummary(ctx context.Context) (*core.DashboardSummary, error) {
	return s.reporting.DashboardSummary(ctx)
}

func (s *appService) SalesReport(ctx context.Context, startDate, endDate string) (*SalesReportResult, error) {
	r, err := core.RequiredDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	total, err := s.reporting.SalesTotal(ctx, r)
	if err != nil {
		return nil, err
	}
	return &SalesReportResult{StartDate: startDate, EndDate: endDate, SalesTotal: total}, nil
}

func (s *appService) ExpenseReport(ctx context.Context, startDate, endDate string) (*ExpenseReportResult, error) {
	r, err := core.RequiredDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	total, err := s.reporting.ExpensesTotal(ctx, r)
	if err != nil {
		return nil, err
	}
	return &ExpenseReportResult{StartDate: startDate, EndDate: endDate, ExpensesTotal: total}, nil
}

func (s *appService) Invoice(ctx context.Context, userID int, startDate, endDate string) (*core.Invoice, error) {
	r, err := core.RequiredDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.reporting.InvoiceData(ctx, userID, r)
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func (s *appService) ListServices(ctx context.Context, activeOnly bool) ([]core.Service, error) {
	return s.catalog.ListServices(ctx, activeOnly)
}

func (s *appService) GetService(ctx context.Context, serviceID int) (*core.Service, error) {
	return s.catalog.GetService(ctx, serviceID)
}

func (s *appService) CreateService(ctx context.Context, in core.ServiceInput) (int, error) {
	return s.catalog.CreateService(ctx, in)
}

func (s *appService) UpdateService(ctx context.Context, serviceID int, u core.ServiceUpdate) (bool, error) {
	return s.catalog.UpdateService(ctx, serviceID, u)
}

func (s *appService) DeleteService(ctx context.Context, serviceID int) error {
	return s.catalog.DeleteService(ctx, serviceID)
}

func (s *appService) ListOrderStatuses(ctx context.Context) ([]core.OrderStatus, error) {
	return s.catalog.ListStatuses(ctx)
}

func (s *appService) CreateOrderStatus(ctx context.Context, title string, priority int) (int, error) {
	return s.catalog.CreateStatus(ctx, title, priority)
}

// ── Reference data ───────────────────────────────────────────────────────────

func (s *appService) ListZones(ctx context.Context) ([]core.Zone, error) {
	return s.reference.ListZones(ctx)
}

func (s *appService) CreateZone(ctx context.Context, req CreateZoneRequest) (int, error) {
	return s.reference.CreateZone(ctx, req.Title, req.FromArea, req.ToArea)
}

func (s *appService) GetZone(ctx context.Context, zoneID int) (*core.Zone, error) {
	return s.reference.GetZone(ctx, zoneID)
}

func (s *appService) UpdateZone(ctx context.Context, zoneID int, u core.ZoneUpdate) (bool, error) {
	return s.reference.UpdateZone(ctx, zoneID, u)
}

func (s *appService) DeleteZone(ctx context.Context, zoneID int) error {
	return s.reference.DeleteZone(ctx, zoneID)
}

func (s *appService) ListSocieties(ctx context.Context, zoneID int) ([]core.Society, error) {
	return s.reference.ListSocieties(ctx, zoneID)
}

func (s *appService) CreateSociety(ctx context.Context, name string, zoneID int) (int, error) {
	return s.reference.CreateSociety(ctx, name, zoneID)
}

func (s *appService) GetSociety(ctx context.Context, societyID int) (*core.Society, error) {
	return s.reference.GetSociety(ctx, societyID)
}

func (s *appService) UpdateSociety(ctx context.Context, societyID int, u core.SocietyUpdate) (bool, error) {
	return s.reference.UpdateSociety(ctx, societyID, u)
}

func (s *appService) DeleteSociety(ctx context.Context, societyID int) error {
	return s.reference.DeleteSociety(ctx, societyID)
}

func (s *appService) ListMeasures(ctx context.Context) ([]core.Measure, error) {
	return s.reference.ListMeasures(ctx)
}

func (s *appService) CreateMeasure(ctx context.Context, title, notes string) (int, error) {
	return s.reference.CreateMeasure(ctx, title, notes)
}

func (s *appService) GetMeasure(ctx context.Context, measureID int) (*core.Measure, error) {
	return s.reference.GetMeasure(ctx, measureID)
}

func (s *appService) UpdateMeasure(ctx context.Context, measureID int, u core.MeasureUpdate) (bool, error) {
	return s.reference.UpdateMeasure(ctx, measureID, u)
}

func (s *appService) DeleteMeasure(ctx context.Context, measureID int) error {
	return s.reference.DeleteMeasure(ctx, measureID)
}

func (s *appService) ListRoles(ctx context.Context) ([]core.Role, error) {
	return s.reference.ListRoles(ctx)
}

// CreateRole also drops cached lookups so a role recreated under an old
// name resolves to its new id.
func (s *appService) CreateRole(ctx context.Context, name string) (int, error) {
	id, err := s.reference.CreateRole(ctx, name)
	if err != nil {
		return 0, err
	}
	if err := s.roles.Refresh(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *appService) GetRole(ctx context.Context, roleID int) (*core.Role, error) {
	return s.reference.GetRole(ctx, roleID)
}

// UpdateRole refreshes the role cache after a change, as CreateRole does.
func (s *appService) UpdateRole(ctx context.Context, roleID int, u core.RoleUpdate) (bool, error) {
	changed, err := s.reference.UpdateRole(ctx, roleID, u)
	if err != nil || !changed {
		return changed, err
	}
	if err := s.roles.Refresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *appService) DeleteRole(ctx context.Context, roleID int) error {
	if err := s.reference.DeleteRole(ctx, roleID); err != nil {
		return err
	}
	return s.roles.Refresh(ctx)
}

// ── Users ────────────────────────────────────────────────────────────────────

func (s *appService) CreateUser(ctx context.Context, in core.CreateUserInput) (int, error) {
	return s.users.Create(ctx, in)
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *appService) ListUsers(ctx context.Context, f core.UserFilter) ([]core.User, error) {
	return s.users.List(ctx, f)
}

func (s *appService) UpdateUser(ctx context.Context, userID int, u core.UserUpdate) (bool, error) {
	return s.users.Update(ctx, userID, u)
}

func (s *appService) UpdateProfile(ctx context.Context, userID int, p core.ProfileUpdate) (bool, error) {
	return s.users.UpdateProfile(ctx, userID, p)
}

func (s *appService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	return s.users.ChangePassword(ctx, userID, current, next)
}

func (s *appService) DeleteUser(ctx context.Context, userID int) error {
	return s.users.SoftDelete(ctx, userID)
}

// ── Expenses ─────────────────────────────────────────────────────────────────

func (s *appService) CreateExpense(ctx context.Context, in core.ExpenseInput) (int, error) {
	return s.expenses.Create(ctx, in)
}

func (s *appService) GetExpense(ctx context.Context, expenseID int) (*core.Expense, error) {
	return s.expenses.GetByID(ctx, expenseID)
}

func (s *appService) ListExpenses(ctx context.Context, startDate, endDate string) ([]core.Expense, error) {
	r, err := core.NewDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.expenses.List(ctx, r)
}

func (s *appService) UpdateExpense(ctx context.Context, expenseID int, u core.ExpenseUpdate) (bool, error) {
	return s.expenses.Update(ctx, expenseID, u)
}

func (s *appService) DeleteExpense(ctx context.Context, expenseID int) error {
	return s.expenses.SoftDelete(ctx, expenseID)
}
