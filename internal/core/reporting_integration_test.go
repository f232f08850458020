package core_test

import (
	"context"
	"testing"

	"water-admin/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// createOrderAt creates an order and backdates created_at to ts.
func createOrderAt(t *testing.T, pool *pgxpool.Pool, qty int, ts string) int {
	t.Helper()
	ctx := context.Background()
	id, err := core.NewOrderService(pool).Create(ctx, core.CreateOrderInput{
		UserID: customerID, ServiceID: jarServiceID, Quantity: qty,
	})
	if err != nil {
		t.Fatalf("Create order failed: %v", err)
	}
	if _, err := pool.Exec(ctx, "UPDATE orders SET created_at = $1::timestamp WHERE id = $2", ts, id); err != nil {
		t.Fatalf("backdate order failed: %v", err)
	}
	return id
}

// recordPaymentAt records a cash payment and backdates created_at to ts.
func recordPaymentAt(t *testing.T, pool *pgxpool.Pool, amount int64, ts string) int {
	t.Helper()
	ctx := context.Background()
	id, err := core.NewPaymentLedger(pool).Record(ctx, core.RecordPaymentInput{
		BuyerID: customerID, Mode: "cash", ReceivedBy: adminID, Received: decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatalf("Record payment failed: %v", err)
	}
	if _, err := pool.Exec(ctx, "UPDATE payment_history SET created_at = $1::timestamp WHERE id = $2", ts, id); err != nil {
		t.Fatalf("backdate payment failed: %v", err)
	}
	return id
}

func TestReporting_SalesTotalInclusiveRange(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	createOrderAt(t, pool, 2, "2026-03-01 00:00:00") // 100, first instant of start day
	createOrderAt(t, pool, 4, "2026-03-31 23:59:59") // 200, last second of end day
	createOrderAt(t, pool, 8, "2026-04-01 00:00:01") // 400, outside
	createOrderAt(t, pool, 1, "2026-02-28 23:59:59") // 50, outside

	r, err := core.RequiredDateRange("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("RequiredDateRange failed: %v", err)
	}
	total, err := reporting.SalesTotal(ctx, r)
	if err != nil {
		t.Fatalf("SalesTotal failed: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(300)) {
		t.Errorf("sales total: want 300, got %s", total)
	}

	empty, _ := core.RequiredDateRange("2025-01-01", "2025-01-31")
	zero, err := reporting.SalesTotal(ctx, empty)
	if err != nil {
		t.Fatalf("SalesTotal failed: %v", err)
	}
	if !zero.IsZero() {
		t.Errorf("empty range: want 0, got %s", zero)
	}

	if _, err := reporting.SalesTotal(ctx, core.DateRange{}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("open range: expected InvalidArgument, got %v", err)
	}
}

func TestReporting_ExpensesTotal(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	expenses := core.NewExpenseService(pool)
	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	for _, e := range []struct {
		date   string
		amount int64
	}{
		{"2026-03-01", 10},
		{"2026-03-31", 20},
		{"2026-04-01", 40},
	} {
		if _, err := expenses.Create(ctx, core.ExpenseInput{
			ExpenseType: "Fuel", ExpenseDate: e.date, Amount: decimal.NewFromInt(e.amount), Source: "Cash",
		}); err != nil {
			t.Fatalf("Create expense failed: %v", err)
		}
	}
	deleted, err := expenses.Create(ctx, core.ExpenseInput{
		ExpenseType: "Repairs", ExpenseDate: "2026-03-15", Amount: decimal.NewFromInt(1000), Source: "Bank",
	})
	if err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}
	if err := expenses.SoftDelete(ctx, deleted); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	r, _ := core.RequiredDateRange("2026-03-01", "2026-03-31")
	total, err := reporting.ExpensesTotal(ctx, r)
	if err != nil {
		t.Fatalf("ExpensesTotal failed: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expenses total: want 30, got %s", total)
	}
}

func TestReporting_DashboardSummary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	// An empty day still yields zeros.
	sum, err := reporting.DashboardSummary(ctx)
	if err != nil {
		t.Fatalf("DashboardSummary failed: %v", err)
	}
	if sum.TotalActiveCustomers != 3 {
		t.Errorf("active customers: want 3, got %d", sum.TotalActiveCustomers)
	}
	if !sum.TodaysSalesTotal.IsZero() || sum.TodaysDeliveriesCount != 0 || !sum.TotalDueAmount.IsZero() {
		t.Errorf("want zero figures, got %+v", sum)
	}

	orderID, err := core.NewOrderService(pool).Create(ctx, core.CreateOrderInput{
		UserID: customerID, ServiceID: jarServiceID, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("Create order failed: %v", err)
	}
	var today string
	if err := pool.QueryRow(ctx, "SELECT CURRENT_DATE::text").Scan(&today); err != nil {
		t.Fatalf("CURRENT_DATE failed: %v", err)
	}
	in := newDelivery(orderID)
	in.DeliveryDate = today
	if _, err := core.NewDeliveryService(pool, core.DefaultInitialStatus).Create(ctx, in); err != nil {
		t.Fatalf("Create delivery failed: %v", err)
	}
	if _, err := pool.Exec(ctx, "UPDATE users SET due_amount = 75 WHERE id = $1", customerID); err != nil {
		t.Fatalf("due update failed: %v", err)
	}

	sum, err = reporting.DashboardSummary(ctx)
	if err != nil {
		t.Fatalf("DashboardSummary failed: %v", err)
	}
	if !sum.TodaysSalesTotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("today's sales: want 100, got %s", sum.TodaysSalesTotal)
	}
	if sum.TodaysDeliveriesCount != 1 {
		t.Errorf("today's deliveries: want 1, got %d", sum.TodaysDeliveriesCount)
	}
	if !sum.TotalDueAmount.Equal(decimal.NewFromInt(75)) {
		t.Errorf("total due: want 75, got %s", sum.TotalDueAmount)
	}
}

func TestReporting_InvoiceData(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	// 100 before the period, 150 - 5 inside it.
	createOrderAt(t, pool, 2, "2026-02-15 10:00:00")
	inPeriod := createOrderAt(t, pool, 3, "2026-03-05 08:00:00")
	if _, err := core.NewOrderService(pool).Update(ctx, inPeriod, core.OrderUpdate{Discount: decPtr(decimal.NewFromInt(5))}); err != nil {
		t.Fatalf("discount update failed: %v", err)
	}
	recordPaymentAt(t, pool, 100, "2026-03-10 12:00:00")
	recordPaymentAt(t, pool, 50, "2026-03-20 12:00:00")
	recordPaymentAt(t, pool, 999, "2026-04-02 12:00:00") // after the period

	in := newDelivery(inPeriod)
	in.DeliveryDate = "2026-03-06"
	if _, err := core.NewDeliveryService(pool, core.DefaultInitialStatus).Create(ctx, in); err != nil {
		t.Fatalf("Create delivery failed: %v", err)
	}
	if _, err := pool.Exec(ctx, "UPDATE users SET due_amount = 500 WHERE id = $1", customerID); err != nil {
		t.Fatalf("due update failed: %v", err)
	}

	r, _ := core.RequiredDateRange("2026-03-01", "2026-03-31")
	inv, err := reporting.InvoiceData(ctx, customerID, r)
	if err != nil {
		t.Fatalf("InvoiceData failed: %v", err)
	}

	if inv.Customer.ID != customerID || inv.Customer.Phone != "9000000002" {
		t.Errorf("customer profile: got %+v", inv.Customer)
	}
	if len(inv.Orders) != 1 || len(inv.Payments) != 2 || len(inv.Deliveries) != 1 {
		t.Fatalf("want 1 order, 2 payments, 1 delivery; got %d, %d, %d",
			len(inv.Orders), len(inv.Payments), len(inv.Deliveries))
	}
	if !inv.Payments[0].Received.Equal(decimal.NewFromInt(100)) {
		t.Errorf("payments must be oldest first, got %s first", inv.Payments[0].Received)
	}

	checks := []struct {
		name string
		got  decimal.Decimal
		want int64
	}{
		{"currentPeriodDue", inv.CurrentPeriodDue, 145},
		{"currentPeriodPaid", inv.CurrentPeriodPaid, 150},
		{"previousDue", inv.PreviousDue, 505}, // 500 - 145 + 150
		{"totalDue", inv.TotalDue, 500},
		{"ledgerPreviousDue", inv.LedgerPreviousDue, 100},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.NewFromInt(c.want)) {
			t.Errorf("%s: want %d, got %s", c.name, c.want, c.got)
		}
	}
}

func TestReporting_InvoiceFloorsPreviousDue(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	createOrderAt(t, pool, 4, "2026-03-05 08:00:00") // 200 in period, cached due stays 0

	r, _ := core.RequiredDateRange("2026-03-01", "2026-03-31")
	inv, err := reporting.InvoiceData(ctx, customerID, r)
	if err != nil {
		t.Fatalf("InvoiceData failed: %v", err)
	}
	if !inv.PreviousDue.IsZero() {
		t.Errorf("previousDue: want floored 0, got %s", inv.PreviousDue)
	}
	if !inv.TotalDue.IsZero() {
		t.Errorf("totalDue: want 0 (cached due), got %s", inv.TotalDue)
	}

	if _, err := reporting.InvoiceData(ctx, 9999, r); !core.IsKind(err, core.KindNotFound) {
		t.Errorf("unknown customer: expected NotFound, got %v", err)
	}
}
