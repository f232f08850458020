package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ── Report types ──────────────────────────────────────────────────────────────

// DashboardSummary holds the four headline figures. Missing aggregates are
// zero, never null.
type DashboardSummary struct {
	TotalActiveCustomers  int             `json:"totalActiveCustomers"`
	TodaysSalesTotal      decimal.Decimal `json:"todaysSalesTotal"`
	TodaysDeliveriesCount int             `json:"todaysDeliveriesCount"`
	TotalDueAmount        decimal.Decimal `json:"totalDueAmount"`
}

// CustomerProfile is the billing view of a user, without credentials.
type CustomerProfile struct {
	ID        int             `json:"id"`
	FirstName string          `json:"firstname"`
	LastName  string          `json:"lastname"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	Address1  string          `json:"address_1"`
	Address2  string          `json:"address_2"`
	City      string          `json:"city"`
	State     string          `json:"state"`
	Deposit   decimal.Decimal `json:"deposit"`
	DueAmount decimal.Decimal `json:"due_amount"`
}

// Invoice is a per-customer statement over an inclusive date range, read
// from a single snapshot.
//
// PreviousDue is derived from the customer's cached due_amount:
//
//	due_amount - CurrentPeriodDue + CurrentPeriodPaid
//
// floored at zero for display. TotalDue uses the unfloored value so that
// TotalDue always equals the cached due_amount. LedgerPreviousDue replays the
// order and payment ledgers before the range start and can be compared
// against PreviousDue to spot drift in the cached balance.
type Invoice struct {
	Customer          CustomerProfile `json:"customerInfo"`
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	Orders            []Order         `json:"orders"`
	Deliveries        []Delivery      `json:"deliveries"`
	Payments          []Payment       `json:"payments"`
	PreviousDue       decimal.Decimal `json:"previousDue"`
	CurrentPeriodDue  decimal.Decimal `json:"currentPeriodDue"`
	CurrentPeriodPaid decimal.Decimal `json:"currentPeriodPaid"`
	TotalDue          decimal.Decimal `json:"totalDue"`
	LedgerPreviousDue decimal.Decimal `json:"ledgerPreviousDue"`
}

// ── Service ───────────────────────────────────────────────────────────────────

// ReportingService derives read-only aggregates across orders, deliveries,
// payments and expenses.
type ReportingService interface {
	// DashboardSummary computes its four figures concurrently. "Today" is the
	// database server's CURRENT_DATE.
	DashboardSummary(ctx context.Context) (*DashboardSummary, error)

	// SalesTotal sums order grand_total for orders created within r, with
	// r.End inclusive through the end of that day. Both bounds are required.
	SalesTotal(ctx context.Context, r DateRange) (decimal.Decimal, error)

	// ExpensesTotal sums expense amounts whose expense_date falls within r.
	ExpensesTotal(ctx context.Context, r DateRange) (decimal.Decimal, error)

	// InvoiceData assembles a customer's statement inside one read-only
	// REPEATABLE READ transaction. Returns NotFound for an unknown customer.
	InvoiceData(ctx context.Context, userID int, r DateRange) (*Invoice, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by PostgreSQL.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func requireBounds(r DateRange) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return InvalidArgumentf("startDate and endDate are required (YYYY-MM-DD)")
	}
	if r.Start.After(r.End) {
		return InvalidArgumentf("startDate %s is after endDate %s",
			r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return nil
}

func (s *reportingService) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var sum DashboardSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.pool.QueryRow(gctx,
			"SELECT COUNT(*) FROM users WHERE is_active AND NOT is_deleted",
		).Scan(&sum.TotalActiveCustomers)
		if err != nil {
			return fmt.Errorf("failed to count active customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.pool.QueryRow(gctx, `
			SELECT COALESCE(SUM(grand_total), 0) FROM orders
			WHERE NOT is_deleted AND created_at >= CURRENT_DATE AND created_at < CURRENT_DATE + 1`,
		).Scan(&sum.TodaysSalesTotal)
		if err != nil {
			return fmt.Errorf("failed to total today's sales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.pool.QueryRow(gctx,
			"SELECT COUNT(*) FROM order_deliveries WHERE delivery_date = CURRENT_DATE AND "+liveOrder,
		).Scan(&sum.TodaysDeliveriesCount)
		if err != nil {
			return fmt.Errorf("failed to count today's deliveries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.pool.QueryRow(gctx,
			"SELECT COALESCE(SUM(due_amount), 0) FROM users WHERE is_active AND NOT is_deleted",
		).Scan(&sum.TotalDueAmount)
		if err != nil {
			return fmt.Errorf("failed to total due amount: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sum, nil
}

func (s *reportingService) SalesTotal(ctx context.Context, r DateRange) (decimal.Decimal, error) {
	if err := requireBounds(r); err != nil {
		return decimal.Zero, err
	}
	q, args := r.appendTimestampFilter(
		"SELECT COALESCE(SUM(grand_total), 0) FROM orders WHERE NOT is_deleted", nil, "created_at")

	var total decimal.Decimal
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to total sales: %w", err)
	}
	return total, nil
}

func (s *reportingService) ExpensesTotal(ctx context.Context, r DateRange) (decimal.Decimal, error) {
	if err := requireBounds(r); err != nil {
		return decimal.Zero, err
	}
	q, args := r.appendDateFilter(
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE NOT is_deleted", nil, "expense_date")

	var total decimal.Decimal
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to total expenses: %w", err)
	}
	return total, nil
}

func (s *reportingService) InvoiceData(ctx context.Context, userID int, r DateRange) (*Invoice, error) {
	if err := requireBounds(r); err != nil {
		return nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inv := &Invoice{
		StartDate: r.Start.Format(DateLayout),
		EndDate:   r.End.Format(DateLayout),
	}

	c := &inv.Customer
	err = tx.QueryRow(ctx, `
		SELECT id, firstname, lastname, phone, COALESCE(email, ''), COALESCE(address_1, ''),
		       COALESCE(address_2, ''), city, state, deposit, due_amount
		FROM users
		WHERE id = $1 AND NOT is_deleted`, userID,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.Address1,
		&c.Address2, &c.City, &c.State, &c.Deposit, &c.DueAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("customer %d not found", userID)
		}
		return nil, fmt.Errorf("failed to get customer %d: %w", userID, err)
	}

	q, args := r.appendTimestampFilter("SELECT"+orderColumns+orderFrom+" AND o.user_id = $1", []any{userID}, "o.created_at")
	if inv.Orders, err = queryOrders(ctx, tx, q+" ORDER BY o.created_at, o.id", args...); err != nil {
		return nil, err
	}

	q, args = r.appendDateFilter(deliveryColumns+`
		AND order_id IN (SELECT id FROM orders WHERE user_id = $1 AND NOT is_deleted)`,
		[]any{userID}, "delivery_date")
	if inv.Deliveries, err = queryDeliveries(ctx, tx, q+" ORDER BY delivery_date, created_at, id", args...); err != nil {
		return nil, err
	}

	q, args = r.appendTimestampFilter(paymentColumns+" AND buyer_id = $1", []any{userID}, "created_at")
	if inv.Payments, err = queryPayments(ctx, tx, q+" ORDER BY created_at, id", args...); err != nil {
		return nil, err
	}

	var ordersBefore, paidBefore decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(grand_total) FROM orders
			          WHERE user_id = $1 AND NOT is_deleted AND created_at < $2), 0),
			COALESCE((SELECT SUM(payment_received) FROM payment_history
			          WHERE buyer_id = $1 AND created_at < $2), 0)`,
		userID, r.Start,
	).Scan(&ordersBefore, &paidBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to compute ledger balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice snapshot: %w", err)
	}

	for _, o := range inv.Orders {
		inv.CurrentPeriodDue = inv.CurrentPeriodDue.Add(o.GrandTotal)
	}
	for _, p := range inv.Payments {
		inv.CurrentPeriodPaid = inv.CurrentPeriodPaid.Add(p.Received)
	}
	inv.fillBalances(c.DueAmount, ordersBefore.Sub(paidBefore))
	return inv, nil
}

// fillBalances derives PreviousDue and TotalDue from the cached due amount
// and the period totals already on inv.
func (inv *Invoice) fillBalances(cachedDue, ledgerPreviousDue decimal.Decimal) {
	previous := cachedDue.Sub(inv.CurrentPeriodDue).Add(inv.CurrentPeriodPaid)
	inv.TotalDue = previous.Add(inv.CurrentPeriodDue).Sub(inv.CurrentPeriodPaid)
	if previous.IsNegative() {
		previous = decimal.Zero
	}
	inv.PreviousDue = previous
	inv.LedgerPreviousDue = ledgerPreviousDue
}
