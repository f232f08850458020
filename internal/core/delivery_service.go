package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InitialStatus names the status every new delivery starts in. FallbackID
// is used when no live status carries Title.
type InitialStatus struct {
	Title      string
	FallbackID int
}

// DefaultInitialStatus is the canonical Pending status.
var DefaultInitialStatus = InitialStatus{Title: "Pending", FallbackID: 1}

// DeliveryService records fulfillment instances against orders.
type DeliveryService interface {
	// Create inserts the delivery and its initial status-history row in one
	// transaction. Neither row persists unless both do.
	Create(ctx context.Context, in CreateDeliveryInput) (int, error)

	// Update changes the mutable fields. Status history is not touched.
	// Returns false when no row matched or no field was supplied.
	Update(ctx context.Context, deliveryID int, u DeliveryUpdate) (bool, error)

	GetByID(ctx context.Context, deliveryID int) (*Delivery, error)
	List(ctx context.Context, f DeliveryFilter) ([]Delivery, error)
	ListByOrder(ctx context.Context, orderID int) ([]Delivery, error)
	ListByDeliveryBoy(ctx context.Context, deliveryBoyID int) ([]Delivery, error)
}

type deliveryService struct {
	pool    *pgxpool.Pool
	initial InitialStatus
}

func NewDeliveryService(pool *pgxpool.Pool, initial InitialStatus) DeliveryService {
	return &deliveryService{pool: pool, initial: initial}
}

// liveOrder limits deliveries to those whose order is not soft-deleted.
const liveOrder = "EXISTS (SELECT 1 FROM orders o WHERE o.id = order_deliveries.order_id AND NOT o.is_deleted)"

const deliveryColumns = `
	SELECT id, order_id, delivery_boy_id, delivery_date::text, qty_ordered, qty_return,
	       total_amount, COALESCE(notes, ''), created_at, updated_at
	FROM order_deliveries
	WHERE ` + liveOrder

const deliveryOrder = " ORDER BY delivery_date DESC, created_at DESC, id DESC"

func scanDelivery(row rowScanner) (Delivery, error) {
	var d Delivery
	err := row.Scan(&d.ID, &d.OrderID, &d.DeliveryBoyID, &d.DeliveryDate, &d.QtyOrdered, &d.QtyReturn,
		&d.TotalAmount, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *deliveryService) Create(ctx context.Context, in CreateDeliveryInput) (int, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	deliveryDate, _ := ParseDate("delivery_date", in.DeliveryDate)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The share lock keeps the order from being soft-deleted before commit.
	var one int
	err = tx.QueryRow(ctx,
		"SELECT 1 FROM orders WHERE id = $1 AND NOT is_deleted FOR SHARE", in.OrderID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, NotFoundf("order %d not found", in.OrderID)
		}
		return 0, fmt.Errorf("failed to lock order %d: %w", in.OrderID, err)
	}

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO order_deliveries (order_id, delivery_boy_id, delivery_date, qty_ordered, qty_return, total_amount, notes, created_at)
		VALUES ($1, $2, $3, $4, 0, $5, NULLIF($6, ''), now())
		RETURNING id`,
		in.OrderID, in.DeliveryBoyID, deliveryDate, in.QtyOrdered, in.TotalAmount, in.Notes,
	).Scan(&id)
	if err != nil {
		return 0, classifyPgError(err, "create delivery", "invalid order_id or delivery_boy_id")
	}

	statusID, err := s.initialStatusID(ctx, tx)
	if err != nil {
		return 0, err
	}

	if _, err := appendStatus(ctx, tx, id, statusID, in.ActingUserID); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit delivery: %w", err)
	}
	return id, nil
}

// initialStatusID resolves the configured initial status by title, then by
// the fallback id.
func (s *deliveryService) initialStatusID(ctx context.Context, q pgxQuerier) (int, error) {
	var id int
	err := q.QueryRow(ctx, `
		SELECT id FROM order_statuses
		WHERE status_title = $1 AND is_active AND NOT is_deleted
		ORDER BY id LIMIT 1`, s.initial.Title,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to resolve initial status: %w", err)
	}

	if s.initial.FallbackID > 0 {
		err = q.QueryRow(ctx,
			"SELECT id FROM order_statuses WHERE id = $1 AND NOT is_deleted", s.initial.FallbackID,
		).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("failed to resolve fallback status: %w", err)
		}
	}
	return 0, Configurationf("default order status %q is not configured", s.initial.Title)
}

func (s *deliveryService) Update(ctx context.Context, deliveryID int, u DeliveryUpdate) (bool, error) {
	if u.empty() {
		return false, nil
	}
	if err := u.validate(); err != nil {
		return false, err
	}

	var sets []setClause
	if u.DeliveryBoyID != nil {
		sets = append(sets, setClause{"delivery_boy_id", *u.DeliveryBoyID})
	}
	if u.DeliveryDate != nil {
		d, _ := ParseDate("delivery_date", *u.DeliveryDate)
		sets = append(sets, setClause{"delivery_date", d})
	}
	if u.QtyReturn != nil {
		sets = append(sets, setClause{"qty_return", *u.QtyReturn})
	}
	if u.TotalAmount != nil {
		sets = append(sets, setClause{"total_amount", *u.TotalAmount})
	}
	if u.Notes != nil {
		sets = append(sets, setClause{"notes", *u.Notes})
	}

	changed, err := execUpdate(ctx, s.pool, "order_deliveries", deliveryID, sets, liveOrder)
	if err != nil {
		return false, classifyPgError(err, "update delivery", "invalid delivery_boy_id")
	}
	return changed, nil
}

func (s *deliveryService) GetByID(ctx context.Context, deliveryID int) (*Delivery, error) {
	d, err := scanDelivery(s.pool.QueryRow(ctx, deliveryColumns+" AND id = $1", deliveryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("delivery %d not found", deliveryID)
		}
		return nil, fmt.Errorf("failed to get delivery %d: %w", deliveryID, err)
	}
	return &d, nil
}

func (s *deliveryService) List(ctx context.Context, f DeliveryFilter) ([]Delivery, error) {
	q := deliveryColumns
	var args []any
	if f.OrderID > 0 {
		args = append(args, f.OrderID)
		q += fmt.Sprintf(" AND order_id = $%d", len(args))
	}
	if f.DeliveryBoyID > 0 {
		args = append(args, f.DeliveryBoyID)
		q += fmt.Sprintf(" AND delivery_boy_id = $%d", len(args))
	}
	q, args = f.Range.appendDateFilter(q, args, "delivery_date")
	q += deliveryOrder

	return queryDeliveries(ctx, s.pool, q, args...)
}

func queryDeliveries(ctx context.Context, db pgxQuerier, q string, args ...any) ([]Delivery, error) {
	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

func (s *deliveryService) ListByOrder(ctx context.Context, orderID int) ([]Delivery, error) {
	return s.List(ctx, DeliveryFilter{OrderID: orderID})
}

func (s *deliveryService) ListByDeliveryBoy(ctx context.Context, deliveryBoyID int) ([]Delivery, error) {
	return s.List(ctx, DeliveryFilter{DeliveryBoyID: deliveryBoyID})
}
