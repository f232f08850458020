package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderService creates and maintains customer orders with price integrity.
type OrderService interface {
	// Create snapshots the active service's current price and persists the
	// order with sub_total and grand_total computed from it.
	Create(ctx context.Context, in CreateOrderInput) (int, error)

	// Update applies the supplied fields. Quantity or discount changes re-price
	// the order at the service's current price. Returns false when the order
	// does not exist or no field was supplied.
	Update(ctx context.Context, orderID int, u OrderUpdate) (bool, error)

	GetByID(ctx context.Context, orderID int) (*Order, error)
	List(ctx context.Context, f OrderFilter) ([]Order, error)
	ListByCustomer(ctx context.Context, userID int) ([]Order, error)

	// SoftDelete flags the order deleted; it disappears from reads and reports.
	SoftDelete(ctx context.Context, orderID int) error
}

type orderService struct {
	pool *pgxpool.Pool
}

func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool}
}

const orderColumns = `
	o.id, o.user_id, o.service_id, COALESCE(s.title, ''), o.quantity, o.price,
	o.sub_total, o.discount, o.grand_total, COALESCE(o.notes, ''), o.created_at, o.updated_at`

const orderFrom = `
	FROM orders o
	LEFT JOIN services s ON s.id = o.service_id
	WHERE NOT o.is_deleted`

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.ServiceID, &o.ServiceTitle, &o.Quantity, &o.Price,
		&o.SubTotal, &o.Discount, &o.GrandTotal, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// activeServicePrice returns the current price of a live, active service.
func activeServicePrice(ctx context.Context, q pgxQuerier, serviceID int) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := q.QueryRow(ctx,
		"SELECT price FROM services WHERE id = $1 AND is_active AND NOT is_deleted", serviceID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, NotFoundf("service %d not found or is inactive", serviceID)
		}
		return decimal.Zero, fmt.Errorf("failed to fetch service price: %w", err)
	}
	return price, nil
}

func (s *orderService) Create(ctx context.Context, in CreateOrderInput) (int, error) {
	if err := validateQuantity(in.Quantity); err != nil {
		return 0, err
	}
	if err := validateDiscount(in.Discount); err != nil {
		return 0, err
	}

	price, err := activeServicePrice(ctx, s.pool, in.ServiceID)
	if err != nil {
		return 0, err
	}

	subTotal, grandTotal := computeTotals(price, in.Quantity, in.Discount)
	if grandTotal.IsNegative() {
		return 0, InvalidArgumentf("discount %s exceeds sub_total %s", in.Discount, subTotal)
	}

	var id int
	err = s.pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, service_id, quantity, price, sub_total, discount, grand_total, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), now())
		RETURNING id`,
		in.UserID, in.ServiceID, in.Quantity, price, subTotal, in.Discount, grandTotal, in.Notes,
	).Scan(&id)
	if err != nil {
		return 0, classifyPgError(err, "create order", "invalid user_id or service_id")
	}
	return id, nil
}

func (s *orderService) Update(ctx context.Context, orderID int, u OrderUpdate) (bool, error) {
	if u.empty() {
		return false, nil
	}
	if u.Quantity != nil {
		if err := validateQuantity(*u.Quantity); err != nil {
			return false, err
		}
	}
	if u.Discount != nil {
		if err := validateDiscount(*u.Discount); err != nil {
			return false, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var quantity, serviceID int
	var discount decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT quantity, discount, service_id FROM orders WHERE id = $1 AND NOT is_deleted FOR UPDATE", orderID,
	).Scan(&quantity, &discount, &serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	var sets []setClause
	if u.Quantity != nil || u.Discount != nil {
		if u.Quantity != nil {
			quantity = *u.Quantity
		}
		if u.Discount != nil {
			discount = *u.Discount
		}
		price, err := activeServicePrice(ctx, tx, serviceID)
		if err != nil {
			return false, err
		}
		subTotal, grandTotal := computeTotals(price, quantity, discount)
		if grandTotal.IsNegative() {
			return false, InvalidArgumentf("discount %s exceeds sub_total %s", discount, subTotal)
		}
		sets = append(sets,
			setClause{"quantity", quantity},
			setClause{"discount", discount},
			setClause{"price", price},
			setClause{"sub_total", subTotal},
			setClause{"grand_total", grandTotal},
		)
	}
	if u.Notes != nil {
		sets = append(sets, setClause{"notes", *u.Notes})
	}

	changed, err := execUpdate(ctx, tx, "orders", orderID, sets, "NOT is_deleted")
	if err != nil {
		return false, classifyPgError(err, "update order", "invalid order reference")
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit order update: %w", err)
	}
	return changed, nil
}

func (s *orderService) GetByID(ctx context.Context, orderID int) (*Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, "SELECT"+orderColumns+orderFrom+" AND o.id = $1", orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	return &o, nil
}

func (s *orderService) List(ctx context.Context, f OrderFilter) ([]Order, error) {
	q := "SELECT" + orderColumns + orderFrom
	var args []any
	if f.UserID > 0 {
		args = append(args, f.UserID)
		q += fmt.Sprintf(" AND o.user_id = $%d", len(args))
	}
	q, args = f.Range.appendTimestampFilter(q, args, "o.created_at")
	q += " ORDER BY o.created_at DESC, o.id DESC"

	return queryOrders(ctx, s.pool, q, args...)
}

func (s *orderService) ListByCustomer(ctx context.Context, userID int) ([]Order, error) {
	return s.List(ctx, OrderFilter{UserID: userID})
}

func (s *orderService) SoftDelete(ctx context.Context, orderID int) error {
	return softDelete(ctx, s.pool, "orders", "order", orderID)
}

func queryOrders(ctx context.Context, db pgxQuerier, q string, args ...any) ([]Order, error) {
	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
