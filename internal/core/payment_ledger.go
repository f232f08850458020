package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PaymentMode is the channel a payment arrived through. The set is closed.
type PaymentMode string

const (
	PaymentCash       PaymentMode = "cash"
	PaymentCheque     PaymentMode = "cheque"
	PaymentPaytm      PaymentMode = "paytm"
	PaymentGPay       PaymentMode = "gpay"
	PaymentPhonePe    PaymentMode = "phonepe"
	PaymentNetBanking PaymentMode = "netbanking"
)

// PaymentModes lists every accepted mode.
var PaymentModes = []PaymentMode{
	PaymentCash, PaymentCheque, PaymentPaytm, PaymentGPay, PaymentPhonePe, PaymentNetBanking,
}

// ParsePaymentMode validates a mode string.
func ParsePaymentMode(s string) (PaymentMode, error) {
	for _, m := range PaymentModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", InvalidArgumentf("unrecognized payment_mode %q", s)
}

// Payment is a point-in-time record of money received from a customer.
// DueSnapshot is stored exactly as supplied.
type Payment struct {
	ID          int             `json:"id"`
	BuyerID     int             `json:"buyer_id"`
	Mode        PaymentMode     `json:"payment_mode"`
	ReceivedBy  int             `json:"payment_received_by"`
	Received    decimal.Decimal `json:"payment_received"`
	DueSnapshot decimal.Decimal `json:"payment_due"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RecordPaymentInput is the input to PaymentLedger.Record.
type RecordPaymentInput struct {
	BuyerID     int
	Mode        string
	ReceivedBy  int
	Received    decimal.Decimal
	DueSnapshot decimal.Decimal
	Notes       string
}

// PaymentFilter narrows PaymentLedger.List. Zero values mean no filter.
type PaymentFilter struct {
	BuyerID int
	Range   DateRange
}

// PaymentLedger is the append-only record of payments. It performs no
// balance arithmetic and never changes the buyer's cached due amount.
type PaymentLedger interface {
	Record(ctx context.Context, in RecordPaymentInput) (int, error)
	GetByID(ctx context.Context, paymentID int) (*Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]Payment, error)
	ListByBuyer(ctx context.Context, buyerID int) ([]Payment, error)
}

type paymentLedger struct {
	pool *pgxpool.Pool
}

func NewPaymentLedger(pool *pgxpool.Pool) PaymentLedger {
	return &paymentLedger{pool: pool}
}

const paymentColumns = `
	SELECT id, buyer_id, payment_mode, payment_received_by, payment_received, payment_due,
	       COALESCE(notes, ''), created_at
	FROM payment_history
	WHERE true`

func scanPayment(row rowScanner) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.BuyerID, &p.Mode, &p.ReceivedBy, &p.Received, &p.DueSnapshot, &p.Notes, &p.CreatedAt)
	return p, err
}

func (l *paymentLedger) Record(ctx context.Context, in RecordPaymentInput) (int, error) {
	mode, err := ParsePaymentMode(in.Mode)
	if err != nil {
		return 0, err
	}
	if !in.Received.IsPositive() {
		return 0, InvalidArgumentf("payment_received must be a positive number, got %s", in.Received)
	}

	var id int
	err = l.pool.QueryRow(ctx, `
		INSERT INTO payment_history (buyer_id, payment_mode, payment_received_by, payment_received, payment_due, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), now())
		RETURNING id`,
		in.BuyerID, string(mode), in.ReceivedBy, in.Received, in.DueSnapshot, in.Notes,
	).Scan(&id)
	if err != nil {
		return 0, classifyPgError(err, "record payment", "invalid buyer_id or payment_received_by")
	}
	return id, nil
}

func (l *paymentLedger) GetByID(ctx context.Context, paymentID int) (*Payment, error) {
	p, err := scanPayment(l.pool.QueryRow(ctx, paymentColumns+" AND id = $1", paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("payment %d not found", paymentID)
		}
		return nil, fmt.Errorf("failed to get payment %d: %w", paymentID, err)
	}
	return &p, nil
}

func (l *paymentLedger) List(ctx context.Context, f PaymentFilter) ([]Payment, error) {
	q := paymentColumns
	var args []any
	if f.BuyerID > 0 {
		args = append(args, f.BuyerID)
		q += fmt.Sprintf(" AND buyer_id = $%d", len(args))
	}
	q, args = f.Range.appendTimestampFilter(q, args, "created_at")
	q += " ORDER BY created_at DESC, id DESC"

	return queryPayments(ctx, l.pool, q, args...)
}

func queryPayments(ctx context.Context, db pgxQuerier, q string, args ...any) ([]Payment, error) {
	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (l *paymentLedger) ListByBuyer(ctx context.Context, buyerID int) ([]Payment, error) {
	return l.List(ctx, PaymentFilter{BuyerID: buyerID})
}
