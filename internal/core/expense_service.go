package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Expense sources.
const (
	ExpenseSourceCash = "Cash"
	ExpenseSourceBank = "Bank"
)

// Expense is an operating cost recorded against a calendar date.
type Expense struct {
	ID          int             `json:"id"`
	ExpenseType string          `json:"expense_type"`
	ExpenseDate string          `json:"expense_date"` // YYYY-MM-DD
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	Remarks     string          `json:"remarks"`
	Note        string          `json:"note"`
	ApprovedBy  *int            `json:"approved_by,omitempty"`
	CreatedBy   *int            `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseInput is the input to ExpenseService.Create.
type ExpenseInput struct {
	ExpenseType string
	ExpenseDate string
	Amount      decimal.Decimal
	Source      string
	Remarks     string
	Note        string
	ApprovedBy  *int
	CreatedBy   *int
}

// ExpenseUpdate lists the mutable expense fields.
type ExpenseUpdate struct {
	ExpenseType *string
	ExpenseDate *string
	Amount      *decimal.Decimal
	Source      *string
	Remarks     *string
	Note        *string
	ApprovedBy  *int
}

// ExpenseService records operating expenses.
type ExpenseService interface {
	Create(ctx context.Context, in ExpenseInput) (int, error)
	GetByID(ctx context.Context, expenseID int) (*Expense, error)

	// List returns expenses newest first, optionally bounded by an inclusive
	// expense_date range.
	List(ctx context.Context, r DateRange) ([]Expense, error)
	Update(ctx context.Context, expenseID int, u ExpenseUpdate) (bool, error)
	SoftDelete(ctx context.Context, expenseID int) error
}

type expenseService struct {
	pool *pgxpool.Pool
}

func NewExpenseService(pool *pgxpool.Pool) ExpenseService {
	return &expenseService{pool: pool}
}

func validateExpenseSource(source string) error {
	if source != ExpenseSourceCash && source != ExpenseSourceBank {
		return InvalidArgumentf("source must be %s or %s, got %q", ExpenseSourceCash, ExpenseSourceBank, source)
	}
	return nil
}

func (in ExpenseInput) validate() (time.Time, error) {
	if strings.TrimSpace(in.ExpenseType) == "" {
		return time.Time{}, InvalidArgumentf("expense_type is required")
	}
	d, err := ParseDate("expense_date", in.ExpenseDate)
	if err != nil {
		return time.Time{}, err
	}
	if in.Amount.IsNegative() {
		return time.Time{}, InvalidArgumentf("amount must not be negative, got %s", in.Amount)
	}
	if err := validateExpenseSource(in.Source); err != nil {
		return time.Time{}, err
	}
	return d, nil
}

const expenseColumns = `
	SELECT id, expense_type, expense_date::text, amount, source, COALESCE(remarks, ''), COALESCE(note, ''),
	       approved_by, created_by, created_at, updated_at
	FROM expenses
	WHERE NOT is_deleted`

func scanExpense(row rowScanner) (Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.ExpenseType, &e.ExpenseDate, &e.Amount, &e.Source, &e.Remarks, &e.Note,
		&e.ApprovedBy, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (s *expenseService) Create(ctx context.Context, in ExpenseInput) (int, error) {
	date, err := in.validate()
	if err != nil {
		return 0, err
	}

	var id int
	err = s.pool.QueryRow(ctx, `
		INSERT INTO expenses (expense_type, expense_date, amount, source, remarks, note, approved_by, created_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
		RETURNING id`,
		in.ExpenseType, date, in.Amount, in.Source, in.Remarks, in.Note, in.ApprovedBy, in.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, classifyPgError(err, "create expense", "invalid approved_by or created_by")
	}
	return id, nil
}

func (s *expenseService) GetByID(ctx context.Context, expenseID int) (*Expense, error) {
	e, err := scanExpense(s.pool.QueryRow(ctx, expenseColumns+" AND id = $1", expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("expense %d not found", expenseID)
		}
		return nil, fmt.Errorf("failed to get expense %d: %w", expenseID, err)
	}
	return &e, nil
}

func (s *expenseService) List(ctx context.Context, r DateRange) ([]Expense, error) {
	q, args := r.appendDateFilter(expenseColumns, nil, "expense_date")
	q += " ORDER BY expense_date DESC, id DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *expenseService) Update(ctx context.Context, expenseID int, u ExpenseUpdate) (bool, error) {
	var sets []setClause
	if u.ExpenseType != nil {
		if strings.TrimSpace(*u.ExpenseType) == "" {
			return false, InvalidArgumentf("expense_type must not be empty")
		}
		sets = append(sets, setClause{"expense_type", *u.ExpenseType})
	}
	if u.ExpenseDate != nil {
		d, err := ParseDate("expense_date", *u.ExpenseDate)
		if err != nil {
			return false, err
		}
		sets = append(sets, setClause{"expense_date", d})
	}
	if u.Amount != nil {
		if u.Amount.IsNegative() {
			return false, InvalidArgumentf("amount must not be negative, got %s", *u.Amount)
		}
		sets = append(sets, setClause{"amount", *u.Amount})
	}
	if u.Source != nil {
		if err := validateExpenseSource(*u.Source); err != nil {
			return false, err
		}
		sets = append(sets, setClause{"source", *u.Source})
	}
	if u.Remarks != nil {
		sets = append(sets, setClause{"remarks", *u.Remarks})
	}
	if u.Note != nil {
		sets = append(sets, setClause{"note", *u.Note})
	}
	if u.ApprovedBy != nil {
		sets = append(sets, setClause{"approved_by", *u.ApprovedBy})
	}

	changed, err := execUpdate(ctx, s.pool, "expenses", expenseID, sets, "NOT is_deleted")
	if err != nil {
		return false, classifyPgError(err, "update expense", "invalid approved_by")
	}
	return changed, nil
}

func (s *expenseService) SoftDelete(ctx context.Context, expenseID int) error {
	return softDelete(ctx, s.pool, "expenses", "expense", expenseID)
}
