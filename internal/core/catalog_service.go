package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ServiceInput is the input to CatalogService.CreateService.
type ServiceInput struct {
	Title      string
	Qty        int
	MeasureID  *int
	Price      decimal.Decimal
	Notes      string
	ServiceImg string
}

// ServiceUpdate lists the mutable service fields. Changing Price affects
// only orders created or re-priced afterwards.
type ServiceUpdate struct {
	Title      *string
	Qty        *int
	MeasureID  *int
	Price      *decimal.Decimal
	Notes      *string
	ServiceImg *string
	IsActive   *bool
}

// CatalogService manages sellable services and the order-status reference set.
type CatalogService interface {
	CreateService(ctx context.Context, in ServiceInput) (int, error)
	UpdateService(ctx context.Context, serviceID int, u ServiceUpdate) (bool, error)
	GetService(ctx context.Context, serviceID int) (*Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]Service, error)
	DeleteService(ctx context.Context, serviceID int) error

	// ListStatuses returns live statuses by priority, then title.
	ListStatuses(ctx context.Context) ([]OrderStatus, error)
	GetStatus(ctx context.Context, statusID int) (*OrderStatus, error)
	GetStatusByTitle(ctx context.Context, title string) (*OrderStatus, error)
	CreateStatus(ctx context.Context, title string, priority int) (int, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

const serviceColumns = `
	SELECT id, title, qty, measure_id, price, COALESCE(notes, ''), COALESCE(service_img, ''),
	       is_active, created_at, updated_at
	FROM services
	WHERE NOT is_deleted`

func scanService(row rowScanner) (Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.Title, &s.Qty, &s.MeasureID, &s.Price, &s.Notes, &s.ServiceImg,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (s *catalogService) CreateService(ctx context.Context, in ServiceInput) (int, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, InvalidArgumentf("title is required")
	}
	if in.Price.IsNegative() {
		return 0, InvalidArgumentf("price must not be negative, got %s", in.Price)
	}
	if in.Qty <= 0 {
		in.Qty = 1
	}

	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO services (title, qty, measure_id, price, notes, service_img)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING id`,
		in.Title, in.Qty, in.MeasureID, in.Price, in.Notes, in.ServiceImg,
	).Scan(&id)
	if err != nil {
		return 0, classifyPgError(err, "create service", "invalid measure_id")
	}
	return id, nil
}

func (s *catalogService) UpdateService(ctx context.Context, serviceID int, u ServiceUpdate) (bool, error) {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return false, InvalidArgumentf("title must not be empty")
	}
	if u.Price != nil && u.Price.IsNegative() {
		return false, InvalidArgumentf("price must not be negative, got %s", *u.Price)
	}
	if u.Qty != nil && *u.Qty <= 0 {
		return false, InvalidArgumentf("qty must be positive, got %d", *u.Qty)
	}

	var sets []setClause
	if u.Title != nil {
		sets = append(sets, setClause{"title", *u.Title})
	}
	if u.Qty != nil {
		sets = append(sets, setClause{"qty", *u.Qty})
	}
	if u.MeasureID != nil {
		sets = append(sets, setClause{"measure_id", *u.MeasureID})
	}
	if u.Price != nil {
		sets = append(sets, setClause{"price", *u.Price})
	}
	if u.Notes != nil {
		sets = append(sets, setClause{"notes", *u.Notes})
	}
	if u.ServiceImg != nil {
		sets = append(sets, setClause{"service_img", *u.ServiceImg})
	}
	if u.IsActive != nil {
		sets = append(sets, setClause{"is_active", *u.IsActive})
	}

	changed, err := execUpdate(ctx, s.pool, "services", serviceID, sets, "NOT is_deleted")
	if err != nil {
		return false, classifyPgError(err, "update service", "invalid measure_id")
	}
	return changed, nil
}

func (s *catalogService) GetService(ctx context.Context, serviceID int) (*Service, error) {
	svc, err := scanService(s.pool.QueryRow(ctx, serviceColumns+" AND id = $1", serviceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("service %d not found", serviceID)
		}
		return nil, fmt.Errorf("failed to get service %d: %w", serviceID, err)
	}
	return &svc, nil
}

func (s *catalogService) ListServices(ctx context.Context, activeOnly bool) ([]Service, error) {
	q := serviceColumns
	if activeOnly {
		q += " AND is_active"
	}
	q += " ORDER BY title, id"

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	services := []Service{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (s *catalogService) DeleteService(ctx context.Context, serviceID int) error {
	return softDelete(ctx, s.pool, "services", "service", serviceID)
}

// ── Order statuses ───────────────────────────────────────────────────────────

const statusColumns = `
	SELECT id, status_title, status_priority, is_active, created_at
	FROM order_statuses
	WHERE NOT is_deleted`

func scanStatus(row rowScanner) (OrderStatus, error) {
	var st OrderStatus
	err := row.Scan(&st.ID, &st.Title, &st.Priority, &st.IsActive, &st.CreatedAt)
	return st, err
}

func (s *catalogService) ListStatuses(ctx context.Context) ([]OrderStatus, error) {
	rows, err := s.pool.Query(ctx, statusColumns+" ORDER BY status_priority, status_title")
	if err != nil {
		return nil, fmt.Errorf("failed to query order statuses: %w", err)
	}
	defer rows.Close()

	statuses := []OrderStatus{}
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order status: %w", err)
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

func (s *catalogService) GetStatus(ctx context.Context, statusID int) (*OrderStatus, error) {
	st, err := scanStatus(s.pool.QueryRow(ctx, statusColumns+" AND id = $1", statusID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("order status %d not found", statusID)
		}
		return nil, fmt.Errorf("failed to get order status %d: %w", statusID, err)
	}
	return &st, nil
}

func (s *catalogService) GetStatusByTitle(ctx context.Context, title string) (*OrderStatus, error) {
	st, err := scanStatus(s.pool.QueryRow(ctx, statusColumns+" AND is_active AND status_title = $1", title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("order status %q not found", title)
		}
		return nil, fmt.Errorf("failed to get order status %q: %w", title, err)
	}
	return &st, nil
}

func (s *catalogService) CreateStatus(ctx context.Context, title string, priority int) (int, error) {
	if strings.TrimSpace(title) == "" {
		return 0, InvalidArgumentf("status_title is required")
	}
	var id int
	err := s.pool.QueryRow(ctx,
		"INSERT INTO order_statuses (status_title, status_priority) VALUES ($1, $2) RETURNING id",
		title, priority,
	).Scan(&id)
	if err != nil {
		return 0, classifyPgError(err, "create order status", "invalid order status")
	}
	return id, nil
}
