package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ZoneUpdate lists the mutable zone fields. A nil field is left unchanged.
type ZoneUpdate struct {
	Title    *string
	FromArea *string
	ToArea   *string
	IsActive *bool
}

type SocietyUpdate struct {
	Name     *string
	ZoneID   *int
	IsActive *bool
}

type MeasureUpdate struct {
	Title    *string
	Notes    *string
	IsActive *bool
}

// RoleUpdate renames or deactivates a role. Callers holding a RoleCache must
// refresh it afterwards.
type RoleUpdate struct {
	Name     *string
	IsActive *bool
}

// ReferenceService manages the small lookup tables: zones, societies,
// measures and roles. Deletes are soft. Updates return false when no live
// row matched or no field was supplied.
type ReferenceService interface {
	ListZones(ctx context.Context) ([]Zone, error)
	GetZone(ctx context.Context, zoneID int) (*Zone, error)
	CreateZone(ctx context.Context, title, fromArea, toArea string) (int, error)
	UpdateZone(ctx context.Context, zoneID int, u ZoneUpdate) (bool, error)
	DeleteZone(ctx context.Context, zoneID int) error

	// ListSocieties returns societies, optionally only those in zoneID.
	ListSocieties(ctx context.Context, zoneID int) ([]Society, error)
	GetSociety(ctx context.Context, societyID int) (*Society, error)
	CreateSociety(ctx context.Context, name string, zoneID int) (int, error)
	UpdateSociety(ctx context.Context, societyID int, u SocietyUpdate) (bool, error)
	DeleteSociety(ctx context.Context, societyID int) error

	ListMeasures(ctx context.Context) ([]Measure, error)
	GetMeasure(ctx context.Context, measureID int) (*Measure, error)
	CreateMeasure(ctx context.Context, title, notes string) (int, error)
	UpdateMeasure(ctx context.Context, measureID int, u MeasureUpdate) (bool, error)
	DeleteMeasure(ctx context.Context, measureID int) error

	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, roleID int) (*Role, error)
	CreateRole(ctx context.Context, name string) (int, error)
	UpdateRole(ctx context.Context, roleID int, u RoleUpdate) (bool, error)
	DeleteRole(ctx context.Context, roleID int) error

	// RoleIDByName resolves an active role by name with an indexed lookup.
	RoleIDByName(ctx context.Context, name string) (int, error)
}

type referenceService struct {
	pool *pgxpool.Pool
}

func NewReferenceService(pool *pgxpool.Pool) ReferenceService {
	return &referenceService{pool: pool}
}

func requireName(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return InvalidArgumentf("%s is required", field)
	}
	return nil
}

// optionalName rejects a supplied but blank name.
func optionalName(field string, v *string) error {
	if v != nil {
		return requireName(field, *v)
	}
	return nil
}

func (s *referenceService) update(ctx context.Context, table, entity, refMsg string, id int, sets []setClause) (bool, error) {
	changed, err := execUpdate(ctx, s.pool, table, id, sets, "NOT is_deleted")
	if err != nil {
		return false, classifyPgError(err, "update "+entity, refMsg)
	}
	return changed, nil
}

func getOne[T any](entity string, id int, v T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("%s %d not found", entity, id)
		}
		return nil, fmt.Errorf("failed to get %s %d: %w", entity, id, err)
	}
	return &v, nil
}

func (s *referenceService) insert(ctx context.Context, entity, refMsg, sql string, args ...any) (int, error) {
	var id int
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, classifyPgError(err, "create "+entity, refMsg)
	}
	return id, nil
}

// ── Zones ────────────────────────────────────────────────────────────────────

const zoneColumns = `
	SELECT id, title, COALESCE(from_area, ''), COALESCE(to_area, ''), is_active, created_at
	FROM zones WHERE NOT is_deleted`

func scanZone(row rowScanner) (Zone, error) {
	var z Zone
	err := row.Scan(&z.ID, &z.Title, &z.FromArea, &z.ToArea, &z.IsActive, &z.CreatedAt)
	return z, err
}

func (s *referenceService) ListZones(ctx context.Context) ([]Zone, error) {
	rows, err := s.pool.Query(ctx, zoneColumns+" ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close()

	zones := []Zone{}
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (s *referenceService) GetZone(ctx context.Context, zoneID int) (*Zone, error) {
	z, err := scanZone(s.pool.QueryRow(ctx, zoneColumns+" AND id = $1", zoneID))
	return getOne("zone", zoneID, z, err)
}

func (s *referenceService) UpdateZone(ctx context.Context, zoneID int, u ZoneUpdate) (bool, error) {
	if err := optionalName("title", u.Title); err != nil {
		return false, err
	}
	var sets []setClause
	if u.Title != nil {
		sets = append(sets, setClause{"title", *u.Title})
	}
	if u.FromArea != nil {
		sets = append(sets, setClause{"from_area", *u.FromArea})
	}
	if u.ToArea != nil {
		sets = append(sets, setClause{"to_area", *u.ToArea})
	}
	if u.IsActive != nil {
		sets = append(sets, setClause{"is_active", *u.IsActive})
	}
	return s.update(ctx, "zones", "zone", "invalid zone", zoneID, sets)
}

func (s *referenceService) CreateZone(ctx context.Context, title, fromArea, toArea string) (int, error) {
	if err := requireName("title", title); err != nil {
		return 0, err
	}
	return s.insert(ctx, "zone", "invalid zone",
		"INSERT INTO zones (title, from_area, to_area) VALUES ($1, NULLIF($2, ''), NULLIF($3, '')) RETURNING id",
		title, fromArea, toArea)
}

func (s *referenceService) DeleteZone(ctx context.Context, zoneID int) error {
	return softDelete(ctx, s.pool, "zones", "zone", zoneID)
}

// ── Societies ────────────────────────────────────────────────────────────────

const societyColumns = `
	SELECT so.id, so.name, so.zone_id, COALESCE(z.title, ''), so.is_active, so.created_at
	FROM societies so
	LEFT JOIN zones z ON z.id = so.zone_id
	WHERE NOT so.is_deleted`

func scanSociety(row rowScanner) (Society, error) {
	var so Society
	err := row.Scan(&so.ID, &so.Name, &so.ZoneID, &so.ZoneTitle, &so.IsActive, &so.CreatedAt)
	return so, err
}

func (s *referenceService) ListSocieties(ctx context.Context, zoneID int) ([]Society, error) {
	q := societyColumns
	var args []any
	if zoneID > 0 {
		args = append(args, zoneID)
		q += fmt.Sprintf(" AND so.zone_id = $%d", len(args))
	}
	q += " ORDER BY so.name, so.id"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query societies: %w", err)
	}
	defer rows.Close()

	societies := []Society{}
	for rows.Next() {
		so, err := scanSociety(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan society: %w", err)
		}
		societies = append(societies, so)
	}
	return societies, rows.Err()
}

func (s *referenceService) CreateSociety(ctx context.Context, name string, zoneID int) (int, error) {
	if err := requireName("name", name); err != nil {
		return 0, err
	}
	return s.insert(ctx, "society", "invalid zone_id",
		"INSERT INTO societies (name, zone_id) VALUES ($1, $2) RETURNING id", name, zoneID)
}

func (s *referenceService) GetSociety(ctx context.Context, societyID int) (*Society, error) {
	so, err := scanSociety(s.pool.QueryRow(ctx, societyColumns+" AND so.id = $1", societyID))
	return getOne("society", societyID, so, err)
}

func (s *referenceService) UpdateSociety(ctx context.Context, societyID int, u SocietyUpdate) (bool, error) {
	if err := optionalName("name", u.Name); err != nil {
		return false, err
	}
	if u.ZoneID != nil && *u.ZoneID <= 0 {
		return false, InvalidArgumentf("zone_id must be positive, got %d", *u.ZoneID)
	}
	var sets []setClause
	if u.Name != nil {
		sets = append(sets, setClause{"name", *u.Name})
	}
	if u.ZoneID != nil {
		sets = append(sets, setClause{"zone_id", *u.ZoneID})
	}
	if u.IsActive != nil {
		sets = append(sets, setClause{"is_active", *u.IsActive})
	}
	return s.update(ctx, "societies", "society", "invalid zone_id", societyID, sets)
}

func (s *referenceService) DeleteSociety(ctx context.Context, societyID int) error {
	return softDelete(ctx, s.pool, "societies", "society", societyID)
}

// ── Measures ─────────────────────────────────────────────────────────────────

const measureColumns = `
	SELECT id, title, COALESCE(notes, ''), is_active, created_at
	FROM measures WHERE NOT is_deleted`

func scanMeasure(row rowScanner) (Measure, error) {
	var m Measure
	err := row.Scan(&m.ID, &m.Title, &m.Notes, &m.IsActive, &m.CreatedAt)
	return m, err
}

func (s *referenceService) ListMeasures(ctx context.Context) ([]Measure, error) {
	rows, err := s.pool.Query(ctx, measureColumns+" ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query measures: %w", err)
	}
	defer rows.Close()

	measures := []Measure{}
	for rows.Next() {
		m, err := scanMeasure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan measure: %w", err)
		}
		measures = append(measures, m)
	}
	return measures, rows.Err()
}

func (s *referenceService) CreateMeasure(ctx context.Context, title, notes string) (int, error) {
	if err := requireName("title", title); err != nil {
		return 0, err
	}
	return s.insert(ctx, "measure", "invalid measure",
		"INSERT INTO measures (title, notes) VALUES ($1, NULLIF($2, '')) RETURNING id", title, notes)
}

func (s *referenceService) GetMeasure(ctx context.Context, measureID int) (*Measure, error) {
	m, err := scanMeasure(s.pool.QueryRow(ctx, measureColumns+" AND id = $1", measureID))
	return getOne("measure", measureID, m, err)
}

func (s *referenceService) UpdateMeasure(ctx context.Context, measureID int, u MeasureUpdate) (bool, error) {
	if err := optionalName("title", u.Title); err != nil {
		return false, err
	}
	var sets []setClause
	if u.Title != nil {
		sets = append(sets, setClause{"title", *u.Title})
	}
	if u.Notes != nil {
		sets = append(sets, setClause{"notes", *u.Notes})
	}
	if u.IsActive != nil {
		sets = append(sets, setClause{"is_active", *u.IsActive})
	}
	return s.update(ctx, "measures", "measure", "invalid measure", measureID, sets)
}

func (s *referenceService) DeleteMeasure(ctx context.Context, measureID int) error {
	return softDelete(ctx, s.pool, "measures", "measure", measureID)
}

// ── Roles ────────────────────────────────────────────────────────────────────

const roleColumns = `
	SELECT id, rolename, is_active, created_at
	FROM roles WHERE NOT is_deleted`

func scanRole(row rowScanner) (Role, error) {
	var r Role
	err := row.Scan(&r.ID, &r.Name, &r.IsActive, &r.CreatedAt)
	return r, err
}

func (s *referenceService) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.pool.Query(ctx, roleColumns+" ORDER BY rolename, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := []Role{}
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *referenceService) CreateRole(ctx context.Context, name string) (int, error) {
	if err := requireName("rolename", name); err != nil {
		return 0, err
	}
	return s.insert(ctx, "role", "invalid role",
		"INSERT INTO roles (rolename) VALUES ($1) RETURNING id", name)
}

func (s *referenceService) GetRole(ctx context.Context, roleID int) (*Role, error) {
	r, err := scanRole(s.pool.QueryRow(ctx, roleColumns+" AND id = $1", roleID))
	return getOne("role", roleID, r, err)
}

func (s *referenceService) UpdateRole(ctx context.Context, roleID int, u RoleUpdate) (bool, error) {
	if err := optionalName("rolename", u.Name); err != nil {
		return false, err
	}
	var sets []setClause
	if u.Name != nil {
		sets = append(sets, setClause{"rolename", *u.Name})
	}
	if u.IsActive != nil {
		sets = append(sets, setClause{"is_active", *u.IsActive})
	}
	return s.update(ctx, "roles", "role", "invalid role", roleID, sets)
}

func (s *referenceService) DeleteRole(ctx context.Context, roleID int) error {
	return softDelete(ctx, s.pool, "roles", "role", roleID)
}

func (s *referenceService) RoleIDByName(ctx context.Context, name string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx,
		"SELECT id FROM roles WHERE rolename = $1 AND is_active AND NOT is_deleted", name,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, NotFoundf("role %q not found or inactive", name)
		}
		return 0, fmt.Errorf("failed to resolve role %q: %w", name, err)
	}
	return id, nil
}
