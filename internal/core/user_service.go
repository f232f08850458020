package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown phone,
// an inactive user, or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MinPasswordLength applies to passwords users choose themselves.
const MinPasswordLength = 6

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

const userColumns = `
	SELECT u.id, u.firstname, u.lastname, u.phone, COALESCE(u.password_hash, ''), COALESCE(u.email, ''),
	       u.role_id, COALESCE(r.rolename, ''), COALESCE(u.address_1, ''), COALESCE(u.address_2, ''),
	       u.city, u.state, u.zone_id, u.society_id, u.deposit, u.total_amount, u.due_amount,
	       u.is_active, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id
	WHERE NOT u.is_deleted`

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Phone, &u.PasswordHash, &u.Email,
		&u.RoleID, &u.RoleName, &u.Address1, &u.Address2,
		&u.City, &u.State, &u.ZoneID, &u.SocietyID, &u.Deposit, &u.TotalAmount, &u.DueAmount,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (in CreateUserInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return InvalidArgumentf("firstname is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return InvalidArgumentf("phone is required")
	}
	if in.RoleID <= 0 {
		return InvalidArgumentf("role_id is required")
	}
	if in.Deposit.IsNegative() {
		return InvalidArgumentf("deposit must not be negative")
	}
	return nil
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (int, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	var hash *string
	if in.Password != "" {
		h, err := HashPassword(in.Password)
		if err != nil {
			return 0, err
		}
		hash = &h
	}

	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (firstname, lastname, phone, password_hash, email, role_id,
		                   address_1, address_2, city, state, zone_id, society_id, deposit)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12, $13)
		RETURNING id`,
		in.FirstName, in.LastName, in.Phone, hash, in.Email, in.RoleID,
		in.Address1, in.Address2, in.City, in.State, in.ZoneID, in.SocietyID, in.Deposit,
	).Scan(&id)
	if err != nil {
		return 0, classifyPgError(err, "create user", "invalid role_id, zone_id or society_id")
	}
	return id, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, userColumns+" AND u.id = $1", userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("user %d not found", userID)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &u, nil
}

func (s *userService) GetByPhone(ctx context.Context, phone string) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, userColumns+" AND u.is_active AND u.phone = $1", phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("user with phone %s not found", phone)
		}
		return nil, fmt.Errorf("failed to get user by phone: %w", err)
	}
	return &u, nil
}

func (s *userService) Authenticate(ctx context.Context, phone, password string) (*User, error) {
	u, err := s.GetByPhone(ctx, phone)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, f UserFilter) ([]User, error) {
	q := userColumns
	var args []any
	if f.RoleID > 0 {
		args = append(args, f.RoleID)
		q += fmt.Sprintf(" AND u.role_id = $%d", len(args))
	}
	if f.ZoneID > 0 {
		args = append(args, f.ZoneID)
		q += fmt.Sprintf(" AND u.zone_id = $%d", len(args))
	}
	if f.SocietyID > 0 {
		args = append(args, f.SocietyID)
		q += fmt.Sprintf(" AND u.society_id = $%d", len(args))
	}
	q += " ORDER BY u.firstname, u.lastname, u.id"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *userService) Update(ctx context.Context, userID int, u UserUpdate) (bool, error) {
	if u.Deposit != nil && u.Deposit.IsNegative() {
		return false, InvalidArgumentf("deposit must not be negative")
	}
	if u.TotalAmount != nil && u.TotalAmount.IsNegative() {
		return false, InvalidArgumentf("total_amount must not be negative")
	}

	var sets []setClause
	addString := func(column string, v *string) {
		if v != nil {
			sets = append(sets, setClause{column, *v})
		}
	}
	addString("firstname", u.FirstName)
	addString("lastname", u.LastName)
	addString("phone", u.Phone)
	addString("email", u.Email)
	addString("address_1", u.Address1)
	addString("address_2", u.Address2)
	addString("city", u.City)
	addString("state", u.State)
	if u.Password != nil {
		hash, err := HashPassword(*u.Password)
		if err != nil {
			return false, err
		}
		sets = append(sets, setClause{"password_hash", hash})
	}
	if u.RoleID != nil {
		sets = append(sets, setClause{"role_id", *u.RoleID})
	}
	if u.ZoneID != nil {
		sets = append(sets, setClause{"zone_id", *u.ZoneID})
	}
	if u.SocietyID != nil {
		sets = append(sets, setClause{"society_id", *u.SocietyID})
	}
	if u.Deposit != nil {
		sets = append(sets, setClause{"deposit", *u.Deposit})
	}
	if u.TotalAmount != nil {
		sets = append(sets, setClause{"total_amount", *u.TotalAmount})
	}
	if u.DueAmount != nil {
		sets = append(sets, setClause{"due_amount", *u.DueAmount})
	}
	if u.IsActive != nil {
		sets = append(sets, setClause{"is_active", *u.IsActive})
	}

	changed, err := execUpdate(ctx, s.pool, "users", userID, sets, "NOT is_deleted")
	if err != nil {
		return false, classifyPgError(err, "update user", "invalid role_id, zone_id or society_id")
	}
	return changed, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, p ProfileUpdate) (bool, error) {
	if p.empty() {
		return false, InvalidArgumentf("no update data provided")
	}
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		return false, InvalidArgumentf("firstname must not be empty")
	}
	if p.Phone != nil && strings.TrimSpace(*p.Phone) == "" {
		return false, InvalidArgumentf("phone must not be empty")
	}
	return s.Update(ctx, userID, p.UserUpdate())
}

func validatePasswordChange(current, next string) error {
	if current == "" || next == "" {
		return InvalidArgumentf("current password and new password are required")
	}
	if len(next) < MinPasswordLength {
		return InvalidArgumentf("new password must be at least %d characters long", MinPasswordLength)
	}
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	if err := validatePasswordChange(current, next); err != nil {
		return err
	}

	var hash string
	err := s.pool.QueryRow(ctx,
		"SELECT COALESCE(password_hash, '') FROM users WHERE id = $1 AND NOT is_deleted", userID,
	).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NotFoundf("user %d not found", userID)
		}
		return fmt.Errorf("failed to load password for user %d: %w", userID, err)
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)) != nil {
		return InvalidArgumentf("incorrect current password")
	}

	newHash, err := HashPassword(next)
	if err != nil {
		return err
	}
	changed, err := execUpdate(ctx, s.pool, "users", userID,
		[]setClause{{"password_hash", newHash}}, "NOT is_deleted")
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	if !changed {
		return NotFoundf("user %d not found", userID)
	}
	return nil
}

func (s *userService) SoftDelete(ctx context.Context, userID int) error {
	return softDelete(ctx, s.pool, "users", "user", userID)
}
