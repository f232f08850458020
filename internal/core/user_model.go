package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// User is a customer or staff member. Deposit, TotalAmount and DueAmount are
// a cached running balance maintained outside the order and payment engines.
type User struct {
	ID           int             `json:"id"`
	FirstName    string          `json:"firstname"`
	LastName     string          `json:"lastname"`
	Phone        string          `json:"phone"`
	PasswordHash string          `json:"-"`
	Email        string          `json:"email"`
	RoleID       int             `json:"role_id"`
	RoleName     string          `json:"rolename"` // joined from roles
	Address1     string          `json:"address_1"`
	Address2     string          `json:"address_2"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	ZoneID       *int            `json:"zone_id,omitempty"`
	SocietyID    *int            `json:"society_id,omitempty"`
	Deposit      decimal.Decimal `json:"deposit"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	DueAmount    decimal.Decimal `json:"due_amount"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateUserInput is the input to UserService.Create. Password may be empty
// for customers who never log in.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Phone     string
	Password  string
	Email     string
	RoleID    int
	Address1  string
	Address2  string
	City      string
	State     string
	ZoneID    *int
	SocietyID *int
	Deposit   decimal.Decimal
}

// UserUpdate lists the user fields an administrator may change.
type UserUpdate struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	Password    *string
	Email       *string
	RoleID      *int
	Address1    *string
	Address2    *string
	City        *string
	State       *string
	ZoneID      *int
	SocietyID   *int
	Deposit     *decimal.Decimal
	TotalAmount *decimal.Decimal
	DueAmount   *decimal.Decimal
	IsActive    *bool
}

// ProfileUpdate lists the fields a user may change on their own record.
// Role, password, balances and the active flag stay with administrators.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
	Address1  *string
	Address2  *string
	City      *string
	State     *string
	ZoneID    *int
	SocietyID *int
}

func (p ProfileUpdate) empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.Email == nil &&
		p.Address1 == nil && p.Address2 == nil && p.City == nil && p.State == nil &&
		p.ZoneID == nil && p.SocietyID == nil
}

// UserUpdate converts the profile change into the general update.
func (p ProfileUpdate) UserUpdate() UserUpdate {
	return UserUpdate{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Address1:  p.Address1,
		Address2:  p.Address2,
		City:      p.City,
		State:     p.State,
		ZoneID:    p.ZoneID,
		SocietyID: p.SocietyID,
	}
}

// UserFilter narrows UserService.List. Zero values mean no filter.
type UserFilter struct {
	RoleID    int
	ZoneID    int
	SocietyID int
}

// UserService manages users and verifies login credentials.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (int, error)
	GetByID(ctx context.Context, userID int) (*User, error)

	// GetByPhone finds an active user by phone, including the password hash.
	GetByPhone(ctx context.Context, phone string) (*User, error)

	// Authenticate returns the active user whose phone and password match.
	// Any mismatch yields ErrInvalidCredentials.
	Authenticate(ctx context.Context, phone, password string) (*User, error)

	List(ctx context.Context, f UserFilter) ([]User, error)
	Update(ctx context.Context, userID int, u UserUpdate) (bool, error)

	// UpdateProfile applies a self-service change. An empty update is
	// rejected.
	UpdateProfile(ctx context.Context, userID int, p ProfileUpdate) (bool, error)

	// ChangePassword replaces the password after verifying the current one.
	// A wrong current password is an InvalidArgument error.
	ChangePassword(ctx context.Context, userID int, current, next string) error
	SoftDelete(ctx context.Context, userID int) error
}
