package web

import (
	"water-admin/internal/core"

	"github.com/shopspring/decimal"
)

// Request bodies accepted by the JSON API. Decimal amounts accept either a
// JSON number or a numeric string. Pointer fields in update bodies are left
// unchanged when absent.

type LoginRequest struct {
	Phone    string `json:"phone" jsonschema:"required"`
	Password string `json:"password" jsonschema:"required"`
}

// ── Orders ───────────────────────────────────────────────────────────────────

type CreateOrderRequest struct {
	UserID    int             `json:"user_id" jsonschema:"required,minimum=1"`
	ServiceID int             `json:"service_id" jsonschema:"required,minimum=1"`
	Quantity  int             `json:"quantity" jsonschema:"required,minimum=1"`
	Discount  decimal.Decimal `json:"discount"`
	Notes     string          `json:"notes"`
}

func (b CreateOrderRequest) input() core.CreateOrderInput {
	return core.CreateOrderInput{
		UserID:    b.UserID,
		ServiceID: b.ServiceID,
		Quantity:  b.Quantity,
		Discount:  b.Discount,
		Notes:     b.Notes,
	}
}

type UpdateOrderRequest struct {
	Quantity *int             `json:"quantity,omitempty" jsonschema:"minimum=1"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
}

func (b UpdateOrderRequest) update() core.OrderUpdate {
	return core.OrderUpdate{Quantity: b.Quantity, Discount: b.Discount, Notes: b.Notes}
}

// ── Deliveries ───────────────────────────────────────────────────────────────

type CreateDeliveryRequest struct {
	OrderID       int             `json:"order_id" jsonschema:"required,minimum=1"`
	DeliveryBoyID int             `json:"delivery_boy_id" jsonschema:"required,minimum=1"`
	DeliveryDate  string          `json:"delivery_date" jsonschema:"required,format=date"`
	QtyOrdered    int             `json:"qty_ordered" jsonschema:"required,minimum=1"`
	TotalAmount   decimal.Decimal `json:"total_amount" jsonschema:"required"`
	Notes         string          `json:"notes"`
}

func (b CreateDeliveryRequest) input(actingUserID int) core.CreateDeliveryInput {
	return core.CreateDeliveryInput{
		OrderID:       b.OrderID,
		DeliveryBoyID: b.DeliveryBoyID,
		DeliveryDate:  b.DeliveryDate,
		QtyOrdered:    b.QtyOrdered,
		TotalAmount:   b.TotalAmount,
		Notes:         b.Notes,
		ActingUserID:  actingUserID,
	}
}

type UpdateDeliveryRequest struct {
	DeliveryBoyID *int             `json:"delivery_boy_id,omitempty" jsonschema:"minimum=1"`
	DeliveryDate  *string          `json:"delivery_date,omitempty" jsonschema:"format=date"`
	QtyReturn     *int             `json:"qty_return,omitempty" jsonschema:"minimum=0"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (b UpdateDeliveryRequest) update() core.DeliveryUpdate {
	return core.DeliveryUpdate{
		DeliveryBoyID: b.DeliveryBoyID,
		DeliveryDate:  b.DeliveryDate,
		QtyReturn:     b.QtyReturn,
		TotalAmount:   b.TotalAmount,
		Notes:         b.Notes,
	}
}

type AppendStatusRequest struct {
	StatusID int `json:"status_id" jsonschema:"required,minimum=1"`
}

// ── Payments ─────────────────────────────────────────────────────────────────

type RecordPaymentRequest struct {
	BuyerID         int             `json:"buyer_id" jsonschema:"required,minimum=1"`
	PaymentMode     string          `json:"payment_mode" jsonschema:"required,enum=cash,enum=cheque,enum=paytm,enum=gpay,enum=phonepe,enum=netbanking"`
	PaymentReceived decimal.Decimal `json:"payment_received" jsonschema:"required"`
	PaymentDue      decimal.Decimal `json:"payment_due"`
	Notes           string          `json:"notes"`
}

func (b RecordPaymentRequest) input(receivedBy int) core.RecordPaymentInput {
	return core.RecordPaymentInput{
		BuyerID:     b.BuyerID,
		Mode:        b.PaymentMode,
		ReceivedBy:  receivedBy,
		Received:    b.PaymentReceived,
		DueSnapshot: b.PaymentDue,
		Notes:       b.Notes,
	}
}

// ── Catalog ──────────────────────────────────────────────────────────────────

type CreateServiceRequest struct {
	Title      string          `json:"title" jsonschema:"required"`
	Qty        int             `json:"qty"`
	MeasureID  *int            `json:"measure_id,omitempty"`
	Price      decimal.Decimal `json:"price" jsonschema:"required"`
	Notes      string          `json:"notes"`
	ServiceImg string          `json:"service_img"`
}

func (b CreateServiceRequest) input() core.ServiceInput {
	return core.ServiceInput{
		Title:      b.Title,
		Qty:        b.Qty,
		MeasureID:  b.MeasureID,
		Price:      b.Price,
		Notes:      b.Notes,
		ServiceImg: b.ServiceImg,
	}
}

type UpdateServiceRequest struct {
	Title      *string          `json:"title,omitempty"`
	Qty        *int             `json:"qty,omitempty"`
	MeasureID  *int             `json:"measure_id,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	ServiceImg *string          `json:"service_img,omitempty"`
	IsActive   *bool            `json:"is_active,omitempty"`
}

func (b UpdateServiceRequest) update() core.ServiceUpdate {
	return core.ServiceUpdate{
		Title:      b.Title,
		Qty:        b.Qty,
		MeasureID:  b.MeasureID,
		Price:      b.Price,
		Notes:      b.Notes,
		ServiceImg: b.ServiceImg,
		IsActive:   b.IsActive,
	}
}

type CreateOrderStatusRequest struct {
	StatusTitle    string `json:"status_title" jsonschema:"required"`
	StatusPriority int    `json:"status_priority"`
}

// ── Reference data ───────────────────────────────────────────────────────────

type CreateZoneRequest struct {
	Title    string `json:"title" jsonschema:"required"`
	FromArea string `json:"from_area"`
	ToArea   string `json:"to_area"`
}

type CreateSocietyRequest struct {
	Name   string `json:"name" jsonschema:"required"`
	ZoneID int    `json:"zone_id" jsonschema:"required,minimum=1"`
}

type CreateMeasureRequest struct {
	Title string `json:"title" jsonschema:"required"`
	Notes string `json:"notes"`
}

type CreateRoleRequest struct {
	RoleName string `json:"rolename" jsonschema:"required"`
}

type UpdateZoneRequest struct {
	Title    *string `json:"title,omitempty"`
	FromArea *string `json:"from_area,omitempty"`
	ToArea   *string `json:"to_area,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (b UpdateZoneRequest) update() core.ZoneUpdate {
	return core.ZoneUpdate{Title: b.Title, FromArea: b.FromArea, ToArea: b.ToArea, IsActive: b.IsActive}
}

type UpdateSocietyRequest struct {
	Name     *string `json:"name,omitempty"`
	ZoneID   *int    `json:"zone_id,omitempty" jsonschema:"minimum=1"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (b UpdateSocietyRequest) update() core.SocietyUpdate {
	return core.SocietyUpdate{Name: b.Name, ZoneID: b.ZoneID, IsActive: b.IsActive}
}

type UpdateMeasureRequest struct {
	Title    *string `json:"title,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (b UpdateMeasureRequest) update() core.MeasureUpdate {
	return core.MeasureUpdate{Title: b.Title, Notes: b.Notes, IsActive: b.IsActive}
}

type UpdateRoleRequest struct {
	RoleName *string `json:"rolename,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (b UpdateRoleRequest) update() core.RoleUpdate {
	return core.RoleUpdate{Name: b.RoleName, IsActive: b.IsActive}
}

// ── Users ────────────────────────────────────────────────────────────────────

type CreateUserRequest struct {
	FirstName string          `json:"firstname" jsonschema:"required"`
	LastName  string          `json:"lastname"`
	Phone     string          `json:"phone" jsonschema:"required"`
	Password  string          `json:"password"`
	Email     string          `json:"email"`
	RoleID    int             `json:"role_id" jsonschema:"required,minimum=1"`
	Address1  string          `json:"address_1"`
	Address2  string          `json:"address_2"`
	City      string          `json:"city"`
	State     string          `json:"state"`
	ZoneID    *int            `json:"zone_id,omitempty"`
	SocietyID *int            `json:"society_id,omitempty"`
	Deposit   decimal.Decimal `json:"deposit"`
}

func (b CreateUserRequest) input() core.CreateUserInput {
	return core.CreateUserInput{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Phone:     b.Phone,
		Password:  b.Password,
		Email:     b.Email,
		RoleID:    b.RoleID,
		Address1:  b.Address1,
		Address2:  b.Address2,
		City:      b.City,
		State:     b.State,
		ZoneID:    b.ZoneID,
		SocietyID: b.SocietyID,
		Deposit:   b.Deposit,
	}
}

type UpdateUserRequest struct {
	FirstName   *string          `json:"firstname,omitempty"`
	LastName    *string          `json:"lastname,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Password    *string          `json:"password,omitempty"`
	Email       *string          `json:"email,omitempty"`
	RoleID      *int             `json:"role_id,omitempty"`
	Address1    *string          `json:"address_1,omitempty"`
	Address2    *string          `json:"address_2,omitempty"`
	City        *string          `json:"city,omitempty"`
	State       *string          `json:"state,omitempty"`
	ZoneID      *int             `json:"zone_id,omitempty"`
	SocietyID   *int             `json:"society_id,omitempty"`
	Deposit     *decimal.Decimal `json:"deposit,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	DueAmount   *decimal.Decimal `json:"due_amount,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

func (b UpdateUserRequest) update() core.UserUpdate {
	return core.UserUpdate{
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		Phone:       b.Phone,
		Password:    b.Password,
		Email:       b.Email,
		RoleID:      b.RoleID,
		Address1:    b.Address1,
		Address2:    b.Address2,
		City:        b.City,
		State:       b.State,
		ZoneID:      b.ZoneID,
		SocietyID:   b.SocietyID,
		Deposit:     b.Deposit,
		TotalAmount: b.TotalAmount,
		DueAmount:   b.DueAmount,
		IsActive:    b.IsActive,
	}
}

// UpdateProfileRequest is the body of PATCH /api/users/me.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstname,omitempty"`
	LastName  *string `json:"lastname,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Address1  *string `json:"address_1,omitempty"`
	Address2  *string `json:"address_2,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZoneID    *int    `json:"zone_id,omitempty"`
	SocietyID *int    `json:"society_id,omitempty"`
}

func (b UpdateProfileRequest) update() core.ProfileUpdate {
	return core.ProfileUpdate{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Phone:     b.Phone,
		Email:     b.Email,
		Address1:  b.Address1,
		Address2:  b.Address2,
		City:      b.City,
		State:     b.State,
		ZoneID:    b.ZoneID,
		SocietyID: b.SocietyID,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" jsonschema:"required"`
	NewPassword     string `json:"new_password" jsonschema:"required,minLength=6"`
}

// ── Expenses ─────────────────────────────────────────────────────────────────

type CreateExpenseRequest struct {
	ExpenseType string          `json:"expense_type" jsonschema:"required"`
	ExpenseDate string          `json:"expense_date" jsonschema:"required,format=date"`
	Amount      decimal.Decimal `json:"amount" jsonschema:"required"`
	Source      string          `json:"source" jsonschema:"required,enum=Cash,enum=Bank"`
	Remarks     string          `json:"remarks"`
	Note        string          `json:"note"`
	ApprovedBy  *int            `json:"approved_by,omitempty"`
}

func (b CreateExpenseRequest) input(createdBy int) core.ExpenseInput {
	return core.ExpenseInput{
		ExpenseType: b.ExpenseType,
		ExpenseDate: b.ExpenseDate,
		Amount:      b.Amount,
		Source:      b.Source,
		Remarks:     b.Remarks,
		Note:        b.Note,
		ApprovedBy:  b.ApprovedBy,
		CreatedBy:   &createdBy,
	}
}

type UpdateExpenseRequest struct {
	ExpenseType *string          `json:"expense_type,omitempty"`
	ExpenseDate *string          `json:"expense_date,omitempty" jsonschema:"format=date"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Source      *string          `json:"source,omitempty" jsonschema:"enum=Cash,enum=Bank"`
	Remarks     *string          `json:"remarks,omitempty"`
	Note        *string          `json:"note,omitempty"`
	ApprovedBy  *int             `json:"approved_by,omitempty"`
}

func (b UpdateExpenseRequest) update() core.ExpenseUpdate {
	return core.ExpenseUpdate{
		ExpenseType: b.ExpenseType,
		ExpenseDate: b.ExpenseDate,
		Amount:      b.Amount,
		Source:      b.Source,
		Remarks:     b.Remarks,
		Note:        b.Note,
		ApprovedBy:  b.ApprovedBy,
	}
}
