package app

import "github.com/shopspring/decimal"

// UserSession is returned by Login.
type UserSession struct {
	UserID    int    `json:"user_id"`
	RoleID    int    `json:"role_id"`
	RoleName  string `json:"rolename"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// SalesReportResult is returned by SalesReport.
type SalesReportResult struct {
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	SalesTotal decimal.Decimal `json:"salesTotal"`
}

// ExpenseReportResult is returned by ExpenseReport.
type ExpenseReportResult struct {
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	ExpensesTotal decimal.Decimal `json:"expensesTotal"`
}

// AdminBootstrapResult is returned by EnsureAdminUser.
type AdminBootstrapResult struct {
	RoleID      int
	UserID      int
	RoleCreated bool
	UserCreated bool
}
