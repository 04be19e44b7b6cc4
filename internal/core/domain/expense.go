package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the lifecycle state of an expense record.
// Expenses are only persisted once approved; "pending" never reaches storage.
type ExpenseStatus string

const (
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
	ExpensePaid     ExpenseStatus = "paid"
)

var expenseTransitions = map[ExpenseStatus][]ExpenseStatus{
	ExpenseApproved: {ExpensePaid},
	ExpenseRejected: {},
	ExpensePaid:     {},
}

// CanTransitionExpense reports whether an expense may move between statuses.
func CanTransitionExpense(from, to ExpenseStatus) bool {
	for _, next := range expenseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ExpenseCategory groups expenses and drives account mapping resolution.
type ExpenseCategory struct {
	CategoryID  string `json:"categoryID"` // Primary key (UUID)
	Name        string `json:"name"`
	Category    string `json:"category"` // Mapping source type, e.g. "utilities"
	Description string `json:"description"`
	BudgetCode  string `json:"budgetCode"` // Optional, format XXX-000
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// Expense records money spent by the school.
type Expense struct {
	ExpenseID     string          `json:"expenseID"` // Primary key (UUID)
	CategoryID    string          `json:"categoryID"`
	CategoryName  string          `json:"categoryName"`
	Category      string          `json:"category"` // Mapping source type
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Method        PaymentMethod   `json:"method"`
	PaymentDate   time.Time       `json:"paymentDate"`
	VendorName    string          `json:"vendorName"`
	VendorContact string          `json:"vendorContact"`
	Reference     string          `json:"reference"` // EXP-YYYY-XXXXXXXX
	Status        ExpenseStatus   `json:"status"`
	ApprovedBy    string          `json:"approvedBy"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	Notes         string          `json:"notes"`
	AuditFields
}
