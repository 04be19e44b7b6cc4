package dto

import (
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseCategoryRequest defines a new expense category.
type CreateExpenseCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"` // Mapping source type
	Description string `json:"description"`
	BudgetCode  string `json:"budgetCode" binding:"omitempty,budgetcode"`
}

// ExpenseCategoryResponse defines the data returned for an expense category.
type ExpenseCategoryResponse struct {
	CategoryID  string `json:"categoryID"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	BudgetCode  string `json:"budgetCode"`
	IsActive    bool   `json:"isActive"`
}

// CreateExpenseRequest records an approved expense. When AllowDuplicate is
// false, a same-vendor same-amount same-date expense is rejected.
type CreateExpenseRequest struct {
	CategoryID     string          `json:"categoryID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Description    string          `json:"description" binding:"required"`
	Method         string          `json:"method" binding:"required,oneof=cash bank_transfer pos online cheque"`
	PaymentDate    time.Time       `json:"paymentDate" binding:"required"`
	VendorName     string          `json:"vendorName" binding:"required"`
	VendorContact  string          `json:"vendorContact"`
	Notes          string          `json:"notes"`
	AllowDuplicate bool            `json:"allowDuplicate"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID    string               `json:"expenseID"`
	CategoryID   string               `json:"categoryID"`
	CategoryName string               `json:"categoryName"`
	Category     string               `json:"category"`
	Amount       decimal.Decimal      `json:"amount"`
	Description  string               `json:"description"`
	Method       domain.PaymentMethod `json:"method"`
	PaymentDate  time.Time            `json:"paymentDate"`
	VendorName   string               `json:"vendorName"`
	Reference    string               `json:"reference"`
	Status       domain.ExpenseStatus `json:"status"`
	ApprovedBy   string               `json:"approvedBy"`
	ApprovedAt   *time.Time           `json:"approvedAt,omitempty"`
	Notes        string               `json:"notes"`
	CreatedAt    time.Time            `json:"createdAt"`
	CreatedBy    string               `json:"createdBy"`
}

// ListExpensesParams filters an expense listing.
type ListExpensesParams struct {
	CategoryID *string    `form:"categoryID"`
	Status     *string    `form:"status"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Limit      int        `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	Offset     int        `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListExpensesResponse wraps a paginated expense listing.
type ListExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// ToExpenseCategoryResponse converts a domain.ExpenseCategory to its DTO.
func ToExpenseCategoryResponse(c *domain.ExpenseCategory) ExpenseCategoryResponse {
	return ExpenseCategoryResponse{
		CategoryID:  c.CategoryID,
		Name:        c.Name,
		Category:    c.Category,
		Description: c.Description,
		BudgetCode:  c.BudgetCode,
		IsActive:    c.IsActive,
	}
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:    e.ExpenseID,
		CategoryID:   e.CategoryID,
		CategoryName: e.CategoryName,
		Category:     e.Category,
		Amount:       e.Amount,
		Description:  e.Description,
		Method:       e.Method,
		PaymentDate:  e.PaymentDate,
		VendorName:   e.VendorName,
		Reference:    e.Reference,
		Status:       e.Status,
		ApprovedBy:   e.ApprovedBy,
		ApprovedAt:   e.ApprovedAt,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
}

// ToExpenseResponses converts a slice of domain.Expense to []ExpenseResponse.
func ToExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}
