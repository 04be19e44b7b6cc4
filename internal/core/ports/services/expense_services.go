package services

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// ExpenseSvcFacade manages expenses and their categories.
type ExpenseSvcFacade interface {
	// CreateCategory creates an expense category.
	CreateCategory(ctx context.Context, req dto.CreateExpenseCategoryRequest, actor string) (*domain.ExpenseCategory, error)

	// ListCategories retrieves categories, optionally active only.
	ListCategories(ctx context.Context, activeOnly bool) ([]domain.ExpenseCategory, error)

	// CreateExpense records an approved expense, rejecting potential
	// duplicates unless the request allows them.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actor string) (*domain.Expense, error)

	// MarkExpensePaid moves an approved expense to paid and triggers
	// auto-posting.
	MarkExpensePaid(ctx context.Context, expenseID string, actor string) (*domain.Expense, error)

	// GetExpenseByID retrieves an expense.
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves expenses matching the filter.
	ListExpenses(ctx context.Context, params dto.ListExpensesParams) ([]domain.Expense, error)
}
