package repositories

import (
	"context"
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListExpensesFilter narrows an expense listing.
type ListExpensesFilter struct {
	CategoryID *string
	Status     *domain.ExpenseStatus
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ExpenseRepository defines persistence operations for expenses and their categories.
type ExpenseRepository interface {
	// SaveExpense persists a new expense. Returns apperrors.ErrDuplicate when
	// the reference is already taken.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// FindExpenseByID retrieves an expense by its unique identifier.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// FindExpenseByReference retrieves an expense by its EXP-YYYY-XXXXXXXX reference.
	FindExpenseByReference(ctx context.Context, ref string) (*domain.Expense, error)

	// FindPotentialDuplicate looks for an expense with the same vendor,
	// amount and payment date, used for duplicate detection.
	FindPotentialDuplicate(ctx context.Context, vendorName string, amount decimal.Decimal, paymentDate time.Time) (*domain.Expense, error)

	// ListExpenses retrieves expenses matching the filter, newest first.
	ListExpenses(ctx context.Context, filter ListExpensesFilter) ([]domain.Expense, error)

	// UpdateExpense updates an expense record.
	UpdateExpense(ctx context.Context, expense domain.Expense) error

	// SaveExpenseCategory persists a new category. Returns
	// apperrors.ErrDuplicate when the name is already taken.
	SaveExpenseCategory(ctx context.Context, category domain.ExpenseCategory) error

	// FindExpenseCategoryByID retrieves a category.
	FindExpenseCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error)

	// ListExpenseCategories retrieves categories, optionally active only.
	ListExpenseCategories(ctx context.Context, activeOnly bool) ([]domain.ExpenseCategory, error)

	// UpdateExpenseCategory updates a category record.
	UpdateExpenseCategory(ctx context.Context, category domain.ExpenseCategory) error
}
