package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
)

type expenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new repository for expenses and categories.
func NewExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &expenseRepository{pool: pool}
}

const expenseColumns = `expense_id, category_id, category_name, category, amount, description, method, payment_date, vendor_name, vendor_contact, reference, status, approved_by, approved_at, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	err := row.Scan(
		&e.ExpenseID,
		&e.CategoryID,
		&e.CategoryName,
		&e.Category,
		&e.Amount,
		&e.Description,
		&e.Method,
		&e.PaymentDate,
		&e.VendorName,
		&e.VendorContact,
		&e.Reference,
		&e.Status,
		&e.ApprovedBy,
		&e.ApprovedAt,
		&e.Notes,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *expenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.pool.Exec(ctx, query,
		expense.ExpenseID,
		expense.CategoryID,
		expense.CategoryName,
		expense.Category,
		expense.Amount,
		expense.Description,
		expense.Method,
		expense.PaymentDate,
		expense.VendorName,
		expense.VendorContact,
		expense.Reference,
		expense.Status,
		expense.ApprovedBy,
		expense.ApprovedAt,
		expense.Notes,
		expense.CreatedAt,
		expense.CreatedBy,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: expense reference %s", apperrors.ErrDuplicate, expense.Reference)
		}
		return fmt.Errorf("failed to save expense %s: %w", expense.Reference, err)
	}
	return nil
}

func (r *expenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		UPDATE expenses
		SET status = $2, notes = $3, last_updated_at = $4, last_updated_by = $5
		WHERE expense_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		expense.ExpenseID,
		expense.Status,
		expense.Notes,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *expenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	e, err := scanExpense(r.pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return e, nil
}

func (r *expenseRepository) FindExpenseByReference(ctx context.Context, ref string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE reference = $1;`
	e, err := scanExpense(r.pool.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by reference %s: %w", ref, err)
	}
	return e, nil
}

// FindPotentialDuplicate looks for a same-vendor, same-amount expense on the
// same payment date, used to warn about double entry.
func (r *expenseRepository) FindPotentialDuplicate(ctx context.Context, vendorName string, amount decimal.Decimal, paymentDate time.Time) (*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE LOWER(vendor_name) = LOWER($1) AND amount = $2 AND payment_date::date = $3::date
		  AND status <> 'rejected'
		LIMIT 1;
	`
	e, err := scanExpense(r.pool.QueryRow(ctx, query, vendorName, amount, paymentDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to check for duplicate expense: %w", err)
	}
	return e, nil
}

func (r *expenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ListExpensesFilter) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", idx)
		args = append(args, *filter.CategoryID)
		idx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND payment_date >= $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND payment_date <= $%d", idx)
		args = append(args, *filter.To)
		idx++
	}

	query += fmt.Sprintf(" ORDER BY payment_date DESC, created_at DESC LIMIT $%d OFFSET $%d;", idx, idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading expense rows: %w", err)
	}
	return expenses, nil
}

const categoryColumns = `category_id, name, category, description, budget_code, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanExpenseCategory(row pgx.Row) (*domain.ExpenseCategory, error) {
	var c domain.ExpenseCategory
	err := row.Scan(
		&c.CategoryID,
		&c.Name,
		&c.Category,
		&c.Description,
		&c.BudgetCode,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *expenseRepository) SaveExpenseCategory(ctx context.Context, category domain.ExpenseCategory) error {
	query := `
		INSERT INTO expense_categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.Category,
		category.Description,
		category.BudgetCode,
		category.IsActive,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: expense category %s", apperrors.ErrDuplicate, category.Name)
		}
		return fmt.Errorf("failed to save expense category %s: %w", category.Name, err)
	}
	return nil
}

func (r *expenseRepository) UpdateExpenseCategory(ctx context.Context, category domain.ExpenseCategory) error {
	query := `
		UPDATE expense_categories
		SET name = $2, description = $3, budget_code = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE category_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.Description,
		category.BudgetCode,
		category.IsActive,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense category %s: %w", category.CategoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *expenseRepository) FindExpenseCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM expense_categories WHERE category_id = $1;`
	c, err := scanExpenseCategory(r.pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense category %s: %w", categoryID, err)
	}
	return c, nil
}

func (r *expenseRepository) ListExpenseCategories(ctx context.Context, activeOnly bool) ([]domain.ExpenseCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM expense_categories`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.ExpenseCategory
	for rows.Next() {
		c, err := scanExpenseCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense category row: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading expense category rows: %w", err)
	}
	return categories, nil
}
