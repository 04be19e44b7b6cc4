package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
	"github.com/schoolfin/sfm_backend/internal/utils/reference"
)

var budgetCodePattern = regexp.MustCompile(`^[A-Z]{3}-\d{3}$`)

// expenseService manages expenses and their categories.
type expenseService struct {
	expenseRepo portsrepo.ExpenseRepository
	postingSvc  portssvc.PostingSvc
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepository, postingSvc portssvc.PostingSvc) portssvc.ExpenseSvcFacade {
	return &expenseService{expenseRepo: expenseRepo, postingSvc: postingSvc}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) CreateCategory(ctx context.Context, req dto.CreateExpenseCategoryRequest, actor string) (*domain.ExpenseCategory, error) {
	if req.BudgetCode != "" && !budgetCodePattern.MatchString(req.BudgetCode) {
		return nil, fmt.Errorf("%w: budget code %q must match XXX-000", apperrors.ErrValidation, req.BudgetCode)
	}

	now := time.Now().UTC()
	category := domain.ExpenseCategory{
		CategoryID:  uuid.NewString(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		BudgetCode:  req.BudgetCode,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.expenseRepo.SaveExpenseCategory(ctx, category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *expenseService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.ExpenseCategory, error) {
	return s.expenseRepo.ListExpenseCategories(ctx, activeOnly)
}

// CreateExpense records an approved expense. A same-vendor, same-amount,
// same-date expense already on file is treated as a probable double entry and
// rejected unless the request explicitly allows it.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actor string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}

	category, err := s.expenseRepo.FindExpenseCategoryByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: expense category %q does not exist", apperrors.ErrValidation, req.CategoryID)
		}
		return nil, err
	}
	if !category.IsActive {
		return nil, fmt.Errorf("%w: expense category %q is inactive", apperrors.ErrValidation, category.Name)
	}

	if !req.AllowDuplicate {
		dup, err := s.expenseRepo.FindPotentialDuplicate(ctx, req.VendorName, req.Amount, req.PaymentDate)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if dup != nil {
			return nil, fmt.Errorf("%w: expense %s for %s on %s looks identical", apperrors.ErrDuplicate, dup.Reference, dup.VendorName, dup.PaymentDate.Format("2006-01-02"))
		}
	}

	now := time.Now().UTC()
	ref, err := reference.NewExpenseReference(now)
	if err != nil {
		return nil, fmt.Errorf("generating expense reference: %w", err)
	}

	expense := domain.Expense{
		ExpenseID:     uuid.NewString(),
		CategoryID:    category.CategoryID,
		CategoryName:  category.Name,
		Category:      category.Category,
		Amount:        req.Amount,
		Description:   req.Description,
		Method:        domain.PaymentMethod(req.Method),
		PaymentDate:   req.PaymentDate,
		VendorName:    req.VendorName,
		VendorContact: req.VendorContact,
		Reference:     ref,
		Status:        domain.ExpenseApproved,
		ApprovedBy:    actor,
		ApprovedAt:    &now,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		return nil, err
	}

	logger.Info("Expense recorded",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("reference", expense.Reference),
		slog.String("category", expense.Category),
		slog.String("amount", expense.Amount.String()),
	)
	return &expense, nil
}

// MarkExpensePaid moves an approved expense to paid and posts it. The status
// change stands even if posting is deferred.
func (s *expenseService) MarkExpensePaid(ctx context.Context, expenseID string, actor string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionExpense(expense.Status, domain.ExpensePaid) {
		return nil, fmt.Errorf("%w: expense %s cannot move from %s to %s", apperrors.ErrConflict, expense.Reference, expense.Status, domain.ExpensePaid)
	}

	expense.Status = domain.ExpensePaid
	expense.LastUpdatedAt = time.Now().UTC()
	expense.LastUpdatedBy = actor
	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, err
	}

	if _, postErr := s.postingSvc.PostExpense(ctx, *expense, actor); postErr != nil {
		logger.Error("Expense paid but posting deferred",
			slog.String("expense_id", expense.ExpenseID),
			slog.String("reference", expense.Reference),
			slog.String("error", postErr.Error()),
		)
	}
	return expense, nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

func (s *expenseService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) ([]domain.Expense, error) {
	filter := portsrepo.ListExpensesFilter{
		CategoryID: params.CategoryID,
		From:       params.From,
		To:         params.To,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
	if params.Status != nil {
		st := domain.ExpenseStatus(*params.Status)
		filter.Status = &st
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.expenseRepo.ListExpenses(ctx, filter)
}
