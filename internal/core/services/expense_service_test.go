package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/core/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepository = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindExpenseByReference(ctx context.Context, ref string) (*domain.Expense, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindPotentialDuplicate(ctx context.Context, vendorName string, amount decimal.Decimal, paymentDate time.Time) (*domain.Expense, error) {
	args := m.Called(ctx, vendorName, amount, paymentDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ListExpensesFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) SaveExpenseCategory(ctx context.Context, category domain.ExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseCategory), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenseCategories(ctx context.Context, activeOnly bool) ([]domain.ExpenseCategory, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseCategory), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpenseCategory(ctx context.Context, category domain.ExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockPostingSvc  *MockPostingService
	service         portssvc.ExpenseSvcFacade

	actor    string
	category domain.ExpenseCategory
}

func (s *ExpenseServiceTestSuite) SetupTest() {
	s.mockExpenseRepo = new(MockExpenseRepository)
	s.mockPostingSvc = new(MockPostingService)
	s.service = services.NewExpenseService(s.mockExpenseRepo, s.mockPostingSvc)

	s.actor = "bursar"
	s.category = domain.ExpenseCategory{
		CategoryID: uuid.NewString(),
		Name:       "Electricity",
		Category:   "utilities",
		BudgetCode: "UTL-001",
		IsActive:   true,
	}
}

func (s *ExpenseServiceTestSuite) createRequest() dto.CreateExpenseRequest {
	return dto.CreateExpenseRequest{
		CategoryID:  s.category.CategoryID,
		Amount:      decimal.NewFromInt(45_000),
		Description: "PHCN bill for March",
		Method:      "bank_transfer",
		PaymentDate: time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC),
		VendorName:  "Eko Electricity",
	}
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_ApprovedWithReference() {
	ctx := context.Background()
	req := s.createRequest()

	s.mockExpenseRepo.On("FindExpenseCategoryByID", ctx, s.category.CategoryID).Return(&s.category, nil).Once()
	s.mockExpenseRepo.On("FindPotentialDuplicate", ctx, req.VendorName, req.Amount, req.PaymentDate).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockExpenseRepo.On("SaveExpense", ctx, mock.Anything).Return(nil).Once()

	expense, err := s.service.CreateExpense(ctx, req, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.ExpenseApproved, expense.Status)
	s.Regexp(`^EXP-\d{4}-[A-Z0-9]{8}$`, expense.Reference)
	s.Equal(s.category.Name, expense.CategoryName)
	s.Equal(s.actor, expense.ApprovedBy)
	s.mockExpenseRepo.AssertExpectations(s.T())
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_DuplicateRejected() {
	ctx := context.Background()
	req := s.createRequest()
	existing := domain.Expense{
		ExpenseID:   uuid.NewString(),
		Reference:   "EXP-2026-AB12CD34",
		VendorName:  req.VendorName,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
	}

	s.mockExpenseRepo.On("FindExpenseCategoryByID", ctx, s.category.CategoryID).Return(&s.category, nil).Once()
	s.mockExpenseRepo.On("FindPotentialDuplicate", ctx, req.VendorName, req.Amount, req.PaymentDate).
		Return(&existing, nil).Once()

	_, err := s.service.CreateExpense(ctx, req, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockExpenseRepo.AssertNotCalled(s.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_AllowDuplicateBypassesCheck() {
	ctx := context.Background()
	req := s.createRequest()
	req.AllowDuplicate = true

	s.mockExpenseRepo.On("FindExpenseCategoryByID", ctx, s.category.CategoryID).Return(&s.category, nil).Once()
	s.mockExpenseRepo.On("SaveExpense", ctx, mock.Anything).Return(nil).Once()

	_, err := s.service.CreateExpense(ctx, req, s.actor)

	s.Require().NoError(err)
	s.mockExpenseRepo.AssertNotCalled(s.T(), "FindPotentialDuplicate",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_InactiveCategoryRejected() {
	ctx := context.Background()
	req := s.createRequest()
	inactive := s.category
	inactive.IsActive = false

	s.mockExpenseRepo.On("FindExpenseCategoryByID", ctx, s.category.CategoryID).Return(&inactive, nil).Once()

	_, err := s.service.CreateExpense(ctx, req, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExpenseServiceTestSuite) TestCreateCategory_BadBudgetCodeRejected() {
	ctx := context.Background()

	_, err := s.service.CreateCategory(ctx, dto.CreateExpenseCategoryRequest{
		Name:       "Diesel",
		Category:   "utilities",
		BudgetCode: "DIESEL1",
	}, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockExpenseRepo.AssertNotCalled(s.T(), "SaveExpenseCategory", mock.Anything, mock.Anything)
}

func (s *ExpenseServiceTestSuite) TestMarkExpensePaid_PostsToLedger() {
	ctx := context.Background()
	expense := &domain.Expense{
		ExpenseID:  uuid.NewString(),
		CategoryID: s.category.CategoryID,
		Category:   "utilities",
		Amount:     decimal.NewFromInt(45_000),
		Reference:  "EXP-2026-AB12CD34",
		Status:     domain.ExpenseApproved,
	}

	s.mockExpenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	s.mockExpenseRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Status == domain.ExpensePaid
	})).Return(nil).Once()
	s.mockPostingSvc.On("PostExpense", ctx, mock.Anything, s.actor).
		Return(&domain.JournalEntry{JournalID: uuid.NewString()}, nil).Once()

	paid, err := s.service.MarkExpensePaid(ctx, expense.ExpenseID, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.ExpensePaid, paid.Status)
	s.mockPostingSvc.AssertExpectations(s.T())
}

func (s *ExpenseServiceTestSuite) TestMarkExpensePaid_AlreadyPaidConflicts() {
	ctx := context.Background()
	expense := &domain.Expense{
		ExpenseID: uuid.NewString(),
		Reference: "EXP-2026-AB12CD34",
		Status:    domain.ExpensePaid,
	}

	s.mockExpenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	_, err := s.service.MarkExpensePaid(ctx, expense.ExpenseID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockExpenseRepo.AssertNotCalled(s.T(), "UpdateExpense", mock.Anything, mock.Anything)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
