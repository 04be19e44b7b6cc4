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

// --- Mock PayrollRepository ---

type MockPayrollRepository struct {
	mock.Mock
}

var _ portsrepo.PayrollRepository = (*MockPayrollRepository)(nil)

func (m *MockPayrollRepository) SaveStaff(ctx context.Context, staff domain.StaffMember) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindStaffByID(ctx context.Context, staffID string) (*domain.StaffMember, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffMember), args.Error(1)
}

func (m *MockPayrollRepository) FindStaffByNumber(ctx context.Context, staffNumber string) (*domain.StaffMember, error) {
	args := m.Called(ctx, staffNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffMember), args.Error(1)
}

func (m *MockPayrollRepository) ListStaff(ctx context.Context, activeOnly bool) ([]domain.StaffMember, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StaffMember), args.Error(1)
}

func (m *MockPayrollRepository) UpdateStaff(ctx context.Context, staff domain.StaffMember) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

func (m *MockPayrollRepository) SaveSalaryPayment(ctx context.Context, payment domain.SalaryPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindSalaryPaymentByID(ctx context.Context, salaryPaymentID string) (*domain.SalaryPayment, error) {
	args := m.Called(ctx, salaryPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalaryPayment), args.Error(1)
}

func (m *MockPayrollRepository) FindPaidSalaryForPeriod(ctx context.Context, staffID string, periodStart, periodEnd time.Time) (*domain.SalaryPayment, error) {
	args := m.Called(ctx, staffID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalaryPayment), args.Error(1)
}

func (m *MockPayrollRepository) ListSalaryPayments(ctx context.Context, filter portsrepo.ListSalariesFilter) ([]domain.SalaryPayment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalaryPayment), args.Error(1)
}

func (m *MockPayrollRepository) UpdateSalaryPayment(ctx context.Context, payment domain.SalaryPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

type PayrollServiceTestSuite struct {
	suite.Suite
	mockPayrollRepo *MockPayrollRepository
	mockPostingSvc  *MockPostingService
	service         portssvc.PayrollSvcFacade

	actor       string
	staff       domain.StaffMember
	periodStart time.Time
	periodEnd   time.Time
}

func (s *PayrollServiceTestSuite) SetupTest() {
	s.mockPayrollRepo = new(MockPayrollRepository)
	s.mockPostingSvc = new(MockPostingService)
	s.service = services.NewPayrollService(s.mockPayrollRepo, s.mockPostingSvc)

	s.actor = "bursar"
	s.staff = domain.StaffMember{
		StaffID:     uuid.NewString(),
		StaffNumber: "STF-0042",
		Surname:     "Okafor",
		Firstname:   "Chidi",
		Position:    "Mathematics Teacher",
		BasicSalary: decimal.NewFromInt(100_000),
		IsActive:    true,
	}
	s.periodStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.periodEnd = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
}

func (s *PayrollServiceTestSuite) createRequest() dto.CreateSalaryPaymentRequest {
	return dto.CreateSalaryPaymentRequest{
		StaffID:     s.staff.StaffID,
		PeriodStart: s.periodStart,
		PeriodEnd:   s.periodEnd,
		Method:      "bank_transfer",
	}
}

func (s *PayrollServiceTestSuite) TestCreateSalaryPayment_ComputesStatutoryDeductions() {
	ctx := context.Background()

	s.mockPayrollRepo.On("FindStaffByID", ctx, s.staff.StaffID).Return(&s.staff, nil).Once()
	s.mockPayrollRepo.On("FindPaidSalaryForPeriod", ctx, s.staff.StaffID, s.periodStart, s.periodEnd).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockPayrollRepo.On("SaveSalaryPayment", ctx, mock.Anything).Return(nil).Once()

	payment, err := s.service.CreateSalaryPayment(ctx, s.createRequest(), s.actor)

	s.Require().NoError(err)
	s.Equal(domain.SalaryPending, payment.Status)
	s.Regexp(`^SAL-\d{4}-\d{2}-[A-Z0-9]{6}$`, payment.Reference)
	s.True(payment.GrossSalary.Equal(decimal.NewFromInt(100_000)))

	// On a 100,000 monthly gross: PAYE 8,850, pension 8,000, NHF 2,500, NHIS 5,000.
	byName := map[string]decimal.Decimal{}
	for _, d := range payment.Deductions {
		byName[d.Name] = d.Amount
	}
	s.True(byName["PAYE"].Equal(decimal.NewFromInt(8_850)))
	s.True(byName["Pension"].Equal(decimal.NewFromInt(8_000)))
	s.True(byName["NHF"].Equal(decimal.NewFromInt(2_500)))
	s.True(byName["NHIS"].Equal(decimal.NewFromInt(5_000)))
	s.True(payment.NetSalary.Equal(decimal.NewFromInt(75_650)))
}

func (s *PayrollServiceTestSuite) TestCreateSalaryPayment_RecurringAllowancesIncluded() {
	ctx := context.Background()
	staff := s.staff
	staff.Allowances = []domain.StaffAllowance{
		{Name: "Housing", Amount: decimal.NewFromInt(50_000), IsRecurring: true},
		{Name: "Relocation", Amount: decimal.NewFromInt(10_000), IsRecurring: false},
	}

	s.mockPayrollRepo.On("FindStaffByID", ctx, staff.StaffID).Return(&staff, nil).Once()
	s.mockPayrollRepo.On("FindPaidSalaryForPeriod", ctx, staff.StaffID, s.periodStart, s.periodEnd).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockPayrollRepo.On("SaveSalaryPayment", ctx, mock.Anything).Return(nil).Once()

	payment, err := s.service.CreateSalaryPayment(ctx, s.createRequest(), s.actor)

	s.Require().NoError(err)
	// Only the recurring allowance carries into the pay.
	s.Require().Len(payment.Allowances, 1)
	s.Equal("Housing", payment.Allowances[0].Name)
	s.True(payment.GrossSalary.Equal(decimal.NewFromInt(150_000)))
}

func (s *PayrollServiceTestSuite) TestCreateSalaryPayment_NonTaxableAllowanceExemptFromPAYE() {
	ctx := context.Background()
	req := s.createRequest()
	req.ExtraAllowances = []dto.AllowanceItemRequest{
		{Name: "Medical reimbursement", Amount: decimal.NewFromInt(20_000), IsTaxable: false},
	}

	s.mockPayrollRepo.On("FindStaffByID", ctx, s.staff.StaffID).Return(&s.staff, nil).Once()
	s.mockPayrollRepo.On("FindPaidSalaryForPeriod", ctx, s.staff.StaffID, s.periodStart, s.periodEnd).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockPayrollRepo.On("SaveSalaryPayment", ctx, mock.Anything).Return(nil).Once()

	payment, err := s.service.CreateSalaryPayment(ctx, req, s.actor)

	s.Require().NoError(err)
	s.True(payment.GrossSalary.Equal(decimal.NewFromInt(120_000)))

	byName := map[string]decimal.Decimal{}
	for _, d := range payment.Deductions {
		byName[d.Name] = d.Amount
	}
	// PAYE stays on the 100,000 taxable pay; pension still sees the full
	// 120,000 gross.
	s.True(byName["PAYE"].Equal(decimal.NewFromInt(8_850)), "PAYE %s", byName["PAYE"])
	s.True(byName["Pension"].Equal(decimal.NewFromInt(9_600)), "Pension %s", byName["Pension"])
	s.True(byName["NHF"].Equal(decimal.NewFromInt(2_500)))
	s.True(byName["NHIS"].Equal(decimal.NewFromInt(5_000)))
	s.True(payment.NetSalary.Equal(decimal.NewFromInt(94_050)), "net %s", payment.NetSalary)
}

func (s *PayrollServiceTestSuite) TestCreateSalaryPayment_PeriodAlreadyPaidRejected() {
	ctx := context.Background()
	existing := &domain.SalaryPayment{
		SalaryPaymentID: uuid.NewString(),
		Reference:       "SAL-2026-03-QX7K2M",
		Status:          domain.SalaryPaid,
	}

	s.mockPayrollRepo.On("FindStaffByID", ctx, s.staff.StaffID).Return(&s.staff, nil).Once()
	s.mockPayrollRepo.On("FindPaidSalaryForPeriod", ctx, s.staff.StaffID, s.periodStart, s.periodEnd).
		Return(existing, nil).Once()

	_, err := s.service.CreateSalaryPayment(ctx, s.createRequest(), s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockPayrollRepo.AssertNotCalled(s.T(), "SaveSalaryPayment", mock.Anything, mock.Anything)
}

func (s *PayrollServiceTestSuite) TestCreateSalaryPayment_InactiveStaffRejected() {
	ctx := context.Background()
	staff := s.staff
	staff.IsActive = false

	s.mockPayrollRepo.On("FindStaffByID", ctx, staff.StaffID).Return(&staff, nil).Once()

	_, err := s.service.CreateSalaryPayment(ctx, s.createRequest(), s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PayrollServiceTestSuite) TestCreateSalaryPayment_BackwardsPeriodRejected() {
	ctx := context.Background()
	req := s.createRequest()
	req.PeriodStart, req.PeriodEnd = req.PeriodEnd, req.PeriodStart

	_, err := s.service.CreateSalaryPayment(ctx, req, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockPayrollRepo.AssertNotCalled(s.T(), "FindStaffByID", mock.Anything, mock.Anything)
}

func (s *PayrollServiceTestSuite) approvedSalary() *domain.SalaryPayment {
	return &domain.SalaryPayment{
		SalaryPaymentID: uuid.NewString(),
		StaffID:         s.staff.StaffID,
		StaffName:       "Chidi Okafor",
		BasicSalary:     decimal.NewFromInt(100_000),
		GrossSalary:     decimal.NewFromInt(100_000),
		NetSalary:       decimal.NewFromInt(75_650),
		Reference:       "SAL-2026-03-QX7K2M",
		Status:          domain.SalaryApproved,
	}
}

func (s *PayrollServiceTestSuite) TestMarkSalaryPaid_PostsWithEmployerPension() {
	ctx := context.Background()
	payment := s.approvedSalary()

	s.mockPayrollRepo.On("FindSalaryPaymentByID", ctx, payment.SalaryPaymentID).Return(payment, nil).Once()
	s.mockPayrollRepo.On("UpdateSalaryPayment", ctx, mock.MatchedBy(func(p domain.SalaryPayment) bool {
		return p.Status == domain.SalaryPaid
	})).Return(nil).Once()
	// Employer pension is 10% of basic plus allowances.
	s.mockPostingSvc.On("PostSalaryPayment", ctx, mock.Anything, mock.MatchedBy(func(employerPension decimal.Decimal) bool {
		return employerPension.Equal(decimal.NewFromInt(10_000))
	}), s.actor).
		Return(&domain.JournalEntry{JournalID: uuid.NewString()}, nil).Once()

	paid, err := s.service.MarkSalaryPaid(ctx, payment.SalaryPaymentID, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.SalaryPaid, paid.Status)
	s.mockPostingSvc.AssertExpectations(s.T())
}

func (s *PayrollServiceTestSuite) TestApproveSalaryPayment_AlreadyPaidConflicts() {
	ctx := context.Background()
	payment := s.approvedSalary()
	payment.Status = domain.SalaryPaid

	s.mockPayrollRepo.On("FindSalaryPaymentByID", ctx, payment.SalaryPaymentID).Return(payment, nil).Once()

	_, err := s.service.ApproveSalaryPayment(ctx, payment.SalaryPaymentID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockPayrollRepo.AssertNotCalled(s.T(), "UpdateSalaryPayment", mock.Anything, mock.Anything)
}

func (s *PayrollServiceTestSuite) TestPreviewDeductions_NegativeInputRejected() {
	ctx := context.Background()

	_, err := s.service.PreviewDeductions(ctx, decimal.NewFromInt(-1), decimal.Zero)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
