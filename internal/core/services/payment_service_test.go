package services_test

import (
	"context"
	"errors"
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

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepository = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByReference(ctx context.Context, ref string) (*domain.Payment, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, filter portsrepo.ListPaymentsFilter) ([]domain.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveFeeAssignment(ctx context.Context, assignment domain.FeeAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindFeeAssignmentByID(ctx context.Context, assignmentID string) (*domain.FeeAssignment, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeAssignment), args.Error(1)
}

func (m *MockPaymentRepository) ListFeeAssignmentsByStudent(ctx context.Context, studentID string) ([]domain.FeeAssignment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeAssignment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateFeeAssignment(ctx context.Context, assignment domain.FeeAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockPostingSvc  *MockPostingService
	service         portssvc.PaymentSvcFacade

	actor string
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.mockPaymentRepo = new(MockPaymentRepository)
	s.mockPostingSvc = new(MockPostingService)
	s.service = services.NewPaymentService(s.mockPaymentRepo, s.mockPostingSvc)
	s.actor = "bursar"
}

func (s *PaymentServiceTestSuite) createRequest() dto.CreatePaymentRequest {
	return dto.CreatePaymentRequest{
		StudentID:   uuid.NewString(),
		StudentName: "Adaeze Obi",
		Amount:      decimal.NewFromInt(80_000),
		Method:      "cash",
		PaymentDate: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		Allocations: []dto.AllocationRequest{
			{FeeType: "tuition", Amount: decimal.NewFromInt(60_000)},
			{FeeType: "transport", Amount: decimal.NewFromInt(20_000)},
		},
	}
}

func (s *PaymentServiceTestSuite) TestCreatePayment_Success() {
	ctx := context.Background()
	req := s.createRequest()

	s.mockPaymentRepo.On("SavePayment", ctx, mock.Anything).Return(nil).Once()

	payment, err := s.service.CreatePayment(ctx, req, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.PaymentPending, payment.Status)
	s.Regexp(`^PAY-\d{4}-[A-Z0-9]{8}$`, payment.Reference)
	s.Len(payment.Allocations, 2)
	// Pending payments never touch the ledger.
	s.mockPostingSvc.AssertNotCalled(s.T(), "PostStudentPayment", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestCreatePayment_AllocationMismatchRejected() {
	ctx := context.Background()
	req := s.createRequest()
	req.Allocations[1].Amount = decimal.NewFromInt(15_000) // sums to 75,000, not 80,000

	payment, err := s.service.CreatePayment(ctx, req, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Nil(payment)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestCreatePayment_CashAboveCapRejected() {
	ctx := context.Background()
	req := s.createRequest()
	req.Amount = decimal.NewFromInt(500_001)
	req.Allocations = []dto.AllocationRequest{
		{FeeType: "tuition", Amount: decimal.NewFromInt(500_001)},
	}

	_, err := s.service.CreatePayment(ctx, req, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestCreatePayment_BankTransferNotCapped() {
	ctx := context.Background()
	req := s.createRequest()
	req.Method = "bank_transfer"
	req.Amount = decimal.NewFromInt(2_000_000)
	req.Allocations = []dto.AllocationRequest{
		{FeeType: "tuition", Amount: decimal.NewFromInt(2_000_000)},
	}

	s.mockPaymentRepo.On("SavePayment", ctx, mock.Anything).Return(nil).Once()

	payment, err := s.service.CreatePayment(ctx, req, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.MethodBankTransfer, payment.Method)
}

func (s *PaymentServiceTestSuite) TestCreatePayment_UnknownMethodRejected() {
	ctx := context.Background()
	req := s.createRequest()
	req.Method = "barter"

	_, err := s.service.CreatePayment(ctx, req, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PaymentServiceTestSuite) TestCreatePayment_UnknownFeeTypeRejected() {
	ctx := context.Background()
	req := s.createRequest()
	req.Allocations[0].FeeType = "lottery"

	_, err := s.service.CreatePayment(ctx, req, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PaymentServiceTestSuite) pendingPayment() *domain.Payment {
	return &domain.Payment{
		PaymentID:   uuid.NewString(),
		StudentName: "Adaeze Obi",
		Amount:      decimal.NewFromInt(80_000),
		Method:      domain.MethodCash,
		Reference:   "PAY-2026-AB12CD34",
		Status:      domain.PaymentPending,
	}
}

func (s *PaymentServiceTestSuite) TestConfirmPayment_PostsToLedger() {
	ctx := context.Background()
	payment := s.pendingPayment()

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentConfirmed
	})).Return(nil).Once()
	s.mockPostingSvc.On("PostStudentPayment", ctx, mock.Anything, s.actor).
		Return(&domain.JournalEntry{JournalID: uuid.NewString()}, nil).Once()

	confirmed, err := s.service.ConfirmPayment(ctx, payment.PaymentID, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.PaymentConfirmed, confirmed.Status)
	s.mockPostingSvc.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestConfirmPayment_SurvivesPostingFailure() {
	ctx := context.Background()
	payment := s.pendingPayment()

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("UpdatePayment", ctx, mock.Anything).Return(nil).Once()
	s.mockPostingSvc.On("PostStudentPayment", ctx, mock.Anything, s.actor).
		Return(nil, errors.New("ledger unavailable")).Once()

	confirmed, err := s.service.ConfirmPayment(ctx, payment.PaymentID, s.actor)

	// The business operation stands; the outbox catches the ledger up later.
	s.Require().NoError(err)
	s.Equal(domain.PaymentConfirmed, confirmed.Status)
}

func (s *PaymentServiceTestSuite) TestConfirmPayment_AlreadyConfirmedConflicts() {
	ctx := context.Background()
	payment := s.pendingPayment()
	payment.Status = domain.PaymentConfirmed

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()

	_, err := s.service.ConfirmPayment(ctx, payment.PaymentID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "UpdatePayment", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestRefundPayment_OnlyFromConfirmed() {
	ctx := context.Background()
	payment := s.pendingPayment() // still pending

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()

	_, err := s.service.RefundPayment(ctx, payment.PaymentID, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockPostingSvc.AssertNotCalled(s.T(), "PostPaymentRefund", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestCreateFeeAssignment_TotalsItemsAndPosts() {
	ctx := context.Background()
	req := dto.CreateFeeAssignmentRequest{
		StudentID:    uuid.NewString(),
		StudentName:  "Adaeze Obi",
		AcademicYear: "2025/2026",
		Term:         "first",
		Items: []dto.FeeItemRequest{
			{FeeType: "tuition", Amount: decimal.NewFromInt(150_000)},
			{FeeType: "feeding", Amount: decimal.NewFromInt(90_000)},
		},
	}

	s.mockPaymentRepo.On("SaveFeeAssignment", ctx, mock.MatchedBy(func(a domain.FeeAssignment) bool {
		return a.TotalAmount.Equal(decimal.NewFromInt(240_000)) && a.AmountPaid.IsZero()
	})).Return(nil).Once()
	s.mockPostingSvc.On("PostFeeAssignment", ctx, mock.Anything, s.actor).
		Return(&domain.JournalEntry{JournalID: uuid.NewString()}, nil).Once()

	assignment, err := s.service.CreateFeeAssignment(ctx, req, s.actor)

	s.Require().NoError(err)
	s.True(assignment.TotalAmount.Equal(decimal.NewFromInt(240_000)))
	s.mockPaymentRepo.AssertExpectations(s.T())
	s.mockPostingSvc.AssertExpectations(s.T())
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
