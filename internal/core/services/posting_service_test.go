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
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/core/services"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockMappingSvc  *MockMappingService
	mockJournalSvc  *MockJournalService
	mockOutboxRepo  *MockOutboxRepository
	service         portssvc.PostingSvc

	actor    string
	accounts map[string]domain.Account
}

func (s *PostingServiceTestSuite) SetupTest() {
	s.mockJournalRepo = new(MockJournalRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockMappingSvc = new(MockMappingService)
	s.mockJournalSvc = new(MockJournalService)
	s.mockOutboxRepo = new(MockOutboxRepository)
	s.service = services.NewPostingService(s.mockJournalRepo, s.mockAccountRepo, s.mockMappingSvc, s.mockJournalSvc, s.mockOutboxRepo)

	s.actor = "system"
	s.accounts = map[string]domain.Account{}
	for code, name := range map[string]string{
		services.CodeCashOnHand:     "Cash on Hand",
		services.CodeBankOperations: "Bank - Operations",
		services.CodeReceivables:    "Accounts Receivable",
		"4100":                      "Tuition Fees",
		"4110":                      "Transport Fees",
	} {
		s.accounts[code] = domain.Account{
			AccountID: uuid.NewString(),
			Code:      code,
			Name:      name,
			IsActive:  true,
		}
	}
}

func (s *PostingServiceTestSuite) account(code string) *domain.Account {
	a := s.accounts[code]
	return &a
}

func (s *PostingServiceTestSuite) payment() domain.Payment {
	return domain.Payment{
		PaymentID:   uuid.NewString(),
		StudentID:   uuid.NewString(),
		StudentName: "Adaeze Obi",
		Amount:      decimal.NewFromInt(80_000),
		Method:      domain.MethodCash,
		PaymentDate: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		Allocations: []domain.PaymentAllocation{
			{FeeType: "tuition", Amount: decimal.NewFromInt(60_000)},
			{FeeType: "transport", Amount: decimal.NewFromInt(20_000)},
		},
		Reference: "PAY-2026-AB12CD34",
		Status:    domain.PaymentConfirmed,
	}
}

func (s *PostingServiceTestSuite) TestPostStudentPayment_BalancedEntry() {
	ctx := context.Background()
	payment := s.payment()

	s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefPayment, payment.Reference).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(s.accounts, nil).Once()
	s.mockJournalRepo.On("NextEntryNumber", ctx, 2026).Return("JE-2026-000042", nil).Once()

	var saved domain.JournalEntry
	s.mockJournalRepo.On("SaveJournalEntry", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.JournalEntry)
		}).Return(nil).Once()

	entry, err := s.service.PostStudentPayment(ctx, payment, s.actor)

	s.Require().NoError(err)
	s.Equal(domain.Posted, entry.Status)
	s.NotNil(entry.PostedAt)
	s.Equal(payment.Reference, entry.ReferenceID)

	// Cash debited for the full amount, the receivable credited in full.
	// Revenue is recognized by the fee assignment, never by the payment.
	s.Require().Len(saved.Lines, 2)
	s.Equal(services.CodeCashOnHand, saved.Lines[0].AccountCode)
	s.True(saved.Lines[0].Debit.Equal(payment.Amount))
	s.Equal(services.CodeReceivables, saved.Lines[1].AccountCode)
	s.True(saved.Lines[1].Credit.Equal(payment.Amount))
	s.True(saved.TotalDebit().Equal(saved.TotalCredit()))
	s.mockJournalRepo.AssertExpectations(s.T())
	s.mockOutboxRepo.AssertNotCalled(s.T(), "SavePendingPosting", mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostStudentPayment_IdempotentPerReference() {
	ctx := context.Background()
	payment := s.payment()
	existing := &domain.JournalEntry{
		JournalID:     uuid.NewString(),
		EntryNumber:   "JE-2026-000042",
		ReferenceType: domain.RefPayment,
		ReferenceID:   payment.Reference,
		Status:        domain.Posted,
	}

	s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefPayment, payment.Reference).
		Return(existing, nil).Once()

	entry, err := s.service.PostStudentPayment(ctx, payment, s.actor)

	s.Require().NoError(err)
	s.Equal(existing.JournalID, entry.JournalID)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostStudentPayment_FailureDefersToOutbox() {
	ctx := context.Background()
	payment := s.payment()
	saveErr := errors.New("connection reset")

	s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefPayment, payment.Reference).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(s.accounts, nil).Once()
	s.mockJournalRepo.On("NextEntryNumber", ctx, 2026).Return("JE-2026-000042", nil).Once()
	s.mockJournalRepo.On("SaveJournalEntry", ctx, mock.Anything, mock.Anything).Return(saveErr).Once()

	s.mockOutboxRepo.On("FindPendingPostingByReference", ctx, domain.RefPayment, payment.Reference).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockOutboxRepo.On("SavePendingPosting", ctx, mock.MatchedBy(func(p domain.PendingPosting) bool {
		return p.ReferenceID == payment.Reference && p.Attempts == 1 && p.LastError != ""
	})).Return(nil).Once()

	entry, err := s.service.PostStudentPayment(ctx, payment, s.actor)

	s.Require().Error(err)
	s.Nil(entry)
	s.mockOutboxRepo.AssertExpectations(s.T())
}

func (s *PostingServiceTestSuite) TestPostStudentPayment_RepeatFailureBumpsAttempts() {
	ctx := context.Background()
	payment := s.payment()

	s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefPayment, payment.Reference).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(s.accounts, nil).Once()
	s.mockJournalRepo.On("NextEntryNumber", ctx, 2026).Return("JE-2026-000042", nil).Once()
	s.mockJournalRepo.On("SaveJournalEntry", ctx, mock.Anything, mock.Anything).Return(errors.New("still down")).Once()

	pending := &domain.PendingPosting{
		PostingID:     uuid.NewString(),
		ReferenceType: domain.RefPayment,
		ReferenceID:   payment.Reference,
		Status:        domain.PostingPendingStatus,
		Attempts:      2,
	}
	s.mockOutboxRepo.On("FindPendingPostingByReference", ctx, domain.RefPayment, payment.Reference).
		Return(pending, nil).Once()
	s.mockOutboxRepo.On("UpdatePendingPosting", ctx, mock.MatchedBy(func(p domain.PendingPosting) bool {
		return p.PostingID == pending.PostingID && p.Attempts == 3
	})).Return(nil).Once()

	_, err := s.service.PostStudentPayment(ctx, payment, s.actor)

	s.Require().Error(err)
	s.mockOutboxRepo.AssertExpectations(s.T())
	s.mockOutboxRepo.AssertNotCalled(s.T(), "SavePendingPosting", mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostSalaryPayment_BalancedForAllDeductionMixes() {
	ctx := context.Background()

	liabilityCodes := map[string]string{
		"paye":    services.CodePAYEPayable,
		"pension": services.CodePensionPayable,
		"nhf":     services.CodeNHFPayable,
		"nhis":    services.CodeNHISPayable,
	}

	tests := []struct {
		name            string
		gross           decimal.Decimal
		deductions      []domain.DeductionItem
		employerPension decimal.Decimal
		wantLines       int
	}{
		{
			name:  "full statutory mix",
			gross: decimal.NewFromInt(100_000),
			deductions: []domain.DeductionItem{
				{Name: "PAYE", Amount: decimal.NewFromInt(8_850), IsStatutory: true},
				{Name: "Pension", Amount: decimal.NewFromInt(8_000), IsStatutory: true},
				{Name: "NHF", Amount: decimal.NewFromInt(2_500), IsStatutory: true},
				{Name: "NHIS", Amount: decimal.NewFromInt(5_000), IsStatutory: true},
			},
			employerPension: decimal.NewFromInt(10_000),
			wantLines:       7,
		},
		{
			name:            "no deductions at all",
			gross:           decimal.NewFromInt(25_000),
			employerPension: decimal.Zero,
			wantLines:       2,
		},
		{
			name:  "non-statutory deduction only",
			gross: decimal.NewFromInt(80_000),
			deductions: []domain.DeductionItem{
				{Name: "Staff loan", Amount: decimal.NewFromInt(10_000)},
			},
			employerPension: decimal.Zero,
			wantLines:       3,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			net := tt.gross
			for _, d := range tt.deductions {
				net = net.Sub(d.Amount)
			}
			salary := domain.SalaryPayment{
				SalaryPaymentID: uuid.NewString(),
				StaffID:         uuid.NewString(),
				StaffName:       "Musa Bello",
				GrossSalary:     tt.gross,
				NetSalary:       net,
				Deductions:      tt.deductions,
				Method:          domain.MethodBankTransfer,
				PaymentDate:     time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
				Reference:       "SAL-2026-01-000042",
			}

			accounts := map[string]domain.Account{}
			for _, code := range []string{
				services.CodeSalariesExpense, services.CodePensionExpense,
				services.CodeSalariesPayable, services.CodeBankOperations,
				services.CodePAYEPayable, services.CodePensionPayable,
				services.CodeNHFPayable, services.CodeNHISPayable,
			} {
				accounts[code] = domain.Account{AccountID: uuid.NewString(), Code: code, IsActive: true}
			}

			s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefSalary, salary.Reference).
				Return(nil, apperrors.ErrNotFound).Once()
			for source, code := range liabilityCodes {
				account := accounts[code]
				s.mockMappingSvc.On("Resolve", ctx, domain.MappingLiability, source).Return(&account, nil).Maybe()
			}
			s.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(accounts, nil).Once()
			s.mockJournalRepo.On("NextEntryNumber", ctx, 2026).Return("JE-2026-000043", nil).Once()

			var saved domain.JournalEntry
			s.mockJournalRepo.On("SaveJournalEntry", ctx, mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					saved = args.Get(1).(domain.JournalEntry)
				}).Return(nil).Once()

			_, err := s.service.PostSalaryPayment(ctx, salary, tt.employerPension, s.actor)

			s.Require().NoError(err)
			s.Len(saved.Lines, tt.wantLines)
			s.True(saved.TotalDebit().Equal(saved.TotalCredit()),
				"debits %s vs credits %s", saved.TotalDebit(), saved.TotalCredit())
		})
	}
}

func (s *PostingServiceTestSuite) TestPostSalaryPayment_UnreconciledDeductionsRejected() {
	ctx := context.Background()
	salary := domain.SalaryPayment{
		SalaryPaymentID: uuid.NewString(),
		StaffID:         uuid.NewString(),
		StaffName:       "Musa Bello",
		GrossSalary:     decimal.NewFromInt(200_000),
		NetSalary:       decimal.NewFromInt(180_000),
		// 15,000 of deductions cannot explain a 20,000 gross-to-net gap.
		Deductions: []domain.DeductionItem{
			{Name: "PAYE", Amount: decimal.NewFromInt(15_000), IsStatutory: true},
		},
		Method:    domain.MethodBankTransfer,
		Reference: "SAL-2026-01-000007",
	}

	s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefSalary, salary.Reference).
		Return(nil, apperrors.ErrNotFound).Maybe()
	s.mockOutboxRepo.On("FindPendingPostingByReference", ctx, domain.RefSalary, salary.Reference).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockOutboxRepo.On("SavePendingPosting", ctx, mock.Anything).Return(nil).Once()

	_, err := s.service.PostSalaryPayment(ctx, salary, decimal.NewFromInt(20_000), s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockOutboxRepo.AssertExpectations(s.T())
}

func (s *PostingServiceTestSuite) TestPostBankTransaction_DepositCreditsIncome() {
	ctx := context.Background()
	txn := domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		TxnType:           domain.BankDeposit,
		Debit:             decimal.NewFromInt(50_000),
		TxnDate:           time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		Description:       "PTA donation lodgement",
	}
	income := domain.Account{AccountID: uuid.NewString(), Code: services.CodeOtherIncome, Name: "Other Income", IsActive: true}
	accounts := map[string]domain.Account{
		services.CodeBankOperations: s.accounts[services.CodeBankOperations],
		services.CodeOtherIncome:    income,
	}

	s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefBankTxn, txn.BankTransactionID).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockMappingSvc.On("Resolve", ctx, domain.MappingRevenue, "deposit").Return(&income, nil).Once()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(accounts, nil).Once()
	s.mockJournalRepo.On("NextEntryNumber", ctx, 2026).Return("JE-2026-000050", nil).Once()

	var saved domain.JournalEntry
	s.mockJournalRepo.On("SaveJournalEntry", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.JournalEntry)
		}).Return(nil).Once()

	_, err := s.service.PostBankTransaction(ctx, txn, services.CodeBankOperations, s.actor)

	s.Require().NoError(err)
	s.Require().Len(saved.Lines, 2)
	s.Equal(services.CodeBankOperations, saved.Lines[0].AccountCode)
	s.True(saved.Lines[0].Debit.Equal(txn.Debit))
	s.Equal(services.CodeOtherIncome, saved.Lines[1].AccountCode)
	s.True(saved.Lines[1].Credit.Equal(txn.Debit))
}

func (s *PostingServiceTestSuite) TestPostBankTransaction_WithdrawalDebitsExpense() {
	ctx := context.Background()
	txn := domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		TxnType:           domain.BankWithdrawal,
		Credit:            decimal.NewFromInt(20_000),
		TxnDate:           time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC),
		Description:       "Petty cash top-up",
	}
	expense := domain.Account{AccountID: uuid.NewString(), Code: services.CodeOtherExpenses, Name: "Other Expenses", IsActive: true}
	accounts := map[string]domain.Account{
		services.CodeBankOperations: s.accounts[services.CodeBankOperations],
		services.CodeOtherExpenses:  expense,
	}

	s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefBankTxn, txn.BankTransactionID).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockMappingSvc.On("Resolve", ctx, domain.MappingExpense, "withdrawal").Return(&expense, nil).Once()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(accounts, nil).Once()
	s.mockJournalRepo.On("NextEntryNumber", ctx, 2026).Return("JE-2026-000051", nil).Once()

	var saved domain.JournalEntry
	s.mockJournalRepo.On("SaveJournalEntry", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.JournalEntry)
		}).Return(nil).Once()

	_, err := s.service.PostBankTransaction(ctx, txn, services.CodeBankOperations, s.actor)

	s.Require().NoError(err)
	s.Require().Len(saved.Lines, 2)
	s.Equal(services.CodeOtherExpenses, saved.Lines[0].AccountCode)
	s.True(saved.Lines[0].Debit.Equal(txn.Credit))
	s.Equal(services.CodeBankOperations, saved.Lines[1].AccountCode)
	s.True(saved.Lines[1].Credit.Equal(txn.Credit))
}

func (s *PostingServiceTestSuite) TestPostBankTransaction_TransferLegsSkipped() {
	ctx := context.Background()
	txn := domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		TxnType:           domain.BankTransferOut,
		Credit:            decimal.NewFromInt(250_000),
	}

	entry, err := s.service.PostBankTransaction(ctx, txn, services.CodeBankOperations, s.actor)

	s.Require().NoError(err)
	s.Nil(entry, "transfer legs post once via the transfer, not per leg")
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostBankTransaction_UnlinkedAccountSkipped() {
	ctx := context.Background()
	txn := domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		TxnType:           domain.BankDeposit,
		Debit:             decimal.NewFromInt(50_000),
	}

	entry, err := s.service.PostBankTransaction(ctx, txn, "", s.actor)

	s.Require().NoError(err)
	s.Nil(entry)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostBankTransfer_SameGLAccountSkipped() {
	ctx := context.Background()
	transfer := domain.BankTransfer{
		TransferID: uuid.NewString(),
		Amount:     decimal.NewFromInt(100_000),
		Reference:  "TRF-2026-000003",
	}

	// Both legs unlinked: both fall back to the operations bank account.
	entry, err := s.service.PostBankTransfer(ctx, transfer, "", "", s.actor)

	s.Require().NoError(err)
	s.Nil(entry)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostPaymentRefund_NoOriginalConflicts() {
	ctx := context.Background()
	payment := s.payment()

	s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefPayment, payment.Reference).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.PostPaymentRefund(ctx, payment, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *PostingServiceTestSuite) TestPostPaymentRefund_ReversesOriginal() {
	ctx := context.Background()
	payment := s.payment()
	original := &domain.JournalEntry{
		JournalID:     uuid.NewString(),
		ReferenceType: domain.RefPayment,
		ReferenceID:   payment.Reference,
		Status:        domain.Posted,
	}
	reversing := &domain.JournalEntry{
		JournalID:         uuid.NewString(),
		Status:            domain.Posted,
		OriginalJournalID: &original.JournalID,
	}

	s.mockJournalRepo.On("FindJournalEntryByReference", ctx, domain.RefPayment, payment.Reference).
		Return(original, nil).Once()
	s.mockJournalSvc.On("ReverseEntry", ctx, original.JournalID, mock.Anything, s.actor).
		Return(reversing, nil).Once()

	entry, err := s.service.PostPaymentRefund(ctx, payment, s.actor)

	s.Require().NoError(err)
	s.Equal(reversing.JournalID, entry.JournalID)
	s.mockJournalSvc.AssertExpectations(s.T())
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
