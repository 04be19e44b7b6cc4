package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepository = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindJournalEntryByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, referenceType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListJournalEntries(ctx context.Context, filter portsrepo.ListEntriesFilter) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntryStatus(ctx context.Context, journalID string, status domain.EntryStatus, postedAt *time.Time, reversingEntryID *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, journalID, status, postedAt, reversingEntryID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalLine, originalJournalID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, reversing, lines, originalJournalID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock MappingRepository ---

type MockMappingRepository struct {
	mock.Mock
}

var _ portsrepo.MappingRepository = (*MockMappingRepository)(nil)

func (m *MockMappingRepository) SaveMapping(ctx context.Context, mapping domain.AccountMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockMappingRepository) UpdateMapping(ctx context.Context, mapping domain.AccountMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockMappingRepository) FindMappingByID(ctx context.Context, mappingID string) (*domain.AccountMapping, error) {
	args := m.Called(ctx, mappingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountMapping), args.Error(1)
}

func (m *MockMappingRepository) FindActiveMappings(ctx context.Context, mappingType domain.MappingType, sourceType string) ([]domain.AccountMapping, error) {
	args := m.Called(ctx, mappingType, sourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountMapping), args.Error(1)
}

func (m *MockMappingRepository) ListMappings(ctx context.Context, activeOnly bool) ([]domain.AccountMapping, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountMapping), args.Error(1)
}

// --- Mock OutboxRepository ---

type MockOutboxRepository struct {
	mock.Mock
}

var _ portsrepo.OutboxRepository = (*MockOutboxRepository)(nil)

func (m *MockOutboxRepository) SavePendingPosting(ctx context.Context, posting domain.PendingPosting) error {
	args := m.Called(ctx, posting)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindPendingPostingByID(ctx context.Context, postingID string) (*domain.PendingPosting, error) {
	args := m.Called(ctx, postingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingPosting), args.Error(1)
}

func (m *MockOutboxRepository) FindPendingPostingByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) (*domain.PendingPosting, error) {
	args := m.Called(ctx, referenceType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingPosting), args.Error(1)
}

func (m *MockOutboxRepository) ListPendingPostings(ctx context.Context, limit, offset int) ([]domain.PendingPosting, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingPosting), args.Error(1)
}

func (m *MockOutboxRepository) UpdatePendingPosting(ctx context.Context, posting domain.PendingPosting) error {
	args := m.Called(ctx, posting)
	return args.Error(0)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetIncomeStatementData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, from, to)
	var revenue, expenses []domain.AccountAmount
	if args.Get(0) != nil {
		revenue = args.Get(0).([]domain.AccountAmount)
	}
	if args.Get(1) != nil {
		expenses = args.Get(1).([]domain.AccountAmount)
	}
	return revenue, expenses, args.Error(2)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) (map[domain.AccountClassification][]domain.AccountAmount, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.AccountClassification][]domain.AccountAmount), args.Error(1)
}

func (m *MockReportingRepository) GetCashMovements(ctx context.Context, from, to time.Time) ([]domain.CashMovement, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashMovement), args.Error(1)
}

// --- Mock MappingSvcFacade ---

type MockMappingService struct {
	mock.Mock
}

var _ portssvc.MappingSvcFacade = (*MockMappingService)(nil)

func (m *MockMappingService) SetMapping(ctx context.Context, req dto.SetMappingRequest, actor string) (*domain.AccountMapping, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountMapping), args.Error(1)
}

func (m *MockMappingService) ListMappings(ctx context.Context, activeOnly bool) ([]domain.AccountMapping, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountMapping), args.Error(1)
}

func (m *MockMappingService) Resolve(ctx context.Context, mappingType domain.MappingType, sourceType string) (*domain.Account, error) {
	args := m.Called(ctx, mappingType, sourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockMappingService) InitializeDefaults(ctx context.Context, actor string) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

func (m *MockMappingService) RemoveDuplicates(ctx context.Context, actor string) (int, error) {
	args := m.Called(ctx, actor)
	return args.Int(0), args.Error(1)
}

// --- Mock JournalSvcFacade ---

type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) GetEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetTrialBalance(ctx context.Context, params dto.AsOfParams) (*domain.TrialBalance, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockJournalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actor string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostEntry(ctx context.Context, journalID string, actor string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ReverseEntry(ctx context.Context, journalID string, reason string, actor string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalID, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock PostingSvc ---

type MockPostingService struct {
	mock.Mock
}

var _ portssvc.PostingSvc = (*MockPostingService)(nil)

func (m *MockPostingService) entryOrNil(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) PostStudentPayment(ctx context.Context, payment domain.Payment, actor string) (*domain.JournalEntry, error) {
	return m.entryOrNil(m.Called(ctx, payment, actor))
}

func (m *MockPostingService) PostPaymentRefund(ctx context.Context, payment domain.Payment, actor string) (*domain.JournalEntry, error) {
	return m.entryOrNil(m.Called(ctx, payment, actor))
}

func (m *MockPostingService) PostFeeAssignment(ctx context.Context, assignment domain.FeeAssignment, actor string) (*domain.JournalEntry, error) {
	return m.entryOrNil(m.Called(ctx, assignment, actor))
}

func (m *MockPostingService) PostExpense(ctx context.Context, expense domain.Expense, actor string) (*domain.JournalEntry, error) {
	return m.entryOrNil(m.Called(ctx, expense, actor))
}

func (m *MockPostingService) PostSalaryPayment(ctx context.Context, payment domain.SalaryPayment, employerPension decimal.Decimal, actor string) (*domain.JournalEntry, error) {
	return m.entryOrNil(m.Called(ctx, payment, employerPension, actor))
}

func (m *MockPostingService) PostAssetPurchase(ctx context.Context, asset domain.Asset, actor string) (*domain.JournalEntry, error) {
	return m.entryOrNil(m.Called(ctx, asset, actor))
}

func (m *MockPostingService) PostDepreciation(ctx context.Context, run domain.DepreciationRun, assetName string, actor string) (*domain.JournalEntry, error) {
	return m.entryOrNil(m.Called(ctx, run, assetName, actor))
}

func (m *MockPostingService) PostBankTransaction(ctx context.Context, txn domain.BankTransaction, glAccountCode string, actor string) (*domain.JournalEntry, error) {
	return m.entryOrNil(m.Called(ctx, txn, glAccountCode, actor))
}

func (m *MockPostingService) PostBankTransfer(ctx context.Context, transfer domain.BankTransfer, fromGLCode, toGLCode string, actor string) (*domain.JournalEntry, error) {
	return m.entryOrNil(m.Called(ctx, transfer, fromGLCode, toGLCode, actor))
}
