package repositories

import (
	"context"
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListBankTransactionsFilter narrows a bank transaction listing.
type ListBankTransactionsFilter struct {
	BankAccountID *string
	Type          *domain.BankTransactionType
	Status        *domain.BankTransactionStatus
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// BankingRepository defines persistence operations for bank accounts,
// transactions and inter-account transfers.
type BankingRepository interface {
	// SaveBankAccount persists a new bank account. Returns
	// apperrors.ErrDuplicate when the account number is already taken.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error

	// FindBankAccountByID retrieves a bank account.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves bank accounts, optionally active only.
	ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error)

	// UpdateBankAccount updates a bank account record, including its running
	// balance.
	UpdateBankAccount(ctx context.Context, account domain.BankAccount) error

	// SaveBankTransaction persists a transaction and applies its balance
	// effect to the owning account within one database transaction.
	SaveBankTransaction(ctx context.Context, txn domain.BankTransaction, newBalance decimal.Decimal) error

	// FindBankTransactionByID retrieves a bank transaction.
	FindBankTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)

	// ListBankTransactions retrieves transactions matching the filter, newest first.
	ListBankTransactions(ctx context.Context, filter ListBankTransactionsFilter) ([]domain.BankTransaction, error)

	// UpdateBankTransactionStatus moves a transaction between pending,
	// cleared and reconciled.
	UpdateBankTransactionStatus(ctx context.Context, transactionID string, status domain.BankTransactionStatus, updatedBy string, updatedAt time.Time) error

	// SaveBankTransfer persists a new transfer. Returns apperrors.ErrDuplicate
	// when the reference is already taken.
	SaveBankTransfer(ctx context.Context, transfer domain.BankTransfer) error

	// FindBankTransferByID retrieves a transfer.
	FindBankTransferByID(ctx context.Context, transferID string) (*domain.BankTransfer, error)

	// ListBankTransfers retrieves transfers, newest first.
	ListBankTransfers(ctx context.Context, limit, offset int) ([]domain.BankTransfer, error)

	// UpdateBankTransfer updates a transfer record.
	UpdateBankTransfer(ctx context.Context, transfer domain.BankTransfer) error
}
