package services

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// BankingSvcFacade manages bank accounts, transactions and transfers.
type BankingSvcFacade interface {
	// CreateBankAccount registers a bank account.
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actor string) (*domain.BankAccount, error)

	// GetBankAccountByID retrieves a bank account.
	GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves bank accounts, optionally active only.
	ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error)

	// RecordTransaction records a movement on a bank account, updates the
	// running balance and triggers auto-posting when the account is linked to
	// a GL account.
	RecordTransaction(ctx context.Context, req dto.CreateBankTransactionRequest, actor string) (*domain.BankTransaction, error)

	// ListTransactions retrieves an account's transactions matching the filter.
	ListTransactions(ctx context.Context, bankAccountID string, params dto.ListBankTransactionsParams) ([]domain.BankTransaction, error)

	// MarkTransactionCleared moves a pending transaction to cleared.
	MarkTransactionCleared(ctx context.Context, transactionID string, actor string) error

	// MarkTransactionReconciled moves a cleared transaction to reconciled.
	MarkTransactionReconciled(ctx context.Context, transactionID string, actor string) error

	// CreateTransfer starts a transfer between two bank accounts. Transfers
	// at or below the approval threshold complete immediately; larger ones
	// wait for approval.
	CreateTransfer(ctx context.Context, req dto.CreateBankTransferRequest, actor string) (*domain.BankTransfer, error)

	// ApproveTransfer approves and completes a pending transfer.
	ApproveTransfer(ctx context.Context, transferID string, actor string) (*domain.BankTransfer, error)

	// RejectTransfer rejects a pending transfer.
	RejectTransfer(ctx context.Context, transferID string, actor string) (*domain.BankTransfer, error)

	// ListTransfers retrieves transfers, newest first.
	ListTransfers(ctx context.Context, limit, offset int) ([]domain.BankTransfer, error)
}
