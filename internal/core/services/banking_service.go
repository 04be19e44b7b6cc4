package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
	"github.com/schoolfin/sfm_backend/internal/utils/reference"
)

var (
	// maxBankTransactionAmount caps a single bank movement (Naira).
	maxBankTransactionAmount = decimal.NewFromInt(1_000_000_000)
	// transferApprovalThreshold is the amount above which a transfer needs
	// explicit approval before it completes (Naira).
	transferApprovalThreshold = decimal.NewFromInt(5_000_000)
)

// bankingService manages bank accounts, their transaction ledgers and
// inter-account transfers.
type bankingService struct {
	bankingRepo portsrepo.BankingRepository
	accountRepo portsrepo.AccountReader
	postingSvc  portssvc.PostingSvc
}

// NewBankingService creates a new banking service.
func NewBankingService(bankingRepo portsrepo.BankingRepository, accountRepo portsrepo.AccountReader, postingSvc portssvc.PostingSvc) portssvc.BankingSvcFacade {
	return &bankingService{bankingRepo: bankingRepo, accountRepo: accountRepo, postingSvc: postingSvc}
}

var _ portssvc.BankingSvcFacade = (*bankingService)(nil)

// CreateBankAccount registers a bank account. A GL link, when given, must be
// an existing ledger account under the bank prefix.
func (s *bankingService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actor string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.GLAccountCode != "" {
		glAccount, err := s.accountRepo.FindAccountByCode(ctx, req.GLAccountCode)
		if err != nil {
			return nil, fmt.Errorf("%w: GL account %q does not exist", apperrors.ErrValidation, req.GLAccountCode)
		}
		if !glAccount.IsCashOrBank() {
			return nil, fmt.Errorf("%w: GL account %q is not a cash or bank account", apperrors.ErrValidation, req.GLAccountCode)
		}
	}

	now := time.Now().UTC()
	account := domain.BankAccount{
		BankAccountID: uuid.NewString(),
		Name:          req.Name,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountType:   domain.BankAccountType(req.AccountType),
		GLAccountCode: req.GLAccountCode,
		Balance:       decimal.Zero,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.bankingRepo.SaveBankAccount(ctx, account); err != nil {
		return nil, err
	}

	logger.Info("Bank account registered",
		slog.String("bank_account_id", account.BankAccountID),
		slog.String("bank", account.BankName),
	)
	return &account, nil
}

func (s *bankingService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	return s.bankingRepo.FindBankAccountByID(ctx, bankAccountID)
}

func (s *bankingService) ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error) {
	return s.bankingRepo.ListBankAccounts(ctx, activeOnly)
}

// isInflow maps a transaction type to its direction on the bank balance.
func isInflow(txnType domain.BankTransactionType) bool {
	switch txnType {
	case domain.BankDeposit, domain.BankTransferIn, domain.BankInterest:
		return true
	}
	return false
}

// recordTransaction persists a movement, applies the balance effect and hands
// the transaction to the posting engine when the account has a GL link.
func (s *bankingService) recordTransaction(ctx context.Context, account *domain.BankAccount, txnType domain.BankTransactionType, amount decimal.Decimal, txnDate time.Time, description, ref string, actor string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}
	if amount.GreaterThan(maxBankTransactionAmount) {
		return nil, fmt.Errorf("%w: transaction amount %s exceeds the %s limit", apperrors.ErrValidation, amount, maxBankTransactionAmount)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: bank account %q is inactive", apperrors.ErrValidation, account.Name)
	}

	txn := domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		BankAccountID:     account.BankAccountID,
		TxnType:           txnType,
		TxnDate:           txnDate,
		Description:       description,
		Reference:         ref,
		Status:            domain.BankTxnPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now().UTC(),
			CreatedBy:     actor,
			LastUpdatedAt: time.Now().UTC(),
			LastUpdatedBy: actor,
		},
	}

	var newBalance decimal.Decimal
	if isInflow(txnType) {
		txn.Debit = amount
		newBalance = account.Balance.Add(amount)
	} else {
		txn.Credit = amount
		newBalance = account.Balance.Sub(amount)
		if newBalance.IsNegative() {
			return nil, fmt.Errorf("%w: insufficient funds, balance %s cannot cover %s", apperrors.ErrValidation, account.Balance, amount)
		}
	}

	if err := s.bankingRepo.SaveBankTransaction(ctx, txn, newBalance); err != nil {
		return nil, err
	}
	account.Balance = newBalance

	if _, postErr := s.postingSvc.PostBankTransaction(ctx, txn, account.GLAccountCode, actor); postErr != nil {
		logger.Error("Bank transaction recorded but posting deferred",
			slog.String("bank_transaction_id", txn.BankTransactionID),
			slog.String("error", postErr.Error()),
		)
	}

	logger.Info("Bank transaction recorded",
		slog.String("bank_transaction_id", txn.BankTransactionID),
		slog.String("type", string(txnType)),
		slog.String("amount", amount.String()),
		slog.String("new_balance", newBalance.String()),
	)
	return &txn, nil
}

// RecordTransaction records an externally-initiated movement on a bank account.
func (s *bankingService) RecordTransaction(ctx context.Context, req dto.CreateBankTransactionRequest, actor string) (*domain.BankTransaction, error) {
	account, err := s.bankingRepo.FindBankAccountByID(ctx, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	return s.recordTransaction(ctx, account, domain.BankTransactionType(req.TxnType), req.Amount, req.TxnDate, req.Description, req.Reference, actor)
}

func (s *bankingService) ListTransactions(ctx context.Context, bankAccountID string, params dto.ListBankTransactionsParams) ([]domain.BankTransaction, error) {
	filter := portsrepo.ListBankTransactionsFilter{
		BankAccountID: &bankAccountID,
		From:          params.From,
		To:            params.To,
		Limit:         params.Limit,
		Offset:        params.Offset,
	}
	if params.TxnType != nil {
		tt := domain.BankTransactionType(*params.TxnType)
		filter.Type = &tt
	}
	if params.Status != nil {
		st := domain.BankTransactionStatus(*params.Status)
		filter.Status = &st
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.bankingRepo.ListBankTransactions(ctx, filter)
}

func (s *bankingService) transitionTransaction(ctx context.Context, transactionID string, from, to domain.BankTransactionStatus, actor string) error {
	txn, err := s.bankingRepo.FindBankTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.Status != from {
		return fmt.Errorf("%w: transaction is %s, expected %s", apperrors.ErrConflict, txn.Status, from)
	}
	return s.bankingRepo.UpdateBankTransactionStatus(ctx, transactionID, to, actor, time.Now().UTC())
}

// MarkTransactionCleared moves a pending transaction to cleared.
func (s *bankingService) MarkTransactionCleared(ctx context.Context, transactionID string, actor string) error {
	return s.transitionTransaction(ctx, transactionID, domain.BankTxnPending, domain.BankTxnCleared, actor)
}

// MarkTransactionReconciled moves a cleared transaction to reconciled.
func (s *bankingService) MarkTransactionReconciled(ctx context.Context, transactionID string, actor string) error {
	return s.transitionTransaction(ctx, transactionID, domain.BankTxnCleared, domain.BankTxnReconciled, actor)
}

// CreateTransfer starts a transfer between two bank accounts. Transfers at or
// below the approval threshold complete immediately; larger ones stay pending
// until approved.
func (s *bankingService) CreateTransfer(ctx context.Context, req dto.CreateBankTransferRequest, actor string) (*domain.BankTransfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: transfer source and destination are the same account", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if req.Amount.GreaterThan(maxBankTransactionAmount) {
		return nil, fmt.Errorf("%w: transfer amount %s exceeds the %s limit", apperrors.ErrValidation, req.Amount, maxBankTransactionAmount)
	}

	from, err := s.bankingRepo.FindBankAccountByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, fmt.Errorf("source account: %w", err)
	}
	if _, err := s.bankingRepo.FindBankAccountByID(ctx, req.ToAccountID); err != nil {
		return nil, fmt.Errorf("destination account: %w", err)
	}
	if from.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: insufficient funds, balance %s cannot cover %s", apperrors.ErrValidation, from.Balance, req.Amount)
	}

	now := time.Now().UTC()
	ref, err := reference.NewTransferReference(now)
	if err != nil {
		return nil, fmt.Errorf("generating transfer reference: %w", err)
	}

	transfer := domain.BankTransfer{
		TransferID:    uuid.NewString(),
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		TransferDate:  req.TransferDate,
		Description:   req.Description,
		Reference:     ref,
		Status:        domain.TransferPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.bankingRepo.SaveBankTransfer(ctx, transfer); err != nil {
		return nil, err
	}

	if transfer.Amount.LessThanOrEqual(transferApprovalThreshold) {
		return s.completeTransfer(ctx, &transfer, actor, actor)
	}

	logger.Info("Bank transfer awaiting approval",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("reference", transfer.Reference),
		slog.String("amount", transfer.Amount.String()),
	)
	return &transfer, nil
}

// completeTransfer executes a transfer: a transfer_out on the source, a
// transfer_in on the destination, the ledger posting, and the status flip.
func (s *bankingService) completeTransfer(ctx context.Context, transfer *domain.BankTransfer, approvedBy, actor string) (*domain.BankTransfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from, err := s.bankingRepo.FindBankAccountByID(ctx, transfer.FromAccountID)
	if err != nil {
		return nil, fmt.Errorf("source account: %w", err)
	}
	to, err := s.bankingRepo.FindBankAccountByID(ctx, transfer.ToAccountID)
	if err != nil {
		return nil, fmt.Errorf("destination account: %w", err)
	}

	outDesc := fmt.Sprintf("Transfer %s to %s", transfer.Reference, to.Name)
	if _, err := s.recordTransaction(ctx, from, domain.BankTransferOut, transfer.Amount, transfer.TransferDate, outDesc, transfer.Reference, actor); err != nil {
		return nil, err
	}
	inDesc := fmt.Sprintf("Transfer %s from %s", transfer.Reference, from.Name)
	if _, err := s.recordTransaction(ctx, to, domain.BankTransferIn, transfer.Amount, transfer.TransferDate, inDesc, transfer.Reference, actor); err != nil {
		return nil, err
	}

	if _, postErr := s.postingSvc.PostBankTransfer(ctx, *transfer, from.GLAccountCode, to.GLAccountCode, actor); postErr != nil {
		logger.Error("Transfer completed but posting deferred",
			slog.String("transfer_id", transfer.TransferID),
			slog.String("error", postErr.Error()),
		)
	}

	now := time.Now().UTC()
	transfer.Status = domain.TransferCompleted
	transfer.ApprovedBy = approvedBy
	transfer.ApprovedAt = &now
	transfer.LastUpdatedAt = now
	transfer.LastUpdatedBy = actor
	if err := s.bankingRepo.UpdateBankTransfer(ctx, *transfer); err != nil {
		return nil, err
	}

	logger.Info("Bank transfer completed",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("reference", transfer.Reference),
		slog.String("amount", transfer.Amount.String()),
	)
	return transfer, nil
}

// ApproveTransfer approves and completes a pending transfer.
func (s *bankingService) ApproveTransfer(ctx context.Context, transferID string, actor string) (*domain.BankTransfer, error) {
	transfer, err := s.bankingRepo.FindBankTransferByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != domain.TransferPending {
		return nil, fmt.Errorf("%w: transfer %s is %s, only pending transfers can be approved", apperrors.ErrConflict, transfer.Reference, transfer.Status)
	}
	return s.completeTransfer(ctx, transfer, actor, actor)
}

// RejectTransfer rejects a pending transfer. No money has moved yet.
func (s *bankingService) RejectTransfer(ctx context.Context, transferID string, actor string) (*domain.BankTransfer, error) {
	transfer, err := s.bankingRepo.FindBankTransferByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.Status != domain.TransferPending {
		return nil, fmt.Errorf("%w: transfer %s is %s, only pending transfers can be rejected", apperrors.ErrConflict, transfer.Reference, transfer.Status)
	}

	now := time.Now().UTC()
	transfer.Status = domain.TransferRejected
	transfer.LastUpdatedAt = now
	transfer.LastUpdatedBy = actor
	if err := s.bankingRepo.UpdateBankTransfer(ctx, *transfer); err != nil {
		return nil, err
	}
	return transfer, nil
}

func (s *bankingService) ListTransfers(ctx context.Context, limit, offset int) ([]domain.BankTransfer, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.bankingRepo.ListBankTransfers(ctx, limit, offset)
}
