package services

import (
	"context"
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingSvc is the auto-posting engine: it derives a balanced journal entry
// from each business event and posts it. Posting is idempotent per
// (referenceType, referenceID); re-posting an already-posted event returns
// the existing entry. Failures are recorded as pending postings for later
// retry, never propagated to the caller's business operation.
type PostingSvc interface {
	// PostStudentPayment posts a confirmed fee payment: debit cash/bank,
	// credit one revenue account per allocation.
	PostStudentPayment(ctx context.Context, payment domain.Payment, actor string) (*domain.JournalEntry, error)

	// PostPaymentRefund posts the reversal of a confirmed payment's entry.
	PostPaymentRefund(ctx context.Context, payment domain.Payment, actor string) (*domain.JournalEntry, error)

	// PostFeeAssignment posts a term bill: debit accounts receivable, credit
	// one revenue account per fee item.
	PostFeeAssignment(ctx context.Context, assignment domain.FeeAssignment, actor string) (*domain.JournalEntry, error)

	// PostExpense posts a paid expense: debit the mapped expense account,
	// credit cash/bank.
	PostExpense(ctx context.Context, expense domain.Expense, actor string) (*domain.JournalEntry, error)

	// PostSalaryPayment posts a paid salary: debit gross salary expense and
	// employer pension expense, credit net pay plus the statutory liability
	// accounts.
	PostSalaryPayment(ctx context.Context, payment domain.SalaryPayment, employerPension decimal.Decimal, actor string) (*domain.JournalEntry, error)

	// PostAssetPurchase posts an asset acquisition: debit the mapped fixed
	// asset account, credit cash/bank.
	PostAssetPurchase(ctx context.Context, asset domain.Asset, actor string) (*domain.JournalEntry, error)

	// PostDepreciation posts one month's charge for an asset: debit
	// depreciation expense, credit accumulated depreciation.
	PostDepreciation(ctx context.Context, run domain.DepreciationRun, assetName string, actor string) (*domain.JournalEntry, error)

	// PostBankTransaction posts a bank ledger movement against the account's
	// linked GL account. Unlinked accounts are skipped without error.
	PostBankTransaction(ctx context.Context, txn domain.BankTransaction, glAccountCode string, actor string) (*domain.JournalEntry, error)

	// PostBankTransfer posts a completed transfer between two linked
	// accounts: debit destination GL, credit source GL.
	PostBankTransfer(ctx context.Context, transfer domain.BankTransfer, fromGLCode, toGLCode string, actor string) (*domain.JournalEntry, error)
}

// ReconciliationSvc surfaces and retries postings that failed inline.
type ReconciliationSvc interface {
	// ListUnposted returns business events whose posting is still pending.
	ListUnposted(ctx context.Context, limit, offset int) ([]domain.UnpostedTransactionRow, error)

	// RetryPosting re-runs a pending posting. Already-posted references are
	// marked resolved without creating a second entry.
	RetryPosting(ctx context.Context, postingID string, actor string) (*domain.JournalEntry, error)

	// RetryAll re-runs every pending posting created before the cutoff and
	// reports how many succeeded.
	RetryAll(ctx context.Context, cutoff time.Time, actor string) (int, error)
}
