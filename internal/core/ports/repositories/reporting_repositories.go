package repositories

import (
	"context"
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// ReportingRepository defines the aggregate queries reports are built from.
// All queries consider POSTED journal entries only.
type ReportingRepository interface {
	// GetTrialBalanceData returns per-account debit/credit totals as of a date.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetIncomeStatementData returns net amounts for revenue and expense
	// accounts over a period. Revenue is reported as positive credit balance,
	// expenses as positive debit balance.
	GetIncomeStatementData(ctx context.Context, from, to time.Time) (revenue, expenses []domain.AccountAmount, err error)

	// GetBalanceSheetData returns net amounts grouped by account
	// classification as of a date. Asset balances are debit-positive,
	// liability and equity balances credit-positive.
	GetBalanceSheetData(ctx context.Context, asOf time.Time) (map[domain.AccountClassification][]domain.AccountAmount, error)

	// GetCashMovements returns posted lines touching cash/bank accounts over
	// a period, tagged with the owning entry's reference type.
	GetCashMovements(ctx context.Context, from, to time.Time) ([]domain.CashMovement, error)
}
