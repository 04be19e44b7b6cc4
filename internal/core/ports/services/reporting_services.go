package services

import (
	"context"
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// ReportingSvc builds financial statements from posted journal data.
type ReportingSvc interface {
	// GetTrialBalance lists per-account debit/credit totals as of a date.
	GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// GetIncomeStatement computes revenue, expenses and net income over a period.
	GetIncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error)

	// GetBalanceSheet computes the financial position as of a date, folding
	// net income to date into retained earnings.
	GetBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)

	// GetCashFlowStatement buckets cash/bank movements into operating,
	// investing and financing activities over a period.
	GetCashFlowStatement(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error)

	// GetAssetRegister lists assets with purchase cost, accumulated
	// depreciation and net book value.
	GetAssetRegister(ctx context.Context) ([]domain.AssetRegisterRow, error)

	// GetDepreciationSchedule projects the remaining straight-line schedule
	// for one asset, month by month until fully written down.
	GetDepreciationSchedule(ctx context.Context, assetID string) ([]domain.DepreciationScheduleRow, error)
}
