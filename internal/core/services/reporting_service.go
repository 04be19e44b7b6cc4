package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
)

// reportingService builds financial statements from posted journal data and
// the asset register. All figures come from POSTED entries only; drafts and
// reversed pairs cancel out by construction.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	assetRepo     portsrepo.AssetRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, assetRepo portsrepo.AssetRepository) portssvc.ReportingSvc {
	return &reportingService{reportingRepo: reportingRepo, assetRepo: assetRepo}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// GetTrialBalance lists per-account debit/credit totals as of a date. A
// non-balanced result signals ledger corruption, not a report bug.
func (s *reportingService) GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		return nil, err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, r := range rows {
		totalDebit = totalDebit.Add(r.Debit)
		totalCredit = totalCredit.Add(r.Credit)
	}
	return &domain.TrialBalance{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		IsBalanced:  totalDebit.Equal(totalCredit),
	}, nil
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}

// GetIncomeStatement computes revenue, expenses and net income over a period.
func (s *reportingService) GetIncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("period end %s precedes start %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	revenue, expenses, err := s.reportingRepo.GetIncomeStatementData(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totalRevenue := sumAmounts(revenue)
	totalExpenses := sumAmounts(expenses)
	return &domain.IncomeStatement{
		From:          from,
		To:            to,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		NetIncome:     totalRevenue.Sub(totalExpenses),
	}, nil
}

// GetBalanceSheet computes the financial position as of a date. Net income to
// date is folded into retained earnings so the statement balances:
//
//	assets = liabilities + equity + retained earnings
//
// Contra assets (accumulated depreciation) appear among fixed assets with a
// negative net amount, reducing the asset total.
func (s *reportingService) GetBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	byClass, err := s.reportingRepo.GetBalanceSheetData(ctx, asOf)
	if err != nil {
		return nil, err
	}

	fixedAssets := append([]domain.AccountAmount{}, byClass[domain.FixedAsset]...)
	for _, contra := range byClass[domain.ContraAsset] {
		contra.NetAmount = contra.NetAmount.Neg()
		fixedAssets = append(fixedAssets, contra)
	}

	sheet := &domain.BalanceSheet{
		AsOf:                asOf,
		CurrentAssets:       byClass[domain.CurrentAsset],
		FixedAssets:         fixedAssets,
		CurrentLiabilities:  byClass[domain.CurrentLiability],
		LongTermLiabilities: byClass[domain.LongTermLiability],
		Equity:              byClass[domain.EquityClass],
	}

	// All-time net income to the reporting date becomes retained earnings.
	income, err := s.GetIncomeStatement(ctx, time.Time{}, asOf)
	if err != nil {
		return nil, fmt.Errorf("computing retained earnings: %w", err)
	}
	sheet.RetainedEarnings = income.NetIncome

	sheet.TotalAssets = sumAmounts(sheet.CurrentAssets).Add(sumAmounts(sheet.FixedAssets))
	sheet.TotalLiabilities = sumAmounts(sheet.CurrentLiabilities).Add(sumAmounts(sheet.LongTermLiabilities))
	sheet.TotalEquity = sumAmounts(sheet.Equity).Add(sheet.RetainedEarnings)
	sheet.IsBalanced = sheet.TotalAssets.Equal(sheet.TotalLiabilities.Add(sheet.TotalEquity))
	return sheet, nil
}

// cashFlowActivity buckets a reference type for the cash flow statement.
// Fee income, expenses, payroll and day-to-day bank movements are operating;
// asset purchases are investing; inter-account transfers are financing and
// net to zero across their two legs.
func cashFlowActivity(referenceType domain.ReferenceType) string {
	switch referenceType {
	case domain.RefAsset:
		return "investing"
	case domain.RefBankTransfer:
		return "financing"
	}
	return "operating"
}

// GetCashFlowStatement buckets posted cash/bank movements by activity over a
// period. Debits to cash accounts are inflows, credits outflows.
func (s *reportingService) GetCashFlowStatement(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("period end %s precedes start %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	movements, err := s.reportingRepo.GetCashMovements(ctx, from, to)
	if err != nil {
		return nil, err
	}

	stmt := &domain.CashFlowStatement{From: from, To: to}
	buckets := map[string]*domain.CashFlowBucket{
		"operating": &stmt.Operating,
		"investing": &stmt.Investing,
		"financing": &stmt.Financing,
	}
	for _, m := range movements {
		bucket := buckets[cashFlowActivity(m.ReferenceType)]
		bucket.Inflows = bucket.Inflows.Add(m.Debit)
		bucket.Outflows = bucket.Outflows.Add(m.Credit)
	}
	for _, bucket := range buckets {
		bucket.Net = bucket.Inflows.Sub(bucket.Outflows)
	}
	stmt.NetCashFlow = stmt.Operating.Net.Add(stmt.Investing.Net).Add(stmt.Financing.Net)
	return stmt, nil
}

// GetAssetRegister lists every asset with its depreciation-adjusted book value.
func (s *reportingService) GetAssetRegister(ctx context.Context) ([]domain.AssetRegisterRow, error) {
	assets, err := s.assetRepo.ListAssets(ctx, portsrepo.ListAssetsFilter{})
	if err != nil {
		return nil, err
	}

	rows := make([]domain.AssetRegisterRow, len(assets))
	for i, a := range assets {
		rows[i] = domain.AssetRegisterRow{
			AssetID:                 a.AssetID,
			Name:                    a.Name,
			Category:                a.Category,
			PurchaseDate:            a.PurchaseDate,
			PurchasePrice:           a.PurchasePrice,
			AccumulatedDepreciation: a.AccumulatedDepreciation,
			NetBookValue:            a.PurchasePrice.Sub(a.AccumulatedDepreciation),
		}
	}
	return rows, nil
}

// GetDepreciationSchedule projects the straight-line schedule for one asset
// from its purchase month until fully written down to residual value. The
// final month absorbs any rounding remainder so accumulated depreciation
// lands exactly on the depreciable base.
func (s *reportingService) GetDepreciationSchedule(ctx context.Context, assetID string) ([]domain.DepreciationScheduleRow, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	monthly := asset.MonthlyDepreciation()
	base := asset.DepreciableBase()
	if !monthly.IsPositive() || !base.IsPositive() {
		return []domain.DepreciationScheduleRow{}, nil
	}

	var rows []domain.DepreciationScheduleRow
	accumulated := decimal.Zero
	period := time.Date(asset.PurchaseDate.Year(), asset.PurchaseDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := asset.UsefulLifeYears * 12
	for i := 0; i < months && accumulated.LessThan(base); i++ {
		charge := monthly
		if remaining := base.Sub(accumulated); charge.GreaterThan(remaining) || i == months-1 {
			charge = remaining
		}
		accumulated = accumulated.Add(charge)
		rows = append(rows, domain.DepreciationScheduleRow{
			AssetID:      asset.AssetID,
			AssetName:    asset.Name,
			Period:       period.Format("2006-01"),
			Charge:       charge,
			Accumulated:  accumulated,
			NetBookValue: asset.PurchasePrice.Sub(accumulated),
			FullyWritten: accumulated.GreaterThanOrEqual(base),
		})
		period = period.AddDate(0, 1, 0)
	}
	return rows, nil
}
