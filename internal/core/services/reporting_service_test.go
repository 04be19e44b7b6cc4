package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockAssetRepo     *MockAssetRepository
	service           portssvc.ReportingSvc
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.mockReportingRepo = new(MockReportingRepository)
	s.mockAssetRepo = new(MockAssetRepository)
	s.service = services.NewReportingService(s.mockReportingRepo, s.mockAssetRepo)
}

func (s *ReportingServiceTestSuite) TestGetIncomeStatement_NetsRevenueAgainstExpenses() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	revenue := []domain.AccountAmount{
		{AccountCode: "4100", Name: "Tuition Fees", NetAmount: decimal.NewFromInt(5_000_000)},
		{AccountCode: "4110", Name: "Transport Fees", NetAmount: decimal.NewFromInt(800_000)},
	}
	expenses := []domain.AccountAmount{
		{AccountCode: "5100", Name: "Salaries and Wages", NetAmount: decimal.NewFromInt(3_200_000)},
	}
	s.mockReportingRepo.On("GetIncomeStatementData", ctx, from, to).Return(revenue, expenses, nil).Once()

	stmt, err := s.service.GetIncomeStatement(ctx, from, to)

	s.Require().NoError(err)
	s.True(stmt.TotalRevenue.Equal(decimal.NewFromInt(5_800_000)))
	s.True(stmt.TotalExpenses.Equal(decimal.NewFromInt(3_200_000)))
	s.True(stmt.NetIncome.Equal(decimal.NewFromInt(2_600_000)))
}

func (s *ReportingServiceTestSuite) TestGetIncomeStatement_BackwardsPeriodRejected() {
	ctx := context.Background()
	from := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.service.GetIncomeStatement(ctx, from, to)

	s.Require().Error(err)
	s.mockReportingRepo.AssertNotCalled(s.T(), "GetIncomeStatementData", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReportingServiceTestSuite) TestGetBalanceSheet_FoldsNetIncomeIntoEquity() {
	ctx := context.Background()
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	byClass := map[domain.AccountClassification][]domain.AccountAmount{
		domain.CurrentAsset: {
			{AccountCode: "1110", Name: "Cash on Hand", NetAmount: decimal.NewFromInt(900_000)},
			{AccountCode: "1120", Name: "Bank - Operations", NetAmount: decimal.NewFromInt(2_500_000)},
		},
		domain.FixedAsset: {
			{AccountCode: "1200", Name: "Fixed Assets", NetAmount: decimal.NewFromInt(1_200_000)},
		},
		domain.ContraAsset: {
			{AccountCode: "1290", Name: "Accumulated Depreciation", NetAmount: decimal.NewFromInt(200_000)},
		},
		domain.CurrentLiability: {
			{AccountCode: "2120", Name: "PAYE Payable", NetAmount: decimal.NewFromInt(400_000)},
		},
	}
	s.mockReportingRepo.On("GetBalanceSheetData", ctx, asOf).Return(byClass, nil).Once()
	// All-time income to the reporting date becomes retained earnings.
	s.mockReportingRepo.On("GetIncomeStatementData", ctx, time.Time{}, asOf).Return(
		[]domain.AccountAmount{{AccountCode: "4100", NetAmount: decimal.NewFromInt(7_200_000)}},
		[]domain.AccountAmount{{AccountCode: "5100", NetAmount: decimal.NewFromInt(3_200_000)}},
		nil,
	).Once()

	sheet, err := s.service.GetBalanceSheet(ctx, asOf)

	s.Require().NoError(err)
	// Contra assets reduce the asset total: 900k + 2.5m + 1.2m - 200k.
	s.True(sheet.TotalAssets.Equal(decimal.NewFromInt(4_400_000)))
	s.True(sheet.TotalLiabilities.Equal(decimal.NewFromInt(400_000)))
	s.True(sheet.RetainedEarnings.Equal(decimal.NewFromInt(4_000_000)))
	s.True(sheet.TotalEquity.Equal(decimal.NewFromInt(4_000_000)))
	s.True(sheet.IsBalanced)
}

func (s *ReportingServiceTestSuite) TestGetCashFlowStatement_BucketsByActivity() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	movements := []domain.CashMovement{
		{ReferenceType: domain.RefPayment, Debit: decimal.NewFromInt(500_000)},
		{ReferenceType: domain.RefExpense, Credit: decimal.NewFromInt(120_000)},
		{ReferenceType: domain.RefSalary, Credit: decimal.NewFromInt(200_000)},
		{ReferenceType: domain.RefAsset, Credit: decimal.NewFromInt(300_000)},
		// A transfer's two legs net to zero within financing.
		{ReferenceType: domain.RefBankTransfer, Debit: decimal.NewFromInt(50_000)},
		{ReferenceType: domain.RefBankTransfer, Credit: decimal.NewFromInt(50_000)},
	}
	s.mockReportingRepo.On("GetCashMovements", ctx, from, to).Return(movements, nil).Once()

	stmt, err := s.service.GetCashFlowStatement(ctx, from, to)

	s.Require().NoError(err)
	s.True(stmt.Operating.Net.Equal(decimal.NewFromInt(180_000)))
	s.True(stmt.Investing.Net.Equal(decimal.NewFromInt(-300_000)))
	s.True(stmt.Financing.Net.IsZero())
	s.True(stmt.NetCashFlow.Equal(decimal.NewFromInt(-120_000)))
}

func (s *ReportingServiceTestSuite) TestGetAssetRegister_ComputesBookValues() {
	ctx := context.Background()
	assets := []domain.Asset{
		{
			AssetID:                 uuid.NewString(),
			Name:                    "School Bus",
			Category:                "vehicle",
			PurchasePrice:           decimal.NewFromInt(12_000_000),
			AccumulatedDepreciation: decimal.NewFromInt(3_000_000),
		},
	}
	s.mockAssetRepo.On("ListAssets", ctx, portsrepo.ListAssetsFilter{}).Return(assets, nil).Once()

	rows, err := s.service.GetAssetRegister(ctx)

	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.True(rows[0].NetBookValue.Equal(decimal.NewFromInt(9_000_000)))
}

func (s *ReportingServiceTestSuite) TestGetDepreciationSchedule_FinalMonthAbsorbsRounding() {
	ctx := context.Background()
	// 100,000 over 3 years: 2,777.78 monthly, so the 36th month must absorb
	// the rounding remainder.
	asset := &domain.Asset{
		AssetID:         uuid.NewString(),
		Name:            "Photocopier",
		PurchaseDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		PurchasePrice:   decimal.NewFromInt(100_000),
		ResidualValue:   decimal.Zero,
		UsefulLifeYears: 3,
	}
	s.mockAssetRepo.On("FindAssetByID", ctx, asset.AssetID).Return(asset, nil).Once()

	rows, err := s.service.GetDepreciationSchedule(ctx, asset.AssetID)

	s.Require().NoError(err)
	s.Require().Len(rows, 36)
	s.Equal("2026-01", rows[0].Period)
	s.True(rows[0].Charge.Equal(decimal.NewFromFloat(2777.78)))
	last := rows[len(rows)-1]
	s.True(last.Accumulated.Equal(decimal.NewFromInt(100_000)))
	s.True(last.NetBookValue.IsZero())
	s.True(last.FullyWritten)
}

func (s *ReportingServiceTestSuite) TestGetDepreciationSchedule_EmptyForNonDepreciable() {
	ctx := context.Background()
	asset := &domain.Asset{
		AssetID:       uuid.NewString(),
		Name:          "Land",
		PurchasePrice: decimal.NewFromInt(5_000_000),
		ResidualValue: decimal.NewFromInt(5_000_000),
	}
	s.mockAssetRepo.On("FindAssetByID", ctx, asset.AssetID).Return(asset, nil).Once()

	rows, err := s.service.GetDepreciationSchedule(ctx, asset.AssetID)

	s.Require().NoError(err)
	s.Empty(rows)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
