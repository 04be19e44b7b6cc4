package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/core/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// --- Mock AssetRepository ---

type MockAssetRepository struct {
	mock.Mock
}

var _ portsrepo.AssetRepository = (*MockAssetRepository)(nil)

func (m *MockAssetRepository) SaveAsset(ctx context.Context, asset domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAssetByReference(ctx context.Context, ref string) (*domain.Asset, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) ListAssets(ctx context.Context, filter portsrepo.ListAssetsFilter) ([]domain.Asset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) ListDepreciableAssets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) UpdateAsset(ctx context.Context, asset domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) SaveDepreciationRun(ctx context.Context, run domain.DepreciationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockAssetRepository) FindDepreciationRun(ctx context.Context, assetID string, period time.Time) (*domain.DepreciationRun, error) {
	args := m.Called(ctx, assetID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationRun), args.Error(1)
}

func (m *MockAssetRepository) ListDepreciationRunsByAsset(ctx context.Context, assetID string) ([]domain.DepreciationRun, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepreciationRun), args.Error(1)
}

type AssetServiceTestSuite struct {
	suite.Suite
	mockAssetRepo  *MockAssetRepository
	mockPostingSvc *MockPostingService
	service        portssvc.AssetSvcFacade

	actor string
}

func (s *AssetServiceTestSuite) SetupTest() {
	s.mockAssetRepo = new(MockAssetRepository)
	s.mockPostingSvc = new(MockPostingService)
	s.service = services.NewAssetService(s.mockAssetRepo, s.mockPostingSvc)
	s.actor = "bursar"
}

func (s *AssetServiceTestSuite) TestCreateAsset_PostsAcquisition() {
	ctx := context.Background()
	req := dto.CreateAssetRequest{
		Name:            "School Bus",
		Category:        "vehicle",
		PurchaseDate:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		PurchasePrice:   decimal.NewFromInt(12_000_000),
		ResidualValue:   decimal.NewFromInt(2_000_000),
		UsefulLifeYears: 10,
		Method:          "bank_transfer",
		VendorName:      "Lagos Motors Ltd",
	}

	s.mockAssetRepo.On("SaveAsset", ctx, mock.Anything).Return(nil).Once()
	s.mockPostingSvc.On("PostAssetPurchase", ctx, mock.Anything, s.actor).
		Return(&domain.JournalEntry{JournalID: uuid.NewString()}, nil).Once()

	asset, err := s.service.CreateAsset(ctx, req, s.actor)

	s.Require().NoError(err)
	s.Regexp(`^AST-\d{4}-[A-Z0-9]{6}$`, asset.Reference)
	s.True(asset.AccumulatedDepreciation.IsZero())
	s.True(asset.IsActive)
	s.mockPostingSvc.AssertExpectations(s.T())
}

func (s *AssetServiceTestSuite) TestCreateAsset_SurvivesPostingFailure() {
	ctx := context.Background()
	req := dto.CreateAssetRequest{
		Name:            "Generator",
		Category:        "equipment",
		PurchaseDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PurchasePrice:   decimal.NewFromInt(800_000),
		UsefulLifeYears: 5,
		Method:          "cash",
	}

	s.mockAssetRepo.On("SaveAsset", ctx, mock.Anything).Return(nil).Once()
	s.mockPostingSvc.On("PostAssetPurchase", ctx, mock.Anything, s.actor).
		Return(nil, apperrors.ErrNotFound).Once()

	asset, err := s.service.CreateAsset(ctx, req, s.actor)

	// The register stands; the outbox catches the ledger up later.
	s.Require().NoError(err)
	s.NotNil(asset)
}

func (s *AssetServiceTestSuite) TestCreateAsset_ResidualAbovePriceRejected() {
	ctx := context.Background()
	req := dto.CreateAssetRequest{
		Name:            "Projector",
		Category:        "equipment",
		PurchaseDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PurchasePrice:   decimal.NewFromInt(100_000),
		ResidualValue:   decimal.NewFromInt(100_000), // not strictly below price
		UsefulLifeYears: 4,
		Method:          "cash",
	}

	_, err := s.service.CreateAsset(ctx, req, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockAssetRepo.AssertNotCalled(s.T(), "SaveAsset", mock.Anything, mock.Anything)
}

// depreciableAsset depreciates at 20,000 per month: (1,200,000 - 0) / 60.
func (s *AssetServiceTestSuite) depreciableAsset() domain.Asset {
	return domain.Asset{
		AssetID:                 uuid.NewString(),
		Name:                    "Classroom Furniture",
		Category:                "furniture",
		PurchaseDate:            time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		PurchasePrice:           decimal.NewFromInt(1_200_000),
		ResidualValue:           decimal.Zero,
		UsefulLifeYears:         5,
		Reference:               "AST-2025-QX7K2M",
		AccumulatedDepreciation: decimal.Zero,
		IsActive:                true,
	}
}

func (s *AssetServiceTestSuite) TestRunDepreciation_ChargesOneMonth() {
	ctx := context.Background()
	asset := s.depreciableAsset()
	reqPeriod := time.Date(2026, 7, 15, 10, 30, 0, 0, time.UTC)
	period := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	charge := decimal.NewFromInt(20_000)

	s.mockAssetRepo.On("ListDepreciableAssets", ctx).Return([]domain.Asset{asset}, nil).Once()
	s.mockAssetRepo.On("FindDepreciationRun", ctx, asset.AssetID, period).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockPostingSvc.On("PostDepreciation", ctx, mock.MatchedBy(func(run domain.DepreciationRun) bool {
		return run.AssetID == asset.AssetID && run.Amount.Equal(charge) && run.Period.Equal(period)
	}), asset.Name, s.actor).
		Return(&domain.JournalEntry{JournalID: uuid.NewString()}, nil).Once()
	s.mockAssetRepo.On("SaveDepreciationRun", ctx, mock.MatchedBy(func(run domain.DepreciationRun) bool {
		return run.Amount.Equal(charge) && run.JournalID != ""
	})).Return(nil).Once()
	s.mockAssetRepo.On("UpdateAsset", ctx, mock.MatchedBy(func(a domain.Asset) bool {
		return a.AccumulatedDepreciation.Equal(charge) && a.LastDepreciatedAt != nil
	})).Return(nil).Once()

	resp, err := s.service.RunDepreciation(ctx, dto.RunDepreciationRequest{Period: &reqPeriod}, s.actor)

	s.Require().NoError(err)
	s.True(resp.Period.Equal(period))
	s.True(resp.TotalCharge.Equal(charge))
	s.Require().Len(resp.Results, 1)
	s.False(resp.Results[0].Skipped)
	s.mockAssetRepo.AssertExpectations(s.T())
}

func (s *AssetServiceTestSuite) TestRunDepreciation_CapsAtDepreciableBase() {
	ctx := context.Background()
	asset := s.depreciableAsset()
	// Only 5,000 of the 1,200,000 base is left; the monthly 20,000 must be capped.
	asset.AccumulatedDepreciation = decimal.NewFromInt(1_195_000)
	reqPeriod := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	period := reqPeriod

	s.mockAssetRepo.On("ListDepreciableAssets", ctx).Return([]domain.Asset{asset}, nil).Once()
	s.mockAssetRepo.On("FindDepreciationRun", ctx, asset.AssetID, period).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockPostingSvc.On("PostDepreciation", ctx, mock.Anything, asset.Name, s.actor).
		Return(&domain.JournalEntry{JournalID: uuid.NewString()}, nil).Once()
	s.mockAssetRepo.On("SaveDepreciationRun", ctx, mock.MatchedBy(func(run domain.DepreciationRun) bool {
		return run.Amount.Equal(decimal.NewFromInt(5_000))
	})).Return(nil).Once()
	s.mockAssetRepo.On("UpdateAsset", ctx, mock.MatchedBy(func(a domain.Asset) bool {
		// Book value never drops below residual value.
		return a.AccumulatedDepreciation.Equal(decimal.NewFromInt(1_200_000))
	})).Return(nil).Once()

	resp, err := s.service.RunDepreciation(ctx, dto.RunDepreciationRequest{Period: &reqPeriod}, s.actor)

	s.Require().NoError(err)
	s.True(resp.TotalCharge.Equal(decimal.NewFromInt(5_000)))
	s.mockAssetRepo.AssertExpectations(s.T())
}

func (s *AssetServiceTestSuite) TestRunDepreciation_RerunSkipsChargedAssets() {
	ctx := context.Background()
	asset := s.depreciableAsset()
	reqPeriod := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	s.mockAssetRepo.On("ListDepreciableAssets", ctx).Return([]domain.Asset{asset}, nil).Once()
	s.mockAssetRepo.On("FindDepreciationRun", ctx, asset.AssetID, reqPeriod).
		Return(&domain.DepreciationRun{RunID: uuid.NewString()}, nil).Once()

	resp, err := s.service.RunDepreciation(ctx, dto.RunDepreciationRequest{Period: &reqPeriod}, s.actor)

	s.Require().NoError(err)
	s.True(resp.TotalCharge.IsZero())
	s.Require().Len(resp.Results, 1)
	s.True(resp.Results[0].Skipped)
	s.Equal("already depreciated for period", resp.Results[0].Reason)
	s.mockAssetRepo.AssertNotCalled(s.T(), "SaveDepreciationRun", mock.Anything, mock.Anything)
	s.mockPostingSvc.AssertNotCalled(s.T(), "PostDepreciation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AssetServiceTestSuite) TestRunDepreciation_PurchasedAfterPeriodSkipped() {
	ctx := context.Background()
	asset := s.depreciableAsset()
	asset.PurchaseDate = time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	reqPeriod := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	s.mockAssetRepo.On("ListDepreciableAssets", ctx).Return([]domain.Asset{asset}, nil).Once()

	resp, err := s.service.RunDepreciation(ctx, dto.RunDepreciationRequest{Period: &reqPeriod}, s.actor)

	s.Require().NoError(err)
	s.Require().Len(resp.Results, 1)
	s.True(resp.Results[0].Skipped)
	s.Equal("purchased after period", resp.Results[0].Reason)
}

func (s *AssetServiceTestSuite) TestRunDepreciation_FuturePeriodRejected() {
	ctx := context.Background()
	future := time.Now().UTC().AddDate(0, 2, 0)

	_, err := s.service.RunDepreciation(ctx, dto.RunDepreciationRequest{Period: &future}, s.actor)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockAssetRepo.AssertNotCalled(s.T(), "ListDepreciableAssets", mock.Anything)
}

func (s *AssetServiceTestSuite) TestDisposeAsset_NoopWhenAlreadyInactive() {
	ctx := context.Background()
	asset := s.depreciableAsset()
	asset.IsActive = false

	s.mockAssetRepo.On("FindAssetByID", ctx, asset.AssetID).Return(&asset, nil).Once()

	err := s.service.DisposeAsset(ctx, asset.AssetID, s.actor)

	s.Require().NoError(err)
	s.mockAssetRepo.AssertNotCalled(s.T(), "UpdateAsset", mock.Anything, mock.Anything)
}

func TestAssetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssetServiceTestSuite))
}
