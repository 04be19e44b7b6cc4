package services

import (
	"context"
	"errors"
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

// assetService manages the fixed asset register and monthly straight-line
// depreciation runs.
type assetService struct {
	assetRepo  portsrepo.AssetRepository
	postingSvc portssvc.PostingSvc
}

// NewAssetService creates a new asset service.
func NewAssetService(assetRepo portsrepo.AssetRepository, postingSvc portssvc.PostingSvc) portssvc.AssetSvcFacade {
	return &assetService{assetRepo: assetRepo, postingSvc: postingSvc}
}

var _ portssvc.AssetSvcFacade = (*assetService)(nil)

// CreateAsset registers an asset purchase and posts the acquisition.
func (s *assetService) CreateAsset(ctx context.Context, req dto.CreateAssetRequest, actor string) (*domain.Asset, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.PurchasePrice.IsPositive() {
		return nil, fmt.Errorf("%w: purchase price must be positive", apperrors.ErrValidation)
	}
	if req.ResidualValue.IsNegative() {
		return nil, fmt.Errorf("%w: residual value must not be negative", apperrors.ErrValidation)
	}
	if req.ResidualValue.GreaterThanOrEqual(req.PurchasePrice) {
		return nil, fmt.Errorf("%w: residual value %s must be below purchase price %s", apperrors.ErrValidation, req.ResidualValue, req.PurchasePrice)
	}

	now := time.Now().UTC()
	ref, err := reference.NewAssetReference(now)
	if err != nil {
		return nil, fmt.Errorf("generating asset reference: %w", err)
	}

	asset := domain.Asset{
		AssetID:                 uuid.NewString(),
		Name:                    req.Name,
		Category:                req.Category,
		PurchaseDate:            req.PurchaseDate,
		PurchasePrice:           req.PurchasePrice,
		ResidualValue:           req.ResidualValue,
		UsefulLifeYears:         req.UsefulLifeYears,
		Method:                  domain.PaymentMethod(req.Method),
		VendorName:              req.VendorName,
		Reference:               ref,
		AccumulatedDepreciation: decimal.Zero,
		IsActive:                true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.assetRepo.SaveAsset(ctx, asset); err != nil {
		return nil, err
	}

	if _, postErr := s.postingSvc.PostAssetPurchase(ctx, asset, actor); postErr != nil {
		logger.Error("Asset registered but posting deferred",
			slog.String("asset_id", asset.AssetID),
			slog.String("reference", asset.Reference),
			slog.String("error", postErr.Error()),
		)
	}

	logger.Info("Asset registered",
		slog.String("asset_id", asset.AssetID),
		slog.String("reference", asset.Reference),
		slog.String("price", asset.PurchasePrice.String()),
	)
	return &asset, nil
}

func (s *assetService) GetAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	return s.assetRepo.FindAssetByID(ctx, assetID)
}

func (s *assetService) ListAssets(ctx context.Context, category *string, activeOnly bool) ([]domain.Asset, error) {
	return s.assetRepo.ListAssets(ctx, portsrepo.ListAssetsFilter{
		Category:   category,
		ActiveOnly: activeOnly,
	})
}

// DisposeAsset marks an asset inactive so it drops out of depreciation runs.
func (s *assetService) DisposeAsset(ctx context.Context, assetID string, actor string) error {
	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if !asset.IsActive {
		return nil
	}
	asset.IsActive = false
	asset.LastUpdatedAt = time.Now().UTC()
	asset.LastUpdatedBy = actor
	return s.assetRepo.UpdateAsset(ctx, *asset)
}

// RunDepreciation charges one month of straight-line depreciation for every
// depreciable asset. The charge is capped at the asset's remaining
// depreciable base, so book value never drops below residual value. An asset
// already charged for the period is skipped, making reruns safe.
func (s *assetService) RunDepreciation(ctx context.Context, req dto.RunDepreciationRequest, actor string) (*dto.RunDepreciationResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	period := now
	if req.Period != nil {
		period = *req.Period
	}
	period = time.Date(period.Year(), period.Month(), 1, 0, 0, 0, 0, time.UTC)
	if period.After(now) {
		return nil, fmt.Errorf("%w: cannot depreciate a future period", apperrors.ErrValidation)
	}

	assets, err := s.assetRepo.ListDepreciableAssets(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.RunDepreciationResponse{Period: period, TotalCharge: decimal.Zero}
	for _, asset := range assets {
		result := dto.DepreciationRunResult{AssetID: asset.AssetID, AssetName: asset.Name}

		if asset.PurchaseDate.After(period.AddDate(0, 1, 0).Add(-time.Nanosecond)) {
			result.Skipped = true
			result.Reason = "purchased after period"
			resp.Results = append(resp.Results, result)
			continue
		}

		if _, err := s.assetRepo.FindDepreciationRun(ctx, asset.AssetID, period); err == nil {
			result.Skipped = true
			result.Reason = "already depreciated for period"
			resp.Results = append(resp.Results, result)
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		charge := asset.MonthlyDepreciation()
		if remaining := asset.RemainingDepreciation(); charge.GreaterThan(remaining) {
			charge = remaining
		}
		if !charge.IsPositive() {
			result.Skipped = true
			result.Reason = "fully depreciated"
			resp.Results = append(resp.Results, result)
			continue
		}

		run := domain.DepreciationRun{
			RunID:   uuid.NewString(),
			AssetID: asset.AssetID,
			Period:  period,
			Amount:  charge,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}

		entry, postErr := s.postingSvc.PostDepreciation(ctx, run, asset.Name, actor)
		if postErr != nil {
			logger.Error("Depreciation posting deferred",
				slog.String("asset_id", asset.AssetID),
				slog.String("period", period.Format("2006-01")),
				slog.String("error", postErr.Error()),
			)
		} else if entry != nil {
			run.JournalID = entry.JournalID
		}

		if err := s.assetRepo.SaveDepreciationRun(ctx, run); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				result.Skipped = true
				result.Reason = "already depreciated for period"
				resp.Results = append(resp.Results, result)
				continue
			}
			return nil, fmt.Errorf("recording depreciation run for asset %s: %w", asset.AssetID, err)
		}

		asset.AccumulatedDepreciation = asset.AccumulatedDepreciation.Add(charge)
		asset.LastDepreciatedAt = &now
		asset.LastUpdatedAt = now
		asset.LastUpdatedBy = actor
		if err := s.assetRepo.UpdateAsset(ctx, asset); err != nil {
			return nil, fmt.Errorf("updating asset %s after depreciation: %w", asset.AssetID, err)
		}

		result.Amount = charge
		resp.Results = append(resp.Results, result)
		resp.TotalCharge = resp.TotalCharge.Add(charge)
	}

	logger.Info("Depreciation run finished",
		slog.String("period", period.Format("2006-01")),
		slog.String("total_charge", resp.TotalCharge.String()),
		slog.Int("assets", len(resp.Results)),
	)
	return resp, nil
}
