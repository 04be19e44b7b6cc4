package services

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// AssetSvcFacade manages the fixed asset register and depreciation.
type AssetSvcFacade interface {
	// CreateAsset registers an asset purchase and posts the acquisition.
	CreateAsset(ctx context.Context, req dto.CreateAssetRequest, actor string) (*domain.Asset, error)

	// GetAssetByID retrieves an asset.
	GetAssetByID(ctx context.Context, assetID string) (*domain.Asset, error)

	// ListAssets retrieves assets matching the filter.
	ListAssets(ctx context.Context, category *string, activeOnly bool) ([]domain.Asset, error)

	// DisposeAsset marks an asset inactive so it stops depreciating.
	DisposeAsset(ctx context.Context, assetID string, actor string) error

	// RunDepreciation charges one month of straight-line depreciation for
	// every depreciable asset, capped at each asset's depreciable base, and
	// posts the charges. Running twice for the same period is a no-op for
	// assets already charged.
	RunDepreciation(ctx context.Context, req dto.RunDepreciationRequest, actor string) (*dto.RunDepreciationResponse, error)
}
