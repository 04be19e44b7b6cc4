package repositories

import (
	"context"
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// ListAssetsFilter narrows an asset listing.
type ListAssetsFilter struct {
	Category   *string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// AssetRepository defines persistence operations for fixed assets.
type AssetRepository interface {
	// SaveAsset persists a new asset. Returns apperrors.ErrDuplicate when the
	// reference is already taken.
	SaveAsset(ctx context.Context, asset domain.Asset) error

	// FindAssetByID retrieves an asset by its unique identifier.
	FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error)

	// FindAssetByReference retrieves an asset by its AST-YYYY-XXXXXX reference.
	FindAssetByReference(ctx context.Context, ref string) (*domain.Asset, error)

	// ListAssets retrieves assets matching the filter.
	ListAssets(ctx context.Context, filter ListAssetsFilter) ([]domain.Asset, error)

	// ListDepreciableAssets retrieves active assets whose accumulated
	// depreciation has not yet reached the depreciable base.
	ListDepreciableAssets(ctx context.Context) ([]domain.Asset, error)

	// UpdateAsset updates an asset record.
	UpdateAsset(ctx context.Context, asset domain.Asset) error

	// SaveDepreciationRun records a monthly depreciation run. Returns
	// apperrors.ErrDuplicate when the asset has already been depreciated for
	// the period.
	SaveDepreciationRun(ctx context.Context, run domain.DepreciationRun) error

	// FindDepreciationRun retrieves a run for an asset and period, if any.
	FindDepreciationRun(ctx context.Context, assetID string, period time.Time) (*domain.DepreciationRun, error)

	// ListDepreciationRunsByAsset retrieves an asset's runs, oldest first.
	ListDepreciationRunsByAsset(ctx context.Context, assetID string) ([]domain.DepreciationRun, error)
}
