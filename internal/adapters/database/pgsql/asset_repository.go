package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
)

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository creates a new repository for fixed assets and depreciation runs.
func NewAssetRepository(pool *pgxpool.Pool) portsrepo.AssetRepository {
	return &assetRepository{pool: pool}
}

const assetColumns = `asset_id, name, category, purchase_date, purchase_price, residual_value, useful_life_years, method, vendor_name, reference, accumulated_depreciation, last_depreciated_at, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	var a domain.Asset
	err := row.Scan(
		&a.AssetID,
		&a.Name,
		&a.Category,
		&a.PurchaseDate,
		&a.PurchasePrice,
		&a.ResidualValue,
		&a.UsefulLifeYears,
		&a.Method,
		&a.VendorName,
		&a.Reference,
		&a.AccumulatedDepreciation,
		&a.LastDepreciatedAt,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assetRepository) SaveAsset(ctx context.Context, asset domain.Asset) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.pool.Exec(ctx, query,
		asset.AssetID,
		asset.Name,
		asset.Category,
		asset.PurchaseDate,
		asset.PurchasePrice,
		asset.ResidualValue,
		asset.UsefulLifeYears,
		asset.Method,
		asset.VendorName,
		asset.Reference,
		asset.AccumulatedDepreciation,
		asset.LastDepreciatedAt,
		asset.IsActive,
		asset.CreatedAt,
		asset.CreatedBy,
		asset.LastUpdatedAt,
		asset.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: asset reference %s", apperrors.ErrDuplicate, asset.Reference)
		}
		return fmt.Errorf("failed to save asset %s: %w", asset.Reference, err)
	}
	return nil
}

func (r *assetRepository) UpdateAsset(ctx context.Context, asset domain.Asset) error {
	query := `
		UPDATE assets
		SET name = $2, accumulated_depreciation = $3, last_depreciated_at = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE asset_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		asset.AssetID,
		asset.Name,
		asset.AccumulatedDepreciation,
		asset.LastDepreciatedAt,
		asset.IsActive,
		asset.LastUpdatedAt,
		asset.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", asset.AssetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = $1;`
	a, err := scanAsset(r.pool.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find asset %s: %w", assetID, err)
	}
	return a, nil
}

func (r *assetRepository) FindAssetByReference(ctx context.Context, ref string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE reference = $1;`
	a, err := scanAsset(r.pool.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find asset by reference %s: %w", ref, err)
	}
	return a, nil
}

func (r *assetRepository) ListAssets(ctx context.Context, filter portsrepo.ListAssetsFilter) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", idx)
		args = append(args, *filter.Category)
		idx++
	}
	if filter.ActiveOnly {
		query += " AND is_active = TRUE"
	}

	query += " ORDER BY purchase_date DESC, name"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filter.Limit, filter.Offset)
	}
	query += ";"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading asset rows: %w", err)
	}
	return assets, nil
}

// ListDepreciableAssets returns active assets that still have depreciation
// headroom, i.e. accumulated depreciation below the depreciable base.
func (r *assetRepository) ListDepreciableAssets(ctx context.Context) ([]domain.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE is_active = TRUE
		  AND useful_life_years > 0
		  AND accumulated_depreciation < purchase_price - residual_value
		ORDER BY purchase_date, name;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list depreciable assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading asset rows: %w", err)
	}
	return assets, nil
}

const depreciationColumns = `run_id, asset_id, period, amount, journal_id, created_at, created_by, last_updated_at, last_updated_by`

func scanDepreciationRun(row pgx.Row) (*domain.DepreciationRun, error) {
	var run domain.DepreciationRun
	var journalID *string
	err := row.Scan(
		&run.RunID,
		&run.AssetID,
		&run.Period,
		&run.Amount,
		&journalID,
		&run.CreatedAt,
		&run.CreatedBy,
		&run.LastUpdatedAt,
		&run.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	run.JournalID = fromNullable(journalID)
	return &run, nil
}

func (r *assetRepository) SaveDepreciationRun(ctx context.Context, run domain.DepreciationRun) error {
	query := `
		INSERT INTO depreciation_runs (` + depreciationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		run.RunID,
		run.AssetID,
		run.Period,
		run.Amount,
		nullable(run.JournalID),
		run.CreatedAt,
		run.CreatedBy,
		run.LastUpdatedAt,
		run.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: depreciation run for asset %s, period %s", apperrors.ErrDuplicate, run.AssetID, run.Period.Format("2006-01"))
		}
		return fmt.Errorf("failed to save depreciation run for asset %s: %w", run.AssetID, err)
	}
	return nil
}

func (r *assetRepository) FindDepreciationRun(ctx context.Context, assetID string, period time.Time) (*domain.DepreciationRun, error) {
	query := `SELECT ` + depreciationColumns + ` FROM depreciation_runs WHERE asset_id = $1 AND period = $2;`
	run, err := scanDepreciationRun(r.pool.QueryRow(ctx, query, assetID, period))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find depreciation run for asset %s: %w", assetID, err)
	}
	return run, nil
}

func (r *assetRepository) ListDepreciationRunsByAsset(ctx context.Context, assetID string) ([]domain.DepreciationRun, error) {
	query := `SELECT ` + depreciationColumns + ` FROM depreciation_runs WHERE asset_id = $1 ORDER BY period;`
	rows, err := r.pool.Query(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list depreciation runs for asset %s: %w", assetID, err)
	}
	defer rows.Close()

	var runs []domain.DepreciationRun
	for rows.Next() {
		run, err := scanDepreciationRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan depreciation run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading depreciation runs: %w", err)
	}
	return runs, nil
}
