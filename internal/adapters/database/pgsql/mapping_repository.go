package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
)

type mappingRepository struct {
	pool *pgxpool.Pool
}

// NewMappingRepository creates a new repository for account mappings.
func NewMappingRepository(pool *pgxpool.Pool) portsrepo.MappingRepository {
	return &mappingRepository{pool: pool}
}

const mappingColumns = `mapping_id, mapping_type, source_type, account_code, is_default, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanMapping(row pgx.Row) (*domain.AccountMapping, error) {
	var m domain.AccountMapping
	err := row.Scan(
		&m.MappingID,
		&m.MappingType,
		&m.SourceType,
		&m.AccountCode,
		&m.IsDefault,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mappingRepository) SaveMapping(ctx context.Context, mapping domain.AccountMapping) error {
	query := `
		INSERT INTO account_mappings (` + mappingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		mapping.MappingID,
		mapping.MappingType,
		mapping.SourceType,
		mapping.AccountCode,
		mapping.IsDefault,
		mapping.IsActive,
		mapping.CreatedAt,
		mapping.CreatedBy,
		mapping.LastUpdatedAt,
		mapping.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: active mapping for %s/%s", apperrors.ErrDuplicate, mapping.MappingType, mapping.SourceType)
		}
		return fmt.Errorf("failed to save mapping %s/%s: %w", mapping.MappingType, mapping.SourceType, err)
	}
	return nil
}

func (r *mappingRepository) UpdateMapping(ctx context.Context, mapping domain.AccountMapping) error {
	query := `
		UPDATE account_mappings
		SET account_code = $2, is_default = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE mapping_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		mapping.MappingID,
		mapping.AccountCode,
		mapping.IsDefault,
		mapping.IsActive,
		mapping.LastUpdatedAt,
		mapping.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update mapping %s: %w", mapping.MappingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *mappingRepository) FindMappingByID(ctx context.Context, mappingID string) (*domain.AccountMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM account_mappings WHERE mapping_id = $1;`
	m, err := scanMapping(r.pool.QueryRow(ctx, query, mappingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find mapping %s: %w", mappingID, err)
	}
	return m, nil
}

func (r *mappingRepository) FindActiveMappings(ctx context.Context, mappingType domain.MappingType, sourceType string) ([]domain.AccountMapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM account_mappings
		WHERE mapping_type = $1 AND source_type = $2 AND is_active = TRUE
		ORDER BY last_updated_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, mappingType, sourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to query active mappings for %s/%s: %w", mappingType, sourceType, err)
	}
	defer rows.Close()

	var mappings []domain.AccountMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping row: %w", err)
		}
		mappings = append(mappings, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading mapping rows: %w", err)
	}
	return mappings, nil
}

func (r *mappingRepository) ListMappings(ctx context.Context, activeOnly bool) ([]domain.AccountMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM account_mappings`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY mapping_type, source_type;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.AccountMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping row: %w", err)
		}
		mappings = append(mappings, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading mapping rows: %w", err)
	}
	return mappings, nil
}
