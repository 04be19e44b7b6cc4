package repositories

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// MappingRepository defines persistence operations for account mappings.
type MappingRepository interface {
	// SaveMapping persists a new mapping. Returns apperrors.ErrDuplicate when
	// an active mapping for the same (mappingType, sourceType) already exists
	// (backed by a partial unique index).
	SaveMapping(ctx context.Context, mapping domain.AccountMapping) error

	// UpdateMapping updates an existing mapping in place.
	UpdateMapping(ctx context.Context, mapping domain.AccountMapping) error

	// FindMappingByID retrieves a mapping by its unique identifier.
	FindMappingByID(ctx context.Context, mappingID string) (*domain.AccountMapping, error)

	// FindActiveMappings retrieves all active mappings for a key, newest
	// first by lastUpdatedAt. More than one result is a data anomaly the
	// caller must tolerate.
	FindActiveMappings(ctx context.Context, mappingType domain.MappingType, sourceType string) ([]domain.AccountMapping, error)

	// ListMappings retrieves all mappings, optionally active only.
	ListMappings(ctx context.Context, activeOnly bool) ([]domain.AccountMapping, error)
}
