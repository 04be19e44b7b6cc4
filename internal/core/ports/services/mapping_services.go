package services

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// MappingSvcFacade manages the account mappings the posting engine resolves
// source types through.
type MappingSvcFacade interface {
	// SetMapping activates a mapping for (mappingType, sourceType),
	// deactivating any previous active mapping for the pair.
	SetMapping(ctx context.Context, req dto.SetMappingRequest, actor string) (*domain.AccountMapping, error)

	// ListMappings retrieves mappings, optionally active only.
	ListMappings(ctx context.Context, activeOnly bool) ([]domain.AccountMapping, error)

	// Resolve returns the account for a source type. When no active mapping
	// exists, the mapping type's fallback account is returned. Never fails on
	// an unmapped source type as long as the fallback account exists.
	Resolve(ctx context.Context, mappingType domain.MappingType, sourceType string) (*domain.Account, error)

	// InitializeDefaults seeds the default mappings for the built-in fee
	// types, expense categories and asset categories. Idempotent.
	InitializeDefaults(ctx context.Context, actor string) error

	// RemoveDuplicates deactivates all but the most recent active mapping per
	// (mappingType, sourceType) pair and reports how many were deactivated.
	RemoveDuplicates(ctx context.Context, actor string) (int, error)
}
