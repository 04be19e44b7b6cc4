package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// fallbackAccountCodes route unmapped source types per mapping type, so the
// posting engine always finds a home for an amount.
var fallbackAccountCodes = map[domain.MappingType]string{
	domain.MappingRevenue:   CodeOtherIncome,
	domain.MappingExpense:   CodeOtherExpenses,
	domain.MappingAsset:     CodeFixedAssets,
	domain.MappingLiability: CodeSuspense,
}

// mappingService manages account mappings and resolves source types to
// ledger accounts for the posting engine.
type mappingService struct {
	mappingRepo portsrepo.MappingRepository
	accountRepo portsrepo.AccountReader
}

// NewMappingService creates a new mapping service.
func NewMappingService(mappingRepo portsrepo.MappingRepository, accountRepo portsrepo.AccountReader) portssvc.MappingSvcFacade {
	return &mappingService{mappingRepo: mappingRepo, accountRepo: accountRepo}
}

var _ portssvc.MappingSvcFacade = (*mappingService)(nil)

// SetMapping activates a mapping for (mappingType, sourceType). Any previous
// active mapping for the pair is deactivated first; the storage layer's
// partial unique index guarantees at most one survives a race.
func (s *mappingService) SetMapping(ctx context.Context, req dto.SetMappingRequest, actor string) (*domain.AccountMapping, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, req.AccountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %q does not exist", apperrors.ErrValidation, req.AccountCode)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %q is inactive", apperrors.ErrValidation, req.AccountCode)
	}
	if !accountTypeMatchesMapping(account.AccountType, req.MappingType) {
		return nil, fmt.Errorf("%w: %s mapping cannot target %s account %q", apperrors.ErrValidation, req.MappingType, account.AccountType, account.Code)
	}

	now := time.Now().UTC()

	existing, err := s.mappingRepo.FindActiveMappings(ctx, req.MappingType, req.SourceType)
	if err != nil {
		return nil, err
	}
	for _, old := range existing {
		if old.AccountCode == req.AccountCode {
			// Already mapped to the requested account.
			return &old, nil
		}
		old.IsActive = false
		old.LastUpdatedAt = now
		old.LastUpdatedBy = actor
		if err := s.mappingRepo.UpdateMapping(ctx, old); err != nil {
			return nil, fmt.Errorf("deactivating previous mapping %s: %w", old.MappingID, err)
		}
	}

	mapping := domain.AccountMapping{
		MappingID:   uuid.NewString(),
		MappingType: req.MappingType,
		SourceType:  req.SourceType,
		AccountCode: req.AccountCode,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.mappingRepo.SaveMapping(ctx, mapping); err != nil {
		return nil, err
	}

	logger.Info("Account mapping set",
		slog.String("mapping_type", string(req.MappingType)),
		slog.String("source_type", req.SourceType),
		slog.String("account_code", req.AccountCode),
	)
	return &mapping, nil
}

func (s *mappingService) ListMappings(ctx context.Context, activeOnly bool) ([]domain.AccountMapping, error) {
	return s.mappingRepo.ListMappings(ctx, activeOnly)
}

// Resolve returns the ledger account a source type posts to. When no active
// mapping exists the mapping type's fallback account is used, so resolution
// only fails if the chart itself is missing the fallback. When duplicate
// active mappings exist (a data anomaly), the most recently updated one wins.
func (s *mappingService) Resolve(ctx context.Context, mappingType domain.MappingType, sourceType string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	mappings, err := s.mappingRepo.FindActiveMappings(ctx, mappingType, sourceType)
	if err != nil {
		return nil, err
	}

	code := ""
	switch len(mappings) {
	case 0:
		code = fallbackAccountCodes[mappingType]
		logger.Warn("No mapping for source type, using fallback account",
			slog.String("mapping_type", string(mappingType)),
			slog.String("source_type", sourceType),
			slog.String("fallback_code", code),
		)
	case 1:
		code = mappings[0].AccountCode
	default:
		code = mappings[0].AccountCode
		logger.Warn("Duplicate active mappings, newest wins",
			slog.String("mapping_type", string(mappingType)),
			slog.String("source_type", sourceType),
			slog.Int("count", len(mappings)),
		)
	}

	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("resolving %s/%s to account %s: %w", mappingType, sourceType, code, err)
	}
	if !account.IsActive {
		// Fall back rather than posting to a deactivated account.
		fallback := fallbackAccountCodes[mappingType]
		if fallback != account.Code {
			logger.Warn("Mapped account is inactive, using fallback",
				slog.String("account_code", account.Code),
				slog.String("fallback_code", fallback),
			)
			return s.accountRepo.FindAccountByCode(ctx, fallback)
		}
	}
	return account, nil
}

// InitializeDefaults seeds the default mappings. Pairs that already have an
// active mapping are left untouched.
func (s *mappingService) InitializeDefaults(ctx context.Context, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	created := 0
	seed := func(mappingType domain.MappingType, seeds []seedMapping) error {
		for _, sm := range seeds {
			existing, err := s.mappingRepo.FindActiveMappings(ctx, mappingType, sm.SourceType)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				continue
			}
			mapping := domain.AccountMapping{
				MappingID:   uuid.NewString(),
				MappingType: mappingType,
				SourceType:  sm.SourceType,
				AccountCode: sm.AccountCode,
				IsDefault:   true,
				IsActive:    true,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     actor,
					LastUpdatedAt: now,
					LastUpdatedBy: actor,
				},
			}
			if err := s.mappingRepo.SaveMapping(ctx, mapping); err != nil {
				if errors.Is(err, apperrors.ErrDuplicate) {
					continue
				}
				return fmt.Errorf("seeding mapping %s/%s: %w", mappingType, sm.SourceType, err)
			}
			created++
		}
		return nil
	}

	if err := seed(domain.MappingRevenue, defaultRevenueMappings); err != nil {
		return err
	}
	if err := seed(domain.MappingExpense, defaultExpenseMappings); err != nil {
		return err
	}
	if err := seed(domain.MappingAsset, defaultAssetMappings); err != nil {
		return err
	}
	if err := seed(domain.MappingLiability, defaultLiabilityMappings); err != nil {
		return err
	}

	if created > 0 {
		logger.Info("Default account mappings seeded", slog.Int("mappings_created", created))
	}
	return nil
}

// RemoveDuplicates deactivates all but the most recently updated active
// mapping per (mappingType, sourceType) pair. Duplicates can only appear
// through out-of-band writes; the normal write path prevents them.
func (s *mappingService) RemoveDuplicates(ctx context.Context, actor string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	active, err := s.mappingRepo.ListMappings(ctx, true)
	if err != nil {
		return 0, err
	}

	type key struct {
		mappingType domain.MappingType
		sourceType  string
	}
	newest := make(map[key]domain.AccountMapping)
	for _, m := range active {
		k := key{m.MappingType, m.SourceType}
		if best, ok := newest[k]; !ok || m.LastUpdatedAt.After(best.LastUpdatedAt) {
			newest[k] = m
		}
	}

	now := time.Now().UTC()
	deactivated := 0
	for _, m := range active {
		if newest[key{m.MappingType, m.SourceType}].MappingID == m.MappingID {
			continue
		}
		m.IsActive = false
		m.LastUpdatedAt = now
		m.LastUpdatedBy = actor
		if err := s.mappingRepo.UpdateMapping(ctx, m); err != nil {
			return deactivated, fmt.Errorf("deactivating duplicate mapping %s: %w", m.MappingID, err)
		}
		deactivated++
	}

	if deactivated > 0 {
		logger.Info("Duplicate mappings deactivated", slog.Int("count", deactivated))
	}
	return deactivated, nil
}

// accountTypeMatchesMapping checks a mapping targets an account of the
// matching fundamental type.
func accountTypeMatchesMapping(accountType domain.AccountType, mappingType domain.MappingType) bool {
	switch mappingType {
	case domain.MappingRevenue:
		return accountType == domain.AccountTypeRevenue
	case domain.MappingExpense:
		return accountType == domain.AccountTypeExpense
	case domain.MappingAsset:
		return accountType == domain.AccountTypeAsset
	case domain.MappingLiability:
		return accountType == domain.AccountTypeLiability
	}
	return false
}
