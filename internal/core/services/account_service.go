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

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

func (s *accountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, activeOnly)
}

func (s *accountService) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	if !domain.ValidAccountType(accountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}
	return s.accountRepo.ListAccountsByType(ctx, accountType)
}

// CreateAccount creates a ledger account. The account type and report
// classification are derived from the code prefix once, here, and stored.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountType, ok := domain.AccountTypeForCode(req.Code)
	if !ok {
		return nil, fmt.Errorf("%w: account code %q does not start with a known type digit", apperrors.ErrValidation, req.Code)
	}
	classification, ok := domain.ClassificationForCode(req.Code)
	if !ok {
		return nil, fmt.Errorf("%w: account code %q has no report classification", apperrors.ErrValidation, req.Code)
	}

	parentCode := ""
	if req.ParentCode != nil {
		parent, err := s.accountRepo.FindAccountByCode(ctx, *req.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %q does not exist", apperrors.ErrValidation, *req.ParentCode)
			}
			return nil, err
		}
		if parent.AccountType != accountType {
			return nil, fmt.Errorf("%w: parent account %q is a %s account, child %q is %s", apperrors.ErrValidation, parent.Code, parent.AccountType, req.Code, accountType)
		}
		parentCode = parent.Code
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    accountType,
		Classification: classification,
		ParentCode:     parentCode,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("account_type", string(account.AccountType)),
	)
	return &account, nil
}

// UpdateAccount updates an account's mutable fields. Code, type and
// classification are immutable once created.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actor

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeactivateAccount marks an account inactive. Accounts are never deleted;
// historical journal lines keep referring to them.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, actor string) error {
	inactive := false
	_, err := s.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{IsActive: &inactive}, actor)
	return err
}

// InitializeDefaultChart seeds the default chart of accounts. Existing codes
// are left untouched, so the call is idempotent and safe on every startup.
func (s *accountService) InitializeDefaultChart(ctx context.Context, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	created := 0
	for _, seed := range defaultChart {
		_, err := s.accountRepo.FindAccountByCode(ctx, seed.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("checking seed account %s: %w", seed.Code, err)
		}

		accountType, _ := domain.AccountTypeForCode(seed.Code)
		classification, _ := domain.ClassificationForCode(seed.Code)
		account := domain.Account{
			AccountID:      uuid.NewString(),
			Code:           seed.Code,
			Name:           seed.Name,
			AccountType:    accountType,
			Classification: classification,
			ParentCode:     seed.ParentCode,
			IsActive:       true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			// A concurrent seeder may have won the race; duplicates are fine.
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("seeding account %s: %w", seed.Code, err)
		}
		created++
	}

	if created > 0 {
		logger.Info("Default chart of accounts seeded", slog.Int("accounts_created", created))
	}
	return nil
}
