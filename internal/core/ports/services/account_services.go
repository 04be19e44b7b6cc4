package services

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its numeric code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves the chart of accounts ordered by code.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)

	// ListAccountsByType retrieves accounts of one fundamental type.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount creates a ledger account, deriving its type and
	// classification from the code prefix.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)

	// UpdateAccount updates an account's mutable fields. Code and type are
	// immutable.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error)

	// DeactivateAccount marks an account inactive so it can no longer be
	// posted to.
	DeactivateAccount(ctx context.Context, accountID string, actor string) error

	// InitializeDefaultChart seeds the default chart of accounts. Safe to call
	// repeatedly; existing codes are left untouched.
	InitializeDefaultChart(ctx context.Context, actor string) error
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
