package repositories

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its ledger code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts keyed by code.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the chart of accounts, optionally active only.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)

	// ListAccountsByType retrieves accounts of one fundamental type.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate when
	// the code is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates mutable fields (name, description, parent,
	// active flag). The account type and code are never updated.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepository combines account read and write operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
