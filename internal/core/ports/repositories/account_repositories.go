package repositories

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts.
// Every lookup is scoped by workplace; accounts of another workplace are reported as not found.
type AccountReader interface {
	// FindAccountByID retrieves a specific account. Returns apperrors.ErrNotFound when missing.
	FindAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its workplace-unique code.
	FindAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are omitted.
	FindAccountsByIDs(ctx context.Context, workplaceID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns accounts ordered by code, starting after afterCode when given.
	ListAccounts(ctx context.Context, workplaceID string, limit int, afterCode *string) ([]domain.Account, error)

	// FindRetainedEarningsAccount returns the account flagged as retained earnings.
	FindRetainedEarningsAccount(ctx context.Context, workplaceID string) (*domain.Account, error)

	// AccountHasPostings reports whether any posted line references the account.
	AccountHasPostings(ctx context.Context, workplaceID, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate when the code is taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable fields.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
