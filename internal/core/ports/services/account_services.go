package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// AccountReaderSvc defines read operations on the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its workplace-unique code.
	GetAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts ordered by code.
	ListAccounts(ctx context.Context, workplaceID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)
}

// AccountWriterSvc defines write operations on the chart of accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, workplaceID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// UpdateAccount changes name, USOA class or classification. Classification is locked once posted to.
	UpdateAccount(ctx context.Context, workplaceID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)

	// DeactivateAccount stops new lines from referencing the account.
	DeactivateAccount(ctx context.Context, workplaceID, accountID, actorID string) (*domain.Account, error)

	// ImportAccounts creates every account whose code is not yet present.
	ImportAccounts(ctx context.Context, workplaceID string, reqs []dto.CreateAccountRequest, actorID string) (*dto.ImportAccountsResult, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
