package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountClock overrides the clock used for audit fields.
func WithAccountClock(clock ClockFunc) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = clock
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, workplaceID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	if !req.Classification.IsValid() {
		return nil, fmt.Errorf("%w: unknown account classification %q", apperrors.ErrValidation, req.Classification)
	}
	if req.IsRetainedEarnings {
		if req.Classification != domain.Equity {
			return nil, fmt.Errorf("%w: the retained earnings account must be an equity account", apperrors.ErrValidation)
		}
		existing, err := s.accountRepo.FindRetainedEarningsAccount(ctx, workplaceID)
		if err == nil {
			return nil, apperrors.Conflict(apperrors.CodeDuplicateRetainedEarnings, existing.AccountID,
				"workplace already has retained earnings account %s", existing.Code)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up retained earnings account", slog.String("workplace_id", workplaceID))
			return nil, fmt.Errorf("create account: %w", err)
		}
	}

	now := s.Now()
	account := domain.Account{
		AccountID:          uuid.NewString(),
		WorkplaceID:        workplaceID,
		Code:               req.Code,
		Name:               req.Name,
		Classification:     req.Classification,
		USOAClass:          req.USOAClass,
		IsRetainedEarnings: req.IsRetainedEarnings,
		IsActive:           true,
		AuditFields:        domain.NewAuditFields(actorID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.Conflict(apperrors.CodeDuplicateAccountCode, req.Code,
				"account code %s already exists in the workplace", req.Code).Wrap(err)
		}
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_code", account.Code),
			slog.String("workplace_id", workplaceID))
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("account_code", account.Code),
		slog.String("workplace_id", workplaceID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, workplaceID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, notFoundAs(err, apperrors.CodeAccountNotFound, accountID, "get account")
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, workplaceID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("account_code", code))
		}
		return nil, notFoundAs(err, apperrors.CodeAccountNotFound, code, "get account by code")
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, workplaceID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	var afterCode *string
	if params.NextToken != nil && *params.NextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*params.NextToken)
		if err != nil || len(fields) != 1 || fields[0] == "" {
			return nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		afterCode = &fields[0]
	}

	// One extra row tells us whether another page exists.
	accounts, err := s.accountRepo.ListAccounts(ctx, workplaceID, limit+1, afterCode)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("workplace_id", workplaceID),
			slog.Int("limit", limit))
		return nil, fmt.Errorf("failed to list accounts for workplace %s: %w", workplaceID, err)
	}

	resp := &dto.ListAccountsResponse{}
	if len(accounts) > limit {
		accounts = accounts[:limit]
		token := pagination.EncodeMultiFieldToken(accounts[limit-1].Code)
		resp.NextToken = &token
	}
	resp.Accounts = dto.ToListAccountResponse(accounts)
	return resp, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, workplaceID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, workplaceID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && *req.Name != account.Name {
		account.Name = *req.Name
		updated = true
	}
	if req.USOAClass != nil {
		account.USOAClass = req.USOAClass
		updated = true
	}
	if req.Classification != nil && *req.Classification != account.Classification {
		if !req.Classification.IsValid() {
			return nil, fmt.Errorf("%w: unknown account classification %q", apperrors.ErrValidation, *req.Classification)
		}
		if account.IsRetainedEarnings && *req.Classification != domain.Equity {
			return nil, fmt.Errorf("%w: the retained earnings account must be an equity account", apperrors.ErrValidation)
		}
		hasPostings, err := s.accountRepo.AccountHasPostings(ctx, workplaceID, accountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to check account postings", slog.String("account_id", accountID))
			return nil, fmt.Errorf("update account: %w", err)
		}
		if hasPostings {
			return nil, apperrors.Invariant(apperrors.CodeClassificationLocked, accountID,
				"account %s has postings, its classification cannot change", account.Code)
		}
		account.Classification = *req.Classification
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	account.Touch(actorID, s.Now())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, notFoundAs(err, apperrors.CodeAccountNotFound, accountID, "update account")
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID),
		slog.String("workplace_id", account.WorkplaceID))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, workplaceID, accountID, actorID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, workplaceID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return account, nil
	}

	account.IsActive = false
	account.Touch(actorID, s.Now())
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return nil, notFoundAs(err, apperrors.CodeAccountNotFound, accountID, "deactivate account")
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("account_id", accountID),
		slog.String("workplace_id", workplaceID))
	return account, nil
}

func (s *accountService) ImportAccounts(ctx context.Context, workplaceID string, reqs []dto.CreateAccountRequest, actorID string) (*dto.ImportAccountsResult, error) {
	result := &dto.ImportAccountsResult{Created: []dto.AccountResponse{}, Skipped: []string{}}
	for _, req := range reqs {
		_, err := s.accountRepo.FindAccountByCode(ctx, workplaceID, req.Code)
		if err == nil {
			result.Skipped = append(result.Skipped, req.Code)
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return result, fmt.Errorf("import account %s: %w", req.Code, err)
		}
		account, err := s.CreateAccount(ctx, workplaceID, req, actorID)
		if err != nil {
			return result, fmt.Errorf("import account %s: %w", req.Code, err)
		}
		result.Created = append(result.Created, dto.ToAccountResponse(account))
	}

	s.LogInfo(ctx, "Chart of accounts imported",
		slog.String("workplace_id", workplaceID),
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", len(result.Skipped)))
	return result, nil
}
