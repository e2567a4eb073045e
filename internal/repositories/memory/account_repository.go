package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
)

func (r *Repository) SaveAccount(_ context.Context, account domain.Account) error {
	return r.write(account.WorkplaceID, func(s *state) error {
		if _, ok := s.accounts[account.AccountID]; ok {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		for _, a := range s.accounts {
			if a.Code == account.Code {
				return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
			}
			if account.IsRetainedEarnings && a.IsRetainedEarnings {
				return fmt.Errorf("%w: workplace already has retained earnings account %s", apperrors.ErrDuplicate, a.Code)
			}
		}
		s.accounts[account.AccountID] = account
		return nil
	})
}

func (r *Repository) UpdateAccount(_ context.Context, account domain.Account) error {
	return r.write(account.WorkplaceID, func(s *state) error {
		if _, ok := s.accounts[account.AccountID]; !ok {
			return apperrors.ErrNotFound
		}
		s.accounts[account.AccountID] = account
		return nil
	})
}

func (r *Repository) FindAccountByID(_ context.Context, workplaceID, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := r.read(workplaceID, func(s *state) error {
		a, ok := s.accounts[accountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *Repository) FindAccountByCode(_ context.Context, workplaceID, code string) (*domain.Account, error) {
	var out *domain.Account
	err := r.read(workplaceID, func(s *state) error {
		for _, a := range s.accounts {
			if a.Code == code {
				acc := a
				out = &acc
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return out, err
}

func (r *Repository) FindAccountsByIDs(_ context.Context, workplaceID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := r.read(workplaceID, func(s *state) error {
		for _, id := range accountIDs {
			if a, ok := s.accounts[id]; ok {
				out[id] = a
			}
		}
		return nil
	})
	return out, err
}

func (r *Repository) ListAccounts(_ context.Context, workplaceID string, limit int, afterCode *string) ([]domain.Account, error) {
	var out []domain.Account
	err := r.read(workplaceID, func(s *state) error {
		for _, a := range s.accounts {
			if afterCode != nil && a.Code <= *afterCode {
				continue
			}
			out = append(out, a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *Repository) FindRetainedEarningsAccount(_ context.Context, workplaceID string) (*domain.Account, error) {
	var out *domain.Account
	err := r.read(workplaceID, func(s *state) error {
		for _, a := range s.accounts {
			if a.IsRetainedEarnings {
				acc := a
				out = &acc
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return out, err
}

func (r *Repository) AccountHasPostings(_ context.Context, workplaceID, accountID string) (bool, error) {
	found := false
	err := r.read(workplaceID, func(s *state) error {
		for _, e := range s.entries {
			if e.Status == domain.Draft {
				continue
			}
			for _, l := range e.Lines {
				if l.AccountID == accountID {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}
