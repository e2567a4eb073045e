package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
)

func (r *Repository) FindLedgerEntry(_ context.Context, workplaceID, accountID, periodID string) (*domain.GeneralLedgerEntry, error) {
	var out *domain.GeneralLedgerEntry
	err := r.read(workplaceID, func(s *state) error {
		row, ok := s.ledger[ledgerKey{accountID: accountID, periodID: periodID}]
		if !ok {
			return apperrors.ErrNotFound
		}
		out = &row
		return nil
	})
	return out, err
}

func (r *Repository) ListLedgerEntries(_ context.Context, workplaceID, periodID string) ([]domain.GeneralLedgerEntry, error) {
	var out []domain.GeneralLedgerEntry
	err := r.read(workplaceID, func(s *state) error {
		for k, row := range s.ledger {
			if k.periodID == periodID {
				out = append(out, row)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, err
}

func (r *Repository) ApplyDeltas(_ context.Context, workplaceID, periodID string, deltas []domain.LedgerDelta, at time.Time) error {
	return r.write(workplaceID, func(s *state) error {
		for _, d := range deltas {
			k := ledgerKey{accountID: d.AccountID, periodID: periodID}
			row, ok := s.ledger[k]
			if !ok {
				row = domain.ZeroLedgerEntry(workplaceID, d.AccountID, periodID)
			}
			s.ledger[k] = row.Apply(d, at)
		}
		return nil
	})
}

func (r *Repository) ReplacePeriodEntries(_ context.Context, workplaceID, periodID string, rows []domain.GeneralLedgerEntry) error {
	return r.write(workplaceID, func(s *state) error {
		for k := range s.ledger {
			if k.periodID == periodID {
				delete(s.ledger, k)
			}
		}
		for _, row := range rows {
			s.ledger[ledgerKey{accountID: row.AccountID, periodID: periodID}] = row
		}
		return nil
	})
}
