package memory

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
)

func copyTrialBalance(tb domain.TrialBalance) domain.TrialBalance {
	lines := make([]domain.TrialBalanceLine, len(tb.Lines))
	copy(lines, tb.Lines)
	tb.Lines = lines
	return tb
}

func (r *Repository) SaveTrialBalance(_ context.Context, tb domain.TrialBalance) error {
	return r.write(tb.WorkplaceID, func(s *state) error {
		s.trialBalances[tb.TrialBalanceID] = tbRecord{tb: copyTrialBalance(tb), seq: s.nextSeq()}
		return nil
	})
}

func (r *Repository) UpdateTrialBalanceStatus(_ context.Context, tb domain.TrialBalance) error {
	return r.write(tb.WorkplaceID, func(s *state) error {
		rec, ok := s.trialBalances[tb.TrialBalanceID]
		if !ok {
			return apperrors.ErrNotFound
		}
		stored := rec.tb
		stored.Status = tb.Status
		stored.FinalizedAt = tb.FinalizedAt
		stored.FinalizedBy = tb.FinalizedBy
		stored.AuditFields = tb.AuditFields
		rec.tb = stored
		s.trialBalances[tb.TrialBalanceID] = rec
		return nil
	})
}

func (r *Repository) DeleteDraftTrialBalances(_ context.Context, workplaceID, periodID string) error {
	return r.write(workplaceID, func(s *state) error {
		for id, rec := range s.trialBalances {
			if rec.tb.PeriodID == periodID && rec.tb.Status == domain.TrialBalanceDraft {
				delete(s.trialBalances, id)
			}
		}
		return nil
	})
}

func (r *Repository) FindTrialBalanceByID(_ context.Context, workplaceID, trialBalanceID string) (*domain.TrialBalance, error) {
	var out *domain.TrialBalance
	err := r.read(workplaceID, func(s *state) error {
		rec, ok := s.trialBalances[trialBalanceID]
		if !ok {
			return apperrors.ErrNotFound
		}
		tb := copyTrialBalance(rec.tb)
		out = &tb
		return nil
	})
	return out, err
}

func (r *Repository) findLatestTrialBalance(workplaceID, periodID string, match func(domain.TrialBalance) bool) (*domain.TrialBalance, error) {
	var out *domain.TrialBalance
	err := r.read(workplaceID, func(s *state) error {
		var best *tbRecord
		for _, rec := range s.trialBalances {
			if rec.tb.PeriodID != periodID || !match(rec.tb) {
				continue
			}
			if best == nil || rec.seq > best.seq {
				rc := rec
				best = &rc
			}
		}
		if best == nil {
			return apperrors.ErrNotFound
		}
		tb := copyTrialBalance(best.tb)
		out = &tb
		return nil
	})
	return out, err
}

func (r *Repository) FindLatestTrialBalance(_ context.Context, workplaceID, periodID string) (*domain.TrialBalance, error) {
	return r.findLatestTrialBalance(workplaceID, periodID, func(domain.TrialBalance) bool { return true })
}

func (r *Repository) FindLatestFinalizedTrialBalance(_ context.Context, workplaceID, periodID string) (*domain.TrialBalance, error) {
	return r.findLatestTrialBalance(workplaceID, periodID, func(tb domain.TrialBalance) bool {
		return tb.Status == domain.TrialBalanceFinalized
	})
}
