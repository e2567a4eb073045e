package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
)

func copyClose(c domain.PeriodClose) domain.PeriodClose {
	tasks := make([]domain.CloseTask, len(c.Tasks))
	copy(tasks, c.Tasks)
	issues := make([]domain.ValidationIssue, len(c.ValidationIssues))
	copy(issues, c.ValidationIssues)
	c.Tasks = tasks
	c.ValidationIssues = issues
	return c
}

func (r *Repository) SaveClose(_ context.Context, c domain.PeriodClose) error {
	return r.write(c.WorkplaceID, func(s *state) error {
		for _, rec := range s.closes {
			if rec.c.PeriodID == c.PeriodID && rec.c.Status.IsActive() {
				return fmt.Errorf("%w: period %s already has close %s", apperrors.ErrDuplicate, c.PeriodID, rec.c.CloseID)
			}
		}
		s.closes[c.CloseID] = closeRecord{c: copyClose(c), seq: s.nextSeq()}
		return nil
	})
}

func (r *Repository) UpdateClose(_ context.Context, c domain.PeriodClose) error {
	return r.write(c.WorkplaceID, func(s *state) error {
		rec, ok := s.closes[c.CloseID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if c.Status.IsActive() {
			for id, other := range s.closes {
				if id != c.CloseID && other.c.PeriodID == c.PeriodID && other.c.Status.IsActive() {
					return fmt.Errorf("%w: period %s already has close %s", apperrors.ErrDuplicate, c.PeriodID, id)
				}
			}
		}
		rec.c = copyClose(c)
		s.closes[c.CloseID] = rec
		return nil
	})
}

func (r *Repository) FindCloseByID(_ context.Context, workplaceID, closeID string) (*domain.PeriodClose, error) {
	var out *domain.PeriodClose
	err := r.read(workplaceID, func(s *state) error {
		rec, ok := s.closes[closeID]
		if !ok {
			return apperrors.ErrNotFound
		}
		c := copyClose(rec.c)
		out = &c
		return nil
	})
	return out, err
}

func (r *Repository) FindCloseByIDForUpdate(ctx context.Context, workplaceID, closeID string) (*domain.PeriodClose, error) {
	return r.FindCloseByID(ctx, workplaceID, closeID)
}

func (r *Repository) findLatestClose(workplaceID, periodID string, match func(domain.PeriodClose) bool) (*domain.PeriodClose, error) {
	var out *domain.PeriodClose
	err := r.read(workplaceID, func(s *state) error {
		var best *closeRecord
		for _, rec := range s.closes {
			if rec.c.PeriodID != periodID || !match(rec.c) {
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
		c := copyClose(best.c)
		out = &c
		return nil
	})
	return out, err
}

func (r *Repository) FindActiveCloseForPeriod(_ context.Context, workplaceID, periodID string) (*domain.PeriodClose, error) {
	return r.findLatestClose(workplaceID, periodID, func(c domain.PeriodClose) bool { return c.Status.IsActive() })
}

func (r *Repository) FindLatestCloseForPeriod(_ context.Context, workplaceID, periodID string) (*domain.PeriodClose, error) {
	return r.findLatestClose(workplaceID, periodID, func(domain.PeriodClose) bool { return true })
}
