package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
)

func sortPeriods(ps []domain.AccountingPeriod) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].StartDate.Equal(ps[j].StartDate) {
			return ps[i].PeriodID < ps[j].PeriodID
		}
		return ps[i].StartDate.Before(ps[j].StartDate)
	})
}

func (r *Repository) SavePeriod(_ context.Context, period domain.AccountingPeriod) error {
	return r.write(period.WorkplaceID, func(s *state) error {
		for _, p := range s.periods {
			if p.PeriodType == period.PeriodType && p.Overlaps(period.StartDate, period.EndDate) {
				return apperrors.Conflict(apperrors.CodePeriodOverlap, p.PeriodID, "period overlaps %s", p.Name)
			}
		}
		s.periods[period.PeriodID] = period
		return nil
	})
}

func (r *Repository) UpdatePeriod(_ context.Context, period domain.AccountingPeriod) error {
	return r.write(period.WorkplaceID, func(s *state) error {
		if _, ok := s.periods[period.PeriodID]; !ok {
			return apperrors.ErrNotFound
		}
		s.periods[period.PeriodID] = period
		return nil
	})
}

func (r *Repository) FindPeriodByID(_ context.Context, workplaceID, periodID string) (*domain.AccountingPeriod, error) {
	var out *domain.AccountingPeriod
	err := r.read(workplaceID, func(s *state) error {
		p, ok := s.periods[periodID]
		if !ok {
			return apperrors.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

// FindPeriodByIDForUpdate is FindPeriodByID: a unit of work already holds the workplace lock.
func (r *Repository) FindPeriodByIDForUpdate(ctx context.Context, workplaceID, periodID string) (*domain.AccountingPeriod, error) {
	return r.FindPeriodByID(ctx, workplaceID, periodID)
}

func (r *Repository) ListPeriods(_ context.Context, workplaceID string, fiscalYear *int) ([]domain.AccountingPeriod, error) {
	var out []domain.AccountingPeriod
	err := r.read(workplaceID, func(s *state) error {
		for _, p := range s.periods {
			if fiscalYear != nil && p.FiscalYear != *fiscalYear {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	sortPeriods(out)
	return out, err
}

func (r *Repository) FindPeriodsContainingDate(_ context.Context, workplaceID string, date time.Time) ([]domain.AccountingPeriod, error) {
	var out []domain.AccountingPeriod
	err := r.read(workplaceID, func(s *state) error {
		for _, p := range s.periods {
			if p.Contains(date) {
				out = append(out, p)
			}
		}
		return nil
	})
	sortPeriods(out)
	return out, err
}

func (r *Repository) FindOverlappingPeriods(_ context.Context, workplaceID string, periodType domain.PeriodType, start, end time.Time) ([]domain.AccountingPeriod, error) {
	var out []domain.AccountingPeriod
	err := r.read(workplaceID, func(s *state) error {
		for _, p := range s.periods {
			if p.PeriodType == periodType && p.Overlaps(start, end) {
				out = append(out, p)
			}
		}
		return nil
	})
	sortPeriods(out)
	return out, err
}

func (r *Repository) ListOpenPeriods(_ context.Context) ([]domain.AccountingPeriod, error) {
	var out []domain.AccountingPeriod
	for _, ws := range r.store.allWorkplaces() {
		ws.mu.RLock()
		for _, p := range ws.data.periods {
			if p.IsOpen() {
				out = append(out, p)
			}
		}
		ws.mu.RUnlock()
	}
	sortPeriods(out)
	return out, nil
}
