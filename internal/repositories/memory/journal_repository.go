package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
)

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	lines := make([]domain.JournalEntryLine, len(e.Lines))
	copy(lines, e.Lines)
	e.Lines = lines
	return e
}

func (r *Repository) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	return r.write(entry.WorkplaceID, func(s *state) error {
		if _, ok := s.entries[entry.EntryID]; ok {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, entry.EntryID)
		}
		if entry.Reference != nil {
			for _, e := range s.entries {
				if e.Reference != nil && *e.Reference == *entry.Reference {
					return fmt.Errorf("%w: reference %s already used by %s", apperrors.ErrDuplicate, *entry.Reference, e.EntryID)
				}
			}
		}
		s.entries[entry.EntryID] = copyEntry(entry)
		return nil
	})
}

func (r *Repository) UpdateEntry(_ context.Context, entry domain.JournalEntry) error {
	return r.write(entry.WorkplaceID, func(s *state) error {
		if _, ok := s.entries[entry.EntryID]; !ok {
			return apperrors.ErrNotFound
		}
		s.entries[entry.EntryID] = copyEntry(entry)
		return nil
	})
}

func (r *Repository) DeleteEntry(_ context.Context, workplaceID, entryID string) error {
	return r.write(workplaceID, func(s *state) error {
		if _, ok := s.entries[entryID]; !ok {
			return apperrors.ErrNotFound
		}
		delete(s.entries, entryID)
		return nil
	})
}

func (r *Repository) FindEntryByID(_ context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := r.read(workplaceID, func(s *state) error {
		e, ok := s.entries[entryID]
		if !ok {
			return apperrors.ErrNotFound
		}
		c := copyEntry(e)
		out = &c
		return nil
	})
	return out, err
}

func (r *Repository) FindEntryByIDForUpdate(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	return r.FindEntryByID(ctx, workplaceID, entryID)
}

func (r *Repository) FindEntryByReference(_ context.Context, workplaceID, reference string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := r.read(workplaceID, func(s *state) error {
		for _, e := range s.entries {
			if e.Reference != nil && *e.Reference == reference {
				c := copyEntry(e)
				out = &c
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return out, err
}

// after reports whether e sorts after the cursor in (entry_date, entry_id) descending order.
func after(e domain.JournalEntry, c *domain.EntryCursor) bool {
	if c == nil {
		return true
	}
	if e.EntryDate.Equal(c.EntryDate) {
		return e.EntryID < c.EntryID
	}
	return e.EntryDate.Before(c.EntryDate)
}

func (r *Repository) ListEntries(_ context.Context, workplaceID string, filter domain.EntryFilter, limit int, cursor *domain.EntryCursor) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := r.read(workplaceID, func(s *state) error {
		for _, e := range s.entries {
			if filter.PeriodID != nil && e.PeriodID != *filter.PeriodID {
				continue
			}
			if filter.Status != nil && e.Status != *filter.Status {
				continue
			}
			if !after(e, cursor) {
				continue
			}
			out = append(out, copyEntry(e))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryID > out[j].EntryID
		}
		return out[i].EntryDate.After(out[j].EntryDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *Repository) ListPostedLinesForPeriod(_ context.Context, workplaceID, periodID string) ([]domain.PostedLine, error) {
	var entries []domain.JournalEntry
	err := r.read(workplaceID, func(s *state) error {
		for _, e := range s.entries {
			if e.PeriodID == periodID && e.Status != domain.Draft {
				entries = append(entries, e)
			}
		}
		return nil
	})
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryID < entries[j].EntryID
		}
		return entries[i].EntryDate.Before(entries[j].EntryDate)
	})
	var out []domain.PostedLine
	for _, e := range entries {
		for _, l := range e.Lines {
			out = append(out, domain.PostedLine{
				EntryID:      e.EntryID,
				PeriodID:     e.PeriodID,
				AccountID:    l.AccountID,
				DebitAmount:  l.DebitAmount,
				CreditAmount: l.CreditAmount,
			})
		}
	}
	return out, err
}
