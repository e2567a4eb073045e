package repositories

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIDForUpdate retrieves the entry and locks its header row in the surrounding transaction.
	FindEntryByIDForUpdate(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error)

	// FindEntryByReference retrieves an entry by its caller-supplied reference.
	FindEntryByReference(ctx context.Context, workplaceID, reference string) (*domain.JournalEntry, error)

	// ListEntries returns entries ordered by (entry_date, entry_id) descending, starting after cursor.
	ListEntries(ctx context.Context, workplaceID string, filter domain.EntryFilter, limit int, cursor *domain.EntryCursor) ([]domain.JournalEntry, error)

	// ListPostedLinesForPeriod returns every line of Posted or Reversed entries in the period,
	// the canonical input of the projection.
	ListPostedLinesForPeriod(ctx context.Context, workplaceID, periodID string) ([]domain.PostedLine, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveEntry persists a new entry and its lines. Returns apperrors.ErrDuplicate on a reused reference.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntry persists header changes and replaces the lines.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry removes an entry and its lines.
	DeleteEntry(ctx context.Context, workplaceID, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
