package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// LedgerReader reads the general ledger projection.
type LedgerReader interface {
	// FindLedgerEntry returns the (account, period) row, or apperrors.ErrNotFound when there were no postings.
	FindLedgerEntry(ctx context.Context, workplaceID, accountID, periodID string) (*domain.GeneralLedgerEntry, error)

	// ListLedgerEntries returns every row of the period.
	ListLedgerEntries(ctx context.Context, workplaceID, periodID string) ([]domain.GeneralLedgerEntry, error)
}

// LedgerWriter maintains the projection. It is only called inside a unit of work.
type LedgerWriter interface {
	// ApplyDeltas adds each delta to its (account, period) row, creating missing rows.
	ApplyDeltas(ctx context.Context, workplaceID, periodID string, deltas []domain.LedgerDelta, at time.Time) error

	// ReplacePeriodEntries drops every row of the period and stores rows instead.
	ReplacePeriodEntries(ctx context.Context, workplaceID, periodID string, rows []domain.GeneralLedgerEntry) error
}

// LedgerRepositoryFacade combines projection read and write operations.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
