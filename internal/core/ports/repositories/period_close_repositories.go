package repositories

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// PeriodCloseReader defines read operations for period closes.
type PeriodCloseReader interface {
	FindCloseByID(ctx context.Context, workplaceID, closeID string) (*domain.PeriodClose, error)

	// FindCloseByIDForUpdate loads the close and locks it in the surrounding transaction.
	FindCloseByIDForUpdate(ctx context.Context, workplaceID, closeID string) (*domain.PeriodClose, error)

	// FindActiveCloseForPeriod returns the InProgress or Completed close of a period.
	FindActiveCloseForPeriod(ctx context.Context, workplaceID, periodID string) (*domain.PeriodClose, error)

	// FindLatestCloseForPeriod returns the most recently started close of a period, whatever its status.
	FindLatestCloseForPeriod(ctx context.Context, workplaceID, periodID string) (*domain.PeriodClose, error)
}

// PeriodCloseWriter defines write operations for period closes.
type PeriodCloseWriter interface {
	// SaveClose persists a new close with its checklist. Returns apperrors.ErrDuplicate when
	// another active close of the period exists.
	SaveClose(ctx context.Context, c domain.PeriodClose) error

	// UpdateClose persists the header, tasks and issues.
	UpdateClose(ctx context.Context, c domain.PeriodClose) error
}

// PeriodCloseRepositoryFacade combines all period-close repository interfaces
type PeriodCloseRepositoryFacade interface {
	PeriodCloseReader
	PeriodCloseWriter
}
