package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// PeriodReader defines read operations for the accounting calendar.
type PeriodReader interface {
	FindPeriodByID(ctx context.Context, workplaceID, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodByIDForUpdate reads the period and holds its row lock until the surrounding
	// transaction ends. The period row is the serialization point of every ledger mutation.
	FindPeriodByIDForUpdate(ctx context.Context, workplaceID, periodID string) (*domain.AccountingPeriod, error)

	// ListPeriods returns periods ordered by start date, optionally restricted to a fiscal year.
	ListPeriods(ctx context.Context, workplaceID string, fiscalYear *int) ([]domain.AccountingPeriod, error)

	// FindPeriodsContainingDate returns every period whose inclusive range covers date.
	FindPeriodsContainingDate(ctx context.Context, workplaceID string, date time.Time) ([]domain.AccountingPeriod, error)

	// FindOverlappingPeriods returns periods of the same type intersecting [start, end].
	FindOverlappingPeriods(ctx context.Context, workplaceID string, periodType domain.PeriodType, start, end time.Time) ([]domain.AccountingPeriod, error)

	// ListOpenPeriods returns open periods across all workplaces, for background verification.
	ListOpenPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for the accounting calendar.
type PeriodWriter interface {
	// SavePeriod persists a new period. Storage may reject an overlap with apperrors.CodePeriodOverlap.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriod persists status changes.
	UpdatePeriod(ctx context.Context, period domain.AccountingPeriod) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
