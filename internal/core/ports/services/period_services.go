package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// PeriodReaderSvc defines read operations on the accounting calendar
type PeriodReaderSvc interface {
	GetPeriod(ctx context.Context, workplaceID, periodID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, workplaceID string, params dto.ListPeriodsParams) ([]domain.AccountingPeriod, error)

	// FindPeriodForDate picks the finest-grained period covering date, open or closed: Month over
	// Quarter over Year.
	FindPeriodForDate(ctx context.Context, workplaceID string, date time.Time) (*domain.AccountingPeriod, error)
}

// PeriodWriterSvc defines write operations on the accounting calendar
type PeriodWriterSvc interface {
	OpenPeriod(ctx context.Context, workplaceID string, req dto.OpenPeriodRequest, actorID string) (*domain.AccountingPeriod, error)
}

// PeriodLifecycleSvc closes and reopens periods. It runs inside the caller's unit of work and is
// only used by the period close orchestrator. Events are returned for publishing after commit.
type PeriodLifecycleSvc interface {
	ClosePeriodInTx(ctx context.Context, repos portsrepo.TxRepositories, workplaceID, periodID, actorID string, at time.Time) (*domain.AccountingPeriod, []domain.Event, error)
	ReopenPeriodInTx(ctx context.Context, repos portsrepo.TxRepositories, workplaceID, periodID, actorID string, at time.Time) (*domain.AccountingPeriod, []domain.Event, error)
}

// PeriodSvcFacade combines all calendar service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
	PeriodLifecycleSvc
}
