package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// LedgerReaderSvc reads the general ledger projection
type LedgerReaderSvc interface {
	// GetBalance returns a zero row, not an error, for an account without postings in the period.
	GetBalance(ctx context.Context, workplaceID, accountID, periodID string) (*domain.GeneralLedgerEntry, error)
	ListBalances(ctx context.Context, workplaceID, periodID string) ([]domain.GeneralLedgerEntry, error)

	// Verify recomputes the period from posted lines without writing and reports differences.
	Verify(ctx context.Context, workplaceID, periodID string) (*dto.VerifyProjectionResponse, error)
}

// LedgerMaintenanceSvc rebuilds the projection from the canonical posted lines
type LedgerMaintenanceSvc interface {
	Rebuild(ctx context.Context, workplaceID, periodID, actorID string) (*dto.RebuildProjectionResponse, error)

	// EnqueueRebuild hands the rebuild to the background worker and returns the queued task.
	EnqueueRebuild(ctx context.Context, workplaceID, periodID, actorID string) (*dto.RebuildProjectionResponse, error)
}

// LedgerApplierSvc applies a posting to the projection inside the caller's unit of work.
type LedgerApplierSvc interface {
	ApplyPostingInTx(ctx context.Context, repos portsrepo.TxRepositories, entry domain.JournalEntry, at time.Time) error
}

// LedgerSvcFacade combines all projection service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerMaintenanceSvc
	LedgerApplierSvc
}
