package repositories

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// TrialBalanceReader defines read operations for trial balance snapshots.
type TrialBalanceReader interface {
	FindTrialBalanceByID(ctx context.Context, workplaceID, trialBalanceID string) (*domain.TrialBalance, error)

	// FindLatestTrialBalance returns the most recently built snapshot of the period.
	FindLatestTrialBalance(ctx context.Context, workplaceID, periodID string) (*domain.TrialBalance, error)

	// FindLatestFinalizedTrialBalance returns the most recently built Finalized snapshot of the period.
	FindLatestFinalizedTrialBalance(ctx context.Context, workplaceID, periodID string) (*domain.TrialBalance, error)
}

// TrialBalanceWriter defines write operations for trial balance snapshots.
type TrialBalanceWriter interface {
	// SaveTrialBalance persists a new snapshot and its lines.
	SaveTrialBalance(ctx context.Context, tb domain.TrialBalance) error

	// UpdateTrialBalanceStatus persists a Finalize or Reopen transition.
	UpdateTrialBalanceStatus(ctx context.Context, tb domain.TrialBalance) error

	// DeleteDraftTrialBalances discards the Draft snapshots of a period.
	DeleteDraftTrialBalances(ctx context.Context, workplaceID, periodID string) error
}

// TrialBalanceRepositoryFacade combines all trial-balance repository interfaces
type TrialBalanceRepositoryFacade interface {
	TrialBalanceReader
	TrialBalanceWriter
}
