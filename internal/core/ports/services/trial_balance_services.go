package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// TrialBalanceReaderSvc reads trial balance snapshots
type TrialBalanceReaderSvc interface {
	GetTrialBalance(ctx context.Context, workplaceID, trialBalanceID string) (*domain.TrialBalance, error)
	GetLatestTrialBalance(ctx context.Context, workplaceID, periodID string) (*domain.TrialBalance, error)
}

// TrialBalanceWriterSvc builds and locks trial balance snapshots
type TrialBalanceWriterSvc interface {
	Build(ctx context.Context, workplaceID, periodID, actorID string) (*domain.TrialBalance, error)
	Finalize(ctx context.Context, workplaceID, trialBalanceID, actorID string) (*domain.TrialBalance, error)
	Reopen(ctx context.Context, workplaceID, trialBalanceID, actorID string) (*domain.TrialBalance, error)
}

// TrialBalanceTxSvc builds and finalizes inside the caller's unit of work.
type TrialBalanceTxSvc interface {
	BuildInTx(ctx context.Context, repos portsrepo.TxRepositories, period domain.AccountingPeriod, actorID string, at time.Time) (*domain.TrialBalance, error)
	FinalizeInTx(ctx context.Context, repos portsrepo.TxRepositories, tb *domain.TrialBalance, actorID string, at time.Time) ([]domain.Event, error)

	// IsStale reports whether the snapshot no longer matches the live projection.
	IsStale(ctx context.Context, repos portsrepo.TxRepositories, tb domain.TrialBalance) (bool, error)
}

// TrialBalanceSvcFacade combines all trial balance service interfaces
type TrialBalanceSvcFacade interface {
	TrialBalanceReaderSvc
	TrialBalanceWriterSvc
	TrialBalanceTxSvc
}
