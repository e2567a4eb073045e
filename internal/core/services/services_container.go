package services

import (
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/platform/config"
)

// ContainerDeps are the optional collaborators of the services. A nil publisher drops events;
// nil jobs disables asynchronous rebuilds and post-close verification.
type ContainerDeps struct {
	Publisher portssvc.EventPublisher
	Jobs      portssvc.ProjectionJobEnqueuer
	Clock     ClockFunc
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps ContainerDeps) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	tolerance := DefaultBalanceTolerance
	if cfg != nil && cfg.BalanceTolerance.IsPositive() {
		tolerance = cfg.BalanceTolerance
	}

	container.Account = NewAccountService(repos.AccountRepo, WithAccountClock(deps.Clock))

	container.Period = NewPeriodService(
		repos.PeriodRepo,
		repos.UnitOfWork,
		WithPeriodPublisher(deps.Publisher),
		WithPeriodClock(deps.Clock),
	)

	ledgerOpts := []LedgerServiceOption{
		WithLedgerPublisher(deps.Publisher),
		WithLedgerClock(deps.Clock),
	}
	if deps.Jobs != nil {
		ledgerOpts = append(ledgerOpts, WithProjectionJobs(deps.Jobs))
	}
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo, repos.PeriodRepo, repos.UnitOfWork, ledgerOpts...)

	// The journal applies postings through the ledger inside its own unit of work.
	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.UnitOfWork,
		container.Ledger,
		WithJournalPublisher(deps.Publisher),
		WithJournalClock(deps.Clock),
	)

	container.TrialBalance = NewTrialBalanceService(
		repos.TrialBalanceRepo,
		repos.UnitOfWork,
		WithTolerance(tolerance),
		WithTrialBalancePublisher(deps.Publisher),
		WithTrialBalanceClock(deps.Clock),
	)

	closeOpts := []PeriodCloseServiceOption{
		WithPeriodClosePublisher(deps.Publisher),
		WithPeriodCloseClock(deps.Clock),
	}
	if deps.Jobs != nil {
		closeOpts = append(closeOpts, WithCloseVerification(deps.Jobs))
	}
	container.PeriodClose = NewPeriodCloseService(
		repos.PeriodCloseRepo,
		repos.UnitOfWork,
		container.Period,
		container.Journal,
		container.TrialBalance,
		closeOpts...,
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.PeriodSvcFacade       = (*periodService)(nil)
	_ portssvc.JournalSvcFacade      = (*journalService)(nil)
	_ portssvc.LedgerSvcFacade       = (*ledgerService)(nil)
	_ portssvc.TrialBalanceSvcFacade = (*trialBalanceService)(nil)
	_ portssvc.PeriodCloseSvcFacade  = (*periodCloseService)(nil)
)
