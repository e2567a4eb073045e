package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
// The plain repositories auto-commit each call and are used for reads; every
// mutation goes through UnitOfWork.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	PeriodRepo       PeriodRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	LedgerRepo       LedgerRepositoryFacade
	TrialBalanceRepo TrialBalanceRepositoryFacade
	PeriodCloseRepo  PeriodCloseRepositoryFacade
	UnitOfWork       UnitOfWork
}
