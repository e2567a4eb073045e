package repositories

import "context"

// TxRepositories are repositories bound to one open transaction.
type TxRepositories struct {
	AccountRepo      AccountRepositoryFacade
	PeriodRepo       PeriodRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	LedgerRepo       LedgerRepositoryFacade
	TrialBalanceRepo TrialBalanceRepositoryFacade
	PeriodCloseRepo  PeriodCloseRepositoryFacade
}

// UnitOfWork runs fn inside a single transaction scoped to one workplace. The transaction
// commits only when fn returns nil and ctx is still live; otherwise every write made through
// repos is rolled back. Storage serialization failures are reported as
// apperrors.ErrConcurrencyConflict.
type UnitOfWork interface {
	WithinTx(ctx context.Context, workplaceID string, fn func(ctx context.Context, repos TxRepositories) error) error
}
