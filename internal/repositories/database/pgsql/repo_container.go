package pgsql

import (
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every port to the pool. Plain repositories auto-commit each call;
// mutations run through the unit of work.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		PeriodRepo:       newPgxPeriodRepository(dbPool),
		JournalRepo:      newPgxJournalRepository(dbPool),
		LedgerRepo:       newPgxLedgerRepository(dbPool),
		TrialBalanceRepo: newPgxTrialBalanceRepository(dbPool),
		PeriodCloseRepo:  newPgxPeriodCloseRepository(dbPool),
		UnitOfWork:       newPgxUnitOfWork(dbPool),
	}
}
