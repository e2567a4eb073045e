package pgsql

import (
	"context"
	"errors"
	"fmt"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/SscSPs/general_ledger/internal/repositories/database/pgsql"

// PgxUnitOfWork runs units of work as READ COMMITTED transactions. Ledger mutations serialize
// on the period row (SELECT ... FOR UPDATE); schema constraints catch the remaining races.
type PgxUnitOfWork struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

func newPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{pool: pool, tracer: otel.Tracer(tracerName)}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// WithinTx implements portsrepo.UnitOfWork.
func (u *PgxUnitOfWork) WithinTx(ctx context.Context, workplaceID string, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, span := u.tracer.Start(ctx, "ledger.unit_of_work", trace.WithAttributes(attribute.String("workplace_id", workplaceID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapError(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			// The caller's ctx may be the reason for the rollback.
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(ctx, txRepositories(tx)); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return fmt.Errorf("transaction rolled back: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}

func txRepositories(db DBTX) portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		AccountRepo:      newPgxAccountRepository(db),
		PeriodRepo:       newPgxPeriodRepository(db),
		JournalRepo:      newPgxJournalRepository(db),
		LedgerRepo:       newPgxLedgerRepository(db),
		TrialBalanceRepo: newPgxTrialBalanceRepository(db),
		PeriodCloseRepo:  newPgxPeriodCloseRepository(db),
	}
}
