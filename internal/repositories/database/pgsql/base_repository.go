package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the adapter translates.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

const retainedEarningsIndex = "accounts_one_retained_earnings"

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository works inside
// and outside a unit of work.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB DBTX
}

// execBatch sends b and reports the first failing statement.
func (r *BaseRepository) execBatch(ctx context.Context, b *pgx.Batch, op string) error {
	if b.Len() == 0 {
		return nil
	}
	br := r.DB.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return mapError(err, op)
		}
	}
	if err := br.Close(); err != nil {
		return mapError(err, op)
	}
	return nil
}

// mapError translates driver errors into the apperrors vocabulary.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return apperrors.Concurrency(err)
		case pgUniqueViolation:
			if pgErr.ConstraintName == retainedEarningsIndex {
				return apperrors.Conflict(apperrors.CodeDuplicateRetainedEarnings, "",
					"the workplace already has a retained earnings account").Wrap(err)
			}
			return fmt.Errorf("%w: %s violates %s", apperrors.ErrDuplicate, op, pgErr.ConstraintName)
		case pgExclusionViolation:
			return apperrors.Conflict(apperrors.CodePeriodOverlap, "",
				"period overlaps an existing period of the same type").Wrap(err)
		case pgForeignKeyViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s violates %s", apperrors.ErrValidation, op, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// dateArg renders a calendar date for comparison against DATE columns, independent of the
// session time zone.
func dateArg(t time.Time) string {
	return t.Format(time.DateOnly)
}
