package pgsql

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const trialBalanceColumns = `trial_balance_id, workplace_id, period_id, total_debit, total_credit, out_of_balance,
	is_balanced, status, finalized_at, finalized_by, created_at, created_by, last_updated_at, last_updated_by`

const trialBalanceLineColumns = `trial_balance_id, account_id, account_code, classification, debit_total, credit_total, balance`

type PgxTrialBalanceRepository struct {
	BaseRepository
}

func newPgxTrialBalanceRepository(db DBTX) *PgxTrialBalanceRepository {
	return &PgxTrialBalanceRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.TrialBalanceRepositoryFacade = (*PgxTrialBalanceRepository)(nil)

// SaveTrialBalance inserts the snapshot and its lines.
func (r *PgxTrialBalanceRepository) SaveTrialBalance(ctx context.Context, tb domain.TrialBalance) error {
	m := mapping.ToModelTrialBalance(tb)
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO trial_balances (`+trialBalanceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		m.TrialBalanceID,
		m.WorkplaceID,
		m.PeriodID,
		m.TotalDebit,
		m.TotalCredit,
		m.OutOfBalance,
		m.IsBalanced,
		m.Status,
		m.FinalizedAt,
		m.FinalizedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	insertLine := `INSERT INTO trial_balance_lines (` + trialBalanceLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, l := range mapping.ToModelTrialBalanceLines(tb) {
		b.Queue(insertLine, l.TrialBalanceID, l.AccountID, l.AccountCode, l.Classification, l.DebitTotal, l.CreditTotal, l.Balance)
	}
	return r.execBatch(ctx, b, "save trial balance "+m.TrialBalanceID)
}

// UpdateTrialBalanceStatus persists a Finalize or Reopen transition. Lines never change.
func (r *PgxTrialBalanceRepository) UpdateTrialBalanceStatus(ctx context.Context, tb domain.TrialBalance) error {
	m := mapping.ToModelTrialBalance(tb)
	tag, err := r.DB.Exec(ctx, `
		UPDATE trial_balances
		SET status = $3, finalized_at = $4, finalized_by = $5, last_updated_at = $6, last_updated_by = $7
		WHERE workplace_id = $1 AND trial_balance_id = $2;`,
		m.WorkplaceID, m.TrialBalanceID, m.Status, m.FinalizedAt, m.FinalizedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "update trial balance "+m.TrialBalanceID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "update trial balance")
	}
	return nil
}

// DeleteDraftTrialBalances discards the Draft snapshots of a period; lines cascade.
func (r *PgxTrialBalanceRepository) DeleteDraftTrialBalances(ctx context.Context, workplaceID, periodID string) error {
	_, err := r.DB.Exec(ctx, `
		DELETE FROM trial_balances
		WHERE workplace_id = $1 AND period_id = $2 AND status = 'DRAFT';`, workplaceID, periodID)
	return mapError(err, "delete draft trial balances")
}

func (r *PgxTrialBalanceRepository) queryOne(ctx context.Context, op, where string, args ...any) (*domain.TrialBalance, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+trialBalanceColumns+` FROM trial_balances WHERE `+where, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	header, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.TrialBalance])
	if err != nil {
		return nil, mapError(err, op)
	}

	rows, err = r.DB.Query(ctx, `
		SELECT `+trialBalanceLineColumns+`
		FROM trial_balance_lines
		WHERE trial_balance_id = $1
		ORDER BY account_code, account_id;`, header.TrialBalanceID)
	if err != nil {
		return nil, mapError(err, op)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TrialBalanceLine])
	if err != nil {
		return nil, mapError(err, op)
	}
	tb := mapping.ToDomainTrialBalance(header, lines)
	return &tb, nil
}

func (r *PgxTrialBalanceRepository) FindTrialBalanceByID(ctx context.Context, workplaceID, trialBalanceID string) (*domain.TrialBalance, error) {
	return r.queryOne(ctx, "find trial balance "+trialBalanceID,
		`workplace_id = $1 AND trial_balance_id = $2`, workplaceID, trialBalanceID)
}

func (r *PgxTrialBalanceRepository) FindLatestTrialBalance(ctx context.Context, workplaceID, periodID string) (*domain.TrialBalance, error) {
	return r.queryOne(ctx, "find latest trial balance",
		`workplace_id = $1 AND period_id = $2 ORDER BY built_seq DESC LIMIT 1`, workplaceID, periodID)
}

func (r *PgxTrialBalanceRepository) FindLatestFinalizedTrialBalance(ctx context.Context, workplaceID, periodID string) (*domain.TrialBalance, error) {
	return r.queryOne(ctx, "find latest finalized trial balance",
		`workplace_id = $1 AND period_id = $2 AND status = 'FINALIZED' ORDER BY built_seq DESC LIMIT 1`, workplaceID, periodID)
}
