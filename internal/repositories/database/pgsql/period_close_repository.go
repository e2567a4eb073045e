package pgsql

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const closeColumns = `close_id, workplace_id, period_id, close_type, status, trial_balance_id,
	net_income_transferred, net_income_entry_id, completed_at, completed_by, reopened_at, reopened_by,
	created_at, created_by, last_updated_at, last_updated_by`

const closeTaskColumns = `close_id, position, name, is_required, is_manual, is_complete, completed_at, completed_by`

const closeIssueColumns = `issue_id, close_id, description, severity, is_resolved, reported_at, reported_by,
	resolved_at, resolved_by`

type PgxPeriodCloseRepository struct {
	BaseRepository
}

func newPgxPeriodCloseRepository(db DBTX) *PgxPeriodCloseRepository {
	return &PgxPeriodCloseRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.PeriodCloseRepositoryFacade = (*PgxPeriodCloseRepository)(nil)

func (r *PgxPeriodCloseRepository) queueChildren(b *pgx.Batch, c domain.PeriodClose) {
	insertTask := `INSERT INTO period_close_tasks (` + closeTaskColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	for _, t := range mapping.ToModelCloseTasks(c) {
		b.Queue(insertTask, t.CloseID, t.Position, t.Name, t.IsRequired, t.IsManual, t.IsComplete, t.CompletedAt, t.CompletedBy)
	}
	upsertIssue := `
		INSERT INTO period_close_issues (` + closeIssueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (issue_id) DO UPDATE SET
			is_resolved = EXCLUDED.is_resolved,
			resolved_at = EXCLUDED.resolved_at,
			resolved_by = EXCLUDED.resolved_by;`
	for _, v := range mapping.ToModelValidationIssues(c) {
		b.Queue(upsertIssue, v.IssueID, v.CloseID, v.Description, v.Severity, v.IsResolved, v.ReportedAt, v.ReportedBy, v.ResolvedAt, v.ResolvedBy)
	}
}

// SaveClose inserts a close with its checklist. The partial unique index rejects a second
// active close of the period with apperrors.ErrDuplicate.
func (r *PgxPeriodCloseRepository) SaveClose(ctx context.Context, c domain.PeriodClose) error {
	m := mapping.ToModelPeriodClose(c)
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO period_closes (`+closeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`,
		m.CloseID,
		m.WorkplaceID,
		m.PeriodID,
		m.CloseType,
		m.Status,
		m.TrialBalanceID,
		m.NetIncomeTransferred,
		m.NetIncomeEntryID,
		m.CompletedAt,
		m.CompletedBy,
		m.ReopenedAt,
		m.ReopenedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	r.queueChildren(b, c)
	return r.execBatch(ctx, b, "save period close "+m.CloseID)
}

// UpdateClose rewrites the header, replaces the checklist and upserts issues.
func (r *PgxPeriodCloseRepository) UpdateClose(ctx context.Context, c domain.PeriodClose) error {
	m := mapping.ToModelPeriodClose(c)
	tag, err := r.DB.Exec(ctx, `
		UPDATE period_closes
		SET status = $3, trial_balance_id = $4, net_income_transferred = $5, net_income_entry_id = $6,
			completed_at = $7, completed_by = $8, reopened_at = $9, reopened_by = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE workplace_id = $1 AND close_id = $2;`,
		m.WorkplaceID,
		m.CloseID,
		m.Status,
		m.TrialBalanceID,
		m.NetIncomeTransferred,
		m.NetIncomeEntryID,
		m.CompletedAt,
		m.CompletedBy,
		m.ReopenedAt,
		m.ReopenedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update period close "+m.CloseID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "update period close")
	}

	b := &pgx.Batch{}
	b.Queue(`DELETE FROM period_close_tasks WHERE close_id = $1;`, m.CloseID)
	r.queueChildren(b, c)
	return r.execBatch(ctx, b, "update checklist of "+m.CloseID)
}

func (r *PgxPeriodCloseRepository) queryOne(ctx context.Context, op, where string, args ...any) (*domain.PeriodClose, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+closeColumns+` FROM period_closes WHERE `+where, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	header, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PeriodClose])
	if err != nil {
		return nil, mapError(err, op)
	}

	rows, err = r.DB.Query(ctx, `SELECT `+closeTaskColumns+` FROM period_close_tasks WHERE close_id = $1 ORDER BY position;`, header.CloseID)
	if err != nil {
		return nil, mapError(err, op)
	}
	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CloseTask])
	if err != nil {
		return nil, mapError(err, op)
	}

	rows, err = r.DB.Query(ctx, `SELECT `+closeIssueColumns+` FROM period_close_issues WHERE close_id = $1 ORDER BY reported_at, issue_id;`, header.CloseID)
	if err != nil {
		return nil, mapError(err, op)
	}
	issues, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ValidationIssue])
	if err != nil {
		return nil, mapError(err, op)
	}

	c := mapping.ToDomainPeriodClose(header, tasks, issues)
	return &c, nil
}

func (r *PgxPeriodCloseRepository) FindCloseByID(ctx context.Context, workplaceID, closeID string) (*domain.PeriodClose, error) {
	return r.queryOne(ctx, "find period close "+closeID, `workplace_id = $1 AND close_id = $2`, workplaceID, closeID)
}

// FindCloseByIDForUpdate locks the close header in the surrounding transaction.
func (r *PgxPeriodCloseRepository) FindCloseByIDForUpdate(ctx context.Context, workplaceID, closeID string) (*domain.PeriodClose, error) {
	return r.queryOne(ctx, "lock period close "+closeID, `workplace_id = $1 AND close_id = $2 FOR UPDATE`, workplaceID, closeID)
}

func (r *PgxPeriodCloseRepository) FindActiveCloseForPeriod(ctx context.Context, workplaceID, periodID string) (*domain.PeriodClose, error) {
	return r.queryOne(ctx, "find active close",
		`workplace_id = $1 AND period_id = $2 AND status IN ('IN_PROGRESS', 'COMPLETED') ORDER BY started_seq DESC LIMIT 1`,
		workplaceID, periodID)
}

func (r *PgxPeriodCloseRepository) FindLatestCloseForPeriod(ctx context.Context, workplaceID, periodID string) (*domain.PeriodClose, error) {
	return r.queryOne(ctx, "find latest close",
		`workplace_id = $1 AND period_id = $2 ORDER BY started_seq DESC LIMIT 1`, workplaceID, periodID)
}
