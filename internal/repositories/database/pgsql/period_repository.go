package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const periodColumns = `period_id, workplace_id, name, period_type, fiscal_year, start_date, end_date, status,
	closed_at, closed_by, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(db DBTX) *PgxPeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

// SavePeriod inserts a period. The exclusion constraint reports overlaps as PERIOD_OVERLAP.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.DB.Exec(ctx, query,
		m.PeriodID,
		m.WorkplaceID,
		m.Name,
		m.PeriodType,
		m.FiscalYear,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.ClosedAt,
		m.ClosedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "save period "+m.PeriodID)
}

// UpdatePeriod persists a Close or Reopen transition.
func (r *PgxPeriodRepository) UpdatePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		UPDATE accounting_periods
		SET status = $3, closed_at = $4, closed_by = $5, last_updated_at = $6, last_updated_by = $7
		WHERE workplace_id = $1 AND period_id = $2;
	`
	tag, err := r.DB.Exec(ctx, query, m.WorkplaceID, m.PeriodID, m.Status, m.ClosedAt, m.ClosedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "update period "+m.PeriodID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "update period")
	}
	return nil
}

func (r *PgxPeriodRepository) queryMany(ctx context.Context, op, query string, args ...any) ([]domain.AccountingPeriod, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountingPeriod])
	if err != nil {
		return nil, mapError(err, op)
	}
	return mapping.ToDomainPeriodSlice(ms), nil
}

func (r *PgxPeriodRepository) findByID(ctx context.Context, workplaceID, periodID, suffix string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE workplace_id = $1 AND period_id = $2` + suffix
	rows, err := r.DB.Query(ctx, query, workplaceID, periodID)
	if err != nil {
		return nil, mapError(err, "find period "+periodID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.AccountingPeriod])
	if err != nil {
		return nil, mapError(err, "find period "+periodID)
	}
	p := mapping.ToDomainPeriod(m)
	return &p, nil
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, workplaceID, periodID string) (*domain.AccountingPeriod, error) {
	return r.findByID(ctx, workplaceID, periodID, "")
}

// FindPeriodByIDForUpdate locks the period row until the surrounding transaction ends.
func (r *PgxPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, workplaceID, periodID string) (*domain.AccountingPeriod, error) {
	return r.findByID(ctx, workplaceID, periodID, " FOR UPDATE")
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, workplaceID string, fiscalYear *int) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE workplace_id = $1 AND ($2::int IS NULL OR fiscal_year = $2)
		ORDER BY start_date, period_id;
	`
	return r.queryMany(ctx, "list periods", query, workplaceID, fiscalYear)
}

func (r *PgxPeriodRepository) FindPeriodsContainingDate(ctx context.Context, workplaceID string, date time.Time) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE workplace_id = $1 AND start_date <= $2::date AND end_date >= $2::date
		ORDER BY start_date, period_id;
	`
	return r.queryMany(ctx, "find periods for date", query, workplaceID, dateArg(date))
}

func (r *PgxPeriodRepository) FindOverlappingPeriods(ctx context.Context, workplaceID string, periodType domain.PeriodType, start, end time.Time) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE workplace_id = $1 AND period_type = $2
			AND daterange(start_date, end_date, '[]') && daterange($3::date, $4::date, '[]')
		ORDER BY start_date, period_id;
	`
	return r.queryMany(ctx, "find overlapping periods", query, workplaceID, string(periodType), dateArg(start), dateArg(end))
}

// ListOpenPeriods spans every workplace and is only used by background verification.
func (r *PgxPeriodRepository) ListOpenPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE status = 'OPEN'
		ORDER BY workplace_id, start_date, period_id;
	`
	return r.queryMany(ctx, "list open periods", query)
}
