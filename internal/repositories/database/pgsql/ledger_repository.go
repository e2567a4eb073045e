package pgsql

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const ledgerColumns = `workplace_id, account_id, period_id, debit_total, credit_total, balance, updated_at`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(db DBTX) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func (r *PgxLedgerRepository) FindLedgerEntry(ctx context.Context, workplaceID, accountID, periodID string) (*domain.GeneralLedgerEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM general_ledger_entries
		WHERE workplace_id = $1 AND period_id = $2 AND account_id = $3;`, workplaceID, periodID, accountID)
	if err != nil {
		return nil, mapError(err, "find ledger entry")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.GeneralLedgerEntry])
	if err != nil {
		return nil, mapError(err, "find ledger entry")
	}
	g := mapping.ToDomainLedgerEntry(m)
	return &g, nil
}

func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, workplaceID, periodID string) ([]domain.GeneralLedgerEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+ledgerColumns+`
		FROM general_ledger_entries
		WHERE workplace_id = $1 AND period_id = $2
		ORDER BY account_id;`, workplaceID, periodID)
	if err != nil {
		return nil, mapError(err, "list ledger entries")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.GeneralLedgerEntry])
	if err != nil {
		return nil, mapError(err, "list ledger entries")
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}

// ApplyDeltas upserts each (account, period) row, adding to the stored totals.
func (r *PgxLedgerRepository) ApplyDeltas(ctx context.Context, workplaceID, periodID string, deltas []domain.LedgerDelta, at time.Time) error {
	sorted := make([]domain.LedgerDelta, len(deltas))
	copy(sorted, deltas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].AccountID < sorted[j].AccountID })

	query := `
		INSERT INTO general_ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (workplace_id, period_id, account_id) DO UPDATE SET
			debit_total  = general_ledger_entries.debit_total + EXCLUDED.debit_total,
			credit_total = general_ledger_entries.credit_total + EXCLUDED.credit_total,
			balance      = general_ledger_entries.balance + EXCLUDED.balance,
			updated_at   = EXCLUDED.updated_at;
	`
	b := &pgx.Batch{}
	for _, d := range sorted {
		b.Queue(query, workplaceID, d.AccountID, periodID, d.Debit, d.Credit, d.SignedAmount(), at)
	}
	return r.execBatch(ctx, b, "apply ledger deltas")
}

// ReplacePeriodEntries swaps the period's rows for rows.
func (r *PgxLedgerRepository) ReplacePeriodEntries(ctx context.Context, workplaceID, periodID string, rows []domain.GeneralLedgerEntry) error {
	b := &pgx.Batch{}
	b.Queue(`DELETE FROM general_ledger_entries WHERE workplace_id = $1 AND period_id = $2;`, workplaceID, periodID)
	insert := `INSERT INTO general_ledger_entries (` + ledgerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, row := range rows {
		m := mapping.ToModelLedgerEntry(row)
		b.Queue(insert, workplaceID, m.AccountID, periodID, m.DebitTotal, m.CreditTotal, m.Balance, m.UpdatedAt)
	}
	return r.execBatch(ctx, b, "replace ledger entries")
}
