package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `entry_id, workplace_id, period_id, entry_date, description, reference, status,
	reversal_of_entry_id, reversed_by_entry_id, posted_at, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, debit_amount, credit_amount, memo`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(db DBTX) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func (r *PgxJournalRepository) queueLines(b *pgx.Batch, entry domain.JournalEntry) {
	query := `INSERT INTO journal_entry_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, l := range entry.Lines {
		m := mapping.ToModelJournalLine(l)
		b.Queue(query, m.LineID, entry.EntryID, m.LineNumber, m.AccountID, m.DebitAmount, m.CreditAmount, m.Memo)
	}
}

// SaveEntry inserts the header and its lines in one batch.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`,
		m.EntryID,
		m.WorkplaceID,
		m.PeriodID,
		m.EntryDate,
		m.Description,
		m.Reference,
		m.Status,
		m.ReversalOfEntryID,
		m.ReversedByEntryID,
		m.PostedAt,
		m.PostedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	r.queueLines(b, entry)
	return r.execBatch(ctx, b, "save journal entry "+m.EntryID)
}

// UpdateEntry rewrites the header and replaces the lines.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	tag, err := r.DB.Exec(ctx, `
		UPDATE journal_entries
		SET period_id = $3, entry_date = $4, description = $5, reference = $6, status = $7,
			reversal_of_entry_id = $8, reversed_by_entry_id = $9, posted_at = $10, posted_by = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE workplace_id = $1 AND entry_id = $2;`,
		m.WorkplaceID,
		m.EntryID,
		m.PeriodID,
		m.EntryDate,
		m.Description,
		m.Reference,
		m.Status,
		m.ReversalOfEntryID,
		m.ReversedByEntryID,
		m.PostedAt,
		m.PostedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update journal entry "+m.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "update journal entry")
	}

	b := &pgx.Batch{}
	b.Queue(`DELETE FROM journal_entry_lines WHERE entry_id = $1;`, m.EntryID)
	r.queueLines(b, entry)
	return r.execBatch(ctx, b, "replace journal lines of "+m.EntryID)
}

// DeleteEntry removes an entry; its lines cascade.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, workplaceID, entryID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM journal_entries WHERE workplace_id = $1 AND entry_id = $2;`, workplaceID, entryID)
	if err != nil {
		return mapError(err, "delete journal entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "delete journal entry")
	}
	return nil
}

// loadLines fetches the lines of entries grouped by entry ID, in line order.
func (r *PgxJournalRepository) loadLines(ctx context.Context, entryIDs []string) (map[string][]models.JournalEntryLine, error) {
	out := make(map[string][]models.JournalEntryLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	rows, err := r.DB.Query(ctx, `
		SELECT `+lineColumns+`
		FROM journal_entry_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_number;`, entryIDs)
	if err != nil {
		return nil, mapError(err, "load journal lines")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntryLine])
	if err != nil {
		return nil, mapError(err, "load journal lines")
	}
	for _, m := range ms {
		out[m.EntryID] = append(out[m.EntryID], m)
	}
	return out, nil
}

func (r *PgxJournalRepository) queryEntries(ctx context.Context, op, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	headers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, op)
	}
	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		out[i] = mapping.ToDomainJournalEntry(h, lines[h.EntryID])
	}
	return out, nil
}

func (r *PgxJournalRepository) queryEntry(ctx context.Context, op, query string, args ...any) (*domain.JournalEntry, error) {
	entries, err := r.queryEntries(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, mapError(pgx.ErrNoRows, op)
	}
	return &entries[0], nil
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	return r.queryEntry(ctx, "find journal entry "+entryID,
		`SELECT `+entryColumns+` FROM journal_entries WHERE workplace_id = $1 AND entry_id = $2`, workplaceID, entryID)
}

// FindEntryByIDForUpdate locks the header row in the surrounding transaction.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	return r.queryEntry(ctx, "lock journal entry "+entryID,
		`SELECT `+entryColumns+` FROM journal_entries WHERE workplace_id = $1 AND entry_id = $2 FOR UPDATE`, workplaceID, entryID)
}

// FindEntryByReference retrieves an entry by its caller-supplied reference.
func (r *PgxJournalRepository) FindEntryByReference(ctx context.Context, workplaceID, reference string) (*domain.JournalEntry, error) {
	return r.queryEntry(ctx, "find journal entry by reference",
		`SELECT `+entryColumns+` FROM journal_entries WHERE workplace_id = $1 AND reference = $2`, workplaceID, reference)
}

// ListEntries returns entries newest first using keyset pagination on (entry_date, entry_id).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, workplaceID string, filter domain.EntryFilter, limit int, cursor *domain.EntryCursor) ([]domain.JournalEntry, error) {
	conditions := []string{"workplace_id = $1"}
	args := []any{workplaceID}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.PeriodID != nil {
		conditions = append(conditions, "period_id = "+next(*filter.PeriodID))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+next(string(*filter.Status)))
	}
	if cursor != nil {
		conditions = append(conditions, fmt.Sprintf("(entry_date, entry_id) < (%s::date, %s)",
			next(dateArg(cursor.EntryDate)), next(cursor.EntryID)))
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY entry_date DESC, entry_id DESC`
	if limit > 0 {
		query += " LIMIT " + next(limit)
	}
	return r.queryEntries(ctx, "list journal entries", query, args...)
}

// ListPostedLinesForPeriod returns every line of Posted or Reversed entries in the period.
func (r *PgxJournalRepository) ListPostedLinesForPeriod(ctx context.Context, workplaceID, periodID string) ([]domain.PostedLine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT e.entry_id, e.period_id, l.account_id, l.debit_amount, l.credit_amount
		FROM journal_entries e
		JOIN journal_entry_lines l ON l.entry_id = e.entry_id
		WHERE e.workplace_id = $1 AND e.period_id = $2 AND e.status <> 'DRAFT'
		ORDER BY e.entry_date, e.entry_id, l.line_number;`, workplaceID, periodID)
	if err != nil {
		return nil, mapError(err, "list posted lines")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PostedLine])
	if err != nil {
		return nil, mapError(err, "list posted lines")
	}
	return mapping.ToDomainPostedLineSlice(ms), nil
}
