package pgsql

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, workplace_id, code, name, classification, usoa_class,
	is_retained_earnings, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(db DBTX) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.DB.Exec(ctx, query,
		m.AccountID,
		m.WorkplaceID,
		m.Code,
		m.Name,
		m.Classification,
		m.USOAClass,
		m.IsRetainedEarnings,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "save account "+m.AccountID)
}

// UpdateAccount updates the mutable fields. The code is never rewritten.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $3, classification = $4, usoa_class = $5, is_retained_earnings = $6, is_active = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE workplace_id = $1 AND account_id = $2;
	`
	tag, err := r.DB.Exec(ctx, query,
		m.WorkplaceID,
		m.AccountID,
		m.Name,
		m.Classification,
		m.USOAClass,
		m.IsRetainedEarnings,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update account "+m.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "update account")
	}
	return nil
}

func (r *PgxAccountRepository) queryOne(ctx context.Context, op, where string, args ...any) (*domain.Account, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+where, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, op)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, workplaceID, accountID string) (*domain.Account, error) {
	return r.queryOne(ctx, "find account "+accountID, `workplace_id = $1 AND account_id = $2`, workplaceID, accountID)
}

// FindAccountByCode retrieves an account by its workplace-unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, workplaceID, code string) (*domain.Account, error) {
	return r.queryOne(ctx, "find account by code "+code, `workplace_id = $1 AND code = $2`, workplaceID, code)
}

// FindRetainedEarningsAccount returns the account flagged as retained earnings.
func (r *PgxAccountRepository) FindRetainedEarningsAccount(ctx context.Context, workplaceID string) (*domain.Account, error) {
	return r.queryOne(ctx, "find retained earnings account", `workplace_id = $1 AND is_retained_earnings`, workplaceID)
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, workplaceID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE workplace_id = $1 AND account_id = ANY($2)`,
		workplaceID, accountIDs)
	if err != nil {
		return nil, mapError(err, "find accounts by ids")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "find accounts by ids")
	}
	for _, m := range ms {
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

// ListAccounts returns accounts ordered by code. A non-positive limit returns every account.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, workplaceID string, limit int, afterCode *string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE workplace_id = $1 AND ($2::text IS NULL OR code > $2)
		ORDER BY code
		LIMIT NULLIF($3::int, 0);
	`
	if limit < 0 {
		limit = 0
	}
	rows, err := r.DB.Query(ctx, query, workplaceID, afterCode, limit)
	if err != nil {
		return nil, mapError(err, "list accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "list accounts")
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// AccountHasPostings reports whether a posted or reversed entry references the account.
func (r *PgxAccountRepository) AccountHasPostings(ctx context.Context, workplaceID, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM journal_entry_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.workplace_id = $1 AND l.account_id = $2 AND e.status <> 'DRAFT'
		);
	`
	var found bool
	if err := r.DB.QueryRow(ctx, query, workplaceID, accountID).Scan(&found); err != nil {
		return false, mapError(err, "check account postings")
	}
	return found, nil
}
