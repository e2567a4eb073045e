// Package memory is an in-process storage adapter. Each workplace has its own lock; a unit of
// work holds that lock for its whole duration and edits a copy of the workplace state that is
// swapped in on commit.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

type ledgerKey struct {
	accountID string
	periodID  string
}

type tbRecord struct {
	tb  domain.TrialBalance
	seq int64
}

type closeRecord struct {
	c   domain.PeriodClose
	seq int64
}

// state is one workplace's data. Stored values are never mutated in place; writes replace them.
type state struct {
	accounts      map[string]domain.Account
	periods       map[string]domain.AccountingPeriod
	entries       map[string]domain.JournalEntry
	ledger        map[ledgerKey]domain.GeneralLedgerEntry
	trialBalances map[string]tbRecord
	closes        map[string]closeRecord
	seq           int64
}

func newState() *state {
	return &state{
		accounts:      map[string]domain.Account{},
		periods:       map[string]domain.AccountingPeriod{},
		entries:       map[string]domain.JournalEntry{},
		ledger:        map[ledgerKey]domain.GeneralLedgerEntry{},
		trialBalances: map[string]tbRecord{},
		closes:        map[string]closeRecord{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		accounts:      cloneMap(s.accounts),
		periods:       cloneMap(s.periods),
		entries:       cloneMap(s.entries),
		ledger:        cloneMap(s.ledger),
		trialBalances: cloneMap(s.trialBalances),
		closes:        cloneMap(s.closes),
		seq:           s.seq,
	}
}

func (s *state) nextSeq() int64 {
	s.seq++
	return s.seq
}

type workplaceState struct {
	mu   sync.RWMutex
	data *state
}

// Store holds every workplace's state.
type Store struct {
	mu         sync.Mutex
	workplaces map[string]*workplaceState
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{workplaces: map[string]*workplaceState{}}
}

func (s *Store) workplace(workplaceID string) *workplaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workplaces[workplaceID]
	if !ok {
		ws = &workplaceState{data: newState()}
		s.workplaces[workplaceID] = ws
	}
	return ws
}

func (s *Store) allWorkplaces() []*workplaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*workplaceState, 0, len(s.workplaces))
	for _, ws := range s.workplaces {
		out = append(out, ws)
	}
	return out
}

// WithinTx implements portsrepo.UnitOfWork.
func (s *Store) WithinTx(ctx context.Context, workplaceID string, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ws := s.workplace(workplaceID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	working := ws.data.clone()
	repo := &Repository{store: s, tx: &txState{workplaceID: workplaceID, data: working}}
	if err := fn(ctx, repo.txRepositories()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction rolled back: %w", err)
	}
	ws.data = working
	return nil
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

type txState struct {
	workplaceID string
	data        *state
}

// Repository implements every repository port over a Store. Outside a unit of work each call
// is its own transaction.
type Repository struct {
	store *Store
	tx    *txState
}

func (r *Repository) txRepositories() portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		AccountRepo:      r,
		PeriodRepo:       r,
		JournalRepo:      r,
		LedgerRepo:       r,
		TrialBalanceRepo: r,
		PeriodCloseRepo:  r,
	}
}

func (r *Repository) read(workplaceID string, fn func(s *state) error) error {
	if r.tx != nil {
		if r.tx.workplaceID != workplaceID {
			return fmt.Errorf("%w: transaction of workplace %s cannot read workplace %s", apperrors.ErrValidation, r.tx.workplaceID, workplaceID)
		}
		return fn(r.tx.data)
	}
	ws := r.store.workplace(workplaceID)
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return fn(ws.data)
}

func (r *Repository) write(workplaceID string, fn func(s *state) error) error {
	if r.tx != nil {
		if r.tx.workplaceID != workplaceID {
			return fmt.Errorf("%w: transaction of workplace %s cannot write workplace %s", apperrors.ErrValidation, r.tx.workplaceID, workplaceID)
		}
		return fn(r.tx.data)
	}
	ws := r.store.workplace(workplaceID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	next := ws.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	ws.data = next
	return nil
}

// NewRepositoryProvider wires every port to a fresh in-memory store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return NewRepositoryProviderForStore(NewStore())
}

// NewRepositoryProviderForStore wires every port to store.
func NewRepositoryProviderForStore(store *Store) portsrepo.RepositoryProvider {
	repo := &Repository{store: store}
	return portsrepo.RepositoryProvider{
		AccountRepo:      repo,
		PeriodRepo:       repo,
		JournalRepo:      repo,
		LedgerRepo:       repo,
		TrialBalanceRepo: repo,
		PeriodCloseRepo:  repo,
		UnitOfWork:       store,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade      = (*Repository)(nil)
	_ portsrepo.PeriodRepositoryFacade       = (*Repository)(nil)
	_ portsrepo.JournalRepositoryFacade      = (*Repository)(nil)
	_ portsrepo.LedgerRepositoryFacade       = (*Repository)(nil)
	_ portsrepo.TrialBalanceRepositoryFacade = (*Repository)(nil)
	_ portsrepo.PeriodCloseRepositoryFacade  = (*Repository)(nil)
)
