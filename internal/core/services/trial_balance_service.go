package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultBalanceTolerance is the largest out-of-balance amount still treated as balanced.
var DefaultBalanceTolerance = decimal.NewFromFloat(0.01)

// trialBalanceService builds and finalizes trial balance snapshots.
type trialBalanceService struct {
	BaseService
	tbRepo    portsrepo.TrialBalanceReader
	uow       portsrepo.UnitOfWork
	tolerance decimal.Decimal
}

// TrialBalanceServiceOption configures the trial balance service
type TrialBalanceServiceOption func(*trialBalanceService)

// WithTolerance sets the balance tolerance used by Finalize.
func WithTolerance(tolerance decimal.Decimal) TrialBalanceServiceOption {
	return func(s *trialBalanceService) {
		s.tolerance = tolerance
	}
}

// WithTrialBalancePublisher sets the publisher for finalize and reopen events.
func WithTrialBalancePublisher(p portssvc.EventPublisher) TrialBalanceServiceOption {
	return func(s *trialBalanceService) {
		s.Publisher = p
	}
}

// WithTrialBalanceClock overrides the service clock.
func WithTrialBalanceClock(clock ClockFunc) TrialBalanceServiceOption {
	return func(s *trialBalanceService) {
		s.Clock = clock
	}
}

// NewTrialBalanceService creates the trial balance builder.
func NewTrialBalanceService(repo portsrepo.TrialBalanceReader, uow portsrepo.UnitOfWork, options ...TrialBalanceServiceOption) portssvc.TrialBalanceSvcFacade {
	svc := &trialBalanceService{
		tbRepo:    repo,
		uow:       uow,
		tolerance: DefaultBalanceTolerance,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TrialBalanceSvcFacade = (*trialBalanceService)(nil)

func (s *trialBalanceService) GetTrialBalance(ctx context.Context, workplaceID, trialBalanceID string) (*domain.TrialBalance, error) {
	tb, err := s.tbRepo.FindTrialBalanceByID(ctx, workplaceID, trialBalanceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find trial balance", slog.String("trial_balance_id", trialBalanceID))
		}
		return nil, notFoundAs(err, apperrors.CodeTrialBalanceNotFound, trialBalanceID, "get trial balance")
	}
	return tb, nil
}

func (s *trialBalanceService) GetLatestTrialBalance(ctx context.Context, workplaceID, periodID string) (*domain.TrialBalance, error) {
	tb, err := s.tbRepo.FindLatestTrialBalance(ctx, workplaceID, periodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find latest trial balance", slog.String("period_id", periodID))
		}
		return nil, notFoundAs(err, apperrors.CodeTrialBalanceNotFound, periodID, "get latest trial balance")
	}
	return tb, nil
}

// BuildInTx snapshots the projection rows of the period. Earlier drafts of the period are discarded.
func (s *trialBalanceService) BuildInTx(ctx context.Context, repos portsrepo.TxRepositories, period domain.AccountingPeriod, actorID string, at time.Time) (*domain.TrialBalance, error) {
	rows, err := repos.LedgerRepo.ListLedgerEntries(ctx, period.WorkplaceID, period.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("list projection rows: %w", err)
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.AccountID
	}
	accounts, err := repos.AccountRepo.FindAccountsByIDs(ctx, period.WorkplaceID, ids)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	lines := make([]domain.TrialBalanceLine, 0, len(rows))
	for _, r := range rows {
		acc, ok := accounts[r.AccountID]
		if !ok {
			return nil, apperrors.NotFound(apperrors.CodeAccountNotFound, r.AccountID, "projection row references unknown account %s", r.AccountID)
		}
		lines = append(lines, domain.TrialBalanceLine{
			AccountID:      r.AccountID,
			AccountCode:    acc.Code,
			Classification: acc.Classification,
			DebitTotal:     r.DebitTotal,
			CreditTotal:    r.CreditTotal,
			Balance:        r.Balance,
		})
	}

	if err := repos.TrialBalanceRepo.DeleteDraftTrialBalances(ctx, period.WorkplaceID, period.PeriodID); err != nil {
		return nil, fmt.Errorf("discard draft trial balances: %w", err)
	}
	tb := domain.NewTrialBalance(uuid.NewString(), period.WorkplaceID, period.PeriodID, lines, s.tolerance, actorID, at)
	if err := repos.TrialBalanceRepo.SaveTrialBalance(ctx, tb); err != nil {
		return nil, fmt.Errorf("save trial balance: %w", err)
	}
	return &tb, nil
}

func (s *trialBalanceService) Build(ctx context.Context, workplaceID, periodID, actorID string) (*domain.TrialBalance, error) {
	now := s.Now()
	var built *domain.TrialBalance
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		period, err := repos.PeriodRepo.FindPeriodByIDForUpdate(ctx, workplaceID, periodID)
		if err != nil {
			return notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "lock period")
		}
		built, err = s.BuildInTx(ctx, repos, *period, actorID, now)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance", slog.String("period_id", periodID))
		return nil, passThrough(err, "build trial balance")
	}

	s.LogInfo(ctx, "Trial balance built",
		slog.String("trial_balance_id", built.TrialBalanceID),
		slog.String("period_id", periodID),
		slog.Bool("is_balanced", built.IsBalanced),
		slog.String("out_of_balance", built.OutOfBalance.String()))
	return built, nil
}

// FinalizeInTx locks a draft snapshot after the balance and accounting equation checks.
func (s *trialBalanceService) FinalizeInTx(ctx context.Context, repos portsrepo.TxRepositories, tb *domain.TrialBalance, actorID string, at time.Time) ([]domain.Event, error) {
	if err := tb.Finalize(s.tolerance, actorID, at); err != nil {
		return nil, err
	}
	if err := repos.TrialBalanceRepo.UpdateTrialBalanceStatus(ctx, *tb); err != nil {
		return nil, fmt.Errorf("finalize trial balance: %w", err)
	}
	return []domain.Event{newEvent(domain.EventTrialBalanceFinalized, tb.WorkplaceID, tb.TrialBalanceID, at, map[string]any{
		"periodID":    tb.PeriodID,
		"totalDebit":  tb.TotalDebit.String(),
		"totalCredit": tb.TotalCredit.String(),
	})}, nil
}

// loadForUpdate reads the snapshot, then locks its period, then re-reads the snapshot.
func (s *trialBalanceService) loadForUpdate(ctx context.Context, repos portsrepo.TxRepositories, workplaceID, trialBalanceID string) (*domain.TrialBalance, *domain.AccountingPeriod, error) {
	tb, err := repos.TrialBalanceRepo.FindTrialBalanceByID(ctx, workplaceID, trialBalanceID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodeTrialBalanceNotFound, trialBalanceID, "load trial balance")
	}
	period, err := repos.PeriodRepo.FindPeriodByIDForUpdate(ctx, workplaceID, tb.PeriodID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodePeriodNotFound, tb.PeriodID, "lock period")
	}
	tb, err = repos.TrialBalanceRepo.FindTrialBalanceByID(ctx, workplaceID, trialBalanceID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodeTrialBalanceNotFound, trialBalanceID, "load trial balance")
	}
	return tb, period, nil
}

func (s *trialBalanceService) Finalize(ctx context.Context, workplaceID, trialBalanceID, actorID string) (*domain.TrialBalance, error) {
	now := s.Now()
	var (
		finalized *domain.TrialBalance
		events    []domain.Event
	)
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		tb, _, err := s.loadForUpdate(ctx, repos, workplaceID, trialBalanceID)
		if err != nil {
			return err
		}
		events, err = s.FinalizeInTx(ctx, repos, tb, actorID, now)
		if err != nil {
			return err
		}
		finalized = tb
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to finalize trial balance", slog.String("trial_balance_id", trialBalanceID))
		return nil, passThrough(err, "finalize trial balance")
	}

	s.Publish(ctx, events)
	s.LogInfo(ctx, "Trial balance finalized",
		slog.String("trial_balance_id", trialBalanceID),
		slog.String("period_id", finalized.PeriodID))
	return finalized, nil
}

// Reopen returns a finalized snapshot to Draft. The period must be open: a closed period is
// reopened through its period close first.
func (s *trialBalanceService) Reopen(ctx context.Context, workplaceID, trialBalanceID, actorID string) (*domain.TrialBalance, error) {
	now := s.Now()
	var reopened *domain.TrialBalance
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		tb, period, err := s.loadForUpdate(ctx, repos, workplaceID, trialBalanceID)
		if err != nil {
			return err
		}
		if err := period.EnsureOpen(); err != nil {
			return err
		}
		if err := tb.Reopen(actorID, now); err != nil {
			return err
		}
		if err := repos.TrialBalanceRepo.UpdateTrialBalanceStatus(ctx, *tb); err != nil {
			return fmt.Errorf("reopen trial balance: %w", err)
		}
		reopened = tb
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reopen trial balance", slog.String("trial_balance_id", trialBalanceID))
		return nil, passThrough(err, "reopen trial balance")
	}

	s.Publish(ctx, []domain.Event{newEvent(domain.EventTrialBalanceReopened, workplaceID, trialBalanceID, now, map[string]any{
		"periodID": reopened.PeriodID,
	})})
	s.LogInfo(ctx, "Trial balance reopened", slog.String("trial_balance_id", trialBalanceID))
	return reopened, nil
}

// IsStale reports whether tb no longer matches the live projection of its period.
func (s *trialBalanceService) IsStale(ctx context.Context, repos portsrepo.TxRepositories, tb domain.TrialBalance) (bool, error) {
	rows, err := repos.LedgerRepo.ListLedgerEntries(ctx, tb.WorkplaceID, tb.PeriodID)
	if err != nil {
		return false, fmt.Errorf("list projection rows: %w", err)
	}
	return !tb.MatchesProjection(rows), nil
}
