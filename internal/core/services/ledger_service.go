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
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/utils/accounting"
	"golang.org/x/sync/singleflight"
)

// ErrJobsUnavailable is returned when an asynchronous rebuild is requested without a job queue.
var ErrJobsUnavailable = errors.New("background jobs are not configured")

// ledgerService maintains the general ledger projection.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountReader
	periodRepo  portsrepo.PeriodReader
	uow         portsrepo.UnitOfWork
	jobs        portssvc.ProjectionJobEnqueuer
	rebuilds    singleflight.Group
}

// LedgerServiceOption configures the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerPublisher sets the publisher for ProjectionRebuilt events.
func WithLedgerPublisher(p portssvc.EventPublisher) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Publisher = p
	}
}

// WithProjectionJobs enables asynchronous rebuilds.
func WithProjectionJobs(jobs portssvc.ProjectionJobEnqueuer) LedgerServiceOption {
	return func(s *ledgerService) {
		s.jobs = jobs
	}
}

// WithLedgerClock overrides the service clock.
func WithLedgerClock(clock ClockFunc) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Clock = clock
	}
}

// NewLedgerService creates the projection service.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	periodRepo portsrepo.PeriodReader,
	uow portsrepo.UnitOfWork,
	options ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
		uow:         uow,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetBalance(ctx context.Context, workplaceID, accountID, periodID string) (*domain.GeneralLedgerEntry, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, workplaceID, accountID); err != nil {
		return nil, notFoundAs(err, apperrors.CodeAccountNotFound, accountID, "get balance")
	}
	if _, err := s.periodRepo.FindPeriodByID(ctx, workplaceID, periodID); err != nil {
		return nil, notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "get balance")
	}

	row, err := s.ledgerRepo.FindLedgerEntry(ctx, workplaceID, accountID, periodID)
	if errors.Is(err, apperrors.ErrNotFound) {
		zero := domain.ZeroLedgerEntry(workplaceID, accountID, periodID)
		return &zero, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger balance",
			slog.String("account_id", accountID),
			slog.String("period_id", periodID))
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return row, nil
}

func (s *ledgerService) ListBalances(ctx context.Context, workplaceID, periodID string) ([]domain.GeneralLedgerEntry, error) {
	if _, err := s.periodRepo.FindPeriodByID(ctx, workplaceID, periodID); err != nil {
		return nil, notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "list balances")
	}
	rows, err := s.ledgerRepo.ListLedgerEntries(ctx, workplaceID, periodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger balances", slog.String("period_id", periodID))
		return nil, fmt.Errorf("list balances: %w", err)
	}
	if rows == nil {
		return []domain.GeneralLedgerEntry{}, nil
	}
	return rows, nil
}

// ApplyPostingInTx adds the entry's lines to the projection rows of its period.
func (s *ledgerService) ApplyPostingInTx(ctx context.Context, repos portsrepo.TxRepositories, entry domain.JournalEntry, at time.Time) error {
	classifications, err := s.classify(ctx, repos.AccountRepo, entry.WorkplaceID, entry.AccountIDs())
	if err != nil {
		return err
	}
	deltas, err := accounting.AggregateDeltas(accounting.EntryLines(entry), classifications)
	if err != nil {
		return fmt.Errorf("aggregate posting %s: %w", entry.EntryID, err)
	}
	if err := repos.LedgerRepo.ApplyDeltas(ctx, entry.WorkplaceID, entry.PeriodID, deltas, at); err != nil {
		return fmt.Errorf("apply posting %s to projection: %w", entry.EntryID, err)
	}
	return nil
}

func (s *ledgerService) classify(ctx context.Context, accounts portsrepo.AccountReader, workplaceID string, accountIDs []string) (map[string]domain.AccountClassification, error) {
	found, err := accounts.FindAccountsByIDs(ctx, workplaceID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	out := make(map[string]domain.AccountClassification, len(found))
	for id, a := range found {
		out[id] = a.Classification
	}
	for _, id := range accountIDs {
		if _, ok := out[id]; !ok {
			return nil, apperrors.NotFound(apperrors.CodeAccountNotFound, id, "account %s not found", id)
		}
	}
	return out, nil
}

// recompute derives the projection of a period from its posted lines.
func (s *ledgerService) recompute(ctx context.Context, repos portsrepo.TxRepositories, workplaceID, periodID string, at time.Time) ([]domain.GeneralLedgerEntry, int, error) {
	lines, err := repos.JournalRepo.ListPostedLinesForPeriod(ctx, workplaceID, periodID)
	if err != nil {
		return nil, 0, fmt.Errorf("list posted lines: %w", err)
	}
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			ids = append(ids, l.AccountID)
		}
	}
	classifications, err := s.classify(ctx, repos.AccountRepo, workplaceID, ids)
	if err != nil {
		return nil, 0, err
	}
	deltas, err := accounting.AggregateDeltas(lines, classifications)
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate posted lines: %w", err)
	}
	return accounting.ProjectRows(workplaceID, periodID, deltas, at), len(lines), nil
}

// Rebuild replaces the projection of a period with a recomputation from posted lines.
// Concurrent rebuilds of the same period share one run.
func (s *ledgerService) Rebuild(ctx context.Context, workplaceID, periodID, actorID string) (*dto.RebuildProjectionResponse, error) {
	key := workplaceID + ":" + periodID
	ch := s.rebuilds.DoChan(key, func() (any, error) {
		return s.rebuild(context.WithoutCancel(ctx), workplaceID, periodID, actorID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		resp := *res.Val.(*dto.RebuildProjectionResponse)
		return &resp, nil
	}
}

func (s *ledgerService) rebuild(ctx context.Context, workplaceID, periodID, actorID string) (*dto.RebuildProjectionResponse, error) {
	now := s.Now()
	resp := &dto.RebuildProjectionResponse{PeriodID: periodID, RebuiltAt: now}

	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if _, err := repos.PeriodRepo.FindPeriodByIDForUpdate(ctx, workplaceID, periodID); err != nil {
			return notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "lock period")
		}
		rows, lineCount, err := s.recompute(ctx, repos, workplaceID, periodID, now)
		if err != nil {
			return err
		}
		if err := repos.LedgerRepo.ReplacePeriodEntries(ctx, workplaceID, periodID, rows); err != nil {
			return fmt.Errorf("replace projection rows: %w", err)
		}
		resp.Rows = len(rows)
		resp.Lines = lineCount
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to rebuild projection",
			slog.String("workplace_id", workplaceID),
			slog.String("period_id", periodID))
		return nil, passThrough(err, "rebuild projection")
	}

	s.Publish(ctx, []domain.Event{newEvent(domain.EventProjectionRebuilt, workplaceID, periodID, now, map[string]any{
		"rows":    resp.Rows,
		"lines":   resp.Lines,
		"actorID": actorID,
	})})
	s.LogInfo(ctx, "Projection rebuilt",
		slog.String("workplace_id", workplaceID),
		slog.String("period_id", periodID),
		slog.Int("rows", resp.Rows),
		slog.Int("lines", resp.Lines))
	return resp, nil
}

// EnqueueRebuild schedules a rebuild on the worker.
func (s *ledgerService) EnqueueRebuild(ctx context.Context, workplaceID, periodID, actorID string) (*dto.RebuildProjectionResponse, error) {
	if s.jobs == nil {
		return nil, ErrJobsUnavailable
	}
	if _, err := s.periodRepo.FindPeriodByID(ctx, workplaceID, periodID); err != nil {
		return nil, notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "enqueue rebuild")
	}
	taskID, err := s.jobs.EnqueueRebuild(ctx, workplaceID, periodID, actorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to enqueue projection rebuild", slog.String("period_id", periodID))
		return nil, fmt.Errorf("enqueue rebuild: %w", err)
	}
	return &dto.RebuildProjectionResponse{PeriodID: periodID, Queued: true, QueuedTaskID: taskID}, nil
}

// Verify recomputes the period and diffs it against the stored rows without writing.
func (s *ledgerService) Verify(ctx context.Context, workplaceID, periodID string) (*dto.VerifyProjectionResponse, error) {
	now := s.Now()
	var diffs []domain.ProjectionDiscrepancy

	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if _, err := repos.PeriodRepo.FindPeriodByIDForUpdate(ctx, workplaceID, periodID); err != nil {
			return notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "lock period")
		}
		expected, _, err := s.recompute(ctx, repos, workplaceID, periodID, now)
		if err != nil {
			return err
		}
		actual, err := repos.LedgerRepo.ListLedgerEntries(ctx, workplaceID, periodID)
		if err != nil {
			return fmt.Errorf("list projection rows: %w", err)
		}
		diffs = accounting.DiffProjection(workplaceID, periodID, expected, actual)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to verify projection", slog.String("period_id", periodID))
		return nil, passThrough(err, "verify projection")
	}

	if len(diffs) > 0 {
		s.GetLogger(ctx).Warn("Projection differs from posted lines",
			slog.String("workplace_id", workplaceID),
			slog.String("period_id", periodID),
			slog.Int("discrepancies", len(diffs)))
	}
	resp := dto.ToVerifyProjectionResponse(workplaceID, periodID, diffs, now)
	return &resp, nil
}
