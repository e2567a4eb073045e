package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NetIncomeTransferDescription is the description of the year-end closing entry.
const NetIncomeTransferDescription = "Year-end transfer of net income to retained earnings"

// periodCloseService orchestrates the checklist-driven close of a period.
type periodCloseService struct {
	BaseService
	closeRepo     portsrepo.PeriodCloseReader
	uow           portsrepo.UnitOfWork
	periods       portssvc.PeriodLifecycleSvc
	journal       portssvc.JournalPosterSvc
	trialBalances portssvc.TrialBalanceTxSvc
	jobs          portssvc.ProjectionJobEnqueuer
}

// PeriodCloseServiceOption configures the period close service
type PeriodCloseServiceOption func(*periodCloseService)

// WithPeriodClosePublisher sets the publisher for close events.
func WithPeriodClosePublisher(p portssvc.EventPublisher) PeriodCloseServiceOption {
	return func(s *periodCloseService) {
		s.Publisher = p
	}
}

// WithCloseVerification enqueues a projection verification whenever a period closes.
func WithCloseVerification(jobs portssvc.ProjectionJobEnqueuer) PeriodCloseServiceOption {
	return func(s *periodCloseService) {
		s.jobs = jobs
	}
}

// WithPeriodCloseClock overrides the service clock.
func WithPeriodCloseClock(clock ClockFunc) PeriodCloseServiceOption {
	return func(s *periodCloseService) {
		s.Clock = clock
	}
}

// NewPeriodCloseService creates the period close orchestrator.
func NewPeriodCloseService(
	closeRepo portsrepo.PeriodCloseReader,
	uow portsrepo.UnitOfWork,
	periods portssvc.PeriodLifecycleSvc,
	journal portssvc.JournalPosterSvc,
	trialBalances portssvc.TrialBalanceTxSvc,
	options ...PeriodCloseServiceOption,
) portssvc.PeriodCloseSvcFacade {
	svc := &periodCloseService{
		closeRepo:     closeRepo,
		uow:           uow,
		periods:       periods,
		journal:       journal,
		trialBalances: trialBalances,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PeriodCloseSvcFacade = (*periodCloseService)(nil)

func (s *periodCloseService) GetClose(ctx context.Context, workplaceID, closeID string) (*domain.PeriodClose, error) {
	c, err := s.closeRepo.FindCloseByID(ctx, workplaceID, closeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find period close", slog.String("close_id", closeID))
		}
		return nil, notFoundAs(err, apperrors.CodeCloseNotFound, closeID, "get period close")
	}
	return c, nil
}

func (s *periodCloseService) GetCloseForPeriod(ctx context.Context, workplaceID, periodID string) (*domain.PeriodClose, error) {
	c, err := s.closeRepo.FindLatestCloseForPeriod(ctx, workplaceID, periodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find period close for period", slog.String("period_id", periodID))
		}
		return nil, notFoundAs(err, apperrors.CodeCloseNotFound, periodID, "get period close")
	}
	return c, nil
}

// loadCloseForUpdate reads the close to learn its period, locks the period, then locks the close.
func loadCloseForUpdate(ctx context.Context, repos portsrepo.TxRepositories, workplaceID, closeID string) (*domain.PeriodClose, *domain.AccountingPeriod, error) {
	c, err := repos.PeriodCloseRepo.FindCloseByID(ctx, workplaceID, closeID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodeCloseNotFound, closeID, "load period close")
	}
	period, err := repos.PeriodRepo.FindPeriodByIDForUpdate(ctx, workplaceID, c.PeriodID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodePeriodNotFound, c.PeriodID, "lock period")
	}
	c, err = repos.PeriodCloseRepo.FindCloseByIDForUpdate(ctx, workplaceID, closeID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodeCloseNotFound, closeID, "lock period close")
	}
	return c, period, nil
}

// mutate runs a checklist change on the locked close and persists it.
func (s *periodCloseService) mutate(ctx context.Context, workplaceID, closeID, op string, fn func(ctx context.Context, c *domain.PeriodClose, period *domain.AccountingPeriod, repos portsrepo.TxRepositories) error) (*domain.PeriodClose, error) {
	var out *domain.PeriodClose
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		c, period, err := loadCloseForUpdate(ctx, repos, workplaceID, closeID)
		if err != nil {
			return err
		}
		if err := fn(ctx, c, period, repos); err != nil {
			return err
		}
		if err := repos.PeriodCloseRepo.UpdateClose(ctx, *c); err != nil {
			return fmt.Errorf("update period close: %w", err)
		}
		out = c
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to "+op, slog.String("close_id", closeID))
		return nil, passThrough(err, op)
	}
	return out, nil
}

func (s *periodCloseService) StartClose(ctx context.Context, workplaceID, periodID string, req dto.StartCloseRequest, actorID string) (*domain.PeriodClose, error) {
	if !req.CloseType.IsValid() {
		return nil, fmt.Errorf("%w: unknown close type %q", apperrors.ErrValidation, req.CloseType)
	}
	now := s.Now()
	var started domain.PeriodClose
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		period, err := repos.PeriodRepo.FindPeriodByIDForUpdate(ctx, workplaceID, periodID)
		if err != nil {
			return notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "lock period")
		}
		if !req.CloseType.MatchesPeriod(period.PeriodType) {
			return apperrors.Invariant(apperrors.CodeCloseTypeMismatch, periodID,
				"a %s close cannot close a %s period", req.CloseType, period.PeriodType)
		}
		active, err := repos.PeriodCloseRepo.FindActiveCloseForPeriod(ctx, workplaceID, periodID)
		if err == nil {
			return apperrors.Conflict(apperrors.CodeDuplicateClose, active.CloseID,
				"period %s already has a close in status %s", period.Name, active.Status)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("find active close: %w", err)
		}
		if err := period.EnsureOpen(); err != nil {
			return err
		}

		started = domain.NewPeriodClose(uuid.NewString(), *period, req.CloseType, actorID, now)
		if err := repos.PeriodCloseRepo.SaveClose(ctx, started); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return apperrors.Conflict(apperrors.CodeDuplicateClose, periodID, "period %s already has an active close", period.Name).Wrap(err)
			}
			return fmt.Errorf("save period close: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to start period close", slog.String("period_id", periodID))
		return nil, passThrough(err, "start period close")
	}

	s.Publish(ctx, []domain.Event{newEvent(domain.EventPeriodCloseStarted, workplaceID, started.CloseID, now, map[string]any{
		"periodID":  periodID,
		"closeType": started.CloseType,
	})})
	s.LogInfo(ctx, "Period close started",
		slog.String("close_id", started.CloseID),
		slog.String("period_id", periodID),
		slog.String("close_type", string(started.CloseType)))
	return &started, nil
}

func (s *periodCloseService) CompleteTask(ctx context.Context, workplaceID, closeID, taskName, actorID string) (*domain.PeriodClose, error) {
	now := s.Now()
	return s.mutate(ctx, workplaceID, closeID, "complete close task", func(_ context.Context, c *domain.PeriodClose, _ *domain.AccountingPeriod, _ portsrepo.TxRepositories) error {
		return c.CompleteTask(taskName, actorID, now)
	})
}

func (s *periodCloseService) ReportValidationIssue(ctx context.Context, workplaceID, closeID string, req dto.ReportIssueRequest, actorID string) (*domain.PeriodClose, error) {
	if !req.Severity.IsValid() {
		return nil, fmt.Errorf("%w: unknown severity %q", apperrors.ErrValidation, req.Severity)
	}
	now := s.Now()
	return s.mutate(ctx, workplaceID, closeID, "report validation issue", func(_ context.Context, c *domain.PeriodClose, _ *domain.AccountingPeriod, _ portsrepo.TxRepositories) error {
		_, err := c.ReportIssue(uuid.NewString(), req.Description, req.Severity, actorID, now)
		return err
	})
}

func (s *periodCloseService) ResolveValidationIssue(ctx context.Context, workplaceID, closeID, issueID, actorID string) (*domain.PeriodClose, error) {
	now := s.Now()
	return s.mutate(ctx, workplaceID, closeID, "resolve validation issue", func(_ context.Context, c *domain.PeriodClose, _ *domain.AccountingPeriod, _ portsrepo.TxRepositories) error {
		return c.ResolveIssue(issueID, actorID, now)
	})
}

func (s *periodCloseService) AttachTrialBalance(ctx context.Context, workplaceID, closeID, actorID string) (*domain.PeriodClose, error) {
	now := s.Now()
	return s.mutate(ctx, workplaceID, closeID, "attach trial balance", func(ctx context.Context, c *domain.PeriodClose, _ *domain.AccountingPeriod, repos portsrepo.TxRepositories) error {
		if err := c.EnsureInProgress("attach a trial balance to"); err != nil {
			return err
		}
		tb, err := repos.TrialBalanceRepo.FindLatestFinalizedTrialBalance(ctx, workplaceID, c.PeriodID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Precondition(apperrors.CodeTrialBalanceNotFinalized, c.PeriodID, "the period has no finalized trial balance")
		}
		if err != nil {
			return fmt.Errorf("find finalized trial balance: %w", err)
		}
		return c.AttachTrialBalance(tb.TrialBalanceID, actorID, now)
	})
}

// closingTrialBalance returns the attached trial balance, or the latest finalized one when none is attached.
func closingTrialBalance(ctx context.Context, repos portsrepo.TxRepositories, c *domain.PeriodClose) (*domain.TrialBalance, error) {
	var (
		tb  *domain.TrialBalance
		err error
	)
	if c.TrialBalanceID != nil {
		tb, err = repos.TrialBalanceRepo.FindTrialBalanceByID(ctx, c.WorkplaceID, *c.TrialBalanceID)
	} else {
		tb, err = repos.TrialBalanceRepo.FindLatestFinalizedTrialBalance(ctx, c.WorkplaceID, c.PeriodID)
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load closing trial balance: %w", err)
	}
	return tb, nil
}

// NetIncomeTransferLines builds the closing lines that zero every revenue and expense balance of
// tb into the retained earnings account. It returns nil when there is nothing to transfer.
func NetIncomeTransferLines(tb domain.TrialBalance, retainedEarningsAccountID string) []domain.JournalEntryLine {
	var lines []domain.JournalEntryLine
	netIncome := decimal.Zero
	for _, l := range tb.Lines {
		if !l.Classification.IsTemporary() || l.Balance.IsZero() {
			continue
		}
		// Post the balance on the side opposite to the account's normal side.
		debitSide := l.Classification == domain.Revenue
		amount := l.Balance
		if amount.IsNegative() {
			debitSide = !debitSide
			amount = amount.Neg()
		}
		line := domain.JournalEntryLine{AccountID: l.AccountID, DebitAmount: decimal.Zero, CreditAmount: decimal.Zero,
			Memo: "Close " + l.AccountCode}
		if debitSide {
			line.DebitAmount = amount
		} else {
			line.CreditAmount = amount
		}
		lines = append(lines, line)

		if l.Classification == domain.Revenue {
			netIncome = netIncome.Add(l.Balance)
		} else {
			netIncome = netIncome.Sub(l.Balance)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	if !netIncome.IsZero() {
		re := domain.JournalEntryLine{AccountID: retainedEarningsAccountID, DebitAmount: decimal.Zero, CreditAmount: decimal.Zero,
			Memo: "Net income for the year"}
		if netIncome.IsPositive() {
			re.CreditAmount = netIncome
		} else {
			re.DebitAmount = netIncome.Neg()
		}
		lines = append(lines, re)
	}
	return lines
}

func retainedEarningsAccount(ctx context.Context, repos portsrepo.TxRepositories, workplaceID string, requested *string) (*domain.Account, error) {
	if requested != nil && *requested != "" {
		acc, err := repos.AccountRepo.FindAccountByID(ctx, workplaceID, *requested)
		if err != nil {
			return nil, notFoundAs(err, apperrors.CodeAccountNotFound, *requested, "load retained earnings account")
		}
		if acc.Classification != domain.Equity {
			return nil, apperrors.Invariant(apperrors.CodeNoRetainedEarningsAccount, acc.AccountID,
				"account %s is %s, retained earnings must be an equity account", acc.Code, acc.Classification)
		}
		return acc, nil
	}
	acc, err := repos.AccountRepo.FindRetainedEarningsAccount(ctx, workplaceID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Invariant(apperrors.CodeNoRetainedEarningsAccount, workplaceID,
			"the workplace has no retained earnings account and none was given")
	}
	if err != nil {
		return nil, fmt.Errorf("find retained earnings account: %w", err)
	}
	return acc, nil
}

// TransferNetIncome posts the year-end closing entry, then builds, finalizes and attaches the
// post-closing trial balance in the same unit of work.
func (s *periodCloseService) TransferNetIncome(ctx context.Context, workplaceID, closeID string, req dto.TransferNetIncomeRequest, actorID string) (*domain.PeriodClose, error) {
	now := s.Now()
	var (
		out    *domain.PeriodClose
		events []domain.Event
	)
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		c, period, err := loadCloseForUpdate(ctx, repos, workplaceID, closeID)
		if err != nil {
			return err
		}
		if err := c.EnsureInProgress("transfer net income for"); err != nil {
			return err
		}
		if c.CloseType != domain.YearEnd {
			return apperrors.Invariant(apperrors.CodeNotYearEnd, closeID, "net income is only transferred by a year-end close, this is %s", c.CloseType)
		}
		if c.NetIncomeTransferred {
			return apperrors.Conflict(apperrors.CodeNetIncomeAlreadyTransferred, closeID, "net income was already transferred")
		}
		if err := period.EnsureOpen(); err != nil {
			return err
		}

		tb, err := closingTrialBalance(ctx, repos, c)
		if err != nil {
			return err
		}
		if tb == nil || tb.Status != domain.TrialBalanceFinalized {
			return apperrors.Precondition(apperrors.CodeTrialBalanceNotFinalized, c.PeriodID, "net income transfer needs a finalized trial balance")
		}
		stale, err := s.trialBalances.IsStale(ctx, repos, *tb)
		if err != nil {
			return err
		}
		if stale {
			return apperrors.Precondition(apperrors.CodeTrialBalanceStale, tb.TrialBalanceID, "trial balance no longer matches the ledger, build and finalize a new one")
		}

		re, err := retainedEarningsAccount(ctx, repos, workplaceID, req.RetainedEarningsAccountID)
		if err != nil {
			return err
		}

		var entryID *string
		if lines := NetIncomeTransferLines(*tb, re.AccountID); lines != nil {
			entry := domain.JournalEntry{
				WorkplaceID: workplaceID,
				PeriodID:    period.PeriodID,
				EntryDate:   period.EndDate,
				Description: NetIncomeTransferDescription,
				Lines:       lines,
			}
			posted, postedEvents, err := s.journal.PostNewEntryInTx(ctx, repos, entry, actorID, now)
			if err != nil {
				return err
			}
			events = append(events, postedEvents...)
			entryID = &posted.EntryID
		}
		if err := c.RecordNetIncomeTransfer(entryID, actorID, now); err != nil {
			return err
		}

		postClosing, err := s.trialBalances.BuildInTx(ctx, repos, *period, actorID, now)
		if err != nil {
			return err
		}
		finalizeEvents, err := s.trialBalances.FinalizeInTx(ctx, repos, postClosing, actorID, now)
		if err != nil {
			return err
		}
		events = append(events, finalizeEvents...)
		if err := c.AttachTrialBalance(postClosing.TrialBalanceID, actorID, now); err != nil {
			return err
		}

		if err := repos.PeriodCloseRepo.UpdateClose(ctx, *c); err != nil {
			return fmt.Errorf("update period close: %w", err)
		}
		out = c
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to transfer net income", slog.String("close_id", closeID))
		return nil, passThrough(err, "transfer net income")
	}

	s.Publish(ctx, events)
	s.LogInfo(ctx, "Net income transferred to retained earnings",
		slog.String("close_id", closeID),
		slog.Bool("entry_posted", out.NetIncomeEntryID != nil))
	return out, nil
}

// Complete checks every gate and closes the period and the close together.
func (s *periodCloseService) Complete(ctx context.Context, workplaceID, closeID, actorID string) (*domain.PeriodClose, error) {
	now := s.Now()
	var (
		out    *domain.PeriodClose
		events []domain.Event
	)
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		c, _, err := loadCloseForUpdate(ctx, repos, workplaceID, closeID)
		if err != nil {
			return err
		}
		if err := c.CheckCompletable(); err != nil {
			return err
		}

		var tb *domain.TrialBalance
		if c.TrialBalanceID != nil {
			tb, err = repos.TrialBalanceRepo.FindTrialBalanceByID(ctx, workplaceID, *c.TrialBalanceID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("load attached trial balance: %w", err)
			}
		}
		if err := c.CheckTrialBalance(tb); err != nil {
			return err
		}
		stale, err := s.trialBalances.IsStale(ctx, repos, *tb)
		if err != nil {
			return err
		}
		if stale {
			return apperrors.Precondition(apperrors.CodeTrialBalanceStale, tb.TrialBalanceID, "trial balance no longer matches the ledger, build and finalize a new one")
		}

		_, periodEvents, err := s.periods.ClosePeriodInTx(ctx, repos, workplaceID, c.PeriodID, actorID, now)
		if err != nil {
			return err
		}
		if err := c.MarkCompleted(actorID, now); err != nil {
			return err
		}
		if err := repos.PeriodCloseRepo.UpdateClose(ctx, *c); err != nil {
			return fmt.Errorf("update period close: %w", err)
		}
		events = append(periodEvents, newEvent(domain.EventPeriodCloseCompleted, workplaceID, closeID, now, map[string]any{
			"periodID":       c.PeriodID,
			"trialBalanceID": tb.TrialBalanceID,
		}))
		out = c
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to complete period close", slog.String("close_id", closeID))
		return nil, passThrough(err, "complete period close")
	}

	s.Publish(ctx, events)
	if s.jobs != nil {
		if _, err := s.jobs.EnqueueVerify(context.WithoutCancel(ctx), workplaceID, out.PeriodID); err != nil {
			s.LogError(ctx, err, "Failed to enqueue projection verification", slog.String("period_id", out.PeriodID))
		}
	}
	s.LogInfo(ctx, "Period close completed",
		slog.String("close_id", closeID),
		slog.String("period_id", out.PeriodID))
	return out, nil
}

// Reopen moves a completed close to Reopened and reopens its period.
func (s *periodCloseService) Reopen(ctx context.Context, workplaceID, closeID, actorID string) (*domain.PeriodClose, error) {
	now := s.Now()
	var (
		out    *domain.PeriodClose
		events []domain.Event
	)
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		c, _, err := loadCloseForUpdate(ctx, repos, workplaceID, closeID)
		if err != nil {
			return err
		}
		if err := c.MarkReopened(actorID, now); err != nil {
			return err
		}
		_, periodEvents, err := s.periods.ReopenPeriodInTx(ctx, repos, workplaceID, c.PeriodID, actorID, now)
		if err != nil {
			return err
		}
		if err := repos.PeriodCloseRepo.UpdateClose(ctx, *c); err != nil {
			return fmt.Errorf("update period close: %w", err)
		}
		events = append(periodEvents, newEvent(domain.EventPeriodCloseReopened, workplaceID, closeID, now, map[string]any{
			"periodID": c.PeriodID,
		}))
		out = c
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reopen period close", slog.String("close_id", closeID))
		return nil, passThrough(err, "reopen period close")
	}

	s.Publish(ctx, events)
	s.LogInfo(ctx, "Period close reopened",
		slog.String("close_id", closeID),
		slog.String("period_id", out.PeriodID))
	return out, nil
}

// Resume returns a reopened close to InProgress with a fresh checklist.
func (s *periodCloseService) Resume(ctx context.Context, workplaceID, closeID, actorID string) (*domain.PeriodClose, error) {
	now := s.Now()
	return s.mutate(ctx, workplaceID, closeID, "resume period close", func(ctx context.Context, c *domain.PeriodClose, _ *domain.AccountingPeriod, repos portsrepo.TxRepositories) error {
		active, err := repos.PeriodCloseRepo.FindActiveCloseForPeriod(ctx, workplaceID, c.PeriodID)
		if err == nil && active.CloseID != c.CloseID {
			return apperrors.Conflict(apperrors.CodeDuplicateClose, active.CloseID,
				"period already has another close in status %s", active.Status)
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("find active close: %w", err)
		}
		return c.Resume(actorID, now)
	})
}
