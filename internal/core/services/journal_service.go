package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
	"github.com/google/uuid"
)

// journalService owns journal entries: drafts, posting and reversal.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalReader
	uow         portsrepo.UnitOfWork
	ledger      portssvc.LedgerApplierSvc
}

// JournalServiceOption configures the journal service
type JournalServiceOption func(*journalService)

// WithJournalPublisher sets the publisher for posting events.
func WithJournalPublisher(p portssvc.EventPublisher) JournalServiceOption {
	return func(s *journalService) {
		s.Publisher = p
	}
}

// WithJournalClock overrides the service clock.
func WithJournalClock(clock ClockFunc) JournalServiceOption {
	return func(s *journalService) {
		s.Clock = clock
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalReader, uow portsrepo.UnitOfWork, ledger portssvc.LedgerApplierSvc, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		uow:         uow,
		ledger:      ledger,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func linesFromRequest(reqs []dto.JournalLineRequest) []domain.JournalEntryLine {
	lines := make([]domain.JournalEntryLine, len(reqs))
	for i, r := range reqs {
		lines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			AccountID:    r.AccountID,
			DebitAmount:  r.DebitAmount,
			CreditAmount: r.CreditAmount,
			Memo:         r.Memo,
		}
	}
	return lines
}

// lockOpenPeriod takes the period row lock and applies the posting gate.
func lockOpenPeriod(ctx context.Context, periods portsrepo.PeriodReader, workplaceID, periodID string) (*domain.AccountingPeriod, error) {
	period, err := periods.FindPeriodByIDForUpdate(ctx, workplaceID, periodID)
	if err != nil {
		return nil, notFoundAs(err, apperrors.CodePeriodNotFound, periodID, "lock period")
	}
	if err := period.EnsureOpen(); err != nil {
		return nil, err
	}
	return period, nil
}

func ensureDateInPeriod(period *domain.AccountingPeriod, date time.Time) error {
	if !period.Contains(date) {
		return apperrors.Invariant(apperrors.CodeEntryDateOutsidePeriod, period.PeriodID,
			"entry date %s is outside period %s (%s to %s)", date.Format(time.DateOnly), period.Name,
			period.StartDate.Format(time.DateOnly), period.EndDate.Format(time.DateOnly))
	}
	return nil
}

// ensureNoClosedFinerPeriod rejects a date that a closed, finer-grained period covers, so a
// closed Month cannot be reached through its open Quarter or Year.
func ensureNoClosedFinerPeriod(ctx context.Context, periods portsrepo.PeriodReader, period *domain.AccountingPeriod, date time.Time) error {
	candidates, err := periods.FindPeriodsContainingDate(ctx, period.WorkplaceID, date)
	if err != nil {
		return fmt.Errorf("find periods for %s: %w", date.Format(time.DateOnly), err)
	}
	if closed, ok := domain.ClosedFinerPeriod(*period, candidates); ok {
		return apperrors.Invariant(apperrors.CodePeriodClosed, closed.PeriodID,
			"entry date %s falls in closed period %s", date.Format(time.DateOnly), closed.Name)
	}
	return nil
}

// ensureAccountsUsable checks that every referenced account exists in the workplace and is active.
func ensureAccountsUsable(ctx context.Context, accounts portsrepo.AccountReader, workplaceID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := accounts.FindAccountsByIDs(ctx, workplaceID, ids)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	for _, id := range ids {
		a, ok := found[id]
		if !ok {
			return apperrors.NotFound(apperrors.CodeAccountNotFound, id, "account %s not found", id)
		}
		if err := a.EnsureActive(); err != nil {
			return err
		}
	}
	return nil
}

// loadEntryForUpdate reads the entry to learn its period, locks the period and then the entry.
// Period first, then entry: every mutation takes locks in that order.
func loadEntryForUpdate(ctx context.Context, repos portsrepo.TxRepositories, workplaceID, entryID string) (*domain.JournalEntry, *domain.AccountingPeriod, error) {
	entry, err := repos.JournalRepo.FindEntryByID(ctx, workplaceID, entryID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodeEntryNotFound, entryID, "load journal entry")
	}
	period, err := lockOpenPeriod(ctx, repos.PeriodRepo, workplaceID, entry.PeriodID)
	if err != nil {
		return nil, nil, err
	}
	entry, err = repos.JournalRepo.FindEntryByIDForUpdate(ctx, workplaceID, entryID)
	if err != nil {
		return nil, nil, notFoundAs(err, apperrors.CodeEntryNotFound, entryID, "lock journal entry")
	}
	return entry, period, nil
}

func (s *journalService) GetEntry(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, workplaceID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, notFoundAs(err, apperrors.CodeEntryNotFound, entryID, "get journal entry")
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, workplaceID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var cursor *domain.EntryCursor
	if params.NextToken != nil && *params.NextToken != "" {
		date, id, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &domain.EntryCursor{EntryDate: date, EntryID: id}
	}

	filter := domain.EntryFilter{PeriodID: params.PeriodID, Status: params.Status}
	entries, err := s.journalRepo.ListEntries(ctx, workplaceID, filter, limit+1, cursor)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("workplace_id", workplaceID))
		return nil, fmt.Errorf("list journal entries: %w", err)
	}

	resp := &dto.ListJournalEntriesResponse{Entries: make([]dto.JournalEntryResponse, 0, len(entries))}
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.EntryID)
		resp.NextToken = &token
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToJournalEntryResponse(&entries[i]))
	}
	return resp, nil
}

func (s *journalService) CreateDraft(ctx context.Context, workplaceID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	now := s.Now()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		WorkplaceID: workplaceID,
		PeriodID:    req.PeriodID,
		EntryDate:   domain.NormalizeDate(req.EntryDate),
		Description: req.Description,
		Reference:   req.Reference,
		Status:      domain.Draft,
		AuditFields: domain.NewAuditFields(actorID, now),
	}
	if err := entry.ReplaceLines(linesFromRequest(req.Lines)); err != nil {
		return nil, err
	}

	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		period, err := lockOpenPeriod(ctx, repos.PeriodRepo, workplaceID, req.PeriodID)
		if err != nil {
			return err
		}
		if err := ensureDateInPeriod(period, entry.EntryDate); err != nil {
			return err
		}
		if err := ensureNoClosedFinerPeriod(ctx, repos.PeriodRepo, period, entry.EntryDate); err != nil {
			return err
		}
		if err := ensureAccountsUsable(ctx, repos.AccountRepo, workplaceID, entry.AccountIDs()); err != nil {
			return err
		}
		if err := repos.JournalRepo.SaveEntry(ctx, entry); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) && entry.Reference != nil {
				return apperrors.Conflict(apperrors.CodeDuplicateReference, *entry.Reference,
					"reference %s is already used by another journal entry", *entry.Reference).Wrap(err)
			}
			return fmt.Errorf("save journal entry: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create draft journal entry",
			slog.String("workplace_id", workplaceID),
			slog.String("period_id", req.PeriodID))
		return nil, passThrough(err, "create draft")
	}

	s.LogInfo(ctx, "Draft journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("workplace_id", workplaceID),
		slog.Int("lines", len(entry.Lines)))
	return &entry, nil
}

func (s *journalService) UpdateDraft(ctx context.Context, workplaceID, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	var updated *domain.JournalEntry
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		entry, period, err := loadEntryForUpdate(ctx, repos, workplaceID, entryID)
		if err != nil {
			return err
		}
		if err := entry.EnsureDraft(); err != nil {
			return err
		}
		if req.EntryDate != nil {
			entry.EntryDate = domain.NormalizeDate(*req.EntryDate)
		}
		if err := ensureDateInPeriod(period, entry.EntryDate); err != nil {
			return err
		}
		if err := ensureNoClosedFinerPeriod(ctx, repos.PeriodRepo, period, entry.EntryDate); err != nil {
			return err
		}
		if req.Description != nil {
			entry.Description = *req.Description
		}
		if err := entry.ReplaceLines(linesFromRequest(req.Lines)); err != nil {
			return err
		}
		if err := ensureAccountsUsable(ctx, repos.AccountRepo, workplaceID, entry.AccountIDs()); err != nil {
			return err
		}
		entry.Touch(actorID, s.Now())
		if err := repos.JournalRepo.UpdateEntry(ctx, *entry); err != nil {
			return fmt.Errorf("update journal entry: %w", err)
		}
		updated = entry
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update draft journal entry", slog.String("entry_id", entryID))
		return nil, passThrough(err, "update draft")
	}

	s.LogInfo(ctx, "Draft journal entry updated", slog.String("entry_id", entryID))
	return updated, nil
}

func (s *journalService) DeleteDraft(ctx context.Context, workplaceID, entryID, actorID string) error {
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		entry, _, err := loadEntryForUpdate(ctx, repos, workplaceID, entryID)
		if err != nil {
			return err
		}
		if err := entry.EnsureDraft(); err != nil {
			return err
		}
		return repos.JournalRepo.DeleteEntry(ctx, workplaceID, entryID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete draft journal entry", slog.String("entry_id", entryID))
		return passThrough(err, "delete draft")
	}

	s.LogInfo(ctx, "Draft journal entry deleted",
		slog.String("entry_id", entryID),
		slog.String("actor_id", actorID))
	return nil
}

// Post validates and posts a draft and applies it to the projection in the same unit of work.
func (s *journalService) Post(ctx context.Context, workplaceID, entryID, actorID string) (*domain.JournalEntry, error) {
	now := s.Now()
	var posted *domain.JournalEntry
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		entry, period, err := loadEntryForUpdate(ctx, repos, workplaceID, entryID)
		if err != nil {
			return err
		}
		if err := entry.EnsureDraft(); err != nil {
			return err
		}
		if err := ensureNoClosedFinerPeriod(ctx, repos.PeriodRepo, period, entry.EntryDate); err != nil {
			return err
		}
		if err := entry.CheckBalanced(); err != nil {
			return err
		}
		if err := ensureAccountsUsable(ctx, repos.AccountRepo, workplaceID, entry.AccountIDs()); err != nil {
			return err
		}
		if err := entry.MarkPosted(actorID, now); err != nil {
			return err
		}
		if err := repos.JournalRepo.UpdateEntry(ctx, *entry); err != nil {
			return fmt.Errorf("update journal entry: %w", err)
		}
		if err := s.ledger.ApplyPostingInTx(ctx, repos, *entry, now); err != nil {
			return err
		}
		posted = entry
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		return nil, passThrough(err, "post journal entry")
	}

	s.Publish(ctx, []domain.Event{postedEvent(*posted, now)})
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("period_id", posted.PeriodID),
		slog.String("workplace_id", workplaceID))
	return posted, nil
}

func postedEvent(e domain.JournalEntry, at time.Time) domain.Event {
	debit, _ := e.Totals()
	payload := map[string]any{
		"periodID": e.PeriodID,
		"amount":   debit.String(),
		"lines":    len(e.Lines),
	}
	if e.ReversalOfEntryID != nil {
		payload["reversalOfEntryID"] = *e.ReversalOfEntryID
	}
	return newEvent(domain.EventJournalEntryPosted, e.WorkplaceID, e.EntryID, at, payload)
}

// PostNewEntryInTx saves entry directly as Posted. It is used for system entries such as the
// year-end net income transfer; the caller's unit of work provides atomicity. Closed finer
// periods are not checked: the transfer is dated on the year's last day, inside a closed December.
func (s *journalService) PostNewEntryInTx(ctx context.Context, repos portsrepo.TxRepositories, entry domain.JournalEntry, actorID string, at time.Time) (*domain.JournalEntry, []domain.Event, error) {
	period, err := lockOpenPeriod(ctx, repos.PeriodRepo, entry.WorkplaceID, entry.PeriodID)
	if err != nil {
		return nil, nil, err
	}
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	entry.EntryDate = domain.NormalizeDate(entry.EntryDate)
	if err := ensureDateInPeriod(period, entry.EntryDate); err != nil {
		return nil, nil, err
	}
	entry.Status = domain.Draft
	entry.AuditFields = domain.NewAuditFields(actorID, at)
	for i := range entry.Lines {
		if entry.Lines[i].LineID == "" {
			entry.Lines[i].LineID = uuid.NewString()
		}
	}
	if err := entry.ReplaceLines(entry.Lines); err != nil {
		return nil, nil, err
	}
	if err := ensureAccountsUsable(ctx, repos.AccountRepo, entry.WorkplaceID, entry.AccountIDs()); err != nil {
		return nil, nil, err
	}
	if err := entry.MarkPosted(actorID, at); err != nil {
		return nil, nil, err
	}
	if err := repos.JournalRepo.SaveEntry(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("save journal entry: %w", err)
	}
	if err := s.ledger.ApplyPostingInTx(ctx, repos, entry, at); err != nil {
		return nil, nil, err
	}
	return &entry, []domain.Event{postedEvent(entry, at)}, nil
}

// Reverse posts a linked entry with every line swapped and marks the original Reversed.
// The reversal date defaults to the original entry date and resolves to its finest-grained
// covering period; that period and the original's must both be open.
func (s *journalService) Reverse(ctx context.Context, workplaceID, entryID string, req dto.ReverseJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	now := s.Now()
	var original, reversal *domain.JournalEntry
	err := s.uow.WithinTx(ctx, workplaceID, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		orig, err := repos.JournalRepo.FindEntryByID(ctx, workplaceID, entryID)
		if err != nil {
			return notFoundAs(err, apperrors.CodeEntryNotFound, entryID, "load journal entry")
		}
		if err := orig.EnsureReversible(); err != nil {
			return err
		}

		date := orig.EntryDate
		if req.ReversalDate != nil {
			date = domain.NormalizeDate(*req.ReversalDate)
		}
		candidates, err := repos.PeriodRepo.FindPeriodsContainingDate(ctx, workplaceID, date)
		if err != nil {
			return fmt.Errorf("find reversal period: %w", err)
		}
		target, ok := domain.PreferredPeriod(candidates)
		if !ok {
			return apperrors.NotFound(apperrors.CodePeriodNotFound, "", "no accounting period covers reversal date %s", date.Format(time.DateOnly))
		}

		// Lock both periods in id order so concurrent reversals cannot deadlock.
		periodIDs := []string{orig.PeriodID}
		if target.PeriodID != orig.PeriodID {
			periodIDs = append(periodIDs, target.PeriodID)
		}
		sort.Strings(periodIDs)
		locked := make(map[string]*domain.AccountingPeriod, len(periodIDs))
		for _, id := range periodIDs {
			p, err := lockOpenPeriod(ctx, repos.PeriodRepo, workplaceID, id)
			if err != nil {
				return err
			}
			locked[id] = p
		}

		orig, err = repos.JournalRepo.FindEntryByIDForUpdate(ctx, workplaceID, entryID)
		if err != nil {
			return notFoundAs(err, apperrors.CodeEntryNotFound, entryID, "lock journal entry")
		}
		if err := orig.EnsureReversible(); err != nil {
			return err
		}

		rev := orig.NewReversal(uuid.NewString(), uuid.NewString, *locked[target.PeriodID], date, actorID, now)
		if err := rev.CheckBalanced(); err != nil {
			return err
		}
		if err := repos.JournalRepo.SaveEntry(ctx, rev); err != nil {
			return fmt.Errorf("save reversing entry: %w", err)
		}
		if err := orig.MarkReversed(rev.EntryID, actorID, now); err != nil {
			return err
		}
		if err := repos.JournalRepo.UpdateEntry(ctx, *orig); err != nil {
			return fmt.Errorf("update reversed entry: %w", err)
		}
		if err := s.ledger.ApplyPostingInTx(ctx, repos, rev, now); err != nil {
			return err
		}
		original, reversal = orig, &rev
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
		return nil, passThrough(err, "reverse journal entry")
	}

	s.Publish(ctx, []domain.Event{
		postedEvent(*reversal, now),
		newEvent(domain.EventJournalEntryReversed, workplaceID, original.EntryID, now, map[string]any{
			"reversedByEntryID": reversal.EntryID,
			"periodID":          reversal.PeriodID,
		}),
	})
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversing_entry_id", reversal.EntryID),
		slog.String("workplace_id", workplaceID))
	return reversal, nil
}
