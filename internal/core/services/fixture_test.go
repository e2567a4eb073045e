package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/SscSPs/general_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// recordingJobs stands in for the background queue.
type recordingJobs struct {
	mu       sync.Mutex
	rebuilds []string
	verifies []string
}

func (j *recordingJobs) EnqueueRebuild(_ context.Context, _, periodID, _ string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rebuilds = append(j.rebuilds, periodID)
	return "task-rebuild-" + periodID, nil
}

func (j *recordingJobs) EnqueueVerify(_ context.Context, _, periodID string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.verifies = append(j.verifies, periodID)
	return "task-verify-" + periodID, nil
}

// ledgerFixture is a workplace with a small chart of accounts on the in-memory store.
type ledgerFixture struct {
	suite.Suite
	ctx         context.Context
	repos       portsrepo.RepositoryProvider
	svc         *portssvc.ServiceContainer
	publisher   *recordingPublisher
	jobs        *recordingJobs
	workplaceID string
	actorID     string
	now         time.Time

	cash     *domain.Account
	payables *domain.Account
	revenue  *domain.Account
	expense  *domain.Account
	retained *domain.Account
}

func (f *ledgerFixture) SetupTest() {
	f.ctx = context.Background()
	f.repos = memory.NewRepositoryProvider()
	f.publisher = &recordingPublisher{}
	f.jobs = &recordingJobs{}
	f.workplaceID = "wp-1"
	f.actorID = "user-1"
	f.now = time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC)
	f.svc = services.NewServiceContainer(config.Default(), f.repos, services.ContainerDeps{
		Publisher: f.publisher,
		Jobs:      f.jobs,
		Clock:     func() time.Time { return f.now },
	})

	f.cash = f.createAccount("1000", "Cash", domain.Asset, false)
	f.payables = f.createAccount("2000", "Accounts payable", domain.Liability, false)
	f.retained = f.createAccount("3100", "Retained earnings", domain.Equity, true)
	f.revenue = f.createAccount("4000", "Sales", domain.Revenue, false)
	f.expense = f.createAccount("5000", "Rent", domain.Expense, false)
}

func (f *ledgerFixture) createAccount(code, name string, class domain.AccountClassification, retained bool) *domain.Account {
	acc, err := f.svc.Account.CreateAccount(f.ctx, f.workplaceID, dto.CreateAccountRequest{
		Code:               code,
		Name:               name,
		Classification:     class,
		IsRetainedEarnings: retained,
	}, f.actorID)
	f.Require().NoError(err)
	return acc
}

func (f *ledgerFixture) openPeriod(name string, pt domain.PeriodType, start, end time.Time) *domain.AccountingPeriod {
	p, err := f.svc.Period.OpenPeriod(f.ctx, f.workplaceID, dto.OpenPeriodRequest{
		Name:       name,
		PeriodType: pt,
		FiscalYear: start.Year(),
		StartDate:  start,
		EndDate:    end,
	}, f.actorID)
	f.Require().NoError(err)
	return p
}

func (f *ledgerFixture) openJanuary() *domain.AccountingPeriod {
	return f.openPeriod("2024-01", domain.PeriodMonth, date(2024, 1, 1), date(2024, 1, 31))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debit(accountID, amt string) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, DebitAmount: amount(amt), CreditAmount: decimal.Zero}
}

func credit(accountID, amt string) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, DebitAmount: decimal.Zero, CreditAmount: amount(amt)}
}

func (f *ledgerFixture) draft(periodID string, on time.Time, lines ...dto.JournalLineRequest) *domain.JournalEntry {
	entry, err := f.svc.Journal.CreateDraft(f.ctx, f.workplaceID, dto.CreateJournalEntryRequest{
		PeriodID:    periodID,
		EntryDate:   on,
		Description: "test entry",
		Lines:       lines,
	}, f.actorID)
	f.Require().NoError(err)
	return entry
}

func (f *ledgerFixture) post(periodID string, on time.Time, lines ...dto.JournalLineRequest) *domain.JournalEntry {
	entry := f.draft(periodID, on, lines...)
	posted, err := f.svc.Journal.Post(f.ctx, f.workplaceID, entry.EntryID, f.actorID)
	f.Require().NoError(err)
	return posted
}

func (f *ledgerFixture) balance(accountID, periodID string) domain.GeneralLedgerEntry {
	row, err := f.svc.Ledger.GetBalance(f.ctx, f.workplaceID, accountID, periodID)
	f.Require().NoError(err)
	return *row
}

func (f *ledgerFixture) finalizedTrialBalance(periodID string) *domain.TrialBalance {
	tb, err := f.svc.TrialBalance.Build(f.ctx, f.workplaceID, periodID, f.actorID)
	f.Require().NoError(err)
	tb, err = f.svc.TrialBalance.Finalize(f.ctx, f.workplaceID, tb.TrialBalanceID, f.actorID)
	f.Require().NoError(err)
	return tb
}

func (f *ledgerFixture) completeManualTasks(c *domain.PeriodClose) *domain.PeriodClose {
	for _, t := range c.Tasks {
		if !t.IsManual {
			continue
		}
		var err error
		c, err = f.svc.PeriodClose.CompleteTask(f.ctx, f.workplaceID, c.CloseID, t.Name, f.actorID)
		f.Require().NoError(err)
	}
	return c
}

// closePeriodDirectly closes a period without a close workflow.
func (f *ledgerFixture) closePeriodDirectly(periodID string) {
	err := f.repos.UnitOfWork.WithinTx(f.ctx, f.workplaceID, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		_, _, err := f.svc.Period.ClosePeriodInTx(ctx, tx, f.workplaceID, periodID, f.actorID, f.now)
		return err
	})
	f.Require().NoError(err)
}

func (f *ledgerFixture) reopenPeriodDirectly(periodID string) {
	err := f.repos.UnitOfWork.WithinTx(f.ctx, f.workplaceID, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		_, _, err := f.svc.Period.ReopenPeriodInTx(ctx, tx, f.workplaceID, periodID, f.actorID, f.now)
		return err
	})
	f.Require().NoError(err)
}
