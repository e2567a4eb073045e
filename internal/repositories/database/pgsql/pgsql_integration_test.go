//go:build integration

package pgsql_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/SscSPs/general_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/general_ledger/pkg/database"
)

type PgsqlIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	dsn       string
	pool      *pgxpool.Pool
	svc       *portssvc.ServiceContainer
}

func TestPgsqlIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PgsqlIntegrationSuite))
}

func (s *PgsqlIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	s.dsn, err = container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Require().NoError(database.RunMigrations(s.dsn, database.MigrateUp, logger))

	s.pool, err = database.NewPgxPool(s.ctx, s.dsn, true)
	s.Require().NoError(err)
	s.svc = services.NewServiceContainer(config.Default(), pgsql.NewRepositoryProvider(s.pool), services.ContainerDeps{})
}

func (s *PgsqlIntegrationSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
	if s.container != nil {
		s.NoError(s.container.Terminate(s.ctx))
	}
}

type chart struct {
	workplaceID string
	cash        *domain.Account
	revenue     *domain.Account
	retained    *domain.Account
	january     *domain.AccountingPeriod
}

// newWorkplace isolates each test in its own tenant.
func (s *PgsqlIntegrationSuite) newWorkplace() chart {
	c := chart{workplaceID: uuid.NewString()}
	create := func(code, name string, class domain.AccountClassification, retained bool) *domain.Account {
		acc, err := s.svc.Account.CreateAccount(s.ctx, c.workplaceID, dto.CreateAccountRequest{
			Code: code, Name: name, Classification: class, IsRetainedEarnings: retained,
		}, "tester")
		s.Require().NoError(err)
		return acc
	}
	c.cash = create("1000", "Cash", domain.Asset, false)
	c.retained = create("3100", "Retained earnings", domain.Equity, true)
	c.revenue = create("4000", "Sales", domain.Revenue, false)

	var err error
	c.january, err = s.svc.Period.OpenPeriod(s.ctx, c.workplaceID, dto.OpenPeriodRequest{
		Name:       "2024-01",
		PeriodType: domain.PeriodMonth,
		FiscalYear: 2024,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}, "tester")
	s.Require().NoError(err)
	return c
}

func (s *PgsqlIntegrationSuite) post(c chart, amt string) *domain.JournalEntry {
	entry, err := s.svc.Journal.CreateDraft(s.ctx, c.workplaceID, dto.CreateJournalEntryRequest{
		PeriodID:    c.january.PeriodID,
		EntryDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "cash sale",
		Lines: []dto.JournalLineRequest{
			{AccountID: c.cash.AccountID, DebitAmount: decimal.RequireFromString(amt), CreditAmount: decimal.Zero},
			{AccountID: c.revenue.AccountID, DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString(amt)},
		},
	}, "tester")
	s.Require().NoError(err)
	posted, err := s.svc.Journal.Post(s.ctx, c.workplaceID, entry.EntryID, "tester")
	s.Require().NoError(err)
	return posted
}

func (s *PgsqlIntegrationSuite) TestMigrationsAreIdempotent() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.NoError(database.RunMigrations(s.dsn, database.MigrateUp, logger))
}

func (s *PgsqlIntegrationSuite) TestDuplicateAccountCode() {
	c := s.newWorkplace()
	_, err := s.svc.Account.CreateAccount(s.ctx, c.workplaceID, dto.CreateAccountRequest{
		Code: "1000", Name: "Petty cash", Classification: domain.Asset,
	}, "tester")
	s.ErrorIs(err, apperrors.ErrConflict)
	s.ErrorIs(err, apperrors.CodeDuplicateAccountCode)
}

func (s *PgsqlIntegrationSuite) TestPostReverseAndProjection() {
	c := s.newWorkplace()
	entry := s.post(c, "250.00")
	s.post(c, "50.00")

	bal, err := s.svc.Ledger.GetBalance(s.ctx, c.workplaceID, c.cash.AccountID, c.january.PeriodID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("300").Equal(bal.Balance), bal.Balance.String())

	_, err = s.svc.Journal.Reverse(s.ctx, c.workplaceID, entry.EntryID, dto.ReverseJournalEntryRequest{}, "tester")
	s.Require().NoError(err)

	bal, err = s.svc.Ledger.GetBalance(s.ctx, c.workplaceID, c.cash.AccountID, c.january.PeriodID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("50").Equal(bal.Balance), bal.Balance.String())

	verify, err := s.svc.Ledger.Verify(s.ctx, c.workplaceID, c.january.PeriodID)
	s.Require().NoError(err)
	s.True(verify.Consistent, "%+v", verify.Discrepancies)

	rebuilt, err := s.svc.Ledger.Rebuild(s.ctx, c.workplaceID, c.january.PeriodID, "tester")
	s.Require().NoError(err)
	s.Equal(2, rebuilt.Rows)
}

func (s *PgsqlIntegrationSuite) TestConcurrentPostsKeepBalancesExact() {
	c := s.newWorkplace()
	const writers = 8

	g, _ := errgroup.WithContext(s.ctx)
	for i := 0; i < writers; i++ {
		amt := fmt.Sprintf("%d.25", i+1)
		g.Go(func() error {
			entry, err := s.svc.Journal.CreateDraft(s.ctx, c.workplaceID, dto.CreateJournalEntryRequest{
				PeriodID:  c.january.PeriodID,
				EntryDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
				Lines: []dto.JournalLineRequest{
					{AccountID: c.cash.AccountID, DebitAmount: decimal.RequireFromString(amt), CreditAmount: decimal.Zero},
					{AccountID: c.revenue.AccountID, DebitAmount: decimal.Zero, CreditAmount: decimal.RequireFromString(amt)},
				},
			}, "tester")
			if err != nil {
				return err
			}
			_, err = s.svc.Journal.Post(s.ctx, c.workplaceID, entry.EntryID, "tester")
			return err
		})
	}
	s.Require().NoError(g.Wait())

	// 1.25 + 2.25 + ... + 8.25
	bal, err := s.svc.Ledger.GetBalance(s.ctx, c.workplaceID, c.cash.AccountID, c.january.PeriodID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("38").Equal(bal.Balance), bal.Balance.String())

	verify, err := s.svc.Ledger.Verify(s.ctx, c.workplaceID, c.january.PeriodID)
	s.Require().NoError(err)
	s.True(verify.Consistent)
}

func (s *PgsqlIntegrationSuite) TestMonthEndClose() {
	c := s.newWorkplace()
	s.post(c, "100")

	pc, err := s.svc.PeriodClose.StartClose(s.ctx, c.workplaceID, c.january.PeriodID,
		dto.StartCloseRequest{CloseType: domain.MonthEnd}, "tester")
	s.Require().NoError(err)

	for _, t := range pc.Tasks {
		if !t.IsManual {
			continue
		}
		pc, err = s.svc.PeriodClose.CompleteTask(s.ctx, c.workplaceID, pc.CloseID, t.Name, "tester")
		s.Require().NoError(err)
	}

	tb, err := s.svc.TrialBalance.Build(s.ctx, c.workplaceID, c.january.PeriodID, "tester")
	s.Require().NoError(err)
	s.True(tb.TotalDebit.Equal(tb.TotalCredit))
	_, err = s.svc.TrialBalance.Finalize(s.ctx, c.workplaceID, tb.TrialBalanceID, "tester")
	s.Require().NoError(err)

	pc, err = s.svc.PeriodClose.AttachTrialBalance(s.ctx, c.workplaceID, pc.CloseID, "tester")
	s.Require().NoError(err)
	pc, err = s.svc.PeriodClose.Complete(s.ctx, c.workplaceID, pc.CloseID, "tester")
	s.Require().NoError(err)
	s.Equal(domain.CloseCompleted, pc.Status)

	reloaded, err := s.svc.PeriodClose.GetClose(s.ctx, c.workplaceID, pc.CloseID)
	s.Require().NoError(err)
	s.Len(reloaded.Tasks, len(pc.Tasks))

	period, err := s.svc.Period.GetPeriod(s.ctx, c.workplaceID, c.january.PeriodID)
	s.Require().NoError(err)
	s.Equal(domain.PeriodClosed, period.Status)
}
