package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finalizedTB(t *testing.T) *domain.TrialBalance {
	t.Helper()
	tb := domain.NewTrialBalance("tb-1", "wp", "p", []domain.TrialBalanceLine{
		tbLine("cash", "1000", domain.Asset, "100", "0"),
		tbLine("rev", "4000", domain.Revenue, "0", "100"),
	}, tolerance, "u", time.Now())
	require.NoError(t, tb.Finalize(tolerance, "u", time.Now()))
	return &tb
}

func TestSeedChecklist(t *testing.T) {
	assert.Len(t, domain.SeedChecklist(domain.MonthEnd), 4)
	assert.Len(t, domain.SeedChecklist(domain.QuarterEnd), 5)

	yearEnd := domain.SeedChecklist(domain.YearEnd)
	require.Len(t, yearEnd, 6)
	last := yearEnd[len(yearEnd)-1]
	assert.Equal(t, domain.TaskTransferNetIncome, last.Name)
	assert.True(t, last.IsRequired)
	assert.False(t, last.IsManual)
}

func TestCloseType_MatchesPeriod(t *testing.T) {
	assert.True(t, domain.MonthEnd.MatchesPeriod(domain.PeriodMonth))
	assert.True(t, domain.YearEnd.MatchesPeriod(domain.PeriodYear))
	assert.False(t, domain.YearEnd.MatchesPeriod(domain.PeriodMonth))
	assert.False(t, domain.QuarterEnd.MatchesPeriod(domain.PeriodYear))
}

func TestPeriodClose_CompletionGates(t *testing.T) {
	at := time.Now()
	p := domain.AccountingPeriod{PeriodID: "p", WorkplaceID: "wp", PeriodType: domain.PeriodMonth}
	c := domain.NewPeriodClose("c-1", p, domain.MonthEnd, "u", at)

	err := c.CheckCompletable()
	require.ErrorIs(t, err, apperrors.CodePendingTasks)
	le, _ := apperrors.AsLedgerError(err)
	assert.Equal(t, 3, *le.Count)

	for _, name := range []string{domain.TaskReconcileBankAccounts, domain.TaskReviewAccruals, domain.TaskReviewSubledgers} {
		require.NoError(t, c.CompleteTask(name, "u", at))
	}
	assert.ErrorIs(t, c.CompleteTask("nope", "u", at), apperrors.CodeTaskNotFound)

	issue, err := c.ReportIssue("i-1", "suspense account not cleared", domain.SeverityCritical, "u", at)
	require.NoError(t, err)
	_, err = c.ReportIssue("i-2", "rounding", domain.SeverityWarning, "u", at)
	require.NoError(t, err)
	assert.ErrorIs(t, c.CheckCompletable(), apperrors.CodeUnresolvedCriticalIssues)

	require.NoError(t, c.ResolveIssue(issue.IssueID, "u", at))
	assert.ErrorIs(t, c.ResolveIssue("missing", "u", at), apperrors.CodeIssueNotFound)
	require.NoError(t, c.CheckCompletable())

	assert.ErrorIs(t, c.CheckTrialBalance(nil), apperrors.CodeTrialBalanceNotBalanced)
	require.NoError(t, c.CheckTrialBalance(finalizedTB(t)))

	require.NoError(t, c.MarkCompleted("u", at))
	assert.ErrorIs(t, c.CompleteTask(domain.TaskReviewVariances, "u", at), apperrors.CodeInvalidCloseTransition)
	assert.ErrorIs(t, c.Resume("u", at), apperrors.CodeInvalidCloseTransition)
}

func TestPeriodClose_YearEndNeedsTransfer(t *testing.T) {
	at := time.Now()
	p := domain.AccountingPeriod{PeriodID: "fy", WorkplaceID: "wp", PeriodType: domain.PeriodYear}
	c := domain.NewPeriodClose("c-1", p, domain.YearEnd, "u", at)
	for _, task := range c.Tasks {
		if task.IsManual {
			require.NoError(t, c.CompleteTask(task.Name, "u", at))
		}
	}
	assert.ErrorIs(t, c.CompleteTask(domain.TaskTransferNetIncome, "u", at), apperrors.CodeTaskNotManual)

	require.NoError(t, c.CheckCompletable())
	err := c.CheckTrialBalance(finalizedTB(t))
	require.ErrorIs(t, err, apperrors.CodeNetIncomeNotTransferred)

	entryID := "je-close"
	require.NoError(t, c.RecordNetIncomeTransfer(&entryID, "u", at))
	assert.ErrorIs(t, c.RecordNetIncomeTransfer(&entryID, "u", at), apperrors.CodeNetIncomeAlreadyTransferred)
	assert.NoError(t, c.CheckTrialBalance(finalizedTB(t)))
}

func TestPeriodClose_RecordTransferRequiresYearEnd(t *testing.T) {
	p := domain.AccountingPeriod{PeriodID: "p", WorkplaceID: "wp", PeriodType: domain.PeriodMonth}
	c := domain.NewPeriodClose("c-1", p, domain.MonthEnd, "u", time.Now())
	assert.ErrorIs(t, c.RecordNetIncomeTransfer(nil, "u", time.Now()), apperrors.CodeNotYearEnd)
}

func TestPeriodClose_ReopenResume(t *testing.T) {
	at := time.Now()
	p := domain.AccountingPeriod{PeriodID: "fy", WorkplaceID: "wp", PeriodType: domain.PeriodYear}
	c := domain.NewPeriodClose("c-1", p, domain.YearEnd, "u", at)
	require.NoError(t, c.RecordNetIncomeTransfer(nil, "u", at))
	require.NoError(t, c.AttachTrialBalance("tb-1", "u", at))

	assert.ErrorIs(t, c.MarkReopened("u", at), apperrors.CodeInvalidCloseTransition)
	require.NoError(t, c.MarkCompleted("u", at))
	require.NoError(t, c.MarkReopened("u", at))
	assert.Equal(t, domain.CloseReopened, c.Status)
	assert.False(t, c.Status.IsActive())

	require.NoError(t, c.Resume("u", at))
	assert.Equal(t, domain.CloseInProgress, c.Status)
	assert.False(t, c.NetIncomeTransferred)
	assert.Nil(t, c.TrialBalanceID)
	for _, task := range c.Tasks {
		assert.False(t, task.IsComplete)
	}
}
