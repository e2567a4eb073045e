package domain

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
)

// CloseType selects the checklist of a period close.
type CloseType string

const (
	MonthEnd   CloseType = "MONTH_END"
	QuarterEnd CloseType = "QUARTER_END"
	YearEnd    CloseType = "YEAR_END"
)

// IsValid reports whether t is a known close type.
func (t CloseType) IsValid() bool {
	return t == MonthEnd || t == QuarterEnd || t == YearEnd
}

// MatchesPeriod reports whether the close type fits the period's granularity.
func (t CloseType) MatchesPeriod(pt PeriodType) bool {
	switch t {
	case MonthEnd:
		return pt == PeriodMonth
	case QuarterEnd:
		return pt == PeriodQuarter
	case YearEnd:
		return pt == PeriodYear
	}
	return false
}

// CloseStatus is the state of a period close: InProgress -> Completed -> Reopened -> InProgress.
type CloseStatus string

const (
	CloseInProgress CloseStatus = "IN_PROGRESS"
	CloseCompleted  CloseStatus = "COMPLETED"
	CloseReopened   CloseStatus = "REOPENED"
)

// IsActive is true for statuses that block another close of the same period.
func (s CloseStatus) IsActive() bool {
	return s == CloseInProgress || s == CloseCompleted
}

// Severity grades a validation issue. Only Critical issues block completion.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

func (s Severity) IsValid() bool {
	return s == SeverityCritical || s == SeverityWarning || s == SeverityInfo
}

// Checklist task names.
const (
	TaskReconcileBankAccounts = "reconcile_bank_accounts"
	TaskReviewAccruals        = "review_accruals"
	TaskReviewSubledgers      = "review_subledgers"
	TaskReviewVariances       = "review_variances"
	TaskReviewTaxProvisions   = "review_tax_provisions"
	TaskTransferNetIncome     = "transfer_net_income"
)

// CloseTask is one checklist item. Automatic tasks (IsManual false) are completed by the
// orchestrator itself.
type CloseTask struct {
	Name        string     `json:"name"`
	IsRequired  bool       `json:"isRequired"`
	IsManual    bool       `json:"isManual"`
	IsComplete  bool       `json:"isComplete"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CompletedBy *string    `json:"completedBy,omitempty"`
}

// ValidationIssue is a problem found while closing a period.
type ValidationIssue struct {
	IssueID     string     `json:"issueID"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
	IsResolved  bool       `json:"isResolved"`
	ReportedAt  time.Time  `json:"reportedAt"`
	ReportedBy  string     `json:"reportedBy"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy  *string    `json:"resolvedBy,omitempty"`
}

// PeriodClose is the checklist-driven workflow that closes one accounting period.
type PeriodClose struct {
	CloseID              string            `json:"closeID"`
	WorkplaceID          string            `json:"workplaceID"`
	PeriodID             string            `json:"periodID"`
	CloseType            CloseType         `json:"closeType"`
	Status               CloseStatus       `json:"status"`
	Tasks                []CloseTask       `json:"tasks"`
	ValidationIssues     []ValidationIssue `json:"validationIssues"`
	TrialBalanceID       *string           `json:"trialBalanceID,omitempty"`
	NetIncomeTransferred bool              `json:"netIncomeTransferred"`
	NetIncomeEntryID     *string           `json:"netIncomeEntryID,omitempty"`
	CompletedAt          *time.Time        `json:"completedAt,omitempty"`
	CompletedBy          *string           `json:"completedBy,omitempty"`
	ReopenedAt           *time.Time        `json:"reopenedAt,omitempty"`
	ReopenedBy           *string           `json:"reopenedBy,omitempty"`
	AuditFields
}

// SeedChecklist returns a fresh, all-incomplete checklist for the close type.
func SeedChecklist(t CloseType) []CloseTask {
	tasks := []CloseTask{
		{Name: TaskReconcileBankAccounts, IsRequired: true, IsManual: true},
		{Name: TaskReviewAccruals, IsRequired: true, IsManual: true},
		{Name: TaskReviewSubledgers, IsRequired: true, IsManual: true},
		{Name: TaskReviewVariances, IsRequired: false, IsManual: true},
	}
	if t == QuarterEnd || t == YearEnd {
		tasks = append(tasks, CloseTask{Name: TaskReviewTaxProvisions, IsRequired: true, IsManual: true})
	}
	if t == YearEnd {
		tasks = append(tasks, CloseTask{Name: TaskTransferNetIncome, IsRequired: true, IsManual: false})
	}
	return tasks
}

// NewPeriodClose starts a close in progress with its seeded checklist.
func NewPeriodClose(id string, period AccountingPeriod, t CloseType, actorID string, at time.Time) PeriodClose {
	return PeriodClose{
		CloseID:          id,
		WorkplaceID:      period.WorkplaceID,
		PeriodID:         period.PeriodID,
		CloseType:        t,
		Status:           CloseInProgress,
		Tasks:            SeedChecklist(t),
		ValidationIssues: []ValidationIssue{},
		AuditFields:      NewAuditFields(actorID, at),
	}
}

func (c PeriodClose) ensureStatus(want CloseStatus, op string) error {
	if c.Status != want {
		return apperrors.Invariant(apperrors.CodeInvalidCloseTransition, c.CloseID,
			"cannot %s a period close in status %s", op, c.Status)
	}
	return nil
}

// EnsureInProgress guards every checklist mutation.
func (c PeriodClose) EnsureInProgress(op string) error {
	return c.ensureStatus(CloseInProgress, op)
}

// PendingRequiredTasks counts incomplete required manual tasks. The automatic net income
// task is tracked by NetIncomeTransferred instead.
func (c PeriodClose) PendingRequiredTasks() int {
	n := 0
	for _, t := range c.Tasks {
		if t.IsRequired && t.IsManual && !t.IsComplete {
			n++
		}
	}
	return n
}

// UnresolvedCriticalIssues counts open critical issues.
func (c PeriodClose) UnresolvedCriticalIssues() int {
	n := 0
	for _, i := range c.ValidationIssues {
		if i.Severity == SeverityCritical && !i.IsResolved {
			n++
		}
	}
	return n
}

// CompleteTask marks a manual task done. Completing a done task is a no-op.
func (c *PeriodClose) CompleteTask(name, actorID string, at time.Time) error {
	if err := c.EnsureInProgress("complete a task of"); err != nil {
		return err
	}
	for i := range c.Tasks {
		if c.Tasks[i].Name != name {
			continue
		}
		if !c.Tasks[i].IsManual {
			return apperrors.Invariant(apperrors.CodeTaskNotManual, c.CloseID, "task %s is completed automatically", name)
		}
		if !c.Tasks[i].IsComplete {
			c.Tasks[i].IsComplete = true
			c.Tasks[i].CompletedAt = &at
			c.Tasks[i].CompletedBy = &actorID
			c.Touch(actorID, at)
		}
		return nil
	}
	return apperrors.Invariant(apperrors.CodeTaskNotFound, c.CloseID, "task %s is not on the checklist", name)
}

// ReportIssue appends a validation issue.
func (c *PeriodClose) ReportIssue(issueID, description string, severity Severity, actorID string, at time.Time) (ValidationIssue, error) {
	if err := c.EnsureInProgress("report an issue on"); err != nil {
		return ValidationIssue{}, err
	}
	issue := ValidationIssue{
		IssueID:     issueID,
		Description: description,
		Severity:    severity,
		ReportedAt:  at,
		ReportedBy:  actorID,
	}
	c.ValidationIssues = append(c.ValidationIssues, issue)
	c.Touch(actorID, at)
	return issue, nil
}

// ResolveIssue marks an issue resolved.
func (c *PeriodClose) ResolveIssue(issueID, actorID string, at time.Time) error {
	if err := c.EnsureInProgress("resolve an issue on"); err != nil {
		return err
	}
	for i := range c.ValidationIssues {
		if c.ValidationIssues[i].IssueID != issueID {
			continue
		}
		if !c.ValidationIssues[i].IsResolved {
			c.ValidationIssues[i].IsResolved = true
			c.ValidationIssues[i].ResolvedAt = &at
			c.ValidationIssues[i].ResolvedBy = &actorID
			c.Touch(actorID, at)
		}
		return nil
	}
	return apperrors.Invariant(apperrors.CodeIssueNotFound, issueID, "validation issue %s not found on close %s", issueID, c.CloseID)
}

// AttachTrialBalance links the finalized trial balance the close is judged against.
func (c *PeriodClose) AttachTrialBalance(trialBalanceID, actorID string, at time.Time) error {
	if err := c.EnsureInProgress("attach a trial balance to"); err != nil {
		return err
	}
	c.TrialBalanceID = &trialBalanceID
	c.Touch(actorID, at)
	return nil
}

// RecordNetIncomeTransfer marks the year-end transfer done; entryID is nil when nothing was posted.
func (c *PeriodClose) RecordNetIncomeTransfer(entryID *string, actorID string, at time.Time) error {
	if err := c.EnsureInProgress("transfer net income for"); err != nil {
		return err
	}
	if c.CloseType != YearEnd {
		return apperrors.Invariant(apperrors.CodeNotYearEnd, c.CloseID, "net income is only transferred by a year-end close, this is %s", c.CloseType)
	}
	if c.NetIncomeTransferred {
		return apperrors.Conflict(apperrors.CodeNetIncomeAlreadyTransferred, c.CloseID, "net income was already transferred")
	}
	c.NetIncomeTransferred = true
	c.NetIncomeEntryID = entryID
	for i := range c.Tasks {
		if c.Tasks[i].Name == TaskTransferNetIncome {
			c.Tasks[i].IsComplete = true
			c.Tasks[i].CompletedAt = &at
			c.Tasks[i].CompletedBy = &actorID
		}
	}
	c.Touch(actorID, at)
	return nil
}

// CheckCompletable runs the checklist gates in order. Trial balance checks are done by the caller,
// which owns the trial balance lookup; see CheckTrialBalance.
func (c PeriodClose) CheckCompletable() error {
	if err := c.EnsureInProgress("complete"); err != nil {
		return err
	}
	if n := c.PendingRequiredTasks(); n > 0 {
		return apperrors.Precondition(apperrors.CodePendingTasks, c.CloseID, "%d required tasks are incomplete", n).WithCount(n)
	}
	if n := c.UnresolvedCriticalIssues(); n > 0 {
		return apperrors.Precondition(apperrors.CodeUnresolvedCriticalIssues, c.CloseID, "%d critical validation issues are unresolved", n).WithCount(n)
	}
	return nil
}

// CheckTrialBalance gates completion on the attached trial balance (nil when none is attached).
func (c PeriodClose) CheckTrialBalance(tb *TrialBalance) error {
	if tb == nil || !tb.IsFinalizedAndBalanced() {
		e := apperrors.Precondition(apperrors.CodeTrialBalanceNotBalanced, c.CloseID, "period close needs a finalized and balanced trial balance")
		if tb != nil {
			e = e.WithAmount(tb.OutOfBalance)
		}
		return e
	}
	if c.CloseType == YearEnd && !c.NetIncomeTransferred {
		return apperrors.Precondition(apperrors.CodeNetIncomeNotTransferred, c.CloseID, "net income has not been transferred to retained earnings").
			WithAmount(tb.NetIncome())
	}
	return nil
}

// MarkCompleted transitions InProgress -> Completed.
func (c *PeriodClose) MarkCompleted(actorID string, at time.Time) error {
	if err := c.ensureStatus(CloseInProgress, "complete"); err != nil {
		return err
	}
	c.Status = CloseCompleted
	c.CompletedAt = &at
	c.CompletedBy = &actorID
	c.Touch(actorID, at)
	return nil
}

// MarkReopened transitions Completed -> Reopened.
func (c *PeriodClose) MarkReopened(actorID string, at time.Time) error {
	if err := c.ensureStatus(CloseCompleted, "reopen"); err != nil {
		return err
	}
	c.Status = CloseReopened
	c.ReopenedAt = &at
	c.ReopenedBy = &actorID
	c.Touch(actorID, at)
	return nil
}

// Resume transitions Reopened -> InProgress with a fresh checklist. Reported issues are kept.
func (c *PeriodClose) Resume(actorID string, at time.Time) error {
	if err := c.ensureStatus(CloseReopened, "resume"); err != nil {
		return err
	}
	c.Status = CloseInProgress
	c.Tasks = SeedChecklist(c.CloseType)
	c.TrialBalanceID = nil
	c.NetIncomeTransferred = false
	c.NetIncomeEntryID = nil
	c.CompletedAt = nil
	c.CompletedBy = nil
	c.Touch(actorID, at)
	return nil
}
