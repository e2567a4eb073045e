package models

import "time"

// PeriodClose is a row of the period_closes table.
type PeriodClose struct {
	CloseID              string     `db:"close_id"`
	WorkplaceID          string     `db:"workplace_id"`
	PeriodID             string     `db:"period_id"`
	CloseType            string     `db:"close_type"`
	Status               string     `db:"status"`
	TrialBalanceID       *string    `db:"trial_balance_id"`
	NetIncomeTransferred bool       `db:"net_income_transferred"`
	NetIncomeEntryID     *string    `db:"net_income_entry_id"`
	CompletedAt          *time.Time `db:"completed_at"`
	CompletedBy          *string    `db:"completed_by"`
	ReopenedAt           *time.Time `db:"reopened_at"`
	ReopenedBy           *string    `db:"reopened_by"`
	AuditFields
}

// CloseTask is a row of the period_close_tasks table. Position keeps checklist order.
type CloseTask struct {
	CloseID     string     `db:"close_id"`
	Position    int        `db:"position"`
	Name        string     `db:"name"`
	IsRequired  bool       `db:"is_required"`
	IsManual    bool       `db:"is_manual"`
	IsComplete  bool       `db:"is_complete"`
	CompletedAt *time.Time `db:"completed_at"`
	CompletedBy *string    `db:"completed_by"`
}

// ValidationIssue is a row of the period_close_issues table.
type ValidationIssue struct {
	IssueID     string     `db:"issue_id"`
	CloseID     string     `db:"close_id"`
	Description string     `db:"description"`
	Severity    string     `db:"severity"`
	IsResolved  bool       `db:"is_resolved"`
	ReportedAt  time.Time  `db:"reported_at"`
	ReportedBy  string     `db:"reported_by"`
	ResolvedAt  *time.Time `db:"resolved_at"`
	ResolvedBy  *string    `db:"resolved_by"`
}
