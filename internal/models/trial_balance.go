package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalance is a row of the trial_balances table.
type TrialBalance struct {
	TrialBalanceID string          `db:"trial_balance_id"`
	WorkplaceID    string          `db:"workplace_id"`
	PeriodID       string          `db:"period_id"`
	TotalDebit     decimal.Decimal `db:"total_debit"`
	TotalCredit    decimal.Decimal `db:"total_credit"`
	OutOfBalance   decimal.Decimal `db:"out_of_balance"`
	IsBalanced     bool            `db:"is_balanced"`
	Status         string          `db:"status"`
	FinalizedAt    *time.Time      `db:"finalized_at"`
	FinalizedBy    *string         `db:"finalized_by"`
	AuditFields
}

// TrialBalanceLine is a row of the trial_balance_lines table.
type TrialBalanceLine struct {
	TrialBalanceID string          `db:"trial_balance_id"`
	AccountID      string          `db:"account_id"`
	AccountCode    string          `db:"account_code"`
	Classification string          `db:"classification"`
	DebitTotal     decimal.Decimal `db:"debit_total"`
	CreditTotal    decimal.Decimal `db:"credit_total"`
	Balance        decimal.Decimal `db:"balance"`
}
