package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralLedgerEntry is a row of the general_ledger_entries projection table.
type GeneralLedgerEntry struct {
	WorkplaceID string          `db:"workplace_id"`
	AccountID   string          `db:"account_id"`
	PeriodID    string          `db:"period_id"`
	DebitTotal  decimal.Decimal `db:"debit_total"`
	CreditTotal decimal.Decimal `db:"credit_total"`
	Balance     decimal.Decimal `db:"balance"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
