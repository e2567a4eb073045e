package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID           string     `db:"entry_id"`
	WorkplaceID       string     `db:"workplace_id"`
	PeriodID          string     `db:"period_id"`
	EntryDate         time.Time  `db:"entry_date"`
	Description       string     `db:"description"`
	Reference         *string    `db:"reference"`
	Status            string     `db:"status"`
	ReversalOfEntryID *string    `db:"reversal_of_entry_id"`
	ReversedByEntryID *string    `db:"reversed_by_entry_id"`
	PostedAt          *time.Time `db:"posted_at"`
	PostedBy          *string    `db:"posted_by"`
	AuditFields
}

// JournalEntryLine is a row of the journal_entry_lines table.
type JournalEntryLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	LineNumber   int             `db:"line_number"`
	AccountID    string          `db:"account_id"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	Memo         string          `db:"memo"`
}

// PostedLine is a line joined with its entry's period, read when recomputing the projection.
type PostedLine struct {
	EntryID      string          `db:"entry_id"`
	PeriodID     string          `db:"period_id"`
	AccountID    string          `db:"account_id"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
}
