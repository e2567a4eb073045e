package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralLedgerEntry is the projection row of one account in one period. It is derived from
// posted journal lines and never edited directly.
type GeneralLedgerEntry struct {
	WorkplaceID string          `json:"workplaceID"`
	AccountID   string          `json:"accountID"`
	PeriodID    string          `json:"periodID"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	Balance     decimal.Decimal `json:"balance"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ZeroLedgerEntry is the balance of an account without postings in the period.
func ZeroLedgerEntry(workplaceID, accountID, periodID string) GeneralLedgerEntry {
	return GeneralLedgerEntry{
		WorkplaceID: workplaceID,
		AccountID:   accountID,
		PeriodID:    periodID,
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.Zero,
		Balance:     decimal.Zero,
	}
}

// Apply adds a delta to the row: totals grow and the balance moves by the delta's signed amount.
func (g GeneralLedgerEntry) Apply(d LedgerDelta, at time.Time) GeneralLedgerEntry {
	g.DebitTotal = g.DebitTotal.Add(d.Debit)
	g.CreditTotal = g.CreditTotal.Add(d.Credit)
	g.Balance = g.Balance.Add(d.SignedAmount())
	g.UpdatedAt = at
	return g
}

// SameAmounts compares totals and balance by value.
func (g GeneralLedgerEntry) SameAmounts(o GeneralLedgerEntry) bool {
	return g.DebitTotal.Equal(o.DebitTotal) && g.CreditTotal.Equal(o.CreditTotal) && g.Balance.Equal(o.Balance)
}

// LedgerDelta is the aggregated effect of a posting on one account.
type LedgerDelta struct {
	AccountID      string                `json:"accountID"`
	Classification AccountClassification `json:"classification"`
	Debit          decimal.Decimal       `json:"debit"`
	Credit         decimal.Decimal       `json:"credit"`
}

// SignedAmount is the delta's effect on the account's normal-side balance.
func (d LedgerDelta) SignedAmount() decimal.Decimal {
	return d.Classification.NormalBalance(d.Debit, d.Credit)
}

// ProjectionDiscrepancy reports a projection row that differs from the canonical recomputation.
type ProjectionDiscrepancy struct {
	AccountID string             `json:"accountID"`
	Expected  GeneralLedgerEntry `json:"expected"`
	Actual    GeneralLedgerEntry `json:"actual"`
}
