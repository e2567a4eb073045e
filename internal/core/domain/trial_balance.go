package domain

import (
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TrialBalanceStatus is the lifecycle state of a trial balance snapshot.
type TrialBalanceStatus string

const (
	TrialBalanceDraft     TrialBalanceStatus = "DRAFT"
	TrialBalanceFinalized TrialBalanceStatus = "FINALIZED"
)

// TrialBalanceLine is one account's totals within a trial balance snapshot.
type TrialBalanceLine struct {
	AccountID      string                `json:"accountID"`
	AccountCode    string                `json:"accountCode"`
	Classification AccountClassification `json:"classification"`
	DebitTotal     decimal.Decimal       `json:"debitTotal"`
	CreditTotal    decimal.Decimal       `json:"creditTotal"`
	Balance        decimal.Decimal       `json:"balance"`
}

// TrialBalance is a balance-checked snapshot of the projection for one period.
type TrialBalance struct {
	TrialBalanceID string             `json:"trialBalanceID"`
	WorkplaceID    string             `json:"workplaceID"`
	PeriodID       string             `json:"periodID"`
	Lines          []TrialBalanceLine `json:"lines"`
	TotalDebit     decimal.Decimal    `json:"totalDebit"`
	TotalCredit    decimal.Decimal    `json:"totalCredit"`
	OutOfBalance   decimal.Decimal    `json:"outOfBalance"`
	IsBalanced     bool               `json:"isBalanced"`
	Status         TrialBalanceStatus `json:"status"`
	FinalizedAt    *time.Time         `json:"finalizedAt,omitempty"`
	FinalizedBy    *string            `json:"finalizedBy,omitempty"`
	AuditFields
}

// NewTrialBalance builds a Draft snapshot from lines, ordered by account code.
func NewTrialBalance(id, workplaceID, periodID string, lines []TrialBalanceLine, tolerance decimal.Decimal, actorID string, at time.Time) TrialBalance {
	sorted := make([]TrialBalanceLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].AccountCode == sorted[j].AccountCode {
			return sorted[i].AccountID < sorted[j].AccountID
		}
		return sorted[i].AccountCode < sorted[j].AccountCode
	})
	tb := TrialBalance{
		TrialBalanceID: id,
		WorkplaceID:    workplaceID,
		PeriodID:       periodID,
		Lines:          sorted,
		Status:         TrialBalanceDraft,
		AuditFields:    NewAuditFields(actorID, at),
	}
	tb.computeTotals(tolerance)
	return tb
}

func (tb *TrialBalance) computeTotals(tolerance decimal.Decimal) {
	tb.TotalDebit, tb.TotalCredit = decimal.Zero, decimal.Zero
	for _, l := range tb.Lines {
		tb.TotalDebit = tb.TotalDebit.Add(l.DebitTotal)
		tb.TotalCredit = tb.TotalCredit.Add(l.CreditTotal)
	}
	tb.OutOfBalance = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.IsBalanced = tb.OutOfBalance.Abs().LessThan(tolerance)
}

// ClassificationTotals sums the stored balances per classification.
func (tb TrialBalance) ClassificationTotals() map[AccountClassification]decimal.Decimal {
	totals := map[AccountClassification]decimal.Decimal{
		Asset: decimal.Zero, Liability: decimal.Zero, Equity: decimal.Zero, Revenue: decimal.Zero, Expense: decimal.Zero,
	}
	for _, l := range tb.Lines {
		totals[l.Classification] = totals[l.Classification].Add(l.Balance)
	}
	return totals
}

// NetIncome is revenue minus expenses.
func (tb TrialBalance) NetIncome() decimal.Decimal {
	t := tb.ClassificationTotals()
	return t[Revenue].Sub(t[Expense])
}

// EquationDelta is Assets - (Liabilities + Equity + NetIncome). Before the year-end transfer
// net income is part of equity; afterwards it is zero and this is the plain equation.
func (tb TrialBalance) EquationDelta() decimal.Decimal {
	t := tb.ClassificationTotals()
	return t[Asset].Sub(t[Liability].Add(t[Equity]).Add(tb.NetIncome()))
}

// Finalize locks a balanced snapshot. Both checks use the given tolerance.
func (tb *TrialBalance) Finalize(tolerance decimal.Decimal, actorID string, at time.Time) error {
	if tb.Status != TrialBalanceDraft {
		return apperrors.Invariant(apperrors.CodeTrialBalanceFinalized, tb.TrialBalanceID, "trial balance is already finalized")
	}
	tb.computeTotals(tolerance)
	if !tb.IsBalanced {
		return apperrors.Invariant(apperrors.CodeNotBalanced, tb.TrialBalanceID, "trial balance is out of balance by %s",
			tb.OutOfBalance.StringFixed(2)).WithAmount(tb.OutOfBalance)
	}
	if delta := tb.EquationDelta(); !delta.Abs().LessThan(tolerance) {
		return apperrors.Invariant(apperrors.CodeAccountingEquationMismatch, tb.TrialBalanceID,
			"assets differ from liabilities plus equity by %s", delta.StringFixed(2)).WithAmount(delta)
	}
	tb.Status = TrialBalanceFinalized
	tb.FinalizedAt = &at
	tb.FinalizedBy = &actorID
	tb.Touch(actorID, at)
	return nil
}

// Reopen returns a Finalized snapshot to Draft.
func (tb *TrialBalance) Reopen(actorID string, at time.Time) error {
	if tb.Status != TrialBalanceFinalized {
		return apperrors.Invariant(apperrors.CodeTrialBalanceDraft, tb.TrialBalanceID, "only a finalized trial balance can be reopened")
	}
	tb.Status = TrialBalanceDraft
	tb.FinalizedAt = nil
	tb.FinalizedBy = nil
	tb.Touch(actorID, at)
	return nil
}

// IsFinalizedAndBalanced is the gate checked by period close.
func (tb TrialBalance) IsFinalizedAndBalanced() bool {
	return tb.Status == TrialBalanceFinalized && tb.IsBalanced
}

// MatchesProjection reports whether the snapshot still equals the live projection rows.
func (tb TrialBalance) MatchesProjection(rows []GeneralLedgerEntry) bool {
	if len(rows) != len(tb.Lines) {
		return false
	}
	byAccount := make(map[string]TrialBalanceLine, len(tb.Lines))
	for _, l := range tb.Lines {
		byAccount[l.AccountID] = l
	}
	for _, r := range rows {
		l, ok := byAccount[r.AccountID]
		if !ok {
			return false
		}
		if !l.DebitTotal.Equal(r.DebitTotal) || !l.CreditTotal.Equal(r.CreditTotal) || !l.Balance.Equal(r.Balance) {
			return false
		}
	}
	return true
}
