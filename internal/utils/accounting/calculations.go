package accounting

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the normal-balance sign to a single debit or credit amount.
// This is used in both services and repositories to ensure consistent accounting logic.
//
//	DEBIT to ASSET/EXPENSE -> Positive (+)
//	CREDIT to ASSET/EXPENSE -> Negative (-)
//	DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
//	CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func CalculateSignedAmount(debit, credit decimal.Decimal, classification domain.AccountClassification) (decimal.Decimal, error) {
	if !classification.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account classification '%s'", classification)
	}
	return classification.NormalBalance(debit, credit), nil
}

// AggregateDeltas folds lines into one delta per account, ordered by account ID so that
// row locks are always taken in the same order. Incremental posting and rebuild both use it.
func AggregateDeltas(lines []domain.PostedLine, classifications map[string]domain.AccountClassification) ([]domain.LedgerDelta, error) {
	byAccount := make(map[string]*domain.LedgerDelta)
	for _, l := range lines {
		cls, ok := classifications[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("classification not found for account ID %s", l.AccountID)
		}
		d, ok := byAccount[l.AccountID]
		if !ok {
			d = &domain.LedgerDelta{AccountID: l.AccountID, Classification: cls, Debit: decimal.Zero, Credit: decimal.Zero}
			byAccount[l.AccountID] = d
		}
		d.Debit = d.Debit.Add(l.DebitAmount)
		d.Credit = d.Credit.Add(l.CreditAmount)
	}

	deltas := make([]domain.LedgerDelta, 0, len(byAccount))
	for _, d := range byAccount {
		deltas = append(deltas, *d)
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].AccountID < deltas[j].AccountID })
	return deltas, nil
}

// EntryLines converts a journal entry into projection input.
func EntryLines(e domain.JournalEntry) []domain.PostedLine {
	out := make([]domain.PostedLine, 0, len(e.Lines))
	for _, l := range e.Lines {
		out = append(out, domain.PostedLine{
			EntryID:      e.EntryID,
			PeriodID:     e.PeriodID,
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		})
	}
	return out
}

// ProjectRows builds projection rows from scratch out of aggregated deltas.
func ProjectRows(workplaceID, periodID string, deltas []domain.LedgerDelta, at time.Time) []domain.GeneralLedgerEntry {
	rows := make([]domain.GeneralLedgerEntry, 0, len(deltas))
	for _, d := range deltas {
		rows = append(rows, domain.ZeroLedgerEntry(workplaceID, d.AccountID, periodID).Apply(d, at))
	}
	return rows
}

// DiffProjection compares stored rows against the expected recomputation. Missing rows on
// either side are compared against a zero row.
func DiffProjection(workplaceID, periodID string, expected, actual []domain.GeneralLedgerEntry) []domain.ProjectionDiscrepancy {
	exp := make(map[string]domain.GeneralLedgerEntry, len(expected))
	for _, r := range expected {
		exp[r.AccountID] = r
	}
	act := make(map[string]domain.GeneralLedgerEntry, len(actual))
	for _, r := range actual {
		act[r.AccountID] = r
	}

	ids := make([]string, 0, len(exp)+len(act))
	for id := range exp {
		ids = append(ids, id)
	}
	for id := range act {
		if _, ok := exp[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var out []domain.ProjectionDiscrepancy
	for _, id := range ids {
		e, ok := exp[id]
		if !ok {
			e = domain.ZeroLedgerEntry(workplaceID, id, periodID)
		}
		a, ok := act[id]
		if !ok {
			a = domain.ZeroLedgerEntry(workplaceID, id, periodID)
		}
		if !e.SameAmounts(a) {
			out = append(out, domain.ProjectionDiscrepancy{AccountID: id, Expected: e, Actual: a})
		}
	}
	return out
}
