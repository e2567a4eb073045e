package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(account, debit, credit string) domain.JournalEntryLine {
	return domain.JournalEntryLine{AccountID: account, DebitAmount: dec(debit), CreditAmount: dec(credit), Memo: "m"}
}

func draftEntry(lines ...domain.JournalEntryLine) domain.JournalEntry {
	e := domain.JournalEntry{EntryID: "je-1", WorkplaceID: "wp-1", PeriodID: "p-1", Status: domain.Draft}
	_ = e.ReplaceLines(lines)
	return e
}

func TestJournalEntryLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.JournalEntryLine
		wantErr bool
	}{
		{name: "debit only", line: line("cash", "10", "0")},
		{name: "credit only", line: line("cash", "0", "10")},
		{name: "both sides", line: line("cash", "10", "10"), wantErr: true},
		{name: "neither side", line: line("cash", "0", "0"), wantErr: true},
		{name: "negative debit", line: line("cash", "-5", "0"), wantErr: true},
		{name: "missing account", line: line("", "5", "0"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.CodeInvalidLine)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestJournalEntry_CheckBalanced(t *testing.T) {
	balanced := draftEntry(line("cash", "100.00", "0"), line("revenue", "0", "100.00"))
	assert.NoError(t, balanced.CheckBalanced())

	unbalanced := draftEntry(line("cash", "100.00", "0"), line("revenue", "0", "90.00"))
	err := unbalanced.CheckBalanced()
	require.ErrorIs(t, err, apperrors.CodeNotBalanced)
	le, ok := apperrors.AsLedgerError(err)
	require.True(t, ok)
	assert.True(t, le.Amount.Equal(dec("10")))

	single := draftEntry(line("cash", "0", "0"))
	assert.ErrorIs(t, single.CheckBalanced(), apperrors.CodeInvalidLine)

	// exact equality, no tolerance at the entry level
	offByCent := draftEntry(line("cash", "100.00", "0"), line("revenue", "0", "99.999"))
	assert.ErrorIs(t, offByCent.CheckBalanced(), apperrors.CodeNotBalanced)
}

func TestJournalEntry_MarkPosted(t *testing.T) {
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	e := draftEntry(line("cash", "100", "0"), line("revenue", "0", "100"))

	require.NoError(t, e.MarkPosted("alice", at))
	assert.Equal(t, domain.Posted, e.Status)
	require.NotNil(t, e.PostedBy)
	assert.Equal(t, "alice", *e.PostedBy)

	err := e.MarkPosted("alice", at)
	assert.ErrorIs(t, err, apperrors.CodeEntryCannotBeModified)
	assert.ErrorIs(t, e.ReplaceLines(nil), apperrors.CodeEntryCannotBeModified)
}

func TestJournalEntry_ReplaceLinesRenumbers(t *testing.T) {
	e := draftEntry(line("a", "1", "0"), line("b", "0", "1"), line("a", "0", "0.5"))
	for i, l := range e.Lines {
		assert.Equal(t, i+1, l.LineNumber)
		assert.Equal(t, "je-1", l.EntryID)
	}
	assert.Equal(t, []string{"a", "b"}, e.AccountIDs())
}

func TestJournalEntry_Reversal(t *testing.T) {
	at := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	original := draftEntry(line("expense", "50", "0"), line("cash", "0", "50"))
	original.Description = "office supplies"
	require.NoError(t, original.MarkPosted("alice", at))
	require.NoError(t, original.EnsureReversible())

	period := domain.AccountingPeriod{PeriodID: "p-2", WorkplaceID: "wp-1"}
	n := 0
	rev := original.NewReversal("je-2", func() string { n++; return fmt.Sprintf("l-%d", n) }, period, at.Add(36*time.Hour), "bob", at)

	assert.Equal(t, domain.Posted, rev.Status)
	require.NotNil(t, rev.ReversalOfEntryID)
	assert.Equal(t, "je-1", *rev.ReversalOfEntryID)
	assert.Equal(t, "p-2", rev.PeriodID)
	assert.Equal(t, time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC), rev.EntryDate)
	require.Len(t, rev.Lines, 2)
	assert.True(t, rev.Lines[0].CreditAmount.Equal(dec("50")))
	assert.True(t, rev.Lines[0].DebitAmount.IsZero())
	assert.True(t, rev.Lines[1].DebitAmount.Equal(dec("50")))
	assert.Equal(t, "Reversal of m", rev.Lines[0].Memo)
	assert.Equal(t, "l-1", rev.Lines[0].LineID)
	assert.NoError(t, rev.CheckBalanced())

	assert.ErrorIs(t, rev.EnsureReversible(), apperrors.CodeCannotReverseReversal)

	require.NoError(t, original.MarkReversed("je-2", "bob", at))
	assert.Equal(t, domain.Reversed, original.Status)
	err := original.EnsureReversible()
	assert.ErrorIs(t, err, apperrors.CodeAlreadyReversed)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestJournalEntry_DraftIsNotReversible(t *testing.T) {
	e := draftEntry(line("a", "1", "0"), line("b", "0", "1"))
	assert.ErrorIs(t, e.EnsureReversible(), apperrors.CodeNotPosted)
}
