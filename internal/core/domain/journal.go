package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalStatus is the lifecycle state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// ReversalMemoPrefix prefixes the memo of every line of a reversing entry.
const ReversalMemoPrefix = "Reversal of "

// JournalEntryLine is one debit or credit of a journal entry.
// Exactly one of DebitAmount and CreditAmount is non-zero.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Memo         string          `json:"memo"`
}

// IsDebit reports whether the line debits its account.
func (l JournalEntryLine) IsDebit() bool { return !l.DebitAmount.IsZero() }

// Validate enforces the debit XOR credit rule and non-negative amounts.
func (l JournalEntryLine) Validate() error {
	if l.AccountID == "" {
		return apperrors.Invariant(apperrors.CodeInvalidLine, l.LineID, "line %d has no account", l.LineNumber)
	}
	if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
		return apperrors.Invariant(apperrors.CodeInvalidLine, l.LineID, "line %d has a negative amount", l.LineNumber)
	}
	if l.DebitAmount.IsZero() == l.CreditAmount.IsZero() {
		return apperrors.Invariant(apperrors.CodeInvalidLine, l.LineID, "line %d must have exactly one of debit or credit set", l.LineNumber)
	}
	return nil
}

// Swapped returns the line with debit and credit exchanged, as used by reversals.
func (l JournalEntryLine) Swapped() JournalEntryLine {
	l.DebitAmount, l.CreditAmount = l.CreditAmount, l.DebitAmount
	return l
}

// JournalEntry is a header plus its balanced lines. Posted entries are immutable; the only
// permitted change is being marked Reversed when a linked reversing entry is posted.
type JournalEntry struct {
	EntryID           string             `json:"entryID"`
	WorkplaceID       string             `json:"workplaceID"`
	PeriodID          string             `json:"periodID"`
	EntryDate         time.Time          `json:"entryDate"`
	Description       string             `json:"description"`
	Reference         *string            `json:"reference,omitempty"`
	Status            JournalStatus      `json:"status"`
	Lines             []JournalEntryLine `json:"lines"`
	ReversalOfEntryID *string            `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID *string            `json:"reversedByEntryID,omitempty"`
	PostedAt          *time.Time         `json:"postedAt,omitempty"`
	PostedBy          *string            `json:"postedBy,omitempty"`
	AuditFields
}

// Totals sums both sides of the entry.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.DebitAmount)
		credit = credit.Add(l.CreditAmount)
	}
	return debit, credit
}

// AccountIDs returns the distinct accounts referenced by the lines, in line order.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// ValidateLines checks every line's shape; balance is not checked here.
func (e JournalEntry) ValidateLines() error {
	for _, l := range e.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CheckBalanced enforces exact equality of debits and credits and the two-line minimum.
// The reported amount is debit minus credit.
func (e JournalEntry) CheckBalanced() error {
	if len(e.Lines) < 2 {
		return apperrors.Invariant(apperrors.CodeInvalidLine, e.EntryID, "journal entry must have at least two lines, has %d", len(e.Lines))
	}
	if err := e.ValidateLines(); err != nil {
		return err
	}
	debit, credit := e.Totals()
	if !debit.Equal(credit) {
		return apperrors.Invariant(apperrors.CodeNotBalanced, e.EntryID, "debits %s do not equal credits %s",
			debit.StringFixed(2), credit.StringFixed(2)).WithAmount(debit.Sub(credit))
	}
	return nil
}

// EnsureDraft is the first-line guard of every draft mutation.
func (e JournalEntry) EnsureDraft() error {
	if e.Status != Draft {
		return apperrors.Invariant(apperrors.CodeEntryCannotBeModified, e.EntryID, "journal entry is %s, only drafts can be modified", e.Status)
	}
	return nil
}

// ReplaceLines swaps the draft's lines, renumbering them and binding them to the entry.
func (e *JournalEntry) ReplaceLines(lines []JournalEntryLine) error {
	if err := e.EnsureDraft(); err != nil {
		return err
	}
	e.Lines = make([]JournalEntryLine, len(lines))
	for i, l := range lines {
		l.EntryID = e.EntryID
		l.LineNumber = i + 1
		e.Lines[i] = l
	}
	return e.ValidateLines()
}

// MarkPosted transitions Draft -> Posted after the caller verified balance and period state.
func (e *JournalEntry) MarkPosted(actorID string, at time.Time) error {
	if err := e.EnsureDraft(); err != nil {
		return err
	}
	if err := e.CheckBalanced(); err != nil {
		return err
	}
	e.Status = Posted
	e.PostedAt = &at
	e.PostedBy = &actorID
	e.Touch(actorID, at)
	return nil
}

// EnsureReversible checks that the entry can be reversed by a new linked entry.
func (e JournalEntry) EnsureReversible() error {
	switch e.Status {
	case Draft:
		return apperrors.Invariant(apperrors.CodeNotPosted, e.EntryID, "journal entry is not posted")
	case Reversed:
		reversedBy := ""
		if e.ReversedByEntryID != nil {
			reversedBy = *e.ReversedByEntryID
		}
		return apperrors.Conflict(apperrors.CodeAlreadyReversed, e.EntryID, "journal entry was already reversed by %s", reversedBy)
	}
	if e.ReversalOfEntryID != nil {
		return apperrors.Invariant(apperrors.CodeCannotReverseReversal, e.EntryID, "journal entry is itself a reversal of %s", *e.ReversalOfEntryID)
	}
	return nil
}

// MarkReversed transitions Posted -> Reversed and links the reversing entry.
func (e *JournalEntry) MarkReversed(reversingEntryID, actorID string, at time.Time) error {
	if err := e.EnsureReversible(); err != nil {
		return err
	}
	e.Status = Reversed
	e.ReversedByEntryID = &reversingEntryID
	e.Touch(actorID, at)
	return nil
}

// NewReversal builds the posted reversing entry: every line swapped, linked to e.
func (e JournalEntry) NewReversal(entryID string, newLineID func() string, period AccountingPeriod, date time.Time, actorID string, at time.Time) JournalEntry {
	originalID := e.EntryID
	rev := JournalEntry{
		EntryID:           entryID,
		WorkplaceID:       e.WorkplaceID,
		PeriodID:          period.PeriodID,
		EntryDate:         NormalizeDate(date),
		Description:       fmt.Sprintf("Reversal of journal entry %s: %s", e.EntryID, e.Description),
		Status:            Posted,
		ReversalOfEntryID: &originalID,
		PostedAt:          &at,
		PostedBy:          &actorID,
		AuditFields:       NewAuditFields(actorID, at),
	}
	rev.Lines = make([]JournalEntryLine, len(e.Lines))
	for i, l := range e.Lines {
		swapped := l.Swapped()
		swapped.LineID = newLineID()
		swapped.EntryID = entryID
		swapped.LineNumber = i + 1
		swapped.Memo = ReversalMemoPrefix + l.Memo
		rev.Lines[i] = swapped
	}
	return rev
}

// EntryFilter narrows journal entry listings.
type EntryFilter struct {
	PeriodID *string
	Status   *JournalStatus
}

// EntryCursor is the keyset position of a journal entry listing.
type EntryCursor struct {
	EntryDate time.Time
	EntryID   string
}

// PostedLine is a line of a posted (or reversed) entry, the canonical input of the projection.
type PostedLine struct {
	EntryID      string
	PeriodID     string
	AccountID    string
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
}
