package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit or credit line. Exactly one amount must be non-zero.
type JournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount" binding:"gte=0"`
	CreditAmount decimal.Decimal `json:"creditAmount" binding:"gte=0"`
	Memo         string          `json:"memo" binding:"max=500"`
}

// CreateJournalEntryRequest defines the data needed to create a draft journal entry.
// Balance is checked when the entry is posted, not here.
type CreateJournalEntryRequest struct {
	PeriodID    string               `json:"periodID" binding:"required"`
	EntryDate   time.Time            `json:"entryDate" binding:"required"`
	Description string               `json:"description" binding:"max=1000"`
	Reference   *string              `json:"reference" binding:"omitempty,max=100"` // Optional caller idempotency key
	Lines       []JournalLineRequest `json:"lines" binding:"dive"`
}

// UpdateJournalEntryRequest replaces a draft's lines and optionally its header fields.
type UpdateJournalEntryRequest struct {
	EntryDate   *time.Time           `json:"entryDate"`
	Description *string              `json:"description" binding:"omitempty,max=1000"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,dive"`
}

// ReverseJournalEntryRequest carries the reversal date; the original entry date is used when omitted.
type ReverseJournalEntryRequest struct {
	ReversalDate *time.Time `json:"reversalDate"`
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	PeriodID  *string               `form:"periodID"`
	Status    *domain.JournalStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	Limit     int                   `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string               `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal entry line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Memo         string          `json:"memo"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	PeriodID          string                `json:"periodID"`
	EntryDate         time.Time             `json:"entryDate"`
	Description       string                `json:"description"`
	Reference         *string               `json:"reference,omitempty"`
	Status            domain.JournalStatus  `json:"status"`
	TotalDebit        decimal.Decimal       `json:"totalDebit"`
	TotalCredit       decimal.Decimal       `json:"totalCredit"`
	Lines             []JournalLineResponse `json:"lines"`
	ReversalOfEntryID *string               `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID *string               `json:"reversedByEntryID,omitempty"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	PostedBy          *string               `json:"postedBy,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
	LastUpdatedAt     time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy     string                `json:"lastUpdatedBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:       l.LineID,
			LineNumber:   l.LineNumber,
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Memo:         l.Memo,
		}
	}
	debit, credit := e.Totals()
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		PeriodID:          e.PeriodID,
		EntryDate:         e.EntryDate,
		Description:       e.Description,
		Reference:         e.Reference,
		Status:            e.Status,
		TotalDebit:        debit,
		TotalCredit:       credit,
		Lines:             lines,
		ReversalOfEntryID: e.ReversalOfEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
}

// ListJournalEntriesResponse is a page of journal entries, newest first.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
