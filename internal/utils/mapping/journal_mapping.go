package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		WorkplaceID:       d.WorkplaceID,
		PeriodID:          d.PeriodID,
		EntryDate:         domain.NormalizeDate(d.EntryDate),
		Description:       d.Description,
		Reference:         d.Reference,
		Status:            string(d.Status),
		ReversalOfEntryID: d.ReversalOfEntryID,
		ReversedByEntryID: d.ReversedByEntryID,
		PostedAt:          d.PostedAt,
		PostedBy:          d.PostedBy,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalEntryLine) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		WorkplaceID:       m.WorkplaceID,
		PeriodID:          m.PeriodID,
		EntryDate:         domain.NormalizeDate(m.EntryDate),
		Description:       m.Description,
		Reference:         m.Reference,
		Status:            domain.JournalStatus(m.Status),
		Lines:             ToDomainJournalLineSlice(lines),
		ReversalOfEntryID: m.ReversalOfEntryID,
		ReversedByEntryID: m.ReversedByEntryID,
		PostedAt:          utcPtr(m.PostedAt),
		PostedBy:          m.PostedBy,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalEntryLine to a model JournalEntryLine
func ToModelJournalLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		LineNumber:   d.LineNumber,
		AccountID:    d.AccountID,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		Memo:         d.Memo,
	}
}

// ToDomainJournalLine converts a model JournalEntryLine to a domain JournalEntryLine
func ToDomainJournalLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		LineNumber:   m.LineNumber,
		AccountID:    m.AccountID,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		Memo:         m.Memo,
	}
}

// ToDomainJournalLineSlice converts model lines to domain lines
func ToDomainJournalLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}

// ToDomainPostedLineSlice converts posted line rows to domain posted lines
func ToDomainPostedLineSlice(ms []models.PostedLine) []domain.PostedLine {
	ds := make([]domain.PostedLine, len(ms))
	for i, m := range ms {
		ds[i] = domain.PostedLine{
			EntryID:      m.EntryID,
			PeriodID:     m.PeriodID,
			AccountID:    m.AccountID,
			DebitAmount:  m.DebitAmount,
			CreditAmount: m.CreditAmount,
		}
	}
	return ds
}
