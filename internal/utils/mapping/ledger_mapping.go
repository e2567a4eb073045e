package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelLedgerEntry converts a domain GeneralLedgerEntry to a model GeneralLedgerEntry
func ToModelLedgerEntry(d domain.GeneralLedgerEntry) models.GeneralLedgerEntry {
	return models.GeneralLedgerEntry{
		WorkplaceID: d.WorkplaceID,
		AccountID:   d.AccountID,
		PeriodID:    d.PeriodID,
		DebitTotal:  d.DebitTotal,
		CreditTotal: d.CreditTotal,
		Balance:     d.Balance,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToDomainLedgerEntry converts a model GeneralLedgerEntry to a domain GeneralLedgerEntry
func ToDomainLedgerEntry(m models.GeneralLedgerEntry) domain.GeneralLedgerEntry {
	return domain.GeneralLedgerEntry{
		WorkplaceID: m.WorkplaceID,
		AccountID:   m.AccountID,
		PeriodID:    m.PeriodID,
		DebitTotal:  m.DebitTotal,
		CreditTotal: m.CreditTotal,
		Balance:     m.Balance,
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// ToDomainLedgerEntrySlice converts projection rows
func ToDomainLedgerEntrySlice(ms []models.GeneralLedgerEntry) []domain.GeneralLedgerEntry {
	ds := make([]domain.GeneralLedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
