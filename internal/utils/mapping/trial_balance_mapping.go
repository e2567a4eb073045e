package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelTrialBalance converts a domain TrialBalance header to a model TrialBalance
func ToModelTrialBalance(d domain.TrialBalance) models.TrialBalance {
	return models.TrialBalance{
		TrialBalanceID: d.TrialBalanceID,
		WorkplaceID:    d.WorkplaceID,
		PeriodID:       d.PeriodID,
		TotalDebit:     d.TotalDebit,
		TotalCredit:    d.TotalCredit,
		OutOfBalance:   d.OutOfBalance,
		IsBalanced:     d.IsBalanced,
		Status:         string(d.Status),
		FinalizedAt:    d.FinalizedAt,
		FinalizedBy:    d.FinalizedBy,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToModelTrialBalanceLines converts the lines of a domain TrialBalance
func ToModelTrialBalanceLines(d domain.TrialBalance) []models.TrialBalanceLine {
	ms := make([]models.TrialBalanceLine, len(d.Lines))
	for i, l := range d.Lines {
		ms[i] = models.TrialBalanceLine{
			TrialBalanceID: d.TrialBalanceID,
			AccountID:      l.AccountID,
			AccountCode:    l.AccountCode,
			Classification: string(l.Classification),
			DebitTotal:     l.DebitTotal,
			CreditTotal:    l.CreditTotal,
			Balance:        l.Balance,
		}
	}
	return ms
}

// ToDomainTrialBalance converts a model TrialBalance and its lines to a domain TrialBalance
func ToDomainTrialBalance(m models.TrialBalance, lines []models.TrialBalanceLine) domain.TrialBalance {
	ds := make([]domain.TrialBalanceLine, len(lines))
	for i, l := range lines {
		ds[i] = domain.TrialBalanceLine{
			AccountID:      l.AccountID,
			AccountCode:    l.AccountCode,
			Classification: domain.AccountClassification(l.Classification),
			DebitTotal:     l.DebitTotal,
			CreditTotal:    l.CreditTotal,
			Balance:        l.Balance,
		}
	}
	return domain.TrialBalance{
		TrialBalanceID: m.TrialBalanceID,
		WorkplaceID:    m.WorkplaceID,
		PeriodID:       m.PeriodID,
		Lines:          ds,
		TotalDebit:     m.TotalDebit,
		TotalCredit:    m.TotalCredit,
		OutOfBalance:   m.OutOfBalance,
		IsBalanced:     m.IsBalanced,
		Status:         domain.TrialBalanceStatus(m.Status),
		FinalizedAt:    utcPtr(m.FinalizedAt),
		FinalizedBy:    m.FinalizedBy,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
