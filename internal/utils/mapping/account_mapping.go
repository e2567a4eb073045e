package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		WorkplaceID:        d.WorkplaceID,
		Code:               d.Code,
		Name:               d.Name,
		Classification:     string(d.Classification),
		USOAClass:          d.USOAClass,
		IsRetainedEarnings: d.IsRetainedEarnings,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		WorkplaceID:        m.WorkplaceID,
		Code:               m.Code,
		Name:               m.Name,
		Classification:     domain.AccountClassification(m.Classification),
		USOAClass:          m.USOAClass,
		IsRetainedEarnings: m.IsRetainedEarnings,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
