package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelPeriod converts a domain AccountingPeriod to a model AccountingPeriod
func ToModelPeriod(d domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:    d.PeriodID,
		WorkplaceID: d.WorkplaceID,
		Name:        d.Name,
		PeriodType:  string(d.PeriodType),
		FiscalYear:  d.FiscalYear,
		StartDate:   domain.NormalizeDate(d.StartDate),
		EndDate:     domain.NormalizeDate(d.EndDate),
		Status:      string(d.Status),
		ClosedAt:    d.ClosedAt,
		ClosedBy:    d.ClosedBy,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts a model AccountingPeriod to a domain AccountingPeriod
func ToDomainPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:    m.PeriodID,
		WorkplaceID: m.WorkplaceID,
		Name:        m.Name,
		PeriodType:  domain.PeriodType(m.PeriodType),
		FiscalYear:  m.FiscalYear,
		StartDate:   domain.NormalizeDate(m.StartDate),
		EndDate:     domain.NormalizeDate(m.EndDate),
		Status:      domain.PeriodStatus(m.Status),
		ClosedAt:    utcPtr(m.ClosedAt),
		ClosedBy:    m.ClosedBy,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPeriodSlice converts model periods to domain periods
func ToDomainPeriodSlice(ms []models.AccountingPeriod) []domain.AccountingPeriod {
	ds := make([]domain.AccountingPeriod, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPeriod(m)
	}
	return ds
}
