package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelPeriodClose converts a domain PeriodClose header to a model PeriodClose
func ToModelPeriodClose(d domain.PeriodClose) models.PeriodClose {
	return models.PeriodClose{
		CloseID:              d.CloseID,
		WorkplaceID:          d.WorkplaceID,
		PeriodID:             d.PeriodID,
		CloseType:            string(d.CloseType),
		Status:               string(d.Status),
		TrialBalanceID:       d.TrialBalanceID,
		NetIncomeTransferred: d.NetIncomeTransferred,
		NetIncomeEntryID:     d.NetIncomeEntryID,
		CompletedAt:          d.CompletedAt,
		CompletedBy:          d.CompletedBy,
		ReopenedAt:           d.ReopenedAt,
		ReopenedBy:           d.ReopenedBy,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToModelCloseTasks converts the checklist of a domain PeriodClose, keeping its order
func ToModelCloseTasks(d domain.PeriodClose) []models.CloseTask {
	ms := make([]models.CloseTask, len(d.Tasks))
	for i, t := range d.Tasks {
		ms[i] = models.CloseTask{
			CloseID:     d.CloseID,
			Position:    i,
			Name:        t.Name,
			IsRequired:  t.IsRequired,
			IsManual:    t.IsManual,
			IsComplete:  t.IsComplete,
			CompletedAt: t.CompletedAt,
			CompletedBy: t.CompletedBy,
		}
	}
	return ms
}

// ToModelValidationIssues converts the issues of a domain PeriodClose
func ToModelValidationIssues(d domain.PeriodClose) []models.ValidationIssue {
	ms := make([]models.ValidationIssue, len(d.ValidationIssues))
	for i, v := range d.ValidationIssues {
		ms[i] = models.ValidationIssue{
			IssueID:     v.IssueID,
			CloseID:     d.CloseID,
			Description: v.Description,
			Severity:    string(v.Severity),
			IsResolved:  v.IsResolved,
			ReportedAt:  v.ReportedAt,
			ReportedBy:  v.ReportedBy,
			ResolvedAt:  v.ResolvedAt,
			ResolvedBy:  v.ResolvedBy,
		}
	}
	return ms
}

// ToDomainPeriodClose converts a model PeriodClose with its tasks (ordered by position) and issues
func ToDomainPeriodClose(m models.PeriodClose, tasks []models.CloseTask, issues []models.ValidationIssue) domain.PeriodClose {
	dt := make([]domain.CloseTask, len(tasks))
	for i, t := range tasks {
		dt[i] = domain.CloseTask{
			Name:        t.Name,
			IsRequired:  t.IsRequired,
			IsManual:    t.IsManual,
			IsComplete:  t.IsComplete,
			CompletedAt: utcPtr(t.CompletedAt),
			CompletedBy: t.CompletedBy,
		}
	}
	di := make([]domain.ValidationIssue, len(issues))
	for i, v := range issues {
		di[i] = domain.ValidationIssue{
			IssueID:     v.IssueID,
			Description: v.Description,
			Severity:    domain.Severity(v.Severity),
			IsResolved:  v.IsResolved,
			ReportedAt:  v.ReportedAt.UTC(),
			ReportedBy:  v.ReportedBy,
			ResolvedAt:  utcPtr(v.ResolvedAt),
			ResolvedBy:  v.ResolvedBy,
		}
	}
	return domain.PeriodClose{
		CloseID:              m.CloseID,
		WorkplaceID:          m.WorkplaceID,
		PeriodID:             m.PeriodID,
		CloseType:            domain.CloseType(m.CloseType),
		Status:               domain.CloseStatus(m.Status),
		Tasks:                dt,
		ValidationIssues:     di,
		TrialBalanceID:       m.TrialBalanceID,
		NetIncomeTransferred: m.NetIncomeTransferred,
		NetIncomeEntryID:     m.NetIncomeEntryID,
		CompletedAt:          utcPtr(m.CompletedAt),
		CompletedBy:          m.CompletedBy,
		ReopenedAt:           utcPtr(m.ReopenedAt),
		ReopenedBy:           m.ReopenedBy,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
