package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// StartCloseRequest selects the checklist of a new period close.
type StartCloseRequest struct {
	CloseType domain.CloseType `json:"closeType" binding:"required,oneof=MONTH_END QUARTER_END YEAR_END"`
}

// ReportIssueRequest records a validation issue found during close.
type ReportIssueRequest struct {
	Description string          `json:"description" binding:"required,max=1000"`
	Severity    domain.Severity `json:"severity" binding:"required,oneof=CRITICAL WARNING INFO"`
}

// TransferNetIncomeRequest optionally overrides the retained earnings account.
type TransferNetIncomeRequest struct {
	RetainedEarningsAccountID *string `json:"retainedEarningsAccountID"`
}

// PeriodCloseResponse defines the data returned for a period close.
type PeriodCloseResponse struct {
	CloseID              string                   `json:"closeID"`
	PeriodID             string                   `json:"periodID"`
	CloseType            domain.CloseType         `json:"closeType"`
	Status               domain.CloseStatus       `json:"status"`
	Tasks                []domain.CloseTask       `json:"tasks"`
	ValidationIssues     []domain.ValidationIssue `json:"validationIssues"`
	PendingRequiredTasks int                      `json:"pendingRequiredTasks"`
	TrialBalanceID       *string                  `json:"trialBalanceID,omitempty"`
	NetIncomeTransferred bool                     `json:"netIncomeTransferred"`
	NetIncomeEntryID     *string                  `json:"netIncomeEntryID,omitempty"`
	CompletedAt          *time.Time               `json:"completedAt,omitempty"`
	CompletedBy          *string                  `json:"completedBy,omitempty"`
	ReopenedAt           *time.Time               `json:"reopenedAt,omitempty"`
	ReopenedBy           *string                  `json:"reopenedBy,omitempty"`
	CreatedAt            time.Time                `json:"createdAt"`
	CreatedBy            string                   `json:"createdBy"`
}

// ToPeriodCloseResponse converts a domain.PeriodClose to PeriodCloseResponse DTO.
func ToPeriodCloseResponse(c *domain.PeriodClose) PeriodCloseResponse {
	return PeriodCloseResponse{
		CloseID:              c.CloseID,
		PeriodID:             c.PeriodID,
		CloseType:            c.CloseType,
		Status:               c.Status,
		Tasks:                c.Tasks,
		ValidationIssues:     c.ValidationIssues,
		PendingRequiredTasks: c.PendingRequiredTasks(),
		TrialBalanceID:       c.TrialBalanceID,
		NetIncomeTransferred: c.NetIncomeTransferred,
		NetIncomeEntryID:     c.NetIncomeEntryID,
		CompletedAt:          c.CompletedAt,
		CompletedBy:          c.CompletedBy,
		ReopenedAt:           c.ReopenedAt,
		ReopenedBy:           c.ReopenedBy,
		CreatedAt:            c.CreatedAt,
		CreatedBy:            c.CreatedBy,
	}
}
