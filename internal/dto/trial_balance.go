package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceResponse defines the data returned for a trial balance snapshot.
type TrialBalanceResponse struct {
	TrialBalanceID string                    `json:"trialBalanceID"`
	PeriodID       string                    `json:"periodID"`
	Status         domain.TrialBalanceStatus `json:"status"`
	Lines          []domain.TrialBalanceLine `json:"lines"`
	TotalDebit     decimal.Decimal           `json:"totalDebit"`
	TotalCredit    decimal.Decimal           `json:"totalCredit"`
	OutOfBalance   decimal.Decimal           `json:"outOfBalanceAmount"`
	IsBalanced     bool                      `json:"isBalanced"`
	NetIncome      decimal.Decimal           `json:"netIncome"`
	FinalizedAt    *time.Time                `json:"finalizedAt,omitempty"`
	FinalizedBy    *string                   `json:"finalizedBy,omitempty"`
	CreatedAt      time.Time                 `json:"createdAt"`
	CreatedBy      string                    `json:"createdBy"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance to TrialBalanceResponse DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	return TrialBalanceResponse{
		TrialBalanceID: tb.TrialBalanceID,
		PeriodID:       tb.PeriodID,
		Status:         tb.Status,
		Lines:          tb.Lines,
		TotalDebit:     tb.TotalDebit,
		TotalCredit:    tb.TotalCredit,
		OutOfBalance:   tb.OutOfBalance,
		IsBalanced:     tb.IsBalanced,
		NetIncome:      tb.NetIncome(),
		FinalizedAt:    tb.FinalizedAt,
		FinalizedBy:    tb.FinalizedBy,
		CreatedAt:      tb.CreatedAt,
		CreatedBy:      tb.CreatedBy,
	}
}
