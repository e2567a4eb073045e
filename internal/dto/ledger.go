package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceResponse is one general ledger projection row.
type BalanceResponse struct {
	AccountID   string          `json:"accountID"`
	PeriodID    string          `json:"periodID"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	Balance     decimal.Decimal `json:"balance"`
}

// ToBalanceResponse converts a projection row.
func ToBalanceResponse(g *domain.GeneralLedgerEntry) BalanceResponse {
	return BalanceResponse{
		AccountID:   g.AccountID,
		PeriodID:    g.PeriodID,
		DebitTotal:  g.DebitTotal,
		CreditTotal: g.CreditTotal,
		Balance:     g.Balance,
	}
}

// ToListBalanceResponse converts projection rows.
func ToListBalanceResponse(rows []domain.GeneralLedgerEntry) []BalanceResponse {
	res := make([]BalanceResponse, len(rows))
	for i := range rows {
		res[i] = ToBalanceResponse(&rows[i])
	}
	return res
}

// RebuildProjectionParams selects synchronous or queued rebuild.
type RebuildProjectionParams struct {
	Async bool `form:"async"`
}

// RebuildProjectionResponse reports a projection rebuild.
type RebuildProjectionResponse struct {
	PeriodID     string    `json:"periodID"`
	Rows         int       `json:"rows"`
	Lines        int       `json:"lines"`
	RebuiltAt    time.Time `json:"rebuiltAt"`
	Queued       bool      `json:"queued"`
	QueuedTaskID string    `json:"queuedTaskID,omitempty"`
}

// DiscrepancyResponse is a projection row that differs from its recomputation.
type DiscrepancyResponse struct {
	AccountID string          `json:"accountID"`
	Expected  BalanceResponse `json:"expected"`
	Actual    BalanceResponse `json:"actual"`
}

// VerifyProjectionResponse reports an integrity check of one period's projection.
type VerifyProjectionResponse struct {
	WorkplaceID   string                `json:"workplaceID"`
	PeriodID      string                `json:"periodID"`
	Consistent    bool                  `json:"consistent"`
	Discrepancies []DiscrepancyResponse `json:"discrepancies"`
	CheckedAt     time.Time             `json:"checkedAt"`
}

// ToVerifyProjectionResponse converts discrepancies found for a period.
func ToVerifyProjectionResponse(workplaceID, periodID string, diffs []domain.ProjectionDiscrepancy, at time.Time) VerifyProjectionResponse {
	out := make([]DiscrepancyResponse, len(diffs))
	for i := range diffs {
		out[i] = DiscrepancyResponse{
			AccountID: diffs[i].AccountID,
			Expected:  ToBalanceResponse(&diffs[i].Expected),
			Actual:    ToBalanceResponse(&diffs[i].Actual),
		}
	}
	return VerifyProjectionResponse{
		WorkplaceID:   workplaceID,
		PeriodID:      periodID,
		Consistent:    len(diffs) == 0,
		Discrepancies: out,
		CheckedAt:     at,
	}
}
