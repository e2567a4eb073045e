package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// OpenPeriodRequest defines the data needed to open an accounting period.
// EndDate is inclusive.
type OpenPeriodRequest struct {
	Name       string            `json:"name" binding:"required,max=100"`
	PeriodType domain.PeriodType `json:"periodType" binding:"required,oneof=MONTH QUARTER YEAR"`
	FiscalYear int               `json:"fiscalYear" binding:"required,min=1900,max=9999"`
	StartDate  time.Time         `json:"startDate" binding:"required"`
	EndDate    time.Time         `json:"endDate" binding:"required"`
}

// ListPeriodsParams defines query parameters for listing periods.
type ListPeriodsParams struct {
	FiscalYear *int `form:"fiscalYear"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID   string              `json:"periodID"`
	Name       string              `json:"name"`
	PeriodType domain.PeriodType   `json:"periodType"`
	FiscalYear int                 `json:"fiscalYear"`
	StartDate  time.Time           `json:"startDate"`
	EndDate    time.Time           `json:"endDate"`
	Status     domain.PeriodStatus `json:"status"`
	ClosedAt   *time.Time          `json:"closedAt,omitempty"`
	ClosedBy   *string             `json:"closedBy,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	CreatedBy  string              `json:"createdBy"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to PeriodResponse DTO
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:   p.PeriodID,
		Name:       p.Name,
		PeriodType: p.PeriodType,
		FiscalYear: p.FiscalYear,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Status:     p.Status,
		ClosedAt:   p.ClosedAt,
		ClosedBy:   p.ClosedBy,
		CreatedAt:  p.CreatedAt,
		CreatedBy:  p.CreatedBy,
	}
}

// ToListPeriodResponse converts periods to response DTOs.
func ToListPeriodResponse(periods []domain.AccountingPeriod) []PeriodResponse {
	res := make([]PeriodResponse, len(periods))
	for i := range periods {
		res[i] = ToPeriodResponse(&periods[i])
	}
	return res
}
