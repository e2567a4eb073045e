package domain

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
)

// PeriodType is the granularity of an accounting period.
type PeriodType string

const (
	PeriodMonth   PeriodType = "MONTH"
	PeriodQuarter PeriodType = "QUARTER"
	PeriodYear    PeriodType = "YEAR"
)

// IsValid reports whether t is a known period type.
func (t PeriodType) IsValid() bool {
	return t == PeriodMonth || t == PeriodQuarter || t == PeriodYear
}

// granularity orders period types from finest to coarsest.
func (t PeriodType) granularity() int {
	switch t {
	case PeriodMonth:
		return 0
	case PeriodQuarter:
		return 1
	default:
		return 2
	}
}

// PeriodStatus is the posting gate of a period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is a fiscal period; EndDate is inclusive.
type AccountingPeriod struct {
	PeriodID    string       `json:"periodID"`
	WorkplaceID string       `json:"workplaceID"`
	Name        string       `json:"name"`
	PeriodType  PeriodType   `json:"periodType"`
	FiscalYear  int          `json:"fiscalYear"`
	StartDate   time.Time    `json:"startDate"`
	EndDate     time.Time    `json:"endDate"`
	Status      PeriodStatus `json:"status"`
	ClosedAt    *time.Time   `json:"closedAt,omitempty"`
	ClosedBy    *string      `json:"closedBy,omitempty"`
	AuditFields
}

// ValidateDateRange enforces startDate < endDate.
func ValidateDateRange(start, end time.Time) error {
	if !NormalizeDate(start).Before(NormalizeDate(end)) {
		return apperrors.Invariant(apperrors.CodeInvalidDateRange, "", "start date %s must be before end date %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return nil
}

// IsOpen reports whether the period accepts postings.
func (p AccountingPeriod) IsOpen() bool { return p.Status == PeriodOpen }

// EnsureOpen is the posting gate used by every ledger mutation.
func (p AccountingPeriod) EnsureOpen() error {
	if !p.IsOpen() {
		return apperrors.Invariant(apperrors.CodePeriodClosed, p.PeriodID, "accounting period %s is closed", p.Name)
	}
	return nil
}

// Contains reports whether date falls inside the period (both ends inclusive).
func (p AccountingPeriod) Contains(date time.Time) bool {
	d := NormalizeDate(date)
	return !d.Before(NormalizeDate(p.StartDate)) && !d.After(NormalizeDate(p.EndDate))
}

// Overlaps reports whether the period intersects [start, end].
func (p AccountingPeriod) Overlaps(start, end time.Time) bool {
	return !NormalizeDate(p.StartDate).After(NormalizeDate(end)) && !NormalizeDate(start).After(NormalizeDate(p.EndDate))
}

// Close transitions Open -> Closed.
func (p *AccountingPeriod) Close(actorID string, at time.Time) error {
	if p.Status == PeriodClosed {
		return apperrors.Invariant(apperrors.CodeAlreadyClosed, p.PeriodID, "accounting period %s is already closed", p.Name)
	}
	p.Status = PeriodClosed
	p.ClosedAt = &at
	p.ClosedBy = &actorID
	p.Touch(actorID, at)
	return nil
}

// Reopen transitions Closed -> Open. Entries already posted are not revalidated.
func (p *AccountingPeriod) Reopen(actorID string, at time.Time) error {
	if p.Status != PeriodClosed {
		return apperrors.Invariant(apperrors.CodeNotClosed, p.PeriodID, "accounting period %s is not closed", p.Name)
	}
	p.Status = PeriodOpen
	p.ClosedAt = nil
	p.ClosedBy = nil
	p.Touch(actorID, at)
	return nil
}

// PreferredPeriod picks the finest-grained period among candidates that contain a date,
// whatever its status: a Month beats a Quarter beats a Year. Between periods of the same
// type an open one wins. The caller applies the posting gate to the result.
func PreferredPeriod(candidates []AccountingPeriod) (AccountingPeriod, bool) {
	var best AccountingPeriod
	found := false
	for _, c := range candidates {
		if !found {
			best, found = c, true
			continue
		}
		cg, bg := c.PeriodType.granularity(), best.PeriodType.granularity()
		if cg < bg || (cg == bg && c.IsOpen() && !best.IsOpen()) {
			best = c
		}
	}
	return best, found
}

// ClosedFinerPeriod returns a Closed candidate that is finer-grained than target, if any.
// A date covered by such a period cannot be posted through a coarser open period.
func ClosedFinerPeriod(target AccountingPeriod, candidates []AccountingPeriod) (AccountingPeriod, bool) {
	for _, c := range candidates {
		if c.PeriodID == target.PeriodID || c.IsOpen() {
			continue
		}
		if c.PeriodType.granularity() < target.PeriodType.granularity() {
			return c, true
		}
	}
	return AccountingPeriod{}, false
}
