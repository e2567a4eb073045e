package domain

import "time"

// EventType names a domain event published after a ledger transaction commits.
type EventType string

const (
	EventJournalEntryPosted    EventType = "JournalEntryPosted"
	EventJournalEntryReversed  EventType = "JournalEntryReversed"
	EventProjectionRebuilt     EventType = "ProjectionRebuilt"
	EventTrialBalanceFinalized EventType = "TrialBalanceFinalized"
	EventTrialBalanceReopened  EventType = "TrialBalanceReopened"
	EventPeriodOpened          EventType = "PeriodOpened"
	EventPeriodClosed          EventType = "PeriodClosed"
	EventPeriodReopened        EventType = "PeriodReopened"
	EventPeriodCloseStarted    EventType = "PeriodCloseStarted"
	EventPeriodCloseCompleted  EventType = "PeriodCloseCompleted"
	EventPeriodCloseReopened   EventType = "PeriodCloseReopened"
)

// Event is an outbound notification for reporting and export subscribers.
type Event struct {
	EventID     string         `json:"eventID"`
	Type        EventType      `json:"type"`
	WorkplaceID string         `json:"workplaceID"`
	AggregateID string         `json:"aggregateID"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Payload     map[string]any `json:"payload,omitempty"`
}
