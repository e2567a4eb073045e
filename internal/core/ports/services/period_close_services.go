package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// PeriodCloseReaderSvc reads period closes
type PeriodCloseReaderSvc interface {
	GetClose(ctx context.Context, workplaceID, closeID string) (*domain.PeriodClose, error)

	// GetCloseForPeriod returns the most recent close of the period.
	GetCloseForPeriod(ctx context.Context, workplaceID, periodID string) (*domain.PeriodClose, error)
}

// PeriodCloseChecklistSvc is pure bookkeeping on the checklist; none of it touches the ledger.
type PeriodCloseChecklistSvc interface {
	CompleteTask(ctx context.Context, workplaceID, closeID, taskName, actorID string) (*domain.PeriodClose, error)
	ReportValidationIssue(ctx context.Context, workplaceID, closeID string, req dto.ReportIssueRequest, actorID string) (*domain.PeriodClose, error)
	ResolveValidationIssue(ctx context.Context, workplaceID, closeID, issueID, actorID string) (*domain.PeriodClose, error)
	AttachTrialBalance(ctx context.Context, workplaceID, closeID, actorID string) (*domain.PeriodClose, error)
}

// PeriodCloseWorkflowSvc drives the close state machine
type PeriodCloseWorkflowSvc interface {
	StartClose(ctx context.Context, workplaceID, periodID string, req dto.StartCloseRequest, actorID string) (*domain.PeriodClose, error)
	TransferNetIncome(ctx context.Context, workplaceID, closeID string, req dto.TransferNetIncomeRequest, actorID string) (*domain.PeriodClose, error)

	// Complete closes the period and the close in one transaction.
	Complete(ctx context.Context, workplaceID, closeID, actorID string) (*domain.PeriodClose, error)
	Reopen(ctx context.Context, workplaceID, closeID, actorID string) (*domain.PeriodClose, error)
	Resume(ctx context.Context, workplaceID, closeID, actorID string) (*domain.PeriodClose, error)
}

// PeriodCloseSvcFacade combines all period close service interfaces
type PeriodCloseSvcFacade interface {
	PeriodCloseReaderSvc
	PeriodCloseChecklistSvc
	PeriodCloseWorkflowSvc
}
