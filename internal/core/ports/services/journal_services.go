package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	GetEntry(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, workplaceID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines the draft and posting lifecycle of journal entries
type JournalWriterSvc interface {
	CreateDraft(ctx context.Context, workplaceID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)
	UpdateDraft(ctx context.Context, workplaceID, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)
	DeleteDraft(ctx context.Context, workplaceID, entryID, actorID string) error

	// Post moves a balanced draft to Posted and updates the projection in the same transaction.
	Post(ctx context.Context, workplaceID, entryID, actorID string) (*domain.JournalEntry, error)

	// Reverse posts a new entry with every line swapped and returns it.
	Reverse(ctx context.Context, workplaceID, entryID string, req dto.ReverseJournalEntryRequest, actorID string) (*domain.JournalEntry, error)
}

// JournalPosterSvc creates and posts a system-generated entry inside the caller's unit of work.
type JournalPosterSvc interface {
	PostNewEntryInTx(ctx context.Context, repos portsrepo.TxRepositories, entry domain.JournalEntry, actorID string, at time.Time) (*domain.JournalEntry, []domain.Event, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalPosterSvc
}
