package services

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// JournalReaderSvc defines read operations for the journal.
type JournalReaderSvc interface {
	// GetEntryByID retrieves a journal entry with its lines.
	GetEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListEntries retrieves journal entry headers matching the filter.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, error)

	// GetTrialBalance aggregates all posted lines per account as of a date.
	GetTrialBalance(ctx context.Context, params dto.AsOfParams) (*domain.TrialBalance, error)
}

// JournalWriterSvc defines write operations for the journal.
type JournalWriterSvc interface {
	// CreateEntry records a manual journal entry as a draft, or posts it
	// immediately when the request asks for it. Lines must balance.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actor string) (*domain.JournalEntry, error)

	// PostEntry transitions a draft entry to POSTED. Posted entries are
	// immutable; only posting and reversal move them afterwards.
	PostEntry(ctx context.Context, journalID string, actor string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts a reversing entry with swapped legs and
	// marks the original REVERSED.
	ReverseEntry(ctx context.Context, journalID string, reason string, actor string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines journal read and write service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
