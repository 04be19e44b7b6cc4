package repositories

import (
	"context"
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// ListEntriesFilter narrows a journal entry listing.
type ListEntriesFilter struct {
	From          *time.Time
	To            *time.Time
	ReferenceType *domain.ReferenceType
	Status        *domain.EntryStatus
	Limit         int
	Offset        int
}

// JournalReader defines read operations for journal entries and lines.
type JournalReader interface {
	// FindJournalEntryByID retrieves a journal entry header by ID.
	FindJournalEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// FindJournalEntryByReference retrieves the entry recorded for a business
	// event, used to keep posting idempotent per reference.
	FindJournalEntryByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) (*domain.JournalEntry, error)

	// FindLinesByJournalID retrieves all lines of a journal entry.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListJournalEntries retrieves entries matching the filter, newest first.
	ListJournalEntries(ctx context.Context, filter ListEntriesFilter) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entries.
type JournalWriter interface {
	// SaveJournalEntry persists an entry and its lines atomically.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntryStatus transitions an entry's lifecycle state and reversal
	// linkage in one statement.
	UpdateEntryStatus(ctx context.Context, journalID string, status domain.EntryStatus, postedAt *time.Time, reversingEntryID *string, updatedBy string, updatedAt time.Time) error

	// SaveReversal persists the reversing entry with its lines and marks the
	// original REVERSED within a single database transaction.
	SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalLine, originalJournalID string, updatedBy string, updatedAt time.Time) error

	// NextEntryNumber reserves the next sequential entry number, JE-YYYY-NNNNNN.
	NextEntryNumber(ctx context.Context, year int) (string, error)
}

// JournalRepository combines journal read and write operations.
type JournalRepository interface {
	JournalReader
	JournalWriter
}
