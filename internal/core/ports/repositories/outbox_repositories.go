package repositories

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// OutboxRepository defines persistence operations for posting attempts that
// could not be completed inline and await retry.
type OutboxRepository interface {
	// SavePendingPosting records a failed or deferred posting attempt.
	SavePendingPosting(ctx context.Context, posting domain.PendingPosting) error

	// FindPendingPostingByID retrieves a pending posting.
	FindPendingPostingByID(ctx context.Context, postingID string) (*domain.PendingPosting, error)

	// FindPendingPostingByReference retrieves the pending posting recorded for
	// a business event, if any.
	FindPendingPostingByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) (*domain.PendingPosting, error)

	// ListPendingPostings retrieves postings still awaiting a successful
	// retry, oldest first.
	ListPendingPostings(ctx context.Context, limit, offset int) ([]domain.PendingPosting, error)

	// UpdatePendingPosting updates a posting's status, attempt count and last
	// error after a retry.
	UpdatePendingPosting(ctx context.Context, posting domain.PendingPosting) error
}
