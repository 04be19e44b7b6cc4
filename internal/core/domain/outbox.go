package domain

import "time"

// PostingStatus is the state of a recorded auto-posting attempt.
type PostingStatus string

const (
	PostingPendingStatus PostingStatus = "PENDING"
	PostingPostedStatus  PostingStatus = "POSTED"
	PostingFailedStatus  PostingStatus = "FAILED"
)

// PendingPosting records an auto-posting that failed after its primary
// business operation succeeded. The business record stays committed; the
// missing ledger shadow is surfaced by the reconciliation report and can be
// retried idempotently.
type PendingPosting struct {
	PostingID     string        `json:"postingID"` // Primary key (UUID)
	ReferenceType ReferenceType `json:"referenceType"`
	ReferenceID   string        `json:"referenceID"`
	Payload       []byte        `json:"payload"` // JSON snapshot of the posting request
	Status        PostingStatus `json:"status"`
	Attempts      int           `json:"attempts"`
	LastError     string        `json:"lastError"`
	LastTriedAt   *time.Time    `json:"lastTriedAt,omitempty"`
	AuditFields
}
