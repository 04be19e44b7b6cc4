package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
)

type outboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates a new repository for deferred posting records.
func NewOutboxRepository(pool *pgxpool.Pool) portsrepo.OutboxRepository {
	return &outboxRepository{pool: pool}
}

const pendingPostingColumns = `posting_id, reference_type, reference_id, payload, status, attempts, last_error, last_tried_at, created_at, created_by, last_updated_at, last_updated_by`

func scanPendingPosting(row pgx.Row) (*domain.PendingPosting, error) {
	var p domain.PendingPosting
	err := row.Scan(
		&p.PostingID,
		&p.ReferenceType,
		&p.ReferenceID,
		&p.Payload,
		&p.Status,
		&p.Attempts,
		&p.LastError,
		&p.LastTriedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *outboxRepository) SavePendingPosting(ctx context.Context, posting domain.PendingPosting) error {
	query := `
		INSERT INTO pending_postings (` + pendingPostingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		posting.PostingID,
		posting.ReferenceType,
		posting.ReferenceID,
		posting.Payload,
		posting.Status,
		posting.Attempts,
		posting.LastError,
		posting.LastTriedAt,
		posting.CreatedAt,
		posting.CreatedBy,
		posting.LastUpdatedAt,
		posting.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pending posting for %s %s", apperrors.ErrDuplicate, posting.ReferenceType, posting.ReferenceID)
		}
		return fmt.Errorf("failed to save pending posting for %s %s: %w", posting.ReferenceType, posting.ReferenceID, err)
	}
	return nil
}

func (r *outboxRepository) UpdatePendingPosting(ctx context.Context, posting domain.PendingPosting) error {
	query := `
		UPDATE pending_postings
		SET payload = $2, status = $3, attempts = $4, last_error = $5, last_tried_at = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE posting_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		posting.PostingID,
		posting.Payload,
		posting.Status,
		posting.Attempts,
		posting.LastError,
		posting.LastTriedAt,
		posting.LastUpdatedAt,
		posting.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update pending posting %s: %w", posting.PostingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *outboxRepository) FindPendingPostingByID(ctx context.Context, postingID string) (*domain.PendingPosting, error) {
	query := `SELECT ` + pendingPostingColumns + ` FROM pending_postings WHERE posting_id = $1;`
	p, err := scanPendingPosting(r.pool.QueryRow(ctx, query, postingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending posting %s: %w", postingID, err)
	}
	return p, nil
}

func (r *outboxRepository) FindPendingPostingByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) (*domain.PendingPosting, error) {
	query := `
		SELECT ` + pendingPostingColumns + `
		FROM pending_postings
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at DESC
		LIMIT 1;
	`
	p, err := scanPendingPosting(r.pool.QueryRow(ctx, query, referenceType, referenceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending posting for %s %s: %w", referenceType, referenceID, err)
	}
	return p, nil
}

func (r *outboxRepository) ListPendingPostings(ctx context.Context, limit, offset int) ([]domain.PendingPosting, error) {
	query := `
		SELECT ` + pendingPostingColumns + `
		FROM pending_postings
		WHERE status <> 'POSTED'
		ORDER BY created_at
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending postings: %w", err)
	}
	defer rows.Close()

	var postings []domain.PendingPosting
	for rows.Next() {
		p, err := scanPendingPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending posting row: %w", err)
		}
		postings = append(postings, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading pending posting rows: %w", err)
	}
	return postings, nil
}
