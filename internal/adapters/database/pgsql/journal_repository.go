package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
)

type journalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new repository for journal entries and lines.
func NewJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &journalRepository{pool: pool}
}

const journalColumns = `journal_id, entry_number, entry_date, description, reference_type, reference_id, status, posted_at, reversing_entry_id, original_journal_id, created_at, created_by, last_updated_at, last_updated_by`

func scanJournalEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.JournalID,
		&e.EntryNumber,
		&e.EntryDate,
		&e.Description,
		&e.ReferenceType,
		&e.ReferenceID,
		&e.Status,
		&e.PostedAt,
		&e.ReversingEntryID,
		&e.OriginalJournalID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// insertEntry writes the header and batches the line inserts inside tx.
func insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	entryQuery := `
		INSERT INTO journal_entries (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.JournalID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		entry.ReferenceType,
		entry.ReferenceID,
		entry.Status,
		entry.PostedAt,
		entry.ReversingEntryID,
		entry.OriginalJournalID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry for %s %s", apperrors.ErrDuplicate, entry.ReferenceType, entry.ReferenceID)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryNumber, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (line_id, journal_id, account_id, account_code, account_name, debit, credit, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			entry.JournalID,
			line.AccountID,
			line.AccountCode,
			line.AccountName,
			line.Debit,
			line.Credit,
			line.Description,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert journal line: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close line batch: %w", err)
	}
	return nil
}

func (r *journalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertEntry(ctx, tx, entry, lines); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit journal entry %s: %w", entry.EntryNumber, err)
	}
	return nil
}

func (r *journalRepository) UpdateEntryStatus(ctx context.Context, journalID string, status domain.EntryStatus, postedAt *time.Time, reversingEntryID *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2,
		    posted_at = COALESCE($3, posted_at),
		    reversing_entry_id = COALESCE($4, reversing_entry_id),
		    last_updated_by = $5,
		    last_updated_at = $6
		WHERE journal_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, journalID, status, postedAt, reversingEntryID, updatedBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update status of journal entry %s: %w", journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *journalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalLine, originalJournalID string, updatedBy string, updatedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertEntry(ctx, tx, reversing, lines); err != nil {
		return err
	}

	markQuery := `
		UPDATE journal_entries
		SET status = $2, reversing_entry_id = $3, last_updated_by = $4, last_updated_at = $5
		WHERE journal_id = $1 AND status = $6;
	`
	tag, err := tx.Exec(ctx, markQuery, originalJournalID, domain.Reversed, reversing.JournalID, updatedBy, updatedAt, domain.Posted)
	if err != nil {
		return fmt.Errorf("failed to mark journal entry %s reversed: %w", originalJournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not posted", apperrors.ErrConflict, originalJournalID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reversal of %s: %w", originalJournalID, err)
	}
	return nil
}

// NextEntryNumber reserves the next sequential number for the year using an
// upsert on the per-year counter row.
func (r *journalRepository) NextEntryNumber(ctx context.Context, year int) (string, error) {
	query := `
		INSERT INTO journal_entry_counters (year, counter)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET counter = journal_entry_counters.counter + 1
		RETURNING counter;
	`
	var counter int64
	if err := r.pool.QueryRow(ctx, query, year).Scan(&counter); err != nil {
		return "", fmt.Errorf("failed to reserve entry number for %d: %w", year, err)
	}
	return fmt.Sprintf("JE-%d-%06d", year, counter), nil
}

func (r *journalRepository) FindJournalEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE journal_id = $1;`
	entry, err := scanJournalEntry(r.pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", journalID, err)
	}
	return entry, nil
}

func (r *journalRepository) FindJournalEntryByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at
		LIMIT 1;
	`
	entry, err := scanJournalEntry(r.pool.QueryRow(ctx, query, referenceType, referenceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry for %s %s: %w", referenceType, referenceID, err)
	}
	return entry, nil
}

func (r *journalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, journal_id, account_id, account_code, account_name, debit, credit, description
		FROM journal_lines
		WHERE journal_id = $1
		ORDER BY account_code;
	`
	rows, err := r.pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of journal entry %s: %w", journalID, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var l domain.JournalLine
		err := rows.Scan(&l.LineID, &l.JournalID, &l.AccountID, &l.AccountCode, &l.AccountName, &l.Debit, &l.Credit, &l.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal lines: %w", err)
	}
	return lines, nil
}

func (r *journalRepository) ListJournalEntries(ctx context.Context, filter portsrepo.ListEntriesFilter) ([]domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.From != nil {
		query += fmt.Sprintf(" AND entry_date >= $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND entry_date <= $%d", idx)
		args = append(args, *filter.To)
		idx++
	}
	if filter.ReferenceType != nil {
		query += fmt.Sprintf(" AND reference_type = $%d", idx)
		args = append(args, *filter.ReferenceType)
		idx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *filter.Status)
		idx++
	}

	query += fmt.Sprintf(" ORDER BY entry_date DESC, entry_number DESC LIMIT $%d OFFSET $%d;", idx, idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal entries: %w", err)
	}
	return entries, nil
}
