package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
)

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new repository for payments and fee assignments.
func NewPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `payment_id, student_id, student_name, class_id, amount, method, payment_date, allocations, reference, paid_by, status, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var allocations []byte
	err := row.Scan(
		&p.PaymentID,
		&p.StudentID,
		&p.StudentName,
		&p.ClassID,
		&p.Amount,
		&p.Method,
		&p.PaymentDate,
		&allocations,
		&p.Reference,
		&p.PaidBy,
		&p.Status,
		&p.Notes,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(allocations) > 0 {
		if err := json.Unmarshal(allocations, &p.Allocations); err != nil {
			return nil, fmt.Errorf("failed to decode allocations of payment %s: %w", p.PaymentID, err)
		}
	}
	return &p, nil
}

func (r *paymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	allocations, err := json.Marshal(payment.Allocations)
	if err != nil {
		return fmt.Errorf("failed to encode allocations of payment %s: %w", payment.Reference, err)
	}

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = r.pool.Exec(ctx, query,
		payment.PaymentID,
		payment.StudentID,
		payment.StudentName,
		payment.ClassID,
		payment.Amount,
		payment.Method,
		payment.PaymentDate,
		allocations,
		payment.Reference,
		payment.PaidBy,
		payment.Status,
		payment.Notes,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment reference %s", apperrors.ErrDuplicate, payment.Reference)
		}
		return fmt.Errorf("failed to save payment %s: %w", payment.Reference, err)
	}
	return nil
}

func (r *paymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $2, notes = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		payment.PaymentID,
		payment.Status,
		payment.Notes,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	p, err := scanPayment(r.pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return p, nil
}

func (r *paymentRepository) FindPaymentByReference(ctx context.Context, ref string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1;`
	p, err := scanPayment(r.pool.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by reference %s: %w", ref, err)
	}
	return p, nil
}

func (r *paymentRepository) ListPayments(ctx context.Context, filter portsrepo.ListPaymentsFilter) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.StudentID != nil {
		query += fmt.Sprintf(" AND student_id = $%d", idx)
		args = append(args, *filter.StudentID)
		idx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND payment_date >= $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND payment_date <= $%d", idx)
		args = append(args, *filter.To)
		idx++
	}

	query += fmt.Sprintf(" ORDER BY payment_date DESC, created_at DESC LIMIT $%d OFFSET $%d;", idx, idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading payment rows: %w", err)
	}
	return payments, nil
}

const assignmentColumns = `assignment_id, student_id, student_name, class_id, academic_year, term, items, total_amount, amount_paid, created_at, created_by, last_updated_at, last_updated_by`

func scanFeeAssignment(row pgx.Row) (*domain.FeeAssignment, error) {
	var a domain.FeeAssignment
	var items []byte
	err := row.Scan(
		&a.AssignmentID,
		&a.StudentID,
		&a.StudentName,
		&a.ClassID,
		&a.AcademicYear,
		&a.Term,
		&items,
		&a.TotalAmount,
		&a.AmountPaid,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &a.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items of fee assignment %s: %w", a.AssignmentID, err)
		}
	}
	return &a, nil
}

func (r *paymentRepository) SaveFeeAssignment(ctx context.Context, assignment domain.FeeAssignment) error {
	items, err := json.Marshal(assignment.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items of fee assignment %s: %w", assignment.AssignmentID, err)
	}

	query := `
		INSERT INTO fee_assignments (` + assignmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = r.pool.Exec(ctx, query,
		assignment.AssignmentID,
		assignment.StudentID,
		assignment.StudentName,
		assignment.ClassID,
		assignment.AcademicYear,
		assignment.Term,
		items,
		assignment.TotalAmount,
		assignment.AmountPaid,
		assignment.CreatedAt,
		assignment.CreatedBy,
		assignment.LastUpdatedAt,
		assignment.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: fee assignment for student %s, %s %s term", apperrors.ErrDuplicate, assignment.StudentID, assignment.AcademicYear, assignment.Term)
		}
		return fmt.Errorf("failed to save fee assignment %s: %w", assignment.AssignmentID, err)
	}
	return nil
}

func (r *paymentRepository) UpdateFeeAssignment(ctx context.Context, assignment domain.FeeAssignment) error {
	query := `
		UPDATE fee_assignments
		SET amount_paid = $2, last_updated_at = $3, last_updated_by = $4
		WHERE assignment_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		assignment.AssignmentID,
		assignment.AmountPaid,
		assignment.LastUpdatedAt,
		assignment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update fee assignment %s: %w", assignment.AssignmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) FindFeeAssignmentByID(ctx context.Context, assignmentID string) (*domain.FeeAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM fee_assignments WHERE assignment_id = $1;`
	a, err := scanFeeAssignment(r.pool.QueryRow(ctx, query, assignmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fee assignment %s: %w", assignmentID, err)
	}
	return a, nil
}

func (r *paymentRepository) ListFeeAssignmentsByStudent(ctx context.Context, studentID string) ([]domain.FeeAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM fee_assignments
		WHERE student_id = $1
		ORDER BY academic_year DESC, term;
	`
	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee assignments for student %s: %w", studentID, err)
	}
	defer rows.Close()

	var assignments []domain.FeeAssignment
	for rows.Next() {
		a, err := scanFeeAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fee assignment row: %w", err)
		}
		assignments = append(assignments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading fee assignment rows: %w", err)
	}
	return assignments, nil
}
