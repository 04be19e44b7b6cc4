package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
)

type payrollRepository struct {
	pool *pgxpool.Pool
}

// NewPayrollRepository creates a new repository for staff and salary payments.
func NewPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepository {
	return &payrollRepository{pool: pool}
}

const staffColumns = `staff_id, staff_number, surname, firstname, position, department, employment_type, employment_date, basic_salary, allowances, bank_name, account_number, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanStaff(row pgx.Row) (*domain.StaffMember, error) {
	var s domain.StaffMember
	var allowances []byte
	err := row.Scan(
		&s.StaffID,
		&s.StaffNumber,
		&s.Surname,
		&s.Firstname,
		&s.Position,
		&s.Department,
		&s.EmploymentType,
		&s.EmploymentDate,
		&s.BasicSalary,
		&allowances,
		&s.BankName,
		&s.AccountNumber,
		&s.IsActive,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(allowances) > 0 {
		if err := json.Unmarshal(allowances, &s.Allowances); err != nil {
			return nil, fmt.Errorf("failed to decode allowances of staff %s: %w", s.StaffID, err)
		}
	}
	return &s, nil
}

func (r *payrollRepository) SaveStaff(ctx context.Context, staff domain.StaffMember) error {
	allowances, err := json.Marshal(staff.Allowances)
	if err != nil {
		return fmt.Errorf("failed to encode allowances of staff %s: %w", staff.StaffNumber, err)
	}

	query := `
		INSERT INTO staff (` + staffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = r.pool.Exec(ctx, query,
		staff.StaffID,
		staff.StaffNumber,
		staff.Surname,
		staff.Firstname,
		staff.Position,
		staff.Department,
		staff.EmploymentType,
		staff.EmploymentDate,
		staff.BasicSalary,
		allowances,
		staff.BankName,
		staff.AccountNumber,
		staff.IsActive,
		staff.CreatedAt,
		staff.CreatedBy,
		staff.LastUpdatedAt,
		staff.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: staff number %s", apperrors.ErrDuplicate, staff.StaffNumber)
		}
		return fmt.Errorf("failed to save staff %s: %w", staff.StaffNumber, err)
	}
	return nil
}

func (r *payrollRepository) UpdateStaff(ctx context.Context, staff domain.StaffMember) error {
	allowances, err := json.Marshal(staff.Allowances)
	if err != nil {
		return fmt.Errorf("failed to encode allowances of staff %s: %w", staff.StaffID, err)
	}

	query := `
		UPDATE staff
		SET surname = $2, firstname = $3, position = $4, department = $5, employment_type = $6,
		    basic_salary = $7, allowances = $8, bank_name = $9, account_number = $10, is_active = $11,
		    last_updated_at = $12, last_updated_by = $13
		WHERE staff_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		staff.StaffID,
		staff.Surname,
		staff.Firstname,
		staff.Position,
		staff.Department,
		staff.EmploymentType,
		staff.BasicSalary,
		allowances,
		staff.BankName,
		staff.AccountNumber,
		staff.IsActive,
		staff.LastUpdatedAt,
		staff.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff %s: %w", staff.StaffID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *payrollRepository) FindStaffByID(ctx context.Context, staffID string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE staff_id = $1;`
	s, err := scanStaff(r.pool.QueryRow(ctx, query, staffID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staff %s: %w", staffID, err)
	}
	return s, nil
}

func (r *payrollRepository) FindStaffByNumber(ctx context.Context, staffNumber string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE staff_number = $1;`
	s, err := scanStaff(r.pool.QueryRow(ctx, query, staffNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staff by number %s: %w", staffNumber, err)
	}
	return s, nil
}

func (r *payrollRepository) ListStaff(ctx context.Context, activeOnly bool) ([]domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY staff_number;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var members []domain.StaffMember
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff row: %w", err)
		}
		members = append(members, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading staff rows: %w", err)
	}
	return members, nil
}

const salaryColumns = `salary_payment_id, staff_id, staff_name, staff_number, payment_date, period_start, period_end, basic_salary, allowances, deductions, gross_salary, net_salary, method, reference, status, processed_by, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanSalaryPayment(row pgx.Row) (*domain.SalaryPayment, error) {
	var p domain.SalaryPayment
	var allowances, deductions []byte
	err := row.Scan(
		&p.SalaryPaymentID,
		&p.StaffID,
		&p.StaffName,
		&p.StaffNumber,
		&p.PaymentDate,
		&p.PeriodStart,
		&p.PeriodEnd,
		&p.BasicSalary,
		&allowances,
		&deductions,
		&p.GrossSalary,
		&p.NetSalary,
		&p.Method,
		&p.Reference,
		&p.Status,
		&p.ProcessedBy,
		&p.Notes,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(allowances) > 0 {
		if err := json.Unmarshal(allowances, &p.Allowances); err != nil {
			return nil, fmt.Errorf("failed to decode allowances of salary payment %s: %w", p.SalaryPaymentID, err)
		}
	}
	if len(deductions) > 0 {
		if err := json.Unmarshal(deductions, &p.Deductions); err != nil {
			return nil, fmt.Errorf("failed to decode deductions of salary payment %s: %w", p.SalaryPaymentID, err)
		}
	}
	return &p, nil
}

func (r *payrollRepository) SaveSalaryPayment(ctx context.Context, payment domain.SalaryPayment) error {
	allowances, err := json.Marshal(payment.Allowances)
	if err != nil {
		return fmt.Errorf("failed to encode allowances of salary payment %s: %w", payment.Reference, err)
	}
	deductions, err := json.Marshal(payment.Deductions)
	if err != nil {
		return fmt.Errorf("failed to encode deductions of salary payment %s: %w", payment.Reference, err)
	}

	query := `
		INSERT INTO salary_payments (` + salaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err = r.pool.Exec(ctx, query,
		payment.SalaryPaymentID,
		payment.StaffID,
		payment.StaffName,
		payment.StaffNumber,
		payment.PaymentDate,
		payment.PeriodStart,
		payment.PeriodEnd,
		payment.BasicSalary,
		allowances,
		deductions,
		payment.GrossSalary,
		payment.NetSalary,
		payment.Method,
		payment.Reference,
		payment.Status,
		payment.ProcessedBy,
		payment.Notes,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: salary payment %s", apperrors.ErrDuplicate, payment.Reference)
		}
		return fmt.Errorf("failed to save salary payment %s: %w", payment.Reference, err)
	}
	return nil
}

func (r *payrollRepository) UpdateSalaryPayment(ctx context.Context, payment domain.SalaryPayment) error {
	query := `
		UPDATE salary_payments
		SET status = $2, payment_date = $3, notes = $4, last_updated_at = $5, last_updated_by = $6
		WHERE salary_payment_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		payment.SalaryPaymentID,
		payment.Status,
		payment.PaymentDate,
		payment.Notes,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: salary already paid for this period", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update salary payment %s: %w", payment.SalaryPaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *payrollRepository) FindSalaryPaymentByID(ctx context.Context, salaryPaymentID string) (*domain.SalaryPayment, error) {
	query := `SELECT ` + salaryColumns + ` FROM salary_payments WHERE salary_payment_id = $1;`
	p, err := scanSalaryPayment(r.pool.QueryRow(ctx, query, salaryPaymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find salary payment %s: %w", salaryPaymentID, err)
	}
	return p, nil
}

// FindPaidSalaryForPeriod enforces the one-paid-salary-per-period rule at
// creation time; the partial unique index backs it up under concurrency.
func (r *payrollRepository) FindPaidSalaryForPeriod(ctx context.Context, staffID string, periodStart, periodEnd time.Time) (*domain.SalaryPayment, error) {
	query := `
		SELECT ` + salaryColumns + `
		FROM salary_payments
		WHERE staff_id = $1 AND period_start = $2 AND period_end = $3 AND status = 'paid'
		LIMIT 1;
	`
	p, err := scanSalaryPayment(r.pool.QueryRow(ctx, query, staffID, periodStart, periodEnd))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find paid salary for staff %s: %w", staffID, err)
	}
	return p, nil
}

func (r *payrollRepository) ListSalaryPayments(ctx context.Context, filter portsrepo.ListSalariesFilter) ([]domain.SalaryPayment, error) {
	query := `SELECT ` + salaryColumns + ` FROM salary_payments WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.StaffID != nil {
		query += fmt.Sprintf(" AND staff_id = $%d", idx)
		args = append(args, *filter.StaffID)
		idx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND period_start >= $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND period_end <= $%d", idx)
		args = append(args, *filter.To)
		idx++
	}

	query += fmt.Sprintf(" ORDER BY period_start DESC, created_at DESC LIMIT $%d OFFSET $%d;", idx, idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.SalaryPayment
	for rows.Next() {
		p, err := scanSalaryPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary payment row: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading salary payment rows: %w", err)
	}
	return payments, nil
}
