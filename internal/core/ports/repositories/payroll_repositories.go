package repositories

import (
	"context"
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// ListSalariesFilter narrows a salary payment listing.
type ListSalariesFilter struct {
	StaffID *string
	Status  *domain.SalaryStatus
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// PayrollRepository defines persistence operations for staff and salary payments.
type PayrollRepository interface {
	// SaveStaff persists a new staff member. Returns apperrors.ErrDuplicate
	// when the staff number is already taken.
	SaveStaff(ctx context.Context, staff domain.StaffMember) error

	// FindStaffByID retrieves a staff member by unique identifier.
	FindStaffByID(ctx context.Context, staffID string) (*domain.StaffMember, error)

	// FindStaffByNumber retrieves a staff member by staff number.
	FindStaffByNumber(ctx context.Context, staffNumber string) (*domain.StaffMember, error)

	// ListStaff retrieves staff members, optionally active only.
	ListStaff(ctx context.Context, activeOnly bool) ([]domain.StaffMember, error)

	// UpdateStaff updates a staff record.
	UpdateStaff(ctx context.Context, staff domain.StaffMember) error

	// SaveSalaryPayment persists a new salary payment. Returns
	// apperrors.ErrDuplicate when the reference is taken or a paid salary for
	// the same staff and period already exists (composite unique index).
	SaveSalaryPayment(ctx context.Context, payment domain.SalaryPayment) error

	// FindSalaryPaymentByID retrieves a salary payment.
	FindSalaryPaymentByID(ctx context.Context, salaryPaymentID string) (*domain.SalaryPayment, error)

	// FindPaidSalaryForPeriod looks for an existing paid salary for the same
	// staff member and pay period.
	FindPaidSalaryForPeriod(ctx context.Context, staffID string, periodStart, periodEnd time.Time) (*domain.SalaryPayment, error)

	// ListSalaryPayments retrieves salary payments matching the filter.
	ListSalaryPayments(ctx context.Context, filter ListSalariesFilter) ([]domain.SalaryPayment, error)

	// UpdateSalaryPayment updates a salary payment record.
	UpdateSalaryPayment(ctx context.Context, payment domain.SalaryPayment) error
}
