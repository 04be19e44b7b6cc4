package repositories

import (
	"context"
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// ListPaymentsFilter narrows a payment listing.
type ListPaymentsFilter struct {
	StudentID *string
	Status    *domain.PaymentStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// PaymentRepository defines persistence operations for payments and fee assignments.
type PaymentRepository interface {
	// SavePayment persists a new payment. Returns apperrors.ErrDuplicate when
	// the reference is already taken.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// FindPaymentByID retrieves a payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentByReference retrieves a payment by its PAY-YYYY-XXXXXXXX reference.
	FindPaymentByReference(ctx context.Context, ref string) (*domain.Payment, error)

	// ListPayments retrieves payments matching the filter, newest first.
	ListPayments(ctx context.Context, filter ListPaymentsFilter) ([]domain.Payment, error)

	// UpdatePayment updates a payment record.
	UpdatePayment(ctx context.Context, payment domain.Payment) error

	// SaveFeeAssignment persists a new fee assignment.
	SaveFeeAssignment(ctx context.Context, assignment domain.FeeAssignment) error

	// FindFeeAssignmentByID retrieves a fee assignment.
	FindFeeAssignmentByID(ctx context.Context, assignmentID string) (*domain.FeeAssignment, error)

	// ListFeeAssignmentsByStudent retrieves a student's fee assignments.
	ListFeeAssignmentsByStudent(ctx context.Context, studentID string) ([]domain.FeeAssignment, error)

	// UpdateFeeAssignment updates a fee assignment (e.g. amountPaid).
	UpdateFeeAssignment(ctx context.Context, assignment domain.FeeAssignment) error
}
