package services

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/utils/statutory"
	"github.com/shopspring/decimal"
)

// PayrollSvcFacade manages staff records and salary payments.
type PayrollSvcFacade interface {
	// CreateStaff registers a staff member.
	CreateStaff(ctx context.Context, req dto.CreateStaffRequest, actor string) (*domain.StaffMember, error)

	// UpdateStaff updates a staff record.
	UpdateStaff(ctx context.Context, staffID string, req dto.UpdateStaffRequest, actor string) (*domain.StaffMember, error)

	// GetStaffByID retrieves a staff member.
	GetStaffByID(ctx context.Context, staffID string) (*domain.StaffMember, error)

	// ListStaff retrieves staff members, optionally active only.
	ListStaff(ctx context.Context, activeOnly bool) ([]domain.StaffMember, error)

	// PreviewDeductions computes the statutory deductions for a pay without
	// persisting anything.
	PreviewDeductions(ctx context.Context, basic, allowances decimal.Decimal) (*statutory.DeductionsResult, error)

	// CreateSalaryPayment prepares a pending salary payment with computed
	// statutory deductions. Rejects a second payment for a (staff, period)
	// already paid.
	CreateSalaryPayment(ctx context.Context, req dto.CreateSalaryPaymentRequest, actor string) (*domain.SalaryPayment, error)

	// ApproveSalaryPayment moves a pending salary payment to approved.
	ApproveSalaryPayment(ctx context.Context, salaryPaymentID string, actor string) (*domain.SalaryPayment, error)

	// MarkSalaryPaid moves an approved salary payment to paid and triggers
	// auto-posting.
	MarkSalaryPaid(ctx context.Context, salaryPaymentID string, actor string) (*domain.SalaryPayment, error)

	// GetSalaryPaymentByID retrieves a salary payment.
	GetSalaryPaymentByID(ctx context.Context, salaryPaymentID string) (*domain.SalaryPayment, error)

	// ListSalaryPayments retrieves salary payments matching the filter.
	ListSalaryPayments(ctx context.Context, params dto.ListSalaryPaymentsParams) ([]domain.SalaryPayment, error)
}
