package services

import (
	"context"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/schoolfin/sfm_backend/internal/dto"
)

// PaymentSvcFacade manages student fee payments and fee assignments.
type PaymentSvcFacade interface {
	// CreatePayment records a fee payment as pending. Allocations must sum to
	// the payment amount.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, actor string) (*domain.Payment, error)

	// ConfirmPayment moves a pending payment to confirmed and triggers
	// auto-posting.
	ConfirmPayment(ctx context.Context, paymentID string, actor string) (*domain.Payment, error)

	// CancelPayment cancels a pending payment. Confirmed payments must be
	// refunded instead.
	CancelPayment(ctx context.Context, paymentID string, actor string) (*domain.Payment, error)

	// RefundPayment refunds a confirmed payment and posts the reversal.
	RefundPayment(ctx context.Context, paymentID string, actor string) (*domain.Payment, error)

	// GetPaymentByID retrieves a payment.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves payments matching the filter.
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) ([]domain.Payment, error)

	// CreateFeeAssignment bills a student for a term and posts the
	// receivable.
	CreateFeeAssignment(ctx context.Context, req dto.CreateFeeAssignmentRequest, actor string) (*domain.FeeAssignment, error)

	// GetFeeAssignmentByID retrieves a fee assignment.
	GetFeeAssignmentByID(ctx context.Context, assignmentID string) (*domain.FeeAssignment, error)

	// ListFeeAssignmentsByStudent retrieves a student's fee assignments.
	ListFeeAssignmentsByStudent(ctx context.Context, studentID string) ([]domain.FeeAssignment, error)
}
