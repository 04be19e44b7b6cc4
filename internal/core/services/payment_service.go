package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
	"github.com/schoolfin/sfm_backend/internal/utils/reference"
)

// maxCashPaymentAmount is the school's policy ceiling for a single cash
// payment; anything larger must come in through a bank channel.
var maxCashPaymentAmount = decimal.NewFromInt(500_000)

// paymentService manages student fee payments and fee assignments, handing
// confirmed money movements to the posting engine.
type paymentService struct {
	paymentRepo portsrepo.PaymentRepository
	postingSvc  portssvc.PostingSvc
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepository, postingSvc portssvc.PostingSvc) portssvc.PaymentSvcFacade {
	return &paymentService{paymentRepo: paymentRepo, postingSvc: postingSvc}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayment records a fee payment as pending. Allocations must cover
// known fee types and sum to the payment amount exactly.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, actor string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	method := domain.PaymentMethod(req.Method)
	if !domain.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.Method)
	}
	if method == domain.MethodCash && req.Amount.GreaterThan(maxCashPaymentAmount) {
		return nil, fmt.Errorf("%w: cash payments are capped at %s", apperrors.ErrValidation, maxCashPaymentAmount)
	}

	allocations := make([]domain.PaymentAllocation, len(req.Allocations))
	allocated := decimal.Zero
	for i, a := range req.Allocations {
		if !domain.ValidFeeType(a.FeeType) {
			return nil, fmt.Errorf("%w: unknown fee type %q", apperrors.ErrValidation, a.FeeType)
		}
		if !a.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: allocation amount for %q must be positive", apperrors.ErrValidation, a.FeeType)
		}
		allocations[i] = domain.PaymentAllocation{FeeType: a.FeeType, Amount: a.Amount}
		allocated = allocated.Add(a.Amount)
	}
	if !allocated.Equal(req.Amount) {
		return nil, fmt.Errorf("%w: allocations total %s does not match payment amount %s", apperrors.ErrValidation, allocated, req.Amount)
	}

	now := time.Now().UTC()
	ref, err := reference.NewPaymentReference(now)
	if err != nil {
		return nil, fmt.Errorf("generating payment reference: %w", err)
	}

	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		ClassID:     req.ClassID,
		Amount:      req.Amount,
		Method:      method,
		PaymentDate: req.PaymentDate,
		Allocations: allocations,
		Reference:   ref,
		PaidBy:      req.PaidBy,
		Status:      domain.PaymentPending,
		Notes:       req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("reference", payment.Reference),
		slog.String("amount", payment.Amount.String()),
	)
	return &payment, nil
}

// transitionPayment moves a payment between lifecycle states.
func (s *paymentService) transitionPayment(ctx context.Context, paymentID string, to domain.PaymentStatus, actor string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionPayment(payment.Status, to) {
		return nil, fmt.Errorf("%w: payment %s cannot move from %s to %s", apperrors.ErrConflict, payment.Reference, payment.Status, to)
	}

	payment.Status = to
	payment.LastUpdatedAt = time.Now().UTC()
	payment.LastUpdatedBy = actor
	if err := s.paymentRepo.UpdatePayment(ctx, *payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ConfirmPayment moves a pending payment to confirmed and posts it. The
// confirmation stands even if posting is deferred; the reconciliation report
// picks up the gap.
func (s *paymentService) ConfirmPayment(ctx context.Context, paymentID string, actor string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.transitionPayment(ctx, paymentID, domain.PaymentConfirmed, actor)
	if err != nil {
		return nil, err
	}

	if _, postErr := s.postingSvc.PostStudentPayment(ctx, *payment, actor); postErr != nil {
		logger.Error("Payment confirmed but posting deferred",
			slog.String("payment_id", payment.PaymentID),
			slog.String("reference", payment.Reference),
			slog.String("error", postErr.Error()),
		)
	}
	return payment, nil
}

// CancelPayment cancels a pending payment. Nothing was posted, so nothing is
// reversed.
func (s *paymentService) CancelPayment(ctx context.Context, paymentID string, actor string) (*domain.Payment, error) {
	return s.transitionPayment(ctx, paymentID, domain.PaymentCancelled, actor)
}

// RefundPayment refunds a confirmed payment and posts the ledger reversal.
func (s *paymentService) RefundPayment(ctx context.Context, paymentID string, actor string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.transitionPayment(ctx, paymentID, domain.PaymentRefunded, actor)
	if err != nil {
		return nil, err
	}

	if _, postErr := s.postingSvc.PostPaymentRefund(ctx, *payment, actor); postErr != nil {
		logger.Error("Payment refunded but reversal deferred",
			slog.String("payment_id", payment.PaymentID),
			slog.String("reference", payment.Reference),
			slog.String("error", postErr.Error()),
		)
	}
	return payment, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.paymentRepo.FindPaymentByID(ctx, paymentID)
}

func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) ([]domain.Payment, error) {
	filter := portsrepo.ListPaymentsFilter{
		StudentID: params.StudentID,
		From:      params.From,
		To:        params.To,
		Limit:     params.Limit,
		Offset:    params.Offset,
	}
	if params.Status != nil {
		st := domain.PaymentStatus(*params.Status)
		filter.Status = &st
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.paymentRepo.ListPayments(ctx, filter)
}

// CreateFeeAssignment bills a student for a term and posts the receivable.
func (s *paymentService) CreateFeeAssignment(ctx context.Context, req dto.CreateFeeAssignmentRequest, actor string) (*domain.FeeAssignment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	items := make([]domain.FeeAllocationItem, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		if !domain.ValidFeeType(item.FeeType) {
			return nil, fmt.Errorf("%w: unknown fee type %q", apperrors.ErrValidation, item.FeeType)
		}
		if !item.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: fee amount for %q must be positive", apperrors.ErrValidation, item.FeeType)
		}
		items[i] = domain.FeeAllocationItem{FeeType: item.FeeType, Amount: item.Amount}
		total = total.Add(item.Amount)
	}

	now := time.Now().UTC()
	assignment := domain.FeeAssignment{
		AssignmentID: uuid.NewString(),
		StudentID:    req.StudentID,
		StudentName:  req.StudentName,
		ClassID:      req.ClassID,
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
		Items:        items,
		TotalAmount:  total,
		AmountPaid:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.paymentRepo.SaveFeeAssignment(ctx, assignment); err != nil {
		return nil, err
	}

	if _, postErr := s.postingSvc.PostFeeAssignment(ctx, assignment, actor); postErr != nil {
		logger.Error("Fee assignment recorded but posting deferred",
			slog.String("assignment_id", assignment.AssignmentID),
			slog.String("error", postErr.Error()),
		)
	}

	logger.Info("Fee assignment created",
		slog.String("assignment_id", assignment.AssignmentID),
		slog.String("student_id", assignment.StudentID),
		slog.String("total", assignment.TotalAmount.String()),
	)
	return &assignment, nil
}

func (s *paymentService) GetFeeAssignmentByID(ctx context.Context, assignmentID string) (*domain.FeeAssignment, error) {
	return s.paymentRepo.FindFeeAssignmentByID(ctx, assignmentID)
}

func (s *paymentService) ListFeeAssignmentsByStudent(ctx context.Context, studentID string) ([]domain.FeeAssignment, error) {
	return s.paymentRepo.ListFeeAssignmentsByStudent(ctx, studentID)
}
