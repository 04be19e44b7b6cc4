package dto

import (
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationRequest splits a payment amount across fee types.
type AllocationRequest struct {
	FeeType string          `json:"feeType" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// CreatePaymentRequest records a student fee payment. Allocation amounts must
// sum to the payment amount.
type CreatePaymentRequest struct {
	StudentID   string              `json:"studentID" binding:"required"`
	StudentName string              `json:"studentName" binding:"required"`
	ClassID     string              `json:"classID"`
	Amount      decimal.Decimal     `json:"amount" binding:"required"`
	Method      string              `json:"method" binding:"required,oneof=cash bank_transfer pos online cheque"`
	PaymentDate time.Time           `json:"paymentDate" binding:"required"`
	Allocations []AllocationRequest `json:"allocations" binding:"required,min=1,dive"`
	PaidBy      string              `json:"paidBy"`
	Notes       string              `json:"notes"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID   string                     `json:"paymentID"`
	StudentID   string                     `json:"studentID"`
	StudentName string                     `json:"studentName"`
	ClassID     string                     `json:"classID"`
	Amount      decimal.Decimal            `json:"amount"`
	Method      domain.PaymentMethod       `json:"method"`
	PaymentDate time.Time                  `json:"paymentDate"`
	Allocations []domain.PaymentAllocation `json:"allocations"`
	Reference   string                     `json:"reference"`
	PaidBy      string                     `json:"paidBy"`
	Status      domain.PaymentStatus       `json:"status"`
	Notes       string                     `json:"notes"`
	CreatedAt   time.Time                  `json:"createdAt"`
	CreatedBy   string                     `json:"createdBy"`
}

// ListPaymentsParams filters a payment listing.
type ListPaymentsParams struct {
	StudentID *string    `form:"studentID"`
	Status    *string    `form:"status"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	Offset    int        `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListPaymentsResponse wraps a paginated payment listing.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// FeeItemRequest is one fee-type line of a fee assignment.
type FeeItemRequest struct {
	FeeType string          `json:"feeType" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// CreateFeeAssignmentRequest bills a student for a term.
type CreateFeeAssignmentRequest struct {
	StudentID    string           `json:"studentID" binding:"required"`
	StudentName  string           `json:"studentName" binding:"required"`
	ClassID      string           `json:"classID"`
	AcademicYear string           `json:"academicYear" binding:"required"`
	Term         string           `json:"term" binding:"required,oneof=first second third"`
	Items        []FeeItemRequest `json:"items" binding:"required,min=1,dive"`
}

// FeeAssignmentResponse defines the data returned for a fee assignment.
type FeeAssignmentResponse struct {
	AssignmentID string                     `json:"assignmentID"`
	StudentID    string                     `json:"studentID"`
	StudentName  string                     `json:"studentName"`
	ClassID      string                     `json:"classID"`
	AcademicYear string                     `json:"academicYear"`
	Term         string                     `json:"term"`
	Items        []domain.FeeAllocationItem `json:"items"`
	TotalAmount  decimal.Decimal            `json:"totalAmount"`
	AmountPaid   decimal.Decimal            `json:"amountPaid"`
	Outstanding  decimal.Decimal            `json:"outstanding"`
	CreatedAt    time.Time                  `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		StudentID:   p.StudentID,
		StudentName: p.StudentName,
		ClassID:     p.ClassID,
		Amount:      p.Amount,
		Method:      p.Method,
		PaymentDate: p.PaymentDate,
		Allocations: p.Allocations,
		Reference:   p.Reference,
		PaidBy:      p.PaidBy,
		Status:      p.Status,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		CreatedBy:   p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of domain.Payment to []PaymentResponse.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}

// ToFeeAssignmentResponse converts a domain.FeeAssignment to FeeAssignmentResponse DTO.
func ToFeeAssignmentResponse(fa *domain.FeeAssignment) FeeAssignmentResponse {
	return FeeAssignmentResponse{
		AssignmentID: fa.AssignmentID,
		StudentID:    fa.StudentID,
		StudentName:  fa.StudentName,
		ClassID:      fa.ClassID,
		AcademicYear: fa.AcademicYear,
		Term:         fa.Term,
		Items:        fa.Items,
		TotalAmount:  fa.TotalAmount,
		AmountPaid:   fa.AmountPaid,
		Outstanding:  fa.TotalAmount.Sub(fa.AmountPaid),
		CreatedAt:    fa.CreatedAt,
	}
}
