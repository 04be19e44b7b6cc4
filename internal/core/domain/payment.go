package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how money changed hands.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodPOS          PaymentMethod = "pos"
	MethodOnline       PaymentMethod = "online"
	MethodCheque       PaymentMethod = "cheque"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodPOS, MethodOnline, MethodCheque:
		return true
	}
	return false
}

// PaymentStatus is the lifecycle state of a student fee payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

// paymentTransitions holds the allowed status transitions.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentConfirmed, PaymentCancelled},
	PaymentConfirmed: {PaymentRefunded},
	PaymentCancelled: {},
	PaymentRefunded:  {},
}

// CanTransitionPayment reports whether a payment may move from one status to another.
func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentAllocation splits a payment across fee types.
type PaymentAllocation struct {
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	FeeType      string          `json:"feeType"` // e.g. "tuition", "transport"
	Amount       decimal.Decimal `json:"amount"`
}

// Payment records a fee payment received from (or on behalf of) a student.
type Payment struct {
	PaymentID   string              `json:"paymentID"` // Primary key (UUID)
	StudentID   string              `json:"studentID"`
	StudentName string              `json:"studentName"`
	ClassID     string              `json:"classID"`
	Amount      decimal.Decimal     `json:"amount"`
	Method      PaymentMethod       `json:"method"`
	PaymentDate time.Time           `json:"paymentDate"`
	Allocations []PaymentAllocation `json:"allocations"`
	Reference   string              `json:"reference"` // PAY-YYYY-XXXXXXXX
	PaidBy      string              `json:"paidBy"`
	Status      PaymentStatus       `json:"status"`
	Notes       string              `json:"notes"`
	AuditFields
}

// FeeTypes lists the accepted fee types for payment allocations and fee
// assignments. "other" is the catch-all.
var FeeTypes = []string{
	"tuition", "uniform", "feeding", "transport", "books",
	"sports", "development", "examination", "pta", "computer",
	"library", "laboratory", "lesson", "other",
}

// ValidFeeType reports whether t is a known fee type.
func ValidFeeType(t string) bool {
	for _, ft := range FeeTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// FeeAllocationItem is one fee-type slice of a fee assignment.
type FeeAllocationItem struct {
	FeeType string          `json:"feeType"`
	Amount  decimal.Decimal `json:"amount"`
}

// FeeAssignment bills a student for a term: a receivable against one or more
// fee-type revenue lines.
type FeeAssignment struct {
	AssignmentID string              `json:"assignmentID"` // Primary key (UUID)
	StudentID    string              `json:"studentID"`
	StudentName  string              `json:"studentName"`
	ClassID      string              `json:"classID"`
	AcademicYear string              `json:"academicYear"`
	Term         string              `json:"term"` // first, second, third
	Items        []FeeAllocationItem `json:"items"`
	TotalAmount  decimal.Decimal     `json:"totalAmount"`
	AmountPaid   decimal.Decimal     `json:"amountPaid"`
	AuditFields
}
