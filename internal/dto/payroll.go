package dto

import (
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StaffAllowanceRequest is one recurring allowance on a staff record.
type StaffAllowanceRequest struct {
	Name        string          `json:"name" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	IsRecurring bool            `json:"isRecurring"`
}

// CreateStaffRequest registers a staff member for payroll.
type CreateStaffRequest struct {
	StaffNumber    string                  `json:"staffNumber" binding:"required"`
	Surname        string                  `json:"surname" binding:"required"`
	Firstname      string                  `json:"firstname" binding:"required"`
	Position       string                  `json:"position" binding:"required"`
	Department     string                  `json:"department"`
	EmploymentType string                  `json:"employmentType" binding:"required,oneof=full-time part-time contract"`
	EmploymentDate time.Time               `json:"employmentDate" binding:"required"`
	BasicSalary    decimal.Decimal         `json:"basicSalary" binding:"required"`
	Allowances     []StaffAllowanceRequest `json:"allowances" binding:"omitempty,dive"`
	BankName       string                  `json:"bankName"`
	AccountNumber  string                  `json:"accountNumber" binding:"omitempty,len=10,numeric"`
}

// UpdateStaffRequest updates a staff record. Pointers distinguish omitted
// fields from zero values.
type UpdateStaffRequest struct {
	Position      *string                 `json:"position"`
	Department    *string                 `json:"department"`
	BasicSalary   *decimal.Decimal        `json:"basicSalary"`
	Allowances    []StaffAllowanceRequest `json:"allowances" binding:"omitempty,dive"`
	BankName      *string                 `json:"bankName"`
	AccountNumber *string                 `json:"accountNumber" binding:"omitempty,len=10,numeric"`
	IsActive      *bool                   `json:"isActive"`
}

// StaffResponse defines the data returned for a staff member.
type StaffResponse struct {
	StaffID        string                  `json:"staffID"`
	StaffNumber    string                  `json:"staffNumber"`
	Surname        string                  `json:"surname"`
	Firstname      string                  `json:"firstname"`
	Position       string                  `json:"position"`
	Department     string                  `json:"department"`
	EmploymentType domain.EmploymentType   `json:"employmentType"`
	EmploymentDate time.Time               `json:"employmentDate"`
	BasicSalary    decimal.Decimal         `json:"basicSalary"`
	Allowances     []domain.StaffAllowance `json:"allowances"`
	BankName       string                  `json:"bankName"`
	AccountNumber  string                  `json:"accountNumber"`
	IsActive       bool                    `json:"isActive"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// AllowanceItemRequest is one allowance line on a salary payment request.
type AllowanceItemRequest struct {
	Name      string          `json:"name" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	IsTaxable bool            `json:"isTaxable"`
}

// DeductionItemRequest is one non-statutory deduction line on a salary
// payment request. Statutory deductions are computed, never supplied.
type DeductionItemRequest struct {
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateSalaryPaymentRequest prepares a salary payment for a staff member and
// pay period. Basic salary and recurring allowances default from the staff
// record; statutory deductions (PAYE, pension, NHF, NHIS) are computed.
type CreateSalaryPaymentRequest struct {
	StaffID          string                 `json:"staffID" binding:"required"`
	PeriodStart      time.Time              `json:"periodStart" binding:"required"`
	PeriodEnd        time.Time              `json:"periodEnd" binding:"required"`
	PaymentDate      time.Time              `json:"paymentDate" binding:"required"`
	Method           string                 `json:"method" binding:"required,oneof=cash bank_transfer pos online cheque"`
	ExtraAllowances  []AllowanceItemRequest `json:"extraAllowances" binding:"omitempty,dive"`
	OtherDeductions  []DeductionItemRequest `json:"otherDeductions" binding:"omitempty,dive"`
	Notes            string                 `json:"notes"`
}

// PreviewDeductionsRequest asks for the statutory deductions on a pay without
// persisting anything.
type PreviewDeductionsRequest struct {
	BasicSalary decimal.Decimal `json:"basicSalary" binding:"required"`
	Allowances  decimal.Decimal `json:"allowances"`
}

// DeductionBreakdown itemizes the statutory deductions on a salary payment.
type DeductionBreakdown struct {
	PAYE            decimal.Decimal `json:"paye"`
	Pension         decimal.Decimal `json:"pension"`
	NHF             decimal.Decimal `json:"nhf"`
	NHIS            decimal.Decimal `json:"nhis"`
	Other           decimal.Decimal `json:"other"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
}

// SalaryPaymentResponse defines the data returned for a salary payment.
type SalaryPaymentResponse struct {
	SalaryPaymentID string                 `json:"salaryPaymentID"`
	StaffID         string                 `json:"staffID"`
	StaffName       string                 `json:"staffName"`
	StaffNumber     string                 `json:"staffNumber"`
	PaymentDate     time.Time              `json:"paymentDate"`
	PeriodStart     time.Time              `json:"periodStart"`
	PeriodEnd       time.Time              `json:"periodEnd"`
	BasicSalary     decimal.Decimal        `json:"basicSalary"`
	Allowances      []domain.AllowanceItem `json:"allowances"`
	Deductions      []domain.DeductionItem `json:"deductions"`
	Breakdown       DeductionBreakdown     `json:"breakdown"`
	GrossSalary     decimal.Decimal        `json:"grossSalary"`
	NetSalary       decimal.Decimal        `json:"netSalary"`
	Method          domain.PaymentMethod   `json:"method"`
	Reference       string                 `json:"reference"`
	Status          domain.SalaryStatus    `json:"status"`
	ProcessedBy     string                 `json:"processedBy"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ListSalaryPaymentsParams filters a salary payment listing.
type ListSalaryPaymentsParams struct {
	StaffID *string    `form:"staffID"`
	Status  *string    `form:"status"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
	Limit   int        `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	Offset  int        `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ToStaffResponse converts a domain.StaffMember to StaffResponse DTO.
func ToStaffResponse(s *domain.StaffMember) StaffResponse {
	return StaffResponse{
		StaffID:        s.StaffID,
		StaffNumber:    s.StaffNumber,
		Surname:        s.Surname,
		Firstname:      s.Firstname,
		Position:       s.Position,
		Department:     s.Department,
		EmploymentType: s.EmploymentType,
		EmploymentDate: s.EmploymentDate,
		BasicSalary:    s.BasicSalary,
		Allowances:     s.Allowances,
		BankName:       s.BankName,
		AccountNumber:  s.AccountNumber,
		IsActive:       s.IsActive,
		CreatedAt:      s.CreatedAt,
	}
}

// ToStaffResponses converts a slice of domain.StaffMember to []StaffResponse.
func ToStaffResponses(staff []domain.StaffMember) []StaffResponse {
	responses := make([]StaffResponse, len(staff))
	for i := range staff {
		responses[i] = ToStaffResponse(&staff[i])
	}
	return responses
}

// ToSalaryPaymentResponse converts a domain.SalaryPayment to its DTO,
// itemizing statutory deductions into the breakdown.
func ToSalaryPaymentResponse(sp *domain.SalaryPayment) SalaryPaymentResponse {
	var breakdown DeductionBreakdown
	for _, d := range sp.Deductions {
		breakdown.TotalDeductions = breakdown.TotalDeductions.Add(d.Amount)
		switch d.Name {
		case "PAYE":
			breakdown.PAYE = breakdown.PAYE.Add(d.Amount)
		case "Pension":
			breakdown.Pension = breakdown.Pension.Add(d.Amount)
		case "NHF":
			breakdown.NHF = breakdown.NHF.Add(d.Amount)
		case "NHIS":
			breakdown.NHIS = breakdown.NHIS.Add(d.Amount)
		default:
			breakdown.Other = breakdown.Other.Add(d.Amount)
		}
	}
	return SalaryPaymentResponse{
		SalaryPaymentID: sp.SalaryPaymentID,
		StaffID:         sp.StaffID,
		StaffName:       sp.StaffName,
		StaffNumber:     sp.StaffNumber,
		PaymentDate:     sp.PaymentDate,
		PeriodStart:     sp.PeriodStart,
		PeriodEnd:       sp.PeriodEnd,
		BasicSalary:     sp.BasicSalary,
		Allowances:      sp.Allowances,
		Deductions:      sp.Deductions,
		Breakdown:       breakdown,
		GrossSalary:     sp.GrossSalary,
		NetSalary:       sp.NetSalary,
		Method:          sp.Method,
		Reference:       sp.Reference,
		Status:          sp.Status,
		ProcessedBy:     sp.ProcessedBy,
		CreatedAt:       sp.CreatedAt,
	}
}

// ToSalaryPaymentResponses converts a slice of domain.SalaryPayment to DTOs.
func ToSalaryPaymentResponses(payments []domain.SalaryPayment) []SalaryPaymentResponse {
	responses := make([]SalaryPaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToSalaryPaymentResponse(&payments[i])
	}
	return responses
}
