package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmploymentType enumerates staff engagement kinds.
type EmploymentType string

const (
	FullTime EmploymentType = "full-time"
	PartTime EmploymentType = "part-time"
	Contract EmploymentType = "contract"
)

// StaffAllowance is a recurring or one-off allowance attached to a staff member.
type StaffAllowance struct {
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	IsRecurring bool            `json:"isRecurring"`
}

// StaffMember holds the payroll-relevant employee record.
type StaffMember struct {
	StaffID        string           `json:"staffID"` // Primary key (UUID)
	StaffNumber    string           `json:"staffNumber"`
	Surname        string           `json:"surname"`
	Firstname      string           `json:"firstname"`
	Position       string           `json:"position"`
	Department     string           `json:"department"`
	EmploymentType EmploymentType   `json:"employmentType"`
	EmploymentDate time.Time        `json:"employmentDate"`
	BasicSalary    decimal.Decimal  `json:"basicSalary"`
	Allowances     []StaffAllowance `json:"allowances"`
	BankName       string           `json:"bankName"`
	AccountNumber  string           `json:"accountNumber"`
	IsActive       bool             `json:"isActive"`
	AuditFields
}

// SalaryStatus is the lifecycle state of a salary payment.
type SalaryStatus string

const (
	SalaryPending  SalaryStatus = "pending"
	SalaryApproved SalaryStatus = "approved"
	SalaryPaid     SalaryStatus = "paid"
)

var salaryTransitions = map[SalaryStatus][]SalaryStatus{
	SalaryPending:  {SalaryApproved},
	SalaryApproved: {SalaryPaid},
	SalaryPaid:     {},
}

// CanTransitionSalary reports whether a salary payment may move between statuses.
func CanTransitionSalary(from, to SalaryStatus) bool {
	for _, next := range salaryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowanceItem is one allowance line on a salary payment.
type AllowanceItem struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	IsTaxable bool            `json:"isTaxable"`
}

// DeductionItem is one deduction line on a salary payment. Statutory
// deductions (PAYE, pension, NHF, NHIS) post to their own liability
// accounts; the rest post to generic salaries payable.
type DeductionItem struct {
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	IsStatutory bool            `json:"isStatutory"`
}

// SalaryPayment records one staff salary for one period.
// Invariant: at most one paid salary per (StaffID, PeriodStart, PeriodEnd).
type SalaryPayment struct {
	SalaryPaymentID string          `json:"salaryPaymentID"` // Primary key (UUID)
	StaffID         string          `json:"staffID"`
	StaffName       string          `json:"staffName"`
	StaffNumber     string          `json:"staffNumber"`
	PaymentDate     time.Time       `json:"paymentDate"`
	PeriodStart     time.Time       `json:"periodStart"`
	PeriodEnd       time.Time       `json:"periodEnd"`
	BasicSalary     decimal.Decimal `json:"basicSalary"`
	Allowances      []AllowanceItem `json:"allowances"`
	Deductions      []DeductionItem `json:"deductions"`
	GrossSalary     decimal.Decimal `json:"grossSalary"` // basic + allowances
	NetSalary       decimal.Decimal `json:"netSalary"`   // gross - deductions
	Method          PaymentMethod   `json:"method"`
	Reference       string          `json:"reference"` // SAL-YYYY-MM-XXXXXX
	Status          SalaryStatus    `json:"status"`
	ProcessedBy     string          `json:"processedBy"`
	Notes           string          `json:"notes"`
	AuditFields
}
