package statutory

import (
	"github.com/shopspring/decimal"
)

// Statutory deduction rates and thresholds (monthly, Naira).
var (
	nhfRate         = decimal.RequireFromString("0.025") // 2.5% of basic
	nhfMinimumBasic = decimal.NewFromInt(30_000)         // below this, NHF does not apply

	pensionEmployeeRate = decimal.RequireFromString("0.08") // of basic + allowances
	pensionEmployerRate = decimal.RequireFromString("0.10")

	nhisRate = decimal.RequireFromString("0.05") // 5% of basic
	nhisCap  = decimal.NewFromInt(20_000)        // monthly cap
)

// DeductionsResult aggregates all statutory deductions for one monthly salary.
type DeductionsResult struct {
	NHF             decimal.Decimal `json:"nhf"`
	PensionEmployee decimal.Decimal `json:"pensionEmployee"`
	PensionEmployer decimal.Decimal `json:"pensionEmployer"`
	NHIS            decimal.Decimal `json:"nhis"`
	PAYE            decimal.Decimal `json:"paye"`

	// TotalEmployeeDeductions is withheld from the employee's gross pay.
	TotalEmployeeDeductions decimal.Decimal `json:"totalEmployeeDeductions"`
	// TotalEmployerContributions is an additional employer cost beyond gross.
	TotalEmployerContributions decimal.Decimal `json:"totalEmployerContributions"`
}

// CalculateAll computes every statutory deduction from a monthly basic salary
// and total monthly allowances. Pure and deterministic; no I/O.
func CalculateAll(basic, allowances decimal.Decimal) DeductionsResult {
	if basic.IsNegative() {
		basic = decimal.Zero
	}
	if allowances.IsNegative() {
		allowances = decimal.Zero
	}
	gross := basic.Add(allowances)

	var result DeductionsResult

	// NHF: 2.5% of basic, only at or above the minimum qualifying salary.
	if basic.GreaterThanOrEqual(nhfMinimumBasic) {
		result.NHF = basic.Mul(nhfRate).Round(2)
	} else {
		result.NHF = decimal.Zero
	}

	// Pension: employee 8%, employer 10%, both on basic + allowances.
	result.PensionEmployee = gross.Mul(pensionEmployeeRate).Round(2)
	result.PensionEmployer = gross.Mul(pensionEmployerRate).Round(2)

	// NHIS: 5% of basic, capped monthly.
	result.NHIS = basic.Mul(nhisRate).Round(2)
	if result.NHIS.GreaterThan(nhisCap) {
		result.NHIS = nhisCap
	}

	result.PAYE = CalculateMonthlyPAYE(gross)

	result.TotalEmployeeDeductions = result.NHF.
		Add(result.PensionEmployee).
		Add(result.NHIS).
		Add(result.PAYE)
	result.TotalEmployerContributions = result.PensionEmployer

	return result
}
