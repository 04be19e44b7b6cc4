package statutory

import (
	"github.com/shopspring/decimal"
)

// Nigerian PAYE constants (Personal Income Tax Act, as amended 2011).
var (
	// Consolidated Relief Allowance: the higher of ₦200,000 and 21% of gross.
	craFloor = decimal.NewFromInt(200_000)
	craRate  = decimal.RequireFromString("0.21")

	twelve = decimal.NewFromInt(12)
)

// payeBracket is one band of the progressive annual tax table. A zero Width
// marks the open-ended top band.
type payeBracket struct {
	Width decimal.Decimal
	Rate  decimal.Decimal
}

var payeBrackets = []payeBracket{
	{Width: decimal.NewFromInt(300_000), Rate: decimal.RequireFromString("0.07")},
	{Width: decimal.NewFromInt(300_000), Rate: decimal.RequireFromString("0.11")},
	{Width: decimal.NewFromInt(500_000), Rate: decimal.RequireFromString("0.15")},
	{Width: decimal.NewFromInt(500_000), Rate: decimal.RequireFromString("0.19")},
	{Width: decimal.NewFromInt(1_600_000), Rate: decimal.RequireFromString("0.21")},
	{Width: decimal.Zero, Rate: decimal.RequireFromString("0.24")},
}

// BracketTax is the tax computed within a single band.
type BracketTax struct {
	Rate          decimal.Decimal `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	Tax           decimal.Decimal `json:"tax"`
}

// PAYEResult is the outcome of an annual PAYE computation.
type PAYEResult struct {
	GrossIncome   decimal.Decimal `json:"grossIncome"`
	CRA           decimal.Decimal `json:"cra"`
	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	Brackets      []BracketTax    `json:"brackets"`
	TotalTax      decimal.Decimal `json:"totalTax"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// CalculateAnnualPAYE computes the annual Pay-As-You-Earn tax for a gross
// annual income. The CRA is deducted first; the remainder is taxed band by
// band until exhausted.
func CalculateAnnualPAYE(grossAnnual decimal.Decimal) PAYEResult {
	if grossAnnual.IsNegative() {
		grossAnnual = decimal.Zero
	}

	cra := grossAnnual.Mul(craRate)
	if cra.LessThan(craFloor) {
		cra = craFloor
	}

	taxable := grossAnnual.Sub(cra)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	result := PAYEResult{
		GrossIncome:   grossAnnual,
		CRA:           cra,
		TaxableIncome: taxable,
		TotalTax:      decimal.Zero,
	}

	remaining := taxable
	for _, bracket := range payeBrackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		inBand := remaining
		if bracket.Width.IsPositive() && inBand.GreaterThan(bracket.Width) {
			inBand = bracket.Width
		}
		tax := inBand.Mul(bracket.Rate).Round(2)
		result.Brackets = append(result.Brackets, BracketTax{
			Rate:          bracket.Rate,
			TaxableAmount: inBand,
			Tax:           tax,
		})
		result.TotalTax = result.TotalTax.Add(tax)
		remaining = remaining.Sub(inBand)
	}

	result.NetIncome = grossAnnual.Sub(result.TotalTax)
	return result
}

// CalculateMonthlyPAYE annualizes a monthly gross, runs the annual
// computation and divides the tax back down to a monthly figure.
func CalculateMonthlyPAYE(monthlyGross decimal.Decimal) decimal.Decimal {
	annual := CalculateAnnualPAYE(monthlyGross.Mul(twelve))
	return annual.TotalTax.Div(twelve).Round(2)
}
