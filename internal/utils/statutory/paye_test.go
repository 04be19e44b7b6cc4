package statutory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolfin/sfm_backend/internal/utils/statutory"
)

func TestCalculateAnnualPAYE_BelowReliefPaysNothing(t *testing.T) {
	// Gross at or below the CRA floor leaves no taxable income.
	result := statutory.CalculateAnnualPAYE(decimal.NewFromInt(200_000))

	assert.True(t, result.CRA.Equal(decimal.NewFromInt(200_000)), "CRA floor should apply")
	assert.True(t, result.TaxableIncome.IsZero())
	assert.True(t, result.TotalTax.IsZero())
	assert.True(t, result.NetIncome.Equal(decimal.NewFromInt(200_000)))
	assert.Empty(t, result.Brackets)
}

func TestCalculateAnnualPAYE_MidIncome(t *testing.T) {
	// 1,000,000 annual: CRA = 21% = 210,000; taxable 790,000.
	// 300,000 @ 7% + 300,000 @ 11% + 190,000 @ 15% = 82,500.
	result := statutory.CalculateAnnualPAYE(decimal.NewFromInt(1_000_000))

	assert.True(t, result.CRA.Equal(decimal.NewFromInt(210_000)), "CRA should be 21%% of gross, got %s", result.CRA)
	assert.True(t, result.TaxableIncome.Equal(decimal.NewFromInt(790_000)))
	require.Len(t, result.Brackets, 3)
	assert.True(t, result.Brackets[0].Tax.Equal(decimal.NewFromInt(21_000)))
	assert.True(t, result.Brackets[1].Tax.Equal(decimal.NewFromInt(33_000)))
	assert.True(t, result.Brackets[2].Tax.Equal(decimal.NewFromInt(28_500)))
	assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(82_500)), "got %s", result.TotalTax)
	assert.True(t, result.NetIncome.Equal(decimal.NewFromInt(917_500)))
}

func TestCalculateAnnualPAYE_TopBracket(t *testing.T) {
	// 10,000,000 annual: CRA = 2,100,000; taxable 7,900,000 spills into the
	// open-ended 24% band.
	result := statutory.CalculateAnnualPAYE(decimal.NewFromInt(10_000_000))

	require.Len(t, result.Brackets, 6)
	top := result.Brackets[5]
	// 7,900,000 - (300k+300k+500k+500k+1.6m) = 4,700,000 in the top band.
	assert.True(t, top.TaxableAmount.Equal(decimal.NewFromInt(4_700_000)), "got %s", top.TaxableAmount)
	assert.True(t, top.Tax.Equal(decimal.NewFromInt(1_128_000)))

	// 21,000 + 33,000 + 75,000 + 95,000 + 336,000 + 1,128,000
	assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(1_688_000)), "got %s", result.TotalTax)
}

func TestCalculateAnnualPAYE_NegativeGrossTreatedAsZero(t *testing.T) {
	result := statutory.CalculateAnnualPAYE(decimal.NewFromInt(-500))

	assert.True(t, result.GrossIncome.IsZero())
	assert.True(t, result.TotalTax.IsZero())
}

func TestCalculateMonthlyPAYE(t *testing.T) {
	tests := []struct {
		name         string
		monthlyGross int64
		wantTax      string
	}{
		{"below relief", 15_000, "0"},   // 180,000 annual, fully relieved
		{"mid income", 100_000, "8850"}, // 1,200,000 annual -> 106,200 / 12
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := statutory.CalculateMonthlyPAYE(decimal.NewFromInt(tc.monthlyGross))
			assert.True(t, got.Equal(decimal.RequireFromString(tc.wantTax)), "got %s, want %s", got, tc.wantTax)
		})
	}

	t.Run("exact twelfth of 1m annual", func(t *testing.T) {
		monthly := decimal.NewFromInt(1_000_000).Div(decimal.NewFromInt(12))
		got := statutory.CalculateMonthlyPAYE(monthly)
		assert.True(t, got.Equal(decimal.RequireFromString("6875")), "got %s", got)
	})
}

func TestCalculateMonthlyPAYE_Monotonic(t *testing.T) {
	// A raise never lowers the tax.
	prev := decimal.Zero
	for _, gross := range []int64{20_000, 50_000, 80_000, 150_000, 400_000, 1_000_000} {
		tax := statutory.CalculateMonthlyPAYE(decimal.NewFromInt(gross))
		assert.True(t, tax.GreaterThanOrEqual(prev), "tax at %d (%s) below tax at lower gross (%s)", gross, tax, prev)
		prev = tax
	}
}
