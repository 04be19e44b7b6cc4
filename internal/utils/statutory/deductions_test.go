package statutory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/schoolfin/sfm_backend/internal/utils/statutory"
)

func TestCalculateAll_NHFThreshold(t *testing.T) {
	// NHF applies at exactly 30,000 basic, not below.
	below := statutory.CalculateAll(decimal.NewFromInt(29_999), decimal.Zero)
	assert.True(t, below.NHF.IsZero(), "NHF below threshold should be zero, got %s", below.NHF)

	at := statutory.CalculateAll(decimal.NewFromInt(30_000), decimal.Zero)
	assert.True(t, at.NHF.Equal(decimal.NewFromInt(750)), "2.5%% of 30,000, got %s", at.NHF)
}

func TestCalculateAll_PensionOnGross(t *testing.T) {
	// Pension is computed on basic + allowances, NHF and NHIS on basic only.
	result := statutory.CalculateAll(decimal.NewFromInt(100_000), decimal.NewFromInt(50_000))

	assert.True(t, result.PensionEmployee.Equal(decimal.NewFromInt(12_000)), "8%% of 150,000, got %s", result.PensionEmployee)
	assert.True(t, result.PensionEmployer.Equal(decimal.NewFromInt(15_000)), "10%% of 150,000, got %s", result.PensionEmployer)
	assert.True(t, result.NHF.Equal(decimal.NewFromInt(2_500)), "2.5%% of basic only, got %s", result.NHF)
	assert.True(t, result.NHIS.Equal(decimal.NewFromInt(5_000)), "5%% of basic only, got %s", result.NHIS)
	assert.True(t, result.TotalEmployerContributions.Equal(result.PensionEmployer))
}

func TestCalculateAll_NHISCap(t *testing.T) {
	// 5% of 500,000 is 25,000, above the 20,000 monthly cap.
	result := statutory.CalculateAll(decimal.NewFromInt(500_000), decimal.Zero)
	assert.True(t, result.NHIS.Equal(decimal.NewFromInt(20_000)), "NHIS should be capped, got %s", result.NHIS)
}

func TestCalculateAll_TotalsReconcile(t *testing.T) {
	result := statutory.CalculateAll(decimal.NewFromInt(120_000), decimal.NewFromInt(30_000))

	wantEmployee := result.NHF.Add(result.PensionEmployee).Add(result.NHIS).Add(result.PAYE)
	assert.True(t, result.TotalEmployeeDeductions.Equal(wantEmployee))
	assert.True(t, result.TotalEmployerContributions.Equal(result.PensionEmployer))
}

func TestCalculateAll_NegativeInputsTreatedAsZero(t *testing.T) {
	result := statutory.CalculateAll(decimal.NewFromInt(-10_000), decimal.NewFromInt(-5_000))

	assert.True(t, result.NHF.IsZero())
	assert.True(t, result.PensionEmployee.IsZero())
	assert.True(t, result.NHIS.IsZero())
	assert.True(t, result.PAYE.IsZero())
	assert.True(t, result.TotalEmployeeDeductions.IsZero())
}
