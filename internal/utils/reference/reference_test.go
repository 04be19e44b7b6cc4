package reference_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolfin/sfm_backend/internal/utils/reference"
)

func TestGeneratedReferencesValidate(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	pay, err := reference.NewPaymentReference(now)
	require.NoError(t, err)
	assert.True(t, reference.ValidPaymentReference(pay), pay)

	exp, err := reference.NewExpenseReference(now)
	require.NoError(t, err)
	assert.True(t, reference.ValidExpenseReference(exp), exp)

	sal, err := reference.NewSalaryReference(now)
	require.NoError(t, err)
	assert.True(t, reference.ValidSalaryReference(sal), sal)
	assert.Contains(t, sal, "SAL-2026-03-")

	ast, err := reference.NewAssetReference(now)
	require.NoError(t, err)
	assert.True(t, reference.ValidAssetReference(ast), ast)

	trf, err := reference.NewTransferReference(now)
	require.NoError(t, err)
	assert.True(t, reference.ValidTransferReference(trf), trf)
}

func TestSalaryReferenceZeroPadsMonth(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ref, err := reference.NewSalaryReference(jan)
	require.NoError(t, err)
	assert.Contains(t, ref, "SAL-2026-01-")
}

func TestValidationRejectsMalformedReferences(t *testing.T) {
	tests := []struct {
		name  string
		valid func(string) bool
		ref   string
	}{
		{"wrong prefix", reference.ValidPaymentReference, "PMT-2026-AB12CD34"},
		{"short token", reference.ValidPaymentReference, "PAY-2026-AB12"},
		{"lowercase token", reference.ValidExpenseReference, "EXP-2026-ab12cd34"},
		{"missing month", reference.ValidSalaryReference, "SAL-2026-AB12CD"},
		{"transfer token too long", reference.ValidTransferReference, "TRF-2026-AB12CD34EF"},
		{"empty", reference.ValidAssetReference, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.valid(tt.ref))
		})
	}
}

func TestReferencesAreUnique(t *testing.T) {
	now := time.Now().UTC()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := reference.NewPaymentReference(now)
		require.NoError(t, err)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
