// Package reference generates the human-readable transaction references used
// across the application, e.g. PAY-2026-4F8A1C2B. References are audit
// identifiers; uniqueness is additionally enforced per collection at the
// storage layer.
package reference

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"
)

const alphanumerics = "ABCDEFGHJKLMNPQRSTUVWXYZ0123456789"

// randomToken returns n cryptographically random characters from the
// unambiguous alphanumeric alphabet.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i := range b {
		b[i] = alphanumerics[int(b[i])%len(alphanumerics)]
	}
	return string(b), nil
}

// NewPaymentReference returns a PAY-YYYY-XXXXXXXX reference.
func NewPaymentReference(now time.Time) (string, error) {
	token, err := randomToken(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%d-%s", now.Year(), token), nil
}

// NewExpenseReference returns an EXP-YYYY-XXXXXXXX reference.
func NewExpenseReference(now time.Time) (string, error) {
	token, err := randomToken(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EXP-%d-%s", now.Year(), token), nil
}

// NewSalaryReference returns a SAL-YYYY-MM-XXXXXX reference for the pay period month.
func NewSalaryReference(period time.Time) (string, error) {
	token, err := randomToken(6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SAL-%d-%02d-%s", period.Year(), int(period.Month()), token), nil
}

// NewAssetReference returns an AST-YYYY-XXXXXX reference.
func NewAssetReference(now time.Time) (string, error) {
	token, err := randomToken(6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("AST-%d-%s", now.Year(), token), nil
}

// NewTransferReference returns a TRF-YYYY-XXXXXXXX reference.
func NewTransferReference(now time.Time) (string, error) {
	token, err := randomToken(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TRF-%d-%s", now.Year(), token), nil
}

var (
	paymentRefPattern  = regexp.MustCompile(`^PAY-\d{4}-[A-Z0-9]{8}$`)
	expenseRefPattern  = regexp.MustCompile(`^EXP-\d{4}-[A-Z0-9]{8}$`)
	salaryRefPattern   = regexp.MustCompile(`^SAL-\d{4}-\d{2}-[A-Z0-9]{6}$`)
	assetRefPattern    = regexp.MustCompile(`^AST-\d{4}-[A-Z0-9]{6}$`)
	transferRefPattern = regexp.MustCompile(`^TRF-\d{4}-[A-Z0-9]{8}$`)
)

// ValidPaymentReference reports whether ref matches PAY-YYYY-XXXXXXXX.
func ValidPaymentReference(ref string) bool { return paymentRefPattern.MatchString(ref) }

// ValidExpenseReference reports whether ref matches EXP-YYYY-XXXXXXXX.
func ValidExpenseReference(ref string) bool { return expenseRefPattern.MatchString(ref) }

// ValidSalaryReference reports whether ref matches SAL-YYYY-MM-XXXXXX.
func ValidSalaryReference(ref string) bool { return salaryRefPattern.MatchString(ref) }

// ValidAssetReference reports whether ref matches AST-YYYY-XXXXXX.
func ValidAssetReference(ref string) bool { return assetRefPattern.MatchString(ref) }

// ValidTransferReference reports whether ref matches TRF-YYYY-XXXXXXXX.
func ValidTransferReference(ref string) bool { return transferRefPattern.MatchString(ref) }
