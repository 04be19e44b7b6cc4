package domain

import "strings"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// ValidAccountType reports whether t is one of the five fundamental types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// AccountClassification refines the account type for report layout.
// It is derived once from the account code when the account is created, so
// reports never have to parse code prefixes.
type AccountClassification string

const (
	CurrentAsset      AccountClassification = "CURRENT_ASSET"
	FixedAsset        AccountClassification = "FIXED_ASSET"
	ContraAsset       AccountClassification = "CONTRA_ASSET"
	CurrentLiability  AccountClassification = "CURRENT_LIABILITY"
	LongTermLiability AccountClassification = "LONG_TERM_LIABILITY"
	EquityClass       AccountClassification = "EQUITY"
	RevenueClass      AccountClassification = "REVENUE"
	ExpenseClass      AccountClassification = "EXPENSE"
)

// Account represents a general ledger account within the chart of accounts.
// Codes follow the fixed numbering convention: 1xxx asset, 2xxx liability,
// 3xxx equity, 4xxx revenue, 5xxx expense; the second digit distinguishes
// current ("11", "21") from fixed/long-term ("12", "22"). Cash accounts sit
// under "111" and bank accounts under "112".
type Account struct {
	AccountID      string                `json:"accountID"` // Primary key (UUID)
	Code           string                `json:"code"`      // Unique ledger code, e.g. "4100"
	Name           string                `json:"name"`
	AccountType    AccountType           `json:"accountType"` // Immutable after creation
	Classification AccountClassification `json:"classification"`
	ParentCode     string                `json:"parentCode"` // Optional hierarchy
	Description    string                `json:"description"`
	IsActive       bool                  `json:"isActive"` // Accounts are deactivated, never deleted
	AuditFields
}

// AccountTypeForCode maps a ledger code to its account type by the leading digit.
func AccountTypeForCode(code string) (AccountType, bool) {
	if code == "" {
		return "", false
	}
	switch code[0] {
	case '1':
		return AccountTypeAsset, true
	case '2':
		return AccountTypeLiability, true
	case '3':
		return AccountTypeEquity, true
	case '4':
		return AccountTypeRevenue, true
	case '5':
		return AccountTypeExpense, true
	}
	return "", false
}

// ClassificationForCode derives the report classification from the code
// prefix convention. This is the single place prefix parsing happens;
// everything downstream reads the stored classification.
func ClassificationForCode(code string) (AccountClassification, bool) {
	switch {
	case strings.HasPrefix(code, "129"):
		// Accumulated depreciation and similar contra accounts
		return ContraAsset, true
	case strings.HasPrefix(code, "11"):
		return CurrentAsset, true
	case strings.HasPrefix(code, "12"):
		return FixedAsset, true
	case strings.HasPrefix(code, "21"), strings.HasPrefix(code, "29"):
		return CurrentLiability, true
	case strings.HasPrefix(code, "22"):
		return LongTermLiability, true
	case strings.HasPrefix(code, "3"):
		return EquityClass, true
	case strings.HasPrefix(code, "4"):
		return RevenueClass, true
	case strings.HasPrefix(code, "5"):
		return ExpenseClass, true
	}
	return "", false
}

// IsCashOrBank reports whether the account participates in cash flow, i.e.
// it is a cash ("111x") or bank ("112x") account.
func (a Account) IsCashOrBank() bool {
	return strings.HasPrefix(a.Code, "111") || strings.HasPrefix(a.Code, "112")
}
