package services

// Well-known ledger codes the posting engine and seed data rely on.
// The chart can grow beyond these, but these codes must exist.
const (
	CodeCashOnHand        = "1110"
	CodeBankOperations    = "1120"
	CodeReceivables       = "1130"
	CodeFixedAssets       = "1200" // Fallback for unmapped asset categories
	CodeAccumDepreciation = "1290"

	CodeSalariesPayable = "2110"
	CodePAYEPayable     = "2120"
	CodePensionPayable  = "2130"
	CodeNHFPayable      = "2140"
	CodeNHISPayable     = "2150"
	CodeSuspense        = "2990" // Fallback for unmapped liabilities

	CodeOtherIncome  = "4900" // Fallback for unmapped revenue sources
	CodeBankInterest = "4300"

	CodeSalariesExpense     = "5100"
	CodePensionExpense      = "5110"
	CodeBankCharges         = "5240"
	CodeDepreciationExpense = "5500"
	CodeOtherExpenses       = "5900" // Fallback for unmapped expense categories
)

// seedAccount is one row of the default chart of accounts.
type seedAccount struct {
	Code       string
	Name       string
	ParentCode string
}

// defaultChart is the chart of accounts a fresh installation starts with.
// Codes follow the numbering convention enforced by domain.AccountTypeForCode.
var defaultChart = []seedAccount{
	// Assets
	{Code: "1100", Name: "Current Assets"},
	{Code: CodeCashOnHand, Name: "Cash on Hand", ParentCode: "1100"},
	{Code: CodeBankOperations, Name: "Bank - Operations", ParentCode: "1100"},
	{Code: CodeReceivables, Name: "Accounts Receivable", ParentCode: "1100"},
	{Code: CodeFixedAssets, Name: "Fixed Assets"},
	{Code: "1210", Name: "Furniture & Fittings", ParentCode: CodeFixedAssets},
	{Code: "1220", Name: "Equipment", ParentCode: CodeFixedAssets},
	{Code: "1230", Name: "Motor Vehicles", ParentCode: CodeFixedAssets},
	{Code: "1240", Name: "Buildings", ParentCode: CodeFixedAssets},
	{Code: "1250", Name: "Computer Equipment", ParentCode: CodeFixedAssets},
	{Code: CodeAccumDepreciation, Name: "Accumulated Depreciation", ParentCode: CodeFixedAssets},

	// Liabilities
	{Code: "2100", Name: "Current Liabilities"},
	{Code: CodeSalariesPayable, Name: "Salaries Payable", ParentCode: "2100"},
	{Code: CodePAYEPayable, Name: "PAYE Tax Payable", ParentCode: "2100"},
	{Code: CodePensionPayable, Name: "Pension Contributions Payable", ParentCode: "2100"},
	{Code: CodeNHFPayable, Name: "NHF Contributions Payable", ParentCode: "2100"},
	{Code: CodeNHISPayable, Name: "NHIS Contributions Payable", ParentCode: "2100"},
	{Code: "2210", Name: "Loans Payable"},
	{Code: CodeSuspense, Name: "Suspense Account"},

	// Equity
	{Code: "3100", Name: "Capital"},
	{Code: "3200", Name: "Retained Earnings"},

	// Revenue, one account per fee type
	{Code: "4100", Name: "Tuition Fees"},
	{Code: "4110", Name: "Uniform Sales"},
	{Code: "4120", Name: "Feeding Fees"},
	{Code: "4130", Name: "Transport Fees"},
	{Code: "4140", Name: "Book Sales"},
	{Code: "4150", Name: "Sports Fees"},
	{Code: "4160", Name: "Development Levy"},
	{Code: "4170", Name: "Examination Fees"},
	{Code: "4180", Name: "PTA Levy"},
	{Code: "4190", Name: "Computer Fees"},
	{Code: "4200", Name: "Library Fees"},
	{Code: "4210", Name: "Laboratory Fees"},
	{Code: "4220", Name: "Extra Lesson Fees"},
	{Code: CodeBankInterest, Name: "Bank Interest Income"},
	{Code: CodeOtherIncome, Name: "Other Income"},

	// Expenses
	{Code: CodeSalariesExpense, Name: "Salaries & Wages"},
	{Code: CodePensionExpense, Name: "Pension Contributions (Employer)"},
	{Code: "5200", Name: "Utilities"},
	{Code: "5210", Name: "Repairs & Maintenance"},
	{Code: "5220", Name: "Teaching Supplies"},
	{Code: "5230", Name: "Transport & Fuel"},
	{Code: CodeBankCharges, Name: "Bank Charges"},
	{Code: CodeDepreciationExpense, Name: "Depreciation Expense"},
	{Code: CodeOtherExpenses, Name: "Other Expenses"},
}

// seedMapping is one row of the default account mappings.
type seedMapping struct {
	SourceType  string
	AccountCode string
}

// defaultRevenueMappings route fee types to their revenue accounts.
var defaultRevenueMappings = []seedMapping{
	{SourceType: "tuition", AccountCode: "4100"},
	{SourceType: "uniform", AccountCode: "4110"},
	{SourceType: "feeding", AccountCode: "4120"},
	{SourceType: "transport", AccountCode: "4130"},
	{SourceType: "books", AccountCode: "4140"},
	{SourceType: "sports", AccountCode: "4150"},
	{SourceType: "development", AccountCode: "4160"},
	{SourceType: "examination", AccountCode: "4170"},
	{SourceType: "pta", AccountCode: "4180"},
	{SourceType: "computer", AccountCode: "4190"},
	{SourceType: "library", AccountCode: "4200"},
	{SourceType: "laboratory", AccountCode: "4210"},
	{SourceType: "lesson", AccountCode: "4220"},
	{SourceType: "other", AccountCode: CodeOtherIncome},
	{SourceType: "bank_interest", AccountCode: CodeBankInterest},
}

// defaultExpenseMappings route expense categories to expense accounts.
var defaultExpenseMappings = []seedMapping{
	{SourceType: "salaries", AccountCode: CodeSalariesExpense},
	{SourceType: "utilities", AccountCode: "5200"},
	{SourceType: "maintenance", AccountCode: "5210"},
	{SourceType: "supplies", AccountCode: "5220"},
	{SourceType: "transport", AccountCode: "5230"},
	{SourceType: "bank_charge", AccountCode: CodeBankCharges},
	{SourceType: "other", AccountCode: CodeOtherExpenses},
}

// defaultAssetMappings route asset categories to fixed asset accounts.
var defaultAssetMappings = []seedMapping{
	{SourceType: "furniture", AccountCode: "1210"},
	{SourceType: "equipment", AccountCode: "1220"},
	{SourceType: "vehicle", AccountCode: "1230"},
	{SourceType: "building", AccountCode: "1240"},
	{SourceType: "computer", AccountCode: "1250"},
}

// defaultLiabilityMappings route statutory deductions to their payable accounts.
var defaultLiabilityMappings = []seedMapping{
	{SourceType: "paye", AccountCode: CodePAYEPayable},
	{SourceType: "pension", AccountCode: CodePensionPayable},
	{SourceType: "nhf", AccountCode: CodeNHFPayable},
	{SourceType: "nhis", AccountCode: CodeNHISPayable},
	{SourceType: "salaries", AccountCode: CodeSalariesPayable},
}
