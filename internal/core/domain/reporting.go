package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's aggregated posted debits and credits.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance aggregates all posted journal lines per account as of a date.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AccountAmount is an account with its net amount for financial statements.
type AccountAmount struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// IncomeStatement partitions revenue and expense balances over a period.
type IncomeStatement struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// BalanceSheet partitions balances by account classification as of a date.
type BalanceSheet struct {
	AsOf                time.Time       `json:"asOf"`
	CurrentAssets       []AccountAmount `json:"currentAssets"`
	FixedAssets         []AccountAmount `json:"fixedAssets"`
	CurrentLiabilities  []AccountAmount `json:"currentLiabilities"`
	LongTermLiabilities []AccountAmount `json:"longTermLiabilities"`
	Equity              []AccountAmount `json:"equity"`
	RetainedEarnings    decimal.Decimal `json:"retainedEarnings"`
	TotalAssets         decimal.Decimal `json:"totalAssets"`
	TotalLiabilities    decimal.Decimal `json:"totalLiabilities"`
	TotalEquity         decimal.Decimal `json:"totalEquity"`
	IsBalanced          bool            `json:"isBalanced"`
}

// CashFlowBucket groups cash movements by activity.
type CashFlowBucket struct {
	Inflows  decimal.Decimal `json:"inflows"`
	Outflows decimal.Decimal `json:"outflows"`
	Net      decimal.Decimal `json:"net"`
}

// CashFlowStatement buckets cash/bank account movements over a period.
type CashFlowStatement struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Operating   CashFlowBucket  `json:"operating"`
	Investing   CashFlowBucket  `json:"investing"`
	Financing   CashFlowBucket  `json:"financing"`
	NetCashFlow decimal.Decimal `json:"netCashFlow"`
}

// AssetRegisterRow is one asset with its depreciation-adjusted book value.
type AssetRegisterRow struct {
	AssetID                 string          `json:"assetID"`
	Name                    string          `json:"name"`
	Category                string          `json:"category"`
	PurchaseDate            time.Time       `json:"purchaseDate"`
	PurchasePrice           decimal.Decimal `json:"purchasePrice"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulatedDepreciation"`
	NetBookValue            decimal.Decimal `json:"netBookValue"`
}

// DepreciationScheduleRow is one period's straight-line charge for an asset.
type DepreciationScheduleRow struct {
	AssetID      string          `json:"assetID"`
	AssetName    string          `json:"assetName"`
	Period       string          `json:"period"` // YYYY-MM
	Charge       decimal.Decimal `json:"charge"`
	Accumulated  decimal.Decimal `json:"accumulated"`
	NetBookValue decimal.Decimal `json:"netBookValue"`
	FullyWritten bool            `json:"fullyWritten"`
}

// CashMovement is one posted journal line touching a cash or bank account,
// tagged with the entry's reference type for cash-flow bucketing.
type CashMovement struct {
	ReferenceType ReferenceType   `json:"referenceType"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// UnpostedTransactionRow is one outbox entry on the reconciliation report.
type UnpostedTransactionRow struct {
	PostingID     string        `json:"postingID"`
	ReferenceType ReferenceType `json:"referenceType"`
	ReferenceID   string        `json:"referenceID"`
	Attempts      int           `json:"attempts"`
	LastError     string        `json:"lastError"`
	CreatedAt     time.Time     `json:"createdAt"`
}
