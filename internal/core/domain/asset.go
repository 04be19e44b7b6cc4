package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a fixed asset on the register, depreciated straight-line.
type Asset struct {
	AssetID                 string          `json:"assetID"` // Primary key (UUID)
	Name                    string          `json:"name"`
	Category                string          `json:"category"` // Mapping source type, e.g. "furniture"
	PurchaseDate            time.Time       `json:"purchaseDate"`
	PurchasePrice           decimal.Decimal `json:"purchasePrice"`
	ResidualValue           decimal.Decimal `json:"residualValue"`
	UsefulLifeYears         int             `json:"usefulLifeYears"`
	Method                  PaymentMethod   `json:"method"`
	VendorName              string          `json:"vendorName"`
	Reference               string          `json:"reference"` // AST-YYYY-XXXXXX
	AccumulatedDepreciation decimal.Decimal `json:"accumulatedDepreciation"`
	LastDepreciatedAt       *time.Time      `json:"lastDepreciatedAt,omitempty"`
	IsActive                bool            `json:"isActive"`
	AuditFields
}

// DepreciableBase is the portion of the asset cost subject to depreciation.
func (a Asset) DepreciableBase() decimal.Decimal {
	return a.PurchasePrice.Sub(a.ResidualValue)
}

// MonthlyDepreciation returns the straight-line monthly charge, zero when the
// asset has no useful life configured.
func (a Asset) MonthlyDepreciation() decimal.Decimal {
	if a.UsefulLifeYears <= 0 {
		return decimal.Zero
	}
	months := decimal.NewFromInt(int64(a.UsefulLifeYears) * 12)
	return a.DepreciableBase().Div(months).Round(2)
}

// RemainingDepreciation is how much may still be charged before the asset is
// fully written down to its residual value.
func (a Asset) RemainingDepreciation() decimal.Decimal {
	remaining := a.DepreciableBase().Sub(a.AccumulatedDepreciation)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// DepreciationRun records one monthly depreciation charge against an asset.
// Period is normalized to the first day of the month; at most one run exists
// per asset and period.
type DepreciationRun struct {
	RunID     string          `json:"runID"` // Primary key (UUID)
	AssetID   string          `json:"assetID"`
	Period    time.Time       `json:"period"`
	Amount    decimal.Decimal `json:"amount"`
	JournalID string          `json:"journalID"` // FK -> journal entry, empty if posting deferred
	AuditFields
}
