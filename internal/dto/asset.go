package dto

import (
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAssetRequest registers a fixed asset purchase.
type CreateAssetRequest struct {
	Name            string          `json:"name" binding:"required"`
	Category        string          `json:"category" binding:"required"` // Mapping source type
	PurchaseDate    time.Time       `json:"purchaseDate" binding:"required"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice" binding:"required"`
	ResidualValue   decimal.Decimal `json:"residualValue"`
	UsefulLifeYears int             `json:"usefulLifeYears" binding:"required,min=1,max=100"`
	Method          string          `json:"method" binding:"required,oneof=cash bank_transfer pos online cheque"`
	VendorName      string          `json:"vendorName"`
}

// AssetResponse defines the data returned for a fixed asset.
type AssetResponse struct {
	AssetID                 string          `json:"assetID"`
	Name                    string          `json:"name"`
	Category                string          `json:"category"`
	PurchaseDate            time.Time       `json:"purchaseDate"`
	PurchasePrice           decimal.Decimal `json:"purchasePrice"`
	ResidualValue           decimal.Decimal `json:"residualValue"`
	UsefulLifeYears         int             `json:"usefulLifeYears"`
	VendorName              string          `json:"vendorName"`
	Reference               string          `json:"reference"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulatedDepreciation"`
	NetBookValue            decimal.Decimal `json:"netBookValue"`
	MonthlyDepreciation     decimal.Decimal `json:"monthlyDepreciation"`
	LastDepreciatedAt       *time.Time      `json:"lastDepreciatedAt,omitempty"`
	IsActive                bool            `json:"isActive"`
	CreatedAt               time.Time       `json:"createdAt"`
}

// RunDepreciationRequest triggers a monthly depreciation run. Period is
// normalized to the first day of its month; a missing period means the
// current month.
type RunDepreciationRequest struct {
	Period *time.Time `json:"period"`
}

// DepreciationRunResult summarizes one asset's outcome in a depreciation run.
type DepreciationRunResult struct {
	AssetID   string          `json:"assetID"`
	AssetName string          `json:"assetName"`
	Amount    decimal.Decimal `json:"amount"`
	Skipped   bool            `json:"skipped"`
	Reason    string          `json:"reason,omitempty"`
}

// RunDepreciationResponse reports the outcome of a depreciation run.
type RunDepreciationResponse struct {
	Period      time.Time               `json:"period"`
	TotalCharge decimal.Decimal         `json:"totalCharge"`
	Results     []DepreciationRunResult `json:"results"`
}

// ToAssetResponse converts a domain.Asset to AssetResponse DTO.
func ToAssetResponse(a *domain.Asset) AssetResponse {
	return AssetResponse{
		AssetID:                 a.AssetID,
		Name:                    a.Name,
		Category:                a.Category,
		PurchaseDate:            a.PurchaseDate,
		PurchasePrice:           a.PurchasePrice,
		ResidualValue:           a.ResidualValue,
		UsefulLifeYears:         a.UsefulLifeYears,
		VendorName:              a.VendorName,
		Reference:               a.Reference,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
		NetBookValue:            a.PurchasePrice.Sub(a.AccumulatedDepreciation),
		MonthlyDepreciation:     a.MonthlyDepreciation(),
		LastDepreciatedAt:       a.LastDepreciatedAt,
		IsActive:                a.IsActive,
		CreatedAt:               a.CreatedAt,
	}
}

// ToAssetResponses converts a slice of domain.Asset to []AssetResponse.
func ToAssetResponses(assets []domain.Asset) []AssetResponse {
	responses := make([]AssetResponse, len(assets))
	for i := range assets {
		responses[i] = ToAssetResponse(&assets[i])
	}
	return responses
}
