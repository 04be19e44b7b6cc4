package dto

import (
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new ledger account.
// The account type and classification are derived from the code prefix.
type CreateAccountRequest struct {
	Code        string  `json:"code" binding:"required,accountcode"`
	Name        string  `json:"name" binding:"required"`
	ParentCode  *string `json:"parentCode"` // Optional, use pointer for nullability
	Description string  `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Code and account type are immutable once created.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for a ledger account.
type AccountResponse struct {
	AccountID      string                       `json:"accountID"`
	Code           string                       `json:"code"`
	Name           string                       `json:"name"`
	AccountType    domain.AccountType           `json:"accountType"`
	Classification domain.AccountClassification `json:"classification"`
	ParentCode     string                       `json:"parentCode"` // Empty string if null in DB
	Description    string                       `json:"description"`
	IsActive       bool                         `json:"isActive"`
	CreatedAt      time.Time                    `json:"createdAt"`
	CreatedBy      string                       `json:"createdBy"`
	LastUpdatedAt  time.Time                    `json:"lastUpdatedAt"`
	LastUpdatedBy  string                       `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Code:           acc.Code,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		Classification: acc.Classification,
		ParentCode:     acc.ParentCode,
		Description:    acc.Description,
		IsActive:       acc.IsActive,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of domain.Account to []AccountResponse.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
