package dto

import (
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
)

// SetMappingRequest binds a source type to a ledger account for auto-posting.
// Setting a mapping deactivates any previous active mapping for the same
// (mappingType, sourceType) pair.
type SetMappingRequest struct {
	MappingType domain.MappingType `json:"mappingType" binding:"required,oneof=REVENUE EXPENSE ASSET LIABILITY"`
	SourceType  string             `json:"sourceType" binding:"required"`
	AccountCode string             `json:"accountCode" binding:"required,accountcode"`
}

// MappingResponse defines the data returned for an account mapping.
type MappingResponse struct {
	MappingID     string             `json:"mappingID"`
	MappingType   domain.MappingType `json:"mappingType"`
	SourceType    string             `json:"sourceType"`
	AccountCode   string             `json:"accountCode"`
	IsDefault     bool               `json:"isDefault"`
	IsActive      bool               `json:"isActive"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToMappingResponse converts a domain.AccountMapping to MappingResponse DTO.
func ToMappingResponse(m *domain.AccountMapping) MappingResponse {
	return MappingResponse{
		MappingID:     m.MappingID,
		MappingType:   m.MappingType,
		SourceType:    m.SourceType,
		AccountCode:   m.AccountCode,
		IsDefault:     m.IsDefault,
		IsActive:      m.IsActive,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// ToMappingResponses converts a slice of domain.AccountMapping to []MappingResponse.
func ToMappingResponses(mappings []domain.AccountMapping) []MappingResponse {
	responses := make([]MappingResponse, len(mappings))
	for i := range mappings {
		responses[i] = ToMappingResponse(&mappings[i])
	}
	return responses
}
