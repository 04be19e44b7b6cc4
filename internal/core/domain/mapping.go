package domain

// MappingType identifies the family of business concepts a mapping covers.
type MappingType string

const (
	MappingRevenue   MappingType = "REVENUE"
	MappingExpense   MappingType = "EXPENSE"
	MappingAsset     MappingType = "ASSET"
	MappingLiability MappingType = "LIABILITY"
)

// AccountMapping associates a business concept (fee type, expense category,
// asset category, statutory liability) with one ledger account.
// Invariant: at most one active mapping per (MappingType, SourceType) pair.
// Mappings are deactivated rather than deleted to preserve the audit trail.
type AccountMapping struct {
	MappingID   string      `json:"mappingID"` // Primary key (UUID)
	MappingType MappingType `json:"mappingType"`
	SourceType  string      `json:"sourceType"`  // e.g. "tuition", "utilities", "furniture", "paye"
	AccountCode string      `json:"accountCode"` // FK -> accounts.code
	IsDefault   bool        `json:"isDefault"`   // Seeded by InitializeDefaults
	IsActive    bool        `json:"isActive"`
	AuditFields
}
