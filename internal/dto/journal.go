package dto

import (
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one leg of a manual journal entry. Exactly one of
// Debit/Credit must be positive.
type JournalLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required,accountcode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalEntryRequest defines a manual journal entry. Lines must sum to
// equal debits and credits.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time            `json:"entryDate" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
	PostNow     bool                 `json:"postNow"` // Post immediately instead of leaving a draft
}

// JournalLineResponse defines the data returned for one journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry header.
type JournalEntryResponse struct {
	JournalID        string                `json:"journalID"`
	EntryNumber      string                `json:"entryNumber"`
	EntryDate        time.Time             `json:"entryDate"`
	Description      string                `json:"description"`
	ReferenceType    domain.ReferenceType  `json:"referenceType"`
	ReferenceID      string                `json:"referenceID"`
	Status           domain.EntryStatus    `json:"status"`
	PostedAt         *time.Time            `json:"postedAt,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	TotalDebit       decimal.Decimal       `json:"totalDebit"`
	TotalCredit      decimal.Decimal       `json:"totalCredit"`
	Lines            []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
}

// ListJournalEntriesParams filters a journal listing.
type ListJournalEntriesParams struct {
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	ReferenceType *string    `form:"referenceType"`
	Status        *string    `form:"status"`
	Limit         int        `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	Offset        int        `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListJournalEntriesResponse wraps a paginated journal listing.
type ListJournalEntriesResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// ReverseJournalEntryRequest asks for a reversing entry against a posted one.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ToJournalLineResponse converts a domain.JournalLine to JournalLineResponse DTO.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		AccountCode: l.AccountCode,
		AccountName: l.AccountName,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		JournalID:        e.JournalID,
		EntryNumber:      e.EntryNumber,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		ReferenceType:    e.ReferenceType,
		ReferenceID:      e.ReferenceID,
		Status:           e.Status,
		PostedAt:         e.PostedAt,
		ReversingEntryID: e.ReversingEntryID,
		TotalDebit:       e.TotalDebit(),
		TotalCredit:      e.TotalCredit(),
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToJournalLineResponse(&e.Lines[i])
		}
	}
	return resp
}

// ToJournalEntryResponses converts a slice of domain.JournalEntry to []JournalEntryResponse.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return responses
}
