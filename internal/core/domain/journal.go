package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// ReferenceType labels the business event a journal entry records.
type ReferenceType string

const (
	RefPayment       ReferenceType = "PAYMENT"
	RefFeeAssignment ReferenceType = "FEE_ASSIGNMENT"
	RefExpense       ReferenceType = "EXPENSE"
	RefSalary        ReferenceType = "SALARY"
	RefAsset         ReferenceType = "ASSET"
	RefDepreciation  ReferenceType = "DEPRECIATION"
	RefBankTxn       ReferenceType = "BANK_TRANSACTION"
	RefBankTransfer  ReferenceType = "BANK_TRANSFER"
	RefManual        ReferenceType = "MANUAL"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple debit/credit lines. Posted entries are immutable; corrections are
// made with reversing entries.
type JournalEntry struct {
	JournalID         string        `json:"journalID"`   // Primary key (UUID)
	EntryNumber       string        `json:"entryNumber"` // Human readable, JE-YYYY-NNNNNN
	EntryDate         time.Time     `json:"entryDate"`
	Description       string        `json:"description"`
	ReferenceType     ReferenceType `json:"referenceType"`
	ReferenceID       string        `json:"referenceID"` // e.g. the payment reference PAY-2026-AB12CD34
	Status            EntryStatus   `json:"status"`
	PostedAt          *time.Time    `json:"postedAt,omitempty"`
	ReversingEntryID  *string       `json:"reversingEntryID,omitempty"`  // Set on the reversed original
	OriginalJournalID *string       `json:"originalJournalID,omitempty"` // Set on the reversing entry
	Lines             []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single line within a journal entry, affecting one account.
// Exactly one of Debit/Credit is non-zero.
type JournalLine struct {
	LineID      string          `json:"lineID"` // Primary key (UUID)
	JournalID   string          `json:"journalID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"` // Snapshot for historical reports
	AccountName string          `json:"accountName"` // Snapshot for historical reports
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// TotalDebit sums the debit side of a set of lines.
func TotalDebit(lines []JournalLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Debit)
	}
	return sum
}

// TotalCredit sums the credit side of a set of lines.
func TotalCredit(lines []JournalLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Credit)
	}
	return sum
}

// TotalDebit sums the debit side of the entry's lines.
func (e JournalEntry) TotalDebit() decimal.Decimal { return TotalDebit(e.Lines) }

// TotalCredit sums the credit side of the entry's lines.
func (e JournalEntry) TotalCredit() decimal.Decimal { return TotalCredit(e.Lines) }

// IsBalanced reports whether the entry's debits equal its credits.
func (e JournalEntry) IsBalanced() bool { return e.TotalDebit().Equal(e.TotalCredit()) }
