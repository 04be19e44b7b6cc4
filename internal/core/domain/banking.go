package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccountType enumerates supported bank account kinds.
type BankAccountType string

const (
	CurrentAccount BankAccountType = "current"
	SavingsAccount BankAccountType = "savings"
)

// BankAccount is a real-world bank account held by the school. GLAccountCode
// optionally links it to a ledger account under the "112" prefix; without a
// link, transactions on the account are not auto-posted.
type BankAccount struct {
	BankAccountID string          `json:"bankAccountID"` // Primary key (UUID)
	Name          string          `json:"name"`
	BankName      string          `json:"bankName"`
	AccountNumber string          `json:"accountNumber"`
	AccountType   BankAccountType `json:"accountType"`
	GLAccountCode string          `json:"glAccountCode"` // Optional FK -> accounts.code
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// BankTransactionType labels the economic nature of a bank ledger movement.
type BankTransactionType string

const (
	BankDeposit     BankTransactionType = "deposit"
	BankWithdrawal  BankTransactionType = "withdrawal"
	BankTransferIn  BankTransactionType = "transfer_in"
	BankTransferOut BankTransactionType = "transfer_out"
	BankCharge      BankTransactionType = "bank_charge"
	BankInterest    BankTransactionType = "interest"
)

// BankTransactionStatus is the reconciliation state of a bank transaction.
type BankTransactionStatus string

const (
	BankTxnPending    BankTransactionStatus = "pending"
	BankTxnCleared    BankTransactionStatus = "cleared"
	BankTxnReconciled BankTransactionStatus = "reconciled"
)

// BankTransaction is one movement on a bank account's own ledger.
// Exactly one of Debit/Credit is non-zero.
type BankTransaction struct {
	BankTransactionID string                `json:"bankTransactionID"` // Primary key (UUID)
	BankAccountID     string                `json:"bankAccountID"`
	TxnType           BankTransactionType   `json:"txnType"`
	Debit             decimal.Decimal       `json:"debit"`  // Money in
	Credit            decimal.Decimal       `json:"credit"` // Money out
	TxnDate           time.Time             `json:"txnDate"`
	Description       string                `json:"description"`
	Reference         string                `json:"reference"`
	Status            BankTransactionStatus `json:"status"`
	IsReconciled      bool                  `json:"isReconciled"`
	AuditFields
}

// Amount returns the magnitude of the transaction regardless of direction.
func (t BankTransaction) Amount() decimal.Decimal {
	if t.Debit.IsPositive() {
		return t.Debit
	}
	return t.Credit
}

// BankTransferStatus is the approval/lifecycle state of an inter-account transfer.
type BankTransferStatus string

const (
	TransferPending   BankTransferStatus = "pending"
	TransferApproved  BankTransferStatus = "approved"
	TransferCompleted BankTransferStatus = "completed"
	TransferRejected  BankTransferStatus = "rejected"
	TransferCancelled BankTransferStatus = "cancelled"
)

// BankTransfer moves money between two of the school's bank accounts.
type BankTransfer struct {
	TransferID    string             `json:"transferID"` // Primary key (UUID)
	FromAccountID string             `json:"fromAccountID"`
	ToAccountID   string             `json:"toAccountID"`
	Amount        decimal.Decimal    `json:"amount"`
	TransferDate  time.Time          `json:"transferDate"`
	Description   string             `json:"description"`
	Reference     string             `json:"reference"` // TRF-YYYY-XXXXXXXX
	Status        BankTransferStatus `json:"status"`
	ApprovedBy    string             `json:"approvedBy"`
	ApprovedAt    *time.Time         `json:"approvedAt,omitempty"`
	AuditFields
}
