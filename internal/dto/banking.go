package dto

import (
	"time"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest registers a real-world bank account. GLAccountCode
// optionally links the account to a ledger account so its transactions
// auto-post.
type CreateBankAccountRequest struct {
	Name          string `json:"name" binding:"required"`
	BankName      string `json:"bankName" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required,len=10,numeric"`
	AccountType   string `json:"accountType" binding:"required,oneof=current savings"`
	GLAccountCode string `json:"glAccountCode" binding:"omitempty,accountcode"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID string                 `json:"bankAccountID"`
	Name          string                 `json:"name"`
	BankName      string                 `json:"bankName"`
	AccountNumber string                 `json:"accountNumber"`
	AccountType   domain.BankAccountType `json:"accountType"`
	GLAccountCode string                 `json:"glAccountCode"`
	Balance       decimal.Decimal        `json:"balance"`
	IsActive      bool                   `json:"isActive"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// CreateBankTransactionRequest records one movement on a bank account.
type CreateBankTransactionRequest struct {
	BankAccountID string          `json:"bankAccountID" binding:"required"`
	TxnType       string          `json:"txnType" binding:"required,oneof=deposit withdrawal transfer_in transfer_out bank_charge interest"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	TxnDate       time.Time       `json:"txnDate" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Reference     string          `json:"reference"`
}

// BankTransactionResponse defines the data returned for a bank transaction.
type BankTransactionResponse struct {
	BankTransactionID string                       `json:"bankTransactionID"`
	BankAccountID     string                       `json:"bankAccountID"`
	TxnType           domain.BankTransactionType   `json:"txnType"`
	Debit             decimal.Decimal              `json:"debit"`
	Credit            decimal.Decimal              `json:"credit"`
	TxnDate           time.Time                    `json:"txnDate"`
	Description       string                       `json:"description"`
	Reference         string                       `json:"reference"`
	Status            domain.BankTransactionStatus `json:"status"`
	IsReconciled      bool                         `json:"isReconciled"`
	CreatedAt         time.Time                    `json:"createdAt"`
}

// ListBankTransactionsParams filters a bank transaction listing.
type ListBankTransactionsParams struct {
	TxnType *string    `form:"txnType"`
	Status  *string    `form:"status"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
	Limit   int        `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	Offset  int        `form:"offset,default=0" binding:"omitempty,min=0"`
}

// CreateBankTransferRequest moves money between two of the school's bank
// accounts. Transfers above the approval threshold start pending.
type CreateBankTransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	TransferDate  time.Time       `json:"transferDate" binding:"required"`
	Description   string          `json:"description"`
}

// BankTransferResponse defines the data returned for a bank transfer.
type BankTransferResponse struct {
	TransferID    string                    `json:"transferID"`
	FromAccountID string                    `json:"fromAccountID"`
	ToAccountID   string                    `json:"toAccountID"`
	Amount        decimal.Decimal           `json:"amount"`
	TransferDate  time.Time                 `json:"transferDate"`
	Description   string                    `json:"description"`
	Reference     string                    `json:"reference"`
	Status        domain.BankTransferStatus `json:"status"`
	ApprovedBy    string                    `json:"approvedBy"`
	ApprovedAt    *time.Time                `json:"approvedAt,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

// ToBankAccountResponse converts a domain.BankAccount to its DTO.
func ToBankAccountResponse(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID: a.BankAccountID,
		Name:          a.Name,
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		GLAccountCode: a.GLAccountCode,
		Balance:       a.Balance,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

// ToBankAccountResponses converts a slice of domain.BankAccount to DTOs.
func ToBankAccountResponses(accounts []domain.BankAccount) []BankAccountResponse {
	responses := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToBankAccountResponse(&accounts[i])
	}
	return responses
}

// ToBankTransactionResponse converts a domain.BankTransaction to its DTO.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		BankTransactionID: t.BankTransactionID,
		BankAccountID:     t.BankAccountID,
		TxnType:           t.TxnType,
		Debit:             t.Debit,
		Credit:            t.Credit,
		TxnDate:           t.TxnDate,
		Description:       t.Description,
		Reference:         t.Reference,
		Status:            t.Status,
		IsReconciled:      t.IsReconciled,
		CreatedAt:         t.CreatedAt,
	}
}

// ToBankTransactionResponses converts a slice of domain.BankTransaction to DTOs.
func ToBankTransactionResponses(txns []domain.BankTransaction) []BankTransactionResponse {
	responses := make([]BankTransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToBankTransactionResponse(&txns[i])
	}
	return responses
}

// ToBankTransferResponse converts a domain.BankTransfer to its DTO.
func ToBankTransferResponse(t *domain.BankTransfer) BankTransferResponse {
	return BankTransferResponse{
		TransferID:    t.TransferID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		TransferDate:  t.TransferDate,
		Description:   t.Description,
		Reference:     t.Reference,
		Status:        t.Status,
		ApprovedBy:    t.ApprovedBy,
		ApprovedAt:    t.ApprovedAt,
		CreatedAt:     t.CreatedAt,
	}
}

// ToBankTransferResponses converts a slice of domain.BankTransfer to DTOs.
func ToBankTransferResponses(transfers []domain.BankTransfer) []BankTransferResponse {
	responses := make([]BankTransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToBankTransferResponse(&transfers[i])
	}
	return responses
}
