package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// bankingHandler handles HTTP requests for bank accounts, transactions and transfers.
type bankingHandler struct {
	bankingService portssvc.BankingSvcFacade
}

func newBankingHandler(bankingService portssvc.BankingSvcFacade) *bankingHandler {
	return &bankingHandler{bankingService: bankingService}
}

// createBankAccount godoc
// @Summary Register a bank account
// @Description Optionally links the account to a ledger account for auto-posting
// @Tags banking
// @Accept json
// @Produce json
// @Param account body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid GL link"
// @Router /bank-accounts [post]
func (h *bankingHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	account, err := h.bankingService.CreateBankAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create bank account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Tags banking
// @Produce json
// @Param activeOnly query bool false "Only active accounts"
// @Success 200 {array} dto.BankAccountResponse
// @Router /bank-accounts [get]
func (h *bankingHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activeOnly := c.Query("activeOnly") == "true"
	accounts, err := h.bankingService.ListBankAccounts(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list bank accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponses(accounts))
}

// getBankAccount godoc
// @Summary Get a bank account by ID
// @Tags banking
// @Produce json
// @Param bankAccountID path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 404 {object} map[string]string "Bank account not found"
// @Router /bank-accounts/{bankAccountID} [get]
func (h *bankingHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.bankingService.GetBankAccountByID(c.Request.Context(), c.Param("bankAccountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// recordTransaction godoc
// @Summary Record a bank transaction
// @Description Updates the running balance and posts to the ledger when the account has a GL link
// @Tags banking
// @Accept json
// @Produce json
// @Param transaction body dto.CreateBankTransactionRequest true "Transaction details"
// @Success 201 {object} dto.BankTransactionResponse
// @Failure 400 {object} map[string]string "Insufficient funds or amount over the cap"
// @Router /bank-transactions [post]
func (h *bankingHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	txn, err := h.bankingService.RecordTransaction(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to record bank transaction")
		return
	}

	logger.Info("Bank transaction recorded",
		slog.String("bank_transaction_id", txn.BankTransactionID),
		slog.String("txn_type", string(txn.TxnType)),
	)
	c.JSON(http.StatusCreated, dto.ToBankTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List a bank account's transactions
// @Tags banking
// @Produce json
// @Param bankAccountID path string true "Bank account ID"
// @Param txnType query string false "Filter by transaction type"
// @Param status query string false "Filter by status"
// @Success 200 {array} dto.BankTransactionResponse
// @Router /bank-accounts/{bankAccountID}/transactions [get]
func (h *bankingHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListBankTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	txns, err := h.bankingService.ListTransactions(c.Request.Context(), c.Param("bankAccountID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list bank transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankTransactionResponses(txns))
}

// clearTransaction godoc
// @Summary Mark a bank transaction cleared
// @Tags banking
// @Param bankTransactionID path string true "Bank transaction ID"
// @Success 204 "Cleared"
// @Failure 409 {object} map[string]string "Transaction is not pending"
// @Router /bank-transactions/{bankTransactionID}/clear [post]
func (h *bankingHandler) clearTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	if err := h.bankingService.MarkTransactionCleared(c.Request.Context(), c.Param("bankTransactionID"), actor); err != nil {
		respondError(c, logger, err, "Failed to clear bank transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// reconcileTransaction godoc
// @Summary Mark a bank transaction reconciled
// @Tags banking
// @Param bankTransactionID path string true "Bank transaction ID"
// @Success 204 "Reconciled"
// @Failure 409 {object} map[string]string "Transaction is not cleared"
// @Router /bank-transactions/{bankTransactionID}/reconcile [post]
func (h *bankingHandler) reconcileTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	if err := h.bankingService.MarkTransactionReconciled(c.Request.Context(), c.Param("bankTransactionID"), actor); err != nil {
		respondError(c, logger, err, "Failed to reconcile bank transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// createTransfer godoc
// @Summary Transfer money between bank accounts
// @Description Transfers at or below the approval threshold complete immediately; larger ones wait for approval
// @Tags banking
// @Accept json
// @Produce json
// @Param transfer body dto.CreateBankTransferRequest true "Transfer details"
// @Success 201 {object} dto.BankTransferResponse
// @Failure 400 {object} map[string]string "Insufficient funds"
// @Router /bank-transfers [post]
func (h *bankingHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBankTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	transfer, err := h.bankingService.CreateTransfer(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create transfer")
		return
	}

	logger.Info("Bank transfer created",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("status", string(transfer.Status)),
	)
	c.JSON(http.StatusCreated, dto.ToBankTransferResponse(transfer))
}

// listTransfers godoc
// @Summary List bank transfers
// @Tags banking
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.BankTransferResponse
// @Router /bank-transfers [get]
func (h *bankingHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 50
	offset := 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}

	transfers, err := h.bankingService.ListTransfers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list transfers")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankTransferResponses(transfers))
}

// approveTransfer godoc
// @Summary Approve a pending transfer
// @Tags banking
// @Produce json
// @Param transferID path string true "Transfer ID"
// @Success 200 {object} dto.BankTransferResponse
// @Failure 409 {object} map[string]string "Transfer is not pending"
// @Router /bank-transfers/{transferID}/approve [post]
func (h *bankingHandler) approveTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	transfer, err := h.bankingService.ApproveTransfer(c.Request.Context(), c.Param("transferID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to approve transfer")
		return
	}

	logger.Info("Bank transfer approved", slog.String("transfer_id", transfer.TransferID))
	c.JSON(http.StatusOK, dto.ToBankTransferResponse(transfer))
}

// rejectTransfer godoc
// @Summary Reject a pending transfer
// @Tags banking
// @Produce json
// @Param transferID path string true "Transfer ID"
// @Success 200 {object} dto.BankTransferResponse
// @Failure 409 {object} map[string]string "Transfer is not pending"
// @Router /bank-transfers/{transferID}/reject [post]
func (h *bankingHandler) rejectTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	transfer, err := h.bankingService.RejectTransfer(c.Request.Context(), c.Param("transferID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to reject transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankTransferResponse(transfer))
}

// registerBankingRoutes registers banking routes.
func registerBankingRoutes(group *gin.RouterGroup, bankingService portssvc.BankingSvcFacade) {
	h := newBankingHandler(bankingService)

	accounts := group.Group("/bank-accounts")
	{
		accounts.POST("", h.createBankAccount)
		accounts.GET("", h.listBankAccounts)
		accounts.GET("/:bankAccountID", h.getBankAccount)
		accounts.GET("/:bankAccountID/transactions", h.listTransactions)
	}

	txns := group.Group("/bank-transactions")
	{
		txns.POST("", h.recordTransaction)
		txns.POST("/:bankTransactionID/clear", h.clearTransaction)
		txns.POST("/:bankTransactionID/reconcile", h.reconcileTransaction)
	}

	transfers := group.Group("/bank-transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("", h.listTransfers)
		transfers.POST("/:transferID/approve", h.approveTransfer)
		transfers.POST("/:transferID/reject", h.rejectTransfer)
	}
}
