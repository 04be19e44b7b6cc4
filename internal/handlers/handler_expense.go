package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// expenseHandler handles HTTP requests for expenses and expense categories.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(expenseService portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: expenseService}
}

// createCategory godoc
// @Summary Create an expense category
// @Tags expenses
// @Accept json
// @Produce json
// @Param category body dto.CreateExpenseCategoryRequest true "Category details"
// @Success 201 {object} dto.ExpenseCategoryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /expense-categories [post]
func (h *expenseHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	category, err := h.expenseService.CreateCategory(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create expense category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseCategoryResponse(category))
}

// listCategories godoc
// @Summary List expense categories
// @Tags expenses
// @Produce json
// @Param activeOnly query bool false "Only active categories"
// @Success 200 {array} dto.ExpenseCategoryResponse
// @Router /expense-categories [get]
func (h *expenseHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activeOnly := c.Query("activeOnly") == "true"
	categories, err := h.expenseService.ListCategories(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list expense categories")
		return
	}

	responses := make([]dto.ExpenseCategoryResponse, len(categories))
	for i := range categories {
		responses[i] = dto.ToExpenseCategoryResponse(&categories[i])
	}
	c.JSON(http.StatusOK, responses)
}

// createExpense godoc
// @Summary Record an expense
// @Description Records an approved expense; potential duplicates are rejected unless allowDuplicate is set
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 409 {object} map[string]string "Potential duplicate"
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create expense")
		return
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID), slog.String("reference", expense.Reference))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Param categoryID query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.ListExpensesResponse
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, dto.ListExpensesResponse{
		Expenses: dto.ToExpenseResponses(expenses),
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
}

// getExpense godoc
// @Summary Get an expense by ID
// @Tags expenses
// @Produce json
// @Param expenseID path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Router /expenses/{expenseID} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("expenseID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// payExpense godoc
// @Summary Mark an expense paid
// @Description Moves an approved expense to paid and posts it to the ledger
// @Tags expenses
// @Produce json
// @Param expenseID path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 409 {object} map[string]string "Expense is not approved"
// @Router /expenses/{expenseID}/pay [post]
func (h *expenseHandler) payExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	expense, err := h.expenseService.MarkExpensePaid(c.Request.Context(), c.Param("expenseID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to mark expense paid")
		return
	}

	logger.Info("Expense paid", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// registerExpenseRoutes registers expense and category routes.
func registerExpenseRoutes(group *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	categories := group.Group("/expense-categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
	}

	expenses := group.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:expenseID", h.getExpense)
		expenses.POST("/:expenseID/pay", h.payExpense)
	}
}
