package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// reportingHandler handles HTTP requests for financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(reportingService portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// trialBalanceReport godoc
// @Summary Trial balance report
// @Tags reports
// @Produce json
// @Param asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.TrialBalance
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalanceReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	tb, err := h.reportingService.GetTrialBalance(c.Request.Context(), params.Resolve(time.Now()))
	if err != nil {
		respondError(c, logger, err, "Failed to compute trial balance")
		return
	}
	c.JSON(http.StatusOK, tb)
}

// incomeStatement godoc
// @Summary Income statement
// @Description Revenue, expenses and net income over a period
// @Tags reports
// @Produce json
// @Param from query string false "Period start (YYYY-MM-DD), defaults to Jan 1"
// @Param to query string false "Period end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.IncomeStatement
// @Router /reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	from, to := params.Resolve(time.Now())
	stmt, err := h.reportingService.GetIncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to compute income statement")
		return
	}
	c.JSON(http.StatusOK, stmt)
}

// balanceSheet godoc
// @Summary Balance sheet
// @Description Financial position as of a date; net income to date is folded into retained earnings
// @Tags reports
// @Produce json
// @Param asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.BalanceSheet
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	sheet, err := h.reportingService.GetBalanceSheet(c.Request.Context(), params.Resolve(time.Now()))
	if err != nil {
		respondError(c, logger, err, "Failed to compute balance sheet")
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// cashFlowStatement godoc
// @Summary Cash flow statement
// @Description Cash and bank movements bucketed into operating, investing and financing activities
// @Tags reports
// @Produce json
// @Param from query string false "Period start (YYYY-MM-DD), defaults to Jan 1"
// @Param to query string false "Period end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.CashFlowStatement
// @Router /reports/cash-flow [get]
func (h *reportingHandler) cashFlowStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	from, to := params.Resolve(time.Now())
	stmt, err := h.reportingService.GetCashFlowStatement(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to compute cash flow statement")
		return
	}
	c.JSON(http.StatusOK, stmt)
}

// assetRegister godoc
// @Summary Asset register report
// @Description Every asset with purchase cost, accumulated depreciation and net book value
// @Tags reports
// @Produce json
// @Success 200 {array} domain.AssetRegisterRow
// @Router /reports/asset-register [get]
func (h *reportingHandler) assetRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.GetAssetRegister(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to build asset register")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// depreciationSchedule godoc
// @Summary Depreciation schedule for one asset
// @Description Projects the straight-line schedule month by month until fully written down
// @Tags reports
// @Produce json
// @Param assetID path string true "Asset ID"
// @Success 200 {array} domain.DepreciationScheduleRow
// @Failure 404 {object} map[string]string "Asset not found"
// @Router /reports/depreciation-schedule/{assetID} [get]
func (h *reportingHandler) depreciationSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.GetDepreciationSchedule(c.Request.Context(), c.Param("assetID"))
	if err != nil {
		respondError(c, logger, err, "Failed to build depreciation schedule")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// registerReportingRoutes registers report routes.
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalanceReport)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/cash-flow", h.cashFlowStatement)
		reports.GET("/asset-register", h.assetRegister)
		reports.GET("/depreciation-schedule/:assetID", h.depreciationSchedule)
	}
}
