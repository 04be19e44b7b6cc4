package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// payrollHandler handles HTTP requests for staff and salary payments.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

func newPayrollHandler(payrollService portssvc.PayrollSvcFacade) *payrollHandler {
	return &payrollHandler{payrollService: payrollService}
}

// createStaff godoc
// @Summary Register a staff member
// @Tags payroll
// @Accept json
// @Produce json
// @Param staff body dto.CreateStaffRequest true "Staff details"
// @Success 201 {object} dto.StaffResponse
// @Failure 409 {object} map[string]string "Staff number already in use"
// @Router /staff [post]
func (h *payrollHandler) createStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	staff, err := h.payrollService.CreateStaff(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create staff member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToStaffResponse(staff))
}

// updateStaff godoc
// @Summary Update a staff record
// @Tags payroll
// @Accept json
// @Produce json
// @Param staffID path string true "Staff ID"
// @Param staff body dto.UpdateStaffRequest true "Fields to update"
// @Success 200 {object} dto.StaffResponse
// @Failure 404 {object} map[string]string "Staff member not found"
// @Router /staff/{staffID} [put]
func (h *payrollHandler) updateStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	staff, err := h.payrollService.UpdateStaff(c.Request.Context(), c.Param("staffID"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update staff member")
		return
	}
	c.JSON(http.StatusOK, dto.ToStaffResponse(staff))
}

// getStaff godoc
// @Summary Get a staff member by ID
// @Tags payroll
// @Produce json
// @Param staffID path string true "Staff ID"
// @Success 200 {object} dto.StaffResponse
// @Failure 404 {object} map[string]string "Staff member not found"
// @Router /staff/{staffID} [get]
func (h *payrollHandler) getStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	staff, err := h.payrollService.GetStaffByID(c.Request.Context(), c.Param("staffID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve staff member")
		return
	}
	c.JSON(http.StatusOK, dto.ToStaffResponse(staff))
}

// listStaff godoc
// @Summary List staff members
// @Tags payroll
// @Produce json
// @Param activeOnly query bool false "Only active staff"
// @Success 200 {array} dto.StaffResponse
// @Router /staff [get]
func (h *payrollHandler) listStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activeOnly := c.Query("activeOnly") == "true"
	staff, err := h.payrollService.ListStaff(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list staff")
		return
	}
	c.JSON(http.StatusOK, dto.ToStaffResponses(staff))
}

// previewDeductions godoc
// @Summary Preview statutory deductions
// @Description Computes PAYE, pension, NHF and NHIS for a monthly pay without persisting anything
// @Tags payroll
// @Accept json
// @Produce json
// @Param pay body dto.PreviewDeductionsRequest true "Basic salary and total allowances"
// @Success 200 {object} statutory.DeductionsResult
// @Router /payroll/deductions/preview [post]
func (h *payrollHandler) previewDeductions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PreviewDeductionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	result, err := h.payrollService.PreviewDeductions(c.Request.Context(), req.BasicSalary, req.Allowances)
	if err != nil {
		respondError(c, logger, err, "Failed to compute deductions")
		return
	}
	c.JSON(http.StatusOK, result)
}

// createSalaryPayment godoc
// @Summary Prepare a salary payment
// @Description Computes statutory deductions and records a pending salary payment for the period
// @Tags payroll
// @Accept json
// @Produce json
// @Param salary body dto.CreateSalaryPaymentRequest true "Salary payment details"
// @Success 201 {object} dto.SalaryPaymentResponse
// @Failure 409 {object} map[string]string "Period already paid"
// @Router /salaries [post]
func (h *payrollHandler) createSalaryPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateSalaryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	payment, err := h.payrollService.CreateSalaryPayment(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create salary payment")
		return
	}

	logger.Info("Salary payment created",
		slog.String("salary_payment_id", payment.SalaryPaymentID),
		slog.String("staff_id", payment.StaffID),
	)
	c.JSON(http.StatusCreated, dto.ToSalaryPaymentResponse(payment))
}

// listSalaryPayments godoc
// @Summary List salary payments
// @Tags payroll
// @Produce json
// @Param staffID query string false "Filter by staff member"
// @Param status query string false "Filter by status"
// @Success 200 {array} dto.SalaryPaymentResponse
// @Router /salaries [get]
func (h *payrollHandler) listSalaryPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListSalaryPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	payments, err := h.payrollService.ListSalaryPayments(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list salary payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToSalaryPaymentResponses(payments))
}

// getSalaryPayment godoc
// @Summary Get a salary payment by ID
// @Tags payroll
// @Produce json
// @Param salaryPaymentID path string true "Salary payment ID"
// @Success 200 {object} dto.SalaryPaymentResponse
// @Failure 404 {object} map[string]string "Salary payment not found"
// @Router /salaries/{salaryPaymentID} [get]
func (h *payrollHandler) getSalaryPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payment, err := h.payrollService.GetSalaryPaymentByID(c.Request.Context(), c.Param("salaryPaymentID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve salary payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToSalaryPaymentResponse(payment))
}

// approveSalaryPayment godoc
// @Summary Approve a pending salary payment
// @Tags payroll
// @Produce json
// @Param salaryPaymentID path string true "Salary payment ID"
// @Success 200 {object} dto.SalaryPaymentResponse
// @Failure 409 {object} map[string]string "Salary payment is not pending"
// @Router /salaries/{salaryPaymentID}/approve [post]
func (h *payrollHandler) approveSalaryPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	payment, err := h.payrollService.ApproveSalaryPayment(c.Request.Context(), c.Param("salaryPaymentID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to approve salary payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToSalaryPaymentResponse(payment))
}

// paySalary godoc
// @Summary Mark a salary payment paid
// @Description Moves an approved salary to paid and posts it to the ledger
// @Tags payroll
// @Produce json
// @Param salaryPaymentID path string true "Salary payment ID"
// @Success 200 {object} dto.SalaryPaymentResponse
// @Failure 409 {object} map[string]string "Salary payment is not approved"
// @Router /salaries/{salaryPaymentID}/pay [post]
func (h *payrollHandler) paySalary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	payment, err := h.payrollService.MarkSalaryPaid(c.Request.Context(), c.Param("salaryPaymentID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to mark salary paid")
		return
	}

	logger.Info("Salary paid", slog.String("salary_payment_id", payment.SalaryPaymentID))
	c.JSON(http.StatusOK, dto.ToSalaryPaymentResponse(payment))
}

// registerPayrollRoutes registers staff and salary routes.
func registerPayrollRoutes(group *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := newPayrollHandler(payrollService)

	staff := group.Group("/staff")
	{
		staff.POST("", h.createStaff)
		staff.GET("", h.listStaff)
		staff.GET("/:staffID", h.getStaff)
		staff.PUT("/:staffID", h.updateStaff)
	}

	salaries := group.Group("/salaries")
	{
		salaries.POST("", h.createSalaryPayment)
		salaries.GET("", h.listSalaryPayments)
		salaries.GET("/:salaryPaymentID", h.getSalaryPayment)
		salaries.POST("/:salaryPaymentID/approve", h.approveSalaryPayment)
		salaries.POST("/:salaryPaymentID/pay", h.paySalary)
	}

	group.POST("/payroll/deductions/preview", h.previewDeductions)
}
