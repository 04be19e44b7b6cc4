package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// paymentHandler handles HTTP requests for student fee payments and fee assignments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: paymentService}
}

// createPayment godoc
// @Summary Record a student fee payment
// @Description Records a pending payment; allocations must sum to the payment amount
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create payment")
		return
	}

	logger.Info("Payment created", slog.String("payment_id", payment.PaymentID), slog.String("reference", payment.Reference))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List payments
// @Tags payments
// @Produce json
// @Param studentID query string false "Filter by student"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.ListPaymentsResponse
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ListPaymentsResponse{
		Payments: dto.ToPaymentResponses(payments),
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
}

// getPayment godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), c.Param("paymentID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// confirmPayment godoc
// @Summary Confirm a pending payment
// @Description Confirms the payment and posts it to the ledger
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 409 {object} map[string]string "Payment is not pending"
// @Router /payments/{paymentID}/confirm [post]
func (h *paymentHandler) confirmPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	payment, err := h.paymentService.ConfirmPayment(c.Request.Context(), c.Param("paymentID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to confirm payment")
		return
	}

	logger.Info("Payment confirmed", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// cancelPayment godoc
// @Summary Cancel a pending payment
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 409 {object} map[string]string "Payment is not pending"
// @Router /payments/{paymentID}/cancel [post]
func (h *paymentHandler) cancelPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	payment, err := h.paymentService.CancelPayment(c.Request.Context(), c.Param("paymentID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// refundPayment godoc
// @Summary Refund a confirmed payment
// @Description Refunds the payment and posts a reversing ledger entry
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 409 {object} map[string]string "Payment is not confirmed"
// @Router /payments/{paymentID}/refund [post]
func (h *paymentHandler) refundPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	payment, err := h.paymentService.RefundPayment(c.Request.Context(), c.Param("paymentID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to refund payment")
		return
	}

	logger.Info("Payment refunded", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// createFeeAssignment godoc
// @Summary Bill a student for a term
// @Description Creates a fee assignment and posts the receivable
// @Tags payments
// @Accept json
// @Produce json
// @Param assignment body dto.CreateFeeAssignmentRequest true "Fee assignment details"
// @Success 201 {object} dto.FeeAssignmentResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /fee-assignments [post]
func (h *paymentHandler) createFeeAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFeeAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	assignment, err := h.paymentService.CreateFeeAssignment(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create fee assignment")
		return
	}

	logger.Info("Fee assignment created", slog.String("assignment_id", assignment.AssignmentID))
	c.JSON(http.StatusCreated, dto.ToFeeAssignmentResponse(assignment))
}

// getFeeAssignment godoc
// @Summary Get a fee assignment by ID
// @Tags payments
// @Produce json
// @Param assignmentID path string true "Fee assignment ID"
// @Success 200 {object} dto.FeeAssignmentResponse
// @Failure 404 {object} map[string]string "Fee assignment not found"
// @Router /fee-assignments/{assignmentID} [get]
func (h *paymentHandler) getFeeAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	assignment, err := h.paymentService.GetFeeAssignmentByID(c.Request.Context(), c.Param("assignmentID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve fee assignment")
		return
	}
	c.JSON(http.StatusOK, dto.ToFeeAssignmentResponse(assignment))
}

// listStudentFeeAssignments godoc
// @Summary List a student's fee assignments
// @Tags payments
// @Produce json
// @Param studentID path string true "Student ID"
// @Success 200 {array} dto.FeeAssignmentResponse
// @Router /students/{studentID}/fee-assignments [get]
func (h *paymentHandler) listStudentFeeAssignments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	assignments, err := h.paymentService.ListFeeAssignmentsByStudent(c.Request.Context(), c.Param("studentID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list fee assignments")
		return
	}

	responses := make([]dto.FeeAssignmentResponse, len(assignments))
	for i := range assignments {
		responses[i] = dto.ToFeeAssignmentResponse(&assignments[i])
	}
	c.JSON(http.StatusOK, responses)
}

// registerPaymentRoutes registers payment and fee assignment routes.
func registerPaymentRoutes(group *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := group.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:paymentID", h.getPayment)
		payments.POST("/:paymentID/confirm", h.confirmPayment)
		payments.POST("/:paymentID/cancel", h.cancelPayment)
		payments.POST("/:paymentID/refund", h.refundPayment)
	}

	assignments := group.Group("/fee-assignments")
	{
		assignments.POST("", h.createFeeAssignment)
		assignments.GET("/:assignmentID", h.getFeeAssignment)
	}

	group.GET("/students/:studentID/fee-assignments", h.listStudentFeeAssignments)
}
