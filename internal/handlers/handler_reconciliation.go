package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// reconciliationHandler surfaces and retries auto-postings that failed inline.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvc
}

func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvc) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: reconciliationService}
}

// listUnposted godoc
// @Summary List business events whose ledger posting is still pending
// @Tags reconciliation
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} domain.UnpostedTransactionRow
// @Router /reconciliation/unposted [get]
func (h *reconciliationHandler) listUnposted(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 50
	offset := 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}

	rows, err := h.reconciliationService.ListUnposted(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list unposted transactions")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// retryPosting godoc
// @Summary Retry one pending posting
// @Description Idempotent; an already-posted reference is marked resolved without a second entry
// @Tags reconciliation
// @Produce json
// @Param postingID path string true "Pending posting ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Pending posting not found"
// @Router /reconciliation/{postingID}/retry [post]
func (h *reconciliationHandler) retryPosting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	entry, err := h.reconciliationService.RetryPosting(c.Request.Context(), c.Param("postingID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to retry posting")
		return
	}

	logger.Info("Pending posting resolved",
		slog.String("posting_id", c.Param("postingID")),
		slog.String("journal_id", entry.JournalID),
	)
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// retryAll godoc
// @Summary Retry every pending posting
// @Description Re-runs postings created before the cutoff (default: now) and reports how many succeeded
// @Tags reconciliation
// @Produce json
// @Param cutoff query string false "Only retry postings created before this time (RFC 3339)"
// @Success 200 {object} map[string]int "Number of postings resolved"
// @Router /reconciliation/retry-all [post]
func (h *reconciliationHandler) retryAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cutoff := time.Now()
	if v := c.Query("cutoff"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondBindError(c, logger, err)
			return
		}
		cutoff = parsed
	}

	actor := middleware.GetActorFromContext(c)
	resolved, err := h.reconciliationService.RetryAll(c.Request.Context(), cutoff, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to retry pending postings")
		return
	}

	logger.Info("Pending postings retried", slog.Int("resolved", resolved))
	c.JSON(http.StatusOK, gin.H{"resolved": resolved})
}

// registerReconciliationRoutes registers reconciliation routes.
func registerReconciliationRoutes(group *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvc) {
	h := newReconciliationHandler(reconciliationService)

	recon := group.Group("/reconciliation")
	{
		recon.GET("/unposted", h.listUnposted)
		recon.POST("/retry-all", h.retryAll)
		recon.POST("/:postingID/retry", h.retryPosting)
	}
}
