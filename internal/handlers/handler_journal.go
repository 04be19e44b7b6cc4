package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// journalHandler handles HTTP requests for the journal.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// createEntry godoc
// @Summary Record a manual journal entry
// @Description Creates a draft entry, or posts immediately when postNow is set. Lines must balance.
// @Tags journal
// @Accept json
// @Produce json
// @Param entry body dto.CreateJournalEntryRequest true "Entry and lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid or unbalanced entry"
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("journal_id", entry.JournalID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Tags journal
// @Produce json
// @Param from query string false "Earliest entry date (YYYY-MM-DD)"
// @Param to query string false "Latest entry date (YYYY-MM-DD)"
// @Param referenceType query string false "Business reference type"
// @Param status query string false "Entry status"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	entries, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListJournalEntriesResponse{
		Entries: dto.ToJournalEntryResponses(entries),
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal
// @Produce json
// @Param journalID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /journal-entries/{journalID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("journalID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Posted entries are immutable; corrections go through reversal
// @Tags journal
// @Produce json
// @Param journalID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /journal-entries/{journalID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	entry, err := h.journalService.PostEntry(c.Request.Context(), c.Param("journalID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("journal_id", entry.JournalID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Creates and posts a reversing entry with swapped legs and marks the original REVERSED
// @Tags journal
// @Accept json
// @Produce json
// @Param journalID path string true "Journal entry ID"
// @Param reversal body dto.ReverseJournalEntryRequest true "Reversal reason"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 409 {object} map[string]string "Entry is not posted"
// @Router /journal-entries/{journalID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	reversing, err := h.journalService.ReverseEntry(c.Request.Context(), c.Param("journalID"), req.Reason, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("journal_id", c.Param("journalID")),
		slog.String("reversing_entry_id", reversing.JournalID),
	)
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversing))
}

// trialBalance godoc
// @Summary Trial balance
// @Description Per-account debit/credit totals over all posted entries as of a date
// @Tags journal
// @Produce json
// @Param asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.TrialBalance
// @Router /trial-balance [get]
func (h *journalHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	tb, err := h.journalService.GetTrialBalance(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to compute trial balance")
		return
	}
	if !tb.IsBalanced {
		logger.Error("Trial balance does not balance",
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()),
		)
	}
	c.JSON(http.StatusOK, tb)
}

// registerJournalRoutes registers journal routes.
func registerJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:journalID", h.getEntry)
		entries.POST("/:journalID/post", h.postEntry)
		entries.POST("/:journalID/reverse", h.reverseEntry)
	}
	group.GET("/trial-balance", h.trialBalance)
}
