package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// mappingHandler handles HTTP requests for account mappings.
type mappingHandler struct {
	mappingService portssvc.MappingSvcFacade
}

func newMappingHandler(mappingService portssvc.MappingSvcFacade) *mappingHandler {
	return &mappingHandler{mappingService: mappingService}
}

// setMapping godoc
// @Summary Set an account mapping
// @Description Activates a mapping for (mappingType, sourceType), deactivating any previous one
// @Tags mappings
// @Accept json
// @Produce json
// @Param mapping body dto.SetMappingRequest true "Mapping details"
// @Success 200 {object} dto.MappingResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /mappings [put]
func (h *mappingHandler) setMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	mapping, err := h.mappingService.SetMapping(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to set mapping")
		return
	}
	c.JSON(http.StatusOK, dto.ToMappingResponse(mapping))
}

// listMappings godoc
// @Summary List account mappings
// @Tags mappings
// @Produce json
// @Param activeOnly query bool false "Only active mappings"
// @Success 200 {array} dto.MappingResponse
// @Router /mappings [get]
func (h *mappingHandler) listMappings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activeOnly := c.Query("activeOnly") == "true"
	mappings, err := h.mappingService.ListMappings(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list mappings")
		return
	}
	c.JSON(http.StatusOK, dto.ToMappingResponses(mappings))
}

// initializeMappings godoc
// @Summary Seed the default mappings
// @Description Idempotent; pairs with an active mapping are left untouched
// @Tags mappings
// @Success 204 "Seeded"
// @Router /mappings/initialize [post]
func (h *mappingHandler) initializeMappings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	if err := h.mappingService.InitializeDefaults(c.Request.Context(), actor); err != nil {
		respondError(c, logger, err, "Failed to initialize mappings")
		return
	}
	c.Status(http.StatusNoContent)
}

// cleanupMappings godoc
// @Summary Deactivate duplicate active mappings
// @Description Keeps the most recent active mapping per pair and reports how many were deactivated
// @Tags mappings
// @Produce json
// @Success 200 {object} map[string]int "Number of mappings deactivated"
// @Router /mappings/cleanup [post]
func (h *mappingHandler) cleanupMappings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	removed, err := h.mappingService.RemoveDuplicates(c.Request.Context(), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to clean up mappings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deactivated": removed})
}

// registerMappingRoutes registers account mapping routes.
func registerMappingRoutes(group *gin.RouterGroup, mappingService portssvc.MappingSvcFacade) {
	h := newMappingHandler(mappingService)

	mappings := group.Group("/mappings")
	{
		mappings.PUT("", h.setMapping)
		mappings.GET("", h.listMappings)
		mappings.POST("/initialize", h.initializeMappings)
		mappings.POST("/cleanup", h.cleanupMappings)
	}
}
