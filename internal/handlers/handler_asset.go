package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// assetHandler handles HTTP requests for the fixed asset register.
type assetHandler struct {
	assetService portssvc.AssetSvcFacade
}

func newAssetHandler(assetService portssvc.AssetSvcFacade) *assetHandler {
	return &assetHandler{assetService: assetService}
}

// createAsset godoc
// @Summary Register an asset purchase
// @Description Registers the asset and posts the acquisition to the ledger
// @Tags assets
// @Accept json
// @Produce json
// @Param asset body dto.CreateAssetRequest true "Asset details"
// @Success 201 {object} dto.AssetResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /assets [post]
func (h *assetHandler) createAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	asset, err := h.assetService.CreateAsset(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create asset")
		return
	}

	logger.Info("Asset registered", slog.String("asset_id", asset.AssetID), slog.String("reference", asset.Reference))
	c.JSON(http.StatusCreated, dto.ToAssetResponse(asset))
}

// listAssets godoc
// @Summary List assets
// @Tags assets
// @Produce json
// @Param category query string false "Filter by category"
// @Param activeOnly query bool false "Only active assets"
// @Success 200 {array} dto.AssetResponse
// @Router /assets [get]
func (h *assetHandler) listAssets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}
	activeOnly := c.Query("activeOnly") == "true"

	assets, err := h.assetService.ListAssets(c.Request.Context(), category, activeOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list assets")
		return
	}
	c.JSON(http.StatusOK, dto.ToAssetResponses(assets))
}

// getAsset godoc
// @Summary Get an asset by ID
// @Tags assets
// @Produce json
// @Param assetID path string true "Asset ID"
// @Success 200 {object} dto.AssetResponse
// @Failure 404 {object} map[string]string "Asset not found"
// @Router /assets/{assetID} [get]
func (h *assetHandler) getAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asset, err := h.assetService.GetAssetByID(c.Request.Context(), c.Param("assetID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve asset")
		return
	}
	c.JSON(http.StatusOK, dto.ToAssetResponse(asset))
}

// disposeAsset godoc
// @Summary Dispose of an asset
// @Description Marks the asset inactive so it stops depreciating
// @Tags assets
// @Param assetID path string true "Asset ID"
// @Success 204 "Disposed"
// @Failure 404 {object} map[string]string "Asset not found"
// @Router /assets/{assetID} [delete]
func (h *assetHandler) disposeAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor := middleware.GetActorFromContext(c)
	if err := h.assetService.DisposeAsset(c.Request.Context(), c.Param("assetID"), actor); err != nil {
		respondError(c, logger, err, "Failed to dispose of asset")
		return
	}
	c.Status(http.StatusNoContent)
}

// runDepreciation godoc
// @Summary Run monthly depreciation
// @Description Charges one month of straight-line depreciation for every depreciable asset and posts the charges. Re-running a period skips assets already charged.
// @Tags assets
// @Accept json
// @Produce json
// @Param run body dto.RunDepreciationRequest true "Period (defaults to the current month)"
// @Success 200 {object} dto.RunDepreciationResponse
// @Failure 400 {object} map[string]string "Future period"
// @Router /assets/depreciation/run [post]
func (h *assetHandler) runDepreciation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunDepreciationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	result, err := h.assetService.RunDepreciation(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to run depreciation")
		return
	}

	logger.Info("Depreciation run completed",
		slog.String("period", result.Period.Format("2006-01")),
		slog.String("total_charge", result.TotalCharge.String()),
		slog.Int("assets", len(result.Results)),
	)
	c.JSON(http.StatusOK, result)
}

// registerAssetRoutes registers asset register routes.
func registerAssetRoutes(group *gin.RouterGroup, assetService portssvc.AssetSvcFacade) {
	h := newAssetHandler(assetService)

	assets := group.Group("/assets")
	{
		assets.POST("", h.createAsset)
		assets.GET("", h.listAssets)
		assets.POST("/depreciation/run", h.runDepreciation)
		assets.GET("/:assetID", h.getAsset)
		assets.DELETE("/:assetID", h.disposeAsset)
	}
}
