package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/KhoaTran011604/gp-bmt-api/internal/middleware"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
)

type AssetHandler struct {
	assetService *services.AssetService
}

func NewAssetHandler(assetService *services.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// @Summary List Assets
// @Description Get a paginated list of fixed assets
// @Tags Assets
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param type query string false "Filter by type (land/building/vehicle/equipment)"
// @Param parish_id query int false "Filter by parish"
// @Param available query bool false "Only active assets with no rental claim"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /assets [get]
func (h *AssetHandler) Index(c *gin.Context) {
	if c.Query("available") == "true" {
		h.Available(c)
		return
	}

	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["type"] = c.Query("type")
	query.Filters["status"] = c.Query("status")
	query.Filters["parish_id"] = c.Query("parish_id")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	assets, total, err := h.assetService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assets": assets,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary List Available Assets
// @Description Get active assets not reserved by any rental contract
// @Tags Assets
// @Produce json
// @Param parish_id query int false "Parish ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /assets/available [get]
func (h *AssetHandler) Available(c *gin.Context) {
	parishID, _ := strconv.ParseUint(c.Query("parish_id"), 10, 32)

	assets, err := h.assetService.ListAvailable(c.Request.Context(), uint(parishID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

// @Summary Get Asset
// @Description Get an asset by ID
// @Tags Assets
// @Produce json
// @Param asset_id path int true "Asset ID"
// @Success 200 {object} models.Asset
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /assets/{asset_id} [get]
func (h *AssetHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("asset_id"), 10, 32)
	asset, err := h.assetService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy tài sản"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// @Summary Create Asset
// @Description Register a new fixed asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param request body models.Asset true "Asset Data"
// @Success 201 {object} models.Asset
// @Security BearerAuth
// @Router /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	var asset models.Asset
	if err := BindNestedOrFlat(c, "asset", &asset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.assetService.Create(c.Request.Context(), &asset, userID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// @Summary Update Asset
// @Description Update an asset. The rental reservation cannot be changed here.
// @Tags Assets
// @Accept json
// @Produce json
// @Param asset_id path int true "Asset ID"
// @Param request body models.Asset true "Asset Data"
// @Success 200 {object} models.Asset
// @Security BearerAuth
// @Router /assets/{asset_id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("asset_id"), 10, 32)
	var asset models.Asset
	if err := BindNestedOrFlat(c, "asset", &asset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	asset.ID = uint(id)

	userID := middleware.GetUserID(c)
	if err := h.assetService.Update(c.Request.Context(), &asset, userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy tài sản"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// @Summary Delete Asset
// @Description Delete an unreserved asset
// @Tags Assets
// @Produce json
// @Param asset_id path int true "Asset ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /assets/{asset_id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("asset_id"), 10, 32)

	userID := middleware.GetUserID(c)
	if err := h.assetService.Delete(c.Request.Context(), uint(id), userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy tài sản"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa tài sản"})
}

// @Summary Dispose Asset
// @Description Mark an asset as sold or disposed
// @Tags Assets
// @Accept json
// @Produce json
// @Param asset_id path int true "Asset ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /assets/{asset_id}/dispose [post]
func (h *AssetHandler) Dispose(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("asset_id"), 10, 32)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.assetService.MarkDisposed(c.Request.Context(), uint(id), req.Status, userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy tài sản"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã cập nhật trạng thái tài sản"})
}
