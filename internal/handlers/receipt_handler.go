package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/KhoaTran011604/gp-bmt-api/internal/middleware"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
)

type ReceiptHandler struct {
	receiptService *services.ReceiptService
}

func NewReceiptHandler(receiptService *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// @Summary List Receipts
// @Description Get a paginated list of issued receipts
// @Tags Receipts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status (issued/cancelled)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /receipts [get]
func (h *ReceiptHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["status"] = c.Query("status")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	receipts, total, err := h.receiptService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, r := range receipts {
		responses = append(responses, r.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"receipts": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Receipt
// @Description Get a receipt by ID with its covered transactions
// @Tags Receipts
// @Produce json
// @Param receipt_id path int true "Receipt ID"
// @Success 200 {object} models.ReceiptResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_id} [get]
func (h *ReceiptHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("receipt_id"), 10, 32)
	receipt, err := h.receiptService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy biên lai"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt.ToResponse()})
}

// @Summary Cancel Receipt
// @Description Cancel an issued receipt. Its transactions revert to pending.
// @Tags Receipts
// @Accept json
// @Produce json
// @Param receipt_id path int true "Receipt ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_id} [delete]
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("receipt_id"), 10, 32)

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	userID := middleware.GetUserID(c)
	if err := h.receiptService.Cancel(c.Request.Context(), uint(id), req.Reason, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy biên lai"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã hủy biên lai"})
}

// @Summary Download Receipt PDF
// @Description Download the printable PDF of a receipt
// @Tags Receipts
// @Produce application/pdf
// @Param receipt_id path int true "Receipt ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_id}/pdf [get]
func (h *ReceiptHandler) DownloadPDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("receipt_id"), 10, 32)

	pdf, filename, err := h.receiptService.GeneratePDF(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy biên lai"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
