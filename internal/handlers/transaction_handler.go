package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/KhoaTran011604/gp-bmt-api/internal/middleware"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
	"github.com/KhoaTran011604/gp-bmt-api/internal/storage"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
	imageService       *services.ImageService
}

func NewTransactionHandler(transactionService *services.TransactionService, imageService *services.ImageService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, imageService: imageService}
}

// @Summary List Transactions
// @Description Get a paginated list of income and expense transactions
// @Tags Transactions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param type query string false "Filter by type (income/expense)"
// @Param status query string false "Filter by status (pending/approved/rejected)"
// @Param source query string false "Filter by source (manual/rental_contract/payroll)"
// @Param fund_id query int false "Filter by fund"
// @Param parish_id query int false "Filter by parish"
// @Param start_date query string false "Filter from date (YYYY-MM-DD)"
// @Param end_date query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transactions [get]
func (h *TransactionHandler) Index(c *gin.Context) {
	h.indexTyped(c, c.Query("type"))
}

// IndexIncomes lists only income transactions. Alias route for clients using
// the split /incomes and /expenses collections.
func (h *TransactionHandler) IndexIncomes(c *gin.Context) {
	h.indexTyped(c, models.TransactionTypeIncome)
}

// IndexExpenses lists only expense transactions.
func (h *TransactionHandler) IndexExpenses(c *gin.Context) {
	h.indexTyped(c, models.TransactionTypeExpense)
}

func (h *TransactionHandler) indexTyped(c *gin.Context, txnType string) {
	query := &repository.TransactionQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Type = txnType
	query.Status = c.Query("status")
	query.Source = c.Query("source")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	if fundID, err := strconv.ParseUint(c.Query("fund_id"), 10, 32); err == nil {
		query.FundID = uint(fundID)
	}
	if parishID, err := strconv.ParseUint(c.Query("parish_id"), 10, 32); err == nil {
		query.ParishID = uint(parishID)
	}

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	txns, total, err := h.transactionService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, t := range txns {
		responses = append(responses, t.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Transaction Statistics
// @Description Get counts and totals of transactions, optionally scoped to a parish
// @Tags Transactions
// @Produce json
// @Param parish_id query int false "Parish ID"
// @Success 200 {object} repository.TransactionStats
// @Security BearerAuth
// @Router /transactions/stats [get]
func (h *TransactionHandler) Stats(c *gin.Context) {
	parishID, _ := strconv.ParseUint(c.Query("parish_id"), 10, 32)

	stats, err := h.transactionService.GetStats(c.Request.Context(), uint(parishID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary Get Transaction
// @Description Get a transaction by ID
// @Tags Transactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [get]
func (h *TransactionHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	txn, err := h.transactionService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giao dịch"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn.ToResponse()})
}

// @Summary Create Transaction
// @Description Create a new income or expense transaction in pending status
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body models.Transaction true "Transaction Data"
// @Success 201 {object} models.TransactionResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	h.createTyped(c, "")
}

// CreateIncome creates an income transaction. Alias route for the split
// /incomes collection; the body's type field is ignored.
func (h *TransactionHandler) CreateIncome(c *gin.Context) {
	h.createTyped(c, models.TransactionTypeIncome)
}

// CreateExpense creates an expense transaction.
func (h *TransactionHandler) CreateExpense(c *gin.Context) {
	h.createTyped(c, models.TransactionTypeExpense)
}

func (h *TransactionHandler) createTyped(c *gin.Context, txnType string) {
	var txn models.Transaction
	if err := BindNestedOrFlat(c, "transaction", &txn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if txnType != "" {
		txn.Type = txnType
	}

	userID := middleware.GetUserID(c)
	if err := h.transactionService.Create(c.Request.Context(), &txn, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn.ToResponse()})
}

// @Summary Update Transaction
// @Description Update a pending transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Param request body models.Transaction true "Transaction Data"
// @Success 200 {object} models.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	var txn models.Transaction
	if err := BindNestedOrFlat(c, "transaction", &txn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn.ID = uint(id)

	userID := middleware.GetUserID(c)
	if err := h.transactionService.Update(c.Request.Context(), &txn, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giao dịch"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn.ToResponse()})
}

// @Summary Delete Transaction
// @Description Delete a pending transaction
// @Tags Transactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)

	userID := middleware.GetUserID(c)
	if err := h.transactionService.Delete(c.Request.Context(), uint(id), userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giao dịch"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa giao dịch"})
}

// @Summary Approve Transaction
// @Description Approve a pending transaction and issue its receipt
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id}/approve [post]
func (h *TransactionHandler) Approve(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)

	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ghi chú duyệt là bắt buộc"})
		return
	}

	userID := middleware.GetUserID(c)
	txn, err := h.transactionService.Approve(c.Request.Context(), uint(id), req.Note, userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giao dịch"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn.ToResponse()})
}

// @Summary Reject Transaction
// @Description Reject a pending transaction with a reason
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id}/reject [post]
func (h *TransactionHandler) Reject(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lý do từ chối là bắt buộc"})
		return
	}

	userID := middleware.GetUserID(c)
	txn, err := h.transactionService.Reject(c.Request.Context(), uint(id), req.Reason, userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giao dịch"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn.ToResponse()})
}

// @Summary Batch Approve Transactions
// @Description Approve a set of pending transactions at once. The batch is
// all-or-nothing; with combined=true a single receipt covers the whole set.
// @Tags Transactions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transactions/batch_approve [post]
func (h *TransactionHandler) BatchApprove(c *gin.Context) {
	var req struct {
		TransactionIDs []uint `json:"transaction_ids" binding:"required"`
		Combined       bool   `json:"combined"`
		Note           string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	txns, err := h.transactionService.ApproveBatch(c.Request.Context(), req.TransactionIDs, req.Combined, req.Note, userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		var batchErr *services.BatchApprovalError
		if errors.As(err, &batchErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Không thể duyệt lô giao dịch",
				"reasons": batchErr.Reasons,
			})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, t := range txns {
		responses = append(responses, t.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"transactions": responses, "approved": len(responses)})
}

// @Summary Upload Voucher Image
// @Description Attach a voucher image or PDF to a transaction
// @Tags Transactions
// @Accept multipart/form-data
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Param file formData file true "Voucher file (JPG, PNG or PDF)"
// @Success 200 {object} models.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id}/voucher [post]
func (h *TransactionHandler) UploadVoucher(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không tìm thấy tệp tải lên"})
		return
	}
	defer file.Close()

	if header.Size > storage.MaxFileSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tệp vượt quá dung lượng cho phép (10MB)"})
		return
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && !storage.IsValidContentType(ct) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Định dạng tệp không được hỗ trợ (JPG, PNG, PDF)"})
		return
	}

	var path string
	if strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		path, err = h.imageService.CopyRaw(file, header)
	} else {
		path, err = h.imageService.ProcessAndSaveVoucher(file, header)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.transactionService.AddVoucherImage(c.Request.Context(), uint(id), path)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giao dịch"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn.ToResponse(), "voucher_path": path})
}
