package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/KhoaTran011604/gp-bmt-api/internal/middleware"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
)

type PayrollHandler struct {
	payrollService *services.PayrollService
	exportService  *services.ExportService
}

func NewPayrollHandler(payrollService *services.PayrollService, exportService *services.ExportService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService, exportService: exportService}
}

// @Summary List Payroll Rows
// @Description Get a paginated list of payroll rows
// @Tags Payroll
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param period query string false "Filter by period (MM/YYYY)"
// @Param parish_id query int false "Filter by parish"
// @Param staff_id query int false "Filter by staff member"
// @Param status query string false "Filter by status (draft/approved/paid)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payrolls [get]
func (h *PayrollHandler) Index(c *gin.Context) {
	query := &repository.PayrollQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Period = c.Query("period")
	query.Status = c.Query("status")

	if staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 32); err == nil {
		query.StaffID = uint(staffID)
	}
	if parishID, err := strconv.ParseUint(c.Query("parish_id"), 10, 32); err == nil {
		query.ParishID = uint(parishID)
	}

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	rows, total, err := h.payrollService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, p := range rows {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payrolls": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Payroll Row
// @Description Get a payroll row by ID
// @Tags Payroll
// @Produce json
// @Param payroll_id path int true "Payroll ID"
// @Success 200 {object} models.PayrollResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payrolls/{payroll_id} [get]
func (h *PayrollHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payroll_id"), 10, 32)
	row, err := h.payrollService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bảng lương"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payroll": row.ToResponse()})
}

// @Summary Create Payroll Row
// @Description Add a payroll row manually for a staff member and period
// @Tags Payroll
// @Accept json
// @Produce json
// @Param request body models.Payroll true "Payroll Data"
// @Success 201 {object} models.PayrollResponse
// @Security BearerAuth
// @Router /payrolls [post]
func (h *PayrollHandler) Create(c *gin.Context) {
	var row models.Payroll
	if err := BindNestedOrFlat(c, "payroll", &row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.payrollService.Create(c.Request.Context(), &row, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payroll": row.ToResponse()})
}

// @Summary Update Payroll Row
// @Description Update a draft payroll row
// @Tags Payroll
// @Accept json
// @Produce json
// @Param payroll_id path int true "Payroll ID"
// @Param request body models.Payroll true "Payroll Data"
// @Success 200 {object} models.PayrollResponse
// @Security BearerAuth
// @Router /payrolls/{payroll_id} [put]
func (h *PayrollHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payroll_id"), 10, 32)
	var row models.Payroll
	if err := BindNestedOrFlat(c, "payroll", &row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row.ID = uint(id)

	userID := middleware.GetUserID(c)
	if err := h.payrollService.Update(c.Request.Context(), &row, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bảng lương"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payroll": row.ToResponse()})
}

// @Summary Delete Payroll Row
// @Description Delete a draft payroll row
// @Tags Payroll
// @Produce json
// @Param payroll_id path int true "Payroll ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /payrolls/{payroll_id} [delete]
func (h *PayrollHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("payroll_id"), 10, 32)

	userID := middleware.GetUserID(c)
	if err := h.payrollService.Delete(c.Request.Context(), uint(id), userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bảng lương"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa dòng bảng lương"})
}

// @Summary Generate Payroll Period
// @Description Create draft payroll rows for every staff member with an active contract
// @Tags Payroll
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payrolls/generate [post]
func (h *PayrollHandler) GeneratePeriod(c *gin.Context) {
	var req struct {
		ParishID uint   `json:"parish_id"`
		Period   string `json:"period" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	rows, err := h.payrollService.GeneratePeriod(c.Request.Context(), req.ParishID, req.Period, userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, p := range rows {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusCreated, gin.H{"payrolls": responses, "generated": len(responses)})
}

// @Summary Approve Payroll Period
// @Description Approve all draft rows of a period and create the salary expense transaction
// @Tags Payroll
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payrolls/approve [post]
func (h *PayrollHandler) ApprovePeriod(c *gin.Context) {
	var req struct {
		ParishID      uint   `json:"parish_id"`
		Period        string `json:"period" binding:"required"`
		FundID        uint   `json:"fund_id" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=cash online"`
		BankAccountID *uint  `json:"bank_account_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	txn, approved, err := h.payrollService.ApprovePeriod(c.Request.Context(), req.ParishID, req.Period, req.FundID, req.PaymentMethod, req.BankAccountID, userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Đã duyệt bảng lương kỳ " + req.Period,
		"payrolls_approved": approved,
		"expenses_created":  1,
		"total_amount":      txn.Amount,
		"transaction":       txn.ToResponse(),
	})
}

// @Summary Mark Payroll Period Paid
// @Description Mark an approved period as paid once its salary expense is approved
// @Tags Payroll
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /payrolls/mark_paid [post]
func (h *PayrollHandler) MarkPaid(c *gin.Context) {
	var req struct {
		ParishID uint   `json:"parish_id"`
		Period   string `json:"period" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.payrollService.MarkPeriodPaid(c.Request.Context(), req.ParishID, req.Period, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã ghi nhận chi trả lương kỳ " + req.Period})
}

// @Summary Export Payroll XLSX
// @Description Download the payroll sheet of a period as an Excel file
// @Tags Payroll
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param period query string true "Period (MM/YYYY)"
// @Param parish_id query int false "Parish ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /payrolls/export [get]
func (h *PayrollHandler) Export(c *gin.Context) {
	parishID, _ := strconv.ParseUint(c.Query("parish_id"), 10, 32)
	period := c.Query("period")

	data, filename, err := h.exportService.ExportPayrollXLSX(c.Request.Context(), uint(parishID), period)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
