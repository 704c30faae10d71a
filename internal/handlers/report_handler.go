package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// @Summary Income/Expense Summary
// @Description Get approved income and expense totals for a date range
// @Tags Reports
// @Produce json
// @Param parish_id query int false "Parish ID"
// @Param start_date query string false "From date (YYYY-MM-DD)"
// @Param end_date query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} services.IncomeExpenseSummary
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	parishID, _ := strconv.ParseUint(c.Query("parish_id"), 10, 32)

	summary, err := h.reportService.Summary(c.Request.Context(), uint(parishID), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary Fund Balances Report
// @Description Get computed fund balances from approved transactions
// @Tags Reports
// @Produce json
// @Param fund_id query int false "Fund ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /reports/fund_balances [get]
func (h *ReportHandler) FundBalances(c *gin.Context) {
	fundID, _ := strconv.ParseUint(c.Query("fund_id"), 10, 32)

	balances, err := h.reportService.FundBalances(c.Request.Context(), uint(fundID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// @Summary Cash Book CSV
// @Description Download the cash book with running balance as CSV
// @Tags Reports
// @Produce text/csv
// @Param parish_id query int false "Parish ID"
// @Param start_date query string false "From date (YYYY-MM-DD)"
// @Param end_date query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/cash_book.csv [get]
func (h *ReportHandler) CashBookCSV(c *gin.Context) {
	parishID, _ := strconv.ParseUint(c.Query("parish_id"), 10, 32)

	buf, err := h.reportService.GenerateCashBookCSV(c.Request.Context(), uint(parishID), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("so_quy_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// @Summary Fund Statement PDF
// @Description Download a fund statement with opening and closing balances as PDF
// @Tags Reports
// @Produce application/pdf
// @Param fund_id query int true "Fund ID"
// @Param start_date query string false "From date (YYYY-MM-DD)"
// @Param end_date query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/fund_statement.pdf [get]
func (h *ReportHandler) FundStatementPDF(c *gin.Context) {
	fundID, err := strconv.ParseUint(c.Query("fund_id"), 10, 32)
	if err != nil || fundID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu tham số fund_id"})
		return
	}

	buf, err := h.reportService.GenerateFundStatementPDF(c.Request.Context(), uint(fundID), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("sao_ke_quy_%d_%s.pdf", fundID, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Export Transactions XLSX
// @Description Download transactions of a date range as an Excel file
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param parish_id query int false "Parish ID"
// @Param start_date query string false "From date (YYYY-MM-DD)"
// @Param end_date query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/transactions.xlsx [get]
func (h *ReportHandler) TransactionsXLSX(c *gin.Context) {
	parishID, _ := strconv.ParseUint(c.Query("parish_id"), 10, 32)

	data, filename, err := h.exportService.ExportTransactionsXLSX(c.Request.Context(), uint(parishID), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Export Transactions CSV
// @Description Download transactions of a date range as CSV
// @Tags Reports
// @Produce text/csv
// @Param parish_id query int false "Parish ID"
// @Param start_date query string false "From date (YYYY-MM-DD)"
// @Param end_date query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/transactions.csv [get]
func (h *ReportHandler) TransactionsCSV(c *gin.Context) {
	parishID, _ := strconv.ParseUint(c.Query("parish_id"), 10, 32)

	data, filename, err := h.exportService.ExportTransactionsCSV(c.Request.Context(), uint(parishID), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// @Summary Summary PDF
// @Description Download the transaction statistics overview as PDF
// @Tags Reports
// @Produce application/pdf
// @Param parish_id query int false "Parish ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/summary.pdf [get]
func (h *ReportHandler) SummaryPDF(c *gin.Context) {
	parishID, _ := strconv.ParseUint(c.Query("parish_id"), 10, 32)

	data, filename, err := h.exportService.ExportSummaryPDF(c.Request.Context(), uint(parishID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
