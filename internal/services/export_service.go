package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
)

type ExportService struct {
	txnRepo     repository.TransactionRepository
	payrollRepo repository.PayrollRepository
}

func NewExportService(txnRepo repository.TransactionRepository, payrollRepo repository.PayrollRepository) *ExportService {
	return &ExportService{txnRepo: txnRepo, payrollRepo: payrollRepo}
}

// ExportTransactionsXLSX dumps the transaction register for a parish and date
// range into a spreadsheet. Pass parishID = 0 for the whole diocese.
func (s *ExportService) ExportTransactionsXLSX(ctx context.Context, parishID uint, startDate, endDate string) ([]byte, string, error) {
	txns, err := s.listTransactions(ctx, parishID, startDate, endDate)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "GiaoDich"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Mã GD", "Ngày", "Loại", "Số tiền", "Đối tượng", "Quỹ", "Giáo xứ", "Hình thức", "Trạng thái", "Nguồn"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	typeLabels := map[string]string{
		models.TransactionTypeIncome:  "Thu",
		models.TransactionTypeExpense: "Chi",
	}
	statusLabels := map[string]string{
		models.TransactionStatusPending:  "Chờ duyệt",
		models.TransactionStatusApproved: "Đã duyệt",
		models.TransactionStatusRejected: "Từ chối",
	}
	sourceLabels := map[string]string{
		models.TransactionSourceManual:         "Nhập tay",
		models.TransactionSourceRentalContract: "Hợp đồng cho thuê",
		models.TransactionSourcePayroll:        "Bảng lương",
	}

	for i, t := range txns {
		row := i + 2
		fundName := ""
		if t.Fund.ID != 0 {
			fundName = t.Fund.Name
		}
		parishName := ""
		if t.Parish.ID != 0 {
			parishName = t.Parish.Name
		}
		method := "Tiền mặt"
		if t.IsOnline() {
			method = "Chuyển khoản"
		}

		values := []interface{}{
			t.Code,
			t.TransactionDate.Format("02/01/2006"),
			labelOr(typeLabels, t.Type),
			t.Amount,
			t.CounterpartyName(),
			fundName,
			parishName,
			method,
			labelOr(statusLabels, t.Status),
			labelOr(sourceLabels, t.Source),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("giao_dich_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportTransactionsCSV is the plain-text companion of the XLSX export.
func (s *ExportService) ExportTransactionsCSV(ctx context.Context, parishID uint, startDate, endDate string) ([]byte, string, error) {
	txns, err := s.listTransactions(ctx, parishID, startDate, endDate)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Mã GD", "Ngày", "Loại", "Số tiền", "Đối tượng", "Quỹ", "Trạng thái", "Nguồn"})

	for _, t := range txns {
		fundName := ""
		if t.Fund.ID != 0 {
			fundName = t.Fund.Name
		}
		_ = writer.Write([]string{
			t.Code,
			t.TransactionDate.Format("02/01/2006"),
			t.Type,
			fmt.Sprintf("%.0f", t.Amount),
			t.CounterpartyName(),
			fundName,
			t.Status,
			t.Source,
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("giao_dich_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportPayrollXLSX dumps the salary sheet of one period with per-component
// columns and a totals row.
func (s *ExportService) ExportPayrollXLSX(ctx context.Context, parishID uint, period string) ([]byte, string, error) {
	if !models.ValidPayrollPeriod(period) {
		return nil, "", ErrInvalidPeriod
	}

	rows, err := s.payrollRepo.FindByPeriod(ctx, parishID, period)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "BangLuong"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Bảng lương kỳ %s", period))
	_ = f.SetCellStyle(sheet, "A1", "A1", boldStyle)

	headers := []string{"Mã NV", "Họ tên", "Chức vụ", "Lương cơ bản", "PC trách nhiệm", "PC ăn trưa", "PC đi lại", "Tạm ứng", "Khấu trừ", "Thực lãnh", "Trạng thái"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	total := 0.0
	for i, p := range rows {
		row := i + 4
		position := ""
		if p.Staff.Position != nil {
			position = *p.Staff.Position
		}
		values := []interface{}{
			p.Staff.Code,
			p.Staff.FullName,
			position,
			p.BasicSalary,
			p.ResponsibilityAllowance,
			p.MealAllowance,
			p.TransportAllowance,
			p.Advance,
			p.Deductions,
			p.NetSalary,
			p.Status,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		total += p.NetSalary
	}

	totalRow := len(rows) + 4
	totalLabelCell, _ := excelize.CoordinatesToCellName(9, totalRow)
	totalValueCell, _ := excelize.CoordinatesToCellName(10, totalRow)
	_ = f.SetCellValue(sheet, totalLabelCell, "Tổng cộng")
	_ = f.SetCellValue(sheet, totalValueCell, total)
	_ = f.SetCellStyle(sheet, totalLabelCell, totalValueCell, boldStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("bang_luong_%s.xlsx", sanitizePeriod(period))
	return buf.Bytes(), filename, nil
}

// ExportSummaryPDF renders parish totals for quick printing. Uses core PDF
// fonts, so diacritics are stripped.
func (s *ExportService) ExportSummaryPDF(ctx context.Context, parishID uint) ([]byte, string, error) {
	stats, err := s.txnRepo.GetStats(ctx, parishID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, stripDiacritics("Báo cáo tổng hợp thu chi"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, stripDiacritics("Tổng số giao dịch:"))
	pdf.Cell(40, 10, fmt.Sprintf("%d", stats.Total))
	pdf.Ln(6)

	pdf.Cell(60, 10, stripDiacritics("Chờ duyệt:"))
	pdf.Cell(40, 10, fmt.Sprintf("%d", stats.Pending))
	pdf.Ln(6)

	pdf.Cell(60, 10, stripDiacritics("Đã duyệt:"))
	pdf.Cell(40, 10, fmt.Sprintf("%d", stats.Approved))
	pdf.Ln(6)

	pdf.Cell(60, 10, stripDiacritics("Từ chối:"))
	pdf.Cell(40, 10, fmt.Sprintf("%d", stats.Rejected))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, stripDiacritics("Tổng đã duyệt"))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, stripDiacritics("Tổng thu:"))
	pdf.Cell(40, 10, formatAmount(stats.IncomeTotal))
	pdf.Ln(6)

	pdf.Cell(60, 10, stripDiacritics("Tổng chi:"))
	pdf.Cell(40, 10, formatAmount(stats.Expense))
	pdf.Ln(6)

	pdf.Cell(60, 10, stripDiacritics("Chênh lệch:"))
	pdf.Cell(40, 10, formatAmount(stats.IncomeTotal-stats.Expense))
	pdf.Ln(6)

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("tong_hop_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) listTransactions(ctx context.Context, parishID uint, startDate, endDate string) ([]models.Transaction, error) {
	listQuery := repository.NewListQuery()
	listQuery.PerPage = 0
	listQuery.SortBy = "transaction_date"
	listQuery.SortDir = "asc"
	if startDate != "" {
		listQuery.Filters["start_date"] = startDate
	}
	if endDate != "" {
		listQuery.Filters["end_date"] = endDate
	}

	query := &repository.TransactionQuery{
		ListQuery: listQuery,
		ParishID:  parishID,
	}
	txns, _, err := s.txnRepo.List(ctx, query)
	return txns, err
}

func labelOr(labels map[string]string, key string) string {
	if v, ok := labels[key]; ok {
		return v
	}
	return key
}

// sanitizePeriod turns MM/YYYY into MM-YYYY for filenames
func sanitizePeriod(period string) string {
	out := []byte(period)
	for i := range out {
		if out[i] == '/' {
			out[i] = '-'
		}
	}
	return string(out)
}
