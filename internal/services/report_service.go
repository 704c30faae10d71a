package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
)

type ReportService struct {
	txnRepo    repository.TransactionRepository
	fundRepo   repository.FundRepository
	parishRepo repository.ParishRepository
}

func NewReportService(
	txnRepo repository.TransactionRepository,
	fundRepo repository.FundRepository,
	parishRepo repository.ParishRepository,
) *ReportService {
	return &ReportService{
		txnRepo:    txnRepo,
		fundRepo:   fundRepo,
		parishRepo: parishRepo,
	}
}

// IncomeExpenseSummary aggregates approved transactions for a parish and date range.
type IncomeExpenseSummary struct {
	ParishID     uint    `json:"parish_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Net          float64 `json:"net"`
	IncomeCount  int     `json:"income_count"`
	ExpenseCount int     `json:"expense_count"`
}

// Summary computes income and expense totals from approved transactions only.
// Pass parishID = 0 for the whole diocese.
func (s *ReportService) Summary(ctx context.Context, parishID uint, startDate, endDate string) (*IncomeExpenseSummary, error) {
	txns, err := s.approvedInRange(ctx, parishID, 0, startDate, endDate)
	if err != nil {
		return nil, err
	}

	summary := &IncomeExpenseSummary{
		ParishID:  parishID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	for _, t := range txns {
		if t.Type == models.TransactionTypeIncome {
			summary.TotalIncome += t.Amount
			summary.IncomeCount++
		} else {
			summary.TotalExpense += t.Amount
			summary.ExpenseCount++
		}
	}
	summary.Net = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}

// FundBalances returns the derived balance of every fund, or of one fund.
func (s *ReportService) FundBalances(ctx context.Context, fundID uint) ([]models.FundBalance, error) {
	return s.txnRepo.GetFundBalances(ctx, fundID)
}

// GenerateCashBookCSV produces the chronological cash book of approved
// transactions with a running balance column.
func (s *ReportService) GenerateCashBookCSV(ctx context.Context, parishID uint, startDate, endDate string) (*bytes.Buffer, error) {
	txns, err := s.approvedInRange(ctx, parishID, 0, startDate, endDate)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Ngày", "Mã GD", "Diễn giải", "Quỹ", "Đối tượng", "Thu", "Chi", "Tồn"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	running := 0.0
	for _, t := range txns {
		income := ""
		expense := ""
		if t.Type == models.TransactionTypeIncome {
			running += t.Amount
			income = fmt.Sprintf("%.0f", t.Amount)
		} else {
			running -= t.Amount
			expense = fmt.Sprintf("%.0f", t.Amount)
		}

		fundName := ""
		if t.Fund.ID != 0 {
			fundName = t.Fund.Name
		}

		description := ""
		if t.Notes != nil {
			description = *t.Notes
		}

		record := []string{
			t.TransactionDate.Format("02/01/2006"),
			t.Code,
			description,
			fundName,
			t.CounterpartyName(),
			income,
			expense,
			fmt.Sprintf("%.0f", running),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

// approvedInRange lists approved transactions ordered oldest first. The cash
// book needs every row, so pagination is disabled.
func (s *ReportService) approvedInRange(ctx context.Context, parishID, fundID uint, startDate, endDate string) ([]models.Transaction, error) {
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
		Status:    models.TransactionStatusApproved,
		ParishID:  parishID,
		FundID:    fundID,
	}

	txns, _, err := s.txnRepo.List(ctx, query)
	return txns, err
}

// generatePDF renders an HTML template and converts it with wkhtmltopdf.
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

// GenerateFundStatementPDF produces a statement of one fund over a date range:
// opening balance, each approved movement, closing balance.
func (s *ReportService) GenerateFundStatementPDF(ctx context.Context, fundID uint, startDate, endDate string) (*bytes.Buffer, error) {
	fund, err := s.fundRepo.FindByID(ctx, fundID)
	if err != nil {
		return nil, err
	}

	// Opening balance is everything approved before the range start
	opening := 0.0
	if startDate != "" {
		prior, err := s.approvedInRange(ctx, 0, fundID, "", startDate)
		if err != nil {
			return nil, err
		}
		cutoff, parseErr := time.Parse("2006-01-02", startDate)
		for _, t := range prior {
			if parseErr == nil && !t.TransactionDate.Before(cutoff) {
				continue
			}
			if t.Type == models.TransactionTypeIncome {
				opening += t.Amount
			} else {
				opening -= t.Amount
			}
		}
	}

	txns, err := s.approvedInRange(ctx, 0, fundID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	type MovementData struct {
		Date         string
		Code         string
		Description  string
		Counterparty string
		Income       string
		Expense      string
		Balance      string
	}

	type StatementData struct {
		FundName       string
		FundCode       string
		StartDate      string
		EndDate        string
		OpeningBalance string
		ClosingBalance string
		TotalIncome    string
		TotalExpense   string
		Movements      []MovementData
		GeneratedDate  string
	}

	running := opening
	totalIncome := 0.0
	totalExpense := 0.0
	var movements []MovementData
	for _, t := range txns {
		income := ""
		expense := ""
		if t.Type == models.TransactionTypeIncome {
			running += t.Amount
			totalIncome += t.Amount
			income = formatAmount(t.Amount)
		} else {
			running -= t.Amount
			totalExpense += t.Amount
			expense = formatAmount(t.Amount)
		}
		description := ""
		if t.Notes != nil {
			description = *t.Notes
		}
		movements = append(movements, MovementData{
			Date:         t.TransactionDate.Format("02/01/2006"),
			Code:         t.Code,
			Description:  description,
			Counterparty: t.CounterpartyName(),
			Income:       income,
			Expense:      expense,
			Balance:      formatAmount(running),
		})
	}

	data := StatementData{
		FundName:       fund.Name,
		FundCode:       fund.Code,
		StartDate:      startDate,
		EndDate:        endDate,
		OpeningBalance: formatAmount(opening),
		ClosingBalance: formatAmount(running),
		TotalIncome:    formatAmount(totalIncome),
		TotalExpense:   formatAmount(totalExpense),
		Movements:      movements,
		GeneratedDate:  time.Now().Format("02/01/2006"),
	}

	return s.generatePDF("fund_statement.html", data)
}
