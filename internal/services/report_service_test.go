package services

import (
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
)

// Mock TransactionRepository
type mockTransactionRepository struct {
	repository.TransactionRepository
	mockList            func(ctx context.Context, query *repository.TransactionQuery) ([]models.Transaction, int64, error)
	mockGetFundBalances func(ctx context.Context, fundID uint) ([]models.FundBalance, error)
}

func (m *mockTransactionRepository) List(ctx context.Context, query *repository.TransactionQuery) ([]models.Transaction, int64, error) {
	if m.mockList != nil {
		return m.mockList(ctx, query)
	}
	return nil, 0, nil
}

func (m *mockTransactionRepository) GetFundBalances(ctx context.Context, fundID uint) ([]models.FundBalance, error) {
	if m.mockGetFundBalances != nil {
		return m.mockGetFundBalances(ctx, fundID)
	}
	return nil, nil
}

func TestGenerateCashBookCSV(t *testing.T) {
	mockRepo := &mockTransactionRepository{}
	service := NewReportService(mockRepo, nil, nil)

	date1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	date2 := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	note := "Tiền xin lễ Chúa nhật"

	mockRepo.mockList = func(ctx context.Context, query *repository.TransactionQuery) ([]models.Transaction, int64, error) {
		assert.Equal(t, models.TransactionStatusApproved, query.Status)
		txns := []models.Transaction{
			{
				ID:              1,
				Code:            "GD-AAAA1111",
				Type:            models.TransactionTypeIncome,
				Amount:          5000000,
				TransactionDate: date1,
				PayerPayee:      "Giáo dân",
				Notes:           &note,
				Fund:            models.Fund{ID: 1, Name: "Quỹ sinh hoạt"},
			},
			{
				ID:              2,
				Code:            "GD-BBBB2222",
				Type:            models.TransactionTypeExpense,
				Amount:          1500000,
				TransactionDate: date2,
				PayerPayee:      "Nhà cung cấp điện",
				Fund:            models.Fund{ID: 1, Name: "Quỹ sinh hoạt"},
			},
		}
		return txns, int64(len(txns)), nil
	}

	buf, err := service.GenerateCashBookCSV(context.Background(), 1, "2025-03-01", "2025-03-31")
	assert.NoError(t, err)
	assert.NotNil(t, buf)

	reader := csv.NewReader(buf)
	records, err := reader.ReadAll()
	assert.NoError(t, err)

	expectedHeader := []string{"Ngày", "Mã GD", "Diễn giải", "Quỹ", "Đối tượng", "Thu", "Chi", "Tồn"}
	assert.Equal(t, expectedHeader, records[0])

	row1 := records[1]
	assert.Equal(t, "01/03/2025", row1[0])
	assert.Equal(t, "GD-AAAA1111", row1[1])
	assert.Equal(t, "Tiền xin lễ Chúa nhật", row1[2])
	assert.Equal(t, "Quỹ sinh hoạt", row1[3])
	assert.Equal(t, "5000000", row1[5])
	assert.Equal(t, "", row1[6])
	assert.Equal(t, "5000000", row1[7])

	row2 := records[2]
	assert.Equal(t, "GD-BBBB2222", row2[1])
	assert.Equal(t, "", row2[5])
	assert.Equal(t, "1500000", row2[6])
	assert.Equal(t, "3500000", row2[7], "running balance after the expense")
}

func TestReportSummary(t *testing.T) {
	mockRepo := &mockTransactionRepository{}
	service := NewReportService(mockRepo, nil, nil)

	mockRepo.mockList = func(ctx context.Context, query *repository.TransactionQuery) ([]models.Transaction, int64, error) {
		txns := []models.Transaction{
			{Type: models.TransactionTypeIncome, Amount: 2000000},
			{Type: models.TransactionTypeIncome, Amount: 3000000},
			{Type: models.TransactionTypeExpense, Amount: 1000000},
		}
		return txns, int64(len(txns)), nil
	}

	summary, err := service.Summary(context.Background(), 2, "2025-01-01", "2025-01-31")
	assert.NoError(t, err)
	assert.Equal(t, 5000000.0, summary.TotalIncome)
	assert.Equal(t, 1000000.0, summary.TotalExpense)
	assert.Equal(t, 4000000.0, summary.Net)
	assert.Equal(t, 2, summary.IncomeCount)
	assert.Equal(t, 1, summary.ExpenseCount)
}

func TestReportFundBalances(t *testing.T) {
	mockRepo := &mockTransactionRepository{}
	service := NewReportService(mockRepo, nil, nil)

	mockRepo.mockGetFundBalances = func(ctx context.Context, fundID uint) ([]models.FundBalance, error) {
		return []models.FundBalance{
			{FundID: 1, FundCode: "QSH", TotalIncome: 9000000, TotalExpense: 4000000, Balance: 5000000},
		}, nil
	}

	balances, err := service.FundBalances(context.Background(), 0)
	assert.NoError(t, err)
	assert.Len(t, balances, 1)
	assert.Equal(t, 5000000.0, balances[0].Balance)
}
