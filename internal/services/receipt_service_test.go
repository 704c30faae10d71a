package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KhoaTran011604/gp-bmt-api/internal/jobs"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
)

type mockCancelReceiptRepo struct {
	repository.ReceiptRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Receipt, error)
	cancelled    *models.Receipt
}

func (m *mockCancelReceiptRepo) FindByID(ctx context.Context, id uint) (*models.Receipt, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockCancelReceiptRepo) CancelWithTransactions(ctx context.Context, receipt *models.Receipt) error {
	m.cancelled = receipt
	return nil
}

func TestReceiptService_Cancel_RevertsTransactions(t *testing.T) {
	repo := &mockCancelReceiptRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := NewReceiptService(repo, nil, nil, NewAuditService(nil), worker)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.Receipt, error) {
		return &models.Receipt{
			ID:        id,
			ReceiptNo: "PT-TEST",
			Transactions: []models.Transaction{
				{ID: 1, Status: models.TransactionStatusApproved},
				{ID: 2, Status: models.TransactionStatusApproved},
			},
		}, nil
	}

	err := service.Cancel(context.Background(), 1, "Sai quỹ", 1, "", "")
	assert.NoError(t, err)
	assert.NotNil(t, repo.cancelled)
	for _, txn := range repo.cancelled.Transactions {
		assert.Equal(t, models.TransactionStatusPending, txn.Status)
	}
}

func TestReceiptService_Cancel_RefusesNonApprovedTransaction(t *testing.T) {
	repo := &mockCancelReceiptRepo{}
	service := NewReceiptService(repo, nil, nil, NewAuditService(nil), nil)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.Receipt, error) {
		return &models.Receipt{
			ID:        id,
			ReceiptNo: "PT-TEST",
			Transactions: []models.Transaction{
				{ID: 1, Status: models.TransactionStatusPending},
			},
		}, nil
	}

	err := service.Cancel(context.Background(), 1, "", 1, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "không thể hủy phiếu PT-TEST")
	assert.Nil(t, repo.cancelled)
}
