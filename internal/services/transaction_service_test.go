package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

type mockTxnRepo struct {
	repository.TransactionRepository
	mockFindByID  func(ctx context.Context, id uint) (*models.Transaction, error)
	mockFindByIDs func(ctx context.Context, ids []uint) ([]models.Transaction, error)
	mockUpdate    func(ctx context.Context, txn *models.Transaction) error
}

func (m *mockTxnRepo) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockTxnRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Transaction, error) {
	return m.mockFindByIDs(ctx, ids)
}

func (m *mockTxnRepo) Update(ctx context.Context, txn *models.Transaction) error {
	return m.mockUpdate(ctx, txn)
}

type mockReceiptRepo struct {
	repository.ReceiptRepository
	created []*models.Receipt
}

func (m *mockReceiptRepo) CreateForTransactions(ctx context.Context, receipt *models.Receipt, txns []*models.Transaction) error {
	receipt.ID = uint(len(m.created) + 1)
	for _, txn := range txns {
		txn.ReceiptID = &receipt.ID
	}
	m.created = append(m.created, receipt)
	return nil
}

type mockContactRepo struct {
	repository.ContactRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Contact, error)
}

func (m *mockContactRepo) FindByID(ctx context.Context, id uint) (*models.Contact, error) {
	return m.mockFindByID(ctx, id)
}

func newTestTransactionService(txnRepo *mockTxnRepo, receiptRepo *mockReceiptRepo) *TransactionService {
	return NewTransactionService(txnRepo, receiptRepo, nil, nil, nil, nil, NewAuditService(nil), nil)
}

func TestTransactionService_ApproveBatch_Empty(t *testing.T) {
	service := newTestTransactionService(&mockTxnRepo{}, &mockReceiptRepo{})

	_, err := service.ApproveBatch(context.Background(), nil, false, "", 1, "", "")
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestTransactionService_ApproveBatch_FailClosed(t *testing.T) {
	txnRepo := &mockTxnRepo{}
	receiptRepo := &mockReceiptRepo{}
	service := newTestTransactionService(txnRepo, receiptRepo)

	txnRepo.mockFindByIDs = func(ctx context.Context, ids []uint) ([]models.Transaction, error) {
		return []models.Transaction{
			{ID: 1, Type: models.TransactionTypeIncome, Status: models.TransactionStatusPending, PaymentMethod: models.PaymentMethodCash, FundID: 1, ParishID: 1},
			{ID: 2, Type: models.TransactionTypeIncome, Status: models.TransactionStatusApproved, PaymentMethod: models.PaymentMethodCash, FundID: 1, ParishID: 1},
		}, nil
	}

	_, err := service.ApproveBatch(context.Background(), []uint{1, 2, 3}, false, "", 1, "", "")
	assert.Error(t, err)

	var batchErr *BatchApprovalError
	assert.True(t, errors.As(err, &batchErr))
	assert.Len(t, batchErr.Reasons, 2)
	assert.Contains(t, batchErr.Reasons, uint(2))
	assert.Contains(t, batchErr.Reasons, uint(3))
	assert.Equal(t, "không tìm thấy", batchErr.Reasons[3])

	// Fail-closed: nothing gets a receipt when one member is refused
	assert.Empty(t, receiptRepo.created)
}

func TestTransactionService_ApproveBatch_MixedCombined(t *testing.T) {
	txnRepo := &mockTxnRepo{}
	service := newTestTransactionService(txnRepo, &mockReceiptRepo{})

	txnRepo.mockFindByIDs = func(ctx context.Context, ids []uint) ([]models.Transaction, error) {
		return []models.Transaction{
			{ID: 1, Type: models.TransactionTypeIncome, Status: models.TransactionStatusPending, PaymentMethod: models.PaymentMethodCash, FundID: 1, ParishID: 1},
			{ID: 2, Type: models.TransactionTypeIncome, Status: models.TransactionStatusPending, PaymentMethod: models.PaymentMethodCash, FundID: 2, ParishID: 1},
		}, nil
	}

	_, err := service.ApproveBatch(context.Background(), []uint{1, 2}, true, "", 1, "", "")
	assert.ErrorIs(t, err, ErrMixedBatch)
}

func TestTransactionService_ApproveBatch_CombinedReceipt(t *testing.T) {
	txnRepo := &mockTxnRepo{}
	receiptRepo := &mockReceiptRepo{}
	service := newTestTransactionService(txnRepo, receiptRepo)

	txnRepo.mockFindByIDs = func(ctx context.Context, ids []uint) ([]models.Transaction, error) {
		return []models.Transaction{
			{ID: 1, Type: models.TransactionTypeIncome, Status: models.TransactionStatusPending, PaymentMethod: models.PaymentMethodCash, Amount: 300000, FundID: 1, ParishID: 1},
			{ID: 2, Type: models.TransactionTypeIncome, Status: models.TransactionStatusPending, PaymentMethod: models.PaymentMethodCash, Amount: 200000, FundID: 1, ParishID: 1},
		}, nil
	}

	txns, err := service.ApproveBatch(context.Background(), []uint{1, 2}, true, "thu tháng 8", 7, "", "")
	assert.NoError(t, err)
	assert.Len(t, txns, 2)

	assert.Len(t, receiptRepo.created, 1)
	receipt := receiptRepo.created[0]
	assert.True(t, receipt.IsCombined)
	assert.Equal(t, 500000.0, receipt.Amount)
	assert.True(t, strings.HasPrefix(receipt.ReceiptNo, "PT-"))
	assert.Equal(t, models.ReceiptTypeIncome, receipt.ReceiptType)

	for _, txn := range txns {
		assert.Equal(t, models.TransactionStatusApproved, txn.Status)
		assert.NotNil(t, txn.ApprovedAt)
		assert.Equal(t, uint(7), *txn.ApprovedByUserID)
		assert.Equal(t, receipt.ID, *txn.ReceiptID)
	}
}

func TestTransactionService_ApproveBatch_IndividualReceipts(t *testing.T) {
	txnRepo := &mockTxnRepo{}
	receiptRepo := &mockReceiptRepo{}
	service := newTestTransactionService(txnRepo, receiptRepo)

	txnRepo.mockFindByIDs = func(ctx context.Context, ids []uint) ([]models.Transaction, error) {
		return []models.Transaction{
			{ID: 1, Type: models.TransactionTypeExpense, Status: models.TransactionStatusPending, PaymentMethod: models.PaymentMethodCash, Amount: 100000, FundID: 1, ParishID: 1},
			{ID: 2, Type: models.TransactionTypeExpense, Status: models.TransactionStatusPending, PaymentMethod: models.PaymentMethodCash, Amount: 150000, FundID: 1, ParishID: 1},
		}, nil
	}

	_, err := service.ApproveBatch(context.Background(), []uint{1, 2}, false, "", 1, "", "")
	assert.NoError(t, err)

	assert.Len(t, receiptRepo.created, 2)
	for _, receipt := range receiptRepo.created {
		assert.False(t, receipt.IsCombined)
		assert.True(t, strings.HasPrefix(receipt.ReceiptNo, "PC-"))
		assert.Equal(t, models.ReceiptTypeExpense, receipt.ReceiptType)
	}
}

func TestTransactionService_Approve_OnlineWithoutBankDetails(t *testing.T) {
	txnRepo := &mockTxnRepo{}
	receiptRepo := &mockReceiptRepo{}
	service := newTestTransactionService(txnRepo, receiptRepo)

	txnRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Transaction, error) {
		return &models.Transaction{
			ID:            id,
			Code:          "GD-TEST",
			Type:          models.TransactionTypeIncome,
			Status:        models.TransactionStatusPending,
			PaymentMethod: models.PaymentMethodOnline,
		}, nil
	}

	_, err := service.Approve(context.Background(), 1, "", 1, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), ErrMissingBankDetails.Error())
	assert.Empty(t, receiptRepo.created)
}

func TestTransactionService_Approve_ResolvesContactOnRequestContext(t *testing.T) {
	txnRepo := &mockTxnRepo{}
	contactRepo := &mockContactRepo{}
	service := NewTransactionService(txnRepo, &mockReceiptRepo{}, contactRepo, nil, nil, nil, NewAuditService(nil), nil)

	contactID := uint(5)
	txnRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Transaction, error) {
		return &models.Transaction{
			ID:            id,
			Code:          "GD-TEST",
			Type:          models.TransactionTypeIncome,
			Status:        models.TransactionStatusPending,
			PaymentMethod: models.PaymentMethodOnline,
			ContactID:     &contactID,
		}, nil
	}

	type ctxKey struct{}
	var lookupCtx context.Context
	contactRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Contact, error) {
		lookupCtx = ctx
		return &models.Contact{ID: id}, nil
	}

	ctx := context.WithValue(context.Background(), ctxKey{}, "request")
	_, err := service.Approve(ctx, 1, "", 1, "", "")
	assert.Error(t, err)
	assert.NotNil(t, lookupCtx)
	assert.Equal(t, "request", lookupCtx.Value(ctxKey{}))
}

func TestTransactionService_Approve_AlreadyApproved(t *testing.T) {
	txnRepo := &mockTxnRepo{}
	service := newTestTransactionService(txnRepo, &mockReceiptRepo{})

	txnRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Transaction, error) {
		return &models.Transaction{
			ID:            id,
			Code:          "GD-TEST",
			Type:          models.TransactionTypeIncome,
			Status:        models.TransactionStatusApproved,
			PaymentMethod: models.PaymentMethodCash,
		}, nil
	}

	_, err := service.Approve(context.Background(), 1, "", 1, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "trạng thái hiện tại là approved")
}

func TestTransactionService_BuildReceipt_CombinedPayerLabel(t *testing.T) {
	service := &TransactionService{}

	txns := []*models.Transaction{
		{Type: models.TransactionTypeIncome, Amount: 100000, PayerPayee: "Nguyễn Văn A", FundID: 2, ParishID: 3},
		{Type: models.TransactionTypeIncome, Amount: 250000, PayerPayee: "Trần Thị B", FundID: 2, ParishID: 3},
	}

	receipt := service.buildReceipt(txns, true, 9)
	assert.Equal(t, "Phiếu gộp (2 giao dịch)", receipt.PayerPayee)
	assert.Equal(t, 350000.0, receipt.Amount)
	assert.Equal(t, uint(2), receipt.FundID)
	assert.Equal(t, uint(3), receipt.ParishID)
	assert.Equal(t, uint(9), *receipt.CreatedByUserID)
}
