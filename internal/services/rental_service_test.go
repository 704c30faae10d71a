package services

import (
	"context"
	"testing"
	"time"

	"github.com/KhoaTran011604/gp-bmt-api/internal/jobs"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockRentalRepo struct {
	repository.RentalContractRepository
	mockFindByID              func(ctx context.Context, id uint) (*models.RentalContract, error)
	mockCreateAndClaimAsset   func(ctx context.Context, contract *models.RentalContract) error
	mockFindActivePastEndDate func(ctx context.Context) ([]models.RentalContract, error)
	updated                   []*models.RentalContract
	released                  []*models.RentalContract
}

func (m *mockRentalRepo) FindByID(ctx context.Context, id uint) (*models.RentalContract, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockRentalRepo) CreateAndClaimAsset(ctx context.Context, contract *models.RentalContract) error {
	return m.mockCreateAndClaimAsset(ctx, contract)
}

func (m *mockRentalRepo) Update(ctx context.Context, contract *models.RentalContract) error {
	m.updated = append(m.updated, contract)
	return nil
}

func (m *mockRentalRepo) UpdateAndReleaseAsset(ctx context.Context, contract *models.RentalContract) error {
	m.released = append(m.released, contract)
	return nil
}

func (m *mockRentalRepo) FindActivePastEndDate(ctx context.Context) ([]models.RentalContract, error) {
	return m.mockFindActivePastEndDate(ctx)
}

type mockRentalTxnRepo struct {
	repository.TransactionRepository
	mockFindByRentalAndPeriod func(ctx context.Context, rentalContractID uint, period string) (*models.Transaction, error)
	created                   []*models.Transaction
}

func (m *mockRentalTxnRepo) FindByRentalAndPeriod(ctx context.Context, rentalContractID uint, period string) (*models.Transaction, error) {
	return m.mockFindByRentalAndPeriod(ctx, rentalContractID, period)
}

func (m *mockRentalTxnRepo) Create(ctx context.Context, txn *models.Transaction) error {
	txn.ID = uint(len(m.created) + 1)
	m.created = append(m.created, txn)
	return nil
}

func TestRentalService_Create_AssetAlreadyClaimed(t *testing.T) {
	rentalRepo := &mockRentalRepo{}
	service := NewRentalService(rentalRepo, nil, nil, nil, nil, NewAuditService(nil), nil)

	rentalRepo.mockCreateAndClaimAsset = func(ctx context.Context, contract *models.RentalContract) error {
		return repository.ErrAssetClaimed
	}

	assetID := uint(5)
	contract := &models.RentalContract{
		ParishID:   1,
		AssetID:    &assetID,
		TenantName: "Công ty TNHH An Phú",
		StartDate:  time.Now(),
		EndDate:    time.Now().AddDate(1, 0, 0),
		RentAmount: 10000000,
	}

	err := service.Create(context.Background(), contract, 1, "", "")
	assert.ErrorIs(t, err, ErrAssetUnavailable)
}

func TestRentalService_Create_RejectsBadTerm(t *testing.T) {
	service := NewRentalService(&mockRentalRepo{}, nil, nil, nil, nil, NewAuditService(nil), nil)

	contract := &models.RentalContract{
		TenantName: "Công ty TNHH An Phú",
		StartDate:  time.Now(),
		EndDate:    time.Now().AddDate(0, 0, -1),
		RentAmount: 10000000,
	}

	err := service.Create(context.Background(), contract, 1, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ngày kết thúc")
}

func TestRentalService_ConvertPayment_DuplicatePeriod(t *testing.T) {
	rentalRepo := &mockRentalRepo{}
	txnRepo := &mockRentalTxnRepo{}
	service := NewRentalService(rentalRepo, nil, txnRepo, nil, nil, NewAuditService(nil), nil)

	rentalRepo.mockFindByID = func(ctx context.Context, id uint) (*models.RentalContract, error) {
		return &models.RentalContract{ID: id, Status: models.RentalStatusActive, RentAmount: 10000000}, nil
	}
	txnRepo.mockFindByRentalAndPeriod = func(ctx context.Context, rentalContractID uint, period string) (*models.Transaction, error) {
		return &models.Transaction{ID: 1, Status: models.TransactionStatusPending}, nil
	}

	_, err := service.ConvertPayment(context.Background(), 1, ConvertPaymentInput{Period: "08/2025", FundID: 2}, 1, "", "")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRentalService_ConvertPayment_RequiresActiveContract(t *testing.T) {
	rentalRepo := &mockRentalRepo{}
	service := NewRentalService(rentalRepo, nil, nil, nil, nil, NewAuditService(nil), nil)

	rentalRepo.mockFindByID = func(ctx context.Context, id uint) (*models.RentalContract, error) {
		return &models.RentalContract{ID: id, Status: models.RentalStatusPending}, nil
	}

	_, err := service.ConvertPayment(context.Background(), 1, ConvertPaymentInput{Period: "08/2025", FundID: 2}, 1, "", "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRentalService_ConvertPayment_CreatesIncome(t *testing.T) {
	rentalRepo := &mockRentalRepo{}
	txnRepo := &mockRentalTxnRepo{}
	fundRepo := &mockFundRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := NewRentalService(rentalRepo, nil, txnRepo, fundRepo, nil, NewAuditService(nil), worker)

	bankAccountID := uint(4)
	rentalRepo.mockFindByID = func(ctx context.Context, id uint) (*models.RentalContract, error) {
		return &models.RentalContract{
			ID:            id,
			Code:          "HD-TEST",
			ParishID:      3,
			TenantName:    "Công ty TNHH An Phú",
			RentAmount:    10000000,
			PaymentMethod: models.PaymentMethodOnline,
			BankAccountID: &bankAccountID,
			Status:        models.RentalStatusActive,
		}, nil
	}
	txnRepo.mockFindByRentalAndPeriod = func(ctx context.Context, rentalContractID uint, period string) (*models.Transaction, error) {
		return nil, gorm.ErrRecordNotFound
	}
	fundRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Fund, error) {
		return &models.Fund{ID: id}, nil
	}

	txn, err := service.ConvertPayment(context.Background(), 1, ConvertPaymentInput{Period: "08/2025", FundID: 2}, 1, "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionTypeIncome, txn.Type)
	assert.Equal(t, 10000000.0, txn.Amount)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, models.TransactionSourceRentalContract, txn.Source)
	assert.Equal(t, models.PaymentMethodOnline, txn.PaymentMethod)
	assert.Equal(t, "Công ty TNHH An Phú", txn.PayerPayee)
	assert.Equal(t, uint(1), *txn.RentalContractID)
	assert.Equal(t, "08/2025", *txn.PaymentPeriod)
	assert.Equal(t, bankAccountID, *txn.BankAccountID)
}

func TestRentalService_ConvertPayment_AcceptsOverrides(t *testing.T) {
	rentalRepo := &mockRentalRepo{}
	txnRepo := &mockRentalTxnRepo{}
	fundRepo := &mockFundRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := NewRentalService(rentalRepo, nil, txnRepo, fundRepo, nil, NewAuditService(nil), worker)

	rentalRepo.mockFindByID = func(ctx context.Context, id uint) (*models.RentalContract, error) {
		return &models.RentalContract{
			ID:            id,
			Code:          "HD-TEST",
			ParishID:      3,
			TenantName:    "Công ty TNHH An Phú",
			RentAmount:    10000000,
			PaymentMethod: models.PaymentMethodCash,
			Status:        models.RentalStatusActive,
		}, nil
	}
	txnRepo.mockFindByRentalAndPeriod = func(ctx context.Context, rentalContractID uint, period string) (*models.Transaction, error) {
		return nil, gorm.ErrRecordNotFound
	}
	fundRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Fund, error) {
		return &models.Fund{ID: id}, nil
	}

	bankAccountID := uint(7)
	incomeDate := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
	txn, err := service.ConvertPayment(context.Background(), 1, ConvertPaymentInput{
		Period:        "09/2025",
		FundID:        2,
		Amount:        7500000,
		IncomeDate:    incomeDate,
		PaymentMethod: models.PaymentMethodOnline,
		BankAccountID: &bankAccountID,
		PayerPayee:    "Nguyễn Văn Đại diện",
		Notes:         "Thanh toán một phần",
	}, 1, "", "")
	assert.NoError(t, err)
	assert.Equal(t, 7500000.0, txn.Amount)
	assert.Equal(t, incomeDate, txn.TransactionDate)
	assert.Equal(t, models.PaymentMethodOnline, txn.PaymentMethod)
	assert.Equal(t, bankAccountID, *txn.BankAccountID)
	assert.Equal(t, "Nguyễn Văn Đại diện", txn.PayerPayee)
	assert.Equal(t, "Thanh toán một phần", *txn.Notes)
}

func TestRentalService_ConvertPayment_OnlineRequiresBankDetails(t *testing.T) {
	rentalRepo := &mockRentalRepo{}
	txnRepo := &mockRentalTxnRepo{}
	fundRepo := &mockFundRepo{}
	service := NewRentalService(rentalRepo, nil, txnRepo, fundRepo, nil, NewAuditService(nil), nil)

	// Cash contract, no bank info anywhere
	rentalRepo.mockFindByID = func(ctx context.Context, id uint) (*models.RentalContract, error) {
		return &models.RentalContract{
			ID:            id,
			ParishID:      3,
			TenantName:    "Công ty TNHH An Phú",
			RentAmount:    10000000,
			PaymentMethod: models.PaymentMethodCash,
			Status:        models.RentalStatusActive,
		}, nil
	}
	txnRepo.mockFindByRentalAndPeriod = func(ctx context.Context, rentalContractID uint, period string) (*models.Transaction, error) {
		return nil, gorm.ErrRecordNotFound
	}
	fundRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Fund, error) {
		return &models.Fund{ID: id}, nil
	}

	_, err := service.ConvertPayment(context.Background(), 1, ConvertPaymentInput{
		Period:        "09/2025",
		FundID:        2,
		PaymentMethod: models.PaymentMethodOnline,
	}, 1, "", "")
	assert.ErrorIs(t, err, ErrMissingBankDetails)
}

func TestRentalService_ExpireOverdue_ReleasesAssets(t *testing.T) {
	rentalRepo := &mockRentalRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := NewRentalService(rentalRepo, nil, nil, nil, nil, NewAuditService(nil), worker)

	rentalRepo.mockFindActivePastEndDate = func(ctx context.Context) ([]models.RentalContract, error) {
		return []models.RentalContract{
			{ID: 1, Status: models.RentalStatusActive},
			{ID: 2, Status: models.RentalStatusActive},
		}, nil
	}

	err := service.ExpireOverdue(context.Background())
	assert.NoError(t, err)
	assert.Len(t, rentalRepo.released, 2)
	for _, contract := range rentalRepo.released {
		assert.Equal(t, models.RentalStatusExpired, contract.Status)
	}
}
