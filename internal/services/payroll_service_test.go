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

type mockPayrollRepo struct {
	repository.PayrollRepository
	mockFindByStaffAndPeriod func(ctx context.Context, staffID uint, period string) (*models.Payroll, error)
	mockFindByPeriod         func(ctx context.Context, parishID uint, period string) ([]models.Payroll, error)
	created                  []models.Payroll
	approvedRowIDs           []uint
	approvedExpense          *models.Transaction
	paidRowIDs               []uint
}

func (m *mockPayrollRepo) FindByStaffAndPeriod(ctx context.Context, staffID uint, period string) (*models.Payroll, error) {
	return m.mockFindByStaffAndPeriod(ctx, staffID, period)
}

func (m *mockPayrollRepo) FindByPeriod(ctx context.Context, parishID uint, period string) ([]models.Payroll, error) {
	return m.mockFindByPeriod(ctx, parishID, period)
}

func (m *mockPayrollRepo) Create(ctx context.Context, payroll *models.Payroll) error {
	payroll.ID = uint(len(m.created) + 1)
	m.created = append(m.created, *payroll)
	return nil
}

func (m *mockPayrollRepo) ApprovePeriod(ctx context.Context, rowIDs []uint, approvedAt time.Time, expense *models.Transaction) error {
	m.approvedRowIDs = rowIDs
	m.approvedExpense = expense
	return nil
}

func (m *mockPayrollRepo) MarkPeriodPaid(ctx context.Context, rowIDs []uint, paidAt time.Time) error {
	m.paidRowIDs = rowIDs
	return nil
}

type mockStaffRepo struct {
	repository.StaffRepository
	mockFindActiveWithContract func(ctx context.Context, parishID uint) ([]models.Staff, error)
}

func (m *mockStaffRepo) FindActiveWithContract(ctx context.Context, parishID uint) ([]models.Staff, error) {
	return m.mockFindActiveWithContract(ctx, parishID)
}

type mockPayrollTxnRepo struct {
	repository.TransactionRepository
	mockFindByPayrollPeriod func(ctx context.Context, parishID uint, period string) (*models.Transaction, error)
}

func (m *mockPayrollTxnRepo) FindByPayrollPeriod(ctx context.Context, parishID uint, period string) (*models.Transaction, error) {
	return m.mockFindByPayrollPeriod(ctx, parishID, period)
}

type mockFundRepo struct {
	repository.FundRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Fund, error)
}

func (m *mockFundRepo) FindByID(ctx context.Context, id uint) (*models.Fund, error) {
	return m.mockFindByID(ctx, id)
}

func TestPayrollService_GeneratePeriod_InvalidPeriod(t *testing.T) {
	service := NewPayrollService(&mockPayrollRepo{}, &mockStaffRepo{}, nil, nil, nil, NewAuditService(nil), nil)

	_, err := service.GeneratePeriod(context.Background(), 1, "13/2025", 1, "", "")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = service.GeneratePeriod(context.Background(), 1, "2025-08", 1, "", "")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPayrollService_GeneratePeriod_CreatesDraftRows(t *testing.T) {
	payrollRepo := &mockPayrollRepo{}
	staffRepo := &mockStaffRepo{}
	service := NewPayrollService(payrollRepo, staffRepo, nil, nil, nil, NewAuditService(nil), nil)

	payrollRepo.mockFindByPeriod = func(ctx context.Context, parishID uint, period string) ([]models.Payroll, error) {
		return nil, nil
	}
	staffRepo.mockFindActiveWithContract = func(ctx context.Context, parishID uint) ([]models.Staff, error) {
		return []models.Staff{
			{ID: 1, ParishID: parishID, FullName: "Nguyễn Văn A", Contracts: []models.StaffContract{
				{StaffID: 1, BasicSalary: 8000000, Status: models.StaffContractStatusActive},
			}},
			{ID: 2, ParishID: parishID, FullName: "Trần Thị B", Contracts: []models.StaffContract{
				{StaffID: 2, BasicSalary: 6500000, Status: models.StaffContractStatusActive},
			}},
		}, nil
	}

	created, err := service.GeneratePeriod(context.Background(), 3, "08/2025", 1, "", "")
	assert.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, models.PayrollStatusDraft, created[0].Status)
	assert.Equal(t, 8000000.0, created[0].NetSalary)
	assert.Equal(t, 6500000.0, created[1].NetSalary)
}

func TestPayrollService_GeneratePeriod_RejectsWhenPeriodHasRows(t *testing.T) {
	payrollRepo := &mockPayrollRepo{}
	staffRepo := &mockStaffRepo{}
	service := NewPayrollService(payrollRepo, staffRepo, nil, nil, nil, NewAuditService(nil), nil)

	payrollRepo.mockFindByPeriod = func(ctx context.Context, parishID uint, period string) ([]models.Payroll, error) {
		return []models.Payroll{{ID: 99, StaffID: 1, Period: period}}, nil
	}

	_, err := service.GeneratePeriod(context.Background(), 3, "08/2025", 1, "", "")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Empty(t, payrollRepo.created)
}

func TestPayrollService_Create_RejectsDuplicateStaffPeriod(t *testing.T) {
	payrollRepo := &mockPayrollRepo{}
	staffRepo := &mockStaffRepo{}
	service := NewPayrollService(payrollRepo, staffRepo, nil, nil, nil, NewAuditService(nil), nil)

	payrollRepo.mockFindByStaffAndPeriod = func(ctx context.Context, staffID uint, period string) (*models.Payroll, error) {
		return &models.Payroll{ID: 5, StaffID: staffID, Period: period}, nil
	}

	err := service.Create(context.Background(), &models.Payroll{StaffID: 1, Period: "08/2025"}, 1, "", "")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Empty(t, payrollRepo.created)
}

func TestPayrollService_ApprovePeriod_DuplicateExpense(t *testing.T) {
	txnRepo := &mockPayrollTxnRepo{}
	service := NewPayrollService(&mockPayrollRepo{}, &mockStaffRepo{}, txnRepo, &mockFundRepo{}, nil, NewAuditService(nil), nil)

	txnRepo.mockFindByPayrollPeriod = func(ctx context.Context, parishID uint, period string) (*models.Transaction, error) {
		return &models.Transaction{ID: 1, Status: models.TransactionStatusPending}, nil
	}

	_, _, err := service.ApprovePeriod(context.Background(), 1, "08/2025", 2, models.PaymentMethodCash, nil, 1, "", "")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPayrollService_ApprovePeriod_CreatesExpense(t *testing.T) {
	payrollRepo := &mockPayrollRepo{}
	txnRepo := &mockPayrollTxnRepo{}
	fundRepo := &mockFundRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := NewPayrollService(payrollRepo, &mockStaffRepo{}, txnRepo, fundRepo, nil, NewAuditService(nil), worker)

	txnRepo.mockFindByPayrollPeriod = func(ctx context.Context, parishID uint, period string) (*models.Transaction, error) {
		return nil, gorm.ErrRecordNotFound
	}
	fundRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Fund, error) {
		return &models.Fund{ID: id}, nil
	}
	payrollRepo.mockFindByPeriod = func(ctx context.Context, parishID uint, period string) ([]models.Payroll, error) {
		return []models.Payroll{
			{ID: 1, StaffID: 1, Period: period, Status: models.PayrollStatusDraft, NetSalary: 8000000},
			{ID: 2, StaffID: 2, Period: period, Status: models.PayrollStatusDraft, NetSalary: 6500000},
		}, nil
	}

	expense, approved, err := service.ApprovePeriod(context.Background(), 3, "08/2025", 2, models.PaymentMethodCash, nil, 1, "", "")
	assert.NoError(t, err)
	assert.Equal(t, 2, approved)
	assert.Equal(t, models.TransactionTypeExpense, expense.Type)
	assert.Equal(t, 14500000.0, expense.Amount)
	assert.Equal(t, models.TransactionStatusPending, expense.Status)
	assert.Equal(t, models.TransactionSourcePayroll, expense.Source)
	assert.Equal(t, models.PaymentMethodCash, expense.PaymentMethod)
	assert.Equal(t, "08/2025", *expense.PayrollPeriod)
	assert.Equal(t, "Bảng lương kỳ 08/2025", expense.PayerPayee)
	assert.Equal(t, []uint{1, 2}, payrollRepo.approvedRowIDs)
}

func TestPayrollService_ApprovePeriod_OnlineRequiresBankAccount(t *testing.T) {
	payrollRepo := &mockPayrollRepo{}
	txnRepo := &mockPayrollTxnRepo{}
	fundRepo := &mockFundRepo{}
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()
	service := NewPayrollService(payrollRepo, &mockStaffRepo{}, txnRepo, fundRepo, nil, NewAuditService(nil), worker)

	_, _, err := service.ApprovePeriod(context.Background(), 3, "08/2025", 2, models.PaymentMethodOnline, nil, 1, "", "")
	assert.ErrorIs(t, err, ErrMissingBankDetails)
	assert.Nil(t, payrollRepo.approvedExpense)

	txnRepo.mockFindByPayrollPeriod = func(ctx context.Context, parishID uint, period string) (*models.Transaction, error) {
		return nil, gorm.ErrRecordNotFound
	}
	fundRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Fund, error) {
		return &models.Fund{ID: id}, nil
	}
	payrollRepo.mockFindByPeriod = func(ctx context.Context, parishID uint, period string) ([]models.Payroll, error) {
		return []models.Payroll{
			{ID: 1, Status: models.PayrollStatusDraft, NetSalary: 8000000},
		}, nil
	}

	bankAccountID := uint(9)
	expense, _, err := service.ApprovePeriod(context.Background(), 3, "08/2025", 2, models.PaymentMethodOnline, &bankAccountID, 1, "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentMethodOnline, expense.PaymentMethod)
	assert.Equal(t, bankAccountID, *expense.BankAccountID)
}

func TestPayrollService_ApprovePeriod_RefusesNonDraftRows(t *testing.T) {
	payrollRepo := &mockPayrollRepo{}
	txnRepo := &mockPayrollTxnRepo{}
	fundRepo := &mockFundRepo{}
	service := NewPayrollService(payrollRepo, &mockStaffRepo{}, txnRepo, fundRepo, nil, NewAuditService(nil), nil)

	txnRepo.mockFindByPayrollPeriod = func(ctx context.Context, parishID uint, period string) (*models.Transaction, error) {
		return nil, gorm.ErrRecordNotFound
	}
	fundRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Fund, error) {
		return &models.Fund{ID: id}, nil
	}
	payrollRepo.mockFindByPeriod = func(ctx context.Context, parishID uint, period string) ([]models.Payroll, error) {
		return []models.Payroll{
			{ID: 1, Status: models.PayrollStatusDraft, NetSalary: 8000000},
			{ID: 2, Status: models.PayrollStatusPaid, NetSalary: 6500000},
		}, nil
	}

	_, _, err := service.ApprovePeriod(context.Background(), 3, "08/2025", 2, models.PaymentMethodCash, nil, 1, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dòng lương #2")
	assert.Nil(t, payrollRepo.approvedExpense)
}

func TestPayrollService_MarkPeriodPaid_RequiresApprovedExpense(t *testing.T) {
	payrollRepo := &mockPayrollRepo{}
	txnRepo := &mockPayrollTxnRepo{}
	service := NewPayrollService(payrollRepo, &mockStaffRepo{}, txnRepo, nil, nil, NewAuditService(nil), nil)

	// No expense at all
	txnRepo.mockFindByPayrollPeriod = func(ctx context.Context, parishID uint, period string) (*models.Transaction, error) {
		return nil, gorm.ErrRecordNotFound
	}
	err := service.MarkPeriodPaid(context.Background(), 3, "08/2025", 1, "", "")
	assert.ErrorIs(t, err, ErrExpenseNotApproved)

	// Expense exists but still pending
	txnRepo.mockFindByPayrollPeriod = func(ctx context.Context, parishID uint, period string) (*models.Transaction, error) {
		return &models.Transaction{ID: 1, Status: models.TransactionStatusPending}, nil
	}
	err = service.MarkPeriodPaid(context.Background(), 3, "08/2025", 1, "", "")
	assert.ErrorIs(t, err, ErrExpenseNotApproved)
}

func TestPayrollService_MarkPeriodPaid_StampsRows(t *testing.T) {
	payrollRepo := &mockPayrollRepo{}
	txnRepo := &mockPayrollTxnRepo{}
	service := NewPayrollService(payrollRepo, &mockStaffRepo{}, txnRepo, nil, nil, NewAuditService(nil), nil)

	txnRepo.mockFindByPayrollPeriod = func(ctx context.Context, parishID uint, period string) (*models.Transaction, error) {
		return &models.Transaction{ID: 1, Status: models.TransactionStatusApproved}, nil
	}
	payrollRepo.mockFindByPeriod = func(ctx context.Context, parishID uint, period string) ([]models.Payroll, error) {
		return []models.Payroll{
			{ID: 1, Status: models.PayrollStatusApproved},
			{ID: 2, Status: models.PayrollStatusApproved},
		}, nil
	}

	err := service.MarkPeriodPaid(context.Background(), 3, "08/2025", 1, "", "")
	assert.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, payrollRepo.paidRowIDs)
}
