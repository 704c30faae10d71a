package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/KhoaTran011604/gp-bmt-api/internal/jobs"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/statemachine"
)

type PayrollService struct {
	repo            repository.PayrollRepository
	staffRepo       repository.StaffRepository
	txnRepo         repository.TransactionRepository
	fundRepo        repository.FundRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewPayrollService(
	repo repository.PayrollRepository,
	staffRepo repository.StaffRepository,
	txnRepo repository.TransactionRepository,
	fundRepo repository.FundRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *PayrollService {
	return &PayrollService{
		repo:            repo,
		staffRepo:       staffRepo,
		txnRepo:         txnRepo,
		fundRepo:        fundRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *PayrollService) FindByID(ctx context.Context, id uint) (*models.Payroll, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PayrollService) List(ctx context.Context, query *repository.PayrollQuery) ([]models.Payroll, int64, error) {
	return s.repo.List(ctx, query)
}

// GeneratePeriod creates draft payroll rows for every active staff member
// holding an active employment contract. A period that already carries any
// row for the parish cannot be generated again; stray rows would have to be
// deleted first.
func (s *PayrollService) GeneratePeriod(ctx context.Context, parishID uint, period string, actorID uint, ip, userAgent string) ([]models.Payroll, error) {
	if !models.ValidPayrollPeriod(period) {
		return nil, ErrInvalidPeriod
	}

	existing, err := s.repo.FindByPeriod(ctx, parishID, period)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("kỳ %s đã có %d dòng lương: %w", period, len(existing), ErrDuplicate)
	}

	staff, err := s.staffRepo.FindActiveWithContract(ctx, parishID)
	if err != nil {
		return nil, err
	}

	var created []models.Payroll
	for _, st := range staff {
		var contract *models.StaffContract
		for i := range st.Contracts {
			if st.Contracts[i].IsActive() {
				contract = &st.Contracts[i]
				break
			}
		}
		if contract == nil {
			continue
		}

		row := models.Payroll{
			StaffID:     st.ID,
			Period:      period,
			ParishID:    st.ParishID,
			BasicSalary: contract.BasicSalary,
			Status:      models.PayrollStatusDraft,
		}
		row.Recalculate()

		if err := s.repo.Create(ctx, &row); err != nil {
			return nil, err
		}
		created = append(created, row)
	}

	s.auditSvc.Log(ctx, actorID, "GENERATE", "Payroll", 0,
		fmt.Sprintf("Tạo bảng lương kỳ %s: %d dòng", period, len(created)), ip, userAgent)

	return created, nil
}

// Create adds a single payroll row for a staff member
func (s *PayrollService) Create(ctx context.Context, row *models.Payroll, actorID uint, ip, userAgent string) error {
	if !models.ValidPayrollPeriod(row.Period) {
		return ErrInvalidPeriod
	}

	if _, err := s.repo.FindByStaffAndPeriod(ctx, row.StaffID, row.Period); err == nil {
		return fmt.Errorf("nhân viên đã có dòng lương kỳ %s: %w", row.Period, ErrDuplicate)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	staff, err := s.staffRepo.FindByID(ctx, row.StaffID)
	if err != nil {
		return fmt.Errorf("nhân viên không tồn tại: %w", err)
	}
	if row.ParishID == 0 {
		row.ParishID = staff.ParishID
	}

	row.Status = models.PayrollStatusDraft
	row.Recalculate()

	if err := s.repo.Create(ctx, row); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Payroll", row.ID,
		fmt.Sprintf("Thêm dòng lương %s kỳ %s", staff.FullName, row.Period), ip, userAgent)
	return nil
}

// Update edits a draft row. The net salary is always recomputed from the
// stored components.
func (s *PayrollService) Update(ctx context.Context, row *models.Payroll, actorID uint, ip, userAgent string) error {
	existing, err := s.repo.FindByID(ctx, row.ID)
	if err != nil {
		return err
	}
	if !existing.MayEdit() {
		return ErrInvalidState
	}

	// Staff and period are fixed once the row exists
	row.StaffID = existing.StaffID
	row.Period = existing.Period
	row.ParishID = existing.ParishID
	row.Status = existing.Status
	row.Recalculate()

	if err := s.repo.Update(ctx, row); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Payroll", row.ID,
		fmt.Sprintf("Sửa dòng lương kỳ %s, thực lãnh %s", row.Period, formatAmount(row.NetSalary)), ip, userAgent)
	return nil
}

// Delete removes a draft row
func (s *PayrollService) Delete(ctx context.Context, id uint, actorID uint, ip, userAgent string) error {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !row.MayEdit() {
		return ErrInvalidState
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "DELETE", "Payroll", id,
		fmt.Sprintf("Xóa dòng lương kỳ %s", row.Period), ip, userAgent)
	return nil
}

// ApprovePeriod approves every draft row of a parish period and creates a
// single pending expense covering the batch total. Rows and expense are
// written in one database transaction. A period that already produced an
// expense cannot be approved again. Online disbursement requires a bank
// account. Returns the expense and the number of rows approved.
func (s *PayrollService) ApprovePeriod(ctx context.Context, parishID uint, period string, fundID uint, paymentMethod string, bankAccountID *uint, actorID uint, ip, userAgent string) (*models.Transaction, int, error) {
	if !models.ValidPayrollPeriod(period) {
		return nil, 0, ErrInvalidPeriod
	}

	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCash
	}
	if paymentMethod == models.PaymentMethodOnline && bankAccountID == nil {
		return nil, 0, ErrMissingBankDetails
	}

	if _, err := s.txnRepo.FindByPayrollPeriod(ctx, parishID, period); err == nil {
		return nil, 0, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, err
	}

	if _, err := s.fundRepo.FindByID(ctx, fundID); err != nil {
		return nil, 0, fmt.Errorf("quỹ không tồn tại: %w", err)
	}

	rows, err := s.repo.FindByPeriod(ctx, parishID, period)
	if err != nil {
		return nil, 0, err
	}

	var rowIDs []uint
	var total float64
	for i := range rows {
		row := &rows[i]
		if err := statemachine.NewPayrollFSM(row).Approve(ctx); err != nil {
			return nil, 0, fmt.Errorf("dòng lương #%d đang ở trạng thái %s", row.ID, row.Status)
		}
		rowIDs = append(rowIDs, row.ID)
		total += row.NetSalary
	}
	if len(rowIDs) == 0 {
		return nil, 0, fmt.Errorf("kỳ %s không có dòng lương nào để duyệt", period)
	}
	if total <= 0 {
		return nil, 0, fmt.Errorf("tổng lương kỳ %s không hợp lệ: %s", period, formatAmount(total))
	}

	now := time.Now()
	p := period
	expense := &models.Transaction{
		Code:            generateCode("GD"),
		Type:            models.TransactionTypeExpense,
		Amount:          total,
		TransactionDate: now,
		PayerPayee:      fmt.Sprintf("Bảng lương kỳ %s", period),
		PaymentMethod:   paymentMethod,
		BankAccountID:   bankAccountID,
		FundID:          fundID,
		ParishID:        parishID,
		Status:          models.TransactionStatusPending,
		Source:          models.TransactionSourcePayroll,
		PayrollPeriod:   &p,
	}

	if err := s.repo.ApprovePeriod(ctx, rowIDs, now, expense); err != nil {
		return nil, 0, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyApprovers(ctx,
			"Bảng lương đã duyệt",
			fmt.Sprintf("Bảng lương kỳ %s (%d dòng) đã duyệt, phiếu chi %s chờ duyệt", period, len(rowIDs), expense.Code),
			models.NotificationTypePayrollApproved)
	})

	s.auditSvc.Log(ctx, actorID, "APPROVE_PERIOD", "Payroll", 0,
		fmt.Sprintf("Duyệt bảng lương kỳ %s: %d dòng, tổng %s", period, len(rowIDs), formatAmount(total)), ip, userAgent)

	return expense, len(rowIDs), nil
}

// MarkPeriodPaid stamps an approved period paid. It requires the payroll
// expense of the period to have passed approval first, so salaries cannot be
// recorded as disbursed before the books carry the expense.
func (s *PayrollService) MarkPeriodPaid(ctx context.Context, parishID uint, period string, actorID uint, ip, userAgent string) error {
	if !models.ValidPayrollPeriod(period) {
		return ErrInvalidPeriod
	}

	expense, err := s.txnRepo.FindByPayrollPeriod(ctx, parishID, period)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExpenseNotApproved
		}
		return err
	}
	if expense.Status != models.TransactionStatusApproved {
		return ErrExpenseNotApproved
	}

	rows, err := s.repo.FindByPeriod(ctx, parishID, period)
	if err != nil {
		return err
	}

	var rowIDs []uint
	for i := range rows {
		row := &rows[i]
		if err := statemachine.NewPayrollFSM(row).MarkPaid(ctx); err != nil {
			return fmt.Errorf("dòng lương #%d đang ở trạng thái %s", row.ID, row.Status)
		}
		rowIDs = append(rowIDs, row.ID)
	}
	if len(rowIDs) == 0 {
		return fmt.Errorf("kỳ %s không có dòng lương nào đã duyệt", period)
	}

	if err := s.repo.MarkPeriodPaid(ctx, rowIDs, time.Now()); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "MARK_PAID", "Payroll", 0,
		fmt.Sprintf("Đánh dấu đã chi lương kỳ %s: %d dòng", period, len(rowIDs)), ip, userAgent)

	return nil
}
