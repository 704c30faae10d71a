package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"gorm.io/gorm"
)

// PayrollRepository defines the interface for payroll data access
type PayrollRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payroll, error)
	FindByStaffAndPeriod(ctx context.Context, staffID uint, period string) (*models.Payroll, error)
	FindByPeriod(ctx context.Context, parishID uint, period string) ([]models.Payroll, error)
	Create(ctx context.Context, payroll *models.Payroll) error
	Update(ctx context.Context, payroll *models.Payroll) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *PayrollQuery) ([]models.Payroll, int64, error)
	ApprovePeriod(ctx context.Context, rowIDs []uint, approvedAt time.Time, expense *models.Transaction) error
	MarkPeriodPaid(ctx context.Context, rowIDs []uint, paidAt time.Time) error
}

// PayrollQuery extends ListQuery with payroll-specific filters
type PayrollQuery struct {
	*ListQuery
	Period   string
	StaffID  uint
	ParishID uint
	Status   string
}

type payrollRepository struct {
	db *gorm.DB
}

// NewPayrollRepository creates a new payroll repository
func NewPayrollRepository(db *gorm.DB) PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) FindByID(ctx context.Context, id uint) (*models.Payroll, error) {
	var payroll models.Payroll
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Parish").
		First(&payroll, id).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *payrollRepository) FindByStaffAndPeriod(ctx context.Context, staffID uint, period string) (*models.Payroll, error) {
	var payroll models.Payroll
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND period = ?", staffID, period).
		First(&payroll).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *payrollRepository) FindByPeriod(ctx context.Context, parishID uint, period string) ([]models.Payroll, error) {
	var payrolls []models.Payroll
	db := r.db.WithContext(ctx).
		Preload("Staff").
		Where("period = ?", period)
	if parishID > 0 {
		db = db.Where("parish_id = ?", parishID)
	}
	err := db.Order("staff_id ASC").Find(&payrolls).Error
	return payrolls, err
}

func (r *payrollRepository) Create(ctx context.Context, payroll *models.Payroll) error {
	if err := r.db.WithContext(ctx).Create(payroll).Error; err != nil {
		if isDuplicateKeyError(err, "idx_payroll_staff_period") {
			return errors.New("Nhân viên này đã có dòng lương cho kỳ này")
		}
		return err
	}
	return nil
}

func (r *payrollRepository) Update(ctx context.Context, payroll *models.Payroll) error {
	return r.db.WithContext(ctx).Save(payroll).Error
}

func (r *payrollRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Payroll{}, id).Error
}

func (r *payrollRepository) List(ctx context.Context, query *PayrollQuery) ([]models.Payroll, int64, error) {
	var payrolls []models.Payroll
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payroll{})

	if query.Period != "" {
		db = db.Where("payrolls.period = ?", query.Period)
	}
	if query.StaffID > 0 {
		db = db.Where("payrolls.staff_id = ?", query.StaffID)
	}
	if query.ParishID > 0 {
		db = db.Where("payrolls.parish_id = ?", query.ParishID)
	}
	if query.Status != "" {
		db = db.Where("payrolls.status = ?", query.Status)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN staff ON staff.id = payrolls.staff_id").
			Where("staff.full_name ILIKE ? OR staff.code ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "payrolls." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("payrolls.period DESC, payrolls.staff_id ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("payrolls.*").
		Preload("Staff").
		Preload("Parish").
		Find(&payrolls).Error
	return payrolls, total, err
}

// ApprovePeriod moves the given draft rows to approved and creates the batch
// expense in a single database transaction. The UPDATE is guarded on the
// draft status so a concurrent approval of the same period cannot double the
// expense: the loser sees fewer rows affected and the whole write rolls back.
func (r *payrollRepository) ApprovePeriod(ctx context.Context, rowIDs []uint, approvedAt time.Time, expense *models.Transaction) error {
	if len(rowIDs) == 0 {
		return errors.New("no payroll rows to approve")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payroll{}).
			Where("id IN ? AND status = ?", rowIDs, models.PayrollStatusDraft).
			Updates(map[string]interface{}{
				"status":      models.PayrollStatusApproved,
				"approved_at": approvedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(rowIDs)) {
			return fmt.Errorf("expected %d draft rows, updated %d", len(rowIDs), res.RowsAffected)
		}
		return tx.Create(expense).Error
	})
}

// MarkPeriodPaid stamps the approved rows paid in one transaction.
func (r *payrollRepository) MarkPeriodPaid(ctx context.Context, rowIDs []uint, paidAt time.Time) error {
	if len(rowIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payroll{}).
			Where("id IN ? AND status = ?", rowIDs, models.PayrollStatusApproved).
			Update("paid_at", paidAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(rowIDs)) {
			return fmt.Errorf("expected %d approved rows, updated %d", len(rowIDs), res.RowsAffected)
		}
		return tx.Model(&models.Payroll{}).
			Where("id IN ?", rowIDs).
			Update("status", models.PayrollStatusPaid).Error
	})
}

// StaffRepository defines the interface for staff data access
type StaffRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Staff, error)
	FindByCode(ctx context.Context, code string) (*models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
	Update(ctx context.Context, staff *models.Staff) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Staff, int64, error)
	FindActiveWithContract(ctx context.Context, parishID uint) ([]models.Staff, error)
}

type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) FindByID(ctx context.Context, id uint) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Preload("Parish").
		Preload("Contracts", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date DESC")
		}).
		First(&staff, id).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindByCode(ctx context.Context, code string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	if err := r.db.WithContext(ctx).Create(staff).Error; err != nil {
		if isDuplicateKeyError(err, "idx_staff_code") {
			return errors.New("Mã nhân viên đã tồn tại")
		}
		return err
	}
	return nil
}

func (r *staffRepository) Update(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *staffRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Staff{}, id).Error
}

func (r *staffRepository) List(ctx context.Context, query *ListQuery) ([]models.Staff, int64, error) {
	var staff []models.Staff
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Staff{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("full_name ILIKE ? OR code ILIKE ? OR position ILIKE ?", search, search, search)
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["parish_id"] != "" {
		db = db.Where("parish_id = ?", query.Filters["parish_id"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("code ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Parish").Find(&staff).Error
	return staff, total, err
}

// FindActiveWithContract returns active staff that currently hold an active
// employment contract, with that contract preloaded. These are the staff a
// payroll period is generated for.
func (r *staffRepository) FindActiveWithContract(ctx context.Context, parishID uint) ([]models.Staff, error) {
	var staff []models.Staff
	db := r.db.WithContext(ctx).
		Joins("JOIN staff_contracts ON staff_contracts.staff_id = staff.id AND staff_contracts.status = ?",
			models.StaffContractStatusActive).
		Where("staff.status = ?", models.StatusActive)
	if parishID > 0 {
		db = db.Where("staff.parish_id = ?", parishID)
	}
	err := db.
		Preload("Contracts", "status = ?", models.StaffContractStatusActive).
		Order("staff.code ASC").
		Find(&staff).Error
	return staff, err
}

// StaffContractRepository defines the interface for employment contract data access
type StaffContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.StaffContract, error)
	FindActiveByStaff(ctx context.Context, staffID uint) (*models.StaffContract, error)
	FindByStaff(ctx context.Context, staffID uint) ([]models.StaffContract, error)
	Create(ctx context.Context, contract *models.StaffContract) error
	Update(ctx context.Context, contract *models.StaffContract) error
	Delete(ctx context.Context, id uint) error
}

type staffContractRepository struct {
	db *gorm.DB
}

// NewStaffContractRepository creates a new staff contract repository
func NewStaffContractRepository(db *gorm.DB) StaffContractRepository {
	return &staffContractRepository{db: db}
}

func (r *staffContractRepository) FindByID(ctx context.Context, id uint) (*models.StaffContract, error) {
	var contract models.StaffContract
	err := r.db.WithContext(ctx).Preload("Staff").First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *staffContractRepository) FindActiveByStaff(ctx context.Context, staffID uint) (*models.StaffContract, error) {
	var contract models.StaffContract
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND status = ?", staffID, models.StaffContractStatusActive).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *staffContractRepository) FindByStaff(ctx context.Context, staffID uint) ([]models.StaffContract, error) {
	var contracts []models.StaffContract
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("start_date DESC").
		Find(&contracts).Error
	return contracts, err
}

// Create relies on the partial unique index over (staff_id) where status is
// active, so two active contracts for one staff member cannot coexist even
// under concurrent inserts.
func (r *staffContractRepository) Create(ctx context.Context, contract *models.StaffContract) error {
	if err := r.db.WithContext(ctx).Create(contract).Error; err != nil {
		if isDuplicateKeyError(err, "idx_one_active_contract") {
			return errors.New("Nhân viên này đã có hợp đồng lao động đang hiệu lực")
		}
		return err
	}
	return nil
}

func (r *staffContractRepository) Update(ctx context.Context, contract *models.StaffContract) error {
	if err := r.db.WithContext(ctx).Save(contract).Error; err != nil {
		if isDuplicateKeyError(err, "idx_one_active_contract") {
			return errors.New("Nhân viên này đã có hợp đồng lao động đang hiệu lực")
		}
		return err
	}
	return nil
}

func (r *staffContractRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.StaffContract{}, id).Error
}
