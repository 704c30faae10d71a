package repository

import (
	"context"
	"strings"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"gorm.io/gorm"
)

// TransactionRepository defines the interface for transaction data access
type TransactionRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Transaction, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Transaction, error)
	Create(ctx context.Context, txn *models.Transaction) error
	Update(ctx context.Context, txn *models.Transaction) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *TransactionQuery) ([]models.Transaction, int64, error)
	FindByRentalAndPeriod(ctx context.Context, rentalContractID uint, period string) (*models.Transaction, error)
	FindByPayrollPeriod(ctx context.Context, parishID uint, period string) (*models.Transaction, error)
	FindPendingOlderThan(ctx context.Context, olderThanHours int) ([]models.Transaction, error)
	GetStats(ctx context.Context, parishID uint) (*TransactionStats, error)
	GetFundBalances(ctx context.Context, fundID uint) ([]models.FundBalance, error)
}

// TransactionQuery extends ListQuery with transaction-specific filters
type TransactionQuery struct {
	*ListQuery
	Type     string
	Status   string
	Source   string
	FundID   uint
	ParishID uint
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Contact").
		Preload("Fund").
		Preload("Parish").
		Preload("BankAccount").
		Preload("RentalContract").
		Preload("ApprovedByUser").
		First(&txn, id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	if len(ids) == 0 {
		return txns, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Contact").
		Preload("Fund").
		Preload("Parish").
		Where("id IN ?", ids).
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) Update(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Transaction{}, id).Error
}

func (r *transactionRepository) List(ctx context.Context, query *TransactionQuery) ([]models.Transaction, int64, error) {
	var txns []models.Transaction
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Transaction{})

	if query.Type != "" {
		db = db.Where("transactions.type = ?", query.Type)
	}

	// Apply status filter (single or multiple via status_in)
	if query.Filters != nil {
		if val, ok := query.Filters["status_in"]; ok && val != "" {
			statuses := strings.Split(val, ",")
			for i, s := range statuses {
				statuses[i] = strings.TrimSpace(s)
			}
			if len(statuses) > 0 {
				db = db.Where("transactions.status IN ?", statuses)
			}
		}
	}
	if query.Filters == nil || query.Filters["status_in"] == "" {
		if query.Status != "" {
			db = db.Where("transactions.status = ?", query.Status)
		}
	}

	if query.Source != "" {
		db = db.Where("transactions.source = ?", query.Source)
	}
	if query.FundID > 0 {
		db = db.Where("transactions.fund_id = ?", query.FundID)
	}
	if query.ParishID > 0 {
		db = db.Where("transactions.parish_id = ?", query.ParishID)
	}

	// Apply transaction_date filters
	if query.Filters != nil {
		if val, ok := query.Filters["start_date"]; ok && val != "" {
			db = db.Where("transactions.transaction_date >= ?", val)
		}
		if val, ok := query.Filters["end_date"]; ok && val != "" {
			db = db.Where("transactions.transaction_date <= ?", val)
		}
	}

	// Apply search (JOINs only for filtering; associations loaded via Preload below)
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN funds ON funds.id = transactions.fund_id").
			Joins("LEFT JOIN contacts ON contacts.id = transactions.contact_id").
			Where("transactions.code ILIKE ? OR transactions.payer_payee ILIKE ? OR funds.name ILIKE ? OR contacts.name ILIKE ?",
				search, search, search, search)
	}

	// Count total using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting
	if query.SortBy != "" {
		order := "transactions." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("transactions.transaction_date DESC, transactions.id DESC")
	}

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("transactions.*").
		Preload("Contact").
		Preload("Fund").
		Preload("Parish").
		Preload("ApprovedByUser").
		Find(&txns).Error

	return txns, total, err
}

// FindByRentalAndPeriod returns the income transaction already generated for a
// rental contract and payment period, if any. Used to keep conversion idempotent.
func (r *transactionRepository) FindByRentalAndPeriod(ctx context.Context, rentalContractID uint, period string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("rental_contract_id = ? AND payment_period = ? AND status <> ?",
			rentalContractID, period, models.TransactionStatusRejected).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindByPayrollPeriod returns the payroll-derived expense for a parish and period, if any.
func (r *transactionRepository) FindByPayrollPeriod(ctx context.Context, parishID uint, period string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("parish_id = ? AND payroll_period = ? AND source = ? AND status <> ?",
			parishID, period, models.TransactionSourcePayroll, models.TransactionStatusRejected).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindPendingOlderThan(ctx context.Context, olderThanHours int) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("transactions.status = ? AND transactions.created_at < CURRENT_TIMESTAMP - make_interval(hours => ?)",
			models.TransactionStatusPending, olderThanHours).
		Preload("Fund").
		Preload("Parish").
		Order("transactions.created_at ASC").
		Find(&txns).Error
	return txns, err
}

// TransactionStats holds the count of transactions by status
type TransactionStats struct {
	Total       int64   `json:"total"`
	Pending     int64   `json:"pending"`
	Approved    int64   `json:"approved"`
	Rejected    int64   `json:"rejected"`
	IncomeTotal float64 `json:"income_total"`
	Expense     float64 `json:"expense_total"`
}

func (r *transactionRepository) GetStats(ctx context.Context, parishID uint) (*TransactionStats, error) {
	stats := &TransactionStats{}

	db := r.db.WithContext(ctx).Model(&models.Transaction{})
	if parishID > 0 {
		db = db.Where("parish_id = ?", parishID)
	}

	// Single pass over status counts
	rows, err := db.Session(&gorm.Session{}).
		Select("status, count(*) as count").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var total int64
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		total += count
		switch status {
		case models.TransactionStatusPending:
			stats.Pending = count
		case models.TransactionStatusApproved:
			stats.Approved = count
		case models.TransactionStatusRejected:
			stats.Rejected = count
		}
	}
	stats.Total = total

	// Approved totals by type
	type typeSum struct {
		Type  string
		Total float64
	}
	var sums []typeSum
	sumDB := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusApproved)
	if parishID > 0 {
		sumDB = sumDB.Where("parish_id = ?", parishID)
	}
	if err := sumDB.
		Select("type, COALESCE(SUM(amount), 0) as total").
		Group("type").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	for _, s := range sums {
		switch s.Type {
		case models.TransactionTypeIncome:
			stats.IncomeTotal = s.Total
		case models.TransactionTypeExpense:
			stats.Expense = s.Total
		}
	}

	return stats, nil
}

// GetFundBalances computes per-fund balances from approved transactions only.
// Pass fundID = 0 for all funds. Balances are never stored.
func (r *transactionRepository) GetFundBalances(ctx context.Context, fundID uint) ([]models.FundBalance, error) {
	var balances []models.FundBalance

	db := r.db.WithContext(ctx).
		Table("funds").
		Select(`funds.id as fund_id, funds.code as fund_code, funds.name as fund_name,
			COALESCE(SUM(CASE WHEN transactions.type = ? AND transactions.status = ? THEN transactions.amount ELSE 0 END), 0) as total_income,
			COALESCE(SUM(CASE WHEN transactions.type = ? AND transactions.status = ? THEN transactions.amount ELSE 0 END), 0) as total_expense`,
			models.TransactionTypeIncome, models.TransactionStatusApproved,
			models.TransactionTypeExpense, models.TransactionStatusApproved).
		Joins("LEFT JOIN transactions ON transactions.fund_id = funds.id").
		Group("funds.id, funds.code, funds.name").
		Order("funds.code ASC")

	if fundID > 0 {
		db = db.Where("funds.id = ?", fundID)
	}

	if err := db.Scan(&balances).Error; err != nil {
		return nil, err
	}

	for i := range balances {
		balances[i].Balance = balances[i].TotalIncome - balances[i].TotalExpense
	}

	return balances, nil
}

// ReceiptRepository defines the interface for receipt data access
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Receipt, error)
	FindByNo(ctx context.Context, receiptNo string) (*models.Receipt, error)
	List(ctx context.Context, query *ListQuery) ([]models.Receipt, int64, error)
	CreateForTransactions(ctx context.Context, receipt *models.Receipt, txns []*models.Transaction) error
	CancelWithTransactions(ctx context.Context, receipt *models.Receipt) error
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) FindByID(ctx context.Context, id uint) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).
		Preload("Parish").
		Preload("Fund").
		Preload("CreatedByUser").
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("transaction_date ASC")
		}).
		Preload("Transactions.Contact").
		First(&receipt, id).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) FindByNo(ctx context.Context, receiptNo string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).
		Preload("Parish").
		Preload("Fund").
		Preload("Transactions").
		Where("receipt_no = ?", receiptNo).
		First(&receipt).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) List(ctx context.Context, query *ListQuery) ([]models.Receipt, int64, error) {
	var receipts []models.Receipt
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Receipt{})

	if query.Filters["receipt_type"] != "" {
		db = db.Where("receipts.receipt_type = ?", query.Filters["receipt_type"])
	}
	if query.Filters["parish_id"] != "" {
		db = db.Where("receipts.parish_id = ?", query.Filters["parish_id"])
	}
	if val, ok := query.Filters["start_date"]; ok && val != "" {
		db = db.Where("receipts.created_at >= ?", val)
	}
	if val, ok := query.Filters["end_date"]; ok && val != "" {
		endDate := val
		if len(endDate) == 10 {
			endDate += " 23:59:59"
		}
		db = db.Where("receipts.created_at <= ?", endDate)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("receipts.receipt_no ILIKE ? OR receipts.payer_payee ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "receipts." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("receipts.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Parish").
		Preload("Fund").
		Preload("CreatedByUser").
		Preload("Transactions").
		Find(&receipts).Error
	return receipts, total, err
}

// CreateForTransactions persists a receipt and stamps the already-approved
// transactions with its id in a single database transaction. If any write
// fails nothing is committed, so a receipt can never exist without its
// transactions nor the other way around.
func (r *receiptRepository) CreateForTransactions(ctx context.Context, receipt *models.Receipt, txns []*models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}
		for _, txn := range txns {
			txn.ReceiptID = &receipt.ID
			if err := tx.Save(txn).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CancelWithTransactions deletes a receipt and reverts every transaction it
// covered back to pending in a single database transaction. The transaction
// models must already carry the reverted status.
func (r *receiptRepository) CancelWithTransactions(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range receipt.Transactions {
			txn := &receipt.Transactions[i]
			if err := tx.Model(&models.Transaction{}).
				Where("id = ?", txn.ID).
				Updates(map[string]interface{}{
					"status":              txn.Status,
					"receipt_id":          nil,
					"approved_at":         nil,
					"approved_by_user_id": nil,
					"approval_note":       nil,
				}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Receipt{}, receipt.ID).Error
	})
}
