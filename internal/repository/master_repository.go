package repository

import (
	"context"
	"errors"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"gorm.io/gorm"
)

// ParishRepository defines the interface for parish data access
type ParishRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Parish, error)
	Create(ctx context.Context, parish *models.Parish) error
	Update(ctx context.Context, parish *models.Parish) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Parish, int64, error)
	FindAll(ctx context.Context) ([]models.Parish, error)
}

type parishRepository struct {
	db *gorm.DB
}

// NewParishRepository creates a new parish repository
func NewParishRepository(db *gorm.DB) ParishRepository {
	return &parishRepository{db: db}
}

func (r *parishRepository) FindByID(ctx context.Context, id uint) (*models.Parish, error) {
	var parish models.Parish
	err := r.db.WithContext(ctx).First(&parish, id).Error
	if err != nil {
		return nil, err
	}
	return &parish, nil
}

func (r *parishRepository) Create(ctx context.Context, parish *models.Parish) error {
	if err := r.db.WithContext(ctx).Create(parish).Error; err != nil {
		if isDuplicateKeyError(err, "idx_parishes_code") {
			return errors.New("Mã giáo xứ đã tồn tại")
		}
		return err
	}
	return nil
}

func (r *parishRepository) Update(ctx context.Context, parish *models.Parish) error {
	return r.db.WithContext(ctx).Save(parish).Error
}

func (r *parishRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Parish{}, id).Error
}

func (r *parishRepository) List(ctx context.Context, query *ListQuery) ([]models.Parish, int64, error) {
	var parishes []models.Parish
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Parish{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR code ILIKE ? OR deanery ILIKE ?", search, search, search)
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["deanery"] != "" {
		db = db.Where("deanery = ?", query.Filters["deanery"])
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

	err := db.Find(&parishes).Error
	return parishes, total, err
}

func (r *parishRepository) FindAll(ctx context.Context) ([]models.Parish, error) {
	var parishes []models.Parish
	err := r.db.WithContext(ctx).Order("code ASC").Find(&parishes).Error
	return parishes, err
}

// PersonRepository defines the interface for congregant data access
type PersonRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Person, error)
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Person, int64, error)
	CountByParish(ctx context.Context, parishID uint) (int64, error)
}

type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) FindByID(ctx context.Context, id uint) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Preload("Parish").First(&person, id).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepository) Create(ctx context.Context, person *models.Person) error {
	if err := r.db.WithContext(ctx).Create(person).Error; err != nil {
		if isDuplicateKeyError(err, "idx_persons_code") {
			return errors.New("Mã giáo dân đã tồn tại")
		}
		return err
	}
	return nil
}

func (r *personRepository) Update(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

func (r *personRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Person{}, id).Error
}

func (r *personRepository) List(ctx context.Context, query *ListQuery) ([]models.Person, int64, error) {
	var persons []models.Person
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Person{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("full_name ILIKE ? OR code ILIKE ? OR saint_name ILIKE ? OR phone ILIKE ?",
			search, search, search, search)
	}
	if query.Filters["parish_id"] != "" {
		db = db.Where("parish_id = ?", query.Filters["parish_id"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["gender"] != "" {
		db = db.Where("gender = ?", query.Filters["gender"])
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

	err := db.Preload("Parish").Find(&persons).Error
	return persons, total, err
}

func (r *personRepository) CountByParish(ctx context.Context, parishID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Person{}).
		Where("parish_id = ? AND status = ?", parishID, models.StatusActive).
		Count(&count).Error
	return count, err
}

// FundRepository defines the interface for fund data access
type FundRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Fund, error)
	Create(ctx context.Context, fund *models.Fund) error
	Update(ctx context.Context, fund *models.Fund) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Fund, int64, error)
	FindAll(ctx context.Context) ([]models.Fund, error)
}

type fundRepository struct {
	db *gorm.DB
}

// NewFundRepository creates a new fund repository
func NewFundRepository(db *gorm.DB) FundRepository {
	return &fundRepository{db: db}
}

func (r *fundRepository) FindByID(ctx context.Context, id uint) (*models.Fund, error) {
	var fund models.Fund
	err := r.db.WithContext(ctx).First(&fund, id).Error
	if err != nil {
		return nil, err
	}
	return &fund, nil
}

func (r *fundRepository) Create(ctx context.Context, fund *models.Fund) error {
	if err := r.db.WithContext(ctx).Create(fund).Error; err != nil {
		if isDuplicateKeyError(err, "idx_funds_code") {
			return errors.New("Mã quỹ đã tồn tại")
		}
		return err
	}
	return nil
}

func (r *fundRepository) Update(ctx context.Context, fund *models.Fund) error {
	return r.db.WithContext(ctx).Save(fund).Error
}

func (r *fundRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Fund{}, id).Error
}

func (r *fundRepository) List(ctx context.Context, query *ListQuery) ([]models.Fund, int64, error) {
	var funds []models.Fund
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Fund{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR code ILIKE ?", search, search)
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
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

	err := db.Find(&funds).Error
	return funds, total, err
}

func (r *fundRepository) FindAll(ctx context.Context) ([]models.Fund, error) {
	var funds []models.Fund
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusActive).
		Order("code ASC").
		Find(&funds).Error
	return funds, err
}

// BankAccountRepository defines the interface for bank account data access
type BankAccountRepository interface {
	FindByID(ctx context.Context, id uint) (*models.BankAccount, error)
	Create(ctx context.Context, account *models.BankAccount) error
	Update(ctx context.Context, account *models.BankAccount) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.BankAccount, int64, error)
}

type bankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository creates a new bank account repository
func NewBankAccountRepository(db *gorm.DB) BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) FindByID(ctx context.Context, id uint) (*models.BankAccount, error) {
	var account models.BankAccount
	err := r.db.WithContext(ctx).Preload("Parish").First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) Create(ctx context.Context, account *models.BankAccount) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicateKeyError(err, "idx_bank_accounts_account_number") {
			return errors.New("Số tài khoản ngân hàng đã tồn tại")
		}
		return err
	}
	return nil
}

func (r *bankAccountRepository) Update(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *bankAccountRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BankAccount{}, id).Error
}

func (r *bankAccountRepository) List(ctx context.Context, query *ListQuery) ([]models.BankAccount, int64, error) {
	var accounts []models.BankAccount
	var total int64

	db := r.db.WithContext(ctx).Model(&models.BankAccount{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("account_number ILIKE ? OR account_name ILIKE ? OR bank_name ILIKE ?",
			search, search, search)
	}
	if query.Filters["parish_id"] != "" {
		db = db.Where("parish_id = ?", query.Filters["parish_id"])
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	db.Count(&total)

	db = db.Order("created_at DESC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Parish").Find(&accounts).Error
	return accounts, total, err
}

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Contact, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) FindByID(ctx context.Context, id uint) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.WithContext(ctx).First(&contact, id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) Update(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Contact{}, id).Error
}

func (r *contactRepository) List(ctx context.Context, query *ListQuery) ([]models.Contact, int64, error) {
	var contacts []models.Contact
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Contact{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", search, search, search)
	}

	db.Count(&total)

	db = db.Order("name ASC")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&contacts).Error
	return contacts, total, err
}
