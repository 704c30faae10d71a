package services

import (
	"gorm.io/gorm"

	"github.com/KhoaTran011604/gp-bmt-api/internal/config"
	"github.com/KhoaTran011604/gp-bmt-api/internal/jobs"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Parish       *ParishService
	Person       *PersonService
	Fund         *FundService
	BankAccount  *BankAccountService
	Contact      *ContactService
	Transaction  *TransactionService
	Receipt      *ReceiptService
	Staff        *StaffService
	Payroll      *PayrollService
	Asset        *AssetService
	Rental       *RentalService
	Notification *NotificationService
	Report       *ReportService
	Export       *ExportService
	Image        *ImageService
	Audit        *AuditService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	auditSvc := NewAuditService(db)
	imageSvc := NewImageService(store)
	jobSvc := NewJobService(worker)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:         NewUserService(repos.User, auditSvc),
		Parish:       NewParishService(repos.Parish, repos.Person, auditSvc),
		Person:       NewPersonService(repos.Person, repos.Parish, auditSvc),
		Fund:         NewFundService(repos.Fund, repos.Transaction, auditSvc),
		BankAccount:  NewBankAccountService(repos.BankAccount, auditSvc),
		Contact:      NewContactService(repos.Contact, auditSvc),
		Transaction:  NewTransactionService(repos.Transaction, repos.Receipt, repos.Contact, repos.Fund, repos.Parish, notificationSvc, auditSvc, worker),
		Receipt:      NewReceiptService(repos.Receipt, repos.Transaction, notificationSvc, auditSvc, worker),
		Staff:        NewStaffService(repos.Staff, repos.StaffContract, repos.Parish, auditSvc),
		Payroll:      NewPayrollService(repos.Payroll, repos.Staff, repos.Transaction, repos.Fund, notificationSvc, auditSvc, worker),
		Asset:        NewAssetService(repos.Asset, repos.Parish, auditSvc),
		Rental:       NewRentalService(repos.RentalContract, repos.Asset, repos.Transaction, repos.Fund, notificationSvc, auditSvc, worker),
		Notification: notificationSvc,
		Report:       NewReportService(repos.Transaction, repos.Fund, repos.Parish),
		Export:       NewExportService(repos.Transaction, repos.Payroll),
		Image:        imageSvc,
		Audit:        auditSvc,
		Job:          jobSvc,
	}
}
