package handlers

import (
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Parish       *ParishHandler
	Person       *PersonHandler
	Fund         *FundHandler
	BankAccount  *BankAccountHandler
	Contact      *ContactHandler
	Transaction  *TransactionHandler
	Receipt      *ReceiptHandler
	Staff        *StaffHandler
	Payroll      *PayrollHandler
	Asset        *AssetHandler
	Rental       *RentalHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Parish:       NewParishHandler(svcs.Parish),
		Person:       NewPersonHandler(svcs.Person),
		Fund:         NewFundHandler(svcs.Fund),
		BankAccount:  NewBankAccountHandler(svcs.BankAccount),
		Contact:      NewContactHandler(svcs.Contact),
		Transaction:  NewTransactionHandler(svcs.Transaction, svcs.Image),
		Receipt:      NewReceiptHandler(svcs.Receipt),
		Staff:        NewStaffHandler(svcs.Staff),
		Payroll:      NewPayrollHandler(svcs.Payroll, svcs.Export),
		Asset:        NewAssetHandler(svcs.Asset),
		Rental:       NewRentalHandler(svcs.Rental),
		Notification: NewNotificationHandler(svcs.Notification),
		Report:       NewReportHandler(svcs.Report, svcs.Export),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}
