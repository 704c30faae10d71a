package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User           UserRepository
	Parish         ParishRepository
	Person         PersonRepository
	Fund           FundRepository
	BankAccount    BankAccountRepository
	Contact        ContactRepository
	Transaction    TransactionRepository
	Receipt        ReceiptRepository
	Staff          StaffRepository
	StaffContract  StaffContractRepository
	Payroll        PayrollRepository
	Asset          AssetRepository
	RentalContract RentalContractRepository
	Notification   NotificationRepository
	RefreshToken   RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Parish:         NewParishRepository(db),
		Person:         NewPersonRepository(db),
		Fund:           NewFundRepository(db),
		BankAccount:    NewBankAccountRepository(db),
		Contact:        NewContactRepository(db),
		Transaction:    NewTransactionRepository(db),
		Receipt:        NewReceiptRepository(db),
		Staff:          NewStaffRepository(db),
		StaffContract:  NewStaffContractRepository(db),
		Payroll:        NewPayrollRepository(db),
		Asset:          NewAssetRepository(db),
		RentalContract: NewRentalContractRepository(db),
		Notification:   NewNotificationRepository(db),
		RefreshToken:   NewRefreshTokenRepository(db),
	}
}
