package database

import (
	"fmt"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"

	"gorm.io/gorm"
)

// Migrate runs schema migrations for all models. Order matters for
// foreign key references.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Parish{},
		&models.Person{},
		&models.Contact{},
		&models.Fund{},
		&models.BankAccount{},
		&models.Transaction{},
		&models.Receipt{},
		&models.Staff{},
		&models.StaffContract{},
		&models.Payroll{},
		&models.Asset{},
		&models.RentalContract{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
