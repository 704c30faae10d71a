package models

import (
	"time"
)

// Staff represents a diocese employee on the payroll
type Staff struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Code              string    `gorm:"uniqueIndex;not null" json:"code"`
	FullName          string    `gorm:"not null" json:"full_name"`
	Position          *string   `json:"position"`
	ParishID          uint      `gorm:"not null;index" json:"parish_id"`
	Phone             *string   `json:"phone"`
	Email             *string   `json:"email"`
	BankAccountNumber *string   `json:"bank_account_number"`
	BankName          *string   `json:"bank_name"`
	Status            string    `gorm:"default:active;index" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Associations
	Parish    Parish          `gorm:"foreignKey:ParishID" json:"parish,omitempty"`
	Contracts []StaffContract `gorm:"foreignKey:StaffID" json:"contracts,omitempty"`
}

// TableName specifies the table name for Staff
func (Staff) TableName() string {
	return "staff"
}

// HasBankDetails returns true if the staff member can receive online payments
func (s *Staff) HasBankDetails() bool {
	return s.BankAccountNumber != nil && *s.BankAccountNumber != "" &&
		s.BankName != nil && *s.BankName != ""
}

// StaffContract represents an employment contract supplying the base salary
// for payroll rows generated each period
type StaffContract struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StaffID      uint       `gorm:"not null;index;uniqueIndex:idx_one_active_contract,where:status = 'active'" json:"staff_id"`
	ContractType string     `gorm:"not null" json:"contract_type"`
	StartDate    time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date"`
	BasicSalary  float64    `gorm:"type:decimal(15,0);not null" json:"basic_salary"`
	Status       string     `gorm:"default:active;index" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Associations
	Staff Staff `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

// TableName specifies the table name for StaffContract
func (StaffContract) TableName() string {
	return "staff_contracts"
}

// Staff status constants
const (
	StaffStatusActive   = "active"
	StaffStatusInactive = "inactive"
)

// Staff contract status constants
const (
	StaffContractStatusActive     = "active"
	StaffContractStatusExpired    = "expired"
	StaffContractStatusTerminated = "terminated"
)

// Staff contract type constants
const (
	StaffContractTypePermanent = "permanent"
	StaffContractTypeFixedTerm = "fixed_term"
	StaffContractTypeSeasonal  = "seasonal"
)

// IsActive returns true if the contract currently supplies payroll
func (c *StaffContract) IsActive() bool {
	return c.Status == StaffContractStatusActive
}
