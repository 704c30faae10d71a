package models

import (
	"time"
)

// Fund is a named bucket that income and expenses are attributed to for reporting
type Fund struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Status      string    `gorm:"default:active;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Fund
func (Fund) TableName() string {
	return "funds"
}

// FundBalance is the computed balance view of a fund. The balance is never
// stored; it is derived from approved transactions at query time.
type FundBalance struct {
	FundID       uint    `json:"fund_id"`
	FundCode     string  `json:"fund_code"`
	FundName     string  `json:"fund_name"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
}

// BankAccount represents a diocese or parish bank account used for online payments
type BankAccount struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AccountNumber string    `gorm:"uniqueIndex;not null" json:"account_number"`
	AccountName   string    `gorm:"not null" json:"account_name"`
	BankName      string    `gorm:"not null" json:"bank_name"`
	Branch        *string   `json:"branch"`
	ParishID      *uint     `gorm:"index" json:"parish_id"`
	Status        string    `gorm:"default:active;index" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Parish *Parish `gorm:"foreignKey:ParishID" json:"parish,omitempty"`
}

// TableName specifies the table name for BankAccount
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// Contact is a payer/payee counterparty on income and expense transactions
type Contact struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	Phone             *string   `json:"phone"`
	Email             *string   `json:"email"`
	Address           *string   `json:"address"`
	BankAccountNumber *string   `json:"bank_account_number"`
	BankName          *string   `json:"bank_name"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}

// HasBankDetails returns true if the contact can be settled via online payment
func (c *Contact) HasBankDetails() bool {
	return c.BankAccountNumber != nil && *c.BankAccountNumber != "" &&
		c.BankName != nil && *c.BankName != ""
}
