package models

import (
	"time"
)

// RentalContract represents a lease of a diocese asset to a tenant. Each
// active period of the contract may be converted into an income transaction.
type RentalContract struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Code              string     `gorm:"uniqueIndex;not null" json:"code"`
	ParishID          uint       `gorm:"not null;index" json:"parish_id"`
	AssetID           *uint      `gorm:"index" json:"asset_id"`
	TenantName        string     `gorm:"not null" json:"tenant_name"`
	TenantPhone       *string    `json:"tenant_phone"`
	TenantBankAccount *string    `json:"tenant_bank_account"`
	TenantBankName    *string    `json:"tenant_bank_name"`
	StartDate         time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate           time.Time  `gorm:"type:date;not null;index" json:"end_date"`
	RentAmount        float64    `gorm:"type:decimal(15,0);not null" json:"rent_amount"`
	PaymentCycle      string     `gorm:"default:monthly" json:"payment_cycle"`
	Deposit           *float64   `gorm:"type:decimal(15,0)" json:"deposit"`
	PaymentMethod     string     `gorm:"default:cash" json:"payment_method"`
	BankAccountID     *uint      `gorm:"index" json:"bank_account_id"`
	Status            string     `gorm:"default:pending;index" json:"status"`
	TerminationNote   *string    `gorm:"type:text" json:"termination_note"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	ActivatedAt       *time.Time `json:"activated_at"`

	// Associations
	Parish      Parish       `gorm:"foreignKey:ParishID" json:"parish,omitempty"`
	Asset       *Asset       `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	BankAccount *BankAccount `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
}

// TableName specifies the table name for RentalContract
func (RentalContract) TableName() string {
	return "rental_contracts"
}

// Rental contract status constants
const (
	RentalStatusPending    = "pending"
	RentalStatusActive     = "active"
	RentalStatusExpired    = "expired"
	RentalStatusTerminated = "terminated"
)

// Payment cycle constants
const (
	PaymentCycleMonthly   = "monthly"
	PaymentCycleQuarterly = "quarterly"
	PaymentCycleYearly    = "yearly"
)

// MayActivate returns true if the contract can transition to active
func (r *RentalContract) MayActivate() bool {
	return r.Status == RentalStatusPending
}

// MayTerminate returns true if the contract can be terminated early
func (r *RentalContract) MayTerminate() bool {
	return r.Status == RentalStatusPending || r.Status == RentalStatusActive
}

// MayExpire returns true if the contract can transition to expired
func (r *RentalContract) MayExpire() bool {
	return r.Status == RentalStatusActive
}

// MayConvert returns true if a period of this contract can be converted
// into an income transaction
func (r *RentalContract) MayConvert() bool {
	return r.Status == RentalStatusActive
}

// IsPastEndDate returns true if the contract's term has elapsed
func (r *RentalContract) IsPastEndDate(now time.Time) bool {
	return now.After(r.EndDate)
}

// TenantHasBankDetails returns true if the tenant can settle rent online
func (r *RentalContract) TenantHasBankDetails() bool {
	return r.TenantBankAccount != nil && *r.TenantBankAccount != "" &&
		r.TenantBankName != nil && *r.TenantBankName != ""
}

// RentalContractResponse is the JSON response format for rental contracts
type RentalContractResponse struct {
	ID              uint       `json:"id"`
	Code            string     `json:"code"`
	ParishID        uint       `json:"parish_id"`
	ParishName      string     `json:"parish_name,omitempty"`
	AssetID         *uint      `json:"asset_id"`
	AssetCode       string     `json:"asset_code,omitempty"`
	AssetName       string     `json:"asset_name,omitempty"`
	TenantName      string     `json:"tenant_name"`
	TenantPhone     *string    `json:"tenant_phone"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	RentAmount      float64    `json:"rent_amount"`
	PaymentCycle    string     `json:"payment_cycle"`
	Deposit         *float64   `json:"deposit"`
	PaymentMethod   string     `json:"payment_method"`
	BankAccountID   *uint      `json:"bank_account_id"`
	Status          string     `json:"status"`
	TerminationNote *string    `json:"termination_note,omitempty"`
	ActivatedAt     *time.Time `json:"activated_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts RentalContract to RentalContractResponse
func (r *RentalContract) ToResponse() RentalContractResponse {
	resp := RentalContractResponse{
		ID:              r.ID,
		Code:            r.Code,
		ParishID:        r.ParishID,
		AssetID:         r.AssetID,
		TenantName:      r.TenantName,
		TenantPhone:     r.TenantPhone,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		RentAmount:      r.RentAmount,
		PaymentCycle:    r.PaymentCycle,
		Deposit:         r.Deposit,
		PaymentMethod:   r.PaymentMethod,
		BankAccountID:   r.BankAccountID,
		Status:          r.Status,
		TerminationNote: r.TerminationNote,
		ActivatedAt:     r.ActivatedAt,
		CreatedAt:       r.CreatedAt,
	}

	if r.Parish.ID != 0 {
		resp.ParishName = r.Parish.Name
	}
	if r.Asset != nil && r.Asset.ID != 0 {
		resp.AssetCode = r.Asset.Code
		resp.AssetName = r.Asset.Name
	}

	return resp
}
