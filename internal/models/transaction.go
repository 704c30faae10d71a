package models

import (
	"encoding/json"
	"time"
)

// Transaction represents a bookkeeping income or expense record. Incomes and
// expenses share one table distinguished by Type; they share the same
// pending/approved/rejected lifecycle and the same receipting rules.
type Transaction struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Code             string     `gorm:"uniqueIndex;not null" json:"code"`
	Type             string     `gorm:"not null;index" json:"type"`
	Amount           float64    `gorm:"type:decimal(15,0);not null" json:"amount"`
	TransactionDate  time.Time  `gorm:"type:date;not null;index" json:"transaction_date"`
	PayerPayee       string     `gorm:"not null" json:"payer_payee"`
	ContactID        *uint      `gorm:"index" json:"contact_id"`
	PaymentMethod    string     `gorm:"default:cash" json:"payment_method"`
	FundID           uint       `gorm:"not null;index" json:"fund_id"`
	ParishID         uint       `gorm:"not null;index" json:"parish_id"`
	BankAccountID    *uint      `gorm:"index" json:"bank_account_id"`
	Status           string     `gorm:"default:pending;not null;index" json:"status"`
	VoucherImages    *string    `gorm:"type:text" json:"-"` // JSON array of stored image paths
	Source           string     `gorm:"default:manual;index" json:"source"`
	RentalContractID *uint      `gorm:"index" json:"rental_contract_id"`
	PayrollPeriod    *string    `gorm:"index" json:"payroll_period"`
	PaymentPeriod    *string    `json:"payment_period"`
	Notes            *string    `gorm:"type:text" json:"notes"`
	ApprovalNote     *string    `gorm:"type:text" json:"approval_note"`
	RejectionNote    *string    `gorm:"type:text" json:"rejection_note"`
	ApprovedAt       *time.Time `gorm:"index" json:"approved_at"`
	ApprovedByUserID *uint      `gorm:"index" json:"approved_by_user_id"`
	ReceiptID        *uint      `gorm:"index" json:"receipt_id"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Associations
	Contact        *Contact        `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	Fund           Fund            `gorm:"foreignKey:FundID" json:"fund,omitempty"`
	Parish         Parish          `gorm:"foreignKey:ParishID" json:"parish,omitempty"`
	BankAccount    *BankAccount    `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
	RentalContract *RentalContract `gorm:"foreignKey:RentalContractID" json:"rental_contract,omitempty"`
	ApprovedByUser User            `gorm:"foreignKey:ApprovedByUserID" json:"approved_by_user,omitempty"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// Transaction type constants
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction status constants
const (
	TransactionStatusPending  = "pending"
	TransactionStatusApproved = "approved"
	TransactionStatusRejected = "rejected"
)

// Transaction source constants
const (
	TransactionSourceManual         = "manual"
	TransactionSourceRentalContract = "rental_contract"
	TransactionSourcePayroll        = "payroll"
)

// Payment method constants
const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// MayApprove returns true if the transaction can be approved
func (t *Transaction) MayApprove() bool {
	return t.Status == TransactionStatusPending
}

// MayReject returns true if the transaction can be rejected
func (t *Transaction) MayReject() bool {
	return t.Status == TransactionStatusPending
}

// MayRevert returns true if the transaction can go back to pending.
// Reverting happens only when the receipt covering it is cancelled.
func (t *Transaction) MayRevert() bool {
	return t.Status == TransactionStatusApproved
}

// MayEdit returns true if the transaction fields can still be changed
func (t *Transaction) MayEdit() bool {
	return t.Status == TransactionStatusPending
}

// IsOnline returns true if the transaction settles through a bank transfer
func (t *Transaction) IsOnline() bool {
	return t.PaymentMethod == PaymentMethodOnline
}

// CounterpartyHasBankDetails reports whether an online transaction has a
// resolvable bank account for its counterparty. Cash transactions always pass.
func (t *Transaction) CounterpartyHasBankDetails() bool {
	if !t.IsOnline() {
		return true
	}
	if t.Contact != nil && t.Contact.HasBankDetails() {
		return true
	}
	return t.BankAccountID != nil
}

// CounterpartyName returns the display name of the payer or payee, preferring
// the linked contact over the free-text field.
func (t *Transaction) CounterpartyName() string {
	if t.Contact != nil && t.Contact.ID != 0 {
		return t.Contact.Name
	}
	return t.PayerPayee
}

// ImagePaths decodes the stored voucher image paths
func (t *Transaction) ImagePaths() []string {
	if t.VoucherImages == nil || *t.VoucherImages == "" {
		return nil
	}
	var paths []string
	if err := json.Unmarshal([]byte(*t.VoucherImages), &paths); err != nil {
		return nil
	}
	return paths
}

// AddImagePath appends a stored voucher image path
func (t *Transaction) AddImagePath(path string) {
	paths := append(t.ImagePaths(), path)
	raw, err := json.Marshal(paths)
	if err != nil {
		return
	}
	s := string(raw)
	t.VoucherImages = &s
}

// TransactionResponse is the JSON response format for transactions
type TransactionResponse struct {
	ID               uint       `json:"id"`
	Code             string     `json:"code"`
	Type             string     `json:"type"`
	Amount           float64    `json:"amount"`
	TransactionDate  time.Time  `json:"transaction_date"`
	PayerPayee       string     `json:"payer_payee"`
	ContactID        *uint      `json:"contact_id"`
	ContactName      string     `json:"contact_name,omitempty"`
	PaymentMethod    string     `json:"payment_method"`
	FundID           uint       `json:"fund_id"`
	FundName         string     `json:"fund_name,omitempty"`
	ParishID         uint       `json:"parish_id"`
	ParishName       string     `json:"parish_name,omitempty"`
	BankAccountID    *uint      `json:"bank_account_id"`
	Status           string     `json:"status"`
	Source           string     `json:"source"`
	RentalContractID *uint      `json:"rental_contract_id,omitempty"`
	PayrollPeriod    *string    `json:"payroll_period,omitempty"`
	PaymentPeriod    *string    `json:"payment_period,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	ApprovalNote     *string    `json:"approval_note,omitempty"`
	RejectionNote    *string    `json:"rejection_note,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at"`
	Approver         string     `json:"approver,omitempty"`
	ReceiptID        *uint      `json:"receipt_id"`
	HasVoucher       bool       `json:"has_voucher"`
	VoucherImages    []string   `json:"voucher_images,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ToResponse converts Transaction to TransactionResponse
func (t *Transaction) ToResponse() TransactionResponse {
	resp := TransactionResponse{
		ID:               t.ID,
		Code:             t.Code,
		Type:             t.Type,
		Amount:           t.Amount,
		TransactionDate:  t.TransactionDate,
		PayerPayee:       t.PayerPayee,
		ContactID:        t.ContactID,
		PaymentMethod:    t.PaymentMethod,
		FundID:           t.FundID,
		ParishID:         t.ParishID,
		BankAccountID:    t.BankAccountID,
		Status:           t.Status,
		Source:           t.Source,
		RentalContractID: t.RentalContractID,
		PayrollPeriod:    t.PayrollPeriod,
		PaymentPeriod:    t.PaymentPeriod,
		Notes:            t.Notes,
		ApprovalNote:     t.ApprovalNote,
		RejectionNote:    t.RejectionNote,
		ApprovedAt:       t.ApprovedAt,
		ReceiptID:        t.ReceiptID,
		CreatedAt:        t.CreatedAt,
	}

	if t.Contact != nil && t.Contact.ID != 0 {
		resp.ContactName = t.Contact.Name
	}
	if t.Fund.ID != 0 {
		resp.FundName = t.Fund.Name
	}
	if t.Parish.ID != 0 {
		resp.ParishName = t.Parish.Name
	}
	if t.ApprovedByUser.ID != 0 {
		resp.Approver = t.ApprovedByUser.FullName
	}

	images := t.ImagePaths()
	resp.HasVoucher = len(images) > 0
	resp.VoucherImages = images

	return resp
}
