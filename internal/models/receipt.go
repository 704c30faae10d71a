package models

import (
	"time"
)

// Receipt is the printable, auditable document generated when one or more
// transactions are approved. Its amount always equals the sum of the
// transactions it references; cancelling it reverts all of them to pending.
type Receipt struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ReceiptNo       string    `gorm:"uniqueIndex;not null" json:"receipt_no"`
	ReceiptType     string    `gorm:"not null;index" json:"receipt_type"`
	IsCombined      bool      `gorm:"default:false" json:"is_combined"`
	ParishID        uint      `gorm:"not null;index" json:"parish_id"`
	FundID          uint      `gorm:"not null;index" json:"fund_id"`
	Amount          float64   `gorm:"type:decimal(15,0);not null" json:"amount"`
	PayerPayee      string    `gorm:"not null" json:"payer_payee"`
	Note            *string   `gorm:"type:text" json:"note"`
	CreatedByUserID *uint     `gorm:"index" json:"created_by_user_id"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Parish        Parish        `gorm:"foreignKey:ParishID" json:"parish,omitempty"`
	Fund          Fund          `gorm:"foreignKey:FundID" json:"fund,omitempty"`
	CreatedByUser *User         `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
	Transactions  []Transaction `gorm:"foreignKey:ReceiptID" json:"transactions,omitempty"`
}

// TableName specifies the table name for Receipt
func (Receipt) TableName() string {
	return "receipts"
}

// Receipt type constants. Income receipts are phiếu thu, expense receipts
// are phiếu chi; the ReceiptNo prefix follows the same convention.
const (
	ReceiptTypeIncome  = "income"
	ReceiptTypeExpense = "expense"
)

// TransactionsTotal sums the amounts of the referenced transactions
func (r *Receipt) TransactionsTotal() float64 {
	var total float64
	for _, t := range r.Transactions {
		total += t.Amount
	}
	return total
}

// ReceiptResponse is the JSON response format for receipts
type ReceiptResponse struct {
	ID             uint                  `json:"id"`
	ReceiptNo      string                `json:"receipt_no"`
	ReceiptType    string                `json:"receipt_type"`
	IsCombined     bool                  `json:"is_combined"`
	ParishID       uint                  `json:"parish_id"`
	ParishName     string                `json:"parish_name,omitempty"`
	FundID         uint                  `json:"fund_id"`
	FundName       string                `json:"fund_name,omitempty"`
	Amount         float64               `json:"amount"`
	PayerPayee     string                `json:"payer_payee"`
	Note           *string               `json:"note,omitempty"`
	CreatedBy      string                `json:"created_by,omitempty"`
	TransactionIDs []uint                `json:"transaction_ids"`
	Transactions   []TransactionResponse `json:"transactions,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// ToResponse converts Receipt to ReceiptResponse
func (r *Receipt) ToResponse() ReceiptResponse {
	resp := ReceiptResponse{
		ID:          r.ID,
		ReceiptNo:   r.ReceiptNo,
		ReceiptType: r.ReceiptType,
		IsCombined:  r.IsCombined,
		ParishID:    r.ParishID,
		FundID:      r.FundID,
		Amount:      r.Amount,
		PayerPayee:  r.PayerPayee,
		Note:        r.Note,
		CreatedAt:   r.CreatedAt,
	}

	if r.Parish.ID != 0 {
		resp.ParishName = r.Parish.Name
	}
	if r.Fund.ID != 0 {
		resp.FundName = r.Fund.Name
	}
	if r.CreatedByUser != nil && r.CreatedByUser.ID != 0 {
		resp.CreatedBy = r.CreatedByUser.FullName
	}

	for _, t := range r.Transactions {
		resp.TransactionIDs = append(resp.TransactionIDs, t.ID)
		resp.Transactions = append(resp.Transactions, t.ToResponse())
	}

	return resp
}
