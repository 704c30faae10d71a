package models

import (
	"regexp"
	"time"
)

// Payroll represents one staff member's salary row for a period (MM/YYYY).
// Rows are created as drafts, edited while draft and approved per period;
// the approval produces a single pending expense covering the batch.
type Payroll struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	StaffID                 uint       `gorm:"not null;index;uniqueIndex:idx_payroll_staff_period" json:"staff_id"`
	Period                  string     `gorm:"not null;index;uniqueIndex:idx_payroll_staff_period" json:"period"`
	ParishID                uint       `gorm:"not null;index" json:"parish_id"`
	BasicSalary             float64    `gorm:"type:decimal(15,0);not null" json:"basic_salary"`
	ResponsibilityAllowance float64    `gorm:"type:decimal(15,0);default:0" json:"responsibility_allowance"`
	MealAllowance           float64    `gorm:"type:decimal(15,0);default:0" json:"meal_allowance"`
	TransportAllowance      float64    `gorm:"type:decimal(15,0);default:0" json:"transport_allowance"`
	Advance                 float64    `gorm:"type:decimal(15,0);default:0" json:"advance"`
	Deductions              float64    `gorm:"type:decimal(15,0);default:0" json:"deductions"`
	NetSalary               float64    `gorm:"type:decimal(15,0);not null" json:"net_salary"`
	Status                  string     `gorm:"default:draft;not null;index" json:"status"`
	ApprovedAt              *time.Time `json:"approved_at"`
	PaidAt                  *time.Time `json:"paid_at"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`

	// Associations
	Staff  Staff  `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Parish Parish `gorm:"foreignKey:ParishID" json:"parish,omitempty"`
}

// TableName specifies the table name for Payroll
func (Payroll) TableName() string {
	return "payrolls"
}

// Payroll status constants
const (
	PayrollStatusDraft    = "draft"
	PayrollStatusApproved = "approved"
	PayrollStatusPaid     = "paid"
)

var payrollPeriodRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{4}$`)

// ValidPayrollPeriod reports whether p has the MM/YYYY form
func ValidPayrollPeriod(p string) bool {
	return payrollPeriodRe.MatchString(p)
}

// Recalculate recomputes the net salary from its components. Called on every
// edit so the stored net never drifts from the formula. The result may be
// negative; the source system imposes no floor.
func (p *Payroll) Recalculate() {
	p.NetSalary = p.BasicSalary + p.ResponsibilityAllowance + p.MealAllowance +
		p.TransportAllowance - p.Advance - p.Deductions
}

// MayEdit returns true while the row's salary fields can still change
func (p *Payroll) MayEdit() bool {
	return p.Status == PayrollStatusDraft
}

// MayApprove returns true if the row can transition to approved
func (p *Payroll) MayApprove() bool {
	return p.Status == PayrollStatusDraft
}

// MayMarkPaid returns true if the row can transition to paid
func (p *Payroll) MayMarkPaid() bool {
	return p.Status == PayrollStatusApproved
}

// PayrollResponse is the JSON response format for payroll rows
type PayrollResponse struct {
	ID                      uint       `json:"id"`
	StaffID                 uint       `json:"staff_id"`
	StaffCode               string     `json:"staff_code,omitempty"`
	StaffName               string     `json:"staff_name,omitempty"`
	Position                *string    `json:"position,omitempty"`
	Period                  string     `json:"period"`
	ParishID                uint       `json:"parish_id"`
	BasicSalary             float64    `json:"basic_salary"`
	ResponsibilityAllowance float64    `json:"responsibility_allowance"`
	MealAllowance           float64    `json:"meal_allowance"`
	TransportAllowance      float64    `json:"transport_allowance"`
	Advance                 float64    `json:"advance"`
	Deductions              float64    `json:"deductions"`
	NetSalary               float64    `json:"net_salary"`
	Status                  string     `json:"status"`
	ApprovedAt              *time.Time `json:"approved_at"`
	PaidAt                  *time.Time `json:"paid_at"`
	CreatedAt               time.Time  `json:"created_at"`
}

// ToResponse converts Payroll to PayrollResponse
func (p *Payroll) ToResponse() PayrollResponse {
	resp := PayrollResponse{
		ID:                      p.ID,
		StaffID:                 p.StaffID,
		Period:                  p.Period,
		ParishID:                p.ParishID,
		BasicSalary:             p.BasicSalary,
		ResponsibilityAllowance: p.ResponsibilityAllowance,
		MealAllowance:           p.MealAllowance,
		TransportAllowance:      p.TransportAllowance,
		Advance:                 p.Advance,
		Deductions:              p.Deductions,
		NetSalary:               p.NetSalary,
		Status:                  p.Status,
		ApprovedAt:              p.ApprovedAt,
		PaidAt:                  p.PaidAt,
		CreatedAt:               p.CreatedAt,
	}

	if p.Staff.ID != 0 {
		resp.StaffCode = p.Staff.Code
		resp.StaffName = p.Staff.FullName
		resp.Position = p.Staff.Position
	}

	return resp
}
