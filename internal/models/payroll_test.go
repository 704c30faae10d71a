package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPayrollPeriod(t *testing.T) {
	valid := []string{"01/2025", "08/2025", "12/1999"}
	for _, p := range valid {
		assert.True(t, ValidPayrollPeriod(p), p)
	}

	invalid := []string{"", "13/2025", "00/2025", "8/2025", "2025-08", "08-2025", "08/25", "08/2025 "}
	for _, p := range invalid {
		assert.False(t, ValidPayrollPeriod(p), p)
	}
}

func TestPayrollRecalculate(t *testing.T) {
	row := Payroll{
		BasicSalary:             8000000,
		ResponsibilityAllowance: 500000,
		MealAllowance:           600000,
		TransportAllowance:      300000,
		Advance:                 1000000,
		Deductions:              400000,
	}
	row.Recalculate()
	assert.Equal(t, 8000000.0, row.NetSalary)

	// The net may go negative; no floor is applied
	row = Payroll{BasicSalary: 1000000, Advance: 2000000}
	row.Recalculate()
	assert.Equal(t, -1000000.0, row.NetSalary)
}

func TestPayrollLifecycleGuards(t *testing.T) {
	draft := Payroll{Status: PayrollStatusDraft}
	assert.True(t, draft.MayEdit())
	assert.True(t, draft.MayApprove())
	assert.False(t, draft.MayMarkPaid())

	approved := Payroll{Status: PayrollStatusApproved}
	assert.False(t, approved.MayEdit())
	assert.False(t, approved.MayApprove())
	assert.True(t, approved.MayMarkPaid())

	paid := Payroll{Status: PayrollStatusPaid}
	assert.False(t, paid.MayEdit())
	assert.False(t, paid.MayMarkPaid())
}
