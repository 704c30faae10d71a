package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
)

// PayrollFSM wraps a payroll row with its state machine. The lifecycle is
// strictly draft → approved → paid; there is no shortcut from draft to paid
// and no way back from approved to draft.
type PayrollFSM struct {
	payroll *models.Payroll
	fsm     *fsm.FSM
}

// NewPayrollFSM creates a new payroll state machine
func NewPayrollFSM(payroll *models.Payroll) *PayrollFSM {
	pfsm := &PayrollFSM{
		payroll: payroll,
	}

	pfsm.fsm = fsm.NewFSM(
		payroll.Status,
		fsm.Events{
			// draft → approved
			{Name: "approve", Src: []string{models.PayrollStatusDraft}, Dst: models.PayrollStatusApproved},

			// approved → paid
			{Name: "mark_paid", Src: []string{models.PayrollStatusApproved}, Dst: models.PayrollStatusPaid},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Approve transitions the payroll row to approved state
func (p *PayrollFSM) Approve(ctx context.Context) error {
	if !p.payroll.MayApprove() {
		return fmt.Errorf("payroll row cannot be approved in current state: %s", p.payroll.Status)
	}

	if err := p.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve payroll row: %w", err)
	}

	p.payroll.Status = p.fsm.Current()
	return nil
}

// MarkPaid transitions the payroll row to paid state
func (p *PayrollFSM) MarkPaid(ctx context.Context) error {
	if !p.payroll.MayMarkPaid() {
		return fmt.Errorf("payroll row cannot be marked paid in current state: %s", p.payroll.Status)
	}

	if err := p.fsm.Event(ctx, "mark_paid"); err != nil {
		return fmt.Errorf("failed to mark payroll row paid: %w", err)
	}

	p.payroll.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *PayrollFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PayrollFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
