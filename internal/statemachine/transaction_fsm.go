package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
)

// TransactionFSM wraps an income/expense transaction with its state machine.
// pending is the only state with outgoing operator transitions; revert exists
// solely so receipt cancellation can bring approved rows back to pending.
// There is no transition out of rejected.
type TransactionFSM struct {
	txn *models.Transaction
	fsm *fsm.FSM
}

// NewTransactionFSM creates a new transaction state machine
func NewTransactionFSM(txn *models.Transaction) *TransactionFSM {
	tfsm := &TransactionFSM{
		txn: txn,
	}

	tfsm.fsm = fsm.NewFSM(
		txn.Status,
		fsm.Events{
			// pending → approved
			{Name: "approve", Src: []string{models.TransactionStatusPending}, Dst: models.TransactionStatusApproved},

			// pending → rejected
			{Name: "reject", Src: []string{models.TransactionStatusPending}, Dst: models.TransactionStatusRejected},

			// approved → pending (receipt cancellation only)
			{Name: "revert", Src: []string{models.TransactionStatusApproved}, Dst: models.TransactionStatusPending},
		},
		fsm.Callbacks{},
	)

	return tfsm
}

// Approve transitions the transaction to approved state
func (t *TransactionFSM) Approve(ctx context.Context) error {
	if !t.txn.MayApprove() {
		return fmt.Errorf("transaction cannot be approved in current state: %s", t.txn.Status)
	}

	if err := t.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve transaction: %w", err)
	}

	t.txn.Status = t.fsm.Current()
	return nil
}

// Reject transitions the transaction to rejected state
func (t *TransactionFSM) Reject(ctx context.Context) error {
	if !t.txn.MayReject() {
		return fmt.Errorf("transaction cannot be rejected in current state: %s", t.txn.Status)
	}

	if err := t.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject transaction: %w", err)
	}

	t.txn.Status = t.fsm.Current()
	return nil
}

// Revert transitions the transaction from approved back to pending
func (t *TransactionFSM) Revert(ctx context.Context) error {
	if !t.txn.MayRevert() {
		return fmt.Errorf("transaction cannot be reverted in current state: %s", t.txn.Status)
	}

	if err := t.fsm.Event(ctx, "revert"); err != nil {
		return fmt.Errorf("failed to revert transaction: %w", err)
	}

	t.txn.Status = t.fsm.Current()
	return nil
}

// Current returns the current state
func (t *TransactionFSM) Current() string {
	return t.fsm.Current()
}

// Can checks if a transition is possible
func (t *TransactionFSM) Can(event string) bool {
	return t.fsm.Can(event)
}
