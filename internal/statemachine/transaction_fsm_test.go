package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
)

func TestTransactionFSM_ApproveFromPending(t *testing.T) {
	txn := &models.Transaction{Status: models.TransactionStatusPending}
	m := NewTransactionFSM(txn)

	err := m.Approve(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusApproved, txn.Status)
}

func TestTransactionFSM_RejectFromPending(t *testing.T) {
	txn := &models.Transaction{Status: models.TransactionStatusPending}
	m := NewTransactionFSM(txn)

	err := m.Reject(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRejected, txn.Status)
}

func TestTransactionFSM_ApproveRejectedFails(t *testing.T) {
	txn := &models.Transaction{Status: models.TransactionStatusRejected}
	m := NewTransactionFSM(txn)

	err := m.Approve(context.Background())

	assert.Error(t, err)
	assert.Equal(t, models.TransactionStatusRejected, txn.Status)
}

func TestTransactionFSM_RevertApprovedToPending(t *testing.T) {
	txn := &models.Transaction{Status: models.TransactionStatusApproved}
	m := NewTransactionFSM(txn)

	err := m.Revert(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
}

func TestTransactionFSM_RevertPendingFails(t *testing.T) {
	txn := &models.Transaction{Status: models.TransactionStatusPending}
	m := NewTransactionFSM(txn)

	err := m.Revert(context.Background())

	assert.Error(t, err)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
}

func TestPayrollFSM_Lifecycle(t *testing.T) {
	row := &models.Payroll{Status: models.PayrollStatusDraft}
	m := NewPayrollFSM(row)

	// cannot skip straight to paid
	assert.Error(t, m.MarkPaid(context.Background()))
	assert.Equal(t, models.PayrollStatusDraft, row.Status)

	assert.NoError(t, m.Approve(context.Background()))
	assert.Equal(t, models.PayrollStatusApproved, row.Status)

	m = NewPayrollFSM(row)
	assert.NoError(t, m.MarkPaid(context.Background()))
	assert.Equal(t, models.PayrollStatusPaid, row.Status)

	// paid is terminal
	m = NewPayrollFSM(row)
	assert.Error(t, m.Approve(context.Background()))
}

func TestRentalContractFSM_Transitions(t *testing.T) {
	contract := &models.RentalContract{Status: models.RentalStatusPending}
	m := NewRentalContractFSM(contract)

	assert.NoError(t, m.Activate(context.Background()))
	assert.Equal(t, models.RentalStatusActive, contract.Status)

	m = NewRentalContractFSM(contract)
	assert.NoError(t, m.Expire(context.Background()))
	assert.Equal(t, models.RentalStatusExpired, contract.Status)

	// expired contracts cannot be terminated
	m = NewRentalContractFSM(contract)
	assert.Error(t, m.Terminate(context.Background()))
}

func TestRentalContractFSM_TerminatePending(t *testing.T) {
	contract := &models.RentalContract{Status: models.RentalStatusPending}
	m := NewRentalContractFSM(contract)

	err := m.Terminate(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, models.RentalStatusTerminated, contract.Status)
}
