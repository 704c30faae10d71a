package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
)

// RentalContractFSM wraps a rental contract with its state machine
type RentalContractFSM struct {
	contract *models.RentalContract
	fsm      *fsm.FSM
}

// NewRentalContractFSM creates a new rental contract state machine
func NewRentalContractFSM(contract *models.RentalContract) *RentalContractFSM {
	cfsm := &RentalContractFSM{
		contract: contract,
	}

	cfsm.fsm = fsm.NewFSM(
		contract.Status,
		fsm.Events{
			// pending → active
			{Name: "activate", Src: []string{models.RentalStatusPending}, Dst: models.RentalStatusActive},

			// active → expired (end date has passed)
			{Name: "expire", Src: []string{models.RentalStatusActive}, Dst: models.RentalStatusExpired},

			// pending/active → terminated
			{Name: "terminate", Src: []string{models.RentalStatusPending, models.RentalStatusActive}, Dst: models.RentalStatusTerminated},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Activate transitions the contract to active state
func (c *RentalContractFSM) Activate(ctx context.Context) error {
	if !c.contract.MayActivate() {
		return fmt.Errorf("rental contract cannot be activated in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate rental contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Expire transitions the contract to expired state
func (c *RentalContractFSM) Expire(ctx context.Context) error {
	if !c.contract.MayExpire() {
		return fmt.Errorf("rental contract cannot expire in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "expire"); err != nil {
		return fmt.Errorf("failed to expire rental contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Terminate transitions the contract to terminated state
func (c *RentalContractFSM) Terminate(ctx context.Context) error {
	if !c.contract.MayTerminate() {
		return fmt.Errorf("rental contract cannot be terminated in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "terminate"); err != nil {
		return fmt.Errorf("failed to terminate rental contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *RentalContractFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *RentalContractFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
