// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// GetLease returns the lease record of [slotID], or a record in PhaseNone if
// there is none.
func (vm *VM) GetLease(slotID uint64) (Lease, error) {
	var lease Lease
	err := vm.view(func(int64) error {
		l, err := vm.getLease(slotID)
		if err != nil || l == nil {
			return err
		}
		lease = *l
		return nil
	})
	return lease, err
}

// GetCommitment returns the commitment on [slotID], or an empty commitment if
// there is none. Expired commitments are still returned until replaced.
func (vm *VM) GetCommitment(slotID uint64) (Commitment, error) {
	var commitment Commitment
	err := vm.view(func(int64) error {
		c, err := vm.getCommitment(slotID)
		if err != nil || c == nil {
			return err
		}
		commitment = *c
		return nil
	})
	return commitment, err
}

// IsPaymentCurrent reports whether [slotID] has an ACTIVE lease that has paid
// every period due so far.
func (vm *VM) IsPaymentCurrent(slotID uint64) (bool, error) {
	var current bool
	err := vm.view(func(now int64) error {
		lease, err := vm.getLease(slotID)
		if err != nil {
			return err
		}
		current = lease != nil && lease.Phase == PhaseActive && paymentCurrent(lease, now)
		return nil
	})
	return current, err
}

// IsCommitmentValid reports whether [slotID] has a commitment that can still
// be revealed.
func (vm *VM) IsCommitmentValid(slotID uint64) (bool, error) {
	var valid bool
	err := vm.view(func(now int64) error {
		commitment, err := vm.getCommitment(slotID)
		if err != nil {
			return err
		}
		valid = commitment != nil && !commitment.Expired(now)
		return nil
	})
	return valid, err
}

// Balance returns the native-unit balance of [account].
func (vm *VM) Balance(account ids.ShortID) (uint64, error) {
	var balance uint64
	err := vm.view(func(int64) error {
		b, err := vm.bank.Balance(account)
		if err != nil {
			return fmt.Errorf("failed to get balance of %s: %w", account, err)
		}
		balance = b
		return nil
	})
	return balance, err
}
