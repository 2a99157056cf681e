// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	safemath "github.com/ava-labs/avalanchego/utils/math"
)

var _ Bank = (*stateBank)(nil)

// Bank moves native-unit funds between identities. A Transfer either moves
// the full amount or returns an error; the VM then aborts the whole
// transition.
type Bank interface {
	Transfer(from, to ids.ShortID, amount uint64) error
	Balance(account ids.ShortID) (uint64, error)
}

// stateBank keeps balances in the VM state, so its writes are committed or
// aborted together with the lease records.
type stateBank struct {
	balances BalanceState
}

func NewStateBank(balances BalanceState) Bank {
	return &stateBank{balances: balances}
}

func (b *stateBank) Balance(account ids.ShortID) (uint64, error) {
	return b.balances.GetBalance(account)
}

func (b *stateBank) Transfer(from, to ids.ShortID, amount uint64) error {
	if from == to {
		return fmt.Errorf("%w: %s cannot pay itself", ErrTransferFailed, from)
	}
	if amount == 0 {
		return nil
	}

	fromBalance, err := b.balances.GetBalance(from)
	if err != nil {
		return fmt.Errorf("failed to read balance of %s: %w", from, err)
	}
	if fromBalance < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientFunds, from, fromBalance, amount)
	}

	toBalance, err := b.balances.GetBalance(to)
	if err != nil {
		return fmt.Errorf("failed to read balance of %s: %w", to, err)
	}
	newToBalance, err := safemath.Add64(toBalance, amount)
	if err != nil {
		return fmt.Errorf("%w: crediting %s: %s", ErrTransferFailed, to, err)
	}

	if err := b.balances.SetBalance(from, fromBalance-amount); err != nil {
		return fmt.Errorf("failed to debit %s: %w", from, err)
	}
	if err := b.balances.SetBalance(to, newToBalance); err != nil {
		return fmt.Errorf("failed to credit %s: %w", to, err)
	}
	return nil
}

// credit mints [amount] into [account]. Only genesis uses it.
func credit(balances BalanceState, account ids.ShortID, amount uint64) error {
	balance, err := balances.GetBalance(account)
	if err != nil {
		return err
	}
	newBalance, err := safemath.Add64(balance, amount)
	if err != nil {
		return fmt.Errorf("crediting %s: %w", account, err)
	}
	return balances.SetBalance(account, newBalance)
}
