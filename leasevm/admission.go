// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// PlaceCommitment records [digest] as [caller]'s claim on [slotID]. An
// existing commitment is silently replaced once its reveal deadline is
// reached.
func (vm *VM) PlaceCommitment(caller ids.ShortID, slotID uint64, digest ids.ID) error {
	return vm.execute("placeCommitment", func(now int64) (*Event, error) {
		if caller == vm.escrow {
			return nil, fmt.Errorf("%w: escrow cannot hold a lease", ErrUnauthorized)
		}
		if _, err := vm.getAsset(slotID); err != nil {
			return nil, err
		}

		lease, err := vm.getLease(slotID)
		if err != nil {
			return nil, err
		}
		if lease != nil && lease.Phase.Live() {
			return nil, fmt.Errorf("%w: slot %d is %s", ErrSlotEncumbered, slotID, lease.Phase)
		}

		existing, err := vm.getCommitment(slotID)
		if err != nil {
			return nil, err
		}
		if existing != nil && !existing.Replaceable(now) {
			return nil, fmt.Errorf("%w: slot %d until %d", ErrCommitmentStillLive, slotID, existing.RevealDeadline)
		}

		commitment := &Commitment{
			Digest:         digest,
			Committer:      caller,
			RevealDeadline: now + revealWindowSecs,
		}
		if err := vm.state.PutCommitment(slotID, commitment); err != nil {
			return nil, fmt.Errorf("failed to put commitment %d: %w", slotID, err)
		}

		return &Event{
			Kind:      CommitmentPlaced,
			SlotID:    slotID,
			Caller:    caller,
			Timestamp: now,
			Digest:    digest,
			Deadline:  commitment.RevealDeadline,
		}, nil
	})
}

// RevealTerms are the pre-image and terms disclosed by a reveal.
type RevealTerms struct {
	Secret       ids.ID
	TermLength   uint64
	PeriodAmount uint64
	// Payment is the amount attached to the call. It must equal the
	// deposit exactly.
	Payment uint64
}

// Reveal proves [caller] authored the commitment on [slotID] and turns it
// into a PENDING lease, escrowing the deposit.
func (vm *VM) Reveal(caller ids.ShortID, slotID uint64, args RevealTerms) error {
	return vm.execute("reveal", func(now int64) (*Event, error) {
		if caller == vm.escrow {
			return nil, fmt.Errorf("%w: escrow cannot hold a lease", ErrUnauthorized)
		}
		if args.TermLength == 0 || args.PeriodAmount == 0 {
			return nil, fmt.Errorf("%w: term length and period amount must be positive", ErrInvalidTerms)
		}
		deposit, err := DepositFor(args.PeriodAmount)
		if err != nil {
			return nil, err
		}

		commitment, err := vm.getCommitment(slotID)
		if err != nil {
			return nil, err
		}
		if commitment == nil {
			return nil, fmt.Errorf("%w: slot %d", ErrNoCommitment, slotID)
		}
		if commitment.Expired(now) {
			return nil, fmt.Errorf("%w: slot %d at %d", ErrCommitmentExpired, slotID, commitment.RevealDeadline)
		}
		if caller != commitment.Committer {
			return nil, fmt.Errorf("%w: caller did not place the commitment on slot %d", ErrInvalidSecret, slotID)
		}
		if ComputeDigest(slotID, args.Secret, caller) != commitment.Digest {
			return nil, fmt.Errorf("%w: digest mismatch on slot %d", ErrInvalidSecret, slotID)
		}

		existing, err := vm.getLease(slotID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Phase.Live() {
			return nil, fmt.Errorf("%w: slot %d", ErrAlreadyLeased, slotID)
		}
		if args.Payment != deposit {
			return nil, fmt.Errorf("%w: paid %d, deposit is %d", ErrIncorrectDeposit, args.Payment, deposit)
		}

		if err := vm.state.DeleteCommitment(slotID); err != nil {
			return nil, fmt.Errorf("failed to delete commitment %d: %w", slotID, err)
		}
		lease := &Lease{
			Holder:            caller,
			Phase:             PhasePending,
			TermLength:        args.TermLength,
			PeriodAmount:      args.PeriodAmount,
			Deposit:           deposit,
			AdmissionDeadline: now + confirmWindowSecs,
		}
		if err := vm.putLease(slotID, lease); err != nil {
			return nil, err
		}
		if err := vm.transfer(caller, vm.escrow, args.Payment); err != nil {
			return nil, err
		}

		return &Event{
			Kind:         LeaseProposed,
			SlotID:       slotID,
			Caller:       caller,
			Holder:       caller,
			Timestamp:    now,
			Amount:       deposit,
			Deadline:     lease.AdmissionDeadline,
			TermLength:   lease.TermLength,
			PeriodAmount: lease.PeriodAmount,
		}, nil
	})
}
