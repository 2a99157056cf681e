// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// Confirm activates the PENDING lease on [slotID]. The admission deadline is
// inclusive.
func (vm *VM) Confirm(caller ids.ShortID, slotID uint64) error {
	return vm.execute("confirm", func(now int64) (*Event, error) {
		if caller != vm.administrator {
			return nil, fmt.Errorf("%w: only the administrator confirms leases", ErrUnauthorized)
		}
		lease, err := vm.pendingLease(slotID)
		if err != nil {
			return nil, err
		}
		if now > lease.AdmissionDeadline {
			return nil, fmt.Errorf("%w: slot %d at %d", ErrAdmissionDeadlinePassed, slotID, lease.AdmissionDeadline)
		}

		lease.Phase = PhaseActive
		lease.ActivationTime = now
		lease.LastPaymentTime = now
		if err := vm.putLease(slotID, lease); err != nil {
			return nil, err
		}

		return &Event{
			Kind:         LeaseConfirmed,
			SlotID:       slotID,
			Caller:       caller,
			Holder:       lease.Holder,
			Timestamp:    now,
			Amount:       lease.Deposit,
			TermLength:   lease.TermLength,
			PeriodAmount: lease.PeriodAmount,
		}, nil
	})
}

// Reclaim refunds the full deposit of a PENDING lease the administrator left
// unconfirmed past its admission deadline, and frees the slot.
func (vm *VM) Reclaim(caller ids.ShortID, slotID uint64) error {
	return vm.execute("reclaim", func(now int64) (*Event, error) {
		lease, err := vm.pendingLease(slotID)
		if err != nil {
			return nil, err
		}
		if caller != lease.Holder {
			return nil, fmt.Errorf("%w: slot %d", ErrNotHolder, slotID)
		}
		if now <= lease.AdmissionDeadline {
			return nil, fmt.Errorf("%w: slot %d until %d", ErrDeadlineNotYetPassed, slotID, lease.AdmissionDeadline)
		}

		if err := vm.state.DeleteLease(slotID); err != nil {
			return nil, fmt.Errorf("failed to delete lease %d: %w", slotID, err)
		}
		if err := vm.transfer(vm.escrow, lease.Holder, lease.Deposit); err != nil {
			return nil, err
		}

		return &Event{
			Kind:      DepositReclaimed,
			SlotID:    slotID,
			Caller:    caller,
			Holder:    lease.Holder,
			Timestamp: now,
			Amount:    lease.Deposit,
		}, nil
	})
}

// PayPeriod accepts one period payment of [payment] from the holder and
// forwards it to the administrator. Payments cannot run ahead of the
// schedule, but are not capped at the term length.
func (vm *VM) PayPeriod(caller ids.ShortID, slotID uint64, payment uint64) error {
	return vm.execute("payPeriod", func(now int64) (*Event, error) {
		lease, err := vm.activeLease(slotID)
		if err != nil {
			return nil, err
		}
		if caller != lease.Holder {
			return nil, fmt.Errorf("%w: slot %d", ErrNotHolder, slotID)
		}
		if payment != lease.PeriodAmount {
			return nil, fmt.Errorf("%w: paid %d, period amount is %d", ErrWrongAmount, payment, lease.PeriodAmount)
		}
		if !paymentDue(lease, now) {
			return nil, fmt.Errorf("%w: slot %d has paid %d of %d elapsed periods",
				ErrPaymentNotYetDue, slotID, lease.PeriodsPaid, PeriodsExpected(lease.ActivationTime, now))
		}

		lease.PeriodsPaid++
		lease.LastPaymentTime = now
		if err := vm.putLease(slotID, lease); err != nil {
			return nil, err
		}
		if err := vm.transfer(caller, vm.escrow, payment); err != nil {
			return nil, err
		}
		if err := vm.transfer(vm.escrow, vm.administrator, payment); err != nil {
			return nil, err
		}

		return &Event{
			Kind:        PeriodPaid,
			SlotID:      slotID,
			Caller:      caller,
			Holder:      lease.Holder,
			Timestamp:   now,
			Amount:      payment,
			PeriodsPaid: lease.PeriodsPaid,
		}, nil
	})
}

// Seize transfers the deposit of a defaulted ACTIVE lease to the
// administrator and terminates it. The holder is in default once the grace
// period after its last payment has fully elapsed while it is behind on the
// schedule.
func (vm *VM) Seize(caller ids.ShortID, slotID uint64) error {
	return vm.execute("seize", func(now int64) (*Event, error) {
		if caller != vm.administrator {
			return nil, fmt.Errorf("%w: only the administrator seizes deposits", ErrUnauthorized)
		}
		lease, err := vm.activeLease(slotID)
		if err != nil {
			return nil, err
		}
		if !graceExpired(lease, now) {
			return nil, fmt.Errorf("%w: slot %d until %d", ErrGracePeriodNotExpired, slotID, lease.LastPaymentTime+gracePeriodSecs)
		}
		if paymentCurrent(lease, now) {
			return nil, fmt.Errorf("%w: slot %d", ErrNotInDefault, slotID)
		}

		seized := lease.Deposit
		lease.Deposit = 0
		lease.Phase = PhaseTerminated
		lease.Reason = ReasonSeized
		if err := vm.putLease(slotID, lease); err != nil {
			return nil, err
		}
		if err := vm.transfer(vm.escrow, vm.administrator, seized); err != nil {
			return nil, err
		}

		return &Event{
			Kind:        DepositSeized,
			SlotID:      slotID,
			Caller:      caller,
			Holder:      lease.Holder,
			Timestamp:   now,
			Amount:      seized,
			PeriodsPaid: lease.PeriodsPaid,
			Reason:      ReasonSeized,
		}, nil
	})
}

// Terminate ends a lease and returns the refund paid to the holder.
//
// The holder may terminate its ACTIVE lease at any time. The refund is the
// deposit less the amount of every unpaid period, floored at zero, and the
// rest of the deposit goes to the administrator.
//
// The administrator may only terminate a lease whose deposit it already
// seized; that removes the record.
func (vm *VM) Terminate(caller ids.ShortID, slotID uint64) (uint64, error) {
	var refund uint64
	err := vm.execute("terminate", func(now int64) (*Event, error) {
		lease, err := vm.getLease(slotID)
		if err != nil {
			return nil, err
		}
		if lease == nil {
			return nil, fmt.Errorf("%w: slot %d has no lease", ErrNotActive, slotID)
		}

		switch {
		case lease.Phase == PhaseActive && caller == lease.Holder:
			return vm.exit(caller, slotID, lease, now, &refund)
		case caller == vm.administrator && lease.Phase == PhaseTerminated && lease.Reason == ReasonSeized:
			return vm.cleanup(caller, slotID, lease, now)
		case caller == vm.administrator && lease.Phase == PhaseActive:
			return nil, fmt.Errorf("%w: administrator may only terminate after seizure", ErrUnauthorized)
		case lease.Phase != PhaseActive:
			return nil, fmt.Errorf("%w: slot %d is %s", ErrNotActive, slotID, lease.Phase)
		default:
			return nil, fmt.Errorf("%w: slot %d", ErrUnauthorized, slotID)
		}
	})
	if err != nil {
		return 0, err
	}
	return refund, nil
}

func (vm *VM) exit(caller ids.ShortID, slotID uint64, lease *Lease, now int64, refund *uint64) (*Event, error) {
	toHolder, retained := settlement(lease)
	reason := ReasonEarlyExit
	if lease.PeriodsPaid >= lease.TermLength {
		reason = ReasonCompleted
	}

	lease.Deposit = 0
	lease.Phase = PhaseTerminated
	lease.Reason = reason
	if err := vm.putLease(slotID, lease); err != nil {
		return nil, err
	}
	if err := vm.transfer(vm.escrow, lease.Holder, toHolder); err != nil {
		return nil, err
	}
	if err := vm.transfer(vm.escrow, vm.administrator, retained); err != nil {
		return nil, err
	}

	*refund = toHolder
	return &Event{
		Kind:        LeaseTerminated,
		SlotID:      slotID,
		Caller:      caller,
		Holder:      lease.Holder,
		Timestamp:   now,
		Amount:      toHolder,
		Retained:    retained,
		TermLength:  lease.TermLength,
		PeriodsPaid: lease.PeriodsPaid,
		Reason:      reason,
	}, nil
}

func (vm *VM) cleanup(caller ids.ShortID, slotID uint64, lease *Lease, now int64) (*Event, error) {
	if err := vm.state.DeleteLease(slotID); err != nil {
		return nil, fmt.Errorf("failed to delete lease %d: %w", slotID, err)
	}
	return &Event{
		Kind:        LeaseTerminated,
		SlotID:      slotID,
		Caller:      caller,
		Holder:      lease.Holder,
		Timestamp:   now,
		TermLength:  lease.TermLength,
		PeriodsPaid: lease.PeriodsPaid,
		Reason:      ReasonPostDefaultCleanup,
	}, nil
}

func (vm *VM) pendingLease(slotID uint64) (*Lease, error) {
	lease, err := vm.getLease(slotID)
	if err != nil {
		return nil, err
	}
	if lease == nil || lease.Phase != PhasePending {
		return nil, fmt.Errorf("%w: slot %d", ErrNotPending, slotID)
	}
	return lease, nil
}

func (vm *VM) activeLease(slotID uint64) (*Lease, error) {
	lease, err := vm.getLease(slotID)
	if err != nil {
		return nil, err
	}
	if lease == nil || lease.Phase != PhaseActive {
		return nil, fmt.Errorf("%w: slot %d", ErrNotActive, slotID)
	}
	return lease, nil
}
