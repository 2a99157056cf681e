// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"fmt"
	"time"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

// Protocol constants. They are not configurable per lease.
const (
	RevealWindow    = 7 * 24 * time.Hour
	ConfirmWindow   = 7 * 24 * time.Hour
	PeriodLength    = 30 * 24 * time.Hour
	GracePeriod     = 45 * 24 * time.Hour
	DepositMultiple = 3
)

var (
	revealWindowSecs  = int64(RevealWindow / time.Second)
	confirmWindowSecs = int64(ConfirmWindow / time.Second)
	periodLengthSecs  = int64(PeriodLength / time.Second)
	gracePeriodSecs   = int64(GracePeriod / time.Second)
)

// PeriodsExpected returns how many whole billing periods have elapsed between
// [activationTime] and [now]. Both payment acceptance and default detection
// are derived from it.
func PeriodsExpected(activationTime, now int64) uint64 {
	if now <= activationTime {
		return 0
	}
	return uint64((now - activationTime) / periodLengthSecs)
}

// DepositFor returns the collateral a lease of [periodAmount] requires.
func DepositFor(periodAmount uint64) (uint64, error) {
	deposit, err := safemath.Mul64(periodAmount, DepositMultiple)
	if err != nil {
		return 0, fmt.Errorf("%w: deposit for %d overflows", ErrInvalidTerms, periodAmount)
	}
	return deposit, nil
}

// paymentCurrent reports whether [lease] has paid every period that is due at
// [now]. A lease whose full term is paid is always current.
func paymentCurrent(lease *Lease, now int64) bool {
	if lease.PeriodsPaid >= lease.TermLength {
		return true
	}
	return lease.PeriodsPaid >= PeriodsExpected(lease.ActivationTime, now)
}

// paymentDue reports whether [lease] may accept another payment at [now].
func paymentDue(lease *Lease, now int64) bool {
	return lease.PeriodsPaid < PeriodsExpected(lease.ActivationTime, now)
}

// graceExpired reports whether the grace window after the last accepted
// payment has fully elapsed. The boundary instant itself is still inside it.
func graceExpired(lease *Lease, now int64) bool {
	return now > lease.LastPaymentTime+gracePeriodSecs
}

// settlement splits the escrowed deposit of an ACTIVE lease on holder exit:
// the refund goes back to the holder, the rest to the administrator.
func settlement(lease *Lease) (refund, retained uint64) {
	var penalty uint64
	if lease.PeriodsPaid < lease.TermLength {
		var err error
		penalty, err = safemath.Mul64(lease.TermLength-lease.PeriodsPaid, lease.PeriodAmount)
		if err != nil {
			penalty = lease.Deposit
		}
	}
	if penalty >= lease.Deposit {
		return 0, lease.Deposit
	}
	refund = lease.Deposit - penalty
	return refund, lease.Deposit - refund
}
