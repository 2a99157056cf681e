// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why an operation was rejected.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindState
	KindAuthorization
	KindTiming
	KindBinding
	KindTransfer
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindAuthorization:
		return "authorization"
	case KindTiming:
		return "timing"
	case KindBinding:
		return "binding"
	case KindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Error is a rejection of a lease operation. Rejected operations never leave
// state behind.
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// Validation errors
var (
	ErrInvalidAsset     = newError(KindValidation, "invalid asset")
	ErrInvalidTerms     = newError(KindValidation, "invalid lease terms")
	ErrIncorrectDeposit = newError(KindValidation, "incorrect deposit")
	ErrWrongAmount      = newError(KindValidation, "wrong payment amount")
)

// State-precondition errors
var (
	ErrNotFound            = newError(KindState, "asset not found")
	ErrSlotEncumbered      = newError(KindState, "slot is encumbered by a live lease")
	ErrCommitmentStillLive = newError(KindState, "slot has a live commitment")
	ErrNoCommitment        = newError(KindState, "no commitment for slot")
	ErrAlreadyLeased       = newError(KindState, "slot already leased")
	ErrNotPending          = newError(KindState, "lease is not pending")
	ErrNotActive           = newError(KindState, "lease is not active")
	ErrNotInDefault        = newError(KindState, "holder is not in default")
)

// Authorization errors
var (
	ErrUnauthorized = newError(KindAuthorization, "unauthorized")
	ErrNotHolder    = newError(KindAuthorization, "caller is not the lease holder")
)

// Timing errors
var (
	ErrCommitmentExpired       = newError(KindTiming, "commitment expired")
	ErrAdmissionDeadlinePassed = newError(KindTiming, "admission deadline passed")
	ErrDeadlineNotYetPassed    = newError(KindTiming, "admission deadline not yet passed")
	ErrPaymentNotYetDue        = newError(KindTiming, "payment not yet due")
	ErrGracePeriodNotExpired   = newError(KindTiming, "grace period not expired")
)

// ErrInvalidSecret also covers reveals by anyone other than the committer.
var ErrInvalidSecret = newError(KindBinding, "invalid secret")

// Transfer errors
var (
	ErrInsufficientFunds = newError(KindTransfer, "insufficient funds")
	ErrTransferFailed    = newError(KindTransfer, "transfer failed")
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Kind
	}
	return KindUnknown
}

var knownErrors = []*Error{
	ErrInvalidAsset, ErrInvalidTerms, ErrIncorrectDeposit, ErrWrongAmount,
	ErrNotFound, ErrSlotEncumbered, ErrCommitmentStillLive, ErrNoCommitment,
	ErrAlreadyLeased, ErrNotPending, ErrNotActive, ErrNotInDefault,
	ErrUnauthorized, ErrNotHolder,
	ErrCommitmentExpired, ErrAdmissionDeadlinePassed, ErrDeadlineNotYetPassed,
	ErrPaymentNotYetDue, ErrGracePeriodNotExpired,
	ErrInvalidSecret,
	ErrInsufficientFunds, ErrTransferFailed,
}

// ParseError recovers the sentinel behind an error message that crossed the
// wire. Messages that match no sentinel are returned as plain errors.
func ParseError(msg string) error {
	for _, known := range knownErrors {
		switch {
		case msg == known.msg:
			return known
		case strings.HasPrefix(msg, known.msg+": "):
			return fmt.Errorf("%w%s", known, msg[len(known.msg):])
		}
	}
	return errors.New(msg)
}
