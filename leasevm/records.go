// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"github.com/ava-labs/avalanchego/ids"
)

// Phase is the lifecycle phase of a lease record.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhasePending
	PhaseActive
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "PENDING"
	case PhaseActive:
		return "ACTIVE"
	case PhaseTerminated:
		return "TERMINATED"
	default:
		return "NONE"
	}
}

// Live reports whether the phase encumbers its slot.
func (p Phase) Live() bool { return p == PhasePending || p == PhaseActive }

// TerminationReason records how a lease left the ACTIVE phase.
type TerminationReason uint8

const (
	ReasonNone TerminationReason = iota
	ReasonCompleted
	ReasonEarlyExit
	ReasonSeized
	ReasonPostDefaultCleanup
)

func (r TerminationReason) String() string {
	switch r {
	case ReasonCompleted:
		return "completed"
	case ReasonEarlyExit:
		return "early-exit"
	case ReasonSeized:
		return "seized"
	case ReasonPostDefaultCleanup:
		return "post-default-cleanup"
	default:
		return ""
	}
}

// Descriptor holds the immutable attributes of a leasable asset.
type Descriptor struct {
	Label         string `serialize:"true" json:"label"`
	Category      string `serialize:"true" json:"category"`
	Year          uint16 `serialize:"true" json:"year"`
	DeclaredValue uint64 `serialize:"true" json:"declaredValue"`
	UsageLimit    uint64 `serialize:"true" json:"usageLimit"`
}

// Verify returns nil iff the descriptor can back a new slot.
func (d *Descriptor) Verify() error {
	switch {
	case d.Label == "":
		return ErrInvalidAsset
	case d.DeclaredValue == 0:
		return ErrInvalidAsset
	}
	return nil
}

// Asset is an allocated slot. It is never mutated once stored.
type Asset struct {
	SlotID     uint64     `serialize:"true" json:"slotID"`
	Descriptor Descriptor `serialize:"true" json:"descriptor"`
}

// Commitment is an opaque claim on a slot awaiting its reveal.
type Commitment struct {
	Digest         ids.ID      `serialize:"true" json:"digest"`
	Committer      ids.ShortID `serialize:"true" json:"committer"`
	RevealDeadline int64       `serialize:"true" json:"revealDeadline"`
}

// Expired reports whether the commitment can no longer be revealed at [now].
func (c *Commitment) Expired(now int64) bool { return now > c.RevealDeadline }

// Replaceable reports whether another commitment may take the slot at [now].
// At the deadline itself the committer may still reveal, but loses the slot
// to whoever commits first.
func (c *Commitment) Replaceable(now int64) bool { return now >= c.RevealDeadline }

// Lease is the mutable lease record of a slot.
type Lease struct {
	Holder            ids.ShortID       `serialize:"true" json:"holder"`
	Phase             Phase             `serialize:"true" json:"phase"`
	TermLength        uint64            `serialize:"true" json:"termLength"`
	PeriodAmount      uint64            `serialize:"true" json:"periodAmount"`
	Deposit           uint64            `serialize:"true" json:"deposit"`
	PeriodsPaid       uint64            `serialize:"true" json:"periodsPaid"`
	LastPaymentTime   int64             `serialize:"true" json:"lastPaymentTime"`
	AdmissionDeadline int64             `serialize:"true" json:"admissionDeadline"`
	ActivationTime    int64             `serialize:"true" json:"activationTime"`
	Reason            TerminationReason `serialize:"true" json:"reason"`
}
