// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"github.com/ava-labs/avalanchego/ids"

	log "github.com/inconshreveable/log15"
)

// EventKind names a committed transition, in the past tense.
type EventKind string

const (
	AssetAllocated   EventKind = "AssetAllocated"
	CommitmentPlaced EventKind = "CommitmentPlaced"
	LeaseProposed    EventKind = "LeaseProposed"
	LeaseConfirmed   EventKind = "LeaseConfirmed"
	DepositReclaimed EventKind = "DepositReclaimed"
	PeriodPaid       EventKind = "PeriodPaid"
	DepositSeized    EventKind = "DepositSeized"
	LeaseTerminated  EventKind = "LeaseTerminated"
)

// Event is the notification emitted once per committed transition. Fields
// that do not apply to a kind are left zero.
type Event struct {
	Kind      EventKind   `json:"kind"`
	SlotID    uint64      `json:"slotID"`
	Caller    ids.ShortID `json:"caller"`
	Holder    ids.ShortID `json:"holder"`
	Timestamp int64       `json:"timestamp"`

	// Amount is the deposit, payment, refund or declared value moved or
	// recorded by the transition.
	Amount uint64 `json:"amount"`
	// Retained is the part of a deposit kept by the administrator on
	// termination.
	Retained uint64 `json:"retained"`

	Label        string            `json:"label,omitempty"`
	Digest       ids.ID            `json:"digest"`
	Deadline     int64             `json:"deadline"`
	TermLength   uint64            `json:"termLength"`
	PeriodAmount uint64            `json:"periodAmount"`
	PeriodsPaid  uint64            `json:"periodsPaid"`
	Reason       TerminationReason `json:"reason"`
}

// Notifier receives committed transitions. Notify is called after the state
// is committed, so it cannot veto a transition.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

type multiNotifier []Notifier

// NewMultiNotifier fans each event out to [notifiers] in order.
func NewMultiNotifier(notifiers ...Notifier) Notifier {
	return multiNotifier(notifiers)
}

func (m multiNotifier) Notify(e Event) {
	for _, n := range m {
		n.Notify(e)
	}
}

type logNotifier struct {
	log log.Logger
}

// NewLogNotifier logs every event at info level.
func NewLogNotifier(logger log.Logger) Notifier {
	return &logNotifier{log: logger}
}

func (n *logNotifier) Notify(e Event) {
	ctx := []interface{}{
		"slot", e.SlotID,
		"caller", e.Caller,
		"timestamp", e.Timestamp,
	}
	switch e.Kind {
	case AssetAllocated:
		ctx = append(ctx, "label", e.Label, "declaredValue", e.Amount)
	case CommitmentPlaced:
		ctx = append(ctx, "digest", e.Digest, "revealDeadline", e.Deadline)
	case LeaseProposed:
		ctx = append(ctx, "holder", e.Holder, "deposit", e.Amount, "termLength", e.TermLength,
			"periodAmount", e.PeriodAmount, "admissionDeadline", e.Deadline)
	case PeriodPaid:
		ctx = append(ctx, "holder", e.Holder, "amount", e.Amount, "periodsPaid", e.PeriodsPaid)
	case LeaseTerminated:
		ctx = append(ctx, "holder", e.Holder, "refund", e.Amount, "retained", e.Retained, "reason", e.Reason)
	default:
		ctx = append(ctx, "holder", e.Holder, "amount", e.Amount)
	}
	n.log.Info(string(e.Kind), ctx...)
}
