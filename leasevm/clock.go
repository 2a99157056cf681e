// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"sync"
	"time"
)

var (
	_ Clock = SystemClock{}
	_ Clock = (*ManualClock)(nil)
)

// Clock is the time source transitions are evaluated against.
type Clock interface {
	Time() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Time() time.Time { return time.Now() }

// ManualClock only moves when told to. Used by tests and by hosts that
// derive time from block timestamps.
type ManualClock struct {
	lock sync.Mutex
	now  time.Time
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Time() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Set sets the clock to [now].
func (c *ManualClock) Set(now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = now
}

// Advance moves the clock forward by [d].
func (c *ManualClock) Advance(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
}
