package logic

import "sync/atomic"

// Ticker is the single entry point a periodic scheduler drives.
type Ticker interface {
	Tick() Snapshot
}

// Clock guards a Ticker so that ticks never overlap. A tick requested while
// another is executing is skipped, never queued.
type Clock struct {
	core     Ticker
	inFlight atomic.Bool
	ticks    atomic.Int64
	skipped  atomic.Int64
}

// NewClock wraps core.
func NewClock(core Ticker) *Clock {
	return &Clock{core: core}
}

// Step runs one tick. It returns false, with a zero snapshot, if a tick was
// already in flight.
func (k *Clock) Step() (Snapshot, bool) {
	if !k.inFlight.CompareAndSwap(false, true) {
		k.skipped.Add(1)
		return Snapshot{}, false
	}
	defer k.inFlight.Store(false)

	snap := k.core.Tick()
	k.ticks.Add(1)
	return snap, true
}

// Skip records a tick dropped by the caller's scheduler.
func (k *Clock) Skip() {
	k.skipped.Add(1)
}

// Ticks returns the number of completed ticks.
func (k *Clock) Ticks() int64 {
	return k.ticks.Load()
}

// Skipped returns the number of skipped ticks.
func (k *Clock) Skipped() int64 {
	return k.skipped.Load()
}
