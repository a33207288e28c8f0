package schedcore

import "sync/atomic"

// Clock is the monotonic tick counter the host kernel provides. Production
// wiring uses TickCounter, driven once per full table pass by the
// selection loop; tests inject a fake for deterministic arrival_time
// assertions.
type Clock interface {
	Now() uint64
}

// TickCounter is an atomic, in-process Clock implementation.
type TickCounter struct {
	ticks uint64
}

func (c *TickCounter) Now() uint64 { return atomic.LoadUint64(&c.ticks) }

// Advance increments the counter by one tick and returns the new value.
func (c *TickCounter) Advance() uint64 { return atomic.AddUint64(&c.ticks, 1) }

// FixedClock is a test double that always reports a fixed tick value.
type FixedClock uint64

func (c FixedClock) Now() uint64 { return uint64(c) }
