// Package tempo provides a deterministic virtual clock for testing
// time-dependent code. Timers scheduled against a Virtual clock fire
// synchronously, in fire-time order, when the clock is advanced; no real
// wall-clock waiting is involved. The System clock implements the same
// interface on top of the standard time package so production code can
// accept a Clock and tests can substitute a Virtual.
package tempo

import "time"

// Clock provides time operations that can be swapped out for testing.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// System is a Clock backed by the real system clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) Since(t time.Time) time.Duration { return time.Since(t) }
