package tempo

import (
	"errors"
	"time"
)

// TimerFunc is the callback invoked when a timer fires. It receives the
// opaque argument supplied at creation. The callback runs on the
// goroutine advancing the clock, without the clock's internal lock held.
type TimerFunc func(arg any)

type timerState int

const (
	timerIdle      timerState = iota // no pending occurrence
	timerScheduled                   // has a live queue entry
	timerStopped                     // terminal
)

// Timer is a one-shot or periodic timer scheduled against a Virtual
// clock. The creator holds the Timer to reschedule or stop it; the clock
// holds only the queue entry needed for firing.
//
// Configuration is guarded by the owning clock's lock.
type Timer struct {
	clock  *Virtual
	fn     TimerFunc
	arg    any
	due    time.Duration
	period time.Duration
	state  timerState
	entry  *entry
}

// NewTimer creates a timer that first fires due after the current time
// and then every period. Either duration may be Never: a Never due time
// leaves the timer idle until a Change arms it; a Never (or zero) period
// makes the timer one-shot. Finite durations outside
// [0, MaxTimerDuration] are rejected. A zero due time fires on the very
// next advance, at the clock's current instant.
func (v *Virtual) NewTimer(fn TimerFunc, arg any, due, period time.Duration) (*Timer, error) {
	if fn == nil {
		return nil, errors.New("tempo: nil TimerFunc")
	}
	if err := checkDuration("due time", due); err != nil {
		return nil, err
	}
	if err := checkDuration("period", period); err != nil {
		return nil, err
	}
	t := &Timer{clock: v, fn: fn, arg: arg, due: due, period: period}
	v.mu.Lock()
	defer v.mu.Unlock()
	if due != Never {
		t.entry = v.queue.schedule(t, v.now.Add(due))
		t.state = timerScheduled
	}
	return t, nil
}

// Change reschedules the timer: any pending occurrence is discarded and,
// unless due is Never, a new one is scheduled due after the clock's
// current time. It reports false without effect if the timer has been
// stopped, and returns an error (leaving the schedule untouched) if
// either duration is out of range.
func (t *Timer) Change(due, period time.Duration) (bool, error) {
	if err := checkDuration("due time", due); err != nil {
		return false, err
	}
	if err := checkDuration("period", period); err != nil {
		return false, err
	}
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.state == timerStopped {
		return false, nil
	}
	t.clock.queue.remove(t.entry)
	t.entry = nil
	t.due, t.period = due, period
	if due != Never {
		t.entry = t.clock.queue.schedule(t, t.clock.now.Add(due))
		t.state = timerScheduled
	} else {
		t.state = timerIdle
	}
	return true, nil
}

// Stop permanently stops the timer, discarding any pending occurrence.
// It is idempotent. After Stop, the timer never fires again and Change
// reports false.
func (t *Timer) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.state == timerStopped {
		return
	}
	t.clock.queue.remove(t.entry)
	t.entry = nil
	t.state = timerStopped
}
