package tempo

import (
	"fmt"
	"sync"
	"time"
)

// defaultStart is the epoch a Virtual starts at when created with the
// zero time. A fixed, readable date keeps test output stable.
var defaultStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Virtual is a Clock whose time moves only when a caller advances it.
// Timers created against a Virtual fire synchronously during Advance,
// SetTime, or an auto-advancing Now, each observing the clock at exactly
// its own fire time.
//
// All methods are safe for concurrent use. Timer callbacks run without
// the clock's internal lock held, so a callback may freely create,
// reschedule, or stop timers on the same clock, and may advance it.
type Virtual struct {
	mu          sync.Mutex
	now         time.Time
	loc         *time.Location
	autoAdvance time.Duration
	queue       scheduleQueue
}

// NewVirtual creates a Virtual clock set to start. Passing the zero time
// starts the clock at 2000-01-01T00:00:00Z.
func NewVirtual(start time.Time) *Virtual {
	if start.IsZero() {
		start = defaultStart
	}
	return &Virtual{now: start, loc: start.Location()}
}

// Now returns the clock's current time. If an auto-advance amount is set,
// the clock then advances by that amount, firing any timers that become
// due; the returned value is always the pre-advance time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	now := v.now
	if v.autoAdvance > 0 {
		v.driveTo(now.Add(v.autoAdvance))
	}
	loc := v.loc
	v.mu.Unlock()
	return now.In(loc)
}

// Peek returns the clock's current time without triggering auto-advance.
// Inside a timer callback it reads exactly the callback's fire time.
func (v *Virtual) Peek() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now.In(v.loc)
}

// Since returns the elapsed time between t and the clock's current time.
// Like Now, it triggers auto-advance when configured.
func (v *Virtual) Since(t time.Time) time.Duration {
	return v.Now().Sub(t)
}

// Advance moves the clock forward by d, firing every timer due within
// the interval in fire-time order. A negative d is rejected; a zero d is
// a no-op. Advancing by d in one call fires the same timers at the same
// simulated instants as advancing by any sequence of smaller steps
// summing to d.
func (v *Virtual) Advance(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("advance by %v: %w", d, ErrDurationOutOfRange)
	}
	if d == 0 {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.driveTo(v.now.Add(d))
	return nil
}

// SetTime moves the clock to target, firing every timer due at or before
// it. Moving the clock backwards is rejected and leaves the clock
// untouched.
func (v *Virtual) SetTime(target time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if target.Before(v.now) {
		return fmt.Errorf("set time to %v before current time %v: %w",
			target, v.now, ErrTimeOutOfRange)
	}
	v.driveTo(target)
	return nil
}

// SetLocation sets the time zone attached to times returned by Now.
// A nil location is ignored.
func (v *Virtual) SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	v.mu.Lock()
	v.loc = loc
	v.mu.Unlock()
}

// SetAutoAdvance configures the amount the clock moves forward after
// every Now (or Since) call. Zero disables auto-advance; a negative
// amount is rejected.
func (v *Virtual) SetAutoAdvance(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("auto-advance by %v: %w", d, ErrDurationOutOfRange)
	}
	v.mu.Lock()
	v.autoAdvance = d
	v.mu.Unlock()
	return nil
}

// AutoAdvance returns the configured auto-advance amount.
func (v *Virtual) AutoAdvance() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.autoAdvance
}

// PendingTimers returns the number of timer occurrences currently
// scheduled.
func (v *Virtual) PendingTimers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queue.len()
}

// driveTo moves the clock to target, popping and firing due entries one
// at a time. Called with v.mu held; the lock is released around each
// callback so the callback can operate on the same clock, and the queue
// is re-checked fresh on every iteration. The clock reads exactly the
// entry's fire time while its callback runs.
func (v *Virtual) driveTo(target time.Time) {
	for {
		e := v.queue.peek()
		if e == nil || e.fireAt.After(target) {
			break
		}
		v.queue.pop()
		// A callback on a previous iteration may already have advanced
		// the clock past this entry's fire time; time never moves back.
		if e.fireAt.After(v.now) {
			v.now = e.fireAt
		}
		t := e.timer
		if t.entry != e {
			panic("tempo: schedule queue entry does not match its timer")
		}
		t.entry = nil
		// Re-arm before invoking the callback so that a Change or Stop
		// made inside it replaces the re-armed occurrence like any other.
		if t.period != Never && t.period != 0 {
			t.entry = v.queue.schedule(t, e.fireAt.Add(t.period))
		} else {
			t.state = timerIdle
		}
		fn, arg := t.fn, t.arg
		v.mu.Unlock()
		fn(arg)
		v.mu.Lock()
	}
	if target.After(v.now) {
		v.now = target
	}
}
