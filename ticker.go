package tempo

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Ticker delivers the fires of one periodic timer to a single consumer.
// At most one Wait may be outstanding at a time; a tick that fires while
// nobody is waiting is coalesced into a single pending tick consumed by
// the next Wait.
type Ticker struct {
	timer *Timer

	// mu guards the fields below. It is never held while the clock's
	// lock is taken, so timer callbacks cannot deadlock against Stop.
	mu      sync.Mutex
	waiter  chan bool
	pending bool
	stopped bool
}

// NewTicker creates a Ticker that ticks every period, the first tick one
// period after the current time. The period must be a positive finite
// duration no larger than MaxTimerDuration.
func (v *Virtual) NewTicker(period time.Duration) (*Ticker, error) {
	if period <= 0 || period > MaxTimerDuration {
		return nil, fmt.Errorf("ticker period %v: %w", period, ErrDurationOutOfRange)
	}
	tk := &Ticker{}
	timer, err := v.NewTimer(tk.tick, nil, period, period)
	if err != nil {
		return nil, err
	}
	tk.timer = timer
	return tk, nil
}

// tick is the underlying timer's callback. It runs on the goroutine
// advancing the clock. The waiter channel is 1-buffered, so the send
// never blocks.
func (tk *Ticker) tick(any) {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if tk.stopped {
		return
	}
	if tk.waiter != nil {
		tk.waiter <- true
		tk.waiter = nil
	} else {
		tk.pending = true
	}
}

// Wait blocks until the next tick, returning true, or until the Ticker
// is stopped, returning false. If a tick fired since the previous Wait,
// it returns true immediately. Cancelling ctx resolves the wait with
// ctx.Err without affecting the underlying timer's schedule.
//
// Wait must not be called while another Wait is outstanding; doing so is
// a programming error and panics.
func (tk *Ticker) Wait(ctx context.Context) (bool, error) {
	tk.mu.Lock()
	if tk.waiter != nil {
		tk.mu.Unlock()
		panic("tempo: Ticker.Wait called while another Wait is outstanding")
	}
	if tk.stopped {
		tk.mu.Unlock()
		return false, nil
	}
	if tk.pending {
		tk.pending = false
		tk.mu.Unlock()
		return true, nil
	}
	ch := make(chan bool, 1)
	tk.waiter = ch
	tk.mu.Unlock()

	select {
	case ok := <-ch:
		return ok, nil
	case <-ctx.Done():
		tk.mu.Lock()
		if tk.waiter == ch {
			tk.waiter = nil
		}
		tk.mu.Unlock()
		// A tick may have been delivered between ctx firing and the
		// waiter being cleared; keep it for the next Wait.
		select {
		case ok := <-ch:
			if ok {
				tk.mu.Lock()
				if !tk.stopped {
					tk.pending = true
				}
				tk.mu.Unlock()
			}
		default:
		}
		return false, ctx.Err()
	}
}

// Stop permanently stops the Ticker and its underlying timer. An
// outstanding Wait resolves with false, and every future Wait returns
// false immediately. Stop is idempotent.
func (tk *Ticker) Stop() {
	tk.mu.Lock()
	if tk.stopped {
		tk.mu.Unlock()
		return
	}
	tk.stopped = true
	tk.pending = false
	if tk.waiter != nil {
		tk.waiter <- false
		tk.waiter = nil
	}
	tk.mu.Unlock()
	tk.timer.Stop()
}
