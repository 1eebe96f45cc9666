package tempo

import (
	"errors"
	"fmt"
	"time"
)

// Never is the sentinel duration meaning "do not schedule". A timer whose
// due time is Never stays idle; a period of Never disables repetition.
const Never time.Duration = -1

// MaxTimerDuration is the largest due time or period a timer accepts,
// about 49.7 days. Finite durations outside [0, MaxTimerDuration] are
// rejected at the call that supplies them.
const MaxTimerDuration = 0xFFFFFFFE * time.Millisecond

var (
	// ErrDurationOutOfRange reports a duration that is negative (and not
	// Never) or exceeds MaxTimerDuration.
	ErrDurationOutOfRange = errors.New("duration out of range")

	// ErrTimeOutOfRange reports an attempt to move a Virtual clock
	// backwards.
	ErrTimeOutOfRange = errors.New("time out of range")
)

// checkDuration validates a due time or period: either Never or within
// [0, MaxTimerDuration].
func checkDuration(name string, d time.Duration) error {
	if d == Never {
		return nil
	}
	if d < 0 || d > MaxTimerDuration {
		return fmt.Errorf("%s %v: %w", name, d, ErrDurationOutOfRange)
	}
	return nil
}
