package replay

import (
	"context"
	"fmt"
	"time"

	"tempo"
	"tempo/internal/scenario"
)

// Result is the outcome of a replay: the simulated time span covered and
// every fire in occurrence order.
type Result struct {
	Scenario string
	Start    time.Time
	End      time.Time
	Fires    []Fire
}

// Options controls a replay run.
type Options struct {
	// StepsPerSec throttles the replay to a real-time rate; 0 replays
	// instantly.
	StepsPerSec int
}

// Run creates a virtual clock and the scenario's timers, executes the
// steps in order, and returns the recorded fires. Step errors abort the
// run with the step's index in the error.
func Run(ctx context.Context, sc *scenario.Scenario, opts Options) (*Result, error) {
	clock := tempo.NewVirtual(sc.Start)
	if d := sc.AutoAdvance.Std(); d > 0 {
		if err := clock.SetAutoAdvance(d); err != nil {
			return nil, fmt.Errorf("auto-advance: %w", err)
		}
	}

	rec := NewRecorder()
	defer rec.Close()
	start := clock.Peek()

	timers := make(map[string]*tempo.Timer, len(sc.Timers))
	for _, ts := range sc.Timers {
		name := ts.Name
		timer, err := clock.NewTimer(func(any) {
			// Peek, not Now: recording a fire must not trigger another
			// auto-advance from inside the callback.
			rec.Record(Fire{Timer: name, At: clock.Peek()})
		}, nil, ts.Due.Std(), scenario.DurationOrNever(ts.Period))
		if err != nil {
			return nil, fmt.Errorf("timer %q: %w", name, err)
		}
		timers[name] = timer
	}

	var pacer *Pacer
	if opts.StepsPerSec > 0 {
		pacer = NewPacer(opts.StepsPerSec)
	}

	for i, step := range sc.Steps {
		if pacer != nil {
			if err := pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
		}
		if err := runStep(clock, timers, step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	rec.Close()
	return &Result{
		Scenario: sc.Name,
		Start:    start,
		End:      clock.Peek(),
		Fires:    rec.Fires(),
	}, nil
}

func runStep(clock *tempo.Virtual, timers map[string]*tempo.Timer, step scenario.Step) error {
	switch {
	case step.Advance != nil:
		return clock.Advance(step.Advance.Std())
	case step.SetTime != nil:
		return clock.SetTime(*step.SetTime)
	case step.Change != nil:
		ok, err := timers[step.Change.Timer].Change(
			step.Change.Due.Std(), scenario.DurationOrNever(step.Change.Period))
		if err != nil {
			return fmt.Errorf("change %q: %w", step.Change.Timer, err)
		}
		if !ok {
			return fmt.Errorf("change %q: timer already stopped", step.Change.Timer)
		}
		return nil
	case step.Stop != "":
		timers[step.Stop].Stop()
		return nil
	case step.Read > 0:
		for i := 0; i < step.Read; i++ {
			clock.Now()
		}
		return nil
	}
	return fmt.Errorf("empty step")
}
