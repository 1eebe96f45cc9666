// Package scenario handles YAML parsing and validation of timer replay
// scenarios.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tempo"
)

// Scenario is the root of a scenario file: a virtual clock setup, a set
// of named timers, an ordered list of steps to drive the clock, and
// optional expectations evaluated against the JSON report.
type Scenario struct {
	Name        string        `yaml:"name"`
	Start       time.Time     `yaml:"start,omitempty"`
	AutoAdvance Duration      `yaml:"autoAdvance,omitempty"`
	Timers      []TimerSpec   `yaml:"timers"`
	Steps       []Step        `yaml:"steps"`
	Expect      []Expectation `yaml:"expect,omitempty"`
}

// TimerSpec declares one timer created before the steps run.
type TimerSpec struct {
	Name   string    `yaml:"name"`
	Due    *Duration `yaml:"due"`
	Period *Duration `yaml:"period,omitempty"` // default never
}

// Step is a single action against the clock. Exactly one field may be
// set.
type Step struct {
	Advance *Duration   `yaml:"advance,omitempty"`
	SetTime *time.Time  `yaml:"setTime,omitempty"`
	Change  *ChangeSpec `yaml:"change,omitempty"`
	Stop    string      `yaml:"stop,omitempty"`
	Read    int         `yaml:"read,omitempty"` // number of clock reads (exercises auto-advance)
}

// ChangeSpec reschedules a named timer.
type ChangeSpec struct {
	Timer  string    `yaml:"timer"`
	Due    *Duration `yaml:"due"`
	Period *Duration `yaml:"period,omitempty"` // default never
}

// Expectation is a JSONPath check against the JSON report.
type Expectation struct {
	Path   string `yaml:"path"`
	Equals string `yaml:"equals"`
}

// Load reads and parses a YAML scenario file and validates it.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario for structural problems. All problems are
// reported, joined into a single error.
func (sc *Scenario) Validate() error {
	var errs []error

	if sc.Name == "" {
		errs = append(errs, errors.New("scenario name is required"))
	}
	if sc.AutoAdvance.Std() < 0 {
		errs = append(errs, errors.New("autoAdvance must not be negative"))
	}

	names := make(map[string]bool, len(sc.Timers))
	for i, ts := range sc.Timers {
		if ts.Name == "" {
			errs = append(errs, fmt.Errorf("timer %d: name is required", i))
			continue
		}
		if names[ts.Name] {
			errs = append(errs, fmt.Errorf("timer %q: duplicate name", ts.Name))
		}
		names[ts.Name] = true
		if ts.Due == nil {
			errs = append(errs, fmt.Errorf("timer %q: due is required", ts.Name))
		}
	}

	for i, step := range sc.Steps {
		set := 0
		if step.Advance != nil {
			set++
		}
		if step.SetTime != nil {
			set++
		}
		if step.Change != nil {
			set++
			if step.Change.Timer == "" {
				errs = append(errs, fmt.Errorf("step %d: change needs a timer name", i))
			} else if !names[step.Change.Timer] {
				errs = append(errs, fmt.Errorf("step %d: change references unknown timer %q", i, step.Change.Timer))
			}
			if step.Change.Due == nil {
				errs = append(errs, fmt.Errorf("step %d: change needs a due time", i))
			}
		}
		if step.Stop != "" {
			set++
			if !names[step.Stop] {
				errs = append(errs, fmt.Errorf("step %d: stop references unknown timer %q", i, step.Stop))
			}
		}
		if step.Read != 0 {
			set++
			if step.Read < 0 {
				errs = append(errs, fmt.Errorf("step %d: read count must be positive", i))
			}
		}
		if set != 1 {
			errs = append(errs, fmt.Errorf("step %d: exactly one action per step, got %d", i, set))
		}
	}

	for i, ex := range sc.Expect {
		if ex.Path == "" {
			errs = append(errs, fmt.Errorf("expectation %d: path is required", i))
		}
	}

	return errors.Join(errs...)
}

// Duration is a time.Duration that unmarshals from Go duration strings
// ("1s", "250ms") or the word "never".
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"1s\" or \"never\": %w", err)
	}
	if s == "never" {
		*d = Duration(tempo.Never)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	if d.Std() == tempo.Never {
		return "never", nil
	}
	return d.Std().String(), nil
}

// DurationOrNever resolves an optional duration field, defaulting to the
// never sentinel when absent.
func DurationOrNever(d *Duration) time.Duration {
	if d == nil {
		return tempo.Never
	}
	return d.Std()
}
