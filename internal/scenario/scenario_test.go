package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FullScenario(t *testing.T) {
	path := writeScenario(t, `
name: periodic smoke
start: 2024-01-01T00:00:00Z
autoAdvance: 1s
timers:
  - name: heartbeat
    due: 1s
    period: 2s
  - name: once
    due: 500ms
steps:
  - advance: 5s
  - change: {timer: heartbeat, due: 1s, period: 1s}
  - read: 2
  - stop: heartbeat
  - setTime: 2024-01-01T01:00:00Z
expect:
  - path: $.fireCount
    equals: "5"
`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "periodic smoke", sc.Name)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), sc.Start)
	assert.Equal(t, time.Second, sc.AutoAdvance.Std())

	require.Len(t, sc.Timers, 2)
	assert.Equal(t, time.Second, sc.Timers[0].Due.Std())
	assert.Equal(t, 2*time.Second, sc.Timers[0].Period.Std())
	assert.Nil(t, sc.Timers[1].Period, "absent period stays nil")
	assert.Equal(t, tempo.Never, DurationOrNever(sc.Timers[1].Period))

	require.Len(t, sc.Steps, 5)
	assert.Equal(t, 5*time.Second, sc.Steps[0].Advance.Std())
	assert.Equal(t, "heartbeat", sc.Steps[1].Change.Timer)
	assert.Equal(t, 2, sc.Steps[2].Read)
	assert.Equal(t, "heartbeat", sc.Steps[3].Stop)
	require.NotNil(t, sc.Steps[4].SetTime)

	require.Len(t, sc.Expect, 1)
	assert.Equal(t, "$.fireCount", sc.Expect[0].Path)
}

func TestLoad_NeverDuration(t *testing.T) {
	path := writeScenario(t, `
name: idle
timers:
  - name: armed-later
    due: never
steps:
  - advance: 1s
`)

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tempo.Never, sc.Timers[0].Due.Std())
}

func TestLoad_InvalidDurationString(t *testing.T) {
	path := writeScenario(t, `
name: bad
timers:
  - name: a
    due: sometime
steps: []
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sometime")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	due := Duration(time.Second)

	cases := []struct {
		name    string
		sc      Scenario
		wantErr string
	}{
		{
			name:    "missing name",
			sc:      Scenario{},
			wantErr: "name is required",
		},
		{
			name: "duplicate timer names",
			sc: Scenario{
				Name: "x",
				Timers: []TimerSpec{
					{Name: "a", Due: &due},
					{Name: "a", Due: &due},
				},
			},
			wantErr: "duplicate name",
		},
		{
			name: "timer without due",
			sc: Scenario{
				Name:   "x",
				Timers: []TimerSpec{{Name: "a"}},
			},
			wantErr: "due is required",
		},
		{
			name: "step with no action",
			sc: Scenario{
				Name:  "x",
				Steps: []Step{{}},
			},
			wantErr: "exactly one action",
		},
		{
			name: "step with two actions",
			sc: Scenario{
				Name:  "x",
				Steps: []Step{{Advance: &due, Read: 1}},
			},
			wantErr: "exactly one action",
		},
		{
			name: "stop references unknown timer",
			sc: Scenario{
				Name:  "x",
				Steps: []Step{{Stop: "ghost"}},
			},
			wantErr: `unknown timer "ghost"`,
		},
		{
			name: "change references unknown timer",
			sc: Scenario{
				Name:  "x",
				Steps: []Step{{Change: &ChangeSpec{Timer: "ghost", Due: &due}}},
			},
			wantErr: `unknown timer "ghost"`,
		},
		{
			name: "change without due",
			sc: Scenario{
				Name:   "x",
				Timers: []TimerSpec{{Name: "a", Due: &due}},
				Steps:  []Step{{Change: &ChangeSpec{Timer: "a"}}},
			},
			wantErr: "change needs a due time",
		},
		{
			name: "negative read",
			sc: Scenario{
				Name:  "x",
				Steps: []Step{{Read: -1}},
			},
			wantErr: "read count must be positive",
		},
		{
			name: "expectation without path",
			sc: Scenario{
				Name:   "x",
				Expect: []Expectation{{Equals: "1"}},
			},
			wantErr: "path is required",
		},
		{
			name: "valid",
			sc: Scenario{
				Name:   "x",
				Timers: []TimerSpec{{Name: "a", Due: &due}},
				Steps:  []Step{{Advance: &due}, {Stop: "a"}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.sc.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
