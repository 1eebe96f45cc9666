package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"tempo/internal/replay"
	"tempo/internal/scenario"
)

func sampleResult() *replay.Result {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &replay.Result{
		Scenario: "sample",
		Start:    start,
		End:      start.Add(5 * time.Second),
		Fires: []replay.Fire{
			{Timer: "heartbeat", At: start.Add(1 * time.Second), Seq: 0},
			{Timer: "heartbeat", At: start.Add(3 * time.Second), Seq: 1},
			{Timer: "once", At: start.Add(3 * time.Second), Seq: 2},
		},
	}
}

func TestNew_PopulatesReport(t *testing.T) {
	rep := New(sampleResult())

	_, err := uuid.Parse(rep.RunID)
	require.NoError(t, err, "run ID must be a valid UUID")
	assert.Equal(t, "sample", rep.Scenario)
	assert.Equal(t, "5s", rep.Simulated)
	assert.Equal(t, 3, rep.FireCount)
}

func TestNew_EmptyFiresMarshalsAsArray(t *testing.T) {
	res := sampleResult()
	res.Fires = nil
	rep := New(res)

	doc, err := rep.JSON()
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(doc, "fires").IsArray())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, New(sampleResult())))

	doc := buf.Bytes()
	require.True(t, gjson.ValidBytes(doc))
	assert.Equal(t, "sample", gjson.GetBytes(doc, "scenario").String())
	assert.Equal(t, int64(3), gjson.GetBytes(doc, "fireCount").Int())
	assert.Equal(t, "heartbeat", gjson.GetBytes(doc, "fires.0.timer").String())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, New(sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "sample")
	assert.Contains(t, out, "Fires:     3")
	assert.Contains(t, out, "heartbeat")
	assert.Contains(t, out, "+1s")
}

func TestCheck(t *testing.T) {
	rep := New(sampleResult())
	doc, err := rep.JSON()
	require.NoError(t, err)

	results, err := Check(doc, []scenario.Expectation{
		{Path: "$.fireCount", Equals: "3"},
		{Path: "$.fires[0].timer", Equals: "heartbeat"},
		{Path: "$.fires[2].timer", Equals: "heartbeat"}, // actually "once"
		{Path: "$.missing.path", Equals: "1"},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].Passed)
	assert.True(t, results[1].Passed)
	assert.False(t, results[2].Passed)
	assert.Equal(t, "once", results[2].Got)
	assert.False(t, results[3].Passed)
	assert.Equal(t, "<missing>", results[3].Got)

	assert.False(t, AllPassed(results))
	assert.True(t, AllPassed(results[:2]))
}

func TestCheck_NoExpectations(t *testing.T) {
	results, err := Check([]byte(`{}`), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCheck_InvalidJSON(t *testing.T) {
	_, err := Check([]byte(`{not json`), []scenario.Expectation{{Path: "$.a", Equals: "1"}})
	require.Error(t, err)
}

func TestWriteChecks(t *testing.T) {
	var buf bytes.Buffer
	WriteChecks(&buf, []CheckResult{
		{Path: "$.fireCount", Want: "3", Got: "3", Passed: true},
		{Path: "$.fires[0].timer", Want: "x", Got: "heartbeat"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + two checks
	assert.Contains(t, lines[1], "✓")
	assert.Contains(t, lines[2], "✗")
}

func TestConvertJSONPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"$.fireCount", "fireCount"},
		{"$.fires[0].timer", "fires.0.timer"},
		{"$.fires[*].timer", "fires.#.timer"},
		{"fires.0.at", "fires.0.at"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, convertJSONPath(tc.in), "path %q", tc.in)
	}
}
