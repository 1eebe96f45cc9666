// Package report renders replay results and evaluates expectations
// against them.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"tempo/internal/replay"
)

// Report is the renderable outcome of a replay run.
type Report struct {
	RunID     string        `json:"runId"`
	Scenario  string        `json:"scenario"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Simulated string        `json:"simulated"` // total simulated time covered
	FireCount int           `json:"fireCount"`
	Fires     []replay.Fire `json:"fires"`
}

// New builds a Report from a replay result, assigning a fresh run ID.
func New(res *replay.Result) *Report {
	fires := res.Fires
	if fires == nil {
		fires = []replay.Fire{}
	}
	return &Report{
		RunID:     uuid.NewString(),
		Scenario:  res.Scenario,
		Start:     res.Start,
		End:       res.End,
		Simulated: res.End.Sub(res.Start).String(),
		FireCount: len(fires),
		Fires:     fires,
	}
}

// WriteText writes the report in human-readable form.
func WriteText(w io.Writer, r *Report) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Tempo - Scenario Replay")
	fmt.Fprintln(w, "=======================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Run:       %s\n", r.RunID)
	fmt.Fprintf(w, "Scenario:  %s\n", r.Scenario)
	fmt.Fprintf(w, "Simulated: %s (%s -> %s)\n", r.Simulated,
		r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Fires:     %d\n", r.FireCount)

	if r.FireCount == 0 {
		return
	}
	fmt.Fprintln(w, "")
	for _, fire := range r.Fires {
		fmt.Fprintf(w, "  %4d  %-15s +%s\n",
			fire.Seq, fire.Timer, fire.At.Sub(r.Start))
	}
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// JSON returns the report as a JSON document, the form expectations are
// evaluated against.
func (r *Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}
