// Package replay drives a virtual clock through a scenario's steps and
// records every timer fire.
package replay

import (
	"sync"
	"time"
)

// Fire records one timer callback invocation at a simulated instant.
type Fire struct {
	Timer string    `json:"timer"`
	At    time.Time `json:"at"`
	Seq   int       `json:"seq"`
}

// Recorder collects fires in occurrence order. Sequence numbers are
// assigned as fires arrive.
type Recorder struct {
	fires     []Fire
	ch        chan Fire
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
}

// NewRecorder creates a Recorder and starts its collection goroutine.
func NewRecorder() *Recorder {
	r := &Recorder{
		ch:   make(chan Fire, 256),
		done: make(chan struct{}),
	}
	go r.collect()
	return r
}

func (r *Recorder) collect() {
	for fire := range r.ch {
		r.mu.Lock()
		fire.Seq = len(r.fires)
		r.fires = append(r.fires, fire)
		r.mu.Unlock()
	}
	close(r.done)
}

// Record appends a fire. Unlike a sampling collector, a replay must not
// drop events, so the send blocks if the buffer is full.
func (r *Recorder) Record(fire Fire) {
	r.ch <- fire
}

// Close stops the Recorder and waits until every recorded fire has been
// collected. It is idempotent.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() { close(r.ch) })
	<-r.done
}

// Fires returns a copy of the collected fires.
func (r *Recorder) Fires() []Fire {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Fire, len(r.fires))
	copy(result, r.fires)
	return result
}
