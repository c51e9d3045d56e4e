// SPDX-License-Identifier: MIT

package refresh

import (
	"sync"
	"time"
)

// State represents the current state of the refresh job.
type State string

const (
	// StateIdle means no refresh is executing; the last one (if any) succeeded.
	StateIdle State = "idle"

	// StateRunning means a refresh cycle is executing.
	StateRunning State = "running"

	// StateError means the last refresh cycle aborted. A new trigger may
	// start the next cycle; an error never blocks future attempts.
	StateError State = "error"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsValid checks whether the state is one of the defined constants.
func (s State) IsValid() bool {
	switch s {
	case StateIdle, StateRunning, StateError:
		return true
	default:
		return false
	}
}

// Status describes the refresh job to operators: its state, a progress or
// failure message, and when the last successful cycle completed.
type Status struct {
	State   State      `json:"state"`
	Message string     `json:"message"`
	LastRun *time.Time `json:"last_run,omitempty"`
}

// Tracker owns the job status. The refresh job is its only writer; everyone
// else reads via Current. Acquiring the Running state through begin is the
// single-flight gate: it is a compare-and-swap on the state under the lock.
type Tracker struct {
	mu     sync.RWMutex
	status Status
}

// NewTracker returns a tracker in the Idle state.
func NewTracker() *Tracker {
	return &Tracker{status: Status{State: StateIdle, Message: "Ready"}}
}

// Current returns the current status (thread-safe).
func (t *Tracker) Current() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// begin transitions Idle or Error to Running and returns true. Returns false
// without any state change when a cycle is already running.
func (t *Tracker) begin(msg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.State == StateRunning {
		return false
	}
	t.status.State = StateRunning
	t.status.Message = msg
	return true
}

// progress overwrites the status message while Running.
func (t *Tracker) progress(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Message = msg
}

// succeed transitions Running to Idle and stamps the completion time.
func (t *Tracker) succeed(msg string, ranAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.State = StateIdle
	t.status.Message = msg
	t.status.LastRun = &ranAt
}

// fail transitions Running to Error, keeping the previous LastRun: the prior
// snapshot remains published and servable.
func (t *Tracker) fail(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.State = StateError
	t.status.Message = msg
}
