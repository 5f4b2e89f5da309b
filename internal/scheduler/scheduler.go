// Package scheduler gates inference dispatch so at most one inference is
// in flight and a cooldown separates consecutive runs.
package scheduler

import (
	"sync"
	"time"
)

// DefaultCooldown is the pause after an inference completes before the
// next frame may be admitted.
const DefaultCooldown = 150 * time.Millisecond

// State is the scheduler's admission state.
type State int

const (
	// StateIdle admits the next frame.
	StateIdle State = iota
	// StateBusy means an inference is in flight.
	StateBusy
	// StateCooling means the cooldown after a completed inference is
	// still running.
	StateCooling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateCooling:
		return "cooling"
	default:
		return "unknown"
	}
}

// Scheduler is a single-flight gate with a completion-anchored cooldown.
// Frames arriving while Busy or Cooling are simply not admitted; the
// stream itself is never paused.
type Scheduler struct {
	mu       sync.Mutex
	state    State
	cooldown time.Duration
	timer    *time.Timer
	stopped  bool
}

// New creates a scheduler in the Idle state.
func New(cooldown time.Duration) *Scheduler {
	return &Scheduler{cooldown: cooldown}
}

// TryAcquire attempts to admit a frame for inference. It returns true and
// moves to Busy only from Idle; in any other state the frame is rejected.
func (s *Scheduler) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.state != StateIdle {
		return false
	}
	s.state = StateBusy
	return true
}

// Release marks the in-flight inference as finished and starts the
// cooldown, measured from now rather than from admission. Calling Release
// outside Busy is a no-op.
func (s *Scheduler) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateBusy {
		return
	}
	if s.stopped || s.cooldown <= 0 {
		s.state = StateIdle
		return
	}

	s.state = StateCooling
	s.timer = time.AfterFunc(s.cooldown, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state == StateCooling {
			s.state = StateIdle
		}
	})
}

// State reports the current admission state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stop cancels any pending cooldown timer and rejects all future
// admissions. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
