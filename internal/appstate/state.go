// Package appstate holds the capture/grab mode shared between the input
// event handler and the grabber.
//
// The state is an explicit object handed to both sides; there is no
// ambient singleton. Space advances Idle → Capturing → Grabbing →
// Stopped; escape stops from any phase.
package appstate

import "sync"

// Phase is the capture lifecycle phase.
type Phase int

const (
	// Idle: frames are acquired but not distributed.
	Idle Phase = iota
	// Capturing: frames flow to consumers.
	Capturing
	// Grabbing: frames flow and the visualizer records to disk.
	Grabbing
	// Stopped: capture ended, pending shutdown.
	Stopped
)

// String implements fmt.Stringer for log output.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Capturing:
		return "capturing"
	case Grabbing:
		return "grabbing"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State is the mutex-protected capture mode. The zero value is Idle.
type State struct {
	mu    sync.Mutex
	phase Phase
}

// New creates a state in the Idle phase.
func New() *State {
	return &State{}
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Capturing reports whether frames should flow to consumers.
func (s *State) Capturing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == Capturing || s.phase == Grabbing
}

// Grabbing reports whether recording is enabled.
func (s *State) Grabbing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == Grabbing
}

// Advance is the space-key transition: Idle → Capturing → Grabbing →
// Stopped. Advancing a Stopped state stays Stopped. Returns the new
// phase.
func (s *State) Advance() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case Idle:
		s.phase = Capturing
	case Capturing:
		s.phase = Grabbing
	case Grabbing:
		s.phase = Stopped
	}
	return s.phase
}

// Stop forces the Stopped phase from anywhere (escape key, signals).
func (s *State) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Stopped
}
