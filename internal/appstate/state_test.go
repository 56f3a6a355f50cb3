package appstate

import "testing"

func TestAdvanceSequence(t *testing.T) {
	s := New()

	if s.Phase() != Idle {
		t.Fatalf("initial phase = %v, want idle", s.Phase())
	}
	if s.Capturing() || s.Grabbing() {
		t.Error("idle state must not capture or grab")
	}

	if got := s.Advance(); got != Capturing {
		t.Fatalf("first advance = %v, want capturing", got)
	}
	if !s.Capturing() || s.Grabbing() {
		t.Error("capturing state: Capturing()=true, Grabbing()=false expected")
	}

	if got := s.Advance(); got != Grabbing {
		t.Fatalf("second advance = %v, want grabbing", got)
	}
	if !s.Capturing() || !s.Grabbing() {
		t.Error("grabbing state must both capture and grab")
	}

	if got := s.Advance(); got != Stopped {
		t.Fatalf("third advance = %v, want stopped", got)
	}
	if s.Capturing() || s.Grabbing() {
		t.Error("stopped state must not capture or grab")
	}

	// Stopped is terminal for Advance.
	if got := s.Advance(); got != Stopped {
		t.Errorf("advance past stopped = %v, want stopped", got)
	}
}

func TestStopFromAnyPhase(t *testing.T) {
	for _, setup := range []int{0, 1, 2} {
		s := New()
		for i := 0; i < setup; i++ {
			s.Advance()
		}
		s.Stop()
		if s.Phase() != Stopped {
			t.Errorf("Stop after %d advances left phase %v", setup, s.Phase())
		}
	}
}

func TestPhaseString(t *testing.T) {
	if Idle.String() != "idle" || Grabbing.String() != "grabbing" {
		t.Error("unexpected phase names")
	}
}
