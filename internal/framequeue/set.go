package framequeue

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/piyush-malaviya/4dvideo/internal/frame"
)

// Set is the fan-out queue set held by the grabber: every distributed
// frame is pushed, once, into each registered queue as an independently
// owned reference.
//
// Register is a one-time setup phase before the producer loop runs; the
// member list is write-once and only iterated afterwards. Distribute is
// called from the single producer goroutine, so frame K reaches every
// queue before frame K+1 reaches any.
type Set struct {
	members []member

	distributed atomic.Uint64
}

type member struct {
	id    string
	queue *Queue
}

// NewSet creates an empty queue set.
func NewSet() *Set {
	return &Set{}
}

// Register adds a consumer queue under the given id. An empty id gets a
// generated one. Returns the id actually used (the Stats key).
//
// Not safe to call concurrently with Distribute.
func (s *Set) Register(id string, q *Queue) string {
	if id == "" {
		id = uuid.NewString()
	}
	s.members = append(s.members, member{id: id, queue: q})
	return id
}

// Distribute pushes one reference to the frame into every registered
// queue, in registration order.
func (s *Set) Distribute(f *frame.Frame) {
	for _, m := range s.members {
		m.queue.Put(f)
	}
	s.distributed.Add(1)
}

// CloseAll closes every registered queue, waking blocked consumers.
func (s *Set) CloseAll() {
	for _, m := range s.members {
		m.queue.Close()
	}
}

// SetStats is a snapshot of the set and its member queues.
type SetStats struct {
	// Distributed is the number of Distribute calls.
	Distributed uint64
	// Queues maps consumer id to that queue's counters.
	Queues map[string]QueueStats
}

// Stats returns a snapshot across all registered queues.
func (s *Set) Stats() SetStats {
	st := SetStats{
		Distributed: s.distributed.Load(),
		Queues:      make(map[string]QueueStats, len(s.members)),
	}
	for _, m := range s.members {
		st.Queues[m.id] = m.queue.Stats()
	}
	return st
}
