package framequeue

import (
	"sync"
	"time"

	"github.com/piyush-malaviya/4dvideo/internal/frame"
)

// Queue is an unbounded FIFO frame queue for a single consumer.
//
// Semantics:
//   - Put appends and never blocks (no capacity bound is assumed).
//   - Get blocks until an item is available or the queue is closed;
//     a closed, drained queue yields (nil, false).
//   - Single producer, single consumer per queue; Put and Get are
//     nonetheless mutex-protected and safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*frame.Frame
	closed bool

	// stats, guarded by mu
	puts     uint64
	gets     uint64
	maxDepth int
}

// NewQueue creates an empty open queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends a frame. Frames put after Close are silently dropped,
// mirroring the shutdown behavior consumers see from Get.
func (q *Queue) Put(f *frame.Frame) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.items = append(q.items, f)
	q.puts++
	if len(q.items) > q.maxDepth {
		q.maxDepth = len(q.items)
	}
	q.cond.Signal()
}

// Get blocks until a frame is available and returns it in FIFO order.
// Returns (nil, false) once the queue is closed and drained; the nil
// result is the consumer's shutdown signal.
func (q *Queue) Get() (*frame.Frame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		if q.closed {
			return nil, false
		}
		q.cond.Wait()
	}

	return q.takeLocked(), true
}

// GetWithin behaves like Get but gives up after the timeout, returning
// (nil, true). The false return still means "closed". Used by consumers
// that must interleave other work (event servicing) with fetching.
func (q *Queue) GetWithin(timeout time.Duration) (*frame.Frame, bool) {
	deadline := time.Now().Add(timeout)

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		if q.closed {
			return nil, false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, true
		}

		// sync.Cond has no timed wait; arrange a wake-up and block.
		timer := time.AfterFunc(remaining, func() {
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		})
		q.cond.Wait()
		timer.Stop()
	}

	return q.takeLocked(), true
}

func (q *Queue) takeLocked() *frame.Frame {
	f := q.items[0]
	q.items[0] = nil // release the reference held by the backing array
	q.items = q.items[1:]
	q.gets++
	return f
}

// Close wakes all blocked Gets and makes further Gets return
// (nil, false) once the queue drains. Idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// QueueStats is a snapshot of one queue's counters.
type QueueStats struct {
	// Puts is the number of frames delivered into the queue.
	Puts uint64
	// Gets is the number of frames fetched by the consumer.
	Gets uint64
	// Depth is the number of frames currently waiting.
	Depth int
	// MaxDepth is the high-water mark of Depth.
	MaxDepth int
}

// Stats returns a snapshot of the queue's counters.
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return QueueStats{
		Puts:     q.puts,
		Gets:     q.gets,
		Depth:    len(q.items),
		MaxDepth: q.maxDepth,
	}
}
