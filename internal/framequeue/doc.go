// Package framequeue implements the fan-out handoff between the grabber
// and its consumers: one unbounded FIFO queue per consumer, and a set
// that pushes every distributed frame into all registered queues in
// registration order.
//
// Unlike a drop-frames mailbox, a queue never discards: Get blocks until
// an item is available or the queue is closed. The no-drop policy is what
// a recording consumer needs; latency-sensitive consumers simply keep up
// or watch their queue depth grow in Stats.
//
// Registration is a one-time setup phase. Registering while the producer
// is distributing is unsupported.
package framequeue
