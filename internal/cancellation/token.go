// Package cancellation provides the shared cooperative shutdown signal
// consumed by every pipeline loop.
//
// The token is polled at loop-iteration boundaries only. Blocking calls
// (sensor acquire, queue fetch) are never interrupted mid-wait; worst-case
// shutdown latency is one bounded wait plus one in-flight processing step.
package cancellation

import "sync"

// Token is a one-shot, process-wide cancellation signal.
//
// Semantics:
//   - Trigger() is idempotent; the first call wins.
//   - Triggered() is a cheap poll for loop-iteration checks.
//   - Done() can be selected on by goroutines that multiplex channels.
//
// Thread-safety: all methods safe for concurrent use.
type Token struct {
	once sync.Once
	done chan struct{}
}

// NewToken creates an untriggered token.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Trigger signals cancellation. Safe to call multiple times.
func (t *Token) Trigger() {
	t.once.Do(func() { close(t.done) })
}

// Triggered reports whether Trigger has been called.
func (t *Token) Triggered() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed on the first Trigger call.
func (t *Token) Done() <-chan struct{} {
	return t.done
}
