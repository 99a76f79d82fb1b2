// internal/message/message.go
//
// Feedback Desk – visitor notices.
//
// Context
//   After a submit attempt the page shows one notice: a success confirmation
//   or an error.  Success notices close on their own after a short TTL; error
//   notices stay until the visitor closes them or edits the form.  The timer
//   belongs to this UI-side Flash, never to the form controller.
//
// Workflow
//   •  Show replaces the current notice and cancels any pending timer.
//   •  A success notice arms a time.AfterFunc that clears it on expiry.
//   •  Dismiss clears immediately.  Close is the teardown hook called when the
//      owning session is evicted; it stops the timer for good.
//
//------------------------------------------------------------------------------

package message

import (
	"sync"
	"time"
)

// Kind selects notice styling and expiry behaviour.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultTTL is how long a success notice stays up.
const DefaultTTL = 2 * time.Second

// Notice is one visitor-facing message.
type Notice struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Success builds a success notice.
func Success(text string) Notice { return Notice{Kind: KindSuccess, Text: text} }

// Error builds an error notice.
func Error(text string) Notice { return Notice{Kind: KindError, Text: text} }

// Flash holds at most one notice.  Safe for concurrent use.
type Flash struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notice
	timer   *time.Timer
	gen     uint64 // bumped on every change; stale timers compare and bail
	closed  bool
}

// NewFlash returns an empty Flash whose success notices expire after ttl.
// ttl <= 0 disables auto-dismiss.
func NewFlash(ttl time.Duration) *Flash {
	return &Flash{ttl: ttl}
}

// Show replaces the current notice.  Any pending expiry is cancelled first.
func (f *Flash) Show(n Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}

	f.stopLocked()
	f.current = &n

	if n.Kind == KindSuccess && f.ttl > 0 {
		gen := f.gen
		f.timer = time.AfterFunc(f.ttl, func() { f.expire(gen) })
	}
}

// Current returns the visible notice, if any.
func (f *Flash) Current() (Notice, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return Notice{}, false
	}
	return *f.current, true
}

// Dismiss clears the notice and cancels its timer.
func (f *Flash) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
	f.current = nil
}

// Close dismisses and rejects further notices.
func (f *Flash) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
	f.current = nil
	f.closed = true
}

// Pending reports whether an expiry timer is armed.
func (f *Flash) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timer != nil
}

func (f *Flash) expire(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return // superseded after the timer fired but before we got the lock
	}
	f.current = nil
	f.timer = nil
	f.gen++
}

// stopLocked cancels the pending timer and invalidates its callback.
func (f *Flash) stopLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.gen++
}
