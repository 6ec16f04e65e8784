// Package throttle rate-limits how often the parse+diff pipeline runs
// while streamed text is arriving in rapid bursts. Submissions faster than
// the configured interval are coalesced: when the interval elapses only the
// most recent accumulated text is delivered, never a stale intermediate
// snapshot, and never more than once per interval.
package throttle

import (
	"sync"
	"time"
)

// DefaultInterval is a comfortable repaint rate for terminal streaming.
const DefaultInterval = 50 * time.Millisecond

// Scheduler coalesces bursts of Submit calls into at-most-one callback
// invocation per interval. A single timer is armed at a time; callbacks are
// serialized but may run on the timer goroutine.
type Scheduler struct {
	interval time.Duration
	fn       func(text string)

	runMu sync.Mutex // serializes fn invocations

	mu      sync.Mutex
	timer   *time.Timer
	latest  string
	seen    bool // any text submitted since creation
	pending bool // latest not yet delivered
	lastRun time.Time
	stopped bool
}

// New creates a scheduler that invokes fn with the most recent submitted
// text at most once per interval. A non-positive interval falls back to
// DefaultInterval.
func New(interval time.Duration, fn func(text string)) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, fn: fn}
}

// Submit records the latest accumulated text. If the interval has already
// elapsed since the last delivery the callback runs immediately on the
// calling goroutine; otherwise a trailing-edge timer delivers whatever text
// is newest when it fires.
func (s *Scheduler) Submit(text string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.latest = text
	s.seen = true
	s.pending = true

	if s.timer != nil {
		// A delivery is already scheduled; it will pick up this text.
		s.mu.Unlock()
		return
	}

	if wait := s.interval - time.Since(s.lastRun); wait > 0 {
		s.timer = time.AfterFunc(wait, s.fire)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.deliver()
}

// fire is the timer callback.
func (s *Scheduler) fire() {
	s.mu.Lock()
	s.timer = nil
	if s.stopped || !s.pending {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.deliver()
}

// deliver hands the newest text to the callback at most once.
func (s *Scheduler) deliver() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	text := s.latest
	s.pending = false
	s.lastRun = time.Now()
	s.mu.Unlock()

	s.fn(text)
}

// Flush delivers the latest text synchronously, bypassing the throttle.
// It always runs the callback when any text has ever been submitted, even
// if that text was already delivered, so the terminal state after stream
// completion is exact. Pending timers are cancelled.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.stopped || !s.seen {
		s.mu.Unlock()
		return
	}
	text := s.latest
	s.pending = false
	s.lastRun = time.Now()
	s.mu.Unlock()

	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.fn(text)
}

// Stop cancels any scheduled delivery and ignores further submissions.
// Results already delivered remain valid; Stop never runs the callback.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.stopped = true
	s.pending = false
}
