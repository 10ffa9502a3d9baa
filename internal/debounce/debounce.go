// Package debounce coalesces rapid input events into a single committed
// value after a quiet period.
//
// The timer itself lives with the caller (the UI schedules a tea.Tick
// for Quiet() and delivers the sequence number back); this package only
// decides which scheduled commit is still live. That split keeps the
// commit rules deterministic under test without faking clocks.
package debounce

import "time"

// DefaultQuiet is the quiet period between the last keystroke and the
// committed search term.
const DefaultQuiet = 500 * time.Millisecond

// Debouncer tracks the latest pending input. Each Trigger supersedes
// whatever was pending; only the newest sequence may commit.
// Not safe for concurrent use; it belongs to the UI event loop.
type Debouncer struct {
	quiet   time.Duration
	seq     int
	pending string
	armed   bool
}

// New returns a Debouncer with the given quiet period. Zero or negative
// means DefaultQuiet.
func New(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{quiet: quiet}
}

// Quiet returns the quiet period the caller should wait before
// delivering the sequence back to Commit.
func (d *Debouncer) Quiet() time.Duration {
	return d.quiet
}

// Trigger records a new raw input and returns its sequence number. Any
// previously pending commit is cancelled by virtue of its sequence
// going stale.
func (d *Debouncer) Trigger(text string) int {
	d.seq++
	d.pending = text
	d.armed = true
	return d.seq
}

// Commit resolves a scheduled sequence. It returns the committed text
// only when seq is the latest trigger and no Cancel intervened; stale
// sequences report ok=false and must not cause a fetch.
func (d *Debouncer) Commit(seq int) (string, bool) {
	if !d.armed || seq != d.seq {
		return "", false
	}
	d.armed = false
	return d.pending, true
}

// Cancel discards any pending commit. Called on view teardown so a
// timer firing afterwards acts on nothing.
func (d *Debouncer) Cancel() {
	d.armed = false
	d.pending = ""
}
