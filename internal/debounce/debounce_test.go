package debounce

import (
	"testing"
	"time"
)

func TestNew_DefaultQuiet(t *testing.T) {
	if got := New(0).Quiet(); got != DefaultQuiet {
		t.Fatalf("Quiet = %v, want %v", got, DefaultQuiet)
	}
	if got := New(200 * time.Millisecond).Quiet(); got != 200*time.Millisecond {
		t.Fatalf("Quiet = %v, want 200ms", got)
	}
}

// Keystrokes at t=0, 100, 200 and 600ms with final text "X": the first
// three schedules are superseded before their quiet period elapses, so
// exactly one commit happens, carrying "X".
func TestDebouncer_OnlyLatestSequenceCommits(t *testing.T) {
	d := New(DefaultQuiet)

	s1 := d.Trigger("f")
	s2 := d.Trigger("fo")
	s3 := d.Trigger("foo")
	s4 := d.Trigger("X")

	commits := 0
	for _, seq := range []int{s1, s2, s3} {
		if text, ok := d.Commit(seq); ok {
			t.Fatalf("stale seq %d committed %q", seq, text)
		}
	}
	text, ok := d.Commit(s4)
	if !ok {
		t.Fatalf("latest seq did not commit")
	}
	commits++
	if text != "X" {
		t.Fatalf("committed %q, want %q", text, "X")
	}

	// The same sequence cannot commit twice.
	if _, ok := d.Commit(s4); ok {
		t.Fatalf("sequence committed twice")
	}
	if commits != 1 {
		t.Fatalf("commits = %d, want exactly 1", commits)
	}
}

func TestDebouncer_CancelDropsPendingCommit(t *testing.T) {
	d := New(DefaultQuiet)

	seq := d.Trigger("abandoned")
	d.Cancel()
	if text, ok := d.Commit(seq); ok {
		t.Fatalf("cancelled commit resolved %q", text)
	}

	// A trigger after cancel works normally.
	seq = d.Trigger("fresh")
	if text, ok := d.Commit(seq); !ok || text != "fresh" {
		t.Fatalf("Commit = %q %v, want fresh true", text, ok)
	}
}
