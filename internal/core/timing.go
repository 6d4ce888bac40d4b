package core

import "time"

// timing is a flat event log of named milestones, not a message-driven
// sub-machine: the driver calls its methods directly (there's no
// queued event type for it) to record when something happened, purely
// for diagnostics. Grounded on original_source/src/core.rs's timing
// module, which plays the same role in the reference implementation.
type timing struct {
	start time.Time
	marks []timingMark
}

type timingMark struct {
	Name string
	At   time.Duration
}

func newTiming() timing {
	return timing{start: time.Now()}
}

func (t *timing) mark(name string) {
	t.marks = append(t.marks, timingMark{Name: name, At: time.Since(t.start)})
}

// Marks returns every milestone recorded so far, in order.
func (t *timing) Marks() []timingMark {
	return append([]timingMark(nil), t.marks...)
}
