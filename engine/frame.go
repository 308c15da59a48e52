package engine

import "time"

// Frame carries the timing of a single control cycle.
// Now is the caller-supplied monotonic time since the session started and
// Delta is the time elapsed since the previous cycle (never negative).
type Frame struct {
	Now   time.Duration
	Delta time.Duration
}

func newFrame(now, last time.Duration) *Frame {
	delta := now - last
	if delta < 0 {
		delta = 0
	}
	return &Frame{
		Now:   now,
		Delta: delta,
	}
}
