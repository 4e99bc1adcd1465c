package loop

import "time"

// Scheduler runs a callback once before the host's next repaint.
type Scheduler interface {
	RequestFrame(fn func(now time.Time))
}

// FrameQueue is a Scheduler for hosts that drive their own frame clock
// (terminal loops, websocket tickers, ebiten's Update). It is not safe for
// concurrent use; the goroutine that owns the game calls both methods.
type FrameQueue struct {
	pending []func(now time.Time)
}

// RequestFrame queues fn for the next Run.
func (q *FrameQueue) RequestFrame(fn func(now time.Time)) {
	q.pending = append(q.pending, fn)
}

// Run invokes the callbacks queued before it was called and returns how many
// ran. Callbacks requested while running wait for the next Run.
func (q *FrameQueue) Run(now time.Time) int {
	fns := q.pending
	q.pending = nil
	for _, fn := range fns {
		fn(now)
	}
	return len(fns)
}

// Pending reports how many callbacks wait for the next Run.
func (q *FrameQueue) Pending() int {
	return len(q.pending)
}
