package object

import "time"

// Interval accumulates frame time and reports whole periods, replacing a
// repeating timer.
type Interval struct {
	Period  time.Duration
	elapsed time.Duration
	stopped bool
}

// NewInterval returns a running interval.
func NewInterval(period time.Duration) Interval {
	return Interval{Period: period}
}

// Advance adds d and returns the number of periods that completed.
// A stopped interval never completes.
func (i *Interval) Advance(d time.Duration) int {
	if i.stopped || i.Period <= 0 {
		return 0
	}
	i.elapsed += d
	n := int(i.elapsed / i.Period)
	i.elapsed -= time.Duration(n) * i.Period
	return n
}

// Stop cancels the interval.
func (i *Interval) Stop() {
	i.stopped = true
	i.elapsed = 0
}

// Restart starts counting a fresh period.
func (i *Interval) Restart() {
	i.stopped = false
	i.elapsed = 0
}

// Stopped reports whether the interval was cancelled.
func (i *Interval) Stopped() bool {
	return i.stopped
}

// Countdown fires once after a duration, replacing a one-shot timer.
type Countdown struct {
	remaining time.Duration
	active    bool
}

// Start (re)arms the countdown.
func (c *Countdown) Start(d time.Duration) {
	c.remaining = d
	c.active = true
}

// Advance subtracts d and returns true exactly once, when the countdown
// reaches zero.
func (c *Countdown) Advance(d time.Duration) bool {
	if !c.active {
		return false
	}
	c.remaining -= d
	if c.remaining <= 0 {
		c.active = false
		return true
	}
	return false
}

// Active reports whether the countdown is armed.
func (c *Countdown) Active() bool {
	return c.active
}
