package input

import "time"

// Repeat emulates keyboard auto-repeat for hosts that only report key state:
// the first repeat comes Delay after the press, then one every Interval.
type Repeat struct {
	Delay    time.Duration
	Interval time.Duration
}

// Due reports whether a repeat falls within the last tick of a key that has
// now been held for held.
func (r Repeat) Due(held, tick time.Duration) bool {
	if held < r.Delay || r.Interval <= 0 {
		return false
	}
	prev := held - tick
	if prev < r.Delay {
		return true
	}
	return (held-r.Delay)/r.Interval != (prev-r.Delay)/r.Interval
}

// Aliases tracks physical keys bound to game keys, where several physical
// keys may share one Key (WASD and the arrows). A Key is released only when
// the last of its physical keys goes up.
type Aliases[P comparable] struct {
	bindings map[P]Key
	down     map[P]bool
}

// NewAliases creates a tracker for the given bindings.
func NewAliases[P comparable](bindings map[P]Key) *Aliases[P] {
	return &Aliases[P]{bindings: bindings, down: make(map[P]bool)}
}

// Lookup returns the Key bound to p.
func (a *Aliases[P]) Lookup(p P) (Key, bool) {
	k, ok := a.bindings[p]
	return k, ok
}

// Press records p as held and returns its Key.
func (a *Aliases[P]) Press(p P) (Key, bool) {
	k, ok := a.bindings[p]
	if ok {
		a.down[p] = true
	}
	return k, ok
}

// Release records p as up. It reports the Key and whether it is now fully
// released, false while another physical key bound to it is still held.
func (a *Aliases[P]) Release(p P) (Key, bool) {
	k, ok := a.bindings[p]
	if !ok || !a.down[p] {
		return k, false
	}
	delete(a.down, p)
	for other := range a.down {
		if a.bindings[other] == k {
			return k, false
		}
	}
	return k, true
}
