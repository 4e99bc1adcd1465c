package input

import "github.com/tomz197/pewpew/internal/event"

// Publisher is the part of the event bus the mapper needs.
type Publisher interface {
	Publish(topic event.Topic, payload any)
}

var diagonals = []struct {
	a, b  Key
	topic event.Topic
}{
	{KeyUp, KeyLeft, event.MoveUpLeft},
	{KeyUp, KeyRight, event.MoveUpRight},
	{KeyLeft, KeyDown, event.MoveLeftDown},
	{KeyRight, KeyDown, event.MoveRightDown},
}

var cardinals = map[Key]event.Topic{
	KeyUp:    event.MoveUp,
	KeyDown:  event.MoveDown,
	KeyLeft:  event.MoveLeft,
	KeyRight: event.MoveRight,
}

// Mapper tracks held arrow keys and publishes movement and action topics.
//
// With two arrows held that form a diagonal, every key-down publishes the
// diagonal move. With one arrow held, pressing that arrow publishes its
// cardinal move. Opposite pairs publish nothing. Releasing any arrow
// publishes MoveReleased even if another arrow is still held.
type Mapper struct {
	bus  Publisher
	held map[Key]bool
}

// NewMapper creates a mapper publishing to bus.
func NewMapper(bus Publisher) *Mapper {
	return &Mapper{bus: bus, held: make(map[Key]bool)}
}

// KeyDown handles a press. It returns true when the host should suppress
// the key's default action (scrolling for arrows and space).
func (m *Mapper) KeyDown(k Key) bool {
	if k.Directional() {
		m.held[k] = true
	}

	switch len(m.held) {
	case 2:
		for _, d := range diagonals {
			if m.held[d.a] && m.held[d.b] {
				m.bus.Publish(d.topic, nil)
			}
		}
	case 1:
		if topic, ok := cardinals[k]; ok {
			m.bus.Publish(topic, nil)
		}
	}

	switch k {
	case KeySpace:
		m.bus.Publish(event.Fire, nil)
	case KeyEnter:
		m.bus.Publish(event.Confirm, nil)
	}

	return Suppressed(k)
}

// KeyUp handles a release.
func (m *Mapper) KeyUp(k Key) bool {
	delete(m.held, k)
	if k.Directional() {
		m.bus.Publish(event.MoveReleased, nil)
	}
	return Suppressed(k)
}

// Handle dispatches a raw event to KeyDown or KeyUp.
func (m *Mapper) Handle(ev KeyEvent) bool {
	if ev.Action == Release {
		return m.KeyUp(ev.Key)
	}
	return m.KeyDown(ev.Key)
}

// Reset forgets all held keys.
func (m *Mapper) Reset() {
	clear(m.held)
}

// Suppressed reports whether hosts should cancel k's default action.
func Suppressed(k Key) bool {
	return k.Directional() || k == KeySpace
}

// SuppressedKeys lists every key Suppressed returns true for.
func SuppressedKeys() []Key {
	return []Key{KeyUp, KeyDown, KeyLeft, KeyRight, KeySpace}
}
