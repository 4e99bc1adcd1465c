// Package input turns raw key events into game intents.
package input

import (
	"io"
	"time"
)

// Key identifies a key by its DOM key name, so browser events map 1:1.
type Key string

const (
	KeyUp    Key = "ArrowUp"
	KeyDown  Key = "ArrowDown"
	KeyLeft  Key = "ArrowLeft"
	KeyRight Key = "ArrowRight"
	KeySpace Key = " "
	KeyEnter Key = "Enter"
)

// directionalKeys in a fixed order for deterministic iteration.
var directionalKeys = [...]Key{KeyUp, KeyDown, KeyLeft, KeyRight}

// Directional reports whether k is an arrow key.
func (k Key) Directional() bool {
	return k == KeyUp || k == KeyDown || k == KeyLeft || k == KeyRight
}

// Action distinguishes presses from releases.
type Action int

const (
	Press Action = iota
	Release
)

// KeyEvent is one raw key transition.
type KeyEvent struct {
	Key    Key
	Action Action
}

// Stream delivers terminal input bytes via a channel and turns them into key
// events. Terminals report presses (and auto-repeats) but never releases, so
// a directional key counts as released once it has not repeated for the
// release window.
type Stream struct {
	ch           chan byte
	closed       bool
	quit         bool
	pending      []byte            // Incomplete escape sequence from the last read
	lastSeen     map[Key]time.Time // Held directional keys
	releaseAfter time.Duration
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.ByteReader, releaseAfter time.Duration) *Stream {
	s := newStream(releaseAfter)
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream(releaseAfter time.Duration) *Stream {
	return &Stream{
		ch:           make(chan byte, 128),
		lastSeen:     make(map[Key]time.Time),
		releaseAfter: releaseAfter,
	}
}

// Quit reports whether the user asked to leave (q, Ctrl-C) or input ended.
func (s *Stream) Quit() bool {
	return s.quit || s.closed
}

// ReadEvents drains all available bytes (non-blocking) and returns the key
// events they encode in arrival order, followed by synthetic releases for
// held keys whose window expired at now.
func (s *Stream) ReadEvents(now time.Time) []KeyEvent {
	buf := s.pending
	s.pending = nil
	fresh := 0

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
			fresh++
		default:
			break drain
		}
	}

	var events []KeyEvent
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			// CSI (ESC [) or SS3 (ESC O) cursor keys.
			if i+2 >= len(buf) {
				if fresh > 0 {
					s.pending = append(s.pending, buf[i:]...)
				}
				break
			}
			if buf[i+1] == '[' || buf[i+1] == 'O' {
				if k, ok := arrowKey(buf[i+2]); ok {
					events = s.press(events, k, now)
				}
				i += 2
			}
			continue
		}

		switch b {
		case 'q', 'Q', '\x03':
			s.quit = true
		case 'w', 'W', 'i', 'I':
			events = s.press(events, KeyUp, now)
		case 's', 'S', 'k', 'K':
			events = s.press(events, KeyDown, now)
		case 'a', 'A', 'j', 'J':
			events = s.press(events, KeyLeft, now)
		case 'd', 'D', 'l', 'L':
			events = s.press(events, KeyRight, now)
		case ' ':
			events = append(events, KeyEvent{Key: KeySpace, Action: Press})
		case '\r', '\n':
			events = append(events, KeyEvent{Key: KeyEnter, Action: Press})
		}
	}

	for _, k := range directionalKeys {
		seen, held := s.lastSeen[k]
		if held && now.Sub(seen) >= s.releaseAfter {
			delete(s.lastSeen, k)
			events = append(events, KeyEvent{Key: k, Action: Release})
		}
	}
	return events
}

func (s *Stream) press(events []KeyEvent, k Key, now time.Time) []KeyEvent {
	s.lastSeen[k] = now
	return append(events, KeyEvent{Key: k, Action: Press})
}

func arrowKey(code byte) (Key, bool) {
	switch code {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return "", false
}
