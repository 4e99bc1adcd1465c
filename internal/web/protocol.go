package web

import (
	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/input"
)

// Message types. Every message is a msgpack map carrying its type under "t".
const (
	MsgHello = "hello" // server -> page, once after upgrade
	MsgFrame = "frame" // server -> page, whenever a layer changed
	MsgKey   = "key"   // page -> server
)

// Layers of the page, bottom to top.
const (
	LayerBackground = 0
	LayerForeground = 1
)

// Draw operation kinds.
const (
	OpClear = iota
	OpImage
	OpText
)

// Hello describes everything the page needs before the first frame.
type Hello struct {
	T          string       `msgpack:"t"`
	Width      float64      `msgpack:"w"`
	Height     float64      `msgpack:"h"`
	Sprites    []SpriteInfo `msgpack:"sprites"`
	Suppressed []string     `msgpack:"suppressed"` // Keys whose default action the page cancels
}

// SpriteInfo is a sprite as the page rasterises it.
type SpriteInfo struct {
	ID    string   `msgpack:"id"`
	W     int      `msgpack:"w"`
	H     int      `msgpack:"h"`
	Color string   `msgpack:"c"`
	Fill  bool     `msgpack:"f,omitempty"`
	Rows  []string `msgpack:"rows,omitempty"`
}

// Frame carries the draw operations issued since the previous frame.
type Frame struct {
	T      string  `msgpack:"t"`
	Layers []Layer `msgpack:"layers"`
}

// Layer is the op list for one canvas.
type Layer struct {
	Layer int  `msgpack:"l"`
	Ops   []Op `msgpack:"ops"`
}

// Op is one retained draw call. Unused fields are omitted on the wire.
type Op struct {
	Kind   int     `msgpack:"k"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	W      float64 `msgpack:"w,omitempty"`
	H      float64 `msgpack:"h,omitempty"`
	Sprite string  `msgpack:"s,omitempty"`
	Text   string  `msgpack:"txt,omitempty"`
	Color  string  `msgpack:"c,omitempty"`
	Size   float64 `msgpack:"sz,omitempty"`
	Bold   bool    `msgpack:"b,omitempty"`
	Center bool    `msgpack:"ctr,omitempty"`
}

// KeyMsg is a key transition reported by the page.
type KeyMsg struct {
	T    string `msgpack:"t"`
	Key  string `msgpack:"k"`
	Down bool   `msgpack:"d"`
}

// Event converts the message to a key event.
func (m KeyMsg) Event() input.KeyEvent {
	action := input.Release
	if m.Down {
		action = input.Press
	}
	return input.KeyEvent{Key: input.Key(m.Key), Action: action}
}

// NewHello builds the hello message for sheet.
func NewHello(sheet *asset.Sheet, width, height float64) Hello {
	h := Hello{T: MsgHello, Width: width, Height: height}
	for _, id := range sheet.IDs() {
		sp, ok := sheet.Image(id).(*asset.Sprite)
		if !ok {
			continue
		}
		info := SpriteInfo{
			ID:    string(sp.ID),
			W:     sp.W,
			H:     sp.H,
			Color: asset.HexColor(sp.Color),
			Fill:  sp.Fill,
		}
		if !sp.Fill {
			info.Rows = sp.Rows()
		}
		h.Sprites = append(h.Sprites, info)
	}
	for _, k := range []input.Key{input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight, input.KeySpace, input.KeyEnter} {
		if input.Suppressed(k) {
			h.Suppressed = append(h.Suppressed, string(k))
		}
	}
	return h
}
