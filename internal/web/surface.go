package web

import (
	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/draw"
	"github.com/tomz197/pewpew/internal/physics"
)

// Recorder is a draw.Surface that queues draw calls for the page to replay
// on its retained canvas.
type Recorder struct {
	field physics.Rect
	ops   []Op
}

// NewRecorder creates a recorder for a playfield of the given bounds.
func NewRecorder(field physics.Rect) *Recorder {
	return &Recorder{field: field}
}

// Clear queues a clear. Clearing the whole field drops the ops queued
// before it since the page would erase them anyway.
func (r *Recorder) Clear(region physics.Rect) {
	if region.Contains(r.field) {
		r.ops = r.ops[:0]
	}
	r.ops = append(r.ops, Op{
		Kind: OpClear,
		X:    region.Left,
		Y:    region.Top,
		W:    region.Width(),
		H:    region.Height(),
	})
}

// DrawImage queues a sprite. Images that are not sprites are ignored.
func (r *Recorder) DrawImage(img asset.Image, x, y, w, h float64) {
	sp, ok := img.(*asset.Sprite)
	if !ok {
		return
	}
	r.ops = append(r.ops, Op{Kind: OpImage, X: x, Y: y, W: w, H: h, Sprite: string(sp.ID)})
}

// DrawText queues a text draw.
func (r *Recorder) DrawText(text string, style draw.TextStyle, x, y float64) {
	r.ops = append(r.ops, Op{
		Kind:   OpText,
		X:      x,
		Y:      y,
		Text:   text,
		Color:  asset.HexColor(style.Color),
		Size:   style.Size,
		Bold:   style.Bold,
		Center: style.Align == draw.AlignCenter,
	})
}

// Take returns the queued ops and starts a new queue.
func (r *Recorder) Take() []Op {
	ops := r.ops
	r.ops = nil
	return ops
}

// Pending reports whether any op is queued.
func (r *Recorder) Pending() bool {
	return len(r.ops) > 0
}
