package draw

import (
	"image/color"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/physics"
)

// Align is the horizontal anchor of drawn text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// TextStyle describes how text is drawn. Size is in playfield pixels;
// terminals ignore it.
type TextStyle struct {
	Color color.RGBA
	Size  float64
	Bold  bool
	Align Align
}

// Surface is a retained drawing target: what is drawn stays until cleared.
// Coordinates are playfield pixels. Text y is the baseline.
type Surface interface {
	Clear(region physics.Rect)
	DrawImage(img asset.Image, x, y, w, h float64)
	DrawText(text string, style TextStyle, x, y float64)
}

// Overlay is text placed on a canvas surface.
type Overlay struct {
	Text  string
	Style TextStyle
	X, Y  float64
}

type imageOp struct {
	sprite     *asset.Sprite
	x, y, w, h float64
}

// CanvasSurface draws images into a terminal canvas and keeps text as
// overlays printed on top of it. Drawn images are remembered until cleared
// so they survive a terminal resize.
//
// Fill sprites (solid backdrops) are skipped: the terminal's own background
// stands in for them.
type CanvasSurface struct {
	canvas   *Canvas
	ops      []imageOp
	overlays []Overlay
}

// NewCanvasSurface wraps c.
func NewCanvasSurface(c *Canvas) *CanvasSurface {
	return &CanvasSurface{canvas: c}
}

// Canvas returns the wrapped canvas.
func (s *CanvasSurface) Canvas() *Canvas {
	return s.canvas
}

// Clear resets the region's pixels and forgets the images touching it and
// the overlays anchored inside it.
func (s *CanvasSurface) Clear(region physics.Rect) {
	s.canvas.ClearRect(region)

	ops := s.ops[:0]
	for _, op := range s.ops {
		if !physics.Intersects(region, physics.RectAt(op.x, op.y, op.w, op.h)) {
			ops = append(ops, op)
		}
	}
	clear(s.ops[len(ops):])
	s.ops = ops

	kept := s.overlays[:0]
	for _, o := range s.overlays {
		if !region.ContainsPoint(o.X, o.Y) {
			kept = append(kept, o)
		}
	}
	s.overlays = kept
}

// DrawImage draws a sprite. Images that are not sprites are ignored.
func (s *CanvasSurface) DrawImage(img asset.Image, x, y, w, h float64) {
	sp, ok := img.(*asset.Sprite)
	if !ok || sp.Fill {
		return
	}
	s.ops = append(s.ops, imageOp{sprite: sp, x: x, y: y, w: w, h: h})
	s.canvas.DrawSprite(sp, x, y, w, h)
}

// Resize resizes the canvas and redraws the remembered images if the size
// changed.
func (s *CanvasSurface) Resize(termWidth, termHeight int) {
	if !s.canvas.Resize(termWidth, termHeight) {
		return
	}
	for _, op := range s.ops {
		s.canvas.DrawSprite(op.sprite, op.x, op.y, op.w, op.h)
	}
}

// SetOffset moves the canvas within the terminal.
func (s *CanvasSurface) SetOffset(col, row int) {
	s.canvas.SetOffset(col, row)
}

// DrawText records a text overlay.
func (s *CanvasSurface) DrawText(text string, style TextStyle, x, y float64) {
	s.overlays = append(s.overlays, Overlay{Text: text, Style: style, X: x, Y: y})
}

// Overlays returns the current text overlays in draw order.
func (s *CanvasSurface) Overlays() []Overlay {
	return s.overlays
}

// Render writes the canvas pixels to w.
func (s *CanvasSurface) Render(w *ChunkWriter) {
	s.canvas.Render(w)
}

// RenderText prints the overlays through tr, clipped to the canvas.
func (s *CanvasSurface) RenderText(w *ChunkWriter, tr *TextRenderer) {
	for _, o := range s.overlays {
		col, row := s.canvas.LogicalToTerminal(o.X, o.Y)
		text := clipText(o.Text, o.Style.Align, col, s.canvas.TerminalWidth())
		if text == "" || row < 1 || row > s.canvas.TerminalHeight() {
			continue
		}
		if o.Style.Align == AlignCenter {
			col -= len([]rune(o.Text)) / 2
		}
		w.WriteAt(max(col, 1), row, tr.Render(text, o.Style))
	}
}

// clipText trims text that would run past the canvas edge.
func clipText(text string, align Align, col, width int) string {
	runes := []rune(text)
	start := col
	if align == AlignCenter {
		start -= len(runes) / 2
	}
	if start < 1 {
		skip := min(1-start, len(runes))
		runes = runes[skip:]
		start = 1
	}
	if room := width - start + 1; room < len(runes) {
		runes = runes[:max(room, 0)]
	}
	return string(runes)
}
