package draw

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/physics"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x], zero when empty

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	renderBuf strings.Builder // Buffer for batching render output
}

// NewCanvas creates a canvas for the given terminal dimensions.
// The canvas has 2x vertical resolution (height*2 sub-pixels).
// No scaling is applied (1:1 mapping).
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	subPixelHeight := termHeight * 2
	return &Canvas{
		termWidth:      termWidth,
		termHeight:     termHeight,
		subPixelHeight: subPixelHeight,
		pixels:         make([]Color, subPixelHeight*termWidth),
		logicalWidth:   logicalWidth,
		logicalHeight:  logicalHeight,
		scaleX:         float64(termWidth) / logicalWidth,
		scaleY:         float64(subPixelHeight) / logicalHeight,
	}
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// Pixels are dropped when the size changes; callers redraw retained content.
func (c *Canvas) Resize(termWidth, termHeight int) bool {
	subPixelHeight := termHeight * 2
	changed := termWidth != c.termWidth || termHeight != c.termHeight

	if changed {
		c.pixels = make([]Color, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
	return changed
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ClearRect resets every pixel the logical rectangle touches.
func (c *Canvas) ClearRect(r physics.Rect) {
	x0, x1 := c.span(r.Left, r.Right, c.scaleX, c.termWidth)
	y0, y1 := c.span(r.Top, r.Bottom, c.scaleY, c.subPixelHeight)
	if x0 >= x1 {
		return
	}
	for y := y0; y < y1; y++ {
		clear(c.pixels[y*c.termWidth+x0 : y*c.termWidth+x1])
	}
}

// span converts a logical interval to a clamped half-open pixel interval
// covering at least one pixel.
func (c *Canvas) span(from, to, scale float64, limit int) (int, int) {
	p0 := int(math.Floor(from * scale))
	p1 := int(math.Ceil(to * scale))
	if p1 <= p0 {
		p1 = p0 + 1
	}
	return max(p0, 0), min(p1, limit)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// At returns the pixel at actual terminal coordinates.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0
	}
	return c.pixels[y*c.termWidth+x]
}

// DrawSprite stretches the sprite's mask over the logical rectangle. The mask
// is sampled once per covered pixel, so even sprites smaller than a pixel
// leave a mark.
func (c *Canvas) DrawSprite(s *asset.Sprite, x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	x0 := int(math.Floor(x * c.scaleX))
	x1 := max(int(math.Ceil((x+w)*c.scaleX)), x0+1)
	y0 := int(math.Floor(y * c.scaleY))
	y1 := max(int(math.Ceil((y+h)*c.scaleY)), y0+1)

	ink := FromRGBA(s.Color)
	pw, ph := float64(x1-x0), float64(y1-y0)
	for py := y0; py < y1; py++ {
		v := (float64(py-y0) + 0.5) / ph
		for px := x0; px < x1; px++ {
			u := (float64(px-x0) + 0.5) / pw
			if s.At(u, v) {
				c.setPixel(px, py, ink)
			}
		}
	}
}

// Render outputs the canvas to the writer using coloured half-block characters.
// Empty cells are skipped so a canvas rendered after another only covers
// what it draws. Runs of adjacent cells share a single cursor move.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 8)

	var fg, bg Color
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		cursor := -1 // column the cursor sits on after the last write

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			if !top.IsSet() && !bottom.IsSet() {
				continue // Skip empty cells
			}

			var ch rune
			var wantFG, wantBG Color
			switch {
			case top == bottom:
				ch, wantFG = BlockFull, top
			case !bottom.IsSet():
				ch, wantFG = BlockUpperHalf, top
			case !top.IsSet():
				ch, wantFG = BlockLowerHalf, bottom
			default:
				ch, wantFG, wantBG = BlockUpperHalf, top, bottom
			}

			if col != cursor {
				fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, col+1+c.offsetCol)
			}
			if wantFG != fg {
				r, g, b := wantFG.Components()
				fmt.Fprintf(&c.renderBuf, "\033[38;2;%d;%d;%dm", r, g, b)
				fg = wantFG
			}
			if wantBG != bg {
				if wantBG.IsSet() {
					r, g, b := wantBG.Components()
					fmt.Fprintf(&c.renderBuf, "\033[48;2;%d;%d;%dm", r, g, b)
				} else {
					c.renderBuf.WriteString("\033[49m")
				}
				bg = wantBG
			}
			c.renderBuf.WriteRune(ch)
			cursor = col + 1
		}
	}
	if fg.IsSet() || bg.IsSet() {
		c.renderBuf.WriteString(seqReset)
	}

	io.WriteString(w, c.renderBuf.String())
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	buf.Grow((c.termWidth+2)*2 + c.termHeight*2*12)

	if hasV {
		line := strings.Repeat("─", c.termWidth)
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			// No horizontal borders, side bars span full canvas height
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}
