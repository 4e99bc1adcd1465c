// Package draw renders the playfield to terminals and defines the surface
// interface every frontend implements.
package draw

import "image/color"

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a packed 24-bit pixel colour. The zero value is an empty pixel,
// so black is still distinguishable from nothing.
type Color uint32

const colorSet Color = 1 << 24

// RGB packs a colour.
func RGB(r, g, b uint8) Color {
	return colorSet | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// FromRGBA packs c, ignoring alpha.
func FromRGBA(c color.RGBA) Color {
	return RGB(c.R, c.G, c.B)
}

// IsSet reports whether the pixel holds a colour.
func (c Color) IsSet() bool {
	return c&colorSet != 0
}

// Components unpacks the colour.
func (c Color) Components() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}
