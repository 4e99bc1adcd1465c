// Package physics provides collision detection for axis-aligned rectangles.
package physics

// Rect is an axis-aligned rectangle in playfield coordinates.
// Y grows downward, so Top <= Bottom.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectAt builds a rectangle from a top-left corner and a size.
func RectAt(x, y, width, height float64) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Contains reports whether r fully covers o.
func (r Rect) Contains(o Rect) bool {
	return o.Left >= r.Left && o.Right <= r.Right && o.Top >= r.Top && o.Bottom <= r.Bottom
}

// ContainsPoint reports whether (x, y) lies inside r, edges included.
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Intersects checks if two rectangles overlap.
// Rectangles that only touch along an edge or a corner count as overlapping.
func Intersects(r1, r2 Rect) bool {
	return !(r2.Left > r1.Right ||
		r2.Right < r1.Left ||
		r2.Top > r1.Bottom ||
		r2.Bottom < r1.Top)
}
