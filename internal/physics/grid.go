package physics

import (
	"math"
	"slices"
)

// Grid is a uniform grid for broad-phase collision detection between
// rectangles. Items are inserted by bounds and index; Query returns the
// indices whose cells overlap a rectangle.
//
// A rectangle is registered in every cell it covers, edges included, so
// rectangles that merely touch always share a cell. Positions outside the
// world are clamped to the border cells.
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell

	stamp int
	mark  []int // Last query stamp per index, for de-duplication
	found []int // Query result buffer
}

// gridCell stores the indices of items overlapping a grid cell.
// The slice is reused between passes (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewGrid creates a grid covering the given world dimensions.
func NewGrid(worldW, worldH, cellSize float64) *Grid {
	cols := max(int(math.Ceil(worldW/cellSize)), 1)
	rows := max(int(math.Ceil(worldH/cellSize)), 1)

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert registers the item index under every cell r covers.
func (g *Grid) Insert(r Rect, index int) {
	if index >= len(g.mark) {
		g.mark = append(g.mark, make([]int, index+1-len(g.mark))...)
	}
	c0, r0, c1, r1 := g.span(r)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			idx := row*g.cols + col
			g.cells[idx].items = append(g.cells[idx].items, index)
		}
	}
}

// Query returns the indices sharing a cell with r, each once, in ascending
// order. The slice is reused by the next Query.
func (g *Grid) Query(r Rect) []int {
	g.stamp++
	g.found = g.found[:0]

	c0, r0, c1, r1 := g.span(r)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, item := range g.cells[row*g.cols+col].items {
				if g.mark[item] == g.stamp {
					continue
				}
				g.mark[item] = g.stamp
				g.found = append(g.found, item)
			}
		}
	}
	slices.Sort(g.found)
	return g.found
}

// span returns the inclusive cell range covered by r.
func (g *Grid) span(r Rect) (c0, r0, c1, r1 int) {
	c0, r0 = g.posToCell(r.Left, r.Top)
	c1, r1 = g.posToCell(r.Right, r.Bottom)
	return c0, r0, c1, r1
}

// posToCell converts world coordinates to grid cell coordinates.
// Clamps to valid range to handle positions off the world and edge cases
// with floating point.
func (g *Grid) posToCell(x, y float64) (col, row int) {
	col = min(max(int(math.Floor(x*g.invCellSize)), 0), g.cols-1)
	row = min(max(int(math.Floor(y*g.invCellSize)), 0), g.rows-1)
	return col, row
}
