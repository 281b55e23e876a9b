// Package selection implements rectangular region editing shared by the
// sprite and map editors: capture, paste, clear, drag-move, flips, rotation,
// shifting and the clipboard.
package selection

import "cartedit/internal/core"

// Region is a rectangle of cells. A region with W or H <= 0 is empty and
// means "no selection".
type Region struct {
	X, Y, W, H int
}

// FromCorners builds the inclusive region spanned by two corners in any
// order.
func FromCorners(x0, y0, x1, y1 int) Region {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Region{X: x0, Y: y0, W: x1 - x0 + 1, H: y1 - y0 + 1}
}

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether (x, y) lies inside the region.
func (r Region) Contains(x, y int) bool {
	return !r.Empty() && x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Clamp intersects the region with a grid of the given size.
func (r Region) Clamp(size core.Size) Region {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.W, size.W), min(r.Y+r.H, size.H)
	if x1 <= x0 || y1 <= y0 {
		return Region{X: x0, Y: y0}
	}
	return Region{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Translate returns the region moved by (dx, dy).
func (r Region) Translate(dx, dy int) Region {
	r.X += dx
	r.Y += dy
	return r
}

// Capture copies the region into a row-major grid through the surface's
// getters. Cells outside the surface read as 0. Empty regions yield nil.
func Capture(s core.Surface, r Region) *core.ByteGrid {
	if r.Empty() {
		return nil
	}
	g := core.NewByteGrid(r.W, r.H)
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			g.Set(x, y, s.At(r.X+x, r.Y+y))
		}
	}
	return g
}

// Paste writes buf with its top-left corner at (x, y). Cells that fall
// outside the surface are dropped.
func Paste(s core.Surface, buf *core.ByteGrid, x, y int) {
	if buf == nil {
		return
	}
	for by := 0; by < buf.H; by++ {
		for bx := 0; bx < buf.W; bx++ {
			s.Set(x+bx, y+by, buf.At(bx, by))
		}
	}
}

// PasteTransparent is Paste that skips cells equal to key.
func PasteTransparent(s core.Surface, buf *core.ByteGrid, x, y int, key uint8) {
	if buf == nil {
		return
	}
	for by := 0; by < buf.H; by++ {
		for bx := 0; bx < buf.W; bx++ {
			if v := buf.At(bx, by); v != key {
				s.Set(x+bx, y+by, v)
			}
		}
	}
}

// Clear fills the region with bg.
func Clear(s core.Surface, r Region, bg uint8) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			s.Set(x, y, bg)
		}
	}
}
