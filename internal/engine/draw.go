package engine

import "cartedit/internal/raster"

// Pencil sets one cell.
func (e *Engine) Pencil(cv Canvas, x, y int, v uint8) bool {
	return e.changeAll(cv.Domain(), func() { raster.Plot(e.Surface(cv), x, y, v) })
}

// Line draws a Bresenham line. Pencil drags are a run of Line calls
// between Begin and End.
func (e *Engine) Line(cv Canvas, x0, y0, x1, y1 int, v uint8) bool {
	return e.changeAll(cv.Domain(), func() { raster.Line(e.Surface(cv), x0, y0, x1, y1, v) })
}

// Rect draws a rectangle spanning the two corners.
func (e *Engine) Rect(cv Canvas, x0, y0, x1, y1 int, v uint8, filled bool) bool {
	return e.changeAll(cv.Domain(), func() { raster.Rect(e.Surface(cv), x0, y0, x1, y1, v, filled) })
}

// Ellipse draws the ellipse inscribed in the box spanning the two corners.
func (e *Engine) Ellipse(cv Canvas, x0, y0, x1, y1 int, v uint8, filled bool) bool {
	return e.changeAll(cv.Domain(), func() { raster.Ellipse(e.Surface(cv), x0, y0, x1, y1, v, filled) })
}

// Fill flood-fills the 4-connected area under (x, y) and returns the
// number of cells painted.
func (e *Engine) Fill(cv Canvas, x, y int, v uint8) int {
	n := 0
	e.changeAll(cv.Domain(), func() { n = raster.Fill(e.Surface(cv), x, y, v) })
	return n
}

// Replace swaps every src cell on the canvas for dst and returns the count.
func (e *Engine) Replace(cv Canvas, src, dst uint8) int {
	n := 0
	e.changeAll(cv.Domain(), func() { n = raster.Replace(e.Surface(cv), src, dst) })
	return n
}
