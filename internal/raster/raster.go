// Package raster implements the drawing algorithms shared by the sprite and
// map editors. Every function works through core.Surface and never knows
// which memory layout backs it.
package raster

import "cartedit/internal/core"

// Plot sets a single cell.
func Plot(s core.Surface, x, y int, v uint8) {
	s.Set(x, y, v)
}

// LinePoints walks the 8-connected Bresenham line between two endpoints.
// Endpoints are put in a canonical order first so that both directions
// visit exactly the same cells.
func LinePoints(x0, y0, x1, y1 int, plot func(x, y int)) {
	if x1 < x0 || (x1 == x0 && y1 < y0) {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	dx := x1 - x0
	dy := -abs(y1 - y0)
	sy := 1
	if y1 < y0 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0++
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Line draws a line of value v.
func Line(s core.Surface, x0, y0, x1, y1 int, v uint8) {
	LinePoints(x0, y0, x1, y1, func(x, y int) { s.Set(x, y, v) })
}

// Rect draws the rectangle spanned by two corners, inclusive. The outline
// variant touches only the four edge runs.
func Rect(s core.Surface, x0, y0, x1, y1 int, v uint8, filled bool) {
	x0, x1 = order(x0, x1)
	y0, y1 = order(y0, y1)
	if filled {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				s.Set(x, y, v)
			}
		}
		return
	}
	for x := x0; x <= x1; x++ {
		s.Set(x, y0, v)
		s.Set(x, y1, v)
	}
	for y := y0 + 1; y < y1; y++ {
		s.Set(x0, y, v)
		s.Set(x1, y, v)
	}
}

// Replace swaps every occurrence of src with dst across the whole surface
// and returns how many cells changed.
func Replace(s core.Surface, src, dst uint8) int {
	if src == dst {
		return 0
	}
	size := s.Size()
	n := 0
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			if s.At(x, y) == src {
				s.Set(x, y, dst)
				n++
			}
		}
	}
	return n
}

func order(a, b int) (int, int) {
	if b < a {
		return b, a
	}
	return a, b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
