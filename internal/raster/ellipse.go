package raster

import "cartedit/internal/core"

// Ellipse draws the ellipse inscribed in the box spanned by two corners.
//
// The box is split into two integer half-axes a, b and a centre that may sit
// between two cells (odd box widths). The midpoint algorithm runs on the
// integer half-axes and each point is mirrored outward from the left/right
// and top/bottom centre columns, so the shape is symmetric and always
// touches all four box edges. A zero-sized box plots its single cell; a box
// that is one cell thin on either axis degenerates into a straight run.
func Ellipse(s core.Surface, x0, y0, x1, y1 int, v uint8, filled bool) {
	x0, x1 = order(x0, x1)
	y0, y1 = order(y0, y1)
	a := (x1 - x0) / 2
	b := (y1 - y0) / 2
	xl, xr := x0+a, x1-a
	yt, yb := y0+b, y1-b

	if a == 0 || b == 0 {
		Rect(s, x0, y0, x1, y1, v, true)
		return
	}

	plot := func(x, y int) {
		if filled {
			for px := xl - x; px <= xr+x; px++ {
				s.Set(px, yt-y, v)
				s.Set(px, yb+y, v)
			}
			return
		}
		s.Set(xr+x, yb+y, v)
		s.Set(xl-x, yb+y, v)
		s.Set(xr+x, yt-y, v)
		s.Set(xl-x, yt-y, v)
	}

	rx2 := float64(a * a)
	ry2 := float64(b * b)
	x, y := 0, b
	dx := 0.0
	dy := 2 * rx2 * float64(y)

	// Region 1: slope above -1, step in x.
	d1 := ry2 - rx2*float64(b) + 0.25*rx2
	for dx < dy {
		plot(x, y)
		x++
		dx += 2 * ry2
		if d1 < 0 {
			d1 += dx + ry2
			continue
		}
		y--
		dy -= 2 * rx2
		d1 += dx - dy + ry2
	}

	// Region 2: step in y.
	fx := float64(x) + 0.5
	fy := float64(y - 1)
	d2 := ry2*fx*fx + rx2*fy*fy - rx2*ry2
	for y >= 0 {
		plot(x, y)
		y--
		dy -= 2 * rx2
		if d2 > 0 {
			d2 += rx2 - dy
			continue
		}
		x++
		dx += 2 * ry2
		d2 += dx - dy + rx2
	}
}
