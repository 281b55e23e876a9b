package selection

import "cartedit/internal/core"

// FlipH mirrors the region left to right in place.
func FlipH(s core.Surface, r Region) {
	buf := Capture(s, r)
	if buf == nil {
		return
	}
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			s.Set(r.X+x, r.Y+y, buf.At(r.W-1-x, y))
		}
	}
}

// FlipV mirrors the region top to bottom in place.
func FlipV(s core.Surface, r Region) {
	buf := Capture(s, r)
	if buf == nil {
		return
	}
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			s.Set(r.X+x, r.Y+y, buf.At(x, r.H-1-y))
		}
	}
}

// RotateGrid returns buf turned 90 degrees clockwise.
func RotateGrid(buf *core.ByteGrid) *core.ByteGrid {
	out := core.NewByteGrid(buf.H, buf.W)
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			out.Set(x, y, buf.At(y, buf.H-1-x))
		}
	}
	return out
}

// Rotate turns the region 90 degrees clockwise. The w x h block is cleared
// to bg and rewritten as an h x w block at the same origin; the returned
// region has its width and height swapped.
func Rotate(s core.Surface, r Region, bg uint8) Region {
	buf := Capture(s, r)
	if buf == nil {
		return r
	}
	Clear(s, r, bg)
	Paste(s, RotateGrid(buf), r.X, r.Y)
	return Region{X: r.X, Y: r.Y, W: r.H, H: r.W}
}

// Shift moves the region's contents by (dx, dy). The vacated cells are
// filled with bg and the moved region is returned.
func Shift(s core.Surface, r Region, dx, dy int, bg uint8) Region {
	buf := Capture(s, r)
	if buf == nil {
		return r
	}
	Clear(s, r, bg)
	moved := r.Translate(dx, dy)
	Paste(s, buf, moved.X, moved.Y)
	return moved
}
