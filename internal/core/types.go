package core

// Size describes the dimensions of an editable grid.
type Size struct {
	W int
	H int
}

// Contains reports whether (x, y) lies inside a grid of this size.
func (s Size) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.W && y < s.H
}

// Surface is the capability every editing algorithm works through. Reads
// outside the grid return 0 and writes outside the grid are dropped, so
// callers never need to bounds-check gestures that sweep past the edges.
type Surface interface {
	Size() Size
	At(x, y int) uint8
	Set(x, y int, v uint8)
}

// Contains reports whether (x, y) lies inside the surface.
func Contains(s Surface, x, y int) bool {
	return s.Size().Contains(x, y)
}
