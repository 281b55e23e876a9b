package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
// It implements Surface and backs captured selections, clipboard contents
// and shape previews.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// ByteGridFrom wraps an existing row-major slice. The slice must hold at
// least w*h values; shorter slices are padded with zeros.
func ByteGridFrom(w, h int, cells []uint8) *ByteGrid {
	g := NewByteGrid(w, h)
	copy(g.data, cells)
	return g
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// Size reports the grid dimensions.
func (g *ByteGrid) Size() Size { return Size{W: g.W, H: g.H} }

// At returns the value at (x, y), or 0 outside the grid.
func (g *ByteGrid) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return 0
	}
	return g.data[g.Index(x, y)]
}

// Set stores v at (x, y). Writes outside the grid are ignored.
func (g *ByteGrid) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.data[g.Index(x, y)] = v
}

// Fill sets every cell to v.
func (g *ByteGrid) Fill(v uint8) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() { g.Fill(0) }

// Clone returns a deep copy of the grid.
func (g *ByteGrid) Clone() *ByteGrid {
	return ByteGridFrom(g.W, g.H, g.data)
}
