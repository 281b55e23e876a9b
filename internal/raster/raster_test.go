package raster

import (
	"testing"

	"cartedit/internal/codec"
	"cartedit/internal/core"
)

func collect(x0, y0, x1, y1 int) map[[2]int]bool {
	pts := map[[2]int]bool{}
	LinePoints(x0, y0, x1, y1, func(x, y int) { pts[[2]int{x, y}] = true })
	return pts
}

func TestLineSymmetry(t *testing.T) {
	cases := [][4]int{
		{0, 0, 10, 3}, {0, 0, 3, 10}, {5, 5, -4, 1}, {2, 9, 7, -3},
		{0, 0, 10, 5}, {1, 1, 1, 8}, {8, 1, 1, 1}, {3, 3, 3, 3}, {0, 7, 7, 0},
	}
	for _, c := range cases {
		fwd := collect(c[0], c[1], c[2], c[3])
		rev := collect(c[2], c[3], c[0], c[1])
		if len(fwd) != len(rev) {
			t.Fatalf("line %v: %d cells forward, %d reversed", c, len(fwd), len(rev))
		}
		for p := range fwd {
			if !rev[p] {
				t.Fatalf("line %v: cell %v missing when reversed", c, p)
			}
		}
	}
}

func TestLineIsEightConnected(t *testing.T) {
	var prev *[2]int
	steps := 0
	LinePoints(2, 3, 17, 9, func(x, y int) {
		if prev != nil {
			if abs(x-prev[0]) > 1 || abs(y-prev[1]) > 1 {
				t.Fatalf("gap between %v and (%d,%d)", *prev, x, y)
			}
		}
		prev = &[2]int{x, y}
		steps++
	})
	if steps != 16 {
		t.Fatalf("line plotted %d cells, expected 16", steps)
	}
}

func TestFilledRectScenario(t *testing.T) {
	gfx := make([]byte, codec.GfxSize)
	sheet := codec.Sheet{Gfx: gfx}
	Rect(sheet, 20, 20, 10, 10, 8, true)
	for y := 0; y < codec.SheetH; y++ {
		for x := 0; x < codec.SheetW; x++ {
			want := uint8(0)
			if x >= 10 && x <= 20 && y >= 10 && y <= 20 {
				want = 8
			}
			if got := sheet.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %d, expected %d", x, y, got, want)
			}
		}
	}
}

func TestOutlineRect(t *testing.T) {
	g := core.NewByteGrid(8, 8)
	Rect(g, 1, 1, 5, 4, 1, false)
	count := 0
	for _, v := range g.Cells() {
		count += int(v)
	}
	if count != 14 {
		t.Fatalf("outline set %d cells, expected 14", count)
	}
	if g.At(3, 2) != 0 {
		t.Fatal("outline must not fill the interior")
	}
}

func TestFloodFillEnclosedRegion(t *testing.T) {
	g := core.NewByteGrid(16, 16)
	g.Fill(3)
	Rect(g, 2, 2, 13, 13, 1, false)
	Rect(g, 3, 3, 12, 12, 4, true)

	n := Fill(g, 7, 7, 9)
	if n != 100 {
		t.Fatalf("fill changed %d cells, expected 100", n)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			inside := x >= 3 && x <= 12 && y >= 3 && y <= 12
			border := !inside && x >= 2 && x <= 13 && y >= 2 && y <= 13
			want := uint8(3)
			switch {
			case inside:
				want = 9
			case border:
				want = 1
			}
			if got := g.At(x, y); got != want {
				t.Fatalf("cell (%d,%d) = %d, expected %d", x, y, got, want)
			}
		}
	}
}

func TestFloodFillNoOps(t *testing.T) {
	g := core.NewByteGrid(4, 4)
	g.Fill(2)
	if Fill(g, 1, 1, 2) != 0 {
		t.Fatal("filling with the target value must do nothing")
	}
	if Fill(g, -1, 1, 5) != 0 {
		t.Fatal("filling outside the surface must do nothing")
	}
	if n := Fill(g, 0, 0, 5); n != 16 {
		t.Fatalf("open fill changed %d cells", n)
	}
}

func TestFloodFillOnTileMapAcrossSharedRows(t *testing.T) {
	m := codec.TileMap{Map: make([]byte, codec.MapSize), Gfx: make([]byte, codec.GfxSize)}
	n := Fill(m, 0, 0, 12)
	if n != codec.MapW*codec.MapH {
		t.Fatalf("fill covered %d tiles", n)
	}
	if m.Gfx[codec.SharedOffset] != 12 || m.Gfx[0] != 0 {
		t.Fatal("map fill must reach the shared rows and only them")
	}
}

func TestReplace(t *testing.T) {
	g := core.NewByteGrid(4, 4)
	g.Set(0, 0, 5)
	g.Set(3, 3, 5)
	g.Set(1, 2, 6)
	if n := Replace(g, 5, 7); n != 2 {
		t.Fatalf("replaced %d cells", n)
	}
	if g.At(0, 0) != 7 || g.At(3, 3) != 7 || g.At(1, 2) != 6 {
		t.Fatal("replace touched the wrong cells")
	}
	if Replace(g, 7, 7) != 0 {
		t.Fatal("replace with equal values must do nothing")
	}
}

func TestEllipseDegenerate(t *testing.T) {
	g := core.NewByteGrid(8, 8)
	Ellipse(g, 4, 4, 4, 4, 1, false)
	total := 0
	for _, v := range g.Cells() {
		total += int(v)
	}
	if total != 1 || g.At(4, 4) != 1 {
		t.Fatalf("zero-sized ellipse set %d cells", total)
	}

	g.Clear()
	Ellipse(g, 1, 2, 6, 2, 1, false)
	for x := 1; x <= 6; x++ {
		if g.At(x, 2) != 1 {
			t.Fatalf("flat ellipse missing (%d,2)", x)
		}
	}
}

func TestEllipseTouchesBoxAndIsSymmetric(t *testing.T) {
	for _, box := range [][2]int{{10, 6}, {11, 7}, {5, 12}, {3, 3}} {
		w, h := box[0], box[1]
		for _, filled := range []bool{false, true} {
			g := core.NewByteGrid(w, h)
			Ellipse(g, 0, 0, w-1, h-1, 1, filled)
			var top, bottom, left, right bool
			for x := 0; x < w; x++ {
				top = top || g.At(x, 0) == 1
				bottom = bottom || g.At(x, h-1) == 1
			}
			for y := 0; y < h; y++ {
				left = left || g.At(0, y) == 1
				right = right || g.At(w-1, y) == 1
			}
			if !top || !bottom || !left || !right {
				t.Fatalf("ellipse %dx%d filled=%v does not touch every edge", w, h, filled)
			}
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if g.At(x, y) != g.At(w-1-x, y) || g.At(x, y) != g.At(x, h-1-y) {
						t.Fatalf("ellipse %dx%d filled=%v asymmetric at (%d,%d)", w, h, filled, x, y)
					}
				}
			}
		}
	}
}

func TestFilledEllipseContainsOutline(t *testing.T) {
	outline := core.NewByteGrid(15, 9)
	filled := core.NewByteGrid(15, 9)
	Ellipse(outline, 0, 0, 14, 8, 1, false)
	Ellipse(filled, 0, 0, 14, 8, 1, true)
	for i, v := range outline.Cells() {
		if v == 1 && filled.Cells()[i] != 1 {
			t.Fatalf("outline cell %d not covered by filled ellipse", i)
		}
	}
	if filled.At(7, 4) != 1 || outline.At(7, 4) != 0 {
		t.Fatal("centre must be filled only in the filled variant")
	}
}

func TestSnap(t *testing.T) {
	cases := []struct {
		dx, dy, wx, wy int
	}{
		{10, 2, 10, 0},
		{-10, 4, -10, 0},
		{1, -9, 0, -9},
		{6, 5, 6, 6},
		{-4, 7, -7, 7},
		{4, 2, 4, 4},
		{0, 0, 0, 0},
	}
	for _, c := range cases {
		x, y := Snap(c.dx, c.dy)
		if x != c.wx || y != c.wy {
			t.Errorf("Snap(%d,%d) = (%d,%d), expected (%d,%d)", c.dx, c.dy, x, y, c.wx, c.wy)
		}
	}
}

func TestSquare(t *testing.T) {
	cases := []struct {
		dx, dy, wx, wy int
	}{
		{5, 2, 5, 5},
		{-3, 8, -8, 8},
		{4, -1, 4, -4},
		{0, -6, -6, -6},
	}
	for _, c := range cases {
		x, y := Square(c.dx, c.dy)
		if x != c.wx || y != c.wy {
			t.Errorf("Square(%d,%d) = (%d,%d), expected (%d,%d)", c.dx, c.dy, x, y, c.wx, c.wy)
		}
	}
}
