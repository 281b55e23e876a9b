package raster

import "cartedit/internal/core"

type cell struct{ x, y int }

// Fill replaces the 4-connected region of equal value that contains (x, y)
// with v and returns how many cells changed. It uses an explicit stack so
// large regions never recurse. Filling with the value already present, or
// starting outside the surface, does nothing.
func Fill(s core.Surface, x, y int, v uint8) int {
	size := s.Size()
	if !size.Contains(x, y) {
		return 0
	}
	target := s.At(x, y)
	if target == v {
		return 0
	}

	visited := make(map[cell]struct{})
	stack := []cell{{x, y}}
	n := 0
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !size.Contains(c.x, c.y) {
			continue
		}
		if _, seen := visited[c]; seen {
			continue
		}
		visited[c] = struct{}{}
		if s.At(c.x, c.y) != target {
			continue
		}
		s.Set(c.x, c.y, v)
		n++
		stack = append(stack,
			cell{c.x + 1, c.y},
			cell{c.x - 1, c.y},
			cell{c.x, c.y + 1},
			cell{c.x, c.y - 1},
		)
	}
	return n
}
