package selection

import "cartedit/internal/core"

// Selection tracks the marquee of one editing surface and, while it is
// being dragged, the contents lifted off the board.
type Selection struct {
	region Region
	origin Region
	lifted *core.ByteGrid
}

// Region returns the current marquee.
func (s *Selection) Region() Region { return s.region }

// Active reports whether a marquee exists.
func (s *Selection) Active() bool { return !s.region.Empty() }

// Lifted reports whether a drag-move is in progress.
func (s *Selection) Lifted() bool { return s.lifted != nil }

// Select replaces the marquee with r clamped to the surface size. Empty
// geometry discards the selection instead.
func (s *Selection) Select(r Region, size core.Size) {
	s.lifted = nil
	if r.Empty() {
		s.region = Region{}
		return
	}
	s.region = r.Clamp(size)
}

// Deselect forgets the marquee.
func (s *Selection) Deselect() {
	s.region = Region{}
	s.lifted = nil
}

// Lift captures the marquee contents and clears them to bg, starting a
// drag-move. It does nothing without an active marquee or while already
// lifted.
func (s *Selection) Lift(surf core.Surface, bg uint8) bool {
	if !s.Active() || s.lifted != nil {
		return false
	}
	s.lifted = Capture(surf, s.region)
	s.origin = s.region
	Clear(surf, s.region, bg)
	return true
}

// MoveBy translates the marquee while lifted.
func (s *Selection) MoveBy(dx, dy int) {
	if s.lifted == nil {
		return
	}
	s.region = s.region.Translate(dx, dy)
}

// MoveTo places the lifted marquee's origin at (x, y).
func (s *Selection) MoveTo(x, y int) {
	if s.lifted == nil {
		return
	}
	s.region.X, s.region.Y = x, y
}

// Drop pastes the lifted contents at the marquee's current origin and ends
// the drag. A marquee with no area is discarded rather than committed.
func (s *Selection) Drop(surf core.Surface) bool {
	if s.lifted == nil {
		return false
	}
	buf := s.lifted
	s.lifted = nil
	if s.region.Empty() {
		s.region = Region{}
		return false
	}
	Paste(surf, buf, s.region.X, s.region.Y)
	return true
}

// Cancel puts lifted contents back where they came from.
func (s *Selection) Cancel(surf core.Surface) {
	if s.lifted == nil {
		return
	}
	Paste(surf, s.lifted, s.origin.X, s.origin.Y)
	s.region = s.origin
	s.lifted = nil
}

// Preview exposes the lifted contents for rendering during a drag.
func (s *Selection) Preview() *core.ByteGrid { return s.lifted }

// SetRegion overwrites the marquee without touching lifted contents, used
// after rotations and shifts that change the marquee geometry.
func (s *Selection) SetRegion(r Region) { s.region = r }
