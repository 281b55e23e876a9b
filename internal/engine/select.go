package engine

import (
	"errors"

	"cartedit/internal/core"
	"cartedit/internal/selection"
)

// ErrClipboardKind is returned when pasting pixel data into the tile
// clipboard or the other way round.
var ErrClipboardKind = errors.New("engine: clipboard holds the other canvas kind")

// Selection returns the marquee of a canvas.
func (e *Engine) Selection(cv Canvas) selection.Region { return e.sel[cv].Region() }

// Lifted returns the contents being dragged, or nil.
func (e *Engine) Lifted(cv Canvas) *core.ByteGrid { return e.sel[cv].Preview() }

// Select sets the marquee. Empty geometry clears it.
func (e *Engine) Select(cv Canvas, r selection.Region) {
	e.EndMove(cv)
	e.sel[cv].Select(r, e.Surface(cv).Size())
}

// SelectAll selects the whole canvas.
func (e *Engine) SelectAll(cv Canvas) {
	size := e.Surface(cv).Size()
	e.Select(cv, selection.Region{W: size.W, H: size.H})
}

// Deselect drops the marquee, committing any drag in progress.
func (e *Engine) Deselect(cv Canvas) {
	e.EndMove(cv)
	e.sel[cv].Deselect()
}

// BeginMove lifts the marquee contents off the canvas, leaving background
// behind. The whole drag becomes one undo entry.
func (e *Engine) BeginMove(cv Canvas) bool {
	s := &e.sel[cv]
	if !s.Active() || s.Lifted() {
		return false
	}
	d := cv.Domain()
	e.Begin(d)
	e.changeAll(d, func() { s.Lift(e.Surface(cv), e.bg(cv)) })
	return true
}

// MoveSelection translates the lifted marquee.
func (e *Engine) MoveSelection(cv Canvas, dx, dy int) { e.sel[cv].MoveBy(dx, dy) }

// MoveSelectionTo places the lifted marquee's origin at (x, y).
func (e *Engine) MoveSelectionTo(cv Canvas, x, y int) { e.sel[cv].MoveTo(x, y) }

// EndMove drops the lifted contents at the marquee's position.
func (e *Engine) EndMove(cv Canvas) bool {
	s := &e.sel[cv]
	if !s.Lifted() {
		return false
	}
	d := cv.Domain()
	dropped := false
	e.changeAll(d, func() { dropped = s.Drop(e.Surface(cv)) })
	if dropped {
		s.SetRegion(s.Region().Clamp(e.Surface(cv).Size()))
	}
	e.End(d)
	return dropped
}

// CancelMove returns lifted contents to where they were picked up.
func (e *Engine) CancelMove(cv Canvas) {
	s := &e.sel[cv]
	if !s.Lifted() {
		return
	}
	d := cv.Domain()
	e.changeAll(d, func() { s.Cancel(e.Surface(cv)) })
	e.End(d)
}

// marquee commits a pending drag and returns the active region.
func (e *Engine) marquee(cv Canvas) (selection.Region, bool) {
	e.EndMove(cv)
	s := &e.sel[cv]
	return s.Region(), s.Active()
}

// FlipH mirrors the selection left to right.
func (e *Engine) FlipH(cv Canvas) bool {
	r, ok := e.marquee(cv)
	if !ok {
		return false
	}
	return e.changeAll(cv.Domain(), func() { selection.FlipH(e.Surface(cv), r) })
}

// FlipV mirrors the selection top to bottom.
func (e *Engine) FlipV(cv Canvas) bool {
	r, ok := e.marquee(cv)
	if !ok {
		return false
	}
	return e.changeAll(cv.Domain(), func() { selection.FlipV(e.Surface(cv), r) })
}

// Rotate turns the selection 90 degrees clockwise; the marquee's width and
// height swap.
func (e *Engine) Rotate(cv Canvas) bool {
	r, ok := e.marquee(cv)
	if !ok {
		return false
	}
	var out selection.Region
	changed := e.changeAll(cv.Domain(), func() { out = selection.Rotate(e.Surface(cv), r, e.bg(cv)) })
	e.sel[cv].SetRegion(out.Clamp(e.Surface(cv).Size()))
	return changed
}

// Shift moves the selection contents and marquee by (dx, dy).
func (e *Engine) Shift(cv Canvas, dx, dy int) bool {
	r, ok := e.marquee(cv)
	if !ok {
		return false
	}
	var out selection.Region
	changed := e.changeAll(cv.Domain(), func() { out = selection.Shift(e.Surface(cv), r, dx, dy, e.bg(cv)) })
	e.sel[cv].SetRegion(out.Clamp(e.Surface(cv).Size()))
	return changed
}

// Delete clears the selection to background.
func (e *Engine) Delete(cv Canvas) bool {
	r, ok := e.marquee(cv)
	if !ok {
		return false
	}
	return e.changeAll(cv.Domain(), func() { selection.Clear(e.Surface(cv), r, e.bg(cv)) })
}

// Copy stores the selection in the canvas clipboard.
func (e *Engine) Copy(cv Canvas) bool {
	r, ok := e.marquee(cv)
	if !ok {
		return false
	}
	return e.clip[cv].Copy(e.Surface(cv), r)
}

// Cut copies the selection and clears it.
func (e *Engine) Cut(cv Canvas) bool {
	r, ok := e.marquee(cv)
	if !ok {
		return false
	}
	copied := false
	e.changeAll(cv.Domain(), func() { copied = e.clip[cv].Cut(e.Surface(cv), r, e.bg(cv)) })
	return copied
}

// Paste writes the clipboard with its top-left corner at (x, y) and
// selects the pasted block.
func (e *Engine) Paste(cv Canvas, x, y int) bool {
	if e.clip[cv].Empty() {
		return false
	}
	e.EndMove(cv)
	var r selection.Region
	e.changeAll(cv.Domain(), func() { r = e.clip[cv].PasteAt(e.Surface(cv), x, y) })
	e.sel[cv].Select(r, e.Surface(cv).Size())
	return true
}

// PasteTransparent is Paste that skips clipboard cells holding the
// canvas background, so only the drawn shape lands.
func (e *Engine) PasteTransparent(cv Canvas, x, y int) bool {
	if e.clip[cv].Empty() {
		return false
	}
	e.EndMove(cv)
	var r selection.Region
	e.changeAll(cv.Domain(), func() { r = e.clip[cv].PasteTransparentAt(e.Surface(cv), x, y, e.bg(cv)) })
	e.sel[cv].Select(r, e.Surface(cv).Size())
	return true
}

// ClipboardGrid returns the clipboard contents for previews, or nil.
func (e *Engine) ClipboardGrid(cv Canvas) *core.ByteGrid { return e.clip[cv].Grid() }

// ClipboardText encodes the clipboard in the system clipboard format.
func (e *Engine) ClipboardText(cv Canvas) (string, error) {
	text, err := e.clip[cv].MarshalText()
	return string(text), err
}

// SetClipboardText replaces the canvas clipboard with decoded text.
func (e *Engine) SetClipboardText(cv Canvas, text string) error {
	var c selection.Clipboard
	if err := c.UnmarshalText([]byte(text)); err != nil {
		return err
	}
	if c.Kind != e.clip[cv].Kind {
		return ErrClipboardKind
	}
	e.clip[cv] = c
	return nil
}
