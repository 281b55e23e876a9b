package app

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"cartedit/internal/cart"
	"cartedit/internal/engine"
	"cartedit/internal/history"
	"cartedit/internal/selection"
)

type fakeClipboard struct{ text string }

func (f *fakeClipboard) ReadAll() (string, error) { return f.text, nil }
func (f *fakeClipboard) WriteAll(s string) error  { f.text = s; return nil }

func newTestEditor() (*Editor, *fakeClipboard) {
	clip := &fakeClipboard{}
	return NewEditor(engine.New(cart.New(), nil, 0), 640, 640, clip), clip
}

// at returns the screen position of the centre of cell (x, y).
func at(ed *Editor, x, y int) (float64, float64) {
	return ed.View().ModelToScreen(float64(x)+0.5, float64(y)+0.5)
}

func TestEditorFitsViews(t *testing.T) {
	ed, _ := newTestEditor()
	if z := ed.View().Zoom; z != 4 {
		t.Fatalf("sheet zoom = %v, expected 4", z)
	}
	x, y := ed.View().ScreenToModel(at(ed, 17, 90))
	if x != 17 || y != 90 {
		t.Fatalf("round trip through the view gave (%d,%d)", x, y)
	}
}

func TestPencilDragIsOneUndo(t *testing.T) {
	ed, _ := newTestEditor()
	sx, sy := at(ed, 1, 1)
	ed.PointerDown(sx, sy, Mods{})
	sx, sy = at(ed, 5, 1)
	ed.PointerMove(sx, sy, Mods{})
	ed.PointerUp(sx, sy, Mods{})

	s := ed.Engine().Surface(engine.CanvasPixels)
	for x := 1; x <= 5; x++ {
		if s.At(x, 1) != 7 {
			t.Fatalf("pixel (%d,1) = %d", x, s.At(x, 1))
		}
	}
	if n := ed.Engine().History(history.DomainPixels).Len(); n != 1 {
		t.Fatalf("undo entries = %d", n)
	}
	ed.Do(ActionUndo)
	if s.At(3, 1) != 0 {
		t.Fatalf("undo left the stroke")
	}
}

func TestShiftSquaresRect(t *testing.T) {
	ed, _ := newTestEditor()
	ed.SetTool(ToolRect)
	sx, sy := at(ed, 0, 0)
	ed.PointerDown(sx, sy, Mods{})
	sx, sy = at(ed, 4, 2)
	ed.PointerMove(sx, sy, Mods{Shift: true})
	if p := ed.Preview(); p == nil || p.At(4, 4) != 7 || p.At(1, 1) != None {
		t.Fatalf("preview does not show a 5x5 outline")
	}
	ed.PointerUp(sx, sy, Mods{Shift: true})
	s := ed.Engine().Surface(engine.CanvasPixels)
	if s.At(4, 4) != 7 || s.At(0, 4) != 7 || s.At(2, 2) != 0 {
		t.Fatalf("rect corners (4,4)=%d (0,4)=%d centre=%d", s.At(4, 4), s.At(0, 4), s.At(2, 2))
	}
	if ed.Preview() != nil {
		t.Fatalf("preview kept after commit")
	}
}

func TestSelectAndDrag(t *testing.T) {
	ed, _ := newTestEditor()
	eng := ed.Engine()
	eng.Pencil(engine.CanvasPixels, 0, 0, 9)

	ed.SetTool(ToolSelect)
	sx, sy := at(ed, 0, 0)
	ed.PointerDown(sx, sy, Mods{})
	sx, sy = at(ed, 1, 1)
	ed.PointerMove(sx, sy, Mods{})
	if r := ed.Marquee(); r.W != 2 || r.H != 2 {
		t.Fatalf("marquee while dragging = %+v", r)
	}
	ed.PointerUp(sx, sy, Mods{})
	if r := eng.Selection(engine.CanvasPixels); r != (selection.Region{W: 2, H: 2}) {
		t.Fatalf("selection = %+v", r)
	}

	sx, sy = at(ed, 0, 0)
	ed.PointerDown(sx, sy, Mods{})
	sx, sy = at(ed, 3, 3)
	ed.PointerMove(sx, sy, Mods{})
	ed.PointerUp(sx, sy, Mods{})

	s := eng.Surface(engine.CanvasPixels)
	if s.At(0, 0) != 0 || s.At(3, 3) != 9 {
		t.Fatalf("drag result (0,0)=%d (3,3)=%d", s.At(0, 0), s.At(3, 3))
	}
}

func TestCopyPasteMirrorsSystemClipboard(t *testing.T) {
	ed, clip := newTestEditor()
	eng := ed.Engine()
	eng.Pencil(engine.CanvasPixels, 0, 0, 0xc)
	eng.Select(engine.CanvasPixels, selection.Region{W: 1, H: 1})
	ed.Do(ActionCopy)
	if clip.text != "[gfx]0101c[/gfx]" {
		t.Fatalf("system clipboard = %q", clip.text)
	}

	clip.text = "[gfx]01018[/gfx]"
	eng.Select(engine.CanvasPixels, selection.Region{X: 10, Y: 10, W: 1, H: 1})
	ed.Do(ActionPaste)
	if got := eng.Surface(engine.CanvasPixels).At(10, 10); got != 8 {
		t.Fatalf("pasted pixel = %d, expected 8 from the system clipboard", got)
	}
}

func TestDragKeepsGrabPoint(t *testing.T) {
	ed, _ := newTestEditor()
	eng := ed.Engine()
	eng.Pencil(engine.CanvasPixels, 0, 0, 9)
	eng.Select(engine.CanvasPixels, selection.Region{W: 2, H: 2})

	ed.SetTool(ToolSelect)
	sx, sy := at(ed, 1, 1)
	ed.PointerDown(sx, sy, Mods{})
	sx, sy = at(ed, 4, 4)
	ed.PointerMove(sx, sy, Mods{})
	ed.Do(ActionNudgeRight)
	ed.PointerMove(sx, sy, Mods{})
	ed.PointerUp(sx, sy, Mods{})

	if r := eng.Selection(engine.CanvasPixels); r != (selection.Region{X: 4, Y: 3, W: 2, H: 2}) {
		t.Fatalf("selection after drag and nudge = %+v", r)
	}
	if got := eng.Surface(engine.CanvasPixels).At(4, 3); got != 9 {
		t.Fatalf("moved pixel = %d", got)
	}
}

func TestPasteTransparentKeepsBackgroundCells(t *testing.T) {
	ed, clip := newTestEditor()
	eng := ed.Engine()
	eng.Rect(engine.CanvasPixels, 0, 0, 3, 3, 5, true)

	clip.text = "[gfx]020180[/gfx]"
	eng.Select(engine.CanvasPixels, selection.Region{W: 1, H: 1})
	ed.Do(ActionPasteTransparent)

	s := eng.Surface(engine.CanvasPixels)
	if s.At(0, 0) != 8 || s.At(1, 0) != 5 {
		t.Fatalf("transparent paste gave (0,0)=%d (1,0)=%d", s.At(0, 0), s.At(1, 0))
	}
	if r := eng.Selection(engine.CanvasPixels); r.W != 2 || r.H != 1 {
		t.Fatalf("pasted block not selected: %+v", r)
	}
}

func TestPasteLogsForeignClipboard(t *testing.T) {
	var out bytes.Buffer
	log.SetOutput(&out)
	defer log.SetOutput(os.Stderr)

	ed, clip := newTestEditor()
	ed.Do(ActionSwitchCanvas)
	clip.text = "[gfx]01018[/gfx]"
	ed.Do(ActionPaste)
	if !strings.Contains(out.String(), "other canvas kind") {
		t.Fatalf("log = %q", out.String())
	}
}

func TestSwitchCanvasUsesTileValue(t *testing.T) {
	ed, _ := newTestEditor()
	ed.Do(ActionSwitchCanvas)
	if ed.Canvas() != engine.CanvasTiles {
		t.Fatalf("canvas = %v", ed.Canvas())
	}
	ed.SetValue(42)
	sx, sy := at(ed, 2, 40)
	ed.PointerDown(sx, sy, Mods{})
	ed.PointerUp(sx, sy, Mods{})
	if got := ed.Engine().Surface(engine.CanvasTiles).At(2, 40); got != 42 {
		t.Fatalf("tile = %d", got)
	}
}

func TestHUDParameters(t *testing.T) {
	ed, _ := newTestEditor()
	if !ed.SetIntParameter("color", 12) || ed.Value() != 12 {
		t.Fatalf("colour not applied")
	}
	if ed.SetIntParameter("nope", 1) {
		t.Fatalf("unknown key accepted")
	}
	ed.SetFloatParameter("zoom", 8)
	if ed.View().Zoom != 8 {
		t.Fatalf("zoom = %v", ed.View().Zoom)
	}
	found := false
	for _, g := range ed.Parameters().Groups {
		for _, p := range g.Params {
			if p.Key == "tool" && p.Value == "pencil" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("tool parameter missing")
	}
}
