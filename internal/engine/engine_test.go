package engine

import (
	"errors"
	"slices"
	"testing"
	"time"

	"cartedit/internal/cart"
	"cartedit/internal/channel"
	"cartedit/internal/codec"
	"cartedit/internal/history"
	"cartedit/internal/selection"
	"cartedit/internal/store"
)

type recorder struct {
	msgs []channel.Message
}

func (r *recorder) Schedule(m channel.Message) { r.msgs = append(r.msgs, m) }

func (r *recorder) last() channel.Message {
	if len(r.msgs) == 0 {
		return channel.Message{}
	}
	return r.msgs[len(r.msgs)-1]
}

func newEngine() (*Engine, *recorder) {
	rec := &recorder{}
	return New(cart.New(), rec, 0), rec
}

func TestFilledRectScenario(t *testing.T) {
	e, rec := newEngine()
	if !e.Rect(CanvasPixels, 10, 10, 20, 20, 8, true) {
		t.Fatalf("Rect reported no change")
	}
	s := e.Surface(CanvasPixels)
	for y := 0; y < codec.SheetH; y++ {
		for x := 0; x < codec.SheetW; x++ {
			want := uint8(0)
			if x >= 10 && x <= 20 && y >= 10 && y <= 20 {
				want = 8
			}
			if got := s.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d)=%d, expected %d", x, y, got, want)
			}
		}
	}
	if m := rec.last(); m.Type != channel.TypeGfx || !slices.Equal([]byte(m.Gfx), e.Gfx()) {
		t.Fatalf("expected gfxChanged with the whole sheet, got %q", m.Type)
	}
}

func TestUndoRedoInverse(t *testing.T) {
	e, _ := newEngine()
	e.Pencil(CanvasPixels, 3, 3, 1)
	before := e.Gfx()
	e.Line(CanvasPixels, 0, 0, 50, 20, 12)
	after := e.Gfx()

	if !e.Undo(history.DomainPixels) {
		t.Fatalf("Undo reported nothing to undo")
	}
	if !slices.Equal(e.Gfx(), before) {
		t.Fatalf("undo did not restore the pre-mutation sheet")
	}
	if !e.Redo(history.DomainPixels) {
		t.Fatalf("Redo reported nothing to redo")
	}
	if !slices.Equal(e.Gfx(), after) {
		t.Fatalf("redo did not restore the post-mutation sheet")
	}
}

func TestUndoEmptyIsNoop(t *testing.T) {
	e, rec := newEngine()
	if e.Undo(history.DomainTiles) || e.Redo(history.DomainSound) {
		t.Fatalf("empty history reported a change")
	}
	if len(rec.msgs) != 0 {
		t.Fatalf("no-op undo sent %d messages", len(rec.msgs))
	}
}

func TestUnchangedEditRecordsNothing(t *testing.T) {
	e, rec := newEngine()
	if e.Pencil(CanvasPixels, 5, 5, 0) {
		t.Fatalf("writing the existing value reported a change")
	}
	if e.Fill(CanvasPixels, 0, 0, 0) != 0 {
		t.Fatalf("fill with the target colour painted cells")
	}
	if e.History(history.DomainPixels).Len() != 0 || len(rec.msgs) != 0 {
		t.Fatalf("no-op edits were recorded")
	}
}

func TestTileEditsReportSharedRows(t *testing.T) {
	e, rec := newEngine()
	e.Pencil(CanvasTiles, 4, 31, 9)
	if m := rec.last(); m.Type != channel.TypeMap || m.Gfx != nil {
		t.Fatalf("row 31 edit: type %q, gfx attached %v", m.Type, m.Gfx != nil)
	}
	e.Pencil(CanvasTiles, 4, 32, 9)
	m := rec.last()
	if m.Type != channel.TypeMap || m.Gfx == nil {
		t.Fatalf("row 32 edit must carry gfx")
	}
	if m.Gfx[codec.SharedOffset+4] != 9 {
		t.Fatalf("shared tail byte = %d", m.Gfx[codec.SharedOffset+4])
	}

	e.Undo(history.DomainTiles)
	if got := e.Gfx()[codec.SharedOffset+4]; got != 0 {
		t.Fatalf("undo left shared byte %d", got)
	}
	if m := rec.last(); m.Gfx == nil {
		t.Fatalf("undo of a shared-row edit must carry gfx")
	}
}

func TestSharedRowEditSurvivesDebounce(t *testing.T) {
	host := cart.New()
	d := channel.NewDebouncer(channel.SinkFunc(func(m channel.Message) error {
		store.Apply(host, m)
		return nil
	}), time.Hour, nil)
	e := New(cart.New(), d, 0)

	e.Pencil(CanvasTiles, 5, 40, 9)
	e.Pencil(CanvasTiles, 5, 3, 7)
	d.Close()

	if got := codec.TileAt(host.Map, host.Gfx, 5, 40); got != 9 {
		t.Fatalf("host tile (5,40)=%d, expected 9", got)
	}
	if got := codec.TileAt(host.Map, host.Gfx, 5, 3); got != 7 {
		t.Fatalf("host tile (5,3)=%d, expected 7", got)
	}
}

func TestBatchIsOneUndoEntry(t *testing.T) {
	e, rec := newEngine()
	e.Begin(history.DomainPixels)
	e.Line(CanvasPixels, 0, 0, 10, 0, 7)
	e.Line(CanvasPixels, 10, 0, 10, 10, 7)
	e.Line(CanvasPixels, 10, 10, 0, 10, 7)
	if !e.End(history.DomainPixels) {
		t.Fatalf("End reported no change")
	}
	if n := e.History(history.DomainPixels).Len(); n != 1 {
		t.Fatalf("undo entries = %d, expected 1", n)
	}
	if len(rec.msgs) != 3 {
		t.Fatalf("each segment should notify, got %d messages", len(rec.msgs))
	}
	e.Undo(history.DomainPixels)
	if !slices.Equal(e.Gfx(), make([]byte, codec.GfxSize)) {
		t.Fatalf("undo left stroke pixels behind")
	}
}

func TestMoveSelection(t *testing.T) {
	e, _ := newEngine()
	e.Rect(CanvasPixels, 0, 0, 1, 1, 5, true)
	e.Select(CanvasPixels, selection.Region{X: 0, Y: 0, W: 2, H: 2})

	if !e.BeginMove(CanvasPixels) {
		t.Fatalf("BeginMove failed")
	}
	e.MoveSelection(CanvasPixels, 10, 10)
	if e.Lifted(CanvasPixels) == nil {
		t.Fatalf("no lifted preview during drag")
	}
	if !e.EndMove(CanvasPixels) {
		t.Fatalf("EndMove failed")
	}
	s := e.Surface(CanvasPixels)
	if s.At(0, 0) != 0 || s.At(10, 10) != 5 || s.At(11, 11) != 5 {
		t.Fatalf("move result: (0,0)=%d (10,10)=%d (11,11)=%d", s.At(0, 0), s.At(10, 10), s.At(11, 11))
	}
	if r := e.Selection(CanvasPixels); r != (selection.Region{X: 10, Y: 10, W: 2, H: 2}) {
		t.Fatalf("marquee = %+v", r)
	}
	if n := e.History(history.DomainPixels).Len(); n != 2 {
		t.Fatalf("undo entries = %d, expected rect + move", n)
	}
	e.Undo(history.DomainPixels)
	if s.At(0, 0) != 5 || s.At(10, 10) != 0 {
		t.Fatalf("undo of the move did not restore the block")
	}
}

func TestCancelMoveRestores(t *testing.T) {
	e, _ := newEngine()
	e.Pencil(CanvasTiles, 2, 2, 42)
	e.Select(CanvasTiles, selection.Region{X: 2, Y: 2, W: 1, H: 1})
	e.BeginMove(CanvasTiles)
	e.MoveSelection(CanvasTiles, 3, 0)
	e.CancelMove(CanvasTiles)
	s := e.Surface(CanvasTiles)
	if s.At(2, 2) != 42 || s.At(5, 2) != 0 {
		t.Fatalf("cancel left (2,2)=%d (5,2)=%d", s.At(2, 2), s.At(5, 2))
	}
	if n := e.History(history.DomainTiles).Len(); n != 1 {
		t.Fatalf("cancelled drag recorded history: %d entries", n)
	}
}

func TestRotateSwapsMarquee(t *testing.T) {
	e, _ := newEngine()
	e.Line(CanvasPixels, 0, 0, 2, 0, 3)
	e.Select(CanvasPixels, selection.Region{W: 3, H: 1})
	if !e.Rotate(CanvasPixels) {
		t.Fatalf("Rotate reported no change")
	}
	if r := e.Selection(CanvasPixels); r.W != 1 || r.H != 3 {
		t.Fatalf("marquee = %+v, expected 1x3", r)
	}
	s := e.Surface(CanvasPixels)
	for y := 0; y < 3; y++ {
		if s.At(0, y) != 3 {
			t.Fatalf("rotated column missing at y=%d", y)
		}
	}
	if s.At(2, 0) != 0 {
		t.Fatalf("rotation left the old row behind")
	}
}

func TestSelectionOpsWithoutMarquee(t *testing.T) {
	e, _ := newEngine()
	e.Select(CanvasPixels, selection.Region{X: 5, Y: 5, W: 0, H: 4})
	if e.FlipH(CanvasPixels) || e.Delete(CanvasPixels) || e.Copy(CanvasPixels) {
		t.Fatalf("operations on an empty marquee reported success")
	}
}

func TestCopyPasteAndClipboardText(t *testing.T) {
	e, _ := newEngine()
	e.Pencil(CanvasPixels, 0, 0, 0xa)
	e.Pencil(CanvasPixels, 1, 0, 0xb)
	e.Select(CanvasPixels, selection.Region{W: 2, H: 1})
	if !e.Copy(CanvasPixels) {
		t.Fatalf("Copy failed")
	}
	text, err := e.ClipboardText(CanvasPixels)
	if err != nil || text != "[gfx]0201ab[/gfx]" {
		t.Fatalf("clipboard text = %q, %v", text, err)
	}
	if !e.Paste(CanvasPixels, 20, 20) {
		t.Fatalf("Paste failed")
	}
	s := e.Surface(CanvasPixels)
	if s.At(20, 20) != 0xa || s.At(21, 20) != 0xb {
		t.Fatalf("pasted cells = %d %d", s.At(20, 20), s.At(21, 20))
	}
	if r := e.Selection(CanvasPixels); r != (selection.Region{X: 20, Y: 20, W: 2, H: 1}) {
		t.Fatalf("paste should select the pasted block, got %+v", r)
	}

	if err := e.SetClipboardText(CanvasTiles, text); !errors.Is(err, ErrClipboardKind) {
		t.Fatalf("pixel text accepted by the tile clipboard: %v", err)
	}
	if err := e.SetClipboardText(CanvasTiles, "[map]0101ff[/map]"); err != nil {
		t.Fatalf("SetClipboardText: %v", err)
	}
	e.Paste(CanvasTiles, 0, 0)
	if e.Surface(CanvasTiles).At(0, 0) != 0xff {
		t.Fatalf("tile paste missing")
	}
}

func TestCutClearsToBackground(t *testing.T) {
	e, _ := newEngine()
	e.SetBackground(2)
	e.Rect(CanvasPixels, 0, 0, 3, 3, 9, true)
	e.Select(CanvasPixels, selection.Region{W: 4, H: 4})
	if !e.Cut(CanvasPixels) {
		t.Fatalf("Cut failed")
	}
	if got := e.Surface(CanvasPixels).At(1, 1); got != 2 {
		t.Fatalf("cut area = %d, expected background 2", got)
	}
	if e.ClipboardGrid(CanvasPixels).At(3, 3) != 9 {
		t.Fatalf("clipboard lost the cut contents")
	}
}

func TestSlotEditing(t *testing.T) {
	e, rec := newEngine()
	if !e.Slot(0).Empty {
		t.Fatalf("blank slot not empty")
	}
	e.SetNoteField(0, 0, codec.FieldVolume, 3)
	if e.Slot(0).Empty {
		t.Fatalf("slot still empty after setting volume")
	}
	if m := rec.last(); m.Type != channel.TypeSFX || len(m.SFX) != codec.SFXSize {
		t.Fatalf("expected sfxChanged with the whole array")
	}
	e.SetNoteField(0, 0, codec.FieldPitch, 99)
	if got := e.NoteField(0, 0, codec.FieldPitch); got != 63 {
		t.Fatalf("pitch = %d, expected clamp to 63", got)
	}
	if got := e.NoteField(0, 0, codec.FieldVolume); got != 3 {
		t.Fatalf("pitch write disturbed volume: %d", got)
	}

	snap, _ := e.History(history.DomainSound).Oldest()
	if snap.Offset != 0 || len(snap.Data) != codec.SlotSize {
		t.Fatalf("sound snapshot covers %d bytes at %d", len(snap.Data), snap.Offset)
	}

	e.Undo(history.DomainSound)
	e.Undo(history.DomainSound)
	if !e.Slot(0).Empty {
		t.Fatalf("undo did not restore the empty slot")
	}
	if e.SetNoteField(codec.SlotCount, 0, codec.FieldVolume, 1) {
		t.Fatalf("out of range slot accepted")
	}
}

func TestSlotCopyPasteAndClear(t *testing.T) {
	e, _ := newEngine()
	e.SetNote(1, 5, codec.Note{Pitch: 20, Volume: 5, Waveform: 2})
	e.SetSpeed(1, 30)
	e.CopySlot(1)
	if !e.PasteSlot(2) {
		t.Fatalf("PasteSlot failed")
	}
	if e.Slot(2).Notes[5] != e.Slot(1).Notes[5] || e.Slot(2).Speed != 30 {
		t.Fatalf("pasted slot differs")
	}
	e.ClearSlot(2)
	if !e.Slot(2).Empty || e.Slot(2).Speed != 30 {
		t.Fatalf("clear should silence notes and keep speed: %+v", e.Slot(2))
	}
}

func TestUndoBoundThroughEngine(t *testing.T) {
	e, _ := newEngine()
	for i := 0; i < 60; i++ {
		e.SetNoteField(0, 0, codec.FieldPitch, i+1)
	}
	st := e.History(history.DomainSound)
	if st.Len() != history.DefaultLimit {
		t.Fatalf("undo entries = %d", st.Len())
	}
	oldest, _ := st.Oldest()
	if got := codec.DecodeNote(oldest.Data[0], oldest.Data[1]).Pitch; got != 10 {
		t.Fatalf("oldest kept entry has pitch %d, expected 10", got)
	}
}

func TestPatternEditing(t *testing.T) {
	e, rec := newEngine()
	if !e.Pattern(0).Empty {
		t.Fatalf("blank pattern not empty")
	}
	e.SetChannelDisabled(0, 0, false)
	e.SetChannelSFX(0, 0, 5)
	p := e.Pattern(0)
	if p.Empty || p.SFX[0] != 5 {
		t.Fatalf("pattern = %+v", p)
	}
	before := e.Music()
	e.SetPatternFlag(0, codec.FlagLoopStart, true)
	after := e.Music()
	if after[0]&0x7f != before[0]&0x7f || !e.Pattern(0).LoopStart {
		t.Fatalf("loop flag disturbed channel bits: %#x -> %#x", before[0], after[0])
	}
	if m := rec.last(); m.Type != channel.TypeMusic {
		t.Fatalf("expected musicChanged, got %q", m.Type)
	}
	e.Undo(history.DomainPattern)
	if e.Pattern(0).LoopStart {
		t.Fatalf("undo kept the loop flag")
	}
}

func TestFlagsCodeMeta(t *testing.T) {
	e, rec := newEngine()
	e.SetFlag(3, 2, true)
	if e.Flag(3) != 4 || rec.last().Type != channel.TypeFlags {
		t.Fatalf("flag = %d, last message %q", e.Flag(3), rec.last().Type)
	}
	if e.SetFlag(3, 2, true) {
		t.Fatalf("setting a set bit reported a change")
	}
	e.SetCode("cls()")
	if m := rec.last(); m.Type != channel.TypeCode || *m.Code != "cls()" {
		t.Fatalf("code message = %+v", m)
	}
	e.SetMeta("title", "demo")
	if m := rec.last(); m.Type != channel.TypeMeta || m.MetaData["title"] != "demo" {
		t.Fatalf("meta message = %+v", m)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	e, rec := newEngine()
	g := e.Gfx()
	g[0] = 0xff
	if e.Gfx()[0] != 0 {
		t.Fatalf("Gfx returned live memory")
	}
	e.Pencil(CanvasPixels, 0, 0, 1)
	msg := rec.last()
	e.Pencil(CanvasPixels, 0, 0, 2)
	if msg.Gfx[0] != 1 {
		t.Fatalf("notification payload aliases engine memory")
	}
}

func TestPasteTransparentSkipsBackground(t *testing.T) {
	e, _ := newEngine()
	e.Pencil(CanvasTiles, 1, 0, 3)
	e.Select(CanvasTiles, selection.Region{W: 2, H: 1})
	e.Copy(CanvasTiles)
	e.Rect(CanvasTiles, 10, 10, 11, 10, 6, true)

	if !e.PasteTransparent(CanvasTiles, 10, 10) {
		t.Fatalf("PasteTransparent reported nothing to paste")
	}
	s := e.Surface(CanvasTiles)
	if s.At(10, 10) != 6 || s.At(11, 10) != 3 {
		t.Fatalf("tiles after transparent paste (10,10)=%d (11,10)=%d", s.At(10, 10), s.At(11, 10))
	}
	if r := e.Selection(CanvasTiles); r != (selection.Region{X: 10, Y: 10, W: 2, H: 1}) {
		t.Fatalf("selection = %+v", r)
	}
	e.Undo(history.DomainTiles)
	if s.At(11, 10) != 6 {
		t.Fatalf("undo left tile %d", s.At(11, 10))
	}
}

func TestPatternCopyPasteClear(t *testing.T) {
	e, _ := newEngine()
	if e.PastePattern(1) {
		t.Fatalf("paste with nothing copied reported a change")
	}
	e.SetChannelDisabled(0, 2, false)
	e.SetChannelSFX(0, 2, 17)
	e.SetPatternFlag(0, codec.FlagLoopStart, true)
	e.CopyPattern(0)
	if !e.PastePattern(5) || e.Pattern(5) != e.Pattern(0) {
		t.Fatalf("pasted pattern = %+v", e.Pattern(5))
	}
	e.ClearPattern(5)
	if got := e.Pattern(5); got != codec.DecodePattern(cart.New().Music, 0) {
		t.Fatalf("cleared pattern = %+v", got)
	}
}

func TestUndoKeepsOtherCanvasEdits(t *testing.T) {
	e, _ := newEngine()
	e.Pencil(CanvasTiles, 5, 40, 9)
	e.Pencil(CanvasPixels, 100, 120, 4)

	e.Undo(history.DomainTiles)
	if got := e.Surface(CanvasTiles).At(5, 40); got != 0 {
		t.Fatalf("tile undo left %d", got)
	}
	if got := e.Surface(CanvasPixels).At(100, 120); got != 4 {
		t.Fatalf("tile undo reverted a sprite edit in the shared rows: %d", got)
	}

	e.Redo(history.DomainTiles)
	e.Undo(history.DomainPixels)
	if got := e.Surface(CanvasTiles).At(5, 40); got != 9 {
		t.Fatalf("sprite undo reverted a tile edit: %d", got)
	}
}

func TestHistoryRejectsUnknownDomain(t *testing.T) {
	e, _ := newEngine()
	if e.History(history.Domain(domainCount)) != nil {
		t.Fatalf("out of range domain returned a stack")
	}
	if e.History(history.DomainPattern) == nil {
		t.Fatalf("pattern history missing")
	}
}
