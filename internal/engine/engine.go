// Package engine owns a cartridge and applies editing operations to it.
// Every mutation is recorded for undo and handed to the notifier.
package engine

import (
	"bytes"
	"maps"
	"slices"

	"cartedit/internal/cart"
	"cartedit/internal/channel"
	"cartedit/internal/codec"
	"cartedit/internal/core"
	"cartedit/internal/history"
	"cartedit/internal/selection"
)

// Notifier receives committed state. channel.Debouncer satisfies it.
type Notifier interface {
	Schedule(channel.Message)
}

type nopNotifier struct{}

func (nopNotifier) Schedule(channel.Message) {}

// Canvas selects one of the two raster surfaces.
type Canvas uint8

const (
	CanvasPixels Canvas = iota
	CanvasTiles
)

// Domain returns the undo domain of the canvas.
func (c Canvas) Domain() history.Domain {
	if c == CanvasTiles {
		return history.DomainTiles
	}
	return history.DomainPixels
}

func (c Canvas) String() string { return c.Domain().String() }

const domainCount = 4

// Engine is the single owner of the cartridge arrays. It is not safe for
// concurrent use; the host drives it from one event loop.
type Engine struct {
	cart   *cart.Cart
	sheet  codec.Sheet
	tiles  codec.TileMap
	notify Notifier

	history [domainCount]*history.Stack
	batch   [domainCount][]byte

	sel  [2]selection.Selection
	clip [2]selection.Clipboard

	background uint8

	slotClip    []byte
	patternClip []byte
}

// New returns an engine editing c in place. A nil notifier discards
// notifications; a non-positive undoLimit selects history.DefaultLimit.
func New(c *cart.Cart, n Notifier, undoLimit int) *Engine {
	if n == nil {
		n = nopNotifier{}
	}
	e := &Engine{
		cart:   c,
		sheet:  codec.Sheet{Gfx: c.Gfx},
		tiles:  codec.TileMap{Map: c.Map, Gfx: c.Gfx},
		notify: n,
	}
	for i := range e.history {
		e.history[i] = history.New(undoLimit)
	}
	e.clip[CanvasPixels].Kind = selection.KindPixels
	e.clip[CanvasTiles].Kind = selection.KindTiles
	return e
}

// Surface returns the raster surface of a canvas.
func (e *Engine) Surface(cv Canvas) core.Surface {
	if cv == CanvasTiles {
		return e.tiles
	}
	return e.sheet
}

// Background is the value cleared pixel regions are filled with.
func (e *Engine) Background() uint8 { return e.background }

// SetBackground sets the pixel background colour.
func (e *Engine) SetBackground(v uint8) { e.background = v & 0x0f }

func (e *Engine) bg(cv Canvas) uint8 {
	if cv == CanvasTiles {
		return 0
	}
	return e.background
}

// History exposes the undo stack of a domain.
func (e *Engine) History(d history.Domain) *history.Stack {
	if int(d) >= domainCount {
		return nil
	}
	return e.history[d]
}

// Cart returns a copy of the whole cartridge.
func (e *Engine) Cart() *cart.Cart { return e.cart.Clone() }

func (e *Engine) Gfx() []byte   { return slices.Clone(e.cart.Gfx) }
func (e *Engine) Map() []byte   { return slices.Clone(e.cart.Map) }
func (e *Engine) Flags() []byte { return slices.Clone(e.cart.Flags) }
func (e *Engine) SFX() []byte   { return slices.Clone(e.cart.SFX) }
func (e *Engine) Music() []byte { return slices.Clone(e.cart.Music) }
func (e *Engine) Code() string  { return e.cart.Code }

// Meta returns a copy of the cartridge metadata.
func (e *Engine) Meta() map[string]any { return maps.Clone(e.cart.Meta) }

func backingSize(d history.Domain) int {
	switch d {
	case history.DomainPixels:
		return codec.GfxSize
	case history.DomainTiles:
		return codec.MapSize + codec.GfxSize - codec.SharedOffset
	case history.DomainSound:
		return codec.SFXSize
	case history.DomainPattern:
		return codec.MusicSize
	}
	return 0
}

// read copies n bytes at off of a domain's backing memory. The tile
// domain's backing is the map followed by the shared sprite-sheet tail.
func (e *Engine) read(d history.Domain, off, n int) []byte {
	out := make([]byte, n)
	switch d {
	case history.DomainPixels:
		copy(out, e.cart.Gfx[off:])
	case history.DomainTiles:
		for i := range out {
			out[i] = e.tileByte(off + i)
		}
	case history.DomainSound:
		copy(out, e.cart.SFX[off:])
	case history.DomainPattern:
		copy(out, e.cart.Music[off:])
	}
	return out
}

func (e *Engine) write(d history.Domain, off int, data []byte) {
	switch d {
	case history.DomainPixels:
		copy(e.cart.Gfx[off:], data)
	case history.DomainTiles:
		for i, v := range data {
			e.setTileByte(off+i, v)
		}
	case history.DomainSound:
		copy(e.cart.SFX[off:], data)
	case history.DomainPattern:
		copy(e.cart.Music[off:], data)
	}
}

func (e *Engine) tileByte(i int) byte {
	if i < codec.MapSize {
		return e.cart.Map[i]
	}
	return e.cart.Gfx[codec.SharedOffset+i-codec.MapSize]
}

func (e *Engine) setTileByte(i int, v byte) {
	if i < codec.MapSize {
		e.cart.Map[i] = v
		return
	}
	e.cart.Gfx[codec.SharedOffset+i-codec.MapSize] = v
}

func (e *Engine) sharedTail() []byte { return e.cart.Gfx[codec.SharedOffset:] }

// change runs fn as one undoable mutation of the n bytes at off. Nothing is
// recorded or sent when fn leaves the bytes as they were. Inside a batch
// the undo entry is deferred to End.
func (e *Engine) change(d history.Domain, off, n int, fn func()) bool {
	before := e.read(d, off, n)
	tail := slices.Clone(e.sharedTail())
	fn()
	after := e.read(d, off, n)
	if bytes.Equal(before, after) {
		return false
	}
	if e.batch[d] == nil {
		e.record(d, off, before, after)
	}
	e.commit(d, !bytes.Equal(tail, e.sharedTail()))
	return true
}

func (e *Engine) changeAll(d history.Domain, fn func()) bool {
	return e.change(d, 0, backingSize(d), fn)
}

// Begin groups the following mutations of a domain into one undo entry,
// such as every segment of a pencil drag. Calls do not nest.
func (e *Engine) Begin(d history.Domain) {
	if e.batch[d] != nil {
		return
	}
	e.batch[d] = e.read(d, 0, backingSize(d))
}

// End closes a batch opened by Begin and records it if anything changed.
func (e *Engine) End(d history.Domain) bool {
	before := e.batch[d]
	if before == nil {
		return false
	}
	e.batch[d] = nil
	after := e.read(d, 0, len(before))
	if bytes.Equal(before, after) {
		return false
	}
	e.record(d, 0, before, after)
	return true
}

// record pushes the undo entry for a change from before to after at off.
// Raster entries keep only the span of bytes that differ; the sheet and the
// map share rows, and undoing one must not rewind the other.
func (e *Engine) record(d history.Domain, off int, before, after []byte) {
	if d == history.DomainPixels || d == history.DomainTiles {
		first := 0
		for before[first] == after[first] {
			first++
		}
		last := len(before) - 1
		for before[last] == after[last] {
			last--
		}
		off += first
		before = before[first : last+1]
	}
	e.history[d].Push(history.Snapshot{Domain: d, Offset: off, Data: before})
}

// commit hands the domain's whole array to the notifier. shared reports
// whether the sprite-sheet tail changed, which tile messages must carry.
func (e *Engine) commit(d history.Domain, shared bool) {
	switch d {
	case history.DomainPixels:
		e.notify.Schedule(channel.GfxChanged(e.cart.Gfx))
	case history.DomainTiles:
		var gfx []byte
		if shared {
			gfx = e.cart.Gfx
		}
		e.notify.Schedule(channel.MapChanged(e.cart.Map, gfx))
	case history.DomainSound:
		e.notify.Schedule(channel.SFXChanged(e.cart.SFX))
	case history.DomainPattern:
		e.notify.Schedule(channel.MusicChanged(e.cart.Music))
	}
}

func (e *Engine) capture(prev history.Snapshot) history.Snapshot {
	return history.Snapshot{
		Domain: prev.Domain,
		Offset: prev.Offset,
		Data:   e.read(prev.Domain, prev.Offset, len(prev.Data)),
	}
}

func (e *Engine) restore(snap history.Snapshot) {
	tail := slices.Clone(e.sharedTail())
	e.write(snap.Domain, snap.Offset, snap.Data)
	e.commit(snap.Domain, !bytes.Equal(tail, e.sharedTail()))
}

// abandon drops any batch or drag in progress on a domain before its
// history is rewound.
func (e *Engine) abandon(d history.Domain) {
	for _, cv := range []Canvas{CanvasPixels, CanvasTiles} {
		if cv.Domain() == d && e.sel[cv].Lifted() {
			e.sel[cv].Cancel(e.Surface(cv))
		}
	}
	if before := e.batch[d]; before != nil {
		e.batch[d] = nil
		if after := e.read(d, 0, len(before)); !bytes.Equal(before, after) {
			e.record(d, 0, before, after)
		}
	}
}

// Undo reverts the most recent change of a domain. It reports false when
// there is nothing to undo.
func (e *Engine) Undo(d history.Domain) bool {
	if int(d) >= domainCount {
		return false
	}
	e.abandon(d)
	snap, ok := e.history[d].Undo(e.capture)
	if !ok {
		return false
	}
	e.restore(snap)
	return true
}

// Redo reapplies the most recently undone change of a domain.
func (e *Engine) Redo(d history.Domain) bool {
	if int(d) >= domainCount {
		return false
	}
	e.abandon(d)
	snap, ok := e.history[d].Redo(e.capture)
	if !ok {
		return false
	}
	e.restore(snap)
	return true
}
