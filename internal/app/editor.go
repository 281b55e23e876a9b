package app

import (
	"image"
	"log"
	"math"
	"strconv"

	"cartedit/internal/codec"
	"cartedit/internal/core"
	"cartedit/internal/engine"
	"cartedit/internal/raster"
	"cartedit/internal/selection"
	"cartedit/internal/ui"
	"cartedit/internal/view"

	"github.com/atotto/clipboard"
)

// Tool is the active drawing tool.
type Tool int

const (
	ToolPencil Tool = iota
	ToolLine
	ToolRect
	ToolEllipse
	ToolFill
	ToolSelect
	toolCount
)

// String returns the tool name shown on the HUD.
func (t Tool) String() string {
	switch t {
	case ToolPencil:
		return "pencil"
	case ToolLine:
		return "line"
	case ToolRect:
		return "rect"
	case ToolEllipse:
		return "ellipse"
	case ToolFill:
		return "fill"
	case ToolSelect:
		return "select"
	default:
		return "unknown"
	}
}

// Mods carries modifier keys held during a pointer event.
type Mods struct {
	Shift bool
	Ctrl  bool
}

// Action is a discrete editor command bound to a key.
type Action int

const (
	ActionUndo Action = iota
	ActionRedo
	ActionCopy
	ActionCut
	ActionPaste
	ActionPasteTransparent
	ActionFlipH
	ActionFlipV
	ActionRotate
	ActionDelete
	ActionSelectAll
	ActionDeselect
	ActionSwitchCanvas
	ActionFit
	ActionNudgeLeft
	ActionNudgeRight
	ActionNudgeUp
	ActionNudgeDown
	ActionReplace
)

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(s string) error  { return clipboard.WriteAll(s) }

// None is the preview value for cells a shape does not cover.
const None = ui.None

// Editor translates pointer and key input into engine operations for the
// sprite and map canvases.
type Editor struct {
	eng    *engine.Engine
	canvas engine.Canvas
	tool   Tool
	color  uint8
	tile   uint8
	filled bool

	views [2]*view.Transform
	clip  Clipboard

	dragging bool
	moving   bool
	grab     image.Point
	start    image.Point
	last     image.Point
	cursor   image.Point
	marquee  selection.Region
	preview  *core.ByteGrid
}

// NewEditor returns an editor over eng with a viewport of w x h screen
// pixels. A nil clipboard selects the system clipboard.
func NewEditor(eng *engine.Engine, w, h int, clip Clipboard) *Editor {
	if clip == nil {
		clip = systemClipboard{}
	}
	ed := &Editor{
		eng:   eng,
		color: 7,
		tile:  1,
		clip:  clip,
		views: [2]*view.Transform{
			view.New(codec.SheetW, codec.SheetH, 1, 32),
			view.New(codec.MapW, codec.MapH, 1, 32),
		},
	}
	for _, v := range ed.views {
		v.Fit(float64(w), float64(h), v.ContentW, v.ContentH)
	}
	return ed
}

func (ed *Editor) Engine() *engine.Engine  { return ed.eng }
func (ed *Editor) Canvas() engine.Canvas   { return ed.canvas }
func (ed *Editor) Tool() Tool              { return ed.tool }
func (ed *Editor) View() *view.Transform   { return ed.views[ed.canvas] }
func (ed *Editor) Cursor() image.Point     { return ed.cursor }
func (ed *Editor) Preview() *core.ByteGrid { return ed.preview }
func (ed *Editor) Lifted() *core.ByteGrid  { return ed.eng.Lifted(ed.canvas) }
func (ed *Editor) Marquee() selection.Region {
	if ed.dragging && ed.tool == ToolSelect && !ed.moving {
		return ed.marquee
	}
	return ed.eng.Selection(ed.canvas)
}

// SetTool switches tools, committing any drag in progress.
func (ed *Editor) SetTool(t Tool) {
	if t < 0 || t >= toolCount {
		return
	}
	ed.finishDrag()
	ed.tool = t
}

// SetCanvas switches between the sprite and map canvases.
func (ed *Editor) SetCanvas(cv engine.Canvas) {
	if cv == ed.canvas {
		return
	}
	ed.finishDrag()
	ed.canvas = cv
}

// Value is what the current canvas paints with.
func (ed *Editor) Value() uint8 {
	if ed.canvas == engine.CanvasTiles {
		return ed.tile
	}
	return ed.color
}

// SetValue sets the colour or tile of the current canvas.
func (ed *Editor) SetValue(v uint8) {
	if ed.canvas == engine.CanvasTiles {
		ed.tile = v
		return
	}
	ed.color = v & 0x0f
}

// Resize updates both viewports.
func (ed *Editor) Resize(w, h int) {
	for _, v := range ed.views {
		v.Resize(float64(w), float64(h))
	}
}

// Zoom scales the current view by steps around a screen anchor.
func (ed *Editor) Zoom(steps, sx, sy float64) {
	v := ed.View()
	v.ZoomAround(v.Zoom*math.Pow(1.25, steps), sx, sy)
}

// Pan moves the current view by a screen delta.
func (ed *Editor) Pan(dx, dy float64) { ed.View().PanBy(dx, dy) }

// PointerDown starts a tool gesture at a screen position.
func (ed *Editor) PointerDown(sx, sy float64, mods Mods) {
	x, y := ed.View().ScreenToModel(sx, sy)
	p := image.Pt(x, y)
	ed.cursor = p
	ed.finishDrag()
	ed.dragging = true
	ed.start, ed.last = p, p
	cv := ed.canvas

	switch ed.tool {
	case ToolPencil:
		ed.eng.Begin(cv.Domain())
		ed.eng.Pencil(cv, x, y, ed.Value())
	case ToolFill:
		ed.dragging = false
		if mods.Ctrl {
			ed.eng.Replace(cv, ed.eng.Surface(cv).At(x, y), ed.Value())
			return
		}
		ed.eng.Fill(cv, x, y, ed.Value())
	case ToolSelect:
		if r := ed.eng.Selection(cv); r.Contains(x, y) && ed.eng.BeginMove(cv) {
			ed.moving = true
			ed.grab = image.Pt(x-r.X, y-r.Y)
			return
		}
		ed.marquee = selection.FromCorners(x, y, x, y)
	case ToolLine, ToolRect, ToolEllipse:
		ed.updatePreview(mods)
	}
}

// PointerMove continues a gesture.
func (ed *Editor) PointerMove(sx, sy float64, mods Mods) {
	x, y := ed.View().ScreenToModel(sx, sy)
	p := image.Pt(x, y)
	ed.cursor = p
	if !ed.dragging || p == ed.last {
		return
	}
	cv := ed.canvas
	switch ed.tool {
	case ToolPencil:
		ed.eng.Line(cv, ed.last.X, ed.last.Y, x, y, ed.Value())
	case ToolSelect:
		if ed.moving {
			ed.eng.MoveSelectionTo(cv, x-ed.grab.X, y-ed.grab.Y)
		} else {
			ed.marquee = selection.FromCorners(ed.start.X, ed.start.Y, x, y)
		}
	}
	ed.last = p
	if ed.tool == ToolLine || ed.tool == ToolRect || ed.tool == ToolEllipse {
		ed.updatePreview(mods)
	}
}

// PointerUp ends a gesture and commits it.
func (ed *Editor) PointerUp(sx, sy float64, mods Mods) {
	if !ed.dragging {
		return
	}
	ed.PointerMove(sx, sy, mods)
	x0, y0, x1, y1 := ed.shape(mods)
	cv := ed.canvas
	switch ed.tool {
	case ToolLine:
		ed.eng.Line(cv, x0, y0, x1, y1, ed.Value())
	case ToolRect:
		ed.eng.Rect(cv, x0, y0, x1, y1, ed.Value(), ed.filled)
	case ToolEllipse:
		ed.eng.Ellipse(cv, x0, y0, x1, y1, ed.Value(), ed.filled)
	case ToolSelect:
		if !ed.moving {
			ed.eng.Select(cv, ed.marquee)
		}
	}
	ed.finishDrag()
}

// shape returns the constrained end points of the current drag.
func (ed *Editor) shape(mods Mods) (int, int, int, int) {
	dx, dy := ed.last.X-ed.start.X, ed.last.Y-ed.start.Y
	if mods.Shift {
		switch ed.tool {
		case ToolLine:
			dx, dy = raster.Snap(dx, dy)
		case ToolRect, ToolEllipse:
			dx, dy = raster.Square(dx, dy)
		}
	}
	return ed.start.X, ed.start.Y, ed.start.X + dx, ed.start.Y + dy
}

func (ed *Editor) updatePreview(mods Mods) {
	size := ed.eng.Surface(ed.canvas).Size()
	if ed.preview == nil || ed.preview.W != size.W || ed.preview.H != size.H {
		ed.preview = core.NewByteGrid(size.W, size.H)
	}
	ed.preview.Fill(None)
	x0, y0, x1, y1 := ed.shape(mods)
	v := ed.Value()
	switch ed.tool {
	case ToolLine:
		raster.Line(ed.preview, x0, y0, x1, y1, v)
	case ToolRect:
		raster.Rect(ed.preview, x0, y0, x1, y1, v, ed.filled)
	case ToolEllipse:
		raster.Ellipse(ed.preview, x0, y0, x1, y1, v, ed.filled)
	}
}

// finishDrag closes whatever gesture is open.
func (ed *Editor) finishDrag() {
	cv := ed.canvas
	if ed.moving {
		ed.eng.EndMove(cv)
	}
	if ed.dragging && ed.tool == ToolPencil {
		ed.eng.End(cv.Domain())
	}
	ed.dragging = false
	ed.moving = false
	ed.marquee = selection.Region{}
	ed.preview = nil
}

// Do runs a keyboard action.
func (ed *Editor) Do(a Action) {
	cv := ed.canvas
	switch a {
	case ActionUndo:
		ed.finishDrag()
		ed.eng.Undo(cv.Domain())
	case ActionRedo:
		ed.finishDrag()
		ed.eng.Redo(cv.Domain())
	case ActionCopy, ActionCut:
		ok := false
		if a == ActionCopy {
			ok = ed.eng.Copy(cv)
		} else {
			ok = ed.eng.Cut(cv)
		}
		if ok {
			ed.exportClipboard(cv)
		}
	case ActionPaste, ActionPasteTransparent:
		ed.importClipboard(cv)
		x, y := ed.cursor.X, ed.cursor.Y
		if r := ed.eng.Selection(cv); !r.Empty() {
			x, y = r.X, r.Y
		}
		if a == ActionPasteTransparent {
			ed.eng.PasteTransparent(cv, x, y)
		} else {
			ed.eng.Paste(cv, x, y)
		}
	case ActionFlipH:
		ed.eng.FlipH(cv)
	case ActionFlipV:
		ed.eng.FlipV(cv)
	case ActionRotate:
		ed.eng.Rotate(cv)
	case ActionDelete:
		ed.eng.Delete(cv)
	case ActionSelectAll:
		ed.eng.SelectAll(cv)
	case ActionDeselect:
		if ed.moving {
			ed.eng.CancelMove(cv)
			ed.moving = false
		}
		ed.finishDrag()
		ed.eng.Deselect(cv)
	case ActionSwitchCanvas:
		ed.SetCanvas(1 - cv)
	case ActionFit:
		v := ed.View()
		v.Fit(v.ViewW, v.ViewH, v.ContentW, v.ContentH)
	case ActionNudgeLeft:
		ed.nudge(-1, 0)
	case ActionNudgeRight:
		ed.nudge(1, 0)
	case ActionNudgeUp:
		ed.nudge(0, -1)
	case ActionNudgeDown:
		ed.nudge(0, 1)
	case ActionReplace:
		s := ed.eng.Surface(cv)
		ed.eng.Replace(cv, s.At(ed.cursor.X, ed.cursor.Y), ed.Value())
	}
}

// nudge moves the selection one cell. A block being dragged moves with
// the pointer's grab point so the next pointer move does not undo it.
func (ed *Editor) nudge(dx, dy int) {
	if ed.moving {
		ed.eng.MoveSelection(ed.canvas, dx, dy)
		ed.grab = ed.grab.Sub(image.Pt(dx, dy))
		return
	}
	ed.eng.Shift(ed.canvas, dx, dy)
}

func (ed *Editor) exportClipboard(cv engine.Canvas) {
	text, err := ed.eng.ClipboardText(cv)
	if err == nil {
		err = ed.clip.WriteAll(text)
	}
	if err != nil {
		log.Printf("app: copy to system clipboard: %v", err)
	}
}

// importClipboard replaces the canvas clipboard with the system one when
// it holds data for this canvas. Otherwise the last local copy is pasted.
func (ed *Editor) importClipboard(cv engine.Canvas) {
	text, err := ed.clip.ReadAll()
	if err != nil {
		log.Printf("app: read system clipboard: %v", err)
		return
	}
	if text == "" {
		return
	}
	if err := ed.eng.SetClipboardText(cv, text); err != nil {
		log.Printf("app: paste %s: %v", cv, err)
	}
}

// Parameters reports editor state for the HUD.
func (ed *Editor) Parameters() core.ParameterSnapshot {
	r := ed.eng.Selection(ed.canvas)
	sel := "none"
	if !r.Empty() {
		sel = strconv.Itoa(r.W) + "x" + strconv.Itoa(r.H) + " @ " + strconv.Itoa(r.X) + "," + strconv.Itoa(r.Y)
	}
	filled := 0
	if ed.filled {
		filled = 1
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "editor", Params: []core.Parameter{
			{Key: "canvas", Label: "Canvas", Type: core.ParamTypeString, Value: ed.canvas.String()},
			{Key: "tool", Label: "Tool", Type: core.ParamTypeString, Value: ed.tool.String()},
			{Key: "color", Label: "Colour", Type: core.ParamTypeInt, Value: strconv.Itoa(int(ed.color))},
			{Key: "tile", Label: "Tile", Type: core.ParamTypeInt, Value: strconv.Itoa(int(ed.tile))},
			{Key: "background", Label: "Background", Type: core.ParamTypeInt, Value: strconv.Itoa(int(ed.eng.Background()))},
			{Key: "filled", Label: "Filled", Type: core.ParamTypeInt, Value: strconv.Itoa(filled)},
			{Key: "flags", Label: "Flags", Type: core.ParamTypeInt, Value: strconv.Itoa(int(ed.eng.Flag(int(ed.tile))))},
			{Key: "zoom", Label: "Zoom", Type: core.ParamTypeFloat, Value: strconv.FormatFloat(ed.View().Zoom, 'f', 2, 64)},
		}},
		{Name: "selection", Params: []core.Parameter{
			{Key: "selection", Label: "Selection", Type: core.ParamTypeString, Value: sel},
			{Key: "cursor", Label: "Cursor", Type: core.ParamTypeString, Value: strconv.Itoa(ed.cursor.X) + "," + strconv.Itoa(ed.cursor.Y)},
		}},
	}}
}

// ParameterControls lists the values the HUD may adjust.
func (ed *Editor) ParameterControls() []core.ParameterControl {
	v := ed.View()
	return []core.ParameterControl{
		{Key: "color", Label: "Colour", Type: core.ParamTypeInt, Step: 1, HasMin: true, Min: 0, HasMax: true, Max: 15},
		{Key: "tile", Label: "Tile", Type: core.ParamTypeInt, Step: 1, HasMin: true, Min: 0, HasMax: true, Max: 255},
		{Key: "background", Label: "Background", Type: core.ParamTypeInt, Step: 1, HasMin: true, Min: 0, HasMax: true, Max: 15},
		{Key: "filled", Label: "Filled", Type: core.ParamTypeInt, Step: 1, HasMin: true, Min: 0, HasMax: true, Max: 1},
		{Key: "flags", Label: "Flags", Type: core.ParamTypeInt, Step: 1, HasMin: true, Min: 0, HasMax: true, Max: 255},
		{Key: "zoom", Label: "Zoom", Type: core.ParamTypeFloat, Step: 1, HasMin: true, Min: v.MinZoom, HasMax: true, Max: v.MaxZoom},
	}
}

// SetIntParameter applies a HUD adjustment.
func (ed *Editor) SetIntParameter(key string, value int) bool {
	switch key {
	case "color":
		ed.color = uint8(value) & 0x0f
	case "tile":
		ed.tile = uint8(value)
	case "background":
		ed.eng.SetBackground(uint8(value))
	case "filled":
		ed.filled = value != 0
	case "flags":
		ed.eng.SetFlags(int(ed.tile), uint8(value))
	default:
		return false
	}
	return true
}

// SetFloatParameter applies a HUD zoom change around the viewport centre.
func (ed *Editor) SetFloatParameter(key string, value float64) bool {
	if key != "zoom" {
		return false
	}
	v := ed.View()
	v.ZoomAround(value, v.ViewW/2, v.ViewH/2)
	return true
}
