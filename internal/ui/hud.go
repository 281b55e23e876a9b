//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"cartedit/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the editor's parameter panel beside the canvas. Numeric
// parameters with a matching control get -/+ buttons; string parameters are
// listed underneath as read-only status lines.
type HUD struct {
	source     core.ParameterProvider
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	status     []core.Parameter

	controls     []hudControlState
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	panelOffsetX int
	title        string

	pixel *ebiten.Image
}

// NewHUD constructs a HUD reading from source. The source may additionally
// implement the control and setter interfaces of package core.
func NewHUD(source core.ParameterProvider, width int, title string) *HUD {
	if width < 0 {
		width = 0
	}
	if title == "" {
		title = "Controls"
	}
	h := &HUD{source: source, width: width, title: title}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if provider, ok := source.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		h.controls = make([]hudControlState, len(controls))
		for i, ctrl := range controls {
			h.controls[i] = hudControlState{control: ctrl, value: "--"}
		}
		h.layoutControls()
	}
	h.intSetter, _ = source.(core.IntParameterSetter)
	h.floatSetter, _ = source.(core.FloatParameterSetter)
	return h
}

// Contains reports whether a screen x coordinate falls on the panel.
func (h *HUD) Contains(x int) bool {
	return h != nil && h.width > 0 && x >= h.panelOffsetX
}

// Update refreshes the snapshot and handles clicks on the panel.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil || h.source == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.source.Parameters()
	h.refreshControlValues()
	h.handleInput()
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawControls()
	h.drawStatus()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refreshControlValues() {
	byKey := map[string]core.Parameter{}
	h.status = h.status[:0]
	for _, group := range h.snapshot.Groups {
		for _, param := range group.Params {
			byKey[param.Key] = param
			if param.Type == core.ParamTypeString {
				h.status = append(h.status, param)
			}
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		state.value = "--"
		param, ok := byKey[state.control.Key]
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		state.current = parsed
		state.hasValue = true
		state.value = formatValue(state.control, parsed)
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		switch {
		case pointInRect(px, my, state.minusRect):
			h.adjust(state, -1)
			return
		case pointInRect(px, my, state.plusRect):
			h.adjust(state, 1)
			return
		}
	}
}

// target returns the value one step in direction, or false when the step
// is blocked by a bound or there is no setter for the control's type.
func (h *HUD) target(state *hudControlState, direction int) (float64, bool) {
	if !state.hasValue || direction == 0 {
		return 0, false
	}
	ctrl := state.control
	step := ctrl.Step
	switch ctrl.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return 0, false
		}
		step = math.Max(1, math.Round(step))
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return 0, false
		}
		if step <= 0 {
			step = 0.05
		}
	default:
		return 0, false
	}
	next := state.current + float64(direction)*step
	if ctrl.HasMin && next < ctrl.Min {
		next = ctrl.Min
	}
	if ctrl.HasMax && next > ctrl.Max {
		next = ctrl.Max
	}
	if math.Abs(next-state.current) < 1e-9 {
		return 0, false
	}
	return next, true
}

func (h *HUD) adjust(state *hudControlState, direction int) {
	next, ok := h.target(state, direction)
	if !ok {
		return
	}
	applied := false
	if state.control.Type == core.ParamTypeInt {
		applied = h.intSetter.SetIntParameter(state.control.Key, int(math.Round(next)))
	} else {
		applied = h.floatSetter.SetFloatParameter(state.control.Key, next)
	}
	if applied {
		state.current = next
		state.value = formatValue(state.control, next)
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, labelColor)
		valueColor := labelColor
		if !state.hasValue {
			valueColor = dimColor
		}
		valueX := state.minusRect.Min.X - buttonGap - text.BoundString(face, state.value).Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		_, minus := h.target(state, -1)
		_, plus := h.target(state, 1)
		h.drawButton(state.minusRect, "-", minus)
		h.drawButton(state.plusRect, "+", plus)
	}
}

func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	y := controlsTop + len(h.controls)*lineHeight + statusSpacing
	for _, param := range h.status {
		if y > h.lastHeight-panelPadding {
			return
		}
		text.Draw(h.panel, param.Label+": "+param.Value, face, panelPadding, y, dimColor)
		y += statusSpacing
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	fillRect(h.panel, h.pixel, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func formatValue(ctrl core.ParameterControl, value float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(value)))
	}
	precision := 1
	switch {
	case ctrl.Step <= 0:
		precision = 2
	case ctrl.Step < 0.001:
		precision = 4
	case ctrl.Step < 0.01:
		precision = 3
	case ctrl.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return image.Pt(x, y).In(rect)
}

// fillRect draws a solid rectangle by scaling a white 1x1 image.
func fillRect(dst, pixel *ebiten.Image, x, y, w, h float64, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorM.Scale(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
	dst.DrawImage(pixel, op)
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	current  float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

var (
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor   = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	statusSpacing  = 18
	controlsTop    = panelPadding + headerBaseline + 14
)
