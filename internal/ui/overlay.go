//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"

	"cartedit/internal/core"
	"cartedit/internal/render"
	"cartedit/internal/selection"
	"cartedit/internal/view"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// None marks preview cells that should not be drawn.
const None = 0xff

// Source is the editor state the overlay draws on top of the canvas.
type Source interface {
	View() *view.Transform
	Marquee() selection.Region
	Preview() *core.ByteGrid
	Lifted() *core.ByteGrid
	Cursor() image.Point
}

// OverlayOptions describes the canvas currently shown.
type OverlayOptions struct {
	// GridStep is the model distance between grid lines, 0 for none.
	GridStep int
	// Palette draws preview cells in their palette colour. Otherwise they
	// are tinted, which suits tile indices.
	Palette bool
}

// Overlay draws the grid, cursor, selection marquee and pending shapes.
type Overlay struct {
	src      Source
	showGrid bool
	pixel    *ebiten.Image
	tick     int
}

// NewOverlay constructs an overlay over src.
func NewOverlay(src Source, grid bool) *Overlay {
	o := &Overlay{src: src, showGrid: grid}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the grid with G and advances the marquee animation.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		o.showGrid = !o.showGrid
	}
	o.tick++
}

// Draw renders the overlay onto screen.
func (o *Overlay) Draw(screen *ebiten.Image, opts OverlayOptions) {
	v := o.src.View()
	if o.showGrid && opts.GridStep > 0 {
		o.drawGrid(screen, v, opts.GridStep)
	}
	if lifted := o.src.Lifted(); lifted != nil {
		r := o.src.Marquee()
		o.drawCells(screen, v, lifted, r.X, r.Y, opts.Palette)
	}
	if preview := o.src.Preview(); preview != nil {
		o.drawCells(screen, v, preview, 0, 0, opts.Palette)
	}
	if r := o.src.Marquee(); !r.Empty() {
		o.drawMarquee(screen, v, r)
	}
	c := o.src.Cursor()
	o.drawOutline(screen, v, selection.Region{X: c.X, Y: c.Y, W: 1, H: 1}, color.RGBA{R: 255, G: 255, B: 255, A: 160})
}

func (o *Overlay) drawGrid(screen *ebiten.Image, v *view.Transform, step int) {
	if float64(step)*v.Zoom < 4 {
		return
	}
	col := color.RGBA{R: 90, G: 90, B: 110, A: 110}
	x0, y0 := v.ModelToScreen(0, 0)
	x1, y1 := v.ModelToScreen(v.ContentW, v.ContentH)
	for mx := 0.0; mx <= v.ContentW; mx += float64(step) {
		sx, _ := v.ModelToScreen(mx, 0)
		fillRect(screen, o.pixel, math.Floor(sx), y0, 1, y1-y0, col)
	}
	for my := 0.0; my <= v.ContentH; my += float64(step) {
		_, sy := v.ModelToScreen(0, my)
		fillRect(screen, o.pixel, x0, math.Floor(sy), x1-x0, 1, col)
	}
}

// drawCells paints every cell of g that is not None, offset by (dx, dy).
func (o *Overlay) drawCells(screen *ebiten.Image, v *view.Transform, g *core.ByteGrid, dx, dy int, palette bool) {
	z := v.Zoom
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := g.At(x, y)
			if c == None {
				continue
			}
			col := color.RGBA{R: 255, G: 236, B: 39, A: 120}
			if palette {
				col = render.Color(c)
			}
			sx, sy := v.ModelToScreen(float64(x+dx), float64(y+dy))
			fillRect(screen, o.pixel, sx, sy, z, z, col)
		}
	}
}

// drawMarquee outlines r with a colour that pulses while it is shown.
func (o *Overlay) drawMarquee(screen *ebiten.Image, v *view.Transform, r selection.Region) {
	phase := uint8(160 + 95*math.Abs(math.Sin(float64(o.tick)/15)))
	o.drawOutline(screen, v, r, color.RGBA{R: phase, G: phase, B: phase, A: 255})
}

func (o *Overlay) drawOutline(screen *ebiten.Image, v *view.Transform, r selection.Region, col color.RGBA) {
	x0, y0 := v.ModelToScreen(float64(r.X), float64(r.Y))
	x1, y1 := v.ModelToScreen(float64(r.X+r.W), float64(r.Y+r.H))
	w, h := x1-x0, y1-y0
	fillRect(screen, o.pixel, x0, y0, w, 1, col)
	fillRect(screen, o.pixel, x0, y1-1, w, 1, col)
	fillRect(screen, o.pixel, x0, y0, 1, h, col)
	fillRect(screen, o.pixel, x1-1, y0, 1, h, col)
}
