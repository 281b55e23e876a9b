//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads palette-indexed cells into a single image.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads the cells and draws them with the given model-to-screen
// transform.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, palette []color.RGBA, geo ebiten.GeoM) {
	if len(cells) != gp.w*gp.h {
		return
	}
	fillPaletteRGBA(gp.buf, cells, palette)
	gp.img.ReplacePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM = geo
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
