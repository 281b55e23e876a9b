// Package export writes the sprite sheet and map as PNG images.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"sync"

	"cartedit/internal/codec"
	"cartedit/internal/render"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Options controls how an image is exported.
type Options struct {
	Scale  int  // integer zoom; values below 1 mean 1
	Grid   bool // draw a line between sprites or tiles
	Labels bool // print sprite numbers in the top-left corner of each cell
}

var (
	fontOnce sync.Once
	fontData *truetype.Font
	fontErr  error
)

func labelFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontData, fontErr = truetype.Parse(gomono.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("export: parse font: %w", fontErr)
	}
	return truetype.NewFace(fontData, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// SheetPNG writes the sprite sheet. Grid and labels mark the 8x8 sprites.
func SheetPNG(w io.Writer, gfx []byte, opts Options) error {
	img := render.SheetRGBA(gfx)
	return encode(w, img, opts, codec.SheetW/codec.SpriteSize, func(cx, cy int) string {
		return strconv.Itoa(cy*(codec.SheetW/codec.SpriteSize) + cx)
	})
}

// MapPNG writes the whole tile map. Labels print the tile index of each
// non-empty cell.
func MapPNG(w io.Writer, mapBuf, gfx []byte, opts Options) error {
	img := render.MapRGBA(mapBuf, gfx)
	return encode(w, img, opts, codec.MapW, func(cx, cy int) string {
		if t := codec.TileAt(mapBuf, gfx, cx, cy); t != 0 {
			return strconv.Itoa(int(t))
		}
		return ""
	})
}

func encode(w io.Writer, img *image.RGBA, opts Options, cols int, label func(cx, cy int) string) error {
	scale := max(opts.Scale, 1)
	dc := gg.NewContextForRGBA(render.Scale(img, scale))
	cell := float64(codec.SpriteSize * scale)
	width := float64(dc.Width())
	height := float64(dc.Height())
	rows := int(height / cell)

	if opts.Grid {
		dc.SetLineWidth(1)
		dc.SetColor(color.RGBA{R: 255, G: 255, B: 255, A: 48})
		for c := 1; c < cols; c++ {
			x := float64(c)*cell + 0.5
			dc.DrawLine(x, 0, x, height)
		}
		for r := 1; r < rows; r++ {
			y := float64(r)*cell + 0.5
			dc.DrawLine(0, y, width, y)
		}
		dc.Stroke()
	}

	if opts.Labels && cell >= 16 {
		face, err := labelFace(cell / 3)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		for cy := 0; cy < rows; cy++ {
			for cx := 0; cx < cols; cx++ {
				s := label(cx, cy)
				if s == "" {
					continue
				}
				x := float64(cx)*cell + 2
				y := float64(cy)*cell + 2
				dc.SetColor(color.Black)
				dc.DrawStringAnchored(s, x+1, y+1, 0, 1)
				dc.SetColor(color.White)
				dc.DrawStringAnchored(s, x, y, 0, 1)
			}
		}
	}

	if err := png.Encode(w, dc.Image()); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}
