package render

import (
	"image"
	"image/color"

	"cartedit/internal/codec"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// SheetCells decodes the sprite sheet into one colour index per pixel.
func SheetCells(gfx []byte, dst []uint8) []uint8 {
	n := codec.SheetW * codec.SheetH
	if cap(dst) < n {
		dst = make([]uint8, n)
	}
	dst = dst[:n]
	for y := 0; y < codec.SheetH; y++ {
		for x := 0; x < codec.SheetW; x++ {
			dst[y*codec.SheetW+x] = codec.PixelAt(gfx, x, y)
		}
	}
	return dst
}

// MapCells decodes the tile map into colour indices, 8x8 pixels per tile.
// Tile 0 is drawn as background.
func MapCells(mapBuf, gfx []byte, dst []uint8) []uint8 {
	w := codec.MapW * codec.SpriteSize
	h := codec.MapH * codec.SpriteSize
	if cap(dst) < w*h {
		dst = make([]uint8, w*h)
	}
	dst = dst[:w*h]
	var sprites [codec.SpriteCount][codec.SpriteSize * codec.SpriteSize]uint8
	for n := range sprites {
		sprites[n] = codec.SpritePixels(gfx, n)
	}
	for ty := 0; ty < codec.MapH; ty++ {
		for tx := 0; tx < codec.MapW; tx++ {
			tile := codec.TileAt(mapBuf, gfx, tx, ty)
			px := &sprites[tile]
			for y := 0; y < codec.SpriteSize; y++ {
				row := (ty*codec.SpriteSize+y)*w + tx*codec.SpriteSize
				for x := 0; x < codec.SpriteSize; x++ {
					if tile == 0 {
						dst[row+x] = 0
						continue
					}
					dst[row+x] = px[y*codec.SpriteSize+x]
				}
			}
		}
	}
	return dst
}

func toRGBA(cells []uint8, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillPaletteRGBA(img.Pix, cells, Palette)
	return img
}

// SheetRGBA renders the sprite sheet at 1:1.
func SheetRGBA(gfx []byte) *image.RGBA {
	return toRGBA(SheetCells(gfx, nil), codec.SheetW, codec.SheetH)
}

// MapRGBA renders the whole tile map at 1:1.
func MapRGBA(mapBuf, gfx []byte) *image.RGBA {
	return toRGBA(MapCells(mapBuf, gfx, nil), codec.MapW*codec.SpriteSize, codec.MapH*codec.SpriteSize)
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
func Scale(img *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			si := img.PixOffset(b.Min.X+x/factor, b.Min.Y+y/factor)
			di := out.PixOffset(x, y)
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
		}
	}
	return out
}
