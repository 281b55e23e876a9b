package codec

import "cartedit/internal/core"

func pixelIndex(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= SheetW || y >= SheetH {
		return 0, false
	}
	return y*GfxRowBytes + x/2, true
}

// PixelAt returns the color index at (x, y) of the sprite sheet. Coordinates
// outside the sheet read as 0.
func PixelAt(gfx []byte, x, y int) uint8 {
	i, ok := pixelIndex(x, y)
	if !ok || i >= len(gfx) {
		return 0
	}
	if x&1 == 0 {
		return gfx[i] & 0x0f
	}
	return gfx[i] >> 4
}

// SetPixel writes color c into the nibble addressed by (x, y). Even x lives
// in the low nibble and odd x in the high nibble.
func SetPixel(gfx []byte, x, y int, c uint8) {
	i, ok := pixelIndex(x, y)
	if !ok || i >= len(gfx) {
		return
	}
	c &= 0x0f
	if x&1 == 0 {
		gfx[i] = gfx[i]&0xf0 | c
		return
	}
	gfx[i] = gfx[i]&0x0f | c<<4
}

// SpriteOrigin returns the sheet coordinates of sprite n's top-left pixel.
func SpriteOrigin(n int) (int, int) {
	return n % 16 * SpriteSize, n / 16 * SpriteSize
}

// SpritePixels decodes the 8x8 block of sprite n in row-major order.
func SpritePixels(gfx []byte, n int) [SpriteSize * SpriteSize]uint8 {
	var out [SpriteSize * SpriteSize]uint8
	if n < 0 || n >= SpriteCount {
		return out
	}
	ox, oy := SpriteOrigin(n)
	for y := 0; y < SpriteSize; y++ {
		for x := 0; x < SpriteSize; x++ {
			out[y*SpriteSize+x] = PixelAt(gfx, ox+x, oy+y)
		}
	}
	return out
}

// Sheet adapts a sprite sheet byte slice to core.Surface.
type Sheet struct {
	Gfx []byte
}

// Size reports the sheet dimensions in pixels.
func (s Sheet) Size() core.Size { return core.Size{W: SheetW, H: SheetH} }

// At returns the color at (x, y).
func (s Sheet) At(x, y int) uint8 { return PixelAt(s.Gfx, x, y) }

// Set writes a color at (x, y).
func (s Sheet) Set(x, y int, v uint8) { SetPixel(s.Gfx, x, y, v) }
