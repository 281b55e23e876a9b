package codec

import "cartedit/internal/core"

// tileCell resolves (tx, ty) to the backing slice and offset. Rows below
// MapSharedRow live in the sprite sheet tail.
func tileCell(mapBuf, gfx []byte, tx, ty int) ([]byte, int, bool) {
	if tx < 0 || ty < 0 || tx >= MapW || ty >= MapH {
		return nil, 0, false
	}
	if ty < MapSharedRow {
		i := ty*MapW + tx
		return mapBuf, i, i < len(mapBuf)
	}
	i := SharedOffset + (ty-MapSharedRow)*MapW + tx
	return gfx, i, i < len(gfx)
}

// TileAt returns the tile index stored at (tx, ty), or 0 outside the map.
func TileAt(mapBuf, gfx []byte, tx, ty int) uint8 {
	buf, i, ok := tileCell(mapBuf, gfx, tx, ty)
	if !ok {
		return 0
	}
	return buf[i]
}

// SetTile stores tile index v at (tx, ty). Rows 32..63 write into the sprite
// sheet, so the pixels of sprites 128..255 change with them.
func SetTile(mapBuf, gfx []byte, tx, ty int, v uint8) {
	buf, i, ok := tileCell(mapBuf, gfx, tx, ty)
	if !ok {
		return
	}
	buf[i] = v
}

// SharedRow reports whether map row ty is stored in the sprite sheet.
func SharedRow(ty int) bool {
	return ty >= MapSharedRow && ty < MapH
}

// TileMap adapts the map region plus the shared sheet tail to core.Surface.
type TileMap struct {
	Map []byte
	Gfx []byte
}

// Size reports the map dimensions in tiles.
func (m TileMap) Size() core.Size { return core.Size{W: MapW, H: MapH} }

// At returns the tile index at (x, y).
func (m TileMap) At(x, y int) uint8 { return TileAt(m.Map, m.Gfx, x, y) }

// Set writes a tile index at (x, y).
func (m TileMap) Set(x, y int, v uint8) { SetTile(m.Map, m.Gfx, x, y, v) }
