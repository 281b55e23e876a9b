package cart

import (
	"strings"

	"cartedit/internal/codec"
)

// Stats counts the used parts of a cartridge.
type Stats struct {
	Sprites   int // sprites with at least one non-zero pixel
	Flagged   int // sprites with any flag bit set
	Tiles     int // non-zero map cells, shared rows included
	SFX       int // slots with an audible note
	Patterns  int // patterns with an enabled channel
	CodeLines int
}

// Stats summarises c.
func (c *Cart) Stats() Stats {
	var s Stats
	for n := 0; n < codec.SpriteCount; n++ {
		for _, px := range codec.SpritePixels(c.Gfx, n) {
			if px != 0 {
				s.Sprites++
				break
			}
		}
		if n < len(c.Flags) && c.Flags[n] != 0 {
			s.Flagged++
		}
	}
	for ty := 0; ty < codec.MapH; ty++ {
		for tx := 0; tx < codec.MapW; tx++ {
			if codec.TileAt(c.Map, c.Gfx, tx, ty) != 0 {
				s.Tiles++
			}
		}
	}
	for slot := 0; slot < codec.SlotCount; slot++ {
		if !codec.SlotEmpty(c.SFX, slot) {
			s.SFX++
		}
	}
	for p := 0; p < codec.PatternCount; p++ {
		if !codec.DecodePattern(c.Music, p).Empty {
			s.Patterns++
		}
	}
	if code := strings.TrimRight(c.Code, "\n"); code != "" {
		s.CodeLines = strings.Count(code, "\n") + 1
	}
	return s
}
