// Package codec packs and unpacks the cartridge memory regions edited by the
// sprite, map, sound and music editors. Every function is pure over the byte
// slices it is given; out-of-range reads return 0 and out-of-range writes are
// dropped.
package codec

const (
	// SheetW and SheetH are the sprite sheet dimensions in pixels.
	SheetW = 128
	SheetH = 128
	// GfxSize is the byte length of the sprite sheet, two pixels per byte.
	GfxSize = SheetW * SheetH / 2
	// GfxRowBytes is the number of bytes per sprite sheet row.
	GfxRowBytes = SheetW / 2

	// MapW and MapH are the tile map dimensions in tiles.
	MapW = 128
	MapH = 64
	// MapSize is the byte length of the primary map region (rows 0..31).
	MapSize = 4096
	// MapSharedRow is the first map row stored in the sprite sheet tail.
	MapSharedRow = MapSize / MapW
	// SharedOffset is where the map's shared rows begin inside the sheet.
	SharedOffset = GfxSize - (MapH-MapSharedRow)*MapW

	// SpriteSize is the edge of one sprite in pixels.
	SpriteSize = 8
	// SpriteCount is the number of sprites addressable by a tile index.
	SpriteCount = 256
	// FlagsSize is the byte length of the sprite flag region.
	FlagsSize = SpriteCount

	// NotesPerSlot is the number of notes in one sound effect.
	NotesPerSlot = 32
	// SlotSize is the byte length of one sound effect slot.
	SlotSize = 68
	// SlotCount is the number of sound effect slots.
	SlotCount = 64
	// SFXSize is the byte length of the sound effect region.
	SFXSize = SlotSize * SlotCount

	// ChannelCount is the number of channels per music pattern.
	ChannelCount = 4
	// PatternCount is the number of music patterns.
	PatternCount = 64
	// MusicSize is the byte length of the music region.
	MusicSize = ChannelCount * PatternCount
)

// Byte offsets of the per-slot metadata that follows the note data.
const (
	slotModeOffset      = 64
	slotSpeedOffset     = 65
	slotLoopStartOffset = 66
	slotLoopEndOffset   = 67
)
