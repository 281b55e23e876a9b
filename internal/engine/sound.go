package engine

import (
	"slices"

	"cartedit/internal/channel"
	"cartedit/internal/codec"
	"cartedit/internal/history"
)

func validSlot(slot int) bool { return slot >= 0 && slot < codec.SlotCount }

func validPattern(p int) bool { return p >= 0 && p < codec.PatternCount }

func (e *Engine) changeSlot(slot int, fn func(sfx []byte)) bool {
	if !validSlot(slot) {
		return false
	}
	return e.change(history.DomainSound, slot*codec.SlotSize, codec.SlotSize, func() { fn(e.cart.SFX) })
}

func (e *Engine) changePattern(p int, fn func(music []byte)) bool {
	if !validPattern(p) {
		return false
	}
	return e.change(history.DomainPattern, p*codec.ChannelCount, codec.ChannelCount, func() { fn(e.cart.Music) })
}

// Slot decodes a sound effect.
func (e *Engine) Slot(slot int) codec.Slot { return codec.DecodeSlot(e.cart.SFX, slot) }

// NoteField reads one field of one note.
func (e *Engine) NoteField(slot, note int, f codec.Field) int {
	return codec.NoteField(e.cart.SFX, slot, note, f)
}

// SetNoteField writes one field of one note. Values are clamped into the
// field's range.
func (e *Engine) SetNoteField(slot, note int, f codec.Field, v int) bool {
	return e.changeSlot(slot, func(sfx []byte) { codec.SetNoteField(sfx, slot, note, f, v) })
}

// SetNote replaces a whole note.
func (e *Engine) SetNote(slot, note int, n codec.Note) bool {
	return e.changeSlot(slot, func(sfx []byte) { codec.SetNote(sfx, slot, note, n) })
}

// SetSpeed sets the playback speed of a slot.
func (e *Engine) SetSpeed(slot int, speed uint8) bool {
	return e.changeSlot(slot, func(sfx []byte) { codec.SetSpeed(sfx, slot, speed) })
}

// SetLoop sets the loop range of a slot.
func (e *Engine) SetLoop(slot, start, end int) bool {
	return e.changeSlot(slot, func(sfx []byte) { codec.SetLoop(sfx, slot, start, end) })
}

// ClearSlot silences every note of a slot, keeping speed and loop.
func (e *Engine) ClearSlot(slot int) bool {
	return e.changeSlot(slot, func(sfx []byte) {
		clear(sfx[slot*codec.SlotSize : slot*codec.SlotSize+codec.NotesPerSlot*2])
	})
}

// CopySlot remembers a slot for PasteSlot.
func (e *Engine) CopySlot(slot int) bool {
	if !validSlot(slot) {
		return false
	}
	e.slotClip = slices.Clone(codec.SlotBytes(e.cart.SFX, slot))
	return true
}

// PasteSlot overwrites a slot with the last copied one.
func (e *Engine) PasteSlot(slot int) bool {
	if e.slotClip == nil {
		return false
	}
	return e.changeSlot(slot, func(sfx []byte) { copy(codec.SlotBytes(sfx, slot), e.slotClip) })
}

// Pattern decodes a music pattern.
func (e *Engine) Pattern(p int) codec.Pattern { return codec.DecodePattern(e.cart.Music, p) }

// SetChannelSFX points a pattern channel at a sound effect.
func (e *Engine) SetChannelSFX(p, ch int, sfx uint8) bool {
	return e.changePattern(p, func(music []byte) { codec.SetChannelSFX(music, p, ch, sfx) })
}

// SetChannelDisabled toggles a pattern channel.
func (e *Engine) SetChannelDisabled(p, ch int, disabled bool) bool {
	return e.changePattern(p, func(music []byte) { codec.SetChannelDisabled(music, p, ch, disabled) })
}

// SetPatternFlag sets loop start, loop end or stop on a pattern.
func (e *Engine) SetPatternFlag(p int, flag codec.PatternFlag, on bool) bool {
	return e.changePattern(p, func(music []byte) { codec.SetPatternFlag(music, p, flag, on) })
}

// CopyPattern remembers a pattern for PastePattern.
func (e *Engine) CopyPattern(p int) bool {
	if !validPattern(p) {
		return false
	}
	e.patternClip = slices.Clone(codec.PatternBytes(e.cart.Music, p))
	return true
}

// PastePattern overwrites a pattern with the last copied one.
func (e *Engine) PastePattern(p int) bool {
	if e.patternClip == nil {
		return false
	}
	return e.changePattern(p, func(music []byte) { copy(codec.PatternBytes(music, p), e.patternClip) })
}

// ClearPattern resets a pattern to how a blank cartridge reads: every
// channel disabled and no flags.
func (e *Engine) ClearPattern(p int) bool {
	blank := codec.Pattern{Disabled: [codec.ChannelCount]bool{true, true, true, true}}
	for ch := range blank.SFX {
		blank.SFX[ch] = uint8(ch + 1)
	}
	return e.changePattern(p, func(music []byte) { codec.EncodePattern(music, p, blank) })
}

// Flag returns the flag byte of a sprite.
func (e *Engine) Flag(sprite int) uint8 {
	if sprite < 0 || sprite >= codec.FlagsSize {
		return 0
	}
	return e.cart.Flags[sprite]
}

// SetFlag sets or clears one of the eight flag bits of a sprite.
func (e *Engine) SetFlag(sprite, bit int, on bool) bool {
	if bit < 0 || bit > 7 {
		return false
	}
	v := e.Flag(sprite)
	if on {
		v |= 1 << bit
	} else {
		v &^= 1 << bit
	}
	return e.SetFlags(sprite, v)
}

// SetFlags replaces the flag byte of a sprite.
func (e *Engine) SetFlags(sprite int, v uint8) bool {
	if sprite < 0 || sprite >= codec.FlagsSize || e.cart.Flags[sprite] == v {
		return false
	}
	e.cart.Flags[sprite] = v
	e.notify.Schedule(channel.FlagsChanged(e.cart.Flags))
	return true
}

// SetCode replaces the cartridge source.
func (e *Engine) SetCode(code string) bool {
	if e.cart.Code == code {
		return false
	}
	e.cart.Code = code
	e.notify.Schedule(channel.CodeChanged(code))
	return true
}

// SetMeta stores one metadata entry.
func (e *Engine) SetMeta(key string, value any) {
	if e.cart.Meta == nil {
		e.cart.Meta = map[string]any{}
	}
	e.cart.Meta[key] = value
	e.notify.Schedule(channel.MetaChanged(e.cart.Meta))
}
