package codec

import (
	"math"
	"time"
)

// Note is one decoded tracker step.
type Note struct {
	Pitch      uint8 // 0..63
	Waveform   uint8 // 0..7
	Volume     uint8 // 0..7
	Effect     uint8 // 0..7
	CustomWave bool
}

// Field selects one packed component of a note.
type Field int

const (
	FieldPitch Field = iota
	FieldWaveform
	FieldVolume
	FieldEffect
	FieldCustom
)

// String returns a short label for the field.
func (f Field) String() string {
	switch f {
	case FieldPitch:
		return "pitch"
	case FieldWaveform:
		return "waveform"
	case FieldVolume:
		return "volume"
	case FieldEffect:
		return "effect"
	case FieldCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Max returns the largest value the field can hold.
func (f Field) Max() int {
	switch f {
	case FieldPitch:
		return 63
	case FieldWaveform, FieldVolume, FieldEffect:
		return 7
	case FieldCustom:
		return 1
	default:
		return 0
	}
}

// DecodeNote unpacks the two bytes of a note.
//
//	lo: wwpppppp  (pitch in bits 0-5, waveform bits 0-1 in bits 6-7)
//	hi: ceeevvvw  (waveform bit 2, volume, effect, custom wave flag)
func DecodeNote(lo, hi uint8) Note {
	return Note{
		Pitch:      lo & 0x3f,
		Waveform:   (lo>>6)&3 | (hi&1)<<2,
		Volume:     (hi >> 1) & 7,
		Effect:     (hi >> 4) & 7,
		CustomWave: (hi>>7)&1 == 1,
	}
}

// EncodeNote packs a note into its two bytes. Fields are masked to their
// ranges.
func EncodeNote(n Note) (lo, hi uint8) {
	lo = n.Pitch&0x3f | (n.Waveform&3)<<6
	hi = (n.Waveform>>2)&1 | (n.Volume&7)<<1 | (n.Effect&7)<<4
	if n.CustomWave {
		hi |= 0x80
	}
	return lo, hi
}

// Get returns the value of field f.
func (n Note) Get(f Field) int {
	switch f {
	case FieldPitch:
		return int(n.Pitch)
	case FieldWaveform:
		return int(n.Waveform)
	case FieldVolume:
		return int(n.Volume)
	case FieldEffect:
		return int(n.Effect)
	case FieldCustom:
		if n.CustomWave {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// With returns a copy of n with field f set to v, clamped into range.
func (n Note) With(f Field, v int) Note {
	v = clamp(v, 0, f.Max())
	switch f {
	case FieldPitch:
		n.Pitch = uint8(v)
	case FieldWaveform:
		n.Waveform = uint8(v)
	case FieldVolume:
		n.Volume = uint8(v)
	case FieldEffect:
		n.Effect = uint8(v)
	case FieldCustom:
		n.CustomWave = v == 1
	}
	return n
}

// Slot is a decoded sound effect.
type Slot struct {
	Notes     [NotesPerSlot]Note
	Mode      uint8
	Speed     uint8
	LoopStart uint8
	LoopEnd   uint8
	Empty     bool
}

func slotOffset(slot int) (int, bool) {
	if slot < 0 || slot >= SlotCount {
		return 0, false
	}
	return slot * SlotSize, true
}

func noteOffset(sfx []byte, slot, note int) (int, bool) {
	base, ok := slotOffset(slot)
	if !ok || note < 0 || note >= NotesPerSlot {
		return 0, false
	}
	i := base + note*2
	return i, i+1 < len(sfx)
}

// NoteAt decodes a single note. Out-of-range addresses return a zero note.
func NoteAt(sfx []byte, slot, note int) Note {
	i, ok := noteOffset(sfx, slot, note)
	if !ok {
		return Note{}
	}
	return DecodeNote(sfx[i], sfx[i+1])
}

// SetNote encodes n into the addressed note.
func SetNote(sfx []byte, slot, note int, n Note) {
	i, ok := noteOffset(sfx, slot, note)
	if !ok {
		return
	}
	sfx[i], sfx[i+1] = EncodeNote(n)
}

// NoteField reads one field of one note. This is the accessor every tracker
// control goes through.
func NoteField(sfx []byte, slot, note int, f Field) int {
	return NoteAt(sfx, slot, note).Get(f)
}

// SetNoteField rewrites one field of one note, leaving the other packed
// fields untouched. The value is clamped into the field's range.
func SetNoteField(sfx []byte, slot, note int, f Field, v int) {
	i, ok := noteOffset(sfx, slot, note)
	if !ok {
		return
	}
	n := DecodeNote(sfx[i], sfx[i+1]).With(f, v)
	sfx[i], sfx[i+1] = EncodeNote(n)
}

// DecodeSlot unpacks an entire sound effect. A slot is empty when every
// note is silent.
func DecodeSlot(sfx []byte, slot int) Slot {
	var s Slot
	base, ok := slotOffset(slot)
	if !ok || base+SlotSize > len(sfx) {
		s.Empty = true
		return s
	}
	s.Empty = true
	for i := range s.Notes {
		n := DecodeNote(sfx[base+i*2], sfx[base+i*2+1])
		s.Notes[i] = n
		if n.Volume != 0 {
			s.Empty = false
		}
	}
	s.Mode = sfx[base+slotModeOffset]
	s.Speed = sfx[base+slotSpeedOffset]
	s.LoopStart = sfx[base+slotLoopStartOffset]
	s.LoopEnd = sfx[base+slotLoopEndOffset]
	return s
}

// EncodeSlot writes every note and the metadata of s into the slot.
func EncodeSlot(sfx []byte, slot int, s Slot) {
	base, ok := slotOffset(slot)
	if !ok || base+SlotSize > len(sfx) {
		return
	}
	for i, n := range s.Notes {
		sfx[base+i*2], sfx[base+i*2+1] = EncodeNote(n)
	}
	sfx[base+slotModeOffset] = s.Mode
	sfx[base+slotSpeedOffset] = s.Speed
	sfx[base+slotLoopStartOffset] = s.LoopStart
	sfx[base+slotLoopEndOffset] = s.LoopEnd
}

// SlotEmpty reports whether every note of the slot has volume 0.
func SlotEmpty(sfx []byte, slot int) bool {
	for i := 0; i < NotesPerSlot; i++ {
		if NoteField(sfx, slot, i, FieldVolume) != 0 {
			return false
		}
	}
	return true
}

// SetSpeed stores the playback speed of a slot.
func SetSpeed(sfx []byte, slot int, speed uint8) {
	base, ok := slotOffset(slot)
	if !ok || base+SlotSize > len(sfx) {
		return
	}
	sfx[base+slotSpeedOffset] = speed
}

// SetLoop stores the loop range of a slot. Both ends are clamped to valid
// note indices.
func SetLoop(sfx []byte, slot, start, end int) {
	base, ok := slotOffset(slot)
	if !ok || base+SlotSize > len(sfx) {
		return
	}
	sfx[base+slotLoopStartOffset] = uint8(clamp(start, 0, NotesPerSlot-1))
	sfx[base+slotLoopEndOffset] = uint8(clamp(end, 0, NotesPerSlot-1))
}

// SlotBytes returns the byte range backing a slot.
func SlotBytes(sfx []byte, slot int) []byte {
	base, ok := slotOffset(slot)
	if !ok || base+SlotSize > len(sfx) {
		return nil
	}
	return sfx[base : base+SlotSize]
}

const (
	sampleRate     = 22050
	samplesPerTick = 183
	referencePitch = 33
	referenceHz    = 440.0
)

// PitchFrequency maps a pitch index to its oscillator frequency in Hz.
// Pitch 33 is concert A.
func PitchFrequency(pitch uint8) float64 {
	return referenceHz * math.Pow(2, float64(int(pitch)-referencePitch)/12)
}

// TickDuration returns how long one note lasts at the given slot speed.
func TickDuration(speed uint8) time.Duration {
	if speed == 0 {
		speed = 1
	}
	return time.Duration(int64(speed) * samplesPerTick * int64(time.Second) / sampleRate)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
