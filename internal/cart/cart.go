// Package cart holds the memory regions of a cartridge.
package cart

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"cartedit/internal/codec"
)

// ErrLength is returned when a region arrives with the wrong size.
var ErrLength = errors.New("cart: region has wrong length")

// Cart owns the packed arrays that every editor works on.
type Cart struct {
	Gfx   []byte
	Map   []byte
	Flags []byte
	SFX   []byte
	Music []byte
	Code  string
	Meta  map[string]any

	// Extra holds text sections no editor owns, such as the label image,
	// in file order. They are written back unchanged.
	Extra []Section
}

// Section is a named block of .p8 text kept verbatim.
type Section struct {
	Name  string
	Lines []string
}

// New returns a blank cartridge. Music patterns start with every channel
// disabled, which is how an untouched cartridge reads.
func New() *Cart {
	c := &Cart{
		Gfx:   make([]byte, codec.GfxSize),
		Map:   make([]byte, codec.MapSize),
		Flags: make([]byte, codec.FlagsSize),
		SFX:   make([]byte, codec.SFXSize),
		Music: make([]byte, codec.MusicSize),
		Meta:  map[string]any{},
	}
	for p := 0; p < codec.PatternCount; p++ {
		for ch := 0; ch < codec.ChannelCount; ch++ {
			codec.SetChannelDisabled(c.Music, p, ch, true)
			codec.SetChannelSFX(c.Music, p, ch, uint8(ch+1))
		}
	}
	return c
}

// Payload is the one-shot initialisation data handed over by the host.
type Payload struct {
	Gfx   []byte
	Map   []byte
	Flags []byte
	SFX   []byte
	Music []byte
	Code  string
	Meta  map[string]any
}

// FromPayload validates region sizes and copies every array, so the
// cartridge never aliases memory owned by the sender.
func FromPayload(p Payload) (*Cart, error) {
	regions := []struct {
		name string
		data []byte
		size int
	}{
		{"gfx", p.Gfx, codec.GfxSize},
		{"map", p.Map, codec.MapSize},
		{"flags", p.Flags, codec.FlagsSize},
		{"sfx", p.SFX, codec.SFXSize},
		{"music", p.Music, codec.MusicSize},
	}
	for _, r := range regions {
		if len(r.data) != r.size {
			return nil, fmt.Errorf("%w: %s is %d bytes, expected %d", ErrLength, r.name, len(r.data), r.size)
		}
	}
	c := &Cart{
		Gfx:   slices.Clone(p.Gfx),
		Map:   slices.Clone(p.Map),
		Flags: slices.Clone(p.Flags),
		SFX:   slices.Clone(p.SFX),
		Music: slices.Clone(p.Music),
		Code:  p.Code,
		Meta:  maps.Clone(p.Meta),
	}
	if c.Meta == nil {
		c.Meta = map[string]any{}
	}
	return c, nil
}

// Clone returns a deep copy of the cartridge.
func (c *Cart) Clone() *Cart {
	out := &Cart{
		Gfx:   slices.Clone(c.Gfx),
		Map:   slices.Clone(c.Map),
		Flags: slices.Clone(c.Flags),
		SFX:   slices.Clone(c.SFX),
		Music: slices.Clone(c.Music),
		Code:  c.Code,
		Meta:  maps.Clone(c.Meta),
	}
	if out.Meta == nil {
		out.Meta = map[string]any{}
	}
	for _, sec := range c.Extra {
		out.Extra = append(out.Extra, Section{Name: sec.Name, Lines: slices.Clone(sec.Lines)})
	}
	return out
}

// Payload returns a copy of the cartridge as an initialisation payload.
func (c *Cart) Payload() Payload {
	d := c.Clone()
	return Payload{Gfx: d.Gfx, Map: d.Map, Flags: d.Flags, SFX: d.SFX, Music: d.Music, Code: d.Code, Meta: d.Meta}
}
