// Package channel carries committed cartridge state to the persistence host.
package channel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"cartedit/internal/cart"
)

// Outbound message types, one per mutated domain.
const (
	TypeGfx   = "gfxChanged"
	TypeMap   = "mapChanged"
	TypeFlags = "flagsChanged"
	TypeSFX   = "sfxChanged"
	TypeMusic = "musicChanged"
	TypeCode  = "codeChanged"
	TypeMeta  = "metaChanged"
)

// Inbound message types.
const (
	TypeInit     = "init"
	TypeRunState = "runState"
)

// Bytes is a byte array that travels as a JSON array of numbers.
type Bytes []byte

// MarshalJSON encodes b as [n,n,...].
func (b Bytes) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	out := make([]byte, 0, len(b)*4+2)
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	return append(out, ']'), nil
}

// UnmarshalJSON accepts an array of integers in [0,255].
func (b *Bytes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("channel: byte array: %w", err)
	}
	out := make(Bytes, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return fmt.Errorf("channel: byte array: element %d out of range: %d", i, n)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

// Message is one outbound notification. Each carries the whole array of
// its domain, never a diff.
type Message struct {
	Type     string         `json:"type"`
	Gfx      Bytes          `json:"gfx,omitempty"`
	Map      Bytes          `json:"map,omitempty"`
	Flags    Bytes          `json:"flags,omitempty"`
	SFX      Bytes          `json:"sfx,omitempty"`
	Music    Bytes          `json:"music,omitempty"`
	Code     *string        `json:"code,omitempty"`
	MetaData map[string]any `json:"metaData,omitempty"`
}

func GfxChanged(gfx []byte) Message { return Message{Type: TypeGfx, Gfx: slices.Clone(gfx)} }

// MapChanged builds a map notification. gfx is attached only when the
// edit reached the rows shared with the sprite sheet; pass nil otherwise.
func MapChanged(mapBuf, gfx []byte) Message {
	return Message{Type: TypeMap, Map: slices.Clone(mapBuf), Gfx: slices.Clone(gfx)}
}

func FlagsChanged(flags []byte) Message { return Message{Type: TypeFlags, Flags: slices.Clone(flags)} }

func SFXChanged(sfx []byte) Message { return Message{Type: TypeSFX, SFX: slices.Clone(sfx)} }

func MusicChanged(music []byte) Message { return Message{Type: TypeMusic, Music: slices.Clone(music)} }

func CodeChanged(code string) Message { return Message{Type: TypeCode, Code: &code} }

func MetaChanged(meta map[string]any) Message {
	m := maps.Clone(meta)
	if m == nil {
		m = map[string]any{}
	}
	return Message{Type: TypeMeta, MetaData: m}
}

// Inbound is a message from the host: the one-shot init payload or a
// run-state event.
type Inbound struct {
	Type     string         `json:"type"`
	Gfx      Bytes          `json:"gfx,omitempty"`
	Map      Bytes          `json:"map,omitempty"`
	Flags    Bytes          `json:"flags,omitempty"`
	SFX      Bytes          `json:"sfx,omitempty"`
	Music    Bytes          `json:"music,omitempty"`
	Code     string         `json:"code,omitempty"`
	MetaData map[string]any `json:"metaData,omitempty"`
	Running  bool           `json:"running,omitempty"`
}

// Cart validates an init message and copies it into a cartridge.
func (in Inbound) Cart() (*cart.Cart, error) {
	if in.Type != TypeInit {
		return nil, fmt.Errorf("channel: %q is not an init message", in.Type)
	}
	return cart.FromPayload(cart.Payload{
		Gfx:   in.Gfx,
		Map:   in.Map,
		Flags: in.Flags,
		SFX:   in.SFX,
		Music: in.Music,
		Code:  in.Code,
		Meta:  in.MetaData,
	})
}

// InitMessage builds the init payload for c.
func InitMessage(c *cart.Cart) Inbound {
	p := c.Payload()
	return Inbound{
		Type:     TypeInit,
		Gfx:      p.Gfx,
		Map:      p.Map,
		Flags:    p.Flags,
		SFX:      p.SFX,
		Music:    p.Music,
		Code:     p.Code,
		MetaData: p.Meta,
	}
}
