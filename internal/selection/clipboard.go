package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cartedit/internal/core"
)

// Kind tags what a clipboard holds so pixel data is never pasted as tiles.
type Kind int

const (
	KindPixels Kind = iota
	KindTiles
)

// ErrClipboardFormat is returned when clipboard text cannot be decoded.
var ErrClipboardFormat = errors.New("selection: malformed clipboard text")

// Clipboard holds one copied block. Each editing surface owns exactly one;
// copying or cutting overwrites it.
type Clipboard struct {
	Kind Kind
	W, H int
	Data []uint8
}

// Empty reports whether anything has been copied.
func (c *Clipboard) Empty() bool {
	return c.W <= 0 || c.H <= 0 || len(c.Data) < c.W*c.H
}

// Grid returns the contents as a ByteGrid.
func (c *Clipboard) Grid() *core.ByteGrid {
	if c.Empty() {
		return nil
	}
	return core.ByteGridFrom(c.W, c.H, c.Data)
}

// Copy stores the region's contents.
func (c *Clipboard) Copy(s core.Surface, r Region) bool {
	buf := Capture(s, r)
	if buf == nil {
		return false
	}
	c.W, c.H = buf.W, buf.H
	c.Data = append(c.Data[:0], buf.Cells()...)
	return true
}

// Cut stores the region's contents and clears it to bg.
func (c *Clipboard) Cut(s core.Surface, r Region, bg uint8) bool {
	if !c.Copy(s, r) {
		return false
	}
	Clear(s, r, bg)
	return true
}

// PasteAt writes the contents with the top-left corner at (x, y) and returns
// the region covered.
func (c *Clipboard) PasteAt(s core.Surface, x, y int) Region {
	buf := c.Grid()
	if buf == nil {
		return Region{}
	}
	Paste(s, buf, x, y)
	return Region{X: x, Y: y, W: c.W, H: c.H}
}

// PasteTransparentAt is PasteAt that leaves the surface showing through
// wherever the contents equal key.
func (c *Clipboard) PasteTransparentAt(s core.Surface, x, y int, key uint8) Region {
	buf := c.Grid()
	if buf == nil {
		return Region{}
	}
	PasteTransparent(s, buf, x, y, key)
	return Region{X: x, Y: y, W: c.W, H: c.H}
}

func (k Kind) tag() string {
	if k == KindTiles {
		return "map"
	}
	return "gfx"
}

// MarshalText encodes the clipboard the way PICO-8 places it on the system
// clipboard: "[gfx]WWHH" followed by one hex digit per pixel, or
// "[map]WWHH" followed by two hex digits per tile.
func (c *Clipboard) MarshalText() ([]byte, error) {
	if c.Empty() {
		return nil, nil
	}
	if c.W > 0xff || c.H > 0xff {
		return nil, fmt.Errorf("selection: clipboard %dx%d too large to encode", c.W, c.H)
	}
	tag := c.Kind.tag()
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]%02x%02x", tag, c.W, c.H)
	for _, v := range c.Data[:c.W*c.H] {
		if c.Kind == KindTiles {
			fmt.Fprintf(&b, "%02x", v)
			continue
		}
		b.WriteByte("0123456789abcdef"[v&0x0f])
	}
	fmt.Fprintf(&b, "[/%s]", tag)
	return []byte(b.String()), nil
}

// UnmarshalText decodes text produced by MarshalText.
func (c *Clipboard) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	var kind Kind
	switch {
	case strings.HasPrefix(s, "[gfx]"):
		kind = KindPixels
	case strings.HasPrefix(s, "[map]"):
		kind = KindTiles
	default:
		return ErrClipboardFormat
	}
	tag := kind.tag()
	s = strings.TrimPrefix(s, "["+tag+"]")
	s = strings.TrimSuffix(s, "[/"+tag+"]")
	if len(s) < 4 {
		return ErrClipboardFormat
	}
	w, err := strconv.ParseUint(s[:2], 16, 8)
	if err != nil {
		return fmt.Errorf("%w: width: %v", ErrClipboardFormat, err)
	}
	h, err := strconv.ParseUint(s[2:4], 16, 8)
	if err != nil {
		return fmt.Errorf("%w: height: %v", ErrClipboardFormat, err)
	}
	body := s[4:]
	digits := 1
	if kind == KindTiles {
		digits = 2
	}
	n := int(w) * int(h)
	if w == 0 || h == 0 || len(body) != n*digits {
		return fmt.Errorf("%w: expected %d cells", ErrClipboardFormat, n)
	}
	data := make([]uint8, n)
	for i := range data {
		v, err := strconv.ParseUint(body[i*digits:(i+1)*digits], 16, 8)
		if err != nil {
			return fmt.Errorf("%w: cell %d: %v", ErrClipboardFormat, i, err)
		}
		data[i] = uint8(v)
	}
	c.Kind, c.W, c.H, c.Data = kind, int(w), int(h), data
	return nil
}
