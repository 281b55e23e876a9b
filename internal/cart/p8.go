package cart

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cartedit/internal/codec"
)

// ErrNotCartridge is returned when the input lacks the .p8 header.
var ErrNotCartridge = errors.New("cart: not a .p8 cartridge")

const (
	p8Header  = "pico-8 cartridge // http://www.pico-8.com"
	p8Version = 41

	sectionLua   = "__lua__"
	sectionGfx   = "__gfx__"
	sectionFlags = "__gff__"
	sectionMap   = "__map__"
	sectionSFX   = "__sfx__"
	sectionMusic = "__music__"
)

var knownSections = map[string]bool{
	sectionLua: true, sectionGfx: true, sectionFlags: true, sectionMap: true,
	sectionSFX: true, sectionMusic: true,
}

// isSectionHeader matches "__name__" lines, including ones this package
// does not decode, such as __label__ or __meta:title__.
func isSectionHeader(line string) bool {
	name, ok := strings.CutPrefix(line, "__")
	if !ok || !strings.HasSuffix(name, "__") || len(name) <= 2 {
		return false
	}
	return !strings.ContainsAny(name, " \t")
}

// Music flag bits in the text format, and the channel that carries each in
// memory.
var musicFlagChannels = [...]codec.PatternFlag{codec.FlagLoopStart, codec.FlagLoopEnd, codec.FlagStopAtEnd}

// ReadP8 parses a text cartridge into memory layout.
func ReadP8(r io.Reader) (*Cart, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() || !strings.HasPrefix(sc.Text(), "pico-8 cartridge") {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotCartridge
	}

	c := New()
	sections := map[string][]string{}
	current := ""
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if isSectionHeader(line) {
			current = line
			if !knownSections[line] {
				c.Extra = append(c.Extra, Section{Name: line})
			}
			continue
		}
		if current != "" && !knownSections[current] {
			sec := &c.Extra[len(c.Extra)-1]
			sec.Lines = append(sec.Lines, line)
			continue
		}
		if current == "" {
			if v, ok := strings.CutPrefix(line, "version "); ok {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
					c.Meta["version"] = n
				}
			}
			continue
		}
		sections[current] = append(sections[current], line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cart: read: %w", err)
	}

	c.Code = strings.Join(sections[sectionLua], "\n")
	if err := parseGfx(c.Gfx, sections[sectionGfx]); err != nil {
		return nil, err
	}
	if err := parseBytes(c.Flags, sections[sectionFlags], codec.SpriteCount/2, sectionFlags); err != nil {
		return nil, err
	}
	if err := parseBytes(c.Map, sections[sectionMap], codec.MapW, sectionMap); err != nil {
		return nil, err
	}
	if err := parseSFX(c.SFX, sections[sectionSFX]); err != nil {
		return nil, err
	}
	if err := parseMusic(c.Music, sections[sectionMusic]); err != nil {
		return nil, err
	}
	return c, nil
}

func hexDigit(ch byte) (uint8, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

func hexByte(s string, section string, line int) (uint8, error) {
	hi, ok1 := hexDigit(s[0])
	lo, ok2 := hexDigit(s[1])
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("cart: %s line %d: bad hex %q", section, line+1, s)
	}
	return hi<<4 | lo, nil
}

func parseGfx(gfx []byte, lines []string) error {
	for y, line := range lines {
		if y >= codec.SheetH {
			break
		}
		for x := 0; x < len(line) && x < codec.SheetW; x++ {
			v, ok := hexDigit(line[x])
			if !ok {
				return fmt.Errorf("cart: %s line %d: bad hex digit %q", sectionGfx, y+1, line[x])
			}
			codec.SetPixel(gfx, x, y, v)
		}
	}
	return nil
}

// parseBytes reads rows of two-digit hex bytes, perLine bytes per row.
func parseBytes(dst []byte, lines []string, perLine int, section string) error {
	for row, line := range lines {
		for i := 0; i+1 < len(line) && i/2 < perLine; i += 2 {
			off := row*perLine + i/2
			if off >= len(dst) {
				return nil
			}
			v, err := hexByte(line[i:i+2], section, row)
			if err != nil {
				return err
			}
			dst[off] = v
		}
	}
	return nil
}

// sfx line: mode speed loopStart loopEnd as two digits each, then 32 notes
// of five digits: pitch (2), waveform (1, bit 3 = custom), volume, effect.
func parseSFX(sfx []byte, lines []string) error {
	for slot, line := range lines {
		if slot >= codec.SlotCount {
			break
		}
		if len(line) < 8 {
			continue
		}
		var hdr [4]uint8
		for i := range hdr {
			v, err := hexByte(line[i*2:i*2+2], sectionSFX, slot)
			if err != nil {
				return err
			}
			hdr[i] = v
		}
		s := codec.DecodeSlot(sfx, slot)
		s.Mode, s.Speed, s.LoopStart, s.LoopEnd = hdr[0], hdr[1], hdr[2], hdr[3]
		body := line[8:]
		for n := 0; n < codec.NotesPerSlot && n*5+5 <= len(body); n++ {
			d := body[n*5 : n*5+5]
			pitch, err := hexByte(d[:2], sectionSFX, slot)
			if err != nil {
				return err
			}
			wave, ok1 := hexDigit(d[2])
			vol, ok2 := hexDigit(d[3])
			fx, ok3 := hexDigit(d[4])
			if !ok1 || !ok2 || !ok3 {
				return fmt.Errorf("cart: %s line %d: bad note %q", sectionSFX, slot+1, d)
			}
			s.Notes[n] = codec.Note{
				Pitch:      pitch & 0x3f,
				Waveform:   wave & 7,
				Volume:     vol & 7,
				Effect:     fx & 7,
				CustomWave: wave&8 != 0,
			}
		}
		codec.EncodeSlot(sfx, slot, s)
	}
	return nil
}

// music line: "ff aabbccdd" where ff carries loop start/end and stop in
// bits 0..2 and each channel byte is an sfx index with 0x40 = disabled.
func parseMusic(music []byte, lines []string) error {
	for p, line := range lines {
		if p >= codec.PatternCount {
			break
		}
		fields := strings.Fields(line)
		if len(fields) != 2 || len(fields[0]) != 2 || len(fields[1]) != 8 {
			continue
		}
		flags, err := hexByte(fields[0], sectionMusic, p)
		if err != nil {
			return err
		}
		for ch := 0; ch < codec.ChannelCount; ch++ {
			v, err := hexByte(fields[1][ch*2:ch*2+2], sectionMusic, p)
			if err != nil {
				return err
			}
			codec.SetChannelSFX(music, p, ch, v)
			codec.SetChannelDisabled(music, p, ch, v&0x40 != 0)
		}
		for bit, flag := range musicFlagChannels {
			codec.SetPatternFlag(music, p, flag, flags&(1<<bit) != 0)
		}
	}
	return nil
}

// WriteP8 writes the cartridge in text form.
func WriteP8(w io.Writer, c *Cart) error {
	bw := bufio.NewWriter(w)
	version := p8Version
	if v, ok := c.Meta["version"].(int); ok {
		version = v
	}
	fmt.Fprintf(bw, "%s\nversion %d\n", p8Header, version)

	fmt.Fprintln(bw, sectionLua)
	if c.Code != "" {
		fmt.Fprintln(bw, c.Code)
	}

	fmt.Fprintln(bw, sectionGfx)
	for y := 0; y < codec.SheetH; y++ {
		for x := 0; x < codec.SheetW; x++ {
			fmt.Fprintf(bw, "%x", codec.PixelAt(c.Gfx, x, y))
		}
		bw.WriteByte('\n')
	}

	fmt.Fprintln(bw, sectionFlags)
	writeRows(bw, c.Flags, codec.SpriteCount/2)

	fmt.Fprintln(bw, sectionMap)
	writeRows(bw, c.Map, codec.MapW)

	fmt.Fprintln(bw, sectionSFX)
	for slot := 0; slot < codec.SlotCount; slot++ {
		s := codec.DecodeSlot(c.SFX, slot)
		fmt.Fprintf(bw, "%02x%02x%02x%02x", s.Mode, s.Speed, s.LoopStart, s.LoopEnd)
		for _, n := range s.Notes {
			wave := n.Waveform
			if n.CustomWave {
				wave |= 8
			}
			fmt.Fprintf(bw, "%02x%x%x%x", n.Pitch, wave, n.Volume, n.Effect)
		}
		bw.WriteByte('\n')
	}

	fmt.Fprintln(bw, sectionMusic)
	for p := 0; p < codec.PatternCount; p++ {
		pat := codec.DecodePattern(c.Music, p)
		var flags uint8
		for bit, on := range []bool{pat.LoopStart, pat.LoopEnd, pat.StopAtEnd} {
			if on {
				flags |= 1 << bit
			}
		}
		fmt.Fprintf(bw, "%02x ", flags)
		for ch := 0; ch < codec.ChannelCount; ch++ {
			v := pat.SFX[ch]
			if pat.Disabled[ch] {
				v |= 0x40
			}
			fmt.Fprintf(bw, "%02x", v)
		}
		bw.WriteByte('\n')
	}

	for _, sec := range c.Extra {
		fmt.Fprintln(bw, sec.Name)
		for _, line := range trimBlankTail(sec.Lines) {
			fmt.Fprintln(bw, line)
		}
	}
	fmt.Fprintln(bw)
	return bw.Flush()
}

// trimBlankTail drops the blank lines that separate a section from the
// next one, so rewriting a file does not grow it.
func trimBlankTail(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeRows(w *bufio.Writer, data []byte, perLine int) {
	for i := 0; i < len(data); i += perLine {
		end := min(i+perLine, len(data))
		for _, b := range data[i:end] {
			fmt.Fprintf(w, "%02x", b)
		}
		w.WriteByte('\n')
	}
}
