package codec

// Pattern is a decoded music pattern. Bit 7 of each channel byte carries a
// pattern-level flag whose meaning depends on the channel position.
type Pattern struct {
	SFX       [ChannelCount]uint8
	Disabled  [ChannelCount]bool
	LoopStart bool
	LoopEnd   bool
	StopAtEnd bool
	Empty     bool
}

// PatternFlag names one of the flags packed into bit 7 of channels 0..2.
type PatternFlag int

const (
	FlagLoopStart PatternFlag = iota // channel 0
	FlagLoopEnd                      // channel 1
	FlagStopAtEnd                    // channel 2
)

const (
	channelSFXMask  = 0x3f
	channelDisabled = 0x40
	channelFlag     = 0x80
)

func channelIndex(music []byte, p, ch int) (int, bool) {
	if p < 0 || p >= PatternCount || ch < 0 || ch >= ChannelCount {
		return 0, false
	}
	i := p*ChannelCount + ch
	return i, i < len(music)
}

// DecodePattern unpacks pattern p. A pattern is empty when every channel is
// disabled.
func DecodePattern(music []byte, p int) Pattern {
	var out Pattern
	out.Empty = true
	for ch := 0; ch < ChannelCount; ch++ {
		i, ok := channelIndex(music, p, ch)
		if !ok {
			out.Disabled[ch] = true
			continue
		}
		b := music[i]
		out.SFX[ch] = b & channelSFXMask
		out.Disabled[ch] = b&channelDisabled != 0
		if !out.Disabled[ch] {
			out.Empty = false
		}
		if b&channelFlag == 0 {
			continue
		}
		switch ch {
		case 0:
			out.LoopStart = true
		case 1:
			out.LoopEnd = true
		case 2:
			out.StopAtEnd = true
		}
	}
	return out
}

// EncodePattern writes pat into pattern p.
func EncodePattern(music []byte, p int, pat Pattern) {
	flags := [ChannelCount]bool{pat.LoopStart, pat.LoopEnd, pat.StopAtEnd, false}
	for ch := 0; ch < ChannelCount; ch++ {
		i, ok := channelIndex(music, p, ch)
		if !ok {
			continue
		}
		b := pat.SFX[ch] & channelSFXMask
		if pat.Disabled[ch] {
			b |= channelDisabled
		}
		if flags[ch] {
			b |= channelFlag
		}
		music[i] = b
	}
}

// SetChannelSFX points channel ch of pattern p at a sound effect slot,
// keeping the disabled and flag bits.
func SetChannelSFX(music []byte, p, ch int, sfx uint8) {
	i, ok := channelIndex(music, p, ch)
	if !ok {
		return
	}
	music[i] = music[i]&^channelSFXMask | sfx&channelSFXMask
}

// SetChannelDisabled toggles the disabled bit of one channel.
func SetChannelDisabled(music []byte, p, ch int, disabled bool) {
	i, ok := channelIndex(music, p, ch)
	if !ok {
		return
	}
	if disabled {
		music[i] |= channelDisabled
		return
	}
	music[i] &^= channelDisabled
}

// SetPatternFlag sets or clears a pattern flag in bit 7 of the channel that
// carries it.
func SetPatternFlag(music []byte, p int, flag PatternFlag, on bool) {
	if flag < FlagLoopStart || flag > FlagStopAtEnd {
		return
	}
	i, ok := channelIndex(music, p, int(flag))
	if !ok {
		return
	}
	if on {
		music[i] |= channelFlag
		return
	}
	music[i] &^= channelFlag
}

// PatternBytes returns the four channel bytes of pattern p.
func PatternBytes(music []byte, p int) []byte {
	i, ok := channelIndex(music, p, ChannelCount-1)
	if !ok {
		return nil
	}
	return music[i-(ChannelCount-1) : i+1]
}
