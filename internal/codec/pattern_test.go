package codec

import "testing"

func TestPatternEmptiness(t *testing.T) {
	music := make([]byte, MusicSize)
	copy(music[8:12], []byte{0x40, 0x40, 0x40, 0x40})
	p := DecodePattern(music, 2)
	if !p.Empty {
		t.Fatal("all channels disabled must decode as empty")
	}

	music[8] = 0x05
	p = DecodePattern(music, 2)
	if p.Empty {
		t.Fatal("pattern with an enabled channel must not be empty")
	}
	if p.SFX[0] != 5 {
		t.Fatalf("channel 0 sfx = %d, expected 5", p.SFX[0])
	}
}

func TestPatternFlagIndependence(t *testing.T) {
	music := make([]byte, MusicSize)
	copy(PatternBytes(music, 7), []byte{0x41, 0x12, 0x7f, 0x00})
	before := DecodePattern(music, 7)

	SetPatternFlag(music, 7, FlagLoopStart, true)
	after := DecodePattern(music, 7)
	if !after.LoopStart {
		t.Fatal("loop start flag not set")
	}
	if after.SFX != before.SFX || after.Disabled != before.Disabled {
		t.Fatalf("flag toggle disturbed channels: %+v -> %+v", before, after)
	}
	if after.LoopEnd || after.StopAtEnd {
		t.Fatal("loop start flag leaked into other flags")
	}

	SetPatternFlag(music, 7, FlagLoopStart, false)
	if DecodePattern(music, 7) != before {
		t.Fatal("clearing the flag did not restore the pattern")
	}
}

func TestPatternFlagPositions(t *testing.T) {
	music := make([]byte, MusicSize)
	SetPatternFlag(music, 0, FlagLoopEnd, true)
	SetPatternFlag(music, 0, FlagStopAtEnd, true)
	if music[1] != 0x80 || music[2] != 0x80 || music[0] != 0 || music[3] != 0 {
		t.Fatalf("flag bytes = % x", music[:4])
	}
}

func TestEncodePatternRoundTrip(t *testing.T) {
	music := make([]byte, MusicSize)
	pat := Pattern{
		SFX:       [ChannelCount]uint8{1, 2, 63, 9},
		Disabled:  [ChannelCount]bool{false, true, false, true},
		LoopStart: true,
		StopAtEnd: true,
	}
	EncodePattern(music, 63, pat)
	got := DecodePattern(music, 63)
	got.Empty = false
	if got != pat {
		t.Fatalf("round trip %+v -> %+v", pat, got)
	}

	SetChannelSFX(music, 63, 1, 40)
	SetChannelDisabled(music, 63, 1, false)
	got = DecodePattern(music, 63)
	if got.SFX[1] != 40 || got.Disabled[1] || !got.LoopStart {
		t.Fatalf("channel setters produced %+v", got)
	}
}
