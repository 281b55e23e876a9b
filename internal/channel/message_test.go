package channel

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"cartedit/internal/cart"
)

func TestBytesEncodeAsNumbers(t *testing.T) {
	data, err := json.Marshal(FlagsChanged([]byte{0, 7, 255}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"flagsChanged","flags":[0,7,255]}`
	if string(data) != want {
		t.Fatalf("got %s, expected %s", data, want)
	}
}

func TestMapChangedOmitsGfxUnlessShared(t *testing.T) {
	data, err := json.Marshal(MapChanged([]byte{1}, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"gfx"`) {
		t.Fatalf("gfx present without shared edit: %s", data)
	}
	data, err = json.Marshal(MapChanged([]byte{1}, []byte{2}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"gfx":[2]`) {
		t.Fatalf("gfx missing after shared edit: %s", data)
	}
}

func TestMessageConstructorsCopy(t *testing.T) {
	buf := []byte{1, 2, 3}
	m := SFXChanged(buf)
	buf[0] = 9
	if m.SFX[0] != 1 {
		t.Fatalf("message aliases caller memory")
	}
	c := CodeChanged("")
	data, _ := json.Marshal(c)
	if string(data) != `{"type":"codeChanged","code":""}` {
		t.Fatalf("empty code must still be sent, got %s", data)
	}
}

func TestBytesRejectsOutOfRange(t *testing.T) {
	var b Bytes
	if err := json.Unmarshal([]byte(`[1,256]`), &b); err == nil {
		t.Fatalf("expected range error")
	}
	if err := json.Unmarshal([]byte(`[1,2]`), &b); err != nil || !slices.Equal(b, Bytes{1, 2}) {
		t.Fatalf("got %v, %v", b, err)
	}
}

func TestInitRoundTrip(t *testing.T) {
	c := cart.New()
	c.Gfx[10] = 0x5a
	c.Code = "cls()"

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(InitMessage(c)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.WriteString(`{"type":"runState","running":true}` + "\n")

	dec := NewDecoder(&buf)
	in, err := dec.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	got, err := in.Cart()
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if !slices.Equal(got.Gfx, c.Gfx) || got.Code != "cls()" {
		t.Fatalf("init payload did not survive the stream")
	}

	in, err = dec.Next()
	if err != nil || in.Type != TypeRunState || !in.Running {
		t.Fatalf("runState = %+v, %v", in, err)
	}
	if _, err := in.Cart(); err == nil {
		t.Fatalf("runState must not convert to a cart")
	}
	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestInitRejectsShortArrays(t *testing.T) {
	in := Inbound{Type: TypeInit, Gfx: make(Bytes, 10)}
	if _, err := in.Cart(); !errors.Is(err, cart.ErrLength) {
		t.Fatalf("expected ErrLength, got %v", err)
	}
}

func TestStreamSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamSink(&buf)
	if err := s.Send(MusicChanged([]byte{0x40})); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := s.Send(CodeChanged("x")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if lines[0] != `{"type":"musicChanged","music":[64]}` {
		t.Fatalf("line 0 = %s", lines[0])
	}
}
