// Package store keeps compressed session snapshots of a cartridge.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"cartedit/internal/cart"
	"cartedit/internal/codec"

	"github.com/klauspost/compress/zstd"
)

const (
	magic           = "P8SN"
	snapshotVersion = 1
	headerSize      = len(magic) + 1
	regionsSize     = codec.GfxSize + codec.MapSize + codec.FlagsSize + codec.SFXSize + codec.MusicSize
)

var (
	// ErrFormat is returned for input that is not a snapshot.
	ErrFormat = errors.New("store: not a session snapshot")
	// ErrVersion is returned for snapshots written by another format version.
	ErrVersion = errors.New("store: unsupported snapshot version")
)

var (
	sharedEncoder persistentEncoder
	sharedDecoder persistentDecoder
)

type persistentEncoder struct {
	once sync.Once
	mu   sync.Mutex
	enc  *zstd.Encoder
	err  error
}

func (p *persistentEncoder) use(fn func(*zstd.Encoder) error) error {
	p.once.Do(func() {
		p.enc, p.err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p.enc)
}

type persistentDecoder struct {
	once sync.Once
	mu   sync.Mutex
	dec  *zstd.Decoder
	err  error
}

func (p *persistentDecoder) use(fn func(*zstd.Decoder) error) error {
	p.once.Do(func() {
		p.dec, p.err = zstd.NewReader(nil)
	})
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p.dec)
}

// Save writes c as a snapshot: a 5-byte header (magic, version) followed by
// one zstd frame holding the raw regions, then length-prefixed code and
// metadata JSON.
func Save(w io.Writer, c *cart.Cart) error {
	meta, err := json.Marshal(c.Meta)
	if err != nil {
		return fmt.Errorf("store: encode metadata: %w", err)
	}

	var body bytes.Buffer
	body.Grow(regionsSize + len(c.Code) + len(meta) + 8)
	for _, region := range [][]byte{c.Gfx, c.Map, c.Flags, c.SFX, c.Music} {
		body.Write(region)
	}
	writeField(&body, []byte(c.Code))
	writeField(&body, meta)

	var out bytes.Buffer
	out.WriteString(magic)
	out.WriteByte(snapshotVersion)
	if err := sharedEncoder.use(func(enc *zstd.Encoder) error {
		enc.Reset(&out)
		if _, err := enc.Write(body.Bytes()); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	}); err != nil {
		return fmt.Errorf("store: compress: %w", err)
	}

	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save.
func Load(r io.Reader) (*cart.Cart, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("store: read: %w", err)
	}
	if len(raw) < headerSize || string(raw[:len(magic)]) != magic {
		return nil, ErrFormat
	}
	if raw[len(magic)] != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, raw[len(magic)])
	}

	var body bytes.Buffer
	if err := sharedDecoder.use(func(dec *zstd.Decoder) error {
		if err := dec.Reset(bytes.NewReader(raw[headerSize:])); err != nil {
			return err
		}
		_, err := body.ReadFrom(dec)
		return err
	}); err != nil {
		return nil, fmt.Errorf("store: decompress: %w", err)
	}

	data := body.Bytes()
	if len(data) < regionsSize {
		return nil, fmt.Errorf("%w: body is %d bytes", ErrFormat, len(data))
	}
	p := cart.Payload{}
	off := 0
	for _, dst := range []struct {
		buf  *[]byte
		size int
	}{
		{&p.Gfx, codec.GfxSize},
		{&p.Map, codec.MapSize},
		{&p.Flags, codec.FlagsSize},
		{&p.SFX, codec.SFXSize},
		{&p.Music, codec.MusicSize},
	} {
		*dst.buf = data[off : off+dst.size]
		off += dst.size
	}

	code, rest, err := readField(data[off:])
	if err != nil {
		return nil, err
	}
	meta, _, err := readField(rest)
	if err != nil {
		return nil, err
	}
	p.Code = string(code)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &p.Meta); err != nil {
			return nil, fmt.Errorf("store: decode metadata: %w", err)
		}
	}
	return cart.FromPayload(p)
}

func writeField(buf *bytes.Buffer, data []byte) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(data)))
	buf.Write(n[:])
	buf.Write(data)
}

func readField(data []byte) (field, rest []byte, err error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("%w: truncated field", ErrFormat)
	}
	n := int(binary.LittleEndian.Uint32(data))
	if n > len(data)-4 {
		return nil, nil, fmt.Errorf("%w: field length %d exceeds body", ErrFormat, n)
	}
	return data[4 : 4+n], data[4+n:], nil
}
