package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"cartedit/internal/cart"
	"cartedit/internal/channel"
)

// Apply folds a committed message into c. Arrays of the wrong length are
// ignored.
func Apply(c *cart.Cart, m channel.Message) {
	put := func(dst []byte, src channel.Bytes) {
		if len(src) == len(dst) {
			copy(dst, src)
		}
	}
	switch m.Type {
	case channel.TypeGfx:
		put(c.Gfx, m.Gfx)
	case channel.TypeMap:
		put(c.Map, m.Map)
		put(c.Gfx, m.Gfx)
	case channel.TypeFlags:
		put(c.Flags, m.Flags)
	case channel.TypeSFX:
		put(c.SFX, m.SFX)
	case channel.TypeMusic:
		put(c.Music, m.Music)
	case channel.TypeCode:
		if m.Code != nil {
			c.Code = *m.Code
		}
	case channel.TypeMeta:
		c.Meta = m.MetaData
		if c.Meta == nil {
			c.Meta = map[string]any{}
		}
	}
}

// FileSink persists every committed message by rewriting a snapshot file.
type FileSink struct {
	path   string
	logger *log.Logger

	mu   sync.Mutex
	cart *cart.Cart
}

// NewFileSink returns a sink that keeps its own copy of c and writes it to
// path after each message.
func NewFileSink(path string, c *cart.Cart, logger *log.Logger) *FileSink {
	return &FileSink{path: path, cart: c.Clone(), logger: logger}
}

// Send applies m and rewrites the snapshot.
func (s *FileSink) Send(m channel.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	Apply(s.cart, m)
	if err := s.write(); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Printf("store: %s saved to %s", m.Type, s.path)
	}
	return nil
}

// Cart returns a copy of the persisted state.
func (s *FileSink) Cart() *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *FileSink) write() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := Save(tmp, s.cart); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// LoadFile reads a snapshot from path.
func LoadFile(path string) (*cart.Cart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer f.Close()
	return Load(f)
}
