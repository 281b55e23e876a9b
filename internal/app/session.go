package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cartedit/internal/cart"
	"cartedit/internal/channel"
	"cartedit/internal/engine"
	"cartedit/internal/export"
	"cartedit/internal/store"
	"cartedit/pkg/core"
)

// Session wires a loaded cartridge to an engine and its persistence sink.
type Session struct {
	Engine    *engine.Engine
	Debouncer *channel.Debouncer

	cartPath string
	p8Path   string
	logger   *log.Logger
}

// Open loads the cartridge named by cfg and returns a ready session. With
// Stdio set the init message is read from in and changes are streamed to
// out.
func Open(cfg *Config, in io.Reader, out io.Writer, logger *log.Logger) (*Session, error) {
	var (
		c    *cart.Cart
		sink channel.Sink
		err  error
	)
	s := &Session{cartPath: cfg.Cart, logger: logger}

	switch {
	case cfg.Stdio:
		msg, derr := channel.NewDecoder(in).Next()
		if derr != nil {
			return nil, fmt.Errorf("app: read init: %w", derr)
		}
		if c, err = msg.Cart(); err != nil {
			return nil, err
		}
		sink = channel.NewStreamSink(out)
	case strings.EqualFold(filepath.Ext(cfg.Cart), ".p8"):
		if c, err = loadP8(cfg.Cart); err != nil {
			return nil, err
		}
		s.p8Path = cfg.Cart
	case cfg.Cart != "":
		if c, err = store.LoadFile(cfg.Cart); err != nil {
			return nil, err
		}
	default:
		c = cart.New()
		if cfg.Seed != 0 {
			core.NewRNG(cfg.Seed).FillNibbles(c.Gfx, 16)
		}
	}

	if sink == nil {
		if cfg.Session != "" {
			sink = store.NewFileSink(cfg.Session, c, logger)
		} else {
			sink = channel.SinkFunc(func(channel.Message) error { return nil })
		}
	}

	s.Debouncer = channel.NewDebouncer(sink, cfg.Debounce, logger)
	s.Engine = engine.New(c, s.Debouncer, cfg.UndoLimit)
	return s, nil
}

func loadP8(path string) (*cart.Cart, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cart.New(), nil
		}
		return nil, err
	}
	defer f.Close()
	return cart.ReadP8(f)
}

// Save flushes pending notifications and, for a .p8 cartridge, rewrites the
// file it came from.
func (s *Session) Save() error {
	s.Debouncer.Flush()
	if s.p8Path == "" {
		return nil
	}
	f, err := os.Create(s.p8Path)
	if err != nil {
		return err
	}
	if err := cart.WriteP8(f, s.Engine.Cart()); err != nil {
		f.Close()
		return err
	}
	if s.logger != nil {
		s.logger.Printf("app: wrote %s", s.p8Path)
	}
	return f.Close()
}

// Close stops the debouncer and saves.
func (s *Session) Close() error {
	s.Debouncer.Close()
	return s.Save()
}

// ExportPath names the PNG written for a canvas: the cartridge's base name
// plus the canvas, next to the cartridge.
func (s *Session) ExportPath(cv engine.Canvas) string {
	base := "cart"
	dir := "."
	if s.cartPath != "" {
		dir = filepath.Dir(s.cartPath)
		base = strings.TrimSuffix(filepath.Base(s.cartPath), filepath.Ext(s.cartPath))
	}
	return filepath.Join(dir, base+"-"+cv.String()+".png")
}

// ExportPNG writes the sprite sheet or map as a PNG image.
func (s *Session) ExportPNG(cv engine.Canvas, path string, opts export.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if cv == engine.CanvasTiles {
		err = export.MapPNG(f, s.Engine.Map(), s.Engine.Gfx(), opts)
	} else {
		err = export.SheetPNG(f, s.Engine.Gfx(), opts)
	}
	if err != nil {
		f.Close()
		return err
	}
	if s.logger != nil {
		s.logger.Printf("app: exported %s", path)
	}
	return f.Close()
}
