package app

import (
	"flag"
	"strings"
	"testing"
	"time"
)

func TestReadRC(t *testing.T) {
	src := "# comment\n\nWidth = 1024\ndebounce=1s\ngrid = false\nbogus line\n"
	values, err := ReadRC(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadRC: %v", err)
	}
	cfg := NewConfig()
	cfg.ApplyMap(values)
	if cfg.Width != 1024 || cfg.Debounce != time.Second || cfg.Grid {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestApplyMapIgnoresBadValues(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplyMap(map[string]string{"width": "-3", "tps": "fast", "undo": "0"})
	def := NewConfig()
	if cfg.Width != def.Width || cfg.TPS != def.TPS || cfg.UndoLimit != def.UndoLimit {
		t.Fatalf("bad values changed the config: %+v", cfg)
	}
}

func TestFlagsOverrideRC(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplyMap(map[string]string{"tps": "30"})
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-tps", "90", "-cart", "game.p8"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.TPS != 90 || cfg.Cart != "game.p8" {
		t.Fatalf("config = %+v", cfg)
	}
}
