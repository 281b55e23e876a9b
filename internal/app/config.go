package app

import (
	"bufio"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config represents the command-line parameters for the editors.
type Config struct {
	Cart      string
	Session   string
	Stdio     bool
	Width     int
	Height    int
	HUDWidth  int
	TPS       int
	UndoLimit int
	Debounce  time.Duration
	Seed      int64
	Grid      bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:     960,
		Height:    640,
		HUDWidth:  220,
		TPS:       60,
		UndoLimit: 50,
		Debounce:  250 * time.Millisecond,
		Grid:      true,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Cart, "cart", c.Cart, "cartridge to open (.p8 text or session snapshot)")
	fs.StringVar(&c.Session, "session", c.Session, "snapshot file that receives every committed change")
	fs.BoolVar(&c.Stdio, "stdio", c.Stdio, "read the init message from stdin and stream changes to stdout")
	fs.IntVar(&c.Width, "width", c.Width, "window width")
	fs.IntVar(&c.Height, "height", c.Height, "window height")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the parameter panel")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.UndoLimit, "undo", c.UndoLimit, "undo steps kept per editor")
	fs.DurationVar(&c.Debounce, "debounce", c.Debounce, "quiet period before a change is persisted")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "fill a new cartridge with random pixels from this seed (0 = blank)")
	fs.BoolVar(&c.Grid, "grid", c.Grid, "draw the sprite grid")
}

// ApplyMap overrides fields from key/value pairs, ignoring unknown keys and
// unparsable values.
func (c *Config) ApplyMap(cfg map[string]string) {
	if cfg == nil {
		return
	}
	if v, ok := cfg["cart"]; ok {
		c.Cart = expandHome(v)
	}
	if v, ok := cfg["session"]; ok {
		c.Session = expandHome(v)
	}
	if v, ok := cfg["width"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["height"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["hud"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.HUDWidth = parsed
		}
	}
	if v, ok := cfg["tps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TPS = parsed
		}
	}
	if v, ok := cfg["undo"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.UndoLimit = parsed
		}
	}
	if v, ok := cfg["debounce"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.Debounce = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["grid"]; ok {
		c.Grid = strings.ToLower(v) == "true"
	}
}

// ReadRC parses key = value lines. Blank lines and lines starting with #
// are skipped; keys are lower-cased.
func ReadRC(r io.Reader) (map[string]string, error) {
	out := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return out, scanner.Err()
}

// LoadRC applies the rc file at path. A missing file is not an error.
func (c *Config) LoadRC(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	values, err := ReadRC(f)
	if err != nil {
		return err
	}
	c.ApplyMap(values)
	return nil
}

// DefaultRCPath returns ~/.carteditrc, or "" when there is no home
// directory.
func DefaultRCPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".carteditrc")
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
