// Command cartinfo summarises a cartridge and converts it between the .p8
// text format, session snapshots and PNG images.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cartedit/internal/cart"
	"cartedit/internal/export"
	"cartedit/internal/store"

	"github.com/charmbracelet/lipgloss"
)

type options struct {
	sheetPNG string
	mapPNG   string
	p8       string
	snapshot string
	scale    int
	grid     bool
	labels   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.sheetPNG, "sheet", "", "write the sprite sheet as PNG")
	flag.StringVar(&opts.mapPNG, "map", "", "write the tile map as PNG")
	flag.StringVar(&opts.p8, "p8", "", "write the cartridge as .p8 text")
	flag.StringVar(&opts.snapshot, "snapshot", "", "write the cartridge as a session snapshot")
	flag.IntVar(&opts.scale, "scale", 4, "PNG zoom factor")
	flag.BoolVar(&opts.grid, "grid", false, "draw sprite or tile boundaries on PNGs")
	flag.BoolVar(&opts.labels, "labels", false, "print sprite numbers on PNGs")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] cart.p8|snapshot\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	c, err := load(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(summary(path, c))

	exp := export.Options{Scale: opts.scale, Grid: opts.grid, Labels: opts.labels}
	outputs := []struct {
		path  string
		write func(io.Writer) error
	}{
		{opts.sheetPNG, func(w io.Writer) error { return export.SheetPNG(w, c.Gfx, exp) }},
		{opts.mapPNG, func(w io.Writer) error { return export.MapPNG(w, c.Map, c.Gfx, exp) }},
		{opts.p8, func(w io.Writer) error { return cart.WriteP8(w, c) }},
		{opts.snapshot, func(w io.Writer) error { return store.Save(w, c) }},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := writeFile(out.path, out.write); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", out.path)
	}
}

func load(path string) (*cart.Cart, error) {
	if !strings.EqualFold(filepath.Ext(path), ".p8") {
		return store.LoadFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return cart.ReadP8(f)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffec27"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#83769c")).Width(10)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func summary(path string, c *cart.Cart) string {
	s := c.Stats()
	rows := [][2]string{
		{"sprites", fmt.Sprintf("%d / 256 (%d flagged)", s.Sprites, s.Flagged)},
		{"map", fmt.Sprintf("%d tiles", s.Tiles)},
		{"sfx", fmt.Sprintf("%d / 64", s.SFX)},
		{"music", fmt.Sprintf("%d / 64 patterns", s.Patterns)},
		{"code", fmt.Sprintf("%d lines", s.CodeLines)},
	}
	keys := make([]string, 0, len(c.Meta))
	for k := range c.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, [2]string{k, fmt.Sprint(c.Meta[k])})
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = keyStyle.Render(r[0]) + r[1]
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(filepath.Base(path)),
		boxStyle.Render(strings.Join(lines, "\n")),
	)
}
