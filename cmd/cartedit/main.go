//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"cartedit/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	if err := cfg.LoadRC(app.DefaultRCPath()); err != nil {
		log.Printf("cartedit: rc: %v", err)
	}
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	session, err := app.Open(cfg, os.Stdin, os.Stdout, logger)
	if err != nil {
		log.Fatal(err)
	}

	title := "cartedit"
	if cfg.Cart != "" {
		title += ": " + filepath.Base(cfg.Cart)
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(app.New(cfg, session))
	if err := session.Close(); err != nil {
		log.Print(err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatal(runErr)
	}
}
