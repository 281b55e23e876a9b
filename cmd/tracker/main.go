package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"cartedit/internal/app"
	"cartedit/internal/tracker"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

func main() {
	cfg := app.NewConfig()
	if err := cfg.LoadRC(app.DefaultRCPath()); err != nil {
		log.Printf("tracker: rc: %v", err)
	}
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if cfg.Stdio || !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "tracker: stdin must be a terminal")
		os.Exit(2)
	}

	// The terminal belongs to bubbletea, so log lines go to a file or nowhere.
	if path := os.Getenv("CARTEDIT_LOG"); path != "" {
		f, err := tea.LogToFile(path, "tracker")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	logger := log.Default()

	session, err := app.Open(cfg, nil, nil, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(tracker.New(session.Engine, session.Save), tea.WithAltScreen())
	_, runErr := p.Run()
	if err := session.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
