// cmd/starfall/main.go
//
// This is the entry point for the Starfall shell.
// When you run `starfall` from a save directory, this is what executes.
//
// Flow:
// 1. Initialize the .starfall folder (config, logs, state)
// 2. Load the shell config, falling back to defaults if unreadable
// 3. Bootstrap the game controller (database, seed, snapshot)
// 4. Launch the TUI

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jkmurphy123/starfall/internal/config"
	"github.com/jkmurphy123/starfall/internal/game"
	"github.com/jkmurphy123/starfall/internal/logging"
	"github.com/jkmurphy123/starfall/internal/tui"
)

func main() {
	saveDir := flag.String("dir", "", "save directory (defaults to the working directory)")
	flag.Parse()

	dir := *saveDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
		dir = cwd
	}

	if err := config.InitStarfallDir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .starfall directory: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening diagnostic log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	cfg, err := config.NewConfig(dir)
	if err != nil {
		// A broken config file should not brick the save; run on defaults
		// and leave a trail in the diagnostic log.
		logger.Printf("config unreadable, using defaults: %v", err)
		cfg = config.Default(dir)
	}

	ctrl, err := game.NewController(context.Background(), cfg, logger)
	if err != nil {
		logger.Printf("bootstrap failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error starting game: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Close()

	app := tui.NewApp(cfg, ctrl)
	defer app.Close()

	// tea.NewProgram creates a new bubbletea application;
	// Run blocks until the user quits.
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Printf("tui exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
