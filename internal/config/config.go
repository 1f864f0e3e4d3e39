// internal/config/config.go
//
// This package handles configuration and the .starfall directory structure.
// Every save directory the shell runs from gets a .starfall/ folder holding
// the config file, the database, logs, and the persisted game state.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// StarfallDir is the name of the directory we create next to the save.
const StarfallDir = ".starfall"

const defaultGameConfigYAML = `# starfall shell configuration
version: 1

window:
  title: Starfall

layout:
  rows: 2
  cols: 2

panels:
  - id: nav
    title: Navigation
    row: 0
    col: 0
    accent: "#5B8DEF"
  - id: scan
    title: Scanner
    row: 0
    col: 1
    accent: "#58C2A9"
  - id: comms
    title: Comms
    row: 1
    col: 0
    accent: "#C28B58"
  - id: log
    title: Log
    row: 1
    col: 1
    accent: "#9B6BD6"

game:
  database: starfall.db
  player: Captain
  start_system: Sol
  start_planet: Earth

menu:
  - label: Ship
    children:
      - label: Bridge
        children:
          - label: End Turn
            actions:
              - kind: advance_turn
          - label: Plot Course
            actions:
              - kind: plot_course
                target: training vector
      - label: Sensors
        children:
          - label: Short Scan
            actions:
              - kind: run_scan
      - label: Comms
        children:
          - label: Standard Hail
            actions:
              - kind: hail
  - label: Missions
    children:
      - label: Guide
        children:
          - label: Show Projects
            actions:
              - kind: show_projects
          - label: Board Ship Done
            actions:
              - kind: set_task_status
                project: getting_started
                task: board_ship
                status: Completed
`

// PanelRef places one panel in the grid.
type PanelRef struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`
	Accent string `yaml:"accent,omitempty"`
}

// ActionRef is the raw config form of a command action. The game layer
// resolves Kind into its closed action enum; unknown kinds are rejected
// there, not here.
type ActionRef struct {
	Kind    string `yaml:"kind"`
	Project string `yaml:"project,omitempty"`
	Task    string `yaml:"task,omitempty"`
	Status  string `yaml:"status,omitempty"`
	Target  string `yaml:"target,omitempty"`
}

// MenuLeaf is a selectable menu item carrying actions.
type MenuLeaf struct {
	Label   string      `yaml:"label"`
	Actions []ActionRef `yaml:"actions,omitempty"`
}

// MenuGroup is the middle menu level.
type MenuGroup struct {
	Label    string     `yaml:"label"`
	Children []MenuLeaf `yaml:"children,omitempty"`
}

// MenuRoot is a top-level menu entry.
type MenuRoot struct {
	Label    string      `yaml:"label"`
	Children []MenuGroup `yaml:"children,omitempty"`
}

// WindowConfig names the shell window.
type WindowConfig struct {
	Title string `yaml:"title"`
}

// LayoutConfig sizes the panel grid.
type LayoutConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// GameSettings holds database and starting-state knobs.
type GameSettings struct {
	Database    string `yaml:"database"`
	Player      string `yaml:"player"`
	StartSystem string `yaml:"start_system"`
	StartPlanet string `yaml:"start_planet"`
}

// ShellConfig models .starfall/config.yaml.
type ShellConfig struct {
	Version int          `yaml:"version"`
	Window  WindowConfig `yaml:"window"`
	Layout  LayoutConfig `yaml:"layout"`
	Panels  []PanelRef   `yaml:"panels"`
	Game    GameSettings `yaml:"game"`
	Menu    []MenuRoot   `yaml:"menu"`
}

// Config holds the runtime configuration for the shell.
type Config struct {
	// ProjectDir is the directory the shell was launched from.
	ProjectDir string

	// StarfallProjectDir is ProjectDir/.starfall.
	StarfallProjectDir string

	Shell ShellConfig
}

// InitStarfallDir creates the .starfall directory structure in the given
// directory. Called once at startup.
//
// Structure created:
// .starfall/
// ├── logs/        <- shell diagnostics + ship's log
// ├── state/       <- persisted game state snapshot
// └── config.yaml  <- shell configuration (seeded with defaults)
func InitStarfallDir(projectDir string) error {
	starfallDir := filepath.Join(projectDir, StarfallDir)
	dirs := []string{
		filepath.Join(starfallDir, "logs"),
		filepath.Join(starfallDir, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureShellConfig(filepath.Join(starfallDir, "config.yaml"))
}

// NewConfig loads the shell configuration for the given directory. A
// missing config file falls back to defaults; a malformed one is an error
// the caller may choose to ignore in favor of defaults.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		StarfallProjectDir: filepath.Join(projectDir, StarfallDir),
		Shell:              defaultShellConfig(),
	}
	if err := cfg.loadShellConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config carrying only the built-in defaults, for callers
// recovering from an unreadable config file.
func Default(projectDir string) *Config {
	return &Config{
		ProjectDir:         projectDir,
		StarfallProjectDir: filepath.Join(projectDir, StarfallDir),
		Shell:              defaultShellConfig(),
	}
}

// ConfigPath returns the on-disk location of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.StarfallProjectDir, "config.yaml")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.StarfallProjectDir, "logs")
}

// StateDir returns the path to the state directory.
func (c *Config) StateDir() string {
	return filepath.Join(c.StarfallProjectDir, "state")
}

// DatabasePath returns the absolute path to the SQLite database.
func (c *Config) DatabasePath() string {
	name := strings.TrimSpace(c.Shell.Game.Database)
	if name == "" {
		name = "starfall.db"
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(c.StarfallProjectDir, name)
}

// Panel returns the panel placed at (row, col), if any.
func (c *Config) Panel(row, col int) (PanelRef, bool) {
	for _, p := range c.Shell.Panels {
		if p.Row == row && p.Col == col {
			return p, true
		}
	}
	return PanelRef{}, false
}

func (c *Config) loadShellConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ShellConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Shell = parsed
	return nil
}

func defaultShellConfig() ShellConfig {
	var cfg ShellConfig
	// The embedded default document is the single source of truth; it
	// parses by construction.
	if err := yaml.Unmarshal([]byte(defaultGameConfigYAML), &cfg); err != nil {
		panic(fmt.Sprintf("config: default document invalid: %v", err))
	}
	cfg.applyDefaults()
	cfg.normalize()
	return cfg
}

func (sc *ShellConfig) applyDefaults() {
	if sc.Version == 0 {
		sc.Version = 1
	}
	if strings.TrimSpace(sc.Window.Title) == "" {
		sc.Window.Title = "Starfall"
	}
	if sc.Layout.Rows == 0 {
		sc.Layout.Rows = 2
	}
	if sc.Layout.Cols == 0 {
		sc.Layout.Cols = 2
	}
	if strings.TrimSpace(sc.Game.Database) == "" {
		sc.Game.Database = "starfall.db"
	}
	if strings.TrimSpace(sc.Game.Player) == "" {
		sc.Game.Player = "Captain"
	}
	if strings.TrimSpace(sc.Game.StartSystem) == "" {
		sc.Game.StartSystem = "Sol"
	}
	if strings.TrimSpace(sc.Game.StartPlanet) == "" {
		sc.Game.StartPlanet = "Earth"
	}
}

func (sc *ShellConfig) normalize() {
	for i := range sc.Panels {
		sc.Panels[i].ID = strings.TrimSpace(sc.Panels[i].ID)
		sc.Panels[i].Title = strings.TrimSpace(sc.Panels[i].Title)
	}
	sc.Game.Player = strings.TrimSpace(sc.Game.Player)
	sc.Game.StartSystem = strings.TrimSpace(sc.Game.StartSystem)
	sc.Game.StartPlanet = strings.TrimSpace(sc.Game.StartPlanet)
}

func (sc *ShellConfig) validate() error {
	if sc.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if sc.Layout.Rows < 1 || sc.Layout.Cols < 1 {
		return fmt.Errorf("layout must have at least one row and column")
	}
	seenIDs := map[string]struct{}{}
	seenCells := map[[2]int]struct{}{}
	for i, p := range sc.Panels {
		if p.ID == "" {
			return fmt.Errorf("panels[%d]: id is required", i)
		}
		if _, dup := seenIDs[p.ID]; dup {
			return fmt.Errorf("panels[%d]: duplicate id %q", i, p.ID)
		}
		seenIDs[p.ID] = struct{}{}
		if p.Row < 0 || p.Row >= sc.Layout.Rows || p.Col < 0 || p.Col >= sc.Layout.Cols {
			return fmt.Errorf("panels[%d]: cell (%d,%d) outside %dx%d grid", i, p.Row, p.Col, sc.Layout.Rows, sc.Layout.Cols)
		}
		cell := [2]int{p.Row, p.Col}
		if _, dup := seenCells[cell]; dup {
			return fmt.Errorf("panels[%d]: cell (%d,%d) already occupied", i, p.Row, p.Col)
		}
		seenCells[cell] = struct{}{}
	}
	for i, root := range sc.Menu {
		if strings.TrimSpace(root.Label) == "" {
			return fmt.Errorf("menu[%d]: label is required", i)
		}
	}
	return nil
}

func ensureShellConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultGameConfigYAML), 0o644)
}
