package game

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrStateNotFound is returned when no persisted game state exists yet.
var ErrStateNotFound = errors.New("game: state not found")

// StateStore persists game state snapshots.
type StateStore interface {
	Load() (State, error)
	Save(State) error
}

// Repository stores the game snapshot within the state directory.
type Repository struct {
	path string
}

// NewRepository creates a repository rooted at the shell's state directory.
func NewRepository(stateDir string) *Repository {
	return &Repository{path: filepath.Join(stateDir, "game.json")}
}

// Path returns the snapshot file location.
func (r *Repository) Path() string {
	return r.path
}

// Load reads the persisted state if present.
func (r *Repository) Load() (State, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, ErrStateNotFound
		}
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Save writes the game state to disk with best-effort atomicity.
func (r *Repository) Save(state State) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, append(encoded, '\n'), 0o644)
}
