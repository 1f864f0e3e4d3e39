package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jkmurphy123/starfall/internal/config"
)

// Logger appends timestamped lines to .starfall/logs/starfall.log so
// failures can be inspected after the shell exits the alt screen. Once the
// game session is established, lines also carry the current turn so the
// diagnostic log lines up with the ship's logbook.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	turn int
}

// New creates (or reuses) the log file for the current project directory and
// marks the start of the session.
func New(projectDir string) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.StarfallDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "starfall.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l := &Logger{file: f}
	l.Printf("session opened")
	return l, nil
}

// SetTurn stamps subsequent lines with the given turn. Zero or negative
// turns drop the stamp, which is the pre-bootstrap state.
func (l *Logger) SetTurn(turn int) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.turn = turn
	l.mu.Unlock()
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	timestamp := time.Now().Format(time.RFC3339)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.turn > 0 {
		fmt.Fprintf(l.file, "[%s] T%03d %s\n", timestamp, l.turn, line)
		return
	}
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, line)
}
