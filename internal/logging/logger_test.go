package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jkmurphy123/starfall/internal/config"
)

func readLog(t *testing.T, dir string) []string {
	t.Helper()
	path := filepath.Join(dir, config.StarfallDir, "logs", "starfall.log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestNewOpensSession(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, err := New(dir)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer l.Close()

	lines := readLog(t, dir)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !strings.HasSuffix(lines[0], "session opened") {
		t.Fatalf("first line = %q", lines[0])
	}
}

func TestPrintfStampsTurnOnceSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, err := New(dir)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer l.Close()

	l.Printf("booting shell")
	l.SetTurn(5)
	l.Printf("state saved")

	lines := readLog(t, dir)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if strings.Contains(lines[1], " T0") {
		t.Fatalf("turn stamp before bootstrap: %q", lines[1])
	}
	if !strings.Contains(lines[2], " T005 state saved") {
		t.Fatalf("missing turn stamp: %q", lines[2])
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var l *Logger
	l.Printf("ignored")
	l.SetTurn(3)
	if err := l.Close(); err != nil {
		t.Fatalf("close nil logger: %v", err)
	}
}
