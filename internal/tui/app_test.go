package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jkmurphy123/starfall/internal/config"
	"github.com/jkmurphy123/starfall/internal/game"
	"github.com/jkmurphy123/starfall/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitStarfallDir(projectDir); err != nil {
		t.Fatalf("init starfall dir: %v", err)
	}
	cfg := config.Default(projectDir)
	ctrl, err := game.NewController(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	app := NewApp(cfg, ctrl)
	t.Cleanup(func() {
		app.Close()
		ctrl.Close()
	})
	return app
}

func press(t *testing.T, app *App, key tea.KeyMsg) *App {
	t.Helper()
	model, _ := app.Update(key)
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	return next
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestTabCyclesFocusThroughTheGrid(t *testing.T) {
	app := newTestApp(t)
	want := []string{"Scanner", "Comms", "Log", "Navigation"}
	for _, title := range want {
		app = press(t, app, tea.KeyMsg{Type: tea.KeyTab})
		panel, ok := app.focusedPanel()
		if !ok {
			t.Fatalf("no panel focused")
		}
		if panel.Title != title {
			t.Fatalf("focus = %s, want %s", panel.Title, title)
		}
	}
}

func TestArrowKeysClampAtGridEdges(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, tea.KeyMsg{Type: tea.KeyUp})
	app = press(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	if app.focusRow != 0 || app.focusCol != 0 {
		t.Fatalf("focus moved off grid: (%d,%d)", app.focusRow, app.focusCol)
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyDown})
	app = press(t, app, tea.KeyMsg{Type: tea.KeyRight})
	app = press(t, app, tea.KeyMsg{Type: tea.KeyDown})
	if app.focusRow != 1 || app.focusCol != 1 {
		t.Fatalf("focus = (%d,%d), want (1,1)", app.focusRow, app.focusCol)
	}
}

func TestAdvanceTurnKeyUpdatesStatusBar(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, runeKey('e'))
	view := app.View()
	if !strings.Contains(view, "Turn: 2") {
		t.Fatalf("view missing turn counter after advance:\n%s", view)
	}
}

func TestQuitKeysOnBoard(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(runeKey('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestMenuDrillDownAndEscape(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, runeKey('m'))
	if app.state != stateMenu {
		t.Fatalf("state = %d, want menu", app.state)
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.menuRootIdx != 0 {
		t.Fatalf("expected first root selected, got %d", app.menuRootIdx)
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.menuRootIdx != -1 {
		t.Fatalf("esc should back out of root, got %d", app.menuRootIdx)
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.state != stateBoard {
		t.Fatalf("esc at top level should return to board")
	}
}

func TestExecuteLeafDispatchesActions(t *testing.T) {
	app := newTestApp(t)
	leaf := config.MenuLeaf{
		Label: "End Turn",
		Actions: []config.ActionRef{
			{Kind: "advance_turn"},
		},
	}
	app.executeLeaf(leaf)
	if got := app.ctrl.State().Turn; got != 2 {
		t.Fatalf("turn = %d, want 2", got)
	}
	if app.statusMsg != "End Turn" {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestExecuteLeafRejectsUnknownActionKind(t *testing.T) {
	app := newTestApp(t)
	leaf := config.MenuLeaf{
		Label:   "Broken",
		Actions: []config.ActionRef{{Kind: "warp_jump"}},
	}
	app.executeLeaf(leaf)
	if !strings.Contains(app.statusMsg, "Command unavailable") {
		t.Fatalf("status = %q, want parse failure notice", app.statusMsg)
	}
	if got := app.ctrl.State().Turn; got != 1 {
		t.Fatalf("turn mutated to %d by rejected action", got)
	}
}

func TestProjectsOverlayHiddenToggleAndCompletion(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, runeKey('p'))
	if app.state != stateProjects {
		t.Fatalf("state = %d, want projects", app.state)
	}
	if len(app.taskRows) != 0 {
		t.Fatalf("fresh catalog should have no visible tasks, got %d", len(app.taskRows))
	}
	app = press(t, app, runeKey('h'))
	if len(app.taskRows) != 5 {
		t.Fatalf("hidden toggle should expose 5 tasks, got %d", len(app.taskRows))
	}
	if app.taskRows[0].taskKey != "board_ship" {
		t.Fatalf("first row = %s, want board_ship", app.taskRows[0].taskKey)
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	var powerUp *taskRow
	for i := range app.taskRows {
		if app.taskRows[i].taskKey == "power_up" {
			powerUp = &app.taskRows[i]
		}
	}
	if powerUp == nil {
		t.Fatalf("power_up missing after completion")
	}
	if powerUp.status != store.TaskInProgress || powerUp.hidden {
		t.Fatalf("power_up = %+v, want visible in_progress", *powerUp)
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.state != stateBoard {
		t.Fatalf("esc should return to board")
	}
}

func TestViewRendersPanelTitlesAndLocation(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40
	view := app.View()
	for _, want := range []string{"STARFALL", "Navigation", "Scanner", "Comms", "Log", "Sol III - Earth", "Turn: 1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}
