// internal/tui/app.go
//
// This is the main TUI for Starfall. It uses bubbletea, which follows The
// Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jkmurphy123/starfall/internal/config"
	"github.com/jkmurphy123/starfall/internal/game"
	"github.com/jkmurphy123/starfall/internal/progress"
	"github.com/jkmurphy123/starfall/internal/shellbus"
	"github.com/jkmurphy123/starfall/internal/store"
)

// appState represents which "screen" we're on
type appState int

const (
	stateBoard    appState = iota // The 2x2 panel board
	stateMenu                    // Command menu drill-down
	stateProjects                // Projects overlay
)

const (
	panelRefreshInterval = 1 * time.Second
	panelNoteLimit       = 6
	logTailLimit         = 8
)

type panelRefreshMsg struct{}

// taskRow is one selectable line in the projects overlay.
type taskRow struct {
	projectKey string
	taskKey    string
	name       string
	status     store.TaskStatus
	hidden     bool
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config *config.Config
	ctrl   *game.Controller

	// UI components
	menu      list.Model
	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int

	state    appState
	focusRow int
	focusCol int

	// Menu drill-down position: -1 means "choose at this level".
	menuRootIdx  int
	menuGroupIdx int

	// Per-panel recent bus notes, newest last.
	subs  map[string]shellbus.Subscription
	notes map[string][]string

	// Projects overlay data
	projectViews  []progress.ProjectView
	taskRows      []taskRow
	taskSelection int
	includeHidden bool
	projectsErr   string
}

// menuItem implements list.Item interface for menu entries
type menuItem struct {
	title string
	desc  string
	index int
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance around a bootstrapped controller.
func NewApp(cfg *config.Config, ctrl *game.Controller) *App {
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "COMMAND"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	app := &App{
		config:       cfg,
		ctrl:         ctrl,
		menu:         menu,
		state:        stateBoard,
		menuRootIdx:  -1,
		menuGroupIdx: -1,
		subs:         map[string]shellbus.Subscription{},
		notes:        map[string][]string{},
	}
	for _, panel := range cfg.Shell.Panels {
		app.subs[panel.ID] = ctrl.Bus().Subscribe(panel.ID)
	}
	app.statusMsg = fmt.Sprintf("Welcome aboard, %s", ctrl.PlayerName())
	return app
}

// Close releases the panel subscriptions.
func (a *App) Close() {
	for _, sub := range a.subs {
		sub.Close()
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.schedulePanelRefresh()
}

func (a *App) schedulePanelRefresh() tea.Cmd {
	return tea.Tick(panelRefreshInterval, func(time.Time) tea.Msg {
		return panelRefreshMsg{}
	})
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		return a, nil

	case panelRefreshMsg:
		a.drainEvents()
		return a, a.schedulePanelRefresh()

	case tea.KeyMsg:
		switch a.state {
		case stateBoard:
			return a.updateBoard(msg)
		case stateMenu:
			return a.updateMenu(msg)
		case stateProjects:
			return a.updateProjects(msg)
		}
	}

	return a, nil
}

func (a *App) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "e", "enter":
		a.advanceTurn()
	case "tab":
		a.cycleFocus()
	case "up", "k":
		a.moveFocus(-1, 0)
	case "down", "j":
		a.moveFocus(1, 0)
	case "left", "h":
		a.moveFocus(0, -1)
	case "right", "l":
		a.moveFocus(0, 1)
	case "m":
		return a.openMenu()
	case "p":
		return a.openProjects()
	}
	return a, nil
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		return a.menuBack()
	case "enter":
		return a.menuSelect()
	}
	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func (a *App) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc", "p":
		a.state = stateBoard
		return a, nil
	case "h":
		a.includeHidden = !a.includeHidden
		a.reloadProjects()
		return a, nil
	case "up", "k":
		if a.taskSelection > 0 {
			a.taskSelection--
		}
		return a, nil
	case "down", "j":
		if a.taskSelection < len(a.taskRows)-1 {
			a.taskSelection++
		}
		return a, nil
	case "enter":
		a.completeSelectedTask()
		return a, nil
	}
	return a, nil
}

// ---- Turn & focus ----

func (a *App) advanceTurn() {
	turn, err := a.ctrl.AdvanceTurn()
	if err != nil {
		a.statusMsg = fmt.Sprintf("Turn advance failed: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("Turn advanced to %d", turn)
	a.drainEvents()
}

func (a *App) cycleFocus() {
	rows := a.config.Shell.Layout.Rows
	cols := a.config.Shell.Layout.Cols
	idx := a.focusRow*cols + a.focusCol
	idx = (idx + 1) % (rows * cols)
	a.setFocus(idx/cols, idx%cols)
}

func (a *App) moveFocus(dRow, dCol int) {
	row := clamp(a.focusRow+dRow, 0, a.config.Shell.Layout.Rows-1)
	col := clamp(a.focusCol+dCol, 0, a.config.Shell.Layout.Cols-1)
	a.setFocus(row, col)
}

func (a *App) setFocus(row, col int) {
	if row == a.focusRow && col == a.focusCol {
		return
	}
	a.focusRow = row
	a.focusCol = col
	if panel, ok := a.config.Panel(row, col); ok {
		a.ctrl.Bus().Publish(shellbus.Event{
			Type:    shellbus.TypeFocusChanged,
			Panel:   panel.ID,
			Turn:    a.ctrl.State().Turn,
			Message: fmt.Sprintf("%s focused", panel.Title),
		})
		a.drainEvents()
	}
}

func (a *App) focusedPanel() (config.PanelRef, bool) {
	return a.config.Panel(a.focusRow, a.focusCol)
}

// drainEvents pulls whatever each panel subscription has queued and keeps
// the most recent notes for display.
func (a *App) drainEvents() {
	for id, sub := range a.subs {
		drained := false
		for !drained {
			select {
			case event, ok := <-sub.Events:
				if !ok {
					drained = true
					break
				}
				if event.Message == "" {
					break
				}
				notes := append(a.notes[id], event.Message)
				if len(notes) > panelNoteLimit {
					notes = notes[len(notes)-panelNoteLimit:]
				}
				a.notes[id] = notes
			default:
				drained = true
			}
		}
	}
}

// ---- Command menu ----

func (a *App) openMenu() (tea.Model, tea.Cmd) {
	a.state = stateMenu
	a.menuRootIdx = -1
	a.menuGroupIdx = -1
	a.rebuildMenuItems()
	if a.width > 0 && a.height > 0 {
		a.menu.SetSize(max(0, a.width-6), max(0, a.height-10))
	}
	return a, nil
}

func (a *App) rebuildMenuItems() {
	var items []list.Item
	switch {
	case a.menuRootIdx < 0:
		a.menu.Title = "COMMAND"
		for i, root := range a.config.Shell.Menu {
			items = append(items, menuItem{title: root.Label, desc: childSummary(len(root.Children)), index: i})
		}
	case a.menuGroupIdx < 0:
		root := a.config.Shell.Menu[a.menuRootIdx]
		a.menu.Title = root.Label
		for i, group := range root.Children {
			items = append(items, menuItem{title: group.Label, desc: childSummary(len(group.Children)), index: i})
		}
	default:
		group := a.config.Shell.Menu[a.menuRootIdx].Children[a.menuGroupIdx]
		a.menu.Title = group.Label
		for i, leaf := range group.Children {
			desc := "No actions"
			if n := len(leaf.Actions); n == 1 {
				desc = "1 action"
			} else if n > 1 {
				desc = fmt.Sprintf("%d actions", n)
			}
			items = append(items, menuItem{title: leaf.Label, desc: desc, index: i})
		}
	}
	a.menu.SetItems(items)
	a.menu.Select(0)
}

func childSummary(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

func (a *App) menuBack() (tea.Model, tea.Cmd) {
	switch {
	case a.menuGroupIdx >= 0:
		a.menuGroupIdx = -1
	case a.menuRootIdx >= 0:
		a.menuRootIdx = -1
	default:
		a.state = stateBoard
		return a, nil
	}
	a.rebuildMenuItems()
	return a, nil
}

func (a *App) menuSelect() (tea.Model, tea.Cmd) {
	item, ok := a.menu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch {
	case a.menuRootIdx < 0:
		a.menuRootIdx = item.index
		a.rebuildMenuItems()
	case a.menuGroupIdx < 0:
		a.menuGroupIdx = item.index
		a.rebuildMenuItems()
	default:
		leaf := a.config.Shell.Menu[a.menuRootIdx].Children[a.menuGroupIdx].Children[item.index]
		a.executeLeaf(leaf)
		a.state = stateBoard
	}
	return a, nil
}

func (a *App) executeLeaf(leaf config.MenuLeaf) {
	actions, err := game.ParseActions(leaf.Actions)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Command unavailable: %v", err)
		return
	}
	ctx := context.Background()
	for _, action := range actions {
		if err := a.ctrl.Dispatch(ctx, action); err != nil {
			a.statusMsg = fmt.Sprintf("%s failed: %v", leaf.Label, err)
			return
		}
	}
	a.statusMsg = leaf.Label
	a.drainEvents()
}

// ---- Projects overlay ----

func (a *App) openProjects() (tea.Model, tea.Cmd) {
	a.state = stateProjects
	a.includeHidden = false
	a.taskSelection = 0
	a.reloadProjects()
	return a, nil
}

func (a *App) reloadProjects() {
	views, err := a.ctrl.Projects(context.Background(), a.includeHidden)
	if err != nil {
		a.projectsErr = err.Error()
		a.projectViews = nil
		a.taskRows = nil
		return
	}
	a.projectsErr = ""
	a.projectViews = views
	a.taskRows = a.taskRows[:0]
	for _, view := range views {
		for _, task := range view.Tasks {
			a.taskRows = append(a.taskRows, taskRow{
				projectKey: view.Key,
				taskKey:    task.TaskKey,
				name:       task.Name,
				status:     task.Status,
				hidden:     task.Hidden,
			})
		}
	}
	if a.taskSelection >= len(a.taskRows) {
		a.taskSelection = max(0, len(a.taskRows)-1)
	}
}

func (a *App) completeSelectedTask() {
	if a.taskSelection >= len(a.taskRows) {
		return
	}
	row := a.taskRows[a.taskSelection]
	changed, err := a.ctrl.CompleteTask(context.Background(), row.projectKey, row.taskKey)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Task update failed: %v", err)
		return
	}
	if changed {
		a.statusMsg = fmt.Sprintf("%s completed", row.name)
	}
	a.reloadProjects()
	a.drainEvents()
}

// ---- View ----

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("✦ " + strings.ToUpper(a.config.Shell.Window.Title))

	var body string
	switch a.state {
	case stateMenu:
		body = a.renderMenu()
	case stateProjects:
		body = a.renderProjects(width)
	default:
		body = a.renderBoard(width)
	}
	return strings.Join([]string{header, body, a.renderStatusBar()}, "\n")
}

func (a *App) renderStatusBar() string {
	focusTitle := "-"
	if panel, ok := a.focusedPanel(); ok {
		focusTitle = panel.Title
	}
	bar := fmt.Sprintf("Turn: %d    Focus: %s", a.ctrl.State().Turn, focusTitle)
	hint := "e advance · m command · p projects · tab focus · q quit"
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(bar + "\n" + hint + statusSuffix(a.statusMsg))
}

func statusSuffix(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return ""
	}
	return "\n" + msg
}

func (a *App) renderBoard(width int) string {
	rows := a.config.Shell.Layout.Rows
	cols := a.config.Shell.Layout.Cols
	cellWidth := max(24, width/cols-2)
	cellHeight := max(6, (a.height-8)/max(1, rows))

	var rendered []string
	for row := 0; row < rows; row++ {
		var cells []string
		for col := 0; col < cols; col++ {
			cells = append(cells, a.renderPanel(row, col, cellWidth, cellHeight))
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (a *App) renderPanel(row, col, width, height int) string {
	panel, ok := a.config.Panel(row, col)
	if !ok {
		return lipgloss.NewStyle().Width(width).Height(height).Render("")
	}
	focused := row == a.focusRow && col == a.focusCol

	accent := panel.Accent
	if accent == "" {
		accent = "#5B8DEF"
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(accent)).
		Render(panel.Title)
	body := a.panelBody(panel.ID, width-4)
	content := fmt.Sprintf("%s\n%s", title, body)

	borderColor := lipgloss.Color("#444444")
	if focused {
		borderColor = lipgloss.Color(accent)
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width).
		Height(height)
	if focused {
		style = style.Bold(true)
	}
	return style.Render(content)
}

// panelBody renders the panel-specific content: the Nav location, the Log
// tail, and the recent bus notes everywhere.
func (a *App) panelBody(panelID string, width int) string {
	var lines []string
	switch panelID {
	case "nav":
		lines = append(lines, fmt.Sprintf("Location: %s", a.ctrl.LocationName()))
	case "comms":
		lines = append(lines, "Channel open. c hails via the command menu.")
	case "log":
		tail, total := a.ctrl.Book().Tail(logTailLimit)
		if total > 0 {
			lines = append(lines, tail...)
		} else {
			lines = append(lines, "Ship's log is empty.")
		}
	}
	if notes := a.notes[panelID]; len(notes) > 0 && panelID != "log" {
		lines = append(lines, notes...)
	}
	if len(lines) == 0 {
		lines = append(lines, "Standing by.")
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Width(max(10, width)).
		Render(strings.Join(lines, "\n"))
}

func (a *App) renderMenu() string {
	view := a.menu.View()
	if strings.TrimSpace(view) == "" {
		view = "No commands configured"
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("Enter → select    Esc → back")
	return lipgloss.JoinVertical(lipgloss.Left, view, hint)
}

func (a *App) renderProjects(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("PROJECTS (%d)", len(a.projectViews)))
	if a.projectsErr != "" {
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("⚠ " + a.projectsErr)
		return lipgloss.JoinVertical(lipgloss.Left, title, warn)
	}
	var sections []string
	rowIdx := 0
	for _, view := range a.projectViews {
		sections = append(sections, lipgloss.NewStyle().Bold(true).Render(view.Name))
		if len(view.Tasks) == 0 {
			sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("  nothing visible yet"))
			continue
		}
		for range view.Tasks {
			sections = append(sections, a.renderTaskRow(a.taskRows[rowIdx], rowIdx == a.taskSelection, width))
			rowIdx++
		}
	}
	toggle := "h show hidden"
	if a.includeHidden {
		toggle = "h hide hidden"
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render(fmt.Sprintf("Enter → complete task    %s    Esc → board", toggle))
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, append(sections, hint)...)...)
}

func (a *App) renderTaskRow(row taskRow, selected bool, width int) string {
	marker := " "
	switch row.status {
	case store.TaskInProgress:
		marker = "›"
	case store.TaskCompleted:
		marker = "✓"
	}
	line := fmt.Sprintf("  %s %s [%s]", marker, row.name, row.status)
	if row.hidden {
		line += " (hidden)"
	}
	style := lipgloss.NewStyle().Width(max(20, width-4))
	if selected {
		style = style.Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	}
	return style.Render(line)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
