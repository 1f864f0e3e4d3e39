package game

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/jkmurphy123/starfall/internal/config"
	"github.com/jkmurphy123/starfall/internal/logbook"
	"github.com/jkmurphy123/starfall/internal/progress"
	"github.com/jkmurphy123/starfall/internal/shellbus"
	"github.com/jkmurphy123/starfall/internal/store"
)

// Logger records controller diagnostics. It matches logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

// Controller wires the game state, the database, the progression engine,
// and the shell bus together. The TUI talks to the game only through it.
type Controller struct {
	cfg      *config.Config
	state    State
	repo     *Repository
	store    *store.Store
	progress *progress.Service
	bus      *shellbus.Router
	book     *logbook.Logbook
	logger   Logger

	player   store.Player
	system   store.StarSystem
	location store.Location

	eventSeq atomic.Int64
}

// NewController bootstraps a game session: opens the database, seeds the
// starter catalog on first run, resolves the starting location, and loads
// (or initializes) the persisted snapshot.
func NewController(ctx context.Context, cfg *config.Config, logger Logger) (*Controller, error) {
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("game: open store: %w", err)
	}
	c := &Controller{
		cfg:      cfg,
		repo:     NewRepository(cfg.StateDir()),
		store:    st,
		progress: progress.NewService(st),
		bus:      shellbus.NewRouter(shellbus.RouterWithLogger(logger)),
		logger:   logger,
	}
	if err := c.bootstrap(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return c, nil
}

func (c *Controller) bootstrap(ctx context.Context) error {
	if err := c.store.SeedIfEmpty(ctx); err != nil {
		return fmt.Errorf("game: seed catalog: %w", err)
	}

	state, err := c.repo.Load()
	switch {
	case errors.Is(err, ErrStateNotFound):
		state = NewState(c.cfg.Shell.Game.StartSystem, c.cfg.Shell.Game.StartPlanet)
		if err := c.repo.Save(state); err != nil {
			return fmt.Errorf("game: save initial state: %w", err)
		}
	case err != nil:
		return fmt.Errorf("game: load state: %w", err)
	}
	c.state = state

	system, err := c.store.GetOrCreateSystem(ctx, state.Location.System, 0, 0, 0)
	if err != nil {
		return fmt.Errorf("game: resolve system: %w", err)
	}
	location, err := c.store.GetOrCreateLocation(ctx, system.ID, store.LocationPlanet, 3, state.Location.Planet)
	if err != nil {
		return fmt.Errorf("game: resolve location: %w", err)
	}
	player, err := c.store.GetOrCreatePlayer(ctx, c.cfg.Shell.Game.Player)
	if err != nil {
		return fmt.Errorf("game: resolve player: %w", err)
	}
	c.system = system
	c.location = location
	c.player = player

	book, err := logbook.New(filepath.Join(c.cfg.LogsDir(), "ship.log"))
	if err != nil {
		return fmt.Errorf("game: open logbook: %w", err)
	}
	book.SetTurn(state.Turn)
	c.book = book
	c.syncLoggerTurn(state.Turn)
	return nil
}

// syncLoggerTurn forwards the current turn to diagnostic loggers that stamp
// their lines with it.
func (c *Controller) syncLoggerTurn(turn int) {
	if tl, ok := c.logger.(interface{ SetTurn(turn int) }); ok {
		tl.SetTurn(turn)
	}
}

// Close releases the database handle.
func (c *Controller) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Close()
}

// State returns the current snapshot.
func (c *Controller) State() State {
	return c.state
}

// Bus exposes the shell event router for panel subscriptions.
func (c *Controller) Bus() *shellbus.Router {
	return c.bus
}

// Book exposes the ship's log for the Log panel tail.
func (c *Controller) Book() *logbook.Logbook {
	return c.book
}

// LocationName renders the current location as shown in the Nav panel,
// e.g. "Sol III - Earth".
func (c *Controller) LocationName() string {
	return c.location.DisplayName(c.system.Name)
}

// PlayerName returns the configured captain's name.
func (c *Controller) PlayerName() string {
	return c.player.Name
}

// Projects returns the project list the Projects overlay renders.
func (c *Controller) Projects(ctx context.Context, includeHidden bool) ([]progress.ProjectView, error) {
	return c.progress.ListProjectsWithTasks(ctx, includeHidden, nil)
}

// CompleteTask marks a task completed through the progression engine and
// publishes the outcome. Unknown keys are a quiet no-op, matching the
// engine's contract.
func (c *Controller) CompleteTask(ctx context.Context, projectKey, taskKey string) (bool, error) {
	return c.setTaskStatus(ctx, projectKey, taskKey, store.TaskCompleted)
}

// AdvanceTurn bumps the turn counter, persists the snapshot, and announces
// the new turn on the bus.
func (c *Controller) AdvanceTurn() (int, error) {
	turn := c.state.AdvanceTurn()
	if err := c.repo.Save(c.state); err != nil {
		return turn, fmt.Errorf("game: save state: %w", err)
	}
	c.book.SetTurn(turn)
	c.syncLoggerTurn(turn)
	c.book.Info("turn advanced to %d", turn)
	c.broadcast(shellbus.TypeTurnAdvanced, fmt.Sprintf("Turn advanced to %d", turn))
	return turn, nil
}

// Dispatch executes a single resolved action.
func (c *Controller) Dispatch(ctx context.Context, action Action) error {
	switch action.Kind {
	case KindAdvanceTurn:
		_, err := c.AdvanceTurn()
		return err
	case KindPlotCourse:
		target := action.Target
		if target == "" {
			target = "a safe training vector"
		}
		c.book.Info("[nav] plotting course for %s", target)
		c.publish("nav", shellbus.TypeActionDispatched, fmt.Sprintf("Course plotted: %s", target))
		return nil
	case KindRunScan:
		c.book.Info("[scan] scanning local space around %s", c.LocationName())
		c.publish("scan", shellbus.TypeActionDispatched, fmt.Sprintf("Scan complete: %s, no contacts", c.LocationName()))
		return nil
	case KindHail:
		c.book.Info("[comms] sending standard hail")
		c.publish("comms", shellbus.TypeActionDispatched, "Standard hail sent. No reply.")
		return nil
	case KindShowProjects:
		views, err := c.Projects(ctx, false)
		if err != nil {
			return err
		}
		active := 0
		for _, view := range views {
			active += len(view.Tasks)
		}
		c.publish("log", shellbus.TypeActionDispatched,
			fmt.Sprintf("%d projects, %d visible tasks", len(views), active))
		return nil
	case KindSetTaskStatus:
		status, err := progress.ParseStatus(action.Status)
		if err != nil {
			if c.logger != nil {
				c.logger.Printf("game: action dropped: %v", err)
			}
			c.book.Warn("unrecognized task status %q", action.Status)
			return nil
		}
		_, err = c.setTaskStatus(ctx, action.Project, action.Task, status)
		return err
	default:
		return fmt.Errorf("game: undispatchable action kind %d", action.Kind)
	}
}

func (c *Controller) setTaskStatus(ctx context.Context, projectKey, taskKey string, status store.TaskStatus) (bool, error) {
	changed, err := c.progress.SetTaskStatus(ctx, projectKey, taskKey, status)
	if err != nil {
		return false, err
	}
	if !changed {
		c.book.Warn("no such task %s/%s", projectKey, taskKey)
		return false, nil
	}
	c.book.Info("task %s/%s -> %s", projectKey, taskKey, status)
	c.publish("log", shellbus.TypeTaskUpdated, fmt.Sprintf("Task %s/%s is now %s", projectKey, taskKey, status))
	return true, nil
}

// broadcast publishes the same event to every configured panel.
func (c *Controller) broadcast(eventType, message string) {
	for _, panel := range c.cfg.Shell.Panels {
		c.publish(panel.ID, eventType, message)
	}
}

func (c *Controller) publish(panelID, eventType, message string) {
	c.bus.Publish(shellbus.Event{
		EventID: fmt.Sprintf("evt-%d", c.eventSeq.Add(1)),
		Type:    eventType,
		Panel:   panelID,
		Turn:    c.state.Turn,
		Message: message,
	})
}
