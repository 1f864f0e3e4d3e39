// Package shellbus routes in-process shell events to panel subscribers.
// Panels subscribe by ID; events published before a panel attaches are
// buffered and flushed on subscription.
package shellbus

import (
	"strings"
	"time"
)

// Well-known event types published by the game controller and shell.
const (
	TypeTurnAdvanced     = "turn.advanced"
	TypeFocusChanged     = "focus.changed"
	TypeLogEntry         = "log.entry"
	TypeActionDispatched = "action.dispatched"
	TypeTaskUpdated      = "task.updated"
)

// Event captures a single notification addressed to a panel.
type Event struct {
	EventID string
	Type    string
	Panel   string
	Turn    int
	Message string
	Time    time.Time
}

// Normalize applies canonical formatting before routing.
func (e *Event) Normalize() {
	if e == nil {
		return
	}
	e.EventID = strings.TrimSpace(e.EventID)
	e.Type = strings.TrimSpace(e.Type)
	e.Panel = strings.TrimSpace(e.Panel)
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
}

// Logger records routing diagnostics. It matches logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}
