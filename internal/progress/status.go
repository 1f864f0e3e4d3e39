package progress

import (
	"errors"
	"fmt"

	"github.com/jkmurphy123/starfall/internal/store"
)

// ErrInvalidStatus is returned when a status token is not recognized. The
// caller treats the operation as a no-op.
var ErrInvalidStatus = errors.New("invalid status")

// statusTokens maps accepted tokens to canonical values. The mapping is
// case-sensitive: canonical enum tokens plus the display labels the shell
// menus use.
var statusTokens = map[string]store.TaskStatus{
	"unassigned":  store.TaskUnassigned,
	"Unassigned":  store.TaskUnassigned,
	"in_progress": store.TaskInProgress,
	"In Progress": store.TaskInProgress,
	"completed":   store.TaskCompleted,
	"Completed":   store.TaskCompleted,
}

// ParseStatus resolves a status token (canonical or display synonym) to its
// canonical value.
func ParseStatus(token string) (store.TaskStatus, error) {
	if status, ok := statusTokens[token]; ok {
		return status, nil
	}
	return "", fmt.Errorf("progress: %w: %q", ErrInvalidStatus, token)
}
