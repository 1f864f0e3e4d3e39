package game

import (
	"fmt"
	"strings"

	"github.com/jkmurphy123/starfall/internal/config"
)

// ActionKind enumerates every command the menu can dispatch. The set is
// closed: config entries naming anything else are rejected at parse time
// rather than resolved dynamically.
type ActionKind int

const (
	KindUnknown ActionKind = iota
	KindAdvanceTurn
	KindPlotCourse
	KindRunScan
	KindHail
	KindShowProjects
	KindSetTaskStatus
)

// String returns the config token for the kind.
func (k ActionKind) String() string {
	switch k {
	case KindAdvanceTurn:
		return "advance_turn"
	case KindPlotCourse:
		return "plot_course"
	case KindRunScan:
		return "run_scan"
	case KindHail:
		return "hail"
	case KindShowProjects:
		return "show_projects"
	case KindSetTaskStatus:
		return "set_task_status"
	default:
		return "unknown"
	}
}

// Action is a fully-resolved command ready for dispatch.
type Action struct {
	Kind    ActionKind
	Project string
	Task    string
	Status  string
	Target  string
}

// ParseAction resolves a raw config action into the closed kind set.
func ParseAction(ref config.ActionRef) (Action, error) {
	kind := KindUnknown
	switch strings.TrimSpace(ref.Kind) {
	case "advance_turn":
		kind = KindAdvanceTurn
	case "plot_course":
		kind = KindPlotCourse
	case "run_scan":
		kind = KindRunScan
	case "hail":
		kind = KindHail
	case "show_projects":
		kind = KindShowProjects
	case "set_task_status":
		kind = KindSetTaskStatus
	default:
		return Action{}, fmt.Errorf("game: unknown action kind %q", ref.Kind)
	}
	action := Action{
		Kind:    kind,
		Project: strings.TrimSpace(ref.Project),
		Task:    strings.TrimSpace(ref.Task),
		Status:  strings.TrimSpace(ref.Status),
		Target:  strings.TrimSpace(ref.Target),
	}
	if kind == KindSetTaskStatus {
		if action.Project == "" || action.Task == "" || action.Status == "" {
			return Action{}, fmt.Errorf("game: set_task_status requires project, task, and status")
		}
	}
	return action, nil
}

// ParseActions resolves a leaf's full action list, failing on the first
// unknown kind.
func ParseActions(refs []config.ActionRef) ([]Action, error) {
	actions := make([]Action, 0, len(refs))
	for _, ref := range refs {
		action, err := ParseAction(ref)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}
