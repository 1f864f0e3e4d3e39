package game

import (
	"testing"

	"github.com/jkmurphy123/starfall/internal/config"
)

func TestParseActionResolvesKnownKinds(t *testing.T) {
	cases := []struct {
		token string
		want  ActionKind
	}{
		{"advance_turn", KindAdvanceTurn},
		{"plot_course", KindPlotCourse},
		{"run_scan", KindRunScan},
		{"hail", KindHail},
		{"show_projects", KindShowProjects},
	}
	for _, tc := range cases {
		action, err := ParseAction(config.ActionRef{Kind: tc.token})
		if err != nil {
			t.Fatalf("parse %q: %v", tc.token, err)
		}
		if action.Kind != tc.want {
			t.Fatalf("parse %q = %v, want %v", tc.token, action.Kind, tc.want)
		}
	}
}

func TestParseActionRejectsUnknownKind(t *testing.T) {
	if _, err := ParseAction(config.ActionRef{Kind: "warp_jump"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestParseActionSetTaskStatusRequiresParameters(t *testing.T) {
	full := config.ActionRef{
		Kind:    "set_task_status",
		Project: "getting_started",
		Task:    "board_ship",
		Status:  "Completed",
	}
	action, err := ParseAction(full)
	if err != nil {
		t.Fatalf("parse full set_task_status: %v", err)
	}
	if action.Project != "getting_started" || action.Task != "board_ship" || action.Status != "Completed" {
		t.Fatalf("unexpected action: %+v", action)
	}
	if _, err := ParseAction(config.ActionRef{Kind: "set_task_status", Project: "getting_started"}); err == nil {
		t.Fatalf("expected error for missing task/status")
	}
}

func TestParseActionsFailsFast(t *testing.T) {
	refs := []config.ActionRef{
		{Kind: "run_scan"},
		{Kind: "nope"},
	}
	if _, err := ParseActions(refs); err == nil {
		t.Fatalf("expected error from unknown kind in list")
	}
	actions, err := ParseActions(refs[:1])
	if err != nil {
		t.Fatalf("parse valid list: %v", err)
	}
	if len(actions) != 1 || actions[0].Kind != KindRunScan {
		t.Fatalf("unexpected actions: %+v", actions)
	}
}
