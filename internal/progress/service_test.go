package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jkmurphy123/starfall/internal/store"
)

func newSeededService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "starfall.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.SeedIfEmpty(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewService(s)
}

func findTask(t *testing.T, views []ProjectView, projectKey, taskKey string) TaskView {
	t.Helper()
	for _, p := range views {
		if p.Key != projectKey {
			continue
		}
		for _, task := range p.Tasks {
			if task.TaskKey == taskKey {
				return task
			}
		}
	}
	t.Fatalf("task %s/%s not present in view", projectKey, taskKey)
	return TaskView{}
}

func TestListHidesTasksByDefault(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t)
	views, err := svc.ListProjectsWithTasks(context.Background(), false, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("projects = %d, want 2", len(views))
	}
	for _, p := range views {
		if len(p.Tasks) != 0 {
			t.Fatalf("project %s shows %d tasks before any reveal", p.Key, len(p.Tasks))
		}
	}
}

func TestListIncludeHiddenShowsFullCatalog(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t)
	views, err := svc.ListProjectsWithTasks(context.Background(), true, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	total := 0
	for _, p := range views {
		total += len(p.Tasks)
	}
	if total != 5 {
		t.Fatalf("tasks = %d, want 5", total)
	}
	first := findTask(t, views, "getting_started", "board_ship")
	if first.OrderIndex != 1 || first.Status != store.TaskUnassigned || !first.Hidden {
		t.Fatalf("board_ship view = %+v", first)
	}
}

func TestListStatusFilterBeforeAnyCompletionIsEmpty(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t)
	views, err := svc.ListProjectsWithTasks(context.Background(), false, []store.TaskStatus{store.TaskCompleted})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("projects = %d, want 2 (empty projects stay in the result)", len(views))
	}
	for _, p := range views {
		if len(p.Tasks) != 0 {
			t.Fatalf("project %s has %d completed tasks, want 0", p.Key, len(p.Tasks))
		}
	}
}

func TestCompletingTaskRevealsAndStartsSuccessor(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t)
	ctx := context.Background()
	ok, err := svc.SetTaskStatus(ctx, "getting_started", "board_ship", store.TaskCompleted)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if !ok {
		t.Fatal("transition should succeed")
	}

	views, err := svc.ListProjectsWithTasks(ctx, true, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	board := findTask(t, views, "getting_started", "board_ship")
	if board.Status != store.TaskCompleted || board.Hidden {
		t.Fatalf("board_ship = %+v, want completed and visible", board)
	}
	power := findTask(t, views, "getting_started", "power_up")
	if power.Status != store.TaskInProgress || power.Hidden {
		t.Fatalf("power_up = %+v, want in_progress and visible", power)
	}
	undock := findTask(t, views, "getting_started", "undock")
	if undock.Status != store.TaskUnassigned || !undock.Hidden {
		t.Fatalf("undock = %+v, want unassigned and hidden", undock)
	}
}

func TestRevealDoesNotRestartStartedSuccessor(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t)
	ctx := context.Background()
	// Player jumps ahead: power_up is already completed when board_ship
	// finishes. Completion must not regress it to in_progress.
	if _, err := svc.SetTaskStatus(ctx, "getting_started", "power_up", store.TaskCompleted); err != nil {
		t.Fatalf("complete power_up: %v", err)
	}
	if _, err := svc.SetTaskStatus(ctx, "getting_started", "board_ship", store.TaskCompleted); err != nil {
		t.Fatalf("complete board_ship: %v", err)
	}
	views, err := svc.ListProjectsWithTasks(ctx, true, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	power := findTask(t, views, "getting_started", "power_up")
	if power.Status != store.TaskCompleted {
		t.Fatalf("power_up regressed to %s", power.Status)
	}
}

func TestCompletingLastTaskHasNoSuccessorSideEffect(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t)
	ctx := context.Background()
	ok, err := svc.SetTaskStatus(ctx, "first_scout", "short_scan", store.TaskCompleted)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if !ok {
		t.Fatal("transition should succeed")
	}
	views, err := svc.ListProjectsWithTasks(ctx, true, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	scan := findTask(t, views, "first_scout", "short_scan")
	if scan.Status != store.TaskCompleted || scan.Hidden {
		t.Fatalf("short_scan = %+v", scan)
	}
	course := findTask(t, views, "first_scout", "plot_course")
	if course.Status != store.TaskUnassigned || !course.Hidden {
		t.Fatalf("plot_course touched by completing its successor: %+v", course)
	}
}

func TestSetStatusUnknownKeysReturnFalse(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t)
	ctx := context.Background()
	ok, err := svc.SetTaskStatus(ctx, "nonexistent", "x", store.TaskCompleted)
	if err != nil {
		t.Fatalf("unknown project: %v", err)
	}
	if ok {
		t.Fatal("unknown project must fail")
	}
	ok, err = svc.SetTaskStatus(ctx, "getting_started", "nope", store.TaskCompleted)
	if err != nil {
		t.Fatalf("unknown task: %v", err)
	}
	if ok {
		t.Fatal("unknown task must fail")
	}

	// Nothing mutated.
	views, err := svc.ListProjectsWithTasks(ctx, false, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, p := range views {
		if len(p.Tasks) != 0 {
			t.Fatalf("project %s mutated by failed transition", p.Key)
		}
	}
}

func TestVisibilityInvariantHoldsAfterEveryTransition(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t)
	ctx := context.Background()
	transitions := []struct {
		project, task string
		status        store.TaskStatus
	}{
		{"getting_started", "board_ship", store.TaskInProgress},
		{"getting_started", "board_ship", store.TaskCompleted},
		{"first_scout", "plot_course", store.TaskCompleted},
		{"first_scout", "short_scan", store.TaskInProgress},
	}
	for _, tr := range transitions {
		if _, err := svc.SetTaskStatus(ctx, tr.project, tr.task, tr.status); err != nil {
			t.Fatalf("transition %s/%s -> %s: %v", tr.project, tr.task, tr.status, err)
		}
		views, err := svc.ListProjectsWithTasks(ctx, true, nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, p := range views {
			for _, task := range p.Tasks {
				if task.Status != store.TaskUnassigned && task.Hidden {
					t.Fatalf("task %s/%s is %s but hidden", p.Key, task.TaskKey, task.Status)
				}
			}
		}
	}
}

func TestSetStatusRejectsInvalidStatus(t *testing.T) {
	t.Parallel()

	svc := newSeededService(t)
	_, err := svc.SetTaskStatus(context.Background(), "getting_started", "board_ship", store.TaskStatus("broken"))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("error = %v, want ErrInvalidStatus", err)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		token string
		want  store.TaskStatus
	}{
		{"unassigned", store.TaskUnassigned},
		{"Unassigned", store.TaskUnassigned},
		{"in_progress", store.TaskInProgress},
		{"In Progress", store.TaskInProgress},
		{"completed", store.TaskCompleted},
		{"Completed", store.TaskCompleted},
	}
	for _, c := range cases {
		got, err := ParseStatus(c.token)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", c.token, err)
		}
		if got != c.want {
			t.Fatalf("ParseStatus(%q) = %s, want %s", c.token, got, c.want)
		}
	}
	// The synonym map is case-sensitive on purpose.
	for _, bad := range []string{"IN_PROGRESS", "in progress", "done", ""} {
		if _, err := ParseStatus(bad); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("ParseStatus(%q) error = %v, want ErrInvalidStatus", bad, err)
		}
	}
}
