// Package progress is the task-progression engine. It exposes filtered
// views of project/task state and the single allowed mutation, a status
// transition with an auto-reveal rule: completing a task reveals the
// next-ordered task in the same project and starts it if still unassigned.
package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/jkmurphy123/starfall/internal/store"
)

// TaskView is one task row as shown to the shell.
type TaskView struct {
	ProjectKey  string
	TaskKey     string
	Name        string
	Description string
	Status      store.TaskStatus
	Hidden      bool
	OrderIndex  int
}

// ProjectView is one project with its qualifying tasks. Projects with zero
// qualifying tasks are still returned with an empty task list; skipping
// their display is the caller's choice.
type ProjectView struct {
	Key         string
	Name        string
	Description string
	Tasks       []TaskView
}

// Service answers progression queries and applies status transitions. It
// holds an explicit store handle; callers construct one Service and pass it
// to whichever component needs it.
type Service struct {
	store *store.Store
}

// NewService wraps the given store.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// ListProjectsWithTasks returns every project, each carrying its tasks
// ordered ascending by order index. A task is included iff includeHidden or
// the task is visible, and the filter is empty or contains its status.
func (s *Service) ListProjectsWithTasks(ctx context.Context, includeHidden bool, filter []store.TaskStatus) ([]ProjectView, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("progress: list projects: %w", err)
	}
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		tasks, err := s.store.TasksForProject(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("progress: list tasks for %s: %w", p.Key, err)
		}
		view := ProjectView{
			Key:         p.Key,
			Name:        p.Name,
			Description: p.Description,
			Tasks:       []TaskView{},
		}
		for _, t := range tasks {
			if !includeHidden && t.Hidden {
				continue
			}
			if len(filter) > 0 && !statusIn(t.Status, filter) {
				continue
			}
			view.Tasks = append(view.Tasks, TaskView{
				ProjectKey:  p.Key,
				TaskKey:     t.Key,
				Name:        t.Name,
				Description: t.Description,
				Status:      t.Status,
				Hidden:      t.Hidden,
				OrderIndex:  t.OrderIndex,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// SetTaskStatus applies a status transition to the task identified by
// (projectKey, taskKey). Unknown keys yield (false, nil); storage failures
// propagate as errors. Moving to in_progress or completed reveals the task,
// and completing it reveals the immediate successor by order index,
// advancing the successor to in_progress if still unassigned. All mutated
// rows are persisted in one transaction.
func (s *Service) SetTaskStatus(ctx context.Context, projectKey, taskKey string, status store.TaskStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("progress: %w: %q", ErrInvalidStatus, status)
	}
	project, err := s.store.ProjectByKey(ctx, projectKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("progress: resolve project %s: %w", projectKey, err)
	}
	task, err := s.store.TaskByKey(ctx, project.ID, taskKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("progress: resolve task %s/%s: %w", projectKey, taskKey, err)
	}

	task.Status = status
	if status == store.TaskInProgress || status == store.TaskCompleted {
		task.Hidden = false
	}
	mutated := []store.Task{task}

	if status == store.TaskCompleted {
		if next, ok, err := s.successor(ctx, project.ID, task.OrderIndex); err != nil {
			return false, err
		} else if ok && next.Hidden {
			next.Hidden = false
			if next.Status == store.TaskUnassigned {
				next.Status = store.TaskInProgress
			}
			mutated = append(mutated, next)
		}
	}

	if err := s.store.UpdateTasks(ctx, mutated...); err != nil {
		return false, fmt.Errorf("progress: persist transition: %w", err)
	}
	return true, nil
}

// successor finds the task with the smallest order index strictly greater
// than after. Order indices are unique per project, so the answer is
// unambiguous.
func (s *Service) successor(ctx context.Context, projectID int64, after int) (store.Task, bool, error) {
	tasks, err := s.store.TasksForProject(ctx, projectID)
	if err != nil {
		return store.Task{}, false, fmt.Errorf("progress: find successor: %w", err)
	}
	for _, t := range tasks {
		if t.OrderIndex > after {
			return t, true, nil
		}
	}
	return store.Task{}, false, nil
}

func statusIn(status store.TaskStatus, set []store.TaskStatus) bool {
	for _, candidate := range set {
		if status == candidate {
			return true
		}
	}
	return false
}
