package store

import (
	"context"
	"testing"
)

func TestSeedIfEmptyInsertsStarterCatalog(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := context.Background()
	if err := s.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	projects, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(projects))
	}
	if projects[0].Key != "getting_started" || projects[1].Key != "first_scout" {
		t.Fatalf("project keys = %s, %s", projects[0].Key, projects[1].Key)
	}

	total := 0
	for _, p := range projects {
		tasks, err := s.TasksForProject(ctx, p.ID)
		if err != nil {
			t.Fatalf("list tasks for %s: %v", p.Key, err)
		}
		total += len(tasks)
		for _, task := range tasks {
			if task.Status != TaskUnassigned {
				t.Fatalf("task %s status = %s, want unassigned", task.Key, task.Status)
			}
			if !task.Hidden {
				t.Fatalf("task %s should start hidden", task.Key)
			}
		}
	}
	if total != 5 {
		t.Fatalf("tasks = %d, want 5", total)
	}
}

func TestSeedIfEmptyIsIdempotent(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := context.Background()
	if err := s.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := s.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	count, err := s.CountProjects(ctx)
	if err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if count != 2 {
		t.Fatalf("projects after double seed = %d, want 2", count)
	}
}

func TestSeedSkipsWhenAnyProjectExists(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := context.Background()
	if _, err := s.CreateProject(ctx, Project{Key: "custom", Name: "Custom"}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := s.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	count, err := s.CountProjects(ctx)
	if err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if count != 1 {
		t.Fatalf("projects = %d, want 1 (seed must not run)", count)
	}
}
