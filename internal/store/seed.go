package store

import (
	"context"
	"fmt"
)

type seedTask struct {
	key, name, desc string
	order           int
}

type seedProject struct {
	key, name, desc string
	tasks           []seedTask
}

// Starter projects inserted on first run. All tasks begin unassigned and
// hidden; the progression engine reveals them as the player advances.
var starterProjects = []seedProject{
	{
		key: "getting_started", name: "Getting Started", desc: "Basic ship bring-up sequence.",
		tasks: []seedTask{
			{key: "board_ship", name: "Board your ship", desc: "Head to the docking bay and board.", order: 1},
			{key: "power_up", name: "Power up systems", desc: "Restore main power and run diagnostics.", order: 2},
			{key: "undock", name: "Undock from station", desc: "Request clearance and undock safely.", order: 3},
		},
	},
	{
		key: "first_scout", name: "First Scout Mission", desc: "Perform a short systems check and scan.",
		tasks: []seedTask{
			{key: "plot_course", name: "Plot short course", desc: "Pick a safe training vector.", order: 1},
			{key: "short_scan", name: "Run a short-range scan", desc: "Ping the local area.", order: 2},
		},
	},
}

// SeedIfEmpty inserts the starter project catalog when no project rows
// exist. A second call is a no-op: the emptiness check short-circuits.
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	count, err := s.CountProjects(ctx)
	if err != nil {
		return fmt.Errorf("store: seed check: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, sp := range starterProjects {
		project, err := s.CreateProject(ctx, Project{Key: sp.key, Name: sp.name, Description: sp.desc})
		if err != nil {
			return fmt.Errorf("store: seed project %s: %w", sp.key, err)
		}
		for _, st := range sp.tasks {
			if _, err := s.CreateTask(ctx, Task{
				ProjectID:   project.ID,
				Key:         st.key,
				Name:        st.name,
				Description: st.desc,
				OrderIndex:  st.order,
				Status:      TaskUnassigned,
				Hidden:      true,
			}); err != nil {
				return fmt.Errorf("store: seed task %s/%s: %w", sp.key, st.key, err)
			}
		}
	}
	return nil
}
