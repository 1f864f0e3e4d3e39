// Package store is the SQLite persistence layer for Starfall: projects and
// tasks for the guided progression, plus the world catalog (star systems,
// locations, features, plots, deeds, materials, technologies, players).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jkmurphy123/starfall/internal/store/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a natural-key lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// ErrAlreadyExists is returned when an insert violates a unique constraint.
var ErrAlreadyExists = errors.New("store: already exists")

// Store persists game state in a single SQLite database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the database at path and applies embedded
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store: database path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store: run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CountProjects returns the number of project rows.
func (s *Store) CountProjects(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(1) FROM projects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return count, nil
}

// CreateProject inserts one project record.
func (s *Store) CreateProject(ctx context.Context, p Project) (Project, error) {
	if err := s.ready(ctx); err != nil {
		return Project{}, err
	}
	key := strings.TrimSpace(p.Key)
	if key == "" {
		return Project{}, fmt.Errorf("project key is required")
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO projects (key, name, description) VALUES (?, ?, ?)`,
		key, p.Name, p.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Project{}, ErrAlreadyExists
		}
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	p.Key = key
	p.ID, err = res.LastInsertId()
	if err != nil {
		return Project{}, fmt.Errorf("create project: last insert id: %w", err)
	}
	return p, nil
}

// CreateTask inserts one task record. Duplicate (project, key) or
// (project, order index) pairs are rejected with ErrAlreadyExists.
func (s *Store) CreateTask(ctx context.Context, t Task) (Task, error) {
	if err := s.ready(ctx); err != nil {
		return Task{}, err
	}
	key := strings.TrimSpace(t.Key)
	if key == "" {
		return Task{}, fmt.Errorf("task key is required")
	}
	if t.ProjectID <= 0 {
		return Task{}, fmt.Errorf("task project id is required")
	}
	if !t.Status.Valid() {
		return Task{}, fmt.Errorf("task status %q is not valid", t.Status)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO tasks (project_id, key, name, description, order_index, status, hidden)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ProjectID, key, t.Name, t.Description, t.OrderIndex, string(t.Status), boolToInt(t.Hidden),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Task{}, ErrAlreadyExists
		}
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	t.Key = key
	t.ID, err = res.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("create task: last insert id: %w", err)
	}
	return t, nil
}

// ProjectByKey looks up a project by its unique key.
func (s *Store) ProjectByKey(ctx context.Context, key string) (Project, error) {
	if err := s.ready(ctx); err != nil {
		return Project{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Project{}, fmt.Errorf("project key is required")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, key, name, description FROM projects WHERE key = ?`, key)
	var p Project
	if err := row.Scan(&p.ID, &p.Key, &p.Name, &p.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, fmt.Errorf("get project %s: %w", key, err)
	}
	return p, nil
}

// TaskByKey looks up a task by its (project, key) natural key.
func (s *Store) TaskByKey(ctx context.Context, projectID int64, key string) (Task, error) {
	if err := s.ready(ctx); err != nil {
		return Task{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Task{}, fmt.Errorf("task key is required")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, project_id, key, name, description, order_index, status, hidden
		   FROM tasks
		  WHERE project_id = ? AND key = ?`,
		projectID, key)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("get task %s: %w", key, err)
	}
	return task, nil
}

// ListProjects returns every project in creation order.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, key, name, description FROM projects ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Key, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// TasksForProject returns the project's tasks ordered ascending by order
// index.
func (s *Store) TasksForProject(ctx context.Context, projectID int64) ([]Task, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, project_id, key, name, description, order_index, status, hidden
		   FROM tasks
		  WHERE project_id = ?
		  ORDER BY order_index ASC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTasks persists status and visibility for the given tasks in one
// transaction. Either every row is written or none is.
func (s *Store) UpdateTasks(ctx context.Context, tasks ...Task) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update tasks: begin: %w", err)
	}
	for _, t := range tasks {
		if !t.Status.Valid() {
			_ = tx.Rollback()
			return fmt.Errorf("update tasks: status %q is not valid", t.Status)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET status = ?, hidden = ? WHERE id = ?`,
			string(t.Status), boolToInt(t.Hidden), t.ID,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("update task %d: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update tasks: commit: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var status string
	var hidden int
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Key, &t.Name, &t.Description, &t.OrderIndex, &status, &hidden); err != nil {
		return Task{}, err
	}
	t.Status = TaskStatus(status)
	t.Hidden = hidden != 0
	return t, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store: not configured")
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
