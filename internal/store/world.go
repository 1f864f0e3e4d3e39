// internal/store/world.go
//
// World catalog access: star systems, locations, features, plots, deeds,
// assessments, players, materials, and technologies. These are plain records
// with natural keys; lookup-or-insert helpers keep bootstrap code idempotent.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GetOrCreateSystem looks a star system up by name and inserts it when
// missing. Coordinates are only applied on insert.
func (s *Store) GetOrCreateSystem(ctx context.Context, name string, x, y, z float64) (StarSystem, error) {
	if err := s.ready(ctx); err != nil {
		return StarSystem{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return StarSystem{}, fmt.Errorf("system name is required")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, x, y, z, description FROM star_systems WHERE name = ?`, name)
	var sys StarSystem
	err := row.Scan(&sys.ID, &sys.Name, &sys.X, &sys.Y, &sys.Z, &sys.Description)
	if err == nil {
		return sys, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return StarSystem{}, fmt.Errorf("get system %s: %w", name, err)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO star_systems (name, x, y, z) VALUES (?, ?, ?, ?)`,
		name, x, y, z)
	if err != nil {
		return StarSystem{}, fmt.Errorf("create system %s: %w", name, err)
	}
	sys = StarSystem{Name: name, X: x, Y: y, Z: z}
	sys.ID, err = res.LastInsertId()
	if err != nil {
		return StarSystem{}, fmt.Errorf("create system %s: last insert id: %w", name, err)
	}
	return sys, nil
}

// GetOrCreateLocation resolves a location by (system, ordinal), inserting it
// when missing.
func (s *Store) GetOrCreateLocation(ctx context.Context, systemID int64, kind LocationKind, ordinal int, name string) (Location, error) {
	if err := s.ready(ctx); err != nil {
		return Location{}, err
	}
	if systemID <= 0 {
		return Location{}, fmt.Errorf("location system id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, system_id, kind, ordinal, name, description
		   FROM locations WHERE system_id = ? AND ordinal = ?`,
		systemID, ordinal)
	var loc Location
	var kindStr string
	err := row.Scan(&loc.ID, &loc.SystemID, &kindStr, &loc.Ordinal, &loc.Name, &loc.Description)
	if err == nil {
		loc.Kind = LocationKind(kindStr)
		return loc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Location{}, fmt.Errorf("get location %d/%d: %w", systemID, ordinal, err)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO locations (system_id, kind, ordinal, name) VALUES (?, ?, ?, ?)`,
		systemID, string(kind), ordinal, name)
	if err != nil {
		if isUniqueViolation(err) {
			return Location{}, ErrAlreadyExists
		}
		return Location{}, fmt.Errorf("create location %d/%d: %w", systemID, ordinal, err)
	}
	loc = Location{SystemID: systemID, Kind: kind, Ordinal: ordinal, Name: name}
	loc.ID, err = res.LastInsertId()
	if err != nil {
		return Location{}, fmt.Errorf("create location: last insert id: %w", err)
	}
	return loc, nil
}

// CreateFeature inserts one feature attached to a location.
func (s *Store) CreateFeature(ctx context.Context, f Feature) (Feature, error) {
	if err := s.ready(ctx); err != nil {
		return Feature{}, err
	}
	if f.LocationID <= 0 {
		return Feature{}, fmt.Errorf("feature location id is required")
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO features (location_id, kind, name, description, discovered_turn)
		 VALUES (?, ?, ?, ?, ?)`,
		f.LocationID, string(f.Kind), f.Name, f.Description, f.DiscoveredTurn)
	if err != nil {
		return Feature{}, fmt.Errorf("create feature: %w", err)
	}
	f.ID, err = res.LastInsertId()
	if err != nil {
		return Feature{}, fmt.Errorf("create feature: last insert id: %w", err)
	}
	return f, nil
}

// CreatePlot carves one plot out of a feature. A feature carries at most one
// plot, so a second insert for the same feature returns ErrAlreadyExists.
func (s *Store) CreatePlot(ctx context.Context, p Plot) (Plot, error) {
	if err := s.ready(ctx); err != nil {
		return Plot{}, err
	}
	if p.FeatureID <= 0 {
		return Plot{}, fmt.Errorf("plot feature id is required")
	}
	if p.SizeHectares <= 0 {
		p.SizeHectares = 1.0
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO plots (feature_id, size_hectares, quality) VALUES (?, ?, ?)`,
		p.FeatureID, p.SizeHectares, p.Quality)
	if err != nil {
		if isUniqueViolation(err) {
			return Plot{}, ErrAlreadyExists
		}
		return Plot{}, fmt.Errorf("create plot: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return Plot{}, fmt.Errorf("create plot: last insert id: %w", err)
	}
	return p, nil
}

// IssueDeed records ownership of a plot. Plots have a single deed, so issuing
// against an already-deeded plot returns ErrAlreadyExists.
func (s *Store) IssueDeed(ctx context.Context, d Deed) (Deed, error) {
	if err := s.ready(ctx); err != nil {
		return Deed{}, err
	}
	if d.PlotID <= 0 {
		return Deed{}, fmt.Errorf("deed plot id is required")
	}
	if d.OwnerID <= 0 {
		return Deed{}, fmt.Errorf("deed owner id is required")
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO deeds (plot_id, owner_id, issued_turn, price, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		d.PlotID, d.OwnerID, d.IssuedTurn, d.Price, d.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return Deed{}, ErrAlreadyExists
		}
		return Deed{}, fmt.Errorf("issue deed: %w", err)
	}
	d.ID, err = res.LastInsertId()
	if err != nil {
		return Deed{}, fmt.Errorf("issue deed: last insert id: %w", err)
	}
	return d, nil
}

// CreateAssessment stores a player's appraisal of a location.
func (s *Store) CreateAssessment(ctx context.Context, a Assessment) (Assessment, error) {
	if err := s.ready(ctx); err != nil {
		return Assessment{}, err
	}
	if a.LocationID <= 0 {
		return Assessment{}, fmt.Errorf("assessment location id is required")
	}
	if a.PlayerID <= 0 {
		return Assessment{}, fmt.Errorf("assessment player id is required")
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO location_assessments (location_id, player_id, turn, summary, details_text)
		 VALUES (?, ?, ?, ?, ?)`,
		a.LocationID, a.PlayerID, a.Turn, a.Summary, a.DetailsText)
	if err != nil {
		return Assessment{}, fmt.Errorf("create assessment: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return Assessment{}, fmt.Errorf("create assessment: last insert id: %w", err)
	}
	return a, nil
}

// AssessmentsForLocation lists appraisals for one location, oldest first.
func (s *Store) AssessmentsForLocation(ctx context.Context, locationID int64) ([]Assessment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, location_id, player_id, turn, summary, details_text
		   FROM location_assessments WHERE location_id = ? ORDER BY id`,
		locationID)
	if err != nil {
		return nil, fmt.Errorf("list assessments for location %d: %w", locationID, err)
	}
	defer rows.Close()
	var out []Assessment
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(&a.ID, &a.LocationID, &a.PlayerID, &a.Turn, &a.Summary, &a.DetailsText); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}

// GetOrCreatePlayer resolves a player by name, inserting with zero credits
// when missing.
func (s *Store) GetOrCreatePlayer(ctx context.Context, name string) (Player, error) {
	if err := s.ready(ctx); err != nil {
		return Player{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, fmt.Errorf("player name is required")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, credits FROM players WHERE name = ?`, name)
	var p Player
	err := row.Scan(&p.ID, &p.Name, &p.Credits)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("get player %s: %w", name, err)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO players (name) VALUES (?)`, name)
	if err != nil {
		return Player{}, fmt.Errorf("create player %s: %w", name, err)
	}
	p = Player{Name: name}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return Player{}, fmt.Errorf("create player: last insert id: %w", err)
	}
	return p, nil
}

// GetOrCreateMaterial resolves a material by name, inserting it when
// missing. Rarity and unit apply only on insert.
func (s *Store) GetOrCreateMaterial(ctx context.Context, name string, rarity int, unit string) (Material, error) {
	if err := s.ready(ctx); err != nil {
		return Material{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Material{}, fmt.Errorf("material name is required")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, rarity, unit, description FROM materials WHERE name = ?`, name)
	var m Material
	err := row.Scan(&m.ID, &m.Name, &m.Rarity, &m.Unit, &m.Description)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Material{}, fmt.Errorf("get material %s: %w", name, err)
	}
	if unit == "" {
		unit = "kg"
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO materials (name, rarity, unit) VALUES (?, ?, ?)`,
		name, rarity, unit)
	if err != nil {
		return Material{}, fmt.Errorf("create material %s: %w", name, err)
	}
	m = Material{Name: name, Rarity: rarity, Unit: unit}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return Material{}, fmt.Errorf("create material: last insert id: %w", err)
	}
	return m, nil
}

// GetOrCreateTechnology resolves a technology by key, inserting it when
// missing.
func (s *Store) GetOrCreateTechnology(ctx context.Context, key, name string) (Technology, error) {
	if err := s.ready(ctx); err != nil {
		return Technology{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Technology{}, fmt.Errorf("technology key is required")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, key, name, description FROM technologies WHERE key = ?`, key)
	var tech Technology
	err := row.Scan(&tech.ID, &tech.Key, &tech.Name, &tech.Description)
	if err == nil {
		return tech, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Technology{}, fmt.Errorf("get technology %s: %w", key, err)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO technologies (key, name) VALUES (?, ?)`, key, name)
	if err != nil {
		return Technology{}, fmt.Errorf("create technology %s: %w", key, err)
	}
	tech = Technology{Key: key, Name: name}
	tech.ID, err = res.LastInsertId()
	if err != nil {
		return Technology{}, fmt.Errorf("create technology: last insert id: %w", err)
	}
	return tech, nil
}

// GrantTechnology records, or advances, a player's standing on a technology.
// A fresh grant starts at the given status; a repeat grant updates the status
// in place and keeps the original acquisition turn.
func (s *Store) GrantTechnology(ctx context.Context, playerID, technologyID int64, status TechStatus, turn int) (PlayerTechnology, error) {
	if err := s.ready(ctx); err != nil {
		return PlayerTechnology{}, err
	}
	if playerID <= 0 || technologyID <= 0 {
		return PlayerTechnology{}, fmt.Errorf("grant requires player and technology ids")
	}
	if !status.Valid() {
		return PlayerTechnology{}, fmt.Errorf("invalid tech status %q", status)
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, player_id, technology_id, status, acquired_turn
		   FROM player_technologies WHERE player_id = ? AND technology_id = ?`,
		playerID, technologyID)
	var pt PlayerTechnology
	var statusStr string
	err := row.Scan(&pt.ID, &pt.PlayerID, &pt.TechnologyID, &statusStr, &pt.AcquiredTurn)
	switch {
	case err == nil:
		pt.Status = TechStatus(statusStr)
		if pt.Status == status {
			return pt, nil
		}
		if _, err := s.sqlDB.ExecContext(ctx,
			`UPDATE player_technologies SET status = ? WHERE id = ?`,
			string(status), pt.ID); err != nil {
			return PlayerTechnology{}, fmt.Errorf("advance technology %d: %w", technologyID, err)
		}
		pt.Status = status
		return pt, nil
	case !errors.Is(err, sql.ErrNoRows):
		return PlayerTechnology{}, fmt.Errorf("get player technology %d: %w", technologyID, err)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO player_technologies (player_id, technology_id, status, acquired_turn)
		 VALUES (?, ?, ?, ?)`,
		playerID, technologyID, string(status), turn)
	if err != nil {
		return PlayerTechnology{}, fmt.Errorf("grant technology %d: %w", technologyID, err)
	}
	pt = PlayerTechnology{PlayerID: playerID, TechnologyID: technologyID, Status: status, AcquiredTurn: turn}
	pt.ID, err = res.LastInsertId()
	if err != nil {
		return PlayerTechnology{}, fmt.Errorf("grant technology: last insert id: %w", err)
	}
	return pt, nil
}
