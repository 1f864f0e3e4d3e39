// internal/store/entities.go
//
// Record types and string-backed enums for the Starfall database. Enums are
// persisted as their string form so the schema stays readable with any
// sqlite shell.

package store

import (
	"fmt"
	"strings"
)

// TaskStatus tracks where a task sits in the guided progression.
type TaskStatus string

const (
	TaskUnassigned TaskStatus = "unassigned"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the three known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskUnassigned, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// LocationKind classifies a location within a star system.
type LocationKind string

const (
	LocationPlanet         LocationKind = "planet"
	LocationMoon           LocationKind = "moon"
	LocationAsteroid       LocationKind = "asteroid"
	LocationStation        LocationKind = "space_station"
	LocationAlienConstruct LocationKind = "alien_construct"
	LocationNebula         LocationKind = "nebula"
)

// FeatureKind classifies a surface or orbital feature.
type FeatureKind string

const (
	FeaturePlot          FeatureKind = "plot"
	FeatureEstablishment FeatureKind = "establishment"
	FeatureRuins         FeatureKind = "ruins"
	FeatureAlienArtifact FeatureKind = "alien_artifact"
	FeaturePOI           FeatureKind = "point_of_interest"
)

// TechStatus tracks a player's progress toward a technology.
type TechStatus string

const (
	TechBlueprint  TechStatus = "blueprint"
	TechResearched TechStatus = "researched"
	TechBuilt      TechStatus = "built"
)

// Valid reports whether the status is one of the three known stages.
func (s TechStatus) Valid() bool {
	switch s {
	case TechBlueprint, TechResearched, TechBuilt:
		return true
	}
	return false
}

// Project is a named collection of ordered tasks forming a guided sequence.
type Project struct {
	ID          int64
	Key         string
	Name        string
	Description string
}

// Task is a single progression step with status and visibility. Tasks are
// unique per (project, key) and per (project, order index).
type Task struct {
	ID          int64
	ProjectID   int64
	Key         string
	Name        string
	Description string
	OrderIndex  int
	Status      TaskStatus
	Hidden      bool
}

// StarSystem is a named point in the galaxy.
type StarSystem struct {
	ID          int64
	Name        string
	X, Y, Z     float64
	Description string
}

// Location is one body within a star system. Ordinal drives the roman
// numeral in the display name ("Sol IV").
type Location struct {
	ID          int64
	SystemID    int64
	Kind        LocationKind
	Ordinal     int
	Name        string
	Description string
}

// DisplayName renders "Sol IV" style names, appending the nickname when set.
func (l Location) DisplayName(systemName string) string {
	base := fmt.Sprintf("%s %s", systemName, RomanNumeral(l.Ordinal))
	if strings.TrimSpace(l.Name) != "" {
		return fmt.Sprintf("%s - %s", base, l.Name)
	}
	return base
}

// Feature is a point of interest attached to a location.
type Feature struct {
	ID             int64
	LocationID     int64
	Kind           FeatureKind
	Name           string
	Description    string
	DiscoveredTurn int
}

// Plot is a claimable parcel on a feature.
type Plot struct {
	ID           int64
	FeatureID    int64
	SizeHectares float64
	Quality      int
}

// Deed records plot ownership.
type Deed struct {
	ID         int64
	PlotID     int64
	OwnerID    int64
	IssuedTurn int
	Price      int
	Notes      string
}

// Assessment is a player's written appraisal of a location, captured on the
// turn it was made.
type Assessment struct {
	ID          int64
	LocationID  int64
	PlayerID    int64
	Turn        int
	Summary     string
	DetailsText string
}

// Material is a tradeable resource.
type Material struct {
	ID          int64
	Name        string
	Rarity      int
	Unit        string
	Description string
}

// Technology is a craftable blueprint keyed by a stable identifier.
type Technology struct {
	ID          int64
	Key         string
	Name        string
	Description string
}

// Player is a participant with a credit balance.
type Player struct {
	ID      int64
	Name    string
	Credits int
}

// PlayerTechnology records how far a player has taken a technology.
type PlayerTechnology struct {
	ID           int64
	PlayerID     int64
	TechnologyID int64
	Status       TechStatus
	AcquiredTurn int
}

var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// RomanNumeral formats n as a roman numeral. Non-positive values fall back
// to their decimal form so the caller never gets an empty label.
func RomanNumeral(n int) string {
	if n <= 0 {
		return fmt.Sprintf("%d", n)
	}
	var b strings.Builder
	for _, r := range romanValues {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}
