// Package game owns the running game: the turn counter and ship snapshot,
// its persistence, and the controller that dispatches command actions.
package game

// Ship tracks the vitals shown in the shell header.
type Ship struct {
	Fuel    int `json:"fuel"`
	Hull    int `json:"hull"`
	Credits int `json:"credits"`
}

// Location is where the ship currently sits.
type Location struct {
	System string `json:"system"`
	Planet string `json:"planet"`
}

// State is the snapshot persisted between sessions.
type State struct {
	Turn     int      `json:"turn"`
	Ship     Ship     `json:"ship"`
	Location Location `json:"location"`
}

// NewState returns the starting snapshot for a fresh game.
func NewState(system, planet string) State {
	return State{
		Turn:     1,
		Ship:     Ship{Fuel: 100, Hull: 100, Credits: 0},
		Location: Location{System: system, Planet: planet},
	}
}

// AdvanceTurn increments the turn counter and returns the new value.
func (s *State) AdvanceTurn() int {
	s.Turn++
	return s.Turn
}
