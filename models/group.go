package models

// Group is a round-robin pool. GroupIndex is 0-based and determines the display
// name ("Grupo A", "Grupo B", ...).
type Group struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	GroupIndex   int    `json:"group_index" db:"group_index"`
	Name         string `json:"name" db:"name"`
}

// GroupTeam links a team into a group. SlotIndex records the per-group arrival
// order of the draw and is contiguous from 0.
type GroupTeam struct {
	ID        int `json:"id" db:"id"`
	GroupID   int `json:"group_id" db:"group_id"`
	TeamID    int `json:"team_id" db:"team_id"`
	SlotIndex int `json:"slot_index" db:"slot_index"`
}
