package models

import "time"

// Stage represents the tournament's phase, matching the ENUM in the database.
// Progression is strictly heads -> seconds -> groups -> group_fixtures -> playoffs.
type Stage string

const (
	StageHeads         Stage = "heads"
	StageSeconds       Stage = "seconds"
	StageGroups        Stage = "groups"
	StageGroupFixtures Stage = "group_fixtures"
	StagePlayoffs      Stage = "playoffs"
)

// Tournament is the singleton run record. CurrentHeadIndex points into the team
// sequence (by seed index) during the seconds draw; PendingMemberID holds the
// drawn-but-unconfirmed second participant.
type Tournament struct {
	ID               int       `json:"id" db:"id"`
	Stage            Stage     `json:"stage" db:"stage"`
	CurrentHeadIndex int       `json:"current_head_index" db:"current_head_index"`
	PendingMemberID  *int      `json:"pending_member_id,omitempty" db:"pending_member_id"`
	GroupCount       *int      `json:"group_count,omitempty" db:"group_count"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// TournamentState is the full snapshot assembled for the admin panel and the
// live hub: every tournament-scoped entity as of one logical point in time.
type TournamentState struct {
	Tournament     *Tournament             `json:"tournament"`
	Participants   []TournamentParticipant `json:"participants"`
	Teams          []Team                  `json:"teams"`
	Groups         []Group                 `json:"groups"`
	GroupTeams     []GroupTeam             `json:"group_teams"`
	Matches        []Match                 `json:"matches"`
	BracketMatches []BracketMatch          `json:"bracket_matches"`
}
