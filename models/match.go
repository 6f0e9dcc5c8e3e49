package models

// Match is a group-stage fixture. RoundIndex is the 1-based round-robin round,
// MatchIndex the position within the round. A match is complete once both
// scores are recorded.
type Match struct {
	ID           int  `json:"id" db:"id"`
	TournamentID int  `json:"tournament_id" db:"tournament_id"`
	GroupID      int  `json:"group_id" db:"group_id"`
	RoundIndex   int  `json:"round_index" db:"round_index"`
	MatchIndex   int  `json:"match_index" db:"match_index"`
	HomeTeamID   int  `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   int  `json:"away_team_id" db:"away_team_id"`
	HomeScore    *int `json:"home_score" db:"home_score"`
	AwayScore    *int `json:"away_score" db:"away_score"`
}

// Complete reports whether both scores are recorded.
func (m Match) Complete() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}
