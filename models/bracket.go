package models

// BracketType distinguishes the main elimination tree from the third-place match.
type BracketType string

const (
	BracketMain       BracketType = "main"
	BracketThirdPlace BracketType = "third_place"
)

// BracketMatch is one slot of the elimination stage. RoundIndex is 1-based and
// increases toward the final; MatchIndex is 0-based within the round. A main
// match at (R, M) feeds round R+1 match M/2, home side if M is even.
type BracketMatch struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	RoundIndex   int         `json:"round_index" db:"round_index"`
	MatchIndex   int         `json:"match_index" db:"match_index"`
	BracketType  BracketType `json:"bracket_type" db:"bracket_type"`
	HomeTeamID   *int        `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   *int        `json:"away_team_id" db:"away_team_id"`
	HomeScore    *int        `json:"home_score" db:"home_score"`
	AwayScore    *int        `json:"away_score" db:"away_score"`
	WinnerTeamID *int        `json:"winner_team_id" db:"winner_team_id"`
}

// Decided reports whether a winner has been recorded.
func (m BracketMatch) Decided() bool {
	return m.WinnerTeamID != nil
}
