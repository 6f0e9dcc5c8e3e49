package models

// Team is a pair of tournament participants assembled by the two-stage draw.
// Both references point at tournament_participants rows; a team is complete
// once both are non-nil, at which point Name is composed as "<head> & <second>".
type Team struct {
	ID                  int     `json:"id" db:"id"`
	TournamentID        int     `json:"tournament_id" db:"tournament_id"`
	SeedIndex           int     `json:"seed_index" db:"seed_index"`
	HeadParticipantID   *int    `json:"head_participant_id,omitempty" db:"head_participant_id"`
	SecondParticipantID *int    `json:"second_participant_id,omitempty" db:"second_participant_id"`
	Name                *string `json:"name,omitempty" db:"name"`
}

// Complete reports whether both members have been assigned.
func (t Team) Complete() bool {
	return t.HeadParticipantID != nil && t.SecondParticipantID != nil
}
