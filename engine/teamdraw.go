package engine

import (
	"fmt"
	"math/rand"

	"github.com/sebamarsal/truco-tournament/models"
)

// TeamDraw is the state machine assembling teams from the participant pool.
// Teams must be ordered by seed index. Mutations happen in place; the caller
// persists the tournament row and any changed team rows, with the stage
// transition as the last write.
type TeamDraw struct {
	Tournament   *models.Tournament
	Participants []models.TournamentParticipant
	Teams        []models.Team
}

// Available returns the participants that can still be drawn: not a head or
// second of any team and, unless includePending is set, not currently pending.
func (d *TeamDraw) Available(includePending bool) []models.TournamentParticipant {
	taken := make(map[int]bool, len(d.Teams)*2)
	for _, t := range d.Teams {
		if t.HeadParticipantID != nil {
			taken[*t.HeadParticipantID] = true
		}
		if t.SecondParticipantID != nil {
			taken[*t.SecondParticipantID] = true
		}
	}
	if d.Tournament.PendingMemberID != nil && !includePending {
		taken[*d.Tournament.PendingMemberID] = true
	}

	available := make([]models.TournamentParticipant, 0, len(d.Participants))
	for _, p := range d.Participants {
		if !taken[p.ID] {
			available = append(available, p)
		}
	}
	return available
}

// DrawHead picks a random unassigned participant and assigns it as head of the
// next team lacking one, in seed order. Once every team has a head the stage
// moves to seconds and the draw pointer resets.
func (d *TeamDraw) DrawHead(rng *rand.Rand) (*models.TournamentParticipant, error) {
	if d.Tournament.Stage != models.StageHeads {
		return nil, ErrInvalidStage
	}

	teamIdx := -1
	for i := range d.Teams {
		if d.Teams[i].HeadParticipantID == nil {
			teamIdx = i
			break
		}
	}
	if teamIdx == -1 {
		return nil, ErrInvalidStage
	}

	pool := d.Available(false)
	if len(pool) == 0 {
		return nil, ErrNoCandidates
	}
	picked, err := PickOne(rng, pool)
	if err != nil {
		return nil, err
	}
	d.Teams[teamIdx].HeadParticipantID = &picked.ID

	if !d.anyTeamLacksHead() {
		d.Tournament.Stage = models.StageSeconds
		d.Tournament.CurrentHeadIndex = 0
	}
	return &picked, nil
}

// DrawSecond picks a random available participant as the pending second for the
// team at the current head pointer. If a pending member is already recorded it
// is returned as-is, so a double-click never redraws.
func (d *TeamDraw) DrawSecond(rng *rand.Rand) (*models.TournamentParticipant, error) {
	if d.Tournament.Stage != models.StageSeconds {
		return nil, ErrInvalidStage
	}
	if d.Tournament.PendingMemberID != nil {
		return d.participantByID(*d.Tournament.PendingMemberID), nil
	}

	pool := d.Available(false)
	if len(pool) == 0 {
		return nil, ErrNoCandidates
	}
	picked, err := PickOne(rng, pool)
	if err != nil {
		return nil, err
	}
	d.Tournament.PendingMemberID = &picked.ID
	return &picked, nil
}

// SelectSecond replaces the pending pick with a manually chosen participant.
func (d *TeamDraw) SelectSecond(participantID int) (*models.TournamentParticipant, error) {
	if d.Tournament.Stage != models.StageSeconds {
		return nil, ErrInvalidStage
	}
	for _, p := range d.Available(true) {
		if p.ID == participantID {
			d.Tournament.PendingMemberID = &p.ID
			return d.participantByID(p.ID), nil
		}
	}
	return nil, ErrParticipantUnavailable
}

// ConfirmTeam assigns the pending participant as the current team's second,
// composes the display name and advances the pointer to the next team still
// lacking a second, wrapping circularly. When every team is complete the stage
// moves to groups.
func (d *TeamDraw) ConfirmTeam() (*models.Team, error) {
	if d.Tournament.Stage != models.StageSeconds {
		return nil, ErrInvalidStage
	}
	if d.Tournament.PendingMemberID == nil {
		return nil, ErrNoPendingSelection
	}
	idx := d.Tournament.CurrentHeadIndex
	if idx < 0 || idx >= len(d.Teams) {
		return nil, ErrInvalidStage
	}

	team := &d.Teams[idx]
	pendingID := *d.Tournament.PendingMemberID
	team.SecondParticipantID = &pendingID
	if head := d.participantByID(derefInt(team.HeadParticipantID)); head != nil {
		if second := d.participantByID(pendingID); second != nil {
			name := fmt.Sprintf("%s & %s", head.Name, second.Name)
			team.Name = &name
		}
	}
	d.Tournament.PendingMemberID = nil

	if next, ok := d.nextTeamLackingSecond(idx); ok {
		d.Tournament.CurrentHeadIndex = next
	} else {
		d.Tournament.Stage = models.StageGroups
		d.Tournament.CurrentHeadIndex = 0
	}
	return team, nil
}

// AdvancePointer skips the current team and moves the pointer to the next team
// still lacking a second. A pending pick must be confirmed or replaced first.
func (d *TeamDraw) AdvancePointer() error {
	if d.Tournament.Stage != models.StageSeconds {
		return ErrInvalidStage
	}
	if d.Tournament.PendingMemberID != nil {
		return ErrPendingSelectionExists
	}
	if next, ok := d.nextTeamLackingSecond(d.Tournament.CurrentHeadIndex); ok {
		d.Tournament.CurrentHeadIndex = next
	}
	return nil
}

func (d *TeamDraw) anyTeamLacksHead() bool {
	for _, t := range d.Teams {
		if t.HeadParticipantID == nil {
			return true
		}
	}
	return false
}

// nextTeamLackingSecond scans forward circularly from (but excluding) the team
// at from.
func (d *TeamDraw) nextTeamLackingSecond(from int) (int, bool) {
	n := len(d.Teams)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if d.Teams[i].SecondParticipantID == nil {
			return i, true
		}
	}
	return 0, false
}

func (d *TeamDraw) participantByID(id int) *models.TournamentParticipant {
	for i := range d.Participants {
		if d.Participants[i].ID == id {
			return &d.Participants[i]
		}
	}
	return nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
