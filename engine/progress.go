package engine

import (
	"sort"

	"github.com/sebamarsal/truco-tournament/models"
)

// RecordGroupResult stores a group-stage score. Ties are rejected: the game is
// played to a fixed point total and always has a winner. Re-recording a fixture
// is allowed; standings are derived, not stored.
func RecordGroupResult(matches []models.Match, matchID, homeScore, awayScore int) (*models.Match, error) {
	var match *models.Match
	for i := range matches {
		if matches[i].ID == matchID {
			match = &matches[i]
			break
		}
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if homeScore < 0 || awayScore < 0 {
		return nil, ErrInvalidScore
	}
	if homeScore == awayScore {
		return nil, ErrTiedScore
	}
	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	return match, nil
}

// RecordBracketResult stores an elimination-match score, decides the winner and
// propagates it. A decided match is never re-decided. For a main match the
// winner is written into round R+1, match M/2, home side if M is even; once
// both semifinals are decided the third-place match receives the two losers in
// semifinal order.
func RecordBracketResult(bracket []models.BracketMatch, matchID, homeScore, awayScore int) (*models.BracketMatch, error) {
	match := findBracketMatch(bracket, matchID)
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if homeScore < 0 || awayScore < 0 {
		return nil, ErrInvalidScore
	}
	if match.Decided() {
		return nil, ErrMatchAlreadyDecided
	}
	if match.HomeTeamID == nil || match.AwayTeamID == nil {
		return nil, ErrMatchNotReady
	}
	if homeScore == awayScore {
		return nil, ErrTiedScore
	}

	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	winner := *match.HomeTeamID
	if awayScore > homeScore {
		winner = *match.AwayTeamID
	}
	match.WinnerTeamID = &winner

	if match.BracketType == models.BracketMain {
		propagateWinner(bracket, match)
		// A propagated winner can land next to a dead slot (double-bye
		// feeder), so re-run the bye scan; it also fills the third-place
		// match once both semifinals are decided.
		AdvanceByes(bracket)
	}
	return match, nil
}

// AdvanceByes scans the main bracket and decides every match with exactly one
// populated side whose empty side can never be filled (a first-round bye, or a
// feeder chain made entirely of byes), propagating each winner. Runs to a
// fixpoint so cascading byes resolve in one pass.
func AdvanceByes(bracket []models.BracketMatch) {
	for changed := true; changed; {
		changed = false
		for i := range bracket {
			m := &bracket[i]
			if m.BracketType != models.BracketMain || m.Decided() {
				continue
			}
			var winner *int
			switch {
			case m.HomeTeamID != nil && m.AwayTeamID == nil && sideIsDead(bracket, m, 1):
				winner = m.HomeTeamID
			case m.AwayTeamID != nil && m.HomeTeamID == nil && sideIsDead(bracket, m, 0):
				winner = m.AwayTeamID
			}
			if winner != nil {
				w := *winner
				m.WinnerTeamID = &w
				propagateWinner(bracket, m)
				changed = true
			}
		}
	}
	fillThirdPlace(bracket)
}

// Champion returns the winner of the final, if decided.
func Champion(bracket []models.BracketMatch) *int {
	final := finalRound(bracket)
	for i := range bracket {
		m := &bracket[i]
		if m.BracketType == models.BracketMain && m.RoundIndex == final && m.MatchIndex == 0 {
			return m.WinnerTeamID
		}
	}
	return nil
}

func propagateWinner(bracket []models.BracketMatch, m *models.BracketMatch) {
	if m.RoundIndex >= finalRound(bracket) {
		return
	}
	next := mainMatchAt(bracket, m.RoundIndex+1, m.MatchIndex/2)
	if next == nil {
		return
	}
	if m.MatchIndex%2 == 0 {
		next.HomeTeamID = m.WinnerTeamID
	} else {
		next.AwayTeamID = m.WinnerTeamID
	}
}

// fillThirdPlace populates the third-place match from the semifinal losers once
// both semifinals are decided, in semifinal order. It never re-triggers after
// the sides are set.
func fillThirdPlace(bracket []models.BracketMatch) {
	final := finalRound(bracket)
	if final < 2 {
		return
	}
	var third *models.BracketMatch
	for i := range bracket {
		if bracket[i].BracketType == models.BracketThirdPlace {
			third = &bracket[i]
			break
		}
	}
	if third == nil || third.HomeTeamID != nil || third.AwayTeamID != nil {
		return
	}

	semis := make([]*models.BracketMatch, 0, 2)
	for i := range bracket {
		m := &bracket[i]
		if m.BracketType == models.BracketMain && m.RoundIndex == final-1 {
			semis = append(semis, m)
		}
	}
	sort.Slice(semis, func(i, j int) bool { return semis[i].MatchIndex < semis[j].MatchIndex })
	if len(semis) != 2 || !semis[0].Decided() || !semis[1].Decided() {
		return
	}
	third.HomeTeamID = loserOf(semis[0])
	third.AwayTeamID = loserOf(semis[1])
}

func loserOf(m *models.BracketMatch) *int {
	if m.WinnerTeamID == nil {
		return nil
	}
	if m.HomeTeamID != nil && *m.HomeTeamID != *m.WinnerTeamID {
		return m.HomeTeamID
	}
	if m.AwayTeamID != nil && *m.AwayTeamID != *m.WinnerTeamID {
		return m.AwayTeamID
	}
	return nil
}

// sideIsDead reports whether the given side (0 = home, 1 = away) of a main
// match can never be populated.
func sideIsDead(bracket []models.BracketMatch, m *models.BracketMatch, side int) bool {
	if m.RoundIndex == 1 {
		return true
	}
	feeder := mainMatchAt(bracket, m.RoundIndex-1, m.MatchIndex*2+side)
	if feeder == nil {
		return true
	}
	return !canDecide(bracket, feeder)
}

func canDecide(bracket []models.BracketMatch, m *models.BracketMatch) bool {
	if m.Decided() {
		return true
	}
	homeLive := m.HomeTeamID != nil || !sideIsDead(bracket, m, 0)
	awayLive := m.AwayTeamID != nil || !sideIsDead(bracket, m, 1)
	return homeLive || awayLive
}

func mainMatchAt(bracket []models.BracketMatch, round, index int) *models.BracketMatch {
	for i := range bracket {
		m := &bracket[i]
		if m.BracketType == models.BracketMain && m.RoundIndex == round && m.MatchIndex == index {
			return m
		}
	}
	return nil
}

func finalRound(bracket []models.BracketMatch) int {
	final := 0
	for _, m := range bracket {
		if m.BracketType == models.BracketMain && m.RoundIndex > final {
			final = m.RoundIndex
		}
	}
	return final
}

func findBracketMatch(bracket []models.BracketMatch, id int) *models.BracketMatch {
	for i := range bracket {
		if bracket[i].ID == id {
			return &bracket[i]
		}
	}
	return nil
}
