package engine

import (
	"sort"

	"github.com/sebamarsal/truco-tournament/models"
)

// BuildBracket seeds the single-elimination bracket from the group results.
// Every group match must be scored. Each group's ranking is truncated to the
// qualification count Q = min(group size) - 1, floored at 1, so uneven groups
// still qualify the same number of teams. With exactly two groups of at least
// four qualifiers each the fixed cross pattern A1-B4, A3-B2, A2-B3, A4-B1 is
// used (top four per group only); any other configuration flattens the
// qualifiers in group-then-rank order, pads with byes to the next power of two
// and pairs consecutively. Later rounds are created empty and byes are
// advanced immediately.
func BuildBracket(tournamentID int, groups []models.Group, groupTeams []models.GroupTeam, matches []models.Match) ([]models.BracketMatch, error) {
	if len(groups) == 0 {
		return nil, ErrNotEnoughTeams
	}
	for _, m := range matches {
		if !m.Complete() {
			return nil, ErrIncompleteFixtures
		}
	}

	ordered := make([]models.Group, len(groups))
	copy(ordered, groups)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].GroupIndex < ordered[j].GroupIndex })

	rankings := make([][]int, 0, len(ordered))
	minSize := -1
	for _, g := range ordered {
		teamIDs := groupTeamIDs(g.ID, groupTeams)
		if minSize == -1 || len(teamIDs) < minSize {
			minSize = len(teamIDs)
		}
		standings := ComputeStandings(teamIDs, matchesOfGroup(g.ID, matches))
		ranking := make([]int, 0, len(standings))
		for _, st := range standings {
			ranking = append(ranking, st.TeamID)
		}
		rankings = append(rankings, ranking)
	}

	qualify := minSize - 1
	if qualify < 1 {
		qualify = 1
	}
	total := 0
	for i := range rankings {
		if len(rankings[i]) > qualify {
			rankings[i] = rankings[i][:qualify]
		}
		total += len(rankings[i])
	}
	if total < 2 {
		return nil, ErrNotEnoughTeams
	}

	pairs := seedFirstRound(rankings)
	totalSlots := len(pairs) * 2
	rounds := log2(nextPowerOfTwo(totalSlots))

	bracket := make([]models.BracketMatch, 0, totalSlots)
	for round := 1; round <= rounds; round++ {
		matchesInRound := totalSlots >> uint(round)
		for idx := 0; idx < matchesInRound; idx++ {
			bm := models.BracketMatch{
				TournamentID: tournamentID,
				RoundIndex:   round,
				MatchIndex:   idx,
				BracketType:  models.BracketMain,
			}
			if round == 1 {
				bm.HomeTeamID = pairs[idx][0]
				bm.AwayTeamID = pairs[idx][1]
			}
			bracket = append(bracket, bm)
		}
	}
	if rounds >= 2 {
		bracket = append(bracket, models.BracketMatch{
			TournamentID: tournamentID,
			RoundIndex:   rounds - 1,
			MatchIndex:   0,
			BracketType:  models.BracketThirdPlace,
		})
	}

	AdvanceByes(bracket)
	return bracket, nil
}

// seedFirstRound returns the first-round (home, away) pairs; nil means a bye.
func seedFirstRound(rankings [][]int) [][2]*int {
	if len(rankings) == 2 && len(rankings[0]) >= 4 && len(rankings[1]) >= 4 {
		a, b := rankings[0], rankings[1]
		return [][2]*int{
			{&a[0], &b[3]},
			{&a[2], &b[1]},
			{&a[1], &b[2]},
			{&a[3], &b[0]},
		}
	}

	seeds := make([]*int, 0)
	for gi := range rankings {
		for ti := range rankings[gi] {
			seeds = append(seeds, &rankings[gi][ti])
		}
	}
	size := nextPowerOfTwo(len(seeds))
	for len(seeds) < size {
		seeds = append(seeds, nil)
	}

	pairs := make([][2]*int, 0, size/2)
	for i := 0; i < len(seeds); i += 2 {
		pairs = append(pairs, [2]*int{seeds[i], seeds[i+1]})
	}
	return pairs
}

func groupTeamIDs(groupID int, groupTeams []models.GroupTeam) []int {
	members := make([]models.GroupTeam, 0)
	for _, gt := range groupTeams {
		if gt.GroupID == groupID {
			members = append(members, gt)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].SlotIndex < members[j].SlotIndex })
	ids := make([]int, 0, len(members))
	for _, gt := range members {
		ids = append(ids, gt.TeamID)
	}
	return ids
}

func matchesOfGroup(groupID int, matches []models.Match) []models.Match {
	out := make([]models.Match, 0)
	for _, m := range matches {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out
}

func nextPowerOfTwo(v int) int {
	power := 1
	for power < v {
		power *= 2
	}
	return power
}

func log2(v int) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}
