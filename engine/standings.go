package engine

import (
	"sort"

	"github.com/sebamarsal/truco-tournament/models"
)

// TeamStanding accumulates a team's record within its group. Only matches with
// both scores recorded contribute.
type TeamStanding struct {
	TeamID        int `json:"team_id"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	PointsFor     int `json:"points_for"`
	PointsAgainst int `json:"points_against"`
	Diff          int `json:"diff"`
}

// ComputeStandings ranks the teams of one group. Teams are bucketed by win
// count (more wins first); inside a bucket the order is point differential
// descending. A two-team bucket still tied on differential is resolved by the
// head-to-head result if that match is scored, otherwise the order is left
// stable. Buckets of three or more resolve remaining ties by points-for
// descending, then points-against ascending.
func ComputeStandings(teamIDs []int, matches []models.Match) []TeamStanding {
	byTeam := make(map[int]*TeamStanding, len(teamIDs))
	order := make([]*TeamStanding, 0, len(teamIDs))
	for _, id := range teamIDs {
		st := &TeamStanding{TeamID: id}
		byTeam[id] = st
		order = append(order, st)
	}

	for _, m := range matches {
		if !m.Complete() {
			continue
		}
		home, away := byTeam[m.HomeTeamID], byTeam[m.AwayTeamID]
		if home == nil || away == nil {
			continue
		}
		home.PointsFor += *m.HomeScore
		home.PointsAgainst += *m.AwayScore
		away.PointsFor += *m.AwayScore
		away.PointsAgainst += *m.HomeScore
		switch {
		case *m.HomeScore > *m.AwayScore:
			home.Wins++
			away.Losses++
		case *m.AwayScore > *m.HomeScore:
			away.Wins++
			home.Losses++
		}
	}
	for _, st := range order {
		st.Diff = st.PointsFor - st.PointsAgainst
	}

	buckets := make(map[int][]*TeamStanding)
	winCounts := make([]int, 0)
	for _, st := range order {
		if _, seen := buckets[st.Wins]; !seen {
			winCounts = append(winCounts, st.Wins)
		}
		buckets[st.Wins] = append(buckets[st.Wins], st)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(winCounts)))

	ranked := make([]TeamStanding, 0, len(order))
	for _, wins := range winCounts {
		bucket := buckets[wins]
		sortBucket(bucket)
		if len(bucket) == 2 && bucket[0].Diff == bucket[1].Diff {
			resolveHeadToHead(bucket, matches)
		}
		for _, st := range bucket {
			ranked = append(ranked, *st)
		}
	}
	return ranked
}

func sortBucket(bucket []*TeamStanding) {
	sort.SliceStable(bucket, func(i, j int) bool {
		a, b := bucket[i], bucket[j]
		if a.Diff != b.Diff {
			return a.Diff > b.Diff
		}
		if len(bucket) > 2 {
			if a.PointsFor != b.PointsFor {
				return a.PointsFor > b.PointsFor
			}
			if a.PointsAgainst != b.PointsAgainst {
				return a.PointsAgainst < b.PointsAgainst
			}
		}
		return false
	})
}

// resolveHeadToHead reorders a two-team bucket by the direct match between the
// pair, if it has been scored. An unscored head-to-head leaves the stable order.
func resolveHeadToHead(bucket []*TeamStanding, matches []models.Match) {
	first, second := bucket[0], bucket[1]
	for _, m := range matches {
		direct := (m.HomeTeamID == first.TeamID && m.AwayTeamID == second.TeamID) ||
			(m.HomeTeamID == second.TeamID && m.AwayTeamID == first.TeamID)
		if !direct || !m.Complete() || *m.HomeScore == *m.AwayScore {
			continue
		}
		winnerID := m.HomeTeamID
		if *m.AwayScore > *m.HomeScore {
			winnerID = m.AwayTeamID
		}
		if winnerID == second.TeamID {
			bucket[0], bucket[1] = second, first
		}
		return
	}
}
