package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebamarsal/truco-tournament/models"
)

// ladderMatches generates a full round robin for ids where the earlier team
// always beats the later one 30-20, so the final ranking equals the input order.
func ladderMatches(firstMatchID, groupID int, ids []int) []models.Match {
	out := make([]models.Match, 0)
	id := firstMatchID
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			out = append(out, playedMatch(id, groupID, ids[i], ids[j], 30, 20))
			id++
		}
	}
	return out
}

func slotTeams(groupID, firstID int, teamIDs []int) []models.GroupTeam {
	out := make([]models.GroupTeam, 0, len(teamIDs))
	for slot, teamID := range teamIDs {
		out = append(out, models.GroupTeam{ID: firstID + slot, GroupID: groupID, TeamID: teamID, SlotIndex: slot})
	}
	return out
}

func mainMatch(bracket []models.BracketMatch, round, index int) *models.BracketMatch {
	for i := range bracket {
		m := &bracket[i]
		if m.BracketType == models.BracketMain && m.RoundIndex == round && m.MatchIndex == index {
			return m
		}
	}
	return nil
}

func thirdPlaceMatch(bracket []models.BracketMatch) *models.BracketMatch {
	for i := range bracket {
		if bracket[i].BracketType == models.BracketThirdPlace {
			return &bracket[i]
		}
	}
	return nil
}

func TestBuildBracketCrossSeeding(t *testing.T) {
	groups := []models.Group{
		{ID: 2, TournamentID: 1, GroupIndex: 1, Name: "Grupo B"},
		{ID: 1, TournamentID: 1, GroupIndex: 0, Name: "Grupo A"},
	}
	groupTeams := append(
		slotTeams(1, 1, []int{1, 2, 3, 4, 5}),
		slotTeams(2, 6, []int{6, 7, 8, 9, 10})...,
	)
	matches := append(
		ladderMatches(1, 1, []int{1, 2, 3, 4, 5}),
		ladderMatches(100, 2, []int{6, 7, 8, 9, 10})...,
	)

	bracket, err := BuildBracket(1, groups, groupTeams, matches)
	require.NoError(t, err)

	// Four qualifiers per group: quarters, semis, final plus third place.
	require.Len(t, bracket, 8)

	wantPairs := [][2]int{{1, 9}, {3, 7}, {2, 8}, {4, 6}}
	for idx, want := range wantPairs {
		m := mainMatch(bracket, 1, idx)
		require.NotNil(t, m)
		require.NotNil(t, m.HomeTeamID)
		require.NotNil(t, m.AwayTeamID)
		assert.Equal(t, want[0], *m.HomeTeamID)
		assert.Equal(t, want[1], *m.AwayTeamID)
	}

	for idx := 0; idx < 2; idx++ {
		m := mainMatch(bracket, 2, idx)
		require.NotNil(t, m)
		assert.Nil(t, m.HomeTeamID)
		assert.Nil(t, m.AwayTeamID)
	}
	require.NotNil(t, mainMatch(bracket, 3, 0))

	third := thirdPlaceMatch(bracket)
	require.NotNil(t, third)
	assert.Equal(t, 2, third.RoundIndex)
	assert.Equal(t, 0, third.MatchIndex)
}

func TestBuildBracketGenericSeeding(t *testing.T) {
	// Two groups of three qualify two each: semifinals pair each group's top
	// two, no cross pattern.
	groups := []models.Group{
		{ID: 1, TournamentID: 1, GroupIndex: 0, Name: "Grupo A"},
		{ID: 2, TournamentID: 1, GroupIndex: 1, Name: "Grupo B"},
	}
	groupTeams := append(
		slotTeams(1, 1, []int{1, 2, 3}),
		slotTeams(2, 4, []int{4, 5, 6})...,
	)
	matches := append(
		ladderMatches(1, 1, []int{1, 2, 3}),
		ladderMatches(50, 2, []int{4, 5, 6})...,
	)

	bracket, err := BuildBracket(1, groups, groupTeams, matches)
	require.NoError(t, err)
	require.Len(t, bracket, 4)

	semi0 := mainMatch(bracket, 1, 0)
	require.NotNil(t, semi0)
	assert.Equal(t, 1, *semi0.HomeTeamID)
	assert.Equal(t, 2, *semi0.AwayTeamID)

	semi1 := mainMatch(bracket, 1, 1)
	require.NotNil(t, semi1)
	assert.Equal(t, 4, *semi1.HomeTeamID)
	assert.Equal(t, 5, *semi1.AwayTeamID)

	third := thirdPlaceMatch(bracket)
	require.NotNil(t, third)
	assert.Equal(t, 1, third.RoundIndex)
}

func TestBuildBracketUnevenGroupsQualifyEqually(t *testing.T) {
	// Sizes 4 and 3: Q = min(4,3) - 1 = 2 from each group.
	groups := []models.Group{
		{ID: 1, TournamentID: 1, GroupIndex: 0, Name: "Grupo A"},
		{ID: 2, TournamentID: 1, GroupIndex: 1, Name: "Grupo B"},
	}
	groupTeams := append(
		slotTeams(1, 1, []int{1, 2, 3, 4}),
		slotTeams(2, 5, []int{5, 6, 7})...,
	)
	matches := append(
		ladderMatches(1, 1, []int{1, 2, 3, 4}),
		ladderMatches(50, 2, []int{5, 6, 7})...,
	)

	bracket, err := BuildBracket(1, groups, groupTeams, matches)
	require.NoError(t, err)

	seeded := make([]int, 0)
	for idx := 0; ; idx++ {
		m := mainMatch(bracket, 1, idx)
		if m == nil {
			break
		}
		if m.HomeTeamID != nil {
			seeded = append(seeded, *m.HomeTeamID)
		}
		if m.AwayTeamID != nil {
			seeded = append(seeded, *m.AwayTeamID)
		}
	}
	assert.ElementsMatch(t, []int{1, 2, 5, 6}, seeded)
}

func TestBuildBracketByes(t *testing.T) {
	// Six teams in one group qualify five: padded to eight slots, the byes
	// advance immediately and cascade through the empty quarter.
	groups := []models.Group{{ID: 1, TournamentID: 1, GroupIndex: 0, Name: "Grupo A"}}
	ids := []int{1, 2, 3, 4, 5, 6}
	groupTeams := slotTeams(1, 1, ids)
	matches := ladderMatches(1, 1, ids)

	bracket, err := BuildBracket(1, groups, groupTeams, matches)
	require.NoError(t, err)

	bye := mainMatch(bracket, 1, 2)
	require.NotNil(t, bye)
	require.NotNil(t, bye.WinnerTeamID)
	assert.Equal(t, 5, *bye.WinnerTeamID)

	// The fourth quarter is empty, so team 5 rides through the semifinal too.
	semi := mainMatch(bracket, 2, 1)
	require.NotNil(t, semi)
	require.NotNil(t, semi.WinnerTeamID)
	assert.Equal(t, 5, *semi.WinnerTeamID)

	final := mainMatch(bracket, 3, 0)
	require.NotNil(t, final)
	require.NotNil(t, final.AwayTeamID)
	assert.Equal(t, 5, *final.AwayTeamID)
	assert.Nil(t, final.WinnerTeamID)
}

func TestBuildBracketErrors(t *testing.T) {
	t.Run("no groups", func(t *testing.T) {
		_, err := BuildBracket(1, nil, nil, nil)
		assert.ErrorIs(t, err, ErrNotEnoughTeams)
	})

	t.Run("unscored fixture", func(t *testing.T) {
		groups := []models.Group{
			{ID: 1, TournamentID: 1, GroupIndex: 0, Name: "Grupo A"},
			{ID: 2, TournamentID: 1, GroupIndex: 1, Name: "Grupo B"},
		}
		groupTeams := append(
			slotTeams(1, 1, []int{1, 2}),
			slotTeams(2, 3, []int{3, 4})...,
		)
		matches := []models.Match{
			playedMatch(1, 1, 1, 2, 30, 20),
			pendingMatch(2, 2, 3, 4),
		}
		_, err := BuildBracket(1, groups, groupTeams, matches)
		assert.ErrorIs(t, err, ErrIncompleteFixtures)
	})

	t.Run("single qualifier", func(t *testing.T) {
		groups := []models.Group{{ID: 1, TournamentID: 1, GroupIndex: 0, Name: "Grupo A"}}
		groupTeams := slotTeams(1, 1, []int{1, 2})
		matches := []models.Match{playedMatch(1, 1, 1, 2, 30, 20)}
		_, err := BuildBracket(1, groups, groupTeams, matches)
		assert.ErrorIs(t, err, ErrNotEnoughTeams)
	})
}
