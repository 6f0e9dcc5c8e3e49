package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebamarsal/truco-tournament/models"
)

func completeTeams(n int) []models.Team {
	teams := make([]models.Team, 0, n)
	for i := 1; i <= n; i++ {
		head, second := i*10, i*10+1
		name := fmt.Sprintf("Equipo %d", i)
		teams = append(teams, models.Team{
			ID:                  i,
			TournamentID:        1,
			SeedIndex:           i - 1,
			HeadParticipantID:   &head,
			SecondParticipantID: &second,
			Name:                &name,
		})
	}
	return teams
}

func planTeamIDs(plan *GroupPlan) []int {
	ids := make([]int, 0)
	for _, g := range plan.Groups {
		ids = append(ids, g.TeamIDs...)
	}
	return ids
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, "Grupo A", GroupName(0))
	assert.Equal(t, "Grupo D", GroupName(3))
	assert.Equal(t, "Grupo ?", GroupName(4))
	assert.Equal(t, "Grupo ?", GroupName(-1))
}

func TestBuildGroupsRandomDeal(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		teams := completeTeams(8)
		plan, err := BuildGroups(teams, 2, nil, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		require.Len(t, plan.Groups, 2)

		assert.Equal(t, "Grupo A", plan.Groups[0].Name)
		assert.Equal(t, "Grupo B", plan.Groups[1].Name)
		assert.Len(t, plan.Groups[0].TeamIDs, 4)
		assert.Len(t, plan.Groups[1].TeamIDs, 4)
		assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, planTeamIDs(plan))
		for _, g := range plan.Groups {
			assert.Len(t, g.Rounds, 3, "four teams play three rounds")
		}
	})

	t.Run("uneven split stays within one", func(t *testing.T) {
		plan, err := BuildGroups(completeTeams(5), 2, nil, rand.New(rand.NewSource(2)))
		require.NoError(t, err)
		sizes := []int{len(plan.Groups[0].TeamIDs), len(plan.Groups[1].TeamIDs)}
		assert.ElementsMatch(t, []int{3, 2}, sizes)
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		a, err := BuildGroups(completeTeams(9), 3, nil, rand.New(rand.NewSource(21)))
		require.NoError(t, err)
		b, err := BuildGroups(completeTeams(9), 3, nil, rand.New(rand.NewSource(21)))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("incomplete teams are left out", func(t *testing.T) {
		teams := completeTeams(5)
		teams[4].SecondParticipantID = nil
		plan, err := BuildGroups(teams, 2, nil, rand.New(rand.NewSource(3)))
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{1, 2, 3, 4}, planTeamIDs(plan))
	})

	t.Run("unsupported group count", func(t *testing.T) {
		_, err := BuildGroups(completeTeams(8), 1, nil, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrUnsupportedGroupCount)
		_, err = BuildGroups(completeTeams(12), 5, nil, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrUnsupportedGroupCount)
	})

	t.Run("not enough teams", func(t *testing.T) {
		_, err := BuildGroups(completeTeams(3), 2, nil, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrNotEnoughTeams)
	})
}

func TestBuildGroupsWithAssignments(t *testing.T) {
	teams := completeTeams(5)

	t.Run("explicit slots are honored", func(t *testing.T) {
		assignments := []Assignment{
			{TeamID: 5, GroupIndex: 0, SlotIndex: 0},
			{TeamID: 3, GroupIndex: 0, SlotIndex: 1},
			{TeamID: 1, GroupIndex: 0, SlotIndex: 2},
			{TeamID: 2, GroupIndex: 1, SlotIndex: 0},
			{TeamID: 4, GroupIndex: 1, SlotIndex: 1},
		}
		plan, err := BuildGroups(teams, 2, assignments, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		assert.Equal(t, []int{5, 3, 1}, plan.Groups[0].TeamIDs)
		assert.Equal(t, []int{2, 4}, plan.Groups[1].TeamIDs)
	})

	invalid := []struct {
		name        string
		assignments []Assignment
	}{
		{
			name: "missing team",
			assignments: []Assignment{
				{TeamID: 1, GroupIndex: 0, SlotIndex: 0},
				{TeamID: 2, GroupIndex: 0, SlotIndex: 1},
				{TeamID: 3, GroupIndex: 1, SlotIndex: 0},
				{TeamID: 4, GroupIndex: 1, SlotIndex: 1},
			},
		},
		{
			name: "duplicate team",
			assignments: []Assignment{
				{TeamID: 1, GroupIndex: 0, SlotIndex: 0},
				{TeamID: 1, GroupIndex: 0, SlotIndex: 1},
				{TeamID: 2, GroupIndex: 0, SlotIndex: 2},
				{TeamID: 3, GroupIndex: 1, SlotIndex: 0},
				{TeamID: 4, GroupIndex: 1, SlotIndex: 1},
			},
		},
		{
			name: "unknown team",
			assignments: []Assignment{
				{TeamID: 99, GroupIndex: 0, SlotIndex: 0},
				{TeamID: 2, GroupIndex: 0, SlotIndex: 1},
				{TeamID: 3, GroupIndex: 0, SlotIndex: 2},
				{TeamID: 4, GroupIndex: 1, SlotIndex: 0},
				{TeamID: 5, GroupIndex: 1, SlotIndex: 1},
			},
		},
		{
			name: "group index out of range",
			assignments: []Assignment{
				{TeamID: 1, GroupIndex: 2, SlotIndex: 0},
				{TeamID: 2, GroupIndex: 0, SlotIndex: 0},
				{TeamID: 3, GroupIndex: 0, SlotIndex: 1},
				{TeamID: 4, GroupIndex: 1, SlotIndex: 0},
				{TeamID: 5, GroupIndex: 1, SlotIndex: 1},
			},
		},
		{
			name: "slot gap",
			assignments: []Assignment{
				{TeamID: 1, GroupIndex: 0, SlotIndex: 0},
				{TeamID: 2, GroupIndex: 0, SlotIndex: 2},
				{TeamID: 3, GroupIndex: 0, SlotIndex: 3},
				{TeamID: 4, GroupIndex: 1, SlotIndex: 0},
				{TeamID: 5, GroupIndex: 1, SlotIndex: 1},
			},
		},
		{
			name: "unbalanced groups",
			assignments: []Assignment{
				{TeamID: 1, GroupIndex: 0, SlotIndex: 0},
				{TeamID: 2, GroupIndex: 0, SlotIndex: 1},
				{TeamID: 3, GroupIndex: 0, SlotIndex: 2},
				{TeamID: 4, GroupIndex: 0, SlotIndex: 3},
				{TeamID: 5, GroupIndex: 1, SlotIndex: 0},
			},
		},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildGroups(teams, 2, tc.assignments, rand.New(rand.NewSource(1)))
			assert.ErrorIs(t, err, ErrInvalidAssignments)
		})
	}
}
