package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobin(t *testing.T) {
	t.Run("fewer than two teams", func(t *testing.T) {
		_, err := RoundRobin([]int{42})
		assert.ErrorIs(t, err, ErrNotEnoughTeams)
	})

	t.Run("two teams play a single fixture", func(t *testing.T) {
		rounds, err := RoundRobin([]int{1, 2})
		require.NoError(t, err)
		require.Len(t, rounds, 1)
		require.Len(t, rounds[0], 1)
		assert.ElementsMatch(t, []int{1, 2}, []int{rounds[0][0].HomeTeamID, rounds[0][0].AwayTeamID})
	})

	for n := 2; n <= 9; n++ {
		n := n
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			teamIDs := make([]int, 0, n)
			for i := 1; i <= n; i++ {
				teamIDs = append(teamIDs, i*10)
			}
			rounds, err := RoundRobin(teamIDs)
			require.NoError(t, err)

			wantRounds := n - 1
			if n%2 != 0 {
				wantRounds = n
			}
			assert.Len(t, rounds, wantRounds)

			seen := make(map[[2]int]bool)
			for _, round := range rounds {
				playing := make(map[int]bool)
				for _, p := range round {
					assert.Contains(t, teamIDs, p.HomeTeamID)
					assert.Contains(t, teamIDs, p.AwayTeamID)
					assert.False(t, playing[p.HomeTeamID], "team %d plays twice in one round", p.HomeTeamID)
					assert.False(t, playing[p.AwayTeamID], "team %d plays twice in one round", p.AwayTeamID)
					playing[p.HomeTeamID] = true
					playing[p.AwayTeamID] = true

					key := [2]int{p.HomeTeamID, p.AwayTeamID}
					if key[0] > key[1] {
						key[0], key[1] = key[1], key[0]
					}
					assert.False(t, seen[key], "pair %v scheduled twice", key)
					seen[key] = true
				}
			}
			assert.Len(t, seen, n*(n-1)/2, "every pair must meet exactly once")
		})
	}

	t.Run("deterministic for the same input", func(t *testing.T) {
		a, err := RoundRobin([]int{1, 2, 3, 4, 5})
		require.NoError(t, err)
		b, err := RoundRobin([]int{1, 2, 3, 4, 5})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
