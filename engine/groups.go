package engine

import (
	"math/rand"
	"sort"

	"github.com/sebamarsal/truco-tournament/models"
)

// Supported group counts. The signup scale of this tournament never needs more.
const (
	MinGroupCount = 2
	MaxGroupCount = 4
)

// Assignment is one operator-confirmed slot draw: team -> group at a slot.
type Assignment struct {
	TeamID     int `json:"team_id"`
	GroupIndex int `json:"group_index"`
	SlotIndex  int `json:"slot_index"`
}

// GroupPlan is the computed partition of complete teams into groups, with the
// round-robin fixture list already generated per group. IDs are assigned on
// persistence.
type GroupPlan struct {
	Groups []PlannedGroup
}

// PlannedGroup holds one group's members in slot order and its schedule.
type PlannedGroup struct {
	Index   int
	Name    string
	TeamIDs []int
	Rounds  [][]Pairing
}

var groupLetters = [...]string{"A", "B", "C", "D"}

// GroupName returns the display name for a 0-based group index.
func GroupName(index int) string {
	if index >= 0 && index < len(groupLetters) {
		return "Grupo " + groupLetters[index]
	}
	return "Grupo ?"
}

// BuildGroups partitions the complete teams into groupCount groups. With a nil
// assignment list the teams are shuffled and dealt cyclically; an explicit list
// (the interactive slot-draw variant) is validated for the same guarantees:
// every complete team in exactly one group, group sizes differing by at most
// one, slot indexes contiguous from 0 per group. Each group then gets its
// round-robin schedule.
func BuildGroups(teams []models.Team, groupCount int, assignments []Assignment, rng *rand.Rand) (*GroupPlan, error) {
	if groupCount < MinGroupCount || groupCount > MaxGroupCount {
		return nil, ErrUnsupportedGroupCount
	}

	complete := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if t.Complete() {
			complete = append(complete, t)
		}
	}
	// Every group must be able to play a round robin.
	if len(complete) < groupCount*2 {
		return nil, ErrNotEnoughTeams
	}

	var members [][]int
	var err error
	if assignments == nil {
		members = dealTeams(complete, groupCount, rng)
	} else {
		members, err = applyAssignments(complete, groupCount, assignments)
		if err != nil {
			return nil, err
		}
	}

	plan := &GroupPlan{Groups: make([]PlannedGroup, 0, groupCount)}
	for i, teamIDs := range members {
		rounds, err := RoundRobin(teamIDs)
		if err != nil {
			return nil, err
		}
		plan.Groups = append(plan.Groups, PlannedGroup{
			Index:   i,
			Name:    GroupName(i),
			TeamIDs: teamIDs,
			Rounds:  rounds,
		})
	}
	return plan, nil
}

func dealTeams(teams []models.Team, groupCount int, rng *rand.Rand) [][]int {
	shuffled := Shuffle(rng, teams)
	members := make([][]int, groupCount)
	for i, t := range shuffled {
		g := i % groupCount
		members[g] = append(members[g], t.ID)
	}
	return members
}

func applyAssignments(teams []models.Team, groupCount int, assignments []Assignment) ([][]int, error) {
	if len(assignments) != len(teams) {
		return nil, ErrInvalidAssignments
	}
	complete := make(map[int]bool, len(teams))
	for _, t := range teams {
		complete[t.ID] = true
	}

	type slotted struct{ teamID, slot int }
	byGroup := make([][]slotted, groupCount)
	seen := make(map[int]bool, len(assignments))
	for _, a := range assignments {
		if !complete[a.TeamID] || seen[a.TeamID] {
			return nil, ErrInvalidAssignments
		}
		if a.GroupIndex < 0 || a.GroupIndex >= groupCount || a.SlotIndex < 0 {
			return nil, ErrInvalidAssignments
		}
		seen[a.TeamID] = true
		byGroup[a.GroupIndex] = append(byGroup[a.GroupIndex], slotted{a.TeamID, a.SlotIndex})
	}

	minSize, maxSize := len(teams), 0
	members := make([][]int, groupCount)
	for g, slots := range byGroup {
		sort.Slice(slots, func(i, j int) bool { return slots[i].slot < slots[j].slot })
		for want, s := range slots {
			if s.slot != want {
				return nil, ErrInvalidAssignments
			}
			members[g] = append(members[g], s.teamID)
		}
		if len(slots) < minSize {
			minSize = len(slots)
		}
		if len(slots) > maxSize {
			maxSize = len(slots)
		}
	}
	if maxSize-minSize > 1 {
		return nil, ErrInvalidAssignments
	}
	return members, nil
}
