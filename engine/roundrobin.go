package engine

// byeSlot marks the phantom opponent added when the team count is odd. It never
// produces a fixture.
const byeSlot = -1

// Pairing is a single fixture within a round.
type Pairing struct {
	HomeTeamID int
	AwayTeamID int
}

// RoundRobin generates a round-robin schedule for the given team ids using the
// circle method: the first slot is fixed and the remaining slots rotate by one
// position each round, pairing slot i against slot size-1-i. With an even team
// count this yields N-1 rounds; an odd count gets a bye slot and N rounds, with
// one team sitting out per round. Output is deterministic for a given input
// order.
func RoundRobin(teamIDs []int) ([][]Pairing, error) {
	if len(teamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}

	slots := make([]int, len(teamIDs))
	copy(slots, teamIDs)
	if len(slots)%2 != 0 {
		slots = append(slots, byeSlot)
	}

	size := len(slots)
	rounds := make([][]Pairing, 0, size-1)

	for r := 0; r < size-1; r++ {
		round := make([]Pairing, 0, size/2)
		for i := 0; i < size/2; i++ {
			home, away := slots[i], slots[size-1-i]
			if home == byeSlot || away == byeSlot {
				continue
			}
			round = append(round, Pairing{HomeTeamID: home, AwayTeamID: away})
		}
		rounds = append(rounds, round)

		// Rotate every slot except the first by one position.
		last := slots[size-1]
		copy(slots[2:], slots[1:size-1])
		slots[1] = last
	}

	return rounds, nil
}
