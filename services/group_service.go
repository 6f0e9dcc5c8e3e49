package services

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/sebamarsal/truco-tournament/engine"
	"github.com/sebamarsal/truco-tournament/models"
	"github.com/sebamarsal/truco-tournament/repositories"
)

// GroupService draws the group phase: it partitions the complete teams into
// groups (randomly or from an operator-run slot draw) and creates every
// round-robin fixture.
type GroupService interface {
	BuildGroups(ctx context.Context, tournamentID, groupCount int, assignments []engine.Assignment) error
}

type groupService struct {
	core *Core
}

func NewGroupService(core *Core) GroupService {
	return &groupService{core: core}
}

func (s *groupService) BuildGroups(ctx context.Context, tournamentID, groupCount int, assignments []engine.Assignment) error {
	lock := s.core.lock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	err := s.core.withTx(ctx, func(tx *sql.Tx) error {
		t, err := s.core.tournaments.GetByID(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		if t.Stage != models.StageGroups {
			return engine.ErrInvalidStage
		}

		teams, err := s.core.teams.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		plan, err := engine.BuildGroups(teams, groupCount, assignments, rng)
		if err != nil {
			return err
		}

		for _, planned := range plan.Groups {
			group := &models.Group{
				TournamentID: tournamentID,
				GroupIndex:   planned.Index,
				Name:         planned.Name,
			}
			if err := s.core.groups.CreateGroup(ctx, tx, group); err != nil {
				return err
			}
			for slot, teamID := range planned.TeamIDs {
				gt := &models.GroupTeam{GroupID: group.ID, TeamID: teamID, SlotIndex: slot}
				if err := s.core.groups.CreateGroupTeam(ctx, tx, gt); err != nil {
					return err
				}
			}
			for roundIdx, round := range planned.Rounds {
				for matchIdx, pairing := range round {
					match := &models.Match{
						TournamentID: tournamentID,
						GroupID:      group.ID,
						RoundIndex:   roundIdx + 1,
						MatchIndex:   matchIdx,
						HomeTeamID:   pairing.HomeTeamID,
						AwayTeamID:   pairing.AwayTeamID,
					}
					if err := s.core.matches.Create(ctx, tx, match); err != nil {
						return err
					}
				}
			}
		}

		t.GroupCount = &groupCount
		t.Stage = models.StageGroupFixtures
		return s.core.tournaments.UpdateProgress(ctx, tx, t)
	})
	if err != nil {
		return err
	}

	go s.core.notifyState(tournamentID)
	return nil
}
