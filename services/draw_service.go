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

// DrawService runs the team assembly: random heads, random-or-picked seconds,
// confirmation and pointer movement. Every operation is serialized per
// tournament and persisted in one transaction, with the tournament row written
// last so a crash never leaves the stage ahead of the team rows.
type DrawService interface {
	DrawHead(ctx context.Context, tournamentID int) (*models.TournamentParticipant, error)
	DrawSecond(ctx context.Context, tournamentID int) (*models.TournamentParticipant, error)
	SelectSecond(ctx context.Context, tournamentID, participantID int) (*models.TournamentParticipant, error)
	ConfirmTeam(ctx context.Context, tournamentID int) (*models.Team, error)
	NextTeam(ctx context.Context, tournamentID int) error
}

type drawService struct {
	core *Core
}

func NewDrawService(core *Core) DrawService {
	return &drawService{core: core}
}

func (s *drawService) DrawHead(ctx context.Context, tournamentID int) (*models.TournamentParticipant, error) {
	var picked *models.TournamentParticipant
	err := s.withDraw(ctx, tournamentID, func(d *engine.TeamDraw, rng *rand.Rand) error {
		var err error
		picked, err = d.DrawHead(rng)
		return err
	})
	if err != nil {
		return nil, err
	}
	return picked, nil
}

func (s *drawService) DrawSecond(ctx context.Context, tournamentID int) (*models.TournamentParticipant, error) {
	var picked *models.TournamentParticipant
	err := s.withDraw(ctx, tournamentID, func(d *engine.TeamDraw, rng *rand.Rand) error {
		var err error
		picked, err = d.DrawSecond(rng)
		return err
	})
	if err != nil {
		return nil, err
	}
	return picked, nil
}

func (s *drawService) SelectSecond(ctx context.Context, tournamentID, participantID int) (*models.TournamentParticipant, error) {
	var picked *models.TournamentParticipant
	err := s.withDraw(ctx, tournamentID, func(d *engine.TeamDraw, _ *rand.Rand) error {
		var err error
		picked, err = d.SelectSecond(participantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return picked, nil
}

func (s *drawService) ConfirmTeam(ctx context.Context, tournamentID int) (*models.Team, error) {
	var team *models.Team
	err := s.withDraw(ctx, tournamentID, func(d *engine.TeamDraw, _ *rand.Rand) error {
		confirmed, err := d.ConfirmTeam()
		if err != nil {
			return err
		}
		copied := *confirmed
		team = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *drawService) NextTeam(ctx context.Context, tournamentID int) error {
	return s.withDraw(ctx, tournamentID, func(d *engine.TeamDraw, _ *rand.Rand) error {
		return d.AdvancePointer()
	})
}

// withDraw loads the draw state, applies one engine operation and persists the
// outcome: team rows first, the tournament row (stage, pointer, pending pick)
// last.
func (s *drawService) withDraw(ctx context.Context, tournamentID int, fn func(d *engine.TeamDraw, rng *rand.Rand) error) error {
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
		participants, err := s.core.tournaments.ListParticipants(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		teams, err := s.core.teams.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}

		draw := &engine.TeamDraw{
			Tournament:   t,
			Participants: participants,
			Teams:        teams,
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := fn(draw, rng); err != nil {
			return err
		}

		for i := range draw.Teams {
			if err := s.core.teams.Update(ctx, tx, &draw.Teams[i]); err != nil {
				return err
			}
		}
		return s.core.tournaments.UpdateProgress(ctx, tx, t)
	})
	if err != nil {
		return err
	}

	go s.core.notifyState(tournamentID)
	return nil
}
