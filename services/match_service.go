package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sebamarsal/truco-tournament/engine"
	"github.com/sebamarsal/truco-tournament/models"
	"github.com/sebamarsal/truco-tournament/repositories"
)

// MatchService records results: group fixtures, the cut over to the playoff
// bracket, and elimination matches with winner propagation.
type MatchService interface {
	RecordGroupResult(ctx context.Context, tournamentID, matchID, homeScore, awayScore int) (*models.Match, error)
	BuildBracket(ctx context.Context, tournamentID int) error
	RecordBracketResult(ctx context.Context, tournamentID, matchID, homeScore, awayScore int) (*models.BracketMatch, error)
}

type matchService struct {
	core *Core
}

func NewMatchService(core *Core) MatchService {
	return &matchService{core: core}
}

func (s *matchService) RecordGroupResult(ctx context.Context, tournamentID, matchID, homeScore, awayScore int) (*models.Match, error) {
	lock := s.core.lock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	var recorded *models.Match
	err := s.core.withTx(ctx, func(tx *sql.Tx) error {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if t.Stage != models.StageGroupFixtures {
			return engine.ErrInvalidStage
		}

		matches, err := s.core.matches.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		match, err := engine.RecordGroupResult(matches, matchID, homeScore, awayScore)
		if err != nil {
			return err
		}
		if err := s.core.matches.UpdateScore(ctx, tx, match.ID, homeScore, awayScore); err != nil {
			return err
		}
		copied := *match
		recorded = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.core.notifyState(tournamentID)
	return recorded, nil
}

// BuildBracket closes the group phase: every fixture must be scored. Byes are
// already advanced by the builder, so the rows persist with winners where a
// side could never be filled.
func (s *matchService) BuildBracket(ctx context.Context, tournamentID int) error {
	lock := s.core.lock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	err := s.core.withTx(ctx, func(tx *sql.Tx) error {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if t.Stage != models.StageGroupFixtures {
			return engine.ErrInvalidStage
		}

		groups, err := s.core.groups.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		groupTeams, err := s.core.groups.ListGroupTeams(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		matches, err := s.core.matches.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}

		bracket, err := engine.BuildBracket(tournamentID, groups, groupTeams, matches)
		if err != nil {
			return err
		}
		for i := range bracket {
			if err := s.core.brackets.Create(ctx, tx, &bracket[i]); err != nil {
				return err
			}
		}

		t.Stage = models.StagePlayoffs
		return s.core.tournaments.UpdateProgress(ctx, tx, t)
	})
	if err != nil {
		return err
	}

	go s.core.notifyState(tournamentID)
	return nil
}

func (s *matchService) RecordBracketResult(ctx context.Context, tournamentID, matchID, homeScore, awayScore int) (*models.BracketMatch, error) {
	lock := s.core.lock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	var recorded *models.BracketMatch
	err := s.core.withTx(ctx, func(tx *sql.Tx) error {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if t.Stage != models.StagePlayoffs {
			return engine.ErrInvalidStage
		}

		bracket, err := s.core.brackets.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		match, err := engine.RecordBracketResult(bracket, matchID, homeScore, awayScore)
		if err != nil {
			return err
		}

		// Propagation and cascading byes can touch several rows; persist the
		// whole bracket.
		for i := range bracket {
			if err := s.core.brackets.Update(ctx, tx, &bracket[i]); err != nil {
				return err
			}
		}
		copied := *match
		recorded = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.core.notifyState(tournamentID)
	return recorded, nil
}

func (s *matchService) loadTournament(ctx context.Context, tx *sql.Tx, tournamentID int) (*models.Tournament, error) {
	t, err := s.core.tournaments.GetByID(ctx, tx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}
