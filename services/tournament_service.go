package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebamarsal/truco-tournament/models"
	"github.com/sebamarsal/truco-tournament/repositories"
)

// minPaidInscriptions is the floor for starting a run: two full teams.
const minPaidInscriptions = 4

type TournamentService interface {
	Start(ctx context.Context) (*models.Tournament, error)
	Reset(ctx context.Context, tournamentID int) (*models.Tournament, error)
	Current(ctx context.Context) (*models.Tournament, error)
	State(ctx context.Context, tournamentID int) (*models.TournamentState, error)
	CurrentState(ctx context.Context) (*models.TournamentState, error)
}

type tournamentService struct {
	core *Core
}

func NewTournamentService(core *Core) TournamentService {
	return &tournamentService{core: core}
}

// Start opens a new run: it snapshots the paid inscriptions and creates one
// empty team per pair. Later edits to the signup list never touch a running
// tournament.
func (s *tournamentService) Start(ctx context.Context) (*models.Tournament, error) {
	paid, err := s.core.participants.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(paid) < minPaidInscriptions {
		return nil, ErrNotEnoughParticipants
	}

	t := &models.Tournament{Stage: models.StageHeads}
	err = s.core.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.core.tournaments.Create(ctx, tx, t); err != nil {
			return err
		}
		return s.seed(ctx, tx, t, paid)
	})
	if err != nil {
		return nil, err
	}

	go s.core.notifyState(t.ID)
	return t, nil
}

// Reset wipes every bracket, fixture, group and team of the tournament and
// re-snapshots the current paid inscriptions, returning the run to the heads
// draw.
func (s *tournamentService) Reset(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	lock := s.core.lock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	paid, err := s.core.participants.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(paid) < minPaidInscriptions {
		return nil, ErrNotEnoughParticipants
	}

	var t *models.Tournament
	err = s.core.withTx(ctx, func(tx *sql.Tx) error {
		t, err = s.core.tournaments.GetByID(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}

		if err := s.core.brackets.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		if err := s.core.matches.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		if err := s.core.groups.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		if err := s.core.teams.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return err
		}

		t.Stage = models.StageHeads
		t.CurrentHeadIndex = 0
		t.PendingMemberID = nil
		t.GroupCount = nil
		// Clearing the pending reference must precede dropping the snapshot.
		if err := s.core.tournaments.UpdateProgress(ctx, tx, t); err != nil {
			return err
		}
		if err := s.core.tournaments.DeleteParticipants(ctx, tx, tournamentID); err != nil {
			return err
		}
		return s.seed(ctx, tx, t, paid)
	})
	if err != nil {
		return nil, err
	}

	go s.core.notifyState(tournamentID)
	return t, nil
}

// seed snapshots the paid signups into the tournament and creates floor(n/2)
// empty teams in seed order. The odd participant, if any, stays in the pool
// and simply never gets drawn.
func (s *tournamentService) seed(ctx context.Context, tx *sql.Tx, t *models.Tournament, paid []models.Participant) error {
	for _, p := range paid {
		tp := &models.TournamentParticipant{
			TournamentID:  t.ID,
			ParticipantID: p.ID,
			Name:          p.Name,
			Phone:         p.Phone,
		}
		if err := s.core.tournaments.AddParticipant(ctx, tx, tp); err != nil {
			return err
		}
	}

	teamCount := len(paid) / 2
	for seed := 0; seed < teamCount; seed++ {
		team := &models.Team{TournamentID: t.ID, SeedIndex: seed}
		if err := s.core.teams.Create(ctx, tx, team); err != nil {
			return err
		}
	}
	return nil
}

func (s *tournamentService) Current(ctx context.Context) (*models.Tournament, error) {
	t, err := s.core.tournaments.GetLatest(ctx, nil)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) State(ctx context.Context, tournamentID int) (*models.TournamentState, error) {
	return s.snapshot(ctx, func(tx *sql.Tx) (*models.Tournament, error) {
		return s.core.tournaments.GetByID(ctx, tx, tournamentID)
	})
}

func (s *tournamentService) CurrentState(ctx context.Context) (*models.TournamentState, error) {
	return s.snapshot(ctx, func(tx *sql.Tx) (*models.Tournament, error) {
		return s.core.tournaments.GetLatest(ctx, tx)
	})
}

// snapshot reads the whole state inside a read-only repeatable-read
// transaction, so concurrent progression writes cannot tear the picture.
func (s *tournamentService) snapshot(ctx context.Context, find func(tx *sql.Tx) (*models.Tournament, error)) (*models.TournamentState, error) {
	tx, err := s.core.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := find(tx)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	state, err := s.core.loadState(ctx, tx, t)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}
	return state, nil
}
