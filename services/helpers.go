package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sebamarsal/truco-tournament/live"
	"github.com/sebamarsal/truco-tournament/models"
	"github.com/sebamarsal/truco-tournament/repositories"
)

// Core bundles the database handle, the repositories and the live hub shared
// by the tournament-facing services, plus the per-tournament locks that
// serialize progression writes.
type Core struct {
	db *sql.DB

	tournaments  repositories.TournamentRepository
	participants repositories.ParticipantRepository
	teams        repositories.TeamRepository
	groups       repositories.GroupRepository
	matches      repositories.MatchRepository
	brackets     repositories.BracketRepository

	hub    *live.Hub
	logger *slog.Logger

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewCore(
	db *sql.DB,
	tournaments repositories.TournamentRepository,
	participants repositories.ParticipantRepository,
	teams repositories.TeamRepository,
	groups repositories.GroupRepository,
	matches repositories.MatchRepository,
	brackets repositories.BracketRepository,
	hub *live.Hub,
	logger *slog.Logger,
) *Core {
	return &Core{
		db:           db,
		tournaments:  tournaments,
		participants: participants,
		teams:        teams,
		groups:       groups,
		matches:      matches,
		brackets:     brackets,
		hub:          hub,
		logger:       logger,
		locks:        make(map[int]*sync.Mutex),
	}
}

// lock returns the mutex serializing progression writes for one tournament.
// Admin clicks can race (double-click, two tabs); database transactions keep
// rows consistent but the read-decide-write cycle needs the app-level lock.
func (c *Core) lock(tournamentID int) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[tournamentID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[tournamentID] = l
	}
	return l
}

// withTx runs fn inside a transaction, rolling back on error.
func (c *Core) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// loadState assembles the full tournament snapshot through one executor, so a
// repeatable-read transaction yields a consistent picture.
func (c *Core) loadState(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) (*models.TournamentState, error) {
	state := &models.TournamentState{Tournament: tournament}

	var err error
	if state.Participants, err = c.tournaments.ListParticipants(ctx, exec, tournament.ID); err != nil {
		return nil, err
	}
	if state.Teams, err = c.teams.ListByTournament(ctx, exec, tournament.ID); err != nil {
		return nil, err
	}
	if state.Groups, err = c.groups.ListByTournament(ctx, exec, tournament.ID); err != nil {
		return nil, err
	}
	if state.GroupTeams, err = c.groups.ListGroupTeams(ctx, exec, tournament.ID); err != nil {
		return nil, err
	}
	if state.Matches, err = c.matches.ListByTournament(ctx, exec, tournament.ID); err != nil {
		return nil, err
	}
	if state.BracketMatches, err = c.brackets.ListByTournament(ctx, exec, tournament.ID); err != nil {
		return nil, err
	}
	return state, nil
}

// notifyState pushes a fresh snapshot to the tournament's live room. The reads
// run concurrently on the pool; a broadcast is best-effort and never fails the
// mutation that triggered it.
func (c *Core) notifyState(tournamentID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tournament, err := c.tournaments.GetByID(ctx, nil, tournamentID)
	if err != nil {
		c.logger.Error("live broadcast: failed to load tournament", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	state := &models.TournamentState{Tournament: tournament}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		state.Participants, err = c.tournaments.ListParticipants(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		state.Teams, err = c.teams.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		state.Groups, err = c.groups.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		state.GroupTeams, err = c.groups.ListGroupTeams(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		state.Matches, err = c.matches.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() (err error) {
		state.BracketMatches, err = c.brackets.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("live broadcast: failed to assemble state", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	room := LiveRoom(tournamentID)
	c.hub.BroadcastToRoom(room, live.Message{
		Type:    "STATE_UPDATED",
		Payload: state,
		RoomID:  room,
	})
}

// LiveRoom is the hub room name for a tournament, shared with the websocket
// handler.
func LiveRoom(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}
