package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebamarsal/truco-tournament/models"
)

var ErrBracketMatchNotFound = errors.New("bracket match not found")

type BracketRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.BracketMatch) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.BracketMatch, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.BracketMatch, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.BracketMatch) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBracketRepository) Create(ctx context.Context, exec SQLExecutor, match *models.BracketMatch) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bracket_matches
			(tournament_id, round_index, match_index, bracket_type,
			 home_team_id, away_team_id, home_score, away_score, winner_team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		match.TournamentID, match.RoundIndex, match.MatchIndex, match.BracketType,
		match.HomeTeamID, match.AwayTeamID, match.HomeScore, match.AwayScore, match.WinnerTeamID,
	).Scan(&match.ID)
	if err != nil {
		return fmt.Errorf("failed to create bracket match: %w", err)
	}
	return nil
}

func (r *postgresBracketRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.BracketMatch, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, round_index, match_index, bracket_type,
		       home_team_id, away_team_id, home_score, away_score, winner_team_id
		FROM bracket_matches
		WHERE id = $1`

	m := &models.BracketMatch{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.RoundIndex, &m.MatchIndex, &m.BracketType,
		&m.HomeTeamID, &m.AwayTeamID, &m.HomeScore, &m.AwayScore, &m.WinnerTeamID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketMatchNotFound
		}
		return nil, fmt.Errorf("failed to find bracket match: %w", err)
	}
	return m, nil
}

func (r *postgresBracketRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.BracketMatch, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, round_index, match_index, bracket_type,
		       home_team_id, away_team_id, home_score, away_score, winner_team_id
		FROM bracket_matches
		WHERE tournament_id = $1
		ORDER BY round_index ASC, bracket_type ASC, match_index ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bracket matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.BracketMatch, 0)
	for rows.Next() {
		var m models.BracketMatch
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.RoundIndex, &m.MatchIndex, &m.BracketType,
			&m.HomeTeamID, &m.AwayTeamID, &m.HomeScore, &m.AwayScore, &m.WinnerTeamID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bracket match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bracket match rows: %w", err)
	}
	return matches, nil
}

// Update persists every mutable field of a bracket match. Bye propagation can
// fill a side without a score, so the team slots are written together with the
// result fields.
func (r *postgresBracketRepository) Update(ctx context.Context, exec SQLExecutor, match *models.BracketMatch) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE bracket_matches SET
			home_team_id = $1,
			away_team_id = $2,
			home_score = $3,
			away_score = $4,
			winner_team_id = $5
		WHERE id = $6`

	result, err := executor.ExecContext(ctx, query,
		match.HomeTeamID, match.AwayTeamID, match.HomeScore, match.AwayScore, match.WinnerTeamID,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bracket match: %w", err)
	}
	return checkAffectedRows(result, ErrBracketMatchNotFound)
}

func (r *postgresBracketRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM bracket_matches WHERE tournament_id = $1`
	if _, err := executor.ExecContext(ctx, query, tournamentID); err != nil {
		return fmt.Errorf("failed to delete bracket matches: %w", err)
	}
	return nil
}
