package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebamarsal/truco-tournament/models"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	CreateGroup(ctx context.Context, exec SQLExecutor, group *models.Group) error
	CreateGroupTeam(ctx context.Context, exec SQLExecutor, groupTeam *models.GroupTeam) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Group, error)
	ListGroupTeams(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.GroupTeam, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) CreateGroup(ctx context.Context, exec SQLExecutor, group *models.Group) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO groups (tournament_id, group_index, name)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query, group.TournamentID, group.GroupIndex, group.Name).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *postgresGroupRepository) CreateGroupTeam(ctx context.Context, exec SQLExecutor, groupTeam *models.GroupTeam) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO group_teams (group_id, team_id, slot_index)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query, groupTeam.GroupID, groupTeam.TeamID, groupTeam.SlotIndex).Scan(&groupTeam.ID)
	if err != nil {
		return fmt.Errorf("failed to create group team: %w", err)
	}
	return nil
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Group, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, group_index, name
		FROM groups
		WHERE tournament_id = $1
		ORDER BY group_index ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.TournamentID, &g.GroupIndex, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

func (r *postgresGroupRepository) ListGroupTeams(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.GroupTeam, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT gt.id, gt.group_id, gt.team_id, gt.slot_index
		FROM group_teams gt
		JOIN groups g ON gt.group_id = g.id
		WHERE g.tournament_id = $1
		ORDER BY gt.group_id ASC, gt.slot_index ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group teams: %w", err)
	}
	defer rows.Close()

	groupTeams := make([]models.GroupTeam, 0)
	for rows.Next() {
		var gt models.GroupTeam
		if err := rows.Scan(&gt.ID, &gt.GroupID, &gt.TeamID, &gt.SlotIndex); err != nil {
			return nil, fmt.Errorf("failed to scan group team row: %w", err)
		}
		groupTeams = append(groupTeams, gt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group team rows: %w", err)
	}
	return groupTeams, nil
}

func (r *postgresGroupRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	// group_teams rows go with their groups via ON DELETE CASCADE.
	query := `DELETE FROM groups WHERE tournament_id = $1`
	if _, err := executor.ExecContext(ctx, query, tournamentID); err != nil {
		return fmt.Errorf("failed to delete groups: %w", err)
	}
	return nil
}
