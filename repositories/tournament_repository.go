package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sebamarsal/truco-tournament/models"
)

var (
	ErrTournamentNotFound            = errors.New("tournament not found")
	ErrTournamentParticipantConflict = errors.New("participant already snapshotted for this tournament")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	GetLatest(ctx context.Context, exec SQLExecutor) (*models.Tournament, error)
	UpdateProgress(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	Delete(ctx context.Context, id int) error

	AddParticipant(ctx context.Context, exec SQLExecutor, tp *models.TournamentParticipant) error
	ListParticipants(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TournamentParticipant, error)
	DeleteParticipants(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (stage, current_head_index, group_count)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, t.Stage, t.CurrentHeadIndex, t.GroupCount).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `
		SELECT id, stage, current_head_index, pending_member_id, group_count, created_at
		FROM tournaments
		WHERE id = $1`
	return r.scanOne(ctx, r.getExecutor(exec), query, id)
}

// GetLatest returns the most recently created tournament, which the HTTP layer
// treats as the current one.
func (r *postgresTournamentRepository) GetLatest(ctx context.Context, exec SQLExecutor) (*models.Tournament, error) {
	query := `
		SELECT id, stage, current_head_index, pending_member_id, group_count, created_at
		FROM tournaments
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	return r.scanOne(ctx, r.getExecutor(exec), query)
}

func (r *postgresTournamentRepository) scanOne(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID, &t.Stage, &t.CurrentHeadIndex, &t.PendingMemberID, &t.GroupCount, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to find tournament: %w", err)
	}
	return t, nil
}

// UpdateProgress persists the mutable progression fields: the stage, the draw
// pointer, the pending pick and the chosen group count.
func (r *postgresTournamentRepository) UpdateProgress(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments SET
			stage = $1,
			current_head_index = $2,
			pending_member_id = $3,
			group_count = $4
		WHERE id = $5`

	result, err := executor.ExecContext(ctx, query,
		t.Stage, t.CurrentHeadIndex, t.PendingMemberID, t.GroupCount, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament progress: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) AddParticipant(ctx context.Context, exec SQLExecutor, tp *models.TournamentParticipant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_participants (tournament_id, participant_id, name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		tp.TournamentID, tp.ParticipantID, tp.Name, tp.Phone,
	).Scan(&tp.ID, &tp.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrTournamentParticipantConflict
		}
		return fmt.Errorf("failed to add tournament participant: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) ListParticipants(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TournamentParticipant, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, participant_id, name, phone, created_at
		FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.TournamentParticipant, 0)
	for rows.Next() {
		var tp models.TournamentParticipant
		if err := rows.Scan(&tp.ID, &tp.TournamentID, &tp.ParticipantID, &tp.Name, &tp.Phone, &tp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tournament participant row: %w", err)
		}
		participants = append(participants, tp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament participant rows: %w", err)
	}
	return participants, nil
}

// DeleteParticipants drops the snapshot, used when a tournament is reset. The
// pending_member_id reference must be cleared first.
func (r *postgresTournamentRepository) DeleteParticipants(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM tournament_participants WHERE tournament_id = $1`
	if _, err := executor.ExecContext(ctx, query, tournamentID); err != nil {
		return fmt.Errorf("failed to delete tournament participants: %w", err)
	}
	return nil
}
