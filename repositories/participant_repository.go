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
	ErrParticipantNotFound      = errors.New("participant not found")
	ErrParticipantPhoneConflict = errors.New("participant phone already registered")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	FindByID(ctx context.Context, id int) (*models.Participant, error)
	List(ctx context.Context, paidOnly bool) ([]models.Participant, error)
	Update(ctx context.Context, p *models.Participant) error
	SetPaid(ctx context.Context, id int, paid bool) error
	UpdateReceiptKey(ctx context.Context, id int, receiptKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (name, phone)
		VALUES ($1, $2)
		RETURNING id, paid, created_at`

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Phone).Scan(&p.ID, &p.Paid, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "participants_phone_key" {
				return ErrParticipantPhoneConflict
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) FindByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT id, name, phone, paid, confirmed_at, receipt_key, created_at
		FROM participants
		WHERE id = $1`

	p := &models.Participant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Phone, &p.Paid, &p.ConfirmedAt, &p.ReceiptKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) List(ctx context.Context, paidOnly bool) ([]models.Participant, error) {
	query := `
		SELECT id, name, phone, paid, confirmed_at, receipt_key, created_at
		FROM participants`
	if paidOnly {
		query += ` WHERE paid = TRUE`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Paid, &p.ConfirmedAt, &p.ReceiptKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) Update(ctx context.Context, p *models.Participant) error {
	query := `UPDATE participants SET name = $1, phone = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, p.Name, p.Phone, p.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrParticipantPhoneConflict
		}
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

// SetPaid flips the payment flag, stamping confirmed_at on confirmation and
// clearing it when the payment is revoked.
func (r *postgresParticipantRepository) SetPaid(ctx context.Context, id int, paid bool) error {
	query := `
		UPDATE participants
		SET paid = $1,
		    confirmed_at = CASE WHEN $1 THEN now() ELSE NULL END
		WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, paid, id)
	if err != nil {
		return fmt.Errorf("failed to update participant payment: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdateReceiptKey(ctx context.Context, id int, receiptKey *string) error {
	query := `UPDATE participants SET receipt_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, receiptKey, id)
	if err != nil {
		return fmt.Errorf("failed to update participant receipt key: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM participants WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
