package models

import "time"

// Participant is a raw inscription: created by the public signup form, paid flag
// and confirmation mutated by admin action only.
type Participant struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Phone       string     `json:"phone" db:"phone"`
	Paid        bool       `json:"paid" db:"paid"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	ReceiptKey  *string    `json:"-" db:"receipt_key"`
	ReceiptURL  *string    `json:"receipt_url,omitempty" db:"-"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// TournamentParticipant is a snapshot of a participant copied into the
// tournament at start time. Creation order is the canonical draw order.
type TournamentParticipant struct {
	ID            int       `json:"id" db:"id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	ParticipantID int       `json:"participant_id" db:"participant_id"`
	Name          string    `json:"name" db:"name"`
	Phone         string    `json:"phone" db:"phone"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
