package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sebamarsal/truco-tournament/models"
	"github.com/sebamarsal/truco-tournament/repositories"
	"github.com/sebamarsal/truco-tournament/storage"
)

type InscriptionInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type InscriptionService interface {
	Create(ctx context.Context, input InscriptionInput) (*models.Participant, error)
	List(ctx context.Context) ([]models.Participant, error)
	Update(ctx context.Context, id int, input InscriptionInput) (*models.Participant, error)
	SetPaid(ctx context.Context, id int, paid bool) (*models.Participant, error)
	Delete(ctx context.Context, id int) error
	UploadReceipt(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Participant, error)
}

type inscriptionService struct {
	participants repositories.ParticipantRepository
	uploader     storage.FileUploader // nil when uploads are not configured
	mailer       *EmailService        // nil when mail is not configured
	logger       *slog.Logger
}

func NewInscriptionService(
	participants repositories.ParticipantRepository,
	uploader storage.FileUploader,
	mailer *EmailService,
	logger *slog.Logger,
) InscriptionService {
	return &inscriptionService{
		participants: participants,
		uploader:     uploader,
		mailer:       mailer,
		logger:       logger,
	}
}

func (s *inscriptionService) Create(ctx context.Context, input InscriptionInput) (*models.Participant, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Phone == "" {
		return nil, ErrPhoneRequired
	}

	p := &models.Participant{Name: input.Name, Phone: input.Phone}
	if err := s.participants.Create(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrParticipantPhoneConflict) {
			return nil, ErrPhoneConflict
		}
		return nil, err
	}

	if s.mailer != nil {
		// Fire and forget; a broken mailbox must not block signups.
		go func(p models.Participant) {
			if err := s.mailer.SendInscriptionNotification(&p); err != nil {
				s.logger.Error("failed to send inscription notification", slog.Int("participant_id", p.ID), slog.Any("error", err))
			}
		}(*p)
	}

	return p, nil
}

func (s *inscriptionService) List(ctx context.Context) ([]models.Participant, error) {
	participants, err := s.participants.List(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range participants {
		s.populateReceiptURL(&participants[i])
	}
	return participants, nil
}

func (s *inscriptionService) Update(ctx context.Context, id int, input InscriptionInput) (*models.Participant, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Phone == "" {
		return nil, ErrPhoneRequired
	}

	p := &models.Participant{ID: id, Name: input.Name, Phone: input.Phone}
	if err := s.participants.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantNotFound):
			return nil, ErrInscriptionNotFound
		case errors.Is(err, repositories.ErrParticipantPhoneConflict):
			return nil, ErrPhoneConflict
		}
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *inscriptionService) SetPaid(ctx context.Context, id int, paid bool) (*models.Participant, error) {
	if err := s.participants.SetPaid(ctx, id, paid); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrInscriptionNotFound
		}
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *inscriptionService) Delete(ctx context.Context, id int) error {
	p, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.participants.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrInscriptionNotFound
		}
		return err
	}

	if s.uploader != nil && p.ReceiptKey != nil {
		if err := s.uploader.Delete(ctx, *p.ReceiptKey); err != nil {
			s.logger.Warn("failed to delete receipt object", slog.Int("participant_id", id), slog.Any("error", err))
		}
	}
	return nil
}

var receiptExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

func (s *inscriptionService) UploadReceipt(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Participant, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	ext, ok := receiptExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("receipts/%d%s", id, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}

	// Replace a previous receipt stored under another extension.
	if p.ReceiptKey != nil && *p.ReceiptKey != key {
		if err := s.uploader.Delete(ctx, *p.ReceiptKey); err != nil {
			s.logger.Warn("failed to delete previous receipt", slog.Int("participant_id", id), slog.Any("error", err))
		}
	}

	if err := s.participants.UpdateReceiptKey(ctx, id, &key); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *inscriptionService) find(ctx context.Context, id int) (*models.Participant, error) {
	p, err := s.participants.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrInscriptionNotFound
		}
		return nil, err
	}
	s.populateReceiptURL(p)
	return p, nil
}

func (s *inscriptionService) populateReceiptURL(p *models.Participant) {
	if s.uploader == nil || p.ReceiptKey == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*p.ReceiptKey); url != "" {
		p.ReceiptURL = &url
	}
}
