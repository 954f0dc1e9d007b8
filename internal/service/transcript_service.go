package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"omni-relay/internal/domain"
	"omni-relay/internal/repository"
)

// TranscriptService guarda y carga transcripts completos. El guardado
// reemplaza cualquier valor previo del usuario (upsert, no append).
type TranscriptService struct {
	repo   repository.TranscriptRepository
	logger *zap.Logger
}

// NewTranscriptService crea el servicio de transcripts.
func NewTranscriptService(repo repository.TranscriptRepository, logger *zap.Logger) *TranscriptService {
	return &TranscriptService{repo: repo, logger: logger}
}

// Save persiste el transcript entero del usuario. Mensajes sin ID reciben uno
// al persistir; el texto queda inmutable desde aquí.
func (s *TranscriptService) Save(ctx context.Context, userID string, messages domain.Transcript) error {
	if userID == "" || messages == nil {
		return fmt.Errorf("%w: userId and messages are required", domain.ErrInvalidRequest)
	}

	now := time.Now().UTC()
	stamped := messages.Clone()
	for i := range stamped {
		if stamped[i].ID == "" {
			stamped[i].ID = uuid.NewString()
		}
		if stamped[i].CreatedAt.IsZero() {
			stamped[i].CreatedAt = now
		}
	}

	if err := s.repo.Upsert(ctx, userID, stamped); err != nil {
		s.logger.Error("save transcript failed", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Load devuelve el transcript más reciente del usuario, o vacío si no hay.
func (s *TranscriptService) Load(ctx context.Context, userID string) (domain.Transcript, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrInvalidRequest)
	}

	messages, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transcript{}, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return messages, nil
}
