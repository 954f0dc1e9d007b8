package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"omni-relay/internal/domain"
)

// TranscriptRepository persiste el transcript completo de un usuario como una
// unidad reemplazable. El upsert está clavado a user_id: escrituras
// concurrentes para la misma identidad aplican last-write-wins.
type TranscriptRepository interface {
	Upsert(ctx context.Context, userID string, messages domain.Transcript) error
	GetByUserID(ctx context.Context, userID string) (domain.Transcript, error)
}

type PgTranscriptRepository struct {
	pool *pgxpool.Pool
}

func NewPgTranscriptRepository(pool *pgxpool.Pool) *PgTranscriptRepository {
	return &PgTranscriptRepository{pool: pool}
}

func (r *PgTranscriptRepository) Upsert(ctx context.Context, userID string, messages domain.Transcript) error {
	const query = `
		INSERT INTO chat_history (user_id, messages, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET messages = EXCLUDED.messages, updated_at = EXCLUDED.updated_at
	`

	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query, userID, payload, time.Now().UTC())
	return err
}

func (r *PgTranscriptRepository) GetByUserID(ctx context.Context, userID string) (domain.Transcript, error) {
	const query = `
		SELECT messages
		FROM chat_history
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&payload); err != nil {
		return nil, err
	}

	var messages domain.Transcript
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
