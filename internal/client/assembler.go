package client

import (
	"context"
	"io"

	"go.uber.org/zap"

	"omni-relay/internal/domain"
	"omni-relay/internal/stream"
)

// Saver es el colaborador de persistencia: upsert del transcript completo
// clavado a la identidad del usuario.
type Saver interface {
	Save(ctx context.Context, userID string, messages domain.Transcript) error
}

// Assembler acumula los frames decodificados en el intercambio en curso y
// notifica después de cada fragment. Cada consumidor mantiene su propio
// Assembler; no hay estado de stream compartido.
type Assembler struct {
	UserID   string
	Saver    Saver
	OnChange func(domain.Transcript)
	Logger   *zap.Logger
}

// Run drena el decoder hasta el cierre del stream y devuelve el intercambio
// asentado.
//
// Cierre sin frame de error: se asienta y se dispara el guardado one-shot del
// transcript completo (best-effort: un fallo se loggea y se traga). Frame de
// error o fallo del canal: se asienta con el texto fijo de fallo y el guardado
// se omite.
func (a *Assembler) Run(ctx context.Context, ex Exchange, dec *stream.Decoder) Exchange {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for {
		frame, err := dec.Next()
		if err != nil {
			if err == io.EOF {
				ex = ex.SettleOK()
				a.notify(ex)
				a.persist(ctx, logger, ex)
				return ex
			}
			logger.Warn("stream transport failed", zap.Error(err))
			ex = ex.SettleError()
			a.notify(ex)
			return ex
		}

		if frame.IsError() {
			logger.Warn("stream ended with error frame", zap.String("error", frame.ErrorText()))
			ex = ex.SettleError()
			a.notify(ex)
			return ex
		}

		ex = ex.ApplyChunk(frame.ChunkText())
		a.notify(ex)
	}
}

func (a *Assembler) notify(ex Exchange) {
	if a.OnChange != nil {
		a.OnChange(ex.Transcript)
	}
}

func (a *Assembler) persist(ctx context.Context, logger *zap.Logger, ex Exchange) {
	if a.Saver == nil || a.UserID == "" {
		return
	}
	if err := a.Saver.Save(ctx, a.UserID, ex.Transcript); err != nil {
		logger.Warn("transcript save failed", zap.String("user_id", a.UserID), zap.Error(err))
	}
}
