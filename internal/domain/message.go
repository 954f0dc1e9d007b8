package domain

import "time"

const (
	AuthorUser = "user"
	AuthorAI   = "ai"
)

// Message es una unidad de conversación. Text es mutable mientras se
// transmite el stream e inmutable una vez persistido.
type Message struct {
	ID        string    `json:"id,omitempty"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Transcript es la secuencia ordenada de mensajes de un usuario. Se persiste
// como una unidad reemplazable completa (upsert por user_id, last-write-wins).
type Transcript []Message

// Clone devuelve una copia independiente del transcript.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}
