package client

import "omni-relay/internal/domain"

// Phase es el estado del intercambio en curso.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingFirst
	PhaseStreaming
	PhaseSettled
)

// FallbackText reemplaza por completo al mensaje en curso cuando el stream
// termina con error. Nunca se muestra un error crudo en la conversación.
const FallbackText = "Sorry, something went wrong. Please try again."

// Exchange modela un intercambio como valor: cada transición devuelve un
// Exchange nuevo, de modo que el estado es puro y testeable sin transporte.
type Exchange struct {
	Transcript domain.Transcript
	Phase      Phase
}

// Begin arma el intercambio sobre el historial: agrega el mensaje del usuario
// (si hay) y el mensaje ai vacío que los fragments irán completando.
func Begin(history domain.Transcript, userText string) Exchange {
	transcript := history.Clone()
	if userText != "" {
		transcript = append(transcript, domain.Message{Author: domain.AuthorUser, Text: userText})
	}
	transcript = append(transcript, domain.Message{Author: domain.AuthorAI, Text: ""})
	return Exchange{Transcript: transcript, Phase: PhaseAwaitingFirst}
}

// ApplyChunk anexa el payload al texto del último mensaje.
func (e Exchange) ApplyChunk(payload string) Exchange {
	if e.Phase != PhaseAwaitingFirst && e.Phase != PhaseStreaming {
		return e
	}
	transcript := e.Transcript.Clone()
	if len(transcript) > 0 {
		transcript[len(transcript)-1].Text += payload
	}
	return Exchange{Transcript: transcript, Phase: PhaseStreaming}
}

// SettleOK cierra el intercambio tras un stream completo.
func (e Exchange) SettleOK() Exchange {
	return Exchange{Transcript: e.Transcript.Clone(), Phase: PhaseSettled}
}

// SettleError cierra el intercambio sustituyendo el texto parcial del mensaje
// en curso por el mensaje fijo de fallo (reemplazo, no append).
func (e Exchange) SettleError() Exchange {
	transcript := e.Transcript.Clone()
	if len(transcript) > 0 {
		transcript[len(transcript)-1].Text = FallbackText
	}
	return Exchange{Transcript: transcript, Phase: PhaseSettled}
}

// Reply devuelve el texto del mensaje ai en curso (el último).
func (e Exchange) Reply() string {
	if len(e.Transcript) == 0 {
		return ""
	}
	return e.Transcript[len(e.Transcript)-1].Text
}
