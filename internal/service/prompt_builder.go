package service

import (
	"fmt"
	"time"

	"omni-relay/internal/domain"
)

// maxContextRunes acota el contexto libre interpolado en los prompts para
// limitar costo de tokens y latencia. El recorte es un prefijo silencioso.
const maxContextRunes = 15000

// PromptBuilder arma el prompt final por variante. Puro: sin I/O ni estado
// retenido; la única entrada ambiental (fecha actual para eventos) se inyecta
// como reloj.
type PromptBuilder struct {
	Timezone  string
	UTCOffset string
	Now       func() time.Time
}

// NewPromptBuilder construye un builder con el huso asumido para eventos.
func NewPromptBuilder(timezone, utcOffset string) PromptBuilder {
	return PromptBuilder{
		Timezone:  timezone,
		UTCOffset: utcOffset,
		Now:       time.Now,
	}
}

// Build valida la variante y produce el prompt. Un discriminador inválido o
// un campo faltante falla antes de armar nada.
func (b PromptBuilder) Build(req domain.PromptRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	switch req.Kind {
	case domain.KindChat:
		return fmt.Sprintf(
			"You are Omni, a helpful AI assistant. Analyze the context from the user's webpage and answer their question.\n\nCONTEXT: \"\"\"%s\"\"\"\n\nUSER'S QUESTION: %q",
			TruncateContext(req.Context), req.Message,
		), nil

	case domain.KindAction:
		switch req.Action {
		case domain.ActionRephrase:
			return fmt.Sprintf("Rephrase the following text to be more clear and concise: %q", req.Text), nil
		case domain.ActionSummarize:
			return fmt.Sprintf("Summarize the following text in one key sentence: %q", req.Text), nil
		}

	case domain.KindCompose:
		switch req.Template {
		case domain.TemplateFormalEmail:
			return fmt.Sprintf(
				"Write a formal email with the following details:\nTo: %s\nFrom: A professional\nSubject: %s\n\nKey points to include:\n- %s\n\nThe tone should be professional, respectful, and clear.",
				req.Compose.To, req.Compose.Subject, req.Compose.Points,
			), nil
		case domain.TemplateTweetIdeas:
			return fmt.Sprintf(
				"Generate 5 creative and engaging tweet ideas about the following topic: %q.\nThe tweets should be short, punchy, and include relevant hashtags.",
				req.Compose.Topic,
			), nil
		}

	case domain.KindAnalyze:
		return fmt.Sprintf(
			"Analyze the following document context and answer the user's question.\n\nDOCUMENT CONTEXT:\n\"\"\"\n%s\n\"\"\"\n\nUSER'S QUESTION: %q\n\nANALYSIS:",
			TruncateContext(req.Context), req.Question,
		), nil

	case domain.KindDocument:
		return fmt.Sprintf(
			"Please provide a concise summary of the following document:\n\nDOCUMENT TEXT:\n\"\"\"\n%s\n\"\"\"\n\nSUMMARY:",
			TruncateContext(req.Context),
		), nil

	case domain.KindCreateEvent:
		today := b.Now().Format("January 2, 2006")
		return fmt.Sprintf(
			"From the following text, extract an event title and a start time in full ISO 8601 format (e.g., 2025-08-23T16:00:00%s).\nToday's date is %s. The user is in time zone %s (UTC%s).\nIf no time is specified, assume a reasonable time like 10:00 AM.\nRespond ONLY with a single JSON object containing \"title\" and \"startTime\".\n\nTEXT: %q",
			b.UTCOffset, today, b.Timezone, b.UTCOffset, req.Text,
		), nil
	}

	// Validate ya rechazó todo lo demás.
	return "", fmt.Errorf("%w: kind %q", domain.ErrInvalidRequest, req.Kind)
}

// TruncateContext toma el prefijo de hasta maxContextRunes sin partir una
// secuencia UTF-8. Entradas dentro del límite vuelven intactas.
func TruncateContext(s string) string {
	if len(s) <= maxContextRunes {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxContextRunes {
		return s
	}
	return string(runes[:maxContextRunes])
}
