package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"omni-relay/internal/calendar"
	"omni-relay/internal/domain"
	"omni-relay/internal/llm"
)

// eventDuration es la duración asumida cuando el texto no define un fin.
const eventDuration = 60 * time.Minute

// EventService es el canal de acción fuera de banda: usa el modo one-shot del
// gateway, extrae exactamente un objeto JSON de la salida cruda y crea el
// evento en el calendario. Cualquier etapa que falle produce un único fallo
// sin efectos parciales reportados al caller.
type EventService struct {
	llmClient llm.Client
	calendar  calendar.Client
	builder   PromptBuilder
	timezone  string
	logger    *zap.Logger
}

// NewEventService crea el servicio de eventos de calendario.
func NewEventService(
	llmClient llm.Client,
	calendarClient calendar.Client,
	builder PromptBuilder,
	timezone string,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		llmClient: llmClient,
		calendar:  calendarClient,
		builder:   builder,
		timezone:  timezone,
		logger:    logger,
	}
}

// CreateFromText extrae título y hora de inicio del texto libre y crea un
// evento de una hora. Devuelve el mensaje de confirmación para el usuario.
func (s *EventService) CreateFromText(ctx context.Context, token, text string) (string, error) {
	prompt, err := s.builder.Build(domain.PromptRequest{
		Kind: domain.KindCreateEvent,
		Text: text,
	})
	if err != nil {
		return "", err
	}

	raw, err := s.llmClient.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	extracted, err := parseExtractedEvent(raw)
	if err != nil {
		s.logger.Warn("event extraction failed", zap.Error(err), zap.String("raw", raw))
		return "", err
	}

	start, err := time.Parse(time.RFC3339, extracted.StartTime)
	if err != nil {
		return "", fmt.Errorf("%w: bad startTime %q: %v", domain.ErrParse, extracted.StartTime, err)
	}
	end := start.Add(eventDuration)

	created, err := s.calendar.CreateEvent(ctx, token, calendar.Event{
		Summary: extracted.Title,
		Start:   calendar.EventTime{DateTime: start.Format(time.RFC3339), TimeZone: s.timezone},
		End:     calendar.EventTime{DateTime: end.Format(time.RFC3339), TimeZone: s.timezone},
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Event '%s' created successfully!", created.Summary), nil
}

// ListEvents reenvía el listado del colaborador de calendario.
func (s *EventService) ListEvents(ctx context.Context, token string) ([]calendar.Event, error) {
	return s.calendar.ListEvents(ctx, token)
}

// parseExtractedEvent localiza exactamente un objeto JSON en la salida cruda
// del modelo. Si no hay objeto, toda la operación falla.
func parseExtractedEvent(raw string) (domain.ExtractedEvent, error) {
	obj := extractFirstJSONObject(raw)
	if obj == "" {
		return domain.ExtractedEvent{}, fmt.Errorf("%w: no JSON object in model output", domain.ErrParse)
	}

	var event domain.ExtractedEvent
	if err := json.Unmarshal([]byte(obj), &event); err != nil {
		return domain.ExtractedEvent{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if strings.TrimSpace(event.Title) == "" || strings.TrimSpace(event.StartTime) == "" {
		return domain.ExtractedEvent{}, fmt.Errorf("%w: missing title or startTime", domain.ErrParse)
	}
	return event, nil
}
