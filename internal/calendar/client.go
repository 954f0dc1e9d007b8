package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"omni-relay/internal/domain"
)

// EventTime es el par dateTime/timeZone del recurso de calendario.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event es el recurso de evento tal como lo expone la API.
type Event struct {
	ID       string    `json:"id,omitempty"`
	Summary  string    `json:"summary"`
	Status   string    `json:"status,omitempty"`
	HTMLLink string    `json:"htmlLink,omitempty"`
	Start    EventTime `json:"start"`
	End      EventTime `json:"end"`
}

// Client define la frontera con el colaborador de calendario. El token es el
// bearer OAuth del usuario y se reenvía tal cual, nunca se interpreta.
type Client interface {
	ListEvents(ctx context.Context, token string) ([]Event, error)
	CreateEvent(ctx context.Context, token string, event Event) (Event, error)
}

// RestClient implementa Client contra la API REST de Google Calendar v3.
type RestClient struct {
	client *resty.Client
}

// NewRestClient construye el cliente HTTP del calendario.
func NewRestClient(baseURL string) *RestClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	return &RestClient{client: client}
}

type listResponse struct {
	Items []Event `json:"items"`
}

// ListEvents devuelve hasta 10 eventos de los próximos 7 días, ordenados por
// hora de inicio.
func (c *RestClient) ListEvents(ctx context.Context, token string) ([]Event, error) {
	now := time.Now().UTC()
	var result listResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"maxResults":   "10",
			"timeMin":      now.Format(time.RFC3339),
			"timeMax":      now.Add(7 * 24 * time.Hour).Format(time.RFC3339),
			"singleEvents": "true",
			"orderBy":      "startTime",
		}).
		SetResult(&result).
		Get("/calendars/primary/events")
	if err != nil {
		return nil, fmt.Errorf("%w: list events: %v", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: list events: status=%d", domain.ErrUpstream, resp.StatusCode())
	}

	return result.Items, nil
}

// CreateEvent crea un evento en el calendario primario del usuario.
func (c *RestClient) CreateEvent(ctx context.Context, token string, event Event) (Event, error) {
	var created Event

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(event).
		SetResult(&created).
		Post("/calendars/primary/events")
	if err != nil {
		return Event{}, fmt.Errorf("%w: create event: %v", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return Event{}, fmt.Errorf("%w: create event: status=%d", domain.ErrUpstream, resp.StatusCode())
	}

	return created, nil
}
