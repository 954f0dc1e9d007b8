package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"omni-relay/internal/calendar"
	"omni-relay/internal/domain"
	"omni-relay/internal/llm"
)

type mockCalendar struct {
	created     []calendar.Event
	listed      []calendar.Event
	lastToken   string
	createErr   error
	listErr     error
	createCalls int
}

func (m *mockCalendar) CreateEvent(_ context.Context, token string, event calendar.Event) (calendar.Event, error) {
	m.createCalls++
	m.lastToken = token
	if m.createErr != nil {
		return calendar.Event{}, m.createErr
	}
	m.created = append(m.created, event)
	return event, nil
}

func (m *mockCalendar) ListEvents(_ context.Context, token string) ([]calendar.Event, error) {
	m.lastToken = token
	return m.listed, m.listErr
}

func TestEventService_CreateFromText(t *testing.T) {
	raw := `Sure! {"title":"Meet John","startTime":"2025-08-24T15:00:00+05:30"} Hope that helps.`
	mockLLM := &llm.MockClient{Response: raw}
	cal := &mockCalendar{}
	svc := NewEventService(mockLLM, cal, testBuilder(), "Asia/Kolkata", zap.NewNop())

	message, err := svc.CreateFromText(context.Background(), "tok-123", "Meet John tomorrow at 3pm")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if message != "Event 'Meet John' created successfully!" {
		t.Fatalf("unexpected message: %q", message)
	}
	if cal.createCalls != 1 {
		t.Fatalf("expected exactly one calendar call, got %d", cal.createCalls)
	}
	if cal.lastToken != "tok-123" {
		t.Fatalf("token not forwarded: %q", cal.lastToken)
	}

	event := cal.created[0]
	if event.Summary != "Meet John" {
		t.Fatalf("summary: %q", event.Summary)
	}
	if event.Start.DateTime != "2025-08-24T15:00:00+05:30" {
		t.Fatalf("start: %q", event.Start.DateTime)
	}
	if event.End.DateTime != "2025-08-24T16:00:00+05:30" {
		t.Fatalf("end must be start + 60 minutes with the offset kept: %q", event.End.DateTime)
	}
	if event.Start.TimeZone != "Asia/Kolkata" || event.End.TimeZone != "Asia/Kolkata" {
		t.Fatalf("timezone not set: %+v", event)
	}
}

func TestEventService_NoJSONInOutput(t *testing.T) {
	mockLLM := &llm.MockClient{Response: "I could not find an event in that text."}
	cal := &mockCalendar{}
	svc := NewEventService(mockLLM, cal, testBuilder(), "Asia/Kolkata", zap.NewNop())

	_, err := svc.CreateFromText(context.Background(), "tok", "blah")
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if cal.createCalls != 0 {
		t.Fatalf("calendar must not be called on parse failure")
	}
}

func TestEventService_BadStartTime(t *testing.T) {
	mockLLM := &llm.MockClient{Response: `{"title":"X","startTime":"mañana a las tres"}`}
	cal := &mockCalendar{}
	svc := NewEventService(mockLLM, cal, testBuilder(), "Asia/Kolkata", zap.NewNop())

	_, err := svc.CreateFromText(context.Background(), "tok", "x")
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if cal.createCalls != 0 {
		t.Fatalf("calendar must not be called on parse failure")
	}
}

func TestEventService_CalendarFailure(t *testing.T) {
	mockLLM := &llm.MockClient{Response: `{"title":"X","startTime":"2025-08-24T10:00:00+05:30"}`}
	cal := &mockCalendar{createErr: domain.ErrUpstream}
	svc := NewEventService(mockLLM, cal, testBuilder(), "Asia/Kolkata", zap.NewNop())

	_, err := svc.CreateFromText(context.Background(), "tok", "x")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestEventService_UpstreamFailureSkipsCalendar(t *testing.T) {
	mockLLM := &llm.MockClient{Err: domain.ErrUpstream}
	cal := &mockCalendar{}
	svc := NewEventService(mockLLM, cal, testBuilder(), "Asia/Kolkata", zap.NewNop())

	if _, err := svc.CreateFromText(context.Background(), "tok", "x"); err == nil {
		t.Fatalf("expected error")
	}
	if cal.createCalls != 0 {
		t.Fatalf("no partial side effects expected")
	}
}
