package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"omni-relay/internal/domain"
	"omni-relay/internal/llm"
)

func TestRelayService_ValidationBeforeGateway(t *testing.T) {
	mock := &llm.MockClient{Fragments: []string{"never"}}
	svc := NewRelayService(mock, testBuilder(), zap.NewNop())

	_, err := svc.Stream(context.Background(), domain.PromptRequest{
		Kind:   domain.KindAction,
		Action: "shout",
		Text:   "x",
	})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if mock.StreamCalls != 0 {
		t.Fatalf("gateway must not be called on validation failure, got %d calls", mock.StreamCalls)
	}
}

func TestRelayService_StreamsFragmentsInOrder(t *testing.T) {
	mock := &llm.MockClient{Fragments: []string{"The ", "fox ", "jumps."}}
	svc := NewRelayService(mock, testBuilder(), zap.NewNop())

	fragments, err := svc.Stream(context.Background(), domain.PromptRequest{
		Kind:   domain.KindAction,
		Action: domain.ActionSummarize,
		Text:   "The quick brown fox...",
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}

	var got string
	for f := range fragments {
		if f.Err != nil {
			t.Fatalf("unexpected terminal error: %v", f.Err)
		}
		got += f.Text
	}
	if got != "The fox jumps." {
		t.Fatalf("concatenation mismatch: %q", got)
	}
	if mock.StreamCalls != 1 {
		t.Fatalf("expected 1 gateway call, got %d", mock.StreamCalls)
	}
}

func TestRelayService_UpstreamFailure(t *testing.T) {
	mock := &llm.MockClient{Err: domain.ErrUpstream}
	svc := NewRelayService(mock, testBuilder(), zap.NewNop())

	_, err := svc.Stream(context.Background(), domain.PromptRequest{
		Kind:    domain.KindChat,
		Message: "hola",
	})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
