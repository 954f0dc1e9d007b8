package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"omni-relay/internal/domain"
)

func testBuilder() PromptBuilder {
	b := NewPromptBuilder("Asia/Kolkata", "+05:30")
	b.Now = func() time.Time {
		return time.Date(2025, time.August, 23, 12, 0, 0, 0, time.UTC)
	}
	return b
}

func TestBuild_SummarizeActionPrompt(t *testing.T) {
	prompt, err := testBuilder().Build(domain.PromptRequest{
		Kind:   domain.KindAction,
		Action: domain.ActionSummarize,
		Text:   "The quick brown fox...",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := `Summarize the following text in one key sentence: "The quick brown fox..."`
	if prompt != want {
		t.Fatalf("prompt mismatch:\n got %q\nwant %q", prompt, want)
	}
}

func TestBuild_RephraseActionPrompt(t *testing.T) {
	prompt, err := testBuilder().Build(domain.PromptRequest{
		Kind:   domain.KindAction,
		Action: domain.ActionRephrase,
		Text:   "hola",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if prompt != `Rephrase the following text to be more clear and concise: "hola"` {
		t.Fatalf("unexpected prompt: %q", prompt)
	}
}

func TestBuild_InvalidDiscriminators(t *testing.T) {
	cases := []domain.PromptRequest{
		{Kind: domain.KindAction, Action: "shout", Text: "x"},
		{Kind: domain.KindCompose, Template: "haiku", Compose: domain.ComposeContext{Topic: "go"}},
		{Kind: "unknown", Text: "x"},
	}
	for _, req := range cases {
		if _, err := testBuilder().Build(req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
}

func TestBuild_MissingRequiredFields(t *testing.T) {
	cases := []domain.PromptRequest{
		{Kind: domain.KindChat},
		{Kind: domain.KindAction, Action: domain.ActionSummarize},
		{Kind: domain.KindAction, Text: "x"},
		{Kind: domain.KindAnalyze, Question: "why"},
		{Kind: domain.KindDocument},
		{Kind: domain.KindCreateEvent},
	}
	for _, req := range cases {
		if _, err := testBuilder().Build(req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
}

func TestBuild_ChatEmbedsContextAndQuestion(t *testing.T) {
	prompt, err := testBuilder().Build(domain.PromptRequest{
		Kind:    domain.KindChat,
		Message: "what is this page about?",
		Context: "page body",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(prompt, "You are Omni") {
		t.Fatalf("missing persona: %q", prompt)
	}
	if !strings.Contains(prompt, `CONTEXT: """page body"""`) {
		t.Fatalf("missing context block: %q", prompt)
	}
	if !strings.Contains(prompt, `USER'S QUESTION: "what is this page about?"`) {
		t.Fatalf("missing question: %q", prompt)
	}
}

func TestBuild_ChatAllowsEmptyContext(t *testing.T) {
	if _, err := testBuilder().Build(domain.PromptRequest{
		Kind:    domain.KindChat,
		Message: "hola",
	}); err != nil {
		t.Fatalf("empty context should be valid: %v", err)
	}
}

func TestBuild_CreateEventEmbedsDateAndZone(t *testing.T) {
	prompt, err := testBuilder().Build(domain.PromptRequest{
		Kind: domain.KindCreateEvent,
		Text: "Meet John tomorrow at 3pm",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, want := range []string{
		"Today's date is August 23, 2025.",
		"time zone Asia/Kolkata (UTC+05:30)",
		`a single JSON object containing "title" and "startTime"`,
		`TEXT: "Meet John tomorrow at 3pm"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestTruncateContext_Idempotence(t *testing.T) {
	short := strings.Repeat("a", maxContextRunes)
	if got := TruncateContext(short); got != short {
		t.Fatalf("context within the limit must come back unchanged")
	}

	long := strings.Repeat("b", maxContextRunes+500)
	got := TruncateContext(long)
	if got != long[:maxContextRunes] {
		t.Fatalf("expected exact %d-rune prefix, got %d runes", maxContextRunes, len([]rune(got)))
	}
}

func TestTruncateContext_MultibyteBoundary(t *testing.T) {
	long := strings.Repeat("ñ", maxContextRunes+10)
	got := TruncateContext(long)
	if count := len([]rune(got)); count != maxContextRunes {
		t.Fatalf("expected %d runes, got %d", maxContextRunes, count)
	}
	if !strings.HasSuffix(got, "ñ") {
		t.Fatalf("truncation split a multibyte rune")
	}
}
