package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"omni-relay/internal/domain"
)

func TestSaveChat_OK(t *testing.T) {
	repo := &memTranscriptRepo{}
	router := newTestRouter(t, testDeps{repo: repo})

	w := postJSON(router, "/api/save_chat", `{
		"userId": "user-1",
		"messages": [
			{"author": "user", "text": "hola"},
			{"author": "ai", "text": "Hello! How can I help you today?"}
		]
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Chat saved.") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	stored := repo.byUser["user-1"]
	if len(stored) != 2 || stored[0].ID == "" {
		t.Fatalf("expected stamped transcript persisted, got %+v", stored)
	}
}

func TestSaveChat_Validation(t *testing.T) {
	router := newTestRouter(t, testDeps{})

	for _, body := range []string{
		`{"messages":[]}`,
		`{"userId":"user-1"}`,
		`not json`,
	} {
		w := postJSON(router, "/api/save_chat", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestSaveChat_PersistenceFailure(t *testing.T) {
	repo := &memTranscriptRepo{err: errors.New("db down")}
	router := newTestRouter(t, testDeps{repo: repo})

	w := postJSON(router, "/api/save_chat", `{"userId":"user-1","messages":[{"author":"user","text":"x"}]}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to save chat history.") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGetHistory_ReturnsTranscript(t *testing.T) {
	repo := &memTranscriptRepo{byUser: map[string]domain.Transcript{
		"user-1": {{ID: "m1", Author: domain.AuthorUser, Text: "hola"}},
	}}
	router := newTestRouter(t, testDeps{repo: repo})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat_history/user-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got domain.Transcript
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].Text != "hola" {
		t.Fatalf("unexpected transcript: %+v", got)
	}
}

func TestGetHistory_EmptyForUnknownUser(t *testing.T) {
	router := newTestRouter(t, testDeps{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat_history/nobody", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("expected empty list, got %s", body)
	}
}
