package client

import (
	"context"
	"errors"
	"strings"
	"testing"

	"omni-relay/internal/domain"
	"omni-relay/internal/stream"
)

type mockSaver struct {
	calls  int
	lastID string
	last   domain.Transcript
	err    error
}

func (m *mockSaver) Save(_ context.Context, userID string, messages domain.Transcript) error {
	m.calls++
	m.lastID = userID
	m.last = messages
	return m.err
}

func wireFrom(frames ...stream.Frame) *stream.Decoder {
	var sb strings.Builder
	for _, f := range frames {
		unit, _ := f.Marshal()
		sb.Write(unit)
	}
	return stream.NewDecoder(strings.NewReader(sb.String()))
}

func TestAssembler_AccumulatesAndPersistsOnce(t *testing.T) {
	saver := &mockSaver{}
	var updates int
	asm := Assembler{
		UserID: "user-1",
		Saver:  saver,
		OnChange: func(domain.Transcript) {
			updates++
		},
	}

	dec := wireFrom(
		stream.ChunkFrame("The "),
		stream.ChunkFrame("fox "),
		stream.ChunkFrame("jumps."),
	)

	ex := asm.Run(context.Background(), Begin(nil, "summarize this"), dec)

	if ex.Phase != PhaseSettled {
		t.Fatalf("expected settled, got %v", ex.Phase)
	}
	if got := ex.Reply(); got != "The fox jumps." {
		t.Fatalf("reply mismatch: %q", got)
	}
	if updates < 3 {
		t.Fatalf("expected a notification per chunk at least, got %d", updates)
	}
	if saver.calls != 1 {
		t.Fatalf("expected exactly one persistence call, got %d", saver.calls)
	}
	if saver.lastID != "user-1" || len(saver.last) != 2 {
		t.Fatalf("unexpected persisted transcript: id=%q messages=%d", saver.lastID, len(saver.last))
	}
	if saver.last[0].Author != domain.AuthorUser || saver.last[0].Text != "summarize this" {
		t.Fatalf("user message missing: %+v", saver.last[0])
	}
}

func TestAssembler_ErrorFrameReplacesTextAndSkipsSave(t *testing.T) {
	saver := &mockSaver{}
	asm := Assembler{UserID: "user-1", Saver: saver}

	dec := wireFrom(
		stream.ChunkFrame("partial "),
		stream.ChunkFrame("output"),
		stream.ErrorFrame("AI stream failed"),
	)

	ex := asm.Run(context.Background(), Begin(nil, "hola"), dec)

	if ex.Phase != PhaseSettled {
		t.Fatalf("expected settled, got %v", ex.Phase)
	}
	if got := ex.Reply(); got != FallbackText {
		t.Fatalf("expected the fixed failure message replacing the partial text, got %q", got)
	}
	if strings.Contains(ex.Reply(), "partial") {
		t.Fatalf("partial text must be replaced, not appended to")
	}
	if saver.calls != 0 {
		t.Fatalf("persistence must be skipped on the error path, got %d calls", saver.calls)
	}
}

func TestAssembler_TransportFailureBehavesLikeErrorFrame(t *testing.T) {
	saver := &mockSaver{}
	asm := Assembler{UserID: "user-1", Saver: saver}

	unit, _ := stream.ChunkFrame("a").Marshal()
	r := &failingReader{data: unit}
	ex := asm.Run(context.Background(), Begin(nil, "hola"), stream.NewDecoder(r))

	if ex.Reply() != FallbackText {
		t.Fatalf("expected fallback text, got %q", ex.Reply())
	}
	if saver.calls != 0 {
		t.Fatalf("persistence must be skipped on channel failure")
	}
}

type failingReader struct {
	data []byte
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("connection reset")
}

func TestAssembler_SaveErrorSwallowed(t *testing.T) {
	saver := &mockSaver{err: errors.New("db down")}
	asm := Assembler{UserID: "user-1", Saver: saver}

	ex := asm.Run(context.Background(), Begin(nil, "hola"), wireFrom(stream.ChunkFrame("ok")))

	if ex.Phase != PhaseSettled || ex.Reply() != "ok" {
		t.Fatalf("exchange must settle normally even if the save fails: %+v", ex)
	}
	if saver.calls != 1 {
		t.Fatalf("expected the save attempt, got %d", saver.calls)
	}
}

func TestAssembler_NoSaverNoUser(t *testing.T) {
	asm := Assembler{}
	ex := asm.Run(context.Background(), Begin(nil, ""), wireFrom(stream.ChunkFrame("x")))
	if ex.Reply() != "x" {
		t.Fatalf("unexpected reply: %q", ex.Reply())
	}
}
