package stream

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	callModel "github.com/frontdesk-ai/frontdesk/backend/internal/model/call"
	"github.com/frontdesk-ai/frontdesk/backend/internal/model/operator"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/convo"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/session"
)

type stubStreamer struct {
	chunks []string
	err    error
}

func (s *stubStreamer) Stream(_ context.Context, _ string, _ []callModel.Turn, _ string) (*schema.StreamReader[*schema.Message], error) {
	if s.err != nil {
		return nil, s.err
	}
	messages := make([]*schema.Message, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		messages = append(messages, schema.AssistantMessage(chunk, nil))
	}
	return schema.StreamReaderFromArray(messages), nil
}

func setup(streamer Streamer) (*Handler, *session.Registry, string) {
	reg := session.NewRegistry()
	engine := convo.NewEngine(reg, nil, nil)
	sess, _, _ := engine.StartSession(context.Background(), operator.Operator{ID: "op-1", Name: "Dana Whitfield"}, nil)
	return New(streamer, engine), reg, sess.ID
}

func TestStreamTurnAppendsExchange(t *testing.T) {
	handler, reg, sessionID := setup(&stubStreamer{chunks: []string{"We are ", "open 9 to 5."}})

	resp := httptest.NewRecorder()
	err := handler.HandleStreamRequest(context.Background(), resp, sessionID, "What are your hours?")
	if err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	body := resp.Body.String()
	if !strings.Contains(body, `"delta"`) {
		t.Fatalf("expected delta events in stream: %s", body)
	}
	if !strings.Contains(body, "We are open 9 to 5.") {
		t.Fatalf("expected final message event: %s", body)
	}
	if !strings.Contains(body, `"end"`) {
		t.Fatalf("expected end event: %s", body)
	}

	sess, err := reg.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if len(sess.History) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(sess.History))
	}
	if sess.History[1].Content != "We are open 9 to 5." {
		t.Fatalf("unexpected recorded reply: %q", sess.History[1].Content)
	}
}

func TestStreamTurnFallbackOnFailure(t *testing.T) {
	handler, reg, sessionID := setup(&stubStreamer{err: errors.New("model offline")})

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), resp, sessionID, "Hello?"); err != nil {
		t.Fatalf("stream failures must not error the request: %v", err)
	}

	sess, _ := reg.Get(context.Background(), sessionID)
	if len(sess.History) != 2 {
		t.Fatalf("expected caller+fallback turns, got %d", len(sess.History))
	}
	if sess.History[1].Content == "" {
		t.Fatal("expected non-empty fallback reply in history")
	}
	if !strings.Contains(resp.Body.String(), sess.History[1].Content) {
		t.Fatal("fallback reply should be sent to the caller")
	}
}

func TestStreamTurnNilStreamer(t *testing.T) {
	handler, reg, sessionID := setup(nil)

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), resp, sessionID, "Hello?"); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	sess, _ := reg.Get(context.Background(), sessionID)
	if len(sess.History) != 2 {
		t.Fatalf("expected fallback exchange, got %d turns", len(sess.History))
	}
}

func TestStreamUnknownSession(t *testing.T) {
	handler, _, _ := setup(&stubStreamer{chunks: []string{"hi"}})

	resp := httptest.NewRecorder()
	err := handler.HandleStreamRequest(context.Background(), resp, "missing", "Hello?")
	if !errors.Is(err, convo.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
