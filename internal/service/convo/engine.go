// Package convo orchestrates conversation turns: it owns the session
// lifecycle, invokes the completion client, and applies the fallback
// policy so the caller-facing transport only ever sees a reply or a
// session-not-found condition.
package convo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frontdesk-ai/frontdesk/backend/internal/model/call"
	"github.com/frontdesk-ai/frontdesk/backend/internal/model/operator"
	"github.com/frontdesk-ai/frontdesk/backend/internal/recorder"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/ai"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/session"
)

// ErrSessionNotFound mirrors the registry sentinel for handler use.
var ErrSessionNotFound = session.ErrSessionNotFound

// Completer is the completion-client boundary the engine talks to.
// *ai.Client satisfies it; tests inject stubs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []call.Turn, userMessage string) (string, error)
}

// Engine serializes single logical turns over the session registry.
type Engine struct {
	sessions  *session.Registry
	completer Completer
	recorder  recorder.Recorder
	now       func() time.Time
}

// NewEngine wires the turn engine. completer may be nil when no model is
// configured; every turn then takes the fallback path.
func NewEngine(sessions *session.Registry, completer Completer, rec recorder.Recorder) *Engine {
	return NewEngineWithClock(sessions, completer, rec, func() time.Time { return time.Now().UTC() })
}

// NewEngineWithClock injects the time source for tests.
func NewEngineWithClock(sessions *session.Registry, completer Completer, rec recorder.Recorder, now func() time.Time) *Engine {
	if rec == nil {
		rec = recorder.LogRecorder{}
	}
	return &Engine{
		sessions:  sessions,
		completer: completer,
		recorder:  rec,
		now:       now,
	}
}

// StartSession registers a fresh session for the operator and returns it
// with the greeting. The greeting is presented out-of-band and is not a
// history turn; transcripts always start with a caller turn.
func (e *Engine) StartSession(ctx context.Context, op operator.Operator, callerInfo map[string]any) (call.Session, string, error) {
	created, err := e.sessions.Create(ctx, op.ID, callerInfo)
	if err != nil {
		return call.Session{}, "", err
	}
	return created, Greeting(op), nil
}

// Greeting derives the deterministic opening line from the operator's
// display name.
func Greeting(op operator.Operator) string {
	return fmt.Sprintf("Hello! You've reached %s's AI receptionist. How can I help you today?", op.Name)
}

// HandleMessage runs one turn: look up the session, ask the model,
// fall back on any completion failure, then append the caller turn and
// the reply as one atomic exchange. Once begun, a turn always runs to
// completion; there is no cross-request cancellation.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, callerText string) (string, error) {
	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	reply := e.generateReply(ctx, sess, callerText)

	if _, err := e.sessions.AppendExchange(ctx, sessionID, callerText, reply); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			// The session ended or expired while the turn was in
			// flight. The exchange is lost with it; still answer the
			// caller who asked.
			log.Printf("[engine] session=%s removed mid-turn, exchange dropped", sessionID)
			return reply, nil
		}
		return "", err
	}

	return reply, nil
}

// FinalizeExchange records a turn whose reply was produced outside the
// engine (streaming transports). Same race policy as HandleMessage.
func (e *Engine) FinalizeExchange(ctx context.Context, sessionID, callerText, reply string) {
	if _, err := e.sessions.AppendExchange(ctx, sessionID, callerText, reply); err != nil {
		log.Printf("[engine] session=%s removed mid-turn, exchange dropped", sessionID)
	}
}

// EndSession removes the session and hands its finalized record to the
// recorder. Recorder failures are logged and swallowed: the caller has
// already disconnected. Ending an unknown or already-removed session
// reports ErrSessionNotFound, a normal race rather than a defect.
func (e *Engine) EndSession(ctx context.Context, sessionID string) (call.FinalizedRecord, error) {
	sess, err := e.sessions.Remove(ctx, sessionID)
	if err != nil {
		return call.FinalizedRecord{}, err
	}

	rec := call.Finalize(sess, e.now())
	if err := e.recorder.Record(ctx, rec); err != nil {
		log.Printf("[engine] failed to persist record for session=%s: %v", sessionID, err)
	}
	return rec, nil
}

// Session exposes a read-only snapshot, used by streaming transports to
// resolve context before a turn.
func (e *Engine) Session(ctx context.Context, sessionID string) (call.Session, error) {
	return e.sessions.Get(ctx, sessionID)
}

func (e *Engine) generateReply(ctx context.Context, sess call.Session, callerText string) string {
	if e.completer == nil {
		log.Printf("[engine] session=%s no completion client configured, using fallback", sess.ID)
		return FallbackReply(&ai.Failure{Kind: ai.FailureUnavailable})
	}

	reply, err := e.completer.Complete(ctx, ai.ReceptionistPrompt(sess.CallerInfo), sess.History, callerText)
	if err != nil {
		log.Printf("[engine] completion failed for session=%s kind=%s: %v", sess.ID, ai.KindOf(err), err)
		return FallbackReply(err)
	}
	return reply
}
