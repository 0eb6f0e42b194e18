package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk-ai/frontdesk/backend/internal/model/call"
)

var (
	ErrOwnerRequired   = errors.New("owner id is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Registry is the concurrent in-memory store of active conversation
// sessions. All mutating operations are atomic per session id; removed
// ids never resolve again.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*call.Session
	now      func() time.Time
}

// NewRegistry bootstraps an empty registry on the real clock.
func NewRegistry() *Registry {
	return NewRegistryWithClock(func() time.Time { return time.Now().UTC() })
}

// NewRegistryWithClock injects the time source, so expiry behaviour can
// be driven deterministically in tests.
func NewRegistryWithClock(now func() time.Time) *Registry {
	return &Registry{
		sessions: make(map[string]*call.Session),
		now:      now,
	}
}

// Create registers a fresh session for ownerID with empty history and
// returns a snapshot of it.
func (r *Registry) Create(_ context.Context, ownerID string, callerInfo map[string]any) (call.Session, error) {
	if ownerID == "" {
		return call.Session{}, ErrOwnerRequired
	}

	now := r.now()
	session := &call.Session{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		CallerInfo:     callerInfo,
		History:        make([]call.Turn, 0, 16),
		StartedAt:      now,
		LastActivityAt: now,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	return snapshot(session), nil
}

// Get returns a read-only snapshot of the session.
func (r *Registry) Get(_ context.Context, id string) (call.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return call.Session{}, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// AppendTurn atomically appends one turn and refreshes the activity
// timestamp, returning the updated snapshot.
func (r *Registry) AppendTurn(_ context.Context, id string, role call.Role, content string) (call.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return call.Session{}, ErrSessionNotFound
	}

	session.History = append(session.History, call.Turn{Role: role, Content: content})
	session.LastActivityAt = r.now()
	return snapshot(session), nil
}

// AppendExchange atomically appends a caller turn and its assistant
// reply as one unit, so no other append can land between the pair.
func (r *Registry) AppendExchange(_ context.Context, id, callerText, replyText string) (call.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return call.Session{}, ErrSessionNotFound
	}

	session.History = append(session.History,
		call.Turn{Role: call.RoleCaller, Content: callerText},
		call.Turn{Role: call.RoleAssistant, Content: replyText},
	)
	session.LastActivityAt = r.now()
	return snapshot(session), nil
}

// Remove atomically deletes the session and returns its final state for
// finalization. Removing an unknown id reports ErrSessionNotFound; a
// message racing an end or a sweep hits the same condition and must be
// treated as normal end of life.
func (r *Registry) Remove(_ context.Context, id string) (call.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return call.Session{}, ErrSessionNotFound
	}
	delete(r.sessions, id)
	return snapshot(session), nil
}

// SweepExpired removes every session idle strictly longer than
// idleThreshold at now, returning the removed snapshots.
func (r *Registry) SweepExpired(idleThreshold time.Duration, now time.Time) []call.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []call.Session
	for id, session := range r.sessions {
		if now.Sub(session.LastActivityAt) > idleThreshold {
			removed = append(removed, snapshot(session))
			delete(r.sessions, id)
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// snapshot copies the mutable history so callers never observe a slice
// the registry may still append to.
func snapshot(s *call.Session) call.Session {
	copied := *s
	copied.History = append([]call.Turn(nil), s.History...)
	return copied
}
