package call

import "time"

// Session captures one active caller-to-receptionist conversation.
// CallerInfo is immutable after creation; History is append-only while
// the session is live.
type Session struct {
	ID             string         `json:"id"`
	OwnerID        string         `json:"ownerId"`
	CallerInfo     map[string]any `json:"callerInfo,omitempty"`
	History        []Turn         `json:"history"`
	StartedAt      time.Time      `json:"startedAt"`
	LastActivityAt time.Time      `json:"lastActivityAt"`
}

// IdleSince reports how long the session has been without a turn.
func (s Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.LastActivityAt)
}
