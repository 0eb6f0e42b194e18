package call

import "time"

// FinalizedRecord is the summary handed to the call recorder when a
// session ends explicitly. It carries everything the persistence side
// needs to store the call for analytics.
type FinalizedRecord struct {
	OwnerID         string         `json:"ownerId"`
	SessionID       string         `json:"sessionId"`
	CallerInfo      map[string]any `json:"callerInfo,omitempty"`
	Transcript      []Turn         `json:"transcript"`
	DurationSeconds int            `json:"durationSeconds"`
	StartedAt       time.Time      `json:"startedAt"`
	EndedAt         time.Time      `json:"endedAt"`
}

// Finalize builds the record for a session removed at endedAt.
func Finalize(s Session, endedAt time.Time) FinalizedRecord {
	duration := int(endedAt.Sub(s.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	return FinalizedRecord{
		OwnerID:         s.OwnerID,
		SessionID:       s.ID,
		CallerInfo:      s.CallerInfo,
		Transcript:      s.History,
		DurationSeconds: duration,
		StartedAt:       s.StartedAt,
		EndedAt:         endedAt,
	}
}
