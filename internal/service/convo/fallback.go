package convo

import "github.com/frontdesk-ai/frontdesk/backend/internal/service/ai"

// Fallback replies keep the receptionist in character when the
// completion service cannot answer. Callers never see a raw error.
const (
	fallbackDelivery = "Thank you for your message. I'll make sure it gets delivered."
	fallbackApology  = "I apologize for the inconvenience. Your message has been noted."
)

// FallbackReply converts a completion failure into the caller-safe
// acknowledgment said in its place.
func FallbackReply(err error) string {
	switch ai.KindOf(err) {
	case ai.FailureTimeout, ai.FailureUnavailable:
		return fallbackDelivery
	default:
		return fallbackApology
	}
}
