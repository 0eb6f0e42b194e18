package ai

import (
	"fmt"
	"strings"
)

// ReceptionistPrompt builds the fixed persona instruction for one
// session. The persona stays constant for the session's lifetime; only
// the caller's name varies.
func ReceptionistPrompt(callerInfo map[string]any) string {
	callerName := "Guest"
	if name, ok := callerInfo["name"].(string); ok && strings.TrimSpace(name) != "" {
		callerName = strings.TrimSpace(name)
	}

	var builder strings.Builder
	builder.WriteString("You are Emma, a professional AI receptionist. ")
	builder.WriteString("You are polite, helpful, and efficient. Keep responses brief and to the point.\n")
	builder.WriteString(fmt.Sprintf("You're speaking with %s.", callerName))
	return builder.String()
}
