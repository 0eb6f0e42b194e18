package call

// Role identifies which side of the conversation produced a turn.
type Role string

const (
	RoleCaller    Role = "caller"
	RoleAssistant Role = "assistant"
)

// Turn is one message exchange unit within a session transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
