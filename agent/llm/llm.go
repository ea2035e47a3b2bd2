package llm

import "context"

// Roles used in a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client completes a conversation with the next assistant reply.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
