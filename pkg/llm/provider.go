package llm

import "context"

// Role represents the role of the message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider defines the interface for an LLM completion provider. The
// recommendation pipeline treats responses as untyped free text.
type Provider interface {
	// Chat sends a list of messages to the LLM and returns the response.
	Chat(ctx context.Context, messages []Message) (*Message, error)
}
