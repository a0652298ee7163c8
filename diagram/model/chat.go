// Package model provides LLM chat adapters used to normalise free prose
// into the arrow grammar accepted by diagram.Generate.
//
// Three adapters live in subpackages (openai, anthropic, google), each
// backed by the provider's official Go SDK. MockChatModel serves tests.
package model

import "context"

// ChatModel is a provider-neutral chat completion client.
//
// Implementations convert Messages to the provider format, retry transient
// failures and respect ctx cancellation.
//
// Example:
//
//	m, _ := openai.NewChatModel(os.Getenv("OPENAI_API_KEY"), "")
//	out, err := m.Chat(ctx, []model.Message{
//	    {Role: model.RoleSystem, Content: "Answer briefly."},
//	    {Role: model.RoleUser, Content: "Describe a deploy pipeline."},
//	})
type ChatModel interface {
	Chat(ctx context.Context, messages []Message) (ChatOut, error)
}

// Message is one turn of a conversation.
type Message struct {
	// Role is one of RoleSystem, RoleUser, RoleAssistant.
	Role string

	Content string
}

// Standard roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatOut is the model's reply.
type ChatOut struct {
	Text string

	// TokensUsed is the provider-reported total, 0 when unknown.
	TokensUsed int
}

// SplitSystem separates system messages from the conversation. Providers
// that take the system prompt as a separate field use this. Multiple
// system messages are joined with a blank line.
func SplitSystem(messages []Message) (system string, rest []Message) {
	rest = make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role != RoleSystem {
			rest = append(rest, msg)
			continue
		}
		if system != "" {
			system += "\n\n"
		}
		system += msg.Content
	}
	return system, rest
}
