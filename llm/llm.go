package llm

import "context"

// Generator is the minimal interface a chat-completion provider
// implements: send one ordered conversation, get the reply text back.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}
