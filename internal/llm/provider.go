package llm

import (
	"context"
)

// Provider abstracts a chat-completion backend (OpenAI, Anthropic, Ollama).
type Provider interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
	Name() string
	Models() []string
}

// Gateway routes completion requests to a configured provider with an
// optional fallback.
type Gateway interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
	Provider(name string) (Provider, error)
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Request is the input for a completion.
type Request struct {
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Completion is a finished generation.
type Completion struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Content  string `json:"content"`
}
