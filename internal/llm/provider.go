// Package llm abstracts the chat-completion providers used for content
// drafting. Providers return structured JSON validated against a caller
// supplied schema, so downstream code never parses free-form prose.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is a single chat-completion backend.
type Provider interface {
	// Generate sends one request and returns the model output. When the
	// request carries a Schema the returned Content is JSON that has
	// already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Role is the sender of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Schema names a JSON Schema the response must conform to. Name doubles
// as the structured-output identifier providers send upstream.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request describes one generation call.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Usage reports token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response is the model output. StopReason is normalized across
// providers to "end" or "max_tokens".
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}
