// Package llm abstracts the chat-completion calls the pipeline makes, so
// the flow and crew can be exercised against a fake in tests.
package llm

import "context"

// Message is one chat message. Role is "system", "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// Schema describes a structured-output contract: the model must return
// JSON matching Definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]interface{}
}

// Client is the call contract for the external LLM provider.
type Client interface {
	// Complete performs a plain chat completion and returns the text.
	Complete(ctx context.Context, messages []Message) (string, error)
	// CompleteStructured performs a chat completion constrained to the
	// given JSON schema and returns the raw response text, which the
	// caller parses.
	CompleteStructured(ctx context.Context, messages []Message, schema Schema) (string, error)
	// Model reports the model name, used for cost estimation.
	Model() string
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}
