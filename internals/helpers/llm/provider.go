package llm

import (
	"context"
	"encoding/json"
	"io"
)

// Provider generates a completion for a conversation. When Request.Schema is
// set the provider asks for structured output and Response.Content holds the
// validated JSON object; otherwise Content is the raw reply text.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Text returns the reply as plain text. Structured replies come back as
// their JSON encoding.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// UserPrompt is shorthand for a single-turn request.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}
