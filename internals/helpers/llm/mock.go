package llm

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

type MockResponse struct {
	Content json.RawMessage
	Err     error
}

// MockProvider replays canned responses in FIFO order and records requests.
// When a request carries a Schema the canned content is validated the same
// way the real provider does.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Text is a convenience for a plain-text canned reply.
func Text(s string) MockResponse {
	return MockResponse{Content: json.RawMessage(s)}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	if req.Schema != nil {
		if err := validateResponse(req.Schema, next.Content); err != nil {
			return nil, err
		}
	}
	return &Response{Content: next.Content, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, r)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockTranscriber returns a fixed transcript (or error) and keeps the bytes
// it was given.
type MockTranscriber struct {
	Transcript string
	Err        error

	mu       sync.Mutex
	Received [][]byte
}

func (m *MockTranscriber) Transcribe(_ context.Context, audio io.Reader, _ string) (string, error) {
	b, _ := io.ReadAll(audio)
	m.mu.Lock()
	m.Received = append(m.Received, b)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Transcript, nil
}
