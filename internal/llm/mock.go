package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted outcome of MockProvider.Generate.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error

	// Truncated simulates output cut off at MaxTokens.
	Truncated bool
}

// MockProvider replays scripted responses in order and records requests.
// Responses go through the same checks as real backends, so a FormatSchema
// request with a non-matching document fails validation. Once the script
// is exhausted every call fails with ErrProviderUnavailable.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockResponse
	requests []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	return finish(req, reply{
		text:      string(next.Content),
		usage:     next.Usage,
		model:     "mock",
		truncated: next.Truncated,
	})
}

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
}

// Requests returns a copy of the requests received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// CallCount is len(Requests()).
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
