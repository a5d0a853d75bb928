package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error

	// Events, when set, scripts a streamed response: GenerateStream
	// delivers these events in order. The returned Response content is
	// the concatenation of the text deltas, and the stop reason comes
	// from the final MessageStop event.
	Events []StreamEvent
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	resp, err := m.next(req)
	if err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

// GenerateStream replays the next canned response's scripted events. A
// response without events degrades to a single text delta plus message stop.
func (m *MockProvider) GenerateStream(_ context.Context, req Request, fn StreamFunc) (*Response, error) {
	resp, err := m.next(req)
	if err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	events := resp.Events
	if len(events) == 0 {
		events = []StreamEvent{
			{Type: EventTextDelta, Text: string(resp.Content)},
			{Type: EventMessageStop, StopReason: StopEnd},
		}
	}

	var text string
	stopReason := StopEnd
	for _, ev := range events {
		if ev.Type == EventTextDelta {
			text += ev.Text
		}
		if ev.Type == EventMessageStop && ev.StopReason != "" {
			stopReason = ev.StopReason
		}
		fn(ev)
	}

	return &Response{
		Content:    json.RawMessage(text),
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: stopReason,
	}, nil
}

func (m *MockProvider) next(req Request) (MockResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return MockResponse{}, &ErrProviderUnavailable{Err: nil}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate/GenerateStream calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
