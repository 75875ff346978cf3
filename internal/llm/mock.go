package llm

import (
	"context"
	"errors"
	"sync"
)

// MockReply is a canned reply for MockProvider.
type MockReply struct {
	Text  string
	Usage Usage
	Err   error
}

// MockProvider replays canned replies in FIFO order and records every
// request. Once the queue is empty it fails with KindUnavailable. Safe for
// concurrent use.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockReply
	calls   []Request
}

// NewMockProvider creates a MockProvider queued with replies.
func NewMockProvider(replies ...MockReply) *MockProvider {
	return &MockProvider{replies: replies}
}

func (m *MockProvider) Complete(_ context.Context, req Request) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.replies) == 0 {
		return nil, &APIError{Provider: ProviderMock, Kind: KindUnavailable, Err: errors.New("no canned replies left")}
	}

	r := m.replies[0]
	m.replies = m.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	return &Completion{Text: r.Text, Usage: r.Usage, Model: "mock", StopReason: StopEnd}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// Enqueue appends replies to the queue.
func (m *MockProvider) Enqueue(replies ...MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

// Calls returns a copy of the recorded requests.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// CallCount returns the number of Complete calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
