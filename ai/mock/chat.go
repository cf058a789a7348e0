package mock

import (
	"context"
	"sync"

	"github.com/poiesic/answerit/ai"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields, or a fixed
// queue of scripted replies.
type MockChatModel struct {
	// InvokeFunc is called by Invoke if set.
	// If nil, replies are taken from the scripted queue, falling back
	// to a fixed default reply.
	InvokeFunc func(ctx context.Context, messages []ai.Message) (string, error)

	mu        sync.Mutex
	replies   []string
	calls     [][]ai.Message
	callCount int
}

// NewMockChatModel creates a mock chat model with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// QueueReplies appends scripted replies, consumed one per Invoke call.
func (m *MockChatModel) QueueReplies(replies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

// Invoke returns the next scripted reply, or a fixed default.
func (m *MockChatModel) Invoke(ctx context.Context, messages []ai.Message) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.calls = append(m.calls, messages)
	m.mu.Unlock()

	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, messages)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.replies) > 0 {
		reply := m.replies[0]
		m.replies = m.replies[1:]
		return reply, nil
	}
	return "mock reply", nil
}

// CallCount returns the number of times Invoke was called.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Calls returns the message lists passed to each Invoke call, in order.
func (m *MockChatModel) Calls() [][]ai.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Reset clears the call history, scripted replies, and injected behavior.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.calls = nil
	m.replies = nil
	m.InvokeFunc = nil
}
