package llm

import (
	"context"
	"sync"
	"time"
)

// MockClient is a scripted Client for tests. Responses are taken from
// Responder, then ResponseQueue, then Response.
type MockClient struct {
	mu sync.Mutex

	Response      string
	ResponseQueue []string
	Responder     func(prompt string) (string, error)
	Err           error
	Delay         time.Duration

	Prompts []string
	Images  []Image
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	return m.respond(ctx, prompt, nil)
}

func (m *MockClient) Describe(ctx context.Context, prompt string, image Image) (string, error) {
	return m.respond(ctx, prompt, &image)
}

// Calls returns how many prompts the mock received.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

func (m *MockClient) respond(ctx context.Context, prompt string, image *Image) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	if image != nil {
		m.Images = append(m.Images, *image)
	}
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.Responder != nil {
		return m.Responder(prompt)
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}
