package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/todolist/internal/platform/mail"
)

// MockMailer implements mail.Mailer for testing. It records every batch.
type MockMailer struct {
	SendFn func(ctx context.Context, msgs []mail.Message) error

	mu      sync.Mutex
	batches [][]mail.Message
}

var _ mail.Mailer = (*MockMailer)(nil)

// Send implements the mail.Mailer interface
func (m *MockMailer) Send(ctx context.Context, msgs []mail.Message) error {
	m.mu.Lock()
	m.batches = append(m.batches, append([]mail.Message(nil), msgs...))
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, msgs)
	}
	return nil
}

// Batches returns a copy of the recorded batches.
func (m *MockMailer) Batches() [][]mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]mail.Message(nil), m.batches...)
}

// Messages returns every recorded message across batches.
func (m *MockMailer) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []mail.Message
	for _, b := range m.batches {
		all = append(all, b...)
	}
	return all
}
