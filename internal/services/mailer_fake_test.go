package services

import (
	"context"
	"sync"
)

type fakeMailer struct {
	mu   sync.Mutex
	from string
	sent []Email
	err  error
}

func (m *fakeMailer) DefaultFrom() string {
	return m.from
}

func (m *fakeMailer) Send(ctx context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *fakeMailer) last() Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return Email{}
	}
	return m.sent[len(m.sent)-1]
}
