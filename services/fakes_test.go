package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"payyourfriends/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMailer records sends. Addresses in fail get an error; delay makes
// every send wait (or give up when ctx ends).
type fakeMailer struct {
	mu       sync.Mutex
	emails   []models.Email
	fail     map[string]error
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{fail: map[string]error{}}
}

func (m *fakeMailer) Send(ctx context.Context, email models.Email) error {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := m.fail[email.To]; err != nil {
		return err
	}
	m.mu.Lock()
	m.emails = append(m.emails, email)
	m.mu.Unlock()
	return nil
}

func (m *fakeMailer) sent() []models.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Email(nil), m.emails...)
}
