package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mbertho/judoclub/internal/model"
)

type stubStore struct {
	mu     sync.Mutex
	queued []model.EmailMessage
	sent   []int64
	failed map[int64]string
}

func (s *stubStore) GetQueuedEmails(ctx context.Context, limit int) ([]model.EmailMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit < len(s.queued) {
		return s.queued[:limit], nil
	}
	return s.queued, nil
}

func (s *stubStore) MarkEmailSent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, id)
	return nil
}

func (s *stubStore) MarkEmailFailed(ctx context.Context, id int64, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed == nil {
		s.failed = make(map[int64]string)
	}
	s.failed[id] = errMsg
	return nil
}

func (s *stubStore) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type stubSender struct {
	failFor map[string]error
	sent    []string
}

func (s *stubSender) Send(ctx context.Context, recipient, subject, body string) error {
	if err, ok := s.failFor[recipient]; ok {
		return err
	}
	s.sent = append(s.sent, recipient)
	return nil
}

func TestDrainOutbox(t *testing.T) {
	store := &stubStore{
		queued: []model.EmailMessage{
			{ID: 1, Recipient: "parent@example.com", Subject: "Inscription validée"},
			{ID: 2, Recipient: "bounce@example.com", Subject: "Inscription validée"},
			{ID: 3, Recipient: "other@example.com", Subject: "Paiement reçu"},
		},
	}
	sender := &stubSender{
		failFor: map[string]error{"bounce@example.com": errors.New("mailbox unavailable")},
	}

	w := NewWorker(store, sender, time.Minute, zap.NewNop())
	w.drainOutbox(context.Background())

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sender.sent))
	}
	if len(store.sent) != 2 || store.sent[0] != 1 || store.sent[1] != 3 {
		t.Fatalf("marked sent = %v, want [1 3]", store.sent)
	}
	if msg, ok := store.failed[2]; !ok || msg != "mailbox unavailable" {
		t.Fatalf("failed map = %v, want id 2 with error message", store.failed)
	}
}

func TestStart_WithoutSenderDoesNothing(t *testing.T) {
	store := &stubStore{queued: []model.EmailMessage{{ID: 1, Recipient: "x@example.com"}}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWorker(store, nil, time.Millisecond, zap.NewNop())
	w.Start(ctx)

	time.Sleep(20 * time.Millisecond)

	if store.sentCount() != 0 {
		t.Fatalf("outbox touched without a configured sender")
	}
}

func TestStart_DrainsPeriodically(t *testing.T) {
	store := &stubStore{
		queued: []model.EmailMessage{{ID: 7, Recipient: "parent@example.com"}},
	}
	sender := &stubSender{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWorker(store, sender, 5*time.Millisecond, zap.NewNop())
	w.Start(ctx)

	deadline := time.After(time.Second)
	for store.sentCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("worker never drained the outbox")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
