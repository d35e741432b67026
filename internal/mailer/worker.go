package mailer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mbertho/judoclub/internal/model"
)

const drainBatchSize = 50

// OutboxStore is the slice of the repository the worker needs.
type OutboxStore interface {
	GetQueuedEmails(ctx context.Context, limit int) ([]model.EmailMessage, error)
	MarkEmailSent(ctx context.Context, id int64) error
	MarkEmailFailed(ctx context.Context, id int64, errMsg string) error
}

// Worker drains the email outbox on a fixed interval.
type Worker struct {
	store    OutboxStore
	sender   Sender
	interval time.Duration
	logger   *zap.Logger
}

// NewWorker creates an outbox worker. A nil sender disables delivery,
// which keeps local development working without an SMTP relay.
func NewWorker(store OutboxStore, sender Sender, interval time.Duration, logger *zap.Logger) *Worker {
	return &Worker{
		store:    store,
		sender:   sender,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the drain loop in a goroutine. It stops when ctx is
// cancelled.
func (w *Worker) Start(ctx context.Context) {
	if w.sender == nil {
		w.logger.Info("mail sender not configured, outbox delivery disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.drainOutbox(ctx)
			}
		}
	}()
}

func (w *Worker) drainOutbox(ctx context.Context) {
	messages, err := w.store.GetQueuedEmails(ctx, drainBatchSize)
	if err != nil {
		w.logger.Error("read email outbox", zap.Error(err))
		return
	}

	for _, m := range messages {
		if err := w.sender.Send(ctx, m.Recipient, m.Subject, m.Body); err != nil {
			w.logger.Error("send email", zap.Int64("id", m.ID), zap.Error(err))
			if err := w.store.MarkEmailFailed(ctx, m.ID, err.Error()); err != nil {
				w.logger.Error("mark email failed", zap.Int64("id", m.ID), zap.Error(err))
			}
			continue
		}

		if err := w.store.MarkEmailSent(ctx, m.ID); err != nil {
			w.logger.Error("mark email sent", zap.Int64("id", m.ID), zap.Error(err))
		}
	}
}
