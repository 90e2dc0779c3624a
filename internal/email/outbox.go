package email

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/metrics"
)

const defaultDeliveryTimeout = 15 * time.Second

// Outbox delivers mail in the background so request latency never depends on
// the mail provider. Wait blocks until every queued delivery has finished.
type Outbox struct {
	sender  Sender
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewOutbox(sender Sender, logger *slog.Logger) *Outbox {
	return &Outbox{
		sender:  sender,
		logger:  logger.With("component", "outbox"),
		timeout: defaultDeliveryTimeout,
	}
}

// Deliver sends in a new goroutine. The request context only contributes its
// values (request id for logs); cancellation is detached. onFail, if set, runs
// after a failed delivery.
func (o *Outbox) Deliver(ctx context.Context, kind, to, subject, body string, onFail func(error)) {
	ctx = context.WithoutCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		sendCtx, cancel := context.WithTimeout(ctx, o.timeout)
		defer cancel()

		if err := o.sender.Send(sendCtx, to, subject, body); err != nil {
			metrics.EmailDeliveriesTotal.WithLabelValues(kind, "failed").Inc()
			o.logger.ErrorContext(ctx, "email delivery failed", "kind", kind, "to", to, "error", err)
			if onFail != nil {
				onFail(err)
			}
			return
		}
		metrics.EmailDeliveriesTotal.WithLabelValues(kind, "sent").Inc()
		o.logger.DebugContext(ctx, "email delivered", "kind", kind, "to", to)
	}()
}

func (o *Outbox) Wait() {
	o.wg.Wait()
}
