package service

import (
	"context"
	"time"

	"github.com/restockr/auth-service/internal/model"
	ctxutil "github.com/restockr/auth-service/pkg/context"
	"github.com/restockr/auth-service/pkg/logger"
	"github.com/restockr/auth-service/pkg/pool"
)

// Notifier delivers account lifecycle emails.
type Notifier interface {
	SendActivationEmail(ctx context.Context, user *model.User, token string) error
	SendWelcomeEmail(ctx context.Context, user *model.User) error
}

// notifyAsync delivers an email without blocking the request. The send runs
// on a detached context so it survives the request; delivery failures are
// logged, never surfaced to the caller. With a worker pool the send is
// queued with bounded concurrency, without one it runs on its own goroutine.
func notifyAsync(ctx context.Context, tasks *pool.WorkerPool, notifier Notifier, kind string, send func(ctx context.Context) error) {
	if notifier == nil {
		return
	}

	requestID := ctxutil.GetRequestID(ctx)
	run := func(sendCtx context.Context) error {
		if requestID != "" {
			sendCtx = ctxutil.WithRequestID(sendCtx, requestID)
		}

		err := send(sendCtx)
		if err != nil {
			logger.ErrorWithContext(sendCtx, "Failed to send "+kind).
				Err(err).
				Log()
		}
		return err
	}

	if tasks != nil {
		tasks.Submit(pool.Task{Name: kind, Run: run})
		return
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = run(sendCtx)
	}()
}
