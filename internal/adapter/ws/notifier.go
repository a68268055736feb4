package ws

import (
	"context"
	"errors"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
	"github.com/gocab/gocab/pkg/wshub"
)

// Notifier pushes lifecycle events to live connections. Delivery is
// at-most-once: a missing or stale handle is a logged no-op, a failed
// write is not retried, and the caller is never blocked or failed.
type Notifier struct {
	hub    *wshub.Hub
	logger logger.Logger
}

func NewNotifier(hub *wshub.Hub, logger logger.Logger) *Notifier {
	return &Notifier{
		hub:    hub,
		logger: logger,
	}
}

func (n *Notifier) Push(handle, event string, payload any) {
	ctx := wrap.WithAction(context.Background(), "ws.Push")

	if handle == "" {
		n.logger.Debug(ctx, "push skipped, party offline", "event", event)
		return
	}

	go func() {
		err := n.hub.SendTo(handle, models.SocketMessage{Event: event, Data: payload})
		switch {
		case errors.Is(err, wshub.ErrConnNotFound):
			n.logger.Debug(ctx, "push skipped, stale handle", "event", event, "handle", handle)
		case err != nil:
			n.logger.Warn(ctx, "push failed", "event", event, "handle", handle, "err", err.Error())
		}
	}()
}
