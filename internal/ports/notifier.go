package ports

import (
	"context"

	"github.com/bnema/evertext-autopilot/internal/domain"
)

// Notifier accepts notifications without waiting for delivery.
type Notifier interface {
	Notify(notification domain.Notification)
}

// MessageSender delivers a rendered message to one chat channel.
type MessageSender interface {
	Send(ctx context.Context, notification domain.Notification) error
}
