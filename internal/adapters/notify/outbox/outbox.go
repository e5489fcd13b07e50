// Package outbox decouples notification producers from chat delivery.
package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCapacity    = 256
	DefaultSendTimeout = 15 * time.Second
)

// Outbox buffers notifications and delivers them in order from one goroutine.
// Notify never blocks: when the buffer is full the notification is dropped
// and logged.
type Outbox struct {
	sender      ports.MessageSender
	logger      logrus.FieldLogger
	queue       chan domain.Notification
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

var _ ports.Notifier = (*Outbox)(nil)

func New(sender ports.MessageSender, capacity int, logger logrus.FieldLogger) *Outbox {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Outbox{
		sender:      sender,
		logger:      logger.WithField("component", "outbox"),
		queue:       make(chan domain.Notification, capacity),
		sendTimeout: DefaultSendTimeout,
	}
}

func (o *Outbox) Notify(notification domain.Notification) {
	if notification.ChannelID == "" {
		return
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return
	}

	select {
	case o.queue <- notification:
	default:
		o.logger.WithField("channel", notification.ChannelID).Warn("outbox full, dropping notification")
	}
}

// Run delivers queued notifications until ctx is done, then flushes what is
// already buffered before returning.
func (o *Outbox) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			o.close()
			o.flush()
			return nil
		case notification := <-o.queue:
			o.deliver(context.WithoutCancel(ctx), notification)
		}
	}
}

func (o *Outbox) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
}

func (o *Outbox) flush() {
	for {
		select {
		case notification := <-o.queue:
			o.deliver(context.Background(), notification)
		default:
			return
		}
	}
}

func (o *Outbox) deliver(ctx context.Context, notification domain.Notification) {
	ctx, cancel := context.WithTimeout(ctx, o.sendTimeout)
	defer cancel()

	if err := o.sender.Send(ctx, notification); err != nil {
		o.logger.WithFields(logrus.Fields{
			"channel": notification.ChannelID,
			"error":   err,
		}).Warn("deliver notification")
	}
}
