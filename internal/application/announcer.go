package application

import (
	"context"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/sirupsen/logrus"
)

// Announcer routes queue messages to chat channels.
type Announcer struct {
	store    ports.AccountStore
	notifier ports.Notifier
	logger   logrus.FieldLogger
}

func NewAnnouncer(store ports.AccountStore, notifier ports.Notifier, logger logrus.FieldLogger) *Announcer {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Announcer{store: store, notifier: notifier, logger: logger.WithField("component", "announcer")}
}

// Notify sends n to the configured log channel. Nothing is sent when
// notifications are muted, no log channel is set, or the log channel is
// skipChannel, which already got its own report.
func (a *Announcer) Notify(ctx context.Context, n domain.Notification, skipChannel string) {
	settings, err := a.store.GetSettings(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("read settings for notification")
		return
	}
	if settings.MuteNotifications || settings.LogChannelID == "" {
		return
	}
	if skipChannel != "" && settings.LogChannelID == skipChannel {
		return
	}

	n.ChannelID = settings.LogChannelID
	a.notifier.Notify(n)
}

// Report sends n to channelID regardless of mute. An empty channelID means the
// run was not started from a channel.
func (a *Announcer) Report(channelID string, n domain.Notification) {
	if channelID == "" {
		return
	}

	n.ChannelID = channelID
	a.notifier.Notify(n)
}

type discardNotifier struct{}

func (discardNotifier) Notify(domain.Notification) {}
