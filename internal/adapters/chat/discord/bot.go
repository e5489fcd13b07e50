// Package discord connects the automation to a Discord guild: slash commands
// in, progress messages out.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

var ErrMissingToken = errors.New("discord token is not configured")

type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Sender delivers notifications as channel messages.
type Sender struct {
	api channelSender
}

var _ ports.MessageSender = (*Sender)(nil)

func NewSender(api channelSender) *Sender {
	return &Sender{api: api}
}

func (s *Sender) Send(ctx context.Context, notification domain.Notification) error {
	if notification.ChannelID == "" {
		return nil
	}

	if _, err := s.api.ChannelMessageSend(notification.ChannelID, messageContent(notification), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}

	return nil
}

func messageContent(notification domain.Notification) string {
	if notification.MentionUserID == "" {
		return clip(notification.Text)
	}

	return clip(fmt.Sprintf("<@%s> %s", notification.MentionUserID, notification.Text))
}

// Bot owns the gateway connection.
type Bot struct {
	session *discordgo.Session
	router  *Router
	sender  *Sender
	logger  logrus.FieldLogger

	mu  sync.Mutex
	ctx context.Context
}

// NewBot prepares the gateway session. Interactions are served once Run is
// given a router.
func NewBot(token string, logger logrus.FieldLogger) (*Bot, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		session: session,
		sender:  NewSender(session),
		logger:  logger.WithField("component", "discord"),
		ctx:     context.Background(),
	}
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onInteraction)

	return bot, nil
}

// Sender returns the message sender bound to this bot's session.
func (b *Bot) Sender() *Sender {
	return b.sender
}

// Run connects to the gateway and serves interactions through router until
// ctx is done.
func (b *Bot) Run(ctx context.Context, router *Router) error {
	b.mu.Lock()
	b.ctx = ctx
	b.router = router
	b.mu.Unlock()
	router.Bind(ctx)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	b.logger.Info("discord gateway connected")

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		b.logger.WithError(err).Warn("close discord gateway")
	}
	router.Wait()

	return nil
}

func (b *Bot) onReady(s *discordgo.Session, ready *discordgo.Ready) {
	b.logger.WithField("user", ready.User.Username).Info("discord bot logged in")

	appID := ready.User.ID
	if ready.Application != nil && ready.Application.ID != "" {
		appID = ready.Application.ID
	}

	if _, err := s.ApplicationCommandBulkOverwrite(appID, "", Commands); err != nil {
		b.logger.WithError(err).Error("register slash commands")
		return
	}
	b.logger.WithField("count", len(Commands)).Info("slash commands registered")
}

func (b *Bot) onInteraction(s *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}

	b.mu.Lock()
	ctx, router := b.ctx, b.router
	b.mu.Unlock()
	if router == nil {
		return
	}

	req := requestFromInteraction(interaction, b.guildOwner(s, interaction.GuildID))
	reply := router.Handle(ctx, req)

	err := s.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: reply},
	})
	if err != nil {
		b.logger.WithError(err).WithField("command", req.Command).Warn("respond to interaction")
	}
}

func (b *Bot) guildOwner(s *discordgo.Session, guildID string) string {
	if guildID == "" {
		return ""
	}

	if guild, err := s.State.Guild(guildID); err == nil && guild.OwnerID != "" {
		return guild.OwnerID
	}

	guild, err := s.Guild(guildID)
	if err != nil {
		b.logger.WithError(err).WithField("guild", guildID).Warn("resolve guild owner")
		return ""
	}

	return guild.OwnerID
}

func requestFromInteraction(interaction *discordgo.InteractionCreate, guildOwner string) Request {
	data := interaction.ApplicationCommandData()

	req := Request{
		Command:    data.Name,
		ChannelID:  interaction.ChannelID,
		GuildOwner: guildOwner,
		Options:    make(map[string]any, len(data.Options)),
	}

	switch {
	case interaction.Member != nil && interaction.Member.User != nil:
		req.UserID = interaction.Member.User.ID
		req.UserName = interaction.Member.User.Username
		req.MemberRoles = interaction.Member.Roles
	case interaction.User != nil:
		req.UserID = interaction.User.ID
		req.UserName = interaction.User.Username
	}

	for _, option := range data.Options {
		req.Options[option.Name] = option.Value
	}

	return req
}
