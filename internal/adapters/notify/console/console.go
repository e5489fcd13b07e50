// Package console prints notifications to a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/charmbracelet/lipgloss"
)

// ChannelID addresses the local terminal when the queue is driven from the CLI.
const ChannelID = "console"

type Console struct {
	mu     sync.Mutex
	out    io.Writer
	normal lipgloss.Style
	high   lipgloss.Style
}

var (
	_ ports.Notifier      = (*Console)(nil)
	_ ports.MessageSender = (*Console)(nil)
)

func New(out io.Writer) *Console {
	return &Console{
		out:    out,
		normal: lipgloss.NewStyle(),
		high:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func (c *Console) Notify(notification domain.Notification) {
	_ = c.write(notification)
}

func (c *Console) Send(ctx context.Context, notification domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.write(notification)
}

func (c *Console) write(notification domain.Notification) error {
	style := c.normal
	if notification.Priority == domain.PriorityHigh {
		style = c.high
	}

	text := notification.Text
	if notification.MentionUserID != "" {
		text = "@" + notification.MentionUserID + " " + text
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, style.Render(text))
	return err
}
