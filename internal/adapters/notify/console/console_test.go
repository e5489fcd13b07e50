package console

import (
	"bytes"
	"context"
	"testing"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleWritesOneLinePerNotification(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	c.Notify(domain.Notification{ChannelID: ChannelID, Text: "[INFO] Starting automation sequence..."})
	require.NoError(t, c.Send(context.Background(), domain.Notification{
		ChannelID:     "555",
		Text:          "[CRITICAL] Session cookies expired!",
		Priority:      domain.PriorityHigh,
		MentionUserID: "1001",
	}))

	assert.Equal(t, "[INFO] Starting automation sequence...\n@1001 [CRITICAL] Session cookies expired!\n", out.String())
}

func TestConsoleSendHonorsCanceledContext(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, c.Send(ctx, domain.Notification{Text: "x"}), context.Canceled)
	assert.Empty(t, out.String())
}
