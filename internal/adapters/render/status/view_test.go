package status

import (
	"testing"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAccountTable(t *testing.T) {
	now := time.Date(2026, 10, 18, 11, 0, 0, 0, time.UTC)
	lastRun := now.Add(-3 * time.Hour)

	output, err := Render([]domain.Account{
		{
			Name:         "acc1",
			OwnerName:    "alice",
			TargetServer: "E-15",
			PingEnabled:  true,
			Status:       domain.StatusDone,
			LastRunAt:    &lastRun,
		},
		{
			Name:   "acc2",
			Status: domain.StatusPending,
		},
		{
			Name:   "acc3",
			Status: domain.ErrorStatus("Zigza Retrying"),
		},
		{
			Name:   "acc4",
			Status: domain.StatusDone,
		},
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 4  done: 2  pending: 1  retrying: 1")
	assert.Contains(t, output, "acc1 (alice)")
	assert.Contains(t, output, "[done]")
	assert.Contains(t, output, "[error: Zigza Retrying]")
	assert.Contains(t, output, "server: E-15  ping: on")
	assert.Contains(t, output, "server: first listed  ping: off")
	assert.Contains(t, output, "last run: 2026-10-18 08:00 (3 hours ago)")
	assert.Contains(t, output, "last run: never")
	assert.Contains(t, output, "50% done")
}

func TestRenderEmptyAccountTable(t *testing.T) {
	output, err := Render(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 0")
	assert.Contains(t, output, "No accounts registered.")
	assert.NotContains(t, output, "done]")
}

func TestRenderUsesLocationForTimestamps(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	lastRun := time.Date(2026, 10, 17, 17, 30, 0, 0, time.UTC)
	output, err := Render([]domain.Account{{Name: "acc1", Status: domain.StatusDone, LastRunAt: &lastRun}}, RenderOptions{Location: jakarta})

	require.NoError(t, err)
	assert.Contains(t, output, "last run: 2026-10-18 00:30")
	assert.NotContains(t, output, "ago")
}

func TestRenderHistory(t *testing.T) {
	started := time.Date(2026, 10, 18, 0, 1, 0, 0, time.UTC)

	output, err := RenderHistory([]domain.RunRecord{
		{
			ID:         "r2",
			Account:    "acc2",
			Outcome:    domain.OutcomeOther,
			Message:    "bad frame",
			StartedAt:  started.Add(10 * time.Minute),
			FinishedAt: started.Add(10*time.Minute + 3*time.Second),
		},
		{
			ID:         "r1",
			Account:    "acc1",
			Outcome:    domain.OutcomeSessionComplete,
			StartedAt:  started,
			FinishedAt: started.Add(5*time.Minute + 30*time.Second),
		},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "runs: 2")
	assert.Contains(t, output, "2026-10-18 00:11 acc2 OTHER (3s) bad frame")
	assert.Contains(t, output, "2026-10-18 00:01 acc1 SESSION_COMPLETE (5m30s)")
}

func TestRenderEmptyHistory(t *testing.T) {
	output, err := RenderHistory(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "No runs recorded.")
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{elapsed: 10 * time.Second, want: "just now"},
		{elapsed: time.Minute, want: "1 minute"},
		{elapsed: 42 * time.Minute, want: "42 minutes"},
		{elapsed: 5 * time.Hour, want: "5 hours"},
		{elapsed: 49 * time.Hour, want: "2 days"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAge(tt.elapsed), tt.elapsed.String())
	}
}
