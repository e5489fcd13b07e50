package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

func (f fixedClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"), fixedClock{now: time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRecordAndRecentNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	base := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(context.Background(), domain.RunRecord{
		Account:    "acc1",
		Outcome:    domain.OutcomeSessionComplete,
		StartedAt:  base,
		FinishedAt: base.Add(5 * time.Minute),
	}))
	require.NoError(t, store.Record(context.Background(), domain.RunRecord{
		ID:         "fixed-id",
		Account:    "acc2",
		Outcome:    domain.OutcomeOther,
		Message:    "bad frame",
		StartedAt:  base.Add(10 * time.Minute),
		FinishedAt: base.Add(11 * time.Minute),
	}))

	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.RunRecord{
		ID:         "fixed-id",
		Account:    "acc2",
		Outcome:    domain.OutcomeOther,
		Message:    "bad frame",
		StartedAt:  base.Add(10 * time.Minute),
		FinishedAt: base.Add(11 * time.Minute),
	}, records[0])
	assert.Equal(t, "acc1", records[1].Account)
	assert.NotEmpty(t, records[1].ID)
	assert.Equal(t, 5*time.Minute, records[1].Duration())
}

func TestStoreRecentHonorsLimit(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	base := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(context.Background(), domain.RunRecord{
			Account:    "acc1",
			Outcome:    domain.OutcomeZigzaDetected,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, base.Add(4*time.Minute), records[0].StartedAt)
	assert.Equal(t, base.Add(3*time.Minute), records[1].StartedAt)

	records, err = store.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestStoreRecentAcceptsHugeLimit(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	base := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(context.Background(), domain.RunRecord{
			Account:    "acc1",
			Outcome:    domain.OutcomeSessionComplete,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	var records []domain.RunRecord
	require.NotPanics(t, func() {
		var err error
		records, err = store.Recent(context.Background(), 1<<62)
		require.NoError(t, err)
	})
	assert.Len(t, records, 3)
}

func TestStoreRecordDefaultsTimesFromClock(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	require.NoError(t, store.Record(context.Background(), domain.RunRecord{Account: "acc1", Outcome: domain.OutcomeServerFull}))

	records, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC), records[0].FinishedAt)
	assert.Equal(t, records[0].FinishedAt, records[0].StartedAt)
}

func TestStoreReopenKeepsRecordsAndSkipsAppliedMigrations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "history.db")

	first, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Record(context.Background(), domain.RunRecord{Account: "acc1", Outcome: domain.OutcomeLoginRequired}))
	require.NoError(t, first.Close())

	second, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	version, err := second.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)

	records, err := second.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeLoginRequired, records[0].Outcome)
}

func TestNewStoreUsesConfiguredPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "runs.db")
	config := viper.New()
	config.Set(PathKey, path)

	store, err := NewStore(context.Background(), config, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.Equal(t, path, store.Path())
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestOpenInMemory(t *testing.T) {
	t.Parallel()

	store, err := Open(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Record(context.Background(), domain.RunRecord{Account: "acc1", Outcome: domain.OutcomeSessionComplete}))
	records, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
