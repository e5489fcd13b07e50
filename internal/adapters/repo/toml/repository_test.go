package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
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

func newTestStore(t *testing.T) *Store {
	t.Helper()

	config := viper.New()
	config.Set(StorePathKey, filepath.Join(t.TempDir(), "accounts.toml"))

	store, err := NewStore(config, fixedClock{now: time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	first := domain.Account{
		Name:         "acc1",
		RestoreCode:  "code-1",
		TargetServer: "E-15",
		OwnerID:      "1001",
		OwnerName:    "alice",
		Status:       domain.StatusPending,
	}
	second := domain.Account{
		Name:        "acc2",
		RestoreCode: "code-2",
		PingEnabled: true,
		Status:      domain.StatusPending,
	}

	require.NoError(t, store.Upsert(context.Background(), first))
	require.NoError(t, store.Upsert(context.Background(), second))

	got, err := store.Get(context.Background(), "acc1")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	accounts, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Account{first, second}, accounts)
}

func TestStoreUpsertReplacesInPlace(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc1", RestoreCode: "old"}))
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc2", RestoreCode: "x"}))
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc1", RestoreCode: "new"}))

	accounts, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "acc1", accounts[0].Name)
	assert.Equal(t, "new", accounts[0].RestoreCode)
	assert.Equal(t, domain.StatusPending, accounts[0].Status)
}

func TestStoreUpdateStatusDoneStampsLastRun(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc1", RestoreCode: "x"}))

	require.NoError(t, store.UpdateStatus(context.Background(), "acc1", domain.StatusDone))

	accounts, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, domain.StatusDone, accounts[0].Status)
	require.NotNil(t, accounts[0].LastRunAt)
	assert.True(t, accounts[0].LastRunAt.Equal(time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC)))
}

func TestStoreUpdateStatusPendingDoesNotStampLastRun(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc1", RestoreCode: "x"}))

	require.NoError(t, store.UpdateStatus(context.Background(), "acc1", domain.StatusPending))

	account, err := store.Get(context.Background(), "acc1")
	require.NoError(t, err)
	assert.Nil(t, account.LastRunAt)
}

func TestStoreUpdateStatusUnknownAccountIsNoop(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.UpdateStatus(context.Background(), "ghost", domain.StatusDone))

	_, err := os.Stat(store.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc1", RestoreCode: "x"}))

	removed, err := store.Delete(context.Background(), "acc1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(context.Background(), "acc1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = store.Get(context.Background(), "acc1")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestStoreResetAllStatuses(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc1", RestoreCode: "x", Status: domain.StatusDone}))
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc2", RestoreCode: "y", Status: domain.ErrorStatus("Zigza Retrying")}))

	require.NoError(t, store.ResetAllStatuses(context.Background()))

	accounts, err := store.List(context.Background())
	require.NoError(t, err)
	for _, account := range accounts {
		assert.Equal(t, domain.StatusPending, account.Status, account.Name)
	}
}

func TestStoreSetPingForOwnerFlipsFirstAndCopies(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc1", RestoreCode: "x", OwnerID: "1001"}))
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc2", RestoreCode: "y", OwnerID: "1001", PingEnabled: true}))
	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc3", RestoreCode: "z", OwnerID: "2002"}))

	enabled, err := store.SetPingForOwner(context.Background(), "1001")
	require.NoError(t, err)
	assert.True(t, enabled)

	accounts, err := store.List(context.Background())
	require.NoError(t, err)
	assert.True(t, accounts[0].PingEnabled)
	assert.True(t, accounts[1].PingEnabled)
	assert.False(t, accounts[2].PingEnabled)

	_, err = store.SetPingForOwner(context.Background(), "3003")
	require.ErrorIs(t, err, domain.ErrNoOwnedAccounts)
}

func TestStoreSettingsRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	settings, err := store.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{}, settings)

	require.NoError(t, store.UpdateSettings(context.Background(), func(s *domain.Settings) {
		s.LogChannelID = "555"
		s.MuteNotifications = true
		s.CredentialRef = "evertext/session"
	}))

	settings, err = store.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{
		CredentialRef:     "evertext/session",
		LogChannelID:      "555",
		MuteNotifications: true,
	}, settings)
}

func TestStoreSaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	store, err := NewStore(viper.New(), nil)
	require.NoError(t, err)

	require.NoError(t, store.Upsert(context.Background(), domain.Account{Name: "acc1", RestoreCode: "x"}))

	info, err := os.Stat(filepath.Join(homeDir, ".evertext", "accounts.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStoreReadsHandWrittenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[settings]",
		"log_channel_id = \"42\"",
		"",
		"[[accounts]]",
		"name = \"acc1\"",
		"restore_code = \"abc\"",
		"target_server = \"all\"",
		"",
	}, "\n")), 0o600))

	store, err := NewStoreAtPath(path, nil)
	require.NoError(t, err)

	account, err := store.Get(context.Background(), "acc1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, account.Status)
	assert.Equal(t, "all", account.TargetServer)

	settings, err := store.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", settings.LogChannelID)
}

func TestStoreMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.toml")
	require.NoError(t, os.WriteFile(path, []byte("accounts = ["), 0o600))

	store, err := NewStoreAtPath(path, nil)
	require.NoError(t, err)

	_, err = store.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode store file")
}

func TestStoreFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 999\n"), 0o600))

	store, err := NewStoreAtPath(path, nil)
	require.NoError(t, err)

	_, err = store.GetSettings(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported store schema version")
}

func TestStoreCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Upsert(ctx, domain.Account{Name: "acc1", RestoreCode: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStoreConcurrentWritesAcrossInstancesPreserveAllAccounts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.toml")
	newStore := func() *Store {
		store, err := NewStoreAtPath(path, nil)
		require.NoError(t, err)
		return store
	}

	storeA := newStore()
	storeB := newStore()

	const perStoreWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perStoreWrites*4)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < perStoreWrites; i++ {
			name := "a-" + strconv.Itoa(i)
			errCh <- storeA.Upsert(context.Background(), domain.Account{Name: name, RestoreCode: "x"})
			errCh <- storeA.UpdateStatus(context.Background(), name, domain.StatusDone)
		}
	}()

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < perStoreWrites; i++ {
			name := "b-" + strconv.Itoa(i)
			errCh <- storeB.Upsert(context.Background(), domain.Account{Name: name, RestoreCode: "y"})
			errCh <- storeB.UpdateStatus(context.Background(), name, domain.ErrorStatus("boom"))
		}
	}()

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	accounts, err := storeA.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, perStoreWrites*2)
	for _, account := range accounts {
		assert.True(t, domain.IsTerminalStatus(account.Status), account.Name)
	}
}
