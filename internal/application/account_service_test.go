package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

func mockAnySettingsMutation() interface{} {
	return mock.AnythingOfType("func(*domain.Settings)")
}

func TestAccountServiceAddStartsPendingAndReplacesByName(t *testing.T) {
	store := newMemoryStore()
	service := NewAccountService(store, newMemorySecrets(nil), "")

	lastRun := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	require.NoError(t, service.Add(context.Background(), domain.Account{
		Name:        " acc1 ",
		RestoreCode: "old",
		OwnerID:     "1001",
		Status:      domain.StatusDone,
		LastRunAt:   &lastRun,
	}))
	require.NoError(t, service.Add(context.Background(), domain.Account{Name: "acc2", RestoreCode: "x"}))
	require.NoError(t, service.Add(context.Background(), domain.Account{Name: "acc1", RestoreCode: "new", TargetServer: " E-15 "}))

	accounts, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, domain.Account{Name: "acc1", RestoreCode: "new", TargetServer: "E-15", Status: domain.StatusPending}, accounts[0])
	assert.Equal(t, "acc2", accounts[1].Name)
}

func TestAccountServiceAddRejectsInvalidAccount(t *testing.T) {
	store := mocks.NewMockAccountStore(t)
	service := NewAccountService(store, mocks.NewMockSecretStore(t), "")

	err := service.Add(context.Background(), domain.Account{Name: "acc1", RestoreCode: "  "})
	require.ErrorIs(t, err, domain.ErrRestoreCodeRequired)
}

func TestAccountServiceImportValidatesBeforeWriting(t *testing.T) {
	store := newMemoryStore()
	service := NewAccountService(store, newMemorySecrets(nil), "")

	_, err := service.Import(context.Background(), []domain.Account{
		{Name: "acc1", RestoreCode: "x"},
		{Name: "", RestoreCode: "y"},
	})
	require.ErrorIs(t, err, domain.ErrAccountNameRequired)
	assert.ErrorContains(t, err, "account 2")

	accounts, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)

	count, err := service.Import(context.Background(), []domain.Account{
		{Name: "acc1", RestoreCode: "x"},
		{Name: "acc2", RestoreCode: "y", Status: "error: stale"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, domain.StatusPending, store.statusOf("acc2"))
}

func TestAccountServiceRemoveReportsFound(t *testing.T) {
	service := NewAccountService(newMemoryStore(domain.Account{Name: "acc1", RestoreCode: "x"}), newMemorySecrets(nil), "")

	removed, err := service.Remove(context.Background(), "acc1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = service.Remove(context.Background(), "acc1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAccountServiceListByOwner(t *testing.T) {
	service := NewAccountService(newMemoryStore(
		domain.Account{Name: "acc1", RestoreCode: "x", OwnerID: "1001"},
		domain.Account{Name: "acc2", RestoreCode: "x", OwnerID: "2002"},
		domain.Account{Name: "acc3", RestoreCode: "x", OwnerID: "1001"},
		domain.Account{Name: "acc4", RestoreCode: "x"},
	), newMemorySecrets(nil), "")

	owned, err := service.ListByOwner(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "acc1", owned[0].Name)
	assert.Equal(t, "acc3", owned[1].Name)

	owned, err = service.ListByOwner(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestAccountServiceTogglePing(t *testing.T) {
	store := newMemoryStore(
		domain.Account{Name: "acc1", RestoreCode: "x", OwnerID: "1001", PingEnabled: true},
		domain.Account{Name: "acc2", RestoreCode: "x", OwnerID: "1001"},
	)
	service := NewAccountService(store, newMemorySecrets(nil), "")

	enabled, err := service.TogglePing(context.Background(), "1001")
	require.NoError(t, err)
	assert.False(t, enabled)

	accounts, err := service.List(context.Background())
	require.NoError(t, err)
	assert.False(t, accounts[0].PingEnabled)
	assert.False(t, accounts[1].PingEnabled)

	_, err = service.TogglePing(context.Background(), "3003")
	require.ErrorIs(t, err, domain.ErrNoOwnedAccounts)
}

func TestAccountServiceSettingsMutations(t *testing.T) {
	store := newMemoryStore()
	service := NewAccountService(store, newMemorySecrets(nil), "")

	require.NoError(t, service.SetLogChannel(context.Background(), " 555 "))
	require.NoError(t, service.SetAdminRole(context.Background(), "777"))
	require.NoError(t, service.SetMute(context.Background(), true))

	settings, err := service.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "555", settings.LogChannelID)
	assert.Equal(t, "777", settings.AdminRoleID)
	assert.True(t, settings.MuteNotifications)

	require.NoError(t, service.SetMute(context.Background(), false))
	settings, err = service.Settings(context.Background())
	require.NoError(t, err)
	assert.False(t, settings.MuteNotifications)
}

func TestAccountServiceResetAll(t *testing.T) {
	store := newMemoryStore(
		domain.Account{Name: "acc1", RestoreCode: "x", Status: domain.StatusDone},
		domain.Account{Name: "acc2", RestoreCode: "x", Status: domain.ErrorStatus("boom")},
	)
	service := NewAccountService(store, newMemorySecrets(nil), "")

	require.NoError(t, service.ResetAll(context.Background()))
	assert.Equal(t, domain.StatusPending, store.statusOf("acc1"))
	assert.Equal(t, domain.StatusPending, store.statusOf("acc2"))
}

func TestAccountServiceSetCredentialSuccess(t *testing.T) {
	store := mocks.NewMockAccountStore(t)
	secrets := mocks.NewMockSecretStore(t)
	service := NewAccountService(store, secrets, "evertext/session")

	settings := domain.Settings{LogChannelID: "555"}
	store.EXPECT().GetSettings(mockAnyContext()).Return(settings, nil)
	secrets.EXPECT().Put(mockAnyContext(), "evertext/session", "cookie-value").Return(nil)
	store.EXPECT().UpdateSettings(mockAnyContext(), mockAnySettingsMutation()).
		RunAndReturn(func(_ context.Context, mutate func(*domain.Settings)) error {
			mutate(&settings)
			return nil
		})

	err := service.SetCredential(context.Background(), " cookie-value\n")
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{CredentialRef: "evertext/session", LogChannelID: "555"}, settings)
}

func TestAccountServiceSetCredentialDeletesPreviousRef(t *testing.T) {
	store := mocks.NewMockAccountStore(t)
	secrets := mocks.NewMockSecretStore(t)
	service := NewAccountService(store, secrets, "evertext/session")

	store.EXPECT().GetSettings(mockAnyContext()).Return(domain.Settings{CredentialRef: "legacy/cookies"}, nil)
	secrets.EXPECT().Put(mockAnyContext(), "evertext/session", "cookie-value").Return(nil)
	store.EXPECT().UpdateSettings(mockAnyContext(), mockAnySettingsMutation()).Return(nil)
	secrets.EXPECT().Delete(mockAnyContext(), "legacy/cookies").Return(nil)

	require.NoError(t, service.SetCredential(context.Background(), "cookie-value"))
}

func TestAccountServiceSetCredentialRollsBackSecretWhenSettingsWriteFails(t *testing.T) {
	store := mocks.NewMockAccountStore(t)
	secrets := mocks.NewMockSecretStore(t)
	service := NewAccountService(store, secrets, "evertext/session")

	saveErr := errors.New("disk full")
	store.EXPECT().GetSettings(mockAnyContext()).Return(domain.Settings{}, nil)
	secrets.EXPECT().Put(mockAnyContext(), "evertext/session", "cookie-value").Return(nil)
	store.EXPECT().UpdateSettings(mockAnyContext(), mockAnySettingsMutation()).Return(saveErr)
	secrets.EXPECT().Delete(mockAnyContext(), "evertext/session").Return(nil)

	err := service.SetCredential(context.Background(), "cookie-value")
	require.ErrorIs(t, err, saveErr)
	assert.ErrorContains(t, err, "save credential ref")
}

func TestAccountServiceSetCredentialJoinsRollbackFailure(t *testing.T) {
	store := mocks.NewMockAccountStore(t)
	secrets := mocks.NewMockSecretStore(t)
	service := NewAccountService(store, secrets, "evertext/session")

	saveErr := errors.New("disk full")
	rollbackErr := errors.New("pass locked")
	store.EXPECT().GetSettings(mockAnyContext()).Return(domain.Settings{}, nil)
	secrets.EXPECT().Put(mockAnyContext(), "evertext/session", "cookie-value").Return(nil)
	store.EXPECT().UpdateSettings(mockAnyContext(), mockAnySettingsMutation()).Return(saveErr)
	secrets.EXPECT().Delete(mockAnyContext(), "evertext/session").Return(rollbackErr)

	err := service.SetCredential(context.Background(), "cookie-value")
	require.ErrorIs(t, err, saveErr)
	require.ErrorIs(t, err, rollbackErr)
}

func TestAccountServiceSetCredentialRejectsEmptyValue(t *testing.T) {
	service := NewAccountService(mocks.NewMockAccountStore(t), mocks.NewMockSecretStore(t), "")

	err := service.SetCredential(context.Background(), " \n")
	require.ErrorIs(t, err, ErrCredentialEmpty)
}

func TestAccountServiceSetCredentialPutFailureLeavesSettings(t *testing.T) {
	store := mocks.NewMockAccountStore(t)
	secrets := mocks.NewMockSecretStore(t)
	service := NewAccountService(store, secrets, "")

	putErr := errors.New("permission denied")
	store.EXPECT().GetSettings(mockAnyContext()).Return(domain.Settings{}, nil)
	secrets.EXPECT().Put(mockAnyContext(), DefaultCredentialKey, "cookie-value").Return(putErr)

	err := service.SetCredential(context.Background(), "cookie-value")
	require.ErrorIs(t, err, putErr)
}
