package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
)

const DefaultCredentialKey = "evertext/session"

var ErrCredentialEmpty = errors.New("credential value is empty")

// AccountService is the registration and admin surface over the account store.
type AccountService struct {
	store         ports.AccountStore
	secrets       ports.SecretStore
	credentialKey string
}

func NewAccountService(store ports.AccountStore, secrets ports.SecretStore, credentialKey string) *AccountService {
	if credentialKey == "" {
		credentialKey = DefaultCredentialKey
	}

	return &AccountService{
		store:         store,
		secrets:       secrets,
		credentialKey: credentialKey,
	}
}

// Add registers an account, replacing any account with the same name. The
// stored copy always starts pending with no last run.
func (s *AccountService) Add(ctx context.Context, account domain.Account) error {
	account = normalizeAccount(account)
	if err := account.Validate(); err != nil {
		return err
	}

	if err := s.store.Upsert(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

// Import validates every account before writing any of them.
func (s *AccountService) Import(ctx context.Context, accounts []domain.Account) (int, error) {
	normalized := make([]domain.Account, 0, len(accounts))
	for i, account := range accounts {
		account = normalizeAccount(account)
		if err := account.Validate(); err != nil {
			return 0, fmt.Errorf("account %d: %w", i+1, err)
		}
		normalized = append(normalized, account)
	}

	for i, account := range normalized {
		if err := s.store.Upsert(ctx, account); err != nil {
			return i, fmt.Errorf("save account %q: %w", account.Name, err)
		}
	}

	return len(normalized), nil
}

func (s *AccountService) Remove(ctx context.Context, name string) (bool, error) {
	removed, err := s.store.Delete(ctx, strings.TrimSpace(name))
	if err != nil {
		return false, fmt.Errorf("delete account: %w", err)
	}

	return removed, nil
}

func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, nil
}

func (s *AccountService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	accounts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		if account.OwnedBy(ownerID) {
			owned = append(owned, account)
		}
	}

	return owned, nil
}

// TogglePing returns the new ping state shared by all of the owner's accounts.
func (s *AccountService) TogglePing(ctx context.Context, ownerID string) (bool, error) {
	enabled, err := s.store.SetPingForOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNoOwnedAccounts) {
			return false, err
		}
		return false, fmt.Errorf("toggle ping: %w", err)
	}

	return enabled, nil
}

func (s *AccountService) Settings(ctx context.Context) (domain.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	return settings, nil
}

// SetCredential stores the automation credential and points the settings at
// it. A failed settings write removes the secret it just stored.
func (s *AccountService) SetCredential(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrCredentialEmpty
	}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}
	previousRef := settings.CredentialRef

	if err := s.secrets.Put(ctx, s.credentialKey, value); err != nil {
		return fmt.Errorf("store credential secret: %w", err)
	}

	err = s.store.UpdateSettings(ctx, func(settings *domain.Settings) {
		settings.CredentialRef = s.credentialKey
	})
	if err != nil {
		if rollbackErr := s.secrets.Delete(ctx, s.credentialKey); rollbackErr != nil {
			return fmt.Errorf("save credential ref and rollback stored secret: %w", errors.Join(err, rollbackErr))
		}

		return fmt.Errorf("save credential ref: %w", err)
	}

	if previousRef != "" && previousRef != s.credentialKey {
		if err := s.secrets.Delete(ctx, previousRef); err != nil {
			return fmt.Errorf("delete previous credential secret: %w", err)
		}
	}

	return nil
}

func (s *AccountService) SetLogChannel(ctx context.Context, channelID string) error {
	return s.updateSettings(ctx, "set log channel", func(settings *domain.Settings) {
		settings.LogChannelID = strings.TrimSpace(channelID)
	})
}

func (s *AccountService) SetAdminRole(ctx context.Context, roleID string) error {
	return s.updateSettings(ctx, "set admin role", func(settings *domain.Settings) {
		settings.AdminRoleID = strings.TrimSpace(roleID)
	})
}

func (s *AccountService) SetMute(ctx context.Context, mute bool) error {
	return s.updateSettings(ctx, "set mute", func(settings *domain.Settings) {
		settings.MuteNotifications = mute
	})
}

func (s *AccountService) ResetAll(ctx context.Context) error {
	if err := s.store.ResetAllStatuses(ctx); err != nil {
		return fmt.Errorf("reset statuses: %w", err)
	}

	return nil
}

func (s *AccountService) updateSettings(ctx context.Context, action string, mutate func(*domain.Settings)) error {
	if err := s.store.UpdateSettings(ctx, mutate); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	return nil
}

func normalizeAccount(account domain.Account) domain.Account {
	account.Name = strings.TrimSpace(account.Name)
	account.RestoreCode = strings.TrimSpace(account.RestoreCode)
	account.TargetServer = strings.TrimSpace(account.TargetServer)
	account.Status = domain.StatusPending
	account.LastRunAt = nil

	return account
}
