package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	StorePathKey    = "store.path"
	storeFileMode   = 0o600
	storeDirMode    = 0o700
	storeConfigDir  = ".evertext"
	storeFileName   = "accounts.toml"
	tempFilePattern = ".accounts-*.toml.tmp"
)

// Store keeps accounts and settings in one TOML file. Every mutation is a
// read-modify-write of the whole file under the path lock, replaced
// atomically before the lock is released.
type Store struct {
	path  string
	mu    *sync.RWMutex
	clock ports.Clock
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.AccountStore = (*Store)(nil)

func NewStore(cfg *viper.Viper, clock ports.Clock) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(StorePathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, storeConfigDir, storeFileName)
	}

	return NewStoreAtPath(path, clock)
}

func NewStoreAtPath(path string, clock ports.Clock) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	normalized, err := normalizeStorePath(path)
	if err != nil {
		return nil, err
	}

	return &Store{path: normalized, mu: lockForPath(normalized), clock: clock}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(file.Accounts))
	for _, entry := range file.Accounts {
		accounts = append(accounts, fromSchema(entry))
	}

	return accounts, nil
}

func (s *Store) Get(ctx context.Context, name string) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return domain.Account{}, err
	}

	for _, entry := range file.Accounts {
		if entry.Name == name {
			return fromSchema(entry), nil
		}
	}

	return domain.Account{}, domain.ErrAccountNotFound
}

// Upsert replaces an account with the same name in place, or appends it.
func (s *Store) Upsert(ctx context.Context, account domain.Account) error {
	return s.mutate(ctx, func(file *fileSchema) (bool, error) {
		encoded := toSchema(account)
		for i := range file.Accounts {
			if file.Accounts[i].Name == encoded.Name {
				file.Accounts[i] = encoded
				return true, nil
			}
		}

		file.Accounts = append(file.Accounts, encoded)
		return true, nil
	})
}

func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	found := false
	err := s.mutate(ctx, func(file *fileSchema) (bool, error) {
		kept := file.Accounts[:0]
		for _, entry := range file.Accounts {
			if entry.Name == name {
				found = true
				continue
			}
			kept = append(kept, entry)
		}
		file.Accounts = kept

		return found, nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

// UpdateStatus is a no-op for unknown names.
func (s *Store) UpdateStatus(ctx context.Context, name string, status string) error {
	return s.mutate(ctx, func(file *fileSchema) (bool, error) {
		for i := range file.Accounts {
			if file.Accounts[i].Name != name {
				continue
			}
			file.Accounts[i].Status = status
			if domain.IsTerminalStatus(status) {
				file.Accounts[i].LastRunAt = formatTime(s.clock.Now())
			}
			return true, nil
		}

		return false, nil
	})
}

func (s *Store) ResetAllStatuses(ctx context.Context) error {
	return s.mutate(ctx, func(file *fileSchema) (bool, error) {
		for i := range file.Accounts {
			file.Accounts[i].Status = domain.StatusPending
		}

		return true, nil
	})
}

// SetPingForOwner flips the ping flag of the owner's first account and copies
// the new value to the rest of their accounts.
func (s *Store) SetPingForOwner(ctx context.Context, ownerID string) (bool, error) {
	enabled := false
	err := s.mutate(ctx, func(file *fileSchema) (bool, error) {
		first := true
		for i := range file.Accounts {
			if ownerID == "" || file.Accounts[i].OwnerID != ownerID {
				continue
			}
			if first {
				enabled = !file.Accounts[i].PingEnabled
				first = false
			}
			file.Accounts[i].PingEnabled = enabled
		}
		if first {
			return false, domain.ErrNoOwnedAccounts
		}

		return true, nil
	})
	if err != nil {
		return false, err
	}

	return enabled, nil
}

func (s *Store) GetSettings(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return domain.Settings{}, err
	}

	return fromSettingsSchema(file.Settings), nil
}

func (s *Store) UpdateSettings(ctx context.Context, mutate func(*domain.Settings)) error {
	return s.mutate(ctx, func(file *fileSchema) (bool, error) {
		settings := fromSettingsSchema(file.Settings)
		mutate(&settings)
		file.Settings = toSettingsSchema(settings)

		return true, nil
	})
}

// mutate runs fn against the current file under the write lock and persists
// the result when fn reports a change.
func (s *Store) mutate(ctx context.Context, fn func(file *fileSchema) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}

	changed, err := fn(&file)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	return s.writeSchema(file)
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read store file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode store file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.path), storeDirMode); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp store file: %w", err)
	}

	if err := tempFile.Chmod(storeFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp store file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp store file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}

	cleanup = false
	return nil
}

func normalizeStorePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve store path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(account domain.Account) accountSchema {
	encoded := accountSchema{
		Name:         account.Name,
		RestoreCode:  account.RestoreCode,
		TargetServer: account.TargetServer,
		OwnerID:      account.OwnerID,
		OwnerName:    account.OwnerName,
		PingEnabled:  account.PingEnabled,
		Status:       account.Status,
	}
	if account.LastRunAt != nil {
		encoded.LastRunAt = formatTime(*account.LastRunAt)
	}

	return encoded
}

func fromSchema(entry accountSchema) domain.Account {
	account := domain.Account{
		Name:         entry.Name,
		RestoreCode:  entry.RestoreCode,
		TargetServer: entry.TargetServer,
		OwnerID:      entry.OwnerID,
		OwnerName:    entry.OwnerName,
		PingEnabled:  entry.PingEnabled,
		Status:       entry.Status,
	}
	if lastRun := parseTime(entry.LastRunAt); !lastRun.IsZero() {
		account.LastRunAt = &lastRun
	}

	return account
}

func toSettingsSchema(settings domain.Settings) settingsSchema {
	return settingsSchema{
		CredentialRef:     settings.CredentialRef,
		AdminRoleID:       settings.AdminRoleID,
		LogChannelID:      settings.LogChannelID,
		MuteNotifications: settings.MuteNotifications,
	}
}

func fromSettingsSchema(entry settingsSchema) domain.Settings {
	return domain.Settings{
		CredentialRef:     entry.CredentialRef,
		AdminRoleID:       entry.AdminRoleID,
		LogChannelID:      entry.LogChannelID,
		MuteNotifications: entry.MuteNotifications,
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
