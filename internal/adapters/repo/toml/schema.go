package toml

import (
	"fmt"

	"github.com/bnema/evertext-autopilot/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Settings settingsSchema  `toml:"settings"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	for i := range s.Accounts {
		if s.Accounts[i].Status == "" {
			s.Accounts[i].Status = domain.StatusPending
		}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported store schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type settingsSchema struct {
	CredentialRef     string `toml:"credential_ref,omitempty"`
	AdminRoleID       string `toml:"admin_role_id,omitempty"`
	LogChannelID      string `toml:"log_channel_id,omitempty"`
	MuteNotifications bool   `toml:"mute_notifications"`
}

type accountSchema struct {
	Name         string `toml:"name"`
	RestoreCode  string `toml:"restore_code"`
	TargetServer string `toml:"target_server,omitempty"`
	OwnerID      string `toml:"owner_id,omitempty"`
	OwnerName    string `toml:"owner_name,omitempty"`
	PingEnabled  bool   `toml:"ping_enabled"`
	Status       string `toml:"status"`
	LastRunAt    string `toml:"last_run_at,omitempty"`
}
