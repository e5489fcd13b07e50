// Package config layers defaults, an optional TOML file and environment
// variables into one viper instance.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	StorePath              = "store.path"
	SecretsDir             = "secrets.dir"
	SecretsBackend         = "secrets.backend"
	CredentialKey          = "secrets.credential_key"
	HistoryPath            = "history.path"
	RemoteURL              = "remote.url"
	RemoteUserAgent        = "remote.user_agent"
	RemoteHandshakeTimeout = "remote.handshake_timeout"
	ScheduleTimezone       = "schedule.timezone"
	ScheduleTick           = "schedule.tick"
	DiscordToken           = "discord.token"
	LogLevel               = "log.level"
	LogFormat              = "log.format"

	EnvPrefix = "EA"

	BackendChain = "chain"
	BackendFile  = "file"

	baseDir        = ".evertext"
	configFileName = "config.toml"
)

var ErrUnknownSecretsBackend = errors.New("unknown secrets backend")

// legacyEnv maps keys onto the variable names older deployments export.
var legacyEnv = map[string]string{
	StorePath:    "DATABASE_PATH",
	DiscordToken: "DISCORD_TOKEN",
}

// Load builds the configuration. An empty path means ~/.evertext/config.toml;
// a missing file is not an error.
func Load(path string) (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, filepath.Join(homeDir, baseDir))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+envName(key), legacy); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path == "" {
		path = filepath.Join(homeDir, baseDir, configFileName)
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return v, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(StorePath, filepath.Join(dir, "accounts.toml"))
	v.SetDefault(SecretsDir, filepath.Join(dir, "secrets"))
	v.SetDefault(SecretsBackend, BackendChain)
	v.SetDefault(CredentialKey, "evertext/session")
	v.SetDefault(HistoryPath, filepath.Join(dir, "history.db"))
	v.SetDefault(RemoteURL, "wss://evertext.sytes.net/socket.io/?EIO=4&transport=websocket")
	v.SetDefault(RemoteUserAgent, "")
	v.SetDefault(RemoteHandshakeTimeout, 20*time.Second)
	v.SetDefault(ScheduleTimezone, "Asia/Jakarta")
	v.SetDefault(ScheduleTick, time.Minute)
	v.SetDefault(DiscordToken, "")
	v.SetDefault(LogLevel, "info")
	v.SetDefault(LogFormat, "text")
}

// Watch calls onChange after every write to the loaded config file. It is a
// no-op when no file was read.
func Watch(v *viper.Viper, onChange func(*viper.Viper)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return
	}

	v.OnConfigChange(func(event fsnotify.Event) {
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			return
		}
		onChange(v)
	})
	v.WatchConfig()
}

// ValidateSecretsBackend rejects values other than chain and file.
func ValidateSecretsBackend(v *viper.Viper) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(v.GetString(SecretsBackend)))
	switch backend {
	case BackendChain, BackendFile:
		return backend, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSecretsBackend, backend)
	}
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
