package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bnema/evertext-autopilot/internal/adapters/evertext"
	sqlitehistory "github.com/bnema/evertext-autopilot/internal/adapters/history/sqlite"
	statusadapter "github.com/bnema/evertext-autopilot/internal/adapters/render/status"
	tomlrepo "github.com/bnema/evertext-autopilot/internal/adapters/repo/toml"
	chainstore "github.com/bnema/evertext-autopilot/internal/adapters/secrets/chain"
	filestore "github.com/bnema/evertext-autopilot/internal/adapters/secrets/file"
	"github.com/bnema/evertext-autopilot/internal/application"
	"github.com/bnema/evertext-autopilot/internal/config"
	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/logging"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// configPathEnv points at an alternate config file.
const configPathEnv = "EA_CONFIG"

type app struct {
	cfg             *viper.Viper
	logger          *logrus.Logger
	store           *tomlrepo.Store
	secrets         ports.SecretStore
	accounts        *application.AccountService
	gate            *application.Gate
	dialer          ports.SessionDialer
	location        *time.Location
	statusRenderer  func([]domain.Account, statusadapter.RenderOptions) (string, error)
	historyRenderer func([]domain.RunRecord, statusadapter.RenderOptions) (string, error)
	openHistory     func(ctx context.Context) (*sqlitehistory.Store, error)
	clock           ports.Clock
}

func wireApp() (*app, error) {
	cfg, err := config.Load(os.Getenv(configPathEnv))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.GetString(config.LogLevel), cfg.GetString(config.LogFormat), os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	clock := ports.SystemClock{}

	store, err := tomlrepo.NewStore(cfg, clock)
	if err != nil {
		return nil, fmt.Errorf("wire account store: %w", err)
	}

	secrets, err := wireSecrets(cfg)
	if err != nil {
		return nil, err
	}

	location, err := application.LoadLocation(cfg.GetString(config.ScheduleTimezone))
	if err != nil {
		return nil, fmt.Errorf("wire schedule timezone: %w", err)
	}

	dialer := evertext.NewDialer(evertext.DialerConfig{
		URL:              cfg.GetString(config.RemoteURL),
		UserAgent:        cfg.GetString(config.RemoteUserAgent),
		HandshakeTimeout: cfg.GetDuration(config.RemoteHandshakeTimeout),
	}, clock, logger)

	return &app{
		cfg:             cfg,
		logger:          logger,
		store:           store,
		secrets:         secrets,
		accounts:        application.NewAccountService(store, secrets, cfg.GetString(config.CredentialKey)),
		gate:            application.NewGate(),
		dialer:          dialer,
		location:        location,
		statusRenderer:  statusadapter.Render,
		historyRenderer: statusadapter.RenderHistory,
		openHistory: func(ctx context.Context) (*sqlitehistory.Store, error) {
			return sqlitehistory.NewStore(ctx, cfg, clock)
		},
		clock: clock,
	}, nil
}

func wireSecrets(cfg *viper.Viper) (ports.SecretStore, error) {
	backend, err := config.ValidateSecretsBackend(cfg)
	if err != nil {
		return nil, err
	}

	root := cfg.GetString(config.SecretsDir)
	if root == "" {
		if root, err = filestore.DefaultRoot(); err != nil {
			return nil, err
		}
	}

	if backend == config.BackendFile {
		return filestore.NewStore(root), nil
	}

	store, err := chainstore.NewPassFirstWithFileFallback(root)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}
	return store, nil
}

// newQueue builds a queue that reports through notifier and records every
// attempt in recorder.
func (a *app) newQueue(notifier ports.Notifier, recorder ports.RunRecorder) *application.Queue {
	return application.NewQueue(application.QueueDeps{
		Store:     a.store,
		Secrets:   a.secrets,
		Dialer:    a.dialer,
		Recorder:  recorder,
		Announcer: application.NewAnnouncer(a.store, notifier, a.logger),
		Gate:      a.gate,
		Clock:     a.clock,
		Logger:    a.logger,
	})
}

func (a *app) renderOptions() statusadapter.RenderOptions {
	return statusadapter.RenderOptions{Now: a.clock.Now(), Location: a.location}
}

// watchConfig reapplies the log level whenever the config file changes.
func (a *app) watchConfig() {
	config.Watch(a.cfg, func(v *viper.Viper) {
		level := v.GetString(config.LogLevel)
		if err := logging.SetLevel(a.logger, level); err != nil {
			a.logger.WithError(err).Warn("reload log level")
			return
		}
		a.logger.WithField("level", level).Info("config reloaded")
	})
}
