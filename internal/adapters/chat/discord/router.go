package discord

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bnema/evertext-autopilot/internal/application"
	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	replyAdminRequired = "Admin permissions required."
	replyUnknown       = "Unknown command."
	replyInternalError = "Something went wrong, check the bot logs."

	// maxMessageRunes is the chat platform's message length limit.
	maxMessageRunes = 2000
)

// Accounts is the admin surface the router drives.
type Accounts interface {
	Add(ctx context.Context, account domain.Account) error
	Remove(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]domain.Account, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)
	TogglePing(ctx context.Context, ownerID string) (bool, error)
	Settings(ctx context.Context) (domain.Settings, error)
	SetCredential(ctx context.Context, value string) error
	SetLogChannel(ctx context.Context, channelID string) error
	SetAdminRole(ctx context.Context, roleID string) error
	SetMute(ctx context.Context, mute bool) error
}

// Runner starts and stops automation runs.
type Runner interface {
	Drain(ctx context.Context, trigger application.Trigger) error
	RunSingle(ctx context.Context, name string, trigger application.Trigger) error
	Stop() bool
}

// Request is one slash command invocation, already resolved from the
// platform payload.
type Request struct {
	Command     string
	UserID      string
	UserName    string
	ChannelID   string
	GuildOwner  string
	MemberRoles []string
	Options     map[string]any
}

func (r Request) str(name string) string {
	value, _ := r.Options[name].(string)
	return strings.TrimSpace(value)
}

func (r Request) boolean(name string) (bool, bool) {
	value, ok := r.Options[name].(bool)
	return value, ok
}

func (r Request) isGuildOwner() bool {
	return r.UserID != "" && r.UserID == r.GuildOwner
}

// Router maps slash commands onto account operations and queue runs. Runs
// are started in the background and outlive the interaction that asked for
// them.
type Router struct {
	accounts Accounts
	runner   Runner
	logger   logrus.FieldLogger

	mu      sync.Mutex
	baseCtx context.Context
	jobs    sync.WaitGroup
}

func NewRouter(accounts Accounts, runner Runner, logger logrus.FieldLogger) *Router {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Router{
		accounts: accounts,
		runner:   runner,
		logger:   logger.WithField("component", "discord-router"),
		baseCtx:  context.Background(),
	}
}

// Bind sets the context background runs are started with.
func (r *Router) Bind(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseCtx = ctx
}

// Wait blocks until every background run started by the router returned.
func (r *Router) Wait() {
	r.jobs.Wait()
}

// Handle returns the interaction reply for req.
func (r *Router) Handle(ctx context.Context, req Request) string {
	logger := r.logger.WithFields(logrus.Fields{
		"command": req.Command,
		"user":    req.UserID,
		"channel": req.ChannelID,
	})
	logger.Info("slash command")

	reply, err := r.dispatch(ctx, req)
	if err != nil {
		logger.WithError(err).Error("slash command failed")
		return replyInternalError
	}

	return clip(reply)
}

func (r *Router) dispatch(ctx context.Context, req Request) (string, error) {
	switch req.Command {
	case "list_accounts":
		accounts, err := r.accounts.List(ctx)
		if err != nil {
			return "", err
		}
		return listReply(accounts, "No accounts registered."), nil

	case "list_my_accounts":
		accounts, err := r.accounts.ListByOwner(ctx, req.UserID)
		if err != nil {
			return "", err
		}
		return listReply(accounts, "You have no accounts registered."), nil

	case "add_account":
		return r.addAccount(ctx, req)

	case "remove_account":
		name := req.str("name")
		removed, err := r.accounts.Remove(ctx, name)
		if err != nil {
			return "", err
		}
		if !removed {
			return fmt.Sprintf("Account **%s** not found.", name), nil
		}
		return fmt.Sprintf("Successfully removed account **%s**.", name), nil

	case "toggle_ping":
		enabled, err := r.accounts.TogglePing(ctx, req.UserID)
		if errors.Is(err, domain.ErrNoOwnedAccounts) {
			return "Error: No accounts found for this user.", nil
		}
		if err != nil {
			return "", err
		}
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		return fmt.Sprintf("Pings now **%s** for all your accounts.", state), nil

	case "force_run":
		target := req.str("name")
		if target == "" || strings.EqualFold(target, "all") {
			r.spawn(func(ctx context.Context) error {
				return r.runner.Drain(ctx, application.Trigger{OwnerID: req.UserID, ChannelID: req.ChannelID})
			})
			return "Queued all your accounts for execution.", nil
		}
		r.spawn(func(ctx context.Context) error {
			return r.runner.RunSingle(ctx, target, application.Trigger{ChannelID: req.ChannelID})
		})
		return fmt.Sprintf("Force run initiated for **%s**.", target), nil

	case "force_run_all":
		return r.asAdmin(ctx, req, func() (string, error) {
			r.spawn(func(ctx context.Context) error {
				return r.runner.Drain(ctx, application.Trigger{ChannelID: req.ChannelID})
			})
			return "Starting ALL pending accounts...", nil
		})

	case "force_stop_all":
		return r.asAdmin(ctx, req, func() (string, error) {
			r.runner.Stop()
			return "Queue processing halted.", nil
		})

	case "mute_bot", "unmute_bot":
		mute := req.Command == "mute_bot"
		return r.asAdmin(ctx, req, func() (string, error) {
			if err := r.accounts.SetMute(ctx, mute); err != nil {
				return "", err
			}
			if mute {
				return "Bot messages muted.", nil
			}
			return "Bot messages unmuted.", nil
		})

	case "set_log_channel":
		return r.asAdmin(ctx, req, func() (string, error) {
			channel := req.str("channel")
			if channel == "" {
				return "A channel is required.", nil
			}
			if err := r.accounts.SetLogChannel(ctx, channel); err != nil {
				return "", err
			}
			return fmt.Sprintf("Log channel set to <#%s>.", channel), nil
		})

	case "set_admin_role":
		if !req.isGuildOwner() {
			return "Only the server owner can set the admin role.", nil
		}
		role := req.str("role")
		if role == "" {
			return "A role is required.", nil
		}
		if err := r.accounts.SetAdminRole(ctx, role); err != nil {
			return "", err
		}
		return fmt.Sprintf("Admin role set to <@&%s>.", role), nil

	case "set_cookies":
		return r.asAdmin(ctx, req, func() (string, error) {
			err := r.accounts.SetCredential(ctx, req.str("cookie"))
			if errors.Is(err, application.ErrCredentialEmpty) {
				return "A cookie value is required.", nil
			}
			if err != nil {
				return "", err
			}
			return "Session cookies updated.", nil
		})

	default:
		return replyUnknown, nil
	}
}

func (r *Router) addAccount(ctx context.Context, req Request) (string, error) {
	account := domain.Account{
		Name:        req.str("name"),
		RestoreCode: req.str("code"),
		OwnerID:     req.UserID,
		OwnerName:   req.UserName,
	}
	if selection, ok := req.boolean("toggle_server_selection"); !ok || selection {
		account.TargetServer = req.str("server")
	}

	err := r.accounts.Add(ctx, account)
	if errors.Is(err, domain.ErrAccountNameRequired) || errors.Is(err, domain.ErrRestoreCodeRequired) {
		return fmt.Sprintf("Could not add account: %s.", err), nil
	}
	if err != nil {
		return "", err
	}

	r.spawn(func(ctx context.Context) error {
		return r.runner.Drain(ctx, application.Trigger{OwnerID: req.UserID, ChannelID: req.ChannelID})
	})

	return fmt.Sprintf("Successfully added account **%s**.", account.Name), nil
}

// asAdmin runs fn when the caller holds the configured admin role, or owns
// the guild when no role grants access.
func (r *Router) asAdmin(ctx context.Context, req Request, fn func() (string, error)) (string, error) {
	settings, err := r.accounts.Settings(ctx)
	if err != nil {
		return "", err
	}

	if settings.AdminRoleID != "" && slices.Contains(req.MemberRoles, settings.AdminRoleID) {
		return fn()
	}
	if req.isGuildOwner() {
		return fn()
	}

	return replyAdminRequired, nil
}

func (r *Router) spawn(run func(ctx context.Context) error) {
	r.mu.Lock()
	ctx := r.baseCtx
	r.mu.Unlock()

	r.jobs.Add(1)
	go func() {
		defer r.jobs.Done()
		if err := run(ctx); err != nil && !errors.Is(err, domain.ErrQueueBusy) && !errors.Is(err, context.Canceled) {
			r.logger.WithError(err).Warn("background run ended with error")
		}
	}()
}

func listReply(accounts []domain.Account, empty string) string {
	if len(accounts) == 0 {
		return empty
	}

	lines := make([]string, 0, len(accounts))
	for _, account := range accounts {
		lastRun := "Never"
		if account.LastRunAt != nil {
			lastRun = account.LastRunAt.UTC().Format(time.RFC3339)
		}
		status := account.Status
		if status == "" {
			status = domain.StatusPending
		}
		lines = append(lines, fmt.Sprintf("- **%s**: %s (Last Run: %s)", account.Name, status, lastRun))
	}

	return strings.Join(lines, "\n")
}

func clip(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageRunes {
		return text
	}

	return string(runes[:maxMessageRunes-1]) + "…"
}
